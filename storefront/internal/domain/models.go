package domain

import "time"

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Restaurant struct {
	ID                    int        `json:"id"`
	Name                  string     `json:"name"`
	Description           string     `json:"description"`
	Address               string     `json:"address"`
	Logo                  string     `json:"logo"`
	HeroImage             string     `json:"heroImage"`
	ShippingCosts         float64    `json:"shippingCosts"`
	AverageServiceMinutes *float64   `json:"averageServiceMinutes"`
	RestaurantCategoryID  int        `json:"restaurantCategoryId"`
	RestaurantCategory    *Category  `json:"restaurantCategory,omitempty"`
	Products              []Product  `json:"products,omitempty"`
	CreatedAt             *time.Time `json:"createdAt,omitempty"`
}

type Product struct {
	ID                int       `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Price             float64   `json:"price"`
	Image             string    `json:"image"`
	RestaurantID      int       `json:"restaurantId"`
	ProductCategoryID int       `json:"productCategoryId"`
	ProductCategory   *Category `json:"productCategory,omitempty"`
}

// OrderProductLine is the join row the API embeds in every ordered product.
type OrderProductLine struct {
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unityPrice"`
}

type OrderedProduct struct {
	Product
	OrderProducts OrderProductLine `json:"OrderProducts"`
}

type Order struct {
	ID            int              `json:"id"`
	CreatedAt     *time.Time       `json:"createdAt"`
	Price         *float64         `json:"price"`
	Address       string           `json:"address"`
	ShippingCosts float64          `json:"shippingCosts"`
	RestaurantID  int              `json:"restaurantId"`
	UserID        int              `json:"userId"`
	Status        string           `json:"status,omitempty"`
	Restaurant    *Restaurant      `json:"restaurant,omitempty"`
	Products      []OrderedProduct `json:"products"`
}

// DraftLine is one editable product-quantity pair of an OrderDraft.
type DraftLine struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity" validate:"min=0,max=100"`
}

// OrderDraft is the client-held order being edited on the restaurant detail
// screen. It always carries one line per catalog product.
type OrderDraft struct {
	RestaurantID int         `json:"restaurantId"`
	Address      string      `json:"address" validate:"required,max=75"`
	Products     []DraftLine `json:"products" validate:"dive"`
}

// CreateOrderRequest is the body of POST orders.
type CreateOrderRequest struct {
	RestaurantID int         `json:"restaurantId"`
	Address      string      `json:"address"`
	Products     []DraftLine `json:"products"`
}

const (
	EventOrderCreated  = "order_created"
	EventOrderRejected = "order_rejected"
)

// Event is published to the storefront event stream after user actions.
type Event struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	UserID       string    `json:"user_id,omitempty"`
	RestaurantID int       `json:"restaurant_id"`
	OrderID      int       `json:"order_id,omitempty"`
	Lines        int       `json:"lines"`
	Errors       []string  `json:"errors,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
