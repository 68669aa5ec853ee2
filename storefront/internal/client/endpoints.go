package client

import (
	"context"
	"strconv"

	"overcooked-storefront/storefront/internal/domain"
)

type RestaurantAPI struct {
	r *Requester
}

func NewRestaurantAPI(r *Requester) *RestaurantAPI {
	return &RestaurantAPI{r: r}
}

// ListPublic does not require a session.
func (a *RestaurantAPI) ListPublic(ctx context.Context) ([]domain.Restaurant, error) {
	var restaurants []domain.Restaurant
	if err := a.r.Get(ctx, "restaurants", &restaurants); err != nil {
		return nil, err
	}
	return restaurants, nil
}

// ListOwned returns the restaurants of the logged-in owner.
func (a *RestaurantAPI) ListOwned(ctx context.Context) ([]domain.Restaurant, error) {
	var restaurants []domain.Restaurant
	if err := a.r.Get(ctx, "users/myrestaurants", &restaurants); err != nil {
		return nil, err
	}
	return restaurants, nil
}

func (a *RestaurantAPI) Detail(ctx context.Context, id int) (*domain.Restaurant, error) {
	var restaurant domain.Restaurant
	if err := a.r.Get(ctx, "restaurants/"+strconv.Itoa(id), &restaurant); err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (a *RestaurantAPI) Categories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := a.r.Get(ctx, "restaurantCategories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

type ProductAPI struct {
	r *Requester
}

func NewProductAPI(r *Requester) *ProductAPI {
	return &ProductAPI{r: r}
}

func (a *ProductAPI) Categories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := a.r.Get(ctx, "productCategories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (a *ProductAPI) Popular(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := a.r.Get(ctx, "/products/popular", &products); err != nil {
		return nil, err
	}
	return products, nil
}

type OrderAPI struct {
	r *Requester
}

func NewOrderAPI(r *Requester) *OrderAPI {
	return &OrderAPI{r: r}
}

// ListMine returns the orders of the session found on ctx.
func (a *OrderAPI) ListMine(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := a.r.Get(ctx, "orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (a *OrderAPI) Detail(ctx context.Context, id int) (*domain.Order, error) {
	var order domain.Order
	if err := a.r.Get(ctx, "orders/"+strconv.Itoa(id), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (a *OrderAPI) Create(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	var order domain.Order
	if err := a.r.Post(ctx, "orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
