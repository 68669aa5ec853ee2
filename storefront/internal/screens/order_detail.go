package screens

import (
	"context"
	"sync"

	"overcooked-storefront/storefront/internal/domain"
	"overcooked-storefront/storefront/internal/session"

	"github.com/sirupsen/logrus"
)

const (
	msgOrderFailed     = "There was an error while retrieving the details of your order."
	msgNoOrderProducts = "This order has no products."
)

type OrderHeader struct {
	OrderID        int    `json:"orderId"`
	RestaurantName string `json:"restaurantName"`
	Description    string `json:"description"`
	LogoURL        string `json:"logoUrl,omitempty"`
	HeroImageURL   string `json:"heroImageUrl,omitempty"`
	Address        string `json:"address,omitempty"`
	Price          string `json:"price,omitempty"`
	CreatedAt      string `json:"createdAt,omitempty"`
}

type OrderLineView struct {
	ProductID   int    `json:"productId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	Total       string `json:"total"`
}

type OrderDetailView struct {
	Header        *OrderHeader    `json:"header,omitempty"`
	Lines         []OrderLineView `json:"lines"`
	EmptyMessage  string          `json:"emptyMessage,omitempty"`
	Notifications []Notification  `json:"notifications,omitempty"`
}

// OrderDetailScreen shows one order with its restaurant and product lines.
type OrderDetailScreen struct {
	orders    OrderEndpoints
	imageBase string
	log       logrus.FieldLogger

	mu            sync.Mutex
	fx            effect[int]
	order         *domain.Order
	notifications []Notification
}

func NewOrderDetailScreen(orders OrderEndpoints, imageBase string, logger logrus.FieldLogger) *OrderDetailScreen {
	return &OrderDetailScreen{
		orders:    orders,
		imageBase: imageBase,
		log:       orDiscard(logger).WithField("screen", OrderDetailRoute),
	}
}

// Sync loads only when orderID differs from the last load.
func (s *OrderDetailScreen) Sync(ctx context.Context, sess *session.Session, orderID int) OrderDetailView {
	s.mu.Lock()
	changed := s.fx.changed(orderID)
	s.mu.Unlock()
	if !changed {
		return s.View()
	}
	return s.Load(ctx, sess, orderID)
}

func (s *OrderDetailScreen) Load(ctx context.Context, sess *session.Session, orderID int) OrderDetailView {
	s.mu.Lock()
	runCtx, gen := s.fx.begin(ctx, orderID)
	s.mu.Unlock()

	order, err := s.orders.Detail(session.NewContext(runCtx, sess), orderID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.fx.current(gen) {
		return s.viewLocked()
	}
	if ctx.Err() != nil {
		s.fx.abort(gen)
		return s.viewLocked()
	}
	defer s.fx.done(gen)

	s.notifications = nil
	if err != nil {
		s.log.WithError(err).WithField("order_id", orderID).Warn("failed to fetch order")
		s.notifications = []Notification{errorNotification(msgOrderFailed, err)}
		s.order = nil
		return s.viewLocked()
	}
	s.order = order
	return s.viewLocked()
}

// Order returns the loaded order, or nil.
func (s *OrderDetailScreen) Order() *domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order
}

func (s *OrderDetailScreen) View() OrderDetailView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *OrderDetailScreen) viewLocked() OrderDetailView {
	view := OrderDetailView{
		Lines:         []OrderLineView{},
		Notifications: append([]Notification(nil), s.notifications...),
	}
	o := s.order
	if o == nil || o.Restaurant == nil {
		return view
	}

	view.Header = &OrderHeader{
		OrderID:        o.ID,
		RestaurantName: o.Restaurant.Name,
		Description:    o.Restaurant.Description,
		LogoURL:        imageURL(s.imageBase, o.Restaurant.Logo),
		HeroImageURL:   imageURL(s.imageBase, o.Restaurant.HeroImage),
		Address:        o.Address,
		CreatedAt:      formatTime(o.CreatedAt, headerDate),
	}
	if o.Price != nil {
		view.Header.Price = plainEuros(*o.Price)
	}

	for _, p := range o.Products {
		unit := p.OrderProducts.UnitPrice
		if unit == 0 {
			unit = p.Price
		}
		view.Lines = append(view.Lines, OrderLineView{
			ProductID:   p.ID,
			Name:        p.Name,
			Description: p.Description,
			ImageURL:    imageURL(s.imageBase, p.Image),
			Quantity:    p.OrderProducts.Quantity,
			UnitPrice:   euros(unit),
			Total:       lineTotal(unit, p.OrderProducts.Quantity),
		})
	}
	if len(view.Lines) == 0 {
		view.EmptyMessage = msgNoOrderProducts
	}
	return view
}
