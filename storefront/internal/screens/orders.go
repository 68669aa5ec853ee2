package screens

import (
	"context"
	"sync"

	"overcooked-storefront/storefront/internal/domain"
	"overcooked-storefront/storefront/internal/session"

	"github.com/sirupsen/logrus"
)

const (
	msgOrdersFailed   = "There was an error while retrieving your orders."
	msgOrdersLoggedIn = "You need to be logged in to access your orders."
	msgNoOrders       = "You have no orders created."
)

type OrderCard struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	LogoURL   string `json:"logoUrl,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	Price     string `json:"price,omitempty"`
	Target    Route  `json:"target"`
}

type OrdersView struct {
	Authenticated bool           `json:"authenticated"`
	Orders        []OrderCard    `json:"orders"`
	EmptyMessage  string         `json:"emptyMessage,omitempty"`
	Notifications []Notification `json:"notifications,omitempty"`
}

// OrdersScreen lists the orders of the logged-in user. It reloads whenever the
// session identity changes.
type OrdersScreen struct {
	orders    OrderEndpoints
	imageBase string
	log       logrus.FieldLogger

	mu            sync.Mutex
	fx            effect[string]
	loggedIn      bool
	orderSet      []domain.Order
	notifications []Notification
}

func NewOrdersScreen(orders OrderEndpoints, imageBase string, logger logrus.FieldLogger) *OrdersScreen {
	return &OrdersScreen{
		orders:    orders,
		imageBase: imageBase,
		log:       orDiscard(logger).WithField("screen", OrdersRoute),
	}
}

// Sync loads only when the session identity differs from the last load.
func (s *OrdersScreen) Sync(ctx context.Context, sess *session.Session) OrdersView {
	s.mu.Lock()
	changed := s.fx.changed(sess.Identity())
	s.mu.Unlock()
	if !changed {
		return s.View()
	}
	return s.Load(ctx, sess)
}

func (s *OrdersScreen) Load(ctx context.Context, sess *session.Session) OrdersView {
	identity := sess.Identity()

	s.mu.Lock()
	if s.fx.ran && s.fx.deps != identity {
		s.orderSet = nil
	}
	runCtx, gen := s.fx.begin(ctx, identity)
	s.loggedIn = sess.LoggedIn()
	if !s.loggedIn {
		s.orderSet = nil
		s.notifications = nil
		s.fx.done(gen)
		view := s.viewLocked()
		s.mu.Unlock()
		return view
	}
	s.mu.Unlock()

	orders, err := s.orders.ListMine(session.NewContext(runCtx, sess))

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
		s.log.WithError(err).Warn("failed to fetch orders")
		s.notifications = []Notification{errorNotification(msgOrdersFailed, err)}
		return s.viewLocked()
	}
	s.orderSet = orders
	return s.viewLocked()
}

func (s *OrdersScreen) View() OrdersView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *OrdersScreen) viewLocked() OrdersView {
	view := OrdersView{
		Authenticated: s.loggedIn,
		Notifications: append([]Notification(nil), s.notifications...),
	}
	if !s.loggedIn {
		view.EmptyMessage = msgOrdersLoggedIn
		return view
	}

	view.Orders = make([]OrderCard, 0, len(s.orderSet))
	for _, o := range s.orderSet {
		view.Orders = append(view.Orders, s.card(o))
	}
	if len(view.Orders) == 0 {
		view.EmptyMessage = msgNoOrders
	}
	return view
}

func (s *OrdersScreen) card(o domain.Order) OrderCard {
	card := OrderCard{
		ID:        o.ID,
		CreatedAt: formatTime(o.CreatedAt, cardDateTime),
		Target:    Route{Name: OrderDetailRoute, ID: o.ID},
	}
	if o.Restaurant != nil {
		card.Title = o.Restaurant.Name
		card.LogoURL = imageURL(s.imageBase, o.Restaurant.Logo)
	}
	if card.CreatedAt != "" {
		if card.Title != "" {
			card.Title += ": "
		}
		card.Title += card.CreatedAt
	}
	if o.Price != nil {
		card.Price = plainEuros(*o.Price)
		if o.ShippingCosts != 0 {
			card.Price += " (Shipping costs: " + plainEuros(o.ShippingCosts) + ")"
		}
	}
	return card
}
