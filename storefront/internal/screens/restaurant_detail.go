package screens

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"overcooked-storefront/storefront/internal/client"
	"overcooked-storefront/storefront/internal/domain"
	"overcooked-storefront/storefront/internal/orderform"
	"overcooked-storefront/storefront/internal/session"
	"overcooked-storefront/storefront/internal/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	msgRestaurantFailed     = "There was an error while retrieving the restaurant's details."
	msgNoRestaurantProducts = "This restaurant has no products yet."
)

type DetailPhase string

const (
	PhaseLoading     DetailPhase = "loading"
	PhaseLoaded      DetailPhase = "loaded"
	PhaseUnavailable DetailPhase = "unavailable"
	PhaseSubmitting  DetailPhase = "submitting"
)

type RestaurantHeader struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Category     string `json:"category,omitempty"`
	LogoURL      string `json:"logoUrl,omitempty"`
	HeroImageURL string `json:"heroImageUrl,omitempty"`
}

type FormLine struct {
	ProductID int    `json:"productId"`
	Field     string `json:"field"`
	Quantity  int    `json:"quantity"`
	Error     string `json:"error,omitempty"`
}

type OrderFormView struct {
	Address       string     `json:"address"`
	AddressError  string     `json:"addressError,omitempty"`
	Lines         []FormLine `json:"lines"`
	BackendErrors []string   `json:"backendErrors,omitempty"`
}

type RestaurantDetailView struct {
	Phase         DetailPhase       `json:"phase"`
	Header        *RestaurantHeader `json:"header,omitempty"`
	Products      []ProductCard     `json:"products"`
	EmptyMessage  string            `json:"emptyMessage,omitempty"`
	Form          *OrderFormView    `json:"form,omitempty"`
	Notifications []Notification    `json:"notifications,omitempty"`
}

// DraftEdit carries raw form input. Nil address and missing products are left
// untouched.
type DraftEdit struct {
	Address    *string        `json:"address,omitempty"`
	Quantities map[int]string `json:"quantities,omitempty"`
}

type SubmitResult struct {
	Order    *domain.Order        `json:"order,omitempty"`
	Navigate *Route               `json:"navigate,omitempty"`
	View     RestaurantDetailView `json:"view"`
}

// RestaurantDetailScreen shows one restaurant's catalog and, for logged-in
// users, the order form bound to a draft of that catalog.
type RestaurantDetailScreen struct {
	restaurants RestaurantEndpoints
	orders      OrderEndpoints
	drafts      DraftStore
	events      EventPublisher
	imageBase   string
	log         logrus.FieldLogger

	mu            sync.Mutex
	fx            effect[int]
	phase         DetailPhase
	restaurant    *domain.Restaurant
	draft         domain.OrderDraft
	fieldErrors   orderform.FieldErrors
	backendErrors []string
	notifications []Notification
	showForm      bool
}

func NewRestaurantDetailScreen(restaurants RestaurantEndpoints, orders OrderEndpoints, drafts DraftStore, events EventPublisher, imageBase string, logger logrus.FieldLogger) *RestaurantDetailScreen {
	return &RestaurantDetailScreen{
		restaurants: restaurants,
		orders:      orders,
		drafts:      drafts,
		events:      events,
		imageBase:   imageBase,
		log:         orDiscard(logger).WithField("screen", RestaurantDetailRoute),
		phase:       PhaseLoading,
	}
}

// Sync loads only when restaurantID differs from the last load.
func (s *RestaurantDetailScreen) Sync(ctx context.Context, sess *session.Session, restaurantID int) RestaurantDetailView {
	s.mu.Lock()
	changed := s.fx.changed(restaurantID)
	s.showForm = sess.LoggedIn()
	s.mu.Unlock()
	if !changed {
		return s.View()
	}
	return s.Load(ctx, sess, restaurantID)
}

func (s *RestaurantDetailScreen) Load(ctx context.Context, sess *session.Session, restaurantID int) RestaurantDetailView {
	s.mu.Lock()
	runCtx, gen := s.fx.begin(ctx, restaurantID)
	prev := s.phase
	s.phase = PhaseLoading
	s.showForm = sess.LoggedIn()
	s.mu.Unlock()

	log := s.log.WithField("restaurant_id", restaurantID)
	restaurant, err := s.restaurants.Detail(session.NewContext(runCtx, sess), restaurantID)

	var draft domain.OrderDraft
	if err == nil {
		draft = s.restoreDraft(runCtx, sess, *restaurant)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.fx.current(gen) {
		return s.viewLocked()
	}
	if ctx.Err() != nil {
		s.fx.abort(gen)
		if s.phase == PhaseLoading {
			s.phase = prev
			if prev == PhaseLoading && s.restaurant != nil {
				s.phase = PhaseLoaded
			}
		}
		return s.viewLocked()
	}
	defer s.fx.done(gen)

	s.notifications = nil
	s.fieldErrors = nil
	s.backendErrors = nil
	if err != nil {
		log.WithError(err).Warn("failed to fetch restaurant")
		s.notifications = []Notification{errorNotification(msgRestaurantFailed, err)}
		s.restaurant = nil
		s.draft = domain.OrderDraft{}
		s.phase = PhaseUnavailable
		return s.viewLocked()
	}

	s.restaurant = restaurant
	s.draft = draft
	s.phase = PhaseLoaded
	return s.viewLocked()
}

func (s *RestaurantDetailScreen) restoreDraft(ctx context.Context, sess *session.Session, restaurant domain.Restaurant) domain.OrderDraft {
	if s.drafts == nil || !sess.LoggedIn() {
		return orderform.NewDraft(restaurant)
	}
	saved, err := s.drafts.Load(ctx, sess.Identity(), restaurant.ID)
	if err != nil {
		if !errors.Is(err, storage.ErrDraftNotFound) {
			s.log.WithError(err).WithField("restaurant_id", restaurant.ID).Error("failed to load saved draft")
		}
		return orderform.NewDraft(restaurant)
	}
	return orderform.Reconcile(*saved, restaurant)
}

// Edit applies raw form input to the draft. Quantities that are not whole
// numbers are reported as field errors and leave their line unchanged.
func (s *RestaurantDetailScreen) Edit(ctx context.Context, sess *session.Session, edit DraftEdit) (RestaurantDetailView, error) {
	if !sess.LoggedIn() {
		return s.View(), ErrNotAuthenticated
	}

	s.mu.Lock()
	if s.restaurant == nil {
		view := s.viewLocked()
		s.mu.Unlock()
		return view, ErrNoRestaurant
	}
	if s.phase == PhaseLoading {
		view := s.viewLocked()
		s.mu.Unlock()
		return view, ErrLoadInFlight
	}

	if edit.Address != nil {
		s.draft.Address = *edit.Address
		delete(s.fieldErrors, "address")
	}

	var editErr error
	for productID, raw := range edit.Quantities {
		field, ok := s.fieldFor(productID)
		if !ok {
			editErr = errors.Join(editErr, fmt.Errorf("%w: %d", orderform.ErrUnknownProduct, productID))
			continue
		}
		quantity, err := orderform.ParseQuantity(raw)
		if err != nil {
			if s.fieldErrors == nil {
				s.fieldErrors = orderform.FieldErrors{}
			}
			s.fieldErrors[field] = orderform.MsgQuantityNotNumber
			editErr = errors.Join(editErr, fmt.Errorf("%w: %w", ErrValidation, err))
			continue
		}
		_ = orderform.SetQuantity(&s.draft, productID, quantity)
		delete(s.fieldErrors, field)
	}

	draft := orderform.Clone(s.draft)
	view := s.viewLocked()
	s.mu.Unlock()

	s.saveDraft(ctx, sess, draft)
	return view, editErr
}

func (s *RestaurantDetailScreen) fieldFor(productID int) (string, bool) {
	for i, line := range s.draft.Products {
		if line.ProductID == productID {
			return "products." + strconv.Itoa(i) + ".quantity", true
		}
	}
	return "", false
}

func (s *RestaurantDetailScreen) saveDraft(ctx context.Context, sess *session.Session, draft domain.OrderDraft) {
	if s.drafts == nil {
		return
	}
	if err := s.drafts.Save(ctx, sess.Identity(), draft); err != nil {
		s.log.WithError(err).WithField("restaurant_id", draft.RestaurantID).Error("failed to save draft")
	}
}

// Submit validates the draft and sends its non-zero lines as a new order. On
// success the draft is discarded and the result asks to navigate back to the
// restaurant list. On failure the draft is kept for correction.
func (s *RestaurantDetailScreen) Submit(ctx context.Context, sess *session.Session) (SubmitResult, error) {
	if !sess.LoggedIn() {
		return SubmitResult{View: s.View()}, ErrNotAuthenticated
	}

	s.mu.Lock()
	if s.restaurant == nil {
		view := s.viewLocked()
		s.mu.Unlock()
		return SubmitResult{View: view}, ErrNoRestaurant
	}
	switch s.phase {
	case PhaseSubmitting:
		view := s.viewLocked()
		s.mu.Unlock()
		return SubmitResult{View: view}, ErrSubmitInFlight
	case PhaseLoading:
		view := s.viewLocked()
		s.mu.Unlock()
		return SubmitResult{View: view}, ErrLoadInFlight
	}

	s.backendErrors = nil
	s.notifications = nil
	if errs := orderform.Validate(s.draft); errs != nil {
		s.fieldErrors = errs
		view := s.viewLocked()
		s.mu.Unlock()
		return SubmitResult{View: view}, fmt.Errorf("%w: %w", ErrValidation, errs)
	}
	s.fieldErrors = nil
	payload := orderform.Payload(s.draft)
	s.phase = PhaseSubmitting
	s.mu.Unlock()

	log := s.log.WithField("restaurant_id", payload.RestaurantID)
	order, err := s.orders.Create(session.NewContext(ctx, sess), payload)

	if err != nil {
		messages := backendMessages(err)
		log.WithError(err).Warn("order rejected")
		s.publish(ctx, domain.Event{
			Type:         domain.EventOrderRejected,
			UserID:       sess.Identity(),
			RestaurantID: payload.RestaurantID,
			Lines:        len(payload.Products),
			Errors:       messages,
		})

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.sameRestaurantLocked(payload.RestaurantID) {
			s.backendErrors = messages
			s.phase = PhaseLoaded
		}
		return SubmitResult{View: s.viewLocked()}, err
	}

	log.WithField("order_id", order.ID).Info("order created")
	if s.drafts != nil {
		if err := s.drafts.Delete(ctx, sess.Identity(), payload.RestaurantID); err != nil {
			log.WithError(err).Error("failed to delete submitted draft")
		}
	}
	s.publish(ctx, domain.Event{
		Type:         domain.EventOrderCreated,
		UserID:       sess.Identity(),
		RestaurantID: payload.RestaurantID,
		OrderID:      order.ID,
		Lines:        len(payload.Products),
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sameRestaurantLocked(payload.RestaurantID) {
		s.draft = orderform.NewDraft(*s.restaurant)
		s.phase = PhaseLoaded
		s.notifications = []Notification{{
			Kind:    NotifySuccess,
			Message: fmt.Sprintf("Order %d successfully created", order.ID),
		}}
	}
	return SubmitResult{
		Order:    order,
		Navigate: &Route{Name: RestaurantsRoute, Dirty: true},
		View:     s.viewLocked(),
	}, nil
}

func (s *RestaurantDetailScreen) sameRestaurantLocked(id int) bool {
	return s.restaurant != nil && s.restaurant.ID == id
}

// backendMessages extracts the field messages of a rejected create-order call.
// Errors without a message list surface as a single message.
func backendMessages(err error) []string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && len(apiErr.Errors) > 0 {
		return apiErr.Messages()
	}
	return []string{err.Error()}
}

func (s *RestaurantDetailScreen) publish(ctx context.Context, event domain.Event) {
	if s.events == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.WithError(err).WithField("event", event.Type).Error("failed to publish event")
	}
}

// Draft returns a copy of the current draft.
func (s *RestaurantDetailScreen) Draft() domain.OrderDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return orderform.Clone(s.draft)
}

func (s *RestaurantDetailScreen) View() RestaurantDetailView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *RestaurantDetailScreen) viewLocked() RestaurantDetailView {
	view := RestaurantDetailView{
		Phase:         s.phase,
		Products:      []ProductCard{},
		Notifications: append([]Notification(nil), s.notifications...),
	}
	if s.restaurant == nil {
		return view
	}

	r := s.restaurant
	view.Header = &RestaurantHeader{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		LogoURL:      imageURL(s.imageBase, r.Logo),
		HeroImageURL: imageURL(s.imageBase, r.HeroImage),
	}
	if r.RestaurantCategory != nil {
		view.Header.Category = r.RestaurantCategory.Name
	}

	for _, p := range r.Products {
		view.Products = append(view.Products, ProductCard{
			ID:           p.ID,
			RestaurantID: r.ID,
			Title:        p.Name,
			Description:  p.Description,
			ImageURL:     imageURL(s.imageBase, p.Image),
			Price:        euros(p.Price),
		})
	}
	if len(view.Products) == 0 {
		view.EmptyMessage = msgNoRestaurantProducts
	}

	if !s.showForm {
		return view
	}
	form := &OrderFormView{
		Address:       s.draft.Address,
		AddressError:  s.fieldErrors["address"],
		Lines:         make([]FormLine, 0, len(s.draft.Products)),
		BackendErrors: append([]string(nil), s.backendErrors...),
	}
	for i, line := range s.draft.Products {
		field := "products." + strconv.Itoa(i) + ".quantity"
		form.Lines = append(form.Lines, FormLine{
			ProductID: line.ProductID,
			Field:     field,
			Quantity:  line.Quantity,
			Error:     s.fieldErrors[field],
		})
	}
	view.Form = form
	return view
}
