package screens

import (
	"context"
	"strconv"
	"sync"

	"overcooked-storefront/storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

const (
	msgRestaurantsFailed = "There was an error while retrieving restaurants."
	msgTopProductsFailed = "There was an error while retrieving the top 3 products."
)

type RestaurantCard struct {
	ID                 int    `json:"id"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	LogoURL            string `json:"logoUrl,omitempty"`
	AverageServiceTime string `json:"averageServiceTime,omitempty"`
	Shipping           string `json:"shipping"`
	Target             Route  `json:"target"`
}

type RestaurantsView struct {
	TopProducts   []ProductCard    `json:"topProducts"`
	Restaurants   []RestaurantCard `json:"restaurants"`
	Notifications []Notification   `json:"notifications,omitempty"`
}

// RestaurantsScreen lists top products and all restaurants. Both lists are
// fetched independently; a failed fetch keeps the previous list.
type RestaurantsScreen struct {
	restaurants RestaurantEndpoints
	products    ProductEndpoints
	imageBase   string
	log         logrus.FieldLogger

	mu            sync.Mutex
	fx            effect[Route]
	restaurantSet []domain.Restaurant
	topProducts   []domain.Product
	notifications []Notification
}

func NewRestaurantsScreen(restaurants RestaurantEndpoints, products ProductEndpoints, imageBase string, logger logrus.FieldLogger) *RestaurantsScreen {
	return &RestaurantsScreen{
		restaurants: restaurants,
		products:    products,
		imageBase:   imageBase,
		log:         orDiscard(logger).WithField("screen", RestaurantsRoute),
	}
}

// Sync loads only when route differs from the last load.
func (s *RestaurantsScreen) Sync(ctx context.Context, route Route) RestaurantsView {
	s.mu.Lock()
	changed := s.fx.changed(route)
	s.mu.Unlock()
	if !changed {
		return s.View()
	}
	return s.Load(ctx, route)
}

func (s *RestaurantsScreen) Load(ctx context.Context, route Route) RestaurantsView {
	s.mu.Lock()
	runCtx, gen := s.fx.begin(ctx, route)
	s.mu.Unlock()

	var (
		wg                    sync.WaitGroup
		restaurants           []domain.Restaurant
		products              []domain.Product
		restaurantErr, topErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		restaurants, restaurantErr = s.restaurants.ListPublic(runCtx)
	}()
	go func() {
		defer wg.Done()
		products, topErr = s.products.Popular(runCtx)
	}()
	wg.Wait()

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
	if restaurantErr != nil {
		s.log.WithError(restaurantErr).Warn("failed to fetch restaurants")
		s.notifications = append(s.notifications, errorNotification(msgRestaurantsFailed, restaurantErr))
	} else {
		s.restaurantSet = restaurants
	}
	if topErr != nil {
		s.log.WithError(topErr).Warn("failed to fetch top products")
		s.notifications = append(s.notifications, errorNotification(msgTopProductsFailed, topErr))
	} else {
		s.topProducts = products
	}
	return s.viewLocked()
}

func (s *RestaurantsScreen) View() RestaurantsView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *RestaurantsScreen) viewLocked() RestaurantsView {
	view := RestaurantsView{
		TopProducts:   make([]ProductCard, 0, len(s.topProducts)),
		Restaurants:   make([]RestaurantCard, 0, len(s.restaurantSet)),
		Notifications: append([]Notification(nil), s.notifications...),
	}
	for _, p := range s.topProducts {
		view.TopProducts = append(view.TopProducts, ProductCard{
			ID:           p.ID,
			RestaurantID: p.RestaurantID,
			Title:        p.Name,
			Description:  p.Description,
			ImageURL:     imageURL(s.imageBase, p.Image),
			Price:        euros(p.Price),
			Target:       &Route{Name: RestaurantDetailRoute, ID: p.RestaurantID},
		})
	}
	for _, r := range s.restaurantSet {
		card := RestaurantCard{
			ID:          r.ID,
			Title:       r.Name,
			Description: r.Description,
			LogoURL:     imageURL(s.imageBase, r.Logo),
			Shipping:    euros(r.ShippingCosts),
			Target:      Route{Name: RestaurantDetailRoute, ID: r.ID},
		}
		if r.AverageServiceMinutes != nil {
			card.AverageServiceTime = "Avg. service time: " + strconv.FormatFloat(*r.AverageServiceMinutes, 'f', -1, 64) + " min."
		}
		view.Restaurants = append(view.Restaurants, card)
	}
	return view
}
