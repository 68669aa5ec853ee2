package httpapi

import (
	"context"
	"sync"
	"time"

	"overcooked-storefront/storefront/internal/screens"
	"overcooked-storefront/storefront/internal/session"

	"github.com/sirupsen/logrus"
)

// Deps are the collaborators every screen set is built from.
type Deps struct {
	Restaurants screens.RestaurantEndpoints
	Products    screens.ProductEndpoints
	Orders      screens.OrderEndpoints
	Drafts      screens.DraftStore
	Events      screens.EventPublisher
	ImageBase   string
	Logger      logrus.FieldLogger
}

type ScreenSet struct {
	Restaurants      *screens.RestaurantsScreen
	RestaurantDetail *screens.RestaurantDetailScreen
	Orders           *screens.OrdersScreen
	OrderDetail      *screens.OrderDetailScreen

	lastUsed time.Time
}

func newScreenSet(d Deps, logger logrus.FieldLogger) *ScreenSet {
	return &ScreenSet{
		Restaurants:      screens.NewRestaurantsScreen(d.Restaurants, d.Products, d.ImageBase, logger),
		RestaurantDetail: screens.NewRestaurantDetailScreen(d.Restaurants, d.Orders, d.Drafts, d.Events, d.ImageBase, logger),
		Orders:           screens.NewOrdersScreen(d.Orders, d.ImageBase, logger),
		OrderDetail:      screens.NewOrderDetailScreen(d.Orders, d.ImageBase, logger),
	}
}

// Registry keeps one screen set per logged-in identity. Anonymous callers get
// a fresh set on every request.
type Registry struct {
	deps Deps
	log  logrus.FieldLogger
	now  func() time.Time

	mu   sync.Mutex
	sets map[string]*ScreenSet
}

func NewRegistry(deps Deps) *Registry {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Registry{
		deps: deps,
		log:  logger,
		now:  time.Now,
		sets: make(map[string]*ScreenSet),
	}
}

func (r *Registry) For(sess *session.Session) *ScreenSet {
	identity := sess.Identity()
	if identity == "" {
		return newScreenSet(r.deps, r.log)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.sets[identity]
	if !ok {
		set = newScreenSet(r.deps, r.log.WithField("session", identity))
		r.sets[identity] = set
	}
	set.lastUsed = r.now()
	return set
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sets)
}

// Prune drops screen sets unused for longer than maxIdle and returns how many
// were removed.
func (r *Registry) Prune(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-maxIdle)
	removed := 0
	for identity, set := range r.sets {
		if set.lastUsed.Before(cutoff) {
			delete(r.sets, identity)
			removed++
		}
	}
	return removed
}

// RunPruner calls Prune every interval until ctx is done.
func (r *Registry) RunPruner(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Prune(maxIdle); n > 0 {
				r.log.WithField("removed", n).Debug("pruned idle screen sets")
			}
		}
	}
}
