package screens

import (
	"context"
	"errors"

	"overcooked-storefront/storefront/internal/client"
	"overcooked-storefront/storefront/internal/domain"
	"overcooked-storefront/storefront/internal/storage"
)

var (
	ErrNotAuthenticated = errors.New("login required")
	ErrNoRestaurant     = errors.New("restaurant not loaded")
	ErrValidation       = errors.New("order draft is invalid")
	ErrSubmitInFlight   = errors.New("order submission already in progress")
	ErrLoadInFlight     = errors.New("restaurant is still loading")
)

type RestaurantEndpoints interface {
	ListPublic(ctx context.Context) ([]domain.Restaurant, error)
	ListOwned(ctx context.Context) ([]domain.Restaurant, error)
	Detail(ctx context.Context, id int) (*domain.Restaurant, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

type ProductEndpoints interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	Popular(ctx context.Context) ([]domain.Product, error)
}

type OrderEndpoints interface {
	ListMine(ctx context.Context) ([]domain.Order, error)
	Detail(ctx context.Context, id int) (*domain.Order, error)
	Create(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error)
}

// DraftStore keeps unsent drafts per session owner and restaurant. Load
// returns storage.ErrDraftNotFound when nothing is saved.
type DraftStore interface {
	Load(ctx context.Context, owner string, restaurantID int) (*domain.OrderDraft, error)
	Save(ctx context.Context, owner string, draft domain.OrderDraft) error
	Delete(ctx context.Context, owner string, restaurantID int) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

var (
	_ RestaurantEndpoints = (*client.RestaurantAPI)(nil)
	_ ProductEndpoints    = (*client.ProductAPI)(nil)
	_ OrderEndpoints      = (*client.OrderAPI)(nil)

	_ DraftStore = (*storage.MemoryDraftStore)(nil)
	_ DraftStore = (*storage.RedisDraftStore)(nil)
	_ DraftStore = (*storage.PostgresDraftStore)(nil)

	_ EventPublisher = (*storage.KafkaPublisher)(nil)
)
