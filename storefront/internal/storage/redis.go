package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"overcooked-storefront/storefront/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisDraftStore keeps drafts as JSON values that expire after TTL of
// inactivity.
type RedisDraftStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisDraftStore(client *redis.Client, ttl time.Duration) *RedisDraftStore {
	return &RedisDraftStore{Client: client, TTL: ttl}
}

func (s *RedisDraftStore) Load(ctx context.Context, owner string, restaurantID int) (*domain.OrderDraft, error) {
	raw, err := s.Client.Get(ctx, draftKey(owner, restaurantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	var draft domain.OrderDraft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &draft, nil
}

func (s *RedisDraftStore) Save(ctx context.Context, owner string, draft domain.OrderDraft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, draftKey(owner, draft.RestaurantID), payload, s.TTL).Err()
}

func (s *RedisDraftStore) Delete(ctx context.Context, owner string, restaurantID int) error {
	return s.Client.Del(ctx, draftKey(owner, restaurantID)).Err()
}
