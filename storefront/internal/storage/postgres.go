package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"overcooked-storefront/storefront/internal/domain"
)

// PostgresDraftStore keeps one row per owner and restaurant in order_drafts.
type PostgresDraftStore struct {
	DB *sql.DB
}

func NewPostgresDraftStore(db *sql.DB) *PostgresDraftStore {
	return &PostgresDraftStore{DB: db}
}

func (s *PostgresDraftStore) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS order_drafts (
			owner TEXT NOT NULL,
			restaurant_id INT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			products JSONB NOT NULL DEFAULT '[]',
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (owner, restaurant_id)
		)
	`)
	return err
}

func (s *PostgresDraftStore) Load(ctx context.Context, owner string, restaurantID int) (*domain.OrderDraft, error) {
	var (
		draft    = domain.OrderDraft{RestaurantID: restaurantID}
		products []byte
	)
	err := s.DB.QueryRowContext(ctx, `
		SELECT address, products FROM order_drafts
		WHERE owner = $1 AND restaurant_id = $2
	`, owner, restaurantID).Scan(&draft.Address, &products)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(products, &draft.Products); err != nil {
		return nil, fmt.Errorf("decode draft products: %w", err)
	}
	return &draft, nil
}

func (s *PostgresDraftStore) Save(ctx context.Context, owner string, draft domain.OrderDraft) error {
	lines := draft.Products
	if lines == nil {
		lines = []domain.DraftLine{}
	}
	products, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO order_drafts (owner, restaurant_id, address, products)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner, restaurant_id)
		DO UPDATE SET address = EXCLUDED.address, products = EXCLUDED.products, updated_at = CURRENT_TIMESTAMP
	`, owner, draft.RestaurantID, draft.Address, products)
	return err
}

func (s *PostgresDraftStore) Delete(ctx context.Context, owner string, restaurantID int) error {
	_, err := s.DB.ExecContext(ctx, `
		DELETE FROM order_drafts WHERE owner = $1 AND restaurant_id = $2
	`, owner, restaurantID)
	return err
}
