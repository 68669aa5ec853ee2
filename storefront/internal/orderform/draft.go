// Package orderform builds and checks the order draft edited on the
// restaurant detail screen.
//
// A draft is derived from a restaurant catalog with one zero-quantity line per
// product. Edits only touch lines that exist; the product set of a draft never
// grows past the catalog it was built from. Payload drops zero lines without
// touching the draft, so a rejected submit leaves the user's input intact.
package orderform

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"overcooked-storefront/storefront/internal/domain"
)

var ErrUnknownProduct = errors.New("product is not part of the draft")

// NewDraft returns a draft for restaurant with every quantity at zero.
func NewDraft(restaurant domain.Restaurant) domain.OrderDraft {
	lines := make([]domain.DraftLine, 0, len(restaurant.Products))
	for _, p := range restaurant.Products {
		lines = append(lines, domain.DraftLine{ProductID: p.ID, Quantity: 0})
	}
	return domain.OrderDraft{
		RestaurantID: restaurant.ID,
		Products:     lines,
	}
}

// Reconcile fits a previously saved draft to the current catalog. Lines of
// products that left the catalog are dropped, new products get a zero line,
// and catalog order wins.
func Reconcile(saved domain.OrderDraft, restaurant domain.Restaurant) domain.OrderDraft {
	draft := NewDraft(restaurant)
	draft.Address = saved.Address

	quantities := make(map[int]int, len(saved.Products))
	for _, line := range saved.Products {
		quantities[line.ProductID] = line.Quantity
	}
	for i := range draft.Products {
		draft.Products[i].Quantity = quantities[draft.Products[i].ProductID]
	}
	return draft
}

// SetQuantity updates the line of productID in place.
func SetQuantity(draft *domain.OrderDraft, productID, quantity int) error {
	for i := range draft.Products {
		if draft.Products[i].ProductID == productID {
			draft.Products[i].Quantity = quantity
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrUnknownProduct, productID)
}

// ParseQuantity reads a quantity typed by the user. Blank input means zero.
func ParseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	q, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("quantity %q: %w", raw, err)
	}
	return q, nil
}

// Payload is the create-order body for draft: only lines with a positive
// quantity, in draft order. Products is never nil so it encodes as [].
func Payload(draft domain.OrderDraft) domain.CreateOrderRequest {
	lines := make([]domain.DraftLine, 0, len(draft.Products))
	for _, line := range draft.Products {
		if line.Quantity > 0 {
			lines = append(lines, line)
		}
	}
	return domain.CreateOrderRequest{
		RestaurantID: draft.RestaurantID,
		Address:      draft.Address,
		Products:     lines,
	}
}

// Clone returns a deep copy of draft.
func Clone(draft domain.OrderDraft) domain.OrderDraft {
	out := draft
	out.Products = append([]domain.DraftLine(nil), draft.Products...)
	return out
}
