package orderform

import (
	"encoding/json"
	"strings"
	"testing"

	"overcooked-storefront/storefront/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalog(ids ...int) domain.Restaurant {
	r := domain.Restaurant{ID: 5, Name: "Casa Pepe"}
	for _, id := range ids {
		r.Products = append(r.Products, domain.Product{ID: id, Name: "p", Price: 1.5})
	}
	return r
}

func TestNewDraft_OneZeroLinePerProduct(t *testing.T) {
	tests := []struct {
		name string
		ids  []int
	}{
		{name: "empty catalog", ids: nil},
		{name: "single product", ids: []int{4}},
		{name: "three products", ids: []int{3, 1, 2}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			draft := NewDraft(catalog(testCase.ids...))

			assert.Equal(t, 5, draft.RestaurantID)
			assert.Empty(t, draft.Address)
			require.Len(t, draft.Products, len(testCase.ids))
			for i, id := range testCase.ids {
				assert.Equal(t, domain.DraftLine{ProductID: id, Quantity: 0}, draft.Products[i])
			}
		})
	}
}

func TestPayload_FiltersZeroLinesKeepingOrder(t *testing.T) {
	draft := domain.OrderDraft{
		RestaurantID: 5,
		Address:      "Calle Mayor 1",
		Products: []domain.DraftLine{
			{ProductID: 1, Quantity: 0},
			{ProductID: 2, Quantity: 3},
			{ProductID: 3, Quantity: 0},
			{ProductID: 4, Quantity: 1},
		},
	}

	payload := Payload(draft)

	assert.Equal(t, []domain.DraftLine{{ProductID: 2, Quantity: 3}, {ProductID: 4, Quantity: 1}}, payload.Products)
	assert.Equal(t, "Calle Mayor 1", payload.Address)
	assert.Equal(t, 5, payload.RestaurantID)
	assert.Len(t, draft.Products, 4, "draft must not be modified")
}

func TestPayload_AllZeroEncodesEmptyList(t *testing.T) {
	draft := NewDraft(catalog(1, 2, 3))
	draft.Address = "Calle Mayor 1"

	require.Nil(t, Validate(draft))

	body, err := json.Marshal(Payload(draft))
	require.NoError(t, err)
	assert.JSONEq(t, `{"restaurantId":5,"address":"Calle Mayor 1","products":[]}`, string(body))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		address  string
		quantity int
		want     FieldErrors
	}{
		{name: "valid", address: "Calle Mayor 1", quantity: 2, want: nil},
		{name: "empty address", address: "", quantity: 0, want: FieldErrors{"address": MsgAddressRequired}},
		{name: "address at limit", address: strings.Repeat("a", 75), quantity: 0, want: nil},
		{name: "address too long", address: strings.Repeat("a", 76), quantity: 0, want: FieldErrors{"address": MsgAddressTooLong}},
		{name: "quantity zero", address: "x", quantity: 0, want: nil},
		{name: "quantity hundred", address: "x", quantity: 100, want: nil},
		{name: "quantity over", address: "x", quantity: 101, want: FieldErrors{"products.1.quantity": MsgQuantityTooHigh}},
		{name: "quantity negative", address: "x", quantity: -1, want: FieldErrors{"products.1.quantity": MsgQuantityNegative}},
		{
			name:     "both invalid",
			address:  "",
			quantity: 500,
			want:     FieldErrors{"address": MsgAddressRequired, "products.1.quantity": MsgQuantityTooHigh},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			draft := NewDraft(catalog(1, 2))
			draft.Address = testCase.address
			draft.Products[1].Quantity = testCase.quantity

			got := Validate(draft)

			if testCase.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, testCase.want, got)
			assert.Contains(t, got.Error(), "invalid order")
		})
	}
}

func TestValidate_AddressCountsCharacters(t *testing.T) {
	draft := NewDraft(catalog())
	draft.Address = strings.Repeat("ñ", 75)

	assert.Nil(t, Validate(draft))
}

func TestFieldErrors_ErrorIsSortedByField(t *testing.T) {
	errs := FieldErrors{
		"products.1.quantity": MsgQuantityNegative,
		"address":             MsgAddressRequired,
		"products.0.quantity": MsgQuantityTooHigh,
	}
	expected := "invalid order: address: " + MsgAddressRequired +
		", products.0.quantity: " + MsgQuantityTooHigh +
		", products.1.quantity: " + MsgQuantityNegative

	for i := 0; i < 20; i++ {
		assert.Equal(t, expected, errs.Error())
	}
}

func TestSetQuantity(t *testing.T) {
	draft := NewDraft(catalog(1, 2))

	require.NoError(t, SetQuantity(&draft, 2, 7))
	assert.Equal(t, 7, draft.Products[1].Quantity)

	err := SetQuantity(&draft, 99, 1)
	assert.ErrorIs(t, err, ErrUnknownProduct)
	assert.Len(t, draft.Products, 2)
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "", want: 0},
		{raw: "  ", want: 0},
		{raw: "12", want: 12},
		{raw: " -3 ", want: -3},
		{raw: "1.5", wantErr: true},
		{raw: "two", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.raw, func(t *testing.T) {
			got, err := ParseQuantity(testCase.raw)
			if testCase.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestReconcile(t *testing.T) {
	saved := domain.OrderDraft{
		RestaurantID: 5,
		Address:      "Calle Mayor 1",
		Products: []domain.DraftLine{
			{ProductID: 1, Quantity: 2},
			{ProductID: 9, Quantity: 4},
			{ProductID: 3, Quantity: 1},
		},
	}

	draft := Reconcile(saved, catalog(3, 1, 7))

	assert.Equal(t, "Calle Mayor 1", draft.Address)
	assert.Equal(t, []domain.DraftLine{
		{ProductID: 3, Quantity: 1},
		{ProductID: 1, Quantity: 2},
		{ProductID: 7, Quantity: 0},
	}, draft.Products)
}

func TestClone_IsIndependent(t *testing.T) {
	draft := NewDraft(catalog(1))
	c := Clone(draft)
	c.Products[0].Quantity = 9

	assert.Equal(t, 0, draft.Products[0].Quantity)
}
