package screens

import (
	"context"
	"errors"
	"testing"

	"overcooked-storefront/storefront/internal/client"
	"overcooked-storefront/storefront/internal/domain"
	"overcooked-storefront/storefront/internal/mocks"
	"overcooked-storefront/storefront/internal/orderform"
	"overcooked-storefront/storefront/internal/session"
	"overcooked-storefront/storefront/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type detailDeps struct {
	restaurants *mocks.RestaurantEndpoints
	orders      *mocks.OrderEndpoints
	drafts      *mocks.DraftStore
	events      *mocks.EventPublisher
}

func newDetailScreen(t *testing.T) (*RestaurantDetailScreen, detailDeps) {
	deps := detailDeps{
		restaurants: mocks.NewRestaurantEndpoints(t),
		orders:      mocks.NewOrderEndpoints(t),
		drafts:      mocks.NewDraftStore(t),
		events:      mocks.NewEventPublisher(t),
	}
	screen := NewRestaurantDetailScreen(deps.restaurants, deps.orders, deps.drafts, deps.events, imageBase, nil)
	return screen, deps
}

// loadedDetail returns a screen showing restaurantFixture with a fresh draft.
func loadedDetail(t *testing.T) (*RestaurantDetailScreen, detailDeps) {
	screen, deps := newDetailScreen(t)
	deps.restaurants.On("Detail", mock.Anything, 7).Return(restaurantFixture(), nil).Once()
	deps.drafts.On("Load", mock.Anything, loggedIn().Identity(), 7).Return(nil, storage.ErrDraftNotFound).Once()
	screen.Load(context.Background(), loggedIn(), 7)
	return screen, deps
}

func TestRestaurantDetailScreen_Load(t *testing.T) {
	screen, _ := loadedDetail(t)
	view := screen.View()

	assert.Equal(t, PhaseLoaded, view.Phase)
	assert.Equal(t, &RestaurantHeader{
		ID:           7,
		Name:         "Casa Pepe",
		Description:  "Tapas",
		Category:     "Spanish",
		LogoURL:      "http://api.test/logos/pepe.png",
		HeroImageURL: "http://api.test/hero/pepe.jpg",
	}, view.Header)
	require.Len(t, view.Products, 2)
	assert.Equal(t, "5.50€", view.Products[0].Price)
	assert.Equal(t, "3.00€", view.Products[1].Price)
	assert.Empty(t, view.Products[1].ImageURL)
	assert.Empty(t, view.EmptyMessage)

	require.NotNil(t, view.Form)
	assert.Equal(t, []FormLine{
		{ProductID: 1, Field: "products.0.quantity", Quantity: 0},
		{ProductID: 2, Field: "products.1.quantity", Quantity: 0},
	}, view.Form.Lines)
	assert.Equal(t, domain.OrderDraft{
		RestaurantID: 7,
		Products:     []domain.DraftLine{{ProductID: 1}, {ProductID: 2}},
	}, screen.Draft())
}

func TestRestaurantDetailScreen_LoadRestoresSavedDraft(t *testing.T) {
	screen, deps := newDetailScreen(t)
	deps.restaurants.On("Detail", mock.Anything, 7).Return(restaurantFixture(), nil).Once()
	deps.drafts.On("Load", mock.Anything, loggedIn().Identity(), 7).Return(&domain.OrderDraft{
		RestaurantID: 7,
		Address:      "Street 1",
		Products: []domain.DraftLine{
			{ProductID: 2, Quantity: 4},
			{ProductID: 99, Quantity: 1},
		},
	}, nil).Once()

	screen.Load(context.Background(), loggedIn(), 7)

	assert.Equal(t, domain.OrderDraft{
		RestaurantID: 7,
		Address:      "Street 1",
		Products:     []domain.DraftLine{{ProductID: 1}, {ProductID: 2, Quantity: 4}},
	}, screen.Draft())
}

func TestRestaurantDetailScreen_LoadDraftStoreFailure(t *testing.T) {
	screen, deps := newDetailScreen(t)
	deps.restaurants.On("Detail", mock.Anything, 7).Return(restaurantFixture(), nil).Once()
	deps.drafts.On("Load", mock.Anything, loggedIn().Identity(), 7).Return(nil, errors.New("redis down")).Once()

	view := screen.Load(context.Background(), loggedIn(), 7)

	assert.Equal(t, PhaseLoaded, view.Phase)
	assert.Empty(t, view.Notifications)
	assert.Len(t, view.Form.Lines, 2)
}

func TestRestaurantDetailScreen_LoadFailure(t *testing.T) {
	screen, deps := loadedDetail(t)
	deps.restaurants.On("Detail", mock.Anything, 8).Return(nil, errors.New("404 Not Found")).Once()

	view := screen.Load(context.Background(), loggedIn(), 8)

	assert.Equal(t, PhaseUnavailable, view.Phase)
	assert.Nil(t, view.Header)
	assert.Nil(t, view.Form)
	assert.Empty(t, view.Products)
	assert.Equal(t, []Notification{{
		Kind:    NotifyError,
		Message: "There was an error while retrieving the restaurant's details. 404 Not Found",
	}}, view.Notifications)
}

func TestRestaurantDetailScreen_EmptyCatalog(t *testing.T) {
	screen := NewRestaurantDetailScreen(mocks.NewRestaurantEndpoints(t), nil, nil, nil, imageBase, nil)
	screen.restaurants.(*mocks.RestaurantEndpoints).
		On("Detail", mock.Anything, 3).Return(&domain.Restaurant{ID: 3, Name: "Empty"}, nil).Once()

	view := screen.Load(context.Background(), nil, 3)

	assert.Empty(t, view.Products)
	assert.Equal(t, "This restaurant has no products yet.", view.EmptyMessage)
	assert.Nil(t, view.Form, "anonymous users get no order form")
}

func TestRestaurantDetailScreen_LoggedOut(t *testing.T) {
	screen, deps := newDetailScreen(t)
	deps.restaurants.On("Detail", mock.Anything, 7).Return(restaurantFixture(), nil).Once()
	screen.Load(context.Background(), nil, 7)

	_, err := screen.Edit(context.Background(), nil, DraftEdit{Address: ptr("Street 1")})
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = screen.Submit(context.Background(), &session.Session{UserID: 1})
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	deps.drafts.AssertNotCalled(t, "Load", mock.Anything, mock.Anything, mock.Anything)
	deps.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRestaurantDetailScreen_NoRestaurant(t *testing.T) {
	screen, _ := newDetailScreen(t)

	_, err := screen.Edit(context.Background(), loggedIn(), DraftEdit{Address: ptr("Street 1")})
	assert.ErrorIs(t, err, ErrNoRestaurant)

	_, err = screen.Submit(context.Background(), loggedIn())
	assert.ErrorIs(t, err, ErrNoRestaurant)
}

func TestRestaurantDetailScreen_Edit(t *testing.T) {
	tests := []struct {
		name          string
		edit          DraftEdit
		expectedDraft domain.OrderDraft
		expectedLine  FormLine
		expectedError error
	}{
		{
			name: "address_and_quantity",
			edit: DraftEdit{Address: ptr("Street 1"), Quantities: map[int]string{1: "2"}},
			expectedDraft: domain.OrderDraft{
				RestaurantID: 7,
				Address:      "Street 1",
				Products:     []domain.DraftLine{{ProductID: 1, Quantity: 2}, {ProductID: 2}},
			},
			expectedLine: FormLine{ProductID: 1, Field: "products.0.quantity", Quantity: 2},
		},
		{
			name: "blank_quantity_is_zero",
			edit: DraftEdit{Quantities: map[int]string{1: " "}},
			expectedDraft: domain.OrderDraft{
				RestaurantID: 7,
				Products:     []domain.DraftLine{{ProductID: 1}, {ProductID: 2}},
			},
			expectedLine: FormLine{ProductID: 1, Field: "products.0.quantity"},
		},
		{
			name: "not_a_number",
			edit: DraftEdit{Quantities: map[int]string{1: "two"}},
			expectedDraft: domain.OrderDraft{
				RestaurantID: 7,
				Products:     []domain.DraftLine{{ProductID: 1}, {ProductID: 2}},
			},
			expectedLine:  FormLine{ProductID: 1, Field: "products.0.quantity", Error: orderform.MsgQuantityNotNumber},
			expectedError: ErrValidation,
		},
		{
			name: "unknown_product",
			edit: DraftEdit{Quantities: map[int]string{99: "1"}},
			expectedDraft: domain.OrderDraft{
				RestaurantID: 7,
				Products:     []domain.DraftLine{{ProductID: 1}, {ProductID: 2}},
			},
			expectedLine:  FormLine{ProductID: 1, Field: "products.0.quantity"},
			expectedError: orderform.ErrUnknownProduct,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			screen, deps := loadedDetail(t)
			deps.drafts.On("Save", mock.Anything, loggedIn().Identity(), testCase.expectedDraft).Return(nil).Once()

			view, err := screen.Edit(context.Background(), loggedIn(), testCase.edit)

			assert.ErrorIs(t, err, testCase.expectedError)
			assert.Equal(t, testCase.expectedDraft, screen.Draft())
			assert.Equal(t, testCase.expectedLine, view.Form.Lines[0])
		})
	}
}

func TestRestaurantDetailScreen_EditSaveFailureDoesNotBlock(t *testing.T) {
	screen, deps := loadedDetail(t)
	deps.drafts.On("Save", mock.Anything, loggedIn().Identity(), mock.Anything).Return(errors.New("redis down")).Once()

	view, err := screen.Edit(context.Background(), loggedIn(), DraftEdit{Address: ptr("Street 1")})

	assert.NoError(t, err)
	assert.Equal(t, "Street 1", view.Form.Address)
}

func TestRestaurantDetailScreen_SubmitValidation(t *testing.T) {
	screen, deps := loadedDetail(t)
	deps.drafts.On("Save", mock.Anything, loggedIn().Identity(), mock.Anything).Return(nil)
	_, _ = screen.Edit(context.Background(), loggedIn(), DraftEdit{Quantities: map[int]string{1: "101", 2: "-1"}})

	result, err := screen.Submit(context.Background(), loggedIn())

	assert.ErrorIs(t, err, ErrValidation)
	assert.Nil(t, result.Order)
	assert.Nil(t, result.Navigate)
	assert.Equal(t, PhaseLoaded, result.View.Phase)
	assert.Equal(t, orderform.MsgAddressRequired, result.View.Form.AddressError)
	assert.Equal(t, orderform.MsgQuantityTooHigh, result.View.Form.Lines[0].Error)
	assert.Equal(t, orderform.MsgQuantityNegative, result.View.Form.Lines[1].Error)
	deps.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRestaurantDetailScreen_SubmitSuccess(t *testing.T) {
	screen, deps := loadedDetail(t)
	deps.drafts.On("Save", mock.Anything, loggedIn().Identity(), mock.Anything).Return(nil)
	_, err := screen.Edit(context.Background(), loggedIn(), DraftEdit{
		Address:    ptr("Street 1"),
		Quantities: map[int]string{1: "2"},
	})
	require.NoError(t, err)

	deps.orders.On("Create", mock.Anything, domain.CreateOrderRequest{
		RestaurantID: 7,
		Address:      "Street 1",
		Products:     []domain.DraftLine{{ProductID: 1, Quantity: 2}},
	}).Return(&domain.Order{ID: 9, RestaurantID: 7}, nil).Once()
	deps.drafts.On("Delete", mock.Anything, loggedIn().Identity(), 7).Return(nil).Once()
	deps.events.On("Publish", mock.Anything, mock.MatchedBy(func(e domain.Event) bool {
		return e.Type == domain.EventOrderCreated && e.OrderID == 9 && e.UserID == loggedIn().Identity() && e.Lines == 1 && e.ID != ""
	})).Return(nil).Once()

	result, err := screen.Submit(context.Background(), loggedIn())

	require.NoError(t, err)
	assert.Equal(t, 9, result.Order.ID)
	assert.Equal(t, &Route{Name: RestaurantsRoute, Dirty: true}, result.Navigate)
	assert.Equal(t, []Notification{{Kind: NotifySuccess, Message: "Order 9 successfully created"}}, result.View.Notifications)
	assert.Empty(t, result.View.Form.Address)
	assert.Equal(t, 0, result.View.Form.Lines[0].Quantity)
	assert.Empty(t, result.View.Form.BackendErrors)
}

func TestRestaurantDetailScreen_SubmitRejected(t *testing.T) {
	tests := []struct {
		name           string
		createErr      error
		expectedErrors []string
	}{
		{
			name: "backend_validation",
			createErr: &client.APIError{
				Method: "POST", Path: "orders", StatusCode: 422,
				Errors: []client.FieldError{{Msg: "Product 1 is not available"}, {Msg: "Address is not valid"}},
			},
			expectedErrors: []string{"Product 1 is not available", "Address is not valid"},
		},
		{
			name:           "transport_error",
			createErr:      errors.New("POST orders: connection refused"),
			expectedErrors: []string{"POST orders: connection refused"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			screen, deps := loadedDetail(t)
			deps.drafts.On("Save", mock.Anything, loggedIn().Identity(), mock.Anything).Return(nil)
			_, _ = screen.Edit(context.Background(), loggedIn(), DraftEdit{
				Address:    ptr("Street 1"),
				Quantities: map[int]string{2: "3"},
			})

			deps.orders.On("Create", mock.Anything, mock.Anything).Return(nil, testCase.createErr).Once()
			deps.events.On("Publish", mock.Anything, mock.MatchedBy(func(e domain.Event) bool {
				return e.Type == domain.EventOrderRejected && len(e.Errors) == len(testCase.expectedErrors)
			})).Return(errors.New("broker down")).Once()

			result, err := screen.Submit(context.Background(), loggedIn())

			assert.ErrorIs(t, err, testCase.createErr)
			assert.Nil(t, result.Navigate)
			assert.Equal(t, testCase.expectedErrors, result.View.Form.BackendErrors)
			assert.Equal(t, "Street 1", result.View.Form.Address)
			assert.Equal(t, 3, result.View.Form.Lines[1].Quantity)
			deps.drafts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestRestaurantDetailScreen_SupersededLoadIsDiscarded(t *testing.T) {
	screen := NewRestaurantDetailScreen(mocks.NewRestaurantEndpoints(t), nil, nil, nil, imageBase, nil)
	restaurants := screen.restaurants.(*mocks.RestaurantEndpoints)

	started := make(chan struct{})
	release := make(chan struct{})
	var firstCtx context.Context
	restaurants.On("Detail", mock.Anything, 1).Run(func(args mock.Arguments) {
		firstCtx = args.Get(0).(context.Context)
		close(started)
		<-release
	}).Return(&domain.Restaurant{ID: 1, Name: "Old"}, nil).Once()
	restaurants.On("Detail", mock.Anything, 2).Return(&domain.Restaurant{ID: 2, Name: "New"}, nil).Once()

	done := make(chan struct{})
	go func() {
		defer close(done)
		screen.Load(context.Background(), nil, 1)
	}()
	<-started

	screen.Load(context.Background(), nil, 2)
	assert.ErrorIs(t, firstCtx.Err(), context.Canceled)

	close(release)
	<-done
	assert.Equal(t, "New", screen.View().Header.Name)
}

func TestRestaurantDetailScreen_AllZeroQuantitiesSendEmptyProducts(t *testing.T) {
	screen, deps := newDetailScreen(t)
	restaurant := restaurantFixture()
	restaurant.Products = append(restaurant.Products, domain.Product{ID: 3, Name: "Pan", Price: 1, RestaurantID: 7})
	deps.restaurants.On("Detail", mock.Anything, 7).Return(restaurant, nil).Once()
	deps.drafts.On("Load", mock.Anything, loggedIn().Identity(), 7).Return(nil, storage.ErrDraftNotFound).Once()
	deps.drafts.On("Save", mock.Anything, loggedIn().Identity(), mock.Anything).Return(nil).Once()

	view := screen.Load(context.Background(), loggedIn(), 7)
	require.Len(t, view.Form.Lines, 3)
	_, err := screen.Edit(context.Background(), loggedIn(), DraftEdit{Address: ptr("Street 1")})
	require.NoError(t, err)

	deps.orders.On("Create", mock.Anything, domain.CreateOrderRequest{
		RestaurantID: 7,
		Address:      "Street 1",
		Products:     []domain.DraftLine{},
	}).Return(nil, &client.APIError{
		Method: "POST", Path: "orders", StatusCode: 422,
		Errors: []client.FieldError{{Msg: "Address is required"}},
	}).Once()
	deps.events.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := screen.Submit(context.Background(), loggedIn())

	require.Error(t, err)
	assert.Nil(t, result.Navigate)
	assert.Equal(t, []string{"Address is required"}, result.View.Form.BackendErrors)
	assert.Len(t, screen.Draft().Products, 3, "draft keeps every line after a rejected submit")
}

func TestRestaurantDetailScreen_SyncRetriesAfterCanceledLoad(t *testing.T) {
	screen, deps := newDetailScreen(t)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	deps.restaurants.On("Detail", mock.Anything, 7).Return(nil, context.Canceled).Once()
	screen.Load(canceled, loggedIn(), 7)

	deps.restaurants.On("Detail", mock.Anything, 7).Return(restaurantFixture(), nil).Once()
	deps.drafts.On("Load", mock.Anything, loggedIn().Identity(), 7).Return(nil, storage.ErrDraftNotFound).Once()
	view := screen.Sync(context.Background(), loggedIn(), 7)

	assert.Equal(t, PhaseLoaded, view.Phase)
	require.NotNil(t, view.Header)
	require.NotNil(t, view.Form)
	assert.Empty(t, view.Notifications)
	deps.restaurants.AssertNumberOfCalls(t, "Detail", 2)
}

func TestRestaurantDetailScreen_CanceledReloadKeepsFormUsable(t *testing.T) {
	screen, deps := loadedDetail(t)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	deps.restaurants.On("Detail", mock.Anything, 7).Return(nil, context.Canceled).Once()
	view := screen.Load(canceled, loggedIn(), 7)
	assert.Equal(t, PhaseLoaded, view.Phase)
	require.NotNil(t, view.Header)

	deps.drafts.On("Save", mock.Anything, loggedIn().Identity(), mock.Anything).Return(nil).Once()
	_, err := screen.Edit(context.Background(), loggedIn(), DraftEdit{Address: ptr("Street 1")})
	require.NoError(t, err)
}

func TestRestaurantDetailScreen_RejectsChangesWhileLoading(t *testing.T) {
	screen, deps := loadedDetail(t)

	started := make(chan struct{})
	release := make(chan struct{})
	deps.restaurants.On("Detail", mock.Anything, 8).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(nil, errors.New("boom")).Once()

	done := make(chan struct{})
	go func() {
		defer close(done)
		screen.Load(context.Background(), loggedIn(), 8)
	}()
	<-started

	result, err := screen.Submit(context.Background(), loggedIn())
	assert.ErrorIs(t, err, ErrLoadInFlight)
	assert.Equal(t, PhaseLoading, result.View.Phase)

	_, err = screen.Edit(context.Background(), loggedIn(), DraftEdit{Address: ptr("Street 1")})
	assert.ErrorIs(t, err, ErrLoadInFlight)

	close(release)
	<-done
	assert.Equal(t, PhaseUnavailable, screen.View().Phase)
	deps.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	deps.drafts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}
