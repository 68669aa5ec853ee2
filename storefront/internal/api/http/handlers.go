package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"overcooked-storefront/storefront/internal/orderform"
	"overcooked-storefront/storefront/internal/screens"
	"overcooked-storefront/storefront/internal/service"
	"overcooked-storefront/storefront/internal/session"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	Screens     *Registry
	Restaurants screens.RestaurantEndpoints
	Products    screens.ProductEndpoints
	Receipts    service.ReceiptGenerator
	Log         logrus.FieldLogger
}

func NewHandler(registry *Registry, restaurants screens.RestaurantEndpoints, products screens.ProductEndpoints, receipts service.ReceiptGenerator, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		Screens:     registry,
		Restaurants: restaurants,
		Products:    products,
		Receipts:    receipts,
		Log:         logger,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/screens/restaurants", h.getRestaurants).Methods("GET")
	r.HandleFunc("/screens/restaurants/{id}", h.getRestaurant).Methods("GET")
	r.HandleFunc("/screens/restaurants/{id}/draft", h.editDraft).Methods("PUT")
	r.HandleFunc("/screens/restaurants/{id}/orders", h.submitOrder).Methods("POST")

	r.HandleFunc("/screens/orders", h.getOrders).Methods("GET")
	r.HandleFunc("/screens/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/screens/orders/{id}/qrcode", h.getOrderQRCode).Methods("GET")

	r.HandleFunc("/screens/my-restaurants", h.getMyRestaurants).Methods("GET")
	r.HandleFunc("/screens/categories/restaurants", h.getRestaurantCategories).Methods("GET")
	r.HandleFunc("/screens/categories/products", h.getProductCategories).Methods("GET")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	return id, err == nil && id > 0
}

func dirty(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("dirty"))
	return v
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "storefront",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getRestaurants(w http.ResponseWriter, r *http.Request) {
	screen := h.Screens.For(sessionFromRequest(r)).Restaurants
	route := screens.Route{Name: screens.RestaurantsRoute}
	if dirty(r) {
		route.Dirty = true
		writeJSON(w, http.StatusOK, screen.Load(r.Context(), route))
		return
	}
	writeJSON(w, http.StatusOK, screen.Sync(r.Context(), route))
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid restaurant id", http.StatusBadRequest)
		return
	}
	sess := sessionFromRequest(r)
	screen := h.Screens.For(sess).RestaurantDetail
	if dirty(r) {
		writeJSON(w, http.StatusOK, screen.Load(r.Context(), sess, id))
		return
	}
	writeJSON(w, http.StatusOK, screen.Sync(r.Context(), sess, id))
}

func (h *Handler) editDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid restaurant id", http.StatusBadRequest)
		return
	}
	sess := sessionFromRequest(r)
	if !sess.LoggedIn() {
		http.Error(w, screens.ErrNotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}
	var edit screens.DraftEdit
	if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	screen := h.Screens.For(sess).RestaurantDetail
	screen.Sync(r.Context(), sess, id)
	view, err := screen.Edit(r.Context(), sess, edit)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, view)
	case errors.Is(err, screens.ErrNoRestaurant):
		writeJSON(w, http.StatusNotFound, view)
	case errors.Is(err, screens.ErrLoadInFlight):
		writeJSON(w, http.StatusConflict, view)
	case errors.Is(err, orderform.ErrUnknownProduct):
		writeJSON(w, http.StatusBadRequest, view)
	default:
		writeJSON(w, http.StatusUnprocessableEntity, view)
	}
}

func (h *Handler) submitOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid restaurant id", http.StatusBadRequest)
		return
	}
	sess := sessionFromRequest(r)
	if !sess.LoggedIn() {
		http.Error(w, screens.ErrNotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}

	screen := h.Screens.For(sess).RestaurantDetail
	screen.Sync(r.Context(), sess, id)
	result, err := screen.Submit(r.Context(), sess)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, result)
	case errors.Is(err, screens.ErrNoRestaurant):
		writeJSON(w, http.StatusNotFound, result)
	case errors.Is(err, screens.ErrSubmitInFlight), errors.Is(err, screens.ErrLoadInFlight):
		writeJSON(w, http.StatusConflict, result)
	default:
		writeJSON(w, http.StatusUnprocessableEntity, result)
	}
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	screen := h.Screens.For(sess).Orders
	if dirty(r) {
		writeJSON(w, http.StatusOK, screen.Load(r.Context(), sess))
		return
	}
	writeJSON(w, http.StatusOK, screen.Sync(r.Context(), sess))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}
	sess := sessionFromRequest(r)
	screen := h.Screens.For(sess).OrderDetail
	if dirty(r) {
		writeJSON(w, http.StatusOK, screen.Load(r.Context(), sess, id))
		return
	}
	writeJSON(w, http.StatusOK, screen.Sync(r.Context(), sess, id))
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}
	sess := sessionFromRequest(r)
	screen := h.Screens.For(sess).OrderDetail
	screen.Sync(r.Context(), sess, id)
	if order := screen.Order(); order == nil || order.ID != id {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	png, err := h.Receipts.Generate(id)
	if err != nil {
		h.Log.WithError(err).WithField("order_id", id).Error("failed to generate receipt QR")
		http.Error(w, "Failed to generate QR", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *Handler) getMyRestaurants(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	if !sess.LoggedIn() {
		http.Error(w, screens.ErrNotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}
	restaurants, err := h.Restaurants.ListOwned(session.NewContext(r.Context(), sess))
	if err != nil {
		h.upstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurants)
}

func (h *Handler) getRestaurantCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Restaurants.Categories(session.NewContext(r.Context(), sessionFromRequest(r)))
	if err != nil {
		h.upstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) getProductCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Products.Categories(session.NewContext(r.Context(), sessionFromRequest(r)))
	if err != nil {
		h.upstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) upstreamError(w http.ResponseWriter, r *http.Request, err error) {
	h.Log.WithError(err).WithField("path", r.URL.Path).Warn("upstream request failed")
	http.Error(w, err.Error(), http.StatusBadGateway)
}
