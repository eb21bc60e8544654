package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshcart/cart"
	"freshcart/events"
	"freshcart/models"
)

type cartResponse struct {
	Items  []models.CartLineItem `json:"items"`
	Totals cart.Totals           `json:"totals"`
}

func newCartRouter() *mux.Router {
	bus := events.NewBus()
	store := cart.NewStore(cart.NewMemoryBackend(), bus)
	cc := NewCartController(store, bus)

	router := mux.NewRouter()
	router.HandleFunc("/cart", cc.GetCart).Methods("GET")
	router.HandleFunc("/cart", cc.ClearCart).Methods("DELETE")
	router.HandleFunc("/cart/count", cc.GetCartCount).Methods("GET")
	router.HandleFunc("/cart/items", cc.AddItem).Methods("POST")
	router.HandleFunc("/cart/items/{cartId}", cc.UpdateItem).Methods("PATCH")
	router.HandleFunc("/cart/items/{cartId}", cc.RemoveItem).Methods("DELETE")
	return router
}

func doJSON(t *testing.T, router *mux.Router, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartResponse {
	t.Helper()
	var resp cartResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestAddItemMergesAndUpdatesBadge(t *testing.T) {
	router := newCartRouter()
	item := models.CartLineItem{
		ProductID: "p1",
		Name:      "Organic Apples",
		Price:     3.49,
		Unit:      "1kg",
		Quantity:  1,
		Category:  "fruits",
	}

	rec := doJSON(t, router, http.MethodPost, "/cart/items", item)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/cart/items", item)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeCart(t, rec)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.Equal(t, "p1-1kg", resp.Items[0].CartID)
	assert.Equal(t, 6.98, resp.Totals.Subtotal)

	// The badge count follows via the change signal.
	rec = doJSON(t, router, http.MethodGet, "/cart/count", nil)
	var count struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&count))
	assert.Equal(t, 1, count.Count)
}

func TestUpdateItemQuantityFloor(t *testing.T) {
	router := newCartRouter()
	doJSON(t, router, http.MethodPost, "/cart/items", models.CartLineItem{
		ProductID: "p1", Price: 3.49, Unit: "1kg", Quantity: 2,
	})

	rec := doJSON(t, router, http.MethodPatch, "/cart/items/p1-1kg", map[string]int{"delta": -10})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeCart(t, rec)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 1, resp.Items[0].Quantity)
}

func TestRemoveItemAndClear(t *testing.T) {
	router := newCartRouter()
	doJSON(t, router, http.MethodPost, "/cart/items", models.CartLineItem{ProductID: "p1", Price: 1, Unit: "1kg"})
	doJSON(t, router, http.MethodPost, "/cart/items", models.CartLineItem{ProductID: "p2", Price: 1, Unit: "500g"})

	rec := doJSON(t, router, http.MethodDelete, "/cart/items/p1-1kg", nil)
	resp := decodeCart(t, rec)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "p2", resp.Items[0].ProductID)

	rec = doJSON(t, router, http.MethodDelete, "/cart", nil)
	resp = decodeCart(t, rec)
	assert.Empty(t, resp.Items)
	assert.Equal(t, 0.0, resp.Totals.Subtotal)
}

func TestAddItemRequiresProduct(t *testing.T) {
	router := newCartRouter()

	rec := doJSON(t, router, http.MethodPost, "/cart/items", models.CartLineItem{Name: "no id"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
