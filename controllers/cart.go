package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"freshcart/cart"
	"freshcart/events"
	"freshcart/models"
)

// CartController exposes the cart store over HTTP. The line count is cached
// and refreshed through the event bus, the way the storefront badge refreshes
// without re-reading the whole cart on every render.
type CartController struct {
	Store *cart.Store

	count int64
}

// NewCartController creates the controller and subscribes its badge count to
// cart changes.
func NewCartController(store *cart.Store, bus *events.Bus) *CartController {
	cc := &CartController{Store: store}
	bus.Subscribe(func(events.CartUpdated) {
		cc.refreshCount()
	})
	cc.refreshCount()
	return cc
}

func (cc *CartController) refreshCount() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cc.Store.Load(ctx)
	atomic.StoreInt64(&cc.count, int64(cc.Store.Count()))
}

// GetCart returns the line items with their derived totals
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	items := cc.Store.Load(ctx)
	cc.respond(w, items)
}

// GetCartCount returns the cached badge count
func (cc *CartController) GetCartCount(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"count": atomic.LoadInt64(&cc.count)})
}

// AddItem puts a product (or product variant) in the cart. Adding the same
// product+unit again merges quantities into the existing line.
func (cc *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	var item models.CartLineItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if item.ProductID == "" {
		http.Error(w, "productId is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := cc.Store.Add(ctx, item); err != nil {
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}
	cc.respond(w, cc.Store.Load(ctx))
}

// UpdateItem adjusts a line's quantity by the given delta; the quantity never
// drops below 1.
func (cc *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	cartID := mux.Vars(r)["cartId"]

	var update struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := cc.Store.UpdateQuantity(ctx, cartID, update.Delta); err != nil {
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}
	cc.respond(w, cc.Store.Load(ctx))
}

// RemoveItem deletes a line from the cart
func (cc *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cartID := mux.Vars(r)["cartId"]

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := cc.Store.Remove(ctx, cartID); err != nil {
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}
	cc.respond(w, cc.Store.Load(ctx))
}

// ClearCart empties the cart
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := cc.Store.Clear(ctx); err != nil {
		http.Error(w, "Error clearing cart", http.StatusInternalServerError)
		return
	}
	cc.respond(w, []models.CartLineItem{})
}

func (cc *CartController) respond(w http.ResponseWriter, items []models.CartLineItem) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"items":  items,
		"totals": cart.ComputeTotals(items),
	})
}
