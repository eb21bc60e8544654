package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"freshcart/checkout"
)

// PaymentController exposes the payment-intent endpoint and the checkout
// submission flow.
type PaymentController struct {
	Gateway   checkout.PaymentGateway
	Submitter *checkout.Submitter
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(gateway checkout.PaymentGateway, submitter *checkout.Submitter) *PaymentController {
	return &PaymentController{
		Gateway:   gateway,
		Submitter: submitter,
	}
}

// CreatePaymentIntent handles POST /create-payment-intent and returns the
// provider's client secret for card capture.
func (pc *PaymentController) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Total float64 `json:"total"`
		Email string  `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if req.Total <= 0 {
		http.Error(w, "Invalid amount", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	intent, err := pc.Gateway.CreateIntent(ctx, req.Total, req.Email)
	if err != nil {
		log.WithError(err).Warn("payment intent creation failed")
		http.Error(w, "Failed to create payment intent", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"clientSecret": intent.ClientSecret})
}

// Checkout handles POST /checkout: one submission attempt against the current
// cart. The response mirrors the flow's failure semantics: payment errors
// come back with the provider's message and order-creation failures with a
// generic one, and in both cases the cart is left intact for a retry.
func (pc *PaymentController) Checkout(w http.ResponseWriter, r *http.Request) {
	var form checkout.ShippingForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if form.Email == "" {
		http.Error(w, "Email is required", http.StatusBadRequest)
		return
	}

	receipt, err := pc.Submitter.Submit(r.Context(), form)
	if err != nil {
		var payErr *checkout.PaymentError
		switch {
		case errors.As(err, &payErr):
			http.Error(w, payErr.Message, http.StatusPaymentRequired)
		case errors.Is(err, checkout.ErrEmptyCart):
			http.Error(w, "Cart is empty", http.StatusBadRequest)
		case errors.Is(err, checkout.ErrSubmitting):
			http.Error(w, "Checkout already in progress", http.StatusConflict)
		default:
			http.Error(w, "Something went wrong during checkout", http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(receipt)
}
