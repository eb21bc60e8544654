package checkout

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"freshcart/cart"
	"freshcart/models"
)

// PaymentMethod is recorded on every order placed through the submitter. The
// actual provider behind the gateway is opaque to this flow.
const PaymentMethod = "external-gateway"

// State of a checkout attempt.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

var (
	// ErrEmptyCart rejects a submission with nothing to order.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrSubmitting rejects a submission while another is in flight.
	ErrSubmitting = errors.New("checkout already in progress")
)

// ShippingForm is the data collected on the checkout page.
type ShippingForm struct {
	FullName string      `json:"fullName"`
	Email    string      `json:"email"`
	Phone    string      `json:"phone"`
	Address  string      `json:"address"`
	City     string      `json:"city"`
	Zip      string      `json:"zip"`
	Card     CardDetails `json:"card"`
}

func (f ShippingForm) shipping() models.ShippingAddress {
	return models.ShippingAddress{
		FullName: f.FullName,
		Email:    f.Email,
		Phone:    f.Phone,
		Address:  f.Address,
		City:     f.City,
		Zip:      f.Zip,
	}
}

// Receipt is returned after a successful submission.
type Receipt struct {
	OrderID       string      `json:"orderId"`
	TransactionID string      `json:"transactionId"`
	Totals        cart.Totals `json:"totals"`
}

// Submitter drives a checkout attempt through
// Idle -> Submitting -> Succeeded|Failed.
//
// The cart is cleared at exactly one point: after the order has been
// accepted. A failed payment or a rejected order leaves the cart untouched so
// the shopper can resubmit; there is no automatic retry.
type Submitter struct {
	store   *cart.Store
	gateway PaymentGateway
	orders  OrderCreator

	mu    sync.Mutex
	state State
}

// NewSubmitter wires the checkout flow.
func NewSubmitter(store *cart.Store, gateway PaymentGateway, orders OrderCreator) *Submitter {
	return &Submitter{store: store, gateway: gateway, orders: orders, state: StateIdle}
}

// State returns the state of the most recent submission.
func (s *Submitter) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submit runs one checkout attempt: confirm payment with the provider, then
// create the order, then clear the cart. Each step only runs if the previous
// one succeeded.
func (s *Submitter) Submit(ctx context.Context, form ShippingForm) (*Receipt, error) {
	s.mu.Lock()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return nil, ErrSubmitting
	}
	s.state = StateSubmitting
	s.mu.Unlock()

	receipt, err := s.submit(ctx, form)

	s.mu.Lock()
	if err != nil {
		s.state = StateFailed
	} else {
		s.state = StateSucceeded
	}
	s.mu.Unlock()
	return receipt, err
}

func (s *Submitter) submit(ctx context.Context, form ShippingForm) (*Receipt, error) {
	items := s.store.Load(ctx)
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	totals := cart.ComputeTotals(items)

	intent, err := s.gateway.CreateIntent(ctx, totals.Total, form.Email)
	if err != nil {
		return nil, err
	}
	conf, err := s.gateway.ConfirmPayment(ctx, intent.ID, form.Card, BillingDetails{
		Name:  form.FullName,
		Email: form.Email,
	})
	if err != nil {
		return nil, err
	}

	orderID, err := s.orders.Create(ctx, OrderRequest{
		Email:           form.Email,
		Products:        items,
		Total:           totals.Total,
		PaymentMethod:   PaymentMethod,
		TransactionID:   conf.TransactionID,
		ShippingAddress: form.shipping(),
	})
	if err != nil {
		log.WithError(err).WithField("transactionId", conf.TransactionID).
			Warn("order creation failed, cart preserved")
		return nil, err
	}

	// The only point where the cart is emptied.
	if err := s.store.Clear(ctx); err != nil {
		log.WithError(err).WithField("orderId", orderID).
			Error("cart clear failed after order creation")
	}

	log.WithFields(log.Fields{
		"orderId":       orderID,
		"transactionId": conf.TransactionID,
		"total":         totals.Total,
	}).Info("checkout completed")

	return &Receipt{OrderID: orderID, TransactionID: conf.TransactionID, Totals: totals}, nil
}
