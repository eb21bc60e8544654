package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// CardDetails is the card input captured on the checkout form. It is passed
// through to the provider and never persisted.
type CardDetails struct {
	Number   string `json:"number"`
	ExpMonth int    `json:"expMonth"`
	ExpYear  int    `json:"expYear"`
	CVC      string `json:"cvc"`
}

// BillingDetails accompanies a payment confirmation.
type BillingDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Intent is a provider-issued payment intent.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
}

// Confirmation is the provider's answer to a confirm call.
type Confirmation struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
}

// PaymentGateway is the opaque card-payment provider. On success a
// confirmation carries the transaction identifier recorded on the order; on
// failure the provider's message is surfaced to the shopper as-is.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount float64, email string) (Intent, error)
	ConfirmPayment(ctx context.Context, intentID string, card CardDetails, billing BillingDetails) (Confirmation, error)
}

// PaymentError carries the provider's message for inline display on the
// checkout form. The shopper recovers by resubmitting.
type PaymentError struct {
	Message string
}

func (e *PaymentError) Error() string {
	return e.Message
}

// HTTPGateway talks JSON to a hosted payment provider.
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPGateway points the gateway at the provider's base URL.
func NewHTTPGateway(baseURL, apiKey string) *HTTPGateway {
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *HTTPGateway) CreateIntent(ctx context.Context, amount float64, email string) (Intent, error) {
	var intent Intent
	err := g.post(ctx, "/payment-intents", map[string]interface{}{
		"amount": amount,
		"email":  email,
	}, &intent)
	if err != nil {
		return Intent{}, err
	}
	return intent, nil
}

func (g *HTTPGateway) ConfirmPayment(ctx context.Context, intentID string, card CardDetails, billing BillingDetails) (Confirmation, error) {
	var conf Confirmation
	err := g.post(ctx, "/payment-intents/"+intentID+"/confirm", map[string]interface{}{
		"card":    card,
		"billing": billing,
	}, &conf)
	if err != nil {
		return Confirmation{}, err
	}
	if conf.Status != "succeeded" {
		return Confirmation{}, &PaymentError{Message: "payment was not completed: " + conf.Status}
	}
	return conf, nil
}

func (g *HTTPGateway) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "encode payment request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build payment request")
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "payment provider unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var provider struct {
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&provider) == nil && provider.Message != "" {
			return &PaymentError{Message: provider.Message}
		}
		return &PaymentError{Message: "payment provider returned " + resp.Status}
	}
	return errors.Wrap(json.NewDecoder(resp.Body).Decode(out), "decode payment response")
}

// StubGateway approves every payment. It stands in for the hosted provider in
// dev and test runs; amounts are recorded, nothing is charged.
type StubGateway struct {
	mu      sync.Mutex
	intents map[string]float64
}

// NewStubGateway creates an empty stub.
func NewStubGateway() *StubGateway {
	return &StubGateway{intents: make(map[string]float64)}
}

func (g *StubGateway) CreateIntent(_ context.Context, amount float64, _ string) (Intent, error) {
	id := "pi_" + uuid.NewString()
	g.mu.Lock()
	g.intents[id] = amount
	g.mu.Unlock()
	return Intent{ID: id, ClientSecret: id + "_secret"}, nil
}

func (g *StubGateway) ConfirmPayment(_ context.Context, intentID string, _ CardDetails, _ BillingDetails) (Confirmation, error) {
	g.mu.Lock()
	_, ok := g.intents[intentID]
	g.mu.Unlock()
	if !ok {
		return Confirmation{}, &PaymentError{Message: "unknown payment intent"}
	}
	return Confirmation{TransactionID: "txn_" + uuid.NewString(), Status: "succeeded"}, nil
}
