package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"freshcart/models"
)

// OrderRequest is the order-creation payload.
type OrderRequest struct {
	Email           string                 `json:"email"`
	Products        []models.CartLineItem  `json:"products"`
	Total           float64                `json:"total"`
	PaymentMethod   string                 `json:"paymentMethod"`
	TransactionID   string                 `json:"transactionId"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
}

// OrderCreator persists an order and returns its identifier. Only an
// unambiguous success return may be followed by clearing the cart.
type OrderCreator interface {
	Create(ctx context.Context, req OrderRequest) (string, error)
}

// HTTPOrderClient submits orders to a remote orders API. Anything other than
// 201 Created is a failure, and the caller's cart must stay intact so the
// submission can be retried.
type HTTPOrderClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPOrderClient points the client at the orders API base URL.
func NewHTTPOrderClient(baseURL string) *HTTPOrderClient {
	return &HTTPOrderClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPOrderClient) Create(ctx context.Context, req OrderRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", errors.Wrap(err, "encode order")
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "build order request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", errors.Wrap(err, "order submission failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", errors.Errorf("order API returned %s", resp.Status)
	}

	var created struct {
		InsertedID string `json:"insertedId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", errors.Wrap(err, "decode order response")
	}
	return created.InsertedID, nil
}
