package checkout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshcart/cart"
	"freshcart/models"
)

type failingGateway struct {
	err error
}

func (g *failingGateway) CreateIntent(context.Context, float64, string) (Intent, error) {
	return Intent{ID: "pi_test"}, nil
}

func (g *failingGateway) ConfirmPayment(context.Context, string, CardDetails, BillingDetails) (Confirmation, error) {
	return Confirmation{}, g.err
}

type recordingCreator struct {
	err   error
	calls int
	last  OrderRequest
}

func (c *recordingCreator) Create(_ context.Context, req OrderRequest) (string, error) {
	c.calls++
	c.last = req
	if c.err != nil {
		return "", c.err
	}
	return "order-1", nil
}

func storeWithItems(t *testing.T, items ...models.CartLineItem) *cart.Store {
	t.Helper()
	store := cart.NewStore(cart.NewMemoryBackend(), nil)
	require.NoError(t, store.Save(context.Background(), items))
	return store
}

func groceryLine(productID string, price float64, qty int) models.CartLineItem {
	return models.CartLineItem{
		CartID:    models.LineItemID(productID, "1kg"),
		ProductID: productID,
		Name:      "Item " + productID,
		Price:     price,
		Unit:      "1kg",
		Quantity:  qty,
	}
}

func testForm() ShippingForm {
	return ShippingForm{
		FullName: "Pat Shopper",
		Email:    "pat@example.com",
		Phone:    "555-0101",
		Address:  "1 Market St",
		City:     "Springfield",
		Zip:      "12345",
	}
}

func TestSubmitEmptyCartRejected(t *testing.T) {
	store := cart.NewStore(cart.NewMemoryBackend(), nil)
	creator := &recordingCreator{}
	submitter := NewSubmitter(store, NewStubGateway(), creator)

	_, err := submitter.Submit(context.Background(), testForm())

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, creator.calls)
}

func TestSubmitPaymentFailureLeavesCartIntact(t *testing.T) {
	store := storeWithItems(t, groceryLine("p1", 12.50, 2))
	before := store.Load(context.Background())
	creator := &recordingCreator{}
	gateway := &failingGateway{err: &PaymentError{Message: "card declined"}}
	submitter := NewSubmitter(store, gateway, creator)

	_, err := submitter.Submit(context.Background(), testForm())

	var payErr *PaymentError
	require.ErrorAs(t, err, &payErr)
	assert.Equal(t, "card declined", payErr.Message)
	assert.Zero(t, creator.calls, "order must not be submitted after a failed payment")
	assert.Equal(t, before, store.Load(context.Background()))
	assert.Equal(t, StateFailed, submitter.State())
}

func TestSubmitOrderFailureLeavesCartIntact(t *testing.T) {
	store := storeWithItems(t, groceryLine("p1", 12.50, 2))
	before := store.Load(context.Background())
	creator := &recordingCreator{err: assert.AnError}
	submitter := NewSubmitter(store, NewStubGateway(), creator)

	_, err := submitter.Submit(context.Background(), testForm())

	require.Error(t, err)
	assert.Equal(t, before, store.Load(context.Background()))
	assert.Equal(t, StateFailed, submitter.State())
}

func TestSubmitSuccessClearsCart(t *testing.T) {
	store := storeWithItems(t, groceryLine("p1", 30.00, 1), groceryLine("p2", 25.00, 1))
	creator := &recordingCreator{}
	submitter := NewSubmitter(store, NewStubGateway(), creator)

	receipt, err := submitter.Submit(context.Background(), testForm())

	require.NoError(t, err)
	assert.Equal(t, "order-1", receipt.OrderID)
	assert.NotEmpty(t, receipt.TransactionID)
	assert.Equal(t, 55.00, receipt.Totals.Total) // over the free-shipping threshold
	assert.Empty(t, store.Load(context.Background()))
	assert.Equal(t, StateSucceeded, submitter.State())

	assert.Equal(t, 1, creator.calls)
	assert.Equal(t, "pat@example.com", creator.last.Email)
	assert.Equal(t, PaymentMethod, creator.last.PaymentMethod)
	assert.Len(t, creator.last.Products, 2)
	assert.Equal(t, "Springfield", creator.last.ShippingAddress.City)
}

func TestHTTPOrderClientNon201PreservesCart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	store := storeWithItems(t, groceryLine("p1", 12.50, 2))
	before := store.Load(context.Background())
	submitter := NewSubmitter(store, NewStubGateway(), NewHTTPOrderClient(server.URL))

	_, err := submitter.Submit(context.Background(), testForm())

	require.Error(t, err)
	assert.Equal(t, before, store.Load(context.Background()))
}

func TestHTTPOrderClient201ClearsCart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"insertedId":"abc123"}`))
	}))
	defer server.Close()

	store := storeWithItems(t, groceryLine("p1", 12.50, 2))
	submitter := NewSubmitter(store, NewStubGateway(), NewHTTPOrderClient(server.URL))

	receipt, err := submitter.Submit(context.Background(), testForm())

	require.NoError(t, err)
	assert.Equal(t, "abc123", receipt.OrderID)
	assert.Empty(t, store.Load(context.Background()))
}

func TestStubGatewayRejectsUnknownIntent(t *testing.T) {
	gateway := NewStubGateway()

	_, err := gateway.ConfirmPayment(context.Background(), "pi_nope", CardDetails{}, BillingDetails{})

	var payErr *PaymentError
	assert.ErrorAs(t, err, &payErr)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "submitting", StateSubmitting.String())
	assert.Equal(t, "succeeded", StateSucceeded.String())
	assert.Equal(t, "failed", StateFailed.String())
}
