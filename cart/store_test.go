package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshcart/events"
	"freshcart/models"
)

func lineItem(productID, unit string, price float64, qty int) models.CartLineItem {
	return models.CartLineItem{
		CartID:    models.LineItemID(productID, unit),
		ProductID: productID,
		Name:      "Item " + productID,
		Price:     price,
		Unit:      unit,
		Quantity:  qty,
	}
}

func TestLoadMissingRecordReadsEmpty(t *testing.T) {
	store := NewStore(NewMemoryBackend(), nil)

	items := store.Load(context.Background())

	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestLoadMalformedRecordReadsEmpty(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "not json", data: []byte("{oops")},
		{name: "not an array", data: []byte(`{"cartId":"x"}`)},
		{name: "json null", data: []byte("null")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := NewMemoryBackend()
			require.NoError(t, backend.Set(context.Background(), tt.data))
			store := NewStore(backend, nil)

			items := store.Load(context.Background())

			assert.NotNil(t, items)
			assert.Empty(t, items)
		})
	}
}

func TestAddMergesSameProductAndUnit(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend(), nil)

	require.NoError(t, store.Add(ctx, lineItem("p1", "500g", 3.49, 1)))
	require.NoError(t, store.Add(ctx, lineItem("p1", "500g", 3.49, 1)))

	items := store.Load(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestAddKeepsVariantsAsSeparateLines(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend(), nil)

	require.NoError(t, store.Add(ctx, lineItem("p1", "500g", 3.49, 1)))
	require.NoError(t, store.Add(ctx, lineItem("p1", "1kg", 5.99, 1)))

	items := store.Load(ctx)
	assert.Len(t, items, 2)
}

func TestUpdateQuantityClampsAtOne(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend(), nil)
	require.NoError(t, store.Add(ctx, lineItem("p1", "500g", 3.49, 2)))

	require.NoError(t, store.UpdateQuantity(ctx, models.LineItemID("p1", "500g"), -100))

	items := store.Load(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestUpdateQuantityUnknownLineIsNoop(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend(), nil)
	require.NoError(t, store.Add(ctx, lineItem("p1", "500g", 3.49, 2)))

	require.NoError(t, store.UpdateQuantity(ctx, "missing-line", 5))

	items := store.Load(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestRemoveDeletesLine(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend(), nil)
	require.NoError(t, store.Add(ctx, lineItem("p1", "500g", 3.49, 1)))
	require.NoError(t, store.Add(ctx, lineItem("p2", "1kg", 5.99, 1)))

	require.NoError(t, store.Remove(ctx, models.LineItemID("p1", "500g")))

	items := store.Load(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)
}

func TestClearWritesEmptySequence(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	store := NewStore(backend, nil)
	require.NoError(t, store.Add(ctx, lineItem("p1", "500g", 3.49, 1)))

	require.NoError(t, store.Clear(ctx))

	// The record still exists and holds an empty array, not a deleted key.
	data, err := backend.Get(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
	assert.Empty(t, store.Load(ctx))
}

func TestMutationsEmitChangeSignal(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus()
	emits := 0
	bus.Subscribe(func(events.CartUpdated) { emits++ })
	store := NewStore(NewMemoryBackend(), bus)

	require.NoError(t, store.Add(ctx, lineItem("p1", "500g", 3.49, 1)))
	require.NoError(t, store.UpdateQuantity(ctx, models.LineItemID("p1", "500g"), 1))
	require.NoError(t, store.Remove(ctx, models.LineItemID("p1", "500g")))
	require.NoError(t, store.Clear(ctx))

	assert.Equal(t, 4, emits)
}

func TestLastWriteWinsAcrossStores(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	first := NewStore(backend, nil)
	second := NewStore(backend, nil)

	require.NoError(t, first.Save(ctx, []models.CartLineItem{lineItem("p1", "500g", 3.49, 1)}))
	require.NoError(t, second.Save(ctx, []models.CartLineItem{lineItem("p2", "1kg", 5.99, 1)}))

	items := first.Load(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)
}

func TestCountTracksSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend(), nil)
	require.NoError(t, store.Add(ctx, lineItem("p1", "500g", 3.49, 5)))
	require.NoError(t, store.Add(ctx, lineItem("p2", "1kg", 5.99, 1)))

	store.Load(ctx)

	// Count is lines, not quantities: the badge shows distinct items.
	assert.Equal(t, 2, store.Count())
}
