package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"freshcart/models"
)

func TestComputeTotalsIsIdempotent(t *testing.T) {
	items := []models.CartLineItem{
		lineItem("p1", "500g", 3.49, 2),
		lineItem("p2", "1kg", 12.99, 1),
		lineItem("p3", "default", 0.99, 7),
	}

	first := ComputeTotals(items)
	second := ComputeTotals(items)

	assert.Equal(t, first, second)
}

func TestComputeTotalsShippingThreshold(t *testing.T) {
	tests := []struct {
		name     string
		items    []models.CartLineItem
		subtotal float64
		shipping float64
		total    float64
	}{
		{
			name:     "just below threshold pays flat charge",
			items:    []models.CartLineItem{lineItem("p1", "1kg", 49.99, 1)},
			subtotal: 49.99,
			shipping: 2.00,
			total:    51.99,
		},
		{
			name:     "at threshold ships free",
			items:    []models.CartLineItem{lineItem("p1", "1kg", 50.00, 1)},
			subtotal: 50.00,
			shipping: 0,
			total:    50.00,
		},
		{
			name:     "above threshold ships free",
			items:    []models.CartLineItem{lineItem("p1", "1kg", 25.50, 3)},
			subtotal: 76.50,
			shipping: 0,
			total:    76.50,
		},
		{
			name:     "empty cart has zero subtotal",
			items:    nil,
			subtotal: 0,
			shipping: 2.00,
			total:    2.00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := ComputeTotals(tt.items)
			assert.Equal(t, tt.subtotal, totals.Subtotal)
			assert.Equal(t, tt.shipping, totals.Shipping)
			assert.Equal(t, tt.total, totals.Total)
		})
	}
}

func TestComputeTotalsRoundsToCents(t *testing.T) {
	// 3 x 0.10 must not accumulate binary float noise.
	items := []models.CartLineItem{lineItem("p1", "100g", 0.10, 3)}

	totals := ComputeTotals(items)

	assert.Equal(t, 0.30, totals.Subtotal)
	assert.Equal(t, 2.30, totals.Total)
}
