package cart

import (
	"math"

	"freshcart/models"
)

// Shipping is free once the subtotal reaches the threshold; below it a flat
// charge applies.
const (
	FreeShippingThreshold = 50.0
	ShippingCharge        = 2.0
)

// Totals is the derived cost summary of a cart.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// ComputeTotals derives subtotal, shipping and total from the line items. It
// is pure: the same items always produce the same totals.
func ComputeTotals(items []models.CartLineItem) Totals {
	var subtotal float64
	for _, it := range items {
		subtotal += it.Price * float64(it.Quantity)
	}
	subtotal = roundCents(subtotal)

	shipping := ShippingCharge
	if subtotal >= FreeShippingThreshold {
		shipping = 0
	}
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    roundCents(subtotal + shipping),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
