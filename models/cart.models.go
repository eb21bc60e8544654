package models

// CartLineItem is one line of the shopper's cart. A line is identified by
// CartID, which is derived from the product and the chosen variant unit, so
// adding the same product+unit twice merges into one line instead of
// appending a duplicate.
type CartLineItem struct {
	CartID    string  `bson:"cart_id" json:"cartId"`
	ProductID string  `bson:"product_id" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Image     string  `bson:"image" json:"image"`
	Price     float64 `bson:"price" json:"price"`
	Unit      string  `bson:"unit" json:"unit"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Category  string  `bson:"category" json:"category"`
}

// LineItemID builds the cart line identifier for a product and variant unit.
func LineItemID(productID, unit string) string {
	if unit == "" {
		unit = "default"
	}
	return productID + "-" + unit
}
