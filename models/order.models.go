package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order lifecycle. The API owns these transitions; clients only ever read and
// request them.
const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// ShippingAddress is the delivery information captured on the checkout form.
type ShippingAddress struct {
	FullName string `bson:"fullName" json:"fullName"`
	Email    string `bson:"email" json:"email"`
	Phone    string `bson:"phone" json:"phone"`
	Address  string `bson:"address" json:"address"`
	City     string `bson:"city" json:"city"`
	Zip      string `bson:"zip" json:"zip"`
}

// Order represents a placed order
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email           string             `bson:"email" json:"email"`
	Products        []CartLineItem     `bson:"products" json:"products"`
	Total           float64            `bson:"total" json:"total"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	TransactionID   string             `bson:"transactionId" json:"transactionId"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	OrderStatus     string             `bson:"orderStatus" json:"orderStatus"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
}

// CanTransition reports whether an order may move from one status to another.
// Cancelled orders can be restored to pending from the dashboard; delivered
// is terminal.
func CanTransition(from, to string) bool {
	switch from {
	case OrderStatusPending:
		return to == OrderStatusShipped || to == OrderStatusCancelled
	case OrderStatusShipped:
		return to == OrderStatusDelivered || to == OrderStatusCancelled
	case OrderStatusCancelled:
		return to == OrderStatusPending
	}
	return false
}
