package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductVariant is a purchasable unit of a product (e.g. "500g", "1kg")
// with its own price and stock.
type ProductVariant struct {
	Unit  string  `bson:"unit" json:"unit"`
	Price float64 `bson:"price" json:"price"`
	Stock int     `bson:"stock" json:"stock"`
}

// AddedBy records which dashboard account created a product.
type AddedBy struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
}

// Product represents a grocery item in the catalog
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Category    string             `bson:"category" json:"category"`
	Price       float64            `bson:"price" json:"price"`
	Description string             `bson:"description" json:"description"`
	SingleImg   string             `bson:"singleImg" json:"singleImg"`
	Images      []string           `bson:"images" json:"images"`
	Variants    []ProductVariant   `bson:"variants" json:"variants"`
	AddedBy     AddedBy            `bson:"addedBy" json:"addedBy"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}
