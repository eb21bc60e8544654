package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dashboard roles, least to most privileged.
const (
	RoleUser    = "user"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// ValidRole reports whether r is one of the known role tags.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleManager || r == RoleAdmin
}

// User represents a user in the system
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	PhotoURL  string             `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	Password  string             `bson:"password,omitempty" json:"-"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
