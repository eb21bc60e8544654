package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"freshcart/models"
	"freshcart/utils"
)

// Key type for context
type contextKey string

const UserContextKey = contextKey("user")

// ErrRoleNotFound means no role record exists for the session's email.
var ErrRoleNotFound = errors.New("role record not found")

// RoleFinder resolves the stored role for an email. The role gate calls it on
// every protected request; nothing is cached between evaluations.
type RoleFinder interface {
	FindRole(ctx context.Context, email string) (string, error)
}

// MongoRoleFinder looks roles up in the users collection.
type MongoRoleFinder struct {
	users *mongo.Collection
}

// NewMongoRoleFinder creates a finder over the users collection.
func NewMongoRoleFinder(client *mongo.Client) *MongoRoleFinder {
	return &MongoRoleFinder{users: client.Database(utils.DatabaseName).Collection("users")}
}

func (f *MongoRoleFinder) FindRole(ctx context.Context, email string) (string, error) {
	var user models.User
	err := f.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return "", ErrRoleNotFound
	}
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

// Auth holds the two gates protected routes pass through: token
// authentication, then a role check against a per-route allow-list.
type Auth struct {
	roles   RoleFinder
	revoker *Revoker
}

// NewAuth wires the gates.
func NewAuth(roles RoleFinder, revoker *Revoker) *Auth {
	return &Auth{roles: roles, revoker: revoker}
}

// Authenticate verifies the Bearer JWT and attaches its claims to the request
// context. Authentication is always decided before any role lookup happens.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
			return
		}

		claims := &utils.Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			return utils.JwtKey, nil
		})
		if err != nil || !token.Valid {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		if a.revoker.IsRevoked(claims.Id) {
			http.Error(w, "Session terminated", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole re-checks the caller's stored role on every request, fetched
// fresh by email. A caller whose role is not in the allow-list has their
// session revoked before the deny. A failed lookup denies the request rather
// than letting it through.
func (a *Auth) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(UserContextKey).(*utils.Claims)
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()

			role, err := a.roles.FindRole(ctx, claims.Email)
			if err == ErrRoleNotFound {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			if err != nil {
				log.WithError(err).WithField("email", claims.Email).Error("role lookup failed")
				http.Error(w, "Role verification unavailable", http.StatusServiceUnavailable)
				return
			}

			for _, want := range allowed {
				if role == want {
					next.ServeHTTP(w, r)
					return
				}
			}

			// Strict deny: the session is terminated, not just refused.
			a.revoker.Revoke(claims.Id, time.Unix(claims.ExpiresAt, 0))
			log.WithFields(log.Fields{"email": claims.Email, "role": role}).
				Warn("role not allowed, session revoked")
			http.Error(w, "Forbidden: session terminated", http.StatusForbidden)
		})
	}
}
