package middleware

import (
	"sync"
	"time"
)

// Revoker is an in-memory denylist of token ids (jti). The role gate revokes
// a session's token when its stored role no longer allows the route it asked
// for. Entries expire with the tokens they block, so the map stays bounded by
// the token lifetime.
type Revoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewRevoker creates an empty denylist.
func NewRevoker() *Revoker {
	return &Revoker{revoked: make(map[string]time.Time)}
}

// Revoke blocks the token id until it would have expired anyway.
func (r *Revoker) Revoke(jti string, expiresAt time.Time) {
	if jti == "" {
		return
	}
	r.mu.Lock()
	r.revoked[jti] = expiresAt
	r.mu.Unlock()
}

// IsRevoked reports whether the token id is on the denylist. Expired entries
// are pruned as they are seen.
func (r *Revoker) IsRevoked(jti string) bool {
	if jti == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	expiresAt, ok := r.revoked[jti]
	if !ok {
		return false
	}
	if time.Now().After(expiresAt) {
		delete(r.revoked, jti)
		return false
	}
	return true
}
