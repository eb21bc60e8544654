package cart

import (
	"context"
	"errors"
)

// StorageKey is the well-known record name the serialized cart lives under.
const StorageKey = "cart"

// ErrNotFound is returned by a Backend when no cart record exists yet.
var ErrNotFound = errors.New("cart record not found")

// Backend is the durable slot the serialized cart lives in. A backend holds
// exactly one record and writes overwrite it unconditionally; there is no
// merge and no compare-and-set. Two processes writing through the same
// backend race, and the last write wins.
type Backend interface {
	Get(ctx context.Context) ([]byte, error)
	Set(ctx context.Context, data []byte) error
	Delete(ctx context.Context) error
}
