package cart

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := NewFileBackend(filepath.Join(t.TempDir(), "state", "cart.json"))

	_, err := backend.Get(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, backend.Set(ctx, []byte(`[{"cartId":"p1-500g"}]`)))

	data, err := backend.Get(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"cartId":"p1-500g"}]`, string(data))

	require.NoError(t, backend.Delete(ctx))
	_, err = backend.Get(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileBackendDeleteMissingIsNoop(t *testing.T) {
	backend := NewFileBackend(filepath.Join(t.TempDir(), "cart.json"))

	assert.NoError(t, backend.Delete(context.Background()))
}
