package cart

import (
	"context"
	"sync"
)

// NewMemoryBackend returns an in-process backend. Nothing survives a restart;
// suitable for tests and ephemeral runs.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// MemoryBackend holds the cart record in a single in-memory slot.
type MemoryBackend struct {
	mu   sync.RWMutex
	data []byte
	set  bool
}

func (m *MemoryBackend) Get(_ context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.set {
		return nil, ErrNotFound
	}
	data := make([]byte, len(m.data))
	copy(data, m.data)
	return data, nil
}

func (m *MemoryBackend) Set(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make([]byte, len(data))
	copy(m.data, data)
	m.set = true
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	m.set = false
	return nil
}
