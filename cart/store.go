package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"freshcart/events"
	"freshcart/models"
)

// Store is the shopper's cart: an ordered sequence of line items persisted as
// one record in a Backend, with a change signal emitted after every write.
//
// The mutex only serializes callers within this process, so each mutation is
// a single read-modify-write turn. Across processes the backend contract
// applies: last write wins.
type Store struct {
	backend Backend
	bus     *events.Bus

	mu    sync.Mutex
	items []models.CartLineItem // snapshot of the last read or written state
}

// NewStore creates a Store over backend. bus may be nil, in which case no
// change signals are emitted.
func NewStore(backend Backend, bus *events.Bus) *Store {
	return &Store{backend: backend, bus: bus}
}

// Load returns the persisted line items. A missing record, or one that fails
// to parse as a JSON array, reads as an empty cart; corruption is never
// surfaced as an error.
func (s *Store) Load(ctx context.Context) []models.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Store) loadLocked(ctx context.Context) []models.CartLineItem {
	data, err := s.backend.Get(ctx)
	if err != nil {
		s.items = nil
		return []models.CartLineItem{}
	}
	var items []models.CartLineItem
	if err := json.Unmarshal(data, &items); err != nil || items == nil {
		s.items = nil
		return []models.CartLineItem{}
	}
	s.items = items
	return items
}

// Save serializes items and overwrites the stored record unconditionally,
// then emits a change signal.
func (s *Store) Save(ctx context.Context, items []models.CartLineItem) error {
	s.mu.Lock()
	err := s.saveLocked(ctx, items)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *Store) saveLocked(ctx context.Context, items []models.CartLineItem) error {
	if items == nil {
		items = []models.CartLineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := s.backend.Set(ctx, data); err != nil {
		return fmt.Errorf("persist cart failed: %w", err)
	}
	s.items = items
	return nil
}

// Add puts item in the cart. An item whose CartID already exists has its
// quantity added to the existing line; otherwise the item is appended.
func (s *Store) Add(ctx context.Context, item models.CartLineItem) error {
	if item.CartID == "" {
		item.CartID = models.LineItemID(item.ProductID, item.Unit)
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	return s.mutate(ctx, func(items []models.CartLineItem) []models.CartLineItem {
		for i := range items {
			if items[i].CartID == item.CartID {
				items[i].Quantity += item.Quantity
				return items
			}
		}
		return append(items, item)
	})
}

// UpdateQuantity adjusts a line's quantity by delta, clamped so the quantity
// never drops below 1. An unknown cartID leaves the cart unchanged.
func (s *Store) UpdateQuantity(ctx context.Context, cartID string, delta int) error {
	return s.mutate(ctx, func(items []models.CartLineItem) []models.CartLineItem {
		for i := range items {
			if items[i].CartID == cartID {
				q := items[i].Quantity + delta
				if q < 1 {
					q = 1
				}
				items[i].Quantity = q
				break
			}
		}
		return items
	})
}

// Remove deletes the line with the given cartID.
func (s *Store) Remove(ctx context.Context, cartID string) error {
	return s.mutate(ctx, func(items []models.CartLineItem) []models.CartLineItem {
		kept := items[:0]
		for _, it := range items {
			if it.CartID != cartID {
				kept = append(kept, it)
			}
		}
		return kept
	})
}

// Clear writes the empty sequence. Checkout calls this after, and only after,
// the order has been accepted.
func (s *Store) Clear(ctx context.Context) error {
	return s.Save(ctx, nil)
}

// Count returns the number of lines in the last loaded or written snapshot
// without touching the backend. Callers refresh via Load on change signals.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) mutate(ctx context.Context, fn func([]models.CartLineItem) []models.CartLineItem) error {
	s.mu.Lock()
	items := s.loadLocked(ctx)
	items = fn(items)
	err := s.saveLocked(ctx, items)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *Store) notify() {
	if s.bus != nil {
		s.bus.Emit(events.CartUpdated{})
	}
}
