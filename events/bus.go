package events

import "sync"

// CartUpdated is emitted after any mutation of the cart store. It carries no
// payload; subscribers re-read whatever derived state they need from the
// store itself.
type CartUpdated struct{}

// Handler receives CartUpdated events.
type Handler func(CartUpdated)

// Bus is an in-process notifier for cart changes. Delivery is synchronous and
// runs handlers in subscription order within the emitting call. Nothing is
// delivered across restarts; state is rebuilt from the cart store, not from
// an event log.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   []subscriber
}

type subscriber struct {
	id int
	h  Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h and returns a function that removes it again.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber{id: id, h: h})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers e to every current subscriber, in subscription order.
func (b *Bus) Emit(e CartUpdated) {
	b.mu.Lock()
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		s.h(e)
	}
}
