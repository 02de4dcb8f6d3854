// Package notify implements the in-process notification bus used to
// announce vault lock-state transitions and entry mutations.
//
// Publishing is fire-and-forget with synchronous fan-out: subscribers run
// on the publisher's goroutine, in subscription order, and a panic in one
// subscriber never prevents the others from running.
package notify

import "sync"

// EventType identifies a vault event.
type EventType string

const (
	EventVaultUnlocked EventType = "VAULT_UNLOCKED"
	EventVaultLocked   EventType = "VAULT_LOCKED"
	EventEntrySaved    EventType = "VAULT_ENTRY_SAVED"
	EventEntryDeleted  EventType = "VAULT_ENTRY_DELETED"
	EventError         EventType = "ERROR"
)

// Event is a single notification. Only the fields relevant to the Type
// are populated: Count for unlock, Entry for saves, ID for deletions,
// Message/Err for errors.
type Event struct {
	Type    EventType
	Count   int
	Entry   any
	ID      string
	Message string
	Err     error
}

// Handler receives published events.
type Handler func(Event)

// Bus is a minimal synchronous publish/subscribe hub. The zero value is
// ready to use. Safe for concurrent use.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]Handler
	order    []int
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h and returns a function that removes it again.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers == nil {
		b.handlers = make(map[int]Handler)
	}
	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	b.order = append(b.order, id)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers, id)
		for i, v := range b.order {
			if v == id {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers e to every subscriber in subscription order. A
// panicking subscriber is recovered so the remaining ones still run.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.order))
	for _, id := range b.order {
		if h, ok := b.handlers[id]; ok {
			handlers = append(handlers, h)
		}
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		func() {
			defer func() { _ = recover() }()
			h(e)
		}()
	}
}
