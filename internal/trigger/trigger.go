// Package trigger is a small synchronous notification bus between the
// selection core and whatever hosts it.
package trigger

import (
	"log/slog"
	"sync"
)

// Name identifies a notification.
type Name string

const (
	SelectionChanged Name = "SelectionChanged"
	DeleteItems      Name = "DeleteItems"
	LayersChanged    Name = "LayersChanged"
)

// Handler receives a notification.
type Handler func(Name)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus dispatches notifications to subscribers in subscription order.
// Handlers run synchronously on the emitting goroutine.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[Name][]subscription
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[Name][]subscription)}
}

// On subscribes h to name and returns an id for Off.
func (b *Bus) On(name Name, h Handler) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.subs[name] = append(b.subs[name], subscription{id: b.nextID, handler: h})
	return b.nextID
}

// Off removes a subscription. Unknown ids are ignored.
func (b *Bus) Off(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for name, list := range b.subs {
		for i, s := range list {
			if s.id == id {
				b.subs[name] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Emit notifies every subscriber of name.
func (b *Bus) Emit(name Name) {
	b.mu.RLock()
	list := append([]subscription(nil), b.subs[name]...)
	b.mu.RUnlock()

	slog.Debug("trigger", "name", name, "subscribers", len(list))
	for _, s := range list {
		s.handler(name)
	}
}

// EmitAll emits each name in order.
func (b *Bus) EmitAll(names ...Name) {
	for _, n := range names {
		b.Emit(n)
	}
}
