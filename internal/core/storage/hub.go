// Package storage implements the web-storage port used by the session and
// preference stores: an in-process change hub, key builders, a JSON codec and
// the memory and Redis backends.
package storage

import (
	"sync"

	"github.com/duynhne/franchise-service/internal/core/domain"
)

// Hub is an in-process, key-scoped publish/subscribe fan-out. Handlers run
// synchronously on the publishing goroutine and must not block.
type Hub struct {
	mu   sync.RWMutex
	next uint64
	subs map[string]map[uint64]func(domain.StorageEvent)
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[uint64]func(domain.StorageEvent))}
}

// Subscribe registers fn for events on key and returns a function that
// removes the registration. Calling it more than once is safe.
func (h *Hub) Subscribe(key string, fn func(domain.StorageEvent)) func() {
	h.mu.Lock()
	h.next++
	id := h.next
	if h.subs[key] == nil {
		h.subs[key] = make(map[uint64]func(domain.StorageEvent))
	}
	h.subs[key][id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[key], id)
			if len(h.subs[key]) == 0 {
				delete(h.subs, key)
			}
		})
	}
}

// Publish delivers evt to every subscriber of evt.Key.
func (h *Hub) Publish(evt domain.StorageEvent) {
	h.mu.RLock()
	handlers := make([]func(domain.StorageEvent), 0, len(h.subs[evt.Key]))
	for _, fn := range h.subs[evt.Key] {
		handlers = append(handlers, fn)
	}
	h.mu.RUnlock()

	for _, fn := range handlers {
		fn(evt)
	}
}

// Subscribers returns the number of handlers registered for key.
func (h *Hub) Subscribers(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[key])
}
