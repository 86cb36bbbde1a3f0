package storage

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/duynhne/franchise-service/internal/core/domain"
)

// Memory is an in-process Store. It backs local development and tests and
// counts writes so callers can assert that an operation touched nothing.
type Memory struct {
	mu     sync.RWMutex
	items  map[string]string
	hub    *Hub
	origin string
	writes atomic.Int64
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		items:  make(map[string]string),
		hub:    NewHub(),
		origin: uuid.NewString(),
	}
}

func (m *Memory) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *Memory) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.items[key] = value
	m.mu.Unlock()
	m.writes.Add(1)

	v := value
	m.hub.Publish(domain.StorageEvent{Key: key, NewValue: &v, Origin: m.origin})
	return nil
}

func (m *Memory) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	_, existed := m.items[key]
	delete(m.items, key)
	m.mu.Unlock()
	if !existed {
		return nil
	}
	m.writes.Add(1)

	m.hub.Publish(domain.StorageEvent{Key: key, Removed: true, Origin: m.origin})
	return nil
}

func (m *Memory) Subscribe(key string, fn func(domain.StorageEvent)) func() {
	return m.hub.Subscribe(key, fn)
}

// Writes returns the number of mutating operations performed so far.
func (m *Memory) Writes() int64 {
	return m.writes.Load()
}

// Keys returns a snapshot of the stored keys.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	return keys
}
