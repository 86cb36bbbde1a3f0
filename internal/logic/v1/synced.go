package v1

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/duynhne/franchise-service/internal/core/domain"
	"github.com/duynhne/franchise-service/internal/core/storage"
)

// syncedValue mirrors one JSON-encoded storage key in memory.
//
// Writes go to storage first and only then replace the in-memory value, so
// memory never runs ahead of storage. Change notifications for the key only
// mark the value stale; the next locked access reloads it. Reloading is
// deferred because notifications can arrive on a goroutine that is itself
// inside a write.
type syncedValue[T any] struct {
	store  domain.Store
	key    string
	logger *zap.Logger

	mu          sync.Mutex
	value       T
	present     bool
	stale       atomic.Bool
	unsubscribe func()
}

func newSyncedValue[T any](ctx context.Context, store domain.Store, key string, logger *zap.Logger) *syncedValue[T] {
	v := &syncedValue[T]{store: store, key: key, logger: logger}
	v.unsubscribe = store.Subscribe(key, func(domain.StorageEvent) {
		v.stale.Store(true)
	})
	v.mu.Lock()
	v.loadLocked(ctx)
	v.mu.Unlock()
	return v
}

// lock acquires the value, reloading it first if another writer changed it.
func (v *syncedValue[T]) lock(ctx context.Context) {
	v.mu.Lock()
	if v.stale.Load() {
		v.loadLocked(ctx)
	}
}

func (v *syncedValue[T]) unlock() {
	v.mu.Unlock()
}

func (v *syncedValue[T]) loadLocked(ctx context.Context) {
	// Clear first so a notification racing with the read marks it again.
	v.stale.Store(false)

	var next T
	found, err := storage.LoadJSON(ctx, v.store, v.key, &next)
	switch {
	case errors.Is(err, storage.ErrMalformedValue):
		malformedValues.Inc()
		v.logger.Warn("Discarded malformed stored value", zap.String("key", v.key), zap.Error(err))
	case err != nil:
		// Keep the last known value and retry on the next access.
		v.logger.Error("Failed to load stored value", zap.String("key", v.key), zap.Error(err))
		v.stale.Store(true)
		return
	}

	if !found {
		var zero T
		next = zero
	}
	v.value = next
	v.present = found
}

func (v *syncedValue[T]) writeLocked(ctx context.Context, next T) error {
	if err := storage.SaveJSON(ctx, v.store, v.key, next); err != nil {
		return err
	}
	v.value = next
	v.present = true
	return nil
}

func (v *syncedValue[T]) removeLocked(ctx context.Context) error {
	if err := v.store.RemoveItem(ctx, v.key); err != nil {
		return err
	}
	var zero T
	v.value = zero
	v.present = false
	return nil
}

// reload forces a read from storage.
func (v *syncedValue[T]) reload(ctx context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loadLocked(ctx)
}

func (v *syncedValue[T]) close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
	}
}
