package domain

import "context"

// Storage is a synchronous string key/value store with web-storage semantics.
// GetItem reports found=false for absent keys rather than returning an error.
type Storage interface {
	GetItem(ctx context.Context, key string) (value string, found bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// StorageEvent notifies subscribers that a key changed. Backends with bounded
// notification payloads may leave NewValue nil on writes, so subscribers
// reload the key instead of trusting the payload. Origin identifies the
// process that performed the write.
type StorageEvent struct {
	Key      string  `json:"key"`
	NewValue *string `json:"newValue,omitempty"`
	Removed  bool    `json:"removed,omitempty"`
	Origin   string  `json:"origin,omitempty"`
}

// Store is Storage plus key-scoped change notifications.
type Store interface {
	Storage
	Subscribe(key string, fn func(StorageEvent)) (unsubscribe func())
}
