package storage

import (
	"context"
	"strings"

	"github.com/duynhne/franchise-service/internal/core/domain"
)

type prefixedStore struct {
	store  domain.Store
	prefix string
}

// Prefixed scopes store under prefix. It is how a browser-level area (auth)
// and a tab-level area (pending actions) share one backend.
func Prefixed(store domain.Store, prefix string) domain.Store {
	if prefix == "" {
		return store
	}
	return &prefixedStore{store: store, prefix: prefix}
}

func (p *prefixedStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	return p.store.GetItem(ctx, p.prefix+key)
}

func (p *prefixedStore) SetItem(ctx context.Context, key, value string) error {
	return p.store.SetItem(ctx, p.prefix+key, value)
}

func (p *prefixedStore) RemoveItem(ctx context.Context, key string) error {
	return p.store.RemoveItem(ctx, p.prefix+key)
}

func (p *prefixedStore) Subscribe(key string, fn func(domain.StorageEvent)) func() {
	return p.store.Subscribe(p.prefix+key, func(evt domain.StorageEvent) {
		evt.Key = strings.TrimPrefix(evt.Key, p.prefix)
		fn(evt)
	})
}

// ClientPrefix scopes browser-level keys for one client.
func ClientPrefix(clientID string) string {
	return "client:" + clientID + ":"
}

// SessionPrefix scopes tab-level keys for one session.
func SessionPrefix(sessionID string) string {
	return "session:" + sessionID + ":"
}
