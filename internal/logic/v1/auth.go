package v1

import (
	"context"

	"github.com/duynhne/franchise-service/internal/core/domain"
)

// AuthStore holds the signed-in identity of one browser under the auth key.
// deps.Store must be the client-scoped store.
type AuthStore struct {
	value *syncedValue[domain.User]
}

// NewAuthStore loads the identity persisted for the client.
func NewAuthStore(ctx context.Context, deps StoreDeps) *AuthStore {
	deps = deps.withDefaults()
	return &AuthStore{
		value: newSyncedValue[domain.User](ctx, deps.Store, deps.Keys.Auth(), deps.Logger),
	}
}

// Current returns the signed-in user, or nil for an anonymous visitor.
func (a *AuthStore) Current(ctx context.Context) *domain.User {
	a.value.lock(ctx)
	defer a.value.unlock()
	if !a.value.present || a.value.value.ID == "" {
		return nil
	}
	u := a.value.value
	return &u
}

func (a *AuthStore) set(ctx context.Context, user domain.User) error {
	a.value.lock(ctx)
	defer a.value.unlock()
	return a.value.writeLocked(ctx, user)
}

func (a *AuthStore) clear(ctx context.Context) error {
	a.value.lock(ctx)
	defer a.value.unlock()
	if !a.value.present {
		return nil
	}
	return a.value.removeLocked(ctx)
}

// Close stops listening for change notifications.
func (a *AuthStore) Close() {
	a.value.close()
}
