package v1

import (
	"context"

	"go.uber.org/zap"

	"github.com/duynhne/franchise-service/internal/core/domain"
)

// ProfileStore holds one user's profile. Anonymous stores never persist.
type ProfileStore struct {
	userID string
	value  *syncedValue[domain.UserProfile]
}

// NewProfileStore loads the profile of userID.
func NewProfileStore(ctx context.Context, deps StoreDeps, userID string) *ProfileStore {
	deps = deps.withDefaults()
	s := &ProfileStore{userID: userID}
	if userID == "" {
		return s
	}
	logger := deps.Logger.With(zap.String("user_id", userID))
	s.value = newSyncedValue[domain.UserProfile](ctx, deps.Store, deps.Keys.Profile(userID), logger)
	return s
}

// Get returns the stored profile, or nil when none exists.
func (s *ProfileStore) Get(ctx context.Context) *domain.UserProfile {
	if s.value == nil {
		return nil
	}
	s.value.lock(ctx)
	defer s.value.unlock()
	if !s.value.present {
		return nil
	}
	p := s.value.value
	return &p
}

// Update overwrites the profile wholesale. It reports false for anonymous
// stores, which do nothing.
func (s *ProfileStore) Update(ctx context.Context, profile domain.UserProfile) (bool, error) {
	if s.value == nil {
		return false, nil
	}
	s.value.lock(ctx)
	defer s.value.unlock()
	if err := s.value.writeLocked(ctx, profile); err != nil {
		return false, err
	}
	return true, nil
}

// Close stops listening for change notifications.
func (s *ProfileStore) Close() {
	if s.value != nil {
		s.value.close()
	}
}
