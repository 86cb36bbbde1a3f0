package v1

import (
	"context"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/duynhne/franchise-service/internal/core/domain"
	"github.com/duynhne/franchise-service/internal/core/storage"
	"github.com/duynhne/franchise-service/middleware"
)

// StoreDeps are the collaborators shared by every store of a client.
type StoreDeps struct {
	Store  domain.Store
	Keys   storage.Keys
	Logger *zap.Logger
	Now    func() time.Time
}

func (d StoreDeps) withDefaults() StoreDeps {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Keys.Namespace == "" {
		d.Keys = storage.NewKeys("")
	}
	return d
}

// PreferenceStore holds one user's like, dislike, saved or compare
// collection. Every operation is a no-op for anonymous callers.
type PreferenceStore struct {
	collection domain.Collection
	userID     string
	limit      int
	now        func() time.Time
	value      *syncedValue[[]domain.PreferenceRecord]
}

// NewPreferenceStore loads the collection of userID. An empty userID yields
// an anonymous, always-empty store. limit caps the number of entries; zero
// means unbounded.
func NewPreferenceStore(ctx context.Context, deps StoreDeps, collection domain.Collection, userID string, limit int) *PreferenceStore {
	deps = deps.withDefaults()
	s := &PreferenceStore{collection: collection, userID: userID, limit: limit, now: deps.Now}
	if userID == "" {
		return s
	}
	logger := deps.Logger.With(zap.String("collection", string(collection)), zap.String("user_id", userID))
	s.value = newSyncedValue[[]domain.PreferenceRecord](ctx, deps.Store, deps.Keys.Collection(userID, collection), logger)
	return s
}

// Collection returns the collection this store manages.
func (s *PreferenceStore) Collection() domain.Collection { return s.collection }

// UserID returns the owner, or "" for an anonymous store.
func (s *PreferenceStore) UserID() string { return s.userID }

// Add records f, replacing an existing record with the same id. It reports
// whether the collection grew.
func (s *PreferenceStore) Add(ctx context.Context, f domain.Franchise) (bool, error) {
	if f.ID == "" {
		return false, domain.ErrInvalidFranchise
	}
	if s.value == nil {
		return false, nil
	}

	ctx, span := middleware.StartSpan(ctx, "preferences.add", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("collection", string(s.collection)),
		attribute.String("franchise.id", f.ID),
	))
	defer span.End()

	s.value.lock(ctx)
	defer s.value.unlock()

	current := s.value.value
	idx := indexOfRecord(current, f.ID)
	if idx < 0 && s.limit > 0 && len(current) >= s.limit {
		span.SetAttributes(attribute.Bool("preferences.full", true))
		return false, domain.ErrCompareFull
	}

	record := domain.NewPreferenceRecord(f, s.now())
	next := slices.Clone(current)
	if idx >= 0 {
		next[idx] = record
	} else {
		next = append(next, record)
	}

	if err := s.value.writeLocked(ctx, next); err != nil {
		span.RecordError(err)
		return false, err
	}

	op := "update"
	if idx < 0 {
		op = "add"
	}
	preferenceMutations.WithLabelValues(string(s.collection), op).Inc()
	return idx < 0, nil
}

// Remove deletes the record for franchiseID and reports whether one existed.
func (s *PreferenceStore) Remove(ctx context.Context, franchiseID string) (bool, error) {
	if s.value == nil {
		return false, nil
	}

	s.value.lock(ctx)
	defer s.value.unlock()

	current := s.value.value
	idx := indexOfRecord(current, franchiseID)
	if idx < 0 {
		return false, nil
	}

	next := slices.Delete(slices.Clone(current), idx, idx+1)
	if err := s.value.writeLocked(ctx, next); err != nil {
		return false, err
	}
	preferenceMutations.WithLabelValues(string(s.collection), "remove").Inc()
	return true, nil
}

// Has reports whether franchiseID is in the collection.
func (s *PreferenceStore) Has(ctx context.Context, franchiseID string) bool {
	if s.value == nil {
		return false
	}
	s.value.lock(ctx)
	defer s.value.unlock()
	return indexOfRecord(s.value.value, franchiseID) >= 0
}

// List returns a copy of the collection in insertion order.
func (s *PreferenceStore) List(ctx context.Context) []domain.PreferenceRecord {
	if s.value == nil {
		return []domain.PreferenceRecord{}
	}
	s.value.lock(ctx)
	defer s.value.unlock()
	if s.value.value == nil {
		return []domain.PreferenceRecord{}
	}
	return slices.Clone(s.value.value)
}

// Len returns the number of records.
func (s *PreferenceStore) Len(ctx context.Context) int {
	if s.value == nil {
		return 0
	}
	s.value.lock(ctx)
	defer s.value.unlock()
	return len(s.value.value)
}

// Reload re-reads the collection from storage.
func (s *PreferenceStore) Reload(ctx context.Context) {
	if s.value != nil {
		s.value.reload(ctx)
	}
}

// Close stops listening for change notifications.
func (s *PreferenceStore) Close() {
	if s.value != nil {
		s.value.close()
	}
}

// indexOfRecord returns the position of the last record for id. Duplicates
// can only come from an external writer; the last one wins.
func indexOfRecord(records []domain.PreferenceRecord, id string) int {
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].FranchiseID == id {
			return i
		}
	}
	return -1
}
