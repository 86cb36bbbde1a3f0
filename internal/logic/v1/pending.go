package v1

import (
	"context"
	"slices"
	"time"

	"github.com/duynhne/franchise-service/internal/core/domain"
)

// PendingQueue holds the preference actions an anonymous visitor took in the
// current session. deps.Store must be the session-scoped store.
type PendingQueue struct {
	now   func() time.Time
	value *syncedValue[[]domain.PendingAction]
}

// NewPendingQueue loads the session's queue.
func NewPendingQueue(ctx context.Context, deps StoreDeps) *PendingQueue {
	deps = deps.withDefaults()
	return &PendingQueue{
		now:   deps.Now,
		value: newSyncedValue[[]domain.PendingAction](ctx, deps.Store, deps.Keys.PendingActions(), deps.Logger),
	}
}

// Add records an action, replacing any earlier action with the same type and
// franchise id. snapshot may be nil.
func (q *PendingQueue) Add(ctx context.Context, t domain.ActionType, franchiseID, name string, snapshot *domain.Franchise) error {
	if t.Collection() == "" {
		return domain.ErrUnknownActionType
	}
	if franchiseID == "" {
		return domain.ErrInvalidFranchise
	}

	q.value.lock(ctx)
	defer q.value.unlock()

	next := slices.DeleteFunc(slices.Clone(q.value.value), func(a domain.PendingAction) bool {
		return a.Type == t && a.FranchiseID == franchiseID
	})
	action := domain.PendingAction{
		Type:        t,
		FranchiseID: franchiseID,
		Name:        name,
		Timestamp:   q.now(),
	}
	if snapshot != nil {
		snap := *snapshot
		action.Franchise = &snap
	}
	next = append(next, action)

	if err := q.value.writeLocked(ctx, next); err != nil {
		return err
	}
	pendingRecorded.WithLabelValues(string(t)).Inc()
	return nil
}

// Remove drops the action for (t, franchiseID) and reports whether it existed.
func (q *PendingQueue) Remove(ctx context.Context, t domain.ActionType, franchiseID string) (bool, error) {
	q.value.lock(ctx)
	defer q.value.unlock()

	current := q.value.value
	next := slices.DeleteFunc(slices.Clone(current), func(a domain.PendingAction) bool {
		return a.Type == t && a.FranchiseID == franchiseID
	})
	if len(next) == len(current) {
		return false, nil
	}
	if err := q.value.writeLocked(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// All returns the queued actions in recording order.
func (q *PendingQueue) All(ctx context.Context) []domain.PendingAction {
	q.value.lock(ctx)
	defer q.value.unlock()
	if q.value.value == nil {
		return []domain.PendingAction{}
	}
	return slices.Clone(q.value.value)
}

// Len returns the number of queued actions.
func (q *PendingQueue) Len(ctx context.Context) int {
	q.value.lock(ctx)
	defer q.value.unlock()
	return len(q.value.value)
}

// Clear deletes the whole queue. Clearing an absent queue writes nothing.
func (q *PendingQueue) Clear(ctx context.Context) error {
	q.value.lock(ctx)
	defer q.value.unlock()
	if !q.value.present && len(q.value.value) == 0 {
		return nil
	}
	return q.value.removeLocked(ctx)
}

// Export groups the queue by action type with counts.
func (q *PendingQueue) Export(ctx context.Context) domain.PendingExport {
	actions := q.All(ctx)
	out := domain.PendingExport{
		Total:   len(actions),
		Counts:  make(map[domain.ActionType]int, len(domain.ActionTypes)),
		Actions: make(map[domain.ActionType][]domain.PendingAction, len(domain.ActionTypes)),
	}
	for _, t := range domain.ActionTypes {
		out.Counts[t] = 0
		out.Actions[t] = []domain.PendingAction{}
	}
	for _, a := range actions {
		out.Counts[a.Type]++
		out.Actions[a.Type] = append(out.Actions[a.Type], a)
	}
	return out
}

// Close stops listening for change notifications.
func (q *PendingQueue) Close() {
	q.value.close()
}

// Reload re-reads the queue from storage.
func (q *PendingQueue) Reload(ctx context.Context) {
	q.value.reload(ctx)
}
