package v1

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/duynhne/franchise-service/internal/core/domain"
	"github.com/duynhne/franchise-service/internal/core/storage"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type scheduledCall struct {
	delay time.Duration
	fn    func()
}

// manualScheduler queues callbacks until the test runs them.
type manualScheduler struct {
	mu     sync.Mutex
	calls  []scheduledCall
	delays []time.Duration
}

func (s *manualScheduler) AfterFunc(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, scheduledCall{delay: d, fn: fn})
	s.delays = append(s.delays, d)
}

// runAll runs queued callbacks, including ones they schedule.
func (s *manualScheduler) runAll() {
	for {
		s.mu.Lock()
		if len(s.calls) == 0 {
			s.mu.Unlock()
			return
		}
		next := s.calls[0]
		s.calls = s.calls[1:]
		s.mu.Unlock()
		next.fn()
	}
}

func (s *manualScheduler) scheduled() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

type navigations struct {
	mu    sync.Mutex
	paths []string
}

func (n *navigations) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *navigations) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

// flakyStore fails writes while failWrites is set and reads while
// failReads is set.
type flakyStore struct {
	*storage.Memory
	failWrites atomic.Bool
	failReads  atomic.Bool
}

var (
	errWriteFailed = errors.New("quota exceeded")
	errReadFailed  = errors.New("connection reset")
)

func newFlakyStore() *flakyStore {
	return &flakyStore{Memory: storage.NewMemory()}
}

func (f *flakyStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	if f.failReads.Load() {
		return "", false, errReadFailed
	}
	return f.Memory.GetItem(ctx, key)
}

func (f *flakyStore) SetItem(ctx context.Context, key, value string) error {
	if f.failWrites.Load() {
		return errWriteFailed
	}
	return f.Memory.SetItem(ctx, key, value)
}

func (f *flakyStore) RemoveItem(ctx context.Context, key string) error {
	if f.failWrites.Load() {
		return errWriteFailed
	}
	return f.Memory.RemoveItem(ctx, key)
}

type recordingEngagement struct {
	mu     sync.Mutex
	events []domain.EngagementEvent
	err    error
}

func (r *recordingEngagement) Track(_ context.Context, evt domain.EngagementEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return r.err
}

func (r *recordingEngagement) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Name)
	}
	return out
}

type recordingCRM struct {
	mu       sync.Mutex
	contacts []domain.Contact
	err      error
}

func (r *recordingCRM) CreateOrUpdate(_ context.Context, contact domain.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contacts = append(r.contacts, contact)
	return r.err
}

func acme() domain.Franchise {
	return domain.Franchise{ID: "f-acme", Name: "Acme Coffee", Category: "Food"}
}

func franchise(id string) domain.Franchise {
	return domain.Franchise{ID: id, Name: "Brand " + id}
}
