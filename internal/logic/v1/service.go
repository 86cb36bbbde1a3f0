package v1

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/duynhne/franchise-service/internal/core/domain"
	"github.com/duynhne/franchise-service/internal/core/storage"
)

// Settings tune session behaviour.
type Settings struct {
	ReplayDelay          time.Duration
	CompareRedirectDelay time.Duration
	CompareMaxItems      int
}

// DefaultSettings mirrors the configuration defaults.
func DefaultSettings() Settings {
	return Settings{
		ReplayDelay:          500 * time.Millisecond,
		CompareRedirectDelay: time.Second,
		CompareMaxItems:      4,
	}
}

// Options configure a Service. Zero fields take defaults.
type Options struct {
	Keys       storage.Keys
	Dispatcher *Dispatcher
	Scheduler  Scheduler
	Logger     *zap.Logger
	Now        func() time.Time
	Settings   Settings
}

// Service opens clients over one shared store. It owns no per-visitor state.
type Service struct {
	store      domain.Store
	keys       storage.Keys
	dispatcher *Dispatcher
	scheduler  Scheduler
	logger     *zap.Logger
	now        func() time.Time
	settings   Settings
}

// NewService creates a service over store.
func NewService(store domain.Store, opts Options) *Service {
	if opts.Keys.Namespace == "" {
		opts.Keys = storage.NewKeys("")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = TimerScheduler{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Settings == (Settings{}) {
		opts.Settings = DefaultSettings()
	}
	if opts.Dispatcher == nil {
		mock := NewMockCollaborator(opts.Logger)
		opts.Dispatcher = NewDispatcher(mock, mock, 0, opts.Logger)
	}
	return &Service{
		store:      store,
		keys:       opts.Keys,
		dispatcher: opts.Dispatcher,
		scheduler:  opts.Scheduler,
		logger:     opts.Logger,
		now:        opts.Now,
		settings:   opts.Settings,
	}
}

// Keys returns the key builder in use.
func (s *Service) Keys() storage.Keys { return s.keys }

// Store returns the shared, unscoped store.
func (s *Service) Store() domain.Store { return s.store }

// SessionStore returns the tab-scoped view of the shared store.
func (s *Service) SessionStore(sessionID string) domain.Store {
	return storage.Prefixed(s.store, storage.SessionPrefix(sessionID))
}

// Open builds the state container for one browser (clientID) and one of its
// tabs (sessionID). nav receives scheduled navigations; it may be nil.
func (s *Service) Open(ctx context.Context, clientID, sessionID string, nav Navigator) *Client {
	logger := s.logger.With(zap.String("client_id", clientID), zap.String("session_id", sessionID))
	base := StoreDeps{Store: s.store, Keys: s.keys, Logger: logger, Now: s.now}

	clientDeps := base
	clientDeps.Store = storage.Prefixed(s.store, storage.ClientPrefix(clientID))
	sessionDeps := base
	sessionDeps.Store = s.SessionStore(sessionID)

	c := &Client{
		svc:       s,
		deps:      base,
		logger:    logger,
		navigator: nav,
		auth:      NewAuthStore(ctx, clientDeps),
		pending:   NewPendingQueue(ctx, sessionDeps),
	}
	c.mu.Lock()
	c.syncLocked(ctx)
	c.mu.Unlock()
	return c
}
