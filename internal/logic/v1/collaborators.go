package v1

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/duynhne/franchise-service/internal/core/domain"
)

// Engagement records user interaction events for analytics.
type Engagement interface {
	Track(ctx context.Context, evt domain.EngagementEvent) error
}

// CRM upserts contacts into the customer relationship system.
type CRM interface {
	CreateOrUpdate(ctx context.Context, contact domain.Contact) error
}

// CollaboratorClient talks to an engagement or CRM service over HTTP.
// Calls go through a circuit breaker so an unavailable service fails fast.
type CollaboratorClient struct {
	name       string
	baseURL    string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
}

// NewCollaboratorClient creates a client for the service at baseURL.
func NewCollaboratorClient(name, baseURL string, timeout time.Duration, logger *zap.Logger) *CollaboratorClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Collaborator circuit state changed",
				zap.String("collaborator", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &CollaboratorClient{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cb:         gobreaker.NewCircuitBreaker(settings),
	}
}

// Track posts an engagement event.
func (c *CollaboratorClient) Track(ctx context.Context, evt domain.EngagementEvent) error {
	return c.send(ctx, http.MethodPost, "/api/v1/events", evt)
}

// CreateOrUpdate upserts a contact.
func (c *CollaboratorClient) CreateOrUpdate(ctx context.Context, contact domain.Contact) error {
	return c.send(ctx, http.MethodPut, "/api/v1/contacts", contact)
}

func (c *CollaboratorClient) send(ctx context.Context, method, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", c.name, err)
	}

	_, err = c.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request %s: %w", c.name, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("%s error: %d - %s", c.name, resp.StatusCode, string(msg))
		}
		return nil, nil
	})
	return err
}

// MockCollaborator stands in for the engagement and CRM services when no URL
// is configured. It only logs.
type MockCollaborator struct {
	logger *zap.Logger
}

// NewMockCollaborator creates a logging collaborator.
func NewMockCollaborator(logger *zap.Logger) *MockCollaborator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MockCollaborator{logger: logger}
}

func (m *MockCollaborator) Track(_ context.Context, evt domain.EngagementEvent) error {
	m.logger.Debug("Engagement event (mock)",
		zap.String("event", evt.Name),
		zap.String("user_id", evt.UserID),
		zap.String("franchise_id", evt.FranchiseID),
	)
	return nil
}

func (m *MockCollaborator) CreateOrUpdate(_ context.Context, contact domain.Contact) error {
	m.logger.Debug("CRM contact upsert (mock)",
		zap.String("user_id", contact.UserID),
		zap.String("email", contact.Email),
	)
	return nil
}

// Dispatcher makes collaborator calls fire-and-forget: each call runs in its
// own goroutine with a timeout, and failures are logged and counted but never
// returned to the caller.
type Dispatcher struct {
	engagement Engagement
	crm        CRM
	logger     *zap.Logger
	timeout    time.Duration
	now        func() time.Time
	wg         sync.WaitGroup
}

// NewDispatcher creates a dispatcher. Nil collaborators are skipped.
func NewDispatcher(engagement Engagement, crm CRM, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{
		engagement: engagement,
		crm:        crm,
		logger:     logger,
		timeout:    timeout,
		now:        time.Now,
	}
}

// Track sends evt to the engagement service in the background.
func (d *Dispatcher) Track(ctx context.Context, evt domain.EngagementEvent) {
	if d == nil || d.engagement == nil {
		return
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = d.now()
	}
	d.run(ctx, "engagement", func(ctx context.Context) error {
		return d.engagement.Track(ctx, evt)
	}, zap.String("event", evt.Name))
}

// CreateOrUpdate upserts contact in the CRM in the background.
func (d *Dispatcher) CreateOrUpdate(ctx context.Context, contact domain.Contact) {
	if d == nil || d.crm == nil {
		return
	}
	d.run(ctx, "crm", func(ctx context.Context) error {
		return d.crm.CreateOrUpdate(ctx, contact)
	}, zap.String("user_id", contact.UserID))
}

func (d *Dispatcher) run(ctx context.Context, collaborator string, call func(context.Context) error, fields ...zap.Field) {
	// Detach from the caller's cancellation; the request may finish first.
	base := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		callCtx, cancel := context.WithTimeout(base, d.timeout)
		defer cancel()

		if err := call(callCtx); err != nil {
			collaboratorFailures.WithLabelValues(collaborator).Inc()
			d.logger.Warn("Collaborator call failed",
				append(fields, zap.String("collaborator", collaborator), zap.Error(err))...,
			)
		}
	}()
}

// Wait blocks until every in-flight call has finished.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}
