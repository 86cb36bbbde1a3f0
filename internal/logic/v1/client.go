package v1

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/duynhne/franchise-service/internal/core/domain"
	"github.com/duynhne/franchise-service/middleware"
)

// Client is the state container of one browser tab: its identity, its
// pending queue and, once signed in, the user's preference and profile
// stores. Per-user stores are rebound whenever the identity changes, here or
// in another tab of the same browser.
type Client struct {
	svc       *Service
	deps      StoreDeps
	logger    *zap.Logger
	navigator Navigator

	auth    *AuthStore
	pending *PendingQueue

	mu          sync.Mutex
	userID      string
	preferences map[domain.Collection]*PreferenceStore
	profile     *ProfileStore
}

// ActionOutcome reports where a preference action went.
type ActionOutcome struct {
	Pending bool `json:"pending"`
	Changed bool `json:"changed"`
}

// syncLocked rebinds per-user stores when the stored identity changed.
func (c *Client) syncLocked(ctx context.Context) *domain.User {
	user := c.auth.Current(ctx)
	id := ""
	if user != nil {
		id = user.ID
	}
	if c.preferences != nil && id == c.userID {
		return user
	}

	c.closeUserStoresLocked()
	c.userID = id
	c.preferences = make(map[domain.Collection]*PreferenceStore, len(domain.Collections))
	for _, col := range domain.Collections {
		limit := 0
		if col == domain.CollectionCompare {
			limit = c.svc.settings.CompareMaxItems
		}
		c.preferences[col] = NewPreferenceStore(ctx, c.deps, col, id, limit)
	}
	c.profile = NewProfileStore(ctx, c.deps, id)
	return user
}

func (c *Client) closeUserStoresLocked() {
	for _, s := range c.preferences {
		s.Close()
	}
	if c.profile != nil {
		c.profile.Close()
	}
}

// CurrentUser returns the signed-in user, or nil for an anonymous visitor.
func (c *Client) CurrentUser(ctx context.Context) *domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.syncLocked(ctx)
}

// Preferences returns the store for collection, bound to the current user.
func (c *Client) Preferences(ctx context.Context, collection domain.Collection) *PreferenceStore {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.syncLocked(ctx)
	return c.preferences[collection]
}

// Profile returns the profile store bound to the current user.
func (c *Client) Profile(ctx context.Context) *ProfileStore {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.syncLocked(ctx)
	return c.profile
}

// Pending returns the tab's pending-action queue.
func (c *Client) Pending() *PendingQueue {
	return c.pending
}

// SignIn persists user as the browser's identity, notifies the CRM and
// engagement services, and schedules the replay of pending actions.
func (c *Client) SignIn(ctx context.Context, user domain.User) error {
	ctx, span := middleware.StartSpan(ctx, "session.sign_in", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", user.ID),
	))
	defer span.End()

	if user.ID == "" || !strings.Contains(user.Email, "@") {
		span.SetAttributes(attribute.Bool("session.signed_in", false))
		return fmt.Errorf("sign in %q: %w", user.ID, domain.ErrInvalidUser)
	}

	if err := c.auth.set(ctx, user); err != nil {
		span.RecordError(err)
		return fmt.Errorf("persist session: %w", err)
	}
	c.mu.Lock()
	c.syncLocked(ctx)
	c.mu.Unlock()

	c.svc.dispatcher.CreateOrUpdate(ctx, domain.Contact{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
	c.svc.dispatcher.Track(ctx, domain.EngagementEvent{Name: domain.EventSignIn, UserID: user.ID})

	replayCtx := context.WithoutCancel(ctx)
	c.svc.scheduler.AfterFunc(c.svc.settings.ReplayDelay, func() {
		if _, err := c.DrainPending(replayCtx); err != nil {
			c.logger.Error("Pending action replay failed", zap.String("user_id", user.ID), zap.Error(err))
		}
	})

	span.SetAttributes(attribute.Bool("session.signed_in", true))
	c.logger.Info("User signed in", zap.String("user_id", user.ID))
	return nil
}

// SignOut forgets the browser's identity.
func (c *Client) SignOut(ctx context.Context) error {
	user := c.CurrentUser(ctx)
	if err := c.auth.clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	c.mu.Lock()
	c.syncLocked(ctx)
	c.mu.Unlock()

	if user != nil {
		c.svc.dispatcher.Track(ctx, domain.EngagementEvent{Name: domain.EventSignOut, UserID: user.ID})
		c.logger.Info("User signed out", zap.String("user_id", user.ID))
	}
	return nil
}

// Record applies a like, dislike, save or compare action. Signed-in users
// update their collection; anonymous visitors queue the action for replay.
func (c *Client) Record(ctx context.Context, t domain.ActionType, f domain.Franchise) (ActionOutcome, error) {
	col := t.Collection()
	if col == "" {
		return ActionOutcome{}, domain.ErrUnknownActionType
	}
	if f.ID == "" {
		return ActionOutcome{}, domain.ErrInvalidFranchise
	}

	user := c.CurrentUser(ctx)
	if user == nil {
		if err := c.pending.Add(ctx, t, f.ID, f.Name, &f); err != nil {
			return ActionOutcome{}, fmt.Errorf("queue %s %q: %w", t, f.ID, err)
		}
		c.svc.dispatcher.Track(ctx, domain.EngagementEvent{
			Name:        domain.EventPendingRecorded,
			FranchiseID: f.ID,
			Properties:  map[string]string{"type": string(t)},
		})
		return ActionOutcome{Pending: true, Changed: true}, nil
	}

	added, err := c.Preferences(ctx, col).Add(ctx, f)
	if err != nil {
		return ActionOutcome{}, fmt.Errorf("%s %q: %w", t, f.ID, err)
	}
	c.svc.dispatcher.Track(ctx, domain.EngagementEvent{
		Name:        domain.EventPreferenceAdd,
		UserID:      user.ID,
		FranchiseID: f.ID,
		Properties:  map[string]string{"collection": string(col)},
	})
	return ActionOutcome{Changed: added}, nil
}

// Unrecord undoes an action: it removes the franchise from the collection,
// or drops the queued action for anonymous visitors.
func (c *Client) Unrecord(ctx context.Context, t domain.ActionType, franchiseID string) (ActionOutcome, error) {
	col := t.Collection()
	if col == "" {
		return ActionOutcome{}, domain.ErrUnknownActionType
	}

	user := c.CurrentUser(ctx)
	if user == nil {
		removed, err := c.pending.Remove(ctx, t, franchiseID)
		if err != nil {
			return ActionOutcome{}, fmt.Errorf("unqueue %s %q: %w", t, franchiseID, err)
		}
		return ActionOutcome{Pending: true, Changed: removed}, nil
	}

	removed, err := c.Preferences(ctx, col).Remove(ctx, franchiseID)
	if err != nil {
		return ActionOutcome{}, fmt.Errorf("remove %s %q: %w", col, franchiseID, err)
	}
	if removed {
		c.svc.dispatcher.Track(ctx, domain.EngagementEvent{
			Name:        domain.EventPreferenceRemove,
			UserID:      user.ID,
			FranchiseID: franchiseID,
			Properties:  map[string]string{"collection": string(col)},
		})
	}
	return ActionOutcome{Changed: removed}, nil
}

// UpdateProfile overwrites the signed-in user's profile.
func (c *Client) UpdateProfile(ctx context.Context, profile domain.UserProfile) error {
	user := c.CurrentUser(ctx)
	if user == nil {
		return domain.ErrUnauthenticated
	}
	if _, err := c.Profile(ctx).Update(ctx, profile); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	c.svc.dispatcher.Track(ctx, domain.EngagementEvent{Name: domain.EventProfileUpdated, UserID: user.ID})
	return nil
}

// MatchReasons explains how brand fits profile. A nil profile falls back to
// the signed-in user's stored profile, then to an empty one.
func (c *Client) MatchReasons(ctx context.Context, profile *domain.UserProfile, brand domain.BrandAttributes, fit domain.FitFlags) domain.MatchReasons {
	if profile == nil {
		profile = c.Profile(ctx).Get(ctx)
	}
	if profile == nil {
		profile = &domain.UserProfile{}
	}
	return GenerateMatchReasons(*profile, brand, fit)
}

// Close releases every change subscription held by the client.
func (c *Client) Close() {
	c.mu.Lock()
	c.closeUserStoresLocked()
	c.mu.Unlock()
	c.auth.Close()
	c.pending.Close()
}
