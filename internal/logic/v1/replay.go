package v1

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/duynhne/franchise-service/internal/core/domain"
	"github.com/duynhne/franchise-service/middleware"
)

// DrainPending replays the tab's pending actions into the signed-in user's
// stores. Each action goes through the store's idempotent Add; a failing
// action is logged and skipped. The queue is cleared at the end whatever
// happened to individual actions. An empty queue writes nothing.
//
// When a compare action grew the compare list, a navigation to ComparePath is
// scheduled after the configured redirect delay.
func (c *Client) DrainPending(ctx context.Context) (domain.ReplayResult, error) {
	ctx, span := middleware.StartSpan(ctx, "pending.replay", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	var result domain.ReplayResult

	user := c.CurrentUser(ctx)
	if user == nil {
		return result, domain.ErrUnauthenticated
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	c.pending.Reload(ctx)
	actions := c.pending.All(ctx)
	if len(actions) == 0 {
		return result, nil
	}

	compareGrew := false
	for _, action := range actions {
		result.Processed++
		logger := c.logger.With(
			zap.String("user_id", user.ID),
			zap.String("type", string(action.Type)),
			zap.String("franchise_id", action.FranchiseID),
		)

		col := action.Type.Collection()
		if col == "" {
			result.Failed++
			pendingReplayed.WithLabelValues(string(action.Type), "failed").Inc()
			logger.Warn("Skipping pending action of unknown type")
			continue
		}

		store := c.Preferences(ctx, col)
		store.Reload(ctx)
		added, err := store.Add(ctx, action.Snapshot())
		if err != nil {
			result.Failed++
			pendingReplayed.WithLabelValues(string(action.Type), "failed").Inc()
			logger.Warn("Skipping pending action", zap.Error(err))
			continue
		}

		result.Applied++
		pendingReplayed.WithLabelValues(string(action.Type), "applied").Inc()
		if action.Type == domain.ActionCompare && added {
			compareGrew = true
		}
	}

	var clearErr error
	if err := c.pending.Clear(ctx); err != nil {
		span.RecordError(err)
		c.logger.Error("Failed to clear pending actions", zap.Error(err))
		clearErr = fmt.Errorf("clear pending actions: %w", err)
	}

	if compareGrew {
		result.Redirect = ComparePath
		result.RedirectAfter = c.svc.settings.CompareRedirectDelay
		if nav := c.navigator; nav != nil {
			c.svc.scheduler.AfterFunc(result.RedirectAfter, func() {
				nav.Navigate(ComparePath)
			})
		}
	}

	span.SetAttributes(
		attribute.Int("replay.processed", result.Processed),
		attribute.Int("replay.failed", result.Failed),
	)
	c.svc.dispatcher.Track(ctx, domain.EngagementEvent{
		Name:   domain.EventPendingReplayed,
		UserID: user.ID,
		Properties: map[string]string{
			"processed": strconv.Itoa(result.Processed),
			"applied":   strconv.Itoa(result.Applied),
			"failed":    strconv.Itoa(result.Failed),
		},
	})
	c.logger.Info("Pending actions replayed",
		zap.String("user_id", user.ID),
		zap.Int("processed", result.Processed),
		zap.Int("applied", result.Applied),
		zap.Int("failed", result.Failed),
	)
	return result, clearErr
}
