package v1

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/duynhne/franchise-service/internal/core/domain"
)

// redirectRecorder delivers scheduled navigations to a tab by storing the
// target under the session's redirect key; GET /session hands it over.
type redirectRecorder struct {
	store  domain.Store
	key    string
	logger *zap.Logger
}

func (r *redirectRecorder) Navigate(path string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.store.SetItem(ctx, r.key, path); err != nil {
		r.logger.Warn("Failed to record redirect", zap.String("path", path), zap.Error(err))
	}
}

// takeRedirect returns and clears the pending redirect of a tab.
func takeRedirect(ctx context.Context, store domain.Store, key string) (string, error) {
	path, found, err := store.GetItem(ctx, key)
	if err != nil || !found {
		return "", err
	}
	if err := store.RemoveItem(ctx, key); err != nil {
		return "", err
	}
	return path, nil
}
