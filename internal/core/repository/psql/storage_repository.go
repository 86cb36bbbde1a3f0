package psql

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/duynhne/franchise-service/internal/core/domain"
	"github.com/duynhne/franchise-service/internal/core/storage"
)

// NotifyChannel is the PostgreSQL channel carrying storage change events.
const NotifyChannel = "web_storage"

const schema = `CREATE TABLE IF NOT EXISTS web_storage (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// StorageRepository implements domain.Store using PostgreSQL.
// Notification payloads are capped at 8000 bytes by PostgreSQL, so events
// only carry the key; subscribers reload the value.
type StorageRepository struct {
	pool   *pgxpool.Pool
	hub    *storage.Hub
	origin string
	logger *zap.Logger
}

// NewStorageRepository creates a PostgreSQL storage repository
func NewStorageRepository(pool *pgxpool.Pool, logger *zap.Logger) *StorageRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorageRepository{
		pool:   pool,
		hub:    storage.NewHub(),
		origin: uuid.NewString(),
		logger: logger.With(zap.String("component", "psql_storage")),
	}
}

// EnsureSchema creates the storage table if it does not exist
func (r *StorageRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create web_storage table: %w", err)
	}
	return nil
}

// GetItem retrieves the value stored at key
func (r *StorageRepository) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.pool.QueryRow(ctx, `SELECT value FROM web_storage WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("query storage item: %w", err)
	}
	return value, true, nil
}

// SetItem upserts the value stored at key
func (r *StorageRepository) SetItem(ctx context.Context, key, value string) error {
	query := `INSERT INTO web_storage (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := r.pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("upsert storage item: %w", err)
	}
	v := value
	r.hub.Publish(domain.StorageEvent{Key: key, NewValue: &v, Origin: r.origin})
	r.notify(ctx, domain.StorageEvent{Key: key, Origin: r.origin})
	return nil
}

// RemoveItem deletes key; removing an absent key is not an error
func (r *StorageRepository) RemoveItem(ctx context.Context, key string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM web_storage WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete storage item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil
	}
	evt := domain.StorageEvent{Key: key, Removed: true, Origin: r.origin}
	r.hub.Publish(evt)
	r.notify(ctx, evt)
	return nil
}

// Subscribe registers fn for change events on key
func (r *StorageRepository) Subscribe(key string, fn func(domain.StorageEvent)) func() {
	return r.hub.Subscribe(key, fn)
}

func (r *StorageRepository) notify(ctx context.Context, evt domain.StorageEvent) {
	payload, err := json.Marshal(evt)
	if err != nil {
		r.logger.Warn("Failed to encode storage event", zap.String("key", evt.Key), zap.Error(err))
		return
	}
	if _, err := r.pool.Exec(ctx, `SELECT pg_notify($1, $2)`, NotifyChannel, string(payload)); err != nil {
		r.logger.Warn("Failed to notify storage event", zap.String("key", evt.Key), zap.Error(err))
	}
}

// Listen holds one pooled connection on LISTEN and forwards events written by
// other instances into the local hub until ctx is done.
func (r *StorageRepository) Listen(ctx context.Context) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listener connection: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+NotifyChannel); err != nil {
		conn.Release()
		return fmt.Errorf("listen %s: %w", NotifyChannel, err)
	}

	go func() {
		defer conn.Release()
		for {
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() == nil {
					r.logger.Error("Storage listener stopped", zap.Error(err))
				}
				return
			}
			var evt domain.StorageEvent
			if err := json.Unmarshal([]byte(n.Payload), &evt); err != nil {
				r.logger.Warn("Bad storage event payload", zap.Error(err))
				continue
			}
			if evt.Origin == r.origin {
				continue
			}
			r.hub.Publish(evt)
		}
	}()

	return nil
}
