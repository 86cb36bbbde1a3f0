package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/duynhne/franchise-service/internal/core/domain"
)

// DefaultRedisChannel carries storage change notifications between instances.
const DefaultRedisChannel = "web_storage"

// Redis is a Store backed by Redis strings. Writes are published on a channel
// so every instance sharing the Redis database sees changes made by the
// others, the way browser tabs see each other's storage events.
type Redis struct {
	client  *goredis.Client
	hub     *Hub
	channel string
	origin  string
	logger  *zap.Logger
}

// NewRedis connects to addr and verifies the connection.
func NewRedis(ctx context.Context, addr, channel string, logger *zap.Logger) (*Redis, error) {
	if addr == "" {
		return nil, errors.New("redis address is required")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisWithClient(client, channel, logger), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *goredis.Client, channel string, logger *zap.Logger) *Redis {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis{
		client:  client,
		hub:     NewHub(),
		channel: channel,
		origin:  uuid.NewString(),
		logger:  logger.With(zap.String("component", "redis_storage")),
	}
}

func (r *Redis) GetItem(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

func (r *Redis) SetItem(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	v := value
	r.notify(ctx, domain.StorageEvent{Key: key, NewValue: &v, Origin: r.origin})
	return nil
}

func (r *Redis) RemoveItem(ctx context.Context, key string) error {
	n, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	if n > 0 {
		r.notify(ctx, domain.StorageEvent{Key: key, Removed: true, Origin: r.origin})
	}
	return nil
}

func (r *Redis) Subscribe(key string, fn func(domain.StorageEvent)) func() {
	return r.hub.Subscribe(key, fn)
}

// notify dispatches locally, then tells the other instances. A failed
// publish only delays their reconciliation, so it is logged, not returned.
func (r *Redis) notify(ctx context.Context, evt domain.StorageEvent) {
	r.hub.Publish(evt)

	raw, err := json.Marshal(evt)
	if err != nil {
		r.logger.Warn("Failed to encode storage event", zap.String("key", evt.Key), zap.Error(err))
		return
	}
	if err := r.client.Publish(ctx, r.channel, raw).Err(); err != nil {
		r.logger.Warn("Failed to publish storage event", zap.String("key", evt.Key), zap.Error(err))
	}
}

// Listen forwards change notifications from other instances into the local
// hub until ctx is done.
func (r *Redis) Listen(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)

	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var evt domain.StorageEvent
				if err := json.Unmarshal([]byte(m.Payload), &evt); err != nil {
					r.logger.Warn("Bad storage event payload", zap.Error(err))
					continue
				}
				if evt.Origin == r.origin {
					continue
				}
				r.hub.Publish(evt)
			}
		}
	}()

	return nil
}

// Close closes the Redis client.
func (r *Redis) Close() error {
	return r.client.Close()
}
