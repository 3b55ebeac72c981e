// Package cache holds short-lived byte values keyed by string. The resolver
// uses it to skip the tag lookup query on repeated taps.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Open returns a Redis-backed store when redisURL is set, otherwise an
// in-process one.
func Open(ctx context.Context, redisURL string) (Store, error) {
	if redisURL == "" {
		return NewMemoryStore(), nil
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	store := NewRedisStore(opt)
	if err := store.Client.Ping(ctx).Err(); err != nil {
		_ = store.Client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return store, nil
}
