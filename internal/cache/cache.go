// Package cache stores serialized news summaries with an expiration.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/hyperdrift-io/need-to-know/db"
)

const DefaultTTL = 24 * time.Hour

type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Open connects to Redis when redisURL is set and falls back to an in-process
// store otherwise. The returned func releases the underlying connection.
func Open(ctx context.Context, redisURL string, ttl time.Duration) (Store, func(), error) {
	if redisURL == "" {
		slog.Warn("REDIS_URL not set, using in-memory cache")
		return NewMemoryStore(defaultMemorySize, ttl), func() {}, nil
	}

	client, err := db.ConnectRedis(ctx, redisURL)
	if err != nil {
		return nil, nil, err
	}
	return NewRedisStore(client), func() { client.Close() }, nil
}
