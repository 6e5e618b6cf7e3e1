// Package cache is the Redis-backed query-result cache. Repeated identical
// queries inside the freshness window are served from here instead of
// re-fetching every upstream. Cache failures are never request failures.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"activity-aggregator/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// Cache wraps the Redis client with the query-result key scheme and TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a Cache backed by a new Redis client.
func NewRedis(cfg config.RedisConfig, ttl time.Duration) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	return &Cache{client: rdb, ttl: ttl}
}

// NewWithClient wraps an existing Redis client, used by tests.
func NewWithClient(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Key builds the cache key for one aggregation query. view distinguishes
// the ranking policy of the call site (events vs suggestions).
func Key(view, city, start, end string) string {
	return fmt.Sprintf("agg:v1:%s:%s:%s:%s", view, strings.ToLower(strings.TrimSpace(city)), start, end)
}

// Ping tests the Redis connection.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Get retrieves a cached response body. The second return value reports
// whether the key was present.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a response body under the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	return c.client.Set(ctx, key, value, c.ttl).Err()
}

// TTL returns the configured freshness window.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
