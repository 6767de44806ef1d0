// Package cache is a thin JSON cache over Redis. When Redis is unavailable
// every call degrades to a miss, so callers always fall back to the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/storehub/config"
	"github.com/shashiranjanraj/storehub/pkg/metrics"
)

// Store is the subset of cache behaviour services depend on.
type Store interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Redis is a Store backed by a go-redis client. A nil client disables it.
type Redis struct {
	client redis.UniversalClient
}

// NewRedis wraps an existing client.
func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

// Default is the process-wide cache set by Connect.
var Default = &Redis{}

// Connect initialises the Redis client and verifies the connection with a ping.
// On failure Default stays disabled and the error is returned so the caller
// can log it.
func Connect(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	Default = NewRedis(client)
	return nil
}

// Enabled reports whether a client is attached.
func (c *Redis) Enabled() bool { return c != nil && c.client != nil }

// Get unmarshals the value at key into dest. It returns true on a hit.
func (c *Redis) Get(ctx context.Context, key string, dest any) bool {
	if !c.Enabled() {
		return false
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			metrics.CacheErrors.Inc()
		}
		metrics.CacheMisses.Inc()
		return false
	}
	if err := json.Unmarshal(val, dest); err != nil {
		metrics.CacheMisses.Inc()
		return false
	}
	metrics.CacheHits.Inc()
	return true
}

// Set stores value as JSON under key for ttl.
func (c *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Del removes keys.
func (c *Redis) Del(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Close releases the client.
func (c *Redis) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
