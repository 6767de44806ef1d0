package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storehub/config"
	"github.com/shashiranjanraj/storehub/pkg/cache"
)

func TestDisabledCacheIsAlwaysAMiss(t *testing.T) {
	c := cache.NewRedis(nil)
	ctx := context.Background()

	assert.False(t, c.Enabled())
	require.NoError(t, c.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var out map[string]int
	assert.False(t, c.Get(ctx, "k", &out))
	require.NoError(t, c.Del(ctx, "k"))
	require.NoError(t, c.Close())
}

func TestUnreachableRedisDegradesToMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	c := cache.NewRedis(client)
	defer c.Close() //nolint:errcheck

	var out string
	assert.False(t, c.Get(context.Background(), "tracking:x", &out))
}

func TestConnectFailureLeavesDefaultDisabled(t *testing.T) {
	config.Set("REDIS_ADDR", "127.0.0.1:1")
	t.Cleanup(func() { config.Set("REDIS_ADDR", "") })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.Error(t, cache.Connect(ctx))
	assert.False(t, cache.Default.Enabled())
}
