package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"trailerstore/internal/cache"
	"trailerstore/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brand struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Runs against a real server when REDIS_TEST_ADDR is set, e.g. localhost:6379.
func TestRedisCache_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()
	c := cache.NewRedisCache(cache.NewRedisClient(config.RedisConfig{Addr: addr}), "test:"+uuid.New().String()+":", time.Minute)
	defer c.Close()
	require.NoError(t, c.Ping(ctx))

	var got []brand
	ok, err := c.Get(ctx, "brands", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	want := []brand{{Name: "Kremen", Count: 2}}
	require.NoError(t, c.Set(ctx, "brands", want))
	ok, err = c.Get(ctx, "brands", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	require.NoError(t, c.Delete(ctx, "brands", "categories"))
	ok, err = c.Get(ctx, "brands", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_UnreachableServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	c := cache.NewRedisCache(cache.NewRedisClient(config.RedisConfig{Addr: "127.0.0.1:1"}), "test:", time.Minute)
	defer c.Close()

	var got []brand
	ok, err := c.Get(ctx, "brands", &got)
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, c.Set(ctx, "brands", got))
	assert.Error(t, c.Ping(ctx))
	assert.NoError(t, c.Delete(ctx))
}
