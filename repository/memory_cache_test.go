package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_GetSet(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	_, ok := cache.Get(ctx, "progress:a")
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "progress:a", "value", 0))

	got, ok := cache.Get(ctx, "progress:a")
	assert.True(t, ok)
	assert.Equal(t, "value", got)
}

func TestMemoryCache_Expiry(t *testing.T) {
	now := time.Date(2025, 1, 15, 23, 0, 0, 0, time.UTC)
	cache := NewMemoryCache()
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "v", time.Hour))

	now = now.Add(59 * time.Minute)
	_, ok := cache.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok = cache.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestRedisCache_CanceledContext(t *testing.T) {
	cache := NewRedisCache("127.0.0.1:1", "", 0)
	defer cache.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := cache.Get(ctx, "k")
	assert.False(t, ok)
	assert.Error(t, cache.Set(ctx, "k", "v", time.Minute))
	assert.Error(t, cache.Ping(ctx))
}

func TestMemoryCache_SetSweepsExpiredKeys(t *testing.T) {
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	cache := NewMemoryCache()
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	// one entry per day, living until that day's midnight
	for day := 0; day < 365; day++ {
		key := fmt.Sprintf("progress:%s:2025-01-01:1", now.Format("2006-01-02"))
		require.NoError(t, cache.Set(ctx, key, "v", 15*time.Hour))
		now = now.Add(24 * time.Hour)
	}

	assert.Equal(t, 1, cache.Len())
}

func TestMemoryCache_SweepKeepsLiveAndPermanentEntries(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewMemoryCache()
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "short", "v", time.Minute))
	require.NoError(t, cache.Set(ctx, "long", "v", 24*time.Hour))
	require.NoError(t, cache.Set(ctx, "forever", "v", 0))
	require.Equal(t, 3, cache.Len())

	now = now.Add(sweepInterval)
	require.NoError(t, cache.Set(ctx, "new", "v", time.Minute))

	assert.Equal(t, 3, cache.Len())
	_, ok := cache.Get(ctx, "long")
	assert.True(t, ok)
	_, ok = cache.Get(ctx, "forever")
	assert.True(t, ok)
}
