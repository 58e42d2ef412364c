package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPerformanceCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	cache := NewMemoryPerformanceCache(time.Minute)
	cache.now = func() time.Time { return now }

	value := map[int]float64{11: 62.5, 12: 40}
	require.NoError(t, cache.Set(ctx, 1, 0, cacheKindPerformances, value))

	var got map[int]float64
	hit, err := cache.Get(ctx, 1, 0, cacheKindPerformances, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, value, got)

	hit, err = cache.Get(ctx, 2, 0, cacheKindPerformances, &got)
	require.NoError(t, err)
	assert.False(t, hit, "seasons do not share entries")

	now = now.Add(2 * time.Minute)
	hit, err = cache.Get(ctx, 1, 0, cacheKindPerformances, &got)
	require.NoError(t, err)
	assert.False(t, hit, "expired")
}

func TestMemoryPerformanceCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryPerformanceCache(time.Hour)
	require.NoError(t, cache.Set(ctx, 1, 0, cacheKindPerformances, []int{1}))
	require.NoError(t, cache.Set(ctx, 1, 0, cacheKindTimeSeries, []int{2}))
	require.NoError(t, cache.Set(ctx, 2, 0, cacheKindTimeSeries, []int{3}))

	require.NoError(t, cache.Invalidate(ctx, 1))

	gen, err := cache.Generation(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	var dst []int
	for _, kind := range cacheKinds {
		for _, g := range []int64{0, gen} {
			hit, err := cache.Get(ctx, 1, g, kind, &dst)
			require.NoError(t, err)
			assert.False(t, hit, "%s generation %d", kind, g)
		}
	}
	hit, err := cache.Get(ctx, 2, 0, cacheKindTimeSeries, &dst)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []int{3}, dst)
}

func TestMemoryPerformanceCacheDropsOutdatedWrites(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryPerformanceCache(time.Hour)

	gen, err := cache.Generation(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(ctx, 1))
	require.NoError(t, cache.Set(ctx, 1, gen, cacheKindPerformances, []int{1}))

	current, err := cache.Generation(ctx, 1)
	require.NoError(t, err)
	var dst []int
	for _, g := range []int64{gen, current} {
		hit, err := cache.Get(ctx, 1, g, cacheKindPerformances, &dst)
		require.NoError(t, err)
		assert.False(t, hit, "generation %d", g)
	}
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "season:4:g2:time_series", cacheKey(4, 2, cacheKindTimeSeries))
	assert.Equal(t, "season:4:generation", generationKey(4))
}
