package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GabeSucich/elmo-fire-bets-backend/logging"

	"github.com/redis/go-redis/v9"
)

// Cache kinds stored per season
const (
	cacheKindPerformances = "performances"
	cacheKindTimeSeries   = "time_series"
)

var cacheKinds = []string{cacheKindPerformances, cacheKindTimeSeries}

// PerformanceCache stores derived season analytics between writes. Every
// value belongs to a season generation; Invalidate starts a new generation,
// so a value computed before a write can never be served after it.
type PerformanceCache interface {
	// Generation returns the season's current generation
	Generation(ctx context.Context, seasonID int) (int64, error)
	// Get decodes the cached value into dst and reports whether it was present
	Get(ctx context.Context, seasonID int, gen int64, kind string, dst interface{}) (bool, error)
	// Set stores value under gen. Values for an outdated generation are never served.
	Set(ctx context.Context, seasonID int, gen int64, kind string, value interface{}) error
	// Invalidate advances the season's generation
	Invalidate(ctx context.Context, seasonID int) error
}

func cacheKey(seasonID int, gen int64, kind string) string {
	return fmt.Sprintf("season:%d:g%d:%s", seasonID, gen, kind)
}

func generationKey(seasonID int) string {
	return fmt.Sprintf("season:%d:generation", seasonID)
}

// RedisPerformanceCache keeps JSON encoded analytics in Redis with a TTL.
// The generation is a counter key bumped with INCR; values for older
// generations are simply never read again and expire with the TTL.
type RedisPerformanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPerformanceCache(client *redis.Client, ttl time.Duration) *RedisPerformanceCache {
	return &RedisPerformanceCache{client: client, ttl: ttl}
}

func (c *RedisPerformanceCache) Generation(ctx context.Context, seasonID int) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(seasonID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading cache generation for season %d: %w", seasonID, err)
	}
	return gen, nil
}

func (c *RedisPerformanceCache) Get(ctx context.Context, seasonID int, gen int64, kind string, dst interface{}) (bool, error) {
	data, err := c.client.Get(ctx, cacheKey(seasonID, gen, kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s cache for season %d: %w", kind, seasonID, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decoding %s cache for season %d: %w", kind, seasonID, err)
	}
	return true, nil
}

func (c *RedisPerformanceCache) Set(ctx context.Context, seasonID int, gen int64, kind string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling %s for season %d: %w", kind, seasonID, err)
	}
	return c.client.Set(ctx, cacheKey(seasonID, gen, kind), data, c.ttl).Err()
}

func (c *RedisPerformanceCache) Invalidate(ctx context.Context, seasonID int) error {
	gen, err := c.client.Incr(ctx, generationKey(seasonID)).Result()
	if err != nil {
		return fmt.Errorf("advancing cache generation for season %d: %w", seasonID, err)
	}
	keys := make([]string, len(cacheKinds))
	for i, kind := range cacheKinds {
		keys[i] = cacheKey(seasonID, gen-1, kind)
	}
	return c.client.Del(ctx, keys...).Err()
}

type memoryEntry struct {
	gen     int64
	data    []byte
	expires time.Time
}

// MemoryPerformanceCache is the in-process cache used when Redis is not
// configured. Values are stored encoded so callers never share state.
type MemoryPerformanceCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	gens    map[int]int64
	ttl     time.Duration
	now     func() time.Time
	logger  *logging.Logger
}

func NewMemoryPerformanceCache(ttl time.Duration) *MemoryPerformanceCache {
	return &MemoryPerformanceCache{
		entries: make(map[string]memoryEntry),
		gens:    make(map[int]int64),
		ttl:     ttl,
		now:     time.Now,
		logger:  logging.WithPrefix("MemoryPerformanceCache"),
	}
}

func memoryKey(seasonID int, kind string) string {
	return fmt.Sprintf("season:%d:%s", seasonID, kind)
}

func (c *MemoryPerformanceCache) Generation(_ context.Context, seasonID int) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[seasonID], nil
}

func (c *MemoryPerformanceCache) Get(_ context.Context, seasonID int, gen int64, kind string, dst interface{}) (bool, error) {
	c.mu.RLock()
	entry, exists := c.entries[memoryKey(seasonID, kind)]
	current := c.gens[seasonID]
	c.mu.RUnlock()

	if !exists || entry.gen != gen || gen != current {
		return false, nil
	}
	if c.ttl > 0 && c.now().After(entry.expires) {
		return false, nil
	}
	if err := json.Unmarshal(entry.data, dst); err != nil {
		return false, fmt.Errorf("decoding %s cache for season %d: %w", kind, seasonID, err)
	}
	return true, nil
}

func (c *MemoryPerformanceCache) Set(_ context.Context, seasonID int, gen int64, kind string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling %s for season %d: %w", kind, seasonID, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gens[seasonID] {
		c.logger.Debugf("Dropped %s for season %d: generation %d is outdated", kind, seasonID, gen)
		return nil
	}
	c.entries[memoryKey(seasonID, kind)] = memoryEntry{gen: gen, data: data, expires: c.now().Add(c.ttl)}
	return nil
}

func (c *MemoryPerformanceCache) Invalidate(_ context.Context, seasonID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gens[seasonID]++
	for _, kind := range cacheKinds {
		delete(c.entries, memoryKey(seasonID, kind))
	}
	c.logger.Debugf("Invalidated analytics for season %d", seasonID)
	return nil
}
