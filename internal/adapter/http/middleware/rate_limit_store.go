package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// RateLimitStore counts requests per key inside a window.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (RateLimitResult, error)
}

type rateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

// MemoryStore is a fixed-window counter kept in process memory.
type MemoryStore struct {
	cache *cache.Cache
	mutex sync.Mutex
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: cache.New(5*time.Minute, 10*time.Minute),
		now:   time.Now,
	}
}

func (ms *MemoryStore) Allow(_ context.Context, key string, limit int, window time.Duration) (RateLimitResult, error) {
	now := ms.now()

	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	if item, found := ms.cache.Get(key); found {
		entry := item.(rateLimitEntry)

		if now.Before(entry.ResetTime) {
			if entry.Count >= limit {
				return RateLimitResult{Allowed: false, Remaining: 0, ResetAt: entry.ResetTime}, nil
			}

			entry.Count++
			ms.cache.Set(key, entry, entry.ResetTime.Sub(now))

			return RateLimitResult{Allowed: true, Remaining: limit - entry.Count, ResetAt: entry.ResetTime}, nil
		}
	}

	resetTime := now.Add(window)
	ms.cache.Set(key, rateLimitEntry{Count: 1, ResetTime: resetTime}, window)

	return RateLimitResult{Allowed: true, Remaining: limit - 1, ResetAt: resetTime}, nil
}

func (ms *MemoryStore) ItemCount() int {
	return ms.cache.ItemCount()
}

var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local current = redis.call('ZCARD', key)

	if current < limit then
		local counter = redis.call('INCR', key .. ':counter')
		redis.call('ZADD', key, now, now .. ':' .. counter)
		local expire_seconds = math.ceil(window_ms / 1000)
		redis.call('EXPIRE', key, expire_seconds)
		redis.call('EXPIRE', key .. ':counter', expire_seconds)
		return {1, limit - current - 1, 0}
	else
		local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
		local reset_at = 0
		if oldest and #oldest >= 2 then
			reset_at = tonumber(oldest[2]) + window_ms
		end
		return {0, 0, reset_at}
	end
`)

// RedisStore is a sliding-window limiter shared by every API instance
// pointing at the same Redis.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

func NewRedisStore(client redis.UniversalClient, keyPrefix string) *RedisStore {
	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (rs *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (RateLimitResult, error) {
	now := time.Now()
	windowStart := now.Add(-window)

	result, err := slidingWindowScript.Run(ctx, rs.client, []string{rs.keyPrefix + key},
		now.UnixMilli(), windowStart.UnixMilli(), limit, window.Milliseconds()).Int64Slice()

	if err != nil {
		return RateLimitResult{}, fmt.Errorf("redis script error: %w", err)
	}

	if len(result) != 3 {
		return RateLimitResult{}, fmt.Errorf("unexpected Redis response length: %d", len(result))
	}

	resetAt := now.Add(window)

	if result[2] > 0 {
		resetAt = time.UnixMilli(result[2])
	}

	return RateLimitResult{
		Allowed:   result[0] == 1,
		Remaining: int(result[1]),
		ResetAt:   resetAt,
	}, nil
}

func (rs *RedisStore) Reset(ctx context.Context, key string) error {
	return rs.client.Del(ctx, rs.keyPrefix+key, rs.keyPrefix+key+":counter").Err()
}
