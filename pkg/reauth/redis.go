package reauth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps transport failures from the Redis marker cache.
var ErrRedisUnavailable = errors.New("reauth redis unavailable")

const redisKeyPrefix = "reauth:"

// RedisCache stores re-authentication markers in Redis so the freshness
// window is shared across instances. TTL handling is delegated to Redis.
type RedisCache struct {
	client *redis.Client
	window time.Duration
}

// RedisCacheOption configures a RedisCache.
type RedisCacheOption func(*RedisCache)

// WithRedisWindow sets the freshness window for markers.
func WithRedisWindow(window time.Duration) RedisCacheOption {
	return func(c *RedisCache) {
		if window > 0 {
			c.window = window
		}
	}
}

// NewRedisCache creates a Redis-backed marker cache.
func NewRedisCache(client *redis.Client, opts ...RedisCacheOption) *RedisCache {
	c := &RedisCache{
		client: client,
		window: DefaultWindow,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCache) Mark(ctx context.Context, userID string) error {
	if err := c.client.Set(ctx, redisKeyPrefix+userID, time.Now().Unix(), c.window).Err(); err != nil {
		return errors.Join(ErrRedisUnavailable, err)
	}
	return nil
}

func (c *RedisCache) Recent(ctx context.Context, userID string) (bool, error) {
	n, err := c.client.Exists(ctx, redisKeyPrefix+userID).Result()
	if err != nil {
		return false, errors.Join(ErrRedisUnavailable, err)
	}
	return n > 0, nil
}

func (c *RedisCache) Forget(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, redisKeyPrefix+userID).Err(); err != nil {
		return errors.Join(ErrRedisUnavailable, err)
	}
	return nil
}
