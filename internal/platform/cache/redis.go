package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis key namespace for all integrity cache entries. Purge scans this
// namespace rather than flushing the whole database, which may be shared.
const redisKeyPrefix = "integrity:cache:"

// RedisCache is a Cache backed by a shared Redis instance so every worker in
// the cluster observes the same read-through/write-through state.
type RedisCache struct {
	client *redis.Client
}

// NewRedis wraps an established Redis client.
func NewRedis(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	return decode(raw), true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	// No expiry: entries live until evicted by a mutation or a purge.
	if err := c.client.Set(ctx, redisKeyPrefix+key, encode(value), 0).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Purge(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache purge del %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache purge scan: %w", err)
	}
	return nil
}
