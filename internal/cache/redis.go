package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisBackend stores entries in Redis using native key expiry, so
// expired entries are absent by construction and pattern clears use
// server-side SCAN.
type redisBackend struct {
	client *redis.Client
}

func newRedisBackend(client *redis.Client) *redisBackend {
	return &redisBackend{client: client}
}

func (r *redisBackend) name() string { return "redis" }

func (r *redisBackend) get(ctx context.Context, key string) ([]byte, bool) {
	value, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return value, true
}

func (r *redisBackend) set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisBackend) delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisBackend) clearPattern(ctx context.Context, pattern string) (int, error) {
	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return total, err
		}
		if len(keys) > 0 {
			deleted, err := r.client.Del(ctx, keys...).Result()
			if err != nil {
				return total, err
			}
			total += int(deleted)
		}
		cursor = next
		if cursor == 0 {
			return total, nil
		}
	}
}

func (r *redisBackend) keyCount(ctx context.Context) int64 {
	count, err := r.client.DBSize(ctx).Result()
	if err != nil {
		return 0
	}
	return count
}
