package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/grimmtrading/marketcore/internal/common"
	"github.com/grimmtrading/marketcore/internal/interfaces"
	"github.com/grimmtrading/marketcore/internal/models"
)

// probeTimeout bounds the Redis connection check at construction.
const probeTimeout = 2 * time.Second

// backend is the storage engine behind a Store.
type backend interface {
	name() string
	get(ctx context.Context, key string) ([]byte, bool)
	set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	delete(ctx context.Context, key string) error
	clearPattern(ctx context.Context, pattern string) (int, error)
	keyCount(ctx context.Context) int64
}

// Store is the TTL cache store. It degrades to an in-process backend
// when Redis is unreachable and converts every backend error into
// cache-miss behavior, so callers never see a cache failure.
type Store struct {
	backend  backend
	degraded bool
	logger   *common.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewStore builds a cache store for the configured backend. An empty
// Redis URL selects the in-process backend directly; a configured but
// unreachable Redis degrades to in-process with a single log line.
func NewStore(cfg common.CacheConfig, logger *common.Logger) *Store {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	if cfg.RedisURL == "" {
		logger.Info().Msg("No cache backend configured, using in-process cache")
		return &Store{backend: newMemoryBackend(), logger: logger}
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("Invalid redis URL, degrading to in-process cache")
		return &Store{backend: newMemoryBackend(), degraded: true, logger: logger}
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("Redis unreachable, degrading to in-process cache")
		client.Close()
		return &Store{backend: newMemoryBackend(), degraded: true, logger: logger}
	}

	logger.Info().Str("addr", opt.Addr).Msg("Cache connected to redis")
	return &Store{backend: newRedisBackend(client), logger: logger}
}

// NewMemoryStore builds a store on the in-process backend. Used by
// tests and as the explicit no-Redis configuration.
func NewMemoryStore(logger *common.Logger) *Store {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Store{backend: newMemoryBackend(), logger: logger}
}

// Get returns the value for key if present and unexpired.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool) {
	value, ok := s.backend.get(ctx, key)
	if ok {
		s.hits.Add(1)
		return value, true
	}
	s.misses.Add(1)
	return nil, false
}

// Set stores value under key with expiry now+ttl. Non-positive TTLs are
// rejected to keep the expiry invariant intact.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	if err := s.backend.set(ctx, key, value, ttl); err != nil {
		s.logger.Debug().Err(err).Str("key", key).Msg("Cache set failed")
		return false
	}
	return true
}

// Delete removes a key.
func (s *Store) Delete(ctx context.Context, key string) bool {
	if err := s.backend.delete(ctx, key); err != nil {
		s.logger.Debug().Err(err).Str("key", key).Msg("Cache delete failed")
		return false
	}
	return true
}

// ClearPattern deletes all keys matching a * wildcard pattern.
func (s *Store) ClearPattern(ctx context.Context, pattern string) int {
	count, err := s.backend.clearPattern(ctx, pattern)
	if err != nil {
		s.logger.Debug().Err(err).Str("pattern", pattern).Msg("Cache pattern clear failed")
	}
	return count
}

// Stats reports backend identity and counters.
func (s *Store) Stats(ctx context.Context) models.CacheStats {
	return models.CacheStats{
		Backend:  s.backend.name(),
		Degraded: s.degraded,
		KeyCount: s.backend.keyCount(ctx),
		Hits:     s.hits.Load(),
		Misses:   s.misses.Load(),
	}
}

// StartSweep runs a periodic expired-entry sweep for the in-process
// backend until ctx is cancelled. A no-op on Redis, which expires keys
// server-side.
func (s *Store) StartSweep(ctx context.Context, interval time.Duration) {
	mem, ok := s.backend.(*memoryBackend)
	if !ok || interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := mem.sweep(); removed > 0 {
					s.logger.Debug().Int("removed", removed).Msg("Cache sweep evicted expired entries")
				}
			}
		}
	}()
}

// Ensure Store implements CacheStore
var _ interfaces.CacheStore = (*Store)(nil)
