package interfaces

import (
	"context"
	"time"

	"github.com/grimmtrading/marketcore/internal/models"
)

// CacheStore is a TTL key-value store. The cache is a performance
// optimization, never a correctness dependency: implementations convert
// every backend failure into miss behavior (Get false, Set/Delete
// false, ClearPattern 0) rather than surfacing errors to callers.
type CacheStore interface {
	// Get returns the value for key if present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key with an absolute expiry of now+ttl,
	// overwriting any existing entry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool

	// Delete removes a key.
	Delete(ctx context.Context, key string) bool

	// ClearPattern deletes all keys matching a * wildcard pattern and
	// returns the count removed. Pattern "*" clears everything.
	ClearPattern(ctx context.Context, pattern string) int

	// Stats reports backend identity and counters.
	Stats(ctx context.Context) models.CacheStats
}
