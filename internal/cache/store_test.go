package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimmtrading/marketcore/internal/common"
)

func TestStore_SetGet(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	require.True(t, store.Set(ctx, "market:quote:AAPL", []byte(`{"c":150}`), time.Minute))

	value, ok := store.Get(ctx, "market:quote:AAPL")
	require.True(t, ok)
	assert.Equal(t, `{"c":150}`, string(value))
}

func TestStore_MissOnAbsent(t *testing.T) {
	store := NewMemoryStore(nil)

	_, ok := store.Get(context.Background(), "market:quote:MISSING")
	assert.False(t, ok)
}

func TestStore_Expiry(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	require.True(t, store.Set(ctx, "market:quote:AAPL", []byte("x"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, ok := store.Get(ctx, "market:quote:AAPL")
	assert.False(t, ok, "expired entries behave as absent")
}

func TestStore_RejectsNonPositiveTTL(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	assert.False(t, store.Set(ctx, "k", []byte("x"), 0))
	assert.False(t, store.Set(ctx, "k", []byte("x"), -time.Second))

	_, ok := store.Get(ctx, "k")
	assert.False(t, ok)
}

func TestStore_Delete(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	store.Set(ctx, "market:quote:AAPL", []byte("x"), time.Minute)
	assert.True(t, store.Delete(ctx, "market:quote:AAPL"))

	_, ok := store.Get(ctx, "market:quote:AAPL")
	assert.False(t, ok)
}

func TestStore_ClearPattern_Symbol(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	store.Set(ctx, Key(DomainQuote, "AAPL"), []byte("q"), time.Minute)
	store.Set(ctx, Key(DomainProfile, "AAPL"), []byte("p"), time.Minute)
	store.Set(ctx, Key(DomainCandles, "AAPL", P("resolution", "D"), P("days", 30)), []byte("c"), time.Minute)
	store.Set(ctx, Key(DomainQuote, "MSFT"), []byte("q"), time.Minute)

	removed := store.ClearPattern(ctx, SymbolPattern("AAPL"))
	assert.Equal(t, 3, removed)

	_, ok := store.Get(ctx, Key(DomainQuote, "MSFT"))
	assert.True(t, ok, "other symbols survive the clear")
}

func TestStore_ClearPattern_LiteralKey(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	store.Set(ctx, Key(DomainQuote, "AAPL"), []byte("q"), time.Minute)
	store.Set(ctx, Key(DomainQuote, "AAPLX"), []byte("q"), time.Minute)

	// A pattern without wildcards is an exact-match delete.
	removed := store.ClearPattern(ctx, "market:quote:AAPL")
	assert.Equal(t, 1, removed)

	_, ok := store.Get(ctx, Key(DomainQuote, "AAPLX"))
	assert.True(t, ok)

	assert.Equal(t, 0, store.ClearPattern(ctx, "market:quote:NOPE"))
}

func TestStore_Stats(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	store.Set(ctx, "market:quote:AAPL", []byte("x"), time.Minute)
	store.Get(ctx, "market:quote:AAPL")
	store.Get(ctx, "market:quote:NOPE")

	stats := store.Stats(ctx)
	assert.Equal(t, "memory", stats.Backend)
	assert.False(t, stats.Degraded)
	assert.Equal(t, int64(1), stats.KeyCount)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestNewStore_DegradesOnUnreachableRedis(t *testing.T) {
	cfg := common.CacheConfig{RedisURL: "redis://127.0.0.1:1"}
	store := NewStore(cfg, common.NewSilentLogger())
	ctx := context.Background()

	stats := store.Stats(ctx)
	assert.Equal(t, "memory", stats.Backend)
	assert.True(t, stats.Degraded)

	// Degraded stores still serve reads and writes.
	require.True(t, store.Set(ctx, "k", []byte("v"), time.Minute))
	value, ok := store.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v", string(value))
}

func TestNewStore_InvalidURL(t *testing.T) {
	cfg := common.CacheConfig{RedisURL: "::not-a-url::"}
	store := NewStore(cfg, common.NewSilentLogger())

	stats := store.Stats(context.Background())
	assert.Equal(t, "memory", stats.Backend)
	assert.True(t, stats.Degraded)
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern string
		key     string
		want    bool
	}{
		{"*", "anything", true},
		{"market:*:AAPL*", "market:quote:AAPL", true},
		{"market:*:AAPL*", "market:candles:AAPL:days=30", true},
		{"market:*:AAPL*", "market:quote:MSFT", false},
		{"market:*:AAPL*", "other:quote:AAPL", false},
		{"market:quote:*", "market:quote:TSLA", true},
		{"market:quote:*", "market:profile:TSLA", false},
		{"exact", "exact", true},
		{"exact", "exactly", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, matchPattern(tt.pattern, tt.key), "pattern %q against %q", tt.pattern, tt.key)
	}
}

func TestMemoryBackend_Sweep(t *testing.T) {
	mem := newMemoryBackend()
	ctx := context.Background()

	mem.set(ctx, "a", []byte("x"), 5*time.Millisecond)
	mem.set(ctx, "b", []byte("x"), time.Minute)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, 1, mem.sweep())
	assert.Equal(t, int64(1), mem.keyCount(ctx))
}
