package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// memoryBackend is the in-process fallback store: a mutex-guarded map
// with lazy eviction on read. A periodic sweep bounds memory when the
// process is long-lived; correctness never depends on it.
type memoryBackend struct {
	mu    sync.Mutex
	items map[string]memoryItem
}

type memoryItem struct {
	value  []byte
	expiry time.Time
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{items: make(map[string]memoryItem)}
}

func (m *memoryBackend) name() string { return "memory" }

func (m *memoryBackend) get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(item.expiry) {
		delete(m.items, key)
		return nil, false
	}
	return item.value, true
}

func (m *memoryBackend) set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = memoryItem{value: value, expiry: time.Now().Add(ttl)}
	return nil
}

func (m *memoryBackend) delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}

func (m *memoryBackend) clearPattern(_ context.Context, pattern string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for key := range m.items {
		if matchPattern(pattern, key) {
			delete(m.items, key)
			count++
		}
	}
	return count, nil
}

func (m *memoryBackend) keyCount(_ context.Context) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	var count int64
	for _, item := range m.items {
		if now.Before(item.expiry) {
			count++
		}
	}
	return count
}

// sweep removes expired entries and returns the count removed.
func (m *memoryBackend) sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, item := range m.items {
		if now.After(item.expiry) {
			delete(m.items, key)
			removed++
		}
	}
	return removed
}

// matchPattern reports whether key matches a glob pattern where * spans
// any run of characters, mirroring Redis KEYS/SCAN semantics for the
// patterns this package generates.
func matchPattern(pattern, key string) bool {
	if pattern == "*" {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return pattern == key
	}

	segments := strings.Split(pattern, "*")

	// Anchor the first and last literal segments.
	if !strings.HasPrefix(key, segments[0]) {
		return false
	}
	last := segments[len(segments)-1]
	if !strings.HasSuffix(key, last) {
		return false
	}

	rest := key[len(segments[0]):]
	for _, seg := range segments[1 : len(segments)-1] {
		if seg == "" {
			continue
		}
		idx := strings.Index(rest, seg)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(seg):]
	}

	// The trailing anchor must not overlap the middle matches.
	if last != "" && len(rest) < len(last) {
		return false
	}
	return true
}
