package models

// CacheStats describes the state of a cache backend.
type CacheStats struct {
	Backend  string `json:"backend"` // "redis" or "memory"
	Degraded bool   `json:"degraded,omitempty"`
	KeyCount int64  `json:"key_count"`
	Hits     int64  `json:"hits"`
	Misses   int64  `json:"misses"`
}

// CacheOverview combines backend stats with the active TTL policy,
// keyed by cache domain in seconds.
type CacheOverview struct {
	Stats CacheStats     `json:"stats"`
	TTL   map[string]int `json:"ttl_seconds"`
}
