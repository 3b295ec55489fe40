// Package cache provides the TTL key-value store fronting the upstream
// market-data API, with a Redis backend and an in-process fallback.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Cache key domains. The domain segment stays human-readable so
// pattern-based invalidation can target one symbol across all domains.
const (
	DomainQuote        = "quote"
	DomainProfile      = "profile"
	DomainNews         = "news"
	DomainCompanyNews  = "company_news"
	DomainCandles      = "candles"
	DomainSearch       = "search"
	DomainMarketStatus = "market_status"
	DomainScanner      = "scanner"
	DomainBatchQuotes  = "batch_quotes"
)

// keyPrefix namespaces every marketcore entry in a shared backend.
const keyPrefix = "market"

// Param is a single named key parameter.
type Param struct {
	Name  string
	Value string
}

// P builds a Param from any printable value.
func P(name string, value interface{}) Param {
	return Param{Name: name, Value: fmt.Sprintf("%v", value)}
}

// Key derives a deterministic cache key from a domain, an identifier,
// and optional parameters. Parameters are sorted by name so logically
// identical requests collide on one entry regardless of argument order.
func Key(domain, identifier string, params ...Param) string {
	parts := []string{keyPrefix, domain, identifier}

	if len(params) > 0 {
		sorted := make([]Param, len(params))
		copy(sorted, params)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

		pairs := make([]string, len(sorted))
		for i, p := range sorted {
			pairs[i] = p.Name + "=" + p.Value
		}
		parts = append(parts, strings.Join(pairs, "_"))
	}

	return strings.Join(parts, ":")
}

// HashID condenses a high-cardinality input (free-text query, symbol
// list, parameter blob) into a short stable identifier so the key space
// stays bounded. Input is lowercased and trimmed before hashing.
func HashID(input string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(input))))
	return hex.EncodeToString(sum[:])[:8]
}

// SymbolPattern returns the wildcard pattern matching every cached
// entry for one symbol across all domains.
func SymbolPattern(symbol string) string {
	return keyPrefix + ":*:" + strings.ToUpper(symbol) + "*"
}

// defaultTTLSeconds is the per-domain TTL policy. Values balance
// freshness against upstream rate limits and are overridable via
// configuration.
var defaultTTLSeconds = map[string]int{
	DomainQuote:        120,
	DomainProfile:      3600,
	DomainNews:         300,
	DomainCompanyNews:  600,
	DomainCandles:      900,
	DomainSearch:       1800,
	DomainMarketStatus: 60,
	DomainScanner:      300,
	DomainBatchQuotes:  120,
}

// TTLPolicy resolves the TTL for each cache domain.
type TTLPolicy struct {
	seconds map[string]int
}

// NewTTLPolicy builds a policy from the defaults plus any overrides.
// Overrides for unknown domains are ignored; non-positive values are
// ignored so a bad override cannot disable expiry.
func NewTTLPolicy(overrides map[string]int) TTLPolicy {
	seconds := make(map[string]int, len(defaultTTLSeconds))
	for domain, ttl := range defaultTTLSeconds {
		seconds[domain] = ttl
	}
	for domain, ttl := range overrides {
		if _, known := seconds[domain]; known && ttl > 0 {
			seconds[domain] = ttl
		}
	}
	return TTLPolicy{seconds: seconds}
}

// For returns the TTL for a domain.
func (p TTLPolicy) For(domain string) time.Duration {
	if ttl, ok := p.seconds[domain]; ok {
		return time.Duration(ttl) * time.Second
	}
	return 5 * time.Minute
}

// Seconds returns a copy of the active per-domain TTL table.
func (p TTLPolicy) Seconds() map[string]int {
	out := make(map[string]int, len(p.seconds))
	for domain, ttl := range p.seconds {
		out[domain] = ttl
	}
	return out
}
