// Package marketdata provides the cache-or-fetch facade over the
// upstream market-data client. Every read checks the TTL cache first;
// upstream failures degrade to empty results so the request pipeline
// never crashes on a transient outage.
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/grimmtrading/marketcore/internal/cache"
	"github.com/grimmtrading/marketcore/internal/common"
	"github.com/grimmtrading/marketcore/internal/interfaces"
	"github.com/grimmtrading/marketcore/internal/models"
)

// Caller-input errors, the only errors this service propagates.
var (
	ErrInvalidResolution = errors.New("unsupported candle resolution")
	ErrEmptyQuery        = errors.New("search query is required")
)

// validResolutions are the candle resolutions the upstream accepts.
var validResolutions = map[string]struct{}{
	"1": {}, "5": {}, "15": {}, "30": {}, "60": {}, "D": {}, "W": {}, "M": {},
}

// Service implements MarketDataService.
type Service struct {
	client interfaces.MarketDataClient
	store  interfaces.CacheStore
	ttl    cache.TTLPolicy
	logger *common.Logger
}

// NewService creates a new market data facade.
func NewService(client interfaces.MarketDataClient, store interfaces.CacheStore, ttl cache.TTLPolicy, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		client: client,
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// cached unmarshals the cache entry for key into dest, reporting a hit.
func (s *Service) cached(ctx context.Context, key string, dest interface{}) bool {
	data, ok := s.store.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// A corrupt entry behaves as a miss and is replaced on refetch.
		s.store.Delete(ctx, key)
		return false
	}
	return true
}

// put stores a fetched value under key with the domain's TTL.
func (s *Service) put(ctx context.Context, domain, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	s.store.Set(ctx, key, data, s.ttl.For(domain))
}

// GetQuote returns a quote, cached or fetched. Nil when unavailable.
func (s *Service) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	key := cache.Key(cache.DomainQuote, symbol)

	var quote models.Quote
	if s.cached(ctx, key, &quote) {
		return &quote, nil
	}

	fetched, err := s.client.GetQuote(ctx, symbol)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Quote fetch failed")
		return nil, nil
	}
	if fetched.IsZero() {
		// Empty results are never cached: upstream failures are often transient.
		return nil, nil
	}

	s.put(ctx, cache.DomainQuote, key, fetched)
	return fetched, nil
}

// GetProfile returns a company profile, cached or fetched. Nil when unavailable.
func (s *Service) GetProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	key := cache.Key(cache.DomainProfile, symbol)

	var profile models.CompanyProfile
	if s.cached(ctx, key, &profile) {
		return &profile, nil
	}

	fetched, err := s.client.GetCompanyProfile(ctx, symbol)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Profile fetch failed")
		return nil, nil
	}
	if fetched.IsZero() {
		return nil, nil
	}

	s.put(ctx, cache.DomainProfile, key, fetched)
	return fetched, nil
}

// GetCandles returns historical bars for a symbol. The only propagated
// failure is an unsupported resolution.
func (s *Service) GetCandles(ctx context.Context, symbol, resolution string, daysBack int, previous bool) (*models.Candles, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if _, ok := validResolutions[resolution]; !ok {
		return nil, ErrInvalidResolution
	}
	if daysBack <= 0 {
		daysBack = 30
	}

	key := cache.Key(cache.DomainCandles, symbol,
		cache.P("resolution", resolution),
		cache.P("days", daysBack),
		cache.P("previous", previous),
	)

	var candles models.Candles
	if s.cached(ctx, key, &candles) {
		return &candles, nil
	}

	fetched, err := s.client.GetCandles(ctx, symbol, resolution, daysBack, previous)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Candle fetch failed")
		return nil, nil
	}
	if fetched.IsZero() {
		return nil, nil
	}

	s.put(ctx, cache.DomainCandles, key, fetched)
	return fetched, nil
}

// GetMarketNews returns general market news for a category.
func (s *Service) GetMarketNews(ctx context.Context, category string, minID int64) ([]models.NewsItem, error) {
	if category == "" {
		category = "general"
	}
	key := cache.Key(cache.DomainNews, category, cache.P("min_id", minID))

	var news []models.NewsItem
	if s.cached(ctx, key, &news) {
		return news, nil
	}

	fetched, err := s.client.GetMarketNews(ctx, category, minID)
	if err != nil {
		s.logger.Warn().Err(err).Str("category", category).Msg("Market news fetch failed")
		return []models.NewsItem{}, nil
	}
	if len(fetched) == 0 {
		return []models.NewsItem{}, nil
	}

	s.put(ctx, cache.DomainNews, key, fetched)
	return fetched, nil
}

// GetCompanyNews returns company news over a trailing window.
func (s *Service) GetCompanyNews(ctx context.Context, symbol string, daysBack int) ([]models.NewsItem, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if daysBack <= 0 {
		daysBack = 7
	}
	key := cache.Key(cache.DomainCompanyNews, symbol, cache.P("days", daysBack))

	var news []models.NewsItem
	if s.cached(ctx, key, &news) {
		return news, nil
	}

	fetched, err := s.client.GetCompanyNews(ctx, symbol, daysBack)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Company news fetch failed")
		return []models.NewsItem{}, nil
	}
	if len(fetched) == 0 {
		return []models.NewsItem{}, nil
	}

	s.put(ctx, cache.DomainCompanyNews, key, fetched)
	return fetched, nil
}

// SearchSymbols searches for symbols matching a free-text query. The
// query is hashed into the cache key to bound the key space.
func (s *Service) SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	key := cache.Key(cache.DomainSearch, cache.HashID(query))

	var matches []models.SymbolMatch
	if s.cached(ctx, key, &matches) {
		return matches, nil
	}

	fetched, err := s.client.SearchSymbols(ctx, query)
	if err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("Symbol search failed")
		return []models.SymbolMatch{}, nil
	}
	if len(fetched) == 0 {
		return []models.SymbolMatch{}, nil
	}

	s.put(ctx, cache.DomainSearch, key, fetched)
	return fetched, nil
}

// GetMarketStatus reports exchange trading state.
func (s *Service) GetMarketStatus(ctx context.Context, exchange string) (*models.MarketStatus, error) {
	if exchange == "" {
		exchange = "US"
	}
	exchange = strings.ToUpper(exchange)
	key := cache.Key(cache.DomainMarketStatus, exchange)

	var status models.MarketStatus
	if s.cached(ctx, key, &status) {
		return &status, nil
	}

	fetched, err := s.client.GetMarketStatus(ctx, exchange)
	if err != nil || fetched == nil {
		s.logger.Warn().Err(err).Str("exchange", exchange).Msg("Market status fetch failed")
		return nil, nil
	}

	s.put(ctx, cache.DomainMarketStatus, key, fetched)
	return fetched, nil
}

// ClearSymbol removes every cached entry for a symbol across all
// domains and returns the count removed.
func (s *Service) ClearSymbol(ctx context.Context, symbol string) int {
	return s.store.ClearPattern(ctx, cache.SymbolPattern(symbol))
}

// CacheStats reports cache backend state and the active TTL policy.
func (s *Service) CacheStats(ctx context.Context) models.CacheOverview {
	return models.CacheOverview{
		Stats: s.store.Stats(ctx),
		TTL:   s.ttl.Seconds(),
	}
}

// Ensure Service implements MarketDataService
var _ interfaces.MarketDataService = (*Service)(nil)
