package interfaces

import (
	"context"

	"github.com/grimmtrading/marketcore/internal/models"
)

// MarketDataService is the cache-or-fetch facade over the upstream
// client. Transient upstream failures surface as empty results, never
// as errors; the only errors returned are invalid caller input.
type MarketDataService interface {
	// GetQuote returns a quote, cached or fetched. Nil when unavailable.
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)

	// GetProfile returns a company profile, cached or fetched. Nil when unavailable.
	GetProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error)

	// GetCandles returns historical bars. Rejects unsupported resolutions.
	GetCandles(ctx context.Context, symbol, resolution string, daysBack int, previous bool) (*models.Candles, error)

	// GetMarketNews returns general market news for a category.
	GetMarketNews(ctx context.Context, category string, minID int64) ([]models.NewsItem, error)

	// GetCompanyNews returns company news over a trailing window.
	GetCompanyNews(ctx context.Context, symbol string, daysBack int) ([]models.NewsItem, error)

	// SearchSymbols searches for symbols matching a query.
	SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error)

	// GetMarketStatus reports exchange trading state.
	GetMarketStatus(ctx context.Context, exchange string) (*models.MarketStatus, error)

	// GetBatchQuotes returns quotes for multiple symbols, reusing the
	// batch-level and per-symbol caches before invoking the upstream.
	GetBatchQuotes(ctx context.Context, symbols []string) (map[string]*models.Quote, error)

	// ClearSymbol removes every cached entry for a symbol across all
	// data domains and returns the count removed.
	ClearSymbol(ctx context.Context, symbol string) int

	// CacheStats reports cache backend state and the active TTL policy.
	CacheStats(ctx context.Context) models.CacheOverview
}

// ScannerService runs tier-limited market scans.
type ScannerService interface {
	// Scan evaluates the candidate universe for a scanner variant and
	// returns up to limit ranked results. Rejects unknown scanner types
	// and out-of-range limits; all other failures degrade to an empty,
	// well-formed result list.
	Scan(ctx context.Context, scanner models.ScannerType, limit int) (*models.ScanResponse, error)
}

// CandidateSource supplies the bounded symbol universe a scan evaluates.
type CandidateSource interface {
	// Candidates returns at most max candidate symbols.
	Candidates(ctx context.Context, max int) ([]string, error)
}
