// Package interfaces defines service contracts for marketcore
package interfaces

import (
	"context"

	"github.com/grimmtrading/marketcore/internal/models"
)

// MarketDataClient is the upstream market-data API adapter. One method
// per data kind; every call is rate-limited and token-authenticated.
// Implementations return typed errors for transport and HTTP failures;
// the cache facade is responsible for flattening those to empty results.
type MarketDataClient interface {
	// GetQuote retrieves a real-time quote for a symbol
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)

	// GetCompanyProfile retrieves company reference data including the float proxy
	GetCompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error)

	// GetCandles retrieves historical OHLCV bars. When previous is true
	// the window ends at the prior business day instead of now.
	GetCandles(ctx context.Context, symbol, resolution string, daysBack int, previous bool) (*models.Candles, error)

	// GetMarketNews retrieves general market news for a category
	GetMarketNews(ctx context.Context, category string, minID int64) ([]models.NewsItem, error)

	// GetCompanyNews retrieves company-specific news over a trailing window
	GetCompanyNews(ctx context.Context, symbol string, daysBack int) ([]models.NewsItem, error)

	// SearchSymbols searches for symbols matching a free-text query
	SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error)

	// GetMarketStatus reports whether an exchange is currently trading
	GetMarketStatus(ctx context.Context, exchange string) (*models.MarketStatus, error)
}
