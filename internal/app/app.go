// Package app wires configuration, the cache store, the upstream client
// and the services into a single application core shared by entrypoints
// and tests.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/grimmtrading/marketcore/internal/cache"
	"github.com/grimmtrading/marketcore/internal/clients/finnhub"
	"github.com/grimmtrading/marketcore/internal/common"
	"github.com/grimmtrading/marketcore/internal/interfaces"
	"github.com/grimmtrading/marketcore/internal/services/marketdata"
	"github.com/grimmtrading/marketcore/internal/services/scanner"
)

// App holds all initialized services and clients. Every dependency is
// injected at construction; nothing reaches for globals.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Cache       *cache.Store
	Client      interfaces.MarketDataClient
	Market      interfaces.MarketDataService
	Scanner     interfaces.ScannerService
	StartupTime time.Time

	sweepCancel context.CancelFunc
}

// NewApp initializes the application core. configPath may be empty, in
// which case MARKETCORE_CONFIG and then the default path are tried.
func NewApp(configPath string) (*App, error) {
	start := time.Now()

	if configPath == "" {
		configPath = os.Getenv("MARKETCORE_CONFIG")
	}
	if configPath == "" {
		configPath = "config/marketcore.toml"
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	if config.Clients.Finnhub.APIKey == "" {
		logger.Warn().Msg("Finnhub API key not configured - upstream fetches will fail")
	}

	store := cache.NewStore(config.Cache, logger)

	client := finnhub.NewClient(config.Clients.Finnhub.APIKey,
		finnhub.WithBaseURL(config.Clients.Finnhub.BaseURL),
		finnhub.WithMinInterval(config.Clients.Finnhub.GetMinInterval()),
		finnhub.WithTimeout(config.Clients.Finnhub.GetTimeout()),
		finnhub.WithLogger(logger),
	)

	ttl := cache.NewTTLPolicy(config.Cache.TTL)
	market := marketdata.NewService(client, store, ttl, logger)

	source := newCandidateSource(config.Scanner, market)
	scan := scanner.NewService(market, source, store, ttl, config.Scanner, logger)

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	store.StartSweep(sweepCtx, config.Cache.GetSweepInterval())

	logger.Info().
		Str("version", common.GetVersion()).
		Str("environment", config.Environment).
		Dur("startup", time.Since(start)).
		Msg("Application initialized")

	return &App{
		Config:      config,
		Logger:      logger,
		Cache:       store,
		Client:      client,
		Market:      market,
		Scanner:     scan,
		StartupTime: start,
		sweepCancel: sweepCancel,
	}, nil
}

// newCandidateSource builds the scanner's candidate source from config.
// Unknown source names fall back to the static universe.
func newCandidateSource(cfg common.ScannerConfig, market interfaces.MarketDataService) interfaces.CandidateSource {
	switch cfg.Source {
	case "screener":
		return scanner.NewScreeningAPISource(market, cfg.Universe)
	default:
		return scanner.NewStaticListSource(cfg.Universe)
	}
}

// Close stops background work.
func (a *App) Close() {
	if a.sweepCancel != nil {
		a.sweepCancel()
	}
}
