package scanner

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/grimmtrading/marketcore/internal/cache"
	"github.com/grimmtrading/marketcore/internal/common"
	"github.com/grimmtrading/marketcore/internal/interfaces"
	"github.com/grimmtrading/marketcore/internal/models"
)

// Caller-input errors.
var (
	ErrUnknownScanner = errors.New("unknown scanner type")
	ErrInvalidLimit   = errors.New("limit must be between 1 and 100")
)

const (
	// avgVolumeDays is the trailing window for relative volume.
	avgVolumeDays = 10
	// candleDaysBack fetches enough daily bars to cover the window
	// plus weekends and holidays.
	candleDaysBack = 15

	defaultConcurrency   = 8
	defaultMaxCandidates = 50
)

// Service implements ScannerService over a candidate source and the
// market data facade.
type Service struct {
	market        interfaces.MarketDataService
	source        interfaces.CandidateSource
	store         interfaces.CacheStore
	ttl           cache.TTLPolicy
	logger        *common.Logger
	concurrency   int
	maxCandidates int
	now           func() time.Time
}

// NewService creates a scanner service. Zero concurrency and
// maxCandidates fall back to defaults.
func NewService(market interfaces.MarketDataService, source interfaces.CandidateSource, store interfaces.CacheStore, ttl cache.TTLPolicy, cfg common.ScannerConfig, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	maxCandidates := cfg.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = defaultMaxCandidates
	}
	return &Service{
		market:        market,
		source:        source,
		store:         store,
		ttl:           ttl,
		logger:        logger,
		concurrency:   concurrency,
		maxCandidates: maxCandidates,
		now:           time.Now,
	}
}

// Scan runs a scanner variant and returns up to limit ranked results.
// The full pre-truncation ranked list is cached under the variant key
// alone, deliberately not per limit: every caller within the TTL window
// shares one upstream pass and slices to its own limit.
func (s *Service) Scan(ctx context.Context, scanner models.ScannerType, limit int) (*models.ScanResponse, error) {
	if !scanner.Valid() {
		return nil, ErrUnknownScanner
	}
	if limit <= 0 || limit > 100 {
		return nil, ErrInvalidLimit
	}

	started := s.now()
	key := cache.Key(cache.DomainScanner, string(scanner))

	if data, ok := s.store.Get(ctx, key); ok {
		var results []models.ScanResult
		if err := json.Unmarshal(data, &results); err == nil {
			return s.respond(scanner, results, limit, true, started), nil
		}
		s.store.Delete(ctx, key)
	}

	results, err := s.evaluate(ctx, scanner)
	if err != nil {
		return nil, err
	}

	if len(results) > 0 {
		if data, err := json.Marshal(results); err == nil {
			s.store.Set(ctx, key, data, s.ttl.For(cache.DomainScanner))
		}
	}

	return s.respond(scanner, results, limit, false, started), nil
}

// respond truncates the ranked list to the caller's limit and wraps it
// with execution metadata.
func (s *Service) respond(scanner models.ScannerType, results []models.ScanResult, limit int, cached bool, started time.Time) *models.ScanResponse {
	total := len(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return &models.ScanResponse{
		Scanner: scanner,
		Results: results,
		Meta: models.ScanMeta{
			TotalMatched: total,
			Returned:     len(results),
			Limit:        limit,
			Cached:       cached,
			ExecutedAt:   started.UTC(),
			QueryTimeMS:  s.now().Sub(started).Milliseconds(),
		},
	}
}

// evaluate fetches data for every candidate with bounded concurrency,
// filters against the variant criteria and returns the scored results
// sorted by score descending, symbol ascending on ties.
func (s *Service) evaluate(ctx context.Context, scanner models.ScannerType) ([]models.ScanResult, error) {
	candidates, err := s.source.Candidates(ctx, s.maxCandidates)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn().Err(err).Msg("Candidate sourcing failed")
		return []models.ScanResult{}, nil
	}

	criteria := criteriaFor(scanner)

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []models.ScanResult
	)
	sem := make(chan struct{}, s.concurrency)

	for _, symbol := range candidates {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(symbol string) {
			defer wg.Done()
			defer func() { <-sem }()

			result, ok := s.evaluateSymbol(ctx, scanner, criteria, symbol)
			if !ok {
				return
			}
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}(symbol)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Symbol < results[j].Symbol
	})
	return results, nil
}

// evaluateSymbol gathers quote, profile and trailing candles for one
// candidate, applies the variant criteria and scores it. Returns false
// when data is missing or the candidate fails the gate.
func (s *Service) evaluateSymbol(ctx context.Context, scanner models.ScannerType, criteria Criteria, symbol string) (models.ScanResult, bool) {
	quote, err := s.market.GetQuote(ctx, symbol)
	if err != nil || quote == nil || quote.IsZero() {
		return models.ScanResult{}, false
	}

	profile, err := s.market.GetProfile(ctx, symbol)
	if err != nil || profile == nil {
		return models.ScanResult{}, false
	}

	candles, err := s.market.GetCandles(ctx, symbol, "D", candleDaysBack, false)
	if err != nil || candles == nil {
		return models.ScanResult{}, false
	}

	avgVolume := candles.AverageVolume(avgVolumeDays)
	if avgVolume <= 0 {
		return models.ScanResult{}, false
	}
	relVolume := float64(quote.Volume) / avgVolume

	price := quote.CurrentPrice
	pctChange := quote.PercentChange
	gapPct := quote.GapPercent()
	floatShares := profile.Float

	if !criteria.Matches(price, pctChange, gapPct, quote.Volume, floatShares, relVolume) {
		return models.ScanResult{}, false
	}

	result := models.ScanResult{
		Symbol:         symbol,
		CompanyName:    profile.Name,
		Price:          price,
		Change:         quote.Change,
		PercentChange:  pctChange,
		Volume:         quote.Volume,
		RelativeVolume: relVolume,
		Float:          floatShares,
		MarketCap:      profile.MarketCap,
	}

	switch scanner {
	case models.ScannerMomentum:
		result.Score = MomentumScore(pctChange, relVolume, floatShares, price)
	case models.ScannerGappers:
		result.GapPercent = gapPct
		result.Score = GapScore(gapPct, relVolume, floatShares)
	case models.ScannerLowFloat:
		turnover := FloatTurnover(quote.Volume, floatShares)
		result.FloatTurnover = turnover
		result.Score = ExplosiveScore(floatShares, turnover, relVolume, pctChange)
	}

	return result, true
}

// Ensure Service implements ScannerService
var _ interfaces.ScannerService = (*Service)(nil)
