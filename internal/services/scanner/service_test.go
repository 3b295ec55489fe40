package scanner

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimmtrading/marketcore/internal/cache"
	"github.com/grimmtrading/marketcore/internal/common"
	"github.com/grimmtrading/marketcore/internal/interfaces"
	"github.com/grimmtrading/marketcore/internal/models"
)

// mockMarket serves canned market data and counts quote reads.
type mockMarket struct {
	mu         sync.Mutex
	quoteCalls int
	quotes     map[string]*models.Quote
	profiles   map[string]*models.CompanyProfile
	avgVolume  map[string]int64
}

func newMockMarket() *mockMarket {
	return &mockMarket{
		quotes:    map[string]*models.Quote{},
		profiles:  map[string]*models.CompanyProfile{},
		avgVolume: map[string]int64{},
	}
}

// addCandidate registers a symbol with the data the scanner needs.
func (m *mockMarket) addCandidate(symbol string, price, pctChange float64, volume int64, floatShares float64, avgVolume int64) {
	m.quotes[symbol] = &models.Quote{
		Symbol:        symbol,
		CurrentPrice:  price,
		PercentChange: pctChange,
		PreviousClose: price / (1 + pctChange/100),
		Volume:        volume,
	}
	m.profiles[symbol] = &models.CompanyProfile{
		Symbol:            symbol,
		Name:              symbol + " Corp",
		SharesOutstanding: floatShares,
		Float:             floatShares,
		MarketCap:         floatShares * price / 1000,
	}
	m.avgVolume[symbol] = avgVolume
}

func (m *mockMarket) GetQuote(_ context.Context, symbol string) (*models.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quoteCalls++
	return m.quotes[symbol], nil
}

func (m *mockMarket) GetProfile(_ context.Context, symbol string) (*models.CompanyProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profiles[symbol], nil
}

func (m *mockMarket) GetCandles(_ context.Context, symbol, _ string, _ int, _ bool) (*models.Candles, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	avg, ok := m.avgVolume[symbol]
	if !ok {
		return nil, nil
	}
	volumes := make([]int64, 10)
	timestamps := make([]int64, 10)
	for i := range volumes {
		volumes[i] = avg
		timestamps[i] = int64(i)
	}
	return &models.Candles{Symbol: symbol, Timestamps: timestamps, Volume: volumes}, nil
}

func (m *mockMarket) GetMarketNews(context.Context, string, int64) ([]models.NewsItem, error) {
	return nil, nil
}

func (m *mockMarket) GetCompanyNews(context.Context, string, int) ([]models.NewsItem, error) {
	return nil, nil
}

func (m *mockMarket) SearchSymbols(context.Context, string) ([]models.SymbolMatch, error) {
	return nil, nil
}

func (m *mockMarket) GetMarketStatus(context.Context, string) (*models.MarketStatus, error) {
	return nil, nil
}

func (m *mockMarket) GetBatchQuotes(ctx context.Context, symbols []string) (map[string]*models.Quote, error) {
	out := map[string]*models.Quote{}
	for _, symbol := range symbols {
		if q, ok := m.quotes[symbol]; ok {
			out[symbol] = q
		}
	}
	return out, nil
}

func (m *mockMarket) ClearSymbol(context.Context, string) int { return 0 }

func (m *mockMarket) CacheStats(context.Context) models.CacheOverview {
	return models.CacheOverview{}
}

var _ interfaces.MarketDataService = (*mockMarket)(nil)

func newTestScanner(market *mockMarket, symbols []string) *Service {
	cfg := common.ScannerConfig{MaxCandidates: 20, Concurrency: 2}
	store := cache.NewMemoryStore(nil)
	return NewService(market, NewStaticListSource(symbols), store, cache.NewTTLPolicy(nil), cfg, nil)
}

func TestScan_RejectsInvalidInput(t *testing.T) {
	svc := newTestScanner(newMockMarket(), nil)
	ctx := context.Background()

	_, err := svc.Scan(ctx, "volume", 10)
	assert.ErrorIs(t, err, ErrUnknownScanner)

	_, err = svc.Scan(ctx, models.ScannerMomentum, 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)

	_, err = svc.Scan(ctx, models.ScannerMomentum, 101)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestScan_MomentumFiltersAndRanks(t *testing.T) {
	market := newMockMarket()
	// AAA: stronger move, should rank first.
	market.addCandidate("AAA", 5, 15, 600_000, 8_000_000, 100_000)
	// BBB: weaker move, still passes.
	market.addCandidate("BBB", 5, 11, 510_000, 8_000_000, 100_000)
	// CCC: fails the price band.
	market.addCandidate("CCC", 25, 15, 600_000, 8_000_000, 100_000)
	// DDD: fails the percent-change gate.
	market.addCandidate("DDD", 5, 5, 600_000, 8_000_000, 100_000)
	// EEE: relative volume too low.
	market.addCandidate("EEE", 5, 15, 300_000, 8_000_000, 100_000)

	svc := newTestScanner(market, []string{"AAA", "BBB", "CCC", "DDD", "EEE"})

	resp, err := svc.Scan(context.Background(), models.ScannerMomentum, 10)
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)

	assert.Equal(t, "AAA", resp.Results[0].Symbol)
	assert.Equal(t, "BBB", resp.Results[1].Symbol)
	assert.InDelta(t, 73.0, resp.Results[0].Score, 0.001)
	assert.InDelta(t, 62.3, resp.Results[1].Score, 0.001)
	assert.InDelta(t, 6.0, resp.Results[0].RelativeVolume, 0.001)
	assert.Equal(t, 2, resp.Meta.TotalMatched)
	assert.False(t, resp.Meta.Cached)
}

func TestScan_TieBreaksOnSymbol(t *testing.T) {
	market := newMockMarket()
	// Identical inputs produce identical scores.
	market.addCandidate("ZZZ", 5, 15, 600_000, 8_000_000, 100_000)
	market.addCandidate("AAA", 5, 15, 600_000, 8_000_000, 100_000)

	svc := newTestScanner(market, []string{"ZZZ", "AAA"})

	resp, err := svc.Scan(context.Background(), models.ScannerMomentum, 10)
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "AAA", resp.Results[0].Symbol)
	assert.Equal(t, "ZZZ", resp.Results[1].Symbol)
}

func TestScan_TruncatesToLimit(t *testing.T) {
	market := newMockMarket()
	market.addCandidate("AAA", 5, 15, 600_000, 8_000_000, 100_000)
	market.addCandidate("BBB", 5, 11, 510_000, 8_000_000, 100_000)
	market.addCandidate("CCC", 5, 12, 520_000, 8_000_000, 100_000)

	svc := newTestScanner(market, []string{"AAA", "BBB", "CCC"})

	resp, err := svc.Scan(context.Background(), models.ScannerMomentum, 1)
	require.NoError(t, err)
	assert.Len(t, resp.Results, 1)
	assert.Equal(t, "AAA", resp.Results[0].Symbol)
	assert.Equal(t, 3, resp.Meta.TotalMatched)
	assert.Equal(t, 1, resp.Meta.Returned)
}

func TestScan_CachesFullList(t *testing.T) {
	market := newMockMarket()
	market.addCandidate("AAA", 5, 15, 600_000, 8_000_000, 100_000)
	market.addCandidate("BBB", 5, 11, 510_000, 8_000_000, 100_000)

	svc := newTestScanner(market, []string{"AAA", "BBB"})
	ctx := context.Background()

	first, err := svc.Scan(ctx, models.ScannerMomentum, 1)
	require.NoError(t, err)
	assert.False(t, first.Meta.Cached)
	callsAfterFirst := market.quoteCalls

	// A larger limit is served from the cached full list.
	second, err := svc.Scan(ctx, models.ScannerMomentum, 10)
	require.NoError(t, err)
	assert.True(t, second.Meta.Cached)
	assert.Len(t, second.Results, 2)
	assert.Equal(t, callsAfterFirst, market.quoteCalls, "cached scan should not touch upstream")
}

func TestScan_EmptyResultNotCached(t *testing.T) {
	market := newMockMarket()
	// No candidates pass.
	market.addCandidate("AAA", 5, 2, 600_000, 8_000_000, 100_000)

	svc := newTestScanner(market, []string{"AAA"})
	ctx := context.Background()

	first, err := svc.Scan(ctx, models.ScannerMomentum, 10)
	require.NoError(t, err)
	assert.Empty(t, first.Results)

	calls := market.quoteCalls
	_, err = svc.Scan(ctx, models.ScannerMomentum, 10)
	require.NoError(t, err)
	assert.Greater(t, market.quoteCalls, calls, "empty scans re-evaluate")
}

func TestScan_GappersUsesGapScore(t *testing.T) {
	market := newMockMarket()
	// 8% change implies an 8% gap given the synthetic previous close.
	market.addCandidate("GAP", 5, 8, 400_000, 6_000_000, 100_000)

	svc := newTestScanner(market, []string{"GAP"})

	resp, err := svc.Scan(context.Background(), models.ScannerGappers, 10)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.InDelta(t, 8.0, resp.Results[0].GapPercent, 0.01)
	assert.Greater(t, resp.Results[0].Score, 0.0)
}

func TestScan_LowFloatReportsTurnover(t *testing.T) {
	market := newMockMarket()
	market.addCandidate("LOW", 5, 6, 500_000, 2_000_000, 100_000)

	svc := newTestScanner(market, []string{"LOW"})

	resp, err := svc.Scan(context.Background(), models.ScannerLowFloat, 10)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.InDelta(t, 25.0, resp.Results[0].FloatTurnover, 0.001)
}

func TestScan_PreCancelledContext(t *testing.T) {
	market := newMockMarket()
	market.addCandidate("AAA", 5, 15, 600_000, 8_000_000, 100_000)

	svc := newTestScanner(market, []string{"AAA"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Scan(ctx, models.ScannerMomentum, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, market.quoteCalls, "cancelled scan should not evaluate candidates")
}

// blockingMarket blocks quote reads until the caller's context is
// cancelled, simulating a stalled upstream.
type blockingMarket struct {
	mockMarket
	started chan struct{}
	once    sync.Once
}

func (b *blockingMarket) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	b.once.Do(func() { close(b.started) })
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestScan_CancelledMidScan(t *testing.T) {
	market := &blockingMarket{started: make(chan struct{})}
	market.quotes = map[string]*models.Quote{}
	market.profiles = map[string]*models.CompanyProfile{}
	market.avgVolume = map[string]int64{}

	cfg := common.ScannerConfig{MaxCandidates: 20, Concurrency: 2}
	store := cache.NewMemoryStore(nil)
	svc := NewService(market, NewStaticListSource([]string{"AAA", "BBB", "CCC"}), store, cache.NewTTLPolicy(nil), cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	var scanErr error
	go func() {
		defer close(done)
		_, scanErr = svc.Scan(ctx, models.ScannerMomentum, 10)
	}()

	<-market.started
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scan did not return after cancellation")
	}

	assert.ErrorIs(t, scanErr, context.Canceled)

	// An abandoned scan leaves nothing cached.
	_, cached := store.Get(context.Background(), cache.Key(cache.DomainScanner, "momentum"))
	assert.False(t, cached)
}

func TestScan_SkipsSymbolsWithoutData(t *testing.T) {
	market := newMockMarket()
	market.addCandidate("AAA", 5, 15, 600_000, 8_000_000, 100_000)

	svc := newTestScanner(market, []string{"AAA", "GHOST"})

	resp, err := svc.Scan(context.Background(), models.ScannerMomentum, 10)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "AAA", resp.Results[0].Symbol)
}

func TestStaticListSource(t *testing.T) {
	source := NewStaticListSource([]string{"AAA", "BBB", "CCC"})
	ctx := context.Background()

	all, err := source.Candidates(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAA", "BBB", "CCC"}, all)

	limited, err := source.Candidates(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAA", "BBB"}, limited)
}

func TestScreeningAPISource_OrdersByPercentChange(t *testing.T) {
	market := newMockMarket()
	market.addCandidate("SLOW", 5, 2, 100_000, 8_000_000, 100_000)
	market.addCandidate("FAST", 5, 20, 100_000, 8_000_000, 100_000)
	market.addCandidate("MID", 5, 10, 100_000, 8_000_000, 100_000)

	source := NewScreeningAPISource(market, []string{"SLOW", "FAST", "MID", "NOQUOTE"})

	ranked, err := source.Candidates(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"FAST", "MID", "SLOW"}, ranked)
}
