package scanner

import (
	"context"
	"sort"

	"github.com/grimmtrading/marketcore/internal/interfaces"
)

// StaticListSource serves candidates from a fixed symbol universe.
type StaticListSource struct {
	symbols []string
}

// NewStaticListSource creates a source over a fixed universe. The
// slice is copied so callers cannot mutate it afterwards.
func NewStaticListSource(symbols []string) *StaticListSource {
	copied := make([]string, len(symbols))
	copy(copied, symbols)
	return &StaticListSource{symbols: copied}
}

// Candidates returns up to max symbols from the universe.
func (s *StaticListSource) Candidates(ctx context.Context, max int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	symbols := s.symbols
	if max > 0 && len(symbols) > max {
		symbols = symbols[:max]
	}
	out := make([]string, len(symbols))
	copy(out, symbols)
	return out, nil
}

// ScreeningAPISource ranks a seed universe by intraday percent change
// using batch quotes, so the scanner evaluates the symbols already
// moving before the rest.
type ScreeningAPISource struct {
	market interfaces.MarketDataService
	seed   []string
}

// NewScreeningAPISource creates a quote-driven source over a seed
// universe.
func NewScreeningAPISource(market interfaces.MarketDataService, seed []string) *ScreeningAPISource {
	copied := make([]string, len(seed))
	copy(copied, seed)
	return &ScreeningAPISource{market: market, seed: copied}
}

// Candidates returns the seed symbols ordered by percent change
// descending, truncated to max. Symbols without a quote fall to the
// end in their seed order.
func (s *ScreeningAPISource) Candidates(ctx context.Context, max int) ([]string, error) {
	quotes, err := s.market.GetBatchQuotes(ctx, s.seed)
	if err != nil {
		return nil, err
	}

	ranked := make([]string, len(s.seed))
	copy(ranked, s.seed)
	sort.SliceStable(ranked, func(i, j int) bool {
		qi, oki := quotes[ranked[i]]
		qj, okj := quotes[ranked[j]]
		if oki != okj {
			return oki
		}
		if !oki {
			return false
		}
		return qi.PercentChange > qj.PercentChange
	})

	if max > 0 && len(ranked) > max {
		ranked = ranked[:max]
	}
	return ranked, nil
}

var (
	_ interfaces.CandidateSource = (*StaticListSource)(nil)
	_ interfaces.CandidateSource = (*ScreeningAPISource)(nil)
)
