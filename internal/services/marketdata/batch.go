package marketdata

import (
	"context"
	"sort"
	"strings"

	"github.com/grimmtrading/marketcore/internal/cache"
	"github.com/grimmtrading/marketcore/internal/models"
)

// GetBatchQuotes returns quotes for a set of symbols. The whole batch
// is cached under one key, and each fetched quote is also cached
// individually so single-symbol lookups stay consistent with batch
// reads. Symbols with no data are absent from the result map.
func (s *Service) GetBatchQuotes(ctx context.Context, symbols []string) (map[string]*models.Quote, error) {
	normalized := normalizeSymbols(symbols)
	if len(normalized) == 0 {
		return map[string]*models.Quote{}, nil
	}

	batchKey := cache.Key(cache.DomainBatchQuotes, cache.HashID(strings.Join(normalized, ",")))

	var batch map[string]*models.Quote
	if s.cached(ctx, batchKey, &batch) {
		return batch, nil
	}

	result := make(map[string]*models.Quote, len(normalized))
	for _, symbol := range normalized {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		quoteKey := cache.Key(cache.DomainQuote, symbol)
		var quote models.Quote
		if s.cached(ctx, quoteKey, &quote) {
			result[symbol] = &quote
			continue
		}

		fetched, err := s.client.GetQuote(ctx, symbol)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Batch quote fetch failed")
			continue
		}
		if fetched.IsZero() {
			continue
		}

		s.put(ctx, cache.DomainQuote, quoteKey, fetched)
		result[symbol] = fetched
	}

	if len(result) > 0 {
		s.put(ctx, cache.DomainBatchQuotes, batchKey, result)
	}
	return result, nil
}

// normalizeSymbols uppercases, trims, deduplicates and sorts the input
// so equivalent batches share a cache key.
func normalizeSymbols(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if symbol == "" {
			continue
		}
		if _, ok := seen[symbol]; ok {
			continue
		}
		seen[symbol] = struct{}{}
		out = append(out, symbol)
	}
	sort.Strings(out)
	return out
}
