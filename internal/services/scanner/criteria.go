// Package scanner implements the tier-limited stock scanner engine.
// Each scanner variant filters a candidate universe against fixed
// criteria and ranks survivors by a variant-specific score.
package scanner

import "github.com/grimmtrading/marketcore/internal/models"

// Criteria is the filter gate a candidate must pass before scoring.
// A zero threshold disables that particular check.
type Criteria struct {
	PriceMin     float64
	PriceMax     float64
	MinPctChange float64
	MinGapPct    float64
	MinVolume    int64
	MaxFloat     float64
	MinRelVolume float64
}

// criteriaFor returns the filter gate for a scanner variant.
func criteriaFor(scanner models.ScannerType) Criteria {
	switch scanner {
	case models.ScannerMomentum:
		return Criteria{
			PriceMin:     2.0,
			PriceMax:     20.0,
			MinPctChange: 10.0,
			MinVolume:    100_000,
			MaxFloat:     10_000_000,
			MinRelVolume: 5.0,
		}
	case models.ScannerGappers:
		return Criteria{
			PriceMin:     2.0,
			PriceMax:     20.0,
			MinGapPct:    5.0,
			MinVolume:    100_000,
			MaxFloat:     10_000_000,
			MinRelVolume: 3.0,
		}
	case models.ScannerLowFloat:
		return Criteria{
			PriceMin:     2.0,
			PriceMax:     20.0,
			MinPctChange: 5.0,
			MinVolume:    50_000,
			MaxFloat:     10_000_000,
			MinRelVolume: 2.0,
		}
	default:
		return Criteria{}
	}
}

// Matches reports whether a candidate passes every enabled threshold.
func (c Criteria) Matches(price, pctChange, gapPct float64, volume int64, floatShares, relVolume float64) bool {
	if price < c.PriceMin || price > c.PriceMax {
		return false
	}
	if c.MinPctChange > 0 && pctChange < c.MinPctChange {
		return false
	}
	if c.MinGapPct > 0 && gapPct < c.MinGapPct {
		return false
	}
	if c.MinVolume > 0 && volume < c.MinVolume {
		return false
	}
	if c.MaxFloat > 0 && (floatShares <= 0 || floatShares > c.MaxFloat) {
		return false
	}
	if c.MinRelVolume > 0 && relVolume < c.MinRelVolume {
		return false
	}
	return true
}
