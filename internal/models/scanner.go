package models

import "time"

// ScannerType identifies a scanner variant.
type ScannerType string

const (
	ScannerMomentum ScannerType = "momentum"
	ScannerGappers  ScannerType = "gappers"
	ScannerLowFloat ScannerType = "low_float"
)

// Valid reports whether the scanner type is a known variant.
func (t ScannerType) Valid() bool {
	switch t {
	case ScannerMomentum, ScannerGappers, ScannerLowFloat:
		return true
	}
	return false
}

// ScanResult is one ranked scanner hit. Results are derived per scan
// from cached quote and profile data and are never persisted as a unit.
type ScanResult struct {
	Symbol         string  `json:"symbol"`
	CompanyName    string  `json:"company_name"`
	Price          float64 `json:"price"`
	Change         float64 `json:"change"`
	PercentChange  float64 `json:"percent_change"`
	GapPercent     float64 `json:"gap_percent,omitempty"`
	Volume         int64   `json:"volume"`
	RelativeVolume float64 `json:"relative_volume"`
	Float          float64 `json:"float"`
	FloatTurnover  float64 `json:"float_turnover,omitempty"`
	MarketCap      float64 `json:"market_cap"`
	Score          float64 `json:"score"`
}

// ScanResponse is the full scanner payload returned to callers.
type ScanResponse struct {
	Scanner ScannerType  `json:"scanner"`
	Results []ScanResult `json:"results"`
	Meta    ScanMeta     `json:"meta"`
}

// ScanMeta carries execution details for a scan.
type ScanMeta struct {
	TotalMatched int       `json:"total_matched"`
	Returned     int       `json:"returned"`
	Limit        int       `json:"limit"`
	Cached       bool      `json:"cached"`
	ExecutedAt   time.Time `json:"executed_at"`
	QueryTimeMS  int64     `json:"query_time_ms"`
}
