// Package models defines the data structures for marketcore
package models

// Quote is a point-in-time snapshot of a symbol's trading state.
// Quotes are immutable once fetched; a newer fetch supersedes rather
// than mutates an older one.
type Quote struct {
	Symbol        string  `json:"symbol"`
	CurrentPrice  float64 `json:"current_price"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percent_change"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	PreviousClose float64 `json:"previous_close"`
	Volume        int64   `json:"volume"`
	FetchedAt     int64   `json:"timestamp"` // unix seconds
}

// IsZero reports whether the quote carries no usable data.
func (q *Quote) IsZero() bool {
	return q == nil || q.Symbol == "" || q.CurrentPrice == 0
}

// GapPercent returns the percentage difference between the current
// price and the previous session's close. Zero previous close yields 0.
func (q *Quote) GapPercent() float64 {
	if q == nil || q.PreviousClose == 0 {
		return 0
	}
	return ((q.CurrentPrice - q.PreviousClose) / q.PreviousClose) * 100
}

// CompanyProfile holds slow-changing company reference data.
// SharesOutstanding doubles as the float proxy when the upstream does
// not report free float separately.
type CompanyProfile struct {
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Ticker            string  `json:"ticker"`
	Exchange          string  `json:"exchange"`
	Industry          string  `json:"industry"`
	MarketCap         float64 `json:"market_cap"`
	SharesOutstanding float64 `json:"shares_outstanding"`
	Float             float64 `json:"float"`
	Country           string  `json:"country"`
	Currency          string  `json:"currency"`
	Logo              string  `json:"logo"`
	WebURL            string  `json:"weburl"`
	IPODate           string  `json:"ipo_date"`
}

// IsZero reports whether the profile carries no usable data.
func (p *CompanyProfile) IsZero() bool {
	return p == nil || (p.Name == "" && p.SharesOutstanding == 0)
}

// Candles holds historical OHLCV bars in parallel arrays, matching the
// upstream wire shape that charting frontends consume directly.
type Candles struct {
	Symbol     string    `json:"symbol"`
	Resolution string    `json:"resolution"`
	Timestamps []int64   `json:"t"`
	Open       []float64 `json:"o"`
	High       []float64 `json:"h"`
	Low        []float64 `json:"l"`
	Close      []float64 `json:"c"`
	Volume     []int64   `json:"v"`
}

// IsZero reports whether the candle series is empty.
func (c *Candles) IsZero() bool {
	return c == nil || len(c.Timestamps) == 0
}

// AverageVolume returns the mean volume of the most recent n bars,
// or of all bars when fewer are available. Empty series yields 0.
func (c *Candles) AverageVolume(n int) float64 {
	if c == nil || len(c.Volume) == 0 || n <= 0 {
		return 0
	}
	if n > len(c.Volume) {
		n = len(c.Volume)
	}
	var total int64
	// Bars are oldest-first; average over the trailing window.
	for _, v := range c.Volume[len(c.Volume)-n:] {
		total += v
	}
	return float64(total) / float64(n)
}

// NewsItem is a single market or company news article.
type NewsItem struct {
	ID       int64  `json:"id"`
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
	URL      string `json:"url"`
	Image    string `json:"image"`
	Datetime int64  `json:"datetime"`
	Category string `json:"category"`
	Related  string `json:"related"`
}

// SymbolMatch is a single symbol-search result.
type SymbolMatch struct {
	Symbol        string `json:"symbol"`
	Description   string `json:"description"`
	DisplaySymbol string `json:"display_symbol"`
	Type          string `json:"type"`
}

// MarketStatus describes whether an exchange is currently trading.
type MarketStatus struct {
	Exchange  string `json:"exchange"`
	IsOpen    bool   `json:"is_open"`
	Session   string `json:"session"`
	Timezone  string `json:"timezone"`
	LocalTime string `json:"local_time"`
}
