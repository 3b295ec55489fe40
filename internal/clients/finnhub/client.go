// Package finnhub provides a client for the Finnhub market-data API
package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/grimmtrading/marketcore/internal/common"
	"github.com/grimmtrading/marketcore/internal/interfaces"
	"github.com/grimmtrading/marketcore/internal/models"
)

const (
	DefaultBaseURL     = "https://finnhub.io/api/v1"
	DefaultTimeout     = 30 * time.Second
	DefaultMinInterval = 500 * time.Millisecond
)

// Client implements the MarketDataClient interface. A single limiter
// enforces the minimum inter-request delay per client instance, so
// batch operations pay the serial cost unless the caller parallelizes
// above a shared client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
	now        func() time.Time // injectable clock for testing
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMinInterval sets the minimum delay between upstream requests
func WithMinInterval(interval time.Duration) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Finnhub client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(DefaultMinInterval), 1),
		logger:  common.NewSilentLogger(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an upstream API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("finnhub API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// IsRateLimited reports whether the error is an upstream 429.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// get performs a rate-limited, token-authenticated GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("token", c.apiKey)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("endpoint", path).Msg("Finnhub API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// quoteResponse is the upstream quote wire format.
type quoteResponse struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	PercentChange float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Volume        int64   `json:"v"`
}

// GetQuote retrieves a real-time quote for a symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = strings.ToUpper(symbol)

	params := url.Values{}
	params.Set("symbol", symbol)

	var resp quoteResponse
	if err := c.get(ctx, "/quote", params, &resp); err != nil {
		return nil, err
	}

	// A zero current price means the upstream had nothing for the symbol.
	if resp.Current == 0 {
		return nil, nil
	}

	return &models.Quote{
		Symbol:        symbol,
		CurrentPrice:  resp.Current,
		Change:        resp.Change,
		PercentChange: resp.PercentChange,
		High:          resp.High,
		Low:           resp.Low,
		Open:          resp.Open,
		PreviousClose: resp.PreviousClose,
		Volume:        resp.Volume,
		FetchedAt:     c.now().Unix(),
	}, nil
}

// profileResponse is the upstream profile wire format.
type profileResponse struct {
	Name              string  `json:"name"`
	Ticker            string  `json:"ticker"`
	Exchange          string  `json:"exchange"`
	Industry          string  `json:"finnhubIndustry"`
	MarketCap         float64 `json:"marketCapitalization"`
	SharesOutstanding float64 `json:"shareOutstanding"`
	Country           string  `json:"country"`
	Currency          string  `json:"currency"`
	Logo              string  `json:"logo"`
	WebURL            string  `json:"weburl"`
	IPODate           string  `json:"ipo"`
}

// GetCompanyProfile retrieves company reference data. Shares
// outstanding doubles as the float proxy; the upstream does not report
// free float on this endpoint.
func (c *Client) GetCompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	symbol = strings.ToUpper(symbol)

	params := url.Values{}
	params.Set("symbol", symbol)

	var resp profileResponse
	if err := c.get(ctx, "/stock/profile2", params, &resp); err != nil {
		return nil, err
	}

	if resp.Name == "" && resp.SharesOutstanding == 0 {
		return nil, nil
	}

	ticker := resp.Ticker
	if ticker == "" {
		ticker = symbol
	}
	currency := resp.Currency
	if currency == "" {
		currency = "USD"
	}

	return &models.CompanyProfile{
		Symbol:            symbol,
		Name:              resp.Name,
		Ticker:            ticker,
		Exchange:          resp.Exchange,
		Industry:          resp.Industry,
		MarketCap:         resp.MarketCap,
		SharesOutstanding: resp.SharesOutstanding,
		Float:             resp.SharesOutstanding,
		Country:           resp.Country,
		Currency:          currency,
		Logo:              resp.Logo,
		WebURL:            resp.WebURL,
		IPODate:           resp.IPODate,
	}, nil
}

// candleResponse is the upstream candle wire format.
type candleResponse struct {
	Status     string    `json:"s"`
	Timestamps []int64   `json:"t"`
	Open       []float64 `json:"o"`
	High       []float64 `json:"h"`
	Low        []float64 `json:"l"`
	Close      []float64 `json:"c"`
	Volume     []int64   `json:"v"`
}

// GetCandles retrieves historical OHLCV bars. When previous is true the
// window ends at the prior business day (weekends skipped), so callers
// can chart the last completed session outside market hours.
func (c *Client) GetCandles(ctx context.Context, symbol, resolution string, daysBack int, previous bool) (*models.Candles, error) {
	symbol = strings.ToUpper(symbol)

	end := c.now()
	if previous {
		end = endOfDay(previousBusinessDay(end))
	}
	start := end.AddDate(0, 0, -daysBack)

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("resolution", resolution)
	params.Set("from", strconv.FormatInt(start.Unix(), 10))
	params.Set("to", strconv.FormatInt(end.Unix(), 10))

	var resp candleResponse
	if err := c.get(ctx, "/stock/candle", params, &resp); err != nil {
		return nil, err
	}

	if resp.Status != "ok" || len(resp.Timestamps) == 0 {
		return nil, nil
	}

	return &models.Candles{
		Symbol:     symbol,
		Resolution: resolution,
		Timestamps: resp.Timestamps,
		Open:       resp.Open,
		High:       resp.High,
		Low:        resp.Low,
		Close:      resp.Close,
		Volume:     resp.Volume,
	}, nil
}

// newsItemResponse is the upstream news wire format.
type newsItemResponse struct {
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

func (n newsItemResponse) toModel() models.NewsItem {
	return models.NewsItem{
		ID:       n.ID,
		Headline: n.Headline,
		Summary:  n.Summary,
		Source:   n.Source,
		URL:      n.URL,
		Image:    n.Image,
		Datetime: n.Datetime,
		Category: n.Category,
		Related:  n.Related,
	}
}

// GetMarketNews retrieves general market news for a category.
func (c *Client) GetMarketNews(ctx context.Context, category string, minID int64) ([]models.NewsItem, error) {
	if category == "" {
		category = "general"
	}

	params := url.Values{}
	params.Set("category", category)
	params.Set("minId", strconv.FormatInt(minID, 10))

	var resp []newsItemResponse
	if err := c.get(ctx, "/news", params, &resp); err != nil {
		return nil, err
	}

	news := make([]models.NewsItem, len(resp))
	for i, item := range resp {
		news[i] = item.toModel()
	}
	return news, nil
}

// GetCompanyNews retrieves company-specific news over a trailing window.
func (c *Client) GetCompanyNews(ctx context.Context, symbol string, daysBack int) ([]models.NewsItem, error) {
	symbol = strings.ToUpper(symbol)

	end := c.now()
	start := end.AddDate(0, 0, -daysBack)

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("from", start.Format("2006-01-02"))
	params.Set("to", end.Format("2006-01-02"))

	var resp []newsItemResponse
	if err := c.get(ctx, "/company-news", params, &resp); err != nil {
		return nil, err
	}

	news := make([]models.NewsItem, len(resp))
	for i, item := range resp {
		news[i] = item.toModel()
	}
	return news, nil
}

// searchResponse is the upstream symbol-search wire format.
type searchResponse struct {
	Count  int `json:"count"`
	Result []struct {
		Symbol        string `json:"symbol"`
		Description   string `json:"description"`
		DisplaySymbol string `json:"displaySymbol"`
		Type          string `json:"type"`
	} `json:"result"`
}

// SearchSymbols searches for symbols matching a free-text query.
func (c *Client) SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	params := url.Values{}
	params.Set("q", query)

	var resp searchResponse
	if err := c.get(ctx, "/search", params, &resp); err != nil {
		return nil, err
	}

	matches := make([]models.SymbolMatch, len(resp.Result))
	for i, item := range resp.Result {
		matches[i] = models.SymbolMatch{
			Symbol:        item.Symbol,
			Description:   item.Description,
			DisplaySymbol: item.DisplaySymbol,
			Type:          item.Type,
		}
	}
	return matches, nil
}

// easternLocation is the US market timezone, handling EST/EDT.
var easternLocation = mustLoadLocation("America/New_York")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// Fallback to EST fixed zone if tzdata is unavailable (e.g., minimal container)
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}

// GetMarketStatus reports whether an exchange is currently trading.
// The upstream has no status endpoint on the free tier, so US status is
// derived from the regular session clock: 09:30-16:00 ET, Monday-Friday.
func (c *Client) GetMarketStatus(_ context.Context, exchange string) (*models.MarketStatus, error) {
	if exchange == "" {
		exchange = "US"
	}
	exchange = strings.ToUpper(exchange)

	if exchange != "US" {
		return &models.MarketStatus{Exchange: exchange, IsOpen: false, Session: "unknown"}, nil
	}

	now := c.now().In(easternLocation)
	weekday := now.Weekday()
	tradingDay := weekday != time.Saturday && weekday != time.Sunday

	hour, min, _ := now.Clock()
	minuteOfDay := hour*60 + min
	// 09:30 = 570, 16:00 = 960
	tradingHours := minuteOfDay >= 570 && minuteOfDay < 960

	session := "closed"
	if tradingDay && tradingHours {
		session = "market"
	}

	return &models.MarketStatus{
		Exchange:  exchange,
		IsOpen:    tradingDay && tradingHours,
		Session:   session,
		Timezone:  "America/New_York",
		LocalTime: now.Format(time.RFC3339),
	}, nil
}

// previousBusinessDay returns the most recent weekday strictly before t.
func previousBusinessDay(t time.Time) time.Time {
	d := t.AddDate(0, 0, -1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// endOfDay returns the last second of t's calendar day.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// Ensure Client implements MarketDataClient
var _ interfaces.MarketDataClient = (*Client)(nil)
