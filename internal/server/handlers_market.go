package server

import (
	"net/http"
	"strings"
)

// maxBatchSymbols bounds the batch quote request size.
const maxBatchSymbols = 50

// handleMarketQuote handles GET /api/market/quote/{symbol}.
func (s *Server) handleMarketQuote(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/market/quote/", "")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	quote, err := s.app.Market.GetQuote(r.Context(), symbol)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if quote == nil {
		WriteError(w, http.StatusNotFound, "No quote data for "+strings.ToUpper(symbol))
		return
	}

	WriteJSON(w, http.StatusOK, quote)
}

// handleMarketProfile handles GET /api/market/profile/{symbol}.
func (s *Server) handleMarketProfile(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/market/profile/", "")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	profile, err := s.app.Market.GetProfile(r.Context(), symbol)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if profile == nil {
		WriteError(w, http.StatusNotFound, "No profile data for "+strings.ToUpper(symbol))
		return
	}

	WriteJSON(w, http.StatusOK, profile)
}

// handleMarketCandles handles GET /api/market/candles/{symbol}.
// Query params: resolution (default D), days (default 30), previous.
func (s *Server) handleMarketCandles(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/market/candles/", "")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	resolution := r.URL.Query().Get("resolution")
	if resolution == "" {
		resolution = "D"
	}
	days := queryInt(r, "days", 30)
	previous := r.URL.Query().Get("previous") == "true"

	candles, err := s.app.Market.GetCandles(r.Context(), symbol, resolution, days, previous)
	if err != nil {
		// The only propagated failure is invalid caller input.
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if candles == nil {
		WriteError(w, http.StatusNotFound, "No candle data for "+strings.ToUpper(symbol))
		return
	}

	WriteJSON(w, http.StatusOK, candles)
}

// handleMarketNews handles GET /api/market/news.
// Query params: category (default general), min_id.
func (s *Server) handleMarketNews(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	category := r.URL.Query().Get("category")
	minID := queryInt64(r, "min_id", 0)

	news, err := s.app.Market.GetMarketNews(r.Context(), category, minID)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, news)
}

// handleCompanyNews handles GET /api/market/news/{symbol}.
// Query params: days (default 7).
func (s *Server) handleCompanyNews(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/market/news/", "")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	days := queryInt(r, "days", 7)

	news, err := s.app.Market.GetCompanyNews(r.Context(), symbol, days)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, news)
}

// handleSymbolSearch handles GET /api/market/search?q=query.
func (s *Server) handleSymbolSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query().Get("q")
	matches, err := s.app.Market.SearchSymbols(r.Context(), query)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, matches)
}

// handleMarketStatus handles GET /api/market/status.
// Query params: exchange (default US).
func (s *Server) handleMarketStatus(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	exchange := r.URL.Query().Get("exchange")
	status, err := s.app.Market.GetMarketStatus(r.Context(), exchange)
	if err != nil || status == nil {
		WriteError(w, http.StatusServiceUnavailable, "Market status unavailable")
		return
	}

	WriteJSON(w, http.StatusOK, status)
}

// batchQuotesRequest is the POST body for /api/market/batch/quotes.
type batchQuotesRequest struct {
	Symbols []string `json:"symbols"`
}

// handleBatchQuotes handles POST /api/market/batch/quotes.
func (s *Server) handleBatchQuotes(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req batchQuotesRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if len(req.Symbols) == 0 {
		WriteError(w, http.StatusBadRequest, "At least one symbol is required")
		return
	}
	if len(req.Symbols) > maxBatchSymbols {
		WriteError(w, http.StatusBadRequest, "Too many symbols; maximum is 50")
		return
	}

	quotes, err := s.app.Market.GetBatchQuotes(r.Context(), req.Symbols)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, quotes)
}
