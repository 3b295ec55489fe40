package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/grimmtrading/marketcore/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Market data
	mux.HandleFunc("/api/market/quote/", s.handleMarketQuote)
	mux.HandleFunc("/api/market/profile/", s.handleMarketProfile)
	mux.HandleFunc("/api/market/candles/", s.handleMarketCandles)
	mux.HandleFunc("/api/market/news/", s.handleCompanyNews)
	mux.HandleFunc("/api/market/news", s.handleMarketNews)
	mux.HandleFunc("/api/market/search", s.handleSymbolSearch)
	mux.HandleFunc("/api/market/status", s.handleMarketStatus)
	mux.HandleFunc("/api/market/batch/quotes", s.handleBatchQuotes)

	// Scanners
	mux.HandleFunc("/api/scanners/", s.handleScan)

	// Cache management
	mux.HandleFunc("/api/cache/stats", s.handleCacheStats)
	mux.HandleFunc("/api/cache/clear/symbol/", s.handleCacheClearSymbol)
	mux.HandleFunc("/api/cache/clear", s.handleCacheClear)
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	stats := s.app.Market.CacheStats(r.Context())
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"version":       common.GetVersion(),
		"cache_backend": stats.Stats.Backend,
		"degraded":      stats.Stats.Degraded,
		"time":          time.Now().UTC().Format(time.RFC3339),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version":    common.GetVersion(),
		"full":       common.GetFullVersion(),
		"go_version": runtime.Version(),
	})
}
