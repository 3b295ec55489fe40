package server

import "net/http"

// handleCacheStats handles GET /api/cache/stats.
func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, s.app.Market.CacheStats(r.Context()))
}

// handleCacheClearSymbol handles DELETE /api/cache/clear/symbol/{symbol}.
func (s *Server) handleCacheClearSymbol(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	symbol := PathParam(r, "/api/cache/clear/symbol/", "")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	removed := s.app.Market.ClearSymbol(r.Context(), symbol)
	s.logger.Info().Str("symbol", symbol).Int("removed", removed).Msg("Cleared symbol cache")

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":  symbol,
		"removed": removed,
	})
}

// cacheClearRequest is the POST body for /api/cache/clear.
type cacheClearRequest struct {
	Pattern string `json:"pattern"`
}

// handleCacheClear handles POST /api/cache/clear with a glob pattern.
func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req cacheClearRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Pattern == "" {
		WriteError(w, http.StatusBadRequest, "Pattern is required")
		return
	}

	removed := s.app.Cache.ClearPattern(r.Context(), req.Pattern)
	s.logger.Info().Str("pattern", req.Pattern).Int("removed", removed).Msg("Cleared cache pattern")

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"pattern": req.Pattern,
		"removed": removed,
	})
}
