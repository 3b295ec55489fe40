package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/grimmtrading/marketcore/internal/models"
	"github.com/grimmtrading/marketcore/internal/services/scanner"
)

// scannerPaths maps URL path segments to scanner variants.
var scannerPaths = map[string]models.ScannerType{
	"momentum": models.ScannerMomentum,
	"gappers":  models.ScannerGappers,
	"lowfloat": models.ScannerLowFloat,
}

// handleScan handles GET /api/scanners/{momentum|gappers|lowfloat}.
//
// The caller's subscription tier arrives in the X-User-Tier header,
// resolved upstream by the API gateway. An absent or unknown tier is
// treated as free. The tier caps how many results are returned; an
// explicit limit query param may only narrow that cap.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/api/scanners/")
	scannerType, ok := scannerPaths[name]
	if !ok {
		WriteError(w, http.StatusNotFound, "Unknown scanner: "+name)
		return
	}

	tier := models.ParseTier(r.Header.Get("X-User-Tier"))
	limit := models.ScanLimit(tier, scannerType)
	if limit == 0 {
		WriteErrorWithCode(w, http.StatusForbidden,
			"This scanner requires a premium subscription", "upgrade_required")
		return
	}

	if requested := queryInt(r, "limit", 0); requested > 0 && requested < limit {
		limit = requested
	}

	resp, err := s.app.Scanner.Scan(r.Context(), scannerType, limit)
	if err != nil {
		switch {
		case errors.Is(err, scanner.ErrUnknownScanner), errors.Is(err, scanner.ErrInvalidLimit):
			WriteError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error().Err(err).Str("scanner", name).Msg("Scan failed")
			WriteError(w, http.StatusInternalServerError, "Scan failed")
		}
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}
