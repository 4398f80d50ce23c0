package handler

import (
	"net/http"
	"time"

	"stockroom/internal/service"

	"github.com/rs/zerolog"
)

// AnalyticsHandler handles analytics HTTP requests.
type AnalyticsHandler struct {
	service service.AnalyticsService
	logger  zerolog.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(service service.AnalyticsService, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger.With().Str("handler", "analytics").Logger(),
	}
}

// SalesSummary handles GET /api/analytics/sales requests. The from/to
// query parameters accept RFC 3339 timestamps or plain dates; both are
// optional.
func (h *AnalyticsHandler) SalesSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	from, err := parseTimeParam(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from parameter", h.logger)
		return
	}
	to, err := parseTimeParam(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to parameter", h.logger)
		return
	}

	summary, err := h.service.SalesSummary(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, err, "failed to compute sales summary", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func parseTimeParam(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
