package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"stockroom/internal/model"

	"github.com/rs/zerolog"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps service errors onto HTTP status codes. Anything
// unrecognized becomes a 500 with the fallback message so internals stay
// out of responses.
func writeServiceError(w http.ResponseWriter, err error, fallback string, logger zerolog.Logger) {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, validationErr.Error(), logger)
		return
	}

	var stockErr *model.InsufficientStockError
	if errors.As(err, &stockErr) {
		writeError(w, http.StatusConflict, stockErr.Error(), logger)
		return
	}

	switch {
	case errors.Is(err, model.ErrProductNotFound),
		errors.Is(err, model.ErrCartonNotFound),
		errors.Is(err, model.ErrSupplierNotFound),
		errors.Is(err, model.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, err.Error(), logger)
	case errors.Is(err, model.ErrNoCandidates),
		errors.Is(err, model.ErrCartonNotEligible):
		writeError(w, http.StatusConflict, err.Error(), logger)
	case errors.Is(err, model.ErrInsufficientStock):
		writeError(w, http.StatusConflict, err.Error(), logger)
	case errors.Is(err, model.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error(), logger)
	default:
		logger.Error().Err(err).Msg(fallback)
		writeError(w, http.StatusInternalServerError, fallback, logger)
	}
}

// pathID extracts the numeric ID that follows prefix in the request path.
// A trailing sub-resource segment ("/4/open") is tolerated and ignored.
func pathID(path, prefix string) (int64, error) {
	if !strings.HasPrefix(path, prefix) {
		return 0, errors.New("missing ID")
	}
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		rest = rest[:idx]
	}
	if rest == "" {
		return 0, errors.New("missing ID")
	}
	return strconv.ParseInt(rest, 10, 64)
}

// parsePagination reads limit/offset query parameters with defaults.
func parsePagination(r *http.Request) (int, int, error) {
	limit := 20
	offset := 0

	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, errors.New("invalid limit parameter")
		}
		limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, errors.New("invalid offset parameter")
		}
		offset = n
	}
	return limit, offset, nil
}
