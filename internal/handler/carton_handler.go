package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"stockroom/internal/model"
	"stockroom/internal/repository"
	"stockroom/internal/service"

	"github.com/rs/zerolog"
)

// CartonHandler handles carton-related HTTP requests.
type CartonHandler struct {
	service service.CartonService
	logger  zerolog.Logger
}

// NewCartonHandler creates a new carton handler.
func NewCartonHandler(service service.CartonService, logger zerolog.Logger) *CartonHandler {
	return &CartonHandler{
		service: service,
		logger:  logger.With().Str("handler", "carton").Logger(),
	}
}

// List handles GET /api/cartons requests. Supported filters: productId,
// status, open, withUnits.
func (h *CartonHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var filter repository.CartonFilter
	q := r.URL.Query()

	if v := q.Get("productId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid productId parameter", h.logger)
			return
		}
		filter.ProductID = id
	}
	if v := q.Get("status"); v != "" {
		status := model.CartonStatus(v)
		if !status.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid status parameter", h.logger)
			return
		}
		filter.Status = status
	}
	filter.OpenOnly = q.Get("open") == "true"
	filter.WithUnits = q.Get("withUnits") == "true"

	cartons, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve cartons", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cartons)
}

// GetByID handles GET /api/cartons/{id} requests.
func (h *CartonHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	id, err := pathID(r.URL.Path, "/api/cartons/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid carton ID", h.logger)
		return
	}

	carton, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve carton", h.logger)
		return
	}
	if carton == nil {
		writeError(w, http.StatusNotFound, "carton not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, carton)
}

// Intake handles POST /api/cartons requests recording a received carton.
func (h *CartonHandler) Intake(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.CartonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	carton, err := h.service.Intake(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to record carton", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, carton)
}

// Open handles POST /api/cartons/{id}/open requests, making the carton
// available for loose-unit sales.
func (h *CartonHandler) Open(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	id, err := pathID(r.URL.Path, "/api/cartons/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid carton ID", h.logger)
		return
	}

	carton, err := h.service.Open(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to open carton", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, carton)
}

// SetStatus handles PUT /api/cartons/{id}/status requests.
func (h *CartonHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	id, err := pathID(r.URL.Path, "/api/cartons/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid carton ID", h.logger)
		return
	}

	var req struct {
		Status model.CartonStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	carton, err := h.service.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(w, err, "failed to update carton status", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, carton)
}

// Delete handles DELETE /api/cartons/{id} requests.
func (h *CartonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	id, err := pathID(r.URL.Path, "/api/cartons/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid carton ID", h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "failed to delete carton", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
