package handler

import (
	"encoding/json"
	"net/http"

	"stockroom/internal/model"
	"stockroom/internal/service"

	"github.com/rs/zerolog"
)

// SupplierHandler handles supplier-related HTTP requests.
type SupplierHandler struct {
	service service.SupplierService
	logger  zerolog.Logger
}

// NewSupplierHandler creates a new supplier handler.
func NewSupplierHandler(service service.SupplierService, logger zerolog.Logger) *SupplierHandler {
	return &SupplierHandler{
		service: service,
		logger:  logger.With().Str("handler", "supplier").Logger(),
	}
}

// List handles GET /api/suppliers requests with pagination.
func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	suppliers, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve suppliers", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, suppliers)
}

// GetByID handles GET /api/suppliers/{id} requests.
func (h *SupplierHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	id, err := pathID(r.URL.Path, "/api/suppliers/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid supplier ID", h.logger)
		return
	}

	supplier, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve supplier", h.logger)
		return
	}
	if supplier == nil {
		writeError(w, http.StatusNotFound, "supplier not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, supplier)
}

// Create handles POST /api/suppliers requests.
func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.SupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	supplier, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to create supplier", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, supplier)
}

// Update handles PUT /api/suppliers/{id} requests.
func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	id, err := pathID(r.URL.Path, "/api/suppliers/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid supplier ID", h.logger)
		return
	}

	var req model.SupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	supplier, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err, "failed to update supplier", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, supplier)
}

// Delete handles DELETE /api/suppliers/{id} requests.
func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	id, err := pathID(r.URL.Path, "/api/suppliers/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid supplier ID", h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "failed to delete supplier", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
