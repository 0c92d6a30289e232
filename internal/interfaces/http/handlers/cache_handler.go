package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/turtacn/viz-satellite/pkg/errors"

	appvolcano "github.com/turtacn/viz-satellite/internal/application/volcano"
	"github.com/turtacn/viz-satellite/internal/infrastructure/monitoring/logging"
)

// CacheHandler serves the cache management endpoints.
type CacheHandler struct {
	service *appvolcano.Service
	logger  logging.Logger
}

// NewCacheHandler creates a CacheHandler.
func NewCacheHandler(service *appvolcano.Service, logger logging.Logger) *CacheHandler {
	return &CacheHandler{service: service, logger: logger.Named("cache")}
}

// Status handles GET /api/cache/status.
func (h *CacheHandler) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.service.CacheStatus())
}

type warmRequest struct {
	Sizes []int `json:"sizes"`
}

// Warm handles POST /api/cache/warm.
func (h *CacheHandler) Warm(w http.ResponseWriter, r *http.Request) {
	var body warmRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeAppError(w, apperrors.InvalidParam("request body must be valid JSON"))
		return
	}
	if len(body.Sizes) == 0 {
		writeAppError(w, apperrors.InvalidParam("sizes must be a non-empty list"))
		return
	}

	report := h.service.Warm(r.Context(), body.Sizes)
	writeJSON(w, http.StatusOK, report)
}

type clearResponse struct {
	Removed int `json:"removed"`
}

// Clear handles POST /api/cache/clear.
func (h *CacheHandler) Clear(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, clearResponse{Removed: h.service.ClearCache()})
}
