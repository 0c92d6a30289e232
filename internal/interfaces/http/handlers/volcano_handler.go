package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/turtacn/viz-satellite/pkg/errors"
	"github.com/turtacn/viz-satellite/pkg/types/volcano"

	appvolcano "github.com/turtacn/viz-satellite/internal/application/volcano"
	"github.com/turtacn/viz-satellite/internal/infrastructure/monitoring/logging"
)

// VolcanoHandler serves the volcano-data endpoint in both GET (query
// parameters) and POST (JSON body) forms.
type VolcanoHandler struct {
	service  *appvolcano.Service
	defaults appvolcano.DefaultParams
	logger   logging.Logger
}

// NewVolcanoHandler creates a VolcanoHandler.
func NewVolcanoHandler(service *appvolcano.Service, defaults appvolcano.DefaultParams, logger logging.Logger) *VolcanoHandler {
	return &VolcanoHandler{service: service, defaults: defaults, logger: logger.Named("volcano")}
}

// volcanoRequestBody is the POST body shape.  Pointer fields distinguish
// "absent, use the default" from an explicit zero.
type volcanoRequestBody struct {
	PValueThreshold *float64 `json:"p_value_threshold"`
	LogFCMin        *float64 `json:"log_fc_min"`
	LogFCMax        *float64 `json:"log_fc_max"`
	SearchTerm      string   `json:"search_term"`
	DatasetSize     *int     `json:"dataset_size"`
	MaxPoints       *int     `json:"max_points"`
	ZoomLevel       *float64 `json:"zoom_level"`
	LODMode         *bool    `json:"lod_mode"`
	XMin            *float64 `json:"x_min"`
	XMax            *float64 `json:"x_max"`
	YMin            *float64 `json:"y_min"`
	YMax            *float64 `json:"y_max"`
}

// Get handles GET /api/volcano-data.
func (h *VolcanoHandler) Get(w http.ResponseWriter, r *http.Request) {
	var violations []apperrors.FieldViolation
	req := appvolcano.NewRequest(h.defaults)

	req.PValueThreshold = queryFloat(r, "p_value_threshold", req.PValueThreshold, &violations)
	req.LogFCMin = queryFloat(r, "log_fc_min", req.LogFCMin, &violations)
	req.LogFCMax = queryFloat(r, "log_fc_max", req.LogFCMax, &violations)
	req.SearchTerm = r.URL.Query().Get("search_term")
	req.DatasetSize = queryInt(r, "dataset_size", req.DatasetSize, &violations)
	req.MaxPoints = queryInt(r, "max_points", req.MaxPoints, &violations)
	req.Zoom = queryFloat(r, "zoom_level", req.Zoom, &violations)
	req.LODEnabled = queryBool(r, "lod_mode", req.LODEnabled, &violations)
	req.Viewport = viewportFromBounds(
		queryFloatPtr(r, "x_min", &violations), queryFloatPtr(r, "x_max", &violations),
		queryFloatPtr(r, "y_min", &violations), queryFloatPtr(r, "y_max", &violations))

	if len(violations) > 0 {
		writeAppError(w, apperrors.Validation(violations))
		return
	}
	h.process(w, r, req)
}

// Post handles POST /api/volcano-data.
func (h *VolcanoHandler) Post(w http.ResponseWriter, r *http.Request) {
	var body volcanoRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeAppError(w, apperrors.InvalidParam("request body must be valid JSON"))
		return
	}

	req := appvolcano.NewRequest(h.defaults)
	if body.PValueThreshold != nil {
		req.PValueThreshold = *body.PValueThreshold
	}
	if body.LogFCMin != nil {
		req.LogFCMin = *body.LogFCMin
	}
	if body.LogFCMax != nil {
		req.LogFCMax = *body.LogFCMax
	}
	req.SearchTerm = body.SearchTerm
	if body.DatasetSize != nil {
		req.DatasetSize = *body.DatasetSize
	}
	if body.MaxPoints != nil {
		req.MaxPoints = *body.MaxPoints
	}
	if body.ZoomLevel != nil {
		req.Zoom = *body.ZoomLevel
	}
	if body.LODMode != nil {
		req.LODEnabled = *body.LODMode
	}
	req.Viewport = viewportFromBounds(body.XMin, body.XMax, body.YMin, body.YMax)

	h.process(w, r, req)
}

func (h *VolcanoHandler) process(w http.ResponseWriter, r *http.Request, req appvolcano.Request) {
	resp, err := h.service.Process(r.Context(), req)
	if err != nil {
		h.logger.Warn("volcano request failed", logging.Err(err))
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// viewportFromBounds assembles a Viewport from the optional axis bounds.  An
// axis counts as present only when both its bounds are.
func viewportFromBounds(xMin, xMax, yMin, yMax *float64) volcano.Viewport {
	var vp volcano.Viewport
	if xMin != nil && xMax != nil {
		vp.X = &volcano.AxisRange{Min: *xMin, Max: *xMax}
	}
	if yMin != nil && yMax != nil {
		vp.Y = &volcano.AxisRange{Min: *yMin, Max: *yMax}
	}
	return vp
}
