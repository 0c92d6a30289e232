// Package handlers implements the HTTP endpoints of the volcano-plot API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	apperrors "github.com/turtacn/viz-satellite/pkg/errors"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error body.  Violations itemizes every
// failed constraint on validation errors; Stage names the failed pipeline
// stage on processing errors.
type ErrorResponse struct {
	Code       string           `json:"code"`
	Message    string           `json:"message"`
	Stage      string           `json:"stage,omitempty"`
	Violations []FieldViolation `json:"violations,omitempty"`
}

// FieldViolation mirrors one violated parameter constraint on the wire.
type FieldViolation struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Value      string `json:"value,omitempty"`
}

// writeAppError maps an application error to its HTTP status and structured
// body.  Unknown errors are masked as a generic internal failure so no
// implementation detail leaks to clients.
func writeAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Code:    string(apperrors.ErrCodeInternal),
			Message: "internal server error",
		})
		return
	}

	resp := ErrorResponse{
		Code:    string(appErr.Code),
		Message: appErr.Message,
		Stage:   appErr.Stage,
	}
	for _, v := range appErr.Violations {
		resp.Violations = append(resp.Violations, FieldViolation{
			Field:      v.Field,
			Constraint: v.Constraint,
			Value:      v.Value,
		})
	}
	writeJSON(w, apperrors.HTTPStatusForCode(appErr.Code), resp)
}

// queryFloat parses a float query parameter, falling back to def when the
// parameter is absent.  A malformed value is collected into violations.
func queryFloat(r *http.Request, name string, def float64, violations *[]apperrors.FieldViolation) float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*violations = append(*violations, apperrors.FieldViolation{
			Field: name, Constraint: "must be a number", Value: raw,
		})
		return def
	}
	return v
}

// queryInt parses an integer query parameter with the same conventions as
// queryFloat.
func queryInt(r *http.Request, name string, def int, violations *[]apperrors.FieldViolation) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*violations = append(*violations, apperrors.FieldViolation{
			Field: name, Constraint: "must be an integer", Value: raw,
		})
		return def
	}
	return v
}

// queryBool parses a boolean query parameter.
func queryBool(r *http.Request, name string, def bool, violations *[]apperrors.FieldViolation) bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*violations = append(*violations, apperrors.FieldViolation{
			Field: name, Constraint: "must be a boolean", Value: raw,
		})
		return def
	}
	return v
}

// queryFloatPtr parses an optional float parameter, returning nil when
// absent.
func queryFloatPtr(r *http.Request, name string, violations *[]apperrors.FieldViolation) *float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*violations = append(*violations, apperrors.FieldViolation{
			Field: name, Constraint: "must be a number", Value: raw,
		})
		return nil
	}
	return &v
}
