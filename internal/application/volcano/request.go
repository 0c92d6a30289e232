// Package volcano contains the application service that runs the volcano
// pipeline per request: cache lookup, search and viewport filtering,
// categorization, zoom-scaled sampling, and memory-governed serialization.
package volcano

import (
	"fmt"

	apperrors "github.com/turtacn/viz-satellite/pkg/errors"
	"github.com/turtacn/viz-satellite/pkg/types/volcano"

	domain "github.com/turtacn/viz-satellite/internal/domain/volcano"
)

// Parameter bounds for the data endpoint.
const (
	MinDatasetSize = 100
	MaxDatasetSize = 1000000

	MinFoldChangeBound = -10.0
	MaxFoldChangeBound = 10.0

	MaxSearchTermLength = 100
)

// Request carries the validated parameters of one volcano-data request.
type Request struct {
	PValueThreshold float64
	LogFCMin        float64
	LogFCMax        float64
	SearchTerm      string
	DatasetSize     int
	MaxPoints       int
	Zoom            float64
	LODEnabled      bool
	Viewport        volcano.Viewport
}

// NewRequest returns a Request populated with the documented defaults.
func NewRequest(defaults DefaultParams) Request {
	return Request{
		PValueThreshold: defaults.PValueThreshold,
		LogFCMin:        defaults.LogFCMin,
		LogFCMax:        defaults.LogFCMax,
		DatasetSize:     defaults.DatasetSize,
		MaxPoints:       defaults.MaxPoints,
		Zoom:            1.0,
		LODEnabled:      true,
	}
}

// DefaultParams holds the configurable request defaults.
type DefaultParams struct {
	PValueThreshold float64
	LogFCMin        float64
	LogFCMax        float64
	DatasetSize     int
	MaxPoints       int
}

// Thresholds converts the request's significance parameters.
func (r Request) Thresholds() volcano.Thresholds {
	return volcano.Thresholds{
		PValue:        r.PValueThreshold,
		FoldChangeMin: r.LogFCMin,
		FoldChangeMax: r.LogFCMax,
	}
}

// Validate checks every parameter and reports all violations together, so a
// client with several bad fields learns about them in one round trip.
// Returns nil when the request is well formed.
func (r Request) Validate() error {
	var violations []apperrors.FieldViolation

	if r.PValueThreshold < 0 || r.PValueThreshold > 1 {
		violations = append(violations, apperrors.FieldViolation{
			Field:      "p_value_threshold",
			Constraint: "must be within [0, 1]",
			Value:      fmt.Sprintf("%g", r.PValueThreshold),
		})
	}
	if r.LogFCMin < MinFoldChangeBound || r.LogFCMin > MaxFoldChangeBound {
		violations = append(violations, apperrors.FieldViolation{
			Field:      "log_fc_min",
			Constraint: fmt.Sprintf("must be within [%g, %g]", MinFoldChangeBound, MaxFoldChangeBound),
			Value:      fmt.Sprintf("%g", r.LogFCMin),
		})
	}
	if r.LogFCMax < MinFoldChangeBound || r.LogFCMax > MaxFoldChangeBound {
		violations = append(violations, apperrors.FieldViolation{
			Field:      "log_fc_max",
			Constraint: fmt.Sprintf("must be within [%g, %g]", MinFoldChangeBound, MaxFoldChangeBound),
			Value:      fmt.Sprintf("%g", r.LogFCMax),
		})
	}
	if r.LogFCMin > r.LogFCMax {
		violations = append(violations, apperrors.FieldViolation{
			Field:      "log_fc_min",
			Constraint: "must not exceed log_fc_max",
			Value:      fmt.Sprintf("%g > %g", r.LogFCMin, r.LogFCMax),
		})
	}
	if len(r.SearchTerm) > MaxSearchTermLength {
		violations = append(violations, apperrors.FieldViolation{
			Field:      "search_term",
			Constraint: fmt.Sprintf("must be at most %d characters", MaxSearchTermLength),
			Value:      fmt.Sprintf("%d characters", len(r.SearchTerm)),
		})
	}
	if r.DatasetSize < MinDatasetSize || r.DatasetSize > MaxDatasetSize {
		violations = append(violations, apperrors.FieldViolation{
			Field:      "dataset_size",
			Constraint: fmt.Sprintf("must be within [%d, %d]", MinDatasetSize, MaxDatasetSize),
			Value:      fmt.Sprintf("%d", r.DatasetSize),
		})
	}
	if r.MaxPoints < 1 {
		violations = append(violations, apperrors.FieldViolation{
			Field:      "max_points",
			Constraint: "must be positive",
			Value:      fmt.Sprintf("%d", r.MaxPoints),
		})
	}
	if r.Zoom < domain.MinZoom || r.Zoom > domain.MaxZoom {
		violations = append(violations, apperrors.FieldViolation{
			Field:      "zoom_level",
			Constraint: fmt.Sprintf("must be within [%g, %g]", domain.MinZoom, domain.MaxZoom),
			Value:      fmt.Sprintf("%g", r.Zoom),
		})
	}
	for _, axis := range []struct {
		name string
		r    *volcano.AxisRange
	}{{"x", r.Viewport.X}, {"y", r.Viewport.Y}} {
		if axis.r != nil && axis.r.Min > axis.r.Max {
			violations = append(violations, apperrors.FieldViolation{
				Field:      axis.name + "_min",
				Constraint: "must not exceed " + axis.name + "_max",
				Value:      fmt.Sprintf("%g > %g", axis.r.Min, axis.r.Max),
			})
		}
	}

	if len(violations) == 0 {
		return nil
	}
	return apperrors.Validation(violations)
}
