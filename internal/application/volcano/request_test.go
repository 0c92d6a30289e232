package volcano

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/turtacn/viz-satellite/pkg/errors"
	"github.com/turtacn/viz-satellite/pkg/types/volcano"
)

func testDefaults() DefaultParams {
	return DefaultParams{
		PValueThreshold: 0.05,
		LogFCMin:        -0.5,
		LogFCMax:        0.5,
		DatasetSize:     10000,
		MaxPoints:       2000,
	}
}

func TestNewRequestDefaults(t *testing.T) {
	req := NewRequest(testDefaults())

	require.NoError(t, req.Validate())
	assert.Equal(t, 0.05, req.PValueThreshold)
	assert.Equal(t, 10000, req.DatasetSize)
	assert.Equal(t, 1.0, req.Zoom)
	assert.True(t, req.LODEnabled)
}

func TestValidateSingleViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
		field  string
	}{
		{"threshold above one", func(r *Request) { r.PValueThreshold = 1.2 }, "p_value_threshold"},
		{"threshold negative", func(r *Request) { r.PValueThreshold = -0.1 }, "p_value_threshold"},
		{"fc min out of range", func(r *Request) { r.LogFCMin = -11 }, "log_fc_min"},
		{"fc max out of range", func(r *Request) { r.LogFCMax = 15 }, "log_fc_max"},
		{"inverted band", func(r *Request) { r.LogFCMin = 1; r.LogFCMax = -1 }, "log_fc_min"},
		{"search term too long", func(r *Request) { r.SearchTerm = strings.Repeat("a", 101) }, "search_term"},
		{"dataset too small", func(r *Request) { r.DatasetSize = 50 }, "dataset_size"},
		{"dataset too large", func(r *Request) { r.DatasetSize = 2000000 }, "dataset_size"},
		{"non-positive budget", func(r *Request) { r.MaxPoints = 0 }, "max_points"},
		{"zoom below floor", func(r *Request) { r.Zoom = 0.05 }, "zoom_level"},
		{"zoom above cap", func(r *Request) { r.Zoom = 150 }, "zoom_level"},
		{"inverted viewport axis", func(r *Request) {
			r.Viewport.X = &volcano.AxisRange{Min: 2, Max: -2}
		}, "x_min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewRequest(testDefaults())
			tt.mutate(&req)

			err := req.Validate()
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidateItemizesAllViolations(t *testing.T) {
	req := NewRequest(testDefaults())
	req.PValueThreshold = 2
	req.DatasetSize = 1
	req.Zoom = 0

	err := req.Validate()
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Len(t, appErr.Violations, 3)
}
