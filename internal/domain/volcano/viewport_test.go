package volcano

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/viz-satellite/pkg/types/volcano"
)

func TestFilterViewportNoOpWithoutBothAxes(t *testing.T) {
	ds := volcano.Dataset{
		{Gene: "a", LogFC: -4, PAdj: 0.5},
		{Gene: "b", LogFC: 4, PAdj: 0.001},
	}

	assert.Equal(t, ds, FilterViewport(ds, volcano.Viewport{}))
	assert.Equal(t, ds, FilterViewport(ds, volcano.Viewport{
		X: &volcano.AxisRange{Min: -1, Max: 1},
	}))
	assert.Equal(t, ds, FilterViewport(ds, volcano.Viewport{
		Y: &volcano.AxisRange{Min: 0, Max: 3},
	}))
}

func TestFilterViewportKeepsMarginPoints(t *testing.T) {
	// x span [-2, 2] expands by 20% per side to [-2.8, 2.8]; y span [0, 3]
	// expands to [-0.6, 3.6].  padj 0.01 gives y = 2.
	vp := volcano.Viewport{
		X: &volcano.AxisRange{Min: -2, Max: 2},
		Y: &volcano.AxisRange{Min: 0, Max: 3},
	}
	ds := volcano.Dataset{
		{Gene: "inside", LogFC: 0, PAdj: 0.01},
		{Gene: "in margin", LogFC: 2.5, PAdj: 0.01},
		{Gene: "outside x", LogFC: 3.5, PAdj: 0.01},
		{Gene: "outside y", LogFC: 0, PAdj: 0.00001},
	}

	out := FilterViewport(ds, vp)

	require.Len(t, out, 2)
	assert.Equal(t, "inside", out[0].Gene)
	assert.Equal(t, "in margin", out[1].Gene)
}
