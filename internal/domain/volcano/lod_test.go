package volcano

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLODBudget(t *testing.T) {
	// z^1.5 at z=1 is 1, at z=4 is 8.
	assert.Equal(t, 2000, LODBudget(1, 2000))
	assert.Equal(t, 16000, LODBudget(4, 2000))

	// Multiplier caps at 100x, absolute cap at 200000.
	assert.Equal(t, 100000, LODBudget(100, 1000))
	assert.Equal(t, 200000, LODBudget(100, 2000))
	assert.Equal(t, 200000, LODBudget(50, 1000000))

	// Zoom below the floor is clamped up, not rejected.
	assert.Equal(t, LODBudget(MinZoom, 2000), LODBudget(0.01, 2000))
}

func TestLODBudgetMonotonicInZoom(t *testing.T) {
	prev := 0
	for _, z := range []float64{0.1, 0.5, 1, 2, 4, 8, 16, 50, 100} {
		b := LODBudget(z, 2000)
		assert.GreaterOrEqual(t, b, prev, "zoom %v", z)
		assert.LessOrEqual(t, b, 200000)
		prev = b
	}
}
