package volcano

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatasetCount(t *testing.T) {
	ds := Dataset{
		{Category: CategoryUp},
		{Category: CategoryDown},
		{Category: CategoryDown},
		{Category: CategoryNonSignificant},
	}

	s := ds.Count()
	assert.Equal(t, 1, s.Up)
	assert.Equal(t, 2, s.Down)
	assert.Equal(t, 1, s.NonSignificant)
}

func TestAxisRangeExpand(t *testing.T) {
	r := AxisRange{Min: -2, Max: 2}
	e := r.Expand(0.2)

	assert.InDelta(t, -2.8, e.Min, 1e-9)
	assert.InDelta(t, 2.8, e.Max, 1e-9)
	assert.True(t, e.Contains(-2.8))
	assert.False(t, e.Contains(-2.81))
}

func TestViewportComplete(t *testing.T) {
	assert.False(t, Viewport{}.Complete())
	assert.False(t, Viewport{X: &AxisRange{Min: 0, Max: 1}}.Complete())
	assert.True(t, Viewport{
		X: &AxisRange{Min: 0, Max: 1},
		Y: &AxisRange{Min: 0, Max: 1},
	}.Complete())
}

func TestCategoryValid(t *testing.T) {
	assert.True(t, CategoryUp.Valid())
	assert.True(t, CategoryNonSignificant.Valid())
	assert.False(t, Category("sideways").Valid())
}
