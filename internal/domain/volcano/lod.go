package volcano

import "math"

// Zoom and budget limits for the level-of-detail calculation.
const (
	MinZoom = 0.1
	MaxZoom = 100.0

	// lodMultiplierCap bounds how far zooming in can scale the base budget.
	lodMultiplierCap = 100.0
	// lodAbsoluteCap is the hard ceiling on any effective point budget.
	lodAbsoluteCap = 200000
)

// LODBudget converts a zoom level and base point budget into the effective
// maximum point count: the budget grows super-linearly with zoom (z^1.5) so
// detail fills in quickly as the user zooms, capped at a 100x multiplier and
// an absolute ceiling.
func LODBudget(zoom float64, baseBudget int) int {
	if zoom < MinZoom {
		zoom = MinZoom
	}
	multiplier := math.Min(math.Pow(zoom, 1.5), lodMultiplierCap)
	budget := math.Floor(math.Min(float64(baseBudget)*multiplier, lodAbsoluteCap))
	return int(budget)
}
