// Package volcano defines the shared data types for the volcano-plot
// pipeline: data points, datasets, significance categories, thresholds, and
// viewport geometry.  The JSON field names follow the wire contract consumed
// by the plot frontend.
package volcano

import "math"

// Category is the significance classification of a data point.
type Category string

const (
	CategoryUp             Category = "up"
	CategoryDown           Category = "down"
	CategoryNonSignificant Category = "non_significant"
)

// Valid reports whether c is one of the three defined categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryUp, CategoryDown, CategoryNonSignificant:
		return true
	}
	return false
}

// DataPoint is a single metabolite measurement on the volcano plot.
// Category is derived by the categorizer, never fixed at generation time.
type DataPoint struct {
	Gene       string   `json:"gene"`
	LogFC      float64  `json:"logFC"`
	PAdj       float64  `json:"padj"`
	Superclass string   `json:"classyfireSuperclass"`
	Class      string   `json:"classyfireClass"`
	Category   Category `json:"category"`
}

// NegLog10P returns the point's y-axis position on the volcano plot.
func (p DataPoint) NegLog10P() float64 {
	return -math.Log10(p.PAdj)
}

// Dataset is an ordered sequence of data points.
type Dataset []DataPoint

// Stats counts points per significance category.
type Stats struct {
	Up             int `json:"up"`
	Down           int `json:"down"`
	NonSignificant int `json:"non_significant"`
}

// Count returns the per-category counts of ds.
func (ds Dataset) Count() Stats {
	var s Stats
	for _, p := range ds {
		switch p.Category {
		case CategoryUp:
			s.Up++
		case CategoryDown:
			s.Down++
		default:
			s.NonSignificant++
		}
	}
	return s
}

// Thresholds carries the significance cutoffs used by the categorizer.
// PValue is the adjusted p-value threshold in [0,1]; FoldChangeMin and
// FoldChangeMax bound the non-significant fold-change band (Min ≤ Max).
type Thresholds struct {
	PValue        float64
	FoldChangeMin float64
	FoldChangeMax float64
}

// AxisRange is a closed interval on one plot axis.
type AxisRange struct {
	Min float64
	Max float64
}

// Span returns the width of the range.
func (r AxisRange) Span() float64 {
	return r.Max - r.Min
}

// Expand returns the range grown by frac of its span on each side.
func (r AxisRange) Expand(frac float64) AxisRange {
	margin := r.Span() * frac
	return AxisRange{Min: r.Min - margin, Max: r.Max + margin}
}

// Contains reports whether v lies inside the closed range.
func (r AxisRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Viewport is an optional rectangle on the plot axes
// (x = logFC, y = −log10 padj).  A nil axis means "unbounded"; the viewport
// filter is a no-op unless both axes are present.
type Viewport struct {
	X *AxisRange
	Y *AxisRange
}

// Complete reports whether both axis ranges are present.
func (v Viewport) Complete() bool {
	return v.X != nil && v.Y != nil
}
