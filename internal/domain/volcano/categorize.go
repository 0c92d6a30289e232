package volcano

import (
	"github.com/turtacn/viz-satellite/pkg/types/volcano"
)

// categoryRule is one entry in the ordered classification table.  The first
// rule whose predicate matches assigns the point's category.
type categoryRule struct {
	category volcano.Category
	matches  func(p volcano.DataPoint, t volcano.Thresholds) bool
}

// The significance rules, evaluated in order.  Boundary semantics are load
// bearing: p == threshold counts as significant (<=), but a fold change
// exactly at either band edge does not (strict < and >).
var categoryRules = []categoryRule{
	{
		category: volcano.CategoryDown,
		matches: func(p volcano.DataPoint, t volcano.Thresholds) bool {
			return p.PAdj <= t.PValue && p.LogFC < t.FoldChangeMin
		},
	},
	{
		category: volcano.CategoryUp,
		matches: func(p volcano.DataPoint, t volcano.Thresholds) bool {
			return p.PAdj <= t.PValue && p.LogFC > t.FoldChangeMax
		},
	},
}

// CategoryFor classifies a single point against the thresholds.
func CategoryFor(p volcano.DataPoint, t volcano.Thresholds) volcano.Category {
	for _, rule := range categoryRules {
		if rule.matches(p, t) {
			return rule.category
		}
	}
	return volcano.CategoryNonSignificant
}

// Categorize returns a copy of ds with every point's Category assigned.  The
// input is never mutated and row count is preserved.
func Categorize(ds volcano.Dataset, t volcano.Thresholds) volcano.Dataset {
	out := make(volcano.Dataset, len(ds))
	for i, p := range ds {
		p.Category = CategoryFor(p, t)
		out[i] = p
	}
	return out
}
