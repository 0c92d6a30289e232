package volcano

import (
	"math"
	"math/rand"
	"sort"

	"github.com/turtacn/viz-satellite/pkg/types/volcano"
)

// Sampling ratio parameters: at zoom 1 significant points get 60% of the
// budget, shrinking by 10 points per zoom level to a 30% floor, since zoomed
// in views need more of the surrounding non-significant context.
const (
	sigRatioBase  = 0.6
	sigRatioStep  = 0.1
	sigRatioFloor = 0.3
)

// Sampler reduces a categorized dataset to a point budget while preserving
// the statistically extreme points a volcano plot exists to show.
type Sampler struct {
	seed int64
}

// NewSampler creates a Sampler.  The seed fixes the uniform draw over
// non-significant points so responses are reproducible.
func NewSampler(seed int64) *Sampler {
	return &Sampler{seed: seed}
}

// SignificantRatio returns the share of the budget reserved for significant
// points at the given zoom level.
func SignificantRatio(zoom float64) float64 {
	return math.Max(sigRatioBase-(zoom-1)*sigRatioStep, sigRatioFloor)
}

// Sample returns at most maxPoints points.  A dataset already within budget
// is returned unchanged.  Over budget, significant points are selected by
// fold-change extremity (never randomly) and non-significant points fill the
// remainder by uniform draw without replacement.
func (s *Sampler) Sample(ds volcano.Dataset, maxPoints int, zoom float64) volcano.Dataset {
	if len(ds) <= maxPoints {
		return ds
	}
	if maxPoints <= 0 {
		return volcano.Dataset{}
	}

	var up, down, nonSig volcano.Dataset
	for _, p := range ds {
		switch p.Category {
		case volcano.CategoryUp:
			up = append(up, p)
		case volcano.CategoryDown:
			down = append(down, p)
		default:
			nonSig = append(nonSig, p)
		}
	}

	sigTotal := len(up) + len(down)
	sigBudget := int(math.Floor(float64(maxPoints) * SignificantRatio(zoom)))
	if sigBudget > sigTotal {
		sigBudget = sigTotal
	}

	out := make(volcano.Dataset, 0, maxPoints)
	if sigTotal <= sigBudget {
		out = append(out, up...)
		out = append(out, down...)
	} else {
		out = append(out, selectExtremes(up, down, sigBudget)...)
	}

	remaining := maxPoints - len(out)
	if remaining > len(nonSig) {
		remaining = len(nonSig)
	}
	if remaining > 0 {
		rng := rand.New(rand.NewSource(s.seed))
		perm := rng.Perm(len(nonSig))
		for _, idx := range perm[:remaining] {
			out = append(out, nonSig[idx])
		}
	}

	return out
}

// selectExtremes takes the most extreme points from each significant side:
// up-regulated sorted by descending fold change, down-regulated ascending so
// the most negative come first.  The budget splits in half, with any side's
// unused share handed to the other.
func selectExtremes(up, down volcano.Dataset, budget int) volcano.Dataset {
	sortedUp := make(volcano.Dataset, len(up))
	copy(sortedUp, up)
	sort.Slice(sortedUp, func(i, j int) bool { return sortedUp[i].LogFC > sortedUp[j].LogFC })

	sortedDown := make(volcano.Dataset, len(down))
	copy(sortedDown, down)
	sort.Slice(sortedDown, func(i, j int) bool { return sortedDown[i].LogFC < sortedDown[j].LogFC })

	upBudget := budget / 2
	downBudget := budget - upBudget
	if upBudget > len(sortedUp) {
		downBudget += upBudget - len(sortedUp)
		upBudget = len(sortedUp)
	}
	if downBudget > len(sortedDown) {
		spare := downBudget - len(sortedDown)
		downBudget = len(sortedDown)
		if upBudget+spare <= len(sortedUp) {
			upBudget += spare
		} else {
			upBudget = len(sortedUp)
		}
	}

	out := make(volcano.Dataset, 0, upBudget+downBudget)
	out = append(out, sortedUp[:upBudget]...)
	out = append(out, sortedDown[:downBudget]...)
	return out
}
