// Package volcano implements the data pipeline behind the volcano-plot API:
// deterministic dataset generation, significance categorization, viewport
// filtering, zoom-scaled point budgets, extremity-preserving sampling, and
// memory-conscious serialization.  Every stage is a pure transformation over
// request-local data; the only shared state in the system is the dataset
// cache, which lives in the infrastructure layer.
package volcano

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/turtacn/viz-satellite/pkg/types/volcano"
)

// DefaultSeed fixes the generator's random source so identical sizes always
// yield byte-identical datasets.
const DefaultSeed int64 = 42

// Bucket shape parameters for synthetic differential-abundance data: most
// points cluster around zero fold change with unremarkable p-values, with
// two smaller significant populations shifted to either side.
const (
	nonSigProportion = 0.85
	upProportion     = 0.075

	nonSigFCSpread = 0.6
	sigFCCenter    = 1.5
	sigFCSpread    = 0.8

	nonSigPMin = 0.1
	nonSigPMax = 1.0
	sigPMin    = 0.0001
	sigPMax    = 0.05

	fcNoiseSpread = 0.05

	pValueFloor = 0.0001
	pValueCeil  = 1.0
)

// Generator produces deterministic synthetic datasets.  Sizes outside the
// configured bounds are clamped, never rejected.
type Generator struct {
	minSize int
	maxSize int
	seed    int64
}

// NewGenerator creates a Generator with the given size bounds.
func NewGenerator(minSize, maxSize int) *Generator {
	return &Generator{minSize: minSize, maxSize: maxSize, seed: DefaultSeed}
}

// ClampSize folds an arbitrary requested size into the generator's bounds.
func (g *Generator) ClampSize(size int) int {
	if size < g.minSize {
		return g.minSize
	}
	if size > g.maxSize {
		return g.maxSize
	}
	return size
}

// Generate returns a dataset of exactly ClampSize(size) points.  The three
// population buckets are drawn contiguously and then shuffled so categories
// interleave; labels are assigned after the shuffle so the fixed name table
// covers the leading rows regardless of bucket order.
func (g *Generator) Generate(size int) volcano.Dataset {
	size = g.ClampSize(size)
	rng := rand.New(rand.NewSource(g.seed))

	nonSigCount := int(float64(size) * nonSigProportion)
	upCount := int(float64(size) * upProportion)
	downCount := size - nonSigCount - upCount

	ds := make(volcano.Dataset, 0, size)
	ds = appendBucket(ds, rng, nonSigCount, 0, nonSigFCSpread, nonSigPMin, nonSigPMax)
	ds = appendBucket(ds, rng, upCount, sigFCCenter, sigFCSpread, sigPMin, sigPMax)
	ds = appendBucket(ds, rng, downCount, -sigFCCenter, sigFCSpread, sigPMin, sigPMax)

	for i := range ds {
		ds[i].LogFC = roundTo(ds[i].LogFC+rng.NormFloat64()*fcNoiseSpread, 4)
		ds[i].PAdj = roundTo(clamp(ds[i].PAdj, pValueFloor, pValueCeil), 6)
	}

	rng.Shuffle(len(ds), func(i, j int) { ds[i], ds[j] = ds[j], ds[i] })

	for i := range ds {
		ds[i].Gene = labelFor(i)
		ds[i].Superclass = superclassNames[rng.Intn(len(superclassNames))]
		ds[i].Class = classNames[rng.Intn(len(classNames))]
	}

	return ds
}

func appendBucket(ds volcano.Dataset, rng *rand.Rand, count int, fcCenter, fcSpread, pMin, pMax float64) volcano.Dataset {
	for i := 0; i < count; i++ {
		ds = append(ds, volcano.DataPoint{
			LogFC: rng.NormFloat64()*fcSpread + fcCenter,
			PAdj:  pMin + rng.Float64()*(pMax-pMin),
		})
	}
	return ds
}

func labelFor(i int) string {
	if i < len(metaboliteNames) {
		return metaboliteNames[i]
	}
	return fmt.Sprintf("Metabolite_%d", i+1)
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(v*scale) / scale
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
