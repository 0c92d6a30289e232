package volcano

import (
	"github.com/turtacn/viz-satellite/pkg/types/volcano"
)

// viewportMarginFraction expands each viewport axis by this fraction of its
// span on both sides, so points just outside the visible area survive the
// filter and panning does not pop them in and out at the edges.
const viewportMarginFraction = 0.20

// FilterViewport retains the points inside the viewport after expanding both
// axes by the anti-popping margin.  The x axis tests LogFC, the y axis tests
// -log10(padj).  An incomplete viewport (either axis missing) is a no-op and
// returns ds unchanged.
func FilterViewport(ds volcano.Dataset, vp volcano.Viewport) volcano.Dataset {
	if !vp.Complete() {
		return ds
	}

	x := vp.X.Expand(viewportMarginFraction)
	y := vp.Y.Expand(viewportMarginFraction)

	out := make(volcano.Dataset, 0, len(ds))
	for _, p := range ds {
		if x.Contains(p.LogFC) && y.Contains(p.NegLog10P()) {
			out = append(out, p)
		}
	}
	return out
}
