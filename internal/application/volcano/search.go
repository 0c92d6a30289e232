package volcano

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/turtacn/viz-satellite/pkg/types/volcano"
)

// SanitizeSearchTerm normalizes a raw search term for safe matching: NFKC
// normalization folds compatibility variants (full-width letters, ligatures)
// into their plain forms, then everything outside alphanumerics, dash, and
// underscore is stripped and the result truncated to the length limit.  An
// empty result disables the search filter.
func SanitizeSearchTerm(raw string) string {
	normalized := norm.NFKC.String(raw)

	var b strings.Builder
	b.Grow(len(normalized))
	for _, r := range normalized {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_':
			b.WriteRune(r)
		}
	}

	term := b.String()
	if len(term) > MaxSearchTermLength {
		term = term[:MaxSearchTermLength]
	}
	return term
}

// FilterBySearch retains the points whose label contains term,
// case-insensitively.  An empty term returns ds unchanged.
func FilterBySearch(ds volcano.Dataset, term string) volcano.Dataset {
	if term == "" {
		return ds
	}
	needle := strings.ToLower(term)

	out := make(volcano.Dataset, 0, len(ds))
	for _, p := range ds {
		if strings.Contains(strings.ToLower(p.Gene), needle) {
			out = append(out, p)
		}
	}
	return out
}
