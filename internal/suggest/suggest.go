package suggest

import (
	"cmp"
	"slices"
)

// MinScore is the similarity a candidate needs to be suggested.
const MinScore = 0.5

// Closest returns up to limit candidates similar to name, best first. Ties
// are broken by name.
func Closest(name string, candidates []string, limit int) []string {
	type scored struct {
		name  string
		score float64
	}

	norm := NormalizeIdent(name)

	var ranked []scored

	for _, c := range candidates {
		if c == name {
			continue
		}

		if score := Similarity(norm, NormalizeIdent(c)); score >= MinScore {
			ranked = append(ranked, scored{name: c, score: score})
		}
	}

	slices.SortFunc(ranked, func(a, b scored) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}

		return cmp.Compare(a.name, b.name)
	})

	out := make([]string, 0, min(limit, len(ranked)))
	for i := 0; i < len(ranked) && i < limit; i++ {
		out = append(out, ranked[i].name)
	}

	return out
}
