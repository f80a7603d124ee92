package importer

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/MrJamesThe3rd/finances/internal/category"
)

// findSimilar pairs each fresh category with the closest pre-existing title
// whose normalised edit distance is below threshold.
func findSimilar(fresh, all []*category.Category, threshold float64) []SimilarCategory {
	if len(fresh) == 0 || threshold <= 0 {
		return nil
	}

	isFresh := make(map[string]struct{}, len(fresh))
	for _, c := range fresh {
		isFresh[c.ID.String()] = struct{}{}
	}

	var out []SimilarCategory

	for _, c := range fresh {
		a := strings.ToLower(c.Title)

		var (
			best      *category.Category
			bestDist  int
			bestRatio = threshold
		)

		for _, other := range all {
			if _, ok := isFresh[other.ID.String()]; ok {
				continue
			}

			b := strings.ToLower(other.Title)
			longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
			if longest == 0 {
				continue
			}

			dist := levenshtein.ComputeDistance(a, b)
			if ratio := float64(dist) / float64(longest); ratio < bestRatio {
				best, bestDist, bestRatio = other, dist, ratio
			}
		}

		if best != nil {
			out = append(out, SimilarCategory{Title: c.Title, Existing: best.Title, Distance: bestDist})
		}
	}

	return out
}
