package analysis

import (
	"cmp"
	"slices"

	"github.com/nao1215/wordrank/internal/model"
)

// Rank orders counts by descending count.
//
// The sort is stable over first-seen order, so words with equal counts
// keep the order in which they first appeared in the text. The result is
// a fresh slice; an empty input yields an empty, non-nil slice.
func Rank(counts *model.WordCounts) []model.RankedEntry {
	ranked := make([]model.RankedEntry, 0, counts.Len())
	for word, n := range counts.All() {
		ranked = append(ranked, model.RankedEntry{Word: word, Count: n})
	}

	slices.SortStableFunc(ranked, func(a, b model.RankedEntry) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return ranked
}
