package analysis

import (
	"slices"
	"testing"

	"github.com/nao1215/wordrank/internal/model"
)

// TestCount tests frequency counting.
func TestCount(t *testing.T) {
	t.Parallel()

	t.Run("counts are case-sensitive", func(t *testing.T) {
		t.Parallel()

		counts := Count(slices.Values([]string{"The", "the", "cat", "The"}))

		if counts.Count("The") != 2 || counts.Count("the") != 1 || counts.Count("cat") != 1 {
			t.Errorf("unexpected counts %v", counts.Map())
		}
		if counts.Total() != 4 {
			t.Errorf("expected total 4, got %d", counts.Total())
		}
	})

	t.Run("first-seen order is kept", func(t *testing.T) {
		t.Parallel()

		counts := Count(slices.Values([]string{"b", "a", "b", "c", "a"}))

		expected := []string{"b", "a", "c"}
		if got := counts.Words(); !slices.Equal(got, expected) {
			t.Errorf("expected order %v, got %v", expected, got)
		}
	})

	t.Run("empty sequence", func(t *testing.T) {
		t.Parallel()

		counts := Count(slices.Values([]string(nil)))
		if counts.Len() != 0 {
			t.Errorf("expected empty counts, got %v", counts.Map())
		}
	})
}

// TestRank tests ranking order and tie-breaking.
func TestRank(t *testing.T) {
	t.Parallel()

	t.Run("descending by count with first-seen ties", func(t *testing.T) {
		t.Parallel()

		counts := model.NewWordCounts()
		counts.Add("sat", 1)
		counts.Add("cat", 2)
		counts.Add("mat", 1)
		counts.Add("dog", 3)
		counts.Add("ran", 1)

		expected := []model.RankedEntry{
			{Word: "dog", Count: 3},
			{Word: "cat", Count: 2},
			{Word: "sat", Count: 1},
			{Word: "mat", Count: 1},
			{Word: "ran", Count: 1},
		}
		if got := Rank(counts); !slices.Equal(got, expected) {
			t.Errorf("expected %v, got %v", expected, got)
		}
	})

	t.Run("empty counts", func(t *testing.T) {
		t.Parallel()

		got := Rank(model.NewWordCounts())
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", got)
		}
	})

	t.Run("ranking preserves every entry", func(t *testing.T) {
		t.Parallel()

		counts := Count(slices.Values([]string{"x", "y", "x", "z", "z", "z"}))
		ranked := Rank(counts)

		if len(ranked) != counts.Len() {
			t.Fatalf("expected %d entries, got %d", counts.Len(), len(ranked))
		}
		for _, e := range ranked {
			if counts.Count(e.Word) != e.Count {
				t.Errorf("entry %v does not match count %d", e, counts.Count(e.Word))
			}
		}
	})
}
