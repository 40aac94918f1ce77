package analysis

import (
	"maps"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/nao1215/wordrank/internal/model"
)

// newTestAnalyzer returns an Analyzer using the built-in stop words.
func newTestAnalyzer(t *testing.T, opts ...Option) *Analyzer {
	t.Helper()

	sw, err := EmbeddedStopWords().Load()
	if err != nil {
		t.Fatalf("failed to load stop words: %v", err)
	}
	return New(sw, opts...)
}

// TestAnalyzeScenario tests the canonical cat-and-mat page.
func TestAnalyzeScenario(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer(t)
	result := a.Analyze("<p>The cat sat on the mat. The cat ran.</p>", "http://x")

	if result.URL != "http://x" {
		t.Errorf("expected URL %q, got %q", "http://x", result.URL)
	}

	all := map[string]int{"The": 2, "cat": 2, "sat": 1, "on": 1, "the": 1, "mat": 1, "ran": 1}
	if got := result.AllWordCounts.Map(); !maps.Equal(got, all) {
		t.Errorf("all counts: expected %v, got %v", all, got)
	}

	significant := map[string]int{"cat": 2, "sat": 1, "mat": 1, "ran": 1}
	if got := result.SignificantWordCounts.Map(); !maps.Equal(got, significant) {
		t.Errorf("significant counts: expected %v, got %v", significant, got)
	}

	ranked := []model.RankedEntry{
		{Word: "cat", Count: 2},
		{Word: "sat", Count: 1},
		{Word: "mat", Count: 1},
		{Word: "ran", Count: 1},
	}
	if !slices.Equal(result.Ranked, ranked) {
		t.Errorf("ranked: expected %v, got %v", ranked, result.Ranked)
	}
}

// TestAnalyzeEmpty tests empty and word-less input.
func TestAnalyzeEmpty(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer(t)

	inputs := []string{
		"",
		"<html><body></body></html>",
		"<p>123 456 !!! ...</p>",
		"<script>var shouldNotCount = 1;</script>",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			result := a.Analyze(input, "http://empty")
			if result.AllWordCounts.Len() != 0 {
				t.Errorf("expected no words, got %v", result.AllWordCounts.Map())
			}
			if result.SignificantWordCounts.Len() != 0 {
				t.Errorf("expected no significant words, got %v", result.SignificantWordCounts.Map())
			}
			if result.Ranked == nil || len(result.Ranked) != 0 {
				t.Errorf("expected empty ranking, got %#v", result.Ranked)
			}
		})
	}
}

// TestAnalyzeOnlyStopWords tests a page made of stop words.
func TestAnalyzeOnlyStopWords(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer(t)
	result := a.Analyze("<p>the and of THE</p>", "http://stop")

	if result.AllWordCounts.Len() != 4 {
		t.Errorf("expected 4 distinct words, got %v", result.AllWordCounts.Map())
	}
	if result.SignificantWordCounts.Len() != 0 {
		t.Errorf("expected no significant words, got %v", result.SignificantWordCounts.Map())
	}
	if len(result.Ranked) != 0 {
		t.Errorf("expected empty ranking, got %v", result.Ranked)
	}
}

// TestAnalyzeProperties checks the invariants that relate the three outputs.
func TestAnalyzeProperties(t *testing.T) {
	t.Parallel()

	pages := []string{
		"<p>The cat sat on the mat. The cat ran.</p>",
		"<h1>Go Go Go</h1><p>Gophers like Go, and go likes gophers.</p>",
		"<div>Hello <b>world</b>! 42 times hello, World.</div>",
		"<ul><li>alpha</li><li>beta</li><li>alpha</li><li>gamma</li><li>beta</li><li>alpha</li></ul>",
		"<p>unclosed <b>tags <i>everywhere</p> still counted",
	}

	a := newTestAnalyzer(t)
	for _, page := range pages {
		t.Run(page, func(t *testing.T) {
			t.Parallel()

			result := a.Analyze(page, "http://prop")

			// Significant counts are a subset of all counts with equal values.
			for word, n := range result.SignificantWordCounts.All() {
				if result.AllWordCounts.Count(word) != n {
					t.Errorf("word %q: significant %d != all %d", word, n, result.AllWordCounts.Count(word))
				}
			}

			// No stop word is significant; every non-stop word is.
			for word := range result.AllWordCounts.All() {
				isStop := a.StopWords().Contains(word)
				if isStop == result.SignificantWordCounts.Has(word) {
					t.Errorf("word %q: stop=%v significant=%v", word, isStop, result.SignificantWordCounts.Has(word))
				}
			}

			// Every counted word contains a letter.
			for word := range result.AllWordCounts.All() {
				if !AlphabetASCII.IsWord(word) {
					t.Errorf("non-word %q was counted", word)
				}
			}

			// Ranking conserves counts and is sorted.
			if len(result.Ranked) != result.SignificantWordCounts.Len() {
				t.Errorf("ranked has %d entries, significant has %d", len(result.Ranked), result.SignificantWordCounts.Len())
			}
			sum := 0
			for i, e := range result.Ranked {
				sum += e.Count
				if i > 0 && result.Ranked[i-1].Count < e.Count {
					t.Errorf("ranking not descending at %d: %v", i, result.Ranked)
				}
			}
			if sum != result.SignificantWordCounts.Total() {
				t.Errorf("ranked sum %d != significant total %d", sum, result.SignificantWordCounts.Total())
			}

			// Analysis is deterministic.
			again := a.Analyze(page, "http://prop")
			if !again.AllWordCounts.Equal(result.AllWordCounts) || !slices.Equal(again.Ranked, result.Ranked) {
				t.Error("repeated analysis produced a different result")
			}
		})
	}
}

// TestAnalyzeTieBreak tests that equal counts keep first-seen order.
func TestAnalyzeTieBreak(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer(t)
	result := a.Analyze("<p>zebra apple mango apple zebra mango</p>", "http://tie")

	expected := []model.RankedEntry{
		{Word: "zebra", Count: 2},
		{Word: "apple", Count: 2},
		{Word: "mango", Count: 2},
	}
	if !slices.Equal(result.Ranked, expected) {
		t.Errorf("expected %v, got %v", expected, result.Ranked)
	}
}

// TestAnalyzeMalformedMarkup tests that broken HTML does not fail analysis.
func TestAnalyzeMalformedMarkup(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer(t)
	result := a.Analyze("<div><p>gopher <span>gopher</div></p></span><<", "http://broken")

	if result.SignificantWordCounts.Count("gopher") != 2 {
		t.Errorf("expected gopher twice, got %v", result.SignificantWordCounts.Map())
	}
}

// TestAnalyzeTagBoundaries tests that words never merge across tags.
func TestAnalyzeTagBoundaries(t *testing.T) {
	t.Parallel()

	result := newTestAnalyzer(t).Analyze("<b>a</b><i>b</i>", "http://tags")

	if result.AllWordCounts.Has("ab") {
		t.Errorf("words merged across tags: %v", result.AllWordCounts.Map())
	}
	for _, word := range []string{"a", "b"} {
		if result.AllWordCounts.Count(word) != 1 {
			t.Errorf("expected %q once, got %v", word, result.AllWordCounts.Map())
		}
	}
}

// TestAnalyzeAlphabet tests the Unicode alphabet option.
func TestAnalyzeAlphabet(t *testing.T) {
	t.Parallel()

	page := "<p>naïve λόγος</p>"

	ascii := newTestAnalyzer(t).Analyze(page, "http://a")
	if ascii.AllWordCounts.Has("λόγος") {
		t.Error("ASCII alphabet should drop a token without ASCII letters")
	}
	if !ascii.AllWordCounts.Has("naïve") {
		t.Error("ASCII alphabet should keep a token with some ASCII letters")
	}

	unicode := newTestAnalyzer(t, WithAlphabet(AlphabetUnicode)).Analyze(page, "http://a")
	if !unicode.AllWordCounts.Has("λόγος") {
		t.Errorf("Unicode alphabet should keep %q, got %v", "λόγος", unicode.AllWordCounts.Map())
	}
}

// TestAnalyzeWithExtractor tests replacing the extraction step.
func TestAnalyzeWithExtractor(t *testing.T) {
	t.Parallel()

	upper := func(raw string) string { return strings.ToUpper(raw) }
	a := New(NewStopWords("CAT"), WithExtractor(upper))

	result := a.Analyze("cat dog", "http://x")
	if result.SignificantWordCounts.Has("CAT") || !result.SignificantWordCounts.Has("DOG") {
		t.Errorf("unexpected significant counts %v", result.SignificantWordCounts.Map())
	}
}

// TestAnalyzeNilStopWords tests that a nil set keeps every word.
func TestAnalyzeNilStopWords(t *testing.T) {
	t.Parallel()

	result := New(nil).AnalyzeText("the cat", "http://x")
	if !result.SignificantWordCounts.Equal(result.AllWordCounts) {
		t.Errorf("expected identical counts, got %v and %v",
			result.AllWordCounts.Map(), result.SignificantWordCounts.Map())
	}
}

// TestAnalyzeConcurrent tests that one Analyzer can serve many goroutines.
func TestAnalyzeConcurrent(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer(t)
	want := a.Analyze("<p>The cat sat on the mat.</p>", "http://x")

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := a.Analyze("<p>The cat sat on the mat.</p>", "http://x")
			if !slices.Equal(got.Ranked, want.Ranked) {
				t.Errorf("concurrent result differs: %v", got.Ranked)
			}
		}()
	}
	wg.Wait()
}
