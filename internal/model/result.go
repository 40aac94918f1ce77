package model

// RankedEntry is one (word, count) pair of a ranked result.
type RankedEntry struct {
	// Word is the token as it appeared in the text, in NFC form.
	Word string `json:"word"`

	// Count is the number of occurrences of Word.
	Count int `json:"count"`
}

// AnalysisResult is the output of one text-frequency analysis.
//
// AllWordCounts holds every alphabetic token; SignificantWordCounts holds
// the same tokens minus stop words. Ranked is SignificantWordCounts sorted
// by count descending, ties in first-seen order. Words are keyed in Unicode
// NFC form, so "café" written precomposed or decomposed is one word.
type AnalysisResult struct {
	// URL identifies the analysed document.
	URL string `json:"url"`

	// AllWordCounts counts every alphabetic token.
	AllWordCounts *WordCounts `json:"all_word_counts"`

	// SignificantWordCounts counts alphabetic tokens that are not stop words.
	SignificantWordCounts *WordCounts `json:"significant_word_counts"`

	// Ranked is SignificantWordCounts ordered by count descending.
	Ranked []RankedEntry `json:"ranked"`
}

// NewAnalysisResult returns an empty result for url.
// Maps and the ranked list are non-nil so that an empty analysis encodes as
// {} and [] rather than null.
func NewAnalysisResult(url string) *AnalysisResult {
	return &AnalysisResult{
		URL:                   url,
		AllWordCounts:         NewWordCounts(),
		SignificantWordCounts: NewWordCounts(),
		Ranked:                make([]RankedEntry, 0),
	}
}

// IsEmpty reports whether the analysis found no words at all.
func (r *AnalysisResult) IsEmpty() bool {
	return r.AllWordCounts.Len() == 0
}

// Top returns at most n ranked entries. A non-positive n returns all entries.
func (r *AnalysisResult) Top(n int) []RankedEntry {
	if n <= 0 || n >= len(r.Ranked) {
		return r.Ranked
	}
	return r.Ranked[:n]
}
