package analysis

import (
	"github.com/nao1215/wordrank/internal/extract"
	"github.com/nao1215/wordrank/internal/model"
)

// Analyzer turns page content into word frequencies.
// An Analyzer is immutable after New and safe for concurrent use.
type Analyzer struct {
	stopWords *StopWords
	alphabet  Alphabet
	extract   func(rawHTML string) string
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithAlphabet sets the policy that separates words from punctuation.
// The default is AlphabetASCII.
func WithAlphabet(a Alphabet) Option {
	return func(an *Analyzer) {
		an.alphabet = a
	}
}

// WithExtractor replaces the HTML-to-text step.
// The default is extract.Text.
func WithExtractor(fn func(rawHTML string) string) Option {
	return func(an *Analyzer) {
		if fn != nil {
			an.extract = fn
		}
	}
}

// New creates an Analyzer that filters with stopWords.
// A nil stopWords set filters nothing.
func New(stopWords *StopWords, opts ...Option) *Analyzer {
	if stopWords == nil {
		stopWords = NewStopWords()
	}
	a := &Analyzer{
		stopWords: stopWords,
		alphabet:  AlphabetASCII,
		extract:   extract.Text,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// StopWords returns the set used for filtering.
func (a *Analyzer) StopWords() *StopWords {
	return a.stopWords
}

// Alphabet returns the word policy in use.
func (a *Analyzer) Alphabet() Alphabet {
	return a.alphabet
}

// Analyze extracts the visible text of rawHTML and counts its words.
//
// Malformed markup is not an error; Analyze never fails. Empty input
// produces a result with empty counts and an empty ranking. sourceURL is
// copied into the result verbatim.
func (a *Analyzer) Analyze(rawHTML, sourceURL string) *model.AnalysisResult {
	return a.AnalyzeText(a.extract(rawHTML), sourceURL)
}

// AnalyzeText counts the words of text that is already plain.
//
// Every token passing the alphabet filter is counted in AllWordCounts.
// Tokens that are also not stop words are counted in
// SignificantWordCounts, which is therefore always a subset of
// AllWordCounts with identical counts for shared keys.
func (a *Analyzer) AnalyzeText(text, sourceURL string) *model.AnalysisResult {
	result := model.NewAnalysisResult(sourceURL)

	all := NewCounter()
	significant := NewCounter()
	for token := range Tokens(text) {
		if !a.alphabet.IsWord(token) {
			continue
		}
		all.Add(token)
		if a.stopWords.Keep(token) {
			significant.Add(token)
		}
	}

	result.AllWordCounts = all.Counts()
	result.SignificantWordCounts = significant.Counts()
	result.Ranked = Rank(result.SignificantWordCounts)
	return result
}
