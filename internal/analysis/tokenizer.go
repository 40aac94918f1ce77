package analysis

import (
	"iter"
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
	"golang.org/x/text/unicode/norm"
)

// Tokens returns a lazy sequence of the tokens in text.
//
// Text is NFC-normalized and split with the Unicode word boundary rules of
// UAX #29, which are locale independent. Whitespace segments are dropped;
// punctuation segments such as "." or "--" are kept and left to the word
// filter. Empty input yields an empty sequence.
//
// Design decision: We use clipperhouse/uax29 rather than a regular
// expression because the standard algorithm keeps contractions ("don't"),
// decimal numbers ("3.14") and non-Latin scripts together, where a
// hand-written pattern would either split them or need per-script rules.
func Tokens(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if text == "" {
			return
		}

		segments := words.FromString(norm.NFC.String(text))
		for segments.Next() {
			token := segments.Value()
			if isBlank(token) {
				continue
			}
			if !yield(token) {
				return
			}
		}
	}
}

// Tokenize returns all tokens of text in order.
// It is the eager form of Tokens.
func Tokenize(text string) []string {
	tokens := make([]string, 0)
	for token := range Tokens(text) {
		tokens = append(tokens, token)
	}
	return tokens
}

// isBlank reports whether s consists only of whitespace or control characters.
func isBlank(s string) bool {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) == ""
}
