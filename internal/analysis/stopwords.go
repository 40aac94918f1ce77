package analysis

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed stopwords_en.txt
var embeddedEnglish string

// ErrNoStopWords is returned when a stop-word source yields an empty set.
// Running with no stop words silently changes every significant result,
// so callers treat it as a startup failure.
var ErrNoStopWords = errors.New("stop-word list is empty")

// StopWords is an immutable, case-insensitive set of words to exclude from
// significant counts. It is safe for concurrent use.
type StopWords struct {
	set map[string]struct{}
}

// NewStopWords builds a set from words. Entries are trimmed and folded to
// lower case; empty entries are ignored.
func NewStopWords(words ...string) *StopWords {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = fold(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	return &StopWords{set: set}
}

// Contains reports whether word is a stop word, ignoring case.
// A nil set contains nothing.
func (s *StopWords) Contains(word string) bool {
	if s == nil || len(s.set) == 0 {
		return false
	}
	_, ok := s.set[fold(word)]
	return ok
}

// Keep reports whether token survives stop-word filtering.
func (s *StopWords) Keep(token string) bool {
	return !s.Contains(token)
}

// Len returns the number of distinct stop words.
func (s *StopWords) Len() int {
	if s == nil {
		return 0
	}
	return len(s.set)
}

// Words returns the stop words in sorted order.
func (s *StopWords) Words() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.set))
	for w := range s.set {
		out = append(out, w)
	}
	slices.Sort(out)
	return out
}

// With returns a new set containing s and extra. s is not modified.
func (s *StopWords) With(extra ...string) *StopWords {
	return NewStopWords(append(s.Words(), extra...)...)
}

// fold lower-cases w for comparison.
// ASCII takes the fast path; anything else goes through x/text so that
// words such as "ÜBER" fold the same way a reader would expect. A Caser
// keeps internal state, so a fresh one is used per call.
func fold(w string) string {
	if isASCII(w) {
		return strings.ToLower(w)
	}
	return cases.Lower(language.Und).String(w)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// ParseStopWords reads a stop-word list from r.
//
// Format: one or more words per line separated by whitespace or commas.
// Blank lines and lines whose first non-space character is '#' are ignored.
func ParseStopWords(r io.Reader) (*StopWords, error) {
	var words []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		words = append(words, fields...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stop words: %w", err)
	}

	return NewStopWords(words...), nil
}

// StopWordSource provides a stop-word set at startup.
type StopWordSource interface {
	Load() (*StopWords, error)
}

// StopWordSourceFunc adapts a function to StopWordSource.
type StopWordSourceFunc func() (*StopWords, error)

// Load calls f.
func (f StopWordSourceFunc) Load() (*StopWords, error) {
	return f()
}

// EmbeddedStopWords returns the built-in English stop-word list.
func EmbeddedStopWords() StopWordSource {
	return StopWordSourceFunc(func() (*StopWords, error) {
		sw, err := ParseStopWords(strings.NewReader(embeddedEnglish))
		if err != nil {
			return nil, err
		}
		if sw.Len() == 0 {
			return nil, ErrNoStopWords
		}
		return sw, nil
	})
}

// FileStopWords returns a source that reads the list at path.
// The file uses the format accepted by ParseStopWords.
func FileStopWords(path string) StopWordSource {
	return StopWordSourceFunc(func() (*StopWords, error) {
		f, err := os.Open(path) //nolint:gosec // path comes from local configuration
		if err != nil {
			return nil, fmt.Errorf("failed to open stop-word file: %w", err)
		}
		defer f.Close()

		sw, err := ParseStopWords(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if sw.Len() == 0 {
			return nil, fmt.Errorf("%s: %w", path, ErrNoStopWords)
		}
		return sw, nil
	})
}

// WithExtra returns a source that adds extra words to the set loaded from src.
func WithExtra(src StopWordSource, extra ...string) StopWordSource {
	return StopWordSourceFunc(func() (*StopWords, error) {
		sw, err := src.Load()
		if err != nil {
			return nil, err
		}
		if len(extra) == 0 {
			return sw, nil
		}
		return sw.With(extra...), nil
	})
}
