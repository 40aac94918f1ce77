package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"strconv"
)

// WordCounts maps words to their occurrence counts and remembers the order
// in which each word was first added.
//
// Design decision: Go maps have no stable iteration order, but ranking needs
// "first seen wins" for ties. Instead of carrying a separate index next to a
// plain map, the order is part of the type so every consumer (ranker, JSON
// encoder, database) sees the same sequence.
//
// The zero value is not ready for use; create instances with NewWordCounts.
// A nil *WordCounts behaves like an empty, read-only map.
type WordCounts struct {
	// order lists each distinct word once, in first-seen order.
	order []string

	// counts holds the occurrence count of every word in order.
	counts map[string]int
}

// NewWordCounts returns an empty WordCounts.
func NewWordCounts() *WordCounts {
	return &WordCounts{
		order:  make([]string, 0),
		counts: make(map[string]int),
	}
}

// Add increases the count of word by n.
// Words seen for the first time are appended to the iteration order.
// Non-positive n is ignored so that every stored count stays positive.
func (wc *WordCounts) Add(word string, n int) {
	if n <= 0 {
		return
	}
	if _, ok := wc.counts[word]; !ok {
		wc.order = append(wc.order, word)
	}
	wc.counts[word] += n
}

// Count returns the count of word, or 0 if the word is absent.
func (wc *WordCounts) Count(word string) int {
	if wc == nil {
		return 0
	}
	return wc.counts[word]
}

// Has reports whether word is present.
func (wc *WordCounts) Has(word string) bool {
	if wc == nil {
		return false
	}
	_, ok := wc.counts[word]
	return ok
}

// Len returns the number of distinct words.
func (wc *WordCounts) Len() int {
	if wc == nil {
		return 0
	}
	return len(wc.order)
}

// Total returns the sum of all counts.
func (wc *WordCounts) Total() int {
	if wc == nil {
		return 0
	}
	total := 0
	for _, n := range wc.counts {
		total += n
	}
	return total
}

// Words returns the distinct words in first-seen order.
// The returned slice is a copy and may be modified by the caller.
func (wc *WordCounts) Words() []string {
	if wc == nil {
		return []string{}
	}
	words := make([]string, len(wc.order))
	copy(words, wc.order)
	return words
}

// All iterates over (word, count) pairs in first-seen order.
func (wc *WordCounts) All() iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		if wc == nil {
			return
		}
		for _, w := range wc.order {
			if !yield(w, wc.counts[w]) {
				return
			}
		}
	}
}

// Map returns the counts as a plain map. Order information is lost.
func (wc *WordCounts) Map() map[string]int {
	m := make(map[string]int, wc.Len())
	for w, n := range wc.All() {
		m[w] = n
	}
	return m
}

// Equal reports whether wc and other hold the same words with the same
// counts in the same first-seen order.
func (wc *WordCounts) Equal(other *WordCounts) bool {
	if wc.Len() != other.Len() {
		return false
	}
	for i := 0; i < wc.Len(); i++ {
		w := wc.order[i]
		if other.order[i] != w || other.counts[w] != wc.counts[w] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the counts as a JSON object whose keys appear in
// first-seen order.
func (wc *WordCounts) MarshalJSON() ([]byte, error) {
	if wc == nil {
		return []byte("{}"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, w := range wc.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(w)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(wc.counts[w]))
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object produced by MarshalJSON, restoring
// the key order of the document. Duplicate keys are summed.
func (wc *WordCounts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("word counts: %w", err)
	}

	decoded := NewWordCounts()
	if tok == nil {
		// JSON null
		*wc = *decoded
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("word counts: expected JSON object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("word counts: %w", err)
		}
		word, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("word counts: unexpected key %v", keyTok)
		}

		var n int
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("word counts: value of %q: %w", word, err)
		}
		if n <= 0 {
			return fmt.Errorf("word counts: count of %q must be positive, got %d", word, n)
		}
		decoded.Add(word, n)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("word counts: %w", err)
	}

	*wc = *decoded
	return nil
}
