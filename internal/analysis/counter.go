package analysis

import (
	"iter"

	"github.com/nao1215/wordrank/internal/model"
)

// Counter accumulates token frequencies, remembering the order in which
// each distinct token was first seen. The zero value is not usable; call
// NewCounter.
type Counter struct {
	counts *model.WordCounts
}

// NewCounter returns an empty Counter.
func NewCounter() *Counter {
	return &Counter{counts: model.NewWordCounts()}
}

// Add counts one occurrence of token.
func (c *Counter) Add(token string) {
	c.counts.Add(token, 1)
}

// Counts returns the accumulated counts.
// The returned value is shared with the Counter.
func (c *Counter) Counts() *model.WordCounts {
	return c.counts
}

// Count returns the frequency of every token in tokens.
// Keys are case-sensitive and every count is at least 1.
func Count(tokens iter.Seq[string]) *model.WordCounts {
	c := NewCounter()
	for token := range tokens {
		c.Add(token)
	}
	return c.Counts()
}
