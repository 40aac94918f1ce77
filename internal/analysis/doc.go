// Package analysis implements the text-frequency analysis pipeline.
//
// The pipeline runs strictly forward:
//
//	raw HTML -> plain text -> tokens -> (all counts, significant counts) -> ranked list
//
// Components:
//   - Tokens / Tokenize: Unicode word segmentation (UAX #29)
//   - Alphabet: the "is this a word" predicate that drops punctuation tokens
//   - StopWords: an immutable, case-insensitive stop-word set
//   - Counter / Count: order-preserving frequency counting
//   - Rank: stable descending sort by count
//   - Analyzer: composes the above
//
// Design decision: The Analyzer performs no I/O. Fetching and persistence
// are done by the fetch and database packages and wired together by the
// pipeline package, so an analysis is a pure function of its input and
// may run on any goroutine without coordination. The only shared state is
// the StopWords set, which is never mutated after construction.
//
// # Usage
//
//	stopWords, err := analysis.EmbeddedStopWords().Load()
//	if err != nil {
//	    return err // cannot run without a stop-word set
//	}
//	analyzer := analysis.New(stopWords)
//	result := analyzer.Analyze(rawHTML, "https://example.com")
//	for _, entry := range result.Ranked {
//	    fmt.Println(entry.Word, entry.Count)
//	}
package analysis
