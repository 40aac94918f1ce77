// Package main provides the entry point for the wordrank CLI.
//
// wordrank fetches web pages, counts the words of their visible text and
// ranks the words that are not stop words by frequency.
//
// Usage:
//
//	wordrank analyze <url>...
//	wordrank serve
//
// See --help for all available options.
package main

// main is the entry point for wordrank.
func main() {
	Execute()
}
