// Package model defines the core data structures used throughout wordrank.
//
// This package contains the following main types:
//   - WordCounts: An order-preserving word frequency map
//   - AnalysisResult: The output of one text-frequency analysis
//   - AnalysisReport: The per-URL envelope carried through the job pipeline
//   - Page: A fetched web page
//   - User: An entry in the user directory
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (analysis, fetch, database, report, server)
// need to use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
