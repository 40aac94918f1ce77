// Package report renders analysis reports.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter / FullJSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown with ranked-word tables and a mermaid pie chart
//   - PDFWriter: A printable A4 document with a ranked-word table
//
// Design decision: We separate report writing from report data structures
// (which are in the model package) to follow the single responsibility
// principle. This allows adding new output formats without modifying
// the core data structures.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
