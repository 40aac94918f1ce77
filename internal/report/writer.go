package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/wordrank/internal/model"
)

// DefaultTop is the number of ranked words shown unless configured.
const DefaultTop = 20

// ErrUnknownFormat is returned by ParseFormat for an unsupported name.
var ErrUnknownFormat = errors.New("unknown report format")

// Format selects a report writer.
type Format string

// Supported report formats.
const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
)

// ParseFormat converts a format name to a Format.
// The empty string selects FormatText; "md" is accepted for Markdown.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", string(FormatText):
		return FormatText, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatMarkdown), "md":
		return FormatMarkdown, nil
	case string(FormatPDF):
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Writer defines the interface for report output.
// Implementations write analysis reports in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write outputs one report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.AnalysisReport) (int, error)

	// WriteBatch outputs the reports of a multi-URL run as one document.
	WriteBatch(reports []*model.AnalysisReport) (int, error)
}

// NewWriter returns the writer for format.
// top limits the ranked words shown by the text, Markdown and PDF writers;
// version is embedded in JSON output.
func NewWriter(output io.Writer, format Format, top int, version string) (Writer, error) {
	switch format {
	case FormatText, "":
		return NewSimpleWriter(output, WithTop(top)), nil
	case FormatJSON:
		return NewFullJSONWriter(output, version, WithPrettyPrint()), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output, WithMarkdownTop(top)), nil
	case FormatPDF:
		return NewPDFWriter(output, WithPDFTop(top)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.AnalysisReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteBatch outputs the reports to all configured Writers.
func (m *MultiWriter) WriteBatch(reports []*model.AnalysisReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteBatch(reports)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// jobStatus summarises how a job ended.
type jobStatus int

const (
	statusComplete jobStatus = iota
	statusPartial
	statusTimedOut
	statusFailed
)

// statusOf classifies report. A job that produced a result but failed a
// later step (typically saving) is partial.
func statusOf(report *model.AnalysisReport) jobStatus {
	switch {
	case report.TimedOut:
		return statusTimedOut
	case !report.Failed():
		return statusComplete
	case report.Analyzed():
		return statusPartial
	default:
		return statusFailed
	}
}

// countFailed returns how many reports did not complete cleanly.
func countFailed(reports []*model.AnalysisReport) int {
	n := 0
	for _, r := range reports {
		if r.Failed() || r.TimedOut {
			n++
		}
	}
	return n
}

// topOf returns at most top ranked entries of report, or nil if the report
// has no result.
func topOf(report *model.AnalysisReport, top int) []model.RankedEntry {
	if !report.Analyzed() {
		return nil
	}
	return report.Result.Top(top)
}
