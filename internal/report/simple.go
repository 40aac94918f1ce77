package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/wordrank/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
type SimpleWriter struct {
	baseWriter

	// top is the number of ranked words shown. Non-positive shows all.
	top int

	// showEmpty controls whether sections with no content are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithTop limits the number of ranked words shown.
// A non-positive n shows every ranked word.
func WithTop(n int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.top = n
	}
}

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		top:        DefaultTop,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs one report in human-readable format.
func (w *SimpleWriter) Write(report *model.AnalysisReport) (int, error) {
	var sb strings.Builder

	w.writeReport(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteBatch outputs all reports followed by a one-line summary.
func (w *SimpleWriter) WriteBatch(reports []*model.AnalysisReport) (int, error) {
	var sb strings.Builder

	for _, report := range reports {
		if report == nil {
			continue
		}
		w.writeReport(&sb, report)
	}

	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Analyzed %d URL(s), %d with errors\n", len(reports), countFailed(reports))
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeReport writes every section of a single report.
func (w *SimpleWriter) writeReport(sb *strings.Builder, report *model.AnalysisReport) {
	w.writeHeader(sb, report)
	w.writeSummary(sb, report)
	w.writeRanking(sb, report)
	w.writeFailures(sb, report)
}

// writeHeader writes the report header with job information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.AnalysisReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         WORDRANK REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "URL:            %s\n", report.URL)
	if report.Title != "" {
		fmt.Fprintf(sb, "Title:          %s\n", report.Title)
	}
	fmt.Fprintf(sb, "Analyzed:       %s\n", report.DateAnalyzed.Format("2006-01-02 15:04:05 MST"))
	if report.StatusCode != 0 {
		fmt.Fprintf(sb, "HTTP Status:    %d\n", report.StatusCode)
	}

	switch statusOf(report) {
	case statusTimedOut:
		sb.WriteString("Status:         TIMED OUT (partial results)\n")
	case statusFailed:
		sb.WriteString("Status:         FAILED\n")
	case statusPartial:
		sb.WriteString("Status:         Complete with errors\n")
	default:
		sb.WriteString("Status:         Complete\n")
	}

	if w.verbose {
		if report.Saved() {
			fmt.Fprintf(sb, "Record ID:      %d\n", report.RecordID)
		}
		if len(report.PerformedSteps) > 0 {
			fmt.Fprintf(sb, "Steps:          %s\n", strings.Join(report.PerformedSteps, ", "))
		}
	}

	sb.WriteString("\n")
}

// writeSummary writes the word totals.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.AnalysisReport) {
	if !report.Analyzed() {
		return
	}

	result := report.Result
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "  WORDS:        %d\n", result.AllWordCounts.Total())
	fmt.Fprintf(sb, "  DISTINCT:     %d\n", result.AllWordCounts.Len())
	fmt.Fprintf(sb, "  SIGNIFICANT:  %d\n", result.SignificantWordCounts.Total())
	sb.WriteString("\n")
}

// writeRanking writes the top ranked words as an aligned table.
func (w *SimpleWriter) writeRanking(sb *strings.Builder, report *model.AnalysisReport) {
	entries := topOf(report, w.top)
	if len(entries) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("TOP WORDS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(entries) == 0 {
		sb.WriteString("  No significant words found\n\n")
		return
	}

	width := 0
	for _, e := range entries {
		width = max(width, utf8.RuneCountInString(e.Word))
	}

	for i, e := range entries {
		pad := strings.Repeat(" ", width-utf8.RuneCountInString(e.Word))
		fmt.Fprintf(sb, "  %3d. %s%s  %d\n", i+1, e.Word, pad, e.Count)
	}
	if total := len(report.Result.Ranked); total > len(entries) {
		fmt.Fprintf(sb, "  ... %d more\n", total-len(entries))
	}
	sb.WriteString("\n")
}

// writeFailures writes the failed steps of the job.
func (w *SimpleWriter) writeFailures(sb *strings.Builder, report *model.AnalysisReport) {
	if !report.Failed() && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("ERRORS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if !report.Failed() {
		sb.WriteString("  No errors\n\n")
		return
	}

	for _, f := range report.Failures {
		fmt.Fprintf(sb, "  [%s] %s: %s\n", f.Kind, f.Step, f.Message)
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by wordrank\n")
	sb.WriteString("https://github.com/nao1215/wordrank\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
