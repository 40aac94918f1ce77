package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/wordrank/internal/model"
)

// maxChartSlices caps the pie chart so that it stays readable.
const maxChartSlices = 10

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables and mermaid charts
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter

	// top is the number of ranked words shown. Non-positive shows all.
	top int
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownTop limits the number of ranked words in the table.
func WithMarkdownTop(n int) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.top = n
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		top:        DefaultTop,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs one report as a Markdown document.
func (w *MarkdownWriter) Write(report *model.AnalysisReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Wordrank Report")
	md.PlainText("")
	w.writeReport(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteBatch outputs all reports as one Markdown document with an overview
// table followed by one section per URL.
func (w *MarkdownWriter) WriteBatch(reports []*model.AnalysisReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Wordrank Report")
	md.PlainText("")
	w.writeOverview(md, reports)

	for _, report := range reports {
		if report == nil {
			continue
		}
		md.H2(escapeCell(report.URL))
		md.PlainText("")
		w.writeReport(md, report)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeOverview writes one row per job.
func (w *MarkdownWriter) writeOverview(md *markdown.Markdown, reports []*model.AnalysisReport) {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		if r == nil {
			continue
		}
		topWord := "-"
		if entries := topOf(r, 1); len(entries) > 0 {
			topWord = "`" + entries[0].Word + "` (" + strconv.Itoa(entries[0].Count) + ")"
		}
		rows = append(rows, []string{escapeCell(r.URL), topWord, w.getStatusText(r)})
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Top Word", "Status"},
		Rows:   rows,
	})
	md.PlainText("")

	if failed := countFailed(reports); failed > 0 {
		md.Warningf("%d of %d URL(s) could not be fully processed.", failed, len(reports))
		md.PlainText("")
	}
}

// writeReport writes the sections of a single report.
func (w *MarkdownWriter) writeReport(md *markdown.Markdown, report *model.AnalysisReport) {
	w.writeHeader(md, report)
	w.writeAlert(md, report)
	w.writeRanking(md, report)
	w.writeFailures(md, report)
}

// writeHeader writes the job information table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.AnalysisReport) {
	rows := [][]string{
		{"URL", "`" + report.URL + "`"},
	}
	if report.Title != "" {
		rows = append(rows, []string{"Title", escapeCell(report.Title)})
	}
	rows = append(rows, []string{"Analyzed", report.DateAnalyzed.Format("2006-01-02 15:04:05 MST")})
	if report.StatusCode != 0 {
		rows = append(rows, []string{"HTTP Status", strconv.Itoa(report.StatusCode)})
	}
	if report.Analyzed() {
		rows = append(rows,
			[]string{"Words", strconv.Itoa(report.Result.AllWordCounts.Total())},
			[]string{"Distinct Words", strconv.Itoa(report.Result.AllWordCounts.Len())},
			[]string{"Significant Words", strconv.Itoa(report.Result.SignificantWordCounts.Total())},
		)
	}
	if report.Saved() {
		rows = append(rows, []string{"Record ID", strconv.FormatInt(report.RecordID, 10)})
	}
	rows = append(rows, []string{"Status", w.getStatusText(report)})

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.AnalysisReport) string {
	switch statusOf(report) {
	case statusTimedOut:
		return "⚠️ Timed Out (partial results)"
	case statusFailed:
		return "❌ Failed"
	case statusPartial:
		return "⚠️ Complete with errors"
	default:
		return "✅ Complete"
	}
}

// writeAlert writes an alert describing the outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.AnalysisReport) {
	switch {
	case statusOf(report) == statusFailed:
		md.Cautionf("The page could not be analysed: %s", escapeCell(report.Failures[0].Message))
	case report.TimedOut:
		md.Warningf("The job was cancelled before it finished.")
	case report.Failed():
		md.Importantf("The analysis succeeded but %d step(s) failed.", len(report.Failures))
	case report.Analyzed() && report.Result.IsEmpty():
		md.Note("The page contains no words.")
	case report.Analyzed() && len(report.Result.Ranked) == 0:
		md.Note("The page contains only stop words.")
	default:
		return
	}
	md.PlainText("")
}

// writeRanking writes the ranked words table and a pie chart.
func (w *MarkdownWriter) writeRanking(md *markdown.Markdown, report *model.AnalysisReport) {
	entries := topOf(report, w.top)
	if len(entries) == 0 {
		return
	}

	md.H3("Top Words")
	md.PlainText("")

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{strconv.Itoa(i + 1), "`" + e.Word + "`", strconv.Itoa(e.Count)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Rank", "Word", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, entries)
}

// writePieChart writes a mermaid pie chart of the most frequent words.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, entries []model.RankedEntry) {
	if len(entries) > maxChartSlices {
		entries = entries[:maxChartSlices]
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Word Frequency"),
		piechart.WithShowData(true),
	)
	for _, e := range entries {
		chart.LabelAndIntValue(e.Word, uint64(e.Count)) //nolint:gosec // counts are positive
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFailures writes a table of failed steps.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, report *model.AnalysisReport) {
	if !report.Failed() {
		return
	}

	md.H3("Errors")
	md.PlainText("")

	rows := make([][]string, len(report.Failures))
	for i, f := range report.Failures {
		rows[i] = []string{f.Step, "`" + string(f.Kind) + "`", escapeCell(truncateString(f.Message, 80))}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Step", "Kind", "Message"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [wordrank](https://github.com/nao1215/wordrank)*")
}

// escapeCell makes s safe to place in a table cell.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
