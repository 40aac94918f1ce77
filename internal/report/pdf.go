package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/nao1215/wordrank/internal/model"
)

// PDF layout in millimetres.
const (
	pdfLineHeight = 6.0
	pdfRankWidth  = 16.0
	pdfWordWidth  = 110.0
	pdfCountWidth = 30.0
	pdfLabelWidth = 40.0
)

// PDFWriter outputs reports as a printable A4 PDF document.
//
// Design decision: The core fonts of gofpdf only cover code page 1252, so
// text is passed through gofpdf's translator. Words outside that code page
// are still counted correctly in every other format.
type PDFWriter struct {
	baseWriter

	// top is the number of ranked words shown. Non-positive shows all.
	top int

	// compress enables stream compression. Tests turn it off to inspect
	// the page content.
	compress bool
}

// PDFWriterOption configures a PDFWriter.
type PDFWriterOption func(*PDFWriter)

// WithPDFTop limits the number of ranked words in the table.
func WithPDFTop(n int) PDFWriterOption {
	return func(w *PDFWriter) {
		w.top = n
	}
}

// WithPDFCompression enables or disables stream compression.
func WithPDFCompression(compress bool) PDFWriterOption {
	return func(w *PDFWriter) {
		w.compress = compress
	}
}

// NewPDFWriter creates a PDFWriter that outputs to the given writer.
func NewPDFWriter(output io.Writer, opts ...PDFWriterOption) *PDFWriter {
	w := &PDFWriter{
		baseWriter: newBaseWriter(output),
		top:        DefaultTop,
		compress:   true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs one report as a PDF document.
func (w *PDFWriter) Write(report *model.AnalysisReport) (int, error) {
	return w.WriteBatch([]*model.AnalysisReport{report})
}

// WriteBatch outputs the reports as one PDF document with one page per URL.
func (w *PDFWriter) WriteBatch(reports []*model.AnalysisReport) (int, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(w.compress)
	pdf.SetTitle("Wordrank Report", true)
	pdf.SetCreator("wordrank", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, report := range reports {
		if report == nil {
			continue
		}
		pdf.AddPage()
		w.writeReport(pdf, tr, report)
	}
	if pdf.PageCount() == 0 {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, pdfLineHeight, "No reports.", "", 1, "L", false, 0, "")
	}

	cw := &countingWriter{w: w.output}
	if err := pdf.Output(cw); err != nil {
		return cw.n, fmt.Errorf("failed to render PDF: %w", err)
	}
	return cw.n, nil
}

// writeReport writes the sections of a single report to the current page.
func (w *PDFWriter) writeReport(pdf *gofpdf.Fpdf, tr func(string) string, report *model.AnalysisReport) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Wordrank Report", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 11)
	w.writeProperty(pdf, tr, "URL", report.URL)
	if report.Title != "" {
		w.writeProperty(pdf, tr, "Title", report.Title)
	}
	w.writeProperty(pdf, tr, "Analyzed", report.DateAnalyzed.Format("2006-01-02 15:04:05 MST"))
	if report.StatusCode != 0 {
		w.writeProperty(pdf, tr, "HTTP Status", strconv.Itoa(report.StatusCode))
	}
	if report.Analyzed() {
		w.writeProperty(pdf, tr, "Words", strconv.Itoa(report.Result.AllWordCounts.Total()))
		w.writeProperty(pdf, tr, "Significant Words", strconv.Itoa(report.Result.SignificantWordCounts.Total()))
	}
	if report.Saved() {
		w.writeProperty(pdf, tr, "Record ID", strconv.FormatInt(report.RecordID, 10))
	}
	w.writeProperty(pdf, tr, "Status", pdfStatusText(report))
	pdf.Ln(4)

	w.writeRanking(pdf, tr, report)
	w.writeFailures(pdf, tr, report)
}

func (w *PDFWriter) writeProperty(pdf *gofpdf.Fpdf, tr func(string) string, label, value string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(pdfLabelWidth, pdfLineHeight, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, pdfLineHeight, tr(value), "", "L", false)
}

// writeRanking writes the ranked words table.
func (w *PDFWriter) writeRanking(pdf *gofpdf.Fpdf, tr func(string) string, report *model.AnalysisReport) {
	entries := topOf(report, w.top)
	if len(entries) == 0 {
		if report.Analyzed() {
			pdf.SetFont("Helvetica", "I", 11)
			pdf.CellFormat(0, pdfLineHeight, "No significant words found.", "", 1, "L", false, 0, "")
		}
		return
	}

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Top Words", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(pdfRankWidth, pdfLineHeight, "Rank", "1", 0, "C", true, 0, "")
	pdf.CellFormat(pdfWordWidth, pdfLineHeight, "Word", "1", 0, "L", true, 0, "")
	pdf.CellFormat(pdfCountWidth, pdfLineHeight, "Count", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for i, e := range entries {
		pdf.CellFormat(pdfRankWidth, pdfLineHeight, strconv.Itoa(i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(pdfWordWidth, pdfLineHeight, tr(e.Word), "1", 0, "L", false, 0, "")
		pdf.CellFormat(pdfCountWidth, pdfLineHeight, strconv.Itoa(e.Count), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

// writeFailures lists failed steps.
func (w *PDFWriter) writeFailures(pdf *gofpdf.Fpdf, tr func(string) string, report *model.AnalysisReport) {
	if !report.Failed() {
		return
	}

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Errors", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, f := range report.Failures {
		pdf.MultiCell(0, pdfLineHeight, tr(fmt.Sprintf("[%s] %s: %s", f.Kind, f.Step, f.Message)), "", "L", false)
	}
}

// pdfStatusText is the plain-text status; the core fonts have no emoji.
func pdfStatusText(report *model.AnalysisReport) string {
	switch statusOf(report) {
	case statusTimedOut:
		return "Timed out (partial results)"
	case statusFailed:
		return "Failed"
	case statusPartial:
		return "Complete with errors"
	default:
		return "Complete"
	}
}

// countingWriter counts the bytes written through it.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
