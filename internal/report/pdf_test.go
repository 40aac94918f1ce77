package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nao1215/wordrank/internal/model"
)

// TestPDFWriter tests the PDF report writer.
func TestPDFWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes a PDF document", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewPDFWriter(&buf).Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
			t.Errorf("output does not start with a PDF header: %q", buf.Bytes()[:min(buf.Len(), 16)])
		}
		if n != buf.Len() {
			t.Errorf("expected %d bytes, got %d", buf.Len(), n)
		}
	})

	t.Run("uncompressed content holds ranked words", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewPDFWriter(&buf, WithPDFCompression(false), WithPDFTop(1))
		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "(cat)") {
			t.Error("expected top word in page content")
		}
		if strings.Contains(out, "(sat)") {
			t.Error("expected ranking to be limited to one word")
		}
		if !strings.Contains(out, "(Complete)") {
			t.Error("expected status in page content")
		}
	})

	t.Run("failed report lists errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewPDFWriter(&buf, WithPDFCompression(false))
		if _, err := w.Write(createFailedReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "(Failed)") {
			t.Error("expected failed status")
		}
		if !strings.Contains(out, "unexpected HTTP status 404") {
			t.Error("expected failure message")
		}
	})

	t.Run("batch has one page per report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewPDFWriter(&buf, WithPDFCompression(false))
		reports := []*model.AnalysisReport{createTestReport(), nil, createFailedReport()}
		if _, err := w.WriteBatch(reports); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// Every page starts with the report heading.
		if got := strings.Count(buf.String(), "(Wordrank Report)"); got != 2 {
			t.Errorf("expected 2 pages, got %d", got)
		}
	})

	t.Run("empty batch still renders", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewPDFWriter(&buf, WithPDFCompression(false)).WriteBatch(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "(No reports.)") {
			t.Error("expected placeholder text")
		}
	})
}
