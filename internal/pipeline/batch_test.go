package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/wordrank/internal/model"
)

// TestBatchProcessorNew tests the BatchProcessor constructor.
func TestBatchProcessorNew(t *testing.T) {
	t.Parallel()

	t.Run("creates processor with defaults", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() })
		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected default concurrency %d, got %d", DefaultConcurrency, bp.concurrency)
		}
		if bp.logger == nil {
			t.Error("expected non-nil logger")
		}
	})

	t.Run("applies WithConcurrency option", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(7))
		if bp.concurrency != 7 {
			t.Errorf("expected concurrency 7, got %d", bp.concurrency)
		}
	})

	t.Run("ignores non-positive concurrency", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(0))
		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected concurrency %d, got %d", DefaultConcurrency, bp.concurrency)
		}
	})
}

// TestBatchProcessorProcessBatch tests batch processing.
func TestBatchProcessorProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("processes all URLs in input order", func(t *testing.T) {
		t.Parallel()

		var processed atomic.Int32
		bp := NewBatchProcessor(func() *Pipeline {
			p := New()
			p.AddStep(&mockStep{
				name: "counter",
				doFunc: func(_ context.Context, _ *model.AnalysisReport) error {
					processed.Add(1)
					return nil
				},
			})
			return p
		})

		urls := []string{"http://a", "http://b", "http://c"}
		reports, err := bp.ProcessBatch(context.Background(), urls)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if processed.Load() != 3 {
			t.Errorf("expected 3 processed, got %d", processed.Load())
		}
		for i, report := range reports {
			if report == nil || report.URL != urls[i] {
				t.Errorf("report %d: expected URL %q, got %+v", i, urls[i], report)
			}
		}
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		t.Parallel()

		var current, peak atomic.Int32
		bp := NewBatchProcessor(func() *Pipeline {
			p := New()
			p.AddStep(&mockStep{
				name: "slow",
				doFunc: func(_ context.Context, _ *model.AnalysisReport) error {
					n := current.Add(1)
					for {
						old := peak.Load()
						if n <= old || peak.CompareAndSwap(old, n) {
							break
						}
					}
					time.Sleep(20 * time.Millisecond)
					current.Add(-1)
					return nil
				},
			})
			return p
		}, WithConcurrency(2))

		urls := make([]string, 8)
		for i := range urls {
			urls[i] = "http://x"
		}
		if _, err := bp.ProcessBatch(context.Background(), urls); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if peak.Load() > 2 {
			t.Errorf("expected at most 2 concurrent jobs, saw %d", peak.Load())
		}
	})

	t.Run("a failing job does not stop the others", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline {
			p := New()
			p.AddStep(&mockStep{
				name: "maybe-fail",
				doFunc: func(_ context.Context, report *model.AnalysisReport) error {
					if report.URL == "http://bad" {
						return errors.New("bad URL")
					}
					return nil
				},
			})
			return p
		})

		reports, err := bp.ProcessBatch(context.Background(), []string{"http://good", "http://bad", "http://good2"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reports[0].Failed() || reports[2].Failed() {
			t.Error("good jobs should not have failed")
		}
		if !reports[1].Failed() {
			t.Error("bad job should have recorded a failure")
		}
	})

	t.Run("cancelled context returns error", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		bp := NewBatchProcessor(func() *Pipeline { return New() })
		_, err := bp.ProcessBatch(ctx, []string{"http://a", "http://b"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() })
		reports, err := bp.ProcessBatch(context.Background(), nil)
		if err != nil || len(reports) != 0 {
			t.Errorf("expected no reports and no error, got %v, %v", reports, err)
		}
	})
}

// TestBatchProcessorProcessBatchWithCallback tests streaming results.
func TestBatchProcessorProcessBatchWithCallback(t *testing.T) {
	t.Parallel()

	bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(3))

	var mu sync.Mutex
	seen := make(map[int]string)
	urls := []string{"http://a", "http://b", "http://c", "http://d"}

	err := bp.ProcessBatchWithCallback(context.Background(), urls, func(report *model.AnalysisReport, index int) {
		mu.Lock()
		defer mu.Unlock()
		seen[index] = report.URL
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seen) != len(urls) {
		t.Fatalf("expected %d callbacks, got %d", len(urls), len(seen))
	}
	for i, u := range urls {
		if seen[i] != u {
			t.Errorf("index %d: expected %q, got %q", i, u, seen[i])
		}
	}
}
