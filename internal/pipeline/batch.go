package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/wordrank/internal/model"
)

// DefaultConcurrency is the number of jobs run at once unless configured.
const DefaultConcurrency = 4

// BatchProcessor analyses many URLs concurrently.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-job execution
// 2. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each job.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent jobs.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent jobs.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each job to create a fresh
// pipeline instance, so no pipeline state leaks between jobs.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch analyses urls concurrently and returns one report per URL,
// in input order. A failed job does not stop the others; its failures are
// recorded on its report. The error is non-nil only if ctx was cancelled,
// in which case reports of jobs that never started are nil.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, urls []string) ([]*model.AnalysisReport, error) {
	results := make([]*model.AnalysisReport, len(urls))

	err := bp.ProcessBatchWithCallback(ctx, urls, func(report *model.AnalysisReport, index int) {
		// Each index is written by exactly one goroutine.
		results[index] = report
	})

	return results, err
}

// ProcessBatchWithCallback analyses urls and calls callback for each
// finished job. This is useful for streaming results.
//
// The callback is called from the goroutine that ran the job, so it must
// be safe for concurrent use if it touches shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	urls []string,
	callback func(report *model.AnalysisReport, index int),
) error {
	bp.logger.Info("starting batch",
		"total", len(urls),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, url := range urls {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("analyzing",
				"url", url,
				"index", i+1,
				"total", len(urls),
			)

			report := model.NewAnalysisReport(url)
			if err := bp.pipelineFactory().Execute(ctx, report); err != nil {
				// Recorded on the report; other jobs keep going.
				bp.logger.Warn("job failed",
					"url", url,
					"error", err,
				)
			}

			callback(report, i)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch complete",
		"total", len(urls),
		"elapsed", time.Since(startTime),
	)

	return err
}
