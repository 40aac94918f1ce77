package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nao1215/wordrank/internal/database"
	"github.com/nao1215/wordrank/internal/fetch"
	"github.com/nao1215/wordrank/internal/model"
)

// ErrSkip is returned by a step whose input is not available, for example
// the analyze step after a failed fetch. A skipped step is neither a
// failure nor a performed step.
var ErrSkip = errors.New("step skipped")

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the report
// built by previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state (clients, stores)
// 2. It provides a Name() method for logging and failure records
type Step interface {
	// Do executes the pipeline step.
	// It returns an error if the step fails; the pipeline records it on
	// the report as a model.Failure.
	Do(ctx context.Context, report *model.AnalysisReport) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. Failed steps are logged and recorded in the
// report, but subsequent steps still execute.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:           make([]Step, 0),
		continueOnError: false,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
//
// Every failing step is recorded on the report with its FailureKind.
// Execute returns the first error if continueOnError is false, or nil if
// all steps ran. Cancellation is checked before each step; steps handle
// their own deadlines.
func (p *Pipeline) Execute(ctx context.Context, report *model.AnalysisReport) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			report.TimedOut = true
			report.AddFailure(step.Name(), FailureKindOf(ctx.Err()), ctx.Err())
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"url", report.URL,
		)

		err := step.Do(ctx, report)
		if errors.Is(err, ErrSkip) {
			p.logger.Debug("step skipped",
				"step", step.Name(),
				"url", report.URL,
			)
			continue
		}
		if err != nil {
			kind := FailureKindOf(err)
			p.logger.Error("step failed",
				"step", step.Name(),
				"url", report.URL,
				"kind", string(kind),
				"error", err,
			)

			report.AddFailure(step.Name(), kind, err)
			if ctx.Err() != nil {
				report.TimedOut = true
			}

			if !p.continueOnError {
				return err
			}
		} else {
			p.logger.Debug("step completed",
				"step", step.Name(),
				"url", report.URL,
			)
		}

		report.PerformedSteps = append(report.PerformedSteps, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}

// FailureKindOf classifies a step error.
func FailureKindOf(err error) model.FailureKind {
	switch {
	case err == nil:
		return model.FailureUnknown
	case fetch.KindOf(err) != model.FailureUnknown:
		return fetch.KindOf(err)
	case errors.Is(err, database.ErrStore), errors.Is(err, database.ErrConflict):
		return model.FailureStorage
	case errors.Is(err, context.Canceled):
		return model.FailureCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return model.FailureTimeout
	default:
		return model.FailureUnknown
	}
}
