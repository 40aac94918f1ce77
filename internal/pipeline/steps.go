package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nao1215/wordrank/internal/analysis"
	"github.com/nao1215/wordrank/internal/database"
	"github.com/nao1215/wordrank/internal/extract"
	"github.com/nao1215/wordrank/internal/fetch"
	"github.com/nao1215/wordrank/internal/model"
)

// Step names, as recorded in reports.
const (
	StepFetch   = "fetch"
	StepAnalyze = "analyze"
	StepSave    = "save"
)

// Fetcher downloads a page. *fetch.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*model.Page, error)
}

// ResultStore persists analysis results. *database.DB implements it.
type ResultStore interface {
	SaveResult(ctx context.Context, record *database.ResultRecord) (int64, error)
	LatestResultByHash(ctx context.Context, url, hash string) (*database.ResultRecord, error)
}

// FetchStep downloads the report's URL.
type FetchStep struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// FetchStepOption configures a FetchStep.
type FetchStepOption func(*FetchStep)

// WithFetchLogger sets a custom logger for the fetch step.
func WithFetchLogger(logger *slog.Logger) FetchStepOption {
	return func(s *FetchStep) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewFetchStep creates a fetch step using fetcher.
func NewFetchStep(fetcher Fetcher, opts ...FetchStepOption) *FetchStep {
	s := &FetchStep{
		fetcher: fetcher,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return StepFetch
}

// Do fetches the page and stores it on the report.
func (s *FetchStep) Do(ctx context.Context, report *model.AnalysisReport) error {
	page, err := s.fetcher.Fetch(ctx, report.URL)
	if err != nil {
		var fe *fetch.Error
		if errors.As(err, &fe) {
			report.StatusCode = fe.StatusCode
			report.ContentType = fe.ContentType
		}
		return err
	}

	report.Page = page
	report.StatusCode = page.StatusCode
	report.ContentType = page.ContentType

	s.logger.Debug("page fetched",
		"url", report.URL,
		"final_url", page.FinalURL,
		"bytes", len(page.Raw),
		"truncated", page.Truncated,
	)

	return nil
}

// AnalyzeStep counts the words of the fetched page.
type AnalyzeStep struct {
	analyzer *analysis.Analyzer
}

// NewAnalyzeStep creates an analyze step using analyzer.
func NewAnalyzeStep(analyzer *analysis.Analyzer) *AnalyzeStep {
	return &AnalyzeStep{analyzer: analyzer}
}

// Name returns the step name.
func (s *AnalyzeStep) Name() string {
	return StepAnalyze
}

// Do analyses the page fetched by an earlier step.
// HTML is reduced to its visible text first; plain text is analysed as is.
// It returns ErrSkip if nothing was fetched.
func (s *AnalyzeStep) Do(_ context.Context, report *model.AnalysisReport) error {
	if !report.Fetched() {
		return ErrSkip
	}

	body := report.Page.Body()
	if report.Page.IsHTML() {
		doc := extract.FromHTML(body)
		report.Title = doc.Title
		report.Result = s.analyzer.AnalyzeText(doc.Text, report.URL)
		return nil
	}

	report.Result = s.analyzer.AnalyzeText(body, report.URL)
	return nil
}

// SaveStep persists the analysis result.
type SaveStep struct {
	store         ResultStore
	skipUnchanged bool
	logger        *slog.Logger
}

// SaveStepOption configures a SaveStep.
type SaveStepOption func(*SaveStep)

// WithSkipUnchanged makes the step reuse the newest stored result when the
// page content hash has not changed since it was saved, instead of
// inserting a duplicate row.
func WithSkipUnchanged(skip bool) SaveStepOption {
	return func(s *SaveStep) {
		s.skipUnchanged = skip
	}
}

// WithSaveLogger sets a custom logger for the save step.
func WithSaveLogger(logger *slog.Logger) SaveStepOption {
	return func(s *SaveStep) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSaveStep creates a save step writing to store.
func NewSaveStep(store ResultStore, opts ...SaveStepOption) *SaveStep {
	s := &SaveStep{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *SaveStep) Name() string {
	return StepSave
}

// Do saves the result and records its ID on the report.
// A storage failure is returned but the result stays on the report.
// It returns ErrSkip if there is no result.
func (s *SaveStep) Do(ctx context.Context, report *model.AnalysisReport) error {
	if !report.Analyzed() {
		return ErrSkip
	}

	hash := ""
	if report.Page != nil {
		hash = report.Page.Hash
	}

	if s.skipUnchanged && hash != "" {
		existing, err := s.store.LatestResultByHash(ctx, report.URL, hash)
		switch {
		case err == nil:
			s.logger.Debug("content unchanged, reusing stored result",
				"url", report.URL,
				"id", existing.ID,
			)
			report.RecordID = existing.ID
			return nil
		case !errors.Is(err, database.ErrNotFound):
			return err
		}
	}

	record := database.NewResultRecord(report.Result)
	record.Title = report.Title
	record.ContentHash = hash

	id, err := s.store.SaveResult(ctx, record)
	if err != nil {
		return err
	}
	report.RecordID = id

	return nil
}

// DefaultPipeline creates the standard fetch, analyze and save pipeline.
// A nil store leaves out the save step.
func DefaultPipeline(fetcher Fetcher, analyzer *analysis.Analyzer, store ResultStore, pipelineOpts []Option, saveOpts ...SaveStepOption) *Pipeline {
	p := New(pipelineOpts...)

	p.AddSteps(
		NewFetchStep(fetcher, WithFetchLogger(p.logger)),
		NewAnalyzeStep(analyzer),
	)
	if store != nil {
		saveOpts = append([]SaveStepOption{WithSaveLogger(p.logger)}, saveOpts...)
		p.AddStep(NewSaveStep(store, saveOpts...))
	}

	return p
}
