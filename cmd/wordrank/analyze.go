package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/wordrank/internal/config"
	"github.com/nao1215/wordrank/internal/fetch"
	"github.com/nao1215/wordrank/internal/model"
	"github.com/nao1215/wordrank/internal/pipeline"
	"github.com/nao1215/wordrank/internal/report"
)

// errJobsFailed is returned after the report was written when at least one
// URL could not be fully processed, so that the exit status is non-zero.
var errJobsFailed = errors.New("not every URL could be analysed")

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <url>...",
		Short: "Fetch web pages and rank their words",
		Long: `Analyze fetches each URL, extracts the visible text of the page and
counts its words. Words on the stop-word list ("the", "and", ...) are left
out of the ranking. Every result is saved to the local database unless
--no-save is given.

URLs without a scheme are fetched over https.

Examples:
  # Rank the words of one page
  wordrank analyze https://go.dev

  # Analyse several pages, four at a time, and write a Markdown report
  wordrank analyze --markdown -o report.md https://go.dev https://pkg.go.dev

  # Write a printable PDF report
  wordrank analyze --pdf -o report.pdf https://go.dev

  # Show all ranked words as JSON without saving
  wordrank analyze --json --top 0 --no-save go.dev

  # Use a custom stop-word list and accept non-ASCII words
  wordrank analyze --stop-words stop.txt --alphabet unicode https://example.com

Configuration file (.wordrank) example:
  analysis:
    extraStopWords: [lorem, ipsum]
  sites:
    example.com:
      cookie: "session_id=abc123"
      headers:
        Accept-Language: "en"`,
		Args: cobra.ArbitraryArgs,
		RunE: runAnalyzeCmd,
	}

	// Fetch behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout of each fetch attempt")
	cmd.Flags().Int("retries", config.DefaultRetries,
		"Extra attempts on temporary fetch failures")
	cmd.Flags().String("user-agent", "",
		"User-Agent header (default: "+config.DefaultUserAgent+")")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum number of bytes read per page")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of URLs analysed concurrently")

	// Analysis flags
	cmd.Flags().String("alphabet", config.DefaultAlphabet,
		`Letters that make up a word: "ascii" or "unicode"`)
	cmd.Flags().String("stop-words", "",
		"Stop-word file replacing the built-in list (one word per line)")
	cmd.Flags().StringSlice("extra-stop-words", nil,
		"Additional stop words (comma separated)")

	// Storage flags
	cmd.Flags().Bool("no-save", false,
		"Do not save results to the database")
	cmd.Flags().Bool("skip-unchanged", false,
		"Reuse the stored result when the page content has not changed")
	addDBDirFlag(cmd)
	addConfigFlag(cmd)

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown and --pdf)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json and --pdf)")
	cmd.Flags().Bool("pdf", false,
		"Output PDF report to the file given with --output")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().IntP("top", "n", config.DefaultTop,
		"Number of ranked words shown in text and Markdown reports (0 = all)")

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg)
	slog.SetDefault(logger)

	// Cancel running fetches on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runAnalyze(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// buildConfig creates a Config from cobra command flags and the
// configuration file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.Retries, err = cmd.Flags().GetInt("retries")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.Alphabet, err = cmd.Flags().GetString("alphabet")
	if err != nil {
		return nil, err
	}

	cfg.StopWordsFile, err = cmd.Flags().GetString("stop-words")
	if err != nil {
		return nil, err
	}

	cfg.ExtraStopWords, err = cmd.Flags().GetStringSlice("extra-stop-words")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave

	cfg.SkipUnchanged, err = cmd.Flags().GetBool("skip-unchanged")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.PDFReport, err = cmd.Flags().GetBool("pdf")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Top, err = cmd.Flags().GetInt("top")
	if err != nil {
		return nil, err
	}

	if err := applyDBDirFlag(cmd, cfg); err != nil {
		return nil, err
	}

	// File values fill in whatever was not given on the command line.
	if err := applyConfigFile(cmd, cfg); err != nil {
		return nil, err
	}

	cfg.Targets = args

	return cfg, nil
}

// runAnalyze analyses every target and writes the report to stdout or
// cfg.ReportFile. Progress is shown on stderr when it is a terminal.
func runAnalyze(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer, logger *slog.Logger) error {
	if len(cfg.Targets) == 0 {
		return errors.New("no targets provided (specify one or more URLs as arguments)")
	}

	analyzer, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}

	// Left as a nil interface when saving is disabled so that the
	// pipeline has no save step.
	var store pipeline.ResultStore
	if cfg.SaveToDB {
		db, err := openDB(cfg.DBDir)
		if err != nil {
			return err
		}
		defer db.Close()
		store = db
		logger.Info("database opened", "path", db.Path())
	}

	logger.Info("starting analysis",
		"targets", len(cfg.Targets),
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	client := fetch.NewClient(cfg.FetchOptions()...)
	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.DefaultPipeline(client, analyzer, store,
				[]pipeline.Option{
					pipeline.WithLogger(logger),
					pipeline.WithContinueOnError(true),
				},
				pipeline.WithSkipUnchanged(cfg.SkipUnchanged),
			)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Verbose logs go to stderr as well, so the spinner stays off then.
	var prog *progress
	if !cfg.Verbose {
		prog = newProgress(stderr, len(cfg.Targets))
	}

	reports := make([]*model.AnalysisReport, len(cfg.Targets))
	startTime := time.Now()
	prog.start()
	batchErr := bp.ProcessBatchWithCallback(ctx, cfg.Targets, func(r *model.AnalysisReport, i int) {
		reports[i] = r
		prog.step(r.URL)
	})
	prog.stop()
	logger.Info("analysis finished", "elapsed", time.Since(startTime).Round(time.Millisecond))

	// Jobs that never started after cancellation have no report.
	done := make([]*model.AnalysisReport, 0, len(reports))
	for _, r := range reports {
		if r != nil {
			done = append(done, r)
		}
	}

	if err := outputReports(cfg, stdout, done); err != nil {
		return err
	}
	if batchErr != nil {
		return fmt.Errorf("analysis interrupted: %w", batchErr)
	}

	for _, r := range done {
		if r.Failed() {
			return errJobsFailed
		}
	}
	return nil
}

// outputReports writes reports in the requested format. A single report is
// written on its own; several are written as one batch document.
func outputReports(cfg *config.Config, stdout io.Writer, reports []*model.AnalysisReport) error {
	output := stdout
	if cfg.ReportFile != "" {
		f, err := createReportFile(cfg.ReportFile)
		if err != nil {
			return err
		}
		defer f.Close()
		output = f
	}

	writer, err := report.NewWriter(output, cfg.ReportFormat(), cfg.Top, getVersion())
	if err != nil {
		return err
	}

	if len(reports) == 1 {
		_, err = writer.Write(reports[0])
	} else {
		_, err = writer.WriteBatch(reports)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// createReportFile creates path and its parent directories.
func createReportFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports can include page titles of authenticated sites, so keep them
	// readable by the owner only.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}
