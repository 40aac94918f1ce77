package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/wordrank/internal/config"
	"github.com/nao1215/wordrank/internal/fetch"
	wrlog "github.com/nao1215/wordrank/internal/log"
	"github.com/nao1215/wordrank/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web interface",
		Long: `Serve starts an HTTP server with a form for analysing a URL and a small
JSON API:

  GET  /              analysis form
  POST /              analyse the submitted url
  GET  /app-version   version information
  GET  /users         list users (?limit=N)
  POST /users         create a user ({"username": ..., "email": ...})
  GET  /results       list stored analyses (?url=...&limit=N)
  GET  /results/{id}  one stored analysis

Access logs are written to stderr as JSON.

Examples:
  # Listen on the default address
  wordrank serve

  # Listen on all interfaces
  wordrank serve --addr :8080`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", config.DefaultAddr,
		"Listen address")
	cmd.Flags().IntP("top", "n", config.DefaultTop,
		"Number of ranked words shown on the result page (0 = all)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout of each fetch attempt")
	cmd.Flags().String("user-agent", "",
		"User-Agent header (default: "+config.DefaultUserAgent+")")
	cmd.Flags().String("alphabet", config.DefaultAlphabet,
		`Letters that make up a word: "ascii" or "unicode"`)
	cmd.Flags().String("stop-words", "",
		"Stop-word file replacing the built-in list (one word per line)")
	cmd.Flags().Bool("skip-unchanged", false,
		"Reuse the stored result when the page content has not changed")
	addDBDirFlag(cmd)
	addConfigFlag(cmd)

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildServeConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.ValidateOptions(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := wrlog.NewSecureServerLogger(os.Stderr, cfg.Verbose,
		wrlog.WithSensitiveKeys(cfg.SensitiveHeaders()...))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runServe(ctx, cfg, cmd.OutOrStdout(), logger)
}

// buildServeConfig creates a Config for the serve command.
func buildServeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	cfg.Addr, err = cmd.Flags().GetString("addr")
	if err != nil {
		return nil, err
	}

	cfg.Top, err = cmd.Flags().GetInt("top")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
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

	cfg.SkipUnchanged, err = cmd.Flags().GetBool("skip-unchanged")
	if err != nil {
		return nil, err
	}

	if err := applyDBDirFlag(cmd, cfg); err != nil {
		return nil, err
	}
	if err := applyConfigFile(cmd, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// runServe serves until ctx is cancelled.
func runServe(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger) error {
	analyzer, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}

	db, err := openDB(cfg.DBDir)
	if err != nil {
		return err
	}
	defer db.Close()

	srv := server.New(
		fetch.NewClient(cfg.FetchOptions()...),
		analyzer,
		db,
		server.WithLogger(logger),
		server.WithVersion(getVersion()),
		server.WithTop(cfg.Top),
		server.WithSkipUnchanged(cfg.SkipUnchanged),
	)

	return srv.ListenAndServe(ctx, cfg.Addr, func(addr net.Addr) {
		fmt.Fprintf(stdout, "Listening on http://%s (press Ctrl+C to stop)\n", addr)
	})
}
