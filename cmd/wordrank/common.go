package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/wordrank/internal/analysis"
	"github.com/nao1215/wordrank/internal/config"
	"github.com/nao1215/wordrank/internal/database"
	wrlog "github.com/nao1215/wordrank/internal/log"
)

// Flag names shared by several commands.
const (
	flagConfig = "config"
	flagDBDir  = "db-dir"
)

// addConfigFlag registers --config on cmd.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().StringP(flagConfig, "c", "",
		"Configuration file path (default: .wordrank in current or home directory)")
}

// addDBDirFlag registers --db-dir on cmd.
func addDBDirFlag(cmd *cobra.Command) {
	cmd.Flags().String(flagDBDir, "",
		"Database directory (default: $XDG_DATA_HOME/wordrank)")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a structured logger based on the verbosity setting.
// Secrets, contact data and the custom headers of the configuration file
// are redacted from every record.
func setupLogger(cfg *config.Config) *slog.Logger {
	return wrlog.NewSecureLogger(os.Stderr, cfg.Verbose,
		wrlog.WithSensitiveKeys(cfg.SensitiveHeaders()...))
}

// applyConfigFile loads the configuration file named by --config (or the
// first one found) into cfg. Values of flags set on the command line win.
func applyConfigFile(cmd *cobra.Command, cfg *config.Config) error {
	path, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return err
	}
	cfg.ConfigFilePath = path

	file, found, err := config.Load(path)
	if err != nil {
		if found != "" {
			return fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		return err
	}
	cfg.ApplyFile(file, cmd.Flags().Changed)
	return nil
}

// applyDBDirFlag overrides cfg.DBDir with --db-dir when given.
func applyDBDirFlag(cmd *cobra.Command, cfg *config.Config) error {
	dir, err := cmd.Flags().GetString(flagDBDir)
	if err != nil {
		return err
	}
	if dir != "" {
		cfg.DBDir = dir
	}
	return nil
}

// openDB opens the result database in dir.
func openDB(dir string) (*database.DB, error) {
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// newAnalyzer loads the stop-word list and builds the analyzer.
// A stop-word list that cannot be loaded aborts the command before any
// page is fetched.
func newAnalyzer(cfg *config.Config) (*analysis.Analyzer, error) {
	sw, err := cfg.StopWordSource().Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load stop words: %w", err)
	}
	return analysis.New(sw, analysis.WithAlphabet(cfg.AlphabetPolicy())), nil
}
