// Package main provides the entry point for the wordrank CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for wordrank.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordrank",
		Short: "Rank the most frequent words of web pages",
		Long: `wordrank fetches web pages, extracts their visible text and ranks the
words by frequency, leaving out common English stop words.

Results are stored in a local SQLite database so that earlier analyses can
be listed with 'wordrank history'. 'wordrank serve' offers the same
analysis through a web form and a small JSON API.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewUsersCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
