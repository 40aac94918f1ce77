package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/wordrank/internal/config"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new wordrank configuration file",
		Long: `Initialize creates a new .wordrank configuration file in the current
directory, or the per-user configuration file with --global.

The generated file includes:
- Default analysis settings (alphabet, stop words, report size, timeout)
- The listen address of 'wordrank serve'
- Commented examples for site-specific request settings

Examples:
  # Create .wordrank in current directory
  wordrank init

  # Create config file at a specific path
  wordrank init -o myconfig.yaml

  # Create $XDG_CONFIG_HOME/wordrank/config.yaml, used from any directory
  wordrank init --global

  # Force overwrite existing file
  wordrank init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")
	cmd.Flags().BoolP("global", "g", false,
		"Write the per-user file "+config.XDGConfigFile())
	cmd.MarkFlagsMutuallyExclusive("output", "global")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	global, err := cmd.Flags().GetBool("global")
	if err != nil {
		return err
	}
	if global {
		outputPath = config.XDGConfigFile()
	}

	if err := config.WriteTemplate(outputPath, force); err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to configure settings such as:")
	fmt.Fprintln(out, "  - Extra stop words and the word alphabet")
	fmt.Fprintln(out, "  - Cookies and headers for single sites")
	fmt.Fprintln(out, "  - The listen address of 'wordrank serve'")

	return nil
}
