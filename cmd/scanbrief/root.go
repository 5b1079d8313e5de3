package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/scanbrief/scanbrief/internal/log"
)

// NewRootCmd creates the root command for scanbrief.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scanbrief",
		Short: "Turn vulnerability scanner CSV exports into readable reports",
		Long: `scanbrief ingests vulnerability scanner CSV exports and produces
executive summaries, per-host rollups, and sorted detailed findings in
CSV, Markdown, HTML, and JSON formats.

Use 'scanbrief generate' to process one or more export files, or
'scanbrief serve' to run the upload portal.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewMergeCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewHistoryCmd())
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

// setupLogger creates a structured logger based on verbosity setting.
// Long attribute values are capped so one oversized description cell
// cannot flood the terminal.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewLogger(os.Stderr, verbose)
}
