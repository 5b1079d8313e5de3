package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scanbrief/scanbrief/internal/merge"
)

// defaultMergeOutput is the output path when --output is not given.
const defaultMergeOutput = "merged_scan.nessus"

// NewMergeCmd creates the merge command.
func NewMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge [nessus-file]...",
		Short: "Merge multiple .nessus scan files into one",
		Long: `Merge combines the host sections of two or more .nessus XML files
into a single file. The scan policy and report name come from the first
input; later inputs contribute their hosts unchanged.

Hosts that appear in more than one input are kept as separate entries
so no findings are lost. Review duplicates before importing the merged
file elsewhere.

Examples:
  # Merge two scan files
  scanbrief merge dmz.nessus internal.nessus

  # Merge into a named output file
  scanbrief merge -o q3_combined.nessus week1.nessus week2.nessus week3.nessus`,
		Args: cobra.MinimumNArgs(2),
		RunE: runMergeCmd,
	}

	cmd.Flags().StringP("output", "o", defaultMergeOutput,
		"Path of the merged .nessus file")
	cmd.Flags().StringP("name", "n", "",
		"Report name of the merged file (default: the first input's name)")

	return cmd
}

// runMergeCmd executes the merge command.
func runMergeCmd(cmd *cobra.Command, args []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	reportName, err := cmd.Flags().GetString("name")
	if err != nil {
		return err
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	mergeOpts := []merge.Option{merge.WithLogger(logger)}
	if reportName != "" {
		mergeOpts = append(mergeOpts, merge.WithReportName(reportName))
	}

	merger := merge.NewMerger(mergeOpts...)
	if err := merger.Merge(ctx, args, output); err != nil {
		return err
	}

	fmt.Printf("Merged %d scan files into %s\n", len(args), output)
	return nil
}
