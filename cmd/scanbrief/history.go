package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scanbrief/scanbrief/internal/config"
	"github.com/scanbrief/scanbrief/internal/database"
)

// NewHistoryCmd creates the history command.
// This command lists report runs stored in the history database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored report runs",
		Long: `History lists report runs recorded by 'scanbrief generate'.

Each entry shows the run ID, when it was stored, the source export
file, and a severity summary. Use --show to print the full stored
report of a single run as JSON.

Examples:
  # List the most recent runs
  scanbrief history

  # List the last 5 runs
  scanbrief history -n 5

  # Print one stored report as JSON
  scanbrief history --show 12`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of runs to list (0 lists all)")
	cmd.Flags().Int64("show", 0,
		"Print the full stored report with this run ID as JSON")
	cmd.Flags().BoolP("json", "j", false,
		"Output the run listing in JSON format")
	cmd.Flags().String("db-dir", "",
		"Directory of the run-history database (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	showID, err := cmd.Flags().GetInt64("show")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	// Listing must not create a database where none exists.
	hdb, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		fmt.Println("No run history found.")
		fmt.Println("\nUse 'scanbrief generate <export-file>' to process an export and record a run.")
		return nil
	}
	defer hdb.Close() //nolint:errcheck // read-only handle

	ctx := context.Background()

	if showID > 0 {
		return showRun(ctx, hdb, showID)
	}

	return listRuns(ctx, hdb, limit, jsonOutput)
}

// showRun prints one stored report as JSON.
func showRun(ctx context.Context, hdb *database.HistoryDB, id int64) error {
	stored, err := hdb.GetRunByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}
	if stored == nil {
		return fmt.Errorf("run %d not found (use 'scanbrief history' to list runs)", id)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(stored)
}

// listRuns prints the run listing as a table or JSON.
func listRuns(ctx context.Context, hdb *database.HistoryDB, limit int, jsonOutput bool) error {
	runs, err := hdb.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println("\nUse 'scanbrief generate <export-file>' to process an export and record a run.")
		return nil
	}

	fmt.Printf("Stored runs (%d):\n\n", len(runs))
	fmt.Printf("  %-6s  %-20s  %-30s  %-9s  %-6s  %s\n",
		"ID", "Date", "Source", "Findings", "Hosts", "Severity")
	fmt.Println("  " + strings.Repeat("-", 90))

	for _, meta := range runs {
		fmt.Printf("  %-6d  %-20s  %-30s  %-9d  %-6d  %s\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			truncateSource(meta.SourceFile, 30),
			meta.TotalFindings,
			meta.TotalHosts,
			formatSeveritySummary(meta.SeveritySummary),
		)
	}

	fmt.Println("\nUse 'scanbrief history --show <id>' to print a stored report as JSON.")
	return nil
}

// formatSeveritySummary formats the severity count map for display.
func formatSeveritySummary(summary map[string]int) string {
	if summary == nil {
		return "N/A"
	}

	var parts []string
	if v := summary["critical"]; v > 0 {
		parts = append(parts, fmt.Sprintf("C:%d", v))
	}
	if v := summary["high"]; v > 0 {
		parts = append(parts, fmt.Sprintf("H:%d", v))
	}
	if v := summary["medium"]; v > 0 {
		parts = append(parts, fmt.Sprintf("M:%d", v))
	}
	if v := summary["low"]; v > 0 {
		parts = append(parts, fmt.Sprintf("L:%d", v))
	}

	if len(parts) == 0 {
		return "No findings"
	}
	return strings.Join(parts, " ")
}

// truncateSource shortens long source paths, keeping the tail where the
// file name lives.
func truncateSource(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return "..." + string(runes[len(runes)-limit+3:])
}
