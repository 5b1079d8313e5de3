package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/scanbrief/scanbrief/internal/config"
	"github.com/scanbrief/scanbrief/internal/database"
	"github.com/scanbrief/scanbrief/internal/model"
	"github.com/scanbrief/scanbrief/internal/pipeline"
	"github.com/scanbrief/scanbrief/internal/report"
)

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [export-file]...",
		Short: "Generate reports from scanner CSV exports",
		Long: `Generate processes one or more scanner CSV export files and writes
report files to the output directory.

For each export it filters scanner noise, canonicalizes findings,
aggregates statistics, and renders the executive summary, host rollup,
and detailed findings in the requested formats. Multiple inputs are
processed concurrently.

Examples:
  # Generate the default CSV bundle
  scanbrief generate scan_export.csv

  # All formats into a custom directory
  scanbrief generate -f all -o ./reports scan_export.csv

  # Several exports at once with a shared prefix
  scanbrief generate -p quarterly q1.csv q2.csv q3.csv

  # Print the summary to the terminal as well
  scanbrief generate --summary scan_export.csv

Configuration file (.scanbrief) example:
  output_dir: reports
  formats: csv,html
  denylist:
    - "Internal Asset Banner"`,
		Args: cobra.ArbitraryArgs,
		RunE: runGenerateCmd,
	}

	// Output flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputDir,
		"Directory report files are written to (created if needed)")
	cmd.Flags().StringP("prefix", "p", config.DefaultPrefix,
		"Leading component of generated report file names")
	cmd.Flags().StringP("format", "f", config.DefaultFormats,
		"Comma-separated output formats: csv, markdown, html, json, all")
	cmd.Flags().BoolP("summary", "s", false,
		"Print a human-readable summary to stdout after each run")

	// Processing flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of export files processed concurrently")
	cmd.Flags().Int("description-limit", 0,
		"Cap finding descriptions at this many characters (0 keeps the default)")
	cmd.Flags().StringSlice("denylist", nil,
		"Additional informational finding titles to drop at load time")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .scanbrief in current or home directory)")

	// History flags
	cmd.Flags().Bool("no-history", false,
		"Skip recording completed runs in the history database")
	cmd.Flags().String("db-dir", "",
		"Directory for the run-history database (default: XDG data directory)")

	return cmd
}

// runGenerateCmd executes the generate command.
func runGenerateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildGenerateConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	summary, err := cmd.Flags().GetBool("summary")
	if err != nil {
		return err
	}

	return runGenerate(ctx, cfg, summary, logger)
}

// buildGenerateConfig creates a Config from cobra command flags.
func buildGenerateConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.OutputDir, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Prefix, err = cmd.Flags().GetString("prefix")
	if err != nil {
		return nil, err
	}

	cfg.Formats, err = cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.DescriptionLimit, err = cmd.Flags().GetInt("description-limit")
	if err != nil {
		return nil, err
	}

	cfg.ExtraDenylist, err = cmd.Flags().GetStringSlice("denylist")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Load project configuration from the config file.
	// If the user explicitly specified a path, a missing file is an error.
	// Otherwise a missing file just keeps the defaults.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		fileCfg, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(fileCfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// Positional arguments are the export files
	cfg.Inputs = args

	return cfg, nil
}

// runGenerate processes the configured export files.
func runGenerate(ctx context.Context, cfg *config.Config, summary bool, logger *slog.Logger) error {
	formats, err := report.ParseFormats(cfg.Formats)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger.Info("starting report generation",
		"inputs", len(cfg.Inputs),
		"formats", cfg.Formats,
		"outputDir", cfg.OutputDir,
		"saveHistory", cfg.SaveHistory,
	)

	// History is best effort. A failed open disables it for the run
	// rather than aborting report generation.
	var hdb *database.HistoryDB
	if cfg.SaveHistory {
		hdb, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			logger.Warn("run history disabled", "error", err)
		} else {
			defer hdb.Close() //nolint:errcheck // read-mostly handle
			logger.Info("history database opened", "dir", cfg.DBDir)
		}
	}

	if len(cfg.Inputs) > 1 && cfg.BatchSize > 1 {
		return runGenerateBatch(ctx, cfg, formats, hdb, summary, logger)
	}

	return runGenerateSequential(ctx, cfg, formats, hdb, summary, logger)
}

// runGenerateSequential processes inputs one at a time.
func runGenerateSequential(ctx context.Context, cfg *config.Config, formats []report.Format, hdb *database.HistoryDB, summary bool, logger *slog.Logger) error {
	for _, input := range cfg.Inputs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Printf("Processing %s...\n", input)
		startTime := time.Now()

		scanReport := model.NewScanReport(input)
		if err := newGeneratePipeline(cfg, logger).Execute(ctx, scanReport); err != nil {
			logger.Error("run failed", "source", input, "error", err)
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", input, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Processed %d findings in %s\n", len(scanReport.Findings), elapsed.Round(time.Millisecond))

		if err := emitReport(cfg, scanReport, formats, summary, logger); err != nil {
			logger.Error("export failed", "source", input, "error", err)
			return err
		}

		if err := saveRun(ctx, hdb, scanReport, logger); err != nil {
			logger.Error("failed to save run", "source", input, "error", err)
		}
	}

	return nil
}

// runGenerateBatch processes inputs concurrently using BatchProcessor.
func runGenerateBatch(ctx context.Context, cfg *config.Config, formats []report.Format, hdb *database.HistoryDB, summary bool, logger *slog.Logger) error {
	fmt.Printf("Processing %d export files (concurrency: %d)...\n\n",
		len(cfg.Inputs), cfg.BatchSize)

	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return newGeneratePipeline(cfg, logger)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	reports, err := bp.ProcessBatch(ctx, cfg.Inputs)
	if err != nil {
		return err
	}

	for _, scanReport := range reports {
		if scanReport == nil {
			continue
		}
		if scanReport.Error != "" {
			fmt.Fprintf(os.Stderr, "Error processing %s: %s\n", scanReport.SourceFile, scanReport.Error)
			continue
		}

		if err := emitReport(cfg, scanReport, formats, summary, logger); err != nil {
			logger.Error("export failed", "source", scanReport.SourceFile, "error", err)
			return err
		}

		if err := saveRun(ctx, hdb, scanReport, logger); err != nil {
			logger.Error("failed to save run", "source", scanReport.SourceFile, "error", err)
		}
	}

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch completed in %s\n", elapsed.Round(time.Millisecond))

	return nil
}

// newGeneratePipeline builds the default pipeline with the per-run
// settings from the configuration.
func newGeneratePipeline(cfg *config.Config, logger *slog.Logger) *pipeline.Pipeline {
	var configOpts []pipeline.DefaultPipelineOption
	if len(cfg.ExtraDenylist) > 0 {
		configOpts = append(configOpts, pipeline.WithPipelineDenylist(cfg.ExtraDenylist...))
	}
	if cfg.DescriptionLimit > 0 {
		configOpts = append(configOpts, pipeline.WithPipelineDescriptionLimit(cfg.DescriptionLimit))
	}

	return pipeline.DefaultPipeline(logger, nil, configOpts...)
}

// emitReport writes the report files and, when requested, prints the
// human-readable summary to stdout.
//
// With several inputs the source file's stem joins the prefix so runs
// landing in the same second cannot overwrite each other's files.
func emitReport(cfg *config.Config, scanReport *model.ScanReport, formats []report.Format, summary bool, logger *slog.Logger) error {
	prefix := cfg.Prefix
	if len(cfg.Inputs) > 1 {
		base := filepath.Base(scanReport.SourceFile)
		prefix = prefix + "_" + strings.TrimSuffix(base, filepath.Ext(base))
	}

	exporter := report.NewExporter(cfg.OutputDir,
		report.WithExportPrefix(prefix),
		report.WithExportVersion(getVersion()),
		report.WithExportLogger(logger),
	)

	paths, err := exporter.Export(scanReport, formats)
	if err != nil {
		return err
	}

	for _, path := range paths {
		fmt.Printf("  wrote %s\n", path)
	}

	if summary {
		writer := report.NewSimpleWriter(os.Stdout, report.WithVerbose(cfg.Verbose))
		if _, err := writer.Write(scanReport); err != nil {
			return err
		}
	}

	return nil
}

// saveRun records the completed run in the history database.
// If hdb is nil, this function is a no-op.
func saveRun(ctx context.Context, hdb *database.HistoryDB, scanReport *model.ScanReport, logger *slog.Logger) error {
	if hdb == nil {
		return nil
	}

	if err := hdb.SaveRun(ctx, scanReport); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	logger.Info("run saved to history", "source", scanReport.SourceFile)
	return nil
}
