package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/scanbrief/scanbrief/internal/config"
	"github.com/scanbrief/scanbrief/internal/server"
)

// addrEnvVar overrides the listen address when the --addr flag keeps
// its default. Useful for container deployments.
const addrEnvVar = "SCANBRIEF_ADDR"

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the report upload portal",
		Long: `Serve starts an HTTP portal where users upload a scanner CSV export
and download the generated report files as a zip bundle.

The listen address comes from --addr, or from the ` + addrEnvVar + `
environment variable (a .env file in the working directory is read if
present).

Examples:
  # Listen on the default address
  scanbrief serve

  # Listen on a specific port
  scanbrief serve --addr :9090`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", config.DefaultServerAddr,
		"Listen address for the upload portal")
	cmd.Flags().Int64("max-upload", server.DefaultMaxUploadSize,
		"Maximum accepted upload size in bytes")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}

	maxUpload, err := cmd.Flags().GetInt64("max-upload")
	if err != nil {
		return err
	}

	// A .env file is optional; environment values only apply when the
	// flag keeps its default.
	_ = godotenv.Load() //nolint:errcheck // missing .env is fine
	if !cmd.Flags().Changed("addr") {
		if env := os.Getenv(addrEnvVar); env != "" {
			addr = env
		}
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, stopping portal...")
		cancel()
	}()

	srv := server.New(
		server.WithLogger(logger),
		server.WithMaxUploadSize(maxUpload),
	)

	return srv.ListenAndServe(ctx, addr)
}
