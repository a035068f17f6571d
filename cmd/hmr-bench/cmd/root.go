// Package cmd provides the CLI commands for hmr-bench, a demo and
// benchmarking harness for the hybrid multi-index retrieval pipeline.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aman-cerp/hmrcore/internal/logging"
	"github.com/aman-cerp/hmrcore/pkg/version"
)

var (
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the hmr-bench CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hmr-bench",
		Short: "Demo and benchmarking harness for the hybrid multi-index retrieval pipeline",
		Long: `hmr-bench wires the four reference IndexAdapter implementations (vector,
lexical, symbol, graph) over a small fixture corpus and runs queries through
the full Coordinator pipeline: intent classification, weight resolution,
rank fusion, consensus boosting, final ranking, and feature emission.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.SetVersionTemplate("hmr-bench version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.hmr-core/logs/")
	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRunE = stopLogging

	cmd.AddCommand(newQueryCmd())
	cmd.AddCommand(newLogsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func startLogging(_ *cobra.Command, _ []string) error {
	if !debugMode {
		return nil
	}
	logger, cleanup, err := logging.Setup(logging.DebugConfig())
	if err != nil {
		return err
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Info("debug logging enabled", slog.String("log_file", logging.DefaultLogPath()))
	return nil
}

func stopLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
