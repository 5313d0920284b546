// Package main is the entry point for the concord binary.
// It provides a CLI for coordinating multi-domain action batches.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/concordai/concord/pkg/config"
	"github.com/concordai/concord/pkg/domain"
	"github.com/concordai/concord/pkg/logging"
)

const defaultLogLevel = "info"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		// Policy rejections are a distinct caller contract, not a crash.
		var pv *domain.PolicyViolationError
		if errors.As(err, &pv) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// newRootCmd creates the root command for concord
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "concord",
		Short: "Multi-domain action coordination engine",
		Long: `Concord runs proposed actions from independent domains through an
ethics gate, detects and resolves cross-domain conflicts, scores the
harmony of the surviving plan, and sequences it by priority.

Example:
  concord coordinate --batch batch.yaml --config concord.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("log-level", "l", defaultLogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("pretty", false, "Human-readable log output")

	rootCmd.AddCommand(newCoordinateCmd())
	rootCmd.AddCommand(newRulesCmd())

	return rootCmd
}

// setupLogger builds the process logger from config plus flag overrides and
// installs it as the slog default. Flags win over the config file.
func setupLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if cmd.Flags().Changed("log-level") {
		flagLevel, err := cmd.Flags().GetString("log-level")
		if err != nil {
			return nil, fmt.Errorf("failed to get log-level flag: %w", err)
		}
		level = flagLevel
	}

	pretty := cfg.Logging.Pretty
	if cmd.Flags().Changed("pretty") {
		flagPretty, err := cmd.Flags().GetBool("pretty")
		if err != nil {
			return nil, fmt.Errorf("failed to get pretty flag: %w", err)
		}
		pretty = flagPretty
	}

	logger := logging.NewLogger(logging.Config{
		Level:  level,
		Pretty: pretty,
	})
	slog.SetDefault(logger)
	return logger, nil
}
