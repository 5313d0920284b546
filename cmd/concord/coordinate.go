package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/concordai/concord/internal/governance"
	"github.com/concordai/concord/pkg/conflict"
	"github.com/concordai/concord/pkg/config"
	"github.com/concordai/concord/pkg/coordination"
	"github.com/concordai/concord/pkg/domain"
	"github.com/concordai/concord/pkg/telemetry"
)

// batchFile is the on-disk shape of a coordination request.
type batchFile struct {
	Context domain.CoordinationContext `yaml:"context"`
	Actions []domain.DomainAction      `yaml:"actions"`
}

// newCoordinateCmd creates the coordinate subcommand
func newCoordinateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coordinate",
		Short: "Run an action batch through the coordination pipeline",
		Long: `Reads a YAML batch file of proposed actions plus an optional coordination
context, runs it through the full pipeline, and prints the sequenced result.

A batch that violates the ethical constraints prints the itemized violation
list and exits with code 2.`,
		RunE: runCoordinate,
	}

	cmd.Flags().StringP("batch", "b", "", "Path to the batch file (YAML, required)")
	cmd.Flags().StringP("config", "c", "", "Path to configuration file (YAML)")
	cmd.Flags().StringP("rules", "r", "", "Path to conflict rules file (overrides config)")
	cmd.Flags().StringP("output", "o", "json", "Output format (json, text)")
	_ = cmd.MarkFlagRequired("batch")

	return cmd
}

// runCoordinate is the main entry point for the coordinate command
func runCoordinate(cmd *cobra.Command, _ []string) error {
	batchPath, err := cmd.Flags().GetString("batch")
	if err != nil {
		return fmt.Errorf("failed to get batch flag: %w", err)
	}
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	rulesPath, err := cmd.Flags().GetString("rules")
	if err != nil {
		return fmt.Errorf("failed to get rules flag: %w", err)
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	if output != "json" && output != "text" {
		return fmt.Errorf("unknown output format %q, supported formats: json, text", output)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := setupLogger(cmd, cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	if cfg.Telemetry.OTLPEndpoint != "" {
		shutdown, err := telemetry.SetupProvider(ctx, telemetry.Config{
			ServiceName: "concord",
			Endpoint:    cfg.Telemetry.OTLPEndpoint,
			Environment: cfg.Telemetry.Environment,
			Insecure:    cfg.Telemetry.Insecure,
		})
		if err != nil {
			return fmt.Errorf("telemetry setup: %w", err)
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(flushCtx); err != nil {
				logger.Error("telemetry shutdown failed", "error", err)
			}
		}()
	}

	batch, err := loadBatchFile(batchPath)
	if err != nil {
		return err
	}

	// The config file supplies prohibited patterns only when the batch
	// context stays silent; an explicit batch list always wins.
	if batch.Context.Constraints.ProhibitedPatterns == nil && cfg.Ethics.ProhibitedPatterns != nil {
		batch.Context.Constraints.ProhibitedPatterns = cfg.Ethics.ProhibitedPatterns
	}

	policy := governance.BatchPolicy{MaxActions: cfg.Governance.MaxBatchSize}
	if err := policy.Admit(len(batch.Actions)); err != nil {
		return err
	}

	stampActions(batch.Actions)

	opts := coordination.Options{Logger: logger}
	if rulesPath == "" {
		rulesPath = cfg.Rules.File
	}
	if rulesPath != "" {
		rules, err := conflict.LoadRuleSet(rulesPath)
		if err != nil {
			return fmt.Errorf("load rules: %w", err)
		}
		opts.Rules = rules
	}

	coordinator := coordination.New(opts)

	result, err := coordinator.Coordinate(ctx, batch.Actions, batch.Context)
	if err != nil {
		var pv *domain.PolicyViolationError
		if errors.As(err, &pv) {
			printViolations(cmd, pv.Audit)
		}
		return err
	}

	switch output {
	case "text":
		printResultText(cmd, result)
	default:
		encoded, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	}

	return nil
}

// loadBatchFile loads a coordination batch from a YAML file
func loadBatchFile(path string) (*batchFile, error) {
	//nolint:gosec // Batch file path is provided by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	batch := &batchFile{}
	if err := yaml.Unmarshal(data, batch); err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}

	return batch, nil
}

// stampActions mints producer IDs and creation times for actions arriving
// without them, so violation and conflict reports can name each action.
func stampActions(actions []domain.DomainAction) {
	now := time.Now().UTC()
	for i := range actions {
		if actions[i].ID == "" {
			actions[i].ID = uuid.NewString()
		}
		if actions[i].CreatedAt.IsZero() {
			actions[i].CreatedAt = now
		}
	}
}

func printViolations(cmd *cobra.Command, audit domain.EthicalAudit) {
	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "policy violations (%d):\n", len(audit.Violations))
	for i, v := range audit.Violations {
		fmt.Fprintf(out, "  %d. action %q (%s/%s): %s [%s, severity %.2f]\n",
			i+1, v.Action.ID, v.Action.Domain, v.Action.Type, v.Description, v.Principle, v.Severity)
	}
}

func printResultText(cmd *cobra.Command, result domain.CoordinationResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "harmony:  %.2f\n", result.Harmony)
	fmt.Fprintf(out, "approved: %t\n", result.Audit.Approved)
	fmt.Fprintf(out, "success:  %t\n", result.Success())
	fmt.Fprintf(out, "sequence (%d):\n", len(result.Sequenced))
	for i, action := range result.Sequenced {
		fmt.Fprintf(out, "  %d. %s (%s, %s)\n", i+1, action.Type, action.Domain, action.Priority)
	}
}
