package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/concordai/concord/pkg/conflict"
)

// newRulesCmd creates the rules subcommand tree
func newRulesCmd() *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and validate conflict rule tables",
	}

	rulesCmd.AddCommand(newRulesValidateCmd())
	rulesCmd.AddCommand(newRulesShowCmd())

	return rulesCmd
}

func newRulesValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a conflict rules file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := cmd.Flags().GetString("file")
			if err != nil {
				return fmt.Errorf("failed to get file flag: %w", err)
			}

			rules, err := conflict.LoadRuleSet(path)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "rules OK: %d antonym rules, %d catalog rules\n",
				len(rules.Antonyms), len(rules.Catalog))
			return nil
		},
	}

	cmd.Flags().StringP("file", "f", "", "Path to the rules file (YAML, required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newRulesShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective conflict rule tables",
		Long:  "Prints the built-in rule tables, or the tables loaded from --file.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := cmd.Flags().GetString("file")
			if err != nil {
				return fmt.Errorf("failed to get file flag: %w", err)
			}

			rules := conflict.DefaultRuleSet()
			if path != "" {
				rules, err = conflict.LoadRuleSet(path)
				if err != nil {
					return err
				}
			}

			encoded, err := yaml.Marshal(rules)
			if err != nil {
				return fmt.Errorf("encode rules: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), string(encoded))
			return nil
		},
	}

	cmd.Flags().StringP("file", "f", "", "Path to a rules file (YAML)")

	return cmd
}
