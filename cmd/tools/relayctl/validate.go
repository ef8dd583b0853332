package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	sa "application-relay/internal/relay/candidates/submit-application"
)

func newValidateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a submission file against the input schema",
		Long:  "Validates a submission JSON file without contacting Greenhouse.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read submission file: %w", err)
			}
			if _, err := sa.ParseInput(raw); err != nil {
				return printFailure(cmd.OutOrStdout(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", file)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to submission JSON (required)")
	if err := cmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}
	return cmd
}
