package main

import (
	"context"

	"github.com/spf13/cobra"

	dc "application-relay/internal/relay/candidates/delete-candidate"
)

func newDeleteCmd(root *rootOptions) *cobra.Command {
	var candidateID int64

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a candidate",
		Long:  "Deletes the given candidate, or greenhouse.default_candidate_id when none is given.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}

			handler, err := dc.NewHandler(dc.HandlerOptions{
				AppConfig: cfg,
				Client:    newHarvestClient(cfg),
				Logger:    root.newLogger(),
			})
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), handler.GetConfig().Timeout)
			defer cancel()

			output, err := handler.Execute(ctx, &dc.Input{CandidateID: candidateID})
			if err != nil {
				return printFailure(cmd.OutOrStdout(), err)
			}
			return printJSON(cmd.OutOrStdout(), output)
		},
	}

	cmd.Flags().Int64Var(&candidateID, "candidate-id", 0, "Candidate to delete (default from config)")
	return cmd
}
