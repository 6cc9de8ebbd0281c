package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"higgsctl/internal/higgsfield"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jobID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current state of a job",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(jobID) == "" {
				return fmt.Errorf("--job-id is required")
			}

			api, err := ctx.apiClient(cmd.Context())
			if err != nil {
				return err
			}

			snapshot, err := api.GetJob(cmd.Context(), jobID)
			if err != nil {
				return fmt.Errorf("fetch job %s: %w", jobID, err)
			}

			if err := writeJSON(cmd, snapshot); err != nil {
				return err
			}

			if snapshot.Status == higgsfield.StatusCompleted {
				url, err := higgsfield.ResultURL(snapshot)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Result URL: %s\n", url)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&jobID, "job-id", "", "Job id to inspect")
	return cmd
}
