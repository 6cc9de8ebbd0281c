package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCreditsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "credits",
		Short: "Show the account's credit balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := ctx.apiClient(cmd.Context())
			if err != nil {
				return err
			}

			user, err := api.User(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch account: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Account", "Plan", "Credits"},
				[][]string{{
					user.Username,
					user.PlanType,
					strconv.FormatFloat(user.SubscriptionCredits, 'f', -1, 64),
				}},
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}
