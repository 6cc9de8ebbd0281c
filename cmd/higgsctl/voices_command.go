package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVoicesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List available text-to-speech voices",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := ctx.apiClient(cmd.Context())
			if err != nil {
				return err
			}

			voices, err := api.Voices(cmd.Context())
			if err != nil {
				return fmt.Errorf("list voices: %w", err)
			}

			rows := make([][]string, 0, len(voices))
			for _, voice := range voices {
				rows = append(rows, []string{voice.ID, voice.Name, voice.Description})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Description"},
				rows,
				nil,
			))
			fmt.Fprintf(cmd.OutOrStdout(), "%d voices\n", len(voices))
			return nil
		},
	}
}
