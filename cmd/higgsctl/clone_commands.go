package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"higgsctl/internal/higgsfield"
)

func newCloneVoiceCommand(ctx *commandContext) *cobra.Command {
	var (
		samples []string
		name    string
		noWait  bool
	)

	cmd := &cobra.Command{
		Use:   "clone-voice",
		Short: "Create a voice clone from audio samples",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name is required")
			}
			if len(samples) == 0 {
				return fmt.Errorf("provide at least one audio sample with --sample")
			}

			api, err := ctx.apiClient(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			references := make([]higgsfield.MediaReference, 0, len(samples))
			for _, sample := range samples {
				ref, err := api.UploadAudio(cmd.Context(), sample)
				if err != nil {
					return fmt.Errorf("upload sample %s: %w", sample, err)
				}
				fmt.Fprintf(out, "Uploaded %s (%s)\n", sample, ref.ID)
				references = append(references, ref)
			}

			clone, err := api.CloneVoice(cmd.Context(), references, name)
			if err != nil {
				return fmt.Errorf("create voice clone: %w", err)
			}
			fmt.Fprintf(out, "Voice clone %s submitted (%s)\n", clone.ID, clone.Status)

			if noWait {
				return nil
			}

			clone, err = api.PollVoiceClone(cmd.Context(), clone.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Voice clone %s is %s\n", clone.ID, clone.Status)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&samples, "sample", nil, "Audio sample file (repeatable)")
	cmd.Flags().StringVar(&name, "name", "", "Name for the cloned voice")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Submit without waiting for the clone to become ready")

	return cmd
}

func newListClonesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list-clones",
		Short: "List voice clones on the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := ctx.apiClient(cmd.Context())
			if err != nil {
				return err
			}

			clones, err := api.VoiceClones(cmd.Context())
			if err != nil {
				return fmt.Errorf("list voice clones: %w", err)
			}

			rows := make([][]string, 0, len(clones))
			for _, clone := range clones {
				rows = append(rows, []string{
					clone.ID,
					clone.Name,
					string(clone.Status),
					yesNo(clone.IsInternal),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Status", "Built-in"},
				rows,
				nil,
			))
			return nil
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
