package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"higgsctl/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		videoPath string
		videoURL  string
		name      string
		script    string
		voiceID   string
		audioURL  string
		skipTTS   bool
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full lipsync pipeline: upload, TTS, lipsync, download",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name is required")
			}
			if strings.TrimSpace(videoPath) == "" && strings.TrimSpace(videoURL) == "" {
				return fmt.Errorf("provide a source video with --video or --video-url")
			}

			api, err := ctx.apiClient(cmd.Context())
			if err != nil {
				return err
			}
			user, err := verifyAuth(cmd.Context(), api)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Authenticated as %s (%.0f credits)\n",
				user.Username, user.SubscriptionCredits)

			if script == "" {
				script = cfg.TTS.Script
			}
			if voiceID == "" {
				voiceID = cfg.TTS.VoiceID
			}
			if outputDir == "" {
				outputDir = cfg.Output.Dir
			}

			progress := isatty.IsTerminal(os.Stderr.Fd())
			runner := pipeline.NewRunner(api, logger, pipeline.NewDownloader(nil, progress))

			result, err := runner.Run(cmd.Context(), pipeline.Request{
				VideoPath: videoPath,
				VideoURL:  videoURL,
				Name:      name,
				Script:    script,
				VoiceID:   voiceID,
				AudioURL:  audioURL,
				SkipTTS:   skipTTS,
				OutputDir: outputDir,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Done: %s\n", result.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&videoPath, "video", "", "Local source video file")
	cmd.Flags().StringVar(&videoURL, "video-url", "", "Remote source video URL (downloaded, then uploaded)")
	cmd.Flags().StringVar(&name, "name", "", "Recipient name substituted into the script")
	cmd.Flags().StringVar(&script, "script", "", "TTS script; {name} is replaced with --name")
	cmd.Flags().StringVar(&voiceID, "voice-id", "", "Voice id for TTS")
	cmd.Flags().StringVar(&audioURL, "audio-url", "", "Use this audio URL instead of generating TTS")
	cmd.Flags().BoolVar(&skipTTS, "skip-tts", false, "Skip TTS generation (requires --audio-url)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for the downloaded result")

	return cmd
}
