package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var flags rootFlags

	ctx := newCommandContext(&flags)

	rootCmd := &cobra.Command{
		Use:           "higgsctl",
		Short:         "Higgsfield lipsync pipeline CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&flags.token, "token", "", "Static Clerk session JWT (short-lived, no refresh)")
	rootCmd.PersistentFlags().StringVar(&flags.cookieFile, "cookie-file", "", "Cookie extractor JSON containing the __session cookie")
	rootCmd.PersistentFlags().StringVar(&flags.clientCookie, "client-cookie", "", "Clerk __client cookie value (enables token refresh)")
	rootCmd.PersistentFlags().StringVar(&flags.clientCookieFile, "client-cookie-file", "", "File containing the __client cookie value")
	rootCmd.PersistentFlags().StringVar(&flags.sessionID, "session-id", "", "Clerk session id (auto-detected when omitted)")

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newVoicesCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newCloneVoiceCommand(ctx))
	rootCmd.AddCommand(newListClonesCommand(ctx))
	rootCmd.AddCommand(newCreditsCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newVaultCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
