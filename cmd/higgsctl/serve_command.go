package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"higgsctl/internal/config"
	"higgsctl/internal/fileserver"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var (
		bind string
		dir  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a local directory with CORS headers for the browser extension",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if bind == "" {
				bind = cfg.Serve.Bind
			}
			if dir == "" {
				dir = cfg.Serve.Dir
			}
			serveDir, err := config.ExpandPath(dir)
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return fileserver.New(bind, serveDir, logger).ListenAndServe(signalCtx)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Bind address (host:port)")
	cmd.Flags().StringVar(&dir, "dir", "", "Directory to serve")

	return cmd
}
