package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"msts/internal/app/server"
	corelog "msts/internal/core/log"
)

func newServeCommand(root *rootOptions) *cobra.Command {
	var listen string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Load (or create) the configuration file and start the HTTP server.

Example:
  msts serve
  msts serve --listen 0.0.0.0:8000
  msts -c /etc/msts/msts.toml serve -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := root.openConfig(cmd)
			if err != nil {
				return err
			}

			logger, closer, err := corelog.Configure(corelog.Options{
				Level:     cfg.Log.Level,
				Verbosity: root.verbose,
				Format:    cfg.Log.Format,
				Output:    cfg.Log.Output,
				File:      cfg.Log.File,
				Color:     root.colorMode,
			})
			if err != nil {
				return err
			}
			defer closer.Close()

			srv, err := server.New(cfg, server.Options{
				ConfigPath: path,
				Listen:     listen,
				Logger:     logger,
				Banner:     cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(runContext(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	serveCmd.Flags().StringVar(&listen, "listen", "", "Override http.listen from the config file")
	return serveCmd
}

// runContext cobra 未设置 Context 时回退到 Background
func runContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
