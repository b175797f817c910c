package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/ev-priority/internal/config"
	"github.com/sells-group/ev-priority/internal/dataset"
	"github.com/sells-group/ev-priority/internal/server"
	"github.com/sells-group/ev-priority/internal/view"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve priorities over a JSON HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		srv, err := buildServer(ctx, cfg)
		if err != nil {
			return err
		}
		return srv.Run(ctx, cfg.Server.Port)
	},
}

func buildServer(ctx context.Context, c *config.Config) (*server.Server, error) {
	env, cache, err := loadEnv(ctx, c)
	if err != nil {
		return nil, err
	}
	path := c.Source.Path
	return server.New(server.Options{
		Env:   env,
		Views: view.NewRegistry(),
		Source: func(ctx context.Context) (*dataset.Dataset, error) {
			return cache.Load(ctx, path)
		},
		CORSOrigins: c.Server.CORSOrigins,
		RateLimit:   c.Server.RateLimit,
		RateBurst:   c.Server.RateBurst,
		Metrics:     c.Server.Metrics,
	})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
