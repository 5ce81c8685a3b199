package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/poupaenergia/poupa/internal/config"
	"github.com/poupaenergia/poupa/internal/server"
)

// NewServeCmd creates "serve", which exposes the estimate engine over HTTP
// until interrupted.
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the estimate API over HTTP",
		Long: `Serve the estimate API:

  POST /api/v1/estimates/{strategy}   estimate from {"fields": {...}} or a form
  POST /api/v1/batch                  evaluate several scenarios (?format=json|xlsx|pdf)
  GET  /api/v1/catalog                services, providers and options
  POST /api/v1/proposals              proposal acknowledgement
  GET  /healthz                       liveness
  GET  /metrics                       Prometheus metrics (server.metrics)`,
		Example: `  poupa serve --addr :8080`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func runServe(cmd *cobra.Command, addr string) error {
	cfg := config.GetGlobalConfig()
	if addr == "" {
		addr = cfg.Server.Addr
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}

	srv, err := server.New(engine, server.Options{
		Logger:           logger,
		BatchConcurrency: cfg.Batch.Concurrency,
		ExposeMetrics:    cfg.Server.Metrics,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Ctx(ctx).Str("addr", addr).Msg("serving estimate API")
	cmd.Printf("Listening on %s\n", addr)

	return server.ListenAndServe(ctx, addr, srv.Handler(),
		cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout)
}
