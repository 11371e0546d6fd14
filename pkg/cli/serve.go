package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/claimdex/claimdex/pkg/claims/query"
	"github.com/claimdex/claimdex/pkg/observability/metrics"
	"github.com/claimdex/claimdex/pkg/server"
	"github.com/claimdex/claimdex/pkg/version"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP query service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFile)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			info := version.Current(serviceName)
			log.Info("starting service",
				"version", info.Version,
				"commit", info.Commit,
				"environment", cfg.Service.Environment,
			)

			adapter, store, err := connectStore(cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = adapter.Close() }()

			paginator, err := query.NewPaginator(store,
				query.WithCountMode(query.CountMode(cfg.Query.CountMode)),
				query.WithMaxPageSize(cfg.Query.MaxPageSize),
				query.WithLogger(log),
			)
			if err != nil {
				return err
			}

			reg := metrics.NewRegistry()
			srv, err := server.New(cfg.HTTP, cfg.Query, paginator, adapter, reg, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
