package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/net/netutil"

	"github.com/Gal0-avrd/LongD-Arc/internal/api"
	"github.com/Gal0-avrd/LongD-Arc/internal/arclength"
	"github.com/Gal0-avrd/LongD-Arc/internal/config"
	"github.com/Gal0-avrd/LongD-Arc/internal/metrics"
	"github.com/Gal0-avrd/LongD-Arc/internal/stats"
	"github.com/Gal0-avrd/LongD-Arc/internal/symbolic"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Run the HTTP API on 0.0.0.0:$PORT. Settings come from the environment or config.yaml.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Env,
			AttachStacktrace: true,
		}); err != nil {
			return fmt.Errorf("failed to initialize Sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	calc := arclength.NewCalculator(symbolic.NewEngine(),
		arclength.WithTimeout(cfg.IntegrationTimeout),
		arclength.WithMaxConcurrent(cfg.MaxConcurrent),
		arclength.WithLogger(log.Named("calculator")),
	)
	srv, err := api.NewServer(calc, stats.NewWindow(cfg.StatsWindow, cfg.StatsMaxSamples), metrics.New(), log, cfg)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", net.JoinHostPort("0.0.0.0", cfg.Port))
	if err != nil {
		return err
	}
	// Integration is CPU bound; excess connections wait in the accept queue.
	ln = netutil.LimitListener(ln, cfg.MaxConnections)

	httpServer := &http.Server{
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.IntegrationTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.Serve(ln) }()
	log.Info("starting arclength",
		zap.String("addr", ln.Addr().String()),
		zap.String("env", cfg.Env),
		zap.Duration("integration_timeout", cfg.IntegrationTimeout),
		zap.Int("max_connections", cfg.MaxConnections),
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
