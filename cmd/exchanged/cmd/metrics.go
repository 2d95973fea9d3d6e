package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/forbitswap/exchange/app"
)

const flagMetricsAddr = "addr"

// ServeMetricsCmd exposes the exchange metrics over HTTP until interrupted.
func ServeMetricsCmd(clientCtx *clientContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve-metrics",
		Short: "Serve Prometheus metrics for the current state",
		Long: `Load the pool gauges from the latest state and serve them on /metrics.
Requires metrics.enabled in app.toml or EXCHANGE_METRICS_ENABLED=true.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !clientCtx.cfg.Metrics.Enabled {
				return fmt.Errorf("metrics are disabled, set metrics.enabled in %s", configPath(clientCtx.home))
			}
			addr := clientCtx.cfg.Metrics.Addr
			if cmd.Flags().Changed(flagMetricsAddr) {
				addr, _ = cmd.Flags().GetString(flagMetricsAddr)
			}

			err := clientCtx.query(func(ctx sdk.Context, a *app.App) error {
				return a.ExchangeKeeper.RefreshMetrics(ctx)
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return StartPrometheusServer(ctx, addr, clientCtx)
		},
	}
	cmd.Flags().String(flagMetricsAddr, "", "listen address, overrides metrics.addr")
	return cmd
}

// StartPrometheusServer serves /metrics on addr until ctx is done.
func StartPrometheusServer(ctx context.Context, addr string, clientCtx *clientContext) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		clientCtx.logger.Info("serving metrics", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
