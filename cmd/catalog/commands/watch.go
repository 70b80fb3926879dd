package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dyluth/catalog/internal/logging"
	"github.com/dyluth/catalog/internal/printer"
	"github.com/dyluth/catalog/internal/watch"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var (
	watchOutput      string
	watchMetricsAddr string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow notifications from every form session",
	Long: `Stream the notifications published by create, edit and verify sessions of an
instance as they happen. Press Ctrl+C to stop.

Examples:
  catalog watch
  catalog watch -o json
  catalog watch --metrics-addr :9090`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "default", "Output format: default, json")
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	format := watch.OutputFormat(watchOutput)
	if format != watch.OutputFormatDefault && format != watch.OutputFormatJSON {
		return fmt.Errorf("invalid output format '%s': must be 'default' or 'json'", watchOutput)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := connectStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if watchMetricsAddr != "" {
		srv := startMetricsServer(watchMetricsAddr, newLogger(cfg))
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if format == watch.OutputFormatDefault {
		printer.Info("Watching notifications for instance '%s'...\n", cfg.Instance)
	}
	return watch.StreamNotifications(ctx, store, format, cmd.OutOrStdout())
}

func startMetricsServer(addr string, logger logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server stopped", "addr", addr, "error", err)
		}
	}()
	return srv
}
