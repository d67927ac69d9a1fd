package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/jsastcodec/internal/observability"
)

func serveMetricsCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve-metrics",
		Short: "Serve /healthz, /readyz, and the Prometheus /metrics scrape endpoint",
		RunE: func(_ *cobra.Command, _ []string) error {
			if addr == "" {
				addr = cfg.MetricsAddr
			}

			diag, err := observability.NewDiagnosticsServer(addr, providers.MetricsHandler, providers.Meter, observability.CodecSmokeCheck())
			if err != nil {
				return fmt.Errorf("start diagnostics server: %w", err)
			}
			defer diag.Close()

			color.Cyan("serving /healthz, /readyz, /metrics on %s\n", diag.Addr())

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			<-ctx.Done()

			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}
