// Package main provides the jsastcodec CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/jsastcodec/internal/config"
	"github.com/Sumatoshi-tech/jsastcodec/internal/observability"
	"github.com/Sumatoshi-tech/jsastcodec/pkg/version"
)

//nolint:gochecknoglobals // CLI flag/state variables, set once in main
var (
	cfgFile string
	cfg     *config.Config

	providers  observability.Providers
	metrics    *observability.CodecMetrics
	redMetrics *observability.REDMetrics
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "jsastcodec",
		Short: "Binary grammar-based codec for JavaScript ASTs",
		Long:  `jsastcodec compresses and decompresses typed JavaScript ASTs using an offline TreeRePair grammar.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupRuntime()
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return providers.Shutdown(context.Background())
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.jsastcodec.yaml)")

	rootCmd.AddCommand(encodeCmd())
	rootCmd.AddCommand(decodeCmd())
	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(serveMetricsCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupRuntime() error {
	loaded, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cfg = loaded

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version

	providers, err = observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	metrics, err = observability.NewCodecMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("init codec metrics: %w", err)
	}

	redMetrics, err = observability.NewREDMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("init red metrics: %w", err)
	}

	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "jsastcodec %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
