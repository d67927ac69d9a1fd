package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/codes"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/jsastcodec/internal/config"
	"github.com/Sumatoshi-tech/jsastcodec/pkg/codec"
)

func inspectCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect <input.bin>",
		Short: "Print a compressed file's header without fully decoding it",
		Args:  cobra.ExactArgs(1),
		RunE: instrumentCommand("inspect", func(_ *cobra.Command, args []string) error {
			return runInspect(args[0], format)
		}),
	}

	cmd.Flags().StringVar(&format, "format", "", "output format: text, json, or yaml (default from config)")

	return cmd
}

func runInspect(inputPath, formatFlag string) error {
	f, err := os.Open(inputPath) //nolint:gosec // inputPath is an explicit CLI argument
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	_, span := providers.Tracer.Start(cmdCtx(), "jsastcodec.codec.inspect")
	defer span.End()

	info, err := codec.Inspect(f)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return fmt.Errorf("inspect: %w", err)
	}

	format := config.OutputFormat(formatFlag)
	if format == "" {
		format = cfg.OutputFormat
	}

	switch format {
	case config.FormatJSON, config.FormatYAML:
		return renderInspectStructured(info, format)
	default:
		renderInspectTable(info)

		return nil
	}
}

func renderInspectTable(info *codec.HeaderInfo) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"field", "value"})
	t.AppendRow(table.Row{"grammar kinds", len(info.GrammarKinds)})
	t.AppendRow(table.Row{"parameter count", info.ParamCount})
	t.AppendRow(table.Row{"meta-rules", info.MetaRuleCount})
	t.AppendRow(table.Row{"string pool", len(info.StringPool)})
	t.AppendRow(table.Row{"number pool", len(info.NumberPool)})
	t.AppendSeparator()

	for _, b := range info.RankHistogram {
		t.AppendRow(table.Row{fmt.Sprintf("rank %d rules", b.Rank), b.Count})
	}

	t.Render()
}

func renderInspectStructured(info *codec.HeaderInfo, format config.OutputFormat) error {
	if format == config.FormatJSON {
		enc := jsonEncoder(os.Stdout)

		return enc.Encode(info)
	}

	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()

	return enc.Encode(info)
}
