package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/jsastcodec/pkg/codec"
	"github.com/Sumatoshi-tech/jsastcodec/pkg/jsast"
)

func encodeCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "encode <input.json>",
		Short: "Compress a JSON-encoded AST into the binary grammar format",
		Args:  cobra.ExactArgs(1),
		RunE: instrumentCommand("encode", func(_ *cobra.Command, args []string) error {
			return runEncode(args[0], outPath)
		}),
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func runEncode(inputPath, outPath string) error {
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	root, err := jsast.UnmarshalJSON(raw, jsast.DefaultRegistry)
	if err != nil {
		return fmt.Errorf("parse json ast: %w", err)
	}

	out, closeOut, err := openOutput(outPath)
	if err != nil {
		return err
	}
	defer closeOut()

	ctx, span := providers.Tracer.Start(cmdCtx(), "jsastcodec.codec.encode",
		trace.WithAttributes(attribute.String("root.kind", root.Kind())))

	start := time.Now()

	n, err := codec.Encode(root, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()

		return fmt.Errorf("encode: %w", err)
	}

	elapsed := time.Since(start)
	span.End()

	if r := reopenForInspect(outPath, out); r != nil {
		_, inspectSpan := providers.Tracer.Start(ctx, "jsastcodec.codec.inspect_after_encode")

		info, inspectErr := codec.Inspect(r)
		if inspectErr == nil && info != nil {
			// Each TreeRePair production extracted during mining collapses
			// exactly one repeated digram, so the meta-rule count doubles as
			// the digram-merge count.
			metrics.RecordEncode(cmdCtx(), root.Kind(), n, int64(info.MetaRuleCount), int64(info.MetaRuleCount), int64(len(info.StringPool)), int64(len(info.NumberPool)), elapsed)
		} else if inspectErr != nil {
			inspectSpan.RecordError(inspectErr)
			inspectSpan.SetStatus(codes.Error, inspectErr.Error())
		}

		inspectSpan.End()
	}

	color.Green("wrote %s (%d bytes) in %s\n", humanize.Bytes(uint64(n)), n, elapsed)

	return nil
}

// openOutput returns a writer for outPath, or stdout when empty, plus a
// close function. Stdout's close is a no-op since the CLI does not own it.
func openOutput(outPath string) (io.Writer, func(), error) {
	if outPath == "" {
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(outPath) //nolint:gosec // outPath is an explicit CLI argument
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}

	return f, func() { _ = f.Close() }, nil
}

// reopenForInspect re-reads the just-written output file to report header
// stats. Piped stdout output has no seekable/reopenable handle, so this is
// best-effort: a nil result silently skips the encode-time header metrics.
func reopenForInspect(outPath string, _ io.Writer) io.Reader {
	if outPath == "" {
		return nil
	}

	f, err := os.Open(outPath) //nolint:gosec // outPath is an explicit CLI argument
	if err != nil {
		return nil
	}

	return f
}
