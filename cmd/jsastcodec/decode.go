package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/codes"

	"github.com/Sumatoshi-tech/jsastcodec/pkg/codec"
	"github.com/Sumatoshi-tech/jsastcodec/pkg/jsast"
)

func decodeCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "decode <input.bin>",
		Short: "Decompress a binary grammar file back into a JSON-encoded AST",
		Args:  cobra.ExactArgs(1),
		RunE: instrumentCommand("decode", func(_ *cobra.Command, args []string) error {
			return runDecode(args[0], outPath)
		}),
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func runDecode(inputPath, outPath string) error {
	f, err := os.Open(inputPath) //nolint:gosec // inputPath is an explicit CLI argument
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	_, span := providers.Tracer.Start(cmdCtx(), "jsastcodec.codec.decode")

	start := time.Now()

	root, err := codec.Decode(f)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()

		return fmt.Errorf("decode: %w", err)
	}

	elapsed := time.Since(start)
	span.End()
	metrics.RecordDecode(cmdCtx(), root.Kind(), elapsed)

	raw, err := jsast.MarshalJSON(root)
	if err != nil {
		return fmt.Errorf("render json ast: %w", err)
	}

	out, closeOut, err := openOutput(outPath)
	if err != nil {
		return err
	}
	defer closeOut()

	if _, err := io.WriteString(out, string(raw)+"\n"); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	color.Green("decoded %s root in %s\n", root.Kind(), elapsed)

	return nil
}
