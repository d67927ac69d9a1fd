package main

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/spf13/cobra"
)

// cmdCtx returns the context used for the lifetime of a single CLI
// invocation. Commands are short-lived, so a fresh background context
// (rather than propagating one from cobra) is sufficient.
func cmdCtx() context.Context {
	return context.Background()
}

func jsonEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc
}

// instrumentCommand wraps a command's RunE with RED-metrics instrumentation
// keyed by op: an in-flight gauge for the call's lifetime and a request/
// duration/error record on completion, recorded alongside CodecMetrics'
// encode/decode-specific instruments rather than in place of them.
func instrumentCommand(op string, fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmdCtx()

		done := redMetrics.TrackInflight(ctx, op)
		defer done()

		start := time.Now()
		err := fn(cmd, args)

		status := "ok"
		if err != nil {
			status = "error"
		}

		redMetrics.RecordRequest(ctx, op, status, time.Since(start))

		return err
	}
}
