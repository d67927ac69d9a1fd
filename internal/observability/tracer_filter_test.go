package observability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/jsastcodec/internal/observability"
)

func newTestProvider() (*tracetest.InMemoryExporter, trace.TracerProvider) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	return exporter, tp
}

func TestFilteringProvider_SuppressesInspectAfterEncode(t *testing.T) {
	t.Parallel()

	exporter, base := newTestProvider()
	fp := observability.NewFilteringTracerProvider(base)

	tracer := fp.Tracer("jsastcodec")
	_, span := tracer.Start(context.Background(), "jsastcodec.codec.inspect_after_encode")
	span.End()

	assert.Empty(t, exporter.GetSpans(), "the post-encode inspect re-read should not be exported")
}

func TestFilteringProvider_EncodeAndDecodeSpansPassThrough(t *testing.T) {
	t.Parallel()

	exporter, base := newTestProvider()
	fp := observability.NewFilteringTracerProvider(base)

	tracer := fp.Tracer("jsastcodec")

	_, encodeSpan := tracer.Start(context.Background(), "jsastcodec.codec.encode")
	encodeSpan.End()

	_, decodeSpan := tracer.Start(context.Background(), "jsastcodec.codec.decode")
	decodeSpan.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "jsastcodec.codec.encode", spans[0].Name)
	assert.Equal(t, "jsastcodec.codec.decode", spans[1].Name)
}

func TestFilteringProvider_StandaloneInspectPassesThrough(t *testing.T) {
	t.Parallel()

	// jsastcodec.codec.inspect (the standalone `inspect` command) is
	// distinct from jsastcodec.codec.inspect_after_encode and must not be
	// caught by the suppression.
	exporter, base := newTestProvider()
	fp := observability.NewFilteringTracerProvider(base)

	tracer := fp.Tracer("jsastcodec")
	_, span := tracer.Start(context.Background(), "jsastcodec.codec.inspect")
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "jsastcodec.codec.inspect", spans[0].Name)
}

func TestFilteringProvider_NoopSpanIsValid(t *testing.T) {
	t.Parallel()

	fp := observability.NewFilteringTracerProvider(nooptrace.NewTracerProvider())

	tracer := fp.Tracer("jsastcodec")
	ctx, span := tracer.Start(context.Background(), "jsastcodec.codec.inspect_after_encode")

	// Noop span should still be usable without panicking.
	span.SetName("renamed")
	span.End()

	assert.NotNil(t, ctx)
}
