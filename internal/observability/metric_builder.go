package observability

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// secondsUnit is the OTel unit for every wall-clock duration this codec
// records: encode/decode latency and CLI request latency are always
// measured in seconds, so callers building those histograms no longer
// repeat the unit literal.
const secondsUnit = "s"

// metricBuilder accumulates OTel instrument creation errors, letting
// CodecMetrics and REDMetrics build their full instrument set and check
// for a construction failure once instead of after every call.
type metricBuilder struct {
	meter metric.Meter
	err   error
}

// newMetricBuilder creates a builder for the given meter.
func newMetricBuilder(mt metric.Meter) *metricBuilder {
	return &metricBuilder{meter: mt}
}

// counter creates an Int64Counter instrument.
func (b *metricBuilder) counter(name, desc, unit string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.setErr(name, err)

	return c
}

// histogram creates a Float64Histogram instrument with optional explicit bucket boundaries.
func (b *metricBuilder) histogram(name, desc, unit string, bounds ...float64) metric.Float64Histogram {
	opts := []metric.Float64HistogramOption{
		metric.WithDescription(desc),
		metric.WithUnit(unit),
	}

	if len(bounds) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(bounds...))
	}

	h, err := b.meter.Float64Histogram(name, opts...)
	b.setErr(name, err)

	return h
}

// secondsHistogram creates a Float64Histogram in seconds. Every duration this
// codec measures — encode/decode wall-clock time, CLI request latency — is
// recorded in seconds, so this is the histogram constructor callers reach
// for by default rather than repeating the unit at every call site.
func (b *metricBuilder) secondsHistogram(name, desc string, bounds ...float64) metric.Float64Histogram {
	return b.histogram(name, desc, secondsUnit, bounds...)
}

// upDownCounter creates an Int64UpDownCounter instrument.
func (b *metricBuilder) upDownCounter(name, desc, unit string) metric.Int64UpDownCounter {
	c, err := b.meter.Int64UpDownCounter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.setErr(name, err)

	return c
}

// setErr records the first instrument creation error.
func (b *metricBuilder) setErr(name string, err error) {
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("create %s: %w", name, err)
	}
}
