package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricEncodeBytesTotal   = "jsastcodec.encode.bytes_total"
	metricEncodeRulesTotal   = "jsastcodec.encode.rules_total"
	metricDecodeDurationSecs = "jsastcodec.decode.duration_seconds"
	metricEncodeDurationSecs = "jsastcodec.encode.duration_seconds"
	metricDigramMergesTotal  = "jsastcodec.treerepair.digram_merges_total"
	metricStringPoolSize     = "jsastcodec.pool.strings_size"
	metricNumberPoolSize     = "jsastcodec.pool.numbers_size"

	attrGrammarKind = "kind"
)

// codecDurationBucketBoundaries mirrors durationBucketBoundaries but is kept
// distinct so encode/decode latency histograms can be tuned independently
// of the RED-metrics request duration bucket set.
var codecDurationBucketBoundaries = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// CodecMetrics holds the OTel instruments for encode/decode instrumentation:
// bytes written, meta-rules extracted, digram merges performed during
// TreeRePair mining, and the final string/number pool sizes.
type CodecMetrics struct {
	encodeBytesTotal  metric.Int64Counter
	encodeRulesTotal  metric.Int64Counter
	encodeDuration    metric.Float64Histogram
	decodeDuration    metric.Float64Histogram
	digramMergesTotal metric.Int64Counter
	stringPoolSize    metric.Float64Histogram
	numberPoolSize    metric.Float64Histogram
}

// NewCodecMetrics creates codec metric instruments from the given meter.
func NewCodecMetrics(mt metric.Meter) (*CodecMetrics, error) {
	b := newMetricBuilder(mt)

	cm := &CodecMetrics{
		encodeBytesTotal:  b.counter(metricEncodeBytesTotal, "Total bytes written by Encode", "By"),
		encodeRulesTotal:  b.counter(metricEncodeRulesTotal, "Total meta-rules extracted by TreeRePair mining", "{rule}"),
		encodeDuration:    b.secondsHistogram(metricEncodeDurationSecs, "Encode wall-clock duration", codecDurationBucketBoundaries...),
		decodeDuration:    b.secondsHistogram(metricDecodeDurationSecs, "Decode wall-clock duration", codecDurationBucketBoundaries...),
		digramMergesTotal: b.counter(metricDigramMergesTotal, "Total digram merges performed while mining", "{merge}"),
		stringPoolSize:    b.histogram(metricStringPoolSize, "Deduplicated string pool size per encode", "{string}"),
		numberPoolSize:    b.histogram(metricNumberPoolSize, "Deduplicated number pool size per encode", "{number}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return cm, nil
}

// RecordEncode records one completed Encode call: bytes written, meta-rules
// extracted, digram merges performed, pool sizes, and wall-clock duration.
func (cm *CodecMetrics) RecordEncode(ctx context.Context, rootKind string, bytesWritten, rules, digramMerges, stringPool, numberPool int64, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String(attrGrammarKind, rootKind))

	cm.encodeBytesTotal.Add(ctx, bytesWritten, attrs)
	cm.encodeRulesTotal.Add(ctx, rules, attrs)
	cm.digramMergesTotal.Add(ctx, digramMerges, attrs)
	cm.stringPoolSize.Record(ctx, float64(stringPool), attrs)
	cm.numberPoolSize.Record(ctx, float64(numberPool), attrs)
	cm.encodeDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordDecode records one completed Decode call's wall-clock duration.
func (cm *CodecMetrics) RecordDecode(ctx context.Context, rootKind string, duration time.Duration) {
	cm.decodeDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String(attrGrammarKind, rootKind)))
}
