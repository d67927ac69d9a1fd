package observability

import (
	"context"
	"fmt"
	"math"
	runtimemetrics "runtime/metrics"

	"go.opentelemetry.io/otel/metric"
)

const (
	metricGoroutines = "jsastcodec.runtime.goroutines"
	metricHeapBytes  = "jsastcodec.runtime.heap_bytes"
	metricGCPauseNS  = "jsastcodec.runtime.gc_pause_ns_total"

	// runtime/metrics sample names (Go 1.21+).
	sampleGoroutines = "/sched/goroutines:goroutines"
	sampleHeapBytes  = "/memory/classes/heap/objects:bytes"
	sampleGCPauseNS  = "/gc/pauses:seconds"
)

// ProcessMetrics exposes Go runtime metrics that matter for tuning a single
// encode/decode invocation's resource limits. TreeRePair mining holds a
// digram frequency map sized against the whole input tree in memory before
// it extracts the first production, so heap growth and goroutine count are
// the signals an operator watches to decide how large an input this process
// can take before it needs to be split or run with a bigger memory limit.
type ProcessMetrics struct {
	goroutines metric.Int64ObservableGauge
	heapBytes  metric.Int64ObservableGauge
	gcPauseNS  metric.Int64ObservableCounter
}

// NewProcessMetrics creates OTel instruments backed by runtime/metrics.
// The meter's periodic reader invokes the callback automatically; no manual
// polling is needed.
func NewProcessMetrics(mt metric.Meter) (*ProcessMetrics, error) {
	goroutines, err := mt.Int64ObservableGauge(metricGoroutines,
		metric.WithDescription("Current number of live goroutines"),
		metric.WithUnit("{goroutine}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricGoroutines, err)
	}

	heap, err := mt.Int64ObservableGauge(metricHeapBytes,
		metric.WithDescription("Heap bytes in use, dominated by TreeRePair's digram frequency map during mining"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricHeapBytes, err)
	}

	gcPause, err := mt.Int64ObservableCounter(metricGCPauseNS,
		metric.WithDescription("Cumulative time spent in GC stop-the-world pauses since process start"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricGCPauseNS, err)
	}

	pm := &ProcessMetrics{
		goroutines: goroutines,
		heapBytes:  heap,
		gcPauseNS:  gcPause,
	}

	_, err = mt.RegisterCallback(pm.observe, goroutines, heap, gcPause)
	if err != nil {
		return nil, fmt.Errorf("register process metrics callback: %w", err)
	}

	return pm, nil
}

// observe reads runtime/metrics samples and reports them to the OTel observer.
func (pm *ProcessMetrics) observe(_ context.Context, obs metric.Observer) error {
	samples := []runtimemetrics.Sample{
		{Name: sampleGoroutines},
		{Name: sampleHeapBytes},
		{Name: sampleGCPauseNS},
	}

	runtimemetrics.Read(samples)

	for idx := range samples {
		switch samples[idx].Name {
		case sampleGoroutines, sampleHeapBytes:
			val, ok := sampleInt64Value(samples[idx].Value)
			if !ok {
				continue
			}

			if samples[idx].Name == sampleGoroutines {
				obs.ObserveInt64(pm.goroutines, val)
			} else {
				obs.ObserveInt64(pm.heapBytes, val)
			}
		case sampleGCPauseNS:
			ns, ok := sampleHistogramTotalNS(samples[idx].Value)
			if ok {
				obs.ObserveInt64(pm.gcPauseNS, ns)
			}
		}
	}

	return nil
}

// sampleInt64Value extracts an int64 from a runtime/metrics value,
// handling both Uint64 and Float64 kinds.
func sampleInt64Value(val runtimemetrics.Value) (int64, bool) {
	switch val.Kind() {
	case runtimemetrics.KindUint64:
		u := val.Uint64()
		if u > uint64(math.MaxInt64) {
			return math.MaxInt64, true
		}

		return int64(u), true
	case runtimemetrics.KindFloat64:
		return int64(val.Float64()), true
	case runtimemetrics.KindBad, runtimemetrics.KindFloat64Histogram:
		return 0, false
	default:
		return 0, false
	}
}

// sampleHistogramTotalNS sums a /gc/pauses:seconds float64 histogram's
// bucket counts weighted by bucket upper bound, converted to nanoseconds,
// giving a monotonically increasing counter suitable for an
// Int64ObservableCounter even though the underlying sample is a histogram.
func sampleHistogramTotalNS(val runtimemetrics.Value) (int64, bool) {
	if val.Kind() != runtimemetrics.KindFloat64Histogram {
		return 0, false
	}

	hist := val.Float64Histogram()

	var totalSeconds float64

	for i, count := range hist.Counts {
		if count == 0 {
			continue
		}

		bound := hist.Buckets[i+1]
		if math.IsInf(bound, 1) {
			bound = hist.Buckets[i]
		}

		totalSeconds += float64(count) * bound
	}

	total := totalSeconds * float64(1e9)
	if total > math.MaxInt64 {
		return math.MaxInt64, true
	}

	return int64(total), true
}
