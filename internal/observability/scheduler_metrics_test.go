package observability_test

import (
	"testing"

	"github.com/Sumatoshi-tech/jsastcodec/internal/observability"

	"github.com/stretchr/testify/require"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
)

func TestNewProcessMetrics_NoopMeter(t *testing.T) {
	t.Parallel()

	mt := noopmetric.NewMeterProvider().Meter("test")
	pm, err := observability.NewProcessMetrics(mt)

	require.NoError(t, err)
	require.NotNil(t, pm)
}
