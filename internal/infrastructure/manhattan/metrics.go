package manhattan

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/wmsbridge/backend/internal/infrastructure/telemetry"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// upstreamMetrics records calls made to the Manhattan hosts. A nil value
// records nothing.
type upstreamMetrics struct {
	requests *telemetry.Counter
	duration *telemetry.Histogram
}

func newUpstreamMetrics(meter metric.Meter) *upstreamMetrics {
	requests, err := telemetry.NewCounter(
		meter,
		"wms_upstream_requests_total",
		"Total number of requests sent to the WMS",
		"{request}",
	)
	if err != nil {
		return nil
	}
	duration, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "wms_upstream_request_duration_seconds",
		Description: "WMS request latency distribution in seconds",
		Unit:        "s",
		Boundaries:  telemetry.UpstreamDurationBuckets,
	})
	if err != nil {
		return nil
	}
	return &upstreamMetrics{requests: requests, duration: duration}
}

func (m *upstreamMetrics) record(ctx context.Context, operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.Inc(ctx,
		telemetry.AttrWMSOperation.String(operation),
		telemetry.AttrOutcome.String(outcome),
	)
	m.duration.RecordDuration(ctx, d, telemetry.AttrWMSOperation.String(operation))
}
