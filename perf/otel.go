package perf

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelRecorder publishes samples through an OpenTelemetry meter. It
// implements Recorder and is safe for concurrent use.
type OTelRecorder struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
}

var _ Recorder = (*OTelRecorder)(nil)

// NewOTelRecorder creates instruments on the given meter.
func NewOTelRecorder(meter metric.Meter) (*OTelRecorder, error) {
	totalCount, err := meter.Int64Counter(
		"backend.invoke.total",
		metric.WithDescription("Total number of backend invocations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"backend.invoke.errors",
		metric.WithDescription("Total number of failed backend invocations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"backend.invoke.duration_ms",
		metric.WithDescription("Backend invocation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &OTelRecorder{
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
	}, nil
}

// Record publishes one sample.
func (r *OTelRecorder) Record(operation string, duration time.Duration, success bool) {
	ctx := context.Background()
	opt := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.Bool("success", success),
	)

	r.totalCount.Add(ctx, 1, opt)
	if !success {
		r.errorCount.Add(ctx, 1, opt)
	}
	r.durationHist.Record(ctx, float64(duration)/float64(time.Millisecond), opt)
}
