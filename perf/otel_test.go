package perf

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func counterValue(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("metric %q data type = %T, want Sum[int64]", m.Name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestOTelRecorderPublishes(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	rec, err := NewOTelRecorder(provider.Meter("perf_test"))
	if err != nil {
		t.Fatalf("NewOTelRecorder: %v", err)
	}

	rec.Record("generate", 150*time.Millisecond, true)
	rec.Record("generate", 250*time.Millisecond, false)
	rec.Record("analyze", 50*time.Millisecond, true)

	metrics := collect(t, reader)

	total, ok := metrics["backend.invoke.total"]
	if !ok {
		t.Fatal("backend.invoke.total not collected")
	}
	if got := counterValue(t, total); got != 3 {
		t.Errorf("backend.invoke.total = %d, want 3", got)
	}

	errs, ok := metrics["backend.invoke.errors"]
	if !ok {
		t.Fatal("backend.invoke.errors not collected")
	}
	if got := counterValue(t, errs); got != 1 {
		t.Errorf("backend.invoke.errors = %d, want 1", got)
	}

	hist, ok := metrics["backend.invoke.duration_ms"]
	if !ok {
		t.Fatal("backend.invoke.duration_ms not collected")
	}
	data, ok := hist.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("duration data type = %T, want Histogram[float64]", hist.Data)
	}
	var count uint64
	var sum float64
	for _, dp := range data.DataPoints {
		count += dp.Count
		sum += dp.Sum
	}
	if count != 3 {
		t.Errorf("duration histogram count = %d, want 3", count)
	}
	if sum != 450 {
		t.Errorf("duration histogram sum = %v ms, want 450", sum)
	}
}

func TestMonitorWithOTelRecorder(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	rec, err := NewOTelRecorder(provider.Meter("perf_test"))
	if err != nil {
		t.Fatalf("NewOTelRecorder: %v", err)
	}
	m := NewMonitor(Config{}, WithRecorder(rec))

	m.Record("generate", time.Second, false, nil)

	metrics := collect(t, reader)
	if got := counterValue(t, metrics["backend.invoke.total"]); got != 1 {
		t.Errorf("backend.invoke.total = %d, want 1", got)
	}
	if got := counterValue(t, metrics["backend.invoke.errors"]); got != 1 {
		t.Errorf("backend.invoke.errors = %d, want 1", got)
	}
}
