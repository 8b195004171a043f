// Package perf tracks latency and reliability statistics for backend
// operations.
//
// The Monitor keeps a bounded history of recent samples per operation
// plus exponential moving averages of duration and success rate. The
// moving averages react to recent behavior while the bounded history
// caps memory regardless of call volume. Score condenses both into a
// single value in [0, 1] that callers can threshold for routing or
// alerting decisions.
//
// An optional Recorder mirrors every sample to an external sink; the
// OTelRecorder implementation publishes counters and a duration
// histogram through an OpenTelemetry meter.
package perf
