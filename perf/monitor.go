package perf

import (
	"math"
	"sync"
	"time"
)

// Default tuning values applied by NewMonitor when the corresponding
// Config field is zero.
const (
	// DefaultAlpha is the smoothing factor for the moving averages.
	DefaultAlpha = 0.1

	// DefaultReferenceDuration is the latency at which the speed
	// component of Score reaches zero.
	DefaultReferenceDuration = 10 * time.Second

	// DefaultMaxRecords bounds the per-operation sample history.
	DefaultMaxRecords = 1000
)

// Config tunes a Monitor.
type Config struct {
	// Alpha is the smoothing factor for the exponential moving
	// averages, in (0, 1]. Larger values weigh recent samples more
	// heavily. Zero selects DefaultAlpha.
	Alpha float64

	// ReferenceDuration scales the speed component of Score. An
	// average duration at or above this value scores zero on speed.
	// Zero selects DefaultReferenceDuration.
	ReferenceDuration time.Duration

	// MaxRecords bounds the number of retained samples per
	// operation. Oldest samples are discarded first. Zero selects
	// DefaultMaxRecords.
	MaxRecords int
}

// Sample is one recorded operation outcome.
type Sample struct {
	Duration  time.Duration
	Success   bool
	Timestamp time.Time
	Metadata  map[string]any
}

// OperationStats is a point-in-time view of one operation's tracked
// statistics.
type OperationStats struct {
	// Samples is the number of retained history entries, at most
	// Config.MaxRecords.
	Samples int

	// TotalCalls counts every recorded sample, including those
	// already discarded from the bounded history.
	TotalCalls int64

	// ErrorCount counts recorded failures over the monitor's
	// lifetime.
	ErrorCount int64

	// AvgDuration is the exponential moving average of sample
	// durations.
	AvgDuration time.Duration

	// SuccessRate is the exponential moving average of the success
	// indicator, in [0, 1].
	SuccessRate float64
}

// Snapshot is an aggregate view across all tracked operations.
type Snapshot struct {
	// TotalOperations counts every sample recorded since creation
	// or the last Reset.
	TotalOperations int64

	// OverallSuccessRate is lifetime successes divided by
	// TotalOperations, or zero when nothing has been recorded.
	OverallSuccessRate float64

	// AverageResponseTime is the lifetime mean duration across all
	// operations, not the moving average.
	AverageResponseTime time.Duration

	// ErrorCounts maps operation name to lifetime failure count.
	// Operations with no failures are omitted.
	ErrorCounts map[string]int64

	// Uptime is the elapsed time since creation or the last Reset.
	Uptime time.Duration
}

// Recorder mirrors samples to an external sink. Implementations must
// be safe for concurrent use and must not block.
type Recorder interface {
	Record(operation string, duration time.Duration, success bool)
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithRecorder mirrors every recorded sample to r in addition to the
// in-memory statistics.
func WithRecorder(r Recorder) Option {
	return func(m *Monitor) {
		m.recorder = r
	}
}

// opState holds per-operation accumulators. Guarded by Monitor.mu.
type opState struct {
	history     []Sample
	totalCalls  int64
	errorCount  int64
	avgSeconds  float64
	successRate float64
}

// Monitor tracks per-operation latency and reliability statistics.
// It is safe for concurrent use.
type Monitor struct {
	config   Config
	recorder Recorder

	mu        sync.Mutex
	ops       map[string]*opState
	startedAt time.Time

	totalCalls    int64
	totalSuccess  int64
	totalDuration time.Duration
}

// NewMonitor creates a Monitor with the given configuration. Zero
// config fields take package defaults.
func NewMonitor(config Config, opts ...Option) *Monitor {
	if config.Alpha <= 0 {
		config.Alpha = DefaultAlpha
	}
	if config.ReferenceDuration <= 0 {
		config.ReferenceDuration = DefaultReferenceDuration
	}
	if config.MaxRecords <= 0 {
		config.MaxRecords = DefaultMaxRecords
	}

	m := &Monitor{
		config:    config,
		ops:       make(map[string]*opState),
		startedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Record adds one sample for the named operation. Metadata is retained
// with the bounded history and may be nil.
func (m *Monitor) Record(operation string, duration time.Duration, success bool, metadata map[string]any) {
	sample := Sample{
		Duration:  duration,
		Success:   success,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}

	m.mu.Lock()
	st, ok := m.ops[operation]
	if !ok {
		st = &opState{}
		m.ops[operation] = st
	}

	st.history = append(st.history, sample)
	if len(st.history) > m.config.MaxRecords {
		// Drop the oldest sample without retaining the backing
		// array slot.
		copy(st.history, st.history[1:])
		st.history[len(st.history)-1] = Sample{}
		st.history = st.history[:len(st.history)-1]
	}

	alpha := m.config.Alpha
	st.avgSeconds = (1-alpha)*st.avgSeconds + alpha*duration.Seconds()
	indicator := 0.0
	if success {
		indicator = 1.0
	}
	st.successRate = (1-alpha)*st.successRate + alpha*indicator

	st.totalCalls++
	if !success {
		st.errorCount++
	}

	m.totalCalls++
	if success {
		m.totalSuccess++
	}
	m.totalDuration += duration
	m.mu.Unlock()

	if m.recorder != nil {
		m.recorder.Record(operation, duration, success)
	}
}

// Score condenses an operation's statistics into a single value in
// [0, 1]. It averages three components: speed (linear falloff from 1
// at zero latency to 0 at ReferenceDuration), the success moving
// average, and one minus the error moving average. Unknown operations
// score zero.
func (m *Monitor) Score(operation string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.ops[operation]
	if !ok {
		return 0
	}

	speed := 1 - st.avgSeconds/m.config.ReferenceDuration.Seconds()
	speed = math.Max(0, speed)
	errorRate := 1 - st.successRate

	return (speed + st.successRate + (1 - errorRate)) / 3
}

// ErrorRate returns the smoothed failure rate for the named operation,
// in [0, 1]. Unknown operations report zero.
func (m *Monitor) ErrorRate(operation string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.ops[operation]
	if !ok {
		return 0
	}
	return 1 - st.successRate
}

// AvgDuration returns the moving-average duration for the named
// operation, or zero when it has never been recorded.
func (m *Monitor) AvgDuration(operation string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.ops[operation]
	if !ok {
		return 0
	}
	return time.Duration(st.avgSeconds * float64(time.Second))
}

// Stats returns a point-in-time view of one operation's statistics.
// The second return value reports whether the operation has been
// recorded.
func (m *Monitor) Stats(operation string) (OperationStats, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.ops[operation]
	if !ok {
		return OperationStats{}, false
	}
	return OperationStats{
		Samples:     len(st.history),
		TotalCalls:  st.totalCalls,
		ErrorCount:  st.errorCount,
		AvgDuration: time.Duration(st.avgSeconds * float64(time.Second)),
		SuccessRate: st.successRate,
	}, true
}

// History returns a copy of the retained samples for the named
// operation, oldest first.
func (m *Monitor) History(operation string) []Sample {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.ops[operation]
	if !ok {
		return nil
	}
	out := make([]Sample, len(st.history))
	copy(out, st.history)
	return out
}

// Snapshot returns an aggregate view across all operations.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		TotalOperations: m.totalCalls,
		ErrorCounts:     make(map[string]int64),
		Uptime:          time.Since(m.startedAt),
	}
	if m.totalCalls > 0 {
		snap.OverallSuccessRate = float64(m.totalSuccess) / float64(m.totalCalls)
		snap.AverageResponseTime = m.totalDuration / time.Duration(m.totalCalls)
	}
	for name, st := range m.ops {
		if st.errorCount > 0 {
			snap.ErrorCounts[name] = st.errorCount
		}
	}
	return snap
}

// Reset discards all tracked statistics and restarts the uptime clock.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ops = make(map[string]*opState)
	m.startedAt = time.Now()
	m.totalCalls = 0
	m.totalSuccess = 0
	m.totalDuration = 0
}
