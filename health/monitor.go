package health

import (
	"sync"
	"time"
)

// DefaultHistorySize bounds the per-service sample history when
// Config.HistorySize is zero.
const DefaultHistorySize = 100

// Config tunes a Monitor.
type Config struct {
	// HistorySize bounds the number of retained samples per service.
	// Oldest samples are discarded first. Zero selects
	// DefaultHistorySize.
	HistorySize int
}

// Sample is one recorded availability observation.
type Sample struct {
	Healthy   bool
	Timestamp time.Time
}

// CurrentHealth reflects the most recent sample per tracked service.
type CurrentHealth struct {
	// Services maps service ID to its latest recorded health.
	Services map[string]bool

	// AnyAvailable is true when at least one tracked service is
	// currently healthy.
	AnyAvailable bool
}

// Monitor keeps a bounded rolling history of health samples per
// service. It is safe for concurrent use.
type Monitor struct {
	config Config

	mu        sync.Mutex
	histories map[string][]Sample
}

// NewMonitor creates a Monitor with the given configuration.
func NewMonitor(config Config) *Monitor {
	if config.HistorySize <= 0 {
		config.HistorySize = DefaultHistorySize
	}
	return &Monitor{
		config:    config,
		histories: make(map[string][]Sample),
	}
}

// Record appends one sample for the named service, discarding the
// oldest sample when the bounded history is full.
func (m *Monitor) Record(serviceID string, healthy bool) {
	sample := Sample{Healthy: healthy, Timestamp: time.Now()}

	m.mu.Lock()
	defer m.mu.Unlock()

	history := append(m.histories[serviceID], sample)
	if len(history) > m.config.HistorySize {
		copy(history, history[1:])
		history = history[:len(history)-1]
	}
	m.histories[serviceID] = history
}

// UptimeRatio returns the fraction of retained samples marked healthy
// for the named service, or 0.0 when it has no samples.
func (m *Monitor) UptimeRatio(serviceID string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	history := m.histories[serviceID]
	if len(history) == 0 {
		return 0.0
	}

	healthy := 0
	for _, s := range history {
		if s.Healthy {
			healthy++
		}
	}
	return float64(healthy) / float64(len(history))
}

// Current returns the most recent sample per tracked service. Services
// with no samples are not listed.
func (m *Monitor) Current() CurrentHealth {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := CurrentHealth{Services: make(map[string]bool, len(m.histories))}
	for id, history := range m.histories {
		if len(history) == 0 {
			continue
		}
		latest := history[len(history)-1].Healthy
		current.Services[id] = latest
		if latest {
			current.AnyAvailable = true
		}
	}
	return current
}

// History returns a copy of the retained samples for the named service,
// oldest first.
func (m *Monitor) History(serviceID string) []Sample {
	m.mu.Lock()
	defer m.mu.Unlock()

	history := m.histories[serviceID]
	if len(history) == 0 {
		return nil
	}
	out := make([]Sample, len(history))
	copy(out, history)
	return out
}

// Services returns the IDs of all tracked services in unspecified
// order.
func (m *Monitor) Services() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.histories))
	for id := range m.histories {
		ids = append(ids, id)
	}
	return ids
}

// Reset discards all sample histories.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.histories = make(map[string][]Sample)
}
