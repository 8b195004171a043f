package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPollerRunOnce(t *testing.T) {
	m := NewMonitor(Config{})
	p := NewPoller(m, PollerConfig{})

	p.Register(NewCheckerFunc("primary", func(ctx context.Context) error {
		return nil
	}))
	p.Register(NewCheckerFunc("fallback", func(ctx context.Context) error {
		return errors.New("connection refused")
	}))

	p.RunOnce(context.Background())

	current := m.Current()
	if !current.Services["primary"] {
		t.Error("primary not recorded healthy after passing probe")
	}
	if current.Services["fallback"] {
		t.Error("fallback recorded healthy after failing probe")
	}
	if !current.AnyAvailable {
		t.Error("AnyAvailable = false with a healthy primary")
	}
}

func TestPollerCheckTimeout(t *testing.T) {
	m := NewMonitor(Config{})
	p := NewPoller(m, PollerConfig{CheckTimeout: 20 * time.Millisecond})

	p.Register(NewCheckerFunc("stalled", func(ctx context.Context) error {
		// Ignores its context on purpose.
		time.Sleep(200 * time.Millisecond)
		return nil
	}))

	start := time.Now()
	p.RunOnce(context.Background())
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Errorf("round took %v, stalled probe was not bounded by CheckTimeout", elapsed)
	}

	if m.Current().Services["stalled"] {
		t.Error("stalled probe recorded healthy, want unhealthy")
	}
}

func TestPollerPeriodicRounds(t *testing.T) {
	m := NewMonitor(Config{})
	p := NewPoller(m, PollerConfig{Interval: 10 * time.Millisecond})

	p.Register(NewCheckerFunc("primary", func(ctx context.Context) error {
		return nil
	}))

	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer p.Stop()

	deadline := time.After(time.Second)
	for len(m.History("primary")) < 2 {
		select {
		case <-deadline:
			t.Fatal("poller did not record two samples within a second")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestPollerStartTwice(t *testing.T) {
	m := NewMonitor(Config{})
	p := NewPoller(m, PollerConfig{Interval: time.Hour})

	if err := p.Start(); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	defer p.Stop()

	if err := p.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start error = %v, want ErrAlreadyRunning", err)
	}
}

func TestPollerStopIdempotent(t *testing.T) {
	m := NewMonitor(Config{})
	p := NewPoller(m, PollerConfig{Interval: time.Hour})

	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	p.Stop()
	p.Stop()
}

func TestPollerStopWithoutStart(t *testing.T) {
	m := NewMonitor(Config{})
	p := NewPoller(m, PollerConfig{})

	// Must not block waiting for a loop that never ran.
	p.Stop()
}
