package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Default poller tuning applied by NewPoller when the corresponding
// PollerConfig field is zero.
const (
	DefaultInterval     = 30 * time.Second
	DefaultCheckTimeout = 5 * time.Second
)

// PollerConfig configures a Poller.
type PollerConfig struct {
	// Interval is the cadence between probe rounds. Zero selects
	// DefaultInterval.
	Interval time.Duration

	// CheckTimeout bounds each individual probe. Zero selects
	// DefaultCheckTimeout.
	CheckTimeout time.Duration

	// Logger receives probe failures. Nil selects a no-op logger.
	Logger *zap.Logger
}

// Poller drives registered Checkers on a fixed cadence and records
// their outcomes into a Monitor. Probes within a round run
// concurrently; a failed or timed-out probe records an unhealthy
// sample and never aborts the round.
type Poller struct {
	config  PollerConfig
	monitor *Monitor

	mu       sync.Mutex
	checkers []Checker
	running  bool

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewPoller creates a Poller feeding the given Monitor.
func NewPoller(monitor *Monitor, config PollerConfig) *Poller {
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if config.CheckTimeout <= 0 {
		config.CheckTimeout = DefaultCheckTimeout
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	return &Poller{
		config:  config,
		monitor: monitor,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Register adds a checker to subsequent probe rounds.
func (p *Poller) Register(c Checker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.checkers = append(p.checkers, c)
}

// Start launches the polling loop. The first round runs after one
// interval has elapsed.
func (p *Poller) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return ErrAlreadyRunning
	}
	p.running = true

	go p.loop()
	return nil
}

// Stop terminates the polling loop and waits for it to exit. It is
// idempotent and a no-op for a poller that was never started.
func (p *Poller) Stop() {
	p.mu.Lock()
	started := p.running
	p.mu.Unlock()
	if !started {
		return
	}

	p.stopOnce.Do(func() { close(p.stop) })
	<-p.done
}

func (p *Poller) loop() {
	defer close(p.done)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.RunOnce(context.Background())
		case <-p.stop:
			return
		}
	}
}

// RunOnce executes a single probe round, recording one sample per
// registered checker.
func (p *Poller) RunOnce(ctx context.Context) {
	p.mu.Lock()
	checkers := make([]Checker, len(p.checkers))
	copy(checkers, p.checkers)
	p.mu.Unlock()

	var g errgroup.Group
	for _, c := range checkers {
		c := c
		g.Go(func() error {
			err := p.runCheck(ctx, c)
			p.monitor.Record(c.Name(), err == nil)
			if err != nil {
				p.config.Logger.Warn("health check failed",
					zap.String("service", c.Name()),
					zap.Error(err),
				)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// runCheck bounds a single probe by CheckTimeout. A probe that ignores
// its context still cannot stall the round past the timeout.
func (p *Poller) runCheck(ctx context.Context, c Checker) error {
	ctx, cancel := context.WithTimeout(ctx, p.config.CheckTimeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- c.Check(ctx)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ErrCheckTimeout
	}
}
