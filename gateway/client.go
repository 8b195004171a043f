package gateway

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/jonwraymond/llmgate/cache"
	"github.com/jonwraymond/llmgate/health"
	"github.com/jonwraymond/llmgate/perf"
	"github.com/jonwraymond/llmgate/resilience"
)

// Config tunes the components a Client builds for itself. Prebuilt
// components injected through options take precedence over the
// corresponding config section.
type Config struct {
	// Cache configures the bounded LRU response cache.
	Cache cache.LRUConfig

	// Retry configures backoff between backend attempts.
	Retry resilience.RetryConfig

	// Breaker configures the per-operation circuit breakers.
	Breaker resilience.BreakerConfig

	// Perf configures the performance monitor.
	Perf perf.Config

	// Health configures the health monitor read by Status.
	Health health.Config

	// CallTimeout bounds each individual backend attempt. Zero
	// disables the per-attempt ceiling; the caller's context still
	// applies.
	CallTimeout time.Duration

	// Logger receives invocation logs. Nil selects a no-op logger.
	Logger *zap.Logger

	// TracerProvider supplies the tracer for per-invocation spans.
	// Nil selects a no-op provider.
	TracerProvider trace.TracerProvider
}

// Option overrides a component the Client would otherwise build from
// its Config.
type Option func(*Client)

// WithCache injects a prebuilt response cache.
func WithCache(c cache.Cache) Option {
	return func(cl *Client) { cl.cache = c }
}

// WithKeyer injects a custom request fingerprinter.
func WithKeyer(k cache.Keyer) Option {
	return func(cl *Client) { cl.keyer = k }
}

// WithExecutor injects a prebuilt resilience executor.
func WithExecutor(e *resilience.Executor) Option {
	return func(cl *Client) { cl.executor = e }
}

// WithPerfMonitor injects a prebuilt performance monitor.
func WithPerfMonitor(m *perf.Monitor) Option {
	return func(cl *Client) { cl.perf = m }
}

// WithHealthMonitor injects a prebuilt health monitor. The client only
// reads it; feeding it is the job of a health.Poller.
func WithHealthMonitor(m *health.Monitor) Option {
	return func(cl *Client) { cl.health = m }
}

// Client is the invocation facade. It is safe for concurrent use.
type Client struct {
	backend  Backend
	keyer    cache.Keyer
	cache    cache.Cache
	executor *resilience.Executor
	perf     *perf.Monitor
	health   *health.Monitor
	logger   *zap.Logger
	tracer   trace.Tracer
}

// New creates a Client around the given backend.
func New(backend Backend, config Config, opts ...Option) (*Client, error) {
	if backend == nil {
		return nil, ErrNoBackend
	}

	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	if config.TracerProvider == nil {
		config.TracerProvider = noop.NewTracerProvider()
	}

	c := &Client{
		backend: backend,
		logger:  config.Logger,
		tracer:  config.TracerProvider.Tracer("github.com/jonwraymond/llmgate/gateway"),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.keyer == nil {
		c.keyer = cache.NewDefaultKeyer()
	}
	if c.cache == nil {
		c.cache = cache.NewLRUCache(config.Cache)
	}
	if c.executor == nil {
		execOpts := []resilience.ExecutorOption{
			resilience.WithBreakers(resilience.NewBreakers(config.Breaker)),
			resilience.WithRetry(resilience.NewRetry(config.Retry)),
		}
		if config.CallTimeout > 0 {
			execOpts = append(execOpts, resilience.WithTimeout(config.CallTimeout))
		}
		c.executor = resilience.NewExecutor(execOpts...)
	}
	if c.perf == nil {
		c.perf = perf.NewMonitor(config.Perf)
	}
	if c.health == nil {
		c.health = health.NewMonitor(config.Health)
	}

	return c, nil
}

// GenerateText generates free-form text for the request.
func (c *Client) GenerateText(ctx context.Context, req *Request) (*Response, error) {
	return c.invoke(ctx, OpGenerateText, req)
}

// AnalyzeCode produces an analysis of the code in the request prompt.
func (c *Client) AnalyzeCode(ctx context.Context, req *Request) (*Response, error) {
	return c.invoke(ctx, OpAnalyzeCode, req)
}

// invoke is the shared composition path: fingerprint, cache lookup, and
// on a miss the resilient backend call followed by a cache write. Every
// outcome feeds the performance monitor; failures propagate unchanged.
func (c *Client) invoke(ctx context.Context, operation string, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if req.Prompt == "" {
		return nil, ErrEmptyPrompt
	}
	req.Operation = operation

	ctx, span := c.tracer.Start(ctx, "gateway."+operation, trace.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("backend", c.backend.Name()),
	))
	defer span.End()

	start := time.Now()

	key, err := c.keyer.Key(operation, req.fingerprintParams())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fingerprint failed")
		return nil, fmt.Errorf("gateway: fingerprint request: %w", err)
	}
	span.SetAttributes(attribute.String("cache.key", key))

	if content, ok := c.cache.Get(ctx, key); ok {
		duration := time.Since(start)
		c.perf.Record(operation, duration, true, map[string]any{"cached": true})
		span.SetAttributes(attribute.Bool("cache.hit", true))
		c.logger.Debug("cache hit",
			zap.String("operation", operation),
			zap.String("cache_key", key),
		)
		return &Response{
			Content:   content,
			Operation: operation,
			Backend:   c.backend.Name(),
			Cached:    true,
			Duration:  duration,
		}, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	var content string
	attempts := 0
	err = c.executor.Execute(ctx, operation, func(ctx context.Context) error {
		attempts++
		var callErr error
		content, callErr = c.backend.Complete(ctx, req)
		return callErr
	})
	duration := time.Since(start)
	span.SetAttributes(attribute.Int("attempts", attempts))

	if err != nil {
		c.perf.Record(operation, duration, false, nil)
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend call failed")
		c.logger.Warn("invocation failed",
			zap.String("operation", operation),
			zap.Int("attempts", attempts),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	c.cache.Put(ctx, key, content, map[string]any{
		"operation": operation,
		"backend":   c.backend.Name(),
	})
	c.perf.Record(operation, duration, true, nil)
	c.logger.Debug("invocation succeeded",
		zap.String("operation", operation),
		zap.Int("attempts", attempts),
		zap.Duration("duration", duration),
	)

	return &Response{
		Content:   content,
		Operation: operation,
		Backend:   c.backend.Name(),
		Attempts:  attempts,
		Duration:  duration,
	}, nil
}

// Status is the operational view aggregated across components.
type Status struct {
	// Cache holds entry counts and lifetime hit/miss counters.
	Cache cache.Stats

	// Breakers maps operation name to its circuit's current metrics.
	Breakers map[string]resilience.BreakerMetrics

	// Performance is the aggregate performance snapshot.
	Performance perf.Snapshot

	// Health reflects the most recent availability sample per backend.
	Health health.CurrentHealth
}

// statser is implemented by caches that expose statistics.
type statser interface {
	Stats() cache.Stats
}

// Status reports the current operational state of all components.
func (c *Client) Status() Status {
	s := Status{
		Breakers:    c.executor.Breakers().States(),
		Performance: c.perf.Snapshot(),
		Health:      c.health.Current(),
	}
	if cs, ok := c.cache.(statser); ok {
		s.Cache = cs.Stats()
	}
	return s
}

// Score reports the composite performance score for an operation, in
// [0, 1].
func (c *Client) Score(operation string) float64 {
	return c.perf.Score(operation)
}

// HealthMonitor returns the monitor read by Status, for wiring into a
// health.Poller.
func (c *Client) HealthMonitor() *health.Monitor {
	return c.health
}
