package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestExecutor(threshold int, cooldown time.Duration, maxAttempts int) *Executor {
	return NewExecutor(
		WithBreakers(NewBreakers(BreakerConfig{Threshold: threshold, Cooldown: cooldown})),
		WithRetry(NewRetry(RetryConfig{MaxAttempts: maxAttempts, InitialDelay: time.Millisecond})),
	)
}

func TestExecutor_Success(t *testing.T) {
	e := NewExecutor()

	calls := 0
	err := e.Execute(context.Background(), "generate_text", func(ctx context.Context) error {
		calls++
		return nil
	})

	if err != nil {
		t.Errorf("Execute() = %v, want nil", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestExecutor_RetryCeiling(t *testing.T) {
	e := newTestExecutor(10, time.Minute, 3)

	backendErr := errors.New("backend unavailable")
	calls := 0
	err := e.Execute(context.Background(), "generate_text", func(ctx context.Context) error {
		calls++
		return backendErr
	})

	if calls != 3 {
		t.Errorf("backend invoked %d times, want exactly 3", calls)
	}

	var opErr *OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("Execute() = %v, want *OperationError", err)
	}
	if opErr.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", opErr.Attempts)
	}
	if !errors.Is(err, backendErr) {
		t.Error("final error should wrap the last backend error")
	}
}

func TestExecutor_CircuitOpensAndFailsFast(t *testing.T) {
	// Threshold 3 with single-attempt retries: three failing calls open
	// the circuit.
	e := newTestExecutor(3, time.Minute, 1)

	backendErr := errors.New("backend down")
	calls := 0
	fail := func(ctx context.Context) error {
		calls++
		return backendErr
	}

	for i := 0; i < 3; i++ {
		_ = e.Execute(context.Background(), "generate_text", fail)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}

	// Circuit is now open: the backend must not be invoked.
	err := e.Execute(context.Background(), "generate_text", func(ctx context.Context) error {
		t.Error("backend should not be invoked while the circuit is open")
		return nil
	})

	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Execute() = %v, want ErrCircuitOpen", err)
	}

	var opErr *OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("Execute() = %v, want *OperationError", err)
	}
	if opErr.Attempts != 0 {
		t.Errorf("Attempts = %d, want 0", opErr.Attempts)
	}
	if !opErr.CircuitOpen {
		t.Error("CircuitOpen = false, want true")
	}
}

func TestExecutor_CircuitReattemptsAfterCooldown(t *testing.T) {
	e := newTestExecutor(1, 20*time.Millisecond, 1)

	// Open the circuit.
	_ = e.Execute(context.Background(), "generate_text", func(ctx context.Context) error {
		return errors.New("backend down")
	})

	time.Sleep(30 * time.Millisecond)

	// After the cooldown the backend is attempted again.
	calls := 0
	err := e.Execute(context.Background(), "generate_text", func(ctx context.Context) error {
		calls++
		return nil
	})

	if err != nil {
		t.Errorf("Execute() after cooldown = %v, want nil", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

// A circuit that crosses its threshold mid-call stops the remaining
// retries of that same call.
func TestExecutor_CircuitOpensMidCall(t *testing.T) {
	e := newTestExecutor(2, time.Minute, 5)

	calls := 0
	err := e.Execute(context.Background(), "generate_text", func(ctx context.Context) error {
		calls++
		return errors.New("backend down")
	})

	if calls != 2 {
		t.Errorf("calls = %d, want 2 (threshold stops further attempts)", calls)
	}
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Execute() = %v, want ErrCircuitOpen", err)
	}
}

func TestExecutor_NonRetryableLeavesCircuitClosed(t *testing.T) {
	e := newTestExecutor(1, time.Minute, 5)

	calls := 0
	err := e.Execute(context.Background(), "generate_text", func(ctx context.Context) error {
		calls++
		return Permanent(errors.New("invalid api key"))
	})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}

	var opErr *OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("Execute() = %v, want *OperationError", err)
	}
	if opErr.CircuitOpen {
		t.Error("non-retryable failure must not open the circuit")
	}

	// A follow-up call still reaches the backend.
	reached := false
	_ = e.Execute(context.Background(), "generate_text", func(ctx context.Context) error {
		reached = true
		return nil
	})
	if !reached {
		t.Error("backend should be reachable after a non-retryable failure")
	}
}

func TestExecutor_SuccessResetsCircuit(t *testing.T) {
	e := newTestExecutor(3, time.Minute, 1)

	fail := func(ctx context.Context) error { return errors.New("down") }
	ok := func(ctx context.Context) error { return nil }

	_ = e.Execute(context.Background(), "generate_text", fail)
	_ = e.Execute(context.Background(), "generate_text", fail)
	_ = e.Execute(context.Background(), "generate_text", ok)
	_ = e.Execute(context.Background(), "generate_text", fail)
	_ = e.Execute(context.Background(), "generate_text", fail)

	// 2 failures, reset, 2 failures: never reaches threshold 3.
	if state := e.Breakers().For("generate_text").State(); state != StateClosed {
		t.Errorf("state = %v, want closed", state)
	}
}

func TestExecutor_OperationsAreIsolated(t *testing.T) {
	e := newTestExecutor(1, time.Minute, 1)

	_ = e.Execute(context.Background(), "generate_text", func(ctx context.Context) error {
		return errors.New("down")
	})

	// A different operation name is unaffected by the open circuit.
	calls := 0
	err := e.Execute(context.Background(), "analyze_code", func(ctx context.Context) error {
		calls++
		return nil
	})

	if err != nil {
		t.Errorf("Execute(analyze_code) = %v, want nil", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestExecutor_PerAttemptTimeout(t *testing.T) {
	e := NewExecutor(
		WithBreakers(NewBreakers(BreakerConfig{Threshold: 10, Cooldown: time.Minute})),
		WithRetry(NewRetry(RetryConfig{MaxAttempts: 2, InitialDelay: time.Millisecond})),
		WithTimeout(10*time.Millisecond),
	)

	calls := 0
	err := e.Execute(context.Background(), "generate_text", func(ctx context.Context) error {
		calls++
		select {
		case <-time.After(time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	// Attempt timeouts are retryable, so both attempts run.
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Execute() = %v, want ErrTimeout", err)
	}
}

func TestExecutor_BulkheadRejectionPassesThrough(t *testing.T) {
	bh := NewBulkhead(BulkheadConfig{MaxConcurrent: 1})
	e := NewExecutor(WithBulkhead(bh))

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = e.Execute(context.Background(), "generate_text", func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	err := e.Execute(context.Background(), "generate_text", func(ctx context.Context) error {
		return nil
	})
	close(release)

	if !errors.Is(err, ErrBulkheadFull) {
		t.Errorf("Execute() = %v, want ErrBulkheadFull", err)
	}
	// Rejections before any attempt are not wrapped as operation failures.
	var opErr *OperationError
	if errors.As(err, &opErr) {
		t.Error("bulkhead rejection should not be wrapped in OperationError")
	}
}

func TestOperationError_Message(t *testing.T) {
	err := &OperationError{
		Operation:   "generate_text",
		Attempts:    3,
		CircuitOpen: true,
		Err:         errors.New("backend down"),
	}

	want := `resilience: operation "generate_text" failed after 3 attempt(s) (circuit open: true): backend down`
	if err.Error() != want {
		t.Errorf("Error() = %s, want %s", err.Error(), want)
	}
}
