package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type tempErr struct {
	temp bool
}

func (e *tempErr) Error() string   { return "temp err" }
func (e *tempErr) Temporary() bool { return e.temp }

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), true},
		{"permanent", Permanent(errors.New("bad credentials")), false},
		{"wrapped permanent", fmt.Errorf("call failed: %w", Permanent(errors.New("bad config"))), false},
		{"circuit open", ErrCircuitOpen, false},
		{"wrapped circuit open", fmt.Errorf("gate: %w", ErrCircuitOpen), false},
		{"context canceled", context.Canceled, false},
		{"context deadline", context.DeadlineExceeded, false},
		{"attempt timeout", ErrTimeout, true},
		{"temporary true", &tempErr{temp: true}, true},
		{"temporary false", &tempErr{temp: false}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %t, want %t", tt.err, got, tt.want)
			}
		})
	}
}

func TestPermanent_NilPassthrough(t *testing.T) {
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
}

func TestPermanent_Unwrap(t *testing.T) {
	inner := errors.New("invalid api key")
	err := Permanent(inner)

	if !errors.Is(err, inner) {
		t.Error("Permanent error should unwrap to the inner error")
	}

	var pe *PermanentError
	if !errors.As(err, &pe) {
		t.Fatal("errors.As should find PermanentError")
	}
	if pe.Err != inner {
		t.Errorf("pe.Err = %v, want %v", pe.Err, inner)
	}
}
