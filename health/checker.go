package health

import "context"

// Checker probes one backend service.
type Checker interface {
	// Name returns the service ID this checker probes.
	Name() string

	// Check probes the service. A nil return means healthy.
	Check(ctx context.Context) error
}

// CheckerFunc is an adapter to allow ordinary functions to be used as
// Checkers.
type CheckerFunc struct {
	name string
	fn   func(context.Context) error
}

// NewCheckerFunc creates a Checker from a probe function.
func NewCheckerFunc(name string, fn func(context.Context) error) *CheckerFunc {
	return &CheckerFunc{name: name, fn: fn}
}

// Name returns the service ID this checker probes.
func (f *CheckerFunc) Name() string {
	return f.name
}

// Check probes the service.
func (f *CheckerFunc) Check(ctx context.Context) error {
	return f.fn(ctx)
}

var _ Checker = (*CheckerFunc)(nil)
