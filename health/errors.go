package health

import "errors"

var (
	// ErrCheckTimeout indicates a health probe did not return within
	// the poller's per-check timeout.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrAlreadyRunning indicates Start was called on a running poller.
	ErrAlreadyRunning = errors.New("health: poller already running")
)
