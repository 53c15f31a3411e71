package testutil

import "errors"

// ErrSimulated is a sentinel error for injected repository and factory failures.
var ErrSimulated = errors.New("simulated failure")
