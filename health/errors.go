package health

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument indicates an empty check name or a missing probe.
	ErrInvalidArgument = errors.New("health: invalid argument")

	// ErrDuplicateName indicates a check name is already registered.
	// Names are compared case-insensitively.
	ErrDuplicateName = errors.New("health: duplicate check name")

	// ErrCheckFailed indicates a health check failed.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout is the fixed marker reported for checks that exceeded
	// their own timeout. It is also the cancellation cause of the derived
	// per-check context.
	ErrCheckTimeout = errors.New("health: timeout exceeded")

	// ErrProbePanic indicates a probe panicked while running.
	ErrProbePanic = errors.New("health: probe panicked")

	// ErrInvalidConfig indicates a Config failed validation.
	ErrInvalidConfig = errors.New("health: invalid config")
)

// PanicError carries the value and stack of a recovered probe panic.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%v: %v", ErrProbePanic, e.Value)
}

func (e *PanicError) Unwrap() error {
	return ErrProbePanic
}
