// Package lifecycle holds the parlay state machine: veto quorum resolution,
// result finalization, and the guarded transitions between Building, Open
// and Closed. Every function works on an in-memory parlay graph supplied by
// the caller and performs no I/O.
package lifecycle

import (
	"errors"
	"fmt"
)

var (
	// ErrPrecondition marks a user-actionable rejection. Nothing was mutated.
	ErrPrecondition = errors.New("precondition failed")

	// ErrInvariantViolation marks a corrupted parlay graph, e.g. two approved
	// vetoes in one parlay. Callers must abort rather than recover.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrUnmappedResult is returned when a pick result has no veto result counterpart.
	ErrUnmappedResult = errors.New("pick result has no veto result mapping")
)

// PreconditionError describes which operation was refused and why
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *PreconditionError) Unwrap() error {
	return ErrPrecondition
}

func precondition(op, format string, args ...interface{}) error {
	return &PreconditionError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

func invariant(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}
