package scene

import (
	"errors"
	"fmt"
	"math"
)

// Pipeline precondition errors. Operations wrap these with context so they
// are tested with errors.Is.
var (
	// ErrInvalidParameter is returned by setters given an out of range value.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrNotConnected is returned when a stage is read before its upstream
	// dependency is bound.
	ErrNotConnected = errors.New("not connected")
	// ErrNotConfigured is returned when a stage is used before it has
	// everything it needs, such as an interactor without a window.
	ErrNotConfigured = errors.New("not configured")
	// ErrInvalidState is returned when an operation is not allowed in the
	// current state of a state machine.
	ErrInvalidState = errors.New("invalid state")
)

// ParamErr returns an error wrapping ErrInvalidParameter that names the
// offending parameter and value.
func ParamErr(name string, value any, reason string) error {
	return fmt.Errorf("%s %v %s: %w", name, value, reason, ErrInvalidParameter)
}

// Positive checks that v is a finite number greater than zero.
func Positive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return ParamErr(name, v, "must be positive")
	}
	return nil
}

// Unit checks that v is a finite number in [0,1].
func Unit(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return ParamErr(name, v, "must be in [0,1]")
	}
	return nil
}
