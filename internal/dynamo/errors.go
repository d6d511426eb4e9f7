package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for scene operations.
var (
	// ErrCapacity indicates the world cannot register another body.
	ErrCapacity = errors.New("dynamo: body capacity exceeded")

	// ErrInvalidInput indicates a non-finite time step, delta or body state.
	ErrInvalidInput = errors.New("dynamo: invalid input (NaN or Inf detected)")

	// ErrUnknownBody indicates a handle that was never issued or was removed.
	ErrUnknownBody = errors.New("dynamo: unknown body handle")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")
)

// CapacityError reports a rejected body registration.
type CapacityError struct {
	Limit int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%v (limit %d)", ErrCapacity, e.Limit)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacity
}

// InputError describes a rejected input value.
type InputError struct {
	Op    string
	Field string
	Value float64
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s=%v: %v", e.Op, e.Field, e.Value, ErrInvalidInput)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}
