package market

import (
	"errors"
	"fmt"
)

var (
	ErrMissingColumn      = errors.New("missing column")
	ErrInvalidTimeframe   = errors.New("invalid timeframe")
	ErrInvalidTimestamp   = errors.New("invalid timestamp")
	ErrInvariantViolation = errors.New("bar invariant violated")
)

// MissingColumnError names a required column absent from a raw table.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column: %s", e.Column)
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// InvalidTimeframeError carries the input that could not be resolved.
type InvalidTimeframeError struct {
	Input string
}

func (e *InvalidTimeframeError) Error() string {
	return fmt.Sprintf("unknown timeframe alias: %q", e.Input)
}

func (e *InvalidTimeframeError) Is(target error) bool {
	return target == ErrInvalidTimeframe
}

func invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}
