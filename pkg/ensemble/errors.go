package ensemble

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrMissingResult    = errors.New("result has not been computed")
	ErrNoNetworks       = errors.New("at least one network is required")
	ErrNilNetwork       = errors.New("network is nil")
	ErrNotBootstrapMode = errors.New("ensemble of several networks is not bootstrapped")
)

// MissingResultError is returned when an operation needs a result that no
// earlier call has produced. The result is never computed implicitly.
type MissingResultError struct {
	Op     string // Operation that needed the result
	Result string // Missing result (e.g., "partitions", "cores")
}

// Error implements the error interface.
func (e *MissingResultError) Error() string {
	return fmt.Sprintf("%s: %s not computed", e.Op, e.Result)
}

// Unwrap returns ErrMissingResult.
func (e *MissingResultError) Unwrap() error {
	return ErrMissingResult
}

func missing(op, result string) error {
	return &MissingResultError{Op: op, Result: result}
}
