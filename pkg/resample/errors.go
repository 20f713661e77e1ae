package resample

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrNoWeightedEdges = errors.New("network has no edge with positive weight")
	ErrInvalidCount    = errors.New("replicate count must be positive")
	ErrNilNetwork      = errors.New("network is nil")
)

// ResamplingError reports why a bootstrap could not be produced.
type ResamplingError struct {
	Count int   // Requested number of replicates
	Edges int   // Edge count of the source network
	Cause error // Underlying error
}

// Error implements the error interface.
func (e *ResamplingError) Error() string {
	return fmt.Sprintf("resample %d replicates over %d edges: %v", e.Count, e.Edges, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ResamplingError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error's cause.
func (e *ResamplingError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}
