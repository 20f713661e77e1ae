package detect

import (
	"github.com/dd0wney/cluso-netensemble/pkg/validation"
)

// Options parameterise a community detection run
type Options struct {
	// Seed fixes every random choice the detector makes
	Seed uint64
	// Trials is the number of independent restarts; the best one is kept
	Trials int `validate:"min=1"`
	// Resolution is the modularity resolution parameter
	Resolution float64 `validate:"gt=0"`
	// VariableResolution lets the detector tune the resolution around
	// Resolution and keep the best scoring candidate
	VariableResolution bool
}

// DefaultOptions returns single-trial detection at resolution 1
func DefaultOptions() Options {
	return Options{
		Trials:     1,
		Resolution: 1.0,
	}
}

// Validate checks the options
func (o Options) Validate() error {
	return validation.NewConfigValidator("detect").
		Struct("options", o).
		Validate()
}

// resolutions returns the resolution candidates to try
func (o Options) resolutions() []float64 {
	if !o.VariableResolution {
		return []float64{o.Resolution}
	}
	return []float64{o.Resolution, o.Resolution / 2, o.Resolution * 2}
}
