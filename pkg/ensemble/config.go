package ensemble

import (
	"github.com/dd0wney/cluso-netensemble/pkg/detect"
	"github.com/dd0wney/cluso-netensemble/pkg/validation"
)

// DefaultSeed is the seed used when none is configured. Override it before
// calling DefaultConfig to change the default for a whole program.
var DefaultSeed uint64 = 42

// Config is fixed when an Ensemble is created
type Config struct {
	Seed               uint64  `yaml:"seed" json:"seed"`
	NumBootstraps      int     `yaml:"num_bootstraps" json:"num_bootstraps" validate:"min=1"`
	Resolution         float64 `yaml:"resolution" json:"resolution" validate:"gt=0"`
	VariableResolution bool    `yaml:"variable_resolution" json:"variable_resolution"`
	NumTrials          int     `yaml:"num_trials" json:"num_trials" validate:"min=1"`
	// Workers bounds concurrent replicate work; 1 runs everything inline
	Workers int `yaml:"workers" json:"workers" validate:"min=1"`
}

// DefaultConfig returns 1000 bootstraps of 5-trial detection at an auto
// tuned resolution around 1.0
func DefaultConfig() Config {
	return Config{
		Seed:               DefaultSeed,
		NumBootstraps:      1000,
		Resolution:         1.0,
		VariableResolution: true,
		NumTrials:          5,
		Workers:            1,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	return validation.NewConfigValidator("ensemble").
		Struct("config", c).
		Validate()
}

// DetectOptions derives the detection options
func (c Config) DetectOptions() detect.Options {
	return detect.Options{
		Seed:               c.Seed,
		Trials:             c.NumTrials,
		Resolution:         c.Resolution,
		VariableResolution: c.VariableResolution,
	}
}
