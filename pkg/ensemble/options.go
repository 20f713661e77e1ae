package ensemble

import (
	"github.com/dd0wney/cluso-netensemble/pkg/detect"
	"github.com/dd0wney/cluso-netensemble/pkg/logging"
	"github.com/dd0wney/cluso-netensemble/pkg/metrics"
	"github.com/dd0wney/cluso-netensemble/pkg/sigclu"
)

// Option configures an Ensemble
type Option func(*Ensemble)

// WithDetector sets the community detection collaborator.
// The default is detect.Louvain.
func WithDetector(d detect.Detector) Option {
	return func(e *Ensemble) {
		if d != nil {
			e.detector = d
		}
	}
}

// WithClusterer sets the significance clustering collaborator.
// The default is sigclu.Recursive.
func WithClusterer(c sigclu.Clusterer) Option {
	return func(e *Ensemble) {
		if c != nil {
			e.clusterer = c
		}
	}
}

// WithLogger sets the logger
func WithLogger(l logging.Logger) Option {
	return func(e *Ensemble) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics records pipeline metrics to reg
func WithMetrics(reg *metrics.Registry) Option {
	return func(e *Ensemble) {
		e.metrics = reg
	}
}

// WithRunID overrides the generated run id
func WithRunID(id string) Option {
	return func(e *Ensemble) {
		if id != "" {
			e.runID = id
		}
	}
}
