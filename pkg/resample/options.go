package resample

import (
	"github.com/dd0wney/cluso-netensemble/pkg/logging"
	"github.com/dd0wney/cluso-netensemble/pkg/metrics"
)

type options struct {
	workers int
	logger  logging.Logger
	metrics *metrics.Registry
}

// Option configures Bootstrap
type Option func(*options)

// WithWorkers sets how many goroutines materialise replicate networks.
// Draws are always taken sequentially, so the worker count never changes
// the output.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger sets the logger
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records replicate counts and timings to reg
func WithMetrics(reg *metrics.Registry) Option {
	return func(o *options) {
		o.metrics = reg
	}
}

func buildOptions(opts []Option) options {
	o := options{
		workers: 1,
		logger:  logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
