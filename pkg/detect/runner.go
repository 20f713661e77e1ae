package detect

import (
	"errors"
	"fmt"
	"time"

	"github.com/dd0wney/cluso-netensemble/pkg/logging"
	"github.com/dd0wney/cluso-netensemble/pkg/metrics"
	"github.com/dd0wney/cluso-netensemble/pkg/network"
	"github.com/dd0wney/cluso-netensemble/pkg/partition"
)

// Common sentinel errors
var (
	ErrNilDetector = errors.New("detector is nil")
	ErrNilNetwork  = errors.New("network is nil")
	ErrUnknownNode = errors.New("detector labelled a node outside the network")
)

// Runner runs a Detector with fixed options and regroups its labels into a
// Partition. A Runner holds no mutable state and may be shared between
// goroutines as long as its Detector can.
type Runner struct {
	det     Detector
	name    string
	opts    Options
	logger  logging.Logger
	metrics *metrics.Registry
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithLogger sets the runner's logger
func WithLogger(l logging.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics records detection counts and timings to reg
func WithMetrics(reg *metrics.Registry) RunnerOption {
	return func(r *Runner) {
		r.metrics = reg
	}
}

// NewRunner validates opts and returns a Runner for det
func NewRunner(det Detector, opts Options, ropts ...RunnerOption) (*Runner, error) {
	if det == nil {
		return nil, ErrNilDetector
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		det:    det,
		name:   NameOf(det),
		opts:   opts,
		logger: logging.NewNopLogger(),
	}
	for _, o := range ropts {
		o(r)
	}
	r.logger = r.logger.With(logging.Component("detect"), logging.String("detector", r.name))
	return r, nil
}

// Options returns the options passed to the detector
func (r *Runner) Options() Options {
	return r.opts
}

// Run detects the modules of net. Detector errors are returned unchanged.
func (r *Runner) Run(net *network.Network) (partition.Partition, error) {
	if net == nil {
		return nil, ErrNilNetwork
	}

	start := time.Now()
	p, err := r.run(net)
	elapsed := time.Since(start)

	if r.metrics != nil {
		r.metrics.RecordDetection(r.name, len(p), elapsed, err)
	}
	if err != nil {
		r.logger.Debug("detection failed", logging.Nodes(net.NodeCount()), logging.Error(err))
		return nil, err
	}

	r.logger.Debug("detection complete",
		logging.Nodes(net.NodeCount()),
		logging.Modules(len(p)),
		logging.Latency(elapsed),
	)
	return p, nil
}

func (r *Runner) run(net *network.Network) (partition.Partition, error) {
	assignment, err := r.det.Detect(net, r.opts)
	if err != nil {
		return nil, err
	}

	for n := range assignment {
		if !net.HasNode(n) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownNode, n)
		}
	}

	p := partition.FromAssignment(assignment)
	if err := partition.Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}
