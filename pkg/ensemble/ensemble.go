// Package ensemble builds a partition ensemble from either several networks
// or bootstrap replicates of one network, and aggregates it into cores of
// stable nodes.
package ensemble

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-netensemble/pkg/detect"
	"github.com/dd0wney/cluso-netensemble/pkg/logging"
	"github.com/dd0wney/cluso-netensemble/pkg/metrics"
	"github.com/dd0wney/cluso-netensemble/pkg/network"
	"github.com/dd0wney/cluso-netensemble/pkg/parallel"
	"github.com/dd0wney/cluso-netensemble/pkg/partition"
	"github.com/dd0wney/cluso-netensemble/pkg/resample"
	"github.com/dd0wney/cluso-netensemble/pkg/sigclu"
)

// Ensemble coordinates resampling, detection and significance clustering.
//
// Source networks must not be modified after New; the node union is
// computed from them once. Each producing call replaces its own result and
// drops everything derived from the previous one.
type Ensemble struct {
	// op serialises producing calls; mu guards the results
	op sync.Mutex
	mu sync.RWMutex

	nets  []*network.Network
	cfg   Config
	mode  Mode
	nodes partition.NodeSet
	runID string

	detector  detect.Detector
	clusterer sigclu.Clusterer
	logger    logging.Logger
	metrics   *metrics.Registry

	stage      Stage
	bootstraps []*network.Network
	partitions []partition.Partition
	cores      partition.Partition
}

// New creates an ensemble over nets. More than one network selects
// MultiNetwork mode; a single network is bootstrapped.
func New(nets []*network.Network, cfg Config, opts ...Option) (*Ensemble, error) {
	if len(nets) == 0 {
		return nil, ErrNoNetworks
	}
	for i, n := range nets {
		if n == nil {
			return nil, fmt.Errorf("%w: index %d", ErrNilNetwork, i)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Ensemble{
		nets:      append([]*network.Network(nil), nets...),
		cfg:       cfg,
		mode:      SingleNetworkBootstrap,
		runID:     uuid.NewString(),
		detector:  detect.Louvain{},
		clusterer: sigclu.NewRecursive(),
		logger:    logging.NewNopLogger(),
		stage:     Initial,
	}
	if len(nets) > 1 {
		e.mode = MultiNetwork
	}
	for _, o := range opts {
		o(e)
	}
	e.logger = e.logger.With(
		logging.Component("ensemble"),
		logging.RunID(e.runID),
		logging.Mode(e.mode.String()),
	)

	e.nodes = partition.NewNodeSet()
	for _, n := range e.nets {
		for _, node := range n.Nodes() {
			e.nodes.Add(node)
		}
	}

	return e, nil
}

// NewSingle creates a bootstrap ensemble over one network
func NewSingle(net *network.Network, cfg Config, opts ...Option) (*Ensemble, error) {
	return New([]*network.Network{net}, cfg, opts...)
}

// Mode returns the operating mode
func (e *Ensemble) Mode() Mode { return e.mode }

// Config returns the configuration
func (e *Ensemble) Config() Config { return e.cfg }

// RunID identifies this ensemble in logs and snapshots
func (e *Ensemble) RunID() string { return e.runID }

// IsEnsemble reports whether several source networks were given
func (e *Ensemble) IsEnsemble() bool {
	return e.mode == MultiNetwork
}

// IsBootstrapped reports whether exactly the configured number of
// replicates is stored
func (e *Ensemble) IsBootstrapped() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.bootstraps != nil && len(e.bootstraps) == e.cfg.NumBootstraps
}

// Nodes returns the union of the nodes of all source networks
func (e *Ensemble) Nodes() partition.NodeSet {
	return e.nodes.Clone()
}

// Stage returns the furthest result held
func (e *Ensemble) Stage() Stage {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stage
}

// Networks returns the source networks
func (e *Ensemble) Networks() []*network.Network {
	return append([]*network.Network(nil), e.nets...)
}

// Bootstraps returns copies of the stored replicates
func (e *Ensemble) Bootstraps() ([]*network.Network, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.bootstraps == nil {
		return nil, missing("Bootstraps", "bootstraps")
	}
	out := make([]*network.Network, len(e.bootstraps))
	for i, rep := range e.bootstraps {
		out[i] = rep.Copy()
	}
	return out, nil
}

// Partitions returns a copy of the partition of every ensemble member or
// replicate
func (e *Ensemble) Partitions() ([]partition.Partition, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.partitions == nil {
		return nil, missing("Partitions", "partitions")
	}
	return e.clonePartitions(), nil
}

func (e *Ensemble) clonePartitions() []partition.Partition {
	out := make([]partition.Partition, len(e.partitions))
	for i, p := range e.partitions {
		out[i] = partition.Clone(p)
	}
	return out
}

// Bootstrap regenerates the replicates of the source network and drops any
// partitions and cores. It fails in MultiNetwork mode.
func (e *Ensemble) Bootstrap() error {
	if e.mode != SingleNetworkBootstrap {
		return ErrNotBootstrapMode
	}

	e.op.Lock()
	defer e.op.Unlock()

	timer := logging.StartStage(e.logger, "bootstrap", logging.Count(e.cfg.NumBootstraps))
	reps, err := e.bootstrap()
	if err != nil {
		timer.EndError(err)
		return err
	}
	e.observe("bootstrap", timer.End())

	e.mu.Lock()
	defer e.mu.Unlock()
	e.bootstraps = reps
	e.partitions = nil
	e.cores = nil
	e.stage = Bootstrapped
	return nil
}

func (e *Ensemble) bootstrap() ([]*network.Network, error) {
	return resample.Bootstrap(e.nets[0], e.cfg.NumBootstraps, e.cfg.Seed,
		resample.WithWorkers(e.cfg.Workers),
		resample.WithLogger(e.logger),
		resample.WithMetrics(e.metrics),
	)
}

// Partition builds the partition ensemble.
//
// In MultiNetwork mode every source network is partitioned once. Otherwise
// the source network is bootstrapped, the replicates are stored, and every
// replicate is partitioned. Detector errors are returned unchanged and
// abort the call; nothing is stored unless every partition succeeds.
func (e *Ensemble) Partition() error {
	e.op.Lock()
	defer e.op.Unlock()

	timer := logging.StartStage(e.logger, "partition")

	runner, err := detect.NewRunner(e.detector, e.cfg.DetectOptions(),
		detect.WithLogger(e.logger),
		detect.WithMetrics(e.metrics),
	)
	if err != nil {
		timer.EndError(err)
		return err
	}

	inputs := e.nets
	var reps []*network.Network
	if e.mode == SingleNetworkBootstrap {
		reps, err = e.bootstrap()
		if err != nil {
			timer.EndError(err)
			return err
		}
		inputs = reps
	}

	parts := make([]partition.Partition, len(inputs))
	err = parallel.ForEachWithLogger(len(inputs), e.cfg.Workers, e.logger, func(i int) error {
		p, err := runner.Run(inputs[i])
		if err != nil {
			e.logger.Warn("detection failed", logging.Replicate(i), logging.Error(err))
			return err
		}
		parts[i] = p
		return nil
	})
	if err != nil {
		timer.EndError(err)
		return err
	}

	e.observe("partition", timer.End(logging.Count(len(parts))))

	e.mu.Lock()
	defer e.mu.Unlock()
	if reps != nil {
		e.bootstraps = reps
	}
	e.partitions = parts
	e.cores = nil
	e.stage = Partitioned
	return nil
}

func (e *Ensemble) observe(stage string, d time.Duration) {
	if e.metrics != nil {
		e.metrics.RecordStage(stage, d)
	}
}
