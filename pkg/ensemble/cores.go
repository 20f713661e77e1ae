package ensemble

import (
	"time"

	"github.com/dd0wney/cluso-netensemble/pkg/logging"
	"github.com/dd0wney/cluso-netensemble/pkg/partition"
	"github.com/dd0wney/cluso-netensemble/pkg/sigclu"
	"github.com/dd0wney/cluso-netensemble/pkg/store"
	"github.com/dd0wney/cluso-netensemble/pkg/visualization"
)

// SignificanceCluster computes cores from the stored partitions and
// replaces any previous cores. Clusterer errors are returned unchanged.
//
// When export is non-nil and the clusterer implements sigclu.Exporter, an
// UpSet summary is written as well. Export failures are logged and counted
// but never returned, and never affect the stored cores.
func (e *Ensemble) SignificanceCluster(opts sigclu.Options, export *visualization.UpsetOptions) error {
	e.op.Lock()
	defer e.op.Unlock()

	parts, err := e.Partitions()
	if err != nil {
		return missing("SignificanceCluster", "partitions")
	}
	if export != nil {
		if err := export.Validate(); err != nil {
			return err
		}
	}

	timer := logging.StartStage(e.logger, "significance_cluster", logging.Count(len(parts)))
	cores, err := e.clusterer.Cluster(parts, opts)
	if err == nil {
		err = partition.Validate(cores)
	}
	if err != nil {
		timer.EndError(err)
		return err
	}
	cores = partition.Clone(partition.Canonical(cores))

	e.mu.Lock()
	e.cores = cores
	e.stage = CoresComputed
	e.mu.Unlock()

	unstable := e.nodes.Difference(partition.Flatten(cores))
	e.observe("significance_cluster", timer.End(
		logging.Modules(len(cores)),
		logging.Int("unstable", unstable.Len()),
	))
	if e.metrics != nil {
		e.metrics.SetCores(len(cores), unstable.Len())
	}

	if export != nil {
		e.export(parts, cores, *export)
	}
	return nil
}

func (e *Ensemble) export(parts []partition.Partition, cores partition.Partition, opts visualization.UpsetOptions) {
	exporter, ok := e.clusterer.(sigclu.Exporter)
	if !ok {
		e.logger.Warn("clusterer does not support export", logging.Path(opts.Path))
		return
	}

	start := time.Now()
	if err := exporter.Export(parts, cores, opts); err != nil {
		e.logger.Warn("export failed", logging.Path(opts.Path), logging.Error(err))
		if e.metrics != nil {
			e.metrics.RecordExportFailure()
		}
		return
	}
	e.logger.Info("export written", logging.Path(opts.Path), logging.Latency(time.Since(start)))
}

// Cores returns a copy of the stored cores
func (e *Ensemble) Cores() (partition.Partition, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.cores == nil {
		return nil, missing("Cores", "cores")
	}
	return partition.Clone(e.cores), nil
}

// UnstableNodes returns the nodes that belong to no core. It is recomputed
// from the current cores on every call.
func (e *Ensemble) UnstableNodes() (partition.NodeSet, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.cores == nil {
		return nil, missing("UnstableNodes", "cores")
	}
	return e.nodes.Difference(partition.Flatten(e.cores)), nil
}

// Snapshot captures the current results for persistence. Partitions must
// exist; cores and unstable nodes are included when computed.
func (e *Ensemble) Snapshot() (*store.Snapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.partitions == nil {
		return nil, missing("Snapshot", "partitions")
	}

	snap := &store.Snapshot{
		Version:   store.SnapshotVersion,
		RunID:     e.runID,
		CreatedAt: time.Now().UTC(),
		Mode:      e.mode.String(),
		Config: store.RunConfig{
			Seed:               e.cfg.Seed,
			NumBootstraps:      e.cfg.NumBootstraps,
			Resolution:         e.cfg.Resolution,
			VariableResolution: e.cfg.VariableResolution,
			NumTrials:          e.cfg.NumTrials,
		},
		Nodes:      store.EncodeNodes(e.nodes),
		Partitions: make([][][]string, 0, len(e.partitions)),
	}
	for _, p := range e.partitions {
		snap.Partitions = append(snap.Partitions, store.EncodePartition(p))
	}
	if e.cores != nil {
		snap.Cores = store.EncodePartition(e.cores)
		snap.Unstable = store.EncodeNodes(e.nodes.Difference(partition.Flatten(e.cores)))
	}
	return snap, nil
}
