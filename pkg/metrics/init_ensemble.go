package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initResamplingMetrics() {
	r.ReplicatesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "netensemble_replicates_total",
			Help: "Total number of bootstrap replicate networks generated",
		},
	)

	r.ResampledEdgesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "netensemble_resampled_edges_total",
			Help: "Total number of Poisson edge weight draws",
		},
	)

	r.ResamplingDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netensemble_resampling_duration_seconds",
			Help:    "Time to generate one batch of bootstrap replicates",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
	)

	r.ResamplingFailures = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "netensemble_resampling_failures_total",
			Help: "Total number of bootstrap batches that failed",
		},
	)
}

func (r *Registry) initDetectionMetrics() {
	r.PartitionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netensemble_partitions_total",
			Help: "Total number of community detection runs",
		},
		[]string{"detector", "status"},
	)

	r.DetectionDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netensemble_detection_duration_seconds",
			Help:    "Community detection duration per network in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
		},
		[]string{"detector"},
	)

	r.ModulesPerPartition = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netensemble_modules_per_partition",
			Help:    "Number of modules found per partition",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 500},
		},
	)
}

func (r *Registry) initAggregationMetrics() {
	r.StageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netensemble_stage_duration_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: []float64{0.01, 0.1, 1.0, 10.0, 60.0, 300.0, 1800.0},
		},
		[]string{"stage"},
	)

	r.Cores = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "netensemble_cores",
			Help: "Number of significant cores in the latest clustering",
		},
	)

	r.UnstableNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "netensemble_unstable_nodes",
			Help: "Number of nodes outside every core in the latest clustering",
		},
	)

	r.ExportFailuresTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "netensemble_export_failures_total",
			Help: "Total number of failed visualization exports",
		},
	)
}

func (r *Registry) initPersistenceMetrics() {
	r.SnapshotsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netensemble_snapshots_total",
			Help: "Total number of snapshot save/load operations",
		},
		[]string{"backend", "operation", "status"},
	)

	r.SnapshotBytes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netensemble_snapshot_bytes",
			Help:    "Compressed snapshot size in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
	)
}
