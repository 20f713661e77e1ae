package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the ensemble pipeline
type Registry struct {
	// Resampling Metrics
	ReplicatesTotal     prometheus.Counter
	ResampledEdgesTotal prometheus.Counter
	ResamplingDuration  prometheus.Histogram
	ResamplingFailures  prometheus.Counter

	// Detection Metrics
	PartitionsTotal     *prometheus.CounterVec
	DetectionDuration   *prometheus.HistogramVec
	ModulesPerPartition prometheus.Histogram

	// Aggregation Metrics
	StageDuration       *prometheus.HistogramVec
	Cores               prometheus.Gauge
	UnstableNodes       prometheus.Gauge
	ExportFailuresTotal prometheus.Counter

	// Persistence Metrics
	SnapshotsTotal *prometheus.CounterVec
	SnapshotBytes  prometheus.Histogram

	// System Metrics
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initResamplingMetrics()
	r.initDetectionMetrics()
	r.initAggregationMetrics()
	r.initPersistenceMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler exposes the registry in the Prometheus text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
