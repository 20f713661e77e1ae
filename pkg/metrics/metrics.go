package metrics

import (
	"runtime"
	"time"
)

// RecordBootstrap records one batch of replicate generation
func (r *Registry) RecordBootstrap(replicates, edges int, duration time.Duration, err error) {
	if err != nil {
		r.ResamplingFailures.Inc()
		return
	}
	r.ReplicatesTotal.Add(float64(replicates))
	r.ResampledEdgesTotal.Add(float64(replicates * edges))
	r.ResamplingDuration.Observe(duration.Seconds())
}

// RecordDetection records one community detection run
func (r *Registry) RecordDetection(detector string, modules int, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.PartitionsTotal.WithLabelValues(detector, status).Inc()
	r.DetectionDuration.WithLabelValues(detector).Observe(duration.Seconds())
	if err == nil {
		r.ModulesPerPartition.Observe(float64(modules))
	}
}

// RecordStage records the duration of a pipeline stage
func (r *Registry) RecordStage(stage string, duration time.Duration) {
	r.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// SetCores publishes the outcome of the latest significance clustering
func (r *Registry) SetCores(cores, unstable int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Cores.Set(float64(cores))
	r.UnstableNodes.Set(float64(unstable))
}

// RecordExportFailure counts a failed visualization export
func (r *Registry) RecordExportFailure() {
	r.ExportFailuresTotal.Inc()
}

// RecordSnapshot records a snapshot save or load
func (r *Registry) RecordSnapshot(backend, operation string, size int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.SnapshotsTotal.WithLabelValues(backend, operation, status).Inc()
	if err == nil && size > 0 {
		r.SnapshotBytes.Observe(float64(size))
	}
}

// UpdateSystemMetrics samples goroutine and heap statistics
func (r *Registry) UpdateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
}
