package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	gridLabel = "grid"
)

var (
	voxelBuildDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "voxgrid_build_duration_seconds",
		Help:    "The time spent building a voxel grid.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
	}, []string{gridLabel})

	voxelBuildCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voxgrid_build_total",
		Help: "The total number of voxel grid builds.",
	}, []string{gridLabel})

	voxelBuildErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voxgrid_build_errors_total",
		Help: "The total number of failed voxel grid builds.",
	}, []string{gridLabel})

	voxelTriangleCount = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "voxgrid_triangles",
		Help: "The number of triangles voxelized by the last build.",
	}, []string{gridLabel})

	voxelEntryCount = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "voxgrid_entries",
		Help: "The number of voxel entries produced by the last build.",
	}, []string{gridLabel})

	voxelOccupiedCount = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "voxgrid_occupied_voxels",
		Help: "The number of non-empty voxels produced by the last build.",
	}, []string{gridLabel})
)

// BuildMetrics is what a finished build reports.
type BuildMetrics struct {
	Duration       time.Duration
	Triangles      int
	Entries        int
	OccupiedVoxels int
}

func MetricsRecordBuild(grid string, m BuildMetrics) {
	labels := prometheus.Labels{gridLabel: grid}
	voxelBuildDuration.With(labels).Observe(m.Duration.Seconds())
	voxelBuildCount.With(labels).Inc()
	voxelTriangleCount.With(labels).Set(float64(m.Triangles))
	voxelEntryCount.With(labels).Set(float64(m.Entries))
	voxelOccupiedCount.With(labels).Set(float64(m.OccupiedVoxels))
}

func MetricsRecordBuildError(grid string) {
	voxelBuildErrorCount.
		With(prometheus.Labels{gridLabel: grid}).
		Inc()
}
