// Package metrics defines the Prometheus collectors exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles every collector the server updates during request
// handling and job execution.
type Metrics struct {
	JobsSubmitted  *prometheus.CounterVec
	JobsCompleted  *prometheus.CounterVec
	JobsFailed     *prometheus.CounterVec
	JobDuration    *prometheus.HistogramVec
	ActiveJobs     prometheus.Gauge
	ReaperRemoved  prometheus.Counter
	SSEConnections prometheus.Gauge
}

// New registers and returns a Metrics bundle against reg. bootstrap
// passes its own prometheus.NewRegistry(), which /metrics gathers; tests
// pass a fresh registry per case to avoid collisions.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		JobsSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mediajobs_jobs_submitted_total",
			Help: "Total number of jobs submitted, labeled by processor_id.",
		}, []string{"processor_id"}),
		JobsCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mediajobs_jobs_completed_total",
			Help: "Total number of jobs that reached Completed, labeled by processor_id.",
		}, []string{"processor_id"}),
		JobsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mediajobs_jobs_failed_total",
			Help: "Total number of jobs that reached Failed, labeled by processor_id.",
		}, []string{"processor_id"}),
		JobDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mediajobs_job_duration_seconds",
			Help:    "Wall-clock duration from acquiring a worker-pool slot to terminal state.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		}, []string{"processor_id", "status"}),
		ActiveJobs: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mediajobs_active_jobs",
			Help: "Number of jobs currently holding a worker-pool slot.",
		}),
		ReaperRemoved: factory.NewCounter(prometheus.CounterOpts{
			Name: "mediajobs_reaper_removed_total",
			Help: "Total number of jobs removed by the reaper across all sweeps.",
		}),
		SSEConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mediajobs_sse_connections",
			Help: "Number of currently open progress SSE streams.",
		}),
	}
}
