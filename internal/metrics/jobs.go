package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// JobMetrics records task executions of the worker pool.
type JobMetrics struct {
	duration     *prometheus.HistogramVec
	success      *prometheus.CounterVec
	failure      *prometheus.CounterVec
	deadLettered *prometheus.CounterVec
}

// NewJobMetrics registers the job metrics on the provided registerer.
// A nil registerer yields a recorder that drops everything.
func NewJobMetrics(reg prometheus.Registerer) *JobMetrics {
	if reg == nil {
		return &JobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "asset_job_duration_seconds",
		Help:    "Duration of asset processing jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "asset_job_success_total",
		Help: "Successful asset processing job executions.",
	}, []string{"task"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "asset_job_failure_total",
		Help: "Failed asset processing job executions.",
	}, []string{"task"})
	deadLettered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "asset_job_dead_lettered_total",
		Help: "Asset processing jobs that exhausted their retries.",
	}, []string{"task"})
	reg.MustRegister(duration, success, failure, deadLettered)
	return &JobMetrics{
		duration:     duration,
		success:      success,
		failure:      failure,
		deadLettered: deadLettered,
	}
}

func (m *JobMetrics) ObserveDuration(task string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(task)).Observe(d.Seconds())
}

func (m *JobMetrics) IncSuccess(task string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(task)).Inc()
}

func (m *JobMetrics) IncFailure(task string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(task)).Inc()
}

func (m *JobMetrics) IncDeadLettered(task string) {
	if m == nil || m.deadLettered == nil {
		return
	}
	m.deadLettered.WithLabelValues(normalizeLabel(task)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
