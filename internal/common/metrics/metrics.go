// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"ticket-classifier/internal/models"
)

var (
	TicketsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_classified_total",
			Help: "Total number of tickets classified, by assigned category",
		},
		[]string{"category"},
	)

	TicketsUnclassified = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_unclassified_total",
			Help: "Total number of tickets that matched no category",
		},
	)

	ClassificationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classification_runs_total",
			Help: "Total number of classification passes, by outcome",
		},
		[]string{"status"},
	)

	ClassificationRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "classification_run_duration_seconds",
			Help:    "Duration of a full classification pass in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	MalformedRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_malformed_rows_total",
			Help: "Rows read with missing or blank fields",
		},
		[]string{"dataset"},
	)

	KeywordCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keyword_cache_lookups_total",
			Help: "Keyword map cache lookups, by result",
		},
		[]string{"result"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

// RecordSummary adds the per-category counts of a finished pass.
func RecordSummary(s models.Summary) {
	for _, c := range s.CountsPerCategory.Ranked() {
		TicketsClassified.WithLabelValues(c.Category).Add(float64(c.Count))
	}
	TicketsUnclassified.Add(float64(s.UnclassifiedCount))
}

// RecordRun records the outcome and duration of a classification pass.
func RecordRun(status string, elapsed time.Duration) {
	ClassificationRuns.WithLabelValues(status).Inc()
	ClassificationRunDuration.Observe(elapsed.Seconds())
}
