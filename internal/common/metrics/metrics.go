// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_chat_turns_total",
			Help: "Total number of chat turns by the stage they ended on",
		},
		[]string{"stage"},
	)

	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_recommendations_total",
			Help: "Total number of recommendations by outcome",
		},
		[]string{"outcome"},
	)

	FactLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_fact_lookups_total",
			Help: "Total number of external fact lookups",
		},
		[]string{"kind", "outcome"},
	)

	ReplyAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_reply_attempts_total",
			Help: "Total number of text generation attempts",
		},
		[]string{"outcome"},
	)

	ReplyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "advisor_reply_duration_seconds",
			Help:    "Duration of reply generation in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 8),
		},
		[]string{"outcome"},
	)

	SessionsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "advisor_sessions_evicted_total",
			Help: "Total number of idle sessions removed by the sweeper",
		},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "advisor_sessions_active",
			Help: "Number of sessions currently held by the store",
		},
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
)
