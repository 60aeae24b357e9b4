package sched

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики планировщика.
var (
	taskDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "radiola_sync_task_duration_seconds",
		Help:    "Duration of individual sync task runs",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	}, []string{"tier", "task"})

	taskRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radiola_sync_task_runs_total",
		Help: "Sync task runs by outcome (ok, error, panic)",
	}, []string{"tier", "task", "outcome"})

	tierSkips = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radiola_sync_tier_skips_total",
		Help: "Tier invocations skipped because the tier lock was busy",
	}, []string{"tier"})
)
