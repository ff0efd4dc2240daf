// Package metrics - Prometheus metrics for replenishment operations
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ForecastFitDuration tracks per-product forecast fit duration.
	ForecastFitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "forecast_fit_duration_seconds",
		Help:    "Duration of per-product seasonal model fit + predict",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~5s
	})

	// ForecastSkippedTotal counts products skipped by the Forecaster
	// (fewer than 15 observations, or an all-zero series).
	ForecastSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forecast_skipped_total",
		Help: "Total products skipped by the Forecaster",
	})

	// SolverDuration tracks Selector DP wall-clock time.
	SolverDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "solver_duration_seconds",
		Help:    "Duration of the Selector's multi-choice knapsack solve",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})

	// SolverOutcomesTotal counts solver outcomes by result kind (ok,
	// infeasible, timeout).
	SolverOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solver_outcomes_total",
		Help: "Total Selector runs by outcome",
	}, []string{"outcome"})

	// VariantCacheHitsTotal / VariantCacheMissesTotal track the Phase1 ->
	// Phase2 serialized_variants cache.
	VariantCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "variant_cache_hits_total",
		Help: "Total variant cache hits",
	})
	VariantCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "variant_cache_misses_total",
		Help: "Total variant cache misses",
	})

	// WorkerPoolQueueSize tracks worker pool queue depth by pool type
	// (forecast, deal).
	WorkerPoolQueueSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "worker_pool_queue_size",
		Help: "Current worker pool queue size",
	}, []string{"pool_type"})

	// CatalogueRequestsTotal counts catalogclient HTTP requests by
	// status outcome.
	CatalogueRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalogue_requests_total",
		Help: "Total requests to the external Catalogue/Stock/Ledger collaborator",
	}, []string{"outcome"})

	// RunPhaseDuration tracks Phase1/Phase2/Commit wall-clock time.
	RunPhaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "run_phase_duration_seconds",
		Help:    "Duration of each run lifecycle phase",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"phase"})
)
