package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initRouteMetrics() {
	r.ExplorationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "regatta_explorations_total",
			Help: "Total number of route explorations",
		},
		[]string{"mode", "status"},
	)

	r.ExplorationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "regatta_exploration_duration_seconds",
			Help:    "Route exploration duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		},
		[]string{"mode"},
	)

	r.ExplorationPaths = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "regatta_exploration_paths",
			Help:    "Number of paths returned by an exploration",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
		[]string{"mode"},
	)

	r.EstimatorOpsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "regatta_estimator_ops_total",
			Help: "Total number of leg estimations done by explorations",
		},
	)

	r.EstimatesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "regatta_estimates_total",
			Help: "Total number of single leg estimates",
		},
		[]string{"status"},
	)
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "regatta_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "regatta_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	r.CacheHitsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "regatta_cache_hits_total",
			Help: "Total number of explorations served from the cache",
		},
	)

	r.CacheMissesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "regatta_cache_misses_total",
			Help: "Total number of explorations computed",
		},
	)
}

func (r *Registry) initWindMetrics() {
	r.WindRefreshTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "regatta_wind_refresh_total",
			Help: "Total number of wind reloads",
		},
		[]string{"status"},
	)

	r.WindSamples = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "regatta_wind_samples",
			Help: "Number of samples in the current wind schedule",
		},
	)
}
