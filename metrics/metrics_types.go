package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the metrics of the route server.
type Registry struct {
	// Route metrics
	ExplorationsTotal   *prometheus.CounterVec
	ExplorationDuration *prometheus.HistogramVec
	ExplorationPaths    *prometheus.HistogramVec
	EstimatorOpsTotal   prometheus.Counter
	EstimatesTotal      *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	CacheHitsTotal      prometheus.Counter
	CacheMissesTotal    prometheus.Counter

	// Wind metrics
	WindRefreshTotal *prometheus.CounterVec
	WindSamples      prometheus.Gauge

	registry *prometheus.Registry
}

func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initRouteMetrics()
	r.initHTTPMetrics()
	r.initWindMetrics()

	return r
}

func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
