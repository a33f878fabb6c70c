package metrics

import (
	"strconv"
	"time"
)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordExploration records a route exploration and the estimator calls it
// made.
func (r *Registry) RecordExploration(mode string, duration time.Duration, paths int, ops uint64, err error) {
	r.ExplorationsTotal.WithLabelValues(mode, status(err)).Inc()
	r.ExplorationDuration.WithLabelValues(mode).Observe(duration.Seconds())
	r.EstimatorOpsTotal.Add(float64(ops))
	if err == nil {
		r.ExplorationPaths.WithLabelValues(mode).Observe(float64(paths))
	}
}

func (r *Registry) RecordEstimate(err error) {
	r.EstimatesTotal.WithLabelValues(status(err)).Inc()
}

func (r *Registry) RecordHTTPRequest(method, route string, code int, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (r *Registry) RecordCache(hit bool) {
	if hit {
		r.CacheHitsTotal.Inc()
	} else {
		r.CacheMissesTotal.Inc()
	}
}

func (r *Registry) RecordWindRefresh(samples int, err error) {
	r.WindRefreshTotal.WithLabelValues(status(err)).Inc()
	if err == nil {
		r.WindSamples.Set(float64(samples))
	}
}
