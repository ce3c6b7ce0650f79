package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickerpulse_upstream_requests_total",
			Help: "Total number of requests made to upstream providers",
		},
		[]string{"source", "status"}, // status: HTTP code or "error"
	)

	UpstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tickerpulse_upstream_duration_seconds",
			Help:    "Upstream request latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"source"},
	)

	BundleDegraded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickerpulse_bundle_degraded_total",
			Help: "Bundles built with a component missing",
		},
		[]string{"component"}, // stock|news|social
	)

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickerpulse_cache_lookups_total",
			Help: "Response cache lookups",
		},
		[]string{"kind", "result"}, // result: hit|miss
	)
)

func init() {
	prometheus.MustRegister(UpstreamRequests, UpstreamDuration, BundleDegraded, CacheLookups)
}

// ObserveUpstream records one upstream round trip. status is 0 when the
// request never produced a response.
func ObserveUpstream(source string, status int, elapsed time.Duration) {
	label := "error"
	if status != 0 {
		label = strconv.Itoa(status)
	}
	UpstreamRequests.WithLabelValues(source, label).Inc()
	UpstreamDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveCache(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(kind, result).Inc()
}

func ObserveDegraded(component string) {
	BundleDegraded.WithLabelValues(component).Inc()
}
