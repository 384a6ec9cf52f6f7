package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gourmet_search_requests_total",
		Help: "Total number of HTTP requests to the shop proxy",
	}, []string{"method", "path", "status"})

	HttpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gourmet_search_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})

	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gourmet_search_upstream_requests_total",
		Help: "Requests sent to the HotPepper gourmet API by outcome",
	}, []string{"outcome"})

	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gourmet_search_cache_lookups_total",
		Help: "Result cache lookups by result (hit, miss, error)",
	}, []string{"result"})
)
