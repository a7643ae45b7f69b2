package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch paths
const (
	PathWarm = "warm"
	PathCold = "cold"
)

var (
	// FetchTotal 门面取数次数，按资源与冷/热路径区分
	FetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xdnmb_fetch_total",
		Help: "Facade fetches by resource and cache path.",
	}, []string{"resource", "path"})

	// APIRequestsTotal 远端 API 请求次数
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xdnmb_api_requests_total",
		Help: "Remote API requests by endpoint and outcome.",
	}, []string{"endpoint", "status"})

	// APIRequestSeconds 远端 API 请求耗时
	APIRequestSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "xdnmb_api_request_seconds",
		Help:    "Remote API request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
)

// ObserveFetch records one facade fetch.
func ObserveFetch(resource string, warm bool) {
	path := PathCold
	if warm {
		path = PathWarm
	}
	FetchTotal.WithLabelValues(resource, path).Inc()
}
