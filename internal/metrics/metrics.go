// Package metrics provides Prometheus metrics for the news API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheLookups counts summary cache lookups by result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "needtoknow",
			Name:      "cache_lookups_total",
			Help:      "Total number of news summary cache lookups",
		},
		[]string{"result"},
	)

	CacheWriteErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "needtoknow",
			Name:      "cache_write_errors_total",
			Help:      "Total number of failed news summary cache writes",
		},
	)

	// UpstreamDuration measures completion calls by provider and outcome.
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "needtoknow",
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of upstream completion requests in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"provider", "outcome"},
	)

	JSONRepairs = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "needtoknow",
			Name:      "json_repairs_total",
			Help:      "Total number of completions that needed a JSON repair pass",
		},
	)

	// FetchErrors counts failed summary fetches by error kind.
	FetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "needtoknow",
			Name:      "fetch_errors_total",
			Help:      "Total number of failed news summary fetches",
		},
		[]string{"kind"},
	)
)

func RecordCacheLookup(result string) {
	CacheLookups.WithLabelValues(result).Inc()
}

func RecordUpstream(provider, outcome string, d time.Duration) {
	UpstreamDuration.WithLabelValues(provider, outcome).Observe(d.Seconds())
}

func RecordFetchError(kind string) {
	FetchErrors.WithLabelValues(kind).Inc()
}
