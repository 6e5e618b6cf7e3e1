package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProviderFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_fetch_total",
			Help: "Total number of provider fetches by outcome",
		},
		[]string{"provider", "outcome"},
	)

	ProviderFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "provider_fetch_duration_seconds",
			Help: "Duration of provider fetches in seconds",
		},
		[]string{"provider"},
	)

	ProviderRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_records_total",
			Help: "Total number of canonical records yielded per provider",
		},
		[]string{"provider"},
	)

	FallbackInvocations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fallback_invocations_total",
			Help: "Number of aggregations served entirely by the fallback generator",
		},
	)

	AggregationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "aggregation_duration_seconds",
			Help: "End-to-end duration of the aggregation pipeline in seconds",
		},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "query_cache_hits_total",
			Help: "Number of aggregation requests served from the query cache",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "query_cache_misses_total",
			Help: "Number of aggregation requests not found in the query cache",
		},
	)
)
