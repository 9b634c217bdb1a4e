package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// QueryTotal counts adapter query executions by adapter, query and outcome.
	QueryTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "issuance_tracker",
		Name:      "query_total",
		Help:      "Number of adapter query executions.",
	}, []string{"adapter", "query", "outcome"})

	// QueryDuration observes adapter query latency.
	QueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "issuance_tracker",
		Name:      "query_duration_seconds",
		Help:      "Latency of adapter query executions.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"adapter", "query"})

	// RPCBatchTotal counts JSON-RPC batch calls by network and outcome.
	RPCBatchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "issuance_tracker",
		Name:      "rpc_batch_total",
		Help:      "Number of JSON-RPC batch calls issued.",
	}, []string{"network", "outcome"})

	// PriceRequestTotal counts price lookups by source and outcome.
	PriceRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "issuance_tracker",
		Name:      "price_request_total",
		Help:      "Number of price feed lookups.",
	}, []string{"source", "outcome"})

	registerOnce sync.Once
)

// MustRegisterMetrics registers all collectors with the default registry. Safe to call more than once.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(QueryTotal, QueryDuration, RPCBatchTotal, PriceRequestTotal)
	})
}
