package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "portfolio_oracle"

var (
	PortfolioRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "portfolio_requests_total",
		Help:      "Portfolio fetches by outcome.",
	}, []string{"chain_id", "outcome"})

	PortfolioDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "portfolio_fetch_duration_seconds",
		Help:      "Wall time of a portfolio fetch including balance resolution.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
	}, []string{"chain_id"})

	// BalanceLookupFailures: kind = native | token | invalid_address
	BalanceLookupFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "balance_lookup_failures_total",
		Help:      "Balance lookups substituted with zero.",
	}, []string{"chain_id", "kind"})

	OracleStreams = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oracle_streams_total",
		Help:      "Oracle generation streams by kind and outcome.",
	}, []string{"kind", "outcome"})

	OracleFragments = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oracle_fragments_sent_total",
		Help:      "Text fragments written to oracle event streams.",
	})

	PriceCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "price_cache_lookups_total",
		Help:      "Price lookups by cache result.",
	}, []string{"result"})
)

var registerOnce sync.Once

// MustRegisterMetrics registers all collectors with the default registry.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			PortfolioRequests,
			PortfolioDuration,
			BalanceLookupFailures,
			OracleStreams,
			OracleFragments,
			PriceCacheLookups,
		)
	})
}
