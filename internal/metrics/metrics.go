// Package metrics exposes the process-wide prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ToolCalls counts tool invocations by tool name and outcome
	// ("ok" or the error category).
	ToolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sejmlex_tool_calls_total",
		Help: "Tool invocations by tool name and outcome.",
	}, []string{"tool", "outcome"})

	// CacheHits counts response cache hits.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sejmlex_cache_hits_total",
		Help: "Response cache hits.",
	})

	// CacheMisses counts response cache misses.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sejmlex_cache_misses_total",
		Help: "Response cache misses.",
	})

	// UpstreamRequests counts registry API requests by HTTP status class.
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sejmlex_upstream_requests_total",
		Help: "Registry API requests by result.",
	}, []string{"result"})

	// BreakerState reports the circuit breaker state
	// (0 closed, 1 open, 2 half-open).
	BreakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sejmlex_breaker_state",
		Help: "Circuit breaker state: 0 closed, 1 open, 2 half-open.",
	})
)
