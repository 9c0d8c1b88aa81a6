// Package metrics defines the Prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "league_engine"

// Match sources.
const (
	SourceManual   = "manual"
	SourceSchedule = "schedule"
	SourceKnockout = "knockout"
)

var (
	// HTTPRequestDuration observes request latency by route, method and status.
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_latency_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method", "code"})

	// HTTPRequests counts requests by route, method and status.
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by route",
	}, []string{"route", "method", "code"})

	// MatchesCreated counts ledger matches by the component that created them.
	MatchesCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "matches_created_total",
		Help:      "Ledger matches created, by source",
	}, []string{"source"})

	// RankingRecomputes counts (team, league) ranking recomputations.
	RankingRecomputes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "ranking_recomputes_total",
		Help:      "Ranking rows recomputed from the match ledger",
	})

	// BracketAdvances counts knockout phases generated by the advancer.
	BracketAdvances = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "bracket_advances_total",
		Help:      "Knockout phases generated after the previous phase was decided",
	}, []string{"round"})
)

// NewRegistry returns a registry with the service collectors and the Go
// runtime and process collectors.
func NewRegistry() (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequestDuration,
		HTTPRequests,
		MatchesCreated,
		RankingRecomputes,
		BracketAdvances,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Handler serves the registry in the Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
