package matching

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// matchesTotal counts Match calls per matcher and mode
	// (hungarian / bidirectional).
	matchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assign_matches_total",
			Help: "Total number of Match calls",
		},
		[]string{"matcher", "mode"},
	)

	// solvesTotal counts actual Hungarian solver invocations (cache misses)
	solvesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assign_solves_total",
			Help: "Total number of Hungarian solver invocations",
		},
		[]string{"matcher"},
	)

	// cacheHitsTotal counts solve-cache hits
	cacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assign_cache_hits_total",
			Help: "Total number of solve-cache hits",
		},
		[]string{"matcher"},
	)

	// matchDuration tracks wall-clock Match latency
	matchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assign_match_duration_seconds",
			Help:    "Wall-clock duration of Match calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"matcher"},
	)

	// edgeCasesTotal counts detected edge cases by type
	edgeCasesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assign_edge_cases_total",
			Help: "Total number of detected edge cases",
		},
		[]string{"matcher", "case"},
	)

	// violationsTotal counts constraint violations recorded during matching
	violationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assign_constraint_violations_total",
			Help: "Total number of constraint violations observed",
		},
		[]string{"matcher", "group"},
	)
)

func init() {
	// Register metrics with the default registry
	prometheus.MustRegister(matchesTotal)
	prometheus.MustRegister(solvesTotal)
	prometheus.MustRegister(cacheHitsTotal)
	prometheus.MustRegister(matchDuration)
	prometheus.MustRegister(edgeCasesTotal)
	prometheus.MustRegister(violationsTotal)
}
