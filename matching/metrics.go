package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Total match queries partitioned by outcome
	matchQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_queries_total",
			Help: "Total number of match queries processed",
		},
		[]string{"outcome"},
	)

	// Candidates scored per query
	candidatesScored = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_candidates_scored",
			Help:    "Number of candidates scored per match query",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	// Registered users currently held by the profile store
	registeredUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "matching_registered_users",
			Help: "Number of users in the profile store",
		},
	)

	// Distinct tags currently indexed
	indexedTags = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "matching_indexed_tags",
			Help: "Number of distinct tags in the tag index",
		},
	)
)
