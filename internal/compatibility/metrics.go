package compatibility

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scoresComputedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compatibility_scores_computed_total",
			Help: "Total number of pair scores computed",
		},
		[]string{"trigger"},
	)

	scoreCacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compatibility_score_cache_lookups_total",
			Help: "Pair score cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	scoreInvalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compatibility_score_invalidations_total",
			Help: "Cached scores dropped after profile, preference or rating writes",
		},
		[]string{"scope"},
	)

	finalScoreDistribution = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "compatibility_final_scores",
			Help:    "Distribution of final compatibility scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	nightlyRecomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "compatibility_nightly_recompute_duration_seconds",
			Help:    "Wall-clock duration of nightly batch recomputes",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	nightlyRecomputePairs = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "compatibility_nightly_recompute_pairs",
			Help: "Pair counts from the most recent nightly recompute",
		},
		[]string{"result"},
	)

	tasteVectorsRefreshed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "compatibility_taste_vectors_refreshed_total",
			Help: "Total number of taste vectors rebuilt from date ratings",
		},
	)
)
