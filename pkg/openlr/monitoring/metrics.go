// Package monitoring holds the Prometheus metric vectors the decoder's
// observer and candidate cache report through, following the same
// promauto-registered counter-vector shape the wider module family uses for
// its external-service and cache instrumentation.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// ServiceName identifies this module's metrics in a shared registry.
	ServiceName = "openlr_dereferencer"
)

var (
	// CandidatesFoundTotal counts candidates nominated per LRP index.
	CandidatesFoundTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openlr_candidates_found_total",
			Help: "Total number of candidates nominated, by LRP index",
		},
		[]string{"lrp_index"},
	)

	// CandidatesRejectedTotal counts candidate rejections, labeled by the
	// reason (bearing, frc, score).
	CandidatesRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openlr_candidates_rejected_total",
			Help: "Total number of candidates rejected, by LRP index and reason",
		},
		[]string{"lrp_index", "reason"},
	)

	// RoutesTotal counts A* routing attempts between candidate pairs,
	// labeled by outcome.
	RoutesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openlr_routes_total",
			Help: "Total number of routing attempts between candidate pairs, by LRP index and status",
		},
		[]string{"lrp_index", "status"},
	)

	// MatchingFailuresTotal counts tail-matcher exhaustion events, labeled
	// by the LRP index where matching gave up.
	MatchingFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openlr_matching_failures_total",
			Help: "Total number of tail-matching failures, by LRP index",
		},
		[]string{"lrp_index"},
	)

	// CandidateCacheHits and CandidateCacheMisses report the hit rate of
	// the per-decode candidate-list memoization cache (see
	// pkg/openlr/decode/candidatecache.go), relabeled from the wider module
	// family's CacheHits/CacheMisses counter-vector shape.
	CandidateCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openlr_candidate_cache_hits_total",
			Help: "Total number of candidate cache hits, by cache name",
		},
		[]string{"cache"},
	)

	CandidateCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openlr_candidate_cache_misses_total",
			Help: "Total number of candidate cache misses, by cache name",
		},
		[]string{"cache"},
	)

	// DecodeDuration reports end-to-end Decode call latency.
	DecodeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "openlr_decode_duration_seconds",
			Help:    "Decode call duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		},
		[]string{"status"},
	)
)
