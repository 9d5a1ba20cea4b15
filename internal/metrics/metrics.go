package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultCacheHit = "cache_hit"
	ResultEmpty    = "empty"
	ResultNoMatch  = "no_match"
	ResultMatched  = "matched"
)

var (
	// TMDBRequests counts metadata lookups by operation and result.
	TMDBRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cinepick",
		Name:      "tmdb_requests_total",
		Help:      "TMDB lookups by operation and result",
	}, []string{"op", "result"})

	// TMDBDuration tracks TMDB round-trip time, cache hits excluded.
	TMDBDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cinepick",
		Name:      "tmdb_request_duration_seconds",
		Help:      "TMDB request latency",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"op"})

	// LLMRequests counts language model calls by provider and result.
	LLMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cinepick",
		Name:      "llm_requests_total",
		Help:      "Language model calls by provider and result",
	}, []string{"provider", "result"})

	// LLMDuration tracks language model latency including retries.
	LLMDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cinepick",
		Name:      "llm_request_duration_seconds",
		Help:      "Language model latency including retries",
		Buckets:   []float64{0.5, 1, 2, 3, 5, 8, 13, 20, 30, 60},
	}, []string{"provider"})

	// Outcomes counts resolved suggestion lines by result (matched, no_match).
	Outcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cinepick",
		Name:      "resolved_outcomes_total",
		Help:      "Resolved suggestion lines by result",
	}, []string{"result"})
)

// ObserveTMDB records one TMDB lookup.
func ObserveTMDB(op, result string, duration time.Duration) {
	TMDBRequests.WithLabelValues(op, result).Inc()
	if result != ResultCacheHit {
		TMDBDuration.WithLabelValues(op).Observe(duration.Seconds())
	}
}

// ObserveLLM records one language model call.
func ObserveLLM(provider string, err error, duration time.Duration) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	LLMRequests.WithLabelValues(provider, result).Inc()
	LLMDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// ObserveOutcome records whether a suggestion line resolved to a movie.
func ObserveOutcome(matched bool) {
	if matched {
		Outcomes.WithLabelValues(ResultMatched).Inc()
		return
	}
	Outcomes.WithLabelValues(ResultNoMatch).Inc()
}
