// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout chessql.
const (
	// Ingestion metrics.
	MetricGamesIngested  = "chessql_games_ingested_total"
	MetricGamesFailed    = "chessql_games_failed_total"
	MetricGamesPartial   = "chessql_games_partial_total"
	MetricGamesDegraded  = "chessql_games_degraded_total"
	MetricReplayWarnings = "chessql_replay_warnings_total"
	MetricCapturesStored = "chessql_captures_stored_total"
	MetricIngestSeconds  = "chessql_ingest_game_seconds"

	// Query metrics.
	MetricQueries       = "chessql_queries_total"
	MetricQueryErrors   = "chessql_query_errors_total"
	MetricQueryTimeouts = "chessql_query_timeouts_total"
	MetricQuerySeconds  = "chessql_query_seconds"

	// Compiled-query cache metrics.
	MetricCacheHits   = "chessql_query_cache_hits_total"
	MetricCacheMisses = "chessql_query_cache_misses_total"
	MetricCacheSize   = "chessql_query_cache_size"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}

var help = map[string]string{
	MetricGamesIngested:  "Games stored by the ingestion service.",
	MetricGamesFailed:    "Games rejected by the ingestion service.",
	MetricGamesPartial:   "Stored games with at least one skipped move token.",
	MetricGamesDegraded:  "Stored games replayed from a fallback start position.",
	MetricReplayWarnings: "Move tokens skipped while replaying games.",
	MetricCapturesStored: "Capture records written for stored games.",
	MetricIngestSeconds:  "Time spent deriving and storing one game.",
	MetricQueries:        "Queries executed.",
	MetricQueryErrors:    "Queries that returned an error.",
	MetricQueryTimeouts:  "Queries cancelled by the execution timeout.",
	MetricQuerySeconds:   "Query execution latency.",
	MetricCacheHits:      "Compiled-query cache hits.",
	MetricCacheMisses:    "Compiled-query cache misses.",
	MetricCacheSize:      "Entries held by the compiled-query cache.",
}

// Help returns the description registered for a metric name, or the name
// itself when none is known.
func Help(name string) string {
	if h, ok := help[name]; ok {
		return h
	}
	return name
}
