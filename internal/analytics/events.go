// Package analytics publishes query-execution events to Kafka and
// aggregates them into live statistics served over HTTP.
package analytics

import "time"

type EventType string

const (
	EventQuery      EventType = "query"
	EventCacheHit   EventType = "cache_hit"
	EventZeroResult EventType = "zero_result"
	EventError      EventType = "error"
)

// QueryEvent describes one evaluated query.
type QueryEvent struct {
	Type            EventType `json:"type"`
	Query           string    `json:"query"`
	WordCount       int       `json:"word_count"`
	LeafCount       int       `json:"leaf_count"`
	DistinctFetches int       `json:"distinct_fetches"`
	TotalHits       int       `json:"total_hits"`
	LatencyMs       int64     `json:"latency_ms"`
	CacheHit        bool      `json:"cache_hit"`
	Timestamp       time.Time `json:"timestamp"`
	RequestID       string    `json:"request_id"`
}
