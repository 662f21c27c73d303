package analytics

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/kafka"
)

const maxLatencySamples = 10000

// AggregatedStats is the live view of query traffic built from consumed
// events.
type AggregatedStats struct {
	TotalQueries      int64        `json:"total_queries"`
	CacheHits         int64        `json:"cache_hits"`
	ZeroResultCount   int64        `json:"zero_result_count"`
	ErrorCount        int64        `json:"error_count"`
	AvgLatencyMs      float64      `json:"avg_latency_ms"`
	P50LatencyMs      int64        `json:"p50_latency_ms"`
	P95LatencyMs      int64        `json:"p95_latency_ms"`
	P99LatencyMs      int64        `json:"p99_latency_ms"`
	AvgDistinctFetch  float64      `json:"avg_distinct_fetches"`
	TopQueries        []QueryCount `json:"top_queries"`
	ZeroResultQueries []QueryCount `json:"zero_result_queries"`
	QueriesPerMinute  float64      `json:"queries_per_minute"`
}

// QueryCount pairs a query string with its occurrence count.
type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// Aggregator consumes query events from Kafka and keeps rolling statistics.
type Aggregator struct {
	mu                sync.RWMutex
	totalQueries      int64
	cacheHits         int64
	zeroResults       int64
	errors            int64
	totalFetches      int64
	latencies         []int64
	queryCounts       map[string]int64
	zeroResultQueries map[string]int64
	startTime         time.Time

	logger *slog.Logger
}

// NewAggregator creates an empty Aggregator. Feed it via Record directly or
// through a Kafka consumer built with HandleEvent.
func NewAggregator() *Aggregator {
	return &Aggregator{
		latencies:         make([]int64, 0, maxLatencySamples),
		queryCounts:       make(map[string]int64),
		zeroResultQueries: make(map[string]int64),
		startTime:         time.Now(),
		logger:            slog.Default().With("component", "analytics-aggregator"),
	}
}

// Start enters consumer's consume loop until ctx is cancelled.
func (a *Aggregator) Start(ctx context.Context, consumer *kafka.Consumer) error {
	a.logger.Info("analytics aggregator starting")
	return consumer.Start(ctx)
}

// Record folds one event into the statistics.
func (a *Aggregator) Record(event QueryEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalQueries++
	a.totalFetches += int64(event.DistinctFetches)
	if event.CacheHit {
		a.cacheHits++
	}
	switch event.Type {
	case EventZeroResult:
		a.zeroResults++
		a.zeroResultQueries[event.Query]++
	case EventError:
		a.errors++
	}
	a.queryCounts[event.Query]++
	if len(a.latencies) < maxLatencySamples {
		a.latencies = append(a.latencies, event.LatencyMs)
	}
}

// Stats returns a snapshot of the aggregated statistics.
func (a *Aggregator) Stats() AggregatedStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := AggregatedStats{
		TotalQueries:      a.totalQueries,
		CacheHits:         a.cacheHits,
		ZeroResultCount:   a.zeroResults,
		ErrorCount:        a.errors,
		TopQueries:        topCounts(a.queryCounts, 10),
		ZeroResultQueries: topCounts(a.zeroResultQueries, 10),
	}
	if a.totalQueries > 0 {
		stats.AvgDistinctFetch = float64(a.totalFetches) / float64(a.totalQueries)
	}
	if elapsed := time.Since(a.startTime).Minutes(); elapsed > 0 {
		stats.QueriesPerMinute = float64(a.totalQueries) / elapsed
	}
	if len(a.latencies) > 0 {
		sorted := append([]int64(nil), a.latencies...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		var sum int64
		for _, l := range sorted {
			sum += l
		}
		stats.AvgLatencyMs = float64(sum) / float64(len(sorted))
		stats.P50LatencyMs = percentile(sorted, 50)
		stats.P95LatencyMs = percentile(sorted, 95)
		stats.P99LatencyMs = percentile(sorted, 99)
	}
	return stats
}

// StatsHandler serves the aggregated statistics as JSON.
func (a *Aggregator) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(a.Stats())
	}
}

// HandleEvent returns a Kafka handler that feeds consumed events into agg.
func HandleEvent(agg *Aggregator) kafka.MessageHandler {
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[QueryEvent](value)
		if err != nil {
			return err
		}
		agg.Record(event)
		return nil
	}
}

func topCounts(counts map[string]int64, limit int) []QueryCount {
	out := make([]QueryCount, 0, len(counts))
	for q, c := range counts {
		out = append(out, QueryCount{Query: q, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Query < out[j].Query
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func percentile(sorted []int64, p int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (len(sorted)*p + 99) / 100
	if idx > 0 {
		idx--
	}
	return sorted[idx]
}
