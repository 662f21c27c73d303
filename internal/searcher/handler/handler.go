// Package handler exposes the searcher over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/analytics"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/index"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/searcher"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/searcher/cache"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/logger"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/metrics"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/middleware"

	pkgerrors "github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/errors"
)

// QueryRunner is the search entry point the handler drives.
type QueryRunner interface {
	Search(ctx context.Context, raw string, includeTrace bool) (*searcher.Result, error)
}

// Handler serves /search and /documents.
type Handler struct {
	runner    QueryRunner
	cache     *cache.ResultCache
	collector *analytics.Collector
	memIndex  *index.Memory
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates a Handler. cache, collector, and metrics may be nil.
func New(runner QueryRunner, resultCache *cache.ResultCache, collector *analytics.Collector, memIndex *index.Memory, m *metrics.Metrics) *Handler {
	return &Handler{
		runner:    runner,
		cache:     resultCache,
		collector: collector,
		memIndex:  memIndex,
		metrics:   m,
		logger:    slog.Default().With("component", "search-handler"),
	}
}

// Search handles GET /search?q=...&trace=1.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	rawQuery := r.URL.Query().Get("q")
	if rawQuery == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	includeTrace := r.URL.Query().Get("trace") == "1"

	var result *searcher.Result
	var err error
	cacheHit := false

	if h.cache != nil {
		result, cacheHit, err = h.cache.GetOrCompute(ctx, rawQuery, includeTrace, func() (*searcher.Result, error) {
			return h.runner.Search(ctx, rawQuery, includeTrace)
		})
	} else {
		result, err = h.runner.Search(ctx, rawQuery, includeTrace)
	}

	latencyMs := time.Since(start).Milliseconds()

	if err != nil {
		log.Error("search failed", "query", rawQuery, "error", err)
		h.track(ctx, analytics.QueryEvent{
			Type:      analytics.EventError,
			Query:     rawQuery,
			LatencyMs: latencyMs,
		})
		h.writeError(w, pkgerrors.HTTPStatusCode(err), "search failed")
		return
	}

	h.observeLatency(cacheHit, time.Since(start))

	log.Info("search completed",
		"query", rawQuery,
		"total_hits", result.TotalHits,
		"cache_hit", cacheHit,
		"latency_ms", latencyMs,
	)

	eventType := analytics.EventQuery
	switch {
	case cacheHit:
		eventType = analytics.EventCacheHit
	case result.TotalHits == 0:
		eventType = analytics.EventZeroResult
	}
	h.track(ctx, analytics.QueryEvent{
		Type:            eventType,
		Query:           rawQuery,
		WordCount:       result.WordCount,
		LeafCount:       result.LeafCount,
		DistinctFetches: result.DistinctFetches,
		TotalHits:       result.TotalHits,
		LatencyMs:       latencyMs,
		CacheHit:        cacheHit,
		Timestamp:       time.Now().UTC(),
		RequestID:       middleware.GetRequestID(ctx),
	})

	h.writeJSON(w, http.StatusOK, result)
}

type indexRequest struct {
	DocID string `json:"doc_id"`
	Text  string `json:"text"`
}

// IndexDocument handles POST /documents, adding one document to the
// in-memory index and invalidating the result cache.
func (h *Handler) IndexDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var req indexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.DocID == "" || req.Text == "" {
		h.writeError(w, http.StatusBadRequest, "doc_id and text are required")
		return
	}

	h.memIndex.AddDocument(req.DocID, req.Text)
	if h.cache != nil {
		if err := h.cache.Invalidate(ctx); err != nil {
			log.Error("result cache invalidation failed", "error", err)
		}
	}

	log.Info("document indexed", "doc_id", req.DocID, "terms", h.memIndex.TermCount())
	h.writeJSON(w, http.StatusCreated, map[string]string{"doc_id": req.DocID})
}

func (h *Handler) track(ctx context.Context, event analytics.QueryEvent) {
	if h.collector != nil {
		if event.RequestID == "" {
			event.RequestID = middleware.GetRequestID(ctx)
		}
		if event.Timestamp.IsZero() {
			event.Timestamp = time.Now().UTC()
		}
		h.collector.Track(event)
	}
}

func (h *Handler) observeLatency(cacheHit bool, elapsed time.Duration) {
	if h.metrics == nil {
		return
	}
	status := "miss"
	if cacheHit {
		status = "hit"
		h.metrics.ResultCacheHitsTotal.Inc()
	} else {
		h.metrics.ResultCacheMissTotal.Inc()
	}
	h.metrics.SearchLatency.WithLabelValues(status).Observe(elapsed.Seconds())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
