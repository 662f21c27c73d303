// Package searcher ties the pipeline together: tokenize the raw query, plan
// the query tree, evaluate it against the index, and reduce the match
// evidence to the final document set.
package searcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/evaluator"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/query"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/tokenizer"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/metrics"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/tracing"
)

// Result is the outcome of one query evaluation: the final document ids,
// the pruned match records with per-operand counts, and diagnostics.
type Result struct {
	Query           string                  `json:"query"`
	TotalHits       int                     `json:"total_hits"`
	DocIDs          []string                `json:"doc_ids"`
	Matches         []evaluator.MatchRecord `json:"matches,omitempty"`
	OperandStats    map[string]int          `json:"operand_stats,omitempty"`
	WordCount       int                     `json:"word_count"`
	LeafCount       int                     `json:"leaf_count"`
	DistinctFetches int                     `json:"distinct_fetches"`
	Tree            string                  `json:"tree,omitempty"`
	Trace           string                  `json:"trace,omitempty"`
}

// Searcher runs queries end to end.
type Searcher struct {
	planner   *query.Planner
	evaluator *evaluator.Evaluator
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates a Searcher. metrics may be nil.
func New(planner *query.Planner, eval *evaluator.Evaluator, m *metrics.Metrics) *Searcher {
	return &Searcher{
		planner:   planner,
		evaluator: eval,
		metrics:   m,
		logger:    slog.Default().With("component", "searcher"),
	}
}

// Search evaluates raw and returns the result. A query with no words is not
// an error: it resolves to the empty result without touching the index.
// When includeTrace is set the rendered tree and per-node trace are
// attached to the result.
func (s *Searcher) Search(ctx context.Context, raw string, includeTrace bool) (*Result, error) {
	start := time.Now()

	tokCtx, span := tracing.StartChildSpan(ctx, "tokenize")
	words := tokenizer.Tokenize(raw)
	span.SetAttr("words", len(words))
	span.End()

	if len(words) == 0 {
		s.countQuery("zero_result")
		return &Result{
			Query:        raw,
			DocIDs:       []string{},
			OperandStats: map[string]int{},
		}, nil
	}

	planCtx, span := tracing.StartChildSpan(tokCtx, "plan")
	tree, err := s.planner.Build(planCtx, words)
	span.End()
	if err != nil {
		s.countQuery("error")
		return nil, err
	}

	leaves := query.Leaves(tree)
	if s.metrics != nil {
		s.metrics.TreeLeaves.Observe(float64(len(leaves)))
	}

	evalCtx, span := tracing.StartChildSpan(planCtx, "evaluate")
	evalResult, err := s.evaluator.Evaluate(evalCtx, tree)
	span.End()
	if err != nil {
		s.countQuery("error")
		return nil, err
	}

	_, span = tracing.StartChildSpan(evalCtx, "reduce")
	matches, counts := evaluator.Reduce(evalResult.Docs, evalResult.Matches)
	span.End()

	result := &Result{
		Query:           raw,
		TotalHits:       len(evalResult.Docs),
		DocIDs:          evalResult.Docs.Sorted(),
		Matches:         matches,
		OperandStats:    counts,
		WordCount:       len(words),
		LeafCount:       len(leaves),
		DistinctFetches: evalResult.DistinctFetches,
	}
	if includeTrace {
		result.Tree = query.Render(tree)
		result.Trace = evalResult.Trace.Render()
	}

	if result.TotalHits == 0 {
		s.countQuery("zero_result")
	} else {
		s.countQuery("hit")
	}

	s.logger.Info("query evaluated",
		"query", raw,
		"words", len(words),
		"leaves", len(leaves),
		"distinct_fetches", result.DistinctFetches,
		"total_hits", result.TotalHits,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (s *Searcher) countQuery(resultType string) {
	if s.metrics != nil {
		s.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	}
}
