// Package evaluator resolves a query tree against the index: leaves fetch
// postings (deduplicated per operand id), AND nodes intersect, OR nodes
// union. Children fan out concurrently and join before combining.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/index"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/query"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/metrics"
)

// DocumentSet is the set of document ids a tree node reduces to.
type DocumentSet map[string]struct{}

// Contains reports membership of docID.
func (s DocumentSet) Contains(docID string) bool {
	_, ok := s[docID]
	return ok
}

// Sorted returns the document ids in ascending order.
func (s DocumentSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for docID := range s {
		out = append(out, docID)
	}
	sort.Strings(out)
	return out
}

// MatchRecord is one match position produced by a leaf, tagged with the
// operand that fetched it.
type MatchRecord struct {
	DocID     string `json:"doc_id"`
	Position  int    `json:"position"`
	OperandID string `json:"operand_id"`
}

// Result is a fully evaluated tree: the root document set, the raw match
// records accumulated on the way (prune them with Reduce), the diagnostic
// trace, and the number of distinct index fetches performed.
type Result struct {
	Docs            DocumentSet
	Matches         []MatchRecord
	Trace           *NodeTrace
	DistinctFetches int
}

// Evaluator evaluates query trees against a postings fetcher. It is
// stateless across queries; each Evaluate call owns a fresh postings cache.
type Evaluator struct {
	fetcher     index.Fetcher
	metrics     *metrics.Metrics
	maxParallel int
	logger      *slog.Logger
}

// New creates an Evaluator. metrics may be nil. maxParallel bounds the
// number of concurrently evaluating children per combinator node; zero or
// negative means unbounded.
func New(fetcher index.Fetcher, m *metrics.Metrics, maxParallel int) *Evaluator {
	return &Evaluator{
		fetcher:     fetcher,
		metrics:     m,
		maxParallel: maxParallel,
		logger:      slog.Default().With("component", "evaluator"),
	}
}

// state is the per-query shared cache: one resolved postings entry per
// operand id, with single-flight coordination so concurrent leaves for the
// same id issue at most one fetch.
type state struct {
	flight   singleflight.Group
	mu       sync.Mutex
	resolved map[string]*index.PostingsResult
}

func (st *state) lookup(id string) (*index.PostingsResult, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	res, ok := st.resolved[id]
	return res, ok
}

func (st *state) store(id string, res *index.PostingsResult) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.resolved[id] = res
}

// Evaluate resolves root to its document set and match records. A failed
// leaf fetch aborts the whole evaluation: a missing branch could silently
// under- or over-match, so no partial result is ever returned.
func (e *Evaluator) Evaluate(ctx context.Context, root query.Node) (*Result, error) {
	st := &state{resolved: make(map[string]*index.PostingsResult)}

	docs, matches, trace, err := e.eval(ctx, st, root)
	if err != nil {
		return nil, err
	}
	return &Result{
		Docs:            docs,
		Matches:         matches,
		Trace:           trace,
		DistinctFetches: len(st.resolved),
	}, nil
}

func (e *Evaluator) eval(ctx context.Context, st *state, node query.Node) (DocumentSet, []MatchRecord, *NodeTrace, error) {
	switch n := node.(type) {
	case query.Leaf:
		return e.evalLeaf(ctx, st, n.Operand)
	case query.And:
		return e.evalAnd(ctx, st, n.Children)
	case query.Or:
		return e.evalOr(ctx, st, n.Children)
	default:
		return nil, nil, nil, fmt.Errorf("unknown query node type %T", node)
	}
}

type childResult struct {
	docs    DocumentSet
	matches []MatchRecord
	trace   *NodeTrace
}

// evalAnd fans children out concurrently and intersects their document
// sets. Once any child resolves to an empty set the intersection is known
// to be empty, so in-flight siblings are cancelled best-effort.
func (e *Evaluator) evalAnd(ctx context.Context, st *state, children []query.Node) (DocumentSet, []MatchRecord, *NodeTrace, error) {
	start := time.Now()
	if len(children) == 0 {
		return DocumentSet{}, nil, &NodeTrace{Label: "AND", Duration: time.Since(start)}, nil
	}

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	outs := make([]childResult, len(children))
	var sawEmpty atomic.Bool

	g := new(errgroup.Group)
	if e.maxParallel > 0 {
		g.SetLimit(e.maxParallel)
	}
	for i, child := range children {
		i, child := i, child
		g.Go(func() error {
			docs, matches, trace, err := e.eval(ctx, st, child)
			if err != nil {
				return err
			}
			outs[i] = childResult{docs: docs, matches: matches, trace: trace}
			if len(docs) == 0 {
				sawEmpty.Store(true)
				cancel()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Sibling errors after an empty child are cancellation fallout;
		// the intersection is already known to be empty.
		if !sawEmpty.Load() || parent.Err() != nil {
			return nil, nil, nil, err
		}
	}

	var docs DocumentSet
	if sawEmpty.Load() {
		docs = DocumentSet{}
	} else {
		docs = intersect(outs)
	}

	var matches []MatchRecord
	for _, out := range outs {
		for _, rec := range out.matches {
			if docs.Contains(rec.DocID) {
				matches = append(matches, rec)
			}
		}
	}

	trace := &NodeTrace{
		Label:    "AND",
		Docs:     len(docs),
		Duration: time.Since(start),
	}
	for _, out := range outs {
		if out.trace != nil {
			trace.Children = append(trace.Children, out.trace)
		}
	}
	return docs, matches, trace, nil
}

// evalOr fans children out concurrently and unions their document sets. No
// short-circuit: every child may contribute distinct match provenance even
// when its documents are already present in the union.
func (e *Evaluator) evalOr(ctx context.Context, st *state, children []query.Node) (DocumentSet, []MatchRecord, *NodeTrace, error) {
	start := time.Now()

	outs := make([]childResult, len(children))
	g := new(errgroup.Group)
	if e.maxParallel > 0 {
		g.SetLimit(e.maxParallel)
	}
	for i, child := range children {
		i, child := i, child
		g.Go(func() error {
			docs, matches, trace, err := e.eval(ctx, st, child)
			if err != nil {
				return err
			}
			outs[i] = childResult{docs: docs, matches: matches, trace: trace}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	docs := make(DocumentSet)
	var matches []MatchRecord
	trace := &NodeTrace{Label: "OR"}
	for _, out := range outs {
		for docID := range out.docs {
			docs[docID] = struct{}{}
		}
		matches = append(matches, out.matches...)
		trace.Children = append(trace.Children, out.trace)
	}
	trace.Docs = len(docs)
	trace.Duration = time.Since(start)
	return docs, matches, trace, nil
}

// evalLeaf resolves one operand, going through the per-query cache. At most
// one index fetch runs per operand id; concurrent requesters share the
// in-flight result. A fetch aborted by a cancelled sibling never reaches
// the cache, and live requesters retry under their own context.
func (e *Evaluator) evalLeaf(ctx context.Context, st *state, op query.Operand) (DocumentSet, []MatchRecord, *NodeTrace, error) {
	start := time.Now()
	if err := op.Validate(op.Range.End); err != nil {
		return nil, nil, nil, err
	}

	id := op.ID()
	var res *index.PostingsResult
	for {
		if cached, ok := st.lookup(id); ok {
			res = cached
			if e.metrics != nil {
				e.metrics.PostingsDedupTotal.Inc()
			}
			break
		}
		v, err, _ := st.flight.Do(id, func() (any, error) {
			if cached, ok := st.lookup(id); ok {
				return cached, nil
			}
			fetched, err := e.fetcher.FetchPostings(ctx, op)
			if err != nil {
				return nil, err
			}
			st.store(id, fetched)
			if e.metrics != nil {
				e.metrics.LeafFetchesTotal.Inc()
				e.metrics.LeafFetchDuration.Observe(fetched.FetchDuration.Seconds())
			}
			return fetched, nil
		})
		if err == nil {
			res = v.(*index.PostingsResult)
			break
		}
		if ctx.Err() != nil {
			return nil, nil, nil, err
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// Shared flight ran under a context that was cancelled;
			// ours is still live, so retry.
			continue
		}
		return nil, nil, nil, fmt.Errorf("fetching postings for %s: %w", id, err)
	}

	docs := make(DocumentSet, len(res.Postings))
	var matches []MatchRecord
	for _, posting := range res.Postings {
		docs[posting.DocID] = struct{}{}
		for _, pos := range posting.Positions {
			matches = append(matches, MatchRecord{
				DocID:     posting.DocID,
				Position:  pos,
				OperandID: id,
			})
		}
	}

	trace := &NodeTrace{
		Label:    op.String(),
		Docs:     len(docs),
		Duration: time.Since(start),
	}
	return docs, matches, trace, nil
}

// intersect computes the intersection of all children's document sets,
// iterating the smallest set against the others.
func intersect(outs []childResult) DocumentSet {
	smallest := 0
	for i, out := range outs {
		if len(out.docs) < len(outs[smallest].docs) {
			smallest = i
		}
	}
	result := make(DocumentSet, len(outs[smallest].docs))
	for docID := range outs[smallest].docs {
		inAll := true
		for i, out := range outs {
			if i == smallest {
				continue
			}
			if !out.docs.Contains(docID) {
				inAll = false
				break
			}
		}
		if inAll {
			result[docID] = struct{}{}
		}
	}
	return result
}
