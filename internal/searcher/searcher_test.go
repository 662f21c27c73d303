package searcher

import (
	"context"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/evaluator"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/index"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/query"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/synonym"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/config"
)

// countingIndex wraps Memory and counts postings fetches, to verify that
// some paths never reach the index.
type countingIndex struct {
	*index.Memory
	fetches atomic.Int64
}

func (c *countingIndex) FetchPostings(ctx context.Context, op query.Operand) (*index.PostingsResult, error) {
	c.fetches.Add(1)
	return c.Memory.FetchPostings(ctx, op)
}

func newTestSearcher(tb testing.TB, mem *index.Memory, fetcher index.Fetcher, dict query.SynonymSource) *Searcher {
	tb.Helper()
	cfg := config.QueryConfig{
		MaxNgram:           3,
		MinWordLenOneTypo:  5,
		MinWordLenTwoTypos: 9,
		MaxEvalParallelism: 4,
	}
	planner := query.NewPlanner(mem, dict, cfg)
	eval := evaluator.New(fetcher, nil, cfg.MaxEvalParallelism)
	return New(planner, eval, nil)
}

func TestSearchEndToEnd(t *testing.T) {
	mem := index.NewMemory()
	mem.AddDocument("doc-1", "hello world")
	mem.AddDocument("doc-2", "hello there")
	mem.AddDocument("doc-3", "goodbye world")

	s := newTestSearcher(t, mem, mem, nil)
	result, err := s.Search(context.Background(), "hello world", false)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(result.DocIDs, []string{"doc-1"}) {
		t.Errorf("DocIDs = %v, want [doc-1]", result.DocIDs)
	}
	if result.TotalHits != 1 {
		t.Errorf("TotalHits = %d, want 1", result.TotalHits)
	}
	if result.WordCount != 2 {
		t.Errorf("WordCount = %d, want 2", result.WordCount)
	}
	if result.LeafCount == 0 || result.DistinctFetches == 0 {
		t.Errorf("diagnostics empty: leaves %d, fetches %d", result.LeafCount, result.DistinctFetches)
	}
	for _, rec := range result.Matches {
		if rec.DocID != "doc-1" {
			t.Errorf("match record for %s in final result", rec.DocID)
		}
	}
}

func TestSearchZeroWordsSkipsIndex(t *testing.T) {
	mem := index.NewMemory()
	mem.AddDocument("doc-1", "hello")
	counting := &countingIndex{Memory: mem}

	s := newTestSearcher(t, mem, counting, nil)
	for _, raw := range []string{"", "   ", "?!..."} {
		result, err := s.Search(context.Background(), raw, false)
		if err != nil {
			t.Fatalf("Search(%q): %v", raw, err)
		}
		if result.TotalHits != 0 || len(result.DocIDs) != 0 {
			t.Errorf("Search(%q) returned hits", raw)
		}
	}
	if n := counting.fetches.Load(); n != 0 {
		t.Errorf("wordless queries reached the index %d times", n)
	}
}

func TestSearchSynonymWidensResults(t *testing.T) {
	mem := index.NewMemory()
	mem.AddDocument("doc-1", "hello")
	mem.AddDocument("doc-2", "hi")

	dict := synonym.NewStatic()
	dict.Add([]string{"hello"}, []string{"hi"})

	s := newTestSearcher(t, mem, mem, dict)
	result, err := s.Search(context.Background(), "hello", false)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"doc-1", "doc-2"}
	if !reflect.DeepEqual(result.DocIDs, want) {
		t.Errorf("DocIDs = %v, want %v", result.DocIDs, want)
	}
}

func TestSearchIncludeTrace(t *testing.T) {
	mem := index.NewMemory()
	mem.AddDocument("doc-1", "hello world")

	s := newTestSearcher(t, mem, mem, nil)

	result, err := s.Search(context.Background(), "hello world", true)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.Tree, "AND") {
		t.Errorf("rendered tree missing root AND:\n%s", result.Tree)
	}
	if !strings.Contains(result.Trace, "fetched") {
		t.Errorf("trace missing fetch lines:\n%s", result.Trace)
	}

	result, err = s.Search(context.Background(), "hello world", false)
	if err != nil {
		t.Fatal(err)
	}
	if result.Tree != "" || result.Trace != "" {
		t.Error("diagnostics attached without includeTrace")
	}
}

func TestSearchNoMatches(t *testing.T) {
	mem := index.NewMemory()
	mem.AddDocument("doc-1", "completely unrelated text")

	s := newTestSearcher(t, mem, mem, nil)
	result, err := s.Search(context.Background(), "zzzqqqxxx", false)
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalHits != 0 {
		t.Errorf("TotalHits = %d, want 0", result.TotalHits)
	}
}
