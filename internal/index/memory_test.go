package index

import (
	"context"
	"reflect"
	"testing"

	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/query"
)

func fetchDocs(t *testing.T, m *Memory, op query.Operand) []string {
	t.Helper()
	res, err := m.FetchPostings(context.Background(), op)
	if err != nil {
		t.Fatalf("FetchPostings(%s): %v", op, err)
	}
	docs := make([]string, 0, len(res.Postings))
	for _, p := range res.Postings {
		docs = append(docs, p.DocID)
	}
	return docs
}

func TestMemoryAddDocument(t *testing.T) {
	m := NewMemory()
	m.AddDocument("doc-1", "Hello, World!")
	m.AddDocument("doc-2", "hello again")

	ctx := context.Background()
	if got := m.DocFreq(ctx, "hello"); got != 2 {
		t.Errorf("DocFreq(hello) = %d, want 2", got)
	}
	if got := m.DocFreq(ctx, "world"); got != 1 {
		t.Errorf("DocFreq(world) = %d, want 1", got)
	}
	if got := m.DocFreq(ctx, "missing"); got != 0 {
		t.Errorf("DocFreq(missing) = %d, want 0", got)
	}
	if m.DocCount() != 2 {
		t.Errorf("DocCount() = %d, want 2", m.DocCount())
	}
}

func TestMemoryExactMatch(t *testing.T) {
	m := NewMemory()
	m.AddDocument("doc-1", "hello world")
	m.AddDocument("doc-2", "helloworld")

	docs := fetchDocs(t, m, query.Exact("hello", false, query.WordRange{Start: 0, End: 1}))
	if !reflect.DeepEqual(docs, []string{"doc-1"}) {
		t.Errorf("exact match = %v, want [doc-1]", docs)
	}

	docs = fetchDocs(t, m, query.Exact("nothere", false, query.WordRange{Start: 0, End: 1}))
	if len(docs) != 0 {
		t.Errorf("missing term matched %v", docs)
	}
}

func TestMemoryPrefixMatch(t *testing.T) {
	m := NewMemory()
	m.AddDocument("doc-1", "hello world")
	m.AddDocument("doc-2", "helloworld")
	m.AddDocument("doc-3", "help")

	docs := fetchDocs(t, m, query.Exact("hello", true, query.WordRange{Start: 0, End: 1}))
	if !reflect.DeepEqual(docs, []string{"doc-1", "doc-2"}) {
		t.Errorf("prefix match = %v, want [doc-1 doc-2]", docs)
	}

	docs = fetchDocs(t, m, query.Exact("hel", true, query.WordRange{Start: 0, End: 1}))
	if !reflect.DeepEqual(docs, []string{"doc-1", "doc-2", "doc-3"}) {
		t.Errorf("prefix match = %v, want all three", docs)
	}
}

func TestMemoryTolerantMatch(t *testing.T) {
	m := NewMemory()
	m.AddDocument("doc-1", "hello")
	m.AddDocument("doc-2", "hella")
	m.AddDocument("doc-3", "world")

	docs := fetchDocs(t, m, query.Tolerant("hello", 1, false, query.WordRange{Start: 0, End: 1}))
	if !reflect.DeepEqual(docs, []string{"doc-1", "doc-2"}) {
		t.Errorf("tolerant match = %v, want [doc-1 doc-2]", docs)
	}
}

func TestMemoryTolerantPrefixMatch(t *testing.T) {
	m := NewMemory()
	m.AddDocument("doc-1", "helloworld")

	// "hella" is one edit from the prefix "hello".
	docs := fetchDocs(t, m, query.Tolerant("hella", 1, true, query.WordRange{Start: 0, End: 1}))
	if !reflect.DeepEqual(docs, []string{"doc-1"}) {
		t.Errorf("tolerant prefix match = %v, want [doc-1]", docs)
	}

	docs = fetchDocs(t, m, query.Tolerant("hella", 1, false, query.WordRange{Start: 0, End: 1}))
	if len(docs) != 0 {
		t.Errorf("non-prefix tolerant matched %v", docs)
	}
}

func TestMemoryPhraseMatch(t *testing.T) {
	m := NewMemory()
	m.AddDocument("doc-1", "new york city")
	m.AddDocument("doc-2", "york new city")
	m.AddDocument("doc-3", "new haven and york")

	op := query.Phrase([]string{"new", "york"}, query.WordRange{Start: 0, End: 2})
	docs := fetchDocs(t, m, op)
	if !reflect.DeepEqual(docs, []string{"doc-1"}) {
		t.Errorf("phrase match = %v, want [doc-1]", docs)
	}
}

func TestMemoryPhrasePositions(t *testing.T) {
	m := NewMemory()
	m.AddDocument("doc-1", "say hell o twice hell o")

	op := query.Phrase([]string{"hell", "o"}, query.WordRange{Start: 0, End: 1})
	res, err := m.FetchPostings(context.Background(), op)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Postings) != 1 {
		t.Fatalf("got %d postings, want 1", len(res.Postings))
	}
	// Both occurrences contribute all component positions.
	want := []int{1, 2, 4, 5}
	if !reflect.DeepEqual(res.Postings[0].Positions, want) {
		t.Errorf("positions = %v, want %v", res.Postings[0].Positions, want)
	}
}

func TestMemoryAddPostingSortsPositions(t *testing.T) {
	m := NewMemory()
	m.AddPosting("term", "doc-1", []int{9, 3, 7})

	res, err := m.FetchPostings(context.Background(), query.Exact("term", false, query.WordRange{Start: 0, End: 1}))
	if err != nil {
		t.Fatal(err)
	}
	want := []int{3, 7, 9}
	if !reflect.DeepEqual(res.Postings[0].Positions, want) {
		t.Errorf("positions = %v, want %v", res.Postings[0].Positions, want)
	}
}

func TestMemoryFetchCancelled(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.FetchPostings(ctx, query.Exact("x", false, query.WordRange{Start: 0, End: 1})); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
