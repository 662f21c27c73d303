package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/index"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/searcher"
)

type fakeRunner struct {
	result *searcher.Result
	err    error

	lastQuery string
	lastTrace bool
}

func (f *fakeRunner) Search(_ context.Context, raw string, includeTrace bool) (*searcher.Result, error) {
	f.lastQuery = raw
	f.lastTrace = includeTrace
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestSearchMissingQuery(t *testing.T) {
	h := New(&fakeRunner{}, nil, nil, index.NewMemory(), nil)

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest("GET", "/api/v1/search", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSearchSuccess(t *testing.T) {
	runner := &fakeRunner{result: &searcher.Result{
		Query:     "hello world",
		TotalHits: 2,
		DocIDs:    []string{"doc-1", "doc-2"},
	}}
	h := New(runner, nil, nil, index.NewMemory(), nil)

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest("GET", "/api/v1/search?q=hello+world&trace=1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if runner.lastQuery != "hello world" {
		t.Errorf("runner got query %q", runner.lastQuery)
	}
	if !runner.lastTrace {
		t.Error("trace=1 not forwarded")
	}

	var result searcher.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.TotalHits != 2 {
		t.Errorf("TotalHits = %d, want 2", result.TotalHits)
	}
}

func TestSearchError(t *testing.T) {
	runner := &fakeRunner{err: fmt.Errorf("index exploded")}
	h := New(runner, nil, nil, index.NewMemory(), nil)

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest("GET", "/api/v1/search?q=hello", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "error") {
		t.Errorf("body %q has no error field", rec.Body.String())
	}
}

func TestIndexDocument(t *testing.T) {
	mem := index.NewMemory()
	h := New(&fakeRunner{}, nil, nil, mem, nil)

	body := strings.NewReader(`{"doc_id":"doc-1","text":"hello world"}`)
	rec := httptest.NewRecorder()
	h.IndexDocument(rec, httptest.NewRequest("POST", "/api/v1/documents", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if mem.DocCount() != 1 {
		t.Errorf("DocCount = %d, want 1", mem.DocCount())
	}
	if got := mem.DocFreq(context.Background(), "hello"); got != 1 {
		t.Errorf("DocFreq(hello) = %d, want 1", got)
	}
}

func TestIndexDocumentRejectsBadBody(t *testing.T) {
	h := New(&fakeRunner{}, nil, nil, index.NewMemory(), nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{doc_id:`},
		{"missing doc_id", `{"text":"hello"}`},
		{"missing text", `{"doc_id":"doc-1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.IndexDocument(rec, httptest.NewRequest("POST", "/api/v1/documents", strings.NewReader(tt.body)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}
