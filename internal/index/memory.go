package index

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/query"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/tokenizer"
)

// Memory is an in-memory inverted index with word positions. It serves
// postings for every operand kind and doubles as the planner's vocabulary
// (document frequencies drive split and concatenation decisions).
type Memory struct {
	mu       sync.RWMutex
	terms    map[string]map[string][]int
	docCount int
	logger   *slog.Logger
}

// NewMemory creates an empty index.
func NewMemory() *Memory {
	return &Memory{
		terms:  make(map[string]map[string][]int),
		logger: slog.Default().With("component", "memory-index"),
	}
}

// AddDocument tokenizes text and records a posting per term with the word
// positions at which it occurs.
func (m *Memory) AddDocument(docID string, text string) {
	words := tokenizer.Tokenize(text)

	byTerm := make(map[string][]int)
	for _, w := range words {
		byTerm[w.Text] = append(byTerm[w.Text], w.Position)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for term, positions := range byTerm {
		docs, ok := m.terms[term]
		if !ok {
			docs = make(map[string][]int)
			m.terms[term] = docs
		}
		docs[docID] = positions
	}
	m.docCount++
}

// AddPosting records a raw posting, used when loading from the store and in
// tests. Positions are kept sorted.
func (m *Memory) AddPosting(term string, docID string, positions []int) {
	sorted := append([]int(nil), positions...)
	sort.Ints(sorted)

	m.mu.Lock()
	defer m.mu.Unlock()
	docs, ok := m.terms[term]
	if !ok {
		docs = make(map[string][]int)
		m.terms[term] = docs
	}
	docs[docID] = sorted
}

// DocFreq returns the number of documents containing term. It implements
// the planner's Vocabulary interface.
func (m *Memory) DocFreq(_ context.Context, term string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.terms[term])
}

// DocCount returns the number of documents added via AddDocument.
func (m *Memory) DocCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.docCount
}

// TermCount returns the number of distinct terms in the index.
func (m *Memory) TermCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.terms)
}

// FetchPostings resolves op against the index. Exact and tolerant operands
// collect every matching term's postings (honouring the prefix flag); phrase
// operands keep only positions where the sub-terms occur adjacently in
// order.
func (m *Memory) FetchPostings(ctx context.Context, op query.Operand) (*PostingsResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	m.mu.RLock()
	var merged map[string][]int
	switch op.Kind {
	case query.KindPhrase:
		merged = m.phraseMatches(op.Words)
	default:
		merged = m.termMatches(op)
	}
	m.mu.RUnlock()

	result := &PostingsResult{
		Postings:      toPostingList(merged),
		FetchDuration: time.Since(start),
	}
	return result, nil
}

// termMatches merges the postings of every indexed term matched by an exact
// or tolerant operand. Caller holds the read lock.
func (m *Memory) termMatches(op query.Operand) map[string][]int {
	merged := make(map[string][]int)
	collect := func(term string) {
		for docID, positions := range m.terms[term] {
			merged[docID] = append(merged[docID], positions...)
		}
	}

	switch {
	case op.Kind == query.KindExact && !op.Prefix:
		collect(op.Word)
	case op.Kind == query.KindExact:
		for term := range m.terms {
			if strings.HasPrefix(term, op.Word) {
				collect(term)
			}
		}
	default:
		for term := range m.terms {
			if withinDistance(op.Word, term, op.MaxDistance) {
				collect(term)
				continue
			}
			if op.Prefix && prefixWithinDistance(op.Word, term, op.MaxDistance) {
				collect(term)
			}
		}
	}
	return merged
}

// phraseMatches returns, per document, the positions of every sub-term of an
// adjacent in-order occurrence of the phrase. Caller holds the read lock.
func (m *Memory) phraseMatches(words []string) map[string][]int {
	if len(words) == 0 {
		return nil
	}
	first := m.terms[words[0]]
	merged := make(map[string][]int)
	for docID, positions := range first {
		for _, p := range positions {
			ok := true
			for k := 1; k < len(words); k++ {
				if !containsPosition(m.terms[words[k]][docID], p+k) {
					ok = false
					break
				}
			}
			if ok {
				for k := range words {
					merged[docID] = append(merged[docID], p+k)
				}
			}
		}
	}
	return merged
}

func containsPosition(sorted []int, p int) bool {
	i := sort.SearchInts(sorted, p)
	return i < len(sorted) && sorted[i] == p
}

// toPostingList converts a docID→positions map into a PostingList ordered by
// DocID with sorted, deduplicated positions.
func toPostingList(merged map[string][]int) PostingList {
	if len(merged) == 0 {
		return nil
	}
	list := make(PostingList, 0, len(merged))
	for docID, positions := range merged {
		sort.Ints(positions)
		deduped := positions[:0]
		for i, p := range positions {
			if i == 0 || p != positions[i-1] {
				deduped = append(deduped, p)
			}
		}
		list = append(list, Posting{DocID: docID, Positions: deduped})
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].DocID < list[j].DocID
	})
	return list
}
