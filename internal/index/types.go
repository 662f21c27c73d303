// Package index provides the postings abstraction the evaluator fetches
// from: an in-memory inverted index with positions, and a Postgres-backed
// store used to persist and reload it.
package index

import (
	"context"
	"time"

	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/query"
)

// Posting records where a single document matched: the document id and the
// word offsets of each match within it.
type Posting struct {
	DocID     string
	Positions []int
}

// PostingList is a set of postings ordered by DocID.
type PostingList []Posting

// PostingsResult is the index's answer for one operand. FetchDuration is
// diagnostic only and never affects correctness.
type PostingsResult struct {
	Postings      PostingList
	FetchDuration time.Duration
}

// Fetcher resolves an operand to its postings. Implementations must be
// idempotent per operand and safe for concurrent use.
type Fetcher interface {
	FetchPostings(ctx context.Context, op query.Operand) (*PostingsResult, error)
}
