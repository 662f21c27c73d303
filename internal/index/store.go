package index

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/postgres"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/resilience"
	"github.com/lib/pq"

	pkgerrors "github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/errors"
)

const schemaTimeout = 10 * time.Second

// Store persists postings in Postgres so the in-memory index survives
// restarts. Reads are guarded by a circuit breaker and retried with backoff;
// a store that stays unreachable surfaces as ErrIndexUnavailable.
type Store struct {
	client  *postgres.Client
	breaker *resilience.CircuitBreaker
	retry   resilience.RetryConfig
	logger  *slog.Logger
}

// NewStore creates a Store over an open Postgres client.
func NewStore(client *postgres.Client) *Store {
	return &Store{
		client:  client,
		breaker: resilience.NewCircuitBreaker("postings-store", resilience.CircuitBreakerConfig{}),
		retry:   resilience.RetryConfig{MaxAttempts: 3},
		logger:  slog.Default().With("component", "postings-store"),
	}
}

// EnsureSchema creates the postings table if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS postings (
			term      TEXT    NOT NULL,
			doc_id    TEXT    NOT NULL,
			positions INTEGER[] NOT NULL,
			PRIMARY KEY (term, doc_id)
		)`
	return resilience.WithTimeout(ctx, schemaTimeout, "postings-schema", func(ctx context.Context) error {
		if _, err := s.client.DB.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("creating postings schema: %w", err)
		}
		return nil
	})
}

// SavePosting upserts one posting row.
func (s *Store) SavePosting(ctx context.Context, term string, docID string, positions []int) error {
	const upsert = `
		INSERT INTO postings (term, doc_id, positions)
		VALUES ($1, $2, $3)
		ON CONFLICT (term, doc_id) DO UPDATE SET positions = EXCLUDED.positions`
	if _, err := s.client.DB.ExecContext(ctx, upsert, term, docID, pq.Array(toInt64(positions))); err != nil {
		return fmt.Errorf("saving posting %q/%q: %w", term, docID, err)
	}
	return nil
}

// SaveDocument writes every posting of a tokenized document in one
// transaction.
func (s *Store) SaveDocument(ctx context.Context, docID string, byTerm map[string][]int) error {
	return s.client.InTx(ctx, func(tx *sql.Tx) error {
		const upsert = `
			INSERT INTO postings (term, doc_id, positions)
			VALUES ($1, $2, $3)
			ON CONFLICT (term, doc_id) DO UPDATE SET positions = EXCLUDED.positions`
		for term, positions := range byTerm {
			if _, err := tx.ExecContext(ctx, upsert, term, docID, pq.Array(toInt64(positions))); err != nil {
				return fmt.Errorf("saving posting %q/%q: %w", term, docID, err)
			}
		}
		return nil
	})
}

// LoadInto streams every stored posting into mem, returning the number of
// rows loaded.
func (s *Store) LoadInto(ctx context.Context, mem *Memory) (int, error) {
	var loaded int
	err := resilience.Retry(ctx, "postings-load", s.retry, func() error {
		return s.breaker.Execute(func() error {
			rows, err := s.client.DB.QueryContext(ctx,
				`SELECT term, doc_id, positions FROM postings`)
			if err != nil {
				return fmt.Errorf("querying postings: %w", err)
			}
			defer rows.Close()

			loaded = 0
			for rows.Next() {
				var term, docID string
				var positions pq.Int64Array
				if err := rows.Scan(&term, &docID, &positions); err != nil {
					return fmt.Errorf("scanning posting row: %w", err)
				}
				mem.AddPosting(term, docID, toInt(positions))
				loaded++
			}
			return rows.Err()
		})
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", pkgerrors.ErrIndexUnavailable, err)
	}
	s.logger.Info("postings loaded from store", "rows", loaded)
	return loaded, nil
}

func toInt64(positions []int) []int64 {
	out := make([]int64, len(positions))
	for i, p := range positions {
		out[i] = int64(p)
	}
	return out
}

func toInt(positions pq.Int64Array) []int {
	out := make([]int, len(positions))
	for i, p := range positions {
		out[i] = int(p)
	}
	return out
}
