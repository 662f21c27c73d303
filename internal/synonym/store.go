package synonym

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/postgres"
)

// Store is a Postgres-backed Dictionary. Rows map a space-joined span to one
// replacement text each; lookup order follows insertion order.
type Store struct {
	client *postgres.Client
	logger *slog.Logger
}

// NewStore creates a Store over an open Postgres client.
func NewStore(client *postgres.Client) *Store {
	return &Store{
		client: client,
		logger: slog.Default().With("component", "synonym-store"),
	}
}

// EnsureSchema creates the synonyms table if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS synonyms (
			id          SERIAL PRIMARY KEY,
			span        TEXT NOT NULL,
			replacement TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS synonyms_span_idx ON synonyms (span)`
	if _, err := s.client.DB.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("creating synonyms schema: %w", err)
	}
	return nil
}

// Save registers one replacement text for a span.
func (s *Store) Save(ctx context.Context, span []string, replacement []string) error {
	_, err := s.client.DB.ExecContext(ctx,
		`INSERT INTO synonyms (span, replacement) VALUES ($1, $2)`,
		spanKey(span), strings.Join(replacement, " "),
	)
	if err != nil {
		return fmt.Errorf("saving synonym for %v: %w", span, err)
	}
	return nil
}

// Synonyms returns every stored replacement for span, split back into words.
func (s *Store) Synonyms(ctx context.Context, span []string) ([][]string, error) {
	rows, err := s.client.DB.QueryContext(ctx,
		`SELECT replacement FROM synonyms WHERE span = $1 ORDER BY id`,
		spanKey(span),
	)
	if err != nil {
		return nil, fmt.Errorf("querying synonyms for %v: %w", span, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var replacement string
		if err := rows.Scan(&replacement); err != nil {
			return nil, fmt.Errorf("scanning synonym row: %w", err)
		}
		out = append(out, strings.Fields(replacement))
	}
	return out, rows.Err()
}
