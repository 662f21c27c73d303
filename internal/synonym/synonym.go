// Package synonym supplies candidate replacement texts for query word
// spans. The planner turns each replacement into an exact or phrase operand
// covering the original span.
package synonym

import (
	"context"
	"strings"
	"sync"
)

// Dictionary answers synonym lookups for a word span. The returned order
// must be stable for identical inputs.
type Dictionary interface {
	Synonyms(ctx context.Context, span []string) ([][]string, error)
}

// Static is an in-memory Dictionary backed by a map, for tests and the
// explain tool.
type Static struct {
	mu      sync.RWMutex
	entries map[string][][]string
}

// NewStatic creates an empty Static dictionary.
func NewStatic() *Static {
	return &Static{entries: make(map[string][][]string)}
}

// Add registers replacements for the given span. Replacements keep their
// insertion order.
func (s *Static) Add(span []string, replacements ...[]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := spanKey(span)
	s.entries[key] = append(s.entries[key], replacements...)
}

// Synonyms returns the registered replacements for span, or nil.
func (s *Static) Synonyms(_ context.Context, span []string) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[spanKey(span)], nil
}

func spanKey(span []string) string {
	return strings.ToLower(strings.Join(span, " "))
}
