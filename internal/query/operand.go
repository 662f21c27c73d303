// Package query models a tokenized query as a tree of boolean combinators
// over leaf operands. An operand is one matching strategy (exact, tolerant,
// prefix, phrase) over one word or contiguous word span; the planner
// generates the alternatives and assembles them into an AND-of-ORs tree.
package query

import (
	"fmt"
	"strconv"
	"strings"

	pkgerrors "github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/errors"
)

// WordRange is a half-open interval [Start, End) over word positions,
// identifying the span of the original query an operand covers.
type WordRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of word positions the range covers.
func (r WordRange) Len() int {
	return r.End - r.Start
}

// Contains reports whether pos falls inside the range.
func (r WordRange) Contains(pos int) bool {
	return pos >= r.Start && pos < r.End
}

func (r WordRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Kind is the matching strategy of an operand.
type Kind int

const (
	KindExact Kind = iota
	KindTolerant
	KindPhrase
)

func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindTolerant:
		return "tolerant"
	case KindPhrase:
		return "phrase"
	default:
		return "unknown"
	}
}

// Operand is a leaf query unit: one matching strategy over one word span.
//
// The dedup id (see ID) is computed from the matching strategy and payload
// only, never from Range: two operands with the same strategy and text share
// one postings fetch even when they cover different spans.
type Operand struct {
	Kind        Kind      `json:"kind"`
	Word        string    `json:"word,omitempty"`
	Words       []string  `json:"words,omitempty"`
	MaxDistance int       `json:"max_distance,omitempty"`
	Prefix      bool      `json:"prefix,omitempty"`
	Range       WordRange `json:"range"`
}

// Exact creates an operand matching word literally. With prefix set it also
// matches any indexed term having word as a prefix.
func Exact(word string, prefix bool, rng WordRange) Operand {
	return Operand{Kind: KindExact, Word: word, Prefix: prefix, Range: rng}
}

// Tolerant creates an operand matching word within maxDistance edits.
func Tolerant(word string, maxDistance int, prefix bool, rng WordRange) Operand {
	return Operand{Kind: KindTolerant, Word: word, MaxDistance: maxDistance, Prefix: prefix, Range: rng}
}

// Phrase creates an operand matching the given sub-terms as an ordered,
// adjacent sequence.
func Phrase(words []string, rng WordRange) Operand {
	return Operand{Kind: KindPhrase, Words: words, Range: rng}
}

// ID returns the operand's stable dedup key. Operands with identical
// strategy and payload produce identical ids regardless of their WordRange,
// so repeated terms across spans resolve to a single index fetch.
func (o Operand) ID() string {
	var b strings.Builder
	b.WriteString(o.Kind.String())
	if o.Kind == KindTolerant {
		b.WriteString(strconv.Itoa(o.MaxDistance))
	}
	if o.Prefix {
		b.WriteByte('*')
	}
	b.WriteByte(':')
	if o.Kind == KindPhrase {
		for i, w := range o.Words {
			if i > 0 {
				b.WriteByte('\x1f')
			}
			b.WriteString(strings.ToLower(w))
		}
	} else {
		b.WriteString(strings.ToLower(o.Word))
	}
	return b.String()
}

// Validate checks the operand against the query's word count. A failure here
// indicates a planner bug, not bad user input.
func (o Operand) Validate(wordCount int) error {
	if o.Range.Start < 0 || o.Range.Start >= o.Range.End || o.Range.End > wordCount {
		return fmt.Errorf("%w: range %s outside [0,%d)", pkgerrors.ErrMalformedOperand, o.Range, wordCount)
	}
	switch o.Kind {
	case KindPhrase:
		if len(o.Words) < 2 {
			return fmt.Errorf("%w: phrase with %d words", pkgerrors.ErrMalformedOperand, len(o.Words))
		}
	case KindExact, KindTolerant:
		if o.Word == "" {
			return fmt.Errorf("%w: empty word", pkgerrors.ErrMalformedOperand)
		}
		if o.Kind == KindTolerant && o.MaxDistance < 1 {
			return fmt.Errorf("%w: tolerant with distance %d", pkgerrors.ErrMalformedOperand, o.MaxDistance)
		}
	default:
		return fmt.Errorf("%w: unknown kind %d", pkgerrors.ErrMalformedOperand, o.Kind)
	}
	return nil
}

// String renders the operand for the diagnostic tree trace.
func (o Operand) String() string {
	prefix := ""
	if o.Prefix {
		prefix = "Prefix"
	}
	switch o.Kind {
	case KindExact:
		return fmt.Sprintf("%sExact{word:%q, range:%s}", prefix, o.Word, o.Range)
	case KindTolerant:
		return fmt.Sprintf("%sTolerant%d{word:%q, range:%s}", prefix, o.MaxDistance, o.Word, o.Range)
	case KindPhrase:
		return fmt.Sprintf("Phrase{words:%q, range:%s}", o.Words, o.Range)
	default:
		return "Unknown{}"
	}
}
