package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/tokenizer"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/config"
	pkgerrors "github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/errors"
)

// Vocabulary answers term-frequency questions about the indexed corpus. The
// planner uses it to confirm word concatenations and to find the best
// compound split of a single word.
type Vocabulary interface {
	DocFreq(ctx context.Context, term string) int
}

// SynonymSource supplies candidate replacement texts for a word span.
type SynonymSource interface {
	Synonyms(ctx context.Context, span []string) ([][]string, error)
}

// Planner generates operand alternatives for a word sequence and assembles
// them into a query tree. Given identical words, vocabulary, and synonym
// responses it always produces the same tree.
type Planner struct {
	vocab    Vocabulary
	synonyms SynonymSource
	cfg      config.QueryConfig
	logger   *slog.Logger
}

// NewPlanner creates a Planner. vocab and synonyms may be nil, in which case
// concatenation/split and synonym alternatives are not generated.
func NewPlanner(vocab Vocabulary, synonyms SynonymSource, cfg config.QueryConfig) *Planner {
	return &Planner{
		vocab:    vocab,
		synonyms: synonyms,
		cfg:      cfg,
		logger:   slog.Default().With("component", "query-planner"),
	}
}

// Alternatives returns, for every covered WordRange, the operand
// interpretations of that span: exact and tolerant single words, compound
// splits, confirmed concatenations, prefix variants at the final position,
// and synonyms. Single-word ranges always have at least the exact operand.
func (p *Planner) Alternatives(ctx context.Context, words []tokenizer.Word) (map[WordRange][]Operand, error) {
	n := len(words)
	alts := make(map[WordRange][]Operand, n)

	for i, w := range words {
		rng := WordRange{Start: i, End: i + 1}
		last := i == n-1

		group := []Operand{Exact(w.Text, last, rng)}
		if d := p.cfg.TypoAllowance(len([]rune(w.Text))); d > 0 {
			group = append(group, Tolerant(w.Text, d, last, rng))
		}
		if left, right, ok := p.bestSplit(ctx, w.Text); ok {
			group = append(group, Phrase([]string{left, right}, rng))
		}
		syns, err := p.lookupSynonyms(ctx, []string{w.Text})
		if err != nil {
			return nil, err
		}
		for _, syn := range syns {
			group = append(group, synonymOperand(syn, rng))
		}
		alts[rng] = group
	}

	for size := 2; size <= p.cfg.MaxNgram; size++ {
		for i := 0; i+size <= n; i++ {
			rng := WordRange{Start: i, End: i + size}
			last := i+size == n
			span := tokenizer.Texts(words[i : i+size])

			var group []Operand
			concat := strings.Join(span, "")
			if p.vocab != nil && p.vocab.DocFreq(ctx, concat) > 0 {
				group = append(group, Exact(concat, last, rng))
				if d := p.cfg.TypoAllowance(len([]rune(concat))); d > 0 {
					group = append(group, Tolerant(concat, d, last, rng))
				}
			}
			syns, err := p.lookupSynonyms(ctx, span)
			if err != nil {
				return nil, err
			}
			for _, syn := range syns {
				group = append(group, synonymOperand(syn, rng))
			}
			if len(group) > 0 {
				alts[rng] = group
			}
		}
	}

	return alts, nil
}

// Build assembles the alternatives into a tree: one OR node per word
// position listing every alternative starting there, chained under a root
// AND. Zero words yield an empty AND (matches nothing); one word yields the
// bare OR node.
func (p *Planner) Build(ctx context.Context, words []tokenizer.Word) (Node, error) {
	n := len(words)
	if n == 0 {
		return And{}, nil
	}

	alts, err := p.Alternatives(ctx, words)
	if err != nil {
		return nil, err
	}

	maxSpan := p.cfg.MaxNgram
	if maxSpan < 1 {
		maxSpan = 1
	}

	ors := make([]Node, 0, n)
	for i := 0; i < n; i++ {
		var children []Node
		for size := 1; size <= maxSpan && i+size <= n; size++ {
			for _, op := range alts[WordRange{Start: i, End: i + size}] {
				children = append(children, Leaf{Operand: op})
			}
		}
		ors = append(ors, Or{Children: children})
	}

	var root Node
	if n == 1 {
		root = ors[0]
	} else {
		root = And{Children: ors}
	}

	if err := Validate(root, n); err != nil {
		return nil, err
	}

	p.logger.Debug("query tree built",
		"words", n,
		"leaves", len(Leaves(root)),
	)
	return root, nil
}

// bestSplit finds the cut point of word whose halves both occur in the
// corpus, maximising the smaller of the two document frequencies.
func (p *Planner) bestSplit(ctx context.Context, word string) (string, string, bool) {
	if p.vocab == nil {
		return "", "", false
	}
	runes := []rune(word)
	bestFreq := 0
	var bestLeft, bestRight string
	for cut := 1; cut < len(runes); cut++ {
		left, right := string(runes[:cut]), string(runes[cut:])
		leftFreq := p.vocab.DocFreq(ctx, left)
		if leftFreq == 0 {
			continue
		}
		rightFreq := p.vocab.DocFreq(ctx, right)
		if rightFreq == 0 {
			continue
		}
		minFreq := min(leftFreq, rightFreq)
		if minFreq > bestFreq {
			bestFreq = minFreq
			bestLeft, bestRight = left, right
		}
	}
	return bestLeft, bestRight, bestFreq > 0
}

func (p *Planner) lookupSynonyms(ctx context.Context, span []string) ([][]string, error) {
	if p.synonyms == nil {
		return nil, nil
	}
	syns, err := p.synonyms.Synonyms(ctx, span)
	if err != nil {
		return nil, fmt.Errorf("%w: span %v: %v", pkgerrors.ErrSynonymLookup, span, err)
	}
	filtered := make([][]string, 0, len(syns))
	for _, syn := range syns {
		if len(syn) > 0 {
			filtered = append(filtered, syn)
		}
	}
	return filtered, nil
}

// synonymOperand maps a replacement text onto the span it substitutes: a
// single word becomes an exact match, a multi-word replacement a phrase.
func synonymOperand(replacement []string, rng WordRange) Operand {
	if len(replacement) == 1 {
		return Exact(replacement[0], false, rng)
	}
	return Phrase(replacement, rng)
}
