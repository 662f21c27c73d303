// Package tokenizer turns a raw query string into an ordered sequence of
// lower-cased words with contiguous 0-based positions. Unlike a document
// analyzer it applies no stemming or stop-word removal: the query engine's
// tolerant matching needs the words exactly as the user typed them.
package tokenizer

import (
	"strings"
	"unicode"
)

// Word is a single query token and its position in the query.
type Word struct {
	Position int
	Text     string
}

// Tokenize splits raw into words on non-alphanumeric boundaries. Positions
// are assigned left to right with no gaps.
func Tokenize(raw string) []Word {
	raw = strings.ToLower(raw)
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := make([]Word, 0, len(parts))
	for _, part := range parts {
		words = append(words, Word{
			Position: len(words),
			Text:     part,
		})
	}
	return words
}

// Texts returns just the word texts, in position order.
func Texts(words []Word) []string {
	texts := make([]string, len(words))
	for i, w := range words {
		texts[i] = w.Text
	}
	return texts
}
