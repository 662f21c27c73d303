package query

import (
	"fmt"
	"strings"
)

// Node is a query tree node: a Leaf operand or an And/Or combinator. The
// variant set is closed; the evaluator dispatches on it exhaustively.
type Node interface {
	node()
}

// Leaf wraps a single Operand.
type Leaf struct {
	Operand Operand
}

// And matches documents present in every child's result set. An And with no
// children matches nothing.
type And struct {
	Children []Node
}

// Or matches documents present in at least one child's result set.
type Or struct {
	Children []Node
}

func (Leaf) node() {}
func (And) node()  {}
func (Or) node()   {}

// Leaves returns every operand reachable from n, in construction order.
func Leaves(n Node) []Operand {
	var out []Operand
	walk(n, func(leaf Leaf) {
		out = append(out, leaf.Operand)
	})
	return out
}

func walk(n Node, fn func(Leaf)) {
	switch node := n.(type) {
	case Leaf:
		fn(node)
	case And:
		for _, child := range node.Children {
			walk(child, fn)
		}
	case Or:
		for _, child := range node.Children {
			walk(child, fn)
		}
	}
}

// Validate checks every leaf operand under n against the query word count.
func Validate(n Node, wordCount int) error {
	var firstErr error
	walk(n, func(leaf Leaf) {
		if firstErr == nil {
			firstErr = leaf.Operand.Validate(wordCount)
		}
	})
	return firstErr
}

// Render pretty-prints the tree with two-space indentation per depth, one
// node per line. The format is diagnostic only.
func Render(n Node) string {
	var b strings.Builder
	renderNode(&b, n, 0)
	return b.String()
}

func renderNode(b *strings.Builder, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch node := n.(type) {
	case And:
		fmt.Fprintf(b, "%sAND\n", indent)
		for _, child := range node.Children {
			renderNode(b, child, depth+1)
		}
	case Or:
		fmt.Fprintf(b, "%sOR\n", indent)
		for _, child := range node.Children {
			renderNode(b, child, depth+1)
		}
	case Leaf:
		fmt.Fprintf(b, "%s%s\n", indent, node.Operand)
	}
}
