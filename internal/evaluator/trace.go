package evaluator

import (
	"fmt"
	"strings"
	"time"
)

// NodeTrace records per-node diagnostics collected during evaluation:
// fetched document count and wall-clock duration. It mirrors the tree shape
// and never influences the returned result.
type NodeTrace struct {
	Label    string        `json:"label"`
	Docs     int           `json:"docs"`
	Duration time.Duration `json:"duration"`
	Children []*NodeTrace  `json:"children,omitempty"`
}

// Render pretty-prints the trace tree, one node per line, indented by
// depth. The format is human-readable only and not a stable contract.
func (t *NodeTrace) Render() string {
	var b strings.Builder
	t.render(&b, 0)
	return b.String()
}

func (t *NodeTrace) render(b *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%s%s fetched %d documents in %s\n",
		indent, t.Label, t.Docs, t.Duration.Round(time.Microsecond))
	for _, child := range t.Children {
		child.render(b, depth+1)
	}
}
