// Package export produces structural overviews of a ringmap tree in
// Graphviz DOT format. The export shows parent/child structure only; it is
// a debugging and documentation aid, not a substitute for the radial
// layout.
package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/ringmap/pkg/tree"
)

// Options configures the DOT export.
type Options struct {
	// Detailed includes ring index and importance in node labels.
	// When false, only the node ID is shown.
	Detailed bool

	// MaxRing truncates the export below this ring; 0 means all rings.
	// Full exports of a ~2,500-node tree are legible only as posters.
	MaxRing int
}

// ToDOT converts a tree to Graphviz DOT format. The resulting DOT string
// can be rendered with [RenderSVG].
//
// Rings map to rank levels, so Graphviz draws the hierarchy top-down in
// the same depth order the radial layout uses.
func ToDOT(t *tree.Tree, opts Options) string {
	maxRing := opts.MaxRing
	if maxRing <= 0 {
		maxRing = t.MaxRing() + 1
	}

	var buf bytes.Buffer
	buf.WriteString("digraph ringmap {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, ringIndex := range t.RingIndices() {
		if ringIndex >= maxRing {
			continue
		}
		for _, n := range t.NodesInRing(ringIndex) {
			fmt.Fprintf(&buf, "  %q [label=%q];\n", n.ID, fmtLabel(n, opts.Detailed))
		}
	}

	buf.WriteString("\n")
	for _, ringIndex := range t.RingIndices() {
		if ringIndex >= maxRing {
			continue
		}
		for _, n := range t.NodesInRing(ringIndex) {
			if n.ParentID == "" {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.ParentID, n.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *tree.Node, detailed bool) string {
	if !detailed {
		return n.ID
	}
	parts := []string{
		fmt.Sprintf("ring: %d", n.Ring),
		fmt.Sprintf("importance: %.2f", n.Importance),
	}
	return n.ID + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT export to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
