// Package render turns small graphs into Graphviz DOT and rasterized
// images, mainly for eyeballing the effect of a reordering on toy inputs.
package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graphorder/pkg/errors"
	"github.com/matzehuels/graphorder/pkg/graph"
	"github.com/matzehuels/graphorder/pkg/perm"
)

// DefaultMaxNodes caps the graph size accepted for rendering. Layout cost
// grows fast and the output becomes unreadable long before this point.
const DefaultMaxNodes = 1000

// Options configures DOT generation.
type Options struct {
	// Perm, when non-nil, relabels every node as "orig → new" so the
	// reordering is visible in the drawing.
	Perm perm.Permutation

	// MaxNodes overrides DefaultMaxNodes when positive.
	MaxNodes int
}

// ToDOT converts a graph to Graphviz DOT format. The resulting string can
// be rendered with [RenderSVG] or [RenderPNG], or fed to the dot tool.
func ToDOT(g *graph.Graph, opts Options) (string, error) {
	limit := opts.MaxNodes
	if limit <= 0 {
		limit = DefaultMaxNodes
	}
	n := g.NumNodes()
	if n > limit {
		return "", errors.New(errors.ErrCodeResourceExhausted,
			"graph has %d nodes, rendering limit is %d", n, limit)
	}
	if opts.Perm != nil && len(opts.Perm) != n {
		return "", errors.New(errors.ErrCodeInvalidInput,
			"permutation length %d does not match %d nodes", len(opts.Perm), n)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for u := 0; u < n; u++ {
		label := fmt.Sprintf("%d", u)
		if opts.Perm != nil {
			label = fmt.Sprintf("%d → %d", u, opts.Perm[u])
		}
		fmt.Fprintf(&buf, "  n%d [label=%q];\n", u, label)
	}

	buf.WriteString("\n")
	for u := 0; u < n; u++ {
		for _, v := range g.Successors(uint32(u)) {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", u, v)
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
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
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
