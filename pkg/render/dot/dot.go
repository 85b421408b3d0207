// Package dot renders a computed layout to Graphviz DOT and raster formats.
//
// The DOT export maps the containment forest onto cluster subgraphs and the
// node kinds onto Graphviz shapes, which gives a quick visual check of a
// diagram without a dedicated renderer. Precise geometry consumers should use
// the JSON layout export instead; Graphviz re-layouts the graph with its own
// engine.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/flowmap/flowmap/pkg/flow"
	"github.com/flowmap/flowmap/pkg/layout"
)

// Options configures DOT output.
type Options struct {
	// Direction is the rankdir of the graph, "TB" or "LR".
	Direction layout.Direction

	// Detailed appends the computed rectangle of each node to its label.
	Detailed bool
}

var kindShapes = map[flow.Kind]string{
	flow.KindStep:     "box",
	flow.KindDecision: "diamond",
	flow.KindLoop:     "box",
	flow.KindTrigger:  "ellipse",
	flow.KindEnd:      "ellipse",
}

// ToDOT converts a positioned layout to Graphviz DOT. Expanded containers
// become cluster subgraphs with their children nested inside; children of
// collapsed containers are elided, matching what a renderer would draw.
func ToDOT(res *layout.Result, opts Options) string {
	rankdir := string(opts.Direction)
	if rankdir == "" {
		rankdir = string(layout.DirectionTB)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph flowmap {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	children := make(map[string][]layout.Placed)
	expanded := make(map[string]bool)
	for _, n := range res.Nodes {
		children[n.ParentID] = append(children[n.ParentID], n)
		if n.Expanded {
			expanded[n.ID] = true
		}
	}

	for _, n := range children[""] {
		writeNode(&buf, n, children, expanded, opts, 1)
	}

	buf.WriteString("\n")
	for _, e := range res.Edges {
		attrs := edgeAttrs(e)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNode(buf *bytes.Buffer, n layout.Placed, children map[string][]layout.Placed, expanded map[string]bool, opts Options, depth int) {
	indent := strings.Repeat("  ", depth)

	if kids := children[n.ID]; len(kids) > 0 && expanded[n.ID] {
		fmt.Fprintf(buf, "%ssubgraph \"cluster_%s\" {\n", indent, n.ID)
		fmt.Fprintf(buf, "%s  label=%q;\n", indent, label(n, opts))
		fmt.Fprintf(buf, "%s  style=rounded;\n", indent)
		for _, c := range kids {
			writeNode(buf, c, children, expanded, opts, depth+1)
		}
		fmt.Fprintf(buf, "%s}\n", indent)
		return
	}

	attrs := []string{fmt.Sprintf("label=%q", label(n, opts))}
	if shape, ok := kindShapes[n.Kind]; ok && shape != "box" {
		attrs = append(attrs, "shape="+shape)
	}
	if n.Kind == flow.KindEnd {
		attrs = append(attrs, "peripheries=2")
	}
	// Collapsed container: drawn as a leaf with a hint that children exist.
	if len(children[n.ID]) > 0 {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	fmt.Fprintf(buf, "%s%q [%s];\n", indent, n.ID, strings.Join(attrs, ", "))
}

func label(n layout.Placed, opts Options) string {
	l := n.Label
	if l == "" {
		l = n.ID
	}
	if opts.Detailed {
		l = fmt.Sprintf("%s\n%.0fx%.0f @ (%.0f, %.0f)", l, n.Width, n.Height, n.X, n.Y)
	}
	return l
}

func edgeAttrs(e layout.Routed) []string {
	var attrs []string
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	switch e.Kind {
	case flow.EdgeContainment:
		attrs = append(attrs, "style=dashed", "arrowhead=none")
	case flow.EdgeBranchTrue:
		attrs = append(attrs, "color=darkgreen")
	case flow.EdgeBranchFalse:
		attrs = append(attrs, "color=firebrick")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
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
