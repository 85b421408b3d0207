package diagram

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/flowmap/flowmap/pkg/flow"
	"github.com/flowmap/flowmap/pkg/layout"
)

type document struct {
	Nodes []node `json:"nodes" yaml:"nodes"`
	Edges []edge `json:"edges" yaml:"edges"`
}

type node struct {
	ID         string    `json:"id" yaml:"id"`
	Kind       string    `json:"kind,omitempty" yaml:"kind,omitempty"`
	Label      string    `json:"label,omitempty" yaml:"label,omitempty"`
	Parent     string    `json:"parent,omitempty" yaml:"parent,omitempty"`
	Children   []string  `json:"children,omitempty" yaml:"children,omitempty"`
	Expanded   bool      `json:"expanded,omitempty" yaml:"expanded,omitempty"`
	HasIntent  bool      `json:"has_intent,omitempty" yaml:"has_intent,omitempty"`
	HasContext bool      `json:"has_context,omitempty" yaml:"has_context,omitempty"`
	MinWidth   float64   `json:"min_width,omitempty" yaml:"min_width,omitempty"`
	MinHeight  float64   `json:"min_height,omitempty" yaml:"min_height,omitempty"`
	Loop       *loopSpec `json:"loop,omitempty" yaml:"loop,omitempty"`
	Decision   *decision `json:"decision,omitempty" yaml:"decision,omitempty"`
}

type loopSpec struct {
	Iterator      string `json:"iterator,omitempty" yaml:"iterator,omitempty"`
	ExitCondition string `json:"exit_condition,omitempty" yaml:"exit_condition,omitempty"`
}

type decision struct {
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`
}

type edge struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Kind   string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
}

// WriteJSON encodes a diagram as JSON and writes it to w.
// The output can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(d *flow.Diagram, w io.Writer) error {
	out := fromFlow(d)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Export writes a diagram to a JSON file at path.
func Export(d *flow.Diagram, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(d, f)
}

func fromFlow(d *flow.Diagram) document {
	nodes := d.Nodes()
	out := document{Nodes: make([]node, len(nodes)), Edges: make([]edge, d.EdgeCount())}

	for i, n := range nodes {
		nd := node{
			ID:         n.ID,
			Kind:       n.Kind.String(),
			Label:      n.Label,
			Parent:     n.ParentID,
			Children:   n.ChildIDs,
			Expanded:   n.Expanded,
			HasIntent:  n.HasIntent,
			HasContext: n.HasContext,
			MinWidth:   n.MinWidth,
			MinHeight:  n.MinHeight,
		}
		if n.Loop != nil {
			nd.Loop = &loopSpec{Iterator: n.Loop.Iterator, ExitCondition: n.Loop.ExitCondition}
		}
		if n.Decision != nil {
			nd.Decision = &decision{Condition: n.Decision.Condition}
		}
		out.Nodes[i] = nd
	}
	for i, e := range d.Edges() {
		out.Edges[i] = edge{ID: e.ID, Source: e.Source, Target: e.Target, Kind: e.Kind.String(), Label: e.Label}
	}
	return out
}

// Geometry export types. layout.Placed and layout.Routed carry JSON tags for
// their coordinates; the wrappers add the semantic kind as its wire name and
// the port sides as strings.
type layoutDoc struct {
	Nodes  []layoutNode `json:"nodes"`
	Edges  []layoutEdge `json:"edges"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`

	Diagnostics []layout.Diagnostic `json:"diagnostics,omitempty"`
}

type layoutNode struct {
	layout.Placed
	Kind string `json:"kind"`
}

type layoutEdge struct {
	layout.Routed
	Kind       string `json:"kind"`
	SourcePort string `json:"source_port"`
	TargetPort string `json:"target_port"`
}

// WriteLayoutJSON encodes a computed layout as JSON and writes it to w.
// The output is a flat geometry document for renderers: absolute rectangles
// per node, cubic paths per edge, and the diagnostics of the run.
func WriteLayoutJSON(res *layout.Result, w io.Writer) error {
	out := layoutDoc{
		Nodes:       make([]layoutNode, len(res.Nodes)),
		Edges:       make([]layoutEdge, len(res.Edges)),
		Width:       res.Width,
		Height:      res.Height,
		Diagnostics: res.Diagnostics,
	}
	for i, n := range res.Nodes {
		out.Nodes[i] = layoutNode{Placed: n, Kind: n.Kind.String()}
	}
	for i, e := range res.Edges {
		out.Edges[i] = layoutEdge{
			Routed:     e,
			Kind:       e.Kind.String(),
			SourcePort: e.SourcePort.String(),
			TargetPort: e.TargetPort.String(),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportLayout writes a computed layout to a JSON file at path.
func ExportLayout(res *layout.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteLayoutJSON(res, f)
}
