package diagram

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/flowmap/flowmap/pkg/flow"
)

// ReadJSON decodes a JSON process diagram from r.
//
// The input must be a JSON object with "nodes" and "edges" arrays:
//
//	{
//	  "nodes": [{"id": "a", "kind": "step"}, {"id": "b", "kind": "end"}],
//	  "edges": [{"id": "e1", "source": "a", "target": "b"}]
//	}
//
// Each node must have an "id" field. Optional fields:
//   - kind: "step", "decision", "loop", "trigger" or "end" (defaults to step)
//   - label, parent, children, expanded, has_intent, has_context
//   - min_width, min_height: advisory size minimums
//   - loop: {iterator, exit_condition} for loop nodes
//   - decision: {condition} for decision nodes
//
// Each edge must have "id", "source" and "target" fields. Dangling endpoints
// are accepted here; the layout engine reports them as diagnostics.
//
// ReadJSON returns an error if the JSON is malformed, a kind name is unknown,
// or a node or edge ID is empty or duplicated. Errors are wrapped with the
// offending node or edge ID. The returned diagram is independent of r.
func ReadJSON(r io.Reader) (*flow.Diagram, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return doc.toFlow()
}

// ReadYAML decodes a YAML process diagram from r. The schema matches
// [ReadJSON] with YAML syntax.
func ReadYAML(r io.Reader) (*flow.Diagram, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return doc.toFlow()
}

// Import reads a diagram file at path, picking the decoder from the file
// extension: .yaml and .yml use [ReadYAML], everything else [ReadJSON].
func Import(path string) (*flow.Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ReadYAML(f)
	default:
		return ReadJSON(f)
	}
}

func (doc document) toFlow() (*flow.Diagram, error) {
	d := flow.New()
	for _, n := range doc.Nodes {
		nd := flow.Node{
			ID:         n.ID,
			Label:      n.Label,
			ParentID:   n.Parent,
			ChildIDs:   n.Children,
			Expanded:   n.Expanded,
			HasIntent:  n.HasIntent,
			HasContext: n.HasContext,
			MinWidth:   n.MinWidth,
			MinHeight:  n.MinHeight,
		}
		if n.Kind != "" {
			k, ok := flow.ParseKind(n.Kind)
			if !ok {
				return nil, fmt.Errorf("node %s: unknown kind %q", n.ID, n.Kind)
			}
			nd.Kind = k
		}
		if n.Loop != nil {
			nd.Loop = &flow.LoopSpec{Iterator: n.Loop.Iterator, ExitCondition: n.Loop.ExitCondition}
		}
		if n.Decision != nil {
			nd.Decision = &flow.DecisionSpec{Condition: n.Decision.Condition}
		}
		if err := d.AddNode(nd); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range doc.Edges {
		ed := flow.Edge{ID: e.ID, Source: e.Source, Target: e.Target, Label: e.Label}
		if e.Kind != "" {
			k, ok := flow.ParseEdgeKind(e.Kind)
			if !ok {
				return nil, fmt.Errorf("edge %s: unknown kind %q", e.ID, e.Kind)
			}
			ed.Kind = k
		}
		if err := d.AddEdge(ed); err != nil {
			return nil, fmt.Errorf("edge %s: %w", e.ID, err)
		}
	}
	return d, nil
}
