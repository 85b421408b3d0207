package dot

import (
	"strings"
	"testing"

	"github.com/flowmap/flowmap/pkg/flow"
	"github.com/flowmap/flowmap/pkg/layout"
)

func fixture(t *testing.T) *layout.Result {
	t.Helper()
	d := flow.New()
	d.AddNode(flow.Node{ID: "start", Kind: flow.KindTrigger})
	d.AddNode(flow.Node{ID: "work", Kind: flow.KindStep, Expanded: true, Label: "Work"})
	d.AddNode(flow.Node{ID: "w1", Kind: flow.KindStep, ParentID: "work"})
	d.AddNode(flow.Node{ID: "closed", Kind: flow.KindStep, ChildIDs: []string{"hidden"}})
	d.AddNode(flow.Node{ID: "hidden", Kind: flow.KindStep, ParentID: "closed"})
	d.AddNode(flow.Node{ID: "check", Kind: flow.KindDecision})
	d.AddNode(flow.Node{ID: "done", Kind: flow.KindEnd})
	d.AddEdge(flow.Edge{ID: "e1", Source: "start", Target: "work"})
	d.AddEdge(flow.Edge{ID: "e2", Source: "work", Target: "check"})
	d.AddEdge(flow.Edge{ID: "e3", Source: "check", Target: "done", Kind: flow.EdgeBranchTrue, Label: "yes"})

	res, err := layout.Layout(d, layout.Default())
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	return res
}

func TestToDOT(t *testing.T) {
	out := ToDOT(fixture(t), Options{Direction: layout.DirectionTB})

	for _, want := range []string{
		"digraph flowmap {",
		"rankdir=TB;",
		`subgraph "cluster_work" {`,
		`label="Work";`,
		`"w1"`,
		`"start" -> "work";`,
		`"check" -> "done" [label="yes", color=darkgreen];`,
		"shape=diamond",
		"shape=ellipse",
		"peripheries=2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q:\n%s", want, out)
		}
	}
}

func TestToDOTCollapsedContainer(t *testing.T) {
	out := ToDOT(fixture(t), Options{})

	if strings.Contains(out, `subgraph "cluster_closed"`) {
		t.Error("collapsed container rendered as cluster")
	}
	if strings.Contains(out, `"hidden"`) {
		t.Error("hidden child rendered")
	}
	if !strings.Contains(out, `"closed"`) {
		t.Error("collapsed container missing entirely")
	}
	if !strings.Contains(out, "dashed") {
		t.Error("collapsed container lacks the dashed hint")
	}
}

func TestToDOTDetailed(t *testing.T) {
	out := ToDOT(fixture(t), Options{Detailed: true})
	if !strings.Contains(out, "@ (") {
		t.Error("detailed labels missing geometry")
	}
}

func TestToDOTDefaultsDirection(t *testing.T) {
	out := ToDOT(fixture(t), Options{})
	if !strings.Contains(out, "rankdir=TB;") {
		t.Error("empty direction did not default to TB")
	}
	out = ToDOT(fixture(t), Options{Direction: layout.DirectionLR})
	if !strings.Contains(out, "rankdir=LR;") {
		t.Error("LR direction not emitted")
	}
}
