package layout

import (
	"testing"

	"github.com/flowmap/flowmap/pkg/errors"
	"github.com/flowmap/flowmap/pkg/flow"
)

func chain(t *testing.T, ids ...string) *flow.Diagram {
	t.Helper()
	d := flow.New()
	for _, id := range ids {
		if err := d.AddNode(flow.Node{ID: id, Kind: flow.KindStep}); err != nil {
			t.Fatalf("AddNode %s: %v", id, err)
		}
	}
	for i := 0; i+1 < len(ids); i++ {
		e := flow.Edge{ID: "e" + ids[i] + ids[i+1], Source: ids[i], Target: ids[i+1]}
		if err := d.AddEdge(e); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}
	return d
}

func TestRankChain(t *testing.T) {
	res := packDiagram(t, chain(t, "A", "B", "C"))

	wantRanks := map[string]int{"A": 0, "B": 1, "C": 2}
	for id, want := range wantRanks {
		n, ok := res.Node(id)
		if !ok {
			t.Fatalf("node %s missing", id)
		}
		if n.Rank != want {
			t.Errorf("rank(%s) = %d, want %d", id, n.Rank, want)
		}
	}

	// Position along the rank axis strictly increases.
	a, _ := res.Node("A")
	b, _ := res.Node("B")
	c, _ := res.Node("C")
	if !(a.Y < b.Y && b.Y < c.Y) {
		t.Errorf("rank axis not increasing: %v, %v, %v", a.Y, b.Y, c.Y)
	}

	// All edges use the natural flow ports.
	for _, e := range res.Edges {
		if e.SourcePort != SideBottom || e.TargetPort != SideTop {
			t.Errorf("edge %s ports = %v→%v, want bottom→top", e.ID, e.SourcePort, e.TargetPort)
		}
	}
}

func TestRankLongestPath(t *testing.T) {
	// Diamond with a shortcut: D must sit below the longest path.
	d := flow.New()
	for _, id := range []string{"A", "B", "C", "D"} {
		d.AddNode(flow.Node{ID: id, Kind: flow.KindStep})
	}
	d.AddEdge(flow.Edge{ID: "e1", Source: "A", Target: "B"})
	d.AddEdge(flow.Edge{ID: "e2", Source: "B", Target: "C"})
	d.AddEdge(flow.Edge{ID: "e3", Source: "A", Target: "D"})
	d.AddEdge(flow.Edge{ID: "e4", Source: "C", Target: "D"})

	res := packDiagram(t, d)
	want := map[string]int{"A": 0, "B": 1, "C": 2, "D": 3}
	for id, w := range want {
		n, _ := res.Node(id)
		if n.Rank != w {
			t.Errorf("rank(%s) = %d, want %d", id, n.Rank, w)
		}
	}
}

func TestDirectionSymmetry(t *testing.T) {
	d := flow.New()
	for _, id := range []string{"A", "B", "C", "D"} {
		d.AddNode(flow.Node{ID: id, Kind: flow.KindStep})
	}
	d.AddEdge(flow.Edge{ID: "e1", Source: "A", Target: "B"})
	d.AddEdge(flow.Edge{ID: "e2", Source: "A", Target: "C"})
	d.AddEdge(flow.Edge{ID: "e3", Source: "B", Target: "D"})

	optsTB := Default()
	optsLR := Default()
	optsLR.Direction = DirectionLR

	tb, err := Layout(d, optsTB)
	if err != nil {
		t.Fatalf("Layout TB: %v", err)
	}
	lr, err := Layout(d, optsLR)
	if err != nil {
		t.Fatalf("Layout LR: %v", err)
	}

	// Same rank and order assignment, axes swapped.
	for _, n := range tb.Nodes {
		m, ok := lr.Node(n.ID)
		if !ok {
			t.Fatalf("node %s missing from LR layout", n.ID)
		}
		if m.Rank != n.Rank || m.Order != n.Order {
			t.Errorf("%s: LR rank/order = %d/%d, want %d/%d", n.ID, m.Rank, m.Order, n.Rank, n.Order)
		}
	}

	// Under TB ranks advance in Y; under LR the same ranks advance in X.
	aTB, _ := tb.Node("A")
	bTB, _ := tb.Node("B")
	aLR, _ := lr.Node("A")
	bLR, _ := lr.Node("B")
	if !(aTB.Y < bTB.Y) {
		t.Error("TB ranks do not advance along Y")
	}
	if !(aLR.X < bLR.X) {
		t.Error("LR ranks do not advance along X")
	}
	if aLR.Y > bLR.Y && aTB.X <= bTB.X {
		t.Error("sibling axis did not transpose")
	}
}

func TestTopLevelCycleBreaks(t *testing.T) {
	d := flow.New()
	d.AddNode(flow.Node{ID: "b", Kind: flow.KindStep})
	d.AddNode(flow.Node{ID: "a", Kind: flow.KindStep})
	d.AddEdge(flow.Edge{ID: "e1", Source: "a", Target: "b"})
	d.AddEdge(flow.Edge{ID: "e2", Source: "b", Target: "a"})

	res := packDiagram(t, d)

	var warned bool
	for _, diag := range res.Diagnostics {
		if diag.Code == errors.ErrCodeTopLevelCycle {
			warned = true
			if diag.NodeID != "a" {
				t.Errorf("artificial root = %q, want lowest id \"a\"", diag.NodeID)
			}
		}
	}
	if !warned {
		t.Error("no TOP_LEVEL_CYCLE diagnostic surfaced")
	}

	a, _ := res.Node("a")
	b, _ := res.Node("b")
	if a.Rank != 0 || b.Rank != 1 {
		t.Errorf("ranks = a:%d b:%d, want a:0 b:1", a.Rank, b.Rank)
	}
}

func TestContainerSizeFeedsRankSpacing(t *testing.T) {
	// A tall expanded container in rank 0 must push rank 1 down by its full
	// packed height, not by a leaf-sized estimate.
	d := flow.New()
	d.AddNode(flow.Node{ID: "box", Kind: flow.KindStep, Expanded: true})
	d.AddNode(flow.Node{ID: "c1", Kind: flow.KindStep, ParentID: "box"})
	d.AddNode(flow.Node{ID: "c2", Kind: flow.KindStep, ParentID: "box"})
	d.AddNode(flow.Node{ID: "c3", Kind: flow.KindStep, ParentID: "box"})
	d.AddNode(flow.Node{ID: "next", Kind: flow.KindStep})
	d.AddEdge(flow.Edge{ID: "e1", Source: "box", Target: "next"})

	res := packDiagram(t, d)
	box, _ := res.Node("box")
	next, _ := res.Node("next")

	if next.Y < box.Bottom()+Default().RankSpacing {
		t.Errorf("next.Y = %v, want >= container bottom %v + rank spacing", next.Y, box.Bottom())
	}
}
