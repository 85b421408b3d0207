package layout

import (
	"fmt"
	"testing"

	"github.com/flowmap/flowmap/pkg/errors"
	"github.com/flowmap/flowmap/pkg/flow"
)

// packDiagram lays out the diagram with default options and returns the
// result, failing the test on a hard error.
func packDiagram(t *testing.T, d *flow.Diagram) *Result {
	t.Helper()
	res, err := Layout(d, Default())
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	return res
}

func TestPackFiveChildrenTwoPerRow(t *testing.T) {
	d := flow.New()
	d.AddNode(flow.Node{ID: "box", Kind: flow.KindStep, Expanded: true})
	for i := 1; i <= 5; i++ {
		d.AddNode(flow.Node{ID: fmt.Sprintf("c%d", i), Kind: flow.KindStep, ParentID: "box"})
	}

	res := packDiagram(t, d)
	box, _ := res.Node("box")

	// BaseContainerWidth 520 fits two 220-wide cards with a 12 gap, so five
	// children pack as rows of 2, 2, 1.
	opts := Default()
	wantHeight := 64 + 3*ChildCardHeight + 2*opts.GridSpacing + 2*opts.ContainerPadding
	if box.Height != wantHeight {
		t.Errorf("container height = %v, want %v", box.Height, wantHeight)
	}

	c1, _ := res.Node("c1")
	c2, _ := res.Node("c2")
	c3, _ := res.Node("c3")
	c5, _ := res.Node("c5")

	if c1.Y != c2.Y {
		t.Errorf("row 1 misaligned: c1.Y = %v, c2.Y = %v", c1.Y, c2.Y)
	}
	if c3.Y <= c1.Y {
		t.Errorf("row 2 not below row 1: c3.Y = %v, c1.Y = %v", c3.Y, c1.Y)
	}

	// The last row holds a single card, centered in the container.
	if c5.CenterX() != box.CenterX() {
		t.Errorf("last child center = %v, want container center %v", c5.CenterX(), box.CenterX())
	}
	if got := box.Y + box.HeaderHeight; c1.Y < got {
		t.Errorf("child drawn into header: c1.Y = %v, header ends at %v", c1.Y, got)
	}
}

func TestPackContainerChildForcesFullWidthRow(t *testing.T) {
	// Container x holds a nested container y (2 children) between two
	// ordinary siblings. y must take a full-width row wherever it appears.
	orders := [][]string{
		{"y", "a", "b"},
		{"a", "y", "b"},
		{"a", "b", "y"},
	}

	for _, order := range orders {
		t.Run(fmt.Sprintf("%v", order), func(t *testing.T) {
			d := flow.New()
			d.AddNode(flow.Node{ID: "x", Kind: flow.KindStep, Expanded: true, ChildIDs: order})
			for _, id := range order {
				if id == "y" {
					d.AddNode(flow.Node{ID: "y", Kind: flow.KindLoop, Expanded: true, ParentID: "x"})
					continue
				}
				d.AddNode(flow.Node{ID: id, Kind: flow.KindStep, ParentID: "x"})
			}
			d.AddNode(flow.Node{ID: "y1", Kind: flow.KindStep, ParentID: "y"})
			d.AddNode(flow.Node{ID: "y2", Kind: flow.KindStep, ParentID: "y"})

			res := packDiagram(t, d)
			x, _ := res.Node("x")
			y, _ := res.Node("y")

			opts := Default()
			wantWidth := x.Width - 2*opts.ContainerPadding
			if y.Width != wantWidth {
				t.Errorf("nested container width = %v, want parent inner width %v exactly", y.Width, wantWidth)
			}
			if y.X != x.X+opts.ContainerPadding {
				t.Errorf("nested container x = %v, want %v", y.X, x.X+opts.ContainerPadding)
			}

			// The parent's height includes y's recursively computed height.
			yInnerRows := 64 + opts.ContainerPadding + ChildCardHeight + opts.ContainerPadding
			if y.Height != yInnerRows {
				t.Errorf("nested height = %v, want %v", y.Height, yInnerRows)
			}
			if x.Height <= y.Height {
				t.Errorf("parent height %v does not contain nested height %v", x.Height, y.Height)
			}
		})
	}
}

func TestPackZeroResolvableChildren(t *testing.T) {
	d := flow.New()
	d.AddNode(flow.Node{ID: "box", Kind: flow.KindStep, Expanded: true, ChildIDs: []string{"ghost"}})

	res := packDiagram(t, d)
	box, _ := res.Node("box")

	opts := Default()
	want := 64 + 2*opts.ContainerPadding
	if box.Height != want {
		t.Errorf("empty container height = %v, want header + fixed padding = %v", box.Height, want)
	}
}

func TestPackContainmentCycle(t *testing.T) {
	d := flow.New()
	d.AddNode(flow.Node{ID: "a", Kind: flow.KindStep, Expanded: true, ChildIDs: []string{"b"}})
	d.AddNode(flow.Node{ID: "b", Kind: flow.KindStep, Expanded: true, ChildIDs: []string{"a"}})

	// Must terminate and surface a structural error, not loop forever.
	res := packDiagram(t, d)

	var found bool
	for _, diag := range res.Diagnostics {
		if diag.Code == errors.ErrCodeContainmentCycle && diag.Severity == SeverityError {
			found = true
		}
	}
	if !found {
		t.Error("no CONTAINMENT_CYCLE diagnostic surfaced")
	}

	// Every node still gets geometry.
	for _, id := range []string{"a", "b"} {
		n, ok := res.Node(id)
		if !ok {
			t.Fatalf("node %s missing from result", id)
		}
		if n.Width <= 0 || n.Height <= 0 {
			t.Errorf("node %s has degenerate size %vx%v", id, n.Width, n.Height)
		}
	}
}

func TestPackCollapsedContainer(t *testing.T) {
	d := flow.New()
	d.AddNode(flow.Node{ID: "box", Kind: flow.KindStep, ChildIDs: []string{"c1"}})
	d.AddNode(flow.Node{ID: "c1", Kind: flow.KindStep, ParentID: "box"})

	res := packDiagram(t, d)
	box, _ := res.Node("box")

	if box.Height != 48 {
		t.Errorf("collapsed container height = %v, want minimal fixed 48", box.Height)
	}
	// Hidden children still carry geometry so the output contract holds.
	if _, ok := res.Node("c1"); !ok {
		t.Error("hidden child missing from result")
	}
}

func TestPackSizingLaw(t *testing.T) {
	// height >= header + sum(row heights) + (rows-1)*rowSpacing + 2*padding
	// for a mixed container: 2 leaf rows around a nested container row.
	d := flow.New()
	d.AddNode(flow.Node{ID: "x", Kind: flow.KindStep, Expanded: true, HasIntent: true})
	d.AddNode(flow.Node{ID: "a", Kind: flow.KindStep, ParentID: "x"})
	d.AddNode(flow.Node{ID: "y", Kind: flow.KindLoop, Expanded: true, ParentID: "x"})
	d.AddNode(flow.Node{ID: "y1", Kind: flow.KindStep, ParentID: "y"})
	d.AddNode(flow.Node{ID: "b", Kind: flow.KindStep, ParentID: "x"})

	res := packDiagram(t, d)
	x, _ := res.Node("x")
	y, _ := res.Node("y")

	opts := Default()
	header := 92.0 // expanded base + intent
	rows := ChildCardHeight + y.Height + ChildCardHeight
	min := header + rows + 2*opts.GridSpacing + 2*opts.ContainerPadding
	if x.Height < min {
		t.Errorf("container height = %v, want >= %v", x.Height, min)
	}
}
