package layout

import (
	"math"
	"testing"

	"github.com/flowmap/flowmap/pkg/flow"
)

func TestRoutePathEndpoints(t *testing.T) {
	src := rect("a", 0, 0, 100, 60)
	tgt := rect("b", 0, 200, 100, 60)
	e := Routed{ID: "e1", Source: "a", Target: "b", Kind: flow.EdgeSequential,
		SourcePort: SideBottom, TargetPort: SideTop}

	p := routePath(e, src, tgt)

	if p.Start != src.PortPoint(SideBottom) {
		t.Errorf("start = %v, want source port %v", p.Start, src.PortPoint(SideBottom))
	}
	if p.End != tgt.PortPoint(SideTop) {
		t.Errorf("end = %v, want target port %v", p.End, tgt.PortPoint(SideTop))
	}
	if p.Dashed {
		t.Error("sequential edge marked dashed")
	}

	// Control points extend along the outward normals.
	if p.Control1.Y <= p.Start.Y {
		t.Errorf("control1 does not extend below the bottom port: %v", p.Control1)
	}
	if p.Control2.Y >= p.End.Y {
		t.Errorf("control2 does not extend above the top port: %v", p.Control2)
	}
}

func TestCurvatureBySemantics(t *testing.T) {
	seq := curvature(flow.EdgeSequential)
	branchT := curvature(flow.EdgeBranchTrue)
	branchF := curvature(flow.EdgeBranchFalse)
	cont := curvature(flow.EdgeContainment)

	if branchT != branchF {
		t.Errorf("branch curvatures differ: %v vs %v", branchT, branchF)
	}
	if !(cont < seq && seq < branchT) {
		t.Errorf("curvature order violated: containment %v, sequential %v, branch %v", cont, seq, branchT)
	}
}

func TestBranchBowsHarderThanSequential(t *testing.T) {
	src := rect("a", 0, 0, 100, 60)
	tgt := rect("b", 0, 200, 100, 60)
	base := Routed{Source: "a", Target: "b", SourcePort: SideBottom, TargetPort: SideTop}

	seq := base
	seq.Kind = flow.EdgeSequential
	branch := base
	branch.Kind = flow.EdgeBranchTrue

	ps := routePath(seq, src, tgt)
	pb := routePath(branch, src, tgt)

	if reach := pb.Control1.Y - pb.Start.Y; reach <= ps.Control1.Y-ps.Start.Y {
		t.Errorf("branch control reach %v not larger than sequential %v", reach, ps.Control1.Y-ps.Start.Y)
	}
}

func TestContainmentPathDashed(t *testing.T) {
	src := rect("box", 0, 0, 520, 300)
	tgt := rect("child", 16, 80, 220, 88)
	e := Routed{Kind: flow.EdgeContainment, SourcePort: SideLeft, TargetPort: SideRight}

	if p := routePath(e, src, tgt); !p.Dashed {
		t.Error("containment path not dashed")
	}
}

func TestLabelAnchorOffPath(t *testing.T) {
	src := rect("a", 0, 0, 100, 60)
	tgt := rect("b", 0, 200, 100, 60)
	e := Routed{Kind: flow.EdgeSequential, SourcePort: SideBottom, TargetPort: SideTop}

	p := routePath(e, src, tgt)
	mid := bezierAt(p, 0.5)

	d := math.Hypot(p.LabelAnchor.X-mid.X, p.LabelAnchor.Y-mid.Y)
	if math.Abs(d-labelOffset) > 1e-9 {
		t.Errorf("label anchor distance from midpoint = %v, want %v", d, labelOffset)
	}
}

func TestBezierEndpoints(t *testing.T) {
	p := Path{
		Start:    Point{X: 1, Y: 2},
		Control1: Point{X: 5, Y: 9},
		Control2: Point{X: 11, Y: -3},
		End:      Point{X: 20, Y: 7},
	}
	if got := bezierAt(p, 0); got != p.Start {
		t.Errorf("bezierAt(0) = %v, want %v", got, p.Start)
	}
	if got := bezierAt(p, 1); got != p.End {
		t.Errorf("bezierAt(1) = %v, want %v", got, p.End)
	}
}
