package layout

import (
	"math"

	"github.com/flowmap/flowmap/pkg/flow"
)

// Curvature factors by edge semantics. Branch edges bow harder than
// sequential flow so the two outcomes of a decision separate visually;
// containment connectors stay tight to the parent.
const (
	curveSequential  = 0.35
	curveBranch      = 0.6
	curveContainment = 0.2

	// labelOffset is how far the label anchor sits from the path midpoint,
	// perpendicular to the direction of travel.
	labelOffset = 12.0
)

func curvature(k flow.EdgeKind) float64 {
	switch k {
	case flow.EdgeBranchTrue, flow.EdgeBranchFalse:
		return curveBranch
	case flow.EdgeContainment:
		return curveContainment
	default:
		return curveSequential
	}
}

// routePath converts an edge's chosen ports and the endpoint rectangles into
// a cubic curve and a label anchor. The control points extend outward along
// each port's normal, scaled by the endpoint distance and the semantic
// curvature, so a longer edge bows proportionally harder.
func routePath(e Routed, src, tgt Placed) Path {
	start := src.PortPoint(e.SourcePort)
	end := tgt.PortPoint(e.TargetPort)

	dist := math.Hypot(end.X-start.X, end.Y-start.Y)
	reach := dist * curvature(e.Kind)

	sn := sideNormal(e.SourcePort)
	tn := sideNormal(e.TargetPort)

	p := Path{
		Start:    start,
		Control1: Point{X: start.X + sn.X*reach, Y: start.Y + sn.Y*reach},
		Control2: Point{X: end.X + tn.X*reach, Y: end.Y + tn.Y*reach},
		End:      end,
		Dashed:   e.Kind == flow.EdgeContainment,
	}
	p.LabelAnchor = labelAnchor(p)
	return p
}

// sideNormal is the outward unit normal of a port side.
func sideNormal(s Side) Point {
	switch s {
	case SideTop:
		return Point{Y: -1}
	case SideBottom:
		return Point{Y: 1}
	case SideLeft:
		return Point{X: -1}
	default:
		return Point{X: 1}
	}
}

// labelAnchor places the label beside the curve midpoint, offset
// perpendicular to the tangent so the text never sits on the path itself.
func labelAnchor(p Path) Point {
	mid := bezierAt(p, 0.5)
	tx, ty := bezierTangent(p, 0.5)

	length := math.Hypot(tx, ty)
	if length == 0 {
		return Point{X: mid.X, Y: mid.Y - labelOffset}
	}
	// Perpendicular to the left of travel.
	px, py := ty/length, -tx/length
	return Point{X: mid.X + px*labelOffset, Y: mid.Y + py*labelOffset}
}

// bezierAt evaluates the cubic at parameter t.
func bezierAt(p Path, t float64) Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return Point{
		X: a*p.Start.X + b*p.Control1.X + c*p.Control2.X + d*p.End.X,
		Y: a*p.Start.Y + b*p.Control1.Y + c*p.Control2.Y + d*p.End.Y,
	}
}

// bezierTangent evaluates the cubic's derivative at parameter t.
func bezierTangent(p Path, t float64) (float64, float64) {
	u := 1 - t
	a := 3 * u * u
	b := 6 * u * t
	c := 3 * t * t
	dx := a*(p.Control1.X-p.Start.X) + b*(p.Control2.X-p.Control1.X) + c*(p.End.X-p.Control2.X)
	dy := a*(p.Control1.Y-p.Start.Y) + b*(p.Control2.Y-p.Control1.Y) + c*(p.End.Y-p.Control2.Y)
	return dx, dy
}
