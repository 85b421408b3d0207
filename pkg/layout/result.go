package layout

import "github.com/flowmap/flowmap/pkg/flow"

// Side is one of the four cardinal attachment sides of a node's rectangle
// where an edge connects.
type Side int

const (
	SideTop Side = iota
	SideBottom
	SideLeft
	SideRight
)

var sideNames = map[Side]string{
	SideTop:    "top",
	SideBottom: "bottom",
	SideLeft:   "left",
	SideRight:  "right",
}

// String returns the wire name of the side ("top", "bottom", ...).
func (s Side) String() string { return sideNames[s] }

// Opposite returns the facing side.
func (s Side) Opposite() Side {
	switch s {
	case SideTop:
		return SideBottom
	case SideBottom:
		return SideTop
	case SideLeft:
		return SideRight
	default:
		return SideLeft
	}
}

// Point is a 2D coordinate in user units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Path is the cubic curve an edge follows from its source port to its target
// port, plus the anchor where the edge label should be drawn. Dashed is a
// rendering hint carried through for containment edges; it has no geometric
// meaning.
type Path struct {
	Start    Point `json:"start"`
	Control1 Point `json:"c1"`
	Control2 Point `json:"c2"`
	End      Point `json:"end"`

	LabelAnchor Point `json:"label_anchor"`
	Dashed      bool  `json:"dashed,omitempty"`
}

// Placed is a node with its computed geometry. Coordinates are absolute:
// children are already offset by their ancestors, so a renderer draws every
// rectangle directly without walking the containment tree.
type Placed struct {
	ID       string    `json:"id"`
	Kind     flow.Kind `json:"kind"`
	Label    string    `json:"label,omitempty"`
	ParentID string    `json:"parent_id,omitempty"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// HeaderHeight is the chrome band at the top of the node; child content
	// starts below it.
	HeaderHeight float64 `json:"header_height"`

	// Rank is the layer index for top-level nodes, -1 for nested nodes.
	Rank int `json:"rank"`

	// Order is the position within the rank for top-level nodes, or the
	// child index within the parent for nested nodes.
	Order int `json:"order"`

	// Expanded mirrors the input state so renderers can elide hidden children.
	Expanded bool `json:"expanded,omitempty"`
}

// Right returns the maximum X coordinate of the node rectangle.
func (p Placed) Right() float64 { return p.X + p.Width }

// Bottom returns the maximum Y coordinate of the node rectangle.
func (p Placed) Bottom() float64 { return p.Y + p.Height }

// CenterX returns the horizontal center of the node rectangle.
func (p Placed) CenterX() float64 { return p.X + p.Width/2 }

// CenterY returns the vertical center of the node rectangle.
func (p Placed) CenterY() float64 { return p.Y + p.Height/2 }

// PortPoint returns the midpoint of the given side of the rectangle.
func (p Placed) PortPoint(s Side) Point {
	switch s {
	case SideTop:
		return Point{X: p.CenterX(), Y: p.Y}
	case SideBottom:
		return Point{X: p.CenterX(), Y: p.Bottom()}
	case SideLeft:
		return Point{X: p.X, Y: p.CenterY()}
	default:
		return Point{X: p.Right(), Y: p.CenterY()}
	}
}

// Routed is an edge with its chosen ports and computed path.
type Routed struct {
	ID     string        `json:"id"`
	Source string        `json:"source"`
	Target string        `json:"target"`
	Kind   flow.EdgeKind `json:"kind"`
	Label  string        `json:"label,omitempty"`

	SourcePort Side `json:"source_port"`
	TargetPort Side `json:"target_port"`
	Path       Path `json:"path"`
}

// Result is the positioned diagram handed to a renderer. The renderer
// performs no further layout math: it draws rectangles at the node
// coordinates and curves along the edge paths.
//
// Nodes appear in the diagram's insertion order and edges in declaration
// order (minus dropped edges), so identical inputs produce bit-identical
// results.
type Result struct {
	Nodes []Placed `json:"nodes"`
	Edges []Routed `json:"edges"`

	// Width and Height are the bounding box of all placed nodes.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Diagnostics lists every fault the engine recovered from during the
	// run, in detection order.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`

	nodeIndex map[string]int
}

// Node returns the placed node with the given ID and true, or a zero Placed
// and false.
func (r *Result) Node(id string) (Placed, bool) {
	if r.nodeIndex == nil {
		r.nodeIndex = make(map[string]int, len(r.Nodes))
		for i, n := range r.Nodes {
			r.nodeIndex[n.ID] = i
		}
	}
	i, ok := r.nodeIndex[id]
	if !ok {
		return Placed{}, false
	}
	return r.Nodes[i], true
}

// HasErrors reports whether any diagnostic is of SeverityError.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
