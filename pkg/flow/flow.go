package flow

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Diagram.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Diagram.AddNode] when a node with the
	// same ID already exists. Node IDs must be unique across the diagram.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrInvalidEdgeID is returned by [Diagram.AddEdge] when the edge ID is empty.
	ErrInvalidEdgeID = errors.New("edge ID must not be empty")

	// ErrDuplicateEdgeID is returned by [Diagram.AddEdge] when an edge with the
	// same ID already exists.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrUnknownParent is returned by [Diagram.Validate] when a node's ParentID
	// references a node that does not exist.
	ErrUnknownParent = errors.New("unknown parent node")

	// ErrDanglingEdge is returned by [Diagram.Validate] when an edge endpoint
	// references a node that does not exist.
	ErrDanglingEdge = errors.New("edge endpoint references unknown node")

	// ErrContainmentCycle is returned by [Diagram.Validate] when a node is
	// transitively its own ancestor. The containment relation must be a forest.
	ErrContainmentCycle = errors.New("containment relation contains a cycle")
)

// Kind identifies the semantic role of a node in the process graph.
type Kind int

const (
	// KindStep is a plain process step. Steps may own children, in which case
	// they are drawn as containers.
	KindStep Kind = iota
	// KindDecision is a branching point with true/false outcomes.
	KindDecision
	// KindLoop is an iterating container; its children form the loop body.
	KindLoop
	// KindTrigger is an entry point that starts the process.
	KindTrigger
	// KindEnd is a terminator.
	KindEnd
)

var kindNames = map[Kind]string{
	KindStep:     "step",
	KindDecision: "decision",
	KindLoop:     "loop",
	KindTrigger:  "trigger",
	KindEnd:      "end",
}

// String returns the wire name of the kind ("step", "decision", ...).
func (k Kind) String() string { return kindNames[k] }

// ParseKind maps a wire name back to a Kind.
// Unknown names map to KindStep and ok is false.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return KindStep, false
}

// EdgeKind identifies the semantics of a process edge. The layout engine uses
// it to pick curvature and port defaults; renderers use it for styling.
type EdgeKind int

const (
	// EdgeSequential is ordinary step-to-step flow.
	EdgeSequential EdgeKind = iota
	// EdgeBranchTrue is the positive outcome of a decision.
	EdgeBranchTrue
	// EdgeBranchFalse is the negative outcome of a decision.
	EdgeBranchFalse
	// EdgeContainment links a container to one of its direct children.
	EdgeContainment
)

var edgeKindNames = map[EdgeKind]string{
	EdgeSequential:  "sequential",
	EdgeBranchTrue:  "branch-true",
	EdgeBranchFalse: "branch-false",
	EdgeContainment: "containment",
}

// String returns the wire name of the edge kind.
func (k EdgeKind) String() string { return edgeKindNames[k] }

// ParseEdgeKind maps a wire name back to an EdgeKind.
// Unknown names map to EdgeSequential and ok is false.
func ParseEdgeKind(s string) (EdgeKind, bool) {
	for k, name := range edgeKindNames {
		if name == s {
			return k, true
		}
	}
	return EdgeSequential, false
}

// LoopSpec carries the loop-specific fields of a KindLoop node.
// It is nil for every other kind.
type LoopSpec struct {
	Iterator      string // name bound to each iteration item
	ExitCondition string // condition that terminates the loop
}

// DecisionSpec carries the decision-specific fields of a KindDecision node.
// It is nil for every other kind.
type DecisionSpec struct {
	Condition string // the expression the branch outcomes depend on
}

// Node represents a vertex of the process graph. A node with a non-empty
// ChildIDs list is a container and is drawn with its children nested inside
// its own bounds.
//
// The zero value is not usable - ID must be set before adding to a Diagram.
// Width, height and position are owned by the layout engine and are not part
// of the model; see layout.Placed.
type Node struct {
	ID       string // Unique identifier
	Kind     Kind
	Label    string
	ParentID string   // Owning container, empty for top-level nodes
	ChildIDs []string // Ordered direct children, empty for leaves

	// Presentation state that affects header sizing.
	Expanded   bool // containers only; collapsed containers hide children
	HasIntent  bool
	HasContext bool

	// Advisory size minimums supplied by the caller. The engine's computed
	// size is authoritative; these can only widen/heighten the result.
	MinWidth  float64
	MinHeight float64

	// Kind-specific variants. At most one is non-nil, matching Kind.
	Loop     *LoopSpec
	Decision *DecisionSpec
}

// IsContainer reports whether the node owns children.
func (n Node) IsContainer() bool { return len(n.ChildIDs) > 0 }

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge represents a directed process edge between two nodes.
type Edge struct {
	ID     string // Unique identifier, used as a deterministic tie-breaker
	Source string // Source node ID
	Target string // Target node ID
	Kind   EdgeKind
	Label  string
}

// Diagram is the process graph handed to the layout engine: an arena of nodes
// plus the process edges between them. Containment is expressed through
// ParentID/ChildIDs on the nodes and must form a forest.
//
// The zero value is not usable - use New to create a Diagram. Diagram is not
// safe for concurrent mutation; the layout engine only reads it.
type Diagram struct {
	nodes map[string]*Node
	order []string // node insertion order, the stable traversal order
	edges []Edge
}

// New creates an empty Diagram.
func New() *Diagram {
	return &Diagram{nodes: make(map[string]*Node)}
}

// AddNode adds a node to the diagram. Returns ErrInvalidNodeID if the ID is
// empty or ErrDuplicateNodeID if the ID is already taken.
//
// If the node names a ParentID, the parent's ChildIDs is extended to include
// this node unless it is already listed, so callers may populate either side
// of the containment relation.
func (d *Diagram) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := &n
	d.nodes[node.ID] = node
	d.order = append(d.order, node.ID)

	if node.ParentID != "" {
		if parent, ok := d.nodes[node.ParentID]; ok && !slices.Contains(parent.ChildIDs, node.ID) {
			parent.ChildIDs = append(parent.ChildIDs, node.ID)
		}
	}
	for _, child := range node.ChildIDs {
		if c, ok := d.nodes[child]; ok && c.ParentID == "" {
			c.ParentID = node.ID
		}
	}
	return nil
}

// AddEdge adds a directed edge to the diagram. Returns ErrInvalidEdgeID if
// the ID is empty or ErrDuplicateEdgeID if the ID is already taken.
//
// Endpoints are not required to exist at insertion time; Validate reports
// dangling endpoints, and the layout engine drops them defensively with a
// diagnostic rather than failing the whole run.
func (d *Diagram) AddEdge(e Edge) error {
	if e.ID == "" {
		return ErrInvalidEdgeID
	}
	for _, existing := range d.edges {
		if existing.ID == e.ID {
			return ErrDuplicateEdgeID
		}
	}
	d.edges = append(d.edges, e)
	return nil
}

// Node returns the node with the given ID and true, or nil and false.
func (d *Diagram) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order. The returned slice contains
// pointers to the actual node structs.
func (d *Diagram) Nodes() []*Node {
	nodes := make([]*Node, 0, len(d.order))
	for _, id := range d.order {
		nodes = append(nodes, d.nodes[id])
	}
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (d *Diagram) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the diagram.
func (d *Diagram) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the diagram.
func (d *Diagram) EdgeCount() int { return len(d.edges) }

// TopLevel returns the nodes whose ParentID is empty, in insertion order.
// These are the nodes the layered layout positions directly.
func (d *Diagram) TopLevel() []*Node {
	var out []*Node
	for _, id := range d.order {
		if n := d.nodes[id]; n.ParentID == "" {
			out = append(out, n)
		}
	}
	return out
}

// Children returns the direct children of the node in declaration order.
// Child IDs that do not resolve to a node are skipped.
func (d *Diagram) Children(id string) []*Node {
	n, ok := d.nodes[id]
	if !ok {
		return nil
	}
	var out []*Node
	for _, cid := range n.ChildIDs {
		if c, ok := d.nodes[cid]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Validate checks diagram integrity and returns nil if valid.
// It verifies three constraints:
//
//  1. Every ParentID references an existing node
//  2. Every edge endpoint references an existing node
//  3. The containment relation is a forest (no node is its own ancestor)
//
// The layout engine tolerates violations of 2 and 3 with diagnostics; Validate
// exists for callers that want to reject bad input up front.
func (d *Diagram) Validate() error {
	for _, n := range d.nodes {
		if n.ParentID != "" {
			if _, ok := d.nodes[n.ParentID]; !ok {
				return ErrUnknownParent
			}
		}
	}
	for _, e := range d.edges {
		if _, ok := d.nodes[e.Source]; !ok {
			return ErrDanglingEdge
		}
		if _, ok := d.nodes[e.Target]; !ok {
			return ErrDanglingEdge
		}
	}
	return d.detectContainmentCycles()
}

func (d *Diagram) detectContainmentCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(d.nodes))
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		n := d.nodes[id]
		for _, child := range n.ChildIDs {
			if _, ok := d.nodes[child]; !ok {
				continue
			}
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
	}

	for _, id := range d.order {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrContainmentCycle
			}
		}
	}
	return nil
}
