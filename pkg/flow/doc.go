// Package flow provides the process-graph model consumed by the layout
// engine: nodes, edges, and the containment forest between them.
//
// # Overview
//
// Flowmap renders directed process graphs (steps, decisions, loops, triggers,
// terminators) as automatically positioned diagrams. This package provides
// the input side of that computation. A [Diagram] is an arena of nodes plus
// process edges; containment is expressed through [Node.ParentID] and the
// ordered [Node.ChildIDs] list and must form a forest - a node owns at most
// one parent and may not be its own ancestor.
//
// The model carries no geometry. Positions, sizes, and edge paths are owned
// by the layout package and produced as new values on every run, so a
// Diagram can be laid out repeatedly (and concurrently) without mutation.
//
// # Basic Usage
//
// Create a diagram with [New], add nodes with [Diagram.AddNode] and edges
// with [Diagram.AddEdge]:
//
//	d := flow.New()
//	d.AddNode(flow.Node{ID: "start", Kind: flow.KindTrigger})
//	d.AddNode(flow.Node{ID: "work", Kind: flow.KindStep})
//	d.AddEdge(flow.Edge{ID: "e1", Source: "start", Target: "work"})
//
// Either side of the containment relation may be populated: adding a node
// with ParentID set appends it to the parent's ChildIDs, and declaring
// ChildIDs back-fills the children's ParentID.
//
// # Node Kinds
//
// Nodes form a closed tagged union over [Kind]. Kind-specific fields live in
// variant structs ([LoopSpec], [DecisionSpec]) that are nil for every other
// kind, so exhaustive switches over Kind cover all node shapes.
//
// # Validation
//
// [Diagram.Validate] rejects dangling parents, dangling edge endpoints, and
// containment cycles. The layout engine does not require a validated input:
// it tolerates dangling edges and containment cycles defensively, surfacing
// structured diagnostics instead of failing, so a renderer always has
// something to draw.
package flow
