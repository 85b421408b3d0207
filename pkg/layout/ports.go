package layout

import (
	"math"
	"slices"

	"github.com/flowmap/flowmap/pkg/flow"
)

// portAssigner chooses which cardinal side each edge leaves and enters.
// Assignment is a pure function of node geometry, rank data, and containment,
// with edge IDs as the only tie-breaker, so identical inputs always produce
// identical ports.
type portAssigner struct {
	nodes    map[string]Placed
	parentOf map[string]string
	ranks    map[string]int
	top      map[string]bool
	opts     Options
}

// assign picks ports for every routed edge in place, then resolves
// same-side collisions deterministically.
func (a *portAssigner) assign(edges []Routed) {
	for i := range edges {
		edges[i].SourcePort, edges[i].TargetPort = a.portsFor(edges[i])
	}
	a.resolveCollisions(edges)
}

// portsFor applies the selection rules in priority order: containment edges
// first, then same-rank top-level pairs, then siblings sharing a container,
// and finally the flow-direction default.
func (a *portAssigner) portsFor(e Routed) (src, tgt Side) {
	sn := a.nodes[e.Source]
	tn := a.nodes[e.Target]

	// Rule 1: containment. The connector leaves the container on the side
	// nearest the child's position inside it, so it never crosses siblings.
	if a.parentOf[e.Target] == e.Source {
		side := dominantSide(sn, tn)
		return side, side.Opposite()
	}
	if a.parentOf[e.Source] == e.Target {
		side := dominantSide(tn, sn)
		return side.Opposite(), side
	}

	// Rule 2: top-level flow. Same-rank pairs double back under flow ports,
	// so they connect laterally instead.
	if a.top[e.Source] && a.top[e.Target] {
		sr, tr := a.ranks[e.Source], a.ranks[e.Target]
		if sr == tr {
			return a.lateralPorts(sn, tn)
		}
		if tr < sr {
			return a.flowPorts().tgt, a.flowPorts().src // back edge, reversed
		}
		f := a.flowPorts()
		return f.src, f.tgt
	}

	// Rule 3: siblings packed inside the same container face each other.
	if p := a.parentOf[e.Source]; p != "" && p == a.parentOf[e.Target] {
		if src, tgt, ok := facingPorts(sn, tn); ok {
			return src, tgt
		}
	}

	// Fallback: flow-direction default.
	f := a.flowPorts()
	return f.src, f.tgt
}

type portPair struct{ src, tgt Side }

// flowPorts is the natural port pair along the active layout axis.
func (a *portAssigner) flowPorts() portPair {
	if a.opts.Direction == DirectionLR {
		return portPair{src: SideRight, tgt: SideLeft}
	}
	return portPair{src: SideBottom, tgt: SideTop}
}

// lateralPorts connects two nodes of the same rank across the sibling axis.
func (a *portAssigner) lateralPorts(sn, tn Placed) (Side, Side) {
	if a.opts.Direction == DirectionLR {
		if sn.CenterY() <= tn.CenterY() {
			return SideBottom, SideTop
		}
		return SideTop, SideBottom
	}
	if sn.CenterX() <= tn.CenterX() {
		return SideRight, SideLeft
	}
	return SideLeft, SideRight
}

// dominantSide returns the side of the outer rectangle nearest the inner
// node's center, judged by the dominant axis of the offset between centers.
func dominantSide(outer, inner Placed) Side {
	dx := inner.CenterX() - outer.CenterX()
	dy := inner.CenterY() - outer.CenterY()
	if math.Abs(dx) > math.Abs(dy) {
		if dx < 0 {
			return SideLeft
		}
		return SideRight
	}
	if dy < 0 {
		return SideTop
	}
	return SideBottom
}

// facingPorts picks the sides two packed siblings present to each other.
// ok is false when the centers are equidistant on both axes, in which case
// the caller falls back to the flow default.
func facingPorts(sn, tn Placed) (Side, Side, bool) {
	dx := tn.CenterX() - sn.CenterX()
	dy := tn.CenterY() - sn.CenterY()
	switch {
	case math.Abs(dx) > math.Abs(dy):
		if dx > 0 {
			return SideRight, SideLeft, true
		}
		return SideLeft, SideRight, true
	case math.Abs(dy) > math.Abs(dx):
		if dy > 0 {
			return SideBottom, SideTop, true
		}
		return SideTop, SideBottom, true
	default:
		return 0, 0, false
	}
}

// resolveCollisions nudges edges that would overlap on a shared side.
// For each (node, side) the lowest-ID edge fixes the side's role; any later
// edge attaching with the opposite role is re-routed through the lateral
// pair, so opposite edges never share a port. The rule is order-free:
// repeated runs on identical input produce identical assignments.
func (a *portAssigner) resolveCollisions(edges []Routed) {
	idx := make([]int, len(edges))
	for i := range edges {
		idx[i] = i
	}
	slices.SortFunc(idx, func(x, y int) int {
		if edges[x].ID < edges[y].ID {
			return -1
		}
		if edges[x].ID > edges[y].ID {
			return 1
		}
		return 0
	})

	type slot struct {
		node string
		side Side
	}
	// role: +1 outgoing, -1 incoming. First claim wins.
	claimed := make(map[slot]int)

	for _, i := range idx {
		e := &edges[i]
		if e.Kind == flow.EdgeContainment {
			// Containment connectors live inside the parent and cannot
			// collide with flow edges on the outer border.
			continue
		}
		srcSlot := slot{e.Source, e.SourcePort}
		tgtSlot := slot{e.Target, e.TargetPort}

		collides := claimed[srcSlot] == -1 || claimed[tgtSlot] == +1
		if collides {
			sn := a.nodes[e.Source]
			tn := a.nodes[e.Target]
			e.SourcePort, e.TargetPort = a.lateralPorts(sn, tn)
			srcSlot = slot{e.Source, e.SourcePort}
			tgtSlot = slot{e.Target, e.TargetPort}
		}
		if claimed[srcSlot] == 0 {
			claimed[srcSlot] = +1
		}
		if claimed[tgtSlot] == 0 {
			claimed[tgtSlot] = -1
		}
	}
}
