package layout

import (
	"slices"

	"github.com/flowmap/flowmap/pkg/errors"
	"github.com/flowmap/flowmap/pkg/flow"
)

// layered assigns ranks and absolute positions to the top-level nodes.
type layered struct {
	ranks  map[string]int
	order  map[string]int // position within the rank
	byRank map[int][]string
	diags  []Diagnostic
}

// assignRanks computes each top-level node's rank as its longest-path depth
// from a source, via topological layering (Kahn's algorithm). Only edges with
// both endpoints in the top-level set count; containment edges never affect
// rank. Ranks of nodes inside containers are handled by the packer instead.
//
// If the restricted graph has a cycle the queue drains early. The lowest-ID
// remaining node is then forced in as an artificial rank-0 root with a
// warning, and layering continues, so the run always terminates.
func assignRanks(ids []string, edges []flow.Edge) *layered {
	l := &layered{
		ranks:  make(map[string]int, len(ids)),
		order:  make(map[string]int, len(ids)),
		byRank: make(map[int][]string),
	}

	top := make(map[string]bool, len(ids))
	for _, id := range ids {
		top[id] = true
	}

	succ := make(map[string][]string)
	inDegree := make(map[string]int, len(ids))
	for _, e := range edges {
		if e.Kind == flow.EdgeContainment || !top[e.Source] || !top[e.Target] || e.Source == e.Target {
			continue
		}
		succ[e.Source] = append(succ[e.Source], e.Target)
		inDegree[e.Target]++
	}

	var queue []string
	done := make(map[string]bool, len(ids))
	for _, id := range ids {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	processed := 0
	for processed < len(ids) {
		if len(queue) == 0 {
			// Every remaining node has an incoming edge: the restricted graph
			// cycles. Break it at the lowest remaining ID.
			var remaining []string
			for _, id := range ids {
				if !done[id] {
					remaining = append(remaining, id)
				}
			}
			slices.Sort(remaining)
			root := remaining[0]
			d := warnf(errors.ErrCodeTopLevelCycle,
				"top-level flow has no source; using %q as artificial root", root)
			d.NodeID = root
			l.diags = append(l.diags, d)
			queue = append(queue, root)
		}

		curr := queue[0]
		queue = queue[1:]
		if done[curr] {
			continue
		}
		done[curr] = true
		processed++

		rank := l.ranks[curr]
		l.order[curr] = len(l.byRank[rank])
		l.byRank[rank] = append(l.byRank[rank], curr)

		for _, next := range succ[curr] {
			if done[next] {
				continue
			}
			if r := rank + 1; r > l.ranks[next] {
				l.ranks[next] = r
			}
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	return l
}

// rankIDs returns the rank indices in ascending order.
func (l *layered) rankIDs() []int {
	ranks := make([]int, 0, len(l.byRank))
	for r := range l.byRank {
		ranks = append(ranks, r)
	}
	slices.Sort(ranks)
	return ranks
}

// position computes an absolute origin for every top-level node. The rank
// axis advances by the tallest node of each rank plus RankSpacing; within a
// rank nodes advance by their own extent plus SiblingSpacing, in dequeue
// order. Under DirectionLR the two axes swap roles, producing the transpose
// of the DirectionTB layout.
func (l *layered) position(sizes map[string]sized, opts Options) map[string]Point {
	pos := make(map[string]Point, len(l.order))

	main := 0.0 // along the rank axis
	for _, r := range l.rankIDs() {
		row := l.byRank[r]

		depth := 0.0
		for _, id := range row {
			if d := rankExtent(sizes[id], opts.Direction); d > depth {
				depth = d
			}
		}

		cross := 0.0 // along the sibling axis
		for _, id := range row {
			if opts.Direction == DirectionLR {
				pos[id] = Point{X: main, Y: cross}
				cross += sizes[id].h + opts.SiblingSpacing
			} else {
				pos[id] = Point{X: cross, Y: main}
				cross += sizes[id].w + opts.SiblingSpacing
			}
		}

		main += depth + opts.RankSpacing
	}

	return pos
}

// rankExtent is the node's span along the rank axis.
func rankExtent(s sized, dir Direction) float64 {
	if dir == DirectionLR {
		return s.w
	}
	return s.h
}
