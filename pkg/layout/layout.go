package layout

import (
	"github.com/flowmap/flowmap/pkg/errors"
	"github.com/flowmap/flowmap/pkg/flow"
)

// Layout computes geometry for every node and edge of the diagram.
//
// The computation is pure and synchronous: it reads the diagram, never
// mutates it, holds no state between calls, and performs no I/O, so two
// calls with identical input yield bit-identical results. Faults in the
// graph data (dangling edges, containment cycles, top-level flow cycles)
// are repaired defensively and reported through Result.Diagnostics; the
// only hard failure is a nil diagram or invalid options, which change the
// result materially and therefore fail fast.
//
// The passes run leaf-first: container packing sizes the forest bottom-up,
// the layered pass ranks and positions the top-level nodes using those
// final sizes, then ports and path geometry are derived from the finished
// rectangles.
func Layout(d *flow.Diagram, opts Options) (*Result, error) {
	if d == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "diagram must not be nil")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	res := &Result{}

	// Size the containment forest bottom-up.
	p := newPacker(d, opts)
	p.run()
	res.Diagnostics = append(res.Diagnostics, p.diags...)

	// Drop edges with missing endpoints before they reach ranking.
	var valid []flow.Edge
	for _, e := range d.Edges() {
		if _, ok := d.Node(e.Source); !ok {
			diag := warnf(errors.ErrCodeDanglingEdge, "source %q does not exist; edge dropped", e.Source)
			diag.EdgeID = e.ID
			res.Diagnostics = append(res.Diagnostics, diag)
			continue
		}
		if _, ok := d.Node(e.Target); !ok {
			diag := warnf(errors.ErrCodeDanglingEdge, "target %q does not exist; edge dropped", e.Target)
			diag.EdgeID = e.ID
			res.Diagnostics = append(res.Diagnostics, diag)
			continue
		}
		valid = append(valid, e)
	}

	// Rank and position the top-level nodes.
	topIDs := p.topLevel()
	l := assignRanks(topIDs, valid)
	res.Diagnostics = append(res.Diagnostics, l.diags...)
	origins := l.position(p.sizes, opts)

	// Resolve absolute rectangles, parents before children.
	abs := make(map[string]Placed, d.NodeCount())
	for _, id := range topIDs {
		placeSubtree(d, p, abs, id, origins[id], l.ranks[id], l.order[id], "")
	}
	placeHidden(d, p, abs, opts)

	res.Nodes = make([]Placed, 0, d.NodeCount())
	for _, n := range d.Nodes() {
		if pl, ok := abs[n.ID]; ok {
			res.Nodes = append(res.Nodes, pl)
		}
	}

	// Ports, then paths.
	res.Edges = make([]Routed, 0, len(valid))
	for _, e := range valid {
		res.Edges = append(res.Edges, Routed{
			ID:     e.ID,
			Source: e.Source,
			Target: e.Target,
			Kind:   e.Kind,
			Label:  e.Label,
		})
	}

	top := make(map[string]bool, len(topIDs))
	for _, id := range topIDs {
		top[id] = true
	}
	pa := &portAssigner{
		nodes:    abs,
		parentOf: p.parentOf,
		ranks:    l.ranks,
		top:      top,
		opts:     opts,
	}
	pa.assign(res.Edges)

	for i := range res.Edges {
		e := &res.Edges[i]
		e.Path = routePath(*e, abs[e.Source], abs[e.Target])
	}

	for _, n := range res.Nodes {
		if r := n.Right(); r > res.Width {
			res.Width = r
		}
		if b := n.Bottom(); b > res.Height {
			res.Height = b
		}
	}

	return res, nil
}

// placeSubtree assigns the node its absolute rectangle and recurses into the
// packed child slots, offsetting each by the parent origin.
func placeSubtree(d *flow.Diagram, p *packer, abs map[string]Placed, id string, origin Point, rank, order int, parentID string) {
	n, ok := d.Node(id)
	if !ok {
		return
	}
	s := p.sizes[id]

	abs[id] = Placed{
		ID:           id,
		Kind:         n.Kind,
		Label:        n.Label,
		ParentID:     parentID,
		X:            origin.X,
		Y:            origin.Y,
		Width:        s.w,
		Height:       s.h,
		HeaderHeight: s.header,
		Rank:         rank,
		Order:        order,
		Expanded:     n.Expanded,
	}

	for i, slot := range s.children {
		child := Point{X: origin.X + slot.x, Y: origin.Y + slot.y}
		placeSubtree(d, p, abs, slot.id, child, -1, i, id)

		// The slot, not the child's own packing, is authoritative for the
		// rectangle drawn inside this parent (fixed cards, forced widths).
		pl := abs[slot.id]
		pl.Width = slot.w
		pl.Height = slot.h
		abs[slot.id] = pl
	}
}

// placeHidden gives geometry to children of collapsed containers, which own
// no slots. They sit under the parent header at the parent origin; renderers
// elide them because the parent reports Expanded == false.
func placeHidden(d *flow.Diagram, p *packer, abs map[string]Placed, opts Options) {
	for {
		progressed := false
		for _, n := range d.Nodes() {
			if _, done := abs[n.ID]; done {
				continue
			}
			parentID := p.parentOf[n.ID]
			parent, ok := abs[parentID]
			if !ok {
				continue
			}
			s := p.sizes[n.ID]
			abs[n.ID] = Placed{
				ID:           n.ID,
				Kind:         n.Kind,
				Label:        n.Label,
				ParentID:     parentID,
				X:            parent.X + opts.ContainerPadding,
				Y:            parent.Y + parent.HeaderHeight,
				Width:        s.w,
				Height:       s.h,
				HeaderHeight: s.header,
				Rank:         -1,
				Expanded:     n.Expanded,
			}
			progressed = true
		}
		if !progressed {
			return
		}
	}
}
