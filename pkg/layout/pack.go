package layout

import (
	"math"
	"slices"

	"github.com/flowmap/flowmap/pkg/errors"
	"github.com/flowmap/flowmap/pkg/flow"
)

// childSlot is a child's rectangle relative to its container's origin.
type childSlot struct {
	id         string
	x, y, w, h float64
}

// sized is a node's computed size before absolute placement. Containers also
// carry the relative slots of their direct children.
type sized struct {
	w, h     float64
	header   float64
	children []childSlot
}

// packer computes sizes bottom-up over the containment forest. Each node is
// sized exactly once; containment cycles are broken by promoting the
// offending node to top level for the run.
type packer struct {
	d    *flow.Diagram
	opts Options

	sizes    map[string]sized
	parentOf map[string]string // effective parent after cycle promotion
	promoted map[string]bool
	diags    []Diagnostic
}

func newPacker(d *flow.Diagram, opts Options) *packer {
	return &packer{
		d:        d,
		opts:     opts,
		sizes:    make(map[string]sized, d.NodeCount()),
		parentOf: make(map[string]string, d.NodeCount()),
		promoted: make(map[string]bool),
	}
}

// run sizes every node in the diagram. Top-level nodes are packed first in
// insertion order; any nodes left unsized afterwards belong to containment
// cycles unreachable from a root, and are promoted one cluster at a time
// starting from the lowest node ID so repeated runs agree.
func (p *packer) run() {
	for _, n := range p.d.TopLevel() {
		p.sizeNode(n, BaseContainerWidth, false, map[string]bool{})
	}

	for {
		var unsized []string
		for _, n := range p.d.Nodes() {
			if _, ok := p.sizes[n.ID]; !ok {
				unsized = append(unsized, n.ID)
			}
		}
		if len(unsized) == 0 {
			return
		}
		slices.Sort(unsized)
		id := unsized[0]
		p.promoted[id] = true
		n, _ := p.d.Node(id)
		p.sizeNode(n, BaseContainerWidth, false, map[string]bool{})
	}
}

// topLevel returns the IDs that participate in the layered layout: nodes with
// no parent plus nodes promoted out of containment cycles, in insertion order.
func (p *packer) topLevel() []string {
	var out []string
	for _, n := range p.d.Nodes() {
		if n.ParentID == "" || p.promoted[n.ID] {
			out = append(out, n.ID)
		}
	}
	return out
}

// sizeNode computes the node's size, recursing into container children first.
// forced pins a container child's width to the parent's inner width exactly.
// path carries the IDs on the current recursion stack for cycle detection.
func (p *packer) sizeNode(n *flow.Node, availWidth float64, forced bool, path map[string]bool) sized {
	if s, ok := p.sizes[n.ID]; ok {
		return s
	}
	path[n.ID] = true
	defer delete(path, n.ID)

	header := HeaderHeight(n)
	var s sized
	switch {
	case !n.IsContainer():
		w, h := leafSize(n)
		s = sized{w: w, h: h, header: header}
	case !n.Expanded:
		// Collapsed containers draw as a plain card: header only, children
		// hidden. The children are still sized so every node in the result
		// carries geometry; they just get no slots in the parent.
		w := ChildCardWidth
		if forced {
			w = availWidth
		} else if n.MinWidth > w {
			w = n.MinWidth
		}
		h := header
		if n.MinHeight > h {
			h = n.MinHeight
		}
		for _, c := range p.effectiveChildren(n, path) {
			p.sizeNode(c, ChildCardWidth, false, path)
			p.parentOf[c.ID] = n.ID
		}
		s = sized{w: w, h: h, header: header}
	default:
		s = p.packContainer(n, availWidth, forced, path)
	}

	p.sizes[n.ID] = s
	return s
}

// packContainer lays out an expanded container's direct children row-major
// and derives the container's own size. Children walk in declaration order;
// leaf children fill rows of itemsPerRow cards, and a container child flushes
// the current row and takes a full-width row of its own, packed recursively.
func (p *packer) packContainer(n *flow.Node, availWidth float64, forced bool, path map[string]bool) sized {
	pad := p.opts.ContainerPadding
	gap := p.opts.GridSpacing
	header := HeaderHeight(n)

	children := p.effectiveChildren(n, path)

	anyContainer := false
	for _, c := range children {
		if c.IsContainer() {
			anyContainer = true
			break
		}
	}

	// The grid width follows from how many cards fit the available budget;
	// a forced child spans the parent's inner width exactly instead.
	per := itemsPerRow(availWidth-2*pad, gap)
	width := 2*pad + float64(per)*ChildCardWidth + float64(per-1)*gap
	if forced {
		width = availWidth
	} else {
		if anyContainer && availWidth > width {
			width = availWidth
		}
		if n.MinWidth > width {
			width = n.MinWidth
		}
	}
	inner := width - 2*pad
	per = itemsPerRow(inner, gap)

	var slots []childSlot
	var row []*flow.Node
	y := header + pad
	rows := 0

	flushRow := func() {
		if len(row) == 0 {
			return
		}
		rowW := float64(len(row))*ChildCardWidth + float64(len(row)-1)*gap
		x := pad + (inner-rowW)/2
		for _, c := range row {
			p.sizeNode(c, ChildCardWidth, false, path)
			p.parentOf[c.ID] = n.ID
			slots = append(slots, childSlot{id: c.ID, x: x, y: y, w: ChildCardWidth, h: ChildCardHeight})
			x += ChildCardWidth + gap
		}
		y += ChildCardHeight + gap
		rows++
		row = row[:0]
	}

	for _, c := range children {
		if !c.IsContainer() {
			row = append(row, c)
			if len(row) == per {
				flushRow()
			}
			continue
		}
		flushRow()
		cs := p.sizeNode(c, inner, true, path)
		p.parentOf[c.ID] = n.ID
		slots = append(slots, childSlot{id: c.ID, x: pad, y: y, w: inner, h: cs.h})
		y += cs.h + gap
		rows++
	}
	flushRow()

	height := header + 2*pad
	if rows > 0 {
		height = y - gap + pad
	}
	if n.MinHeight > height {
		height = n.MinHeight
	}

	return sized{w: width, h: height, header: header, children: slots}
}

// effectiveChildren resolves the container's child list, dropping IDs that do
// not exist, nodes already sized elsewhere, and cycle offenders. A child
// found on the recursion path is a containment cycle: it is reported and
// treated as top-level for this run.
func (p *packer) effectiveChildren(n *flow.Node, path map[string]bool) []*flow.Node {
	var out []*flow.Node
	for _, cid := range n.ChildIDs {
		c, ok := p.d.Node(cid)
		if !ok {
			continue
		}
		if path[cid] {
			d := errf(errors.ErrCodeContainmentCycle,
				"node is its own ancestor through %q; treating it as top-level", n.ID)
			d.NodeID = cid
			p.diags = append(p.diags, d)
			p.promoted[cid] = true
			continue
		}
		if _, done := p.sizes[cid]; done {
			continue
		}
		out = append(out, c)
	}
	return out
}

// itemsPerRow returns how many fixed-width cards fit the inner width,
// never less than one.
func itemsPerRow(inner, gap float64) int {
	per := int(math.Floor((inner + gap) / (ChildCardWidth + gap)))
	if per < 1 {
		return 1
	}
	return per
}
