// Package jitter applies a seeded cosmetic offset to a finished layout.
//
// Hand-drawn-looking diagrams read better when regular nodes are not
// perfectly aligned. The core engine is strictly deterministic and never
// jitters; this post-pass recreates the effect under an explicit seed, so a
// given (layout, seed) pair is still reproducible. Containers and their
// children keep their exact positions - shifting a parent without its packed
// children would tear the nesting apart - so only top-level leaf nodes move.
package jitter

import (
	"math/rand/v2"

	"github.com/flowmap/flowmap/pkg/layout"
)

// Options bounds the cosmetic displacement.
type Options struct {
	// MaxShift is the largest absolute offset applied on the sibling axis.
	MaxShift float64
}

var defaultOpts = Options{MaxShift: 14.0}

// Apply returns a copy of the result with top-level leaf nodes shifted by a
// small pseudo-random amount along the sibling axis. The input is not
// modified. Edge paths are re-anchored to the shifted rectangles by
// translating their endpoints with the node they attach to.
func Apply(res *layout.Result, dir layout.Direction, seed uint64, opts *Options) *layout.Result {
	if opts == nil {
		opts = &defaultOpts
	}
	if opts.MaxShift <= 0 {
		return res
	}

	rng := rand.New(rand.NewPCG(seed, seed^0xbadc0ffe))

	out := &layout.Result{
		Nodes:       make([]layout.Placed, len(res.Nodes)),
		Edges:       make([]layout.Routed, len(res.Edges)),
		Width:       res.Width,
		Height:      res.Height,
		Diagnostics: res.Diagnostics,
	}
	copy(out.Nodes, res.Nodes)
	copy(out.Edges, res.Edges)

	shift := make(map[string]float64, len(out.Nodes))
	for i := range out.Nodes {
		n := &out.Nodes[i]
		if n.Rank < 0 || n.Expanded || hasChildren(res, n.ID) {
			continue
		}
		delta := (rng.Float64()*2 - 1) * opts.MaxShift
		shift[n.ID] = delta
		if dir == layout.DirectionLR {
			n.Y += delta
		} else {
			n.X += delta
		}
	}

	for i := range out.Edges {
		e := &out.Edges[i]
		translatePath(&e.Path, shift[e.Source], shift[e.Target], dir)
	}

	return out
}

func hasChildren(res *layout.Result, id string) bool {
	for _, n := range res.Nodes {
		if n.ParentID == id {
			return true
		}
	}
	return false
}

// translatePath moves the path endpoints with their nodes. Control points
// and the label anchor follow the endpoint they are nearest to.
func translatePath(p *layout.Path, srcDelta, tgtDelta float64, dir layout.Direction) {
	move := func(pt *layout.Point, d float64) {
		if dir == layout.DirectionLR {
			pt.Y += d
		} else {
			pt.X += d
		}
	}
	move(&p.Start, srcDelta)
	move(&p.Control1, srcDelta)
	move(&p.End, tgtDelta)
	move(&p.Control2, tgtDelta)
	move(&p.LabelAnchor, (srcDelta+tgtDelta)/2)
}
