package layout

import "github.com/flowmap/flowmap/pkg/flow"

// All sizes are in user units (typically pixels in SVG). Sizing is a pure
// function of node kind and state; nothing is ever measured at runtime, so
// the same input yields the same geometry in a browser, a test, or a server.

const (
	// BaseContainerWidth is the width budget handed to a top-level container
	// before packing. Nested containers inherit the parent's inner width
	// instead. Not part of Options: it interacts with the fixed child card
	// size, so varying it independently would break the row math.
	BaseContainerWidth = 520.0

	// ChildCardWidth is the fixed width of a non-container child card inside
	// a container grid.
	ChildCardWidth = 220.0

	// ChildCardHeight is the fixed height of a non-container child row.
	// Container children use their own recursively computed height instead.
	ChildCardHeight = 88.0
)

// Header heights per kind and state. The header is the vertical chrome a node
// reserves before any child content begins; the packer never draws into it.
const (
	headerLeafStep     = 40.0
	headerCollapsed    = 48.0
	headerExpandedBase = 64.0
	headerIntentExtra  = 28.0
	headerContextExtra = 28.0
	headerDecision     = 56.0
	headerTrigger      = 52.0
	headerEnd          = 44.0
)

// Intrinsic sizes for leaf nodes by kind.
var leafSizes = map[flow.Kind][2]float64{
	flow.KindStep:     {220, 88},
	flow.KindDecision: {200, 120},
	flow.KindLoop:     {220, 96},
	flow.KindTrigger:  {200, 96},
	flow.KindEnd:      {160, 72},
}

// HeaderHeight returns the vertical space the node's own chrome occupies.
// It is a deterministic function of (kind, expanded, hasIntent, hasContext);
// the switch is exhaustive over the node kinds.
func HeaderHeight(n *flow.Node) float64 {
	switch n.Kind {
	case flow.KindDecision:
		return headerDecision
	case flow.KindTrigger:
		return headerTrigger
	case flow.KindEnd:
		return headerEnd
	case flow.KindStep, flow.KindLoop:
		if !n.IsContainer() {
			return headerLeafStep
		}
		if !n.Expanded {
			return headerCollapsed
		}
		h := headerExpandedBase
		if n.HasIntent {
			h += headerIntentExtra
		}
		if n.HasContext {
			h += headerContextExtra
		}
		return h
	default:
		return headerLeafStep
	}
}

// leafSize returns the intrinsic size of a node drawn without children,
// honoring the caller's advisory minimums.
func leafSize(n *flow.Node) (w, h float64) {
	s, ok := leafSizes[n.Kind]
	if !ok {
		s = leafSizes[flow.KindStep]
	}
	w, h = s[0], s[1]
	if n.MinWidth > w {
		w = n.MinWidth
	}
	if n.MinHeight > h {
		h = n.MinHeight
	}
	return w, h
}
