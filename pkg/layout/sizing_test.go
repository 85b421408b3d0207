package layout

import (
	"testing"

	"github.com/flowmap/flowmap/pkg/flow"
)

func TestHeaderHeight(t *testing.T) {
	tests := []struct {
		name string
		node flow.Node
		want float64
	}{
		{
			name: "LeafStep",
			node: flow.Node{ID: "s", Kind: flow.KindStep},
			want: 40,
		},
		{
			name: "Decision",
			node: flow.Node{ID: "d", Kind: flow.KindDecision},
			want: 56,
		},
		{
			name: "Trigger",
			node: flow.Node{ID: "t", Kind: flow.KindTrigger},
			want: 52,
		},
		{
			name: "End",
			node: flow.Node{ID: "e", Kind: flow.KindEnd},
			want: 44,
		},
		{
			name: "CollapsedContainer",
			node: flow.Node{ID: "c", Kind: flow.KindStep, ChildIDs: []string{"x"}},
			want: 48,
		},
		{
			name: "ExpandedContainer",
			node: flow.Node{ID: "c", Kind: flow.KindStep, ChildIDs: []string{"x"}, Expanded: true},
			want: 64,
		},
		{
			name: "ExpandedWithIntent",
			node: flow.Node{ID: "c", Kind: flow.KindStep, ChildIDs: []string{"x"}, Expanded: true, HasIntent: true},
			want: 92,
		},
		{
			name: "ExpandedWithContext",
			node: flow.Node{ID: "c", Kind: flow.KindStep, ChildIDs: []string{"x"}, Expanded: true, HasContext: true},
			want: 92,
		},
		{
			name: "ExpandedWithBoth",
			node: flow.Node{ID: "c", Kind: flow.KindStep, ChildIDs: []string{"x"}, Expanded: true, HasIntent: true, HasContext: true},
			want: 120,
		},
		{
			name: "ExpandedLoop",
			node: flow.Node{ID: "l", Kind: flow.KindLoop, ChildIDs: []string{"x"}, Expanded: true},
			want: 64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HeaderHeight(&tt.node); got != tt.want {
				t.Errorf("HeaderHeight = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHeaderHeightDeterministic(t *testing.T) {
	n := flow.Node{ID: "c", Kind: flow.KindLoop, ChildIDs: []string{"x"}, Expanded: true, HasIntent: true}
	first := HeaderHeight(&n)
	for range 10 {
		if got := HeaderHeight(&n); got != first {
			t.Fatalf("HeaderHeight varies: %v then %v", first, got)
		}
	}
}

func TestLeafSizeHonorsMinimums(t *testing.T) {
	n := flow.Node{ID: "s", Kind: flow.KindStep, MinWidth: 400, MinHeight: 10}
	w, h := leafSize(&n)
	if w != 400 {
		t.Errorf("width = %v, want advisory minimum 400", w)
	}
	if h != 88 {
		t.Errorf("height = %v, want intrinsic 88 (minimum below intrinsic is ignored)", h)
	}
}
