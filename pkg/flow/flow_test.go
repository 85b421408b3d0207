package flow

import (
	"errors"
	"testing"
)

func TestAddNode(t *testing.T) {
	tests := []struct {
		name    string
		nodes   []Node
		wantErr error
	}{
		{
			name:  "Simple",
			nodes: []Node{{ID: "a"}, {ID: "b"}},
		},
		{
			name:    "EmptyID",
			nodes:   []Node{{ID: ""}},
			wantErr: ErrInvalidNodeID,
		},
		{
			name:    "Duplicate",
			nodes:   []Node{{ID: "a"}, {ID: "a"}},
			wantErr: ErrDuplicateNodeID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			var err error
			for _, n := range tt.nodes {
				if e := d.AddNode(n); e != nil {
					err = e
				}
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestContainmentBackfill(t *testing.T) {
	t.Run("ParentFirst", func(t *testing.T) {
		d := New()
		d.AddNode(Node{ID: "parent", ChildIDs: []string{"child"}})
		d.AddNode(Node{ID: "child"})

		// Declaring ChildIDs on the parent back-fills ParentID once the child
		// is resolvable through Children.
		kids := d.Children("parent")
		if len(kids) != 1 || kids[0].ID != "child" {
			t.Fatalf("Children(parent) = %v, want [child]", kids)
		}
	})

	t.Run("ChildFirst", func(t *testing.T) {
		d := New()
		d.AddNode(Node{ID: "parent"})
		d.AddNode(Node{ID: "child", ParentID: "parent"})

		p, _ := d.Node("parent")
		if len(p.ChildIDs) != 1 || p.ChildIDs[0] != "child" {
			t.Errorf("parent.ChildIDs = %v, want [child]", p.ChildIDs)
		}
	})
}

func TestTopLevel(t *testing.T) {
	d := New()
	d.AddNode(Node{ID: "a"})
	d.AddNode(Node{ID: "box"})
	d.AddNode(Node{ID: "inner", ParentID: "box"})
	d.AddNode(Node{ID: "b"})

	top := d.TopLevel()
	if len(top) != 3 {
		t.Fatalf("top-level count = %d, want 3", len(top))
	}
	want := []string{"a", "box", "b"}
	for i, n := range top {
		if n.ID != want[i] {
			t.Errorf("top[%d] = %s, want %s", i, n.ID, want[i])
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Diagram
		wantErr error
	}{
		{
			name: "Valid",
			build: func() *Diagram {
				d := New()
				d.AddNode(Node{ID: "a"})
				d.AddNode(Node{ID: "b"})
				d.AddEdge(Edge{ID: "e1", Source: "a", Target: "b"})
				return d
			},
		},
		{
			name: "DanglingEdge",
			build: func() *Diagram {
				d := New()
				d.AddNode(Node{ID: "a"})
				d.AddEdge(Edge{ID: "e1", Source: "a", Target: "ghost"})
				return d
			},
			wantErr: ErrDanglingEdge,
		},
		{
			name: "UnknownParent",
			build: func() *Diagram {
				d := New()
				d.AddNode(Node{ID: "orphan", ParentID: "ghost"})
				return d
			},
			wantErr: ErrUnknownParent,
		},
		{
			name: "ContainmentCycle",
			build: func() *Diagram {
				d := New()
				d.AddNode(Node{ID: "a", ChildIDs: []string{"b"}})
				d.AddNode(Node{ID: "b", ChildIDs: []string{"a"}})
				return d
			},
			wantErr: ErrContainmentCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestKindRoundTrip(t *testing.T) {
	for _, k := range []Kind{KindStep, KindDecision, KindLoop, KindTrigger, KindEnd} {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("bogus"); ok {
		t.Error("ParseKind(bogus) ok = true, want false")
	}
}

func TestEdgeKindRoundTrip(t *testing.T) {
	for _, k := range []EdgeKind{EdgeSequential, EdgeBranchTrue, EdgeBranchFalse, EdgeContainment} {
		got, ok := ParseEdgeKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseEdgeKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
}

func TestAddEdgeDuplicate(t *testing.T) {
	d := New()
	d.AddNode(Node{ID: "a"})
	d.AddNode(Node{ID: "b"})
	if err := d.AddEdge(Edge{ID: "e1", Source: "a", Target: "b"}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := d.AddEdge(Edge{ID: "e1", Source: "b", Target: "a"}); !errors.Is(err, ErrDuplicateEdgeID) {
		t.Errorf("err = %v, want ErrDuplicateEdgeID", err)
	}
}
