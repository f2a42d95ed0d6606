package service

import (
	"testing"

	"github.com/MicroFocus/ppm-smartsheet-connector/internal/model"
)

func task(id, parentID string) *model.Task {
	return &model.Task{ID: id, ParentID: parentID}
}

func TestAssembleTree_Chain(t *testing.T) {
	a := task("a", "")
	b := task("b", "a")
	c := task("c", "b")

	roots := AssembleTree([]*model.Task{a, b, c})

	if len(roots) != 1 || roots[0] != a {
		t.Fatalf("expected roots=[a], got %+v", roots)
	}
	if len(a.Children) != 1 || a.Children[0] != b {
		t.Fatalf("expected a.children=[b], got %+v", a.Children)
	}
	if len(b.Children) != 1 || b.Children[0] != c {
		t.Fatalf("expected b.children=[c], got %+v", b.Children)
	}
	if len(c.Children) != 0 {
		t.Fatalf("expected c to be a leaf, got %+v", c.Children)
	}
}

func TestAssembleTree_DanglingParentsBecomeRoots(t *testing.T) {
	a := task("a", "")
	b := task("b", "missing")
	c := task("c", "also-missing")

	roots := AssembleTree([]*model.Task{a, b, c})

	if len(roots) != 3 {
		t.Fatalf("expected all tasks as roots, got %d", len(roots))
	}
	for _, r := range roots {
		if len(r.Children) != 0 {
			t.Errorf("task %s should have no children, got %d", r.ID, len(r.Children))
		}
	}
}

func TestAssembleTree_SiblingOrderPreserved(t *testing.T) {
	p := task("p", "")
	c1 := task("c1", "p")
	c2 := task("c2", "p")
	c3 := task("c3", "p")

	AssembleTree([]*model.Task{p, c1, c2, c3})

	if len(p.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(p.Children))
	}
	for i, want := range []string{"c1", "c2", "c3"} {
		if p.Children[i].ID != want {
			t.Errorf("child %d: expected %s, got %s", i, want, p.Children[i].ID)
		}
	}
}

// A parent id that only appears later in the list still resolves: lookup is
// built over the whole list before linking.
func TestAssembleTree_ForwardReference(t *testing.T) {
	child := task("child", "parent")
	parent := task("parent", "")

	roots := AssembleTree([]*model.Task{child, parent})

	if len(roots) != 1 || roots[0] != parent {
		t.Fatalf("expected roots=[parent], got %+v", roots)
	}
	if len(parent.Children) != 1 || parent.Children[0] != child {
		t.Fatalf("expected parent.children=[child], got %+v", parent.Children)
	}
}

func TestAssembleTree_Empty(t *testing.T) {
	if roots := AssembleTree(nil); len(roots) != 0 {
		t.Errorf("expected no roots, got %d", len(roots))
	}
}
