package graph

import "testing"

func mustAdd(t *testing.T, g *Graph, label string) int {
	t.Helper()
	i, err := g.Add(label)
	if err != nil {
		t.Fatalf("Add(%q) error: %v", label, err)
	}
	return i
}

func TestAdd_FirstOccurrenceWins(t *testing.T) {
	g := New()

	a := mustAdd(t, g, "Process")
	b := mustAdd(t, g, "Process")

	if a != b {
		t.Errorf("repeat Add returned index %d, want %d", b, a)
	}
	if g.Len() != 1 {
		t.Errorf("Len() = %d, want 1", g.Len())
	}
}

func TestAdd_EmptyLabel(t *testing.T) {
	g := New()
	if _, err := g.Add(""); err != ErrInvalidLabel {
		t.Errorf("Add(\"\") error = %v, want ErrInvalidLabel", err)
	}
}

func TestAdd_InsertionOrder(t *testing.T) {
	g := New()
	mustAdd(t, g, "c")
	mustAdd(t, g, "a")
	mustAdd(t, g, "b")
	mustAdd(t, g, "a")

	want := []string{"c", "a", "b"}
	got := g.Labels()
	if len(got) != len(want) {
		t.Fatalf("Labels() has %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Labels()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAddEdge_UnknownIndex(t *testing.T) {
	g := New()
	mustAdd(t, g, "a")

	if err := g.AddEdge(0, 1, ""); err != ErrUnknownNode {
		t.Errorf("AddEdge(0, 1) error = %v, want ErrUnknownNode", err)
	}
	if err := g.AddEdge(-1, 0, ""); err != ErrUnknownNode {
		t.Errorf("AddEdge(-1, 0) error = %v, want ErrUnknownNode", err)
	}
}

func TestAddEdge_DuplicatesPermitted(t *testing.T) {
	g := New()
	a := mustAdd(t, g, "a")
	b := mustAdd(t, g, "b")

	g.AddEdge(a, b, "")
	g.AddEdge(a, b, "")

	if len(g.Edges()) != 2 {
		t.Errorf("Edges() has %d entries, want 2 (duplicates kept)", len(g.Edges()))
	}
}

func TestLevels_Chain(t *testing.T) {
	g := New()
	a := mustAdd(t, g, "a")
	b := mustAdd(t, g, "b")
	c := mustAdd(t, g, "c")
	g.AddEdge(a, b, "")
	g.AddEdge(b, c, "")

	levels, ok := Levels(g)
	if !ok {
		t.Errorf("Levels() stable = false, want true for a DAG")
	}
	for i, want := range []int{0, 1, 2} {
		if levels[i] != want {
			t.Errorf("levels[%d] = %d, want %d", i, levels[i], want)
		}
	}
}

func TestLevels_Diamond(t *testing.T) {
	//   a
	//  / \
	// b   c
	//  \ /
	//   d
	g := New()
	a := mustAdd(t, g, "a")
	b := mustAdd(t, g, "b")
	c := mustAdd(t, g, "c")
	d := mustAdd(t, g, "d")
	g.AddEdge(a, b, "")
	g.AddEdge(a, c, "")
	g.AddEdge(b, d, "")
	g.AddEdge(c, d, "")

	levels, ok := Levels(g)
	if !ok {
		t.Errorf("Levels() stable = false, want true")
	}
	for i, want := range []int{0, 1, 1, 2} {
		if levels[i] != want {
			t.Errorf("levels[%d] = %d, want %d", i, levels[i], want)
		}
	}
}

func TestLevels_RootlessCycleTerminates(t *testing.T) {
	// a -> b -> a: no root exists, relaxation must still terminate
	// and every node must receive a level.
	g := New()
	a := mustAdd(t, g, "a")
	b := mustAdd(t, g, "b")
	g.AddEdge(a, b, "")
	g.AddEdge(b, a, "")

	levels, ok := Levels(g)
	if ok {
		t.Errorf("Levels() stable = true, want false for a rootless cycle")
	}
	for i, l := range levels {
		if l != 0 {
			t.Errorf("levels[%d] = %d, want clamped to 0", i, l)
		}
	}
}

func TestLevels_CycleReachableFromRoot(t *testing.T) {
	// start -> a -> b -> a
	g := New()
	s := mustAdd(t, g, "start")
	a := mustAdd(t, g, "a")
	b := mustAdd(t, g, "b")
	g.AddEdge(s, a, "")
	g.AddEdge(a, b, "")
	g.AddEdge(b, a, "")

	levels, _ := Levels(g)
	if levels[s] != 0 || levels[a] != 1 || levels[b] != 2 {
		t.Errorf("levels = %v, want [0 1 2]", levels)
	}
}

func TestLevels_Empty(t *testing.T) {
	levels, ok := Levels(New())
	if !ok {
		t.Errorf("Levels() stable = false, want true for an empty graph")
	}
	if len(levels) != 0 {
		t.Errorf("Levels() returned %d entries, want 0", len(levels))
	}
}

func TestGroupByLevel(t *testing.T) {
	groups := GroupByLevel([]int{0, 1, 1, 2})

	if len(groups) != 3 {
		t.Fatalf("GroupByLevel() has %d groups, want 3", len(groups))
	}
	if len(groups[1]) != 2 || groups[1][0] != 1 || groups[1][1] != 2 {
		t.Errorf("groups[1] = %v, want [1 2] in insertion order", groups[1])
	}
}

func TestMaxLevel(t *testing.T) {
	if got := MaxLevel(nil); got != 0 {
		t.Errorf("MaxLevel(nil) = %d, want 0", got)
	}
	if got := MaxLevel([]int{0, 3, 1}); got != 3 {
		t.Errorf("MaxLevel = %d, want 3", got)
	}
}
