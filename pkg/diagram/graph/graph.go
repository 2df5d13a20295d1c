// Package graph provides the shared node/edge arena used by the graph-like
// diagram kinds (flowchart and state).
//
// Nodes live in an insertion-ordered arena indexed by integer id; edges are
// stored as index pairs. There is no pointer graph and no ownership to
// manage: parsers intern labels through [Graph.Add] and layout engines work
// on plain index slices.
package graph

import "errors"

var (
	// ErrInvalidLabel is returned by [Graph.Add] when the label is empty.
	ErrInvalidLabel = errors.New("node label must not be empty")

	// ErrUnknownNode is returned by [Graph.AddEdge] when an endpoint index
	// is out of range for the arena.
	ErrUnknownNode = errors.New("unknown node index")
)

// Edge is a directed connection between two arena indices.
// Label is the optional edge annotation (state transition event).
type Edge struct {
	From  int
	To    int
	Label string
}

// Graph is an insertion-ordered node arena with index-pair edges.
//
// The zero value is not usable; use [New]. Graph is not safe for concurrent
// mutation, but a fully built Graph is safe for concurrent reads - parsers
// build one per directive occurrence and never touch it again.
type Graph struct {
	labels []string
	index  map[string]int
	edges  []Edge
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{index: make(map[string]int)}
}

// Add interns a label and returns its arena index.
// The first occurrence wins: adding the same label again returns the
// existing index without creating a new node.
func (g *Graph) Add(label string) (int, error) {
	if label == "" {
		return 0, ErrInvalidLabel
	}
	if i, ok := g.index[label]; ok {
		return i, nil
	}
	i := len(g.labels)
	g.labels = append(g.labels, label)
	g.index[label] = i
	return i, nil
}

// Lookup returns the arena index for a label, if present.
func (g *Graph) Lookup(label string) (int, bool) {
	i, ok := g.index[label]
	return i, ok
}

// AddEdge adds a directed edge between two existing nodes.
// Duplicate edges are permitted and kept in insertion order.
func (g *Graph) AddEdge(from, to int, label string) error {
	if from < 0 || from >= len(g.labels) {
		return ErrUnknownNode
	}
	if to < 0 || to >= len(g.labels) {
		return ErrUnknownNode
	}
	g.edges = append(g.edges, Edge{From: from, To: to, Label: label})
	return nil
}

// Len returns the number of nodes in the arena.
func (g *Graph) Len() int { return len(g.labels) }

// Label returns the label for an arena index.
func (g *Graph) Label(i int) string { return g.labels[i] }

// Labels returns the labels in insertion order.
// The returned slice is the arena's backing storage; callers must not modify it.
func (g *Graph) Labels() []string { return g.labels }

// Edges returns the edges in insertion order.
// The returned slice is the arena's backing storage; callers must not modify it.
func (g *Graph) Edges() []Edge { return g.edges }

// unleveled marks a node that has not yet been reached from a root.
const unleveled = int(^uint(0) >> 1) // max int

// Levels assigns each node a discrete level for vertical layering.
//
// Roots (nodes with no incoming edge) are seeded at level 0 and levels
// propagate along edges: for edge (u,v), level v is lowered to level(u)+1
// whenever that is smaller, so a node's level is its shortest distance from
// any root. Relaxation sweeps are capped at the node count, which bounds
// the work even when the graph contains cycles.
//
// Nodes unreachable from any root (members of rootless cycles) are clamped
// to level 0 after relaxation. The second return value reports whether the
// assignment fully stabilized; false indicates a cyclic region was clamped
// and the levels are best-effort. Callers should treat that as a diagnostic,
// never a failure: a layout is always produced.
func Levels(g *Graph) ([]int, bool) {
	n := g.Len()
	levels := make([]int, n)
	if n == 0 {
		return levels, true
	}

	incoming := make([]int, n)
	for _, e := range g.edges {
		incoming[e.To]++
	}

	for i := range levels {
		if incoming[i] > 0 {
			levels[i] = unleveled
		}
	}

	stable := false
	for sweep := 0; sweep < n; sweep++ {
		changed := false
		for _, e := range g.edges {
			if levels[e.From] == unleveled {
				continue
			}
			if next := levels[e.From] + 1; next < levels[e.To] {
				levels[e.To] = next
				changed = true
			}
		}
		if !changed {
			stable = true
			break
		}
	}

	clamped := false
	for i := range levels {
		if levels[i] == unleveled {
			levels[i] = 0
			clamped = true
		}
	}

	return levels, stable && !clamped
}

// MaxLevel returns the highest value in a level assignment, or 0 when empty.
func MaxLevel(levels []int) int {
	max := 0
	for _, l := range levels {
		if l > max {
			max = l
		}
	}
	return max
}

// GroupByLevel buckets arena indices by their level, preserving insertion
// order within each level. The returned slice has MaxLevel+1 entries.
func GroupByLevel(levels []int) [][]int {
	if len(levels) == 0 {
		return nil
	}
	groups := make([][]int, MaxLevel(levels)+1)
	for i, l := range levels {
		groups[l] = append(groups[l], i)
	}
	return groups
}
