// Package state implements the state diagram kind. The line grammar matches
// the flowchart arrow chain with one addition: a trailing `: Event` segment
// labels the chain's final transition. States have no category heuristic and
// render with a uniform fill.
package state

import (
	"strings"

	"github.com/inkforge/inkforge/pkg/diagram/graph"
	"github.com/inkforge/inkforge/pkg/diagram/svg"
	"github.com/inkforge/inkforge/pkg/diagram/theme"
)

// Model is the parsed state machine. Immutable after parsing.
type Model struct {
	Graph *graph.Graph
}

// Parse converts state diagram source into a Model.
//
// Each line containing "->" is an arrow chain of states; a trailing
// `: Event` segment becomes the label of the chain's last transition only.
// The colon is recognized as a label separator only when it appears after
// the final arrow, so state names before the last segment may contain
// colons. Lines without an arrow are ignored.
func Parse(text string) *Model {
	m := &Model{Graph: graph.New()}

	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, "->") {
			continue
		}

		chain, event := splitEvent(line)
		tokens := splitChain(chain)
		if len(tokens) < 2 {
			continue
		}

		prev := -1
		for i, label := range tokens {
			idx, err := m.Graph.Add(label)
			if err != nil {
				prev = -1
				continue
			}
			if prev >= 0 {
				edgeLabel := ""
				if i == len(tokens)-1 {
					edgeLabel = event
				}
				m.Graph.AddEdge(prev, idx, edgeLabel)
			}
			prev = idx
		}
	}
	return m
}

// splitEvent separates the trailing `: Event` label from an arrow chain.
// The label is only present when the last colon follows the last arrow.
func splitEvent(line string) (chain, event string) {
	colon := strings.LastIndex(line, ":")
	arrow := strings.LastIndex(line, "->")
	if colon > arrow {
		return line[:colon], strings.TrimSpace(line[colon+1:])
	}
	return line, ""
}

// splitChain splits an arrow line into trimmed tokens, dropping empties.
func splitChain(line string) []string {
	parts := strings.Split(line, "->")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// Node is a positioned state box.
type Node struct {
	Label      string
	X, Y, W, H float64
}

// EdgeLine is a positioned transition with its event label.
type EdgeLine struct {
	X1, Y1, X2, Y2 float64
	Label          string
}

// Layout holds the positioned diagram and its canvas size.
// Cyclic reports that leveling clamped a cyclic region; state machines loop
// by nature, so callers surface it as a note rather than a warning.
type Layout struct {
	Width, Height float64
	Nodes         []Node
	Edges         []EdgeLine
	Cyclic        bool
}

// Build computes the state diagram layout. States are leveled and centered
// per level exactly like flowchart nodes; see [graph.Levels].
func Build(m *Model, th *theme.Theme, titled bool) Layout {
	geo := th.Flowchart
	top := geo.TopMargin
	if titled {
		top += geo.TitleOffset
	}

	levels, stable := graph.Levels(m.Graph)
	l := Layout{
		Width:  geo.CanvasWidth,
		Height: top + float64(graph.MaxLevel(levels))*geo.LevelHeight + geo.NodeHeight + geo.TopMargin,
		Cyclic: !stable,
	}

	slots := make([]Node, m.Graph.Len())
	for _, group := range graph.GroupByLevel(levels) {
		startX := (geo.CanvasWidth - float64(len(group))*geo.NodeWidth) / 2
		for i, idx := range group {
			slots[idx] = Node{
				Label: m.Graph.Label(idx),
				X:     startX + float64(i)*geo.NodeWidth,
				Y:     top + float64(levels[idx])*geo.LevelHeight,
				W:     geo.NodeWidth,
				H:     geo.NodeHeight,
			}
		}
	}
	l.Nodes = slots

	for _, e := range m.Graph.Edges() {
		src, dst := slots[e.From], slots[e.To]
		l.Edges = append(l.Edges, EdgeLine{
			X1: src.X + src.W/2, Y1: src.Y + src.H/2,
			X2: dst.X + dst.W/2, Y2: dst.Y + dst.H/2,
			Label: e.Label,
		})
	}
	return l
}

const nodeGutter = 8

// RenderSVG draws the layout: transitions with their event labels first,
// then the uniformly filled state boxes on top.
func RenderSVG(l Layout, th *theme.Theme, title, idPrefix string) []byte {
	c := svg.New(l.Width, l.Height, idPrefix)
	c.DefineArrowMarker(th.Palette.EdgeStroke)

	if title != "" {
		c.Title(l.Width/2, th.Flowchart.TitleOffset-8, th.TitleSize, th.Palette.Text, title)
	}

	for _, e := range l.Edges {
		c.Line(e.X1, e.Y1, e.X2, e.Y2, th.Palette.EdgeStroke, true)
		if e.Label != "" {
			c.Text((e.X1+e.X2)/2, (e.Y1+e.Y2)/2-4, th.FontSize*0.85,
				svg.AnchorMiddle, th.Palette.MutedText, e.Label)
		}
	}

	for _, n := range l.Nodes {
		c.RoundedRect(n.X+nodeGutter, n.Y, n.W-2*nodeGutter, n.H, 10,
			th.Palette.NodeFill, th.Palette.Stroke)
		c.Text(n.X+n.W/2, n.Y+n.H/2+th.FontSize/3, th.FontSize,
			svg.AnchorMiddle, th.Palette.Text, n.Label)
	}

	return c.Bytes()
}
