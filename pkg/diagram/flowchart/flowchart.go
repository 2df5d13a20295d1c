// Package flowchart implements the flowchart diagram kind: parsing the
// arrow-chain line grammar, BFS leveling layout, and SVG rendering.
package flowchart

import (
	"strings"

	"github.com/inkforge/inkforge/pkg/diagram/graph"
	"github.com/inkforge/inkforge/pkg/diagram/svg"
	"github.com/inkforge/inkforge/pkg/diagram/theme"
)

// Model is the parsed flowchart: an interned node arena plus per-node
// categories inferred from label text. Immutable after parsing.
type Model struct {
	Graph      *graph.Graph
	Categories []theme.Category
}

// Parse converts flowchart source into a Model.
//
// Each line containing "->" is split into two or more trimmed tokens; every
// token becomes a node (first occurrence wins identity) and consecutive
// token pairs become edges in encounter order. Lines without an arrow are
// ignored, which permits blank lines and prose comments. An empty body
// yields a well-formed empty Model.
func Parse(text string, classifier theme.Classifier) *Model {
	m := &Model{Graph: graph.New()}

	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, "->") {
			continue
		}
		chain := splitChain(line)
		if len(chain) < 2 {
			continue
		}

		prev := -1
		for _, label := range chain {
			idx, err := m.Graph.Add(label)
			if err != nil {
				prev = -1
				continue
			}
			if idx == len(m.Categories) {
				m.Categories = append(m.Categories, classifier.Classify(label))
			}
			if prev >= 0 {
				m.Graph.AddEdge(prev, idx, "")
			}
			prev = idx
		}
	}
	return m
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

// Node is a positioned flowchart node.
type Node struct {
	Label      string
	Category   theme.Category
	X, Y, W, H float64
}

// EdgeLine is a positioned edge, drawn center-to-center between its nodes.
type EdgeLine struct {
	X1, Y1, X2, Y2 float64
	Label          string
}

// Layout holds the positioned diagram and its canvas size.
// Cyclic reports that leveling had to clamp a cyclic region; it is a
// diagnostic, not an error - the layout is still drawable.
type Layout struct {
	Width, Height float64
	Nodes         []Node
	Edges         []EdgeLine
	Cyclic        bool
}

// Build computes the flowchart layout.
//
// Nodes are leveled with [graph.Levels], grouped by level, and centered
// horizontally within the fixed canvas width; each level occupies one
// horizontal band. When titled is true the whole diagram shifts down by the
// theme's title offset. An empty model produces a minimum-size canvas.
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
				Label:    m.Graph.Label(idx),
				Category: m.Categories[idx],
				X:        startX + float64(i)*geo.NodeWidth,
				Y:        top + float64(levels[idx])*geo.LevelHeight,
				W:        geo.NodeWidth,
				H:        geo.NodeHeight,
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

// nodeGutter insets the drawn box within its layout slot so adjacent nodes
// in a crowded level keep a visible gap.
const nodeGutter = 8

// RenderSVG draws the layout. Edges are drawn before nodes so the opaque
// node shapes sit on top of edge endpoints; the arrowhead may end up partly
// under the destination shape, which is the accepted compositing order.
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
		c.RoundedRect(n.X+nodeGutter, n.Y, n.W-2*nodeGutter, n.H, 6,
			th.Palette.Fill(n.Category), th.Palette.Stroke)
		c.Text(n.X+n.W/2, n.Y+n.H/2+th.FontSize/3, th.FontSize,
			svg.AnchorMiddle, th.Palette.Text, n.Label)
	}

	return c.Bytes()
}
