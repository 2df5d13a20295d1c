// Package classdiag implements the class diagram kind: parsing the
// `Entity |+| Entity` / `Entity |o| Entity` relationship grammar, the
// square-grid placement, and SVG rendering with diamond ownership glyphs.
package classdiag

import (
	"fmt"
	"math"
	"strings"

	"github.com/inkforge/inkforge/pkg/diagram/svg"
	"github.com/inkforge/inkforge/pkg/diagram/theme"
)

// RelKind distinguishes the two relationship forms.
type RelKind int

const (
	// Composition is the `|+|` relationship: the owner's end carries a
	// filled diamond.
	Composition RelKind = iota
	// Aggregation is the `|o|` relationship: the owner's end carries a
	// hollow diamond.
	Aggregation
)

func (k RelKind) String() string {
	if k == Composition {
		return "composition"
	}
	return "aggregation"
}

// Relationship connects two entities by arena index. A is the owning end.
// Kind is fixed at parse time from the separator token, never inferred
// from entity names.
type Relationship struct {
	A, B int
	Kind RelKind
}

// Model is the parsed class diagram. Entities are stored in
// first-appearance order.
type Model struct {
	Entities      []string
	index         map[string]int
	Relationships []Relationship
}

// Lookup returns the arena index for an entity name, if registered.
func (m *Model) Lookup(name string) (int, bool) {
	i, ok := m.index[name]
	return i, ok
}

func (m *Model) intern(name string) int {
	if i, ok := m.index[name]; ok {
		return i
	}
	i := len(m.Entities)
	m.Entities = append(m.Entities, name)
	m.index[name] = i
	return i
}

// Parse converts class diagram source into a Model.
//
// Each line is either `A |+| B` (composition) or `A |o| B` (aggregation);
// the separator token alone decides the kind. Both entities are registered
// in first-seen order. Lines matching neither form are skipped with a
// collected warning.
func Parse(text string) (*Model, []string) {
	m := &Model{index: make(map[string]int)}
	var warnings []string

	for lineno, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		var kind RelKind
		var sep string
		switch {
		case strings.Contains(line, "|+|"):
			kind, sep = Composition, "|+|"
		case strings.Contains(line, "|o|"):
			kind, sep = Aggregation, "|o|"
		default:
			warnings = append(warnings, fmt.Sprintf(
				"line %d: not a relationship (want `A |+| B` or `A |o| B`): %s",
				lineno+1, strings.TrimSpace(line)))
			continue
		}

		parts := strings.SplitN(line, sep, 2)
		a := strings.TrimSpace(parts[0])
		b := strings.TrimSpace(parts[1])
		if a == "" || b == "" {
			warnings = append(warnings, fmt.Sprintf("line %d: empty entity name", lineno+1))
			continue
		}

		m.Relationships = append(m.Relationships, Relationship{
			A:    m.intern(a),
			B:    m.intern(b),
			Kind: kind,
		})
	}
	return m, warnings
}

// Box is a positioned entity box.
type Box struct {
	Name       string
	X, Y, W, H float64
}

// Link is a positioned relationship line. The diamond glyph sits at the
// owning end (X1, Y1), filled for composition and hollow for aggregation.
type Link struct {
	X1, Y1, X2, Y2 float64
	Filled         bool
}

// Layout holds the positioned diagram and its canvas size.
type Layout struct {
	Width, Height float64
	Boxes         []Box
	Links         []Link
}

// Build computes the grid placement.
//
// Entities fill a near-square grid: columns = ceil(sqrt(count)), entity i
// lands in cell (i mod columns, i div columns). Relationship lines run
// straight between box centers with no routing; crossings are accepted.
func Build(m *Model, th *theme.Theme, titled bool) Layout {
	geo := th.Class
	top := geo.Margin
	if titled {
		top += geo.TitleOffset
	}

	n := len(m.Entities)
	if n == 0 {
		return Layout{Width: geo.CellWidth, Height: top + geo.Margin}
	}

	columns := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + columns - 1) / columns

	l := Layout{
		Width:  geo.Margin + float64(columns)*geo.CellWidth,
		Height: top + float64(rows)*geo.CellHeight + geo.Margin,
		Boxes:  make([]Box, n),
	}

	for i, name := range m.Entities {
		col := i % columns
		row := i / columns
		cellX := geo.Margin/2 + float64(col)*geo.CellWidth
		cellY := top + float64(row)*geo.CellHeight
		l.Boxes[i] = Box{
			Name: name,
			X:    cellX + (geo.CellWidth-geo.BoxWidth)/2,
			Y:    cellY + (geo.CellHeight-geo.BoxHeight)/2,
			W:    geo.BoxWidth,
			H:    geo.BoxHeight,
		}
	}

	for _, r := range m.Relationships {
		a, b := l.Boxes[r.A], l.Boxes[r.B]
		l.Links = append(l.Links, Link{
			X1: a.X + a.W/2, Y1: a.Y + a.H/2,
			X2: b.X + b.W/2, Y2: b.Y + b.H/2,
			Filled: r.Kind == Composition,
		})
	}
	return l
}

// diamond glyph radii at the owning end of a relationship line.
const (
	diamondRX = 9
	diamondRY = 6
)

// RenderSVG draws the layout: relationship lines with their ownership
// diamonds first, then the entity boxes on top.
func RenderSVG(l Layout, th *theme.Theme, title, idPrefix string) []byte {
	c := svg.New(l.Width, l.Height, idPrefix)

	if title != "" {
		c.Title(l.Width/2, th.Class.TitleOffset-8, th.TitleSize, th.Palette.Text, title)
	}

	for _, link := range l.Links {
		c.Line(link.X1, link.Y1, link.X2, link.Y2, th.Palette.EdgeStroke, false)
		c.Diamond(link.X1, link.Y1, diamondRX, diamondRY, link.Filled, th.Palette.Stroke)
	}

	for _, b := range l.Boxes {
		c.RoundedRect(b.X, b.Y, b.W, b.H, 4, th.Palette.EntityFill, th.Palette.Stroke)
		c.Text(b.X+b.W/2, b.Y+b.H/2+th.FontSize/3, th.FontSize,
			svg.AnchorMiddle, th.Palette.Text, b.Name)
	}

	return c.Bytes()
}
