// Package sequence implements the sequence diagram kind: parsing the
// `Actor -> Actor: Message` line grammar, the lane/time grid layout, and
// SVG rendering with actor boxes, lifelines and message arrows.
package sequence

import (
	"fmt"
	"strings"

	"github.com/inkforge/inkforge/pkg/diagram/svg"
	"github.com/inkforge/inkforge/pkg/diagram/theme"
)

// Message is one horizontal arrow between two actor lanes.
// Index is the message's position in source order, which fixes its
// vertical slot.
type Message struct {
	From, To int // lane indices
	Text     string
	Index    int
}

// Model is the parsed sequence diagram. Actors are stored in
// first-appearance order; an actor's slice position is its lane index.
type Model struct {
	Actors   []string
	lanes    map[string]int
	Messages []Message
}

// Lane returns the lane index for an actor name, if registered.
func (m *Model) Lane(name string) (int, bool) {
	i, ok := m.lanes[name]
	return i, ok
}

func (m *Model) intern(name string) int {
	if i, ok := m.lanes[name]; ok {
		return i
	}
	i := len(m.Actors)
	m.Actors = append(m.Actors, name)
	m.lanes[name] = i
	return i
}

// Parse converts sequence diagram source into a Model.
//
// Each line of the form `Actor1 -> Actor2: Message` registers both actors
// (first appearance assigns the lane) and appends a message; the text is
// everything after the first colon, trimmed. Lines that do not match the
// shape are skipped with a collected warning.
func Parse(text string) (*Model, []string) {
	m := &Model{lanes: make(map[string]int)}
	var warnings []string

	for lineno, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		arrow := strings.Index(line, "->")
		if arrow < 0 {
			warnings = append(warnings, fmt.Sprintf(
				"line %d: not a message (want `Actor -> Actor: Message`): %s",
				lineno+1, strings.TrimSpace(line)))
			continue
		}
		colon := strings.Index(line[arrow:], ":")
		if colon < 0 {
			warnings = append(warnings, fmt.Sprintf(
				"line %d: message is missing `: text`: %s", lineno+1, strings.TrimSpace(line)))
			continue
		}
		colon += arrow

		from := strings.TrimSpace(line[:arrow])
		to := strings.TrimSpace(line[arrow+2 : colon])
		if from == "" || to == "" {
			warnings = append(warnings, fmt.Sprintf("line %d: empty actor name", lineno+1))
			continue
		}

		m.Messages = append(m.Messages, Message{
			From:  m.intern(from),
			To:    m.intern(to),
			Text:  strings.TrimSpace(line[colon+1:]),
			Index: len(m.Messages),
		})
	}
	return m, warnings
}

// Actor is a positioned actor header box. X is the lane center.
type Actor struct {
	Name string
	X, Y float64
}

// Arrow is a positioned message arrow at its chronological y.
type Arrow struct {
	X1, X2, Y float64
	Text      string
	ToSelf    bool
}

// Layout holds the positioned diagram and its canvas size.
type Layout struct {
	Width, Height float64
	Actors        []Actor
	Arrows        []Arrow
	LifelineTop   float64
	LifelineEnd   float64
}

// Build computes the lane/time grid.
//
// Actor x is lane index times lane spacing plus the left margin; message y
// is the top margin plus source index times message spacing, so chronology
// reads strictly top to bottom. An empty model produces a minimum canvas.
func Build(m *Model, th *theme.Theme, titled bool) Layout {
	geo := th.Sequence
	top := geo.TopMargin
	if titled {
		top += geo.TitleOffset
	}

	l := Layout{
		LifelineTop: top,
		LifelineEnd: top + float64(len(m.Messages))*geo.MessageSpacing + geo.BottomMargin,
	}

	for i, name := range m.Actors {
		l.Actors = append(l.Actors, Actor{
			Name: name,
			X:    geo.LeftMargin + float64(i)*geo.LaneSpacing,
			Y:    top - geo.ActorHeight - 10,
		})
	}

	for _, msg := range m.Messages {
		l.Arrows = append(l.Arrows, Arrow{
			X1:     geo.LeftMargin + float64(msg.From)*geo.LaneSpacing,
			X2:     geo.LeftMargin + float64(msg.To)*geo.LaneSpacing,
			Y:      top + float64(msg.Index)*geo.MessageSpacing,
			Text:   msg.Text,
			ToSelf: msg.From == msg.To,
		})
	}

	lanes := float64(len(m.Actors))
	if lanes == 0 {
		lanes = 1
	}
	l.Width = geo.LeftMargin + (lanes-1)*geo.LaneSpacing + geo.LeftMargin
	l.Height = l.LifelineEnd + geo.BottomMargin
	return l
}

// RenderSVG draws the layout: dashed lifelines first, then message arrows
// with their text, then the actor header boxes.
func RenderSVG(l Layout, th *theme.Theme, title, idPrefix string) []byte {
	geo := th.Sequence
	c := svg.New(l.Width, l.Height, idPrefix)
	c.DefineArrowMarker(th.Palette.EdgeStroke)

	if title != "" {
		c.Title(l.Width/2, geo.TitleOffset-8, th.TitleSize, th.Palette.Text, title)
	}

	for _, a := range l.Actors {
		c.Path(fmt.Sprintf("M %.1f %.1f L %.1f %.1f", a.X, l.LifelineTop, a.X, l.LifelineEnd),
			th.Palette.MutedText, false)
	}

	for _, ar := range l.Arrows {
		if ar.ToSelf {
			// Self-message: a small loop out to the right and back.
			c.Path(fmt.Sprintf("M %.1f %.1f h 40 v 14 h -40", ar.X1, ar.Y),
				th.Palette.EdgeStroke, true)
			c.Text(ar.X1+48, ar.Y+10, th.FontSize*0.9, svg.AnchorStart, th.Palette.Text, ar.Text)
			continue
		}
		c.Line(ar.X1, ar.Y, ar.X2, ar.Y, th.Palette.EdgeStroke, true)
		c.Text((ar.X1+ar.X2)/2, ar.Y-6, th.FontSize*0.9, svg.AnchorMiddle, th.Palette.Text, ar.Text)
	}

	for _, a := range l.Actors {
		c.RoundedRect(a.X-geo.ActorWidth/2, a.Y, geo.ActorWidth, geo.ActorHeight, 6,
			th.Palette.ActorFill, th.Palette.Stroke)
		c.Text(a.X, a.Y+geo.ActorHeight/2+th.FontSize/3, th.FontSize,
			svg.AnchorMiddle, th.Palette.Text, a.Name)
	}

	return c.Bytes()
}
