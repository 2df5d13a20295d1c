package sequence

import (
	"strings"
	"testing"

	"github.com/inkforge/inkforge/pkg/diagram/theme"
)

const greetingSource = "Alice -> Bob: Hello\nBob -> Alice: Hi"

func TestParse_LanesByFirstAppearance(t *testing.T) {
	m, warnings := Parse(greetingSource)

	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if lane, _ := m.Lane("Alice"); lane != 0 {
		t.Errorf("Alice lane = %d, want 0", lane)
	}
	if lane, _ := m.Lane("Bob"); lane != 1 {
		t.Errorf("Bob lane = %d, want 1", lane)
	}
	if len(m.Actors) != 2 {
		t.Errorf("registered %d actors, want 2", len(m.Actors))
	}
}

func TestParse_MessageTextAfterFirstColon(t *testing.T) {
	m, _ := Parse("A -> B: see: the colon survives")

	if got := m.Messages[0].Text; got != "see: the colon survives" {
		t.Errorf("message text = %q", got)
	}
}

func TestParse_SequenceIndexFollowsSourceOrder(t *testing.T) {
	m, _ := Parse(greetingSource)

	for i, msg := range m.Messages {
		if msg.Index != i {
			t.Errorf("message %d has index %d", i, msg.Index)
		}
	}
}

func TestParse_MalformedLinesWarnNotFail(t *testing.T) {
	m, warnings := Parse("Alice -> Bob: Hello\nno arrow here\nAlice -> Bob missing colon")

	if len(m.Messages) != 1 {
		t.Errorf("parsed %d messages, want 1", len(m.Messages))
	}
	if len(warnings) != 2 {
		t.Errorf("got %d warnings, want 2: %v", len(warnings), warnings)
	}
}

func TestParse_SelfMessage(t *testing.T) {
	m, _ := Parse("Worker -> Worker: retry")

	if len(m.Actors) != 1 {
		t.Errorf("self-message should register one actor, got %v", m.Actors)
	}
	msg := m.Messages[0]
	if msg.From != msg.To {
		t.Errorf("self-message lanes differ: %d -> %d", msg.From, msg.To)
	}
}

func TestBuild_ChronologyDescends(t *testing.T) {
	th := theme.Default()
	m, _ := Parse(greetingSource)
	l := Build(m, th, false)

	if len(l.Arrows) != 2 {
		t.Fatalf("layout has %d arrows, want 2", len(l.Arrows))
	}
	if l.Arrows[1].Y <= l.Arrows[0].Y {
		t.Errorf("second message y = %v must exceed first = %v", l.Arrows[1].Y, l.Arrows[0].Y)
	}
	if got, want := l.Arrows[1].Y-l.Arrows[0].Y, th.Sequence.MessageSpacing; got != want {
		t.Errorf("message spacing = %v, want %v", got, want)
	}
}

func TestBuild_LaneXFromIndex(t *testing.T) {
	th := theme.Default()
	m, _ := Parse(greetingSource)
	l := Build(m, th, false)

	if got, want := l.Actors[0].X, th.Sequence.LeftMargin; got != want {
		t.Errorf("lane 0 x = %v, want %v", got, want)
	}
	if got, want := l.Actors[1].X, th.Sequence.LeftMargin+th.Sequence.LaneSpacing; got != want {
		t.Errorf("lane 1 x = %v, want %v", got, want)
	}
}

func TestBuild_ArrowsSpanLanes(t *testing.T) {
	th := theme.Default()
	m, _ := Parse(greetingSource)
	l := Build(m, th, false)

	// Reply runs right-to-left between the same two lane coordinates.
	if l.Arrows[0].X1 != l.Arrows[1].X2 || l.Arrows[0].X2 != l.Arrows[1].X1 {
		t.Errorf("reply should mirror lanes: %+v vs %+v", l.Arrows[0], l.Arrows[1])
	}
}

func TestBuild_EmptyModel(t *testing.T) {
	th := theme.Default()
	m, _ := Parse("")
	l := Build(m, th, false)

	if l.Width <= 0 || l.Height <= 0 {
		t.Errorf("empty model must keep a minimum canvas, got %vx%v", l.Width, l.Height)
	}
}

func TestRenderSVG_ActorsAndMessages(t *testing.T) {
	th := theme.Default()
	m, _ := Parse(greetingSource)
	out := string(RenderSVG(Build(m, th, false), th, "", "d1"))

	for _, want := range []string{">Alice</text>", ">Bob</text>", ">Hello</text>", ">Hi</text>"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s", want)
		}
	}
}

func TestRenderSVG_SelfMessageLoop(t *testing.T) {
	th := theme.Default()
	m, _ := Parse("Worker -> Worker: retry")
	out := string(RenderSVG(Build(m, th, false), th, "", "d1"))

	if !strings.Contains(out, "<path") {
		t.Errorf("self-message should render as a loop path:\n%s", out)
	}
	if !strings.Contains(out, ">retry</text>") {
		t.Errorf("self-message text missing")
	}
}
