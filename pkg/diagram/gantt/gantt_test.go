package gantt

import (
	"strings"
	"testing"
	"time"

	"github.com/inkforge/inkforge/pkg/diagram/theme"
)

const twoTaskSource = "Task A [2024-01-01] : 5d\nTask B [2024-01-06] : 3d"

func TestParse_TaskFields(t *testing.T) {
	m, warnings := Parse(twoTaskSource)

	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(m.Tasks) != 2 {
		t.Fatalf("parsed %d tasks, want 2", len(m.Tasks))
	}

	a := m.Tasks[0]
	if a.Name != "Task A" {
		t.Errorf("task name = %q, want %q", a.Name, "Task A")
	}
	if want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC); !a.Start.Equal(want) {
		t.Errorf("task start = %v, want %v", a.Start, want)
	}
	if a.Days != 5 {
		t.Errorf("task days = %d, want 5", a.Days)
	}
}

func TestParse_MalformedLinesWarnNotFail(t *testing.T) {
	m, warnings := Parse("Task A [2024-01-01] : 5d\nthis is not a task\nTask B [2024-01-06] : 3d")

	if len(m.Tasks) != 2 {
		t.Errorf("parsed %d tasks, want 2 (malformed line must be skipped)", len(m.Tasks))
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "line 2") {
		t.Errorf("warning should name line 2: %q", warnings[0])
	}
}

func TestParse_InvalidDate(t *testing.T) {
	m, warnings := Parse("Task A [2024-13-40] : 5d")

	if len(m.Tasks) != 0 {
		t.Errorf("invalid date should not yield a task, got %v", m.Tasks)
	}
	if len(warnings) != 1 {
		t.Errorf("got %d warnings, want 1", len(warnings))
	}
}

func TestParse_EmptyBody(t *testing.T) {
	m, warnings := Parse("\n\n")

	if len(m.Tasks) != 0 || len(warnings) != 0 {
		t.Errorf("blank body should parse clean, got %d tasks %d warnings",
			len(m.Tasks), len(warnings))
	}
}

func TestBuild_TimelineCoordinates(t *testing.T) {
	th := theme.Default() // day_width = 20
	m, _ := Parse(twoTaskSource)
	l := Build(m, th, false)

	a, b := l.Bars[0], l.Bars[1]
	if a.X != 0 {
		t.Errorf("Task A x = %v, want 0", a.X)
	}
	if a.W != 100 {
		t.Errorf("Task A width = %v, want 100", a.W)
	}
	if b.X != 100 {
		t.Errorf("Task B x = %v, want 100", b.X)
	}
	if b.W != 60 {
		t.Errorf("Task B width = %v, want 60", b.W)
	}
}

func TestBuild_EarliestStartAnchorsZero(t *testing.T) {
	th := theme.Default()
	// Later-starting task listed first; the earlier one still anchors x=0.
	m, _ := Parse("Task B [2024-01-06] : 3d\nTask A [2024-01-01] : 5d")
	l := Build(m, th, false)

	if l.Bars[1].X != 0 {
		t.Errorf("earliest task x = %v, want 0", l.Bars[1].X)
	}
	if l.Bars[0].X != 100 {
		t.Errorf("later task x = %v, want 100", l.Bars[0].X)
	}
}

func TestBuild_RowsStackInSourceOrder(t *testing.T) {
	th := theme.Default()
	m, _ := Parse(twoTaskSource)
	l := Build(m, th, false)

	if l.Bars[0].Y >= l.Bars[1].Y {
		t.Errorf("rows must stack downward in source order: y = %v, %v",
			l.Bars[0].Y, l.Bars[1].Y)
	}
	if got, want := l.Bars[1].Y-l.Bars[0].Y, th.Gantt.RowHeight; got != want {
		t.Errorf("row spacing = %v, want %v", got, want)
	}
}

func TestBuild_CanvasContainsBars(t *testing.T) {
	th := theme.Default()
	m, _ := Parse(twoTaskSource)
	l := Build(m, th, true)

	for i, b := range l.Bars {
		right := th.Gantt.LabelColumn + b.X + b.W
		if right > l.Width {
			t.Errorf("bar %d right edge %v exceeds width %v", i, right, l.Width)
		}
		if b.Y+b.H > l.Height {
			t.Errorf("bar %d bottom %v exceeds height %v", i, b.Y+b.H, l.Height)
		}
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

func TestRenderSVG_LabelsAndBars(t *testing.T) {
	th := theme.Default()
	m, _ := Parse(twoTaskSource)
	out := string(RenderSVG(Build(m, th, false), th, "", "d1"))

	if !strings.Contains(out, ">Task A</text>") {
		t.Errorf("output missing task label:\n%s", out)
	}
	if strings.Count(out, "<rect") != 2 {
		t.Errorf("want 2 bars, got:\n%s", out)
	}
	if !strings.Contains(out, ">5d</text>") {
		t.Errorf("output missing duration annotation")
	}
}
