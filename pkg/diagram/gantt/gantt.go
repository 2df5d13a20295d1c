// Package gantt implements the gantt chart diagram kind: parsing the
// `Name [YYYY-MM-DD] : Nd` line grammar, the date-to-pixel timeline layout,
// and SVG rendering.
package gantt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/inkforge/inkforge/pkg/diagram/svg"
	"github.com/inkforge/inkforge/pkg/diagram/theme"
)

// dateLayout is the strict ISO-8601 calendar date format for task starts.
const dateLayout = "2006-01-02"

// taskLine matches `Name [YYYY-MM-DD] : Nd`.
var taskLine = regexp.MustCompile(`^\s*(.+?)\s*\[(\d{4}-\d{2}-\d{2})\]\s*:\s*(\d+)\s*d\s*$`)

// Task is one row of the chart.
type Task struct {
	Name  string
	Start time.Time // calendar date, UTC midnight
	Days  int       // duration in days, always >= 1
}

// Model is the parsed gantt chart. Immutable after parsing.
type Model struct {
	Tasks []Task
}

// Parse converts gantt source into a Model.
//
// Non-matching lines are skipped with a collected warning rather than
// failing the parse: one typo never takes down the rest of the chart.
// Blank lines are ignored silently. An empty body yields an empty Model.
func Parse(text string) (*Model, []string) {
	m := &Model{}
	var warnings []string

	for lineno, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		match := taskLine.FindStringSubmatch(line)
		if match == nil {
			warnings = append(warnings, fmt.Sprintf(
				"line %d: not a task (want `Name [YYYY-MM-DD] : Nd`): %s",
				lineno+1, strings.TrimSpace(line)))
			continue
		}

		start, err := time.Parse(dateLayout, match[2])
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: invalid date %q", lineno+1, match[2]))
			continue
		}
		days, err := strconv.Atoi(match[3])
		if err != nil || days < 1 {
			warnings = append(warnings, fmt.Sprintf("line %d: duration must be at least 1 day", lineno+1))
			continue
		}

		m.Tasks = append(m.Tasks, Task{Name: match[1], Start: start, Days: days})
	}
	return m, warnings
}

// Bar is a positioned task bar. X and W are pure timeline coordinates
// (days since the earliest start times the day width); the renderer offsets
// them by the label column when drawing.
type Bar struct {
	Task       Task
	X, Y, W, H float64
}

// Layout holds the positioned chart and its canvas size.
type Layout struct {
	Width, Height float64
	Bars          []Bar
}

// Build computes the timeline layout.
//
// The earliest task start anchors x=0; each task's x is its day offset from
// that anchor times the theme's day width, its width the duration times the
// day width. Rows stack in source order. An empty model produces a
// minimum-size canvas.
func Build(m *Model, th *theme.Theme, titled bool) Layout {
	geo := th.Gantt
	top := geo.TopMargin
	if titled {
		top += geo.TitleOffset
	}

	if len(m.Tasks) == 0 {
		return Layout{
			Width:  geo.LabelColumn + geo.Margin,
			Height: top + geo.Margin,
		}
	}

	minStart := m.Tasks[0].Start
	for _, t := range m.Tasks[1:] {
		if t.Start.Before(minStart) {
			minStart = t.Start
		}
	}

	l := Layout{Bars: make([]Bar, len(m.Tasks))}
	maxRight := 0.0
	for i, t := range m.Tasks {
		days := t.Start.Sub(minStart) / (24 * time.Hour)
		bar := Bar{
			Task: t,
			X:    float64(days) * geo.DayWidth,
			Y:    top + float64(i)*geo.RowHeight,
			W:    float64(t.Days) * geo.DayWidth,
			H:    geo.BarHeight,
		}
		l.Bars[i] = bar
		if right := bar.X + bar.W; right > maxRight {
			maxRight = right
		}
	}

	l.Width = geo.LabelColumn + maxRight + geo.Margin
	l.Height = top + float64(len(m.Tasks))*geo.RowHeight + geo.Margin
	return l
}

// RenderSVG draws the layout: task names in the label column, bars on the
// timeline, and the duration inside each bar when it fits.
func RenderSVG(l Layout, th *theme.Theme, title, idPrefix string) []byte {
	geo := th.Gantt
	c := svg.New(l.Width, l.Height, idPrefix)

	if title != "" {
		c.Title(l.Width/2, geo.TitleOffset-8, th.TitleSize, th.Palette.Text, title)
	}

	for _, b := range l.Bars {
		rowMid := b.Y + geo.RowHeight/2
		c.Text(geo.LabelColumn-10, rowMid+th.FontSize/3, th.FontSize,
			svg.AnchorEnd, th.Palette.Text, b.Task.Name)

		barY := b.Y + (geo.RowHeight-b.H)/2
		c.RoundedRect(geo.LabelColumn+b.X, barY, b.W, b.H, 4,
			th.Palette.BarFill, th.Palette.Stroke)

		duration := fmt.Sprintf("%dd", b.Task.Days)
		if b.W > float64(len(duration))*th.FontSize {
			c.Text(geo.LabelColumn+b.X+b.W/2, rowMid+th.FontSize/3, th.FontSize*0.85,
				svg.AnchorMiddle, th.Palette.Text, duration)
		}
	}

	return c.Bytes()
}
