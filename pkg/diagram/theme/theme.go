// Package theme defines the visual parameters shared by all diagram renderers.
//
// A Theme bundles per-kind geometry (canvas width, node sizes, day width,
// lane spacing, grid cells), the color palette, and the flowchart node
// classifier. Themes are plain data: layout engines read geometry from them,
// renderers read colors, and nothing in a Theme is mutated after loading.
//
// Themes can be customized via a TOML file (typically inkforge.toml); any
// field left out of the file keeps its default value.
package theme

import (
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/inkforge/inkforge/pkg/errors"
)

// Category classifies a flowchart node for coloring purposes.
type Category string

const (
	// CategoryProcess is the generic node category.
	CategoryProcess Category = "process"
	// CategoryStartEnd marks entry/exit nodes.
	CategoryStartEnd Category = "start-end"
	// CategoryDecision marks branching nodes.
	CategoryDecision Category = "decision"
)

// Flowchart holds geometry for flowchart and state diagram layouts.
type Flowchart struct {
	CanvasWidth float64 `toml:"canvas_width"` // fixed frame width
	NodeWidth   float64 `toml:"node_width"`
	NodeHeight  float64 `toml:"node_height"`
	LevelHeight float64 `toml:"level_height"` // vertical distance between levels
	TopMargin   float64 `toml:"top_margin"`
	TitleOffset float64 `toml:"title_offset"` // extra top space when a title is present
}

// Gantt holds geometry for gantt chart layouts.
type Gantt struct {
	DayWidth    float64 `toml:"day_width"` // horizontal pixels per calendar day
	RowHeight   float64 `toml:"row_height"`
	BarHeight   float64 `toml:"bar_height"`
	LabelColumn float64 `toml:"label_column"` // reserved width for task names
	TopMargin   float64 `toml:"top_margin"`
	Margin      float64 `toml:"margin"` // right/bottom padding
	TitleOffset float64 `toml:"title_offset"`
}

// Sequence holds geometry for sequence diagram layouts.
type Sequence struct {
	LaneSpacing    float64 `toml:"lane_spacing"` // horizontal distance between actor lanes
	LeftMargin     float64 `toml:"left_margin"`
	TopMargin      float64 `toml:"top_margin"`
	MessageSpacing float64 `toml:"message_spacing"` // vertical distance between messages
	ActorWidth     float64 `toml:"actor_width"`
	ActorHeight    float64 `toml:"actor_height"`
	BottomMargin   float64 `toml:"bottom_margin"`
	TitleOffset    float64 `toml:"title_offset"`
}

// Class holds geometry for class diagram grid layouts.
type Class struct {
	CellWidth   float64 `toml:"cell_width"` // grid cell size (box + surrounding space)
	CellHeight  float64 `toml:"cell_height"`
	BoxWidth    float64 `toml:"box_width"`
	BoxHeight   float64 `toml:"box_height"`
	Margin      float64 `toml:"margin"`
	TitleOffset float64 `toml:"title_offset"`
}

// Palette holds the shared color scheme.
type Palette struct {
	NodeFill     string `toml:"node_fill"`
	StartEndFill string `toml:"start_end_fill"`
	DecisionFill string `toml:"decision_fill"`
	BarFill      string `toml:"bar_fill"`
	ActorFill    string `toml:"actor_fill"`
	EntityFill   string `toml:"entity_fill"`
	Stroke       string `toml:"stroke"`
	EdgeStroke   string `toml:"edge_stroke"`
	Text         string `toml:"text"`
	MutedText    string `toml:"muted_text"`
}

// Fill returns the node fill color for a flowchart category.
func (p Palette) Fill(cat Category) string {
	switch cat {
	case CategoryStartEnd:
		return p.StartEndFill
	case CategoryDecision:
		return p.DecisionFill
	default:
		return p.NodeFill
	}
}

// Classifier infers a flowchart node's category from its label text.
//
// The match is a case-insensitive substring check against keyword lists.
// This is deliberately a configurable heuristic: which labels count as
// start/end or decision nodes is a styling choice, not part of the grammar.
type Classifier struct {
	StartEndKeywords []string `toml:"start_end_keywords"`
	DecisionKeywords []string `toml:"decision_keywords"`
}

// Classify returns the category for a node label.
// Start/end keywords take precedence over decision keywords.
func (c Classifier) Classify(label string) Category {
	lower := strings.ToLower(label)
	for _, kw := range c.StartEndKeywords {
		if strings.Contains(lower, kw) {
			return CategoryStartEnd
		}
	}
	for _, kw := range c.DecisionKeywords {
		if strings.Contains(lower, kw) {
			return CategoryDecision
		}
	}
	return CategoryProcess
}

// Theme bundles all visual parameters for diagram rendering.
type Theme struct {
	Flowchart  Flowchart  `toml:"flowchart"`
	Gantt      Gantt      `toml:"gantt"`
	Sequence   Sequence   `toml:"sequence"`
	Class      Class      `toml:"class"`
	Palette    Palette    `toml:"palette"`
	Classifier Classifier `toml:"classifier"`
	FontSize   float64    `toml:"font_size"`
	TitleSize  float64    `toml:"title_size"`
}

// Default returns the built-in theme.
// All geometry defaults target an 800px-wide content column.
func Default() *Theme {
	return &Theme{
		Flowchart: Flowchart{
			CanvasWidth: 800,
			NodeWidth:   150,
			NodeHeight:  44,
			LevelHeight: 90,
			TopMargin:   40,
			TitleOffset: 30,
		},
		Gantt: Gantt{
			DayWidth:    20,
			RowHeight:   36,
			BarHeight:   24,
			LabelColumn: 160,
			TopMargin:   40,
			Margin:      40,
			TitleOffset: 30,
		},
		Sequence: Sequence{
			LaneSpacing:    180,
			LeftMargin:     100,
			TopMargin:      70,
			MessageSpacing: 50,
			ActorWidth:     120,
			ActorHeight:    36,
			BottomMargin:   40,
			TitleOffset:    30,
		},
		Class: Class{
			CellWidth:   200,
			CellHeight:  130,
			BoxWidth:    150,
			BoxHeight:   70,
			Margin:      40,
			TitleOffset: 30,
		},
		Palette: Palette{
			NodeFill:     "#f8f9fa",
			StartEndFill: "#d1e7dd",
			DecisionFill: "#fff3cd",
			BarFill:      "#6c9bd1",
			ActorFill:    "#e7f1ff",
			EntityFill:   "#f8f9fa",
			Stroke:       "#343a40",
			EdgeStroke:   "#495057",
			Text:         "#212529",
			MutedText:    "#495057",
		},
		Classifier: Classifier{
			StartEndKeywords: []string{"start", "end"},
			DecisionKeywords: []string{"decision", "?"},
		},
		FontSize:  14,
		TitleSize: 18,
	}
}

// Load reads a TOML theme file and overlays it on the defaults.
// Fields missing from the file keep their default values.
func Load(path string) (*Theme, error) {
	th := Default()
	if _, err := toml.DecodeFile(path, th); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTheme, err, "failed to load theme %s", path)
	}
	return th, nil
}
