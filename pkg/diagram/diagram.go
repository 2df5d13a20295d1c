// Package diagram is the entry point of the rendering engine: it resolves a
// diagram type string to its kind implementation, runs the parse/layout/render
// pipeline for one directive occurrence, and wraps the resulting SVG in the
// HTML container fragment the asset pipeline hooks into.
//
// Rendering one occurrence is a pure, synchronous transform of
// (type, content, options) into an HTML fragment. Occurrences share no
// mutable state, so callers may fan out across goroutines freely; one
// malformed diagram never affects its siblings.
package diagram

import (
	"sort"
	"strings"

	"github.com/inkforge/inkforge/pkg/diagram/classdiag"
	"github.com/inkforge/inkforge/pkg/diagram/flowchart"
	"github.com/inkforge/inkforge/pkg/diagram/gantt"
	"github.com/inkforge/inkforge/pkg/diagram/sequence"
	"github.com/inkforge/inkforge/pkg/diagram/state"
	"github.com/inkforge/inkforge/pkg/diagram/theme"
	"github.com/inkforge/inkforge/pkg/errors"
)

// Kind identifies a diagram type.
type Kind string

// The supported diagram kinds.
const (
	KindFlowchart    Kind = "flowchart"
	KindGantt        Kind = "gantt"
	KindSequence     Kind = "sequence"
	KindClassDiagram Kind = "class-diagram"
	KindState        Kind = "state"
)

// Kinds lists the supported diagram kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindFlowchart, KindGantt, KindSequence, KindClassDiagram, KindState}
}

// ParseKind resolves a diagram type string. An unknown type is the one hard
// failure in the engine; everything else degrades to warnings.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindFlowchart, KindGantt, KindSequence, KindClassDiagram, KindState:
		return k, nil
	}
	return "", errors.New(errors.ErrCodeUnsupportedDiagramType,
		"unsupported diagram type %q", s)
}

// Options carries the directive's key/value options.
// The recognized key is "title"; unknown keys are ignored.
type Options map[string]string

// Title returns the optional display title.
func (o Options) Title() string { return o["title"] }

// canonical renders the options deterministically for id and cache keying.
func (o Options) canonical() string {
	if len(o) == 0 {
		return ""
	}
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(o[k])
		b.WriteByte('\n')
	}
	return b.String()
}

// Warning is a recoverable issue collected while rendering one occurrence:
// a skipped malformed line, or a cyclic-graph leveling diagnostic.
type Warning struct {
	Kind    Kind
	Message string
}

// Render transforms one directive occurrence into an HTML fragment.
//
// The returned fragment follows the container contract: a div carrying the
// deterministic diagram id and type, a download button, and the inline SVG.
// Recoverable issues come back as warnings alongside the fragment; only an
// unsupported diagram type is returned as an error.
func Render(diagramType, content string, options Options, th *theme.Theme) (string, []Warning, error) {
	kind, err := ParseKind(diagramType)
	if err != nil {
		return "", nil, err
	}
	if th == nil {
		th = theme.Default()
	}

	id := diagramID(kind, content, options)
	title := options.Title()
	titled := title != ""

	var body []byte
	var warnings []Warning
	wrap := func(msgs []string) {
		for _, msg := range msgs {
			warnings = append(warnings, Warning{Kind: kind, Message: msg})
		}
	}

	switch kind {
	case KindFlowchart:
		m := flowchart.Parse(content, th.Classifier)
		l := flowchart.Build(m, th, titled)
		if l.Cyclic {
			wrap([]string{"graph contains a cycle; levels are best-effort"})
		}
		body = flowchart.RenderSVG(l, th, title, id)

	case KindGantt:
		m, msgs := gantt.Parse(content)
		wrap(msgs)
		body = gantt.RenderSVG(gantt.Build(m, th, titled), th, title, id)

	case KindSequence:
		m, msgs := sequence.Parse(content)
		wrap(msgs)
		body = sequence.RenderSVG(sequence.Build(m, th, titled), th, title, id)

	case KindClassDiagram:
		m, msgs := classdiag.Parse(content)
		wrap(msgs)
		body = classdiag.RenderSVG(classdiag.Build(m, th, titled), th, title, id)

	case KindState:
		m := state.Parse(content)
		l := state.Build(m, th, titled)
		if l.Cyclic {
			wrap([]string{"state machine loops; levels are best-effort"})
		}
		body = state.RenderSVG(l, th, title, id)
	}

	return embed(id, kind, body), warnings, nil
}
