// Package svg provides the shared primitive builder used by all diagram
// renderers.
//
// A Canvas accumulates SVG markup in a buffer: the constructor writes the
// opening <svg> element with the viewBox, drawing methods append shapes, and
// [Canvas.Bytes] closes the document. Output is deterministic - same calls,
// same bytes - because layouts are pure functions of their inputs and every
// coordinate is formatted with fixed precision.
//
// Text is emitted as plain SVG <text> elements (never foreign HTML) so the
// generated markup is self-contained and can be downloaded as a standalone
// file.
package svg

import (
	"bytes"
	"fmt"
	"html"
)

// Anchor values for text alignment.
const (
	AnchorStart  = "start"
	AnchorMiddle = "middle"
	AnchorEnd    = "end"
)

// Canvas accumulates SVG markup for a single diagram.
//
// The zero value is not usable; use [New]. A Canvas is single-use: after
// Bytes() is called no further drawing should occur.
type Canvas struct {
	buf      bytes.Buffer
	markerID string
}

// New creates a canvas with the given logical size.
//
// The idPrefix scopes element ids (currently the arrowhead marker) so that
// several diagrams inlined into one page never collide.
func New(width, height float64, idPrefix string) *Canvas {
	c := &Canvas{markerID: idPrefix + "-arrow"}
	fmt.Fprintf(&c.buf,
		`<svg xmlns="http://www.w3.org/2000/svg" class="diagram-svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	return c
}

// DefineArrowMarker writes the single reusable arrowhead <marker> definition.
// Every directed edge on the canvas references this one marker via the
// marker-end attribute emitted by [Canvas.Line] and [Canvas.Path].
func (c *Canvas) DefineArrowMarker(color string) {
	fmt.Fprintf(&c.buf, "  <defs>\n")
	fmt.Fprintf(&c.buf,
		`    <marker id=%q markerWidth="10" markerHeight="7" refX="8" refY="3.5" orient="auto" markerUnits="strokeWidth">`+"\n",
		c.markerID)
	fmt.Fprintf(&c.buf, `      <polygon points="0 0, 10 3.5, 0 7" fill=%q />`+"\n", color)
	fmt.Fprintf(&c.buf, "    </marker>\n")
	fmt.Fprintf(&c.buf, "  </defs>\n")
}

// Title writes a centered title text element.
func (c *Canvas) Title(cx, y, size float64, color, text string) {
	fmt.Fprintf(&c.buf,
		`  <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="%.1f" font-weight="bold" text-anchor="middle" fill=%q>%s</text>`+"\n",
		cx, y, size, color, html.EscapeString(text))
}

// RoundedRect writes a rounded rectangle shape.
func (c *Canvas) RoundedRect(x, y, w, h, rx float64, fill, stroke string) {
	fmt.Fprintf(&c.buf,
		`  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill=%q stroke=%q stroke-width="1.5" />`+"\n",
		x, y, w, h, rx, fill, stroke)
}

// Text writes a text element with the given anchor and fill.
// The content is escaped; markup never leaks through labels.
func (c *Canvas) Text(x, y, size float64, anchor, fill, text string) {
	fmt.Fprintf(&c.buf,
		`  <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="%.1f" text-anchor=%q fill=%q>%s</text>`+"\n",
		x, y, size, anchor, fill, html.EscapeString(text))
}

// Line writes a straight line. When arrow is true the line ends with the
// shared arrowhead marker defined by [Canvas.DefineArrowMarker].
func (c *Canvas) Line(x1, y1, x2, y2 float64, stroke string, arrow bool) {
	marker := ""
	if arrow {
		marker = fmt.Sprintf(` marker-end="url(#%s)"`, c.markerID)
	}
	fmt.Fprintf(&c.buf,
		`  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke=%q stroke-width="1.5"%s />`+"\n",
		x1, y1, x2, y2, stroke, marker)
}

// Path writes a path with the given data string. When arrow is true the path
// ends with the shared arrowhead marker.
func (c *Canvas) Path(d, stroke string, arrow bool) {
	marker := ""
	if arrow {
		marker = fmt.Sprintf(` marker-end="url(#%s)"`, c.markerID)
	}
	fmt.Fprintf(&c.buf,
		`  <path d=%q fill="none" stroke=%q stroke-width="1.5"%s />`+"\n",
		d, stroke, marker)
}

// Diamond writes a diamond glyph centered at (cx, cy) with the given radii.
// Filled diamonds mark composition, hollow ones aggregation.
func (c *Canvas) Diamond(cx, cy, rx, ry float64, filled bool, stroke string) {
	fill := "#ffffff"
	if filled {
		fill = stroke
	}
	fmt.Fprintf(&c.buf,
		`  <polygon points="%.1f %.1f, %.1f %.1f, %.1f %.1f, %.1f %.1f" fill=%q stroke=%q stroke-width="1.5" />`+"\n",
		cx, cy-ry, cx+rx, cy, cx, cy+ry, cx-rx, cy, fill, stroke)
}

// Bytes closes the document and returns the accumulated markup.
func (c *Canvas) Bytes() []byte {
	c.buf.WriteString("</svg>")
	return c.buf.Bytes()
}
