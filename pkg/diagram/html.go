package diagram

import (
	"fmt"

	"github.com/google/uuid"
)

// idNamespace scopes the deterministic diagram ids so they never collide
// with other UUID users on the same page.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("diagram.inkforge.dev"))

// diagramID derives the occurrence's stable element id.
//
// The id is a name-based UUID over (kind, content, options), so re-rendering
// the same directive always produces the same id. The download script uses
// it to correlate a button with its SVG, and incremental page rebuilds keep
// stable anchors for unchanged diagrams.
func diagramID(kind Kind, content string, options Options) string {
	var b []byte
	b = append(b, kind...)
	b = append(b, 0)
	b = append(b, content...)
	b = append(b, 0)
	b = append(b, options.canonical()...)
	return "diagram-" + uuid.NewSHA1(idNamespace, b).String()
}

// embed wraps an assembled SVG in the container fragment.
//
// The class names (diagram-container, diagram-download, diagram-svg) and
// data attributes are a contract with the sibling stylesheet and download
// script; they must not change shape.
func embed(id string, kind Kind, svg []byte) string {
	return fmt.Sprintf(
		`<div class="diagram-container" data-diagram-id=%q data-diagram-type=%q>`+
			`<button class="diagram-download" data-diagram-id=%q type="button" title="Download SVG">Download</button>`+
			"%s</div>",
		id, kind, id, svg)
}
