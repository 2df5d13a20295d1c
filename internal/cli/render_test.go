package cli

import (
	"strings"
	"testing"

	"github.com/inkforge/inkforge/pkg/errors"
)

func TestParseDirective_HeaderAndBody(t *testing.T) {
	d, err := parseDirective("%flowchart\nStart -> End\n")
	if err != nil {
		t.Fatal(err)
	}

	if d.Type != "flowchart" {
		t.Errorf("type = %q, want flowchart", d.Type)
	}
	if d.Title != "" {
		t.Errorf("title = %q, want empty", d.Title)
	}
	if !strings.Contains(d.Content, "Start -> End") {
		t.Errorf("content = %q", d.Content)
	}
}

func TestParseDirective_Title(t *testing.T) {
	d, err := parseDirective("%gantt: Release plan\nTask A [2024-01-01] : 5d")
	if err != nil {
		t.Fatal(err)
	}

	if d.Type != "gantt" {
		t.Errorf("type = %q, want gantt", d.Type)
	}
	if d.Title != "Release plan" {
		t.Errorf("title = %q, want %q", d.Title, "Release plan")
	}
	if got := d.options()["title"]; got != "Release plan" {
		t.Errorf("options title = %q", got)
	}
}

func TestParseDirective_LeadingBlankLines(t *testing.T) {
	d, err := parseDirective("\n\n%state\nIdle -> Running : start")
	if err != nil {
		t.Fatal(err)
	}
	if d.Type != "state" {
		t.Errorf("type = %q, want state", d.Type)
	}
}

func TestParseDirective_MissingHeader(t *testing.T) {
	_, err := parseDirective("Start -> End")
	if err == nil {
		t.Fatal("expected error for missing header")
	}
	if errors.GetCode(err) != errors.ErrCodeInvalidFormat {
		t.Errorf("error code = %v", errors.GetCode(err))
	}
}

func TestParseDirective_EmptyFile(t *testing.T) {
	if _, err := parseDirective("\n\n"); err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestExtractSVG(t *testing.T) {
	html := `<div class="diagram-container"><button>x</button><svg viewBox="0 0 1 1"><rect /></svg></div>`
	got := extractSVG(html)

	if !strings.HasPrefix(got, "<svg") || !strings.HasSuffix(got, "</svg>") {
		t.Errorf("extractSVG = %q", got)
	}
}

func TestFragmentPath(t *testing.T) {
	if got := fragmentPath("docs/flow.diag", ""); got != "docs/flow.html" {
		t.Errorf("fragmentPath = %q, want docs/flow.html", got)
	}
	if got := fragmentPath("docs/flow.diag", "out"); got != "out/flow.html" {
		t.Errorf("fragmentPath with out dir = %q, want out/flow.html", got)
	}
}
