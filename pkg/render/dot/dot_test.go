package dot

import (
	"strings"
	"testing"

	"github.com/inkforge/inkforge/pkg/diagram/state"
)

func TestToDOT_NodesAndEdges(t *testing.T) {
	m := state.Parse("Idle -> Running : start\nRunning -> Idle : stop")
	out := ToDOT(m.Graph, Options{})

	if !strings.HasPrefix(out, "digraph G {") {
		t.Errorf("missing digraph header:\n%s", out)
	}
	for _, want := range []string{
		`"Idle";`,
		`"Running";`,
		`"Idle" -> "Running" [label="start"];`,
		`"Running" -> "Idle" [label="stop"];`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s\n%s", want, out)
		}
	}
}

func TestToDOT_UnlabeledEdge(t *testing.T) {
	m := state.Parse("A -> B")
	out := ToDOT(m.Graph, Options{})

	if !strings.Contains(out, `"A" -> "B";`) {
		t.Errorf("unlabeled edge should have no label attribute:\n%s", out)
	}
}

func TestToDOT_Rankdir(t *testing.T) {
	m := state.Parse("A -> B")

	if out := ToDOT(m.Graph, Options{}); !strings.Contains(out, "rankdir=TB;") {
		t.Errorf("default rankdir should be TB:\n%s", out)
	}
	if out := ToDOT(m.Graph, Options{Rankdir: "LR"}); !strings.Contains(out, "rankdir=LR;") {
		t.Errorf("rankdir override ignored:\n%s", out)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="8pt" height="6pt" viewBox="0.00 0.00 134.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 134.00 116.00"`) {
		t.Errorf("viewBox not normalized:\n%s", out)
	}
	if !strings.Contains(out, `width="134" height="116"`) {
		t.Errorf("pixel size not applied:\n%s", out)
	}
}
