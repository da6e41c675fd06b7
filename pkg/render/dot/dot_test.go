package dot

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/neuroscene/pkg/assemble"
	"github.com/matzehuels/neuroscene/pkg/connect"
	"github.com/matzehuels/neuroscene/pkg/errors"
	"github.com/matzehuels/neuroscene/pkg/layout"
	"github.com/matzehuels/neuroscene/pkg/params"
	"github.com/matzehuels/neuroscene/pkg/scene"
)

func generate(t *testing.T, topo scene.Topology) *scene.Scene {
	t.Helper()
	eng, err := layout.For(topo)
	if err != nil {
		t.Fatal(err)
	}
	p := params.Default()
	rng := layout.NewRand(3)
	l := eng.Layout(p, rng)
	s := assemble.Assemble(l, connect.Connect(l.Groups, p.LearningRate, rng), p)
	return &s
}

func TestToDOTNetwork(t *testing.T) {
	s := generate(t, scene.TopologyNetwork)
	dot, err := ToDOT(s)
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}

	if got := strings.Count(dot, "subgraph cluster_"); got != len(s.Groups) {
		t.Errorf("clusters = %d, want %d", got, len(s.Groups))
	}
	if got := strings.Count(dot, "rank=same"); got != len(s.Groups) {
		t.Errorf("rank=same = %d, want %d", got, len(s.Groups))
	}
	if got := strings.Count(dot, " -> "); got != len(s.Edges) {
		t.Errorf("edges = %d, want %d", got, len(s.Edges))
	}
	for _, g := range s.Groups {
		if !strings.Contains(dot, `label="`+g.Name+`"`) {
			t.Errorf("missing cluster label %q", g.Name)
		}
	}
	if !strings.Contains(dot, "shape=circle") {
		t.Error("network nodes should be circles")
	}
}

func TestToDOTConv(t *testing.T) {
	s := generate(t, scene.TopologyConvolutional)
	dot, err := ToDOT(s)
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}
	if !strings.Contains(dot, "shape=box") {
		t.Error("conv nodes should be boxes")
	}
	if got := strings.Count(dot, " -> "); got != len(s.Edges) || got == 0 {
		t.Errorf("edges = %d, want %d", got, len(s.Edges))
	}
}

func TestToDOTScatterUnsupported(t *testing.T) {
	_, err := ToDOT(generate(t, scene.TopologyScatter))
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("scatter ToDOT error = %v, want UNSUPPORTED", err)
	}
}

func TestWithAlpha(t *testing.T) {
	tests := []struct {
		color   string
		opacity float64
		want    string
	}{
		{"#60a5fa", 0, "#60a5fa00"},
		{"#60a5fa", 0.6, "#60a5fa99"},
		{"#60a5fa", 1, "#60a5faff"},
		{"#60a5fa", 3, "#60a5faff"},
		{"red", 0.5, "red"},
	}
	for _, tt := range tests {
		if got := withAlpha(tt.color, tt.opacity); got != tt.want {
			t.Errorf("withAlpha(%q, %v) = %q, want %q", tt.color, tt.opacity, got, tt.want)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	dot, err := ToDOT(generate(t, scene.TopologyNetwork))
	if err != nil {
		t.Fatal(err)
	}
	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Error("RenderSVG output missing normalized <svg> root")
	}
}

func TestRenderSVGInvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), `not valid DOT {{{`); err == nil {
		t.Error("RenderSVG should fail on invalid DOT")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox =\n%s\nwant\n%s", out, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should pass through")
	}
}
