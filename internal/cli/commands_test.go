package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/neuroscene/pkg/errors"
	"github.com/matzehuels/neuroscene/pkg/params"
	"github.com/matzehuels/neuroscene/pkg/scene"
)

// isolate points config and cache lookups at empty temp directories.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	return t.TempDir()
}

func TestGenerateThenRender(t *testing.T) {
	dir := isolate(t)
	buf := captureOutput(t)
	scenePath := filepath.Join(dir, "net.json")

	err := execute(t, "generate", "nn", "--seed", "3", "--layers", "4", "--neurons", "40", "-o", scenePath)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	s, err := scene.ReadFile(scenePath)
	if err != nil {
		t.Fatal(err)
	}
	if s.Topology != scene.TopologyNetwork || s.Seed != 3 || len(s.Groups) != 4 {
		t.Errorf("scene: %s seed %d, %d groups", s.Topology, s.Seed, len(s.Groups))
	}
	if s.Params.Neurons != params.MaxNeurons {
		t.Errorf("neurons = %d, want clamped to %d", s.Params.Neurons, params.MaxNeurons)
	}
	if !strings.Contains(buf.String(), "Clamped out-of-range parameters: neurons") {
		t.Errorf("missing clamp warning in %q", buf.String())
	}

	base := filepath.Join(dir, "out", "net")
	if err := execute(t, "render", scenePath, "-f", "svg,dot,json", "-o", base, "-t", "1.5"); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, ext := range []string{".svg", ".dot", ".json"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Errorf("missing %s: %v", ext, err)
		}
	}
}

func TestGenerateUsesConfigDefaults(t *testing.T) {
	dir := isolate(t)
	captureOutput(t)
	cfg := writeConfig(t, "[params]\nlayers = 7\nactivation = \"sigmoid\"\n[cache]\nbackend = \"none\"\n")
	scenePath := filepath.Join(dir, "conv.json")

	if err := execute(t, "--config", cfg, "generate", "conv", "-o", scenePath); err != nil {
		t.Fatal(err)
	}
	s, err := scene.ReadFile(scenePath)
	if err != nil {
		t.Fatal(err)
	}
	if s.Params.LayerCount != 7 || s.Params.Activation != params.ActivationSigmoid {
		t.Errorf("config params not applied: %+v", s.Params)
	}
	if s.Seed == 0 {
		t.Error("an unseeded run should record its drawn seed")
	}

	if err := execute(t, "--config", cfg, "generate", "conv", "--layers", "2", "-o", scenePath); err != nil {
		t.Fatal(err)
	}
	s, _ = scene.ReadFile(scenePath)
	if s.Params.LayerCount != 2 || s.Params.Activation != params.ActivationSigmoid {
		t.Errorf("flags should override only what they set: %+v", s.Params)
	}
}

func TestGenerateErrors(t *testing.T) {
	isolate(t)
	captureOutput(t)
	if err := execute(t, "generate", "transformer"); err == nil {
		t.Error("unknown topology should fail")
	}
	if err := execute(t, "--config", filepath.Join(t.TempDir(), "nope.toml"), "generate"); err == nil {
		t.Error("explicit missing config should fail")
	}
	err := execute(t, "generate", "--activation", "bogus", "-o", filepath.Join(t.TempDir(), "s.json"))
	if !errors.Is(err, errors.ErrCodeInvalidParameter) {
		t.Errorf("unknown activation: error = %v, want INVALID_PARAMETER", err)
	}
}

func TestGenerateActivationAnyCase(t *testing.T) {
	dir := isolate(t)
	captureOutput(t)
	scenePath := filepath.Join(dir, "s.json")

	if err := execute(t, "generate", "--activation", "Sigmoid", "--seed", "2", "-o", scenePath); err != nil {
		t.Fatal(err)
	}
	s, err := scene.ReadFile(scenePath)
	if err != nil {
		t.Fatal(err)
	}
	if s.Params.Activation != params.ActivationSigmoid {
		t.Errorf("activation = %q, want sigmoid", s.Params.Activation)
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	dir := isolate(t)
	captureOutput(t)

	if err := execute(t, "render", filepath.Join(dir, "missing.json")); err == nil {
		t.Error("missing scene file should fail")
	}

	scenePath := filepath.Join(dir, "s.json")
	if err := execute(t, "generate", "scatter", "--seed", "1", "-o", scenePath); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "render", scenePath, "-f", "gif"); err == nil {
		t.Error("unknown format should fail")
	}
	if err := execute(t, "render", scenePath, "-f", "dot"); err == nil {
		t.Error("scatter has no DOT rendering")
	}
	if err := execute(t, "render", scenePath, "-f", "json"); err == nil {
		t.Error("rendering json next to the input would overwrite it")
	}
}

func TestRenderRejectsOutOfRangeParams(t *testing.T) {
	dir := isolate(t)
	captureOutput(t)
	scenePath := filepath.Join(dir, "edited.json")

	if err := execute(t, "generate", "nn", "--seed", "4", "-o", scenePath); err != nil {
		t.Fatal(err)
	}
	s, err := scene.ReadFile(scenePath)
	if err != nil {
		t.Fatal(err)
	}
	s.Params.Epochs = 1000
	if err := scene.WriteFile(s, scenePath); err != nil {
		t.Fatal(err)
	}

	err = execute(t, "render", scenePath, "-f", "svg", "-o", filepath.Join(dir, "out.svg"))
	if !errors.Is(err, errors.ErrCodeInvalidParameter) {
		t.Errorf("error = %v, want INVALID_PARAMETER", err)
	}
}

func TestVisualize(t *testing.T) {
	dir := isolate(t)
	buf := captureOutput(t)
	base := filepath.Join(dir, "scatter")

	if err := execute(t, "visualize", "scatter", "--seed", "9", "-f", "svg,json", "-o", base); err != nil {
		t.Fatal(err)
	}
	s, err := scene.ReadFile(base + ".json")
	if err != nil {
		t.Fatal(err)
	}
	if s.Boundary == nil || len(s.Axes) == 0 {
		t.Error("scatter scene should carry a boundary and axes")
	}
	data, _ := os.ReadFile(base + ".svg")
	if !strings.HasPrefix(string(data), "<svg") {
		t.Error("svg artifact malformed")
	}
	if !strings.Contains(buf.String(), "seed 9") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestFrameCommand(t *testing.T) {
	isolate(t)
	buf := captureOutput(t)

	if err := execute(t, "frame", "scatter", "-t", "2", "--json"); err != nil {
		t.Fatal(err)
	}
	var f frameInfo
	if err := json.Unmarshal(buf.Bytes(), &f); err != nil {
		t.Fatalf("frame json: %v (%q)", err, buf.String())
	}
	if f.Group.RotationY != 2*0.12 || f.Boundary == nil {
		t.Errorf("frame = %+v", f)
	}

	buf.Reset()
	if err := execute(t, "frame"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "network at t=0.00s") || !strings.Contains(buf.String(), "pulse") {
		t.Errorf("frame text = %q", buf.String())
	}
}
