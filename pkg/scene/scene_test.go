package scene

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/neuroscene/pkg/errors"
	"github.com/matzehuels/neuroscene/pkg/params"
)

func twoNodeScene() Scene {
	return Scene{
		Topology: TopologyNetwork,
		Seed:     7,
		Params:   params.Default(),
		Groups: []Group{
			{Index: 0, Role: RoleInput, Name: "Input", Size: 1},
			{Index: 1, Role: RoleOutput, Name: "Output", Size: 1},
		},
		Nodes: []Node{
			{ID: "g0n0", Group: 0, Role: RoleInput, Position: V(-2, 0, 0), SizeHint: 0.3, Color: ColorInput},
			{ID: "g1n0", Group: 1, Role: RoleOutput, Position: V(2, 0, 0), SizeHint: 0.3, Color: ColorOutput},
		},
		Edges: []Edge{{From: "g0n0", To: "g1n0", Weight: 0.5, Color: ColorPositive, Opacity: 0.3}},
	}
}

func TestParseTopology(t *testing.T) {
	tests := []struct {
		in      string
		want    Topology
		wantErr bool
	}{
		{"network", TopologyNetwork, false},
		{"NN", TopologyNetwork, false},
		{"conv", TopologyConvolutional, false},
		{"CNN", TopologyConvolutional, false},
		{"convolutional", TopologyConvolutional, false},
		{" scatter ", TopologyScatter, false},
		{"classifier", TopologyScatter, false},
		{"tower", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseTopology(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTopology(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidTopology) {
			t.Errorf("ParseTopology(%q) code = %v", tt.in, errors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("ParseTopology(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Scene)
		wantErr bool
	}{
		{"valid", func(s *Scene) {}, false},
		{"empty scene", func(s *Scene) { *s = Scene{Topology: TopologyScatter} }, false},
		{"unknown topology", func(s *Scene) { s.Topology = "conv" }, true},
		{"duplicate id", func(s *Scene) { s.Nodes[1].ID = "g0n0"; s.Edges = nil }, true},
		{"empty id", func(s *Scene) { s.Nodes[0].ID = "" }, true},
		{"unknown group", func(s *Scene) { s.Nodes[1].Group = 5 }, true},
		{"dangling from", func(s *Scene) { s.Edges[0].From = "ghost" }, true},
		{"dangling to", func(s *Scene) { s.Edges[0].To = "ghost" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := twoNodeScene()
			tt.mutate(&s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	in := twoNodeScene()
	in.Nodes[1].Extent = &Vec3{X: 1.5, Y: 1.5, Z: 0.5}
	in.Boundary = &Plane{Width: 10, Height: 0.1, Depth: 10, RotationZ: 0.785, Color: ColorBoundary, Opacity: 0.5}

	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	out, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if len(out.Nodes) != 2 || len(out.Edges) != 1 {
		t.Fatalf("got %d nodes %d edges, want 2 and 1", len(out.Nodes), len(out.Edges))
	}
	if out.Nodes[1].Extent == nil || out.Nodes[1].Extent.Z != 0.5 {
		t.Errorf("extent lost: %+v", out.Nodes[1].Extent)
	}
	if out.Boundary == nil || out.Boundary.Width != 10 {
		t.Errorf("boundary lost: %+v", out.Boundary)
	}
	if out.Params != in.Params {
		t.Errorf("params = %+v, want %+v", out.Params, in.Params)
	}
}

func TestWriteEmptyListsAsArrays(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(Scene{Topology: TopologyNetwork}, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"groups", "nodes", "edges", "labels"} {
		if _, ok := raw[key].([]any); !ok {
			t.Errorf("%s = %v, want empty array", key, raw[key])
		}
	}
	if _, ok := raw["boundary"]; ok {
		t.Error("boundary should be omitted when nil")
	}
}

func TestReadRejectsDanglingEdge(t *testing.T) {
	in := `{"topology":"network","groups":[{"index":0}],"nodes":[{"id":"a","group":0}],"edges":[{"from":"a","to":"b"}]}`
	if _, err := Read(strings.NewReader(in)); err == nil {
		t.Error("expected error for dangling edge")
	}
}

func TestReadMalformed(t *testing.T) {
	if _, err := Read(strings.NewReader("{not json")); err == nil {
		t.Error("expected decode error")
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	if err := WriteFile(twoNodeScene(), path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
	s, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if s.Seed != 7 {
		t.Errorf("Seed = %d, want 7", s.Seed)
	}
}

func TestWriteFileReportsFailure(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("no /dev/full on this system")
	}
	if err := WriteFile(twoNodeScene(), "/dev/full"); err == nil {
		t.Error("WriteFile to a full device should fail")
	}
	if err := WriteFile(twoNodeScene(), filepath.Join(t.TempDir(), "missing", "scene.json")); err == nil {
		t.Error("WriteFile into a missing directory should fail")
	}
}

func TestReadFileNotFound(t *testing.T) {
	if _, err := ReadFile("nonexistent.json"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestHelpers(t *testing.T) {
	s := twoNodeScene()

	idx := s.NodeIndex()
	if idx["g1n0"] != 1 {
		t.Errorf("NodeIndex[g1n0] = %d, want 1", idx["g1n0"])
	}
	if got := s.GroupNodes(0); len(got) != 1 || got[0].ID != "g0n0" {
		t.Errorf("GroupNodes(0) = %+v", got)
	}
	if s.Empty() {
		t.Error("Empty() = true for populated scene")
	}

	b := Bounds{Min: V(-1, -2, 0), Max: V(3, 2, 1)}
	if c := b.Center(); c != V(1, 0, 0.5) {
		t.Errorf("Center() = %+v", c)
	}
	if v := FromR3(V(1, 2, 3).R3()); v != V(1, 2, 3) {
		t.Errorf("R3 round trip = %+v", v)
	}
	if !RoleClassA.IsCluster() || RoleHidden.IsCluster() {
		t.Error("IsCluster misclassifies roles")
	}
}
