package animate

import (
	"math"
	"testing"

	"github.com/matzehuels/neuroscene/pkg/scene"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func nearVec(a, b scene.Vec3) bool { return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z) }

func TestGroup(t *testing.T) {
	tests := []struct {
		kind scene.Topology
		t    float64
		want float64
	}{
		{scene.TopologyNetwork, 0, 0},
		{scene.TopologyNetwork, 2.5 * math.Pi, 0.1},
		{scene.TopologyConvolutional, 5 * math.Pi / 3, 0.15},
		{scene.TopologyScatter, 10, 1.2},
		{"unknown", 10, 0},
	}

	for _, tt := range tests {
		got := Group(tt.kind, tt.t)
		if !near(got.RotationY, tt.want) {
			t.Errorf("Group(%s, %v).RotationY = %v, want %v", tt.kind, tt.t, got.RotationY, tt.want)
		}
		if got.Scale != 1 {
			t.Errorf("Group(%s) scale = %v, want 1", tt.kind, got.Scale)
		}
	}
}

func TestGroupSwayBounded(t *testing.T) {
	for ts := 0.0; ts < 120; ts += 0.37 {
		if r := Group(scene.TopologyNetwork, ts).RotationY; math.Abs(r) > 0.1+eps {
			t.Fatalf("network sway %v exceeds 0.1", r)
		}
		if r := Group(scene.TopologyConvolutional, ts).RotationY; math.Abs(r) > 0.15+eps {
			t.Fatalf("conv sway %v exceeds 0.15", r)
		}
	}
}

func TestNodePulse(t *testing.T) {
	on := scene.Node{Activated: true}
	off := scene.Node{Activated: false}

	peak := math.Pi / 6 // sin(3t) = 1
	if s := Node(scene.TopologyNetwork, on, peak).Scale; !near(s, 1.2) {
		t.Errorf("activated scale at peak = %v, want 1.2", s)
	}
	if s := Node(scene.TopologyNetwork, off, peak).Scale; s != 1 {
		t.Errorf("inactive scale = %v, want 1", s)
	}
	for ts := 0.0; ts < 30; ts += 0.11 {
		if s := Pulse(ts); s < 0.8-eps || s > 1.2+eps {
			t.Fatalf("Pulse(%v) = %v outside [0.8, 1.2]", ts, s)
		}
	}
}

func TestNodeConvWobble(t *testing.T) {
	got := Node(scene.TopologyConvolutional, scene.Node{}, math.Pi)
	if !near(got.RotationY, 0.1) {
		t.Errorf("conv wobble = %v, want 0.1", got.RotationY)
	}
}

func TestNodeScatterBob(t *testing.T) {
	n := scene.Node{Position: scene.V(0.5, 1, 0)}
	got := Node(scene.TopologyScatter, n, 0)
	if want := -0.06 * math.Cos(0.5); !near(got.Offset.Y, want) {
		t.Errorf("bob = %v, want %v", got.Offset.Y, want)
	}
	if got.Offset.X != 0 || got.Offset.Z != 0 {
		t.Errorf("bob moved off the y axis: %+v", got.Offset)
	}
	for ts := 0.0; ts < 60; ts += 0.5 {
		if b := Bob(ts, 2); math.Abs(b) > 0.06+eps {
			t.Fatalf("Bob(%v) = %v exceeds amplitude", ts, b)
		}
	}
}

func TestBoundary(t *testing.T) {
	if r := Boundary(math.Pi).RotationZ; !near(r, 0.1) {
		t.Errorf("Boundary(pi).RotationZ = %v, want 0.1", r)
	}
	if r := Boundary(0).RotationZ; r != 0 {
		t.Errorf("Boundary(0).RotationZ = %v, want 0", r)
	}
}

func TestNodeDoesNotMutate(t *testing.T) {
	n := scene.Node{ID: "a", Position: scene.V(1, 2, 3), Activated: true}
	before := n
	_ = Node(scene.TopologyScatter, n, 4)
	_ = Node(scene.TopologyNetwork, n, 4)
	if n != before {
		t.Error("Node mutated its argument")
	}
}

func TestApply(t *testing.T) {
	origin := scene.Vec3{}
	tests := []struct {
		name  string
		tr    Transform
		pivot scene.Vec3
		p     scene.Vec3
		want  scene.Vec3
	}{
		{"identity", Identity(), origin, scene.V(1, 2, 3), scene.V(1, 2, 3)},
		{"scale about pivot", Transform{Scale: 2}, scene.V(1, 1, 1), scene.V(2, 1, 1), scene.V(3, 1, 1)},
		{"quarter turn about z", Transform{Scale: 1, RotationZ: math.Pi / 2}, origin, scene.V(1, 0, 0), scene.V(0, 1, 0)},
		{"quarter turn about y", Transform{Scale: 1, RotationY: math.Pi / 2}, origin, scene.V(0, 0, 1), scene.V(1, 0, 0)},
		{"offset", Transform{Scale: 1, Offset: scene.V(0, -0.5, 0)}, origin, scene.V(1, 1, 1), scene.V(1, 0.5, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply(tt.tr, tt.pivot, tt.p); !nearVec(got, tt.want) {
				t.Errorf("Apply() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCompose(t *testing.T) {
	a := Transform{Scale: 2, RotationY: 0.1, Offset: scene.V(0, 1, 0)}
	b := Transform{Scale: 1.5, RotationY: 0.2, Offset: scene.V(1, 0, 0)}
	got := Compose(a, b)
	if !near(got.Scale, 3) || !near(got.RotationY, 0.3) || got.Offset != scene.V(1, 1, 0) {
		t.Errorf("Compose() = %+v", got)
	}
	if Compose(Identity(), a) != a {
		t.Error("Identity is not neutral")
	}
}

func TestNoAllocations(t *testing.T) {
	n := scene.Node{Position: scene.V(1, 0, 0), Activated: true}
	allocs := testing.AllocsPerRun(100, func() {
		_ = Group(scene.TopologyScatter, 1.5)
		_ = Node(scene.TopologyNetwork, n, 1.5)
		_ = Node(scene.TopologyScatter, n, 1.5)
		_ = Boundary(1.5)
	})
	if allocs != 0 {
		t.Errorf("per-frame functions allocated %v times", allocs)
	}
}
