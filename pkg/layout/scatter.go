package layout

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/neuroscene/pkg/params"
	"github.com/matzehuels/neuroscene/pkg/scene"
)

// Cluster is the sampling box of one scatter class.
type Cluster struct {
	Role scene.Role
	Name string
	Min  scene.Vec3
	Max  scene.Vec3
}

// sample draws one point uniformly from the cluster box.
func (c Cluster) sample(rng *rand.Rand) scene.Vec3 {
	return scene.V(
		c.Min.X+rng.Float64()*(c.Max.X-c.Min.X),
		c.Min.Y+rng.Float64()*(c.Max.Y-c.Min.Y),
		c.Min.Z+rng.Float64()*(c.Max.Z-c.Min.Z),
	)
}

// Scatter lays out a two-class point cloud with a fixed decision boundary.
type Scatter struct {
	Clusters       []Cluster
	PointsPerUnit  int     // points per class = neurons * PointsPerUnit
	PointRadius    float64 // SizeHint of every point
	AxisHalfLength float64
}

// DefaultScatter returns the scatter engine with two separable classes: A in
// [-3,1]x[-3,1]x[-1,1] and B in [1,5]x[1,5]x[-1,1].
func DefaultScatter() Scatter {
	return Scatter{
		Clusters: []Cluster{
			{Role: scene.RoleClassA, Name: "Class A", Min: scene.V(-3, -3, -1), Max: scene.V(1, 1, 1)},
			{Role: scene.RoleClassB, Name: "Class B", Min: scene.V(1, 1, -1), Max: scene.V(5, 5, 1)},
		},
		PointsPerUnit:  5,
		PointRadius:    0.15,
		AxisHalfLength: 5,
	}
}

// Topology implements [Engine].
func (Scatter) Topology() scene.Topology { return scene.TopologyScatter }

// Layout implements [Engine]. Points are drawn class by class, x then y then z
// per point. The boundary and axes never depend on the points.
func (e Scatter) Layout(p params.Params, rng *rand.Rand) Layout {
	out := Layout{
		Topology: scene.TopologyScatter,
		Boundary: DecisionBoundary(),
		Axes: []scene.Axis{
			{From: scene.V(-e.AxisHalfLength, 0, 0), To: scene.V(e.AxisHalfLength, 0, 0), Color: scene.ColorAxis},
			{From: scene.V(0, -e.AxisHalfLength, 0), To: scene.V(0, e.AxisHalfLength, 0), Color: scene.ColorAxis},
		},
	}

	perClass := max(p.Neurons, 0) * e.PointsPerUnit
	if perClass == 0 {
		return out
	}

	out.Groups = make([]Group, len(e.Clusters))
	for gi, c := range e.Clusters {
		nodes := make([]scene.Node, perClass)
		for n := range perClass {
			nodes[n] = scene.Node{
				ID:       NodeID(gi, n),
				Group:    gi,
				Index:    n,
				Position: c.sample(rng),
				Role:     c.Role,
				SizeHint: e.PointRadius,
				Color:    roleColor(c.Role),
			}
		}
		out.Groups[gi] = Group{Index: gi, Role: c.Role, Name: c.Name, Nodes: nodes}
	}
	return out
}

// DecisionBoundary returns the static 10 x 0.1 plane through the origin,
// rotated 45 degrees about z.
func DecisionBoundary() *scene.Plane {
	return &scene.Plane{
		Width:     10,
		Height:    0.1,
		RotationZ: math.Pi / 4,
		Color:     scene.ColorBoundary,
		Opacity:   0.5,
	}
}
