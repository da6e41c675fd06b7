package layout

import (
	"math"
	"math/rand/v2"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/neuroscene/pkg/errors"
	"github.com/matzehuels/neuroscene/pkg/params"
	"github.com/matzehuels/neuroscene/pkg/scene"
)

// Engine places the nodes of one topology kind.
//
// Layout must treat p as already clamped and must draw every random value from
// rng so that a fixed seed reproduces the same nodes.
type Engine interface {
	Topology() scene.Topology
	Layout(p params.Params, rng *rand.Rand) Layout
}

// Group is one layer (network, conv) or one cluster (scatter) together with
// the nodes it owns.
type Group struct {
	Index int
	Role  scene.Role
	Name  string
	Nodes []scene.Node
}

// Layout is the positioned, unconnected result of an [Engine].
type Layout struct {
	Topology scene.Topology
	Groups   []Group
	Boundary *scene.Plane
	Axes     []scene.Axis
}

// NodeCount returns the total number of nodes across all groups.
func (l Layout) NodeCount() int {
	n := 0
	for _, g := range l.Groups {
		n += len(g.Nodes)
	}
	return n
}

// Empty reports whether the layout has no nodes at all.
func (l Layout) Empty() bool { return l.NodeCount() == 0 }

// For returns the default engine for a topology kind.
func For(t scene.Topology) (Engine, error) {
	switch t {
	case scene.TopologyNetwork:
		return DefaultNetwork(), nil
	case scene.TopologyConvolutional:
		return DefaultConv(), nil
	case scene.TopologyScatter:
		return DefaultScatter(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidTopology, "unknown topology: %q", t)
}

// NewRand returns a deterministic source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// =============================================================================
// Shared helpers
// =============================================================================

// stackStart returns the coordinate of the first of count items spaced evenly
// so the whole run is centered on the origin.
func stackStart(count int, spacing float64) float64 {
	return -(float64(count-1) * spacing) / 2
}

// stackAt returns the centered coordinate of item i in a run of count.
func stackAt(i, count int, spacing float64) float64 {
	return stackStart(count, spacing) + float64(i)*spacing
}

// layerRole assigns input/hidden/output by position in the stack.
func layerRole(i, count int) scene.Role {
	switch {
	case i == 0:
		return scene.RoleInput
	case i == count-1:
		return scene.RoleOutput
	default:
		return scene.RoleHidden
	}
}

func roleColor(r scene.Role) string {
	switch r {
	case scene.RoleInput:
		return scene.ColorInput
	case scene.RoleOutput:
		return scene.ColorOutput
	case scene.RoleClassA:
		return scene.ColorClassA
	case scene.RoleClassB:
		return scene.ColorClassB
	default:
		return scene.ColorHidden
	}
}

// NodeID is the stable identifier of node n in group g.
func NodeID(g, n int) string {
	return "g" + strconv.Itoa(g) + "n" + strconv.Itoa(n)
}

// Center returns the mean position of the group's nodes.
func (g Group) Center() scene.Vec3 {
	if len(g.Nodes) == 0 {
		return scene.Vec3{}
	}
	xs := make([]float64, len(g.Nodes))
	ys := make([]float64, len(g.Nodes))
	zs := make([]float64, len(g.Nodes))
	for i, n := range g.Nodes {
		xs[i], ys[i], zs[i] = n.Position.X, n.Position.Y, n.Position.Z
	}
	return scene.V(stat.Mean(xs, nil), stat.Mean(ys, nil), stat.Mean(zs, nil))
}

// Spread returns the mean distance of the group's nodes from [Group.Center].
func (g Group) Spread() float64 {
	if len(g.Nodes) == 0 {
		return 0
	}
	c := g.Center().R3()
	ds := make([]float64, len(g.Nodes))
	for i, n := range g.Nodes {
		ds[i] = r3.Norm(r3.Sub(n.Position.R3(), c))
	}
	return stat.Mean(ds, nil)
}

// Bounds returns the axis-aligned box enclosing every node of the group,
// including sphere radius or block extent.
func (g Group) Bounds() scene.Bounds {
	if len(g.Nodes) == 0 {
		return scene.Bounds{}
	}
	lo := scene.V(math.Inf(1), math.Inf(1), math.Inf(1))
	hi := scene.V(math.Inf(-1), math.Inf(-1), math.Inf(-1))
	for _, n := range g.Nodes {
		half := scene.V(n.SizeHint, n.SizeHint, n.SizeHint)
		if n.Extent != nil {
			half = scene.V(n.Extent.X/2, n.Extent.Y/2, n.Extent.Z/2)
		}
		p := n.Position
		lo = scene.V(min(lo.X, p.X-half.X), min(lo.Y, p.Y-half.Y), min(lo.Z, p.Z-half.Z))
		hi = scene.V(max(hi.X, p.X+half.X), max(hi.Y, p.Y+half.Y), max(hi.Z, p.Z+half.Z))
	}
	return scene.Bounds{Min: lo, Max: hi}
}

// Top returns the highest node of the group, or false when it is empty.
func (g Group) Top() (scene.Node, bool) {
	if len(g.Nodes) == 0 {
		return scene.Node{}, false
	}
	top := g.Nodes[0]
	for _, n := range g.Nodes[1:] {
		if n.Position.Y > top.Position.Y {
			top = n
		}
	}
	return top, true
}
