package svg

import (
	"math"

	"github.com/matzehuels/neuroscene/pkg/animate"
	"github.com/matzehuels/neuroscene/pkg/scene"
)

type point struct{ X, Y float64 }

type line struct {
	A, B    point
	Stroke  string
	Opacity float64
	Width   float64
}

// shape is a filled circle, or a polygon when Poly is set. Shapes are
// painted back to front by Depth.
type shape struct {
	Depth   float64
	Center  point
	Radius  float64
	Poly    []point
	Fill    string
	Opacity float64
}

type text struct {
	At   point
	Text string
	Size float64
	Fill string
}

// drawing is a scene frame flattened to 2D primitives in scene units.
type drawing struct {
	lines  []line
	shapes []shape
	texts  []text
}

func (d *drawing) extent() (minX, minY, maxX, maxY float64) {
	first := true
	add := func(p point, r float64) {
		if first {
			minX, minY, maxX, maxY = p.X-r, p.Y-r, p.X+r, p.Y+r
			first = false
			return
		}
		minX, minY = math.Min(minX, p.X-r), math.Min(minY, p.Y-r)
		maxX, maxY = math.Max(maxX, p.X+r), math.Max(maxY, p.Y+r)
	}
	for _, l := range d.lines {
		add(l.A, 0)
		add(l.B, 0)
	}
	for _, s := range d.shapes {
		if s.Poly == nil {
			add(s.Center, s.Radius)
		}
		for _, p := range s.Poly {
			add(p, 0)
		}
	}
	for _, t := range d.texts {
		add(t.At, t.Size)
	}
	return minX, minY, maxX, maxY
}

// Box faces visible from the viewing direction, as corner sign patterns.
var (
	faceFront = [4][3]float64{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}
	faceTop   = [4][3]float64{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}}
	faceRight = [4][3]float64{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}}
)

func build(s *scene.Scene, t float64) drawing {
	var d drawing
	origin := scene.Vec3{}
	group := animate.Group(s.Topology, t)
	world := func(p scene.Vec3) scene.Vec3 { return animate.Apply(group, origin, p) }

	idx := s.NodeIndex()
	for _, e := range s.Edges {
		a, b := s.Nodes[idx[e.From]], s.Nodes[idx[e.To]]
		d.lines = append(d.lines, line{
			A: project(world(a.Position)), B: project(world(b.Position)),
			Stroke: e.Color, Opacity: e.Opacity, Width: edgeWidth,
		})
	}
	for _, ax := range s.Axes {
		d.lines = append(d.lines, line{
			A: project(world(ax.From)), B: project(world(ax.To)),
			Stroke: ax.Color, Opacity: 1, Width: axisWidth,
		})
	}

	if s.Boundary != nil {
		d.shapes = append(d.shapes, boundaryShape(*s.Boundary, t, world))
	}

	for _, n := range s.Nodes {
		local := animate.Node(s.Topology, n, t)
		if n.Extent != nil {
			d.shapes = append(d.shapes, blockShapes(n, local, world)...)
			continue
		}
		c := world(animate.Apply(local, n.Position, n.Position))
		d.shapes = append(d.shapes, shape{
			Depth:   c.Z,
			Center:  project(c),
			Radius:  n.SizeHint * animate.Compose(group, local).Scale,
			Fill:    n.Color,
			Opacity: 1,
		})
	}

	for _, l := range s.Labels {
		d.texts = append(d.texts, text{At: project(world(l.Position)), Text: l.Text, Size: l.Size, Fill: l.Color})
	}
	return d
}

func project(p scene.Vec3) point {
	x, y := Project(p)
	return point{x, y}
}

// blockShapes draws a conv block as three visible faces, with its stacked
// feature maps as thin slabs behind it.
func blockShapes(n scene.Node, local animate.Transform, world func(scene.Vec3) scene.Vec3) []shape {
	half := scene.V(n.Extent.X/2, n.Extent.Y/2, n.Extent.Z/2)
	out := make([]shape, 0, n.Depth+3)

	for k := n.Depth; k >= 1; k-- {
		center := n.Position
		center.Z -= half.Z + float64(k)*featureSpacing
		slab := scene.V(half.X, half.Y, 0)
		out = append(out, face(center, slab, faceFront, n.Position, local, world, scene.ColorFeature, featureOpacity))
	}

	out = append(out,
		face(n.Position, half, faceRight, n.Position, local, world, n.Color, 0.7),
		face(n.Position, half, faceTop, n.Position, local, world, n.Color, 0.6),
		face(n.Position, half, faceFront, n.Position, local, world, n.Color, 0.85),
	)
	return out
}

func face(center, half scene.Vec3, corners [4][3]float64, pivot scene.Vec3, local animate.Transform,
	world func(scene.Vec3) scene.Vec3, fill string, opacity float64) shape {
	pts := make([]point, 4)
	depth := 0.0
	for i, c := range corners {
		p := scene.V(center.X+c[0]*half.X, center.Y+c[1]*half.Y, center.Z+c[2]*half.Z)
		w := world(animate.Apply(local, pivot, p))
		pts[i] = project(w)
		depth += w.Z / 4
	}
	return shape{Depth: depth, Poly: pts, Fill: fill, Opacity: opacity}
}

func boundaryShape(pl scene.Plane, t float64, world func(scene.Vec3) scene.Vec3) shape {
	static := animate.Identity()
	static.RotationZ = pl.RotationZ
	tilt := animate.Compose(animate.Boundary(t), static)

	hw, hh := pl.Width/2, pl.Height/2
	corners := [4]scene.Vec3{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
	pts := make([]point, 4)
	depth := 0.0
	for i, c := range corners {
		w := world(animate.Apply(tilt, scene.Vec3{}, c).Add(pl.Center))
		pts[i] = project(w)
		depth += w.Z / 4
	}
	return shape{Depth: depth, Poly: pts, Fill: pl.Color, Opacity: pl.Opacity}
}
