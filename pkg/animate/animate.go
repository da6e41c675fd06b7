// Package animate computes per-frame transforms from elapsed time.
//
// Every function here is pure: it reads the elapsed seconds (and, for
// [Node], the node being drawn) and returns a [Transform] value. Nothing in a
// scene is ever mutated; a renderer applies the transform on top of the static
// layout each frame. No function allocates.
package animate

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/neuroscene/pkg/scene"
)

// Transform is a uniform scale, rotations about the three axes (applied y, x,
// z) and a translation. The zero value is not the identity; use [Identity].
type Transform struct {
	RotationX float64    `json:"rotation_x"`
	RotationY float64    `json:"rotation_y"`
	RotationZ float64    `json:"rotation_z"`
	Scale     float64    `json:"scale"`
	Offset    scene.Vec3 `json:"offset"`
}

// Identity leaves points unchanged.
func Identity() Transform { return Transform{Scale: 1} }

// Oscillation constants per topology.
const (
	networkSwayFreq = 0.2
	networkSwayAmp  = 0.1
	convSwayFreq    = 0.3
	convSwayAmp     = 0.15

	// ScatterSpin is the steady group rotation of the scatter view in rad/s.
	ScatterSpin = 0.12

	pulseFreq = 3.0
	pulseAmp  = 0.2

	blockWobbleFreq = 0.5
	blockWobbleAmp  = 0.1

	bobFreq = 2.0
	bobAmp  = 0.06

	boundaryWobbleFreq = 0.5
	boundaryWobbleAmp  = 0.1
)

// Group returns the whole-scene transform at t seconds.
// Network and conv sway about y; scatter turns continuously.
func Group(kind scene.Topology, t float64) Transform {
	tr := Identity()
	switch kind {
	case scene.TopologyNetwork:
		tr.RotationY = math.Sin(t*networkSwayFreq) * networkSwayAmp
	case scene.TopologyConvolutional:
		tr.RotationY = math.Sin(t*convSwayFreq) * convSwayAmp
	case scene.TopologyScatter:
		tr.RotationY = t * ScatterSpin
	}
	return tr
}

// Node returns the local transform of one node at t seconds, applied about
// the node's own position.
//
// Activated network neurons pulse in size, conv blocks wobble about y and
// scatter points bob vertically with a phase taken from their x coordinate.
func Node(kind scene.Topology, n scene.Node, t float64) Transform {
	tr := Identity()
	switch kind {
	case scene.TopologyNetwork:
		if n.Activated {
			tr.Scale = Pulse(t)
		}
	case scene.TopologyConvolutional:
		tr.RotationY = math.Sin(t*blockWobbleFreq) * blockWobbleAmp
	case scene.TopologyScatter:
		tr.Offset.Y = Bob(t, n.Position.X)
	}
	return tr
}

// Pulse is the scale factor of an activated neuron: 1 + sin(3t)*0.2.
func Pulse(t float64) float64 {
	return 1 + math.Sin(t*pulseFreq)*pulseAmp
}

// Bob is the vertical displacement of a scatter point at x.
//
// A nudge of sin(2t+x)*0.002 per frame at 60fps integrates to
// -0.06*cos(2t+x) around the sampled position.
func Bob(t, x float64) float64 {
	return -bobAmp * math.Cos(bobFreq*t+x)
}

// Boundary returns the local transform of the decision plane at t seconds.
// The wobble is added to the plane's static 45 degree tilt.
func Boundary(t float64) Transform {
	tr := Identity()
	tr.RotationZ = math.Sin(t*boundaryWobbleFreq) * boundaryWobbleAmp
	return tr
}

// Apply maps p through tr about pivot: scale, then rotate about y, x and z,
// then translate by the offset.
func Apply(tr Transform, pivot, p scene.Vec3) scene.Vec3 {
	c := pivot.R3()
	v := r3.Scale(tr.Scale, r3.Sub(p.R3(), c))
	if tr.RotationY != 0 {
		v = r3.NewRotation(tr.RotationY, r3.Vec{Y: 1}).Rotate(v)
	}
	if tr.RotationX != 0 {
		v = r3.NewRotation(tr.RotationX, r3.Vec{X: 1}).Rotate(v)
	}
	if tr.RotationZ != 0 {
		v = r3.NewRotation(tr.RotationZ, r3.Vec{Z: 1}).Rotate(v)
	}
	return scene.FromR3(r3.Add(r3.Add(v, c), tr.Offset.R3()))
}

// Compose merges two transforms that share a pivot. Angles and offsets add,
// scales multiply. This is exact when both rotate about the same single axis.
func Compose(outer, inner Transform) Transform {
	return Transform{
		RotationX: outer.RotationX + inner.RotationX,
		RotationY: outer.RotationY + inner.RotationY,
		RotationZ: outer.RotationZ + inner.RotationZ,
		Scale:     outer.Scale * inner.Scale,
		Offset:    outer.Offset.Add(inner.Offset),
	}
}
