// Package layout maps a parameter record to node positions for one topology.
//
// Each topology kind is an [Engine]: [Network] stacks columns of spheres,
// [Conv] stacks shrinking boxes, and [Scatter] samples two point clusters.
// The result is a [Layout] of groups, each owning its nodes, plus the
// decorations a topology needs (the decision boundary and axes of the
// scatter view). Edges and labels are added later by the connect and
// assemble packages.
//
// # Horizontal placement
//
// Layer stacks are centered on the origin: group i sits at
// x = -((count-1)*S)/2 + i*S, so the first and last groups mirror each other.
// Neurons in a network column use the same rule vertically.
//
// # Randomness
//
// Engines never create their own randomness. The network engine draws one
// value per node for its activation flag and the scatter engine draws three
// per point; every other coordinate is a pure function of the parameters.
// Pass the same [NewRand] seed to get identical nodes:
//
//	eng, _ := layout.For(scene.TopologyNetwork)
//	l := eng.Layout(params.Default(), layout.NewRand(42))
//
// Engines assume clamped parameters. A zero layer or neuron count yields an
// empty layout rather than an error.
package layout
