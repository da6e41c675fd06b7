// Package connect derives the weighted edges between adjacent layer groups.
//
// Every node of group i is joined to every node of group i+1. Weights are
// drawn uniformly from [-1, 1) and multiplied by learningRate*100. That factor
// is decorative: it makes the learning-rate control visibly change the
// diagram and has nothing to do with real gradient magnitudes.
package connect

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/neuroscene/pkg/layout"
	"github.com/matzehuels/neuroscene/pkg/scene"
)

// MaxOpacity is the opacity of an edge whose |weight| is 1 or more.
const MaxOpacity = 0.6

// Connect returns the fully connected bipartite edge set between adjacent
// groups, in group order then source order then target order. Pairs that
// involve a scatter cluster produce no edges. One weight is drawn from rng per
// edge.
func Connect(groups []layout.Group, learningRate float64, rng *rand.Rand) []scene.Edge {
	edges := make([]scene.Edge, 0, Count(groups))
	scale := learningRate * 100
	for i := 0; i+1 < len(groups); i++ {
		from, to := groups[i], groups[i+1]
		if !connectable(from, to) {
			continue
		}
		for _, a := range from.Nodes {
			for _, b := range to.Nodes {
				w := (rng.Float64()*2 - 1) * scale
				color, opacity := Encode(w)
				edges = append(edges, scene.Edge{
					From:    a.ID,
					To:      b.ID,
					Weight:  w,
					Color:   color,
					Opacity: opacity,
				})
			}
		}
	}
	return edges
}

// Count returns how many edges [Connect] will produce for groups.
func Count(groups []layout.Group) int {
	n := 0
	for i := 0; i+1 < len(groups); i++ {
		if connectable(groups[i], groups[i+1]) {
			n += len(groups[i].Nodes) * len(groups[i+1].Nodes)
		}
	}
	return n
}

// Encode maps a weight to its visual encoding: positive weights are blue,
// zero and negative weights red, and opacity is clamp(|w|, 0, 1) * 0.6.
func Encode(weight float64) (color string, opacity float64) {
	color = scene.ColorNegative
	if weight > 0 {
		color = scene.ColorPositive
	}
	return color, min(math.Abs(weight), 1) * MaxOpacity
}

func connectable(a, b layout.Group) bool {
	return !a.Role.IsCluster() && !b.Role.IsCluster()
}
