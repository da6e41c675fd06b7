package layout

import (
	"math/rand/v2"
	"strconv"

	"github.com/matzehuels/neuroscene/pkg/params"
	"github.com/matzehuels/neuroscene/pkg/scene"
)

// Network lays out a feed-forward network as columns of spheres.
type Network struct {
	Spacing  float64 // horizontal distance between layers
	Vertical float64 // vertical distance between neurons in a layer
	Radius   float64 // sphere radius, stored as SizeHint
}

// DefaultNetwork returns the network engine with the standard spacing.
func DefaultNetwork() Network {
	return Network{Spacing: 4, Vertical: 1.2, Radius: 0.3}
}

// Topology implements [Engine].
func (Network) Topology() scene.Topology { return scene.TopologyNetwork }

// Layout implements [Engine]. Positions are fully determined by p; only the
// activation flags consume rng, one draw per node in group order.
func (e Network) Layout(p params.Params, rng *rand.Rand) Layout {
	count := p.LayerCount
	out := Layout{Topology: scene.TopologyNetwork}
	if count <= 0 || p.Neurons <= 0 {
		return out
	}

	edgeSize := EdgeLayerSize(p.Neurons)
	out.Groups = make([]Group, count)
	for i := range count {
		role := layerRole(i, count)
		size := p.Neurons
		if role != scene.RoleHidden {
			size = edgeSize
		}

		x := stackAt(i, count, e.Spacing)
		nodes := make([]scene.Node, size)
		for n := range size {
			nodes[n] = scene.Node{
				ID:        NodeID(i, n),
				Group:     i,
				Index:     n,
				Position:  scene.V(x, stackAt(n, size, e.Vertical), 0),
				Role:      role,
				Activated: rng.Float64() > 0.5,
				SizeHint:  e.Radius,
				Color:     roleColor(role),
			}
		}
		out.Groups[i] = Group{Index: i, Role: role, Name: networkName(role, i), Nodes: nodes}
	}
	return out
}

// EdgeLayerSize is the neuron count of the input and output layers:
// max(3, floor(neurons*0.6)).
func EdgeLayerSize(neurons int) int {
	return max(3, neurons*6/10)
}

func networkName(r scene.Role, i int) string {
	switch r {
	case scene.RoleInput:
		return "Input"
	case scene.RoleOutput:
		return "Output"
	default:
		return "Hidden " + strconv.Itoa(i)
	}
}
