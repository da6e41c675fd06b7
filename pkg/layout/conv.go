package layout

import (
	"math/rand/v2"
	"strconv"

	"github.com/matzehuels/neuroscene/pkg/params"
	"github.com/matzehuels/neuroscene/pkg/scene"
)

// Block sizes of the convolutional stack.
var (
	convInputExtent  = scene.V(3, 3, 0.2)
	convOutputExtent = scene.V(1.5, 1.5, 0.5)
)

const (
	convInteriorSide  = 2.5 // x/y extent of the first interior block
	convMaxStep       = 0.2 // largest per-layer shrink of interior blocks
	convBaseThickness = 0.3
	convThicknessStep = 0.1
)

// Conv lays out a convolutional pipeline as one box per layer. Interior boxes
// shrink across the stack to suggest spatial downsampling.
type Conv struct {
	Spacing        float64
	MaxFeatureMaps int // cap on the stacked feature maps drawn behind a block
}

// DefaultConv returns the conv engine with the standard spacing and cap.
func DefaultConv() Conv {
	return Conv{Spacing: 5, MaxFeatureMaps: 8}
}

// Topology implements [Engine].
func (Conv) Topology() scene.Topology { return scene.TopologyConvolutional }

// Layout implements [Engine]. The conv stack involves no randomness.
func (e Conv) Layout(p params.Params, _ *rand.Rand) Layout {
	count := p.LayerCount
	out := Layout{Topology: scene.TopologyConvolutional}
	if count <= 0 {
		return out
	}

	depth := min(p.Neurons, e.MaxFeatureMaps)
	out.Groups = make([]Group, count)
	for i := range count {
		role := layerRole(i, count)
		extent := ConvExtent(i, count)
		n := scene.Node{
			ID:       NodeID(i, 0),
			Group:    i,
			Position: scene.V(stackAt(i, count, e.Spacing), 0, 0),
			Role:     role,
			SizeHint: max(extent.X, extent.Y) / 2,
			Color:    roleColor(role),
			Extent:   &extent,
		}
		if role == scene.RoleHidden {
			n.Depth = depth
		}
		out.Groups[i] = Group{Index: i, Role: role, Name: convName(role, i), Nodes: []scene.Node{n}}
	}
	return out
}

// ConvExtent returns the box size of layer i in a stack of count layers.
//
// Interior block j (j = i-1) has side 2.5 - j*step with
// step = min(0.2, 1/interiorCount), so sides decrease strictly from the 3.0
// input down to just above the 1.5 output for any stack height. Thickness
// grows by 0.1 per interior layer.
func ConvExtent(i, count int) scene.Vec3 {
	switch layerRole(i, count) {
	case scene.RoleInput:
		return convInputExtent
	case scene.RoleOutput:
		return convOutputExtent
	}
	interior := count - 2
	step := min(convMaxStep, 1/float64(interior))
	j := float64(i - 1)
	side := convInteriorSide - j*step
	return scene.V(side, side, convBaseThickness+j*convThicknessStep)
}

func convName(r scene.Role, i int) string {
	switch r {
	case scene.RoleInput:
		return "Input Image"
	case scene.RoleOutput:
		return "Output"
	default:
		return "Conv " + strconv.Itoa(i)
	}
}
