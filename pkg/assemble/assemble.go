// Package assemble composes a layout and its edges into a labeled scene.
package assemble

import (
	"fmt"
	"strings"

	"github.com/matzehuels/neuroscene/pkg/layout"
	"github.com/matzehuels/neuroscene/pkg/params"
	"github.com/matzehuels/neuroscene/pkg/scene"
)

// Label sizes.
const (
	GroupLabelSize   = 0.4
	TitleLabelSize   = 0.5
	ReadoutLabelSize = 0.3
)

// Vertical offsets of labels relative to the geometry they annotate.
const (
	networkLabelLift = 1.5 // above the top neuron
	convLabelLift    = 0.8 // above the block's top face
	readoutDrop      = 0.8 // below the title
)

// Title baselines per topology.
var titleY = map[scene.Topology]float64{
	scene.TopologyNetwork:       -6,
	scene.TopologyConvolutional: -4,
	scene.TopologyScatter:       -6,
}

// Cluster captions sit outside the sampling boxes: Class A below-left of its
// box, Class B above-right of the origin.
var clusterLabelAt = map[scene.Role]scene.Vec3{
	scene.RoleClassA: {X: -4, Y: -4.5},
	scene.RoleClassB: {X: 3, Y: 4.5},
}

// Assemble builds the scene for a layout. Nodes are flattened in group order,
// edges are kept in the order given, and labels are attached: one caption per
// group, then the title, then the learning-rate readout.
//
// A layout without nodes yields an empty but well-formed scene (no labels or
// decorations) so a renderer can draw nothing instead of failing.
func Assemble(l layout.Layout, edges []scene.Edge, p params.Params) scene.Scene {
	s := scene.Scene{
		Topology: l.Topology,
		Params:   p,
		Groups:   []scene.Group{},
		Nodes:    []scene.Node{},
		Edges:    []scene.Edge{},
		Labels:   []scene.Label{},
	}
	if l.Empty() {
		return s
	}

	s.Nodes = make([]scene.Node, 0, l.NodeCount())
	s.Groups = make([]scene.Group, 0, len(l.Groups))
	for _, g := range l.Groups {
		s.Groups = append(s.Groups, scene.Group{
			Index:    g.Index,
			Role:     g.Role,
			Name:     g.Name,
			Size:     len(g.Nodes),
			Bounds:   g.Bounds(),
			Centroid: g.Center(),
			Spread:   g.Spread(),
		})
		s.Nodes = append(s.Nodes, g.Nodes...)
		if lbl, ok := groupLabel(l.Topology, g); ok {
			s.Labels = append(s.Labels, lbl)
		}
	}
	s.Edges = append(s.Edges, edges...)

	y := titleY[l.Topology]
	s.Labels = append(s.Labels,
		scene.Label{
			Text:     Title(l.Topology, p),
			Kind:     scene.LabelTitle,
			Position: scene.V(0, y, 0),
			Size:     TitleLabelSize,
			Color:    scene.ColorTitle,
		},
		scene.Label{
			Text:     Readout(p),
			Kind:     scene.LabelReadout,
			Position: scene.V(0, y-readoutDrop, 0),
			Size:     ReadoutLabelSize,
			Color:    scene.ColorCaption,
		},
	)

	s.Boundary = l.Boundary
	s.Axes = l.Axes
	return s
}

// Title returns the scene-wide heading for a topology.
func Title(t scene.Topology, p params.Params) string {
	switch t {
	case scene.TopologyNetwork:
		return "Activation: " + strings.ToUpper(string(p.Activation))
	case scene.TopologyConvolutional:
		return "Convolutional Neural Network (CNN)"
	case scene.TopologyScatter:
		return "Classification Algorithm"
	}
	return ""
}

// Readout formats the decorative training parameters.
func Readout(p params.Params) string {
	return fmt.Sprintf("Learning Rate: %.3f | Epochs: %d", p.LearningRate, p.Epochs)
}

func groupLabel(t scene.Topology, g layout.Group) (scene.Label, bool) {
	lbl := scene.Label{Text: g.Name, Kind: scene.LabelGroup, Size: GroupLabelSize}

	switch t {
	case scene.TopologyNetwork:
		top, ok := g.Top()
		if !ok {
			return lbl, false
		}
		lbl.Position = scene.V(top.Position.X, top.Position.Y+networkLabelLift, 0)
		lbl.Color = scene.ColorCaption
	case scene.TopologyConvolutional:
		if len(g.Nodes) == 0 {
			return lbl, false
		}
		b := g.Nodes[0]
		half := b.SizeHint
		if b.Extent != nil {
			half = b.Extent.Y / 2
		}
		lbl.Position = scene.V(b.Position.X, b.Position.Y+half+convLabelLift, 0)
		lbl.Color = scene.ColorBlockText
	case scene.TopologyScatter:
		at, ok := clusterLabelAt[g.Role]
		if !ok {
			return lbl, false
		}
		lbl.Position = at
		if len(g.Nodes) > 0 {
			lbl.Color = g.Nodes[0].Color
		}
	default:
		return lbl, false
	}
	return lbl, true
}
