package scene

import (
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/neuroscene/pkg/errors"
	"github.com/matzehuels/neuroscene/pkg/params"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Topology selects which of the three diagram shapes is generated.
type Topology string

// Topology kinds.
const (
	TopologyNetwork       Topology = "network"
	TopologyConvolutional Topology = "convolutional"
	TopologyScatter       Topology = "scatter"
)

// Topologies lists every topology kind in selector order.
var Topologies = []Topology{TopologyNetwork, TopologyConvolutional, TopologyScatter}

var topologyAliases = map[string]Topology{
	"network":       TopologyNetwork,
	"nn":            TopologyNetwork,
	"convolutional": TopologyConvolutional,
	"conv":          TopologyConvolutional,
	"cnn":           TopologyConvolutional,
	"scatter":       TopologyScatter,
	"classifier":    TopologyScatter,
}

// ParseTopology resolves a topology name or one of its short aliases.
func ParseTopology(s string) (Topology, error) {
	if t, ok := topologyAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return "", errors.New(errors.ErrCodeInvalidTopology,
		"unknown topology: %q (must be one of: network, convolutional, scatter)", s)
}

// Valid reports whether t is one of the canonical topology kinds.
func (t Topology) Valid() bool {
	switch t {
	case TopologyNetwork, TopologyConvolutional, TopologyScatter:
		return true
	}
	return false
}

// Role tags what a node stands for.
type Role string

// Node roles.
const (
	RoleInput  Role = "input"
	RoleHidden Role = "hidden"
	RoleOutput Role = "output"
	RoleClassA Role = "class_a"
	RoleClassB Role = "class_b"
)

// IsCluster reports whether r belongs to a scatter cluster rather than a layer.
func (r Role) IsCluster() bool { return r == RoleClassA || r == RoleClassB }

// LabelKind separates per-group captions from scene-wide text.
type LabelKind string

// Label kinds.
const (
	LabelGroup   LabelKind = "group"
	LabelTitle   LabelKind = "title"
	LabelReadout LabelKind = "readout"
)

// Palette shared by generators and renderers.
const (
	ColorInput     = "#10b981"
	ColorHidden    = "#8b5cf6"
	ColorOutput    = "#ef4444"
	ColorClassA    = "#3b82f6"
	ColorClassB    = "#ef4444"
	ColorPositive  = "#60a5fa"
	ColorNegative  = "#f87171"
	ColorBoundary  = "#8b5cf6"
	ColorAxis      = "#4b5563"
	ColorTitle     = "#a78bfa"
	ColorCaption   = "#9ca3af"
	ColorBlockText = "#ffffff"
	ColorFeature   = "#3b82f6"
)

// =============================================================================
// Geometry
// =============================================================================

// Vec3 is a point or extent in scene units. The x axis runs along the layer
// stack, y is up, z faces the viewer.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// V is shorthand for a Vec3 literal.
func V(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// R3 converts v for use with gonum's spatial routines.
func (v Vec3) R3() r3.Vec { return r3.Vec{X: v.X, Y: v.Y, Z: v.Z} }

// FromR3 converts a gonum vector back into scene coordinates.
func FromR3(v r3.Vec) Vec3 { return Vec3{X: v.X, Y: v.Y, Z: v.Z} }

// Add returns v+u.
func (v Vec3) Add(u Vec3) Vec3 { return Vec3{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z} }

// Bounds is an axis-aligned box.
type Bounds struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// Center returns the midpoint of b.
func (b Bounds) Center() Vec3 {
	return Vec3{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2, Z: (b.Min.Z + b.Max.Z) / 2}
}

// =============================================================================
// Node, Edge, Label
// =============================================================================

// Node is one positioned element: a neuron sphere, a conv block or a data point.
// Nodes are created once per generation pass and never mutated afterwards.
type Node struct {
	ID        string  `json:"id"`
	Group     int     `json:"group"`
	Index     int     `json:"index"`
	Position  Vec3    `json:"position"`
	Role      Role    `json:"role"`
	Activated bool    `json:"activated,omitempty"`
	SizeHint  float64 `json:"size_hint"`
	Color     string  `json:"color"`
	Extent    *Vec3   `json:"extent,omitempty"` // box size for conv blocks
	Depth     int     `json:"depth,omitempty"`  // stacked feature maps behind a conv block
}

// Edge connects two nodes of adjacent groups. Color and Opacity are derived
// from Weight when the edge is created.
type Edge struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	Weight  float64 `json:"weight"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// Label is a text annotation anchored in scene space.
type Label struct {
	Text     string    `json:"text"`
	Kind     LabelKind `json:"kind"`
	Position Vec3      `json:"position"`
	Size     float64   `json:"size"`
	Color    string    `json:"color"`
}

// Group summarizes one layer or cluster.
type Group struct {
	Index  int    `json:"index"`
	Role   Role   `json:"role"`
	Name   string `json:"name"`
	Size   int    `json:"size"`
	Bounds Bounds `json:"bounds"`

	Centroid Vec3    `json:"centroid"` // mean node position
	Spread   float64 `json:"spread"`   // mean node distance from Centroid
}

// =============================================================================
// Decorations
// =============================================================================

// Plane is the decision boundary of the scatter topology. It is decorative and
// does not depend on the point distribution.
type Plane struct {
	Center    Vec3    `json:"center"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Depth     float64 `json:"depth"`
	RotationZ float64 `json:"rotation_z"`
	Color     string  `json:"color"`
	Opacity   float64 `json:"opacity"`
}

// Axis is a straight reference line.
type Axis struct {
	From  Vec3   `json:"from"`
	To    Vec3   `json:"to"`
	Color string `json:"color"`
}

// =============================================================================
// Scene
// =============================================================================

// Scene is the renderer-agnostic output of one generation pass. A parameter
// change produces a new Scene; existing scenes are never edited.
type Scene struct {
	ID       string        `json:"id,omitempty"`
	Topology Topology      `json:"topology"`
	Seed     uint64        `json:"seed"`
	Params   params.Params `json:"params"`
	Groups   []Group       `json:"groups"`
	Nodes    []Node        `json:"nodes"`
	Edges    []Edge        `json:"edges"`
	Labels   []Label       `json:"labels"`
	Boundary *Plane        `json:"boundary,omitempty"`
	Axes     []Axis        `json:"axes,omitempty"`
}

// Empty reports whether the scene has nothing to draw.
func (s *Scene) Empty() bool { return len(s.Nodes) == 0 }

// NodeIndex maps node IDs to their position in s.Nodes.
func (s *Scene) NodeIndex() map[string]int {
	idx := make(map[string]int, len(s.Nodes))
	for i, n := range s.Nodes {
		idx[n.ID] = i
	}
	return idx
}

// GroupNodes returns the nodes of group g in index order.
func (s *Scene) GroupNodes(g int) []Node {
	var out []Node
	for _, n := range s.Nodes {
		if n.Group == g {
			out = append(out, n)
		}
	}
	return out
}

// Validate checks structural consistency: unique node IDs, group indices that
// exist, and edges whose endpoints are known nodes.
func (s *Scene) Validate() error {
	if !s.Topology.Valid() {
		return errors.New(errors.ErrCodeInvalidTopology, "unknown topology: %q", s.Topology)
	}
	seen := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "node with empty id")
		}
		if seen[n.ID] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate node id: %s", n.ID)
		}
		seen[n.ID] = true
		if n.Group < 0 || n.Group >= len(s.Groups) {
			return errors.New(errors.ErrCodeInvalidInput, "node %s references unknown group %d", n.ID, n.Group)
		}
	}
	for _, e := range s.Edges {
		if !seen[e.From] {
			return errors.New(errors.ErrCodeInvalidInput, "edge references unknown node: %s", e.From)
		}
		if !seen[e.To] {
			return errors.New(errors.ErrCodeInvalidInput, "edge references unknown node: %s", e.To)
		}
	}
	return nil
}
