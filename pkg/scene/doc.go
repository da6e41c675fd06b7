// Package scene defines the scene graph: the renderer-agnostic collection of
// positioned nodes, edges and labels produced by one generation pass.
//
// # Overview
//
// A [Scene] is the only thing that crosses from the layout engine to a
// renderer. It carries everything a renderer needs and nothing it must
// compute itself:
//
//   - [Node]: a neuron, a conv block or a scatter point, with position, role,
//     color and size hint
//   - [Edge]: a weighted connection between nodes of adjacent groups, with the
//     color and opacity derived from the weight
//   - [Label]: text anchored in scene space (group captions, title, readout)
//   - [Group]: per-layer or per-cluster summary with its bounds
//   - [Plane], [Axis]: decorations used by the scatter topology
//
// Scenes are values. A parameter change produces a new scene that replaces the
// old one wholesale; nothing is diffed or edited in place.
//
// # Coordinates
//
// All positions share one space. x runs along the layer stack and is centered
// on the origin, y is up, z points at the viewer.
//
// # JSON Format
//
//	{
//	  "topology": "network",
//	  "seed": 42,
//	  "params": {"learning_rate": 0.01, "layers": 3, ...},
//	  "groups": [{"index": 0, "role": "input", "name": "Input", "size": 3, ...}],
//	  "nodes": [{"id": "g0n0", "group": 0, "position": {"x": -4, "y": -1.2, "z": 0}, ...}],
//	  "edges": [{"from": "g0n0", "to": "g1n0", "weight": 0.42, "color": "#60a5fa", "opacity": 0.252}],
//	  "labels": [{"text": "Input", "kind": "group", ...}]
//	}
//
// Common operations:
//
//	s, _ := scene.ReadFile("scene.json")   // File → Scene (validated)
//	scene.WriteFile(s, "out.json")         // Scene → File
//	data, _ := scene.Marshal(s)            // Scene → []byte
//
// [Scene.Validate] checks that node IDs are unique and every edge refers to a
// known node. [Read] and [Unmarshal] always validate.
package scene
