// Package dot exports the layer structure of a scene as a Graphviz graph.
//
// Where the svg package shows a frame of the 3D scene, a DOT export shows
// the connectivity: one cluster per layer, nodes colored by role and every
// weighted edge in its encoded color.
//
//	src, err := dot.ToDOT(&s)
//	svg, err := dot.RenderSVG(ctx, src)
//
// Rendering uses the WebAssembly build of Graphviz bundled by
// github.com/goccy/go-graphviz, so no system install is needed. PNG and PDF
// additionally require rsvg-convert.
package dot
