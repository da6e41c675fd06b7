// Package render turns scenes into files.
//
// # Overview
//
// A [scene.Scene] is renderer-agnostic: positions, colors, labels. The
// subpackages project it into static artifacts:
//
//   - [svg]: an oblique projection of one animation frame
//   - [dot]: a Graphviz digraph of the layer structure
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg).
//
//	data := svg.Render(s, svg.WithTime(1.5))
//	pdf, err := render.ToPDF(ctx, data)
//	png, err := render.ToPNG(ctx, data, 2.0)
//
// [scene.Scene]: github.com/matzehuels/neuroscene/pkg/scene.Scene
// [svg]: github.com/matzehuels/neuroscene/pkg/render/svg
// [dot]: github.com/matzehuels/neuroscene/pkg/render/dot
package render
