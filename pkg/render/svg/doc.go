// Package svg renders a single animation frame of a scene as SVG.
//
// Scenes are three-dimensional; the renderer applies the group and node
// transforms from [animate] for the requested time and then flattens every
// point with a cabinet-style oblique projection (see [Project]). Spheres
// become circles, conv blocks become three visible faces plus their stacked
// feature maps, and everything is painted back to front.
//
//	data := svg.Render(s, svg.WithTime(2), svg.WithSize(1200, 800))
//
// The output is a static snapshot. Interactive viewing belongs to a real 3D
// renderer consuming the scene JSON.
//
// [animate]: github.com/matzehuels/neuroscene/pkg/animate
package svg
