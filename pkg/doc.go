// Package pkg provides the public libraries behind neuroscene, a procedural
// generator of animated 3D machine-learning diagrams.
//
// # Overview
//
// A scene is built from a parameter record and a topology in four pure steps
// and then rendered. The same inputs plus a pinned seed always produce the
// same scene:
//
//	params → layout → connect → assemble → (animate, render)
//
// # Quick Start
//
// Build a scene and render it to SVG:
//
//	import (
//	    "context"
//
//	    "github.com/matzehuels/neuroscene/pkg/params"
//	    "github.com/matzehuels/neuroscene/pkg/pipeline"
//	    "github.com/matzehuels/neuroscene/pkg/scene"
//	)
//
//	p := params.Default()
//	p.LayerCount = 4
//
//	s, _ := pipeline.Build(scene.TopologyNetwork, p, 42)
//	artifacts, _ := pipeline.Render(context.Background(), &s, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//
// # Main Packages
//
// ## Scene Construction
//
// [params] - The tunable parameter record, its ranges and clamping.
//
// [layout] - Node placement per topology: stacked sphere columns for a
// network, feature-map slabs for a conv net, seeded clusters for a scatter.
//
// [connect] - Weighted edges between adjacent layer groups.
//
// [assemble] - Composes layout and edges into a [scene.Scene] with labels,
// title and parameter readout.
//
// [animate] - Pure per-frame transforms from elapsed time.
//
// [scene] - The scene model and its JSON serialization.
//
// ## Output
//
// [render] - Artifact conversion helpers shared by the sinks.
//
//   - [render/svg]: orthographic SVG projection of a frame
//   - [render/dot]: Graphviz export of the layer graph
//
// ## Infrastructure
//
// [pipeline] - Build and render with optional caching, used by the CLI and
// the HTTP server so both behave the same.
//
// [cache] - File, Redis and null cache backends with scoped keys.
//
// [session] - Named tuning sessions persisted between runs.
//
// [observability] - Hooks for pipeline events; [observability/prom] exports
// them as Prometheus metrics.
//
// [errors] - Coded errors shared across packages.
//
// [buildinfo] - Version information stamped at build time.
//
// # Testing
//
//	go test ./pkg/...
//
// [params]: https://pkg.go.dev/github.com/matzehuels/neuroscene/pkg/params
// [layout]: https://pkg.go.dev/github.com/matzehuels/neuroscene/pkg/layout
// [connect]: https://pkg.go.dev/github.com/matzehuels/neuroscene/pkg/connect
// [assemble]: https://pkg.go.dev/github.com/matzehuels/neuroscene/pkg/assemble
// [animate]: https://pkg.go.dev/github.com/matzehuels/neuroscene/pkg/animate
// [scene]: https://pkg.go.dev/github.com/matzehuels/neuroscene/pkg/scene
// [scene.Scene]: https://pkg.go.dev/github.com/matzehuels/neuroscene/pkg/scene#Scene
// [render]: https://pkg.go.dev/github.com/matzehuels/neuroscene/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/neuroscene/pkg/render/svg
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/neuroscene/pkg/render/dot
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/neuroscene/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/neuroscene/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/neuroscene/pkg/session
// [observability]: https://pkg.go.dev/github.com/matzehuels/neuroscene/pkg/observability
// [observability/prom]: https://pkg.go.dev/github.com/matzehuels/neuroscene/pkg/observability/prom
// [errors]: https://pkg.go.dev/github.com/matzehuels/neuroscene/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/neuroscene/pkg/buildinfo
package pkg
