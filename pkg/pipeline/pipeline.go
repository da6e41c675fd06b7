// Package pipeline provides the generate → render pipeline for neuroscene.
//
// The CLI, the HTTP server and the interactive tuner all go through this
// package so that clamping, seeding, caching and output formats behave the
// same everywhere.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Generate: clamp parameters, lay out the topology, connect adjacent
//     groups and assemble the labeled scene
//  2. Render: turn the scene into artifacts (SVG, PNG, PDF, DOT, JSON)
//
// Each stage can be run on its own or through [Runner.Execute].
//
// # Seeds and caching
//
// A non-zero [Options.Seed] pins the random draws, so the same options always
// yield the same scene and the scene is cached. A zero seed draws a fresh one
// per run; the seed actually used is recorded in [scene.Scene.Seed] so the
// run can be replayed, but nothing is cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Topology: scene.TopologyNetwork,
//	    Params:   params.Default(),
//	    Seed:     42,
//	    Formats:  []string{"svg", "json"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/neuroscene/pkg/cache"
	"github.com/matzehuels/neuroscene/pkg/errors"
	"github.com/matzehuels/neuroscene/pkg/params"
	"github.com/matzehuels/neuroscene/pkg/render/svg"
	"github.com/matzehuels/neuroscene/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API and Tuner
// =============================================================================

const (
	// DefaultTopology is used when Options.Topology is empty.
	DefaultTopology = scene.TopologyNetwork

	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = svg.DefaultWidth

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = svg.DefaultHeight
)

// Format constants for output formats.
const (
	FormatSVG   = "svg"
	FormatPNG   = "png"
	FormatPDF   = "pdf"
	FormatDOT   = "dot"
	FormatGraph = "graph" // DOT laid out by Graphviz, as SVG
	FormatJSON  = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:   true,
	FormatPNG:   true,
	FormatPDF:   true,
	FormatDOT:   true,
	FormatGraph: true,
	FormatJSON:  true,
}

// FormatNames lists ValidFormats in a stable order for help text.
var FormatNames = []string{FormatSVG, FormatPNG, FormatPDF, FormatDOT, FormatGraph, FormatJSON}

// ContentTypes maps each format to its MIME type.
var ContentTypes = map[string]string{
	FormatSVG:   "image/svg+xml",
	FormatPNG:   "image/png",
	FormatPDF:   "application/pdf",
	FormatDOT:   "text/vnd.graphviz; charset=utf-8",
	FormatGraph: "image/svg+xml",
	FormatJSON:  "application/json",
}

// discard is the logger options fall back to when none is given.
var discard = log.NewWithOptions(io.Discard, log.Options{})

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Generate options
	Topology scene.Topology `json:"topology"`
	Params   params.Params  `json:"params"`
	Seed     uint64         `json:"seed,omitempty"`    // 0 draws a fresh seed per run
	Refresh  bool           `json:"refresh,omitempty"` // skip cache reads

	// Render options
	Formats []string `json:"formats,omitempty"`
	Width   float64  `json:"width,omitempty"`
	Height  float64  `json:"height,omitempty"`
	Time    float64  `json:"time,omitempty"` // animation time in seconds

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scene is the generated scene.
	Scene *scene.Scene

	// SceneHash is the content hash of the scene's JSON encoding.
	SceneHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	LabelCount   int
	Clamped      []string // parameter fields moved into range
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SceneHit  bool // Whether the scene came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(FormatNames, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma separated format list, dropping blanks and
// duplicates, and validates every entry.
func ParseFormats(s string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	if err := ValidateFormats(out); err != nil {
		return nil, err
	}
	return out, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForGenerate resolves the topology and applies generation defaults.
// Parameter values are never rejected here; they are clamped during generation.
func (o *Options) ValidateForGenerate() error {
	if o.Topology == "" {
		o.Topology = DefaultTopology
	}
	t, err := scene.ParseTopology(string(o.Topology))
	if err != nil {
		return err
	}
	o.Topology = t

	if o.Params == (params.Params{}) {
		o.Params = params.Default()
	}
	if o.Logger == nil {
		o.Logger = discard
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Time < 0 {
		o.Time = 0
	}
	if o.Logger == nil {
		o.Logger = discard
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// SceneKeyOpts returns cache key options for a generation with the given
// clamped parameters.
func (o *Options) SceneKeyOpts(p params.Params) cache.SceneKeyOpts {
	return cache.SceneKeyOpts{
		LearningRate: p.LearningRate,
		Layers:       p.LayerCount,
		Neurons:      p.Neurons,
		Activation:   string(p.Activation),
		Epochs:       p.Epochs,
		Seed:         o.Seed,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Width:  o.Width,
		Height: o.Height,
		Time:   o.Time,
	}
}

// String summarizes the options for log lines.
func (o *Options) String() string {
	return fmt.Sprintf("%s %s seed=%d", o.Topology, o.Params, o.Seed)
}
