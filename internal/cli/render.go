package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/neuroscene/pkg/pipeline"
	"github.com/matzehuels/neuroscene/pkg/scene"
)

// renderCommand creates the render command for turning scene JSON into artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [scene.json]",
		Short: "Render a scene file to SVG, PNG, PDF, DOT or JSON",
		Long: `Render a scene file to SVG, PNG, PDF, DOT or JSON.

The scene comes from 'generate'. The SVG is an oblique snapshot of the
animated scene at --time seconds; PNG and PDF are converted from it with
rsvg-convert. 'dot' writes the layer structure as a Graphviz digraph and
'graph' lays that digraph out as SVG. The scatter topology has no edges and
supports neither.

Artifacts are cached locally, keyed by the scene content and frame options.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts pipeline.Options
			if err := flags.apply(cmd, c.Config.Render, &opts); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, flags.output)
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string) error {
	s, err := scene.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}
	// titles and readouts are drawn from the recorded params, so a hand-edited
	// file must still hold values the generator could have produced
	if err := s.Params.Validate(); err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, cliKeyPrefix)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", s.Topology))
	spinner.Start()
	prog := newProgress(c.Logger)

	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, &s, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %d artifacts", len(artifacts)))

	printSuccess("Rendered %s", input)
	printStats(len(s.Groups), len(s.Nodes), len(s.Edges), hit)
	_, err = writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		base:      strings.TrimSuffix(input, filepath.Ext(input)),
		output:    output,
		input:     input,
	})
	return err
}
