package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/neuroscene/pkg/pipeline"
)

// visualizeCommand creates the visualize command, which goes straight from
// parameters to artifacts.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		scene  sceneFlags
		render renderFlags
	)

	cmd := &cobra.Command{
		Use:   "visualize [topology]",
		Short: "Generate and render a scene in one step",
		Long: `Generate and render a scene in one step.

This is 'generate' followed by 'render' without the intermediate file. Add
json to --format to keep the scene as well.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: topologyNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := topologyArg(args)
			if err != nil {
				return err
			}
			opts, err := c.sceneOptions(cmd, &scene, t)
			if err != nil {
				return err
			}
			if err := render.apply(cmd, c.Config.Render, &opts); err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), opts, render.output)
		},
	}

	scene.register(cmd)
	render.register(cmd)
	return cmd
}

func (c *CLI) runVisualize(ctx context.Context, opts pipeline.Options, output string) error {
	runner, err := c.newRunner(ctx, cliKeyPrefix)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Visualizing %s...", opts.Topology))
	spinner.Start()

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	s := res.Scene
	printClamped(res.Stats.Clamped)
	printSuccess("Visualized %s", s.Topology)
	printStats(len(s.Groups), res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.SceneHit && res.CacheInfo.RenderHit)
	printDetail("seed %d · generate %s · render %s", s.Seed, res.Stats.GenerateTime, res.Stats.RenderTime)

	_, err = writeArtifacts(artifactWriteParams{
		artifacts: res.Artifacts,
		formats:   opts.Formats,
		base:      string(s.Topology),
		output:    output,
	})
	return err
}
