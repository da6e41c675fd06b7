package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/neuroscene/pkg/assemble"
	"github.com/matzehuels/neuroscene/pkg/pipeline"
	"github.com/matzehuels/neuroscene/pkg/scene"
)

// generateCommand creates the generate command, which writes a scene JSON file.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		flags  sceneFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate [topology]",
		Short: "Generate a scene and write it as JSON",
		Long: `Generate a scene and write it as JSON.

The topology is one of network (default), convolutional or scatter; the
aliases nn, conv, cnn and classifier are accepted too. Parameters come
from the config file and the flags below and are clamped into range.

With --seed the scene is reproducible and cached. Without it every run draws
a fresh seed, which is recorded in the scene so the run can be replayed.

Use 'render' to turn the scene into images, or 'visualize' to do both steps.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: topologyNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := topologyArg(args)
			if err != nil {
				return err
			}
			opts, err := c.sceneOptions(cmd, &flags, t)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), opts, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <topology>.json, - for stdout)")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, output string) error {
	runner, err := c.newRunner(ctx, cliKeyPrefix)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	_, clamped := opts.Params.Clamped()
	s, hit, err := runner.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	if output == "" {
		output = string(s.Topology) + fileExt[pipeline.FormatJSON]
	}
	data, err := scene.Marshal(*s)
	if err != nil {
		return err
	}
	if err := writeFile(output, data); err != nil {
		return err
	}
	if output == "-" {
		return nil
	}

	printClamped(clamped)
	printSuccess("Generated %s", StyleTitle.Render(assemble.Title(s.Topology, s.Params)))
	printStats(len(s.Groups), len(s.Nodes), len(s.Edges), hit)
	printDetail("seed %d", s.Seed)
	printFile(output)
	printNextStep("Render it", fmt.Sprintf("%s render %s -f svg,png", appName, output))
	return nil
}
