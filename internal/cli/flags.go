package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/neuroscene/pkg/params"
	"github.com/matzehuels/neuroscene/pkg/pipeline"
	"github.com/matzehuels/neuroscene/pkg/scene"
)

// sceneFlags are the generation flags shared by generate, visualize and tune.
// Only flags the user actually set override the config file.
type sceneFlags struct {
	params  params.Params
	seed    uint64
	refresh bool
}

func (f *sceneFlags) register(cmd *cobra.Command) {
	def := params.Default()
	fs := cmd.Flags()
	fs.Float64Var(&f.params.LearningRate, "learning-rate", def.LearningRate, "learning rate [0.001, 0.1]")
	fs.IntVar(&f.params.LayerCount, "layers", def.LayerCount, "layer count [2, 10]")
	fs.IntVar(&f.params.Neurons, "neurons", def.Neurons, "neurons per layer, or points per class [3, 12]")
	fs.StringVar((*string)(&f.params.Activation), "activation", string(def.Activation), "activation: relu, sigmoid, tanh, softmax")
	fs.IntVar(&f.params.Epochs, "epochs", def.Epochs, "epochs [5, 100]")
	fs.Uint64Var(&f.seed, "seed", 0, "random seed (0 draws a fresh one)")
	fs.BoolVar(&f.refresh, "refresh", false, "regenerate even when a cached scene exists")

	_ = cmd.RegisterFlagCompletionFunc("activation", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(params.Activations))
		for i, a := range params.Activations {
			names[i] = string(a)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}

// merge overlays the flags the user set on top of base. Numbers are clamped
// later; an unknown activation name is an error.
func (f *sceneFlags) merge(cmd *cobra.Command, base params.Params) (params.Params, error) {
	fs := cmd.Flags()
	if fs.Changed("learning-rate") {
		base.LearningRate = f.params.LearningRate
	}
	if fs.Changed("layers") {
		base.LayerCount = f.params.LayerCount
	}
	if fs.Changed("neurons") {
		base.Neurons = f.params.Neurons
	}
	if fs.Changed("activation") {
		a, err := params.ParseActivation(string(f.params.Activation))
		if err != nil {
			return base, err
		}
		base.Activation = a
	}
	if fs.Changed("epochs") {
		base.Epochs = f.params.Epochs
	}
	return base, nil
}

// sceneOptions builds pipeline options for topology t from config and flags.
func (c *CLI) sceneOptions(cmd *cobra.Command, f *sceneFlags, t scene.Topology) (pipeline.Options, error) {
	p, err := f.merge(cmd, c.Config.Params)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Topology: t,
		Params:   p,
		Seed:     f.seed,
		Refresh:  f.refresh,
		Logger:   c.Logger,
	}, nil
}

// renderFlags are the output flags shared by render and visualize.
type renderFlags struct {
	formats string
	output  string
	width   float64
	height  float64
	time    float64
}

func (f *renderFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): svg, png, pdf, dot, graph, json (comma-separated)")
	fs.StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	fs.Float64Var(&f.width, "width", pipeline.DefaultWidth, "frame width")
	fs.Float64Var(&f.height, "height", pipeline.DefaultHeight, "frame height")
	fs.Float64VarP(&f.time, "time", "t", 0, "animation time in seconds")

	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return pipeline.FormatNames, cobra.ShellCompDirectiveNoFileComp
	})
}

// apply fills the render fields of opts from config and flags.
func (f *renderFlags) apply(cmd *cobra.Command, cfg RenderConfig, opts *pipeline.Options) error {
	fs := cmd.Flags()
	opts.Formats = cfg.Formats
	if fs.Changed("format") {
		formats, err := pipeline.ParseFormats(f.formats)
		if err != nil {
			return err
		}
		opts.Formats = formats
	}
	opts.Width, opts.Height, opts.Time = cfg.Width, cfg.Height, cfg.Time
	if fs.Changed("width") {
		opts.Width = f.width
	}
	if fs.Changed("height") {
		opts.Height = f.height
	}
	if fs.Changed("time") {
		opts.Time = f.time
	}
	return nil
}

// topologyArg resolves the optional positional topology argument.
func topologyArg(args []string) (scene.Topology, error) {
	if len(args) == 0 {
		return pipeline.DefaultTopology, nil
	}
	return scene.ParseTopology(args[0])
}

func topologyNames() []string {
	names := make([]string, len(scene.Topologies))
	for i, t := range scene.Topologies {
		names[i] = string(t)
	}
	return names
}
