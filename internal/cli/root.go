package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/neuroscene/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Persistent flags:
//   - --config: TOML config file (default $XDG_CONFIG_HOME/neuroscene/config.toml)
//   - --verbose (-v): debug-level logging
//   - --no-cache: bypass the scene and artifact cache
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Neuroscene generates animated 3D diagrams of machine-learning models",
		Long: `Neuroscene procedurally generates 3D scenes that illustrate machine-learning
concepts: a fully connected network, a convolutional stack and a two-class
scatter plot with a rotating decision boundary. Scenes are written as JSON and
rendered to SVG, PNG, PDF or Graphviz output, or served over HTTP.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/neuroscene/config.toml)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable caching")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.frameCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.tuneCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup applies the log level and loads the config file before any command runs.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}

	path, explicit := c.configPath, c.configPath != ""
	if !explicit {
		var err error
		if path, err = defaultConfigPath(); err != nil {
			c.Logger.Debug("no config directory", "err", err)
			return nil
		}
	}

	cfg, warnings, err := LoadConfig(path, explicit)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		c.Logger.Warn(w, "file", path)
	}
	c.Config = cfg
	c.Logger.Debug("config loaded", "file", path, "cache", cfg.Cache.Backend)
	return nil
}
