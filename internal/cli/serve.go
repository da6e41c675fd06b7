package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/neuroscene/internal/server"
	"github.com/matzehuels/neuroscene/pkg/observability/prom"
)

const serverKeyPrefix = appName + ":server:"

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		timeout   time.Duration
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve scenes and renders over HTTP",
		Long: `Serve scenes and renders over HTTP.

Endpoints:
  GET /healthz
  GET /api/v1/topologies
  GET /api/v1/params/default
  GET /api/v1/scenes/{topology}
  GET /api/v1/scenes/{topology}/frame?t=
  GET /api/v1/scenes/{topology}/render.{format}
  GET /metrics

Query parameters are clamped into range; malformed numbers are rejected with
400. Use the redis cache backend to share scenes between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, timeout, !noMetrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultTimeout, "per-request timeout")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, timeout time.Duration, metrics bool) error {
	runner, err := c.newRunner(ctx, serverKeyPrefix)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	cfg := server.Config{
		Runner:   runner,
		Logger:   c.Logger,
		Defaults: c.Config.Params,
		Timeout:  timeout,
	}
	if metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		prom.New(reg).Install()
		cfg.Gatherer = reg
	}

	c.Logger.Info("starting server", "addr", addr, "cache", c.Config.Cache.Backend, "metrics", metrics)
	return server.New(cfg).ListenAndServe(ctx, addr)
}
