package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/exhibitnet/internal/server"
	"github.com/matzehuels/exhibitnet/pkg/observability"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags optionFlags
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts over HTTP",
		Long: `Serve layouts over HTTP.

Both tables are loaded once at startup. Every request recomputes the
layout for the requested year; the client sends its view transform with
each request (k, x, y query parameters).

Routes:
  GET /healthz
  GET /api/years
  GET /api/layout?year=1929&mode=aggregateDisjoint&k=1.5&x=-40&y=0
  GET /api/layout.svg?year=1929&labels=true
  GET /metrics

Set EXHIBITNET_REDIS_ADDR or EXHIBITNET_MONGO_URI to share the artifact
cache between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			hooks := observability.NewPrometheusHooks(reg)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			defer observability.Reset()

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			p := newProgress(c.Logger)
			ds, err := runner.Load(ctx, opts)
			if err != nil {
				return err
			}
			p.done("tables loaded", "years", len(ds.Years()), "artist_rows", ds.Stats.ArtistRows)

			return server.New(runner, ds, opts, reg).ListenAndServe(ctx, addr)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
