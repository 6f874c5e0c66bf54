package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/exhibitnet/pkg/pipeline"
)

// renderFlags holds the render-only flags.
type renderFlags struct {
	output   string
	formats  string
	engine   string
	labels   bool
	allEdges bool
}

// renderCommand creates the render command for producing artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags optionFlags
		rf    renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one year's network to SVG, PNG, DOT or JSON",
		Long: `Render one year's network to SVG, PNG, DOT or JSON.

Formats are comma-separated. SVG is drawn natively by default; pass
--engine graphviz to have Graphviz draw it from the pinned DOT graph.
PNG always goes through Graphviz.

Fuzzy-to-core and fuzzy-to-cluster edges are dashed. Edges outside the
current view (see --zoom, --pan-x, --pan-y) are hidden unless --all-edges
is set.`,
		Example: `  exhibitnet render -c exhibitnet.toml --year 1931 -f svg,png
  exhibitnet render --artists a.csv --memberships m.csv -y 1929 --mode aggregateDisjoint`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") || len(opts.Formats) == 0 {
				opts.Formats = parseFormats(rf.formats)
			}
			if cmd.Flags().Changed("engine") {
				opts.Engine = rf.engine
			}
			if cmd.Flags().Changed("labels") {
				opts.Labels = rf.labels
			}
			if cmd.Flags().Changed("all-edges") {
				opts.AllEdges = rf.allEdges
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, rf.output, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&rf.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&rf.formats, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().StringVar(&rf.engine, "engine", pipeline.EngineNative, "SVG renderer: native, graphviz")
	cmd.Flags().BoolVar(&rf.labels, "labels", false, "label artist nodes")
	cmd.Flags().BoolVar(&rf.allEdges, "all-edges", false, "draw edges outside the view")

	return cmd
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d...", opts.Year))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths := outputPaths(output, defaultOutputBase(opts.Year), opts.Formats)
	for _, format := range opts.Formats {
		if err := os.WriteFile(paths[format], result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[format], err)
		}
	}

	printSuccess("Rendered %s", strings.Join(opts.Formats, ", "))
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(result.Layout, result.CacheInfo.RenderHit)
	printLoadWarnings(result.Load)
	return nil
}

// outputPaths maps each format to a file. A single format with an explicit
// output uses it verbatim; otherwise the output (minus extension) is a base
// path and each format appends its own extension.
func outputPaths(output, fallback string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}

	base := fallback
	if output != "" {
		base = strings.TrimSuffix(output, filepath.Ext(output))
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}
