package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/exhibitnet/pkg/pipeline"
)

// layoutCommand creates the layout command for computing a year's layout.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  optionFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute the network layout for one year",
		Long: `Compute the network layout for one year.

The layout command joins the artists and memberships tables, selects the
requested year and writes the computed layout (nodes, edges, clusters and
stats) as JSON. The same payload is produced by 'render -f json'.

Remote tables are cached locally; layouts are always recomputed.`,
		Example: `  exhibitnet layout --artists MoMAExhibitions1929to1989.csv \
    --memberships fuzzy_memberships_by_year.csv --year 1929`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			opts.Formats = []string{pipeline.FormatJSON}
			return c.runLayout(cmd.Context(), opts, output, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: exhibitnet-<year>.layout.json)")

	return cmd
}

// runLayout executes the pipeline and writes the JSON payload.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %d layout...", opts.Year))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = defaultOutputBase(opts.Year) + ".layout.json"
	}
	if err := os.WriteFile(outputPath, result.Artifacts[pipeline.FormatJSON], 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(result.Layout, result.CacheInfo.TablesHit)
	printLoadWarnings(result.Load)
	printNextStep("Render", fmt.Sprintf("%s render --artists %s --memberships %s --year %d", appName, opts.Artists, opts.Memberships, opts.Year))

	return nil
}
