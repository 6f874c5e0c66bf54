package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/exhibitnet/pkg/membership"
)

// yearsCommand creates the years command listing the selectable years.
func (c *CLI) yearsCommand() *cobra.Command {
	var flags optionFlags

	cmd := &cobra.Command{
		Use:   "years",
		Short: "List the years present in the tables",
		Long: `List the years present in the tables with the number of joined artists,
exhibitions and artists that carry a membership vector.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), flags.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			ds, err := runner.Load(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return printYears(cmd.Context(), ds)
		},
	}

	flags.register(cmd)
	return cmd
}

func printYears(ctx context.Context, ds *membership.Dataset) error {
	years := ds.Years()
	if len(years) == 0 {
		printWarning("No years found")
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	fmt.Println(yearsTable(years))
	printDetail("%d years · %d artist rows · %d membership rows",
		len(years), ds.Stats.ArtistRows, ds.Stats.MembershipRows)
	printLoadWarnings(ds.Stats)
	return nil
}

// yearsTable renders the year summaries as a bordered table.
func yearsTable(years []membership.YearSummary) string {
	rows := make([][]string, len(years))
	for i, y := range years {
		rows[i] = []string{
			strconv.Itoa(y.Year),
			strconv.Itoa(y.Artists),
			strconv.Itoa(y.Exhibitions),
			strconv.Itoa(y.Weighted),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Year", "Artists", "Exhibitions", "Weighted").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return cellStyle.Foreground(colorCyan)
			}
			return cellStyle.Foreground(colorWhite).Align(lipgloss.Right)
		})
	return t.Render()
}
