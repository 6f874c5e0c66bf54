package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/exhibitnet/pkg/membership"
	"github.com/matzehuels/exhibitnet/pkg/network"
)

// Terminal palette (ANSI 256).
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Styles shared by the commands and the explorer.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

// statusLine prefixes a formatted message with a coloured icon.
func statusLine(icon string, color lipgloss.Color, format string, args ...any) string {
	return lipgloss.NewStyle().Foreground(color).Render(icon) + " " + fmt.Sprintf(format, args...)
}

func printSuccess(format string, args ...any) {
	fmt.Println(statusLine("✓", colorGreen, format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(statusLine("✗", colorRed, format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(statusLine("!", colorYellow, "%s", StyleWarning.Render(fmt.Sprintf(format, args...))))
}

func printInfo(format string, args ...any) {
	fmt.Println(statusLine("›", colorGray, format, args...))
}

// printDetail prints an indented, muted line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a written output file.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

// printStats prints a one-line layout summary. A layout without data
// prints its reason instead.
func printStats(l network.Layout, cached bool) {
	fmt.Println("  " + statsLine(l, cached))
}

func statsLine(l network.Layout, cached bool) string {
	if l.NoData {
		return StyleWarning.Render(l.Reason)
	}

	parts := []string{
		fmt.Sprintf("%d exhibitions", l.Stats.Exhibitions),
		fmt.Sprintf("%d artists", l.Stats.Artists),
		fmt.Sprintf("%d fuzzy", l.Stats.FuzzyArtists),
		fmt.Sprintf("%d/%d edges visible", l.Stats.VisibleEdges, len(l.Edges)),
	}
	if l.Stats.AggregatedClusters > 0 {
		parts = append(parts, fmt.Sprintf("%d collapsed", l.Stats.AggregatedClusters))
	}
	sep := StyleDim.Render(" · ")
	line := StyleDim.Render(strings.Join(parts, " · "))
	if cached {
		return line + sep + StyleSuccess.Render("cached")
	}
	return line + sep + lipgloss.NewStyle().Foreground(colorGray).Render("fresh")
}

// printLoadWarnings reports rows the loader had to drop or repair.
func printLoadWarnings(s membership.LoadStats) {
	if s.SkippedRows > 0 {
		printWarning("%d artist rows skipped (no name, title or year)", s.SkippedRows)
	}
	if s.MissingWeights > 0 {
		printDetail("%d artists without a membership vector", s.MissingWeights)
	}
	if s.DuplicateMemberships > 0 {
		printDetail("%d duplicate membership rows ignored", s.DuplicateMemberships)
	}
}

// printNextStep suggests a follow-up command after a blank line.
func printNextStep(description, cmd string) {
	fmt.Println()
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}
