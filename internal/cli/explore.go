package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/exhibitnet/pkg/membership"
	"github.com/matzehuels/exhibitnet/pkg/network"
	"github.com/matzehuels/exhibitnet/pkg/pipeline"
)

// View controls.
const (
	zoomStep = 1.25
	panStep  = 50.0
)

var (
	exploreDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	exploreLabelStyle = lipgloss.NewStyle().Foreground(colorGray).Width(20)
	exploreBarStyle   = lipgloss.NewStyle().Foreground(colorCyan)
	exploreErrStyle   = lipgloss.NewStyle().Foreground(colorRed)
)

// exploreKeys are the explorer's key bindings.
type exploreKeys struct {
	Prev, Next      key.Binding
	Mode, Fuzzy     key.Binding
	ZoomIn, ZoomOut key.Binding
	Up, Down        key.Binding
	Left, Right     key.Binding
	Reset, Rebuild  key.Binding
	Export, Quit    key.Binding
}

var defaultExploreKeys = exploreKeys{
	Prev:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev year")),
	Next:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next year")),
	Mode:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mode")),
	Fuzzy:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fuzzy-only")),
	ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
	ZoomOut: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
	Up:      key.NewBinding(key.WithKeys("w", "up"), key.WithHelp("w", "pan up")),
	Down:    key.NewBinding(key.WithKeys("s", "down"), key.WithHelp("s", "pan down")),
	Left:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "pan left")),
	Right:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "pan right")),
	Reset:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset view")),
	Rebuild: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rebuild")),
	Export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export svg")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k exploreKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Mode, k.Fuzzy, k.ZoomIn, k.ZoomOut, k.Export, k.Quit}
}

func (k exploreKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Mode, k.Fuzzy, k.Rebuild},
		{k.ZoomIn, k.ZoomOut, k.Up, k.Down, k.Left, k.Right, k.Reset},
		{k.Export, k.Quit},
	}
}

// exploreCommand creates the interactive explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	var flags optionFlags

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Browse years and pan/zoom the network interactively",
		Long: `Browse years and pan/zoom the network interactively.

Changing the year, the aggregation mode or the fuzzy-only filter
recomputes the layout from scratch; the view transform is kept. Panning
and zooming only re-cull edges. Press e to export the current view as SVG.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			if err := opts.ValidateForLayout(); err != nil {
				return err
			}
			if err := opts.ValidateForRender(); err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			spinner := newSpinnerWithContext(ctx, "Loading tables...")
			spinner.Start()
			ds, err := runner.Load(ctx, opts)
			if err != nil {
				spinner.StopWithError("Load failed")
				return err
			}
			spinner.Stop()

			m := newExploreModel(ctx, runner, ds, opts)
			if len(m.years) == 0 {
				printWarning("No years found")
				return nil
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// Model
// =============================================================================

// layoutMsg delivers a finished build. Token identifies the request.
type layoutMsg struct {
	token  string
	layout network.Layout
	err    error
}

// exportMsg reports the result of an SVG export.
type exportMsg struct {
	path string
	err  error
}

// exploreModel is the bubbletea model of the explorer. It owns the view
// transform and hands it to every build; builds themselves keep nothing.
type exploreModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	data   *membership.Dataset
	opts   pipeline.Options
	years  []membership.YearSummary

	yearIdx   int
	transform network.Transform

	layout   *network.Layout
	pending  string // token of the build whose result we want
	building bool
	status   string
	err      error

	keys exploreKeys
	help help.Model
}

func newExploreModel(ctx context.Context, runner *pipeline.Runner, ds *membership.Dataset, opts pipeline.Options) exploreModel {
	m := exploreModel{
		ctx:       ctx,
		runner:    runner,
		data:      ds,
		opts:      opts,
		years:     ds.Years(),
		transform: opts.Transform,
		keys:      defaultExploreKeys,
		help:      help.New(),
	}
	for i, y := range m.years {
		if y.Year == opts.Year {
			m.yearIdx = i
		}
	}
	return m
}

func (m exploreModel) year() int {
	if len(m.years) == 0 {
		return 0
	}
	return m.years[m.yearIdx].Year
}

// rebuild starts a fresh build. Results of earlier builds still in flight
// are dropped when they arrive.
func (m exploreModel) rebuild() (exploreModel, tea.Cmd) {
	opts := m.opts
	opts.Year = m.year()
	opts.Transform = m.transform
	token := uuid.NewString()
	m.pending = token
	m.building = true
	m.err = nil

	ctx, runner, data := m.ctx, m.runner, m.data
	return m, func() tea.Msg {
		l, err := runner.Rebuild(ctx, data, opts)
		return layoutMsg{token: token, layout: l, err: err}
	}
}

// reframe applies the current transform to the shown layout without
// recomputing it.
func (m exploreModel) reframe() exploreModel {
	if m.layout != nil {
		l := *m.layout
		l.Edges = slices.Clone(l.Edges)
		l.Reframe(m.transform, m.opts.Network.MinEdgeScale)
		m.layout = &l
	}
	return m
}

func (m exploreModel) canvasCenter() network.Point {
	return network.Point{X: m.opts.Network.Width / 2, Y: m.opts.Network.Height / 2}
}

func (m exploreModel) export() tea.Cmd {
	if m.layout == nil {
		return nil
	}
	l, opts := *m.layout, m.opts
	path := defaultOutputBase(l.Year) + ".svg"
	ctx := m.ctx
	return func() tea.Msg {
		data, err := pipeline.RenderFormat(ctx, l, pipeline.FormatSVG, opts)
		if err == nil {
			err = os.WriteFile(path, data, 0o644)
		}
		return exportMsg{path: path, err: err}
	}
}

func (m exploreModel) Init() tea.Cmd {
	_, cmd := m.rebuild()
	return cmd
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case layoutMsg:
		if msg.token != m.pending {
			return m, nil
		}
		m.building = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		l := msg.layout
		m.layout = &l
		// The user may have panned while the build ran.
		return m.reframe(), nil

	case exportMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.status = "saved " + msg.path
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m exploreModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Prev):
		if m.yearIdx > 0 {
			m.yearIdx--
			return m.rebuild()
		}
	case key.Matches(msg, m.keys.Next):
		if m.yearIdx < len(m.years)-1 {
			m.yearIdx++
			return m.rebuild()
		}
	case key.Matches(msg, m.keys.Mode):
		if m.opts.Network.Mode == network.ModeFullDetail {
			m.opts.Network.Mode = network.ModeAggregateDisjoint
		} else {
			m.opts.Network.Mode = network.ModeFullDetail
		}
		return m.rebuild()
	case key.Matches(msg, m.keys.Fuzzy):
		m.opts.Network.FuzzyOnly = !m.opts.Network.FuzzyOnly
		return m.rebuild()
	case key.Matches(msg, m.keys.Rebuild):
		return m.rebuild()

	case key.Matches(msg, m.keys.ZoomIn):
		m.transform = m.transform.Zoom(zoomStep, m.canvasCenter())
		return m.reframe(), nil
	case key.Matches(msg, m.keys.ZoomOut):
		m.transform = m.transform.Zoom(1/zoomStep, m.canvasCenter())
		return m.reframe(), nil
	case key.Matches(msg, m.keys.Up):
		m.transform = m.transform.Pan(0, panStep)
		return m.reframe(), nil
	case key.Matches(msg, m.keys.Down):
		m.transform = m.transform.Pan(0, -panStep)
		return m.reframe(), nil
	case key.Matches(msg, m.keys.Left):
		m.transform = m.transform.Pan(panStep, 0)
		return m.reframe(), nil
	case key.Matches(msg, m.keys.Right):
		m.transform = m.transform.Pan(-panStep, 0)
		return m.reframe(), nil
	case key.Matches(msg, m.keys.Reset):
		m.transform = network.Identity()
		return m.reframe(), nil

	case key.Matches(msg, m.keys.Export):
		return m, m.export()
	}
	return m, nil
}

// =============================================================================
// View
// =============================================================================

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("exhibitnet explore"))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%s %s %s  %s\n",
		exploreDimStyle.Render("◂"),
		StyleHighlight.Bold(true).Render(fmt.Sprint(m.year())),
		exploreDimStyle.Render("▸"),
		exploreDimStyle.Render(fmt.Sprintf("%d/%d", m.yearIdx+1, len(m.years))))

	fuzzy := "all artists"
	if m.opts.Network.FuzzyOnly {
		fuzzy = "fuzzy exhibitions only"
	}
	fmt.Fprintf(&b, "%s\n\n", exploreDimStyle.Render(fmt.Sprintf("mode %s · %s · zoom %.2f · pan %.0f,%.0f",
		m.opts.Network.Mode, fuzzy, m.transform.K, m.transform.X, m.transform.Y)))

	switch {
	case m.err != nil:
		b.WriteString(exploreErrStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	case m.layout == nil:
		b.WriteString(exploreDimStyle.Render("building..."))
		b.WriteString("\n")
	case m.layout.NoData:
		b.WriteString(StyleWarning.Render(m.layout.Reason))
		b.WriteString("\n")
	default:
		b.WriteString(statsView(m.layout))
	}

	b.WriteString("\n")
	if m.building && m.layout != nil {
		b.WriteString(exploreDimStyle.Render("rebuilding..."))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(StyleSuccess.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func statsView(l *network.Layout) string {
	var b strings.Builder
	s := l.Stats
	row := func(label, value string) {
		b.WriteString(exploreLabelStyle.Render(label) + StyleValue.Render(value) + "\n")
	}

	row("exhibitions", fmt.Sprint(s.Exhibitions))
	row("artists", fmt.Sprintf("%d (%d core, %d fuzzy)", s.Artists, s.CoreArtists, s.FuzzyArtists))
	if s.InvalidVectors > 0 {
		row("invalid vectors", fmt.Sprint(s.InvalidVectors))
	}
	row("collapsed", fmt.Sprintf("%d (%d dense)", s.AggregatedClusters, s.DenseClusters))
	row("meta / anchor", fmt.Sprintf("%d / %d", s.MetaNodes, s.AnchorNodes))
	if s.HiddenCore > 0 {
		row("hidden core", fmt.Sprint(s.HiddenCore))
	}
	row("largest cluster", fmt.Sprint(s.LargestCluster))

	types := make([]string, 0, len(s.Edges))
	for t := range s.Edges {
		types = append(types, string(t))
	}
	slices.Sort(types)
	for _, t := range types {
		row("edges "+t, fmt.Sprint(s.Edges[network.EdgeType(t)]))
	}
	row("visible edges", fmt.Sprintf("%d of %d", s.VisibleEdges, len(l.Edges)))

	if len(s.ClusterSizes) > 0 {
		b.WriteString("\n")
		maxCount := 0
		for _, bucket := range s.ClusterSizes {
			maxCount = max(maxCount, bucket.Count)
		}
		for _, bucket := range s.ClusterSizes {
			bar := ""
			if maxCount > 0 {
				bar = strings.Repeat("█", bucket.Count*24/maxCount)
			}
			b.WriteString(exploreLabelStyle.Render("size "+bucket.Label) + exploreBarStyle.Render(bar) + " " + exploreDimStyle.Render(fmt.Sprint(bucket.Count)) + "\n")
		}
	}
	return b.String()
}
