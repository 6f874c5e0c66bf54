package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/exhibitnet/pkg/network"
	"github.com/matzehuels/exhibitnet/pkg/render"
)

// Options configures DOT generation.
type Options struct {
	// Labels shows artist names. When false, artist nodes are unlabelled
	// points and only meta and anchor nodes carry text.
	Labels bool

	// AllEdges includes edges hidden by culling.
	AllEdges bool
}

// pointsPerUnit converts layout units to Graphviz points for pos attributes.
const pointsPerUnit = 1.0

// ToDOT converts a layout to Graphviz DOT source with every node pinned at
// its computed position. The graph is undirected and uses the neato engine
// with -n semantics (notranslate), so Graphviz only draws and never moves.
func ToDOT(l network.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	fmt.Fprintf(&buf, "  bb=\"0,0,%.2f,%.2f\";\n", l.Width*pointsPerUnit, l.Height*pointsPerUnit)
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontsize=9, fontname=\"Helvetica\"];\n")
	buf.WriteString("  edge [color=\"#6B6B6B\"];\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, l.Height, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		if !e.Visible && !opts.AllEdges {
			continue
		}
		attrs := edgeAttrs(e)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -- %q;\n", e.Source, e.Target)
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// pos formats a pinned position. Graphviz puts the origin bottom-left, so y
// is flipped against the canvas height.
func pos(x, y, height float64) string {
	return fmt.Sprintf("pos=\"%.2f,%.2f!\"", x*pointsPerUnit, (height-y)*pointsPerUnit)
}

func nodeAttrs(n network.Node, height float64, opts Options) []string {
	color := render.CommunityColor(n.Community)
	attrs := []string{pos(n.X, n.Y, height)}
	switch n.Kind {
	case network.KindMeta:
		// Graphviz sizes are in inches at 72 points per inch.
		d := 2 * n.Radius * pointsPerUnit / 72
		attrs = append(attrs,
			fmt.Sprintf("width=%.3f", d),
			fmt.Sprintf("label=%q", fmt.Sprintf("%s (%d)", n.Label, n.Members)),
			fmt.Sprintf("fillcolor=%q", color),
			"fontcolor=white")
	case network.KindAnchor:
		attrs = append(attrs,
			"shape=diamond", "width=0.2",
			fmt.Sprintf("xlabel=%q", n.Label),
			"fillcolor=white", fmt.Sprintf("color=%q", color))
	default:
		label := ""
		if opts.Labels {
			label = n.Label
		}
		attrs = append(attrs, "width=0.14", "label=\"\"", fmt.Sprintf("fillcolor=%q", color))
		if label != "" {
			attrs = append(attrs, fmt.Sprintf("xlabel=%q", label))
		}
		if n.Fuzzy {
			attrs = append(attrs, "style=\"filled,dashed\"", "penwidth=0.6")
		} else {
			attrs = append(attrs, "color=white")
		}
	}
	return attrs
}

func edgeAttrs(e network.Edge) []string {
	switch {
	case e.Degenerate:
		return []string{"penwidth=0.3", "color=\"#6B6B6B40\""}
	case e.Ambiguous:
		return []string{"style=dashed", "penwidth=0.6"}
	}
	return nil
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT source to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
