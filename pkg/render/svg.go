package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/matzehuels/exhibitnet/pkg/network"
)

// Node sizes in layout units.
const (
	artistRadius = 5.0
	fuzzyRadius  = 4.0
	anchorSize   = 6.0
)

// SVG renders the layout as a standalone SVG document.
//
// The view transform is applied as a single group transform, so the
// document shows exactly what an interactive host would show. Edges marked
// invisible by culling are omitted unless opts.AllEdges is set.
func SVG(l network.Layout, opts Options) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	buf.WriteString(`  <rect width="100%" height="100%" fill="white"/>` + "\n")

	if l.NoData {
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="%s" font-size="16" fill="%s">%s</text>`+"\n",
			l.Width/2, l.Height/2, fontFamily, colorText, EscapeXML(l.Reason))
		buf.WriteString("</svg>\n")
		return buf.Bytes()
	}

	t := l.Transform
	if t.K == 0 {
		t = network.Identity()
	}
	fmt.Fprintf(&buf, `  <g transform="translate(%.2f,%.2f) scale(%.4f)">`+"\n", t.X, t.Y, t.K)

	renderHulls(&buf, l.Groups)
	renderEdges(&buf, l, opts)
	renderNodes(&buf, l.Nodes, opts)

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func renderHulls(buf *bytes.Buffer, groups []network.Group) {
	buf.WriteString(`    <g class="hulls">` + "\n")
	for _, g := range groups {
		if g.Aggregated {
			continue
		}
		fmt.Fprintf(buf, `      <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="0.08" stroke="%s" stroke-width="1"><title>%s</title></circle>`+"\n",
			g.Center.X, g.Center.Y, g.Radius, CommunityColor(g.Community), colorHull, EscapeXML(g.Title))
	}
	buf.WriteString("    </g>\n")
}

func renderEdges(buf *bytes.Buffer, l network.Layout, opts Options) {
	pos := l.Positions()
	buf.WriteString(`    <g class="edges" stroke="` + colorEdge + `" fill="none">` + "\n")
	for _, e := range l.Edges {
		if !e.Visible && !opts.AllEdges {
			continue
		}
		a, okA := pos[e.Source]
		b, okB := pos[e.Target]
		if !okA || !okB {
			continue
		}
		switch {
		case e.Degenerate:
			// Self-link: a small faint loop above the node.
			fmt.Fprintf(buf, `      <circle cx="%.2f" cy="%.2f" r="4" stroke-width="0.5" stroke-opacity="0.25"/>`+"\n",
				a.X, a.Y-4)
		case e.Ambiguous:
			fmt.Fprintf(buf, `      <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke-width="0.8" stroke-opacity="0.5" stroke-dasharray="4 3"/>`+"\n",
				a.X, a.Y, b.X, b.Y)
		default:
			fmt.Fprintf(buf, `      <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke-width="1" stroke-opacity="0.6"/>`+"\n",
				a.X, a.Y, b.X, b.Y)
		}
	}
	buf.WriteString("    </g>\n")
}

func renderNodes(buf *bytes.Buffer, nodes []network.Node, opts Options) {
	buf.WriteString(`    <g class="nodes">` + "\n")
	for _, n := range nodes {
		switch n.Kind {
		case network.KindMeta:
			fmt.Fprintf(buf, `      <circle id="%s" cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="0.85" stroke="white" stroke-width="1.5"><title>%s (%d)</title></circle>`+"\n",
				EscapeXML(n.ID), n.X, n.Y, n.Radius, CommunityColor(n.Community), EscapeXML(n.Label), n.Members)
			renderLabel(buf, n.X, n.Y+n.Radius+12, n.Label, "middle")
		case network.KindAnchor:
			fmt.Fprintf(buf, `      <path id="%s" d="%s" fill="white" stroke="%s" stroke-width="1.5"><title>%s</title></path>`+"\n",
				EscapeXML(n.ID), diamond(n.X, n.Y, anchorSize), CommunityColor(n.Community), EscapeXML(n.Label))
			renderLabel(buf, n.X, n.Y+anchorSize+12, n.Label, "middle")
		default:
			r, opacity := artistRadius, 1.0
			if n.Fuzzy {
				r, opacity = fuzzyRadius, 0.55+0.45*(1-n.Fuzziness)
			}
			stroke := "white"
			if n.Fuzzy {
				stroke = colorEdge
			}
			fmt.Fprintf(buf, `      <circle id="%s" cx="%.2f" cy="%.2f" r="%.1f" fill="%s" fill-opacity="%.2f" stroke="%s" stroke-width="0.75"><title>%s</title></circle>`+"\n",
				EscapeXML(n.ID), n.X, n.Y, r, CommunityColor(n.Community), opacity, stroke, EscapeXML(n.Label))
			if opts.Labels {
				renderLabel(buf, n.X+r+2, n.Y+3, n.Label, "start")
			}
		}
	}
	buf.WriteString("    </g>\n")
}

func renderLabel(buf *bytes.Buffer, x, y float64, text, anchor string) {
	fmt.Fprintf(buf, `      <text x="%.2f" y="%.2f" text-anchor="%s" font-family="%s" font-size="9" fill="%s">%s</text>`+"\n",
		x, y, anchor, fontFamily, colorText, EscapeXML(text))
}

func diamond(x, y, s float64) string {
	h := s / math.Sqrt2 * 1.4
	return fmt.Sprintf("M%.2f %.2f L%.2f %.2f L%.2f %.2f L%.2f %.2f Z",
		x, y-h, x+h, y, x, y+h, x-h, y)
}
