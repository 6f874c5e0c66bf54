// Package render turns a computed [network.Layout] into output artifacts.
//
// # Overview
//
// Renderers are sinks: they read positions, edges and flags from the layout
// and never recompute geometry. The only styling inputs that cross from the
// layout engine are [network.Edge.Ambiguous] (drawn dashed) and
// [network.Edge.Degenerate] (drawn faint); colours come from the node's
// community through [CommunityColor].
//
//   - [JSON]: the layout payload for interactive hosts
//   - [SVG]: a self-contained native SVG honouring the view transform and
//     edge culling
//   - [nodelink]: Graphviz DOT with pinned positions, rendered to SVG or PNG
//     in-process through go-graphviz
//
//	svg := render.SVG(layout, render.Options{Labels: true})
//	dot := nodelink.ToDOT(layout, nodelink.Options{})
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/exhibitnet/pkg/render/nodelink
package render
