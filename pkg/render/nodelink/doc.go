// Package nodelink renders exhibition networks through Graphviz.
//
// # Overview
//
// Positions come from the layout engine; Graphviz is used as a drawing
// backend only. [ToDOT] pins every node with pos="x,y!" and selects the
// neato engine, which honours pinned positions without moving them.
//
//	dot := nodelink.ToDOT(layout, nodelink.Options{Labels: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Styling
//
// Ambiguous edges are dashed and degenerate edges are drawn at low weight.
// Fuzzy artists get a dashed outline. Meta nodes are sized from their
// radius and labelled with their member count.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz], a WebAssembly build of
// Graphviz, so no system installation is required.
package nodelink
