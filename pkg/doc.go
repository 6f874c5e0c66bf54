// Package pkg provides the libraries behind exhibitnet.
//
// # Overview
//
// Exhibitnet lays out a network of artists and the exhibitions they showed
// in during one year. Artists who belong to a single exhibition cluster sit
// inside it; ambiguous (fuzzy) artists sit between the exhibitions they
// belong to, pulled towards each in proportion to their community weights.
//
// # Architecture
//
//	artists table + fuzzy memberships table (local or s3://)
//	         ↓
//	    [membership] (fetch, decode, join by name and year)
//	         ↓
//	    [network] (clusters, centres, placement, edges, culling)
//	         ↓
//	    [render] and [render/nodelink] (JSON, SVG, DOT, PNG)
//
// [pipeline] runs these stages for the CLI, the explorer and the HTTP
// server. [cache] holds fetched remote tables and rendered artifacts in a
// file, Redis or MongoDB backend. [observability] exposes pipeline, cache
// and HTTP hooks with a Prometheus implementation. [errors] defines the
// coded errors every package returns.
//
// # Quick Start
//
//	ds, _ := membership.LoadTables(ctx, "artists.csv", "memberships.csv", nil)
//	l, _ := network.Build(ds.ForYear(1929), network.DefaultConfig(), network.Identity())
//	svg := render.SVG(l, render.Options{})
//
// # Testing
//
//	go test ./pkg/...
//	go test -tags integration ./pkg/cache/...  # needs Redis and MongoDB
//
// [membership]: https://pkg.go.dev/github.com/matzehuels/exhibitnet/pkg/membership
// [network]: https://pkg.go.dev/github.com/matzehuels/exhibitnet/pkg/network
// [render]: https://pkg.go.dev/github.com/matzehuels/exhibitnet/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/exhibitnet/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/exhibitnet/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/exhibitnet/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/exhibitnet/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/exhibitnet/pkg/errors
package pkg
