package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/exhibitnet/pkg/cache"
	errs "github.com/matzehuels/exhibitnet/pkg/errors"
	"github.com/matzehuels/exhibitnet/pkg/membership"
	"github.com/matzehuels/exhibitnet/pkg/network"
	"github.com/matzehuels/exhibitnet/pkg/observability"
)

// =============================================================================
// Layout Generation
// =============================================================================

// BuildLayout computes a fresh layout for opts.Year. Nothing from a previous
// run is reused except opts.Transform. Every layout gets a new run id.
//
// An empty selection is not an error: the layout comes back with NoData set.
func (r *Runner) BuildLayout(ctx context.Context, ds *membership.Dataset, opts Options) (network.Layout, error) {
	if err := ctx.Err(); err != nil {
		return network.Layout{}, err
	}
	r.applyLogger(&opts)
	opts.SetLayoutDefaults()

	records := ds.ForYear(opts.Year)
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Year, len(records))
	start := time.Now()

	l, err := network.Build(records, opts.Network, opts.Transform)
	if err != nil {
		hooks.OnLayoutComplete(ctx, opts.Year, 0, 0, time.Since(start), err)
		return network.Layout{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "invalid network config")
	}
	l.RunID = uuid.NewString()
	l.Year = opts.Year
	hooks.OnLayoutComplete(ctx, opts.Year, len(l.Nodes), len(l.Edges), time.Since(start), nil)

	if l.Stats.InvalidVectors > 0 {
		opts.Logger.Debug("invalid membership vectors", "count", l.Stats.InvalidVectors)
	}
	if l.Stats.DuplicateEdges > 0 || l.Stats.DegenerateEdges > 0 {
		opts.Logger.Debug("edge anomalies",
			"duplicates", l.Stats.DuplicateEdges,
			"degenerate", l.Stats.DegenerateEdges)
	}
	return l, nil
}

// LayoutHash returns the content hash of a layout, ignoring its run id so
// that identical recomputations share rendered artifacts.
func LayoutHash(l network.Layout) (string, error) {
	l.RunID = ""
	return cache.HashJSON(l)
}
