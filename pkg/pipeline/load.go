package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/exhibitnet/pkg/membership"
	"github.com/matzehuels/exhibitnet/pkg/observability"
)

// LoadWithCacheInfo fetches and joins both tables. Remote tables are served
// from the cache unless opts.Refresh is set. The boolean reports whether
// every remote table came from the cache; it is false when a local file was
// read.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*membership.Dataset, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	inner := r.Opener
	if inner == nil {
		inner = membership.NewSourceOpener(opts.S3)
	}

	var (
		mu     sync.Mutex
		hits   int
		misses int
	)
	opener := &membership.CachingOpener{
		Inner:   inner,
		Cache:   r.Cache,
		Keyer:   r.Keyer,
		Refresh: opts.Refresh,
		Kind: func(uri string) string {
			if uri == opts.Artists {
				return "artists"
			}
			return "memberships"
		},
		OnLookup: func(uri string, hit bool) {
			mu.Lock()
			defer mu.Unlock()
			if hit {
				hits++
				observability.Cache().OnCacheHit(ctx, "table")
				opts.Logger.Debug("table cache hit", "uri", uri)
			} else {
				misses++
				observability.Cache().OnCacheMiss(ctx, "table")
			}
		},
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, []string{opts.Artists, opts.Memberships})
	start := time.Now()

	ds, err := membership.LoadTables(ctx, opts.Artists, opts.Memberships, opener)

	records := 0
	if err == nil {
		for _, y := range ds.Years() {
			records += y.Artists
		}
	}
	hooks.OnLoadComplete(ctx, records, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if ds.Stats.SkippedRows > 0 || ds.Stats.MissingWeights > 0 {
		opts.Logger.Debug("load anomalies",
			"skipped_rows", ds.Stats.SkippedRows,
			"missing_weights", ds.Stats.MissingWeights,
			"unmatched_memberships", ds.Stats.UnmatchedMemberships,
			"duplicate_memberships", ds.Stats.DuplicateMemberships)
	}
	return ds, hits > 0 && misses == 0, nil
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*membership.Dataset, error) {
	ds, _, err := r.LoadWithCacheInfo(ctx, opts)
	return ds, err
}
