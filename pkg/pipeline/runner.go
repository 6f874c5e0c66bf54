package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/exhibitnet/pkg/cache"
	"github.com/matzehuels/exhibitnet/pkg/membership"
	"github.com/matzehuels/exhibitnet/pkg/network"
)

// Runner loads tables, builds layouts and renders artifacts, caching the
// fetched tables and rendered outputs. Layouts themselves are never cached.
// The CLI, the TUI and the HTTP server all use it.
//
// The Runner is stateless except for the cache, the opener and the logger;
// it doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Opener fetches tables. Nil selects a [membership.SourceOpener]
	// configured from the options' S3 settings.
	Opener membership.Opener
}

// NewRunner creates a runner. Nil arguments fall back to the default keyer,
// a disabled cache and the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	ds, tablesHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Load = ds.Stats
	result.Stats.LoadTime = time.Since(loadStart)
	result.CacheInfo.TablesHit = tablesHit

	r.Logger.Info("loaded tables",
		"artist_rows", ds.Stats.ArtistRows,
		"membership_rows", ds.Stats.MembershipRows,
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, err := r.BuildLayout(ctx, ds, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.RunID = l.RunID
	result.Stats.Records = l.Stats.Artists + l.Stats.SkippedRecords
	result.Stats.NodeCount = len(l.Nodes)
	result.Stats.EdgeCount = len(l.Edges)
	result.Stats.VisibleEdges = l.Stats.VisibleEdges
	result.Stats.LayoutTime = time.Since(layoutStart)

	if l.NoData {
		r.Logger.Warn("empty selection", "year", opts.Year, "reason", l.Reason)
	} else {
		r.Logger.Info("built network",
			"year", opts.Year,
			"nodes", len(l.Nodes),
			"edges", len(l.Edges),
			"duration", result.Stats.LayoutTime)
	}

	// Stage 3: Render
	renderStart := time.Now()
	hash, err := LayoutHash(l)
	if err != nil {
		return nil, fmt.Errorf("hash layout: %w", err)
	}
	result.LayoutHash = hash
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Close closes the cache backend.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger fills opts.Logger from the runner.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// Rebuild recomputes the layout for a new year or config against an
// already-loaded dataset, carrying the caller's transform. Hosts use it to
// react to control changes without reloading the tables.
func (r *Runner) Rebuild(ctx context.Context, ds *membership.Dataset, opts Options) (network.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return network.Layout{}, err
	}
	return r.BuildLayout(ctx, ds, opts)
}
