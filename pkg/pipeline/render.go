package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/exhibitnet/pkg/cache"
	"github.com/matzehuels/exhibitnet/pkg/network"
	"github.com/matzehuels/exhibitnet/pkg/observability"
	"github.com/matzehuels/exhibitnet/pkg/render"
	"github.com/matzehuels/exhibitnet/pkg/render/nodelink"
)

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// JSON is never cached because it carries the run id.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l network.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	hash, err := LayoutHash(l)
	if err != nil {
		return nil, false, fmt.Errorf("hash layout: %w", err)
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	cacheable := 0
	for _, format := range opts.Formats {
		if !Cacheable(format) {
			continue
		}
		cacheable++
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			artifacts[format] = data
			observability.Cache().OnCacheHit(ctx, "artifact")
			continue
		}
		allCached = false
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	for _, format := range opts.Formats {
		if _, ok := artifacts[format]; ok {
			continue
		}
		data, err := RenderFormat(ctx, l, format, opts)
		if err != nil {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, false, err
		}
		artifacts[format] = data
		if Cacheable(format) {
			key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
			if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
				observability.Cache().OnCacheSet(ctx, "artifact", len(data))
			}
		}
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, cacheable > 0 && allCached, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l network.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// RenderFormat renders one artifact without caching.
func RenderFormat(ctx context.Context, l network.Layout, format string, opts Options) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = render.JSON(l)
	case FormatSVG:
		if opts.Engine == EngineGraphviz {
			data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(l, dotOptions(opts)))
		} else {
			data = render.SVG(l, render.Options{Labels: opts.Labels, AllEdges: opts.AllEdges})
		}
	case FormatDOT:
		data = []byte(nodelink.ToDOT(l, dotOptions(opts)))
	case FormatPNG:
		data, err = nodelink.RenderPNG(ctx, nodelink.ToDOT(l, dotOptions(opts)))
	default:
		return nil, ValidateFormat(format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}

func dotOptions(opts Options) nodelink.Options {
	return nodelink.Options{Labels: opts.Labels, AllEdges: opts.AllEdges}
}
