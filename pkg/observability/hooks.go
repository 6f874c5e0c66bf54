// Package observability provides hooks for metrics and logging.
//
// Libraries emit events through the registered hooks; the binary decides
// which backend receives them. The default hooks do nothing, so library code
// never depends on a metrics framework being configured.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    prom := observability.NewPrometheusHooks(prometheus.NewRegistry())
//	    observability.SetPipelineHooks(prom)
//	    observability.SetCacheHooks(prom)
//	    observability.SetHTTPHooks(prom)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnLayoutStart(ctx, year, len(records))
//	// ... build layout ...
//	observability.Pipeline().OnLayoutComplete(ctx, year, nodes, edges, duration, err)
package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the load, layout and render stages.
type PipelineHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, sources []string)
	OnLoadComplete(ctx context.Context, records int, duration time.Duration, err error)

	// Layout events
	OnLayoutStart(ctx context.Context, year, records int)
	OnLayoutComplete(ctx context.Context, year, nodes, edges int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
// keyType is "table" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records a served request. route is the matched pattern,
	// not the raw path, to keep label cardinality bounded.
	OnRequest(ctx context.Context, method, route string, status int, duration time.Duration)
}

// NoopPipelineHooks discards pipeline events.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, []string)                     {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, int, int)                   {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, int, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks discards cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks discards HTTP events.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, int, time.Duration) {}

// registry is an immutable snapshot of the installed hooks. Readers load it
// without locking; writers copy, modify and swap it.
type registry struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var (
	current  atomic.Pointer[registry]
	updateMu sync.Mutex
)

func init() { Reset() }

func update(f func(*registry)) {
	updateMu.Lock()
	defer updateMu.Unlock()
	r := *current.Load()
	f(&r)
	current.Store(&r)
}

// SetPipelineHooks installs pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks installs cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks installs HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().pipeline }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return current.Load().http }

// Reset restores the no-op hooks. The serve command defers it; tests call
// it in cleanup.
func Reset() {
	updateMu.Lock()
	defer updateMu.Unlock()
	current.Store(&registry{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
	})
}
