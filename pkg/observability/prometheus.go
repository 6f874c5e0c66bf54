package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks implements every hook interface on top of Prometheus
// collectors registered with a single registerer.
type PrometheusHooks struct {
	StageTotal    *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	LayoutNodes   prometheus.Histogram
	LayoutEdges   prometheus.Histogram

	CacheLookups  *prometheus.CounterVec
	CacheSetBytes *prometheus.CounterVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewPrometheusHooks creates the collectors and registers them with reg.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		StageTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exhibitnet_stage_total",
				Help: "Pipeline stage executions by stage and status",
			},
			[]string{"stage", "status"},
		),
		StageDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "exhibitnet_stage_duration_seconds",
				Help:    "Pipeline stage latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		LayoutNodes: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "exhibitnet_layout_nodes",
				Help:    "Nodes per computed layout",
				Buckets: prometheus.ExponentialBuckets(10, 2, 10),
			},
		),
		LayoutEdges: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "exhibitnet_layout_edges",
				Help:    "Edges per computed layout",
				Buckets: prometheus.ExponentialBuckets(10, 2, 12),
			},
		),
		CacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exhibitnet_cache_lookups_total",
				Help: "Cache lookups by key type and result",
			},
			[]string{"key_type", "result"},
		),
		CacheSetBytes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exhibitnet_cache_set_bytes_total",
				Help: "Bytes written to the cache by key type",
			},
			[]string{"key_type"},
		),
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exhibitnet_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "exhibitnet_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (p *PrometheusHooks) stage(name string, d time.Duration, err error) {
	p.StageTotal.WithLabelValues(name, status(err)).Inc()
	p.StageDuration.WithLabelValues(name).Observe(d.Seconds())
}

func (p *PrometheusHooks) OnLoadStart(context.Context, []string) {}

func (p *PrometheusHooks) OnLoadComplete(_ context.Context, _ int, d time.Duration, err error) {
	p.stage("load", d, err)
}

func (p *PrometheusHooks) OnLayoutStart(context.Context, int, int) {}

func (p *PrometheusHooks) OnLayoutComplete(_ context.Context, _, nodes, edges int, d time.Duration, err error) {
	p.stage("layout", d, err)
	if err == nil {
		p.LayoutNodes.Observe(float64(nodes))
		p.LayoutEdges.Observe(float64(edges))
	}
}

func (p *PrometheusHooks) OnRenderStart(context.Context, []string) {}

func (p *PrometheusHooks) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	p.stage("render", d, err)
}

func (p *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	p.CacheLookups.WithLabelValues(keyType, "hit").Inc()
}

func (p *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	p.CacheLookups.WithLabelValues(keyType, "miss").Inc()
}

func (p *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	p.CacheSetBytes.WithLabelValues(keyType).Add(float64(size))
}

func (p *PrometheusHooks) OnRequest(_ context.Context, method, route string, code int, d time.Duration) {
	p.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	p.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ HTTPHooks     = (*PrometheusHooks)(nil)
)
