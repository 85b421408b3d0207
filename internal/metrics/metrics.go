// Package metrics implements the observability hooks on Prometheus.
//
// The core packages emit events through pkg/observability without importing
// any metrics framework; this package translates those events into Prometheus
// collectors. It is wired up by the serve command, which also exposes the
// /metrics endpoint.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/flowmap/flowmap/pkg/observability"
)

// Hooks bundles the Prometheus-backed hook implementations and their
// collectors so a caller can register everything on one registry.
type Hooks struct {
	layoutRuns      *prometheus.CounterVec
	layoutDuration  *prometheus.HistogramVec
	layoutDiags     prometheus.Histogram
	renderRuns      *prometheus.CounterVec
	renderDuration  *prometheus.HistogramVec
	cacheOps        *prometheus.CounterVec
	cacheWriteBytes prometheus.Histogram
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New creates the hook set and registers its collectors on reg.
func New(reg prometheus.Registerer) *Hooks {
	h := &Hooks{
		layoutRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flowmap_layout_runs_total",
			Help: "Layout computations by direction and outcome.",
		}, []string{"direction", "outcome"}),
		layoutDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "flowmap_layout_duration_seconds",
			Help:    "Layout computation time.",
			Buckets: prometheus.DefBuckets,
		}, []string{"direction"}),
		layoutDiags: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "flowmap_layout_diagnostics",
			Help:    "Diagnostics emitted per layout run.",
			Buckets: []float64{0, 1, 2, 5, 10, 25},
		}),
		renderRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flowmap_render_runs_total",
			Help: "Artifact renders by format and outcome.",
		}, []string{"format", "outcome"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "flowmap_render_duration_seconds",
			Help:    "Artifact render time.",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flowmap_cache_operations_total",
			Help: "Cache hits, misses and writes by key type.",
		}, []string{"key_type", "operation"}),
		cacheWriteBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "flowmap_cache_write_bytes",
			Help:    "Size of cache writes.",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flowmap_http_requests_total",
			Help: "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "flowmap_http_request_duration_seconds",
			Help:    "HTTP request handling time.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	reg.MustRegister(
		h.layoutRuns, h.layoutDuration, h.layoutDiags,
		h.renderRuns, h.renderDuration,
		h.cacheOps, h.cacheWriteBytes,
		h.httpRequests, h.httpDuration,
	)
	return h
}

// Install registers the hook set as the process-wide observability hooks.
func (h *Hooks) Install() {
	observability.SetPipelineHooks((*pipelineHooks)(h))
	observability.SetCacheHooks((*cacheHooks)(h))
	observability.SetServeHooks((*serveHooks)(h))
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

type pipelineHooks Hooks

func (h *pipelineHooks) OnImportStart(context.Context, string) {}

func (h *pipelineHooks) OnImportComplete(context.Context, string, int, time.Duration, error) {}

func (h *pipelineHooks) OnLayoutStart(context.Context, string, int) {}

func (h *pipelineHooks) OnLayoutComplete(_ context.Context, direction string, diagnostics int, d time.Duration, err error) {
	h.layoutRuns.WithLabelValues(direction, outcome(err)).Inc()
	if err == nil {
		h.layoutDuration.WithLabelValues(direction).Observe(d.Seconds())
		h.layoutDiags.Observe(float64(diagnostics))
	}
}

func (h *pipelineHooks) OnRenderStart(context.Context, string) {}

func (h *pipelineHooks) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	h.renderRuns.WithLabelValues(format, outcome(err)).Inc()
	if err == nil {
		h.renderDuration.WithLabelValues(format).Observe(d.Seconds())
	}
}

type cacheHooks Hooks

func (h *cacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (h *cacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (h *cacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheOps.WithLabelValues(keyType, "set").Inc()
	h.cacheWriteBytes.Observe(float64(size))
}

type serveHooks Hooks

func (h *serveHooks) OnRequest(context.Context, string, string) {}

func (h *serveHooks) OnResponse(_ context.Context, method, path string, statusCode int, d time.Duration) {
	h.httpRequests.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	h.httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}
