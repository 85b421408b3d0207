package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/flowmap/flowmap/pkg/cache"
	"github.com/flowmap/flowmap/pkg/diagram"
	"github.com/flowmap/flowmap/pkg/flow"
	"github.com/flowmap/flowmap/pkg/layout"
	"github.com/flowmap/flowmap/pkg/layout/jitter"
	"github.com/flowmap/flowmap/pkg/observability"
	"github.com/flowmap/flowmap/pkg/render/dot"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the HTTP service use it so caching logic lives in one
// place.
//
// The Runner is stateless except for the cache and logger; it stores no
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching; a nil logger
// falls back to the default logger.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Execute runs the complete import → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
	logger := r.Logger.With("run_id", result.RunID)

	// Stage 1: Import
	importStart := time.Now()
	d, source, err := r.Import(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	result.Diagram = d
	result.DiagramHash = cache.Hash(source)
	result.Stats.ImportTime = time.Since(importStart)
	result.Stats.NodeCount = d.NodeCount()
	result.Stats.EdgeCount = d.EdgeCount()

	logger.Info("imported diagram",
		"nodes", d.NodeCount(),
		"edges", d.EdgeCount(),
		"duration", result.Stats.ImportTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	res, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, d, result.DiagramHash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	logger.Info("computed layout",
		"placed", len(res.Nodes),
		"routed", len(res.Edges),
		"diagnostics", len(res.Diagnostics),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)
	for _, diag := range res.Diagnostics {
		logger.Warn("layout diagnostic", "detail", diag.String())
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered artifacts",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Import decodes the diagram from opts and returns it with the raw source
// bytes the cache keys derive from.
func (r *Runner) Import(ctx context.Context, opts Options) (*flow.Diagram, []byte, error) {
	path := opts.Path
	if path == "" {
		path = "<inline>"
	}
	obs := observability.Pipeline()
	obs.OnImportStart(ctx, path)
	start := time.Now()

	d, source, err := importDiagram(opts)
	nodes := 0
	if d != nil {
		nodes = d.NodeCount()
	}
	obs.OnImportComplete(ctx, path, nodes, time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	return d, source, nil
}

func importDiagram(opts Options) (*flow.Diagram, []byte, error) {
	if len(opts.Source) != 0 {
		d, err := diagram.ReadJSON(bytes.NewReader(opts.Source))
		return d, opts.Source, err
	}

	source, err := os.ReadFile(opts.Path)
	if err != nil {
		return nil, nil, err
	}
	var d *flow.Diagram
	switch strings.ToLower(filepath.Ext(opts.Path)) {
	case ".yaml", ".yml":
		d, err = diagram.ReadYAML(bytes.NewReader(source))
	default:
		d, err = diagram.ReadJSON(bytes.NewReader(source))
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", opts.Path, err)
	}
	return d, source, nil
}

// ComputeLayoutWithCacheInfo computes the layout with caching and reports
// whether the result came from cache.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, d *flow.Diagram, diagramHash string, opts Options) (*layout.Result, bool, error) {
	opts.SetLayoutDefaults()
	r.applyLogger(&opts)

	key := cache.LayoutKey(diagramHash, opts.LayoutKeyOpts())
	cacheObs := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached layout.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				cacheObs.OnCacheHit(ctx, "layout")
				return &cached, true, nil
			}
			// Corrupt entry, recompute.
		}
		cacheObs.OnCacheMiss(ctx, "layout")
	}

	obs := observability.Pipeline()
	obs.OnLayoutStart(ctx, opts.Direction, d.NodeCount())
	start := time.Now()

	res, err := layout.Layout(d, opts.LayoutOptions())
	if err == nil && opts.Jitter {
		res = jitter.Apply(res, layout.Direction(opts.Direction), opts.Seed, nil)
	}

	diags := 0
	if res != nil {
		diags = len(res.Diagnostics)
	}
	obs.OnLayoutComplete(ctx, opts.Direction, diags, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(res); err == nil {
		_ = r.Cache.Set(ctx, key, data, TTLLayout)
		cacheObs.OnCacheSet(ctx, "layout", len(data))
	}
	return res, false, nil
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, d *flow.Diagram, diagramHash string, opts Options) (*layout.Result, error) {
	res, _, err := r.ComputeLayoutWithCacheInfo(ctx, d, diagramHash, opts)
	return res, err
}

// RenderWithCacheInfo generates artifacts with caching and reports whether
// all of them came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *layout.Result, opts Options) (map[string][]byte, bool, error) {
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	layoutData, err := json.Marshal(res)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)
	cacheObs := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := !opts.Refresh
	if allCached {
		for _, format := range opts.Formats {
			key := cache.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				cacheObs.OnCacheMiss(ctx, "artifact")
				allCached = false
				break
			}
			cacheObs.OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	obs := observability.Pipeline()
	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		obs.OnRenderStart(ctx, format)
		start := time.Now()
		data, err := renderFormat(ctx, res, format, opts)
		obs.OnRenderComplete(ctx, format, time.Since(start), err)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		rendered[format] = data

		key := cache.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, key, data, TTLArtifact)
		cacheObs.OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res *layout.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
}

func renderFormat(ctx context.Context, res *layout.Result, format string, opts Options) ([]byte, error) {
	dotOpts := dot.Options{Direction: layout.Direction(opts.Direction), Detailed: opts.Detailed}
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		if err := diagram.WriteLayoutJSON(res, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatDOT:
		return []byte(dot.ToDOT(res, dotOpts)), nil
	case FormatSVG:
		return dot.RenderSVG(ctx, dot.ToDOT(res, dotOpts))
	case FormatPNG:
		return dot.RenderPNG(ctx, dot.ToDOT(res, dotOpts))
	default:
		return nil, fmt.Errorf("invalid format: %q", format)
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
