// Package pipeline provides the core layout pipeline for Flowmap.
//
// This package implements the complete import → layout → render pipeline
// shared by the CLI, the watch mode, and the HTTP service. Centralizing it
// keeps behavior and caching identical across all entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Import: Decode a diagram from a file or raw bytes
//  2. Layout: Compute geometry for every node and edge
//  3. Render: Generate output artifacts (JSON, DOT, SVG, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    Path:    "process.yaml",
//	    Formats: []string{"json", "svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/flowmap/flowmap/pkg/cache"
	"github.com/flowmap/flowmap/pkg/flow"
	"github.com/flowmap/flowmap/pkg/layout"
)

const (
	// DefaultSeed is the jitter seed used when jitter is enabled without an
	// explicit seed, so repeated runs stay reproducible.
	DefaultSeed = uint64(42)

	// TTLLayout is how long cached layouts live.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is how long cached rendered artifacts live.
	TTLArtifact = 7 * 24 * time.Hour
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input options. Exactly one of Path or Source must be set: Path names
	// a diagram file on disk, Source carries raw JSON diagram bytes.
	Path   string `json:"path,omitempty"`
	Source []byte `json:"-"`

	// Layout options. Zero spacings take the engine defaults.
	Direction        string  `json:"direction,omitempty"`
	RankSpacing      float64 `json:"rank_spacing,omitempty"`
	SiblingSpacing   float64 `json:"sibling_spacing,omitempty"`
	ContainerPadding float64 `json:"container_padding,omitempty"`
	GridSpacing      float64 `json:"grid_spacing,omitempty"`

	// Jitter enables the cosmetic post-pass; Seed selects the variant.
	Jitter bool   `json:"jitter,omitempty"`
	Seed   uint64 `json:"seed,omitempty"`

	// Refresh bypasses the cache and recomputes everything.
	Refresh bool `json:"refresh,omitempty"`

	// Render options.
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // geometry in DOT labels

	// Runtime options (not serialized).
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this execution in logs and metrics.
	RunID string

	// Diagram is the imported process diagram.
	Diagram *flow.Diagram

	// DiagramHash is the content hash of the diagram source.
	DiagramHash string

	// Layout is the computed geometry.
	Layout *layout.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	ImportTime time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // whether the layout came from cache
	RenderHit bool // whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Path == "" && len(o.Source) == 0 {
		return fmt.Errorf("path or source is required")
	}
	if o.Path != "" && len(o.Source) != 0 {
		return fmt.Errorf("path and source are mutually exclusive")
	}

	o.SetLayoutDefaults()
	if err := o.LayoutOptions().Validate(); err != nil {
		return err
	}

	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	o.validated = true
	return nil
}

// SetLayoutDefaults fills unset layout fields from the engine defaults.
func (o *Options) SetLayoutDefaults() {
	def := layout.Default()
	if o.Direction == "" {
		o.Direction = string(def.Direction)
	}
	if o.RankSpacing == 0 {
		o.RankSpacing = def.RankSpacing
	}
	if o.SiblingSpacing == 0 {
		o.SiblingSpacing = def.SiblingSpacing
	}
	if o.ContainerPadding == 0 {
		o.ContainerPadding = def.ContainerPadding
	}
	if o.GridSpacing == 0 {
		o.GridSpacing = def.GridSpacing
	}
	if o.Jitter && o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutOptions converts the pipeline options into engine options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		Direction:        layout.Direction(o.Direction),
		RankSpacing:      o.RankSpacing,
		SiblingSpacing:   o.SiblingSpacing,
		ContainerPadding: o.ContainerPadding,
		GridSpacing:      o.GridSpacing,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	opts := cache.LayoutKeyOpts{
		Direction:        o.Direction,
		RankSpacing:      o.RankSpacing,
		SiblingSpacing:   o.SiblingSpacing,
		ContainerPadding: o.ContainerPadding,
		GridSpacing:      o.GridSpacing,
	}
	if o.Jitter {
		opts.JitterSeed = o.Seed
	}
	return opts
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Detailed: o.Detailed}
}
