// Package pipeline provides the core layout pipeline for ringmap.
//
// This package implements the complete build → layout → audit pipeline that
// can be used by CLI, API, and worker components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Validate the flat node records into a tree
//  2. Layout: Compute radial positions for every visible node
//  3. Audit: Verify the no-overlap invariant of the result
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Scene: myScene,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	placements := result.Layout.Placements
//
// Run individual stages:
//
//	// Build only
//	t, err := runner.Build(ctx, opts)
//
//	// Layout with existing tree
//	res, err := runner.ComputeLayout(ctx, t, opts)
package pipeline

import (
	"fmt"
	"io"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ringmap/pkg/cache"
	"github.com/matzehuels/ringmap/pkg/radial"
	"github.com/matzehuels/ringmap/pkg/ring"
	"github.com/matzehuels/ringmap/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Worker
// =============================================================================

const (
	// DefaultMaxNodes bounds scene size. Scenes beyond this are rejected
	// at the boundary; the engine itself has no hard limit.
	DefaultMaxNodes = 10000
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Scene is the layout input: node records plus view state.
	Scene scene.Scene `json:"scene"`

	// Layout options
	RingGap    float64 `json:"ring_gap,omitempty"`    // ring spacing; 0 means ring.DefaultGap
	StartAngle float64 `json:"start_angle,omitempty"` // radians; 0 means twelve o'clock, 2π means three o'clock exactly
	TotalAngle float64 `json:"total_angle,omitempty"` // radians; 0 means full circle
	Tolerance  float64 `json:"tolerance,omitempty"`   // audit slack; 0 means the default
	SkipAudit  bool    `json:"skip_audit,omitempty"`
	Sweep      bool    `json:"sweep,omitempty"` // pick the smallest clean ring gap automatically

	// MaxNodes bounds accepted scene size; 0 means DefaultMaxNodes.
	MaxNodes int `json:"max_nodes,omitempty"`

	// Refresh bypasses the cache and recomputes everything.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout contains the placements, radius table, and report.
	Layout scene.Layout

	// TreeHash is the content hash of the built tree's records.
	TreeHash string

	// RingGap is the ring spacing actually used (relevant with Sweep).
	RingGap float64

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	VisibleCount int
	BuildTime    time.Duration
	LayoutTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Scene.Nodes) == 0 {
		return fmt.Errorf("scene is required")
	}
	if o.MaxNodes == 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if len(o.Scene.Nodes) > o.MaxNodes {
		return fmt.Errorf("scene too large: %d nodes (max %d)", len(o.Scene.Nodes), o.MaxNodes)
	}
	if o.RingGap < 0 {
		return fmt.Errorf("ring gap must be positive")
	}
	if o.RingGap == 0 {
		o.RingGap = ring.DefaultGap
	}
	if o.TotalAngle < 0 || o.TotalAngle > 2*math.Pi {
		return fmt.Errorf("total angle must be in [0, 2π] (0 means a full circle)")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// RingConfig resolves the ring configuration in effect.
func (o *Options) RingConfig() ring.Config {
	return ring.WithGap(o.RingGap)
}

// EngineOptions resolves the engine options in effect.
func (o *Options) EngineOptions() radial.Options {
	return radial.Options{
		StartAngle: o.StartAngle,
		TotalAngle: o.TotalAngle,
		Expanded:   o.Scene.ExpandedSet(),
		Viewport:   o.Scene.Viewport.Context(),
		Tolerance:  o.Tolerance,
		SkipAudit:  o.SkipAudit,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts(treeHash string) cache.LayoutKeyOpts {
	var expanded []string
	if o.Scene.Expanded != nil {
		expanded = slices.Clone(o.Scene.Expanded)
		slices.Sort(expanded)
	}
	var viewport string
	if o.Scene.Viewport != nil {
		viewport = fmt.Sprintf("%gx%g@%g/%g/%d",
			o.Scene.Viewport.Width, o.Scene.Viewport.Height,
			o.Scene.Viewport.PixelDensity, o.Scene.Viewport.Zoom,
			o.Scene.Viewport.VisibleNodes)
	}
	return cache.LayoutKeyOpts{
		TreeHash:   treeHash,
		Expanded:   expanded,
		RingGap:    o.RingGap,
		StartAngle: o.StartAngle,
		TotalAngle: o.TotalAngle,
		Tolerance:  o.Tolerance,
		SkipAudit:  o.SkipAudit,
		Sweep:      o.Sweep,
		Viewport:   viewport,
	}
}
