package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ringmap/pkg/cache"
	"github.com/matzehuels/ringmap/pkg/observability"
	"github.com/matzehuels/ringmap/pkg/scene"
	"github.com/matzehuels/ringmap/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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

// Execute runs the complete build → layout → audit pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Build
	buildStart := time.Now()
	observability.Pipeline().OnBuildStart(ctx, len(opts.Scene.Nodes))
	t, err := opts.Scene.BuildTree()
	observability.Pipeline().OnBuildComplete(ctx, countNodes(t), time.Since(buildStart), err)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = t.NodeCount()
	result.TreeHash = treeHash(opts.Scene)

	r.Logger.Info("built tree",
		"nodes", t.NodeCount(),
		"rings", t.MaxRing()+1,
		"duration", result.Stats.BuildTime)

	// Stage 2+3: Layout and audit
	layoutStart := time.Now()
	layout, gap, layoutHit, err := r.computeLayoutCached(ctx, t, result.TreeHash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.RingGap = gap
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.VisibleCount = layout.NodeCount
	result.CacheInfo.LayoutHit = layoutHit

	observability.Pipeline().OnAuditComplete(ctx,
		len(layout.Report.Violations), len(layout.Report.Compressions))

	r.Logger.Info("computed layout",
		"visible", layout.NodeCount,
		"compressions", len(layout.Report.Compressions),
		"violations", len(layout.Report.Violations),
		"duration", result.Stats.LayoutTime)

	return result, nil
}

// Build validates the scene's records into a tree. Trees are cheap enough
// that there is no cache in front of this stage.
func (r *Runner) Build(ctx context.Context, opts Options) (*tree.Tree, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return opts.Scene.BuildTree()
}

// ComputeLayout computes a layout for an already-built tree, with caching.
func (r *Runner) ComputeLayout(ctx context.Context, t *tree.Tree, opts Options) (scene.Layout, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return scene.Layout{}, err
	}
	r.applyLogger(&opts)
	layout, _, _, err := r.computeLayoutCached(ctx, t, treeHash(opts.Scene), opts)
	return layout, err
}

// computeLayoutCached wraps the layout stage with the cache. Swept and
// fixed-gap requests key separately; on a hit the gap is read back from
// the stored radius table, since a sweep picks its own.
func (r *Runner) computeLayoutCached(ctx context.Context, t *tree.Tree, hash string, opts Options) (scene.Layout, float64, bool, error) {
	cacheKey := r.Keyer.LayoutKey(opts.LayoutKeyOpts(hash))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "layout")
			cached, err := scene.ReadLayout(bytes.NewReader(data))
			if err == nil {
				return cached, cachedGap(cached, opts.RingGap), true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		} else {
			observability.Cache().OnCacheMiss(ctx, "layout")
		}
	}

	layout, gap, err := computeLayout(ctx, t, opts)
	if err != nil {
		return scene.Layout{}, 0, false, err
	}

	if data, err := scene.MarshalLayout(layout); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.LayoutTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return layout, gap, false, nil // Cache miss
}

// cachedGap recovers the ring spacing a cached layout was computed with.
// The radius table is part of the stored document, so the gap a sweep
// landed on survives the round trip. Layouts without two radii (a bare
// center ring) fall back to the requested gap.
func cachedGap(l scene.Layout, fallback float64) float64 {
	if len(l.RingRadii) >= 2 {
		return l.RingRadii[1] - l.RingRadii[0]
	}
	return fallback
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

// treeHash hashes the scene's node records for cache keys and API
// responses. View state is deliberately excluded; it varies per request
// while the tree does not.
func treeHash(s scene.Scene) string {
	stripped := scene.Scene{Nodes: s.Nodes}
	data, err := scene.MarshalScene(stripped)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

func countNodes(t *tree.Tree) int {
	if t == nil {
		return 0
	}
	return t.NodeCount()
}
