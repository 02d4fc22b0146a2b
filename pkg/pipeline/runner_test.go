package pipeline

import (
	"context"
	"testing"

	"github.com/matzehuels/ringmap/pkg/cache"
	"github.com/matzehuels/ringmap/pkg/ring"
	"github.com/matzehuels/ringmap/pkg/scene"
	"github.com/matzehuels/ringmap/pkg/tree"
)

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	res, err := r.Execute(context.Background(), Options{Scene: testScene()})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if res.Stats.NodeCount != 4 || res.Stats.VisibleCount != 4 {
		t.Errorf("stats = %+v, want 4 nodes, 4 visible", res.Stats)
	}
	if res.TreeHash == "" {
		t.Error("TreeHash empty")
	}
	if res.CacheInfo.LayoutHit {
		t.Error("LayoutHit = true with the null cache")
	}
	if len(res.Layout.Placements) != 4 {
		t.Errorf("placed %d nodes, want 4", len(res.Layout.Placements))
	}
	if res.Layout.NodeCount != 4 {
		t.Errorf("Layout.NodeCount = %d, want 4", res.Layout.NodeCount)
	}
	if !res.Layout.Report.Clean() {
		t.Errorf("report not clean: %+v", res.Layout.Report)
	}
}

func TestExecuteCollapsedScene(t *testing.T) {
	s := testScene()
	s.Expanded = []string{"root"}

	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{Scene: s})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	// a1 is hidden behind the collapsed a
	if res.Stats.VisibleCount != 3 {
		t.Errorf("VisibleCount = %d, want 3", res.Stats.VisibleCount)
	}
	if res.Stats.NodeCount != 4 {
		t.Errorf("NodeCount = %d, want the full tree", res.Stats.NodeCount)
	}
}

func TestExecuteInvalidScene(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	if _, err := r.Execute(context.Background(), Options{}); err == nil {
		t.Error("Execute() with empty scene should fail")
	}

	bad := scene.Scene{Nodes: []tree.Record{{ID: "floater", Ring: 2}}}
	if _, err := r.Execute(context.Background(), Options{Scene: bad}); err == nil {
		t.Error("Execute() with malformed records should fail at build")
	}
}

func TestExecuteCacheHit(t *testing.T) {
	dir := t.TempDir()
	c, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()

	ctx := context.Background()
	opts := Options{Scene: testScene()}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	if first.CacheInfo.LayoutHit {
		t.Error("first run hit the cache")
	}

	second, err := r.Execute(ctx, Options{Scene: testScene()})
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !second.CacheInfo.LayoutHit {
		t.Error("second run missed the cache")
	}
	for id, p := range first.Layout.Placements {
		if second.Layout.Placements[id] != p {
			t.Errorf("cached placement %s = %+v, want %+v", id, second.Layout.Placements[id], p)
		}
	}

	// Refresh bypasses the cache
	third, err := r.Execute(ctx, Options{Scene: testScene(), Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute() error = %v", err)
	}
	if third.CacheInfo.LayoutHit {
		t.Error("refresh run hit the cache")
	}
}

func TestExecuteCacheKeyedByViewState(t *testing.T) {
	dir := t.TempDir()
	c, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()

	ctx := context.Background()
	if _, err := r.Execute(ctx, Options{Scene: testScene()}); err != nil {
		t.Fatal(err)
	}

	// Same tree, different view state: must not reuse the cached layout.
	s := testScene()
	s.Expanded = []string{"root"}
	res, err := r.Execute(ctx, Options{Scene: s})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.LayoutHit {
		t.Error("view-state change reused a stale cached layout")
	}
	if res.Stats.VisibleCount != 3 {
		t.Errorf("VisibleCount = %d, want 3", res.Stats.VisibleCount)
	}
}

func TestExecuteSweep(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	res, err := r.Execute(context.Background(), Options{Scene: testScene(), Sweep: true})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	// A four-node tree is clean at the most compact candidate.
	if res.RingGap != 100 {
		t.Errorf("swept RingGap = %g, want 100", res.RingGap)
	}
	if !res.Layout.Report.Clean() {
		t.Errorf("swept layout not clean: %+v", res.Layout.Report)
	}
}

func TestExecuteSweepCacheHit(t *testing.T) {
	dir := t.TempDir()
	c, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()

	ctx := context.Background()

	first, err := r.Execute(ctx, Options{Scene: testScene(), Sweep: true})
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	if first.RingGap != 100 {
		t.Fatalf("swept RingGap = %g, want 100", first.RingGap)
	}

	// The cached layout was computed at the swept gap, not the default the
	// request would otherwise use.
	second, err := r.Execute(ctx, Options{Scene: testScene(), Sweep: true})
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !second.CacheInfo.LayoutHit {
		t.Fatal("second run missed the cache")
	}
	if second.RingGap != first.RingGap {
		t.Errorf("cached RingGap = %g, want %g", second.RingGap, first.RingGap)
	}

	// A non-swept run at the default gap must not reuse the swept layout.
	plain, err := r.Execute(ctx, Options{Scene: testScene()})
	if err != nil {
		t.Fatalf("plain Execute() error = %v", err)
	}
	if plain.CacheInfo.LayoutHit {
		t.Error("non-swept run reused the swept layout")
	}
	if plain.RingGap != ring.DefaultGap {
		t.Errorf("plain RingGap = %g, want %g", plain.RingGap, ring.DefaultGap)
	}
}

func TestBuildAndComputeLayout(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()
	opts := Options{Scene: testScene()}

	tr, err := r.Build(ctx, opts)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if tr.NodeCount() != 4 {
		t.Errorf("NodeCount() = %d, want 4", tr.NodeCount())
	}

	layout, err := r.ComputeLayout(ctx, tr, opts)
	if err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}
	if layout.NodeCount != 4 {
		t.Errorf("layout NodeCount = %d, want 4", layout.NodeCount)
	}
}
