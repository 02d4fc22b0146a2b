package pipeline

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/ringmap/pkg/cache"
	"github.com/matzehuels/ringmap/pkg/ring"
	"github.com/matzehuels/ringmap/pkg/scene"
	"github.com/matzehuels/ringmap/pkg/tree"
)

func testScene() scene.Scene {
	return scene.Scene{
		Nodes: []tree.Record{
			{ID: "root", Ring: 0, Importance: 1},
			{ID: "a", Ring: 1, ParentID: "root", Importance: 0.8},
			{ID: "a1", Ring: 2, ParentID: "a", Importance: 0.5},
			{ID: "b", Ring: 1, ParentID: "root", Importance: 0.1},
		},
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Scene: testScene()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	if opts.RingGap != ring.DefaultGap {
		t.Errorf("RingGap = %g, want default %g", opts.RingGap, ring.DefaultGap)
	}
	if opts.MaxNodes != DefaultMaxNodes {
		t.Errorf("MaxNodes = %d, want %d", opts.MaxNodes, DefaultMaxNodes)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}

	// Idempotent
	gap := opts.RingGap
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second call error = %v", err)
	}
	if opts.RingGap != gap {
		t.Error("RingGap changed on second call")
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	big := scene.Scene{}
	for i := 0; i < 11; i++ {
		big.Nodes = append(big.Nodes, tree.Record{ID: fmt.Sprintf("n%d", i), Ring: 0})
	}

	tests := []struct {
		name string
		opts Options
	}{
		{"empty scene", Options{}},
		{"too many nodes", Options{Scene: big, MaxNodes: 10}},
		{"negative gap", Options{Scene: testScene(), RingGap: -1}},
		{"total angle too large", Options{Scene: testScene(), TotalAngle: 3 * math.Pi}},
		{"negative total angle", Options{Scene: testScene(), TotalAngle: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err == nil {
				t.Error("ValidateAndSetDefaults() error = nil, want error")
			}
		})
	}
}

func TestTotalAngleBounds(t *testing.T) {
	// Both endpoints are legal: 0 means a full circle, 2π is one spelled out.
	for _, angle := range []float64{0, 2 * math.Pi} {
		opts := Options{Scene: testScene(), TotalAngle: angle}
		if err := opts.ValidateAndSetDefaults(); err != nil {
			t.Errorf("TotalAngle = %g rejected: %v", angle, err)
		}
	}

	opts := Options{Scene: testScene(), TotalAngle: -0.1}
	err := opts.ValidateAndSetDefaults()
	if err == nil {
		t.Fatal("negative total angle accepted")
	}
	if !strings.Contains(err.Error(), "[0, 2π]") {
		t.Errorf("error %q does not state the accepted range", err)
	}
}

func TestRingConfig(t *testing.T) {
	opts := Options{Scene: testScene(), RingGap: 200}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if got := opts.RingConfig().Rings[1].Radius; got != 200 {
		t.Errorf("ring 1 radius = %g, want 200", got)
	}
}

func TestEngineOptions(t *testing.T) {
	s := testScene()
	s.Expanded = []string{"root"}
	s.Viewport = &scene.Viewport{Width: 800, Height: 600}
	opts := Options{Scene: s, StartAngle: 0.5, Tolerance: 1, SkipAudit: true}

	eo := opts.EngineOptions()
	if eo.StartAngle != 0.5 || eo.Tolerance != 1 || !eo.SkipAudit {
		t.Errorf("EngineOptions() = %+v, want scalar fields carried over", eo)
	}
	if eo.Expanded == nil || !eo.Expanded["root"] {
		t.Errorf("Expanded = %v, want {root}", eo.Expanded)
	}
	if eo.Viewport == nil || eo.Viewport.Width != 800 {
		t.Errorf("Viewport = %+v, want width 800", eo.Viewport)
	}

	// No view state at all: nil set, nil viewport
	plain := Options{Scene: testScene()}
	eo = plain.EngineOptions()
	if eo.Expanded != nil || eo.Viewport != nil {
		t.Errorf("EngineOptions() = %+v, want nil view state", eo)
	}
}

func TestLayoutKeyOpts(t *testing.T) {
	base := Options{Scene: testScene(), RingGap: 150}

	if k := base.LayoutKeyOpts("hash-a"); k.TreeHash != "hash-a" || k.RingGap != 150 {
		t.Errorf("LayoutKeyOpts = %+v, want tree hash and gap carried", k)
	}

	// Expanded order must not matter
	s1 := testScene()
	s1.Expanded = []string{"a", "root"}
	s2 := testScene()
	s2.Expanded = []string{"root", "a"}
	e1 := (&Options{Scene: s1, RingGap: 150}).LayoutKeyOpts("h").Expanded
	e2 := (&Options{Scene: s2, RingGap: 150}).LayoutKeyOpts("h").Expanded
	if len(e1) != 2 || e1[0] != e2[0] || e1[1] != e2[1] {
		t.Errorf("expanded sets differ after sorting: %v vs %v", e1, e2)
	}

	// Viewport fingerprint present only with a viewport
	sv := testScene()
	sv.Viewport = &scene.Viewport{Width: 800, Height: 600, Zoom: 2}
	if got := (&Options{Scene: sv, RingGap: 150}).LayoutKeyOpts("h").Viewport; got == "" {
		t.Error("viewport fingerprint empty")
	}
	if got := base.LayoutKeyOpts("h").Viewport; got != "" {
		t.Errorf("fingerprint without viewport = %q, want empty", got)
	}

	// Audit knobs are key inputs: a layout stored without an audit (or with
	// different slack) carries a different report and must not be served for
	// an audited request.
	keyer := cache.NewDefaultKeyer()
	audited := keyer.LayoutKey(base.LayoutKeyOpts("h"))
	for _, tt := range []struct {
		name string
		opts Options
	}{
		{"skip audit", Options{Scene: testScene(), RingGap: 150, SkipAudit: true}},
		{"tolerance", Options{Scene: testScene(), RingGap: 150, Tolerance: 2}},
		{"sweep", Options{Scene: testScene(), RingGap: 150, Sweep: true}},
	} {
		if keyer.LayoutKey(tt.opts.LayoutKeyOpts("h")) == audited {
			t.Errorf("%s not reflected in layout key", tt.name)
		}
	}

	// Node density feeds the viewport scaling, so it is part of the
	// fingerprint too.
	dense := testScene()
	dense.Viewport = &scene.Viewport{Width: 800, Height: 600, VisibleNodes: 2500}
	sparse := testScene()
	sparse.Viewport = &scene.Viewport{Width: 800, Height: 600, VisibleNodes: 25}
	fp1 := (&Options{Scene: dense, RingGap: 150}).LayoutKeyOpts("h").Viewport
	fp2 := (&Options{Scene: sparse, RingGap: 150}).LayoutKeyOpts("h").Viewport
	if fp1 == fp2 {
		t.Errorf("fingerprint ignores visible node count: %q", fp1)
	}
}
