package viewport

import (
	"math"
	"testing"

	"github.com/matzehuels/ringmap/pkg/ring"
)

const eps = 1e-9

func TestMetricsBaseUnits(t *testing.T) {
	m := Context{Width: 1000, Height: 800, PixelDensity: 2, Zoom: 1}.Metrics()

	// Base unit is 1% of the smaller dimension
	if math.Abs(m.BaseUnit-8) > eps {
		t.Errorf("BaseUnit = %g, want 8", m.BaseUnit)
	}
	// Readable unit is one device pixel
	if math.Abs(m.ReadableUnit-0.5) > eps {
		t.Errorf("ReadableUnit = %g, want 0.5", m.ReadableUnit)
	}
	// Ring gap is 15 base units
	if math.Abs(m.RingGap-120) > eps {
		t.Errorf("RingGap = %g, want 120", m.RingGap)
	}
}

func TestMetricsZoomScalesBase(t *testing.T) {
	m1 := Context{Width: 1000, Height: 1000}.Metrics()
	m2 := Context{Width: 1000, Height: 1000, Zoom: 2}.Metrics()

	if math.Abs(m2.BaseUnit-2*m1.BaseUnit) > eps {
		t.Errorf("zoomed BaseUnit = %g, want %g", m2.BaseUnit, 2*m1.BaseUnit)
	}
	// Readable unit is density-bound, not zoom-bound
	if m2.ReadableUnit != m1.ReadableUnit {
		t.Errorf("zoom changed ReadableUnit: %g vs %g", m2.ReadableUnit, m1.ReadableUnit)
	}
}

func TestMetricsDefaults(t *testing.T) {
	// Zero-valued context falls back to the reference surface
	m := Context{}.Metrics()
	if math.Abs(m.BaseUnit-10) > eps {
		t.Errorf("BaseUnit = %g, want 10 (reference surface)", m.BaseUnit)
	}
	if math.Abs(m.Scale()-1) > eps {
		t.Errorf("Scale() = %g, want 1", m.Scale())
	}
}

func TestNodeSizeCeilSparsity(t *testing.T) {
	dense := Context{Width: 1000, Height: 1000, VisibleNodes: ReferenceNodeCount}.Metrics()
	sparse := Context{Width: 1000, Height: 1000, VisibleNodes: 25}.Metrics()

	// Full density: ceiling equals the base unit
	if math.Abs(dense.NodeSizeCeil-dense.BaseUnit) > eps {
		t.Errorf("dense NodeSizeCeil = %g, want %g", dense.NodeSizeCeil, dense.BaseUnit)
	}
	// 25 visible of 2500: sqrt(100) = 10x, capped at 4x base
	if math.Abs(sparse.NodeSizeCeil-4*sparse.BaseUnit) > eps {
		t.Errorf("sparse NodeSizeCeil = %g, want %g", sparse.NodeSizeCeil, 4*sparse.BaseUnit)
	}
	if sparse.NodeSizeCeil <= dense.NodeSizeCeil {
		t.Error("sparser views should allow larger nodes")
	}
}

func TestFontSize(t *testing.T) {
	m := Context{Width: 1000, Height: 1000}.Metrics()

	// Monotonically non-increasing with depth
	prev := math.Inf(1)
	for r := 0; r <= 5; r++ {
		fs := m.FontSize(r)
		if fs > prev+eps {
			t.Errorf("FontSize(%d) = %g grew past FontSize(%d) = %g", r, fs, r-1, prev)
		}
		if fs < m.FontFloor-eps {
			t.Errorf("FontSize(%d) = %g below floor %g", r, fs, m.FontFloor)
		}
		prev = fs
	}

	// Out-of-range rings clamp
	if m.FontSize(99) != m.FontSize(5) {
		t.Error("FontSize should clamp past the last ring")
	}
	if m.FontSize(-1) != m.FontSize(0) {
		t.Error("FontSize should clamp below ring 0")
	}
}

func TestStrokeAndOpacityDecay(t *testing.T) {
	m := Context{Width: 1000, Height: 1000}.Metrics()

	// Geometric decay ring to ring until the floor
	w0, w1 := m.StrokeWidth(0), m.StrokeWidth(1)
	if w1 > w0 {
		t.Errorf("StrokeWidth(1) = %g > StrokeWidth(0) = %g", w1, w0)
	}
	if w0 > m.StrokeFloor && math.Abs(w1-0.6*w0) > eps && w1 != m.StrokeFloor {
		t.Errorf("StrokeWidth(1) = %g, want 0.6×%g or the floor", w1, w0)
	}

	if math.Abs(m.EdgeOpacity(0)-0.85) > eps {
		t.Errorf("EdgeOpacity(0) = %g, want 0.85", m.EdgeOpacity(0))
	}
	if math.Abs(m.EdgeOpacity(1)-0.51) > eps {
		t.Errorf("EdgeOpacity(1) = %g, want 0.51", m.EdgeOpacity(1))
	}
	// Deep rings bottom out at the floor
	if got := m.EdgeOpacity(20); math.Abs(got-m.OpacityFloor) > eps {
		t.Errorf("EdgeOpacity(20) = %g, want floor %g", got, m.OpacityFloor)
	}
}

func TestScaleConfig(t *testing.T) {
	cfg := ring.Default()

	// Half-size surface halves radii
	m := Context{Width: 500, Height: 500}.Metrics()
	scaled := m.ScaleConfig(cfg)
	if math.Abs(scaled.Rings[1].Radius-0.5*cfg.Rings[1].Radius) > eps {
		t.Errorf("scaled ring 1 radius = %g, want %g",
			scaled.Rings[1].Radius, 0.5*cfg.Rings[1].Radius)
	}

	// Size bounds stay ordered and inside the node-size window
	for i, r := range scaled.Rings {
		if r.MinSize > r.MaxSize {
			t.Errorf("ring %d bounds inverted: %g > %g", i, r.MinSize, r.MaxSize)
		}
		if r.MinSize < m.NodeSizeFloor-eps || r.MaxSize > m.NodeSizeCeil+eps {
			t.Errorf("ring %d bounds %g..%g outside window %g..%g",
				i, r.MinSize, r.MaxSize, m.NodeSizeFloor, m.NodeSizeCeil)
		}
	}

	// Padding lands inside the spacing window
	if scaled.Padding < m.SpacingFloor-eps || scaled.Padding > m.SpacingCeil+eps {
		t.Errorf("padding %g outside window %g..%g",
			scaled.Padding, m.SpacingFloor, m.SpacingCeil)
	}

	// Labels survive scaling
	if scaled.Rings[1].Label != cfg.Rings[1].Label {
		t.Errorf("label = %q, want %q", scaled.Rings[1].Label, cfg.Rings[1].Label)
	}
}
