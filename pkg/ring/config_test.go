package ring

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if got := cfg.RingCount(); got != 6 {
		t.Fatalf("RingCount() = %d, want 6", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Rings[0].Radius != 0 {
		t.Errorf("ring 0 radius = %g, want 0", cfg.Rings[0].Radius)
	}
	if cfg.Rings[5].Radius != 5*DefaultGap {
		t.Errorf("ring 5 radius = %g, want %g", cfg.Rings[5].Radius, 5*DefaultGap)
	}
	if cfg.Padding != DefaultPadding {
		t.Errorf("padding = %g, want %g", cfg.Padding, DefaultPadding)
	}

	// Size bounds shrink with depth past ring 1
	if cfg.Rings[1].MaxSize != 18 || cfg.Rings[5].MaxSize != 8 {
		t.Errorf("size bounds = %g..%g, want 18 and 8",
			cfg.Rings[1].MaxSize, cfg.Rings[5].MaxSize)
	}
}

func TestWithGap(t *testing.T) {
	cfg := WithGap(100)
	for i, r := range cfg.Rings {
		want := float64(i) * 100
		if r.Radius != want {
			t.Errorf("ring %d radius = %g, want %g", i, r.Radius, want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		sentinel error
	}{
		{
			name:     "no rings",
			cfg:      Config{Padding: 2},
			sentinel: ErrNoRings,
		},
		{
			name: "inverted size bounds",
			cfg: Config{Rings: []Ring{
				{Radius: 0, MinSize: 10, MaxSize: 5},
			}},
			sentinel: ErrSizeBounds,
		},
		{
			name: "negative padding",
			cfg: Config{
				Padding: -1,
				Rings:   []Ring{{Radius: 0, MinSize: 1, MaxSize: 2}},
			},
			sentinel: ErrSizeBounds,
		},
		{
			name: "non-increasing radii",
			cfg: Config{Rings: []Ring{
				{Radius: 0, MinSize: 1, MaxSize: 2},
				{Radius: 150, MinSize: 1, MaxSize: 2},
				{Radius: 150, MinSize: 1, MaxSize: 2},
			}},
			sentinel: ErrRadiusOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if err == nil {
				t.Fatal("Validate() error = nil, want error")
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("error %v does not match %v", err, tt.sentinel)
			}
		})
	}
}

func TestRingClamps(t *testing.T) {
	cfg := Default()

	if got := cfg.Ring(-1); got != cfg.Rings[0] {
		t.Errorf("Ring(-1) = %+v, want ring 0", got)
	}
	if got := cfg.Ring(99); got != cfg.Rings[5] {
		t.Errorf("Ring(99) = %+v, want outermost ring", got)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rings.toml")
	content := `
padding = 3.0

[[rings]]
radius = 0
min_size = 12
max_size = 12
label = "Root"

[[rings]]
radius = 200
min_size = 3
max_size = 18
label = "Outcomes"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RingCount() != 2 {
		t.Errorf("RingCount() = %d, want 2", cfg.RingCount())
	}
	if cfg.Padding != 3 {
		t.Errorf("Padding = %g, want 3", cfg.Padding)
	}
	if cfg.Rings[1].Radius != 200 || cfg.Rings[1].Label != "Outcomes" {
		t.Errorf("ring 1 = %+v, want radius 200 label Outcomes", cfg.Rings[1])
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rings.toml")
	content := `
[[rings]]
radius = 0
min_size = 10
max_size = 5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); !errors.Is(err, ErrSizeBounds) {
		t.Errorf("Load() error = %v, want ErrSizeBounds", err)
	}
}

func TestRadii(t *testing.T) {
	radii := WithGap(150).Radii()
	want := []float64{0, 150, 300, 450, 600, 750}
	if len(radii) != len(want) {
		t.Fatalf("Radii() = %v, want %v", radii, want)
	}
	for i := range want {
		if radii[i] != want[i] {
			t.Errorf("Radii()[%d] = %g, want %g", i, radii[i], want[i])
		}
	}
}
