// Package ring defines the per-ring configuration table for radial layouts:
// one entry per depth level with the ring's circle radius, its node-size
// bounds, and an optional display label.
//
// A configuration can be built programmatically ([Default], [WithGap]) or
// loaded from a TOML file ([Load]):
//
//	padding = 2.0
//
//	[[rings]]
//	radius = 0
//	min_size = 12
//	max_size = 12
//	label = "Root"
//
//	[[rings]]
//	radius = 150
//	min_size = 3
//	max_size = 18
//	label = "Outcomes"
package ring

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// DefaultGap is the default radial distance between consecutive rings, in
// user units. 150 is the smallest equal gap at which the reference dataset
// (~2,500 nodes over 6 rings) lays out without collisions.
const DefaultGap = 150.0

// DefaultPadding is the default arc padding between adjacent nodes on the
// same ring, in user units.
const DefaultPadding = 2.0

var (
	// ErrNoRings is returned by [Config.Validate] for an empty ring table.
	ErrNoRings = errors.New("ring config must define at least one ring")

	// ErrSizeBounds is returned by [Config.Validate] when a ring's size
	// bounds are negative or inverted (min > max).
	ErrSizeBounds = errors.New("invalid ring size bounds")

	// ErrRadiusOrder is returned by [Config.Validate] when ring radii are
	// not strictly increasing past ring 0.
	ErrRadiusOrder = errors.New("ring radii must increase with depth")
)

// Ring configures a single depth level.
type Ring struct {
	// Radius of the circle this ring's nodes are placed on. Ring 0 is
	// conventionally 0: the root renders as a single point at the center.
	Radius float64 `toml:"radius" json:"radius"`

	// MinSize and MaxSize bound the rendered node radius on this ring.
	// Importance normalization maps [0,1] into this range.
	MinSize float64 `toml:"min_size" json:"min_size"`
	MaxSize float64 `toml:"max_size" json:"max_size"`

	// Label is an optional display name for the ring.
	Label string `toml:"label,omitempty" json:"label,omitempty"`
}

// Config is the full per-ring table plus the shared node padding.
type Config struct {
	Rings   []Ring  `toml:"rings" json:"rings"`
	Padding float64 `toml:"padding" json:"padding"`
}

// baseSizeRanges are the per-ring node-size bounds of the reference
// visualization, outermost rings smallest.
var baseSizeRanges = [6][2]float64{
	{12, 12}, // root
	{3, 18},  // outcomes
	{2, 14},  // coarse domains
	{2, 12},  // fine domains
	{1.5, 10}, // indicator groups
	{1, 8},   // indicators
}

// ringLabels name the six reference rings.
var ringLabels = [6]string{
	"Root", "Outcomes", "Coarse Domains", "Fine Domains", "Indicator Groups", "Indicators",
}

// Default returns the six-ring reference configuration with [DefaultGap]
// spacing.
func Default() Config { return WithGap(DefaultGap) }

// WithGap returns the six-ring reference configuration with equally spaced
// rings at radius i*gap.
func WithGap(gap float64) Config {
	cfg := Config{Padding: DefaultPadding, Rings: make([]Ring, len(baseSizeRanges))}
	for i, bounds := range baseSizeRanges {
		cfg.Rings[i] = Ring{
			Radius:  float64(i) * gap,
			MinSize: bounds[0],
			MaxSize: bounds[1],
			Label:   ringLabels[i],
		}
	}
	return cfg
}

// Load reads a ring configuration from a TOML file and validates it.
// Padding defaults to [DefaultPadding] when omitted.
func Load(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if cfg.Padding == 0 {
		cfg.Padding = DefaultPadding
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks structural soundness of the table.
func (c Config) Validate() error {
	if len(c.Rings) == 0 {
		return ErrNoRings
	}
	if c.Padding < 0 {
		return fmt.Errorf("%w: padding %g < 0", ErrSizeBounds, c.Padding)
	}
	for i, r := range c.Rings {
		if r.MinSize < 0 || r.MaxSize < 0 || r.MinSize > r.MaxSize {
			return fmt.Errorf("%w: ring %d has min %g, max %g", ErrSizeBounds, i, r.MinSize, r.MaxSize)
		}
		if i > 0 && r.Radius <= c.Rings[i-1].Radius {
			return fmt.Errorf("%w: ring %d radius %g ≤ ring %d radius %g",
				ErrRadiusOrder, i, r.Radius, i-1, c.Rings[i-1].Radius)
		}
	}
	return nil
}

// RingCount returns the number of configured rings.
func (c Config) RingCount() int { return len(c.Rings) }

// Ring returns the configuration for ring r. Indices past the table clamp
// to the outermost ring, so an unexpectedly deep node degrades instead of
// panicking.
func (c Config) Ring(r int) Ring {
	if r < 0 {
		r = 0
	}
	if r >= len(c.Rings) {
		r = len(c.Rings) - 1
	}
	return c.Rings[r]
}

// Radii returns the resolved radius table, indexed by ring.
func (c Config) Radii() []float64 {
	out := make([]float64, len(c.Rings))
	for i, r := range c.Rings {
		out[i] = r.Radius
	}
	return out
}
