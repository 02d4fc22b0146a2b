// Package viewport derives every size, spacing, and typography constant of
// the radial visualization from the rendering surface alone.
//
// All functions are pure: identical inputs always produce identical outputs,
// and nothing in this package holds state. Two units anchor the system:
//
//   - base unit: 1% of the smaller surface dimension (zoom-scaled), so the
//     picture keeps its proportions on any surface size;
//   - readable unit: 1/density, one device pixel expressed in user units,
//     so hairlines and minimum sizes stay physically constant across pixel
//     densities.
package viewport

import (
	"math"

	"github.com/matzehuels/ringmap/pkg/ring"
)

// ReferenceNodeCount is the visible-node count the size tables were tuned
// against: the full reference dataset of ~2,500 nodes.
const ReferenceNodeCount = 2500

// referenceSurface is the smaller surface dimension, in user units, that the
// base ring table assumes. Scale factors are relative to it.
const referenceSurface = 1000.0

// strokeDecay is the per-ring geometric decay applied to edge stroke width
// and opacity: each ring's edges are 60% of the previous ring's.
const strokeDecay = 0.6

// fontMultipliers reduce label sizes on outer, denser rings. Rings beyond
// the table clamp to the last entry.
var fontMultipliers = [...]float64{1.0, 1.0, 0.9, 0.8, 0.7, 0.6}

// Context describes the rendering surface and the current view state.
type Context struct {
	// Width and Height of the rendering surface in user units.
	Width, Height float64

	// PixelDensity is the device-pixel-to-user-unit ratio (DPR).
	// Values ≤ 0 are treated as 1.
	PixelDensity float64

	// Zoom is the user zoom factor; 1 is 100%. Values ≤ 0 are treated as 1.
	Zoom float64

	// VisibleNodes is the number of nodes currently laid out. Sparser views
	// are allowed larger nodes. Values ≤ 0 fall back to ReferenceNodeCount.
	VisibleNodes int
}

// Metrics is the full set of derived constants for one Context.
type Metrics struct {
	BaseUnit     float64 // 1% of the smaller surface dimension, zoom-scaled
	ReadableUnit float64 // one device pixel in user units

	NodeSizeFloor float64 // smallest legible node radius
	NodeSizeCeil  float64 // largest node radius, sparsity-scaled

	SpacingFloor float64 // minimum arc padding between neighbors
	SpacingCeil  float64 // padding is never inflated past this

	RingGap float64 // radial distance between consecutive rings

	FontFloor float64 // minimum label size
	FontCeil  float64 // ring-0 label size before per-ring multipliers

	StrokeBase  float64 // edge stroke width at ring 0
	StrokeFloor float64 // stroke width never decays below this

	OpacityBase  float64 // edge opacity at ring 0
	OpacityFloor float64 // opacity never decays below this
}

// Metrics derives all layout constants from the context.
func (c Context) Metrics() Metrics {
	density := c.PixelDensity
	if density <= 0 {
		density = 1
	}
	zoom := c.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	visible := c.VisibleNodes
	if visible <= 0 {
		visible = ReferenceNodeCount
	}
	minDim := math.Min(c.Width, c.Height)
	if minDim <= 0 {
		minDim = referenceSurface
	}

	base := 0.01 * minDim * zoom
	readable := 1 / density

	m := Metrics{
		BaseUnit:     base,
		ReadableUnit: readable,

		NodeSizeFloor: math.Max(readable, 0.35*base),
		SpacingFloor:  math.Max(readable, 0.2*base),
		SpacingCeil:   1.5 * base,

		RingGap: 15 * base,

		FontFloor: 9 * readable,

		StrokeBase:  math.Max(readable, 0.12*base),
		StrokeFloor: 0.5 * readable,

		OpacityBase:  0.85,
		OpacityFloor: 0.15,
	}

	// Sparser views earn larger nodes, capped so a handful of nodes cannot
	// balloon into the ring gap.
	sparsity := math.Sqrt(float64(ReferenceNodeCount) / float64(visible))
	m.NodeSizeCeil = math.Max(m.NodeSizeFloor, math.Min(base*sparsity, 4*base))

	m.FontCeil = math.Max(m.FontFloor, 1.4*base)
	return m
}

// Scale is the surface scale factor relative to the reference surface.
// Ring radii and size bounds tuned for the reference multiply by this.
func (m Metrics) Scale() float64 {
	return m.BaseUnit / (0.01 * referenceSurface)
}

// FontSize returns the label font size for the given ring: the ceiling
// scaled by the ring's multiplier, floored at FontFloor.
func (m Metrics) FontSize(ringIndex int) float64 {
	i := ringIndex
	if i < 0 {
		i = 0
	}
	if i >= len(fontMultipliers) {
		i = len(fontMultipliers) - 1
	}
	return math.Max(m.FontFloor, m.FontCeil*fontMultipliers[i])
}

// StrokeWidth returns the edge stroke width for edges terminating on the
// given ring. Width decays geometrically with depth and never drops below
// StrokeFloor.
func (m Metrics) StrokeWidth(ringIndex int) float64 {
	return math.Max(m.StrokeFloor, m.StrokeBase*math.Pow(strokeDecay, float64(max(ringIndex, 0))))
}

// EdgeOpacity returns the edge opacity for edges terminating on the given
// ring, decaying geometrically with depth down to OpacityFloor.
func (m Metrics) EdgeOpacity(ringIndex int) float64 {
	return math.Max(m.OpacityFloor, m.OpacityBase*math.Pow(strokeDecay, float64(max(ringIndex, 0))))
}

// ScaleConfig adapts a reference ring table to this viewport: radii follow
// the surface scale, size bounds are clamped into the node-size window, and
// padding is clamped into the spacing window.
func (m Metrics) ScaleConfig(cfg ring.Config) ring.Config {
	f := m.Scale()
	out := ring.Config{
		Padding: clamp(cfg.Padding*f, m.SpacingFloor, m.SpacingCeil),
		Rings:   make([]ring.Ring, len(cfg.Rings)),
	}
	for i, r := range cfg.Rings {
		lo := clamp(r.MinSize*f, m.NodeSizeFloor, m.NodeSizeCeil)
		hi := clamp(r.MaxSize*f, lo, m.NodeSizeCeil)
		out.Rings[i] = ring.Ring{
			Radius:  r.Radius * f,
			MinSize: lo,
			MaxSize: hi,
			Label:   r.Label,
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
