package radial

import (
	"math"

	"github.com/matzehuels/ringmap/pkg/ring"
	"github.com/matzehuels/ringmap/pkg/tree"
)

// boundsEpsilon widens a collapsed importance range so normalization never
// divides by zero. Documented, deterministic behavior, not an error.
const boundsEpsilon = 1e-6

// Normalizer converts importance scores into render radii using the
// per-ring size bounds:
//
//	size = minSize + (maxSize − minSize) · √ratio
//
// The square root keeps rendered area, not radius, proportional to
// importance.
type Normalizer struct {
	cfg    ring.Config
	lo, hi float64
}

// NewStatic returns a normalizer over the raw [0,1] importance scale.
func NewStatic(cfg ring.Config) *Normalizer {
	return &Normalizer{cfg: cfg, lo: 0, hi: 1}
}

// NewScoped returns a dynamically renormalized normalizer: the importance
// bounds are recomputed over only the given node IDs, typically the union
// of the expanded branches' descendant sets. Collapsed branches are
// excluded entirely, so visible detail re-spans the full size range of its
// local context instead of being dwarfed by a maximum elsewhere.
//
// An empty scope falls back to the raw [0,1] scale.
func NewScoped(cfg ring.Config, t *tree.Tree, scope []string) *Normalizer {
	n := &Normalizer{cfg: cfg, lo: 0, hi: 1}
	first := true
	for _, id := range scope {
		node, ok := t.Node(id)
		if !ok {
			continue
		}
		if first {
			n.lo, n.hi = node.Importance, node.Importance
			first = false
			continue
		}
		n.lo = math.Min(n.lo, node.Importance)
		n.hi = math.Max(n.hi, node.Importance)
	}
	return n
}

// Bounds returns the importance bounds in effect.
func (n *Normalizer) Bounds() (lo, hi float64) { return n.lo, n.hi }

// Size returns the render radius for a node on the given ring with the
// given raw importance. The renormalized ratio is clamped to [0,1] before
// the sqrt transform, since transient inputs may fall outside the scoped
// range.
func (n *Normalizer) Size(ringIndex int, importance float64) float64 {
	r := n.cfg.Ring(ringIndex)
	hi := n.hi
	if hi-n.lo <= 0 {
		hi = n.lo + boundsEpsilon
	}
	ratio := (importance - n.lo) / (hi - n.lo)
	if ratio < 0 {
		ratio = 0
	} else if ratio > 1 {
		ratio = 1
	}
	return r.MinSize + (r.MaxSize-r.MinSize)*math.Sqrt(ratio)
}
