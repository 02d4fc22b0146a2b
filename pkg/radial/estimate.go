package radial

import (
	"math"

	"github.com/matzehuels/ringmap/pkg/ring"
	"github.com/matzehuels/ringmap/pkg/tree"
)

// FullCircle is the angular budget of a complete ring.
const FullCircle = 2 * math.Pi

// Estimator computes, bottom-up, the minimum angular extent every node
// needs to fit itself and all of its visible descendants without overlap.
//
// A node's own extent on a circle of radius R is (2·size + padding) / R,
// where size is the ring's maximum node size: space is reserved
// conservatively so that layouts staying within their minima always audit
// clean regardless of the importance distribution. When R is 0 (the root, a
// single point) the extent is defined as the full circle.
//
// An internal node's minimum is max(ownExtent, Σ children minima). The sum
// side is what forces a parent to reserve space for the union of all its
// descendants at every deeper ring, not merely its immediate children.
type Estimator struct {
	tree    *tree.Tree
	cfg     ring.Config
	visible map[string]bool // nil means every node is visible
	min     map[string]float64
}

// NewEstimator creates an estimator over the visible portion of the tree.
// A nil visible set means the whole tree is visible.
func NewEstimator(t *tree.Tree, cfg ring.Config, visible map[string]bool) *Estimator {
	return &Estimator{
		tree:    t,
		cfg:     cfg,
		visible: visible,
		min:     make(map[string]float64, t.NodeCount()),
	}
}

// Minimum returns the minimum angular extent for the subtree rooted at id,
// in radians. Results are memoized; each node is computed once.
func (e *Estimator) Minimum(id string) float64 {
	if m, ok := e.min[id]; ok {
		return m
	}
	n, ok := e.tree.Node(id)
	if !ok {
		return 0
	}

	m := e.ownExtent(n)
	var sum float64
	for _, c := range e.tree.Children(id) {
		if e.isVisible(c) {
			sum += e.Minimum(c)
		}
	}
	m = math.Max(m, sum)

	e.min[id] = m
	return m
}

// ownExtent is the arc a single node claims on its own ring.
func (e *Estimator) ownExtent(n *tree.Node) float64 {
	r := e.cfg.Ring(n.Ring)
	if r.Radius <= 0 {
		return FullCircle
	}
	return (2*r.MaxSize + e.cfg.Padding) / r.Radius
}

func (e *Estimator) isVisible(id string) bool {
	return e.visible == nil || e.visible[id]
}
