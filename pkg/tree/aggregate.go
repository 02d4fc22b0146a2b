package tree

// Aggregate holds the precomputed per-subtree counts that drive angular
// space reservation. They are computed once, bottom-up, during [Build].
type Aggregate struct {
	// RingCounts[r] is the number of subtree nodes (including the node
	// itself) that sit on ring r. The slice always spans rings 0..MaxRing
	// of the tree, so indexing never needs a bounds check downstream.
	RingCounts []int

	// LeafCount is the number of leaves in the subtree.
	LeafCount int

	// Size is the total number of nodes in the subtree, including the node.
	Size int
}

// aggregate computes and memoizes the subtree aggregate for id.
// Children are aggregated before their parent (post-order), so each node is
// visited exactly once.
func (t *Tree) aggregate(id string) *Aggregate {
	if a, ok := t.agg[id]; ok {
		return a
	}
	n := t.nodes[id]
	a := &Aggregate{RingCounts: make([]int, t.maxRing+1)}
	a.RingCounts[n.Ring] = 1
	a.Size = 1

	kids := t.children[id]
	if len(kids) == 0 {
		a.LeafCount = 1
	}
	for _, c := range kids {
		ca := t.aggregate(c)
		for r, count := range ca.RingCounts {
			a.RingCounts[r] += count
		}
		a.LeafCount += ca.LeafCount
		a.Size += ca.Size
	}

	t.agg[id] = a
	return a
}

// Aggregate returns the memoized subtree aggregate for id, or nil for an
// unknown ID.
func (t *Tree) Aggregate(id string) *Aggregate {
	return t.agg[id]
}

// LeafCount returns the number of leaves under id (including id when it is
// itself a leaf), or 0 for an unknown ID.
func (t *Tree) LeafCount(id string) int {
	if a := t.agg[id]; a != nil {
		return a.LeafCount
	}
	return 0
}

// SubtreeSize returns the number of nodes in the subtree rooted at id,
// or 0 for an unknown ID.
func (t *Tree) SubtreeSize(id string) int {
	if a := t.agg[id]; a != nil {
		return a.Size
	}
	return 0
}
