package radial

// Window is a node's allocated angular range [Start, Start+Extent).
type Window struct {
	Start  float64
	Extent float64
}

// Mid returns the angular midpoint of the window. A node renders at
// (R·cos(mid), R·sin(mid)) on its ring.
func (w Window) Mid() float64 { return w.Start + w.Extent/2 }

// CompressionEvent records one point where descendant angular demand
// exceeded supply and every child minimum was scaled by Supply/Demand.
// Compression is expected to introduce overlap; it is reported, never
// silently accepted.
type CompressionEvent struct {
	// NodeID is the parent whose children were compressed. Empty for the
	// top-level division among multiple roots.
	NodeID string `json:"node_id,omitempty" bson:"node_id,omitempty"`

	// Ring of the compressed children.
	Ring int `json:"ring" bson:"ring"`

	// Demand is the sum of the children's minimum extents, in radians.
	Demand float64 `json:"demand" bson:"demand"`

	// Supply is the extent that was actually available, in radians.
	Supply float64 `json:"supply" bson:"supply"`

	// Scale is the applied factor Supply/Demand, always < 1.
	Scale float64 `json:"scale" bson:"scale"`
}

// Allocator distributes the angular budget top-down, honoring the minimum
// extents of an [Estimator]. It recurses depth-first from the roots; every
// visible node ends up with a Window.
type Allocator struct {
	est    *Estimator
	window map[string]Window
	events []CompressionEvent
}

// NewAllocator creates an allocator over the estimator's tree and config.
func NewAllocator(est *Estimator) *Allocator {
	return &Allocator{
		est:    est,
		window: make(map[string]Window, est.tree.NodeCount()),
	}
}

// Allocate distributes [start, start+total) among the roots and their
// visible descendants. A single root receives the whole budget; multiple
// disconnected roots share it proportionally to their requirements, which
// doubles as Case B compression when their combined demand exceeds it.
func (a *Allocator) Allocate(start, total float64) {
	roots := a.est.tree.Roots()
	switch len(roots) {
	case 0:
		return
	case 1:
		a.assign(roots[0], Window{Start: start, Extent: total})
		return
	}

	minima := make([]float64, len(roots))
	var demand float64
	for i, id := range roots {
		minima[i] = a.est.Minimum(id)
		demand += minima[i]
	}
	if demand <= 0 {
		// Degenerate roots with no requirement: split evenly.
		share := total / float64(len(roots))
		cursor := start
		for _, id := range roots {
			a.assign(id, Window{Start: cursor, Extent: share})
			cursor += share
		}
		return
	}

	scale := total / demand
	if scale < 1 {
		a.events = append(a.events, CompressionEvent{
			Ring: 0, Demand: demand, Supply: total, Scale: scale,
		})
	}
	cursor := start
	for i, id := range roots {
		extent := minima[i] * scale
		a.assign(id, Window{Start: cursor, Extent: extent})
		cursor += extent
	}
}

// assign records the node's window and divides it among visible children.
//
// Case A (surplus): every child gets its minimum plus an equal share of the
// slack. Equal shares, not proportional ones, keep small subtrees from
// visually starving when a large sibling shrinks or collapses.
//
// Case B (deficit): every child minimum is scaled by extent/Σminima and the
// compression is recorded.
//
// Children are laid out contiguously in their original order, centered as a
// group on the parent's angular midpoint.
func (a *Allocator) assign(id string, w Window) {
	a.window[id] = w

	var kids []string
	for _, c := range a.est.tree.Children(id) {
		if a.est.isVisible(c) {
			kids = append(kids, c)
		}
	}
	if len(kids) == 0 {
		return
	}

	minima := make([]float64, len(kids))
	var demand float64
	for i, c := range kids {
		minima[i] = a.est.Minimum(c)
		demand += minima[i]
	}

	extents := make([]float64, len(kids))
	var total float64
	if demand <= w.Extent {
		share := (w.Extent - demand) / float64(len(kids))
		for i := range kids {
			extents[i] = minima[i] + share
			total += extents[i]
		}
	} else {
		scale := w.Extent / demand
		node, _ := a.est.tree.Node(id)
		a.events = append(a.events, CompressionEvent{
			NodeID: id,
			Ring:   node.Ring + 1,
			Demand: demand,
			Supply: w.Extent,
			Scale:  scale,
		})
		for i := range kids {
			extents[i] = minima[i] * scale
			total += extents[i]
		}
	}

	cursor := w.Mid() - total/2
	for i, c := range kids {
		a.assign(c, Window{Start: cursor, Extent: extents[i]})
		cursor += extents[i]
	}
}

// Window returns the allocated window for id and whether one exists.
// Nodes hidden by a collapsed ancestor have no window.
func (a *Allocator) Window(id string) (Window, bool) {
	w, ok := a.window[id]
	return w, ok
}

// Compressions returns the recorded Case B events in traversal order.
func (a *Allocator) Compressions() []CompressionEvent { return a.events }
