package radial

import (
	"errors"
	"math"

	"github.com/matzehuels/ringmap/pkg/ring"
	"github.com/matzehuels/ringmap/pkg/tree"
	"github.com/matzehuels/ringmap/pkg/viewport"
)

// DefaultStartAngle places the first root branch at twelve o'clock.
const DefaultStartAngle = -math.Pi / 2

// ErrNilTree is returned by [Engine.Layout] when no tree is supplied.
var ErrNilTree = errors.New("layout requires a tree")

// Options configure one layout computation.
type Options struct {
	// StartAngle offsets the angular origin, in radians.
	// The zero value means DefaultStartAngle (twelve o'clock). To start
	// exactly at three o'clock, pass 2π, which is the same origin.
	StartAngle float64

	// TotalAngle is the available budget, in radians.
	// The zero value means a full circle.
	TotalAngle float64

	// Expanded is the set of node IDs whose children are currently shown.
	// Nil means the entire tree is visible and sizes use the raw [0,1]
	// importance scale. Non-nil switches on incremental visibility (a
	// node's children are laid out only while the node is expanded) and
	// dynamic renormalization: size bounds are rescoped to the expanded
	// nodes and visible leaves. A collapsed branch head stands for a
	// subtree that is not on screen, so it does not shape the bounds and
	// clamps to whatever the open nodes define.
	Expanded map[string]bool

	// Viewport, when set, rescales the ring configuration to the rendering
	// surface before layout. Nil uses the configuration as given.
	Viewport *viewport.Context

	// Tolerance is the overlap audit slack; ≤ 0 means DefaultTolerance.
	Tolerance float64

	// SkipAudit disables the overlap audit pass. The report then carries
	// compression events only.
	SkipAudit bool
}

// Placement is the computed position of one visible node.
type Placement struct {
	ID     string  `json:"id" bson:"id"`
	Ring   int     `json:"ring" bson:"ring"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Angle  float64 `json:"angle" bson:"angle"`   // window midpoint, radians
	Extent float64 `json:"extent" bson:"extent"` // allocated window, radians
	Size   float64 `json:"size" bson:"size"`     // render radius, user units
}

// Report carries the structured diagnostics of one layout pass. The engine
// never prints; everything it has to say travels here.
type Report struct {
	Compressions []CompressionEvent `json:"compressions,omitempty" bson:"compressions,omitempty"`
	Violations   []Violation        `json:"violations,omitempty" bson:"violations,omitempty"`
}

// Clean reports whether the layout honored every minimum and audited
// without overlap.
func (r Report) Clean() bool {
	return len(r.Compressions) == 0 && len(r.Violations) == 0
}

// Result is the output of one layout computation. Positions are ephemeral:
// they are recomputed wholesale on any input change and never persisted by
// the engine itself.
type Result struct {
	// Placements maps visible node IDs to their computed positions.
	Placements map[string]Placement `json:"placements" bson:"placements"`

	// RingRadii is the resolved radius table, indexed by ring.
	RingRadii []float64 `json:"ring_radii" bson:"ring_radii"`

	// Report holds compression events and audit violations.
	Report Report `json:"report" bson:"report"`
}

func (r *Result) ringRadius(ringIndex int) float64 {
	if ringIndex < 0 || ringIndex >= len(r.RingRadii) {
		return 0
	}
	return r.RingRadii[ringIndex]
}

// Strategy lays a tree out on concentric rings. Engines are swappable
// behind this interface without touching callers; [Engine] is the
// canonical two-pass implementation.
type Strategy interface {
	Layout(t *tree.Tree, cfg ring.Config, opts Options) (*Result, error)
}

// Engine is the canonical two-pass layout strategy: bottom-up requirement
// estimation followed by top-down angular allocation. It holds no state;
// the zero value is ready to use and safe for concurrent calls.
type Engine struct{}

// New returns the canonical two-pass engine.
func New() *Engine { return &Engine{} }

// Layout computes positions for every visible node.
//
// Structural errors abort before any positions are produced. Geometric
// degradation (Case B compression and the overlap it causes) is recoverable
// and comes back in the result's report instead.
func (e *Engine) Layout(t *tree.Tree, cfg ring.Config, opts Options) (*Result, error) {
	if t == nil {
		return nil, ErrNilTree
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	visible := visibleSet(t, opts.Expanded)

	if opts.Viewport != nil {
		vc := *opts.Viewport
		if vc.VisibleNodes <= 0 {
			vc.VisibleNodes = countVisible(t, visible)
		}
		cfg = vc.Metrics().ScaleConfig(cfg)
	}

	start := opts.StartAngle
	if start == 0 {
		start = DefaultStartAngle
	}
	total := opts.TotalAngle
	if total == 0 {
		total = FullCircle
	}

	var norm *Normalizer
	if visible == nil {
		norm = NewStatic(cfg)
	} else {
		// Collapsed branch heads stay out of the scope: their importance
		// reflects a subtree that is not on screen. They clamp to the
		// bounds the open nodes define.
		scope := make([]string, 0, len(visible))
		for id := range visible {
			if opts.Expanded[id] || len(t.Children(id)) == 0 {
				scope = append(scope, id)
			}
		}
		norm = NewScoped(cfg, t, scope)
	}

	est := NewEstimator(t, cfg, visible)
	alloc := NewAllocator(est)
	alloc.Allocate(start, total)

	res := &Result{
		Placements: make(map[string]Placement),
		RingRadii:  cfg.Radii(),
	}
	for _, id := range t.IDs() {
		w, ok := alloc.Window(id)
		if !ok {
			continue
		}
		n, _ := t.Node(id)
		radius := cfg.Ring(n.Ring).Radius
		mid := w.Mid()
		res.Placements[id] = Placement{
			ID:     id,
			Ring:   n.Ring,
			X:      radius * math.Cos(mid),
			Y:      radius * math.Sin(mid),
			Angle:  mid,
			Extent: w.Extent,
			Size:   norm.Size(n.Ring, n.Importance),
		}
	}
	res.Report.Compressions = alloc.Compressions()

	if !opts.SkipAudit {
		res.Report.Violations = Audit(res, opts.Tolerance)
	}
	return res, nil
}

// visibleSet resolves the expanded-ID set into the set of laid-out nodes:
// roots are always visible, and a node's children are visible only while
// the node itself is both visible and expanded. Nil expanded means full
// visibility and returns nil.
func visibleSet(t *tree.Tree, expanded map[string]bool) map[string]bool {
	if expanded == nil {
		return nil
	}
	visible := make(map[string]bool, len(expanded)*2)
	var walk func(id string)
	walk = func(id string) {
		visible[id] = true
		if !expanded[id] {
			return
		}
		for _, c := range t.Children(id) {
			walk(c)
		}
	}
	for _, root := range t.Roots() {
		walk(root)
	}
	return visible
}

func countVisible(t *tree.Tree, visible map[string]bool) int {
	if visible == nil {
		return t.NodeCount()
	}
	return len(visible)
}
