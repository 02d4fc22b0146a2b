package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/ringmap/pkg/observability"
	"github.com/matzehuels/ringmap/pkg/radial"
	"github.com/matzehuels/ringmap/pkg/scene"
	"github.com/matzehuels/ringmap/pkg/tree"
)

// computeLayout runs the radial engine for a built tree and returns the
// storable document together with the ring gap actually used.
//
// With opts.Sweep the ring gap is chosen by sweeping the candidate gaps
// for the smallest configuration whose layout audits clean; the caller's
// RingGap is then only the fallback when no candidate is clean.
func computeLayout(ctx context.Context, t *tree.Tree, opts Options) (scene.Layout, float64, error) {
	engineOpts := opts.EngineOptions()

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, t.NodeCount())

	cfg := opts.RingConfig()
	gap := opts.RingGap
	if opts.Sweep {
		swept, results, ok := radial.SmallestCleanGap(t, nil, engineOpts)
		if ok || len(results) > 0 {
			cfg = swept
			gap = swept.Rings[1].Radius - swept.Rings[0].Radius
		}
	}

	engine := radial.New()
	res, err := engine.Layout(t, cfg, engineOpts)
	observability.Pipeline().OnLayoutComplete(ctx, t.NodeCount(), time.Since(start), err)
	if err != nil {
		return scene.Layout{}, 0, err
	}

	return scene.FromResult(res), gap, nil
}
