package radial

import (
	"github.com/matzehuels/ringmap/pkg/ring"
	"github.com/matzehuels/ringmap/pkg/tree"
)

// DefaultGapCandidates is the ring-gap sweep used by [SmallestCleanGap]:
// compact configurations first, so the first clean hit is also the
// smallest picture.
var DefaultGapCandidates = []float64{
	100, 120, 140, 150, 160, 180, 200, 220, 250, 280, 300, 320, 350, 400,
}

// SweepResult is the outcome for one candidate ring gap.
type SweepResult struct {
	Gap        float64
	MaxRadius  float64
	Violations int
}

// SmallestCleanGap sweeps candidate ring gaps over the reference
// configuration and returns the config with the smallest gap whose layout
// audits clean, together with the per-candidate results. When no candidate
// is clean, the config with the fewest violations is returned and ok is
// false.
//
// Candidates default to [DefaultGapCandidates] when nil.
func SmallestCleanGap(t *tree.Tree, candidates []float64, opts Options) (cfg ring.Config, results []SweepResult, ok bool) {
	if candidates == nil {
		candidates = DefaultGapCandidates
	}
	opts.SkipAudit = false // the sweep is pointless without the oracle
	engine := New()

	best := -1
	bestViolations := 0
	for _, gap := range candidates {
		candidate := ring.WithGap(gap)
		res, err := engine.Layout(t, candidate, opts)
		if err != nil {
			continue
		}
		violations := len(res.Report.Violations)
		results = append(results, SweepResult{
			Gap:        gap,
			MaxRadius:  candidate.Rings[len(candidate.Rings)-1].Radius,
			Violations: violations,
		})
		if best == -1 || violations < bestViolations {
			best = len(results) - 1
			bestViolations = violations
		}
		if violations == 0 {
			return candidate, results, true
		}
	}
	if best == -1 {
		return ring.Default(), results, false
	}
	return ring.WithGap(results[best].Gap), results, false
}
