// Package radial computes non-overlapping positions for an
// importance-weighted tree rendered as concentric rings, one ring per depth
// level.
//
// The canonical engine is a two-pass hybrid:
//
//  1. A bottom-up pass ([Estimator]) computes, for every node, the minimum
//     angular extent that fits the node and all of its descendants. An
//     internal node reserves max(own extent, Σ children extents), so a
//     parent with few children but many grandchildren still claims the
//     space its deepest rings need.
//  2. A top-down pass ([Allocator]) distributes the actual angular budget
//     from the root outward. Surplus is split equally among siblings so
//     small subtrees never starve; deficits compress proportionally and are
//     recorded as [CompressionEvent]s, never swallowed.
//
// Node sizes are area-proportional to importance ([Normalizer]), optionally
// renormalized to the currently expanded branches so visible detail spans
// the full size range. [Audit] is the read-only correctness oracle for the
// no-overlap invariant.
//
// The whole pipeline is a pure function of its inputs: no goroutines, no
// shared state, no side effects. Independent layout computations may run
// concurrently without coordination.
package radial
