package tree

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// MaxRingIndex is the deepest ring a node may occupy. The visualization
// renders six concentric rings, indexed 0 (root) through 5 (indicators).
const MaxRingIndex = 5

// ErrMalformedTree is the umbrella error for all structural build failures.
// Every error returned by [Build] matches it via errors.Is, alongside one of
// the specific sentinels below. A malformed tree is fatal: no layout is
// attempted and no partial positions exist.
var ErrMalformedTree = errors.New("malformed tree")

var (
	// ErrInvalidNodeID is returned by [Build] when a record has an empty ID.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Build] when two records share an ID.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrInvalidRing is returned by [Build] when a ring index falls outside
	// [0, MaxRingIndex].
	ErrInvalidRing = errors.New("ring index out of range")

	// ErrDanglingParent is returned by [Build] when a record references a
	// parent ID that does not appear in the input.
	ErrDanglingParent = errors.New("parent reference not found")

	// ErrRingMismatch is returned by [Build] when a child's ring index is not
	// exactly one greater than its parent's. Every ring corresponds to one
	// depth level, so this invariant is structural, not cosmetic.
	ErrRingMismatch = errors.New("child ring must be parent ring + 1")

	// ErrRootRing is returned by [Build] when a parentless record sits on a
	// ring other than 0.
	ErrRootRing = errors.New("root nodes must be on ring 0")

	// ErrTreeCycle is returned by [Build] when parent references form a
	// cycle. Detection uses a visited set, so a cyclic input can never cause
	// an infinite traversal.
	ErrTreeCycle = errors.New("parent references form a cycle")
)

// Record is one row of the flat input list: a node identifier, its ring
// (depth level), a raw importance score, and an optional parent reference.
// ParentID is empty for root nodes.
type Record struct {
	ID         string  `json:"id" bson:"id"`
	Ring       int     `json:"ring" bson:"ring"`
	Importance float64 `json:"importance" bson:"importance"`
	ParentID   string  `json:"parent,omitempty" bson:"parent,omitempty"`
}

// Node is a vertex of the built tree. Children are owned by their parent and
// referenced by ID; there is no cyclic ownership.
type Node struct {
	ID         string
	Ring       int
	Importance float64
	ParentID   string
}

// Tree is an importance-weighted rooted tree organized into rings.
// A well-formed tree has a single root on ring 0; disconnected inputs with
// several ring-0 roots are accepted as a degenerate case and share the
// angular budget proportionally downstream.
//
// Tree is immutable after [Build] and safe for concurrent reads.
type Tree struct {
	nodes    map[string]*Node
	children map[string][]string // parent ID -> child IDs, input order
	roots    []string
	rings    map[int][]*Node
	agg      map[string]*Aggregate
	maxRing  int
}

// Build converts a flat record list into a rooted tree and precomputes the
// per-subtree aggregates consumed by the layout passes. The input order of
// siblings is preserved; it becomes the angular order on the rings.
//
// Build fails with an error matching [ErrMalformedTree] (and one of the
// specific sentinels) when a record is structurally invalid, a parent
// reference dangles, or the parent references form a cycle.
func Build(records []Record) (*Tree, error) {
	t := &Tree{
		nodes:    make(map[string]*Node, len(records)),
		children: make(map[string][]string),
		rings:    make(map[int][]*Node),
		agg:      make(map[string]*Aggregate, len(records)),
	}

	for _, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("%w: %w", ErrMalformedTree, ErrInvalidNodeID)
		}
		if _, exists := t.nodes[r.ID]; exists {
			return nil, fmt.Errorf("%w: %w: %q", ErrMalformedTree, ErrDuplicateNodeID, r.ID)
		}
		if r.Ring < 0 || r.Ring > MaxRingIndex {
			return nil, fmt.Errorf("%w: %w: node %q on ring %d", ErrMalformedTree, ErrInvalidRing, r.ID, r.Ring)
		}
		n := &Node{ID: r.ID, Ring: r.Ring, Importance: r.Importance, ParentID: r.ParentID}
		t.nodes[n.ID] = n
		t.rings[n.Ring] = append(t.rings[n.Ring], n)
		if n.Ring > t.maxRing {
			t.maxRing = n.Ring
		}
	}

	for _, r := range records {
		if r.ParentID == "" {
			if r.Ring != 0 {
				return nil, fmt.Errorf("%w: %w: node %q on ring %d", ErrMalformedTree, ErrRootRing, r.ID, r.Ring)
			}
			t.roots = append(t.roots, r.ID)
			continue
		}
		parent, ok := t.nodes[r.ParentID]
		if !ok {
			return nil, fmt.Errorf("%w: %w: node %q references %q", ErrMalformedTree, ErrDanglingParent, r.ID, r.ParentID)
		}
		if r.Ring != parent.Ring+1 {
			return nil, fmt.Errorf("%w: %w: node %q (ring %d) under %q (ring %d)",
				ErrMalformedTree, ErrRingMismatch, r.ID, r.Ring, parent.ID, parent.Ring)
		}
		t.children[r.ParentID] = append(t.children[r.ParentID], r.ID)
	}

	if err := t.detectCycles(); err != nil {
		return nil, err
	}

	for _, root := range t.roots {
		t.aggregate(root)
	}
	return t, nil
}

// detectCycles verifies that every node is reachable from a root. The ring
// invariant already rules out most cycles, but a self-referential cluster
// (a ↔ b with consistent rings is impossible, a → a is not) would otherwise
// sit unreachable and silently skew the aggregates. The visited set bounds
// the traversal regardless of input.
func (t *Tree) detectCycles() error {
	visited := make(map[string]bool, len(t.nodes))
	var walk func(id string)
	walk = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, c := range t.children[id] {
			walk(c)
		}
	}
	for _, root := range t.roots {
		walk(root)
	}
	if len(visited) != len(t.nodes) {
		for id := range t.nodes {
			if !visited[id] {
				return fmt.Errorf("%w: %w: node %q unreachable from any root", ErrMalformedTree, ErrTreeCycle, id)
			}
		}
	}
	return nil
}

// Node returns the node with the given ID and true, or nil and false.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Roots returns the IDs of all ring-0 roots in input order.
// A well-formed tree has exactly one.
func (t *Tree) Roots() []string { return slices.Clone(t.roots) }

// Children returns the child IDs of a node in input order.
// The returned slice is a read-only view; do not modify it.
func (t *Tree) Children(id string) []string { return t.children[id] }

// NodeCount returns the number of nodes in the tree.
func (t *Tree) NodeCount() int { return len(t.nodes) }

// MaxRing returns the highest occupied ring index.
func (t *Tree) MaxRing() int { return t.maxRing }

// NodesInRing returns all nodes on the given ring in input order.
// Returns nil if the ring is empty.
func (t *Tree) NodesInRing(ring int) []*Node { return t.rings[ring] }

// RingIndices returns the occupied ring indices in ascending order.
func (t *Tree) RingIndices() []int {
	return slices.Sorted(maps.Keys(t.rings))
}

// IDs returns all node IDs in sorted order, for deterministic iteration.
func (t *Tree) IDs() []string {
	return slices.Sorted(maps.Keys(t.nodes))
}

// Descendants returns the IDs of the subtree rooted at id, including id
// itself, in depth-first input order. Returns nil for an unknown ID.
func (t *Tree) Descendants(id string) []string {
	if _, ok := t.nodes[id]; !ok {
		return nil
	}
	var out []string
	var walk func(string)
	walk = func(cur string) {
		out = append(out, cur)
		for _, c := range t.children[cur] {
			walk(c)
		}
	}
	walk(id)
	return out
}
