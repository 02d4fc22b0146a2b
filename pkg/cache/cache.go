// Package cache provides pluggable caching for expensive pipeline stages.
//
// Two backends ship with ringmap: a file cache for CLI usage and a Redis
// cache for the layout service. A null backend disables caching entirely.
// Keys are generated by a [Keyer] so every stage hashes its inputs the
// same way regardless of backend.
package cache

import (
	"context"
	"time"
)

// Default TTLs per cached artifact kind.
const (
	// TreeTTL bounds how long a validated tree is reused. Trees are pure
	// functions of the scene's node records, so this is generous.
	TreeTTL = 24 * time.Hour

	// LayoutTTL bounds how long computed placements are reused.
	LayoutTTL = 6 * time.Hour
)

// Cache is the minimal byte-oriented cache interface shared by all
// backends.
type Cache interface {
	// Get retrieves a value. The boolean reports whether the key was
	// present; an absent key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A ttl of zero means the
	// entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TreeKeyOpts are the inputs that distinguish one tree build from another.
type TreeKeyOpts struct {
	// SceneHash is the hash of the serialized node records.
	SceneHash string
}

// LayoutKeyOpts are the inputs that distinguish one layout computation
// from another. Any field change must produce a different key: positions
// are a pure function of these inputs, and so is the report stored
// alongside them, which is why the audit knobs are part of the key too.
type LayoutKeyOpts struct {
	TreeHash   string   // hash of the built tree
	Expanded   []string // sorted expanded-node IDs, nil when fully visible
	RingGap    float64  // ring spacing of the config in effect
	StartAngle float64
	TotalAngle float64
	Tolerance  float64 // audit slack; changes the stored violations
	SkipAudit  bool    // an unaudited layout must not satisfy an audited request
	Sweep      bool    // a swept layout uses a gap of its own choosing
	Viewport   string  // serialized viewport context, empty when unset
}

// Keyer generates cache keys for the pipeline's artifact kinds.
type Keyer interface {
	// TreeKey generates a key for a validated tree.
	TreeKey(opts TreeKeyOpts) string

	// LayoutKey generates a key for computed placements.
	LayoutKey(opts LayoutKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// TreeKey generates a key for a validated tree.
func (k *DefaultKeyer) TreeKey(opts TreeKeyOpts) string {
	return hashKey("tree", opts.SceneHash)
}

// LayoutKey generates a key for computed placements.
func (k *DefaultKeyer) LayoutKey(opts LayoutKeyOpts) string {
	return hashKey("layout", opts)
}
