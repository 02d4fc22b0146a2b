package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matzehuels/ringmap/pkg/radial"
)

// Layout is the persisted form of one layout computation: the node
// placements, the resolved radius table, and the diagnostics report.
// Positions are a pure function of the scene, so a stored layout is a
// snapshot, not a source of truth.
type Layout struct {
	// ID identifies a stored layout. Empty until the store assigns one.
	ID string `json:"id,omitempty" bson:"_id,omitempty"`

	// Placements maps node IDs to computed positions.
	Placements map[string]radial.Placement `json:"placements" bson:"placements"`

	// RingRadii is the resolved radius table, indexed by ring.
	RingRadii []float64 `json:"ring_radii" bson:"ring_radii"`

	// Report carries compression events and audit violations.
	Report radial.Report `json:"report" bson:"report"`

	// NodeCount is the number of placed (visible) nodes.
	NodeCount int `json:"node_count" bson:"node_count"`

	// CreatedAt is set by the store on save.
	CreatedAt time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
}

// FromResult converts an engine result into the storable document.
func FromResult(res *radial.Result) Layout {
	return Layout{
		Placements: res.Placements,
		RingRadii:  res.RingRadii,
		Report:     res.Report,
		NodeCount:  len(res.Placements),
	}
}

// Result converts the document back into an engine result.
func (l Layout) Result() *radial.Result {
	return &radial.Result{
		Placements: l.Placements,
		RingRadii:  l.RingRadii,
		Report:     l.Report,
	}
}

// MarshalLayout serializes a layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadLayout decodes a JSON layout from an io.Reader.
func ReadLayout(r io.Reader) (Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return Layout{}, fmt.Errorf("decode layout: %w", err)
	}
	if len(l.Placements) == 0 {
		return Layout{}, fmt.Errorf("layout must contain placements")
	}
	return l, nil
}

// ReadLayoutFile reads a layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return Layout{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadLayout(f)
}

// WriteLayoutFile writes a layout to a JSON file with 0644 permissions.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
