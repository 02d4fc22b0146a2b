// Package scene defines the canonical serialization formats of ringmap:
// the input scene (flat node list, expanded set, viewport context) and the
// computed layout document. Both are JSON on the wire and in files, with
// bson tags for the Mongo-backed layout store.
//
// The formats are designed for round-trip fidelity: read → layout → write →
// re-read produces identical results.
package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	apperrors "github.com/matzehuels/ringmap/pkg/errors"
	"github.com/matzehuels/ringmap/pkg/tree"
	"github.com/matzehuels/ringmap/pkg/viewport"
)

// Scene is the full layout input: the raw node records plus the interactive
// view state a frontend sends along.
type Scene struct {
	Nodes    []tree.Record `json:"nodes" bson:"nodes"`
	Expanded []string      `json:"expanded,omitempty" bson:"expanded,omitempty"`
	Viewport *Viewport     `json:"viewport,omitempty" bson:"viewport,omitempty"`
}

// Viewport is the serialized rendering-surface context.
type Viewport struct {
	Width        float64 `json:"width" bson:"width"`
	Height       float64 `json:"height" bson:"height"`
	PixelDensity float64 `json:"pixel_density,omitempty" bson:"pixel_density,omitempty"`
	Zoom         float64 `json:"zoom,omitempty" bson:"zoom,omitempty"`
	VisibleNodes int     `json:"visible_nodes,omitempty" bson:"visible_nodes,omitempty"`
}

// Context converts the serialized viewport into the engine's context type.
func (v *Viewport) Context() *viewport.Context {
	if v == nil {
		return nil
	}
	return &viewport.Context{
		Width:        v.Width,
		Height:       v.Height,
		PixelDensity: v.PixelDensity,
		Zoom:         v.Zoom,
		VisibleNodes: v.VisibleNodes,
	}
}

// BuildTree builds the node records into a validated tree.
func (s *Scene) BuildTree() (*tree.Tree, error) {
	return tree.Build(s.Nodes)
}

// ExpandedSet returns the expanded IDs as a set, or nil when the scene
// carries no view state (meaning: everything visible, static sizing).
func (s *Scene) ExpandedSet() map[string]bool {
	if s.Expanded == nil {
		return nil
	}
	set := make(map[string]bool, len(s.Expanded))
	for _, id := range s.Expanded {
		set[id] = true
	}
	return set
}

// MarshalScene serializes a scene to pretty-printed JSON bytes.
func MarshalScene(s Scene) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encode scene: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadScene decodes a JSON scene from an io.Reader. Node IDs and
// importance scores are screened here, at the trust boundary; structural
// checks (duplicate IDs, missing parents, ring consistency) happen later
// in [tree.Build].
func ReadScene(r io.Reader) (Scene, error) {
	var s Scene
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Scene{}, fmt.Errorf("decode scene: %w", err)
	}
	if len(s.Nodes) == 0 {
		return Scene{}, fmt.Errorf("scene must contain nodes")
	}
	for _, rec := range s.Nodes {
		if err := apperrors.ValidateNodeID(rec.ID); err != nil {
			return Scene{}, err
		}
		if err := apperrors.ValidateImportance(rec.Importance); err != nil {
			return Scene{}, apperrors.Wrap(apperrors.ErrCodeInvalidNode, err, "node %q", rec.ID)
		}
	}
	return s, nil
}

// ReadSceneFile reads a scene from a JSON file.
func ReadSceneFile(path string) (Scene, error) {
	if err := apperrors.ValidateScenePath(path); err != nil {
		return Scene{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Scene{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadScene(f)
}

// WriteSceneFile writes a scene to a JSON file with 0644 permissions.
func WriteSceneFile(s Scene, path string) error {
	if err := apperrors.ValidateScenePath(path); err != nil {
		return err
	}
	data, err := MarshalScene(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
