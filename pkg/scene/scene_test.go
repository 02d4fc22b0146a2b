package scene

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/ringmap/pkg/tree"
)

func testScene() Scene {
	return Scene{
		Nodes: []tree.Record{
			{ID: "root", Ring: 0, Importance: 1},
			{ID: "a", Ring: 1, ParentID: "root", Importance: 0.4},
		},
		Expanded: []string{"root"},
		Viewport: &Viewport{Width: 1200, Height: 800, Zoom: 1.5},
	}
}

func TestSceneFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	want := testScene()

	if err := WriteSceneFile(want, path); err != nil {
		t.Fatalf("WriteSceneFile() error = %v", err)
	}
	got, err := ReadSceneFile(path)
	if err != nil {
		t.Fatalf("ReadSceneFile() error = %v", err)
	}

	if len(got.Nodes) != 2 || got.Nodes[1].ID != "a" || got.Nodes[1].Importance != 0.4 {
		t.Errorf("nodes = %+v, want %+v", got.Nodes, want.Nodes)
	}
	if len(got.Expanded) != 1 || got.Expanded[0] != "root" {
		t.Errorf("expanded = %v, want [root]", got.Expanded)
	}
	if got.Viewport == nil || got.Viewport.Width != 1200 || got.Viewport.Zoom != 1.5 {
		t.Errorf("viewport = %+v, want %+v", got.Viewport, want.Viewport)
	}
}

func TestReadSceneRejectsEmptyNodes(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"no nodes", `{"nodes": []}`},
		{"missing nodes", `{"expanded": []}`},
		{"not json", `nope`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadScene(strings.NewReader(tt.in)); err == nil {
				t.Error("ReadScene() error = nil, want error")
			}
		})
	}
}

func TestReadSceneRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty id", `{"nodes": [{"id": "", "ring": 0}]}`},
		{"control char in id", `{"nodes": [{"id": "a\u0007b", "ring": 0}]}`},
		{"traversal in id", `{"nodes": [{"id": "../etc", "ring": 0}]}`},
		{"importance above one", `{"nodes": [{"id": "root", "ring": 0, "importance": 1.5}]}`},
		{"negative importance", `{"nodes": [{"id": "root", "ring": 0, "importance": -0.1}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadScene(strings.NewReader(tt.in)); err == nil {
				t.Error("ReadScene() error = nil, want error")
			}
		})
	}
}

func TestSceneFileRejectsBadPaths(t *testing.T) {
	if _, err := ReadSceneFile("../../etc/passwd"); err == nil {
		t.Error("ReadSceneFile() with traversal path should fail")
	}
	if err := WriteSceneFile(testScene(), ""); err == nil {
		t.Error("WriteSceneFile() with empty path should fail")
	}
	if err := WriteSceneFile(testScene(), "scenes/../../../tmp/x.json"); err == nil {
		t.Error("WriteSceneFile() with traversal path should fail")
	}
}

func TestBuildTree(t *testing.T) {
	s := testScene()
	tr, err := s.BuildTree()
	if err != nil {
		t.Fatalf("BuildTree() error = %v", err)
	}
	if tr.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", tr.NodeCount())
	}

	bad := Scene{Nodes: []tree.Record{{ID: "floater", Ring: 3}}}
	if _, err := bad.BuildTree(); err == nil {
		t.Error("BuildTree() on malformed records should fail")
	}
}

func TestExpandedSet(t *testing.T) {
	// Nil slice means "no view state": everything visible.
	s := Scene{Nodes: testScene().Nodes}
	if got := s.ExpandedSet(); got != nil {
		t.Errorf("ExpandedSet() = %v, want nil", got)
	}

	// An empty (non-nil) slice is a real state: everything collapsed.
	s.Expanded = []string{}
	if got := s.ExpandedSet(); got == nil || len(got) != 0 {
		t.Errorf("ExpandedSet() = %v, want empty non-nil set", got)
	}

	s.Expanded = []string{"root", "a"}
	got := s.ExpandedSet()
	if len(got) != 2 || !got["root"] || !got["a"] {
		t.Errorf("ExpandedSet() = %v, want {root, a}", got)
	}
}

func TestViewportContext(t *testing.T) {
	var v *Viewport
	if got := v.Context(); got != nil {
		t.Errorf("nil viewport Context() = %+v, want nil", got)
	}

	v = &Viewport{Width: 640, Height: 480, PixelDensity: 2, Zoom: 1.25, VisibleNodes: 42}
	ctx := v.Context()
	if ctx.Width != 640 || ctx.Height != 480 || ctx.PixelDensity != 2 ||
		ctx.Zoom != 1.25 || ctx.VisibleNodes != 42 {
		t.Errorf("Context() = %+v, want field-for-field copy", ctx)
	}
}
