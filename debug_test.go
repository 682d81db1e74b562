package grove

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestTreeDepth(t *testing.T) {
	s := NewScene()
	root, err := GrowTree(s, "root1", mgl32.Vec3{}, 3, TreeResources{})
	if err != nil {
		t.Fatal(err)
	}
	if d := treeDepth(s, root); d != 1 {
		t.Errorf("root depth = %d, want 1", d)
	}
	deepest := 0
	s.WalkTree(root, func(n *Node) {
		deepest = max(deepest, treeDepth(s, n))
	})
	if deepest != 4 {
		t.Errorf("deepest = %d, want 4", deepest)
	}
}

func TestDebugModeUpdates(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)
	if _, err := GrowTree(s, "root1", mgl32.Vec3{}, 2, TreeResources{}); err != nil {
		t.Fatal(err)
	}
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	if s.Frame() != 1 {
		t.Errorf("Frame = %d", s.Frame())
	}
}
