package grove

import (
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func addTree(t *testing.T, s *Scene, name string) *Node {
	t.Helper()
	n := NewTree(name, nil, nil, nil)
	if err := s.AddNode(n); err != nil {
		t.Fatal(err)
	}
	return n
}

// --- sway phase ---

func TestSwaySignCycle(t *testing.T) {
	n := NewTree("t", nil, nil, nil)
	for i := 0; i < SwayPeriod*2; i++ {
		want := float32(1)
		if i%SwayPeriod >= SwayPeriod/2 {
			want = -1
		}
		if got := n.swaySign(); got != want {
			t.Fatalf("update %d: sign = %v, want %v", i, got, want)
		}
		if n.Phase() < 0 || n.Phase() >= SwayPeriod {
			t.Fatalf("phase = %d out of range", n.Phase())
		}
	}
	if n.Phase() != 0 {
		t.Errorf("phase after two cycles = %d, want 0", n.Phase())
	}
}

func TestRootAdvancesPhase(t *testing.T) {
	s := NewScene()
	root := addTree(t, s, "tree")
	for i := 0; i < 30; i++ {
		s.updateNodes(1.0 / 60)
	}
	if root.Phase() != 30 {
		t.Errorf("phase = %d, want 30", root.Phase())
	}
}

// --- root transform ---

func TestRootTransformIsPlain(t *testing.T) {
	s := NewScene()
	root := addTree(t, s, "tree")
	root.Position = mgl32.Vec3{0, 0, -100}
	s.SetWind(root, mgl32.Vec3{1, 0, 1})
	for i := 0; i < 7; i++ {
		s.updateNodes(1.0 / 60)
	}
	assertMat(t, "root", root.WorldTransform(), mgl32.Translate3D(0, 0, -100))
}

// --- branches ---

func TestBranchWithoutWindFollowsParent(t *testing.T) {
	s := NewScene()
	root := addTree(t, s, "tree")
	root.Position = mgl32.Vec3{0, 0, -100}
	b := addTree(t, s, "branch")
	b.Position = mgl32.Vec3{0, 12, 0}
	s.Attach(root, b)

	s.updateNodes(1.0 / 60)

	want := root.WorldTransform().Mul4(mgl32.Translate3D(0, 12, 0))
	assertMat(t, "branch", b.WorldTransform(), want)
	if !b.Orientation.ApproxEqual(mgl32.QuatIdent()) {
		t.Errorf("orientation = %v, want identity", b.Orientation)
	}
}

func TestBranchSwaysAboutWind(t *testing.T) {
	s := NewScene()
	root := addTree(t, s, "tree")
	b := addTree(t, s, "branch")
	s.Attach(root, b)
	wind := mgl32.Vec3{1, 0, 1}
	s.SetWind(root, wind)

	// Half a cycle of positive sway.
	for i := 0; i < SwayPeriod/2; i++ {
		s.updateNodes(1.0 / 60)
	}
	want := mgl32.QuatRotate(SwayStep*SwayPeriod/2, wind.Normalize())
	if !b.Orientation.ApproxEqualThreshold(want, epsilon) {
		t.Errorf("after half cycle = %v, want %v", b.Orientation, want)
	}

	// The second half swings back.
	for i := 0; i < SwayPeriod/2; i++ {
		s.updateNodes(1.0 / 60)
	}
	if !b.Orientation.ApproxEqualThreshold(mgl32.QuatIdent(), epsilon) {
		t.Errorf("after full cycle = %v, want identity", b.Orientation)
	}
}

func TestBranchUsesParentFromSamePass(t *testing.T) {
	s := NewScene()
	// The branch is inserted before its parent; the traversal order must
	// still resolve the parent first.
	b := addTree(t, s, "branch")
	root := addTree(t, s, "tree")
	s.Attach(root, b)
	root.Position = mgl32.Vec3{5, 0, 0}

	s.updateNodes(1.0 / 60)
	assertVec(t, "branch pos", b.WorldPosition(), mgl32.Vec3{5, 0, 0})

	root.Position = mgl32.Vec3{9, 0, 0}
	s.updateNodes(1.0 / 60)
	assertVec(t, "branch pos after move", b.WorldPosition(), mgl32.Vec3{9, 0, 0})
}

func TestBranchScaleNotInherited(t *testing.T) {
	s := NewScene()
	root := addTree(t, s, "tree")
	b := addTree(t, s, "b")
	b.Scale = mgl32.Vec3{0.5, 0.5, 0.5}
	c := addTree(t, s, "c")
	c.Position = mgl32.Vec3{0, 4, 0}
	s.Attach(root, b)
	s.Attach(b, c)

	s.updateNodes(1.0 / 60)
	assertVec(t, "child pos", c.WorldPosition(), mgl32.Vec3{0, 4, 0})
}

// --- wind ---

func TestSetWindPropagates(t *testing.T) {
	s := NewScene()
	root := addTree(t, s, "tree")
	a := addTree(t, s, "a")
	b := addTree(t, s, "b")
	s.Attach(root, a)
	s.Attach(a, b)
	w := mgl32.Vec3{1, 0, 1}
	s.SetWind(root, w)
	for _, n := range []*Node{root, a, b} {
		if n.Wind() != w {
			t.Errorf("%s wind = %v, want %v", n.Name, n.Wind(), w)
		}
	}
	// Setting on a subtree leaves ancestors alone.
	s.SetWind(a, mgl32.Vec3{0, 1, 0})
	if root.Wind() != w {
		t.Errorf("root wind changed to %v", root.Wind())
	}
	if b.Wind() != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("b wind = %v", b.Wind())
	}
}

// --- attach ---

func TestAttachLinksBothWays(t *testing.T) {
	s := NewScene()
	root := addTree(t, s, "tree")
	b := addTree(t, s, "b")
	s.Attach(root, b)
	if s.ParentOf(b) != root {
		t.Error("parent not set")
	}
	if s.ParentOf(root) != nil {
		t.Error("root should have no parent")
	}
	kids := s.ChildrenOf(root)
	if len(kids) != 1 || kids[0] != b {
		t.Errorf("children = %v", kids)
	}
	if b.IsRoot() || !root.IsRoot() {
		t.Error("IsRoot mismatch")
	}
}

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestAttachPanics(t *testing.T) {
	s := NewScene()
	root := addTree(t, s, "tree")
	b := addTree(t, s, "b")
	s.Attach(root, b)

	expectPanic(t, "nil", func() { s.Attach(root, nil) })
	expectPanic(t, "second parent", func() { s.Attach(addTree(t, s, "other"), b) })
	expectPanic(t, "cycle", func() { s.Attach(b, root) })
	expectPanic(t, "self", func() { s.Attach(root, root) })

	plain := NewNode("plain", nil, nil, nil)
	if err := s.AddNode(plain); err != nil {
		t.Fatal(err)
	}
	expectPanic(t, "non-tree", func() { s.Attach(root, plain) })

	foreign := NewTree("foreign", nil, nil, nil)
	expectPanic(t, "foreign", func() { s.Attach(root, foreign) })
}

func TestWalkTreeParentsFirst(t *testing.T) {
	s := NewScene()
	root := addTree(t, s, "tree")
	a := addTree(t, s, "a")
	b := addTree(t, s, "b")
	c := addTree(t, s, "c")
	s.Attach(root, a)
	s.Attach(a, c)
	s.Attach(root, b)

	var names []string
	s.WalkTree(root, func(n *Node) { names = append(names, n.Name) })
	want := []string{"tree", "a", "c", "b"}
	if fmt.Sprint(names) != fmt.Sprint(want) {
		t.Errorf("walk = %v, want %v", names, want)
	}
}

// --- GrowTree ---

func TestGrowTreeCount(t *testing.T) {
	s := NewScene()
	root, err := GrowTree(s, "root1", mgl32.Vec3{0, 0, -100}, 4, TreeResources{})
	if err != nil {
		t.Fatal(err)
	}
	// 4 + 16 + 64 + 256 branches plus the root.
	if s.Len() != 341 {
		t.Errorf("Len = %d, want 341", s.Len())
	}
	count := 0
	s.WalkTree(root, func(*Node) { count++ })
	if count != 341 {
		t.Errorf("walk count = %d, want 341", count)
	}
	if _, ok := s.Node("root1.b1"); !ok {
		t.Error("missing root1.b1")
	}
	if _, ok := s.Node("root1.b340"); !ok {
		t.Error("missing root1.b340")
	}
}

func TestGrowTreeBranchLayout(t *testing.T) {
	s := NewScene()
	root, err := GrowTree(s, "root1", mgl32.Vec3{}, 1, TreeResources{})
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range s.ChildrenOf(root) {
		assertNear(t, b.Name+" scale", b.Scale.X(), 0.5)
		assertNear(t, b.Name+" y", b.Position.Y(), 6)
		assertNear(t, b.Name+" pivot", b.Pivot.Y(), 2)
		angle := 2 * math.Acos(float64(b.Orientation.W))
		if math.Abs(angle-math.Pi/4) > epsilon {
			t.Errorf("%s tilt = %v, want pi/4", b.Name, angle)
		}
	}
}

func TestGrowTreeDuplicateName(t *testing.T) {
	s := NewScene()
	if _, err := GrowTree(s, "root1", mgl32.Vec3{}, 1, TreeResources{}); err != nil {
		t.Fatal(err)
	}
	if _, err := GrowTree(s, "root1", mgl32.Vec3{}, 1, TreeResources{}); err == nil {
		t.Error("expected duplicate name error")
	}
}
