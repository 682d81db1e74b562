package grove

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// --- AddNode / lookup ---

func TestAddNodeAssignsHandles(t *testing.T) {
	s := NewScene()
	a := NewNode("a", nil, nil, nil)
	b := NewNode("b", nil, nil, nil)
	if err := s.AddNode(a); err != nil {
		t.Fatal(err)
	}
	if err := s.AddNode(b); err != nil {
		t.Fatal(err)
	}
	if a.ID != 0 || b.ID != 1 {
		t.Errorf("ids = %d, %d", a.ID, b.ID)
	}
	if a.Scene() != s {
		t.Error("scene back-reference not set")
	}
	if s.NodeByID(1) != b || s.NodeByID(NoNode) != nil || s.NodeByID(7) != nil {
		t.Error("NodeByID mismatch")
	}
	if got, ok := s.Node("b"); !ok || got != b {
		t.Error("Node(b) lookup failed")
	}
	if _, ok := s.Node("missing"); ok {
		t.Error("Node(missing) should fail")
	}
}

func TestAddNodeErrors(t *testing.T) {
	s := NewScene()
	if err := s.AddNode(NewNode("", nil, nil, nil)); !errors.Is(err, ErrEmptyName) {
		t.Errorf("empty name err = %v", err)
	}
	if err := s.AddNode(NewNode("a", nil, nil, nil)); err != nil {
		t.Fatal(err)
	}
	if err := s.AddNode(NewNode("a", nil, nil, nil)); !errors.Is(err, ErrDuplicateNode) {
		t.Errorf("duplicate err = %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestAddNodeTwicePanics(t *testing.T) {
	s := NewScene()
	n := NewNode("a", nil, nil, nil)
	if err := s.AddNode(n); err != nil {
		t.Fatal(err)
	}
	expectPanic(t, "other scene", func() { _ = NewScene().AddNode(n) })
}

func TestMustNodePanics(t *testing.T) {
	s := NewScene()
	expectPanic(t, "MustNode", func() { s.MustNode("nope") })
}

// --- player ---

func TestSetPlayer(t *testing.T) {
	s, p := newPlayerScene(t)
	if s.Player() != p {
		t.Error("Player mismatch")
	}
	p.Interaction = "root1"
	if s.Interaction() != "root1" {
		t.Errorf("Interaction = %q", s.Interaction())
	}
	s.SetPlayer(nil)
	if s.Player() != nil || s.Interaction() != InteractionNone {
		t.Error("clearing the player failed")
	}
	expectPanic(t, "foreign player", func() { s.SetPlayer(NewNode("x", nil, nil, nil)) })
}

// --- traversal order ---

func TestOrderPutsBranchesAfterParents(t *testing.T) {
	s := NewScene()
	b2 := addTree(t, s, "b2")
	plain := NewNode("plain", nil, nil, nil)
	if err := s.AddNode(plain); err != nil {
		t.Fatal(err)
	}
	root := addTree(t, s, "root")
	b1 := addTree(t, s, "b1")
	s.Attach(root, b1)
	s.Attach(b1, b2)

	var names []string
	for _, id := range s.Order() {
		names = append(names, s.NodeByID(id).Name)
	}
	want := []string{"plain", "root", "b1", "b2"}
	if fmt.Sprint(names) != fmt.Sprint(want) {
		t.Errorf("order = %v, want %v", names, want)
	}
}

func TestOrderCoversEveryNode(t *testing.T) {
	s := NewScene()
	if _, err := GrowTree(s, "root1", mgl32.Vec3{}, 3, TreeResources{}); err != nil {
		t.Fatal(err)
	}
	if _, err := GrowTree(s, "root2", mgl32.Vec3{}, 2, TreeResources{}); err != nil {
		t.Fatal(err)
	}
	seen := make(map[NodeID]bool)
	for _, id := range s.Order() {
		n := s.NodeByID(id)
		if p := n.Parent(); p != NoNode && !seen[p] {
			t.Fatalf("%s visited before its parent", n.Name)
		}
		seen[id] = true
	}
	if len(seen) != s.Len() {
		t.Errorf("visited %d nodes, want %d", len(seen), s.Len())
	}
}

// --- Update ---

func TestUpdateCountsFrames(t *testing.T) {
	s := NewScene()
	for i := 0; i < 3; i++ {
		if err := s.Update(); err != nil {
			t.Fatal(err)
		}
	}
	if s.Frame() != 3 {
		t.Errorf("Frame = %d, want 3", s.Frame())
	}
}

func TestUpdateFuncErrorStops(t *testing.T) {
	s := NewScene()
	stop := errors.New("stop")
	s.SetUpdateFunc(func() error { return stop })
	if err := s.Update(); !errors.Is(err, stop) {
		t.Errorf("err = %v, want stop", err)
	}
	if s.Frame() != 0 {
		t.Error("nodes were updated after the update func failed")
	}
}

func TestUpdateFuncRunsBeforeNodes(t *testing.T) {
	s := NewScene()
	n := NewNode("n", nil, nil, nil)
	if err := s.AddNode(n); err != nil {
		t.Fatal(err)
	}
	s.SetUpdateFunc(func() error {
		n.Position = mgl32.Vec3{1, 2, 3}
		return nil
	})
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	assertVec(t, "world", n.WorldPosition(), mgl32.Vec3{1, 2, 3})
}

func TestInteractionChangeEvents(t *testing.T) {
	s, p := newPlayerScene(t)
	tree := addTree(t, s, "root1")
	tree.Position = mgl32.Vec3{5, 0, 0}

	var events []InteractionEvent
	s.OnInteractionChange(func(ev InteractionEvent) { events = append(events, ev) })

	s.updateNodes(1.0 / 60)
	s.updateNodes(1.0 / 60)
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.Frame != 1 || ev.From != InteractionNone || ev.To != "root1" || ev.Node != tree.ID {
		t.Errorf("event = %+v", ev)
	}

	p.Position = mgl32.Vec3{100, 0, 0}
	s.updateNodes(1.0 / 60)
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[1].To != InteractionNone || events[1].Node != NoNode {
		t.Errorf("release event = %+v", events[1])
	}
}

type recordingStore struct {
	events []InteractionEvent
}

func (r *recordingStore) EmitEvent(ev InteractionEvent) {
	r.events = append(r.events, ev)
}

func TestEntityStoreReceivesEvents(t *testing.T) {
	s, _ := newPlayerScene(t)
	addTree(t, s, "root1")
	store := &recordingStore{}
	s.SetEntityStore(store)
	s.updateNodes(1.0 / 60)
	if len(store.events) != 1 || store.events[0].To != "root1" {
		t.Errorf("store events = %+v", store.events)
	}
}

func TestSkyFollowsCamera(t *testing.T) {
	s := NewScene()
	cam := s.NewCamera(800, 600)
	cam.Position = mgl32.Vec3{3, 4, 5}
	sky := NewSky("front", nil, nil, nil, mgl32.Vec3{0, 0, -1})
	if err := s.AddNode(sky); err != nil {
		t.Fatal(err)
	}
	s.AnchorSkyTo(cam)
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	assertVec(t, "anchor", s.SkyAnchor(), mgl32.Vec3{3, 4, 5})
	assertVec(t, "sky", sky.WorldPosition(), mgl32.Vec3{3, 4, 4})
}

func TestCameras(t *testing.T) {
	s := NewScene()
	a := s.NewCamera(100, 100)
	b := s.NewCamera(200, 200)
	if len(s.Cameras()) != 2 {
		t.Fatalf("cameras = %d", len(s.Cameras()))
	}
	s.RemoveCamera(a)
	if len(s.Cameras()) != 1 || s.Cameras()[0] != b {
		t.Error("RemoveCamera removed the wrong camera")
	}
}
