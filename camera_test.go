package grove

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

func TestCameraDefaults(t *testing.T) {
	cam := newCamera(800, 600)
	if cam.FOV != 45 || cam.Near != 0.01 || cam.Far != 1000 {
		t.Errorf("projection = %v %v %v", cam.FOV, cam.Near, cam.Far)
	}
	assertVec(t, "forward", cam.Forward(), mgl32.Vec3{0, 0, -1})
	assertVec(t, "side", cam.Side(), mgl32.Vec3{1, 0, 0})
	assertVec(t, "up", cam.Up(), mgl32.Vec3{0, 1, 0})
}

func TestCameraSetView(t *testing.T) {
	cam := newCamera(800, 600)
	cam.SetView(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	assertVec(t, "forward", cam.Forward(), mgl32.Vec3{0, 0, -1})

	cam.SetView(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{5, 0, 0}, mgl32.Vec3{0, 1, 0})
	assertVec(t, "forward +x", cam.Forward(), mgl32.Vec3{1, 0, 0})
	assertVec(t, "side +x", cam.Side(), mgl32.Vec3{0, 0, 1})
}

func TestCameraViewMatchesLookAt(t *testing.T) {
	cam := newCamera(800, 600)
	eye := mgl32.Vec3{3, 2, 10}
	center := mgl32.Vec3{0, 0, 0}
	cam.SetView(eye, center, mgl32.Vec3{0, 1, 0})
	assertMat(t, "view", cam.ViewMatrix(), mgl32.LookAtV(eye, center, mgl32.Vec3{0, 1, 0}))
}

func TestCameraYaw(t *testing.T) {
	cam := newCamera(800, 600)
	cam.Yaw(math.Pi / 2)
	assertVec(t, "forward", cam.Forward(), mgl32.Vec3{-1, 0, 0})
	cam.Yaw(-math.Pi / 2)
	assertVec(t, "back", cam.Forward(), mgl32.Vec3{0, 0, -1})
}

func TestCameraPitch(t *testing.T) {
	cam := newCamera(800, 600)
	cam.Pitch(math.Pi / 2)
	assertVec(t, "forward", cam.Forward(), mgl32.Vec3{0, 1, 0})
}

func TestWorldToScreenCenter(t *testing.T) {
	cam := newCamera(800, 600)
	cam.SetView(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	sx, sy, ok := cam.WorldToScreen(mgl32.Vec3{})
	if !ok {
		t.Fatal("origin should be visible")
	}
	assertNear(t, "sx", sx, 400)
	assertNear(t, "sy", sy, 300)

	if _, _, ok := cam.WorldToScreen(mgl32.Vec3{0, 0, 20}); ok {
		t.Error("point behind the camera should not project")
	}
}

func TestWorldToScreenUpIsUp(t *testing.T) {
	cam := newCamera(800, 600)
	cam.SetView(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	_, sy, ok := cam.WorldToScreen(mgl32.Vec3{0, 1, 0})
	if !ok || sy >= 300 {
		t.Errorf("sy = %v, want above center", sy)
	}
}

func TestCameraFollow(t *testing.T) {
	cam := newCamera(800, 600)
	n := NewNode("Player", nil, nil, nil)
	n.Position = mgl32.Vec3{10, 0, 0}
	cam.Follow(n, mgl32.Vec3{0, 1, 0}, 1)
	cam.update(1.0 / 60)
	assertVec(t, "snap", cam.Position, mgl32.Vec3{10, 1, 0})

	cam.Follow(n, mgl32.Vec3{}, 0.5)
	cam.Position = mgl32.Vec3{}
	cam.update(1.0 / 60)
	assertVec(t, "lerp", cam.Position, mgl32.Vec3{5, 0, 0})

	cam.Unfollow()
	n.Position = mgl32.Vec3{100, 0, 0}
	cam.update(1.0 / 60)
	assertVec(t, "unfollowed", cam.Position, mgl32.Vec3{5, 0, 0})
}

func TestCameraMoveTo(t *testing.T) {
	cam := newCamera(800, 600)
	cam.MoveTo(mgl32.Vec3{10, 20, 30}, 1, ease.Linear)
	cam.update(0.5)
	assertVec(t, "half", cam.Position, mgl32.Vec3{5, 10, 15})
	cam.update(0.5)
	assertVec(t, "end", cam.Position, mgl32.Vec3{10, 20, 30})
	if cam.moveTween != nil {
		t.Error("finished move should be cleared")
	}
}

func TestSceneUpdatesCameras(t *testing.T) {
	s := NewScene()
	cam := s.NewCamera(800, 600)
	cam.MoveTo(mgl32.Vec3{0, 0, -10}, 0.001, ease.Linear)
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	assertVec(t, "pos", cam.Position, mgl32.Vec3{0, 0, -10})
}
