package grove

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestSkyFollowsAnchor(t *testing.T) {
	n := NewSky("top", nil, nil, nil, mgl32.Vec3{0, 1, 0})
	n.Position = mgl32.Vec3{99, 99, 99}
	updateSky(n, &UpdateContext{SkyAnchor: mgl32.Vec3{10, 2, -3}})
	assertVec(t, "position", n.Position, mgl32.Vec3{10, 3, -3})
	assertVec(t, "world", n.WorldPosition(), mgl32.Vec3{10, 3, -3})
}

func TestSkyFaceString(t *testing.T) {
	for i, f := range SkyFaces {
		if f.String() != skyFaceNames[i] {
			t.Errorf("face %d = %q", i, f.String())
		}
	}
	if SkyFace(9).String() != "unknown" {
		t.Error("out of range face should be unknown")
	}
}

func TestSkyPlacementAlignsWithOffset(t *testing.T) {
	// Every quad normal points along its offset, away from the anchor.
	for _, f := range SkyFaces {
		offset, q := skyPlacement(f)
		assertNear(t, f.String()+" offset", offset.Len(), 1)
		normal := q.Rotate(mgl32.Vec3{0, 0, 1})
		if d := normal.Dot(offset); d < 0.99 {
			t.Errorf("%s normal %v not aligned with offset %v", f, normal, offset)
		}
	}
}

func newSkyTextures(prefix string) [6]*Resource {
	var out [6]*Resource
	for i, f := range SkyFaces {
		out[i] = &Resource{Name: prefix + f.String(), Kind: ResourceTexture}
	}
	return out
}

func TestSkyboxStates(t *testing.T) {
	s := NewScene()
	village := newSkyTextures("village_")
	castle := newSkyTextures("castle_")
	sb, err := NewSkybox(s, "", nil, nil, "village", village)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 6 {
		t.Fatalf("Len = %d, want 6", s.Len())
	}
	if _, ok := s.Node("front"); !ok {
		t.Error("missing front plane")
	}
	if sb.Face(SkyTop).Texture != village[SkyTop] {
		t.Error("initial texture not applied")
	}

	if sb.SetState("castle") {
		t.Error("unknown state should be rejected")
	}
	sb.AddState("castle", castle)
	if !sb.SetState("castle") {
		t.Fatal("SetState(castle) failed")
	}
	if sb.State() != "castle" {
		t.Errorf("State = %q", sb.State())
	}
	for i, f := range SkyFaces {
		if sb.Face(f).Texture != castle[i] {
			t.Errorf("%s texture = %v", f, sb.Face(f).Texture.Name)
		}
	}
}

func TestSkyboxDuplicate(t *testing.T) {
	s := NewScene()
	if _, err := NewSkybox(s, "sky_", nil, nil, "a", newSkyTextures("a")); err != nil {
		t.Fatal(err)
	}
	if _, err := NewSkybox(s, "sky_", nil, nil, "a", newSkyTextures("a")); err == nil {
		t.Error("expected duplicate name error")
	}
}
