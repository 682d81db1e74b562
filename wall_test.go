package grove

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestWallBlocks(t *testing.T) {
	w := NewWall("wall", nil, nil, nil)
	w.Position = mgl32.Vec3{100, 0, 0}
	w.Angle = math.Pi / 2
	w.Scale = mgl32.Vec3{10, 10, 10}

	// The wall runs along Z through x=100.
	cases := []struct {
		p    mgl32.Vec3
		want bool
	}{
		{mgl32.Vec3{99.5, 0, 0}, true},
		{mgl32.Vec3{100.5, 0, 5}, true},
		{mgl32.Vec3{95, 0, 0}, false},
		{mgl32.Vec3{100, 0, 12}, false},
		{mgl32.Vec3{100, 0, 10.5}, true},
	}
	for _, c := range cases {
		if got := w.Blocks(c.p, 1); got != c.want {
			t.Errorf("Blocks(%v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestNonWallNeverBlocks(t *testing.T) {
	n := NewNode("floor", nil, nil, nil)
	if n.Blocks(mgl32.Vec3{}, 100) {
		t.Error("plain nodes should not block")
	}
}
