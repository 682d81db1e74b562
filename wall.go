package grove

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Blocks reports whether a circle of radius around point overlaps the wall.
// The wall is treated as a vertical segment in the XZ plane, centered on its
// position, yawed by Angle, with half-length Scale.X. This is a best-effort
// proximity test; callers decide how to respond.
func (n *Node) Blocks(point mgl32.Vec3, radius float32) bool {
	if n.Kind != NodeKindWall {
		return false
	}
	sin, cos := math.Sincos(float64(n.Angle))
	// Direction along the wall in the XZ plane.
	dx, dz := float32(cos), float32(-sin)
	px := point.X() - n.Position.X()
	pz := point.Z() - n.Position.Z()

	along := px*dx + pz*dz
	half := n.Scale.X()
	if along > half+radius || along < -half-radius {
		return false
	}
	across := px*dz - pz*dx
	if across < 0 {
		across = -across
	}
	return across < radius
}
