package grove

import "github.com/go-gl/mathgl/mgl32"

// renormalizeEvery is how many delta rotations a node accumulates before its
// orientation is renormalized to unit length.
const renormalizeEvery = 64

// composeTRS builds Translate(pos) * Rotate(q) * Scale(s).
func composeTRS(pos mgl32.Vec3, q mgl32.Quat, s mgl32.Vec3) mgl32.Mat4 {
	t := mgl32.Translate3D(pos.X(), pos.Y(), pos.Z())
	return t.Mul4(q.Mat4()).Mul4(mgl32.Scale3D(s.X(), s.Y(), s.Z()))
}

// composeTR builds Translate(pos) * Rotate(q).
func composeTR(pos mgl32.Vec3, q mgl32.Quat) mgl32.Mat4 {
	return mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).Mul4(q.Mat4())
}

// orbitTransform rotates about pivot instead of the local origin, then
// translates to pos:
//
//	Translate(pos) * Translate(pivot)^-1 * Rotate(q) * Translate(pivot)
//
// With an identity q it degenerates to Translate(pos).
func orbitTransform(pos, pivot mgl32.Vec3, q mgl32.Quat) mgl32.Mat4 {
	t := mgl32.Translate3D(pivot.X(), pivot.Y(), pivot.Z())
	tInv := mgl32.Translate3D(-pivot.X(), -pivot.Y(), -pivot.Z())
	t2 := mgl32.Translate3D(pos.X(), pos.Y(), pos.Z())
	return t2.Mul4(tInv).Mul4(q.Mat4()).Mul4(t)
}

// axisRotation returns a rotation of angle radians about axis, or false when
// the axis has no length.
func axisRotation(angle float32, axis mgl32.Vec3) (mgl32.Quat, bool) {
	if axis.Len() < 1e-6 {
		return mgl32.QuatIdent(), false
	}
	return mgl32.QuatRotate(angle, axis.Normalize()), true
}

// updatePlain resolves a node with no hierarchy and no animation.
func updatePlain(n *Node) {
	n.world = composeTRS(n.Position, n.Orientation, n.Scale)
}

// drawTransform is the model matrix the renderer uses. Branch and box
// transforms leave scale out (a branch's scale must not be inherited by its
// sub-branches); it is applied here instead.
func drawTransform(n *Node) mgl32.Mat4 {
	branch := n.Kind == NodeKindTree && n.parent != NoNode
	if branch || n.Kind == NodeKindBox {
		return n.world.Mul4(mgl32.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z()))
	}
	return n.world
}
