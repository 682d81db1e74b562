package grove

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// moveAnim holds active move-to tweens for the camera position.
type moveAnim struct {
	tweens [3]*gween.Tween
	done   [3]bool
}

var (
	worldUp      = mgl32.Vec3{0, 1, 0}
	cameraAhead  = mgl32.Vec3{0, 0, -1}
	cameraRight  = mgl32.Vec3{1, 0, 0}
	cameraUpAxis = mgl32.Vec3{0, 1, 0}
)

// Camera is a first-person perspective camera. The camera looks down its
// local -Z axis.
type Camera struct {
	// Position is the eye position in world space.
	Position mgl32.Vec3
	// FOV is the vertical field of view in degrees.
	FOV float32
	// Near and Far are the clip plane distances.
	Near, Far float32
	// Width and Height are the viewport size in pixels, used for the aspect ratio.
	Width, Height int

	orientation mgl32.Quat

	followTarget *Node
	followOffset mgl32.Vec3
	followLerp   float32

	moveTween *moveAnim
}

// newCamera creates a camera at the origin looking down -Z.
func newCamera(width, height int) *Camera {
	return &Camera{
		FOV:         45,
		Near:        0.01,
		Far:         1000,
		Width:       width,
		Height:      height,
		orientation: mgl32.QuatIdent(),
	}
}

// SetView places the camera at position looking at lookAt.
func (c *Camera) SetView(position, lookAt, up mgl32.Vec3) {
	c.Position = position
	view := mgl32.LookAtV(position, lookAt, up)
	c.orientation = mgl32.Mat4ToQuat(view).Conjugate().Normalize()
}

// SetProjection sets the perspective parameters. fov is in degrees.
func (c *Camera) SetProjection(fov, near, far float32, width, height int) {
	c.FOV = fov
	c.Near = near
	c.Far = far
	c.Width = width
	c.Height = height
}

// Orientation returns the camera's rotation.
func (c *Camera) Orientation() mgl32.Quat {
	return c.orientation
}

// SetOrientation replaces the camera's rotation.
func (c *Camera) SetOrientation(q mgl32.Quat) {
	c.orientation = q.Normalize()
}

// Pitch tilts the camera up (positive) or down about its side axis.
func (c *Camera) Pitch(angle float32) {
	q := mgl32.QuatRotate(angle, c.Side())
	c.orientation = q.Mul(c.orientation).Normalize()
}

// Yaw turns the camera left (positive) or right about the world up axis.
func (c *Camera) Yaw(angle float32) {
	q := mgl32.QuatRotate(angle, worldUp)
	c.orientation = q.Mul(c.orientation).Normalize()
}

// Forward returns the unit view direction.
func (c *Camera) Forward() mgl32.Vec3 {
	return c.orientation.Rotate(cameraAhead)
}

// Side returns the unit vector pointing to the camera's right.
func (c *Camera) Side() mgl32.Vec3 {
	return c.orientation.Rotate(cameraRight)
}

// Up returns the camera's unit up vector.
func (c *Camera) Up() mgl32.Vec3 {
	return c.orientation.Rotate(cameraUpAxis)
}

// ViewMatrix returns the world-to-view transform.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	p := c.Position
	return c.orientation.Conjugate().Mat4().Mul4(mgl32.Translate3D(-p.X(), -p.Y(), -p.Z()))
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	aspect := float32(1)
	if c.Width > 0 && c.Height > 0 {
		aspect = float32(c.Width) / float32(c.Height)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// ViewProjection returns ProjectionMatrix * ViewMatrix.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// WorldToScreen projects a world point to viewport pixels. ok is false when
// the point is behind the near plane.
func (c *Camera) WorldToScreen(p mgl32.Vec3) (sx, sy float32, ok bool) {
	clip := c.ViewProjection().Mul4x1(p.Vec4(1))
	if clip.W() < c.Near {
		return 0, 0, false
	}
	sx, sy = ndcToScreen(clip.X()/clip.W(), clip.Y()/clip.W(), float32(c.Width), float32(c.Height))
	return sx, sy, true
}

// ndcToScreen maps normalized device coordinates to pixels (Y down).
func ndcToScreen(x, y, w, h float32) (float32, float32) {
	return (x + 1) * 0.5 * w, (1 - y) * 0.5 * h
}

// Follow makes the camera track a target node's position plus offset. A lerp
// of 1.0 snaps immediately; lower values give smoother following. The target
// is read before the scene's transform pass, so it should be a root-level
// node.
func (c *Camera) Follow(node *Node, offset mgl32.Vec3, lerp float32) {
	c.followTarget = node
	c.followOffset = offset
	c.followLerp = lerp
}

// Unfollow stops tracking the current target node.
func (c *Camera) Unfollow() {
	c.followTarget = nil
}

// MoveTo animates the camera to the given position over duration seconds.
// Following takes precedence while a target is set.
func (c *Camera) MoveTo(to mgl32.Vec3, duration float32, easeFn ease.TweenFunc) {
	m := &moveAnim{}
	for i := 0; i < 3; i++ {
		m.tweens[i] = gween.New(c.Position[i], to[i], duration, easeFn)
	}
	c.moveTween = m
}

// update advances follow and move animations. Called from Scene.Update.
func (c *Camera) update(dt float32) {
	if c.followTarget != nil {
		target := c.followTarget.Position.Add(c.followOffset)
		c.Position = c.Position.Add(target.Sub(c.Position).Mul(c.followLerp))
		c.moveTween = nil
		return
	}

	if m := c.moveTween; m != nil {
		for i := 0; i < 3; i++ {
			if m.done[i] {
				continue
			}
			val, done := m.tweens[i].Update(dt)
			c.Position[i] = val
			m.done[i] = done
		}
		if m.done[0] && m.done[1] && m.done[2] {
			c.moveTween = nil
		}
	}
}
