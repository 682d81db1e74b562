package grove

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Light is the scene's point light. The renderer uses it for flat per-face
// shading: a face pointing straight at the light gets full color, a face
// pointing away gets the material's ambient level.
type Light struct {
	// Position is the light's world position.
	Position mgl32.Vec3
	// Color tints lit faces. Zero value means white.
	Color Color
	// Enabled turns lighting on. A disabled light draws every face at full
	// brightness.
	Enabled bool
}

// NewLight creates an enabled white light at position.
func NewLight(position mgl32.Vec3) *Light {
	return &Light{Position: position, Color: ColorWhite, Enabled: true}
}

// shade returns the light factor in [ambient, 1] for a face with world-space
// center and unit normal. Faces are two-sided: a normal pointing away from
// the light is flipped, since quads are seen from both sides.
func (l *Light) shade(center, normal mgl32.Vec3, ambient float32) float32 {
	if l == nil || !l.Enabled {
		return 1
	}
	toLight := l.Position.Sub(center)
	if toLight.Len() < 1e-6 {
		return 1
	}
	d := normal.Dot(toLight.Normalize())
	if d < 0 {
		d = -d
	}
	return ambient + (1-ambient)*d
}

// tint returns the light color, defaulting to white.
func (l *Light) tint() Color {
	if l == nil || !l.Enabled || l.Color == (Color{}) {
		return ColorWhite
	}
	return l.Color
}
