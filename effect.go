package grove

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Effect is a screen-space pass applied to an offscreen frame before it is
// displayed.
type Effect interface {
	// Apply renders src into dst with the effect.
	Apply(src, dst *ebiten.Image)
}

// --- Kage shader sources ---
// All shaders use //kage:unit pixels as required by Ebitengine.
// Ebitengine uses premultiplied alpha; shaders un-premultiply before processing
// and re-premultiply output where needed.

const colorMatrixShaderSrc = `//kage:unit pixels
package main

var Matrix [20]float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	// Un-premultiply alpha.
	if c.a > 0 {
		c.rgb /= c.a
	}
	// Apply 4x5 color matrix (row-major, offset in elements 4,9,14,19).
	r := Matrix[0]*c.r + Matrix[1]*c.g + Matrix[2]*c.b + Matrix[3]*c.a + Matrix[4]
	g := Matrix[5]*c.r + Matrix[6]*c.g + Matrix[7]*c.b + Matrix[8]*c.a + Matrix[9]
	b := Matrix[10]*c.r + Matrix[11]*c.g + Matrix[12]*c.b + Matrix[13]*c.a + Matrix[14]
	a := Matrix[15]*c.r + Matrix[16]*c.g + Matrix[17]*c.b + Matrix[18]*c.a + Matrix[19]
	// Clamp and re-premultiply.
	r = clamp(r, 0, 1)
	g = clamp(g, 0, 1)
	b = clamp(b, 0, 1)
	a = clamp(a, 0, 1)
	return vec4(r*a, g*a, b*a, a)
}
`

const waveShaderSrc = `//kage:unit pixels
package main

var Time float
var Amplitude float
var Frequency float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	origin := imageSrc0Origin()
	size := imageSrc0Size()
	p := src - origin
	// Shift each row sideways along a sine of its height.
	offset := Amplitude * sin(Frequency*6.2831853*p.y/size.y + Time)
	q := vec2(clamp(p.x+offset, 0, size.x-1), p.y)
	return imageSrc0At(q + origin)
}
`

// --- Lazy shader compilation (no sync.Once: grove is single-threaded) ---

var (
	colorMatrixShader *ebiten.Shader
	waveShader        *ebiten.Shader
)

func ensureColorMatrixShader() *ebiten.Shader {
	if colorMatrixShader == nil {
		s, err := ebiten.NewShader([]byte(colorMatrixShaderSrc))
		if err != nil {
			panic("grove: failed to compile color matrix shader: " + err.Error())
		}
		colorMatrixShader = s
	}
	return colorMatrixShader
}

func ensureWaveShader() *ebiten.Shader {
	if waveShader == nil {
		s, err := ebiten.NewShader([]byte(waveShaderSrc))
		if err != nil {
			panic("grove: failed to compile wave shader: " + err.Error())
		}
		waveShader = s
	}
	return waveShader
}

// --- ColorMatrixEffect ---

// ColorMatrixEffect applies a 4x5 color matrix transformation using a Kage shader.
// The matrix is stored in row-major order: [R_r, R_g, R_b, R_a, R_offset, G_r, ...].
type ColorMatrixEffect struct {
	Matrix      [20]float32
	uniforms    map[string]any
	matrixSlice []float32
	shaderOp    ebiten.DrawRectShaderOptions
}

// NewColorMatrixEffect creates a color matrix effect initialized to the identity.
func NewColorMatrixEffect() *ColorMatrixEffect {
	f := &ColorMatrixEffect{
		uniforms: make(map[string]any, 1),
	}
	f.matrixSlice = f.Matrix[:]
	f.uniforms["Matrix"] = f.matrixSlice
	f.SetIdentity()
	return f
}

// SetIdentity resets the matrix so colors pass through unchanged.
func (f *ColorMatrixEffect) SetIdentity() {
	f.Matrix = [20]float32{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// SetBrightness sets the matrix to adjust brightness by the given offset [-1, 1].
func (f *ColorMatrixEffect) SetBrightness(b float32) {
	f.Matrix = [20]float32{
		1, 0, 0, 0, b,
		0, 1, 0, 0, b,
		0, 0, 1, 0, b,
		0, 0, 0, 1, 0,
	}
}

// SetSaturation sets the matrix to adjust saturation. s=1 is normal, 0=grayscale.
func (f *ColorMatrixEffect) SetSaturation(s float32) {
	sr := (1 - s) * 0.299
	sg := (1 - s) * 0.587
	sb := (1 - s) * 0.114
	f.Matrix = [20]float32{
		sr + s, sg, sb, 0, 0,
		sr, sg + s, sb, 0, 0,
		sr, sg, sb + s, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// SetTint converts to grayscale and multiplies by c, keeping alpha.
func (f *ColorMatrixEffect) SetTint(c Color) {
	f.Matrix = [20]float32{
		0.299 * c.R, 0.587 * c.R, 0.114 * c.R, 0, 0,
		0.299 * c.G, 0.587 * c.G, 0.114 * c.G, 0, 0,
		0.299 * c.B, 0.587 * c.B, 0.114 * c.B, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Apply renders the color matrix transformation from src into dst.
func (f *ColorMatrixEffect) Apply(src, dst *ebiten.Image) {
	shader := ensureColorMatrixShader()
	bounds := src.Bounds()
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), shader, &f.shaderOp)
}

// --- WaveEffect ---

// WaveEffect shifts rows of the frame sideways along a moving sine wave.
// Call Advance once per update to animate it.
type WaveEffect struct {
	// Amplitude is the maximum horizontal shift in pixels.
	Amplitude float32
	// Frequency is the number of wave periods over the frame height.
	Frequency float32
	// Speed is the phase advance in radians per second.
	Speed float32

	time     float32
	uniforms map[string]any
	shaderOp ebiten.DrawRectShaderOptions
}

// NewWaveEffect creates a wave effect.
func NewWaveEffect(amplitude, frequency, speed float32) *WaveEffect {
	return &WaveEffect{
		Amplitude: amplitude,
		Frequency: frequency,
		Speed:     speed,
		uniforms:  make(map[string]any, 3),
	}
}

// Advance moves the wave phase forward by dt seconds.
func (f *WaveEffect) Advance(dt float32) {
	f.time += f.Speed * dt
}

// Time returns the current wave phase in radians.
func (f *WaveEffect) Time() float32 {
	return f.time
}

// Apply renders the wave distortion from src into dst.
func (f *WaveEffect) Apply(src, dst *ebiten.Image) {
	shader := ensureWaveShader()
	f.uniforms["Time"] = f.time
	f.uniforms["Amplitude"] = f.Amplitude
	f.uniforms["Frequency"] = f.Frequency
	bounds := src.Bounds()
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), shader, &f.shaderOp)
}
