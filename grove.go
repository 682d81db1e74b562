package grove

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float32
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// WhitePixel is a 1x1 white image used for untextured geometry.
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite.toRGBA())
}

// InteractionNone is the interaction tag value meaning no node is targeted.
const InteractionNone = "Nothing"

// NodeKind selects the per-frame update behavior of a Node.
type NodeKind uint8

const (
	NodeKindPlain   NodeKind = iota // translate * rotate * scale, nothing else
	NodeKindTree                    // swaying branch hierarchy
	NodeKindBox                     // lid with an open animation
	NodeKindSky                     // skybox plane that follows the sky anchor
	NodeKindWall                    // static wall with a proximity test
	NodeKindTrigger                 // invisible interaction zone (doors, magic)
	NodeKindEmitter                 // CPU particle system
)

var nodeKindNames = [...]string{"plain", "tree", "box", "sky", "wall", "trigger", "emitter"}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "unknown"
}

// Sway and animation constants.
const (
	// SwayPeriod is the number of updates in one full sway cycle.
	SwayPeriod = 50
	// SwayStep is the per-update sway angle in radians.
	SwayStep = float32(math.Pi / 3600)

	// BoxOpenFrames is the number of updates the lid open animation lasts.
	BoxOpenFrames = 50
	// BoxOpenStep is the per-update lid rotation in radians.
	BoxOpenStep = float32(math.Pi / 360)
)

// Reserved name prefixes and reach distances for interaction claiming.
const (
	TreeRootPrefix = "root"
	BoxLidPrefix   = "boxtop"

	TreeReach = 30
	BoxReach  = 10
)

// boxHinge is the lid pivot offset used by the open animation.
var boxHinge = mgl32.Vec3{1, 0, 0}

// planarDistance returns the distance between a and b ignoring height (Y).
func planarDistance(a, b mgl32.Vec3) float32 {
	return mgl32.Vec2{a.X() - b.X(), a.Z() - b.Z()}.Len()
}

// toRGBA premultiplies and quantizes c.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA satisfies color.Color for image fills.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
