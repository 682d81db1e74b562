package grove

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// updateSky keeps a sky plane at its offset from the sky anchor.
func updateSky(n *Node, ctx *UpdateContext) {
	n.Position = ctx.SkyAnchor.Add(n.Offset)
	updatePlain(n)
}

// SkyFace names one plane of a skybox.
type SkyFace uint8

const (
	SkyFront SkyFace = iota
	SkyBack
	SkyLeft
	SkyRight
	SkyTop
	SkyBottom
)

var skyFaceNames = [...]string{"front", "back", "left", "right", "top", "bottom"}

func (f SkyFace) String() string {
	if int(f) < len(skyFaceNames) {
		return skyFaceNames[f]
	}
	return "unknown"
}

// SkyFaces lists all faces in creation order.
var SkyFaces = [6]SkyFace{SkyFront, SkyBack, SkyLeft, SkyRight, SkyTop, SkyBottom}

// skyPlacement returns the offset from the anchor and the orientation that
// turns a unit quad in the XY plane into the given face.
func skyPlacement(f SkyFace) (mgl32.Vec3, mgl32.Quat) {
	up := mgl32.Vec3{0, 1, 0}
	switch f {
	case SkyFront:
		return mgl32.Vec3{0, 0, -1}, mgl32.QuatRotate(math.Pi, up)
	case SkyBack:
		return mgl32.Vec3{0, 0, 1}, mgl32.QuatIdent()
	case SkyLeft:
		return mgl32.Vec3{1, 0, 0}, mgl32.QuatRotate(math.Pi/2, up)
	case SkyRight:
		return mgl32.Vec3{-1, 0, 0}, mgl32.QuatRotate(-math.Pi/2, up)
	case SkyTop:
		q := mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{1, 0, 0})
		return mgl32.Vec3{0, 1, 0}, q.Mul(mgl32.QuatRotate(math.Pi, up))
	default:
		q := mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{1, 0, 0})
		return mgl32.Vec3{0, -1, 0}, q.Mul(mgl32.QuatRotate(math.Pi, mgl32.Vec3{0, 0, 1}))
	}
}

// Skybox is the set of six sky planes plus the textures of each visual
// state.
type Skybox struct {
	faces  [6]*Node
	states map[string][6]*Resource
	state  string
}

// NewSkybox creates six sky planes named after their faces (prefix + face)
// and adds them to the scene. textures gives the initial texture per face.
func NewSkybox(s *Scene, prefix string, geometry, material *Resource, state string, textures [6]*Resource) (*Skybox, error) {
	sb := &Skybox{states: map[string][6]*Resource{state: textures}, state: state}
	for i, f := range SkyFaces {
		offset, q := skyPlacement(f)
		n := NewSky(prefix+f.String(), geometry, material, textures[i], offset)
		n.Orientation = q
		if err := s.AddNode(n); err != nil {
			return nil, err
		}
		sb.faces[i] = n
	}
	return sb, nil
}

// AddState registers the textures of another visual state.
func (sb *Skybox) AddState(state string, textures [6]*Resource) {
	sb.states[state] = textures
}

// SetState swaps every face's texture to the named state. Returns false if
// the state is unknown.
func (sb *Skybox) SetState(state string) bool {
	textures, ok := sb.states[state]
	if !ok {
		return false
	}
	for i, n := range sb.faces {
		n.SetTexture(textures[i])
	}
	sb.state = state
	return true
}

// State returns the current visual state.
func (sb *Skybox) State() string {
	return sb.state
}

// Face returns the node of one face.
func (sb *Skybox) Face(f SkyFace) *Node {
	return sb.faces[f]
}
