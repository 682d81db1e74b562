package grove

import (
	"github.com/go-gl/mathgl/mgl32"
)

// NodeID is a handle into a Scene's node arena. Handles stay valid for the
// lifetime of the scene because nodes are never removed during play.
type NodeID int32

// NoNode is the zero handle: no parent, no player, not yet added.
const NoNode NodeID = -1

// Node is the fundamental scene graph element. A single flat struct is used for
// all node kinds; Kind selects the per-frame update behavior.
type Node struct {
	// Identity
	ID   NodeID
	Name string
	Kind NodeKind

	// Transform (local)
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	Scale       mgl32.Vec3

	// Computed during Scene.Update
	world     mgl32.Mat4
	rotations int // delta rotations since the last renormalization

	// Resources (non-owning; the ResourceTable owns them)
	Geometry *Resource
	Material *Resource
	Texture  *Resource

	// Rendering
	Visible     bool
	Color       Color
	RenderLayer uint8

	// Interaction is the node's interaction tag. Only the player's tag is
	// shared across the graph; see Scene.SetPlayer.
	Interaction string
	// Reach overrides the claiming distance. Zero uses the kind default.
	Reach float32

	// Tree fields (NodeKindTree)
	parent   NodeID
	children []NodeID
	wind     mgl32.Vec3
	Pivot    mgl32.Vec3 // point a branch swings about, relative to its origin
	phase    int

	// Box fields (NodeKindBox)
	boxState BoxState
	boxPhase int

	// Sky and wall fields
	Offset mgl32.Vec3 // sky: position relative to the sky anchor
	Angle  float32    // wall: yaw of the wall plane in radians

	// Emitter fields (NodeKindEmitter)
	Emitter *ParticleEmitter

	// Metadata
	UserData any

	scene *Scene
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = NoNode
	n.Orientation = mgl32.QuatIdent()
	n.Scale = mgl32.Vec3{1, 1, 1}
	n.world = mgl32.Ident4()
	n.Visible = true
	n.Color = ColorWhite
	n.Interaction = InteractionNone
	n.parent = NoNode
}

func newNode(name string, kind NodeKind, geometry, material, texture *Resource) *Node {
	n := &Node{
		Name:     name,
		Kind:     kind,
		Geometry: geometry,
		Material: material,
		Texture:  texture,
	}
	nodeDefaults(n)
	return n
}

// NewNode creates a plain node. texture may be nil.
func NewNode(name string, geometry, material, texture *Resource) *Node {
	return newNode(name, NodeKindPlain, geometry, material, texture)
}

// NewTree creates a tree node. It is a root until attached to a parent with
// Scene.Attach.
func NewTree(name string, geometry, material, texture *Resource) *Node {
	return newNode(name, NodeKindTree, geometry, material, texture)
}

// NewBox creates a closed box node.
func NewBox(name string, geometry, material, texture *Resource) *Node {
	return newNode(name, NodeKindBox, geometry, material, texture)
}

// NewSky creates a skybox plane. Offset places it relative to the sky anchor.
func NewSky(name string, geometry, material, texture *Resource, offset mgl32.Vec3) *Node {
	n := newNode(name, NodeKindSky, geometry, material, texture)
	n.Offset = offset
	n.RenderLayer = 0
	return n
}

// NewWall creates a wall node.
func NewWall(name string, geometry, material, texture *Resource) *Node {
	n := newNode(name, NodeKindWall, geometry, material, texture)
	n.RenderLayer = 1
	return n
}

// NewTrigger creates an invisible interaction zone that claims the player's
// interaction tag within reach.
func NewTrigger(name string, reach float32) *Node {
	n := newNode(name, NodeKindTrigger, nil, nil, nil)
	n.Visible = false
	n.Reach = reach
	return n
}

// --- Transform property setters ---

// SetPosition sets the node's local position.
func (n *Node) SetPosition(p mgl32.Vec3) {
	n.Position = p
}

// Translate moves the node by delta.
func (n *Node) Translate(delta mgl32.Vec3) {
	n.Position = n.Position.Add(delta)
}

// SetOrientation replaces the node's orientation.
func (n *Node) SetOrientation(q mgl32.Quat) {
	n.Orientation = q.Normalize()
	n.rotations = 0
}

// Rotate composes a delta rotation onto the orientation. Orientation
// integrates over time; it is renormalized every renormalizeEvery calls.
func (n *Node) Rotate(q mgl32.Quat) {
	n.Orientation = n.Orientation.Mul(q)
	n.rotations++
	if n.rotations >= renormalizeEvery {
		n.Orientation = n.Orientation.Normalize()
		n.rotations = 0
	}
}

// SetScale sets the node's scale.
func (n *Node) SetScale(s mgl32.Vec3) {
	n.Scale = s
}

// ScaleBy multiplies the node's scale component-wise.
func (n *Node) ScaleBy(s mgl32.Vec3) {
	n.Scale = mgl32.Vec3{n.Scale.X() * s.X(), n.Scale.Y() * s.Y(), n.Scale.Z() * s.Z()}
}

// SetTexture swaps the node's texture reference.
func (n *Node) SetTexture(tex *Resource) {
	n.Texture = tex
}

// WorldTransform returns the transform resolved by the last Scene.Update.
func (n *Node) WorldTransform() mgl32.Mat4 {
	return n.world
}

// WorldPosition returns the translation part of the world transform.
func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.world.Col(3).Vec3()
}

// Scene returns the scene graph that owns this node, or nil.
func (n *Node) Scene() *Scene {
	return n.scene
}

// --- Tree accessors ---

// Parent returns the handle of the parent tree node, or NoNode for roots.
func (n *Node) Parent() NodeID {
	return n.parent
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool {
	return n.parent == NoNode
}

// Children returns the child handles. The returned slice MUST NOT be mutated.
func (n *Node) Children() []NodeID {
	return n.children
}

// Wind returns the node's wind vector.
func (n *Node) Wind() mgl32.Vec3 {
	return n.wind
}

// Phase returns the sway phase counter, always in [0, SwayPeriod).
func (n *Node) Phase() int {
	return n.phase
}

// reach returns the claiming distance for interactive nodes.
func (n *Node) reach() float32 {
	if n.Reach > 0 {
		return n.Reach
	}
	switch n.Kind {
	case NodeKindTree:
		return TreeReach
	case NodeKindBox:
		return BoxReach
	}
	return 0
}
