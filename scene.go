package grove

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

const defaultTriangleCap = 4096

// Scene owns the node arena, the update order, cameras, input state, and
// render buffers. Nodes are added during setup and never removed.
type Scene struct {
	nodes      []*Node
	byName     map[string]NodeID
	order      []NodeID // traversal order: insertion order, parents before branches
	orderDirty bool

	player     NodeID
	skyAnchor  mgl32.Vec3
	skyCamera  *Camera
	frame      uint64
	updateFunc func() error

	store         EntityStore
	onInteraction func(InteractionEvent)
	debug         bool

	// Cameras
	cameras []*Camera

	// Render state
	ClearColor Color
	light      *Light
	tris       []triangle
	sortBuf    []triangle
	clip       []mgl32.Vec4
	batchVerts []ebiten.Vertex
	batchInds  []uint32
	offscreen  *RenderTexture
	rtPool     renderTexturePool
	hud        *hud

	// Input state
	bindings    Bindings
	input       InputState
	injectQueue []injectedFrame

	// Testing and capture
	testRunner      *TestRunner
	screenshotQueue []string
	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string
}

// NewScene creates an empty scene with the default key bindings.
func NewScene() *Scene {
	return &Scene{
		byName:        make(map[string]NodeID),
		player:        NoNode,
		ClearColor:    Color{0.5, 0.5, 0.5, 1},
		tris:          make([]triangle, 0, defaultTriangleCap),
		sortBuf:       make([]triangle, 0, defaultTriangleCap),
		bindings:      DefaultBindings(),
		ScreenshotDir: "screenshots",
	}
}

// AddNode takes ownership of n, assigns its handle, and appends it to the
// traversal order. Names must be non-empty and unique.
func (s *Scene) AddNode(n *Node) error {
	if n.Name == "" {
		return fmt.Errorf("add node: %w", ErrEmptyName)
	}
	if _, ok := s.byName[n.Name]; ok {
		return fmt.Errorf("add node %q: %w", n.Name, ErrDuplicateNode)
	}
	if n.scene != nil {
		panic(fmt.Sprintf("grove: node %q already belongs to a scene", n.Name))
	}
	n.ID = NodeID(len(s.nodes))
	n.scene = s
	s.nodes = append(s.nodes, n)
	s.byName[n.Name] = n.ID
	s.orderDirty = true
	return nil
}

// Node returns the node with the given name.
func (s *Scene) Node(name string) (*Node, bool) {
	id, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return s.nodes[id], true
}

// MustNode returns the node with the given name and panics if there is none.
// Use it for nodes the setup code is known to have created.
func (s *Scene) MustNode(name string) *Node {
	n, ok := s.Node(name)
	if !ok {
		panic(fmt.Sprintf("grove: no node named %q", name))
	}
	return n
}

// NodeByID returns the node for a handle, or nil for NoNode and unknown
// handles.
func (s *Scene) NodeByID(id NodeID) *Node {
	if id < 0 || int(id) >= len(s.nodes) {
		return nil
	}
	return s.nodes[id]
}

// Nodes returns all nodes in insertion order. The returned slice MUST NOT be mutated.
func (s *Scene) Nodes() []*Node {
	return s.nodes
}

// Len returns the number of nodes.
func (s *Scene) Len() int {
	return len(s.nodes)
}

// Frame returns the number of completed Update passes.
func (s *Scene) Frame() uint64 {
	return s.frame
}

// SetPlayer designates the node whose interaction tag is shared with the
// rest of the graph and whose position drives claiming. Pass nil to clear.
func (s *Scene) SetPlayer(n *Node) {
	if n == nil {
		s.player = NoNode
		return
	}
	if n.scene != s {
		panic(fmt.Sprintf("grove: player %q is not owned by this scene", n.Name))
	}
	s.player = n.ID
}

// Player returns the player node, or nil.
func (s *Scene) Player() *Node {
	return s.NodeByID(s.player)
}

// Interaction returns the player's interaction tag, or InteractionNone
// without a player.
func (s *Scene) Interaction() string {
	if p := s.Player(); p != nil {
		return p.Interaction
	}
	return InteractionNone
}

// SetSkyAnchor sets the point sky planes are kept around.
func (s *Scene) SetSkyAnchor(p mgl32.Vec3) {
	s.skyAnchor = p
}

// AnchorSkyTo makes the sky follow cam: each Update sets the sky anchor to
// the camera position after cameras move. Pass nil to stop.
func (s *Scene) AnchorSkyTo(cam *Camera) {
	s.skyCamera = cam
}

// SkyAnchor returns the current sky anchor.
func (s *Scene) SkyAnchor() mgl32.Vec3 {
	return s.skyAnchor
}

// SetLight sets the light used for shading. Nil disables lighting.
func (s *Scene) SetLight(l *Light) {
	s.light = l
}

// Light returns the scene light.
func (s *Scene) Light() *Light {
	return s.light
}

// SetUpdateFunc registers game logic that runs every Update after input is
// read and before cameras and nodes are updated. A non-nil error stops the
// game loop when running under Run.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// OnInteractionChange registers a callback invoked when the player's
// interaction tag changes.
func (s *Scene) OnInteractionChange(fn func(InteractionEvent)) {
	s.onInteraction = fn
}

// SetDebugMode enables or disables debug mode. When enabled, tree depth
// warnings are printed and per-frame timing stats are logged to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// NewCamera creates a camera with the given viewport size and adds it to the
// scene so it is updated every frame.
func (s *Scene) NewCamera(width, height int) *Camera {
	cam := newCamera(width, height)
	s.cameras = append(s.cameras, cam)
	return cam
}

// RemoveCamera removes a camera from the scene.
func (s *Scene) RemoveCamera(cam *Camera) {
	for i, c := range s.cameras {
		if c == cam {
			s.cameras = append(s.cameras[:i], s.cameras[i+1:]...)
			return
		}
	}
}

// Cameras returns the scene's camera list. The returned slice MUST NOT be mutated.
func (s *Scene) Cameras() []*Camera {
	return s.cameras
}

// Update runs one frame: scripted and keyboard input, game logic, cameras,
// then one transform pass over every node in traversal order. Tree branches
// are resolved against their parent's transform from this same pass.
func (s *Scene) Update() error {
	dt := float32(1.0 / float64(ebiten.TPS()))

	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.processInput()

	if s.updateFunc != nil {
		if err := s.updateFunc(); err != nil {
			return err
		}
	}

	for _, cam := range s.cameras {
		cam.update(dt)
	}
	if s.skyCamera != nil {
		s.skyAnchor = s.skyCamera.Position
	}

	s.updateNodes(dt)
	return nil
}

// updateNodes is the transform pass.
func (s *Scene) updateNodes(dt float32) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	if s.orderDirty {
		s.rebuildOrder()
	}
	s.frame++

	ctx := UpdateContext{
		Frame:     s.frame,
		Dt:        dt,
		Target:    InteractionNone,
		SkyAnchor: s.skyAnchor,
	}
	player := s.Player()
	if player != nil {
		ctx.HasPlayer = true
		ctx.PlayerPos = player.Position
		ctx.Target = player.Interaction
	}
	prev := ctx.Target

	for _, id := range s.order {
		s.updateNode(s.nodes[id], &ctx)
	}

	if player != nil {
		player.Interaction = ctx.Target
		if ctx.Target != prev {
			s.emitInteraction(InteractionEvent{
				Frame: s.frame,
				From:  prev,
				To:    ctx.Target,
				Node:  s.nodeIDByName(ctx.Target),
			})
		}
	}

	if s.debug {
		s.debugLogUpdate(time.Since(t0), len(s.order))
	}
}

// updateNode dispatches on the node kind.
func (s *Scene) updateNode(n *Node, ctx *UpdateContext) {
	switch n.Kind {
	case NodeKindTree:
		s.updateTree(n, ctx)
	case NodeKindBox:
		updateBox(n, ctx)
	case NodeKindSky:
		updateSky(n, ctx)
	case NodeKindTrigger:
		updateTrigger(n, ctx)
	case NodeKindEmitter:
		updateEmitter(n, ctx)
	default:
		// Plain and wall nodes.
		updatePlain(n)
	}
}

func (s *Scene) nodeIDByName(name string) NodeID {
	if id, ok := s.byName[name]; ok {
		return id
	}
	return NoNode
}

func (s *Scene) emitInteraction(ev InteractionEvent) {
	if s.onInteraction != nil {
		s.onInteraction(ev)
	}
	if s.store != nil {
		s.store.EmitEvent(ev)
	}
}

// rebuildOrder computes the stable topological traversal order: nodes keep
// their insertion order, except that a tree branch is visited right after
// its parent (recursively, children in attachment order).
func (s *Scene) rebuildOrder() {
	s.order = s.order[:0]
	for _, n := range s.nodes {
		if n.parent != NoNode {
			continue
		}
		s.appendSubtree(n)
	}
	s.orderDirty = false
}

func (s *Scene) appendSubtree(n *Node) {
	s.order = append(s.order, n.ID)
	for _, id := range n.children {
		s.appendSubtree(s.nodes[id])
	}
}

// Order returns the current traversal order, rebuilding it if needed. The
// returned slice MUST NOT be mutated.
func (s *Scene) Order() []NodeID {
	if s.orderDirty {
		s.rebuildOrder()
	}
	return s.order
}
