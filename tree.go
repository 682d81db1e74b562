package grove

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// swaySign advances the node's sway phase and returns the direction of this
// update's sway: +1 for the first half of the cycle, -1 for the second.
func (n *Node) swaySign() float32 {
	sign := float32(1)
	if n.phase >= SwayPeriod/2 {
		sign = -1
	}
	n.phase++
	if n.phase >= SwayPeriod {
		n.phase = 0
	}
	return sign
}

// updateTree resolves a tree node. Roots use the plain transform. Branches
// sway about the wind axis and orbit their pivot relative to the parent's
// transform, which the traversal order guarantees was resolved earlier in the
// same pass.
func (s *Scene) updateTree(n *Node, ctx *UpdateContext) {
	sign := n.swaySign()
	if n.parent == NoNode {
		updatePlain(n)
		if strings.HasPrefix(n.Name, TreeRootPrefix) {
			ctx.claim(n.Name, n.Position, n.reach())
		}
		return
	}

	if q, ok := axisRotation(sign*SwayStep, n.wind); ok {
		n.Rotate(q)
	}
	parent := s.nodes[n.parent]
	n.world = parent.world.Mul4(orbitTransform(n.Position, n.Pivot, n.Orientation))
}

// SetWind sets the wind vector on n and, before that, on every descendant.
func (s *Scene) SetWind(n *Node, wind mgl32.Vec3) {
	for _, id := range n.children {
		s.SetWind(s.nodes[id], wind)
	}
	n.wind = wind
}

// Attach makes child a branch of parent. Both must be tree nodes owned by
// this scene. Panics if child already has a parent or the link would create
// a cycle.
func (s *Scene) Attach(parent, child *Node) {
	if parent == nil || child == nil {
		panic("grove: cannot attach nil tree node")
	}
	if parent.scene != s || child.scene != s {
		panic("grove: attach requires nodes owned by this scene")
	}
	if parent.Kind != NodeKindTree || child.Kind != NodeKindTree {
		panic(fmt.Sprintf("grove: attach %q to %q: both nodes must be trees", child.Name, parent.Name))
	}
	if child.parent != NoNode {
		panic(fmt.Sprintf("grove: tree node %q already has a parent", child.Name))
	}
	for p := parent; p != nil; p = s.parentOf(p) {
		if p == child {
			panic("grove: attaching tree node would create a cycle")
		}
	}
	child.parent = parent.ID
	parent.children = append(parent.children, child.ID)
	s.orderDirty = true
	if s.debug {
		debugCheckTreeDepth(s, child)
	}
}

// ParentOf returns the parent tree node of n, or nil for roots.
func (s *Scene) ParentOf(n *Node) *Node {
	return s.parentOf(n)
}

func (s *Scene) parentOf(n *Node) *Node {
	if n.parent == NoNode {
		return nil
	}
	return s.nodes[n.parent]
}

// ChildrenOf returns the child tree nodes of n in attachment order.
func (s *Scene) ChildrenOf(n *Node) []*Node {
	out := make([]*Node, len(n.children))
	for i, id := range n.children {
		out[i] = s.nodes[id]
	}
	return out
}

// WalkTree calls fn for n and every descendant, parents before children.
func (s *Scene) WalkTree(n *Node, fn func(*Node)) {
	fn(n)
	for _, id := range n.children {
		s.WalkTree(s.nodes[id], fn)
	}
}

// TreeResources are the shared resources every node of a grown tree uses.
type TreeResources struct {
	Geometry *Resource
	Material *Resource
	Texture  *Resource
}

// GrowTree creates a root tree node named name at position and grows depth
// levels of branches beneath it. Each branch spawns four half-scale branches
// tilted 45 degrees outward. Branch names are "<name>.b<index>". All nodes
// are added to the scene; the first error stops growth.
func GrowTree(s *Scene, name string, position mgl32.Vec3, depth int, res TreeResources) (*Node, error) {
	root := NewTree(name, res.Geometry, res.Material, res.Texture)
	root.Position = position
	if err := s.AddNode(root); err != nil {
		return nil, err
	}
	g := treeGrower{scene: s, base: name, res: res}
	if err := g.grow(root, depth); err != nil {
		return nil, err
	}
	return root, nil
}

type treeGrower struct {
	scene *Scene
	base  string
	res   TreeResources
	count int
}

// branchLayout describes one of the four branches spawned per level.
type branchLayout struct {
	x, z float32    // horizontal offset in units of the branch scale
	axis mgl32.Vec3 // tilt axis
	tilt float32    // tilt angle in radians
}

var branchLayouts = [4]branchLayout{
	{x: 0, z: 4, axis: mgl32.Vec3{1, 0, 0}, tilt: math.Pi / 4},
	{x: 0, z: -4, axis: mgl32.Vec3{1, 0, 0}, tilt: -math.Pi / 4},
	{x: -4, z: 0, axis: mgl32.Vec3{0, 0, 1}, tilt: math.Pi / 4},
	{x: 4, z: 0, axis: mgl32.Vec3{0, 0, 1}, tilt: -math.Pi / 4},
}

func (g *treeGrower) grow(parent *Node, levels int) error {
	if levels <= 0 {
		return nil
	}
	scale := parent.Scale.X() / 2
	for _, l := range branchLayouts {
		g.count++
		b := NewTree(fmt.Sprintf("%s.b%d", g.base, g.count), g.res.Geometry, g.res.Material, g.res.Texture)
		b.Scale = mgl32.Vec3{scale, scale, scale}
		b.Position = mgl32.Vec3{l.x * scale, 12 * scale, l.z * scale}
		b.Orientation = mgl32.QuatRotate(l.tilt, l.axis)
		b.Pivot = mgl32.Vec3{0, 4 * scale, 0}
		if err := g.scene.AddNode(b); err != nil {
			return fmt.Errorf("grow %s: %w", g.base, err)
		}
		g.scene.Attach(parent, b)
		if err := g.grow(b, levels-1); err != nil {
			return err
		}
	}
	return nil
}
