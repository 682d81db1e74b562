// Package grove is a small retained-mode 3D scene graph for [Ebitengine].
//
// grove owns a flat arena of heterogeneous nodes (plain props, swaying
// trees, opening boxes, skybox planes, walls, trigger zones, and particle
// emitters) and resolves them once per frame in a fixed traversal order.
// Drawing is a separate, read-only pass that projects meshes with [mgl32],
// sorts triangles back to front, and submits them with DrawTriangles.
//
// # Quick start
//
//	scene := grove.NewScene()
//	cam := scene.NewCamera(800, 600)
//	cam.SetView(mgl32.Vec3{0, 2, 10}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
//	// ... add nodes ...
//	grove.Run(scene, cam, grove.RunConfig{Title: "Grove", Width: 800, Height: 600})
//
// For full control, implement [ebiten.Game] yourself and call
// [Scene.Update] and [Scene.Draw] directly.
//
// # Frame protocol
//
// Scene.Update reads input, runs the update func, moves cameras, then calls
// every node's kind-specific update. Nodes are visited in insertion order
// except that tree branches come right after their parent, so a branch
// always composes against its parent's transform from the same frame.
//
// An [UpdateContext] is threaded through the pass. It carries the player's
// position and the interaction tag being resolved: tree roots named
// "root..." and box lids named "boxtop..." claim the tag when the player is
// within reach in the XZ plane, and only the holder can release it. The
// resolved tag is written back to the player after the pass.
//
// # Resources
//
// Geometry, materials, and textures live in a [ResourceTable] and are
// referenced by nodes without ownership. Setup code resolves names through
// [ResourceTable.Instance]; a missing name is a returned error, not a
// panic.
//
// Tweens (via [gween]) animate node fields, and interaction changes can be
// bridged into a [Donburi] world with the ecs subpackage.
//
// [Ebitengine]: https://ebitengine.org
// [mgl32]: https://github.com/go-gl/mathgl
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package grove
