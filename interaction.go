package grove

import "github.com/go-gl/mathgl/mgl32"

// UpdateContext is the shared simulation state handed to every node update in
// one Scene.Update pass.
type UpdateContext struct {
	// Frame counts completed update passes, starting at 1 for the first pass.
	Frame uint64
	// Dt is the fixed timestep in seconds.
	Dt float32
	// HasPlayer is false when no player is set; claiming is skipped then.
	HasPlayer bool
	// PlayerPos is the player's position at the start of the pass.
	PlayerPos mgl32.Vec3
	// Target is the interaction tag being resolved. It starts as the
	// player's tag and is written back after the pass.
	Target string
	// SkyAnchor is the point sky planes are positioned around.
	SkyAnchor mgl32.Vec3
}

// claim applies the interaction targeting rule for one candidate:
//
//   - the holder keeps the tag while within reach and releases it otherwise;
//   - a free tag is claimed by a candidate within reach;
//   - a tag held by another node is left alone.
//
// Distance is measured in the XZ plane.
func (ctx *UpdateContext) claim(name string, pos mgl32.Vec3, reach float32) {
	if !ctx.HasPlayer {
		return
	}
	switch ctx.Target {
	case name:
		if planarDistance(ctx.PlayerPos, pos) >= reach {
			ctx.Target = InteractionNone
		}
	case InteractionNone:
		if planarDistance(ctx.PlayerPos, pos) < reach {
			ctx.Target = name
		}
	}
}

// updateTrigger resolves a trigger zone: plain transform plus claiming.
func updateTrigger(n *Node, ctx *UpdateContext) {
	updatePlain(n)
	ctx.claim(n.Name, n.Position, n.reach())
}

// InteractionEvent reports a change of the player's interaction tag.
type InteractionEvent struct {
	Frame uint64
	// From and To are the previous and new tags. Either may be InteractionNone.
	From, To string
	// Node is the handle of the node named To, or NoNode when To is
	// InteractionNone.
	Node NodeID
}

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, interaction events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}
