package grove

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// BoxState is the lid animation state of a box node.
type BoxState uint8

const (
	BoxClosed  BoxState = iota // transform follows position and orientation
	BoxOpening                 // lid rotating about its hinge
	BoxOpen                    // terminal; transform frozen
)

var boxStateNames = [...]string{"closed", "opening", "open"}

func (s BoxState) String() string {
	if int(s) < len(boxStateNames) {
		return boxStateNames[s]
	}
	return "unknown"
}

// BoxState returns the box's lid state.
func (n *Node) BoxState() BoxState {
	return n.boxState
}

// SetOpen starts the open animation of a closed box. Boxes never close once
// opened, so SetOpen(false) is a no-op.
func (n *Node) SetOpen(open bool) {
	if open && n.boxState == BoxClosed {
		n.boxState = BoxOpening
	}
}

// IsOpen reports whether the box has started or finished opening.
func (n *Node) IsOpen() bool {
	return n.boxState != BoxClosed
}

// updateBox runs the lid state machine. Lids named with BoxLidPrefix claim
// the interaction tag first, as in the other interactive kinds.
func updateBox(n *Node, ctx *UpdateContext) {
	if strings.HasPrefix(n.Name, BoxLidPrefix) {
		ctx.claim(n.Name, n.Position, n.reach())
	}

	switch n.boxState {
	case BoxClosed:
		n.world = composeTR(n.Position, n.Orientation)
	case BoxOpening:
		n.boxPhase++
		n.Rotate(mgl32.QuatRotate(BoxOpenStep, mgl32.Vec3{0, 1, 0}))
		n.world = orbitTransform(n.Position, boxHinge, n.Orientation)
		if n.boxPhase >= BoxOpenFrames {
			n.boxState = BoxOpen
		}
	case BoxOpen:
		// Hold the last transform.
	}
}
