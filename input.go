package grove

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Action is a named player intent bound to one or more keys.
type Action uint8

const (
	ActionForward Action = iota
	ActionBack
	ActionLeft
	ActionRight
	ActionJump
	ActionLookUp
	ActionLookDown
	ActionLookLeft
	ActionLookRight
	ActionInteract
	ActionStart
	ActionVillage
	ActionCastle
	ActionEffect
	ActionEffectAlt
	ActionQuit
	actionCount
)

var actionNames = [actionCount]string{
	"forward", "back", "left", "right", "jump",
	"look_up", "look_down", "look_left", "look_right",
	"interact", "start", "village", "castle", "effect", "effect_alt", "quit",
}

func (a Action) String() string {
	if a < actionCount {
		return actionNames[a]
	}
	return "unknown"
}

// ParseAction returns the action with the given name.
func ParseAction(name string) (Action, error) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// Bindings maps keys to actions. Several keys may share an action.
type Bindings map[ebiten.Key]Action

// DefaultBindings returns the explorer key layout.
func DefaultBindings() Bindings {
	return Bindings{
		ebiten.KeyW:          ActionForward,
		ebiten.KeyS:          ActionBack,
		ebiten.KeyA:          ActionLeft,
		ebiten.KeyD:          ActionRight,
		ebiten.KeySpace:      ActionJump,
		ebiten.KeyArrowUp:    ActionLookUp,
		ebiten.KeyArrowDown:  ActionLookDown,
		ebiten.KeyArrowLeft:  ActionLookLeft,
		ebiten.KeyArrowRight: ActionLookRight,
		ebiten.KeyF:          ActionInteract,
		ebiten.KeyK:          ActionStart,
		ebiten.KeyV:          ActionVillage,
		ebiten.KeyC:          ActionCastle,
		ebiten.KeyE:          ActionEffect,
		ebiten.KeyR:          ActionEffectAlt,
		ebiten.KeyQ:          ActionQuit,
	}
}

// InputState is the per-frame action state, refreshed at the start of every
// Scene.Update.
type InputState struct {
	held    [actionCount]bool
	pressed [actionCount]bool
}

// Held reports whether the action is active this frame.
func (in *InputState) Held(a Action) bool {
	return a < actionCount && in.held[a]
}

// JustPressed reports whether the action became active this frame.
func (in *InputState) JustPressed(a Action) bool {
	return a < actionCount && in.pressed[a]
}

func (in *InputState) reset() {
	in.held = [actionCount]bool{}
	in.pressed = [actionCount]bool{}
}

// SetBindings replaces the key bindings. Nil restores DefaultBindings.
func (s *Scene) SetBindings(b Bindings) {
	if b == nil {
		b = DefaultBindings()
	}
	s.bindings = b
}

// Input returns the action state of the current frame.
func (s *Scene) Input() *InputState {
	return &s.input
}

// processInput reads the keyboard through the bindings, then merges one
// frame of injected actions on top.
func (s *Scene) processInput() {
	s.input.reset()
	for key, a := range s.bindings {
		if ebiten.IsKeyPressed(key) {
			s.input.held[a] = true
		}
		if inpututil.IsKeyJustPressed(key) {
			s.input.pressed[a] = true
		}
	}
	s.processInjectedInput()
}
