// Package input holds the per-scene input snapshot shared between the active
// renderer, which writes it, and behaviors, which read it.
package input

import "github.com/go-gl/mathgl/mgl32"

// Action is a logical control independent of the device that produced it.
type Action uint8

const (
	ActionNone Action = iota
	ActionLeft
	ActionRight
	ActionForward
	ActionBack
	ActionJump
	ActionQuit
)

var actionNames = [...]string{"none", "left", "right", "forward", "back", "jump", "quit"}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// State is stored as a registry singleton.
type State struct {
	// Move is the requested direction on the XZ plane, each axis in [-1, 1].
	Move mgl32.Vec3
	Jump bool
	Quit bool
	// Captured is set when a debug overlay owns the keyboard. Behaviors should
	// treat the state as empty while it is set.
	Captured bool
}

// Reset clears per-tick actions. Quit is sticky.
func (s *State) Reset() {
	s.Move = mgl32.Vec3{}
	s.Jump = false
	s.Captured = false
}

// Press records one action for the current tick.
func (s *State) Press(a Action) {
	switch a {
	case ActionLeft:
		s.Move[0] = -1
	case ActionRight:
		s.Move[0] = 1
	case ActionForward:
		s.Move[2] = -1
	case ActionBack:
		s.Move[2] = 1
	case ActionJump:
		s.Jump = true
	case ActionQuit:
		s.Quit = true
	}
}

// Active reports whether any movement or jump is requested and input is not captured.
func (s *State) Active() bool {
	if s.Captured {
		return false
	}
	return s.Jump || s.Move.Len() > 0
}

// Direction returns Move normalized, or zero when captured or idle.
func (s *State) Direction() mgl32.Vec3 {
	if s.Captured || s.Move.Len() == 0 {
		return mgl32.Vec3{}
	}
	return s.Move.Normalize()
}
