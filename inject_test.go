package grove

import "testing"

func TestInjectPress(t *testing.T) {
	s := NewScene()
	s.InjectPress(ActionInteract)
	if s.PendingInjections() != 1 {
		t.Fatalf("pending = %d, want 1", s.PendingInjections())
	}

	s.processInput()
	in := s.Input()
	if !in.Held(ActionInteract) || !in.JustPressed(ActionInteract) {
		t.Error("press frame should report held and just pressed")
	}
	if s.PendingInjections() != 0 {
		t.Errorf("pending = %d after drain", s.PendingInjections())
	}

	s.processInput()
	if in.Held(ActionInteract) {
		t.Error("press should last one frame")
	}
}

func TestInjectHold(t *testing.T) {
	s := NewScene()
	s.InjectHold(3, ActionForward, ActionLookLeft)
	if s.PendingInjections() != 3 {
		t.Fatalf("pending = %d, want 3", s.PendingInjections())
	}

	for i := 0; i < 3; i++ {
		s.processInput()
		in := s.Input()
		if !in.Held(ActionForward) || !in.Held(ActionLookLeft) {
			t.Errorf("frame %d: actions not held", i)
		}
		if in.JustPressed(ActionForward) != (i == 0) {
			t.Errorf("frame %d: JustPressed = %v", i, in.JustPressed(ActionForward))
		}
	}
	s.processInput()
	if s.Input().Held(ActionForward) {
		t.Error("hold outlasted its frames")
	}
}

func TestInjectQueuesSequentially(t *testing.T) {
	s := NewScene()
	s.InjectPress(ActionStart)
	s.InjectWait(2)
	s.InjectPress(ActionJump)
	if s.PendingInjections() != 4 {
		t.Fatalf("pending = %d, want 4", s.PendingInjections())
	}

	var jumps []int
	for i := 0; i < 4; i++ {
		s.processInput()
		if s.Input().JustPressed(ActionJump) {
			jumps = append(jumps, i)
		}
		if i == 0 && !s.Input().JustPressed(ActionStart) {
			t.Error("start not pressed on the first frame")
		}
	}
	if len(jumps) != 1 || jumps[0] != 3 {
		t.Errorf("jump frames = %v, want [3]", jumps)
	}
}

func TestInjectHoldMinimumFrame(t *testing.T) {
	s := NewScene()
	s.InjectHold(0, ActionJump)
	if s.PendingInjections() != 1 {
		t.Errorf("pending = %d, want 1", s.PendingInjections())
	}
}
