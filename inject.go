package grove

// injectedFrame is one frame of synthetic input.
type injectedFrame struct {
	actions []Action
	pressed bool // first frame of a hold
}

// InjectPress queues a single-frame press of the given actions. The frame is
// consumed on the next processInput call.
func (s *Scene) InjectPress(actions ...Action) {
	s.InjectHold(1, actions...)
}

// InjectHold queues the actions as held together for frames consecutive
// frames, after anything already queued. The first frame also reports them
// as just pressed. Minimum frames is 1.
func (s *Scene) InjectHold(frames int, actions ...Action) {
	if frames < 1 {
		frames = 1
	}
	for i := 0; i < frames; i++ {
		s.injectQueue = append(s.injectQueue, injectedFrame{actions: actions, pressed: i == 0})
	}
}

// InjectWait queues frames with no synthetic input. Keyboard input is still
// read while they drain.
func (s *Scene) InjectWait(frames int) {
	for i := 0; i < frames; i++ {
		s.injectQueue = append(s.injectQueue, injectedFrame{})
	}
}

// PendingInjections returns the number of queued synthetic frames.
func (s *Scene) PendingInjections() int {
	return len(s.injectQueue)
}

// processInjectedInput pops one frame from the inject queue and merges it
// into the input state. Returns true if a frame was consumed.
func (s *Scene) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	frame := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	for _, a := range frame.actions {
		if a >= actionCount {
			continue
		}
		s.input.held[a] = true
		if frame.pressed {
			s.input.pressed[a] = true
		}
	}
	return true
}
