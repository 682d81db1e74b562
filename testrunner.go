package grove

import (
	"encoding/json"
	"fmt"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string   `json:"action"`
	Label  string   `json:"label,omitempty"`
	Inputs []string `json:"inputs,omitempty"`
	Frames int      `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected actions and screenshots across frames for
// automated playback. Attach to a Scene via SetTestRunner.
//
// Script actions:
//
//	{"action": "press", "inputs": ["start"]}
//	{"action": "hold", "inputs": ["forward", "look_left"], "frames": 30}
//	{"action": "wait", "frames": 10}
//	{"action": "screenshot", "label": "at-tree"}
type TestRunner struct {
	steps     []testStep
	inputs    [][]Action
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Scene via SetTestRunner. Unknown actions and input
// names are rejected here rather than at playback.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	r := &TestRunner{steps: script.Steps, inputs: make([][]Action, len(script.Steps))}
	for i, st := range script.Steps {
		switch st.Action {
		case "press", "hold":
			if len(st.Inputs) == 0 {
				return nil, fmt.Errorf("parse test script: step %d: %s needs inputs", i, st.Action)
			}
			for _, name := range st.Inputs {
				a, err := ParseAction(name)
				if err != nil {
					return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
				}
				r.inputs[i] = append(r.inputs[i], a)
			}
		case "wait", "screenshot":
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return r, nil
}

// SetTestRunner attaches a TestRunner to the scene. The runner's step method
// is called from Scene.Update before processInput each frame.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the test runner by one frame. Called from Scene.Update.
func (r *TestRunner) step(s *Scene) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	inputs := r.inputs[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "press":
		s.InjectPress(inputs...)
	case "hold":
		s.InjectHold(st.Frames, inputs...)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}
