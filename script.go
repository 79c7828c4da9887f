package grove

import (
	"encoding/json"
	"errors"
	"fmt"
)

// scriptStep is one action of an interaction script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Delta  float64 `json:"delta,omitempty"`
}

type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

var scriptActions = map[string]bool{
	"hover": true, "click": true, "drag": true, "wheel": true, "wait": true, "screenshot": true,
}

// Script replays pointer actions and screenshots across frames. Steps run
// one per frame once the previous step's injected events have drained.
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON interaction script.
func LoadScript(data []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, errors.New("parse script: no steps")
	}
	for i, st := range f.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// Done reports whether every step has run.
func (s *Script) Done() bool {
	return s.done
}

// SetScript attaches a script that Step advances each frame.
func (e *Engine) SetScript(s *Script) {
	e.script = s
}

func (s *Script) step(e *Engine) {
	if s.done {
		return
	}
	p := e.pointer
	if p.Pending() > 0 {
		return
	}
	if s.waitCount > 0 {
		s.waitCount--
		return
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return
	}

	st := s.steps[s.cursor]
	s.cursor++
	switch st.Action {
	case "screenshot":
		e.Screenshot(st.Label)
	case "hover":
		p.InjectMove(st.X, st.Y)
	case "click":
		p.InjectClick(st.X, st.Y)
	case "drag":
		p.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "wheel":
		p.InjectWheel(st.Delta)
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1
		}
	}

	if s.cursor >= len(s.steps) && s.waitCount == 0 && p.Pending() == 0 {
		s.done = true
	}
}
