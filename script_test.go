package grove

import (
	"strings"
	"testing"
)

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name, src, want string
	}{
		{"malformed", `{"steps": [`, "parse script"},
		{"empty", `{"steps": []}`, "no steps"},
		{"unknown action", `{"steps": [{"action": "hover"}, {"action": "jump"}]}`, `step 1: unknown action "jump"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScript([]byte(tt.src))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestScriptDrivesPointer(t *testing.T) {
	s, err := LoadScript([]byte(`{"steps": [
		{"action": "hover", "x": 10, "y": 10},
		{"action": "click", "x": 20, "y": 20},
		{"action": "wait", "frames": 2},
		{"action": "screenshot", "label": "after"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	e := newTestEngine(t)
	moves, clicks := 0, 0
	e.Pointer().On(EventPointerMove, func(PointerEvent) { moves++ })
	e.Pointer().On(EventClick, func(PointerEvent) { clicks++ })
	e.SetScript(s)

	for i := 0; i < 20 && !s.Done(); i++ {
		e.Step(defaultFrameStep)
	}
	if !s.Done() {
		t.Fatal("script did not finish")
	}
	if moves != 1 || clicks != 1 {
		t.Errorf("moves = %d, clicks = %d, want 1 and 1", moves, clicks)
	}
	if e.PendingScreenshots() != 1 {
		t.Errorf("PendingScreenshots = %d, want 1", e.PendingScreenshots())
	}
}
