package grove

import (
	"testing"
)

// recorder collects every pointer event type fired by an input.
type recorder struct {
	events []PointerEvent
}

func record(p *PointerInput) *recorder {
	r := &recorder{}
	for _, et := range []EventType{EventPointerDown, EventPointerUp, EventPointerMove, EventClick, EventDrag, EventWheel} {
		p.On(et, func(ev PointerEvent) { r.events = append(r.events, ev) })
	}
	return r
}

func (r *recorder) types() []EventType {
	out := make([]EventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

func (r *recorder) count(et EventType) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == et {
			n++
		}
	}
	return n
}

func drain(p *PointerInput) {
	for p.Pending() > 0 {
		p.Update(false)
	}
}

func equalTypes(a, b []EventType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPointerClick(t *testing.T) {
	p := NewPointerInput()
	r := record(p)
	p.InjectClick(100, 50)
	if p.Pending() != 2 {
		t.Fatalf("Pending = %d, want 2", p.Pending())
	}
	drain(p)

	want := []EventType{EventPointerDown, EventClick, EventPointerUp}
	if !equalTypes(r.types(), want) {
		t.Fatalf("events = %v, want %v", r.types(), want)
	}
	click := r.events[1]
	if click.Pos != (ScreenPoint{X: 100, Y: 50}) || click.Button != MouseButtonLeft {
		t.Errorf("click = %+v", click)
	}
}

func TestPointerMove(t *testing.T) {
	p := NewPointerInput()
	r := record(p)
	p.InjectMove(10, 10)
	p.InjectMove(10, 10) // unchanged position fires nothing
	p.InjectMove(20, 10)
	drain(p)
	if n := r.count(EventPointerMove); n != 2 {
		t.Errorf("moves = %d, want 2", n)
	}
}

func TestPointerDrag(t *testing.T) {
	p := NewPointerInput()
	r := record(p)
	p.InjectDrag(0, 0, 100, 0, 6)
	drain(p)

	if r.count(EventClick) != 0 {
		t.Error("drag should not produce a click")
	}
	if r.count(EventPointerDown) != 1 || r.count(EventPointerUp) != 1 {
		t.Errorf("types = %v", r.types())
	}
	var total float64
	for _, ev := range r.events {
		if ev.Type == EventDrag {
			total += ev.Delta.X
			if ev.Start != (ScreenPoint{}) {
				t.Errorf("drag start = %v, want origin", ev.Start)
			}
		}
	}
	// Four held moves at 20px steps; the first clears the dead zone.
	if r.count(EventDrag) != 4 || total != 80 {
		t.Errorf("drags = %d totaling %v, want 4 totaling 80", r.count(EventDrag), total)
	}
}

func TestPointerDeadZone(t *testing.T) {
	p := NewPointerInput()
	r := record(p)
	p.InjectPress(0, 0)
	p.InjectHold(2, 2)
	p.InjectRelease(2, 2)
	drain(p)
	if r.count(EventDrag) != 0 || r.count(EventClick) != 1 {
		t.Errorf("jitter inside the dead zone: types = %v, want a click", r.types())
	}

	p.SetDragDeadZone(0)
	r.events = nil
	p.InjectPress(0, 0)
	p.InjectHold(1, 0)
	p.InjectRelease(1, 0)
	drain(p)
	if r.count(EventDrag) != 1 || r.count(EventClick) != 0 {
		t.Errorf("zero dead zone: types = %v, want a drag", r.types())
	}
}

func TestPointerWheel(t *testing.T) {
	p := NewPointerInput()
	r := record(p)
	p.InjectMove(30, 40)
	drain(p)
	p.InjectWheel(-2)
	drain(p)
	if r.count(EventWheel) != 1 {
		t.Fatalf("types = %v, want one wheel", r.types())
	}
	ev := r.events[len(r.events)-1]
	if ev.Wheel != -2 || ev.Pos != (ScreenPoint{X: 30, Y: 40}) {
		t.Errorf("wheel = %+v", ev)
	}
}

func TestPointerOneInjectedEventPerUpdate(t *testing.T) {
	p := NewPointerInput()
	r := record(p)
	p.InjectClick(5, 5)
	p.Update(false)
	if !equalTypes(r.types(), []EventType{EventPointerDown}) {
		t.Errorf("after one update: %v", r.types())
	}
	p.Update(false)
	p.Update(false) // empty queue, no live input
	if len(r.events) != 3 {
		t.Errorf("events = %d, want 3", len(r.events))
	}
}

func TestCallbackHandleRemove(t *testing.T) {
	p := NewPointerInput()
	calls := 0
	h := p.On(EventPointerMove, func(PointerEvent) { calls++ })
	other := p.On(EventPointerMove, func(PointerEvent) {})
	if p.Listeners() != 2 {
		t.Fatalf("Listeners = %d, want 2", p.Listeners())
	}
	h.Remove()
	h.Remove()
	if p.Listeners() != 1 {
		t.Errorf("Listeners after remove = %d, want 1", p.Listeners())
	}
	p.InjectMove(1, 1)
	drain(p)
	if calls != 0 {
		t.Error("removed callback fired")
	}
	other.Remove()
	CallbackHandle{}.Remove()
	if p.Listeners() != 0 {
		t.Errorf("Listeners = %d, want 0", p.Listeners())
	}
}

func TestRemoveDuringFire(t *testing.T) {
	p := NewPointerInput()
	calls := 0
	var h CallbackHandle
	h = p.On(EventPointerMove, func(PointerEvent) {
		calls++
		h.Remove()
	})
	p.On(EventPointerMove, func(PointerEvent) { calls++ })
	p.InjectMove(1, 1)
	p.InjectMove(2, 2)
	drain(p)
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}
