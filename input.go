package grove

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const defaultDragDeadZone = 4.0 // pixels

// PointerEvent is delivered to pointer listeners.
type PointerEvent struct {
	Type   EventType
	Pos    ScreenPoint
	Button MouseButton
	// Start is the press position for drags and clicks.
	Start ScreenPoint
	// Delta is the movement since the previous drag event.
	Delta Vec2
	// Wheel is the vertical scroll amount for EventWheel; positive scrolls up.
	Wheel float64
}

// InputSource lets a generation subscribe to pointer events.
type InputSource interface {
	On(t EventType, fn func(PointerEvent)) CallbackHandle
}

// pointerSample is the pointer's raw state for one frame.
type pointerSample struct {
	pos     ScreenPoint
	pressed bool
	button  MouseButton
	wheel   float64
}

// --- Handler registry ---

type pointerHandler struct {
	id uint32
	fn func(PointerEvent)
}

type handlerRegistry struct {
	handlers map[EventType][]pointerHandler
	nextID   uint32
}

// CallbackHandle allows removing a registered pointer callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires. Removing twice
// is a no-op.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	s := h.reg.handlers[h.event]
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = pointerHandler{}
			h.reg.handlers[h.event] = s[:len(s)-1]
			return
		}
	}
}

// --- Pointer input ---

// PointerInput runs the pointer state machine and dispatches events to
// listeners. It reads Ebitengine's mouse state, or injected events when
// any are queued.
type PointerInput struct {
	reg          handlerRegistry
	dragDeadZone float64

	down     bool
	dragging bool
	button   MouseButton
	start    ScreenPoint
	last     ScreenPoint

	injectQueue []pointerSample
}

// NewPointerInput returns an input with no listeners.
func NewPointerInput() *PointerInput {
	return &PointerInput{
		reg:          handlerRegistry{handlers: make(map[EventType][]pointerHandler)},
		dragDeadZone: defaultDragDeadZone,
	}
}

// On registers fn for events of type t.
func (p *PointerInput) On(t EventType, fn func(PointerEvent)) CallbackHandle {
	p.reg.nextID++
	p.reg.handlers[t] = append(p.reg.handlers[t], pointerHandler{id: p.reg.nextID, fn: fn})
	return CallbackHandle{id: p.reg.nextID, reg: &p.reg, event: t}
}

// Listeners returns the number of registered callbacks.
func (p *PointerInput) Listeners() int {
	n := 0
	for _, s := range p.reg.handlers {
		n += len(s)
	}
	return n
}

// SetDragDeadZone sets the movement in pixels before a press becomes a drag.
func (p *PointerInput) SetDragDeadZone(pixels float64) {
	p.dragDeadZone = pixels
}

// Update processes one frame of input: one injected event if any are
// queued, otherwise the live pointer when live is true.
func (p *PointerInput) Update(live bool) {
	if p.processInjected() {
		return
	}
	if live {
		p.process(readPointer())
	}
}

// readPointer samples Ebitengine's mouse state.
func readPointer() pointerSample {
	mx, my := ebiten.CursorPosition()
	s := pointerSample{pos: ScreenPoint{X: float64(mx), Y: float64(my)}}
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	if left || right || middle {
		s.pressed = true
		switch {
		case left:
			s.button = MouseButtonLeft
		case right:
			s.button = MouseButtonRight
		default:
			s.button = MouseButtonMiddle
		}
	}
	_, s.wheel = ebiten.Wheel()
	return s
}

// process runs the state machine for one sample.
func (p *PointerInput) process(s pointerSample) {
	if s.wheel != 0 {
		p.fire(PointerEvent{Type: EventWheel, Pos: s.pos, Wheel: s.wheel})
	}

	switch {
	case s.pressed && !p.down:
		p.down = true
		p.dragging = false
		p.button = s.button
		p.start = s.pos
		p.last = s.pos
		p.fire(PointerEvent{Type: EventPointerDown, Pos: s.pos, Button: p.button, Start: s.pos})
	case !s.pressed && p.down:
		if !p.dragging {
			p.fire(PointerEvent{Type: EventClick, Pos: s.pos, Button: p.button, Start: p.start})
		}
		p.fire(PointerEvent{Type: EventPointerUp, Pos: s.pos, Button: p.button, Start: p.start})
		p.down = false
		p.dragging = false
		p.last = s.pos
	case s.pressed && p.down:
		if s.pos == p.last {
			return
		}
		if !p.dragging && math.Hypot(s.pos.X-p.start.X, s.pos.Y-p.start.Y) > p.dragDeadZone {
			p.dragging = true
		}
		if p.dragging {
			p.fire(PointerEvent{
				Type:   EventDrag,
				Pos:    s.pos,
				Button: p.button,
				Start:  p.start,
				Delta:  Vec2{X: s.pos.X - p.last.X, Y: s.pos.Y - p.last.Y},
			})
		}
		p.last = s.pos
	default:
		if s.pos != p.last {
			p.fire(PointerEvent{Type: EventPointerMove, Pos: s.pos})
			p.last = s.pos
		}
	}
}

// fire calls every listener for ev.Type. Listeners may remove themselves
// while being called.
func (p *PointerInput) fire(ev PointerEvent) {
	hs := p.reg.handlers[ev.Type]
	if len(hs) == 0 {
		return
	}
	snapshot := make([]pointerHandler, len(hs))
	copy(snapshot, hs)
	for _, h := range snapshot {
		h.fn(ev)
	}
}
