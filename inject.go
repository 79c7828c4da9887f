package grove

// InjectMove queues a pointer move at the given surface coordinates with no
// button held. Each queued event is consumed by one Update call.
func (p *PointerInput) InjectMove(x, y float64) {
	p.inject(pointerSample{pos: ScreenPoint{X: x, Y: y}})
}

// InjectPress queues a left-button press.
func (p *PointerInput) InjectPress(x, y float64) {
	p.inject(pointerSample{pos: ScreenPoint{X: x, Y: y}, pressed: true, button: MouseButtonLeft})
}

// InjectHold queues a movement with the left button held. Use it between
// InjectPress and InjectRelease to simulate a drag.
func (p *PointerInput) InjectHold(x, y float64) {
	p.InjectPress(x, y)
}

// InjectRelease queues a button release.
func (p *PointerInput) InjectRelease(x, y float64) {
	p.inject(pointerSample{pos: ScreenPoint{X: x, Y: y}, button: MouseButtonLeft})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (p *PointerInput) InjectClick(x, y float64) {
	p.InjectPress(x, y)
	p.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 interpolated held
// moves and a release at (toX, toY). The minimum is 2 frames.
func (p *PointerInput) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	p.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		p.InjectHold(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	p.InjectRelease(toX, toY)
}

// InjectWheel queues a scroll of dy steps at the last pointer position.
func (p *PointerInput) InjectWheel(dy float64) {
	p.inject(pointerSample{pos: p.last, pressed: p.down, button: p.button, wheel: dy})
}

// Pending returns the number of queued injected events.
func (p *PointerInput) Pending() int {
	return len(p.injectQueue)
}

func (p *PointerInput) inject(s pointerSample) {
	p.injectQueue = append(p.injectQueue, s)
}

// processInjected pops one queued event and runs it through the state
// machine. Returns true if an event was consumed.
func (p *PointerInput) processInjected() bool {
	if len(p.injectQueue) == 0 {
		return false
	}
	s := p.injectQueue[0]
	copy(p.injectQueue, p.injectQueue[1:])
	p.injectQueue = p.injectQueue[:len(p.injectQueue)-1]
	p.process(s)
	return true
}
