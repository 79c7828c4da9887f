package grove

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// GenerationState is a generation's lifecycle stage. States only move
// forward.
type GenerationState uint8

const (
	StateBuilding GenerationState = iota
	StateReady
	StateRunning
	StateDisposing
	StateDisposed
)

func (s GenerationState) String() string {
	switch s {
	case StateBuilding:
		return "building"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateDisposing:
		return "disposing"
	case StateDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// FrameRenderer draws one frame of a generation onto its surface.
type FrameRenderer interface {
	RenderFrame(target *Surface, g *Generation)
}

// defaultFrameStep is the first frame's time step.
const defaultFrameStep = time.Second / 60

// Generation is one built scene together with everything that animates and
// draws it. It owns its scene resources, surface, listeners and frame
// handle, and releases all of them in Dispose.
type Generation struct {
	ID    string
	Input BuildInput

	Scene      *SceneGraph
	Camera     *Camera
	Controls   *OrbitControls
	Motes      *MoteField // nil by day
	Background *Texture

	focusSeconds float64
	logger       *zap.Logger
	state        GenerationState

	sched     FrameScheduler
	frame     FrameHandle
	renderer  FrameRenderer
	surface   *Surface
	listeners []CallbackHandle
	callbacks Callbacks

	hovered   *Entity
	lastFrame time.Duration
	started   bool
	frames    int
}

// State returns the lifecycle stage.
func (g *Generation) State() GenerationState {
	return g.state
}

// Frames returns how many frames have been rendered.
func (g *Generation) Frames() int {
	return g.frames
}

// Surface returns the generation's render target, nil before Start.
func (g *Generation) Surface() *Surface {
	return g.surface
}

// Start attaches the generation to the host: it subscribes to pointer
// input and schedules the first frame. Only a ready generation can start.
func (g *Generation) Start(sched FrameScheduler, in InputSource, renderer FrameRenderer, surface *Surface, cb Callbacks) error {
	if g.state != StateReady {
		return fmt.Errorf("start generation %s: state %s", g.ID, g.state)
	}
	g.sched = sched
	g.renderer = renderer
	g.surface = surface
	g.callbacks = cb
	if surface != nil {
		g.Camera.SetViewport(surface.Width(), surface.Height())
	}
	if in != nil {
		g.listeners = append(g.listeners,
			in.On(EventPointerMove, func(ev PointerEvent) { g.Hover(ev.Pos) }),
			in.On(EventClick, func(ev PointerEvent) {
				if ev.Button == MouseButtonLeft {
					g.Click(ev.Pos)
				}
			}),
			in.On(EventDrag, func(ev PointerEvent) { g.Controls.RotatePixels(ev.Delta.X, ev.Delta.Y) }),
			in.On(EventWheel, func(ev PointerEvent) { g.Controls.Dolly(ev.Wheel) }),
		)
	}
	g.state = StateRunning
	g.frame = sched.RequestFrame(g.step)
	g.logger.Debug("generation started", zap.String("generation", g.ID))
	return nil
}

// step advances and draws one frame, then schedules the next.
func (g *Generation) step(now time.Duration) {
	if g.state != StateRunning {
		return
	}
	dt := defaultFrameStep
	if g.started {
		dt = now - g.lastFrame
	}
	g.started = true
	g.lastFrame = now

	g.Controls.Update(float32(dt.Seconds()))
	if g.Motes != nil {
		g.Motes.Update(now)
	}
	UpdateTransforms(g.Scene.Root)
	if g.renderer != nil && g.surface != nil {
		g.renderer.RenderFrame(g.surface, g)
	}
	g.frames++
	g.frame = g.sched.RequestFrame(g.step)
}

// Hover resolves the tree under p and notifies OnHover. The popup anchor is
// reprojected on every call so it follows camera motion.
func (g *Generation) Hover(p ScreenPoint) *HoverInfo {
	if g.state != StateRunning && g.state != StateReady {
		return nil
	}
	e, _ := pick(p, g.Camera, g.Scene)
	if e == nil {
		if g.hovered != nil {
			g.hovered = nil
			if g.callbacks.OnHover != nil {
				g.callbacks.OnHover(nil)
			}
		}
		return nil
	}
	g.hovered = e
	info := hoverInfo(e, g.Camera)
	if g.callbacks.OnHover != nil {
		g.callbacks.OnHover(info)
	}
	return info
}

// Click resolves p and emits at most one notification: the selected event
// if a tree was hit, otherwise the tile's date when the tile holds no
// events.
func (g *Generation) Click(p ScreenPoint) {
	if g.state != StateRunning && g.state != StateReady {
		return
	}
	e, tile := pick(p, g.Camera, g.Scene)
	switch {
	case e != nil:
		if g.focusSeconds > 0 {
			g.Controls.FocusOn(e.Node.WorldPosition(), float32(g.focusSeconds), nil)
		}
		if g.callbacks.OnEventSelected != nil {
			g.callbacks.OnEventSelected(EventSelection{Event: e.Event, Index: e.Index, Cell: e.Cell})
		}
	case tile != nil && g.Scene.EventsAt(tile.Cell) == 0:
		if g.callbacks.OnDateSelected != nil {
			g.callbacks.OnDateSelected(tile.Date)
		}
	}
}

// Resize updates the camera aspect to the new surface size.
func (g *Generation) Resize(w, h int) {
	g.Camera.SetViewport(w, h)
}

// Dispose cancels the scheduled frame, removes pointer listeners, releases
// the scene's textures and geometry and the surface. A second call does no
// work and returns a *ResourceDisposalError.
func (g *Generation) Dispose() error {
	if g.state == StateDisposing || g.state == StateDisposed {
		return &ResourceDisposalError{Generation: g.ID, State: g.state}
	}
	g.state = StateDisposing

	if g.sched != nil && g.frame != 0 {
		g.sched.CancelFrame(g.frame)
		g.frame = 0
	}
	for _, h := range g.listeners {
		h.Remove()
	}
	g.listeners = nil
	released := g.Scene.Release()
	if g.surface != nil {
		g.surface.Release()
	}
	g.hovered = nil

	g.state = StateDisposed
	g.logger.Debug("generation disposed",
		zap.String("generation", g.ID),
		zap.Int("resources", released),
		zap.Int("frames", g.frames))
	return nil
}
