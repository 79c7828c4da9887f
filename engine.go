package grove

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"
)

// Inputs are the values a view is built from. Changing any of them
// rebuilds the scene.
type Inputs struct {
	Events      []EmotionEvent
	Granularity Granularity
	Night       bool
	Reference   time.Time
	Grid        GridSize
}

func (in Inputs) equal(o Inputs) bool {
	return in.Granularity == o.Granularity &&
		in.Night == o.Night &&
		in.Reference.Equal(o.Reference) &&
		in.Grid == o.Grid &&
		slices.EqualFunc(in.Events, o.Events, eventsEqual)
}

func eventsEqual(a, b EmotionEvent) bool {
	if a.Timestamp.Equal(b.Timestamp) && a.RawTimestamp == b.RawTimestamp &&
		a.Emotion == b.Emotion && a.Subject == b.Subject && a.Count == b.Count {
		if a.Intensity == nil || b.Intensity == nil {
			return a.Intensity == b.Intensity
		}
		return *a.Intensity == *b.Intensity
	}
	return false
}

// EngineStatus describes what the engine is showing.
type EngineStatus uint8

const (
	StatusIdle    EngineStatus = iota // no inputs yet
	StatusLoading                     // waiting for models
	StatusRunning                     // a generation is live
	StatusError                       // the last build failed
)

func (s EngineStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusRunning:
		return "running"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// loadResult reports the end of an asynchronous model load.
type loadResult struct {
	version uint64
	err     error
}

// Engine hosts one live generation at a time on a canvas. It implements
// ebiten.Game. All methods must be called from the host goroutine.
type Engine struct {
	cfg       Config
	cache     *AssetCache
	composer  *Composer
	sched     *TickScheduler
	canvas    *Canvas
	pointer   *PointerInput
	renderer  FrameRenderer
	callbacks Callbacks
	logger    *zap.Logger
	live      bool // read the real mouse

	gen     *Generation
	inputs  Inputs
	hasIn   bool
	version uint64
	status  EngineStatus
	err     error

	loads      chan loadResult
	loadCancel context.CancelFunc

	script          *Script
	screenshotQueue []string
	ScreenshotDir   string
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the root logger; components log under named children.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithFrameRenderer replaces the default Renderer.
func WithFrameRenderer(r FrameRenderer) EngineOption {
	return func(e *Engine) { e.renderer = r }
}

// WithCallbacks sets the selection and hover notifications.
func WithCallbacks(cb Callbacks) EngineOption {
	return func(e *Engine) { e.callbacks = cb }
}

// WithCanvasSize sets the initial canvas size.
func WithCanvasSize(w, h int) EngineOption {
	return func(e *Engine) { e.canvas = NewCanvas(w, h) }
}

// WithLiveInput makes the engine read Ebitengine's mouse each update in
// addition to injected events.
func WithLiveInput(on bool) EngineOption {
	return func(e *Engine) { e.live = on }
}

// NewEngine creates an engine over catalog, loading models through loader.
func NewEngine(cfg Config, catalog *Catalog, loader Loader, opts ...EngineOption) (*Engine, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:           cfg,
		sched:         NewTickScheduler(),
		pointer:       NewPointerInput(),
		logger:        zap.NewNop(),
		loads:         make(chan loadResult, 1),
		ScreenshotDir: cfg.ScreenshotDir,
	}
	for _, o := range opts {
		o(e)
	}
	if e.canvas == nil {
		e.canvas = NewCanvas(1, 1)
	}
	SetDebug(cfg.Debug, e.logger)

	composer, err := NewComposer(cfg, WithComposerLogger(e.logger))
	if err != nil {
		return nil, err
	}
	e.composer = composer
	e.cache = NewAssetCache(catalog, loader,
		WithAssetLogger(e.logger),
		WithMaxConcurrentLoads(cfg.MaxConcurrentLoads))
	if e.renderer == nil {
		e.renderer = NewRenderer(e.logger, cfg.Debug)
	}
	e.logger = e.logger.Named("engine")
	return e, nil
}

// Cache returns the session's asset cache.
func (e *Engine) Cache() *AssetCache { return e.cache }

// Scheduler returns the frame scheduler driven by Update.
func (e *Engine) Scheduler() *TickScheduler { return e.sched }

// Pointer returns the pointer input, for injecting events.
func (e *Engine) Pointer() *PointerInput { return e.pointer }

// Canvas returns the drawable area.
func (e *Engine) Canvas() *Canvas { return e.canvas }

// Generation returns the live generation, or nil.
func (e *Engine) Generation() *Generation { return e.gen }

// Status returns what the engine is currently showing.
func (e *Engine) Status() EngineStatus { return e.status }

// Err returns the last build error while the status is StatusError.
func (e *Engine) Err() error { return e.err }

// Preload loads every required model and waits for the result.
func (e *Engine) Preload(ctx context.Context) error {
	return e.cache.EnsureLoaded(ctx, e.cache.Catalog().RequiredKeys())
}

// SetInputs applies new view inputs. When they differ from the current
// ones, the live generation is disposed before anything new is built. If
// every model has resolved the build happens immediately; otherwise the
// engine shows its loading state until the load completes.
func (e *Engine) SetInputs(in Inputs) {
	if e.hasIn && in.equal(e.inputs) {
		return
	}
	e.inputs = in
	e.hasIn = true
	e.version++
	e.teardown()

	keys := e.cache.Catalog().RequiredKeys()
	if e.cache.Ready(keys) {
		e.build()
		return
	}

	e.status = StatusLoading
	ctx, cancel := context.WithCancel(context.Background())
	e.loadCancel = cancel
	version := e.version
	go func() {
		err := e.cache.EnsureLoaded(ctx, keys)
		select {
		case e.loads <- loadResult{version: version, err: err}:
		case <-ctx.Done():
		}
	}()
}

// teardown disposes the live generation and cancels a pending load wait.
func (e *Engine) teardown() {
	if e.loadCancel != nil {
		e.loadCancel()
		e.loadCancel = nil
	}
	if e.gen != nil {
		if err := e.gen.Dispose(); err != nil {
			e.logger.Debug("dispose", zap.Error(err))
		}
		e.gen = nil
	}
	e.status = StatusIdle
	e.err = nil
}

// build composes and starts a generation for the current inputs.
func (e *Engine) build() {
	in := e.inputs
	gen, err := e.composer.Build(BuildInput{
		Events:      in.Events,
		Granularity: in.Granularity,
		Night:       in.Night,
		Reference:   in.Reference,
		Grid:        in.Grid,
	}, e.cache)
	if err != nil {
		e.fail(err)
		return
	}
	surface, err := e.canvas.Acquire(gen.ID)
	if err == nil {
		err = gen.Start(e.sched, e.pointer, e.renderer, surface, e.callbacks)
	}
	if err != nil {
		_ = gen.Dispose()
		e.fail(err)
		return
	}
	e.gen = gen
	e.status = StatusRunning
}

func (e *Engine) fail(err error) {
	e.status = StatusError
	e.err = err
	var ce *CompositionError
	if errors.As(err, &ce) {
		e.logger.Error("build failed", zap.String("step", ce.Step), zap.Error(ce.Err))
		return
	}
	e.logger.Error("build failed", zap.Error(err))
}

// pollLoads builds once a pending load for the current inputs finishes.
func (e *Engine) pollLoads() {
	select {
	case res := <-e.loads:
		if res.version != e.version || e.status != StatusLoading {
			return
		}
		e.loadCancel = nil
		if res.err != nil {
			e.fail(res.err)
			return
		}
		e.build()
	default:
	}
}

// Step advances the engine by one host frame of length dt. Update calls it
// with the tick duration; headless callers drive it directly.
func (e *Engine) Step(dt time.Duration) {
	if e.script != nil {
		e.script.step(e)
	}
	e.pointer.Update(e.live)
	e.pollLoads()
	e.sched.Tick(dt)
}

// Update implements ebiten.Game.
func (e *Engine) Update() error {
	e.Step(time.Second / time.Duration(ebiten.TPS()))
	return nil
}

// Draw implements ebiten.Game.
func (e *Engine) Draw(screen *ebiten.Image) {
	switch e.status {
	case StatusRunning:
		if s := e.gen.Surface(); s != nil && s.Allocated() {
			screen.DrawImage(s.Image(), nil)
		}
	case StatusLoading:
		ebitenutil.DebugPrint(screen, "Loading forest...")
	case StatusError:
		ebitenutil.DebugPrint(screen, "Could not build the forest:\n"+e.err.Error())
	}
	e.flushScreenshots(screen)
}

// Layout implements ebiten.Game. A resize changes the canvas and camera
// aspect only; the scene is not rebuilt.
func (e *Engine) Layout(outsideWidth, outsideHeight int) (int, int) {
	if w, h := e.canvas.Size(); w != outsideWidth || h != outsideHeight {
		e.canvas.Resize(outsideWidth, outsideHeight)
		if e.gen != nil {
			e.gen.Resize(outsideWidth, outsideHeight)
		}
	}
	return outsideWidth, outsideHeight
}

// Close disposes the live generation and cancels model loads.
func (e *Engine) Close() {
	e.teardown()
	e.cache.Close()
}
