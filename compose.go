package grove

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BuildInput is everything one generation is built from.
type BuildInput struct {
	Events      []EmotionEvent
	Granularity Granularity
	Night       bool
	// Reference is the date the view is centered on. Zero means today.
	Reference time.Time
	// Grid is the terrain size. Zero means the configured size.
	Grid GridSize
}

// Composer turns a BuildInput and a ready asset cache into a Generation.
// A Composer is not safe for concurrent use.
type Composer struct {
	cfg    Config
	labels *labelRenderer
	rand   *rand.Rand
	logger *zap.Logger
	now    func() time.Time
}

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithRand sets the randomness source for decorations, motes and textures.
func WithRand(r *rand.Rand) ComposerOption {
	return func(c *Composer) { c.rand = r }
}

// WithComposerLogger sets the composer's logger.
func WithComposerLogger(l *zap.Logger) ComposerOption {
	return func(c *Composer) { c.logger = l }
}

// WithClock sets the clock used when BuildInput.Reference is zero.
func WithClock(now func() time.Time) ComposerOption {
	return func(c *Composer) { c.now = now }
}

// NewComposer validates cfg and prepares the label font.
func NewComposer(cfg Config, opts ...ComposerOption) (*Composer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	labels, err := newLabelRenderer()
	if err != nil {
		return nil, err
	}
	c := &Composer{cfg: cfg, labels: labels, logger: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(c)
	}
	if c.rand == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		c.rand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	c.logger = c.logger.Named("composer")
	return c, nil
}

// Build composes a scene for in. It fails with a *CompositionError when the
// cache has not resolved every required model, the grid is malformed or an
// event cannot be mapped; no partial generation is returned.
func (c *Composer) Build(in BuildInput, cache *AssetCache) (*Generation, error) {
	in.Events = append([]EmotionEvent(nil), in.Events...)
	if in.Grid == (GridSize{}) {
		in.Grid = c.cfg.Grid
	}
	if in.Reference.IsZero() {
		in.Reference = c.now()
	}

	if err := in.Grid.Validate(); err != nil {
		return nil, &CompositionError{Step: "grid", Err: err}
	}
	if !cache.Ready(cache.Catalog().RequiredKeys()) {
		return nil, &CompositionError{Step: "assets", Err: ErrAssetsNotReady}
	}
	if in.Granularity > GranularityMonth {
		return nil, &CompositionError{Step: "map", Err: fmt.Errorf("%w: %d", ErrUnknownGranularity, in.Granularity)}
	}
	opts := c.cfg.MapOptions()
	cells, err := MapEvents(in.Events, in.Granularity, opts)
	if err != nil {
		return nil, &CompositionError{Step: "map", Err: err}
	}

	g := &Generation{
		ID:           uuid.NewString(),
		Input:        in,
		Scene:        NewSceneGraph(),
		focusSeconds: c.cfg.Camera.FocusSeconds,
		logger:       c.logger,
		state:        StateBuilding,
	}
	s := g.Scene
	tile := c.cfg.TileSize
	center := gridCenter(in.Grid, tile)

	buildTerrain(s, terrainParams{
		Grid:        in.Grid,
		TileSize:    tile,
		Granularity: in.Granularity,
		Reference:   in.Reference,
		Map:         opts,
	}, c.rand)
	props := decorateTiles(s, cache, decorationParams{TileSize: tile, Config: c.cfg.Decorations}, c.rand)
	labelTiles(s, c.labels, c.cfg.LabelFormat, tile, in.Night)
	preset := applyPreset(s, in.Night, center, c.cfg.Motes, c.rand)
	g.Motes = preset.Motes
	g.Background = preset.Background
	placeEvents(s, cache, in.Events, cells, tile, opts)
	g.Camera, g.Controls = setupCamera(c.cfg.Camera, center)
	UpdateTransforms(s.Root)

	g.state = StateReady
	c.logger.Debug("generation built",
		zap.String("generation", g.ID),
		zap.Stringer("granularity", in.Granularity),
		zap.Bool("night", in.Night),
		zap.Int("events", len(in.Events)),
		zap.Int("decorations", props),
		zap.Strings("fallbacks", cache.Failed()))
	return g, nil
}

// setupCamera creates the perspective camera and its orbit controls around
// the grid centroid.
func setupCamera(cfg CameraConfig, center Vec3) (*Camera, *OrbitControls) {
	cam := NewCamera(cfg.FOV, cfg.Near, cfg.Far, 1, 1)
	cam.SetPosition(Vec3{cfg.Position[0], cfg.Position[1], cfg.Position[2]})
	ctl := NewOrbitControls(cam, center)
	ctl.Damping = cfg.Damping
	ctl.MinDistance = cfg.MinDistance
	ctl.MaxDistance = cfg.MaxDistance
	ctl.MinPolar = cfg.MinPolar
	ctl.MaxPolar = cfg.MaxPolar
	return cam, ctl
}
