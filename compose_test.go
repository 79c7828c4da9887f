package grove

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"
)

var composeClock = func() time.Time { return weekRef }

// testConfig reads events and tile dates in UTC regardless of the host zone.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 7
	cfg.Location = "UTC"
	return cfg
}

func testComposer(t *testing.T) *Composer {
	t.Helper()
	c, err := NewComposer(testConfig(), WithClock(composeClock))
	if err != nil {
		t.Fatalf("NewComposer: %v", err)
	}
	return c
}

func testEvents() []EmotionEvent {
	return []EmotionEvent{
		{Emotion: EmotionJoy, Subject: "Team lunch", Timestamp: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)},
		{Emotion: EmotionTrust, Subject: "Offer accepted", Timestamp: time.Date(2024, 3, 8, 15, 0, 0, 0, time.UTC)},
	}
}

// buildTestGeneration composes the test events with fallback trees and a
// 800x600 camera.
func buildTestGeneration(t *testing.T, night bool) *Generation {
	t.Helper()
	g, err := testComposer(t).Build(BuildInput{
		Events:      testEvents(),
		Granularity: GranularityWeek,
		Night:       night,
	}, loadedCache(t, failingLoader))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { _ = g.Dispose() })
	g.Resize(800, 600)
	return g
}

// treePoint projects a point inside the foliage of the fallback tree of
// placement i.
func treePoint(t *testing.T, g *Generation, i int) ScreenPoint {
	t.Helper()
	p := g.Scene.Placements()[i].Node.WorldPosition().Add(Vec3{0.07, 1.5, -0.1})
	s, ok := g.Camera.WorldToScreen(p)
	if !ok {
		t.Fatalf("tree %d not on screen", i)
	}
	return s
}

// tilePoint projects a point inside the tile at cell.
func tilePoint(t *testing.T, g *Generation, cell GridCell) ScreenPoint {
	t.Helper()
	p := cellPosition(cell, 4).Add(Vec3{0.3, 0, -0.4})
	s, ok := g.Camera.WorldToScreen(p)
	if !ok {
		t.Fatalf("tile %v not on screen", cell)
	}
	return s
}

func TestBuildTagsEveryEvent(t *testing.T) {
	g := buildTestGeneration(t, false)
	if g.State() != StateReady {
		t.Errorf("state = %v, want ready", g.State())
	}
	if g.ID == "" {
		t.Error("generation has no ID")
	}

	ps := g.Scene.Placements()
	if len(ps) != 2 {
		t.Fatalf("placements = %d, want 2", len(ps))
	}
	wantCells := []GridCell{{Row: 2, Col: 2}, {Row: 3, Col: 5}}
	for i, p := range ps {
		if p.Cell != wantCells[i] || p.Index != i || p.Event.Subject != g.Input.Events[i].Subject {
			t.Errorf("placement %d = cell %v index %d subject %q", i, p.Cell, p.Index, p.Event.Subject)
		}
		if p.Node.FindChild("fallback_tree") == nil {
			t.Errorf("placement %d is not a fallback tree", i)
		}
	}
	if n := len(g.Scene.Tiles()); n != GridRows*GridCols {
		t.Errorf("tiles = %d", n)
	}
	if !g.Input.Reference.Equal(weekRef) {
		t.Errorf("reference = %v, want the composer clock", g.Input.Reference)
	}
	if g.Input.Grid != DefaultGridSize {
		t.Errorf("grid = %v, want default", g.Input.Grid)
	}
}

func TestBuildCopiesEvents(t *testing.T) {
	events := testEvents()
	g, err := testComposer(t).Build(BuildInput{Events: events, Granularity: GranularityWeek}, loadedCache(t, failingLoader))
	if err != nil {
		t.Fatal(err)
	}
	defer g.Dispose()
	events[0].Subject = "changed"
	if g.Scene.Placements()[0].Event.Subject != "Team lunch" {
		t.Error("generation shares the caller's event slice")
	}
}

func TestBuildDecoratesWithLoadedModels(t *testing.T) {
	g, err := testComposer(t).Build(BuildInput{Events: testEvents(), Granularity: GranularityDay}, loadedCache(t, ProceduralLoader{}))
	if err != nil {
		t.Fatal(err)
	}
	defer g.Dispose()
	if n := countNamed(g.Scene.Root, "decoration"); n != 4*GridRows*GridCols {
		t.Errorf("decorations = %d", n)
	}
	if countNamed(g.Scene.Root, "fallback_tree") != 0 {
		t.Error("fallback tree used although every model loaded")
	}
}

func TestBuildPresets(t *testing.T) {
	day := buildTestGeneration(t, false)
	if CountLights(day.Scene.Root) != 3 || day.Motes != nil {
		t.Errorf("day: lights %d motes %v", CountLights(day.Scene.Root), day.Motes)
	}
	night := buildTestGeneration(t, true)
	if CountLights(night.Scene.Root) != 4 || night.Motes == nil || night.Motes.Len() != DefaultConfig().Motes.Count {
		t.Errorf("night: lights %d motes %v", CountLights(night.Scene.Root), night.Motes)
	}
}

func TestBuildErrors(t *testing.T) {
	ready := loadedCache(t, failingLoader)
	tests := []struct {
		name  string
		in    BuildInput
		cache *AssetCache
		step  string
		is    error
	}{
		{"grid", BuildInput{Grid: GridSize{Rows: 0, Cols: 3}}, ready, "grid", ErrInvalidGrid},
		{"assets", BuildInput{}, NewAssetCache(DefaultCatalog(), failingLoader), "assets", ErrAssetsNotReady},
		{"map", BuildInput{Events: []EmotionEvent{{Emotion: EmotionJoy}}, Granularity: GranularityWeek}, ready, "map", ErrInvalidTimestamp},
		{"granularity", BuildInput{Granularity: Granularity(9)}, ready, "map", ErrUnknownGranularity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := testComposer(t).Build(tt.in, tt.cache)
			if g != nil {
				t.Error("partial generation returned")
			}
			var ce *CompositionError
			if !errors.As(err, &ce) || ce.Step != tt.step {
				t.Fatalf("err = %v, want CompositionError at %s", err, tt.step)
			}
			if !errors.Is(err, tt.is) {
				t.Errorf("err = %v, want %v", err, tt.is)
			}
		})
	}
}

func TestResolveAt(t *testing.T) {
	g := buildTestGeneration(t, false)

	got := ResolveAt(treePoint(t, g, 0), g.Camera, g.Scene)
	if got == nil || got.Subject != "Team lunch" {
		t.Fatalf("ResolveAt(tree) = %+v, want Team lunch", got)
	}
	if got := ResolveAt(ScreenPoint{X: 400, Y: 2}, g.Camera, g.Scene); got != nil {
		t.Errorf("ResolveAt(sky) = %+v, want nil", got)
	}

	// The tile under a tree is still resolvable.
	tile := ResolveTileAt(treePoint(t, g, 0), g.Camera, g.Scene)
	if tile == nil || tile.Cell != (GridCell{Row: 2, Col: 2}) {
		t.Errorf("ResolveTileAt(tree) = %+v, want cell (2,2)", tile)
	}
	empty := GridCell{Row: 3, Col: 3}
	tile = ResolveTileAt(tilePoint(t, g, empty), g.Camera, g.Scene)
	if tile == nil || tile.Cell != empty {
		t.Errorf("ResolveTileAt(empty) = %+v, want %v", tile, empty)
	}
}

func TestGenerationClick(t *testing.T) {
	g := buildTestGeneration(t, false)
	var selected []EventSelection
	var dates []time.Time
	g.callbacks = Callbacks{
		OnEventSelected: func(s EventSelection) { selected = append(selected, s) },
		OnDateSelected:  func(d time.Time) { dates = append(dates, d) },
	}

	g.Click(treePoint(t, g, 0))
	if len(selected) != 1 || len(dates) != 0 {
		t.Fatalf("tree click: %d selections %d dates", len(selected), len(dates))
	}
	if s := selected[0]; s.Index != 0 || s.Cell != (GridCell{Row: 2, Col: 2}) || s.Event.Emotion != EmotionJoy {
		t.Errorf("selection = %+v", s)
	}
	if !g.Controls.Focusing() {
		t.Error("click did not focus the camera")
	}

	empty := GridCell{Row: 3, Col: 3}
	g.Click(tilePoint(t, g, empty))
	want := TileDate(weekRef, GranularityWeek, empty, testConfig().MapOptions())
	if len(dates) != 1 || !dates[0].Equal(want) {
		t.Fatalf("tile click dates = %v, want [%v]", dates, want)
	}

	g.Click(ScreenPoint{X: 400, Y: 2})
	if len(selected) != 1 || len(dates) != 1 {
		t.Errorf("sky click emitted: %d selections %d dates", len(selected), len(dates))
	}
}

func TestBuildReadsEventsInConfiguredZone(t *testing.T) {
	cfg := testConfig()
	cfg.Location = "America/New_York"
	c, err := NewComposer(cfg, WithClock(composeClock))
	if err != nil {
		t.Fatal(err)
	}
	ny := cfg.Zone()
	events, err := DecodeEvents([]byte(`[{"emotion":"joy","createdAt":"2024-03-05T02:00:00Z"}]`))
	if err != nil {
		t.Fatal(err)
	}
	g, err := c.Build(BuildInput{
		Events:      events,
		Granularity: GranularityWeek,
		Reference:   time.Date(2024, 3, 5, 12, 0, 0, 0, ny),
	}, loadedCache(t, failingLoader))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { _ = g.Dispose() })

	placed := g.Scene.Placements()[0]
	if want := (GridCell{Row: 5, Col: 1}); placed.Cell != want {
		t.Fatalf("cell = %v, want %v", placed.Cell, want)
	}
	if placed.Date.Day() != 4 || placed.Date.Location().String() != "America/New_York" {
		t.Errorf("placement date = %v, want 2024-03-04 in New York", placed.Date)
	}
	for _, tile := range g.Scene.Tiles() {
		if tile.Cell != placed.Cell {
			continue
		}
		if tile.Date.Weekday() != time.Monday || tile.Date.Day() != 4 {
			t.Errorf("tile %v date = %v, want Monday 2024-03-04", tile.Cell, tile.Date)
		}
	}
}

func TestGenerationHover(t *testing.T) {
	g := buildTestGeneration(t, false)
	var infos []*HoverInfo
	g.callbacks.OnHover = func(h *HoverInfo) { infos = append(infos, h) }

	p := treePoint(t, g, 0)
	info := g.Hover(p)
	if info == nil || info.Subject != "Team lunch" || info.Emotion != EmotionJoy || info.Date != "05/03/2024" {
		t.Fatalf("hover = %+v", info)
	}
	if !info.OnScreen || info.Anchor.Y >= p.Y {
		t.Errorf("anchor = %v on=%v, want on screen above %v", info.Anchor, info.OnScreen, p)
	}
	g.Hover(p)
	g.Hover(ScreenPoint{X: 400, Y: 2})
	g.Hover(ScreenPoint{X: 400, Y: 2})
	if len(infos) != 3 || infos[2] != nil {
		t.Errorf("hover notifications = %v, want two infos then one nil", infos)
	}
}

func TestGenerationDispose(t *testing.T) {
	g := buildTestGeneration(t, true)
	if g.Scene.Owned() == 0 {
		t.Fatal("generation owns nothing")
	}
	if err := g.Dispose(); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	if g.State() != StateDisposed || g.Scene.Owned() != 0 {
		t.Errorf("state %v owned %d", g.State(), g.Scene.Owned())
	}
	err := g.Dispose()
	var de *ResourceDisposalError
	if !errors.As(err, &de) || de.State != StateDisposed || !errors.Is(err, ErrAlreadyDisposed) {
		t.Errorf("second Dispose = %v", err)
	}

	// A disposed generation ignores input.
	g.Click(ScreenPoint{X: 400, Y: 300})
	if g.Hover(ScreenPoint{X: 400, Y: 300}) != nil {
		t.Error("disposed generation resolved a hover")
	}
	if g.Start(NewTickScheduler(), nil, nil, nil, Callbacks{}) == nil {
		t.Error("disposed generation started")
	}
}
