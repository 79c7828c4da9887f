// Package grove renders a calendar of emotion events as a navigable 3D
// forest on [Ebitengine].
//
// Every event becomes a tree standing on one cell of a 6×6 grid of ground
// tiles. The cell comes from the event's timestamp and the view
// granularity:
//
//   - day: all events of one date along row 2, one column per event
//   - week: one column per weekday and one row per four hours
//   - month: a calendar layout starting at the month's first weekday
//
// The tree species, scale and tint follow the event's emotion through an
// immutable [Catalog]. Models are loaded once per session by an
// [AssetCache]; unavailable models are drawn as a primitive fallback tree.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and
// game loop for the engine:
//
//	cfg := grove.DefaultConfig()
//	engine, err := grove.NewEngine(cfg, grove.DefaultCatalog(), grove.ProceduralLoader{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	engine.SetInputs(grove.Inputs{Events: events, Granularity: grove.GranularityWeek})
//	if err := grove.Run(engine, grove.RunConfig{Title: "Forest"}); err != nil {
//		log.Fatal(err)
//	}
//
// # Generations
//
// Each call to [Engine.SetInputs] with changed values rebuilds the scene as
// a new [Generation]. The previous generation is disposed first: its frame
// callback is cancelled, its pointer listeners are removed and its
// textures, geometry and surface are released. A generation moves through
// building, ready, running, disposing and disposed, and never goes back.
//
// # Interaction
//
// Pointer moves over a tree notify [Callbacks].OnHover with a [HoverInfo]
// whose anchor is reprojected on every move. A click on a tree emits
// OnEventSelected; a click on an empty tile emits OnDateSelected with the
// tile's date. Dragging orbits the camera and the wheel zooms.
//
// # Rendering
//
// [Renderer] projects and shades mesh triangles on the CPU with
// [github.com/go-gl/mathgl/mgl64] and submits them through
// DrawTriangles, painter-sorted by render layer and then depth.
//
// [Ebitengine]: https://ebitengine.org
package grove
