package grove

import "time"

// hoverDateLayout formats the date shown in the hover popup.
const hoverDateLayout = "02/01/2006"

// EventSelection is delivered when a tree is clicked.
type EventSelection struct {
	Event *EmotionEvent
	Index int
	Cell  GridCell
}

// HoverInfo describes the tree under the pointer and where its popup goes.
type HoverInfo struct {
	Event   *EmotionEvent
	Subject string
	Emotion Emotion
	Date    string
	// Anchor is the projected popup position in surface pixels. OnScreen is
	// false when the anchor is behind the camera.
	Anchor   ScreenPoint
	OnScreen bool
}

// Callbacks are the engine's outward notifications. Any field may be nil.
type Callbacks struct {
	OnEventSelected func(EventSelection)
	OnDateSelected  func(time.Time)
	// OnHover receives the hovered tree on every pointer move over it, and
	// nil once when the pointer leaves it.
	OnHover func(*HoverInfo)
}

// pick casts the ray through p and returns the first event entity and the
// first tile entity along it, nearest first. Hits on untagged nodes resolve
// through their nearest tagged ancestor.
func pick(p ScreenPoint, cam *Camera, scene *SceneGraph) (event, tile *Entity) {
	ray, ok := cam.RayAt(p)
	if !ok {
		return nil, nil
	}
	for _, h := range Raycast(scene.Root, ray) {
		e, ok := scene.EntityOf(h.Node)
		if !ok {
			continue
		}
		switch e.Kind {
		case EntityEvent:
			if event == nil {
				event = e
			}
		case EntityTile:
			if tile == nil {
				tile = e
			}
		}
		if event != nil && tile != nil {
			break
		}
	}
	return event, tile
}

// ResolveAt returns the event whose tree is under p, or nil.
func ResolveAt(p ScreenPoint, cam *Camera, scene *SceneGraph) *EmotionEvent {
	e, _ := pick(p, cam, scene)
	if e == nil {
		return nil
	}
	return e.Event
}

// ResolveTileAt returns the tile entity under p, or nil. Trees standing on
// the tile do not hide it.
func ResolveTileAt(p ScreenPoint, cam *Camera, scene *SceneGraph) *Entity {
	_, t := pick(p, cam, scene)
	return t
}

// hoverInfo builds the popup description for an event entity.
func hoverInfo(e *Entity, cam *Camera) *HoverInfo {
	anchor, ok := cam.WorldToScreen(hoverAnchor(e))
	info := &HoverInfo{
		Event:    e.Event,
		Subject:  e.Event.Subject,
		Emotion:  e.Event.Emotion,
		Anchor:   anchor,
		OnScreen: ok,
	}
	if !e.Date.IsZero() {
		info.Date = e.Date.Format(hoverDateLayout)
	}
	return info
}
