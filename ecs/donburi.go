// Package ecs provides ECS adapters for grove.
package ecs

import (
	"time"

	"github.com/phanxgames/grove"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SelectionKind identifies what a Selection reports.
type SelectionKind uint8

const (
	SelectionEvent SelectionKind = iota // a tree was clicked
	SelectionDate                       // an empty tile was clicked
	SelectionHover                      // the pointer moved over a tree
	SelectionLeave                      // the pointer left the hovered tree
)

// Selection is the Donburi event published for grove interactions. Only
// the fields relevant to Kind are set.
type Selection struct {
	Kind  SelectionKind
	Event *grove.EmotionEvent
	Index int
	Cell  grove.GridCell
	Date  time.Time
	Hover *grove.HoverInfo
}

// SelectionEventType is the Donburi event type for grove selections.
// Subscribe to it in ECS systems to receive clicks and hovers.
var SelectionEventType = events.NewEventType[Selection]()

// NewDonburiCallbacks returns engine callbacks that publish every
// interaction to world as a Selection. Events are queued until the world's
// events are processed.
func NewDonburiCallbacks(world donburi.World) grove.Callbacks {
	return grove.Callbacks{
		OnEventSelected: func(sel grove.EventSelection) {
			ev := Selection{Kind: SelectionEvent, Event: sel.Event, Index: sel.Index, Cell: sel.Cell}
			if sel.Event != nil {
				ev.Date = sel.Event.Timestamp
			}
			SelectionEventType.Publish(world, ev)
		},
		OnDateSelected: func(date time.Time) {
			SelectionEventType.Publish(world, Selection{Kind: SelectionDate, Date: date})
		},
		OnHover: func(info *grove.HoverInfo) {
			if info == nil {
				SelectionEventType.Publish(world, Selection{Kind: SelectionLeave})
				return
			}
			SelectionEventType.Publish(world, Selection{Kind: SelectionHover, Event: info.Event, Hover: info})
		},
	}
}
