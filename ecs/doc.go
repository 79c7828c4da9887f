// Package ecs provides ECS adapters for grove's interaction callbacks.
//
// The primary adapter is [NewDonburiCallbacks], which bridges tree clicks,
// date clicks and hovers into a [Donburi] world as typed events.
// Subscribe to [SelectionEventType] in your ECS systems to receive them.
//
// Usage:
//
//	cb := ecs.NewDonburiCallbacks(world)
//	engine, err := grove.NewEngine(cfg, catalog, loader, grove.WithCallbacks(cb))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
