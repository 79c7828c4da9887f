package grove

import (
	"sort"
	"time"
)

// EntityKind is the kind of thing a tagged node stands for.
type EntityKind uint8

const (
	EntityEvent EntityKind = iota + 1 // an emotion event's placed tree
	EntityTile                        // a ground tile
)

// Entity is one row of a scene graph's side-table. Nodes carry only the
// row's ID in Node.EntityID.
type Entity struct {
	ID   uint32
	Kind EntityKind
	Node *Node
	Cell GridCell

	// Event fields
	Event *EmotionEvent
	Index int

	// Date is the tile's calendar date, or the event's timestamp.
	Date time.Time
}

// SceneGraph is one generation's node tree plus its entity side-table and
// the GPU-backed resources the generation owns. Resources shared with the
// asset cache are never registered here.
type SceneGraph struct {
	Root *Node

	entities   map[uint32]*Entity
	nextEntity uint32
	eventCells map[GridCell]int

	textures   []*Texture
	geometries []*Geometry
}

// NewSceneGraph creates an empty graph with a root container.
func NewSceneGraph() *SceneGraph {
	return &SceneGraph{
		Root:       NewContainer("root"),
		entities:   make(map[uint32]*Entity),
		eventCells: make(map[GridCell]int),
	}
}

// Tag registers e for n and stores the new entity ID on n.
func (s *SceneGraph) Tag(n *Node, e Entity) uint32 {
	s.nextEntity++
	e.ID = s.nextEntity
	e.Node = n
	s.entities[e.ID] = &e
	n.EntityID = e.ID
	if e.Kind == EntityEvent {
		s.eventCells[e.Cell]++
	}
	return e.ID
}

// Entity looks up an entity by ID.
func (s *SceneGraph) Entity(id uint32) (*Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// EntityOf walks from n up the ancestor chain to the first tagged node and
// returns its entity.
func (s *SceneGraph) EntityOf(n *Node) (*Entity, bool) {
	for p := n; p != nil; p = p.Parent {
		if p.EntityID == 0 {
			continue
		}
		if e, ok := s.entities[p.EntityID]; ok {
			return e, true
		}
	}
	return nil, false
}

// Placements returns the event entities in batch order.
func (s *SceneGraph) Placements() []*Entity {
	return s.entitiesOfKind(EntityEvent)
}

// Tiles returns the tile entities in row-major order.
func (s *SceneGraph) Tiles() []*Entity {
	return s.entitiesOfKind(EntityTile)
}

func (s *SceneGraph) entitiesOfKind(kind EntityKind) []*Entity {
	var out []*Entity
	for _, e := range s.entities {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if kind == EntityEvent {
			return out[i].Index < out[j].Index
		}
		if out[i].Cell.Row != out[j].Cell.Row {
			return out[i].Cell.Row < out[j].Cell.Row
		}
		return out[i].Cell.Col < out[j].Cell.Col
	})
	return out
}

// EventsAt returns how many events were placed on cell.
func (s *SceneGraph) EventsAt(cell GridCell) int {
	return s.eventCells[cell]
}

// OwnTexture registers t for release with the graph.
func (s *SceneGraph) OwnTexture(t *Texture) *Texture {
	s.textures = append(s.textures, t)
	return t
}

// OwnGeometry registers g for release with the graph.
func (s *SceneGraph) OwnGeometry(g *Geometry) *Geometry {
	s.geometries = append(s.geometries, g)
	return g
}

// Owned returns how many owned resources have not been released yet.
func (s *SceneGraph) Owned() int {
	n := 0
	for _, t := range s.textures {
		if t.Uploaded() {
			n++
		}
	}
	for _, g := range s.geometries {
		if !g.IsDisposed() {
			n++
		}
	}
	return n
}

// ReleaseSubtree disposes n and frees the owned geometries and textures its
// meshes reference. Those resources must not be shared outside n. It returns
// the number of resources released.
func (s *SceneGraph) ReleaseSubtree(n *Node) int {
	geos := make(map[*Geometry]bool)
	texs := make(map[*Texture]bool)
	n.Traverse(func(nd *Node) bool {
		if nd.Geometry != nil {
			geos[nd.Geometry] = true
		}
		if nd.Material != nil && nd.Material.Texture != nil {
			texs[nd.Material.Texture] = true
		}
		return true
	})
	n.Dispose()

	released := 0
	for t := range texs {
		if s.ReleaseTexture(t) {
			released++
		}
	}
	kept := s.geometries[:0]
	for _, g := range s.geometries {
		if !geos[g] {
			kept = append(kept, g)
			continue
		}
		if !g.IsDisposed() {
			released++
			g.Dispose()
		}
	}
	clear(s.geometries[len(kept):])
	s.geometries = kept
	return released
}

// ReleaseTexture frees t and stops tracking it. It reports whether t was
// owned by the graph and uploaded.
func (s *SceneGraph) ReleaseTexture(t *Texture) bool {
	for i, owned := range s.textures {
		if owned != t {
			continue
		}
		uploaded := t.Uploaded()
		t.Dispose()
		s.textures = append(s.textures[:i], s.textures[i+1:]...)
		return uploaded
	}
	return false
}

// Release frees every owned resource, disposes the node tree and clears
// the side-table. It returns the number of resources released.
func (s *SceneGraph) Release() int {
	released := 0
	for _, t := range s.textures {
		if t.Uploaded() {
			released++
		}
		t.Dispose()
	}
	for _, g := range s.geometries {
		if !g.IsDisposed() {
			released++
			g.Dispose()
		}
	}
	s.textures = nil
	s.geometries = nil
	if s.Root != nil {
		s.Root.Dispose()
	}
	s.entities = make(map[uint32]*Entity)
	s.eventCells = make(map[GridCell]int)
	return released
}
