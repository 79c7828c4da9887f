package grove

// Anchor offset above a placement root used for the hover popup.
var hoverAnchorOffset = Vec3{0, 2, 0}

// mountModel wraps a model instance in a container so placement transforms
// compose with the model's own root transform instead of replacing it.
func mountModel(name string, model *Node) *Node {
	root := NewContainer(name)
	root.AddChild(model)
	return root
}

// tint multiplies every material color under n by c.
func tint(n *Node, c Color) {
	n.Traverse(func(nd *Node) bool {
		if nd.Material != nil {
			nd.Material.Color = nd.Material.Color.Mul(c)
		}
		return true
	})
}

// placeEvents adds one tagged placement root per event at its mapped cell.
// cells[i] is the cell for events[i]. Events whose model is unavailable get
// the fallback tree, scaled by the presentation alone and resting at y=0.
func placeEvents(s *SceneGraph, cache *AssetCache, events []EmotionEvent, cells []GridCell, tileSize float64, opts MapOptions) {
	catalog := cache.Catalog()
	for i := range events {
		ev := &events[i]
		pres := catalog.Presentation(ev.Emotion)

		var model *Node
		scale, y := pres.Scale, 0.0
		if asset := cache.Get(pres.ModelKey); asset != nil {
			model = asset.Instantiate()
			scale *= asset.Spec.Scale
			y = asset.Spec.GroundOffset
		} else {
			model = FallbackTree()
			model.Traverse(func(nd *Node) bool {
				if nd.Geometry != nil {
					s.OwnGeometry(nd.Geometry)
				}
				return true
			})
		}
		if pres.Tint != nil {
			tint(model, *pres.Tint)
		}

		root := mountModel(string(ev.Emotion), model)
		pos := cellPosition(cells[i], tileSize)
		root.SetPosition(pos[0], y, pos[2])
		root.SetScale(scale)
		s.Root.AddChild(root)
		s.Tag(root, Entity{
			Kind:  EntityEvent,
			Cell:  cells[i],
			Event: ev,
			Index: i,
			Date:  opts.local(ev.Timestamp),
		})
	}
}

// hoverAnchor returns the world point a hover popup is pinned to.
func hoverAnchor(e *Entity) Vec3 {
	return e.Node.WorldPosition().Add(hoverAnchorOffset)
}
