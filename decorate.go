package grove

import (
	"math"
	"math/rand/v2"
)

// decorationParams is the input of decorateTiles.
type decorationParams struct {
	TileSize float64
	Config   DecorationConfig
}

// decorateTiles scatters the catalog's decoration props over the four
// corners of every tile. Corner i uses decoration key i modulo the key
// count. Keys without a loaded model are skipped. It returns the number of
// props placed.
func decorateTiles(s *SceneGraph, cache *AssetCache, p decorationParams, r *rand.Rand) int {
	keys := cache.Catalog().Decorations()
	if len(keys) == 0 {
		return 0
	}
	off := p.Config.CornerFraction * p.TileSize
	corners := [4][2]float64{{-off, -off}, {off, -off}, {-off, off}, {off, off}}

	placed := 0
	for _, tile := range s.Tiles() {
		center := cellPosition(tile.Cell, p.TileSize)
		for i, c := range corners {
			asset := cache.Get(keys[i%len(keys)])
			if asset == nil {
				continue
			}
			prop := mountModel("decoration", asset.Instantiate())
			prop.Pickable = false
			prop.SetPosition(center[0]+c[0], asset.Spec.GroundOffset, center[2]+c[1])
			prop.SetRotation(0, r.Float64()*2*math.Pi, 0)
			prop.SetScale(asset.Spec.Scale * p.Config.ScaleJitter.Random(r))
			s.Root.AddChild(prop)
			placed++
		}
	}
	return placed
}
