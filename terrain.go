package grove

import (
	"image"
	"image/color"
	"math/rand/v2"
	"time"
)

const (
	tileThickness = 0.3
	slabDepth     = 4
	slabY         = -2.2
	mudTexSize    = 128
	mudSpeckles   = 900
)

var (
	tileColorA = MustColor("#447F03")
	tileColorB = MustColor("#6ec90a")
	slabColor  = MustColor("#964B00")
	mudBase    = MustColor("#5C4033")
	mudDark    = MustColor("#4B3621")
	mudLight   = MustColor("#8B4513")
)

// cellPosition returns the world position of a cell's center on the
// ground plane.
func cellPosition(c GridCell, tileSize float64) Vec3 {
	return Vec3{float64(c.Col) * tileSize, 0, float64(c.Row) * tileSize}
}

// gridCenter returns the centroid of a grid laid out by cellPosition.
func gridCenter(g GridSize, tileSize float64) Vec3 {
	return Vec3{
		float64(g.Cols)*tileSize/2 - tileSize/2,
		0,
		float64(g.Rows)*tileSize/2 - tileSize/2,
	}
}

// terrainParams is the input of buildTerrain.
type terrainParams struct {
	Grid        GridSize
	TileSize    float64
	Granularity Granularity
	Reference   time.Time
	Map         MapOptions
}

// buildTerrain adds the checkered tiles and the mud slab beneath them. Each
// tile is tagged with its cell and calendar date.
func buildTerrain(s *SceneGraph, p terrainParams, r *rand.Rand) *Node {
	ground := NewContainer("terrain")
	s.Root.AddChild(ground)

	tileGeo := s.OwnGeometry(NewBox(p.TileSize, tileThickness, p.TileSize))
	for row := 0; row < p.Grid.Rows; row++ {
		for col := 0; col < p.Grid.Cols; col++ {
			cell := GridCell{Row: row, Col: col}
			c := tileColorA
			if (row+col)%2 == 1 {
				c = tileColorB
			}
			tile := NewMesh("tile", tileGeo, NewMaterial(c))
			tile.RenderLayer = LayerGround
			pos := cellPosition(cell, p.TileSize)
			tile.SetPosition(pos[0], pos[1], pos[2])
			ground.AddChild(tile)
			s.Tag(tile, Entity{
				Kind: EntityTile,
				Cell: cell,
				Date: TileDate(p.Reference, p.Granularity, cell, p.Map),
			})
		}
	}

	center := gridCenter(p.Grid, p.TileSize)
	slabGeo := s.OwnGeometry(NewBox(float64(p.Grid.Cols)*p.TileSize, slabDepth, float64(p.Grid.Rows)*p.TileSize))
	mat := NewMaterial(slabColor)
	mat.Texture = s.OwnTexture(NewTexture(mudTexture(r)))
	slab := NewMesh("mud", slabGeo, mat)
	slab.RenderLayer = LayerBase
	slab.Pickable = false
	slab.SetPosition(center[0], slabY, center[2])
	ground.AddChild(slab)
	return ground
}

// mudTexture paints a speckled soil image.
func mudTexture(r *rand.Rand) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, mudTexSize, mudTexSize))
	base := mudBase.toRGBA()
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = base.R, base.G, base.B, base.A
	}
	speckles := [2]color.RGBA{mudDark.toRGBA(), mudLight.toRGBA()}
	for i := 0; i < mudSpeckles; i++ {
		x, y := r.IntN(mudTexSize), r.IntN(mudTexSize)
		size := 1 + r.IntN(3)
		c := speckles[r.IntN(2)]
		for dy := 0; dy < size && y+dy < mudTexSize; dy++ {
			for dx := 0; dx < size && x+dx < mudTexSize; dx++ {
				img.SetRGBA(x+dx, y+dy, c)
			}
		}
	}
	return img
}
