package grove

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Label canvas and plane dimensions.
const (
	labelCanvasW = 256
	labelCanvasH = 64
	labelFontPx  = 20
	labelWidth   = 1.5
	labelHeight  = 0.4
	labelLift    = 0.4
	labelInset   = 0.3
	labelOpacity = 0.4
)

// labelRenderer rasterizes short strings onto label canvases. A face is not
// safe for concurrent use, so each composer owns one renderer.
type labelRenderer struct {
	face   font.Face
	ascent int
	height int
}

func newLabelRenderer() (*labelRenderer, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse label font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    labelFontPx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create label face: %w", err)
	}
	m := face.Metrics()
	return &labelRenderer{face: face, ascent: m.Ascent.Ceil(), height: m.Ascent.Ceil() + m.Descent.Ceil()}, nil
}

// rasterize draws text centered on a transparent label canvas.
func (lr *labelRenderer) rasterize(text string, c Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, labelCanvasW, labelCanvasH))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA(c.toRGBA())),
		Face: lr.face,
	}
	w := d.MeasureString(text).Ceil()
	x := (labelCanvasW - w) / 2
	y := (labelCanvasH-lr.height)/2 + lr.ascent
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
	return img
}

// labelColor is the label ink for the preset: black by day, white at night.
func labelColor(night bool) Color {
	if night {
		return ColorWhite
	}
	return Color{0, 0, 0, 1}
}

// labelTiles adds a flat date label near the upper edge of every tile. All
// labels share one plane geometry; each owns its texture.
func labelTiles(s *SceneGraph, lr *labelRenderer, layout string, tileSize float64, night bool) {
	plane := s.OwnGeometry(NewPlane(labelWidth, labelHeight))
	ink := labelColor(night)
	for _, tile := range s.Tiles() {
		tex := s.OwnTexture(NewTexture(lr.rasterize(tile.Date.Format(layout), ink)))
		mat := &Material{Color: ColorWhite, Opacity: labelOpacity, Texture: tex, Unlit: true, Side: SideDouble}
		n := NewMesh("label", plane, mat)
		n.Pickable = false
		n.RenderLayer = LayerOverlay
		n.SetPosition(0, labelLift, -tileSize/2+labelInset)
		n.SetRotation(-math.Pi/2, 0, 0)
		tile.Node.AddChild(n)
	}
}
