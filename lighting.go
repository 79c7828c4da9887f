package grove

import (
	"image"
	"math"
	"math/rand/v2"
)

const (
	presetGroupName = "preset"
	skyRadius       = 500
	skyTexSize      = 128
	backgroundTexH  = 128
)

// celestial is a sun or moon disc with its halo.
type celestial struct {
	position    Vec3
	radius      float64
	color       Color
	opacity     float64
	glowRadius  float64
	glowOpacity float64
}

// lightPreset is one complete day or night lighting setup.
type lightPreset struct {
	ambient     *Light
	directional *Light
	points      []*Light
	sky         [3]Color // center, middle and rim of the sky dome gradient
	background  [2]Color // top and bottom of the surface backdrop
	body        celestial
	motes       bool
}

func dayPreset() lightPreset {
	sunPos := Vec3{20, 30, -20}
	return lightPreset{
		ambient:     NewAmbientLight(ColorWhite, 1.0),
		directional: NewDirectionalLight(MustColor("#ffffcc"), 1.5, sunPos),
		points: []*Light{
			NewPointLight(MustColor("#ffcc88"), 1.0, 100, Vec3{-10, 15, 10}),
		},
		sky:        [3]Color{MustColor("#87CEEB"), MustColor("#B0E0E6"), MustColor("#E0F7FF")},
		background: [2]Color{MustColor("#ffd6e8"), MustColor("#9f8eff")},
		body: celestial{
			position: sunPos, radius: 2, color: MustColor("#ffff00"), opacity: 0.9,
			glowRadius: 2.5, glowOpacity: 0.3,
		},
	}
}

func nightPreset() lightPreset {
	moonPos := Vec3{-20, 25, -15}
	return lightPreset{
		ambient:     NewAmbientLight(MustColor("#6699ff"), 0.4),
		directional: NewDirectionalLight(MustColor("#9999ff"), 0.8, moonPos),
		points: []*Light{
			NewPointLight(MustColor("#ffaa44"), 0.6, 50, Vec3{-10, 12, 15}),
			NewPointLight(MustColor("#88bbff"), 0.4, 80, Vec3{20, 10, -5}),
		},
		sky:        [3]Color{MustColor("#1a1a2e"), MustColor("#16213e"), MustColor("#0f3460")},
		background: [2]Color{MustColor("#4a6fa5"), MustColor("#2c3e50")},
		body: celestial{
			position: moonPos, radius: 1.5, color: ColorWhite, opacity: 0.9,
			glowRadius: 2, glowOpacity: 0.2,
		},
		motes: true,
	}
}

// presetResult is what applyPreset leaves behind for the generation.
type presetResult struct {
	Motes      *MoteField // nil by day
	Background *Texture
}

// applyPreset replaces the scene's lights and preset props with the day or
// night set. Calling it again switches presets without accumulating lights.
func applyPreset(s *SceneGraph, night bool, center Vec3, motes MoteConfig, r *rand.Rand) presetResult {
	RemoveLights(s.Root)
	if old := s.Root.FindChild(presetGroupName); old != nil {
		if bg, ok := old.UserData.(*Texture); ok {
			s.ReleaseTexture(bg)
		}
		s.ReleaseSubtree(old)
	}

	p := dayPreset()
	if night {
		p = nightPreset()
	}

	group := NewContainer(presetGroupName)
	group.Pickable = false
	s.Root.AddChild(group)

	group.AddChild(NewLightNode("ambient", p.ambient))
	group.AddChild(NewLightNode("directional", p.directional))
	for _, l := range p.points {
		group.AddChild(NewLightNode("point", l))
	}

	sky := NewMesh("sky", s.OwnGeometry(NewSphere(skyRadius, 32, 16)), &Material{
		Color:   ColorWhite,
		Opacity: 1,
		Texture: s.OwnTexture(NewTexture(radialGradient(skyTexSize, p.sky))),
		Unlit:   true,
		Side:    SideBack,
	})
	sky.RenderLayer = LayerSky
	sky.SetPosition(center[0], 0, center[2])
	group.AddChild(sky)

	addCelestial(s, group, p.body)

	var res presetResult
	if p.motes {
		res.Motes = newMoteField(s, motes, r)
		group.AddChild(res.Motes.Node())
	}
	res.Background = s.OwnTexture(NewTexture(verticalGradient(backgroundTexH, p.background[0], p.background[1])))
	group.UserData = res.Background
	return res
}

func addCelestial(s *SceneGraph, parent *Node, c celestial) {
	disc := NewMesh("celestial", s.OwnGeometry(NewSphere(c.radius, 16, 12)),
		&Material{Color: c.color, Opacity: c.opacity, Unlit: true})
	disc.SetPosition(c.position[0], c.position[1], c.position[2])
	parent.AddChild(disc)

	glow := NewMesh("glow", s.OwnGeometry(NewSphere(c.glowRadius, 16, 12)),
		&Material{Color: c.color, Opacity: c.glowOpacity, Unlit: true})
	glow.SetPosition(c.position[0], c.position[1], c.position[2])
	parent.AddChild(glow)
}

// radialGradient paints a square image blending stops[0] at the center
// through stops[1] at half radius to stops[2] at the rim.
func radialGradient(size int, stops [3]Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	half := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)+0.5-half, float64(y)+0.5-half) / half
			var c Color
			if d < 0.5 {
				c = stops[0].Lerp(stops[1], d/0.5)
			} else {
				c = stops[1].Lerp(stops[2], clamp01((d-0.5)/0.5))
			}
			img.SetRGBA(x, y, c.toRGBA())
		}
	}
	return img
}

// verticalGradient paints a 1-pixel-wide column from top to bottom.
func verticalGradient(h int, top, bottom Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, h))
	for y := 0; y < h; y++ {
		img.SetRGBA(0, y, top.Lerp(bottom, float64(y)/float64(h-1)).toRGBA())
	}
	return img
}
