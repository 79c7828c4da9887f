package grove

import "math"

// LightKind selects a light's contribution model.
type LightKind uint8

const (
	LightAmbient     LightKind = iota // uniform fill, no direction
	LightDirectional                  // parallel rays from Position toward the origin
	LightPoint                        // radial falloff from Position
)

// Light is a light source attached to the scene through a light node.
type Light struct {
	Kind      LightKind
	Color     Color
	Intensity float64
	// Position is the light's local position; NewLightNode copies it onto
	// the node.
	Position Vec3
	// Range bounds a point light's reach. Zero means unbounded.
	Range float64
	// Enabled determines whether this light contributes to shading.
	Enabled bool
}

// NewAmbientLight creates an enabled ambient light.
func NewAmbientLight(c Color, intensity float64) *Light {
	return &Light{Kind: LightAmbient, Color: c, Intensity: intensity, Enabled: true}
}

// NewDirectionalLight creates an enabled directional light shining from
// pos toward the origin.
func NewDirectionalLight(c Color, intensity float64, pos Vec3) *Light {
	return &Light{Kind: LightDirectional, Color: c, Intensity: intensity, Position: pos, Enabled: true}
}

// NewPointLight creates an enabled point light.
func NewPointLight(c Color, intensity, rng float64, pos Vec3) *Light {
	return &Light{Kind: LightPoint, Color: c, Intensity: intensity, Range: rng, Position: pos, Enabled: true}
}

// CountLights returns the number of light nodes under root.
func CountLights(root *Node) int {
	n := 0
	root.Traverse(func(nd *Node) bool {
		if nd.Type == NodeTypeLight {
			n++
		}
		return true
	})
	return n
}

// RemoveLights detaches and disposes every light node under root.
// It returns how many were removed.
func RemoveLights(root *Node) int {
	var found []*Node
	root.Traverse(func(nd *Node) bool {
		if nd.Type == NodeTypeLight {
			found = append(found, nd)
			return false
		}
		return true
	})
	for _, nd := range found {
		nd.Dispose()
	}
	return len(found)
}

// worldLight is a light resolved to world space for one frame.
type worldLight struct {
	kind      LightKind
	r, g, b   float64
	position  Vec3
	direction Vec3 // unit vector toward the light (directional only)
	rng       float64
}

// lightRig is the per-frame set of enabled lights.
type lightRig struct {
	ambient [3]float64
	lights  []worldLight
}

// collect gathers enabled lights under root. World transforms must be
// current.
func (rig *lightRig) collect(root *Node) {
	rig.ambient = [3]float64{}
	rig.lights = rig.lights[:0]
	root.Traverse(func(nd *Node) bool {
		if !nd.Visible {
			return false
		}
		if nd.Type != NodeTypeLight || nd.Light == nil || !nd.Light.Enabled {
			return true
		}
		l := nd.Light
		r, g, b := l.Color.R*l.Intensity, l.Color.G*l.Intensity, l.Color.B*l.Intensity
		if l.Kind == LightAmbient {
			rig.ambient[0] += r
			rig.ambient[1] += g
			rig.ambient[2] += b
			return true
		}
		pos := nd.worldMatrix.Col(3).Vec3()
		wl := worldLight{kind: l.Kind, r: r, g: g, b: b, position: pos, rng: l.Range}
		if l.Kind == LightDirectional && pos.Len() > 0 {
			wl.direction = pos.Normalize()
		}
		rig.lights = append(rig.lights, wl)
		return true
	})
}

// shade returns the light arriving at point p with unit normal n.
func (rig *lightRig) shade(p, n Vec3) (r, g, b float64) {
	r, g, b = rig.ambient[0], rig.ambient[1], rig.ambient[2]
	for i := range rig.lights {
		l := &rig.lights[i]
		var lambert float64
		switch l.kind {
		case LightDirectional:
			lambert = math.Max(0, n.Dot(l.direction))
		case LightPoint:
			toLight := l.position.Sub(p)
			d := toLight.Len()
			if d == 0 {
				continue
			}
			lambert = math.Max(0, n.Dot(toLight.Mul(1/d)))
			if l.rng > 0 {
				f := clamp01(1 - d/l.rng)
				lambert *= f * f
			}
		}
		r += l.r * lambert
		g += l.g * lambert
		b += l.b * lambert
	}
	return r, g, b
}
