package grove

import (
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default material color (no tint).
var ColorWhite = Color{1, 1, 1, 1}

// ParseColor parses a "#rrggbb" hex string into an opaque Color.
func ParseColor(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", hex, err)
	}
	return Color{c.R, c.G, c.B, 1}, nil
}

// MustColor is like ParseColor but panics on malformed input. Intended for
// package-level color tables.
func MustColor(hex string) Color {
	c, err := ParseColor(hex)
	if err != nil {
		panic("grove: " + err.Error())
	}
	return c
}

// RGB builds an opaque Color from a 0xRRGGBB value.
func RGB(v uint32) Color {
	return Color{
		R: float64((v>>16)&0xff) / 255,
		G: float64((v>>8)&0xff) / 255,
		B: float64(v&0xff) / 255,
		A: 1,
	}
}

// Hex formats the color as "#rrggbb", ignoring alpha.
func (c Color) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

// Mul multiplies two colors component-wise.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B, c.A * o.A}
}

// Lerp blends from c toward o in RGB space. Alpha is interpolated linearly.
func (c Color) Lerp(o Color, t float64) Color {
	m := colorful.Color{R: c.R, G: c.G, B: c.B}.BlendRgb(colorful.Color{R: o.R, G: o.G, B: o.B}, t)
	return Color{m.R, m.G, m.B, c.A + (o.A-c.A)*t}
}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Vec2 is a 2D vector used for screen-space positions.
type Vec2 struct {
	X, Y float64
}

// ScreenPoint is a pointer position in surface pixels, origin top-left.
type ScreenPoint = Vec2

// Vec3 is the 3D vector type used throughout the scene graph.
type Vec3 = mgl64.Vec3

// Range is a general-purpose min/max range.
type Range struct {
	Min float64 `mapstructure:"min" yaml:"min"`
	Max float64 `mapstructure:"max" yaml:"max"`
}

// Random returns a uniform value in [Min, Max) drawn from r.
func (rg Range) Random(r *rand.Rand) float64 {
	return rg.Min + r.Float64()*(rg.Max-rg.Min)
}

// Granularity selects how event timestamps map onto the grid.
type Granularity uint8

const (
	GranularityDay   Granularity = iota // events of one date along row 2
	GranularityWeek                     // weekday columns, 4-hour rows
	GranularityMonth                    // calendar layout of one month
)

// String returns the lowercase name used in config files and flags.
func (g Granularity) String() string {
	switch g {
	case GranularityDay:
		return "day"
	case GranularityWeek:
		return "week"
	case GranularityMonth:
		return "month"
	default:
		return fmt.Sprintf("granularity(%d)", uint8(g))
	}
}

// ParseGranularity maps "day", "week" or "month" to a Granularity.
func ParseGranularity(s string) (Granularity, error) {
	switch s {
	case "day":
		return GranularityDay, nil
	case "week":
		return GranularityWeek, nil
	case "month":
		return GranularityMonth, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
}

// NodeType distinguishes rendering behavior for a Node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // group node with no visual output
	NodeTypeMesh                      // renders Geometry with a Material
	NodeTypeLight                     // contributes a Light to shading
)

// RenderLayer orders broad scene strata before depth sorting. Lower layers
// draw first.
const (
	LayerSky uint8 = iota
	LayerBase
	LayerGround
	LayerProps
	LayerOverlay
)

// EventType identifies a kind of interaction event.
type EventType uint8

const (
	EventPointerDown  EventType = iota // fires when a pointer button is pressed
	EventPointerUp                     // fires when a pointer button is released
	EventPointerMove                   // fires when the pointer moves without a button
	EventClick                         // fires on press then release without dragging
	EventDrag                          // fires each frame while dragging
	EventWheel                         // fires on scroll wheel movement
)

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)
