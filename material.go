package grove

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Side selects which triangle faces a material draws and picks.
type Side uint8

const (
	SideFront  Side = iota // counter-clockwise faces only
	SideBack               // clockwise faces only (inside of a dome)
	SideDouble             // both
)

// Material describes how a mesh is shaded.
type Material struct {
	Color   Color
	Opacity float64
	// Texture multiplies Color when set.
	Texture *Texture
	// Unlit materials ignore scene lights.
	Unlit bool
	Side  Side
}

// NewMaterial returns an opaque, lit, front-sided material.
func NewMaterial(c Color) *Material {
	return &Material{Color: c, Opacity: 1}
}

// Clone returns a copy sharing the texture.
func (m *Material) Clone() *Material {
	c := *m
	return &c
}

// Transparent reports whether the material needs blending.
func (m *Material) Transparent() bool {
	return m.Opacity < 1 || m.Color.A < 1
}

// Texture is a CPU-side image with a lazily uploaded GPU copy. The GPU copy
// is released by Dispose; the CPU image is kept so the texture can be
// re-uploaded by a later owner.
type Texture struct {
	src *image.RGBA
	gpu *ebiten.Image
}

// NewTexture wraps src. src must not be mutated afterwards.
func NewTexture(src *image.RGBA) *Texture {
	return &Texture{src: src}
}

// Source returns the CPU image.
func (t *Texture) Source() *image.RGBA {
	return t.src
}

// Size returns the texture dimensions in pixels.
func (t *Texture) Size() (int, int) {
	b := t.src.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the GPU image, uploading it on first use.
func (t *Texture) Image() *ebiten.Image {
	if t.gpu == nil {
		t.gpu = ebiten.NewImageFromImage(t.src)
	}
	return t.gpu
}

// Uploaded reports whether a GPU copy is currently held.
func (t *Texture) Uploaded() bool {
	return t.gpu != nil
}

// Dispose deallocates the GPU copy. Safe to call repeatedly.
func (t *Texture) Dispose() {
	if t.gpu != nil {
		t.gpu.Deallocate()
		t.gpu = nil
	}
}
