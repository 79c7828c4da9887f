package grove

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// Canvas is the engine's single drawable area. At most one generation holds
// it at a time; a new generation can only acquire it after the previous
// holder released its surface.
type Canvas struct {
	w, h   int
	holder *Surface
}

// NewCanvas creates a canvas sized to its container.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{w: max(w, 1), h: max(h, 1)}
}

// Size returns the canvas size in pixels.
func (c *Canvas) Size() (int, int) {
	return c.w, c.h
}

// Holder returns the owner label of the surface currently holding the
// canvas, or "" when free.
func (c *Canvas) Holder() string {
	if c.holder == nil {
		return ""
	}
	return c.holder.owner
}

// Acquire hands the canvas to owner. It fails with ErrCanvasBusy while
// another surface is still held.
func (c *Canvas) Acquire(owner string) (*Surface, error) {
	if c.holder != nil {
		return nil, fmt.Errorf("acquire canvas for %s: %w (%s)", owner, ErrCanvasBusy, c.holder.owner)
	}
	s := &Surface{canvas: c, owner: owner, w: c.w, h: c.h}
	c.holder = s
	return s, nil
}

// Resize changes the canvas size and resizes the held surface, if any.
func (c *Canvas) Resize(w, h int) {
	c.w, c.h = max(w, 1), max(h, 1)
	if c.holder != nil {
		c.holder.resize(c.w, c.h)
	}
}

// Surface is a generation's render target on the canvas. The GPU image is
// allocated on first draw and reallocated when the size changes.
type Surface struct {
	canvas   *Canvas
	owner    string
	image    *ebiten.Image
	w, h     int
	released bool
}

// Image returns the render target, allocating it if needed. Returns nil
// after Release.
func (s *Surface) Image() *ebiten.Image {
	if s.released {
		return nil
	}
	if s.image == nil {
		s.image = ebiten.NewImage(s.w, s.h)
	}
	return s.image
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int {
	return s.w
}

// Height returns the surface height in pixels.
func (s *Surface) Height() int {
	return s.h
}

// Allocated reports whether a GPU image is currently held.
func (s *Surface) Allocated() bool {
	return s.image != nil
}

func (s *Surface) resize(w, h int) {
	if s.w == w && s.h == h {
		return
	}
	s.w, s.h = w, h
	if s.image != nil {
		s.image.Deallocate()
		s.image = nil
	}
}

// Release deallocates the render target and returns the canvas. Safe to
// call repeatedly.
func (s *Surface) Release() {
	if s.released {
		return
	}
	s.released = true
	if s.image != nil {
		s.image.Deallocate()
		s.image = nil
	}
	if s.canvas != nil && s.canvas.holder == s {
		s.canvas.holder = nil
	}
}

// Released reports whether Release has been called.
func (s *Surface) Released() bool {
	return s.released
}
