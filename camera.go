package grove

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Camera is a perspective camera. Width and Height are the surface size in
// pixels; the aspect ratio follows them.
type Camera struct {
	// FOV is the vertical field of view in degrees.
	FOV       float64
	Near, Far float64
	Position  Vec3
	Target    Vec3
	Up        Vec3

	width, height int

	view  mgl64.Mat4
	proj  mgl64.Mat4
	dirty bool
}

// NewCamera creates a perspective camera looking down -Z from the origin.
func NewCamera(fov, near, far float64, width, height int) *Camera {
	return &Camera{
		FOV:    fov,
		Near:   near,
		Far:    far,
		Target: Vec3{0, 0, -1},
		Up:     Vec3{0, 1, 0},
		width:  max(width, 1),
		height: max(height, 1),
		dirty:  true,
	}
}

// SetPosition moves the camera.
func (c *Camera) SetPosition(p Vec3) {
	c.Position = p
	c.dirty = true
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target Vec3) {
	c.Target = target
	c.dirty = true
}

// SetViewport resizes the camera's surface. Only the aspect ratio and
// pixel mapping change.
func (c *Camera) SetViewport(width, height int) {
	c.width = max(width, 1)
	c.height = max(height, 1)
	c.dirty = true
}

// Viewport returns the surface size in pixels.
func (c *Camera) Viewport() (width, height int) {
	return c.width, c.height
}

// Aspect returns width / height.
func (c *Camera) Aspect() float64 {
	return float64(c.width) / float64(c.height)
}

// MarkDirty forces a recomputation of the matrices.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

func (c *Camera) computeMatrices() {
	if !c.dirty {
		return
	}
	c.dirty = false
	c.view = mgl64.LookAtV(c.Position, c.Target, c.Up)
	c.proj = mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect(), c.Near, c.Far)
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl64.Mat4 {
	c.computeMatrices()
	return c.view
}

// Projection returns the camera-to-clip matrix.
func (c *Camera) Projection() mgl64.Mat4 {
	c.computeMatrices()
	return c.proj
}

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	c.computeMatrices()
	return c.proj.Mul4(c.view)
}

// WorldToScreen projects a world point to surface pixels (origin top-left).
// ok is false when the point is behind the camera or outside the depth range.
func (c *Camera) WorldToScreen(p Vec3) (s ScreenPoint, ok bool) {
	c.computeMatrices()
	clip := c.proj.Mul4(c.view).Mul4x1(p.Vec4(1))
	if clip[3] <= 0 {
		return ScreenPoint{}, false
	}
	win := mgl64.Project(p, c.view, c.proj, 0, 0, c.width, c.height)
	return ScreenPoint{X: win[0], Y: float64(c.height) - win[1]}, win[2] >= 0 && win[2] <= 1
}

// ScreenToNDC converts surface pixels to normalized device coordinates in
// [-1, 1], y up.
func (c *Camera) ScreenToNDC(p ScreenPoint) mgl64.Vec2 {
	return mgl64.Vec2{
		p.X/float64(c.width)*2 - 1,
		-(p.Y/float64(c.height))*2 + 1,
	}
}

// RayFromNDC builds a world-space ray from the near plane through ndc.
func (c *Camera) RayFromNDC(ndc mgl64.Vec2) (Ray, bool) {
	c.computeMatrices()
	winX := (ndc[0] + 1) / 2 * float64(c.width)
	winY := (ndc[1] + 1) / 2 * float64(c.height)
	near, err := mgl64.UnProject(Vec3{winX, winY, 0}, c.view, c.proj, 0, 0, c.width, c.height)
	if err != nil {
		return Ray{}, false
	}
	far, err := mgl64.UnProject(Vec3{winX, winY, 1}, c.view, c.proj, 0, 0, c.width, c.height)
	if err != nil {
		return Ray{}, false
	}
	dir := far.Sub(near)
	if dir.Len() == 0 {
		return Ray{}, false
	}
	return Ray{Origin: near, Direction: dir.Normalize()}, true
}

// RayAt builds the picking ray through a surface pixel.
func (c *Camera) RayAt(p ScreenPoint) (Ray, bool) {
	return c.RayFromNDC(c.ScreenToNDC(p))
}

// --- Orbit controls ---

// focusAnim holds active focus tweens for the orbit target.
type focusAnim struct {
	tweens [3]*gween.Tween
	done   [3]bool
}

// OrbitControls orbits a camera around a target point on a sphere with
// damped rotation and clamped distance and polar angle.
type OrbitControls struct {
	camera *Camera
	Target Vec3

	// Damping scales how much of the pending rotation is applied per update.
	Damping     float64
	MinDistance float64
	MaxDistance float64
	// MinPolar and MaxPolar bound the angle from the +Y axis, in radians.
	MinPolar    float64
	MaxPolar    float64
	RotateSpeed float64
	ZoomSpeed   float64

	deltaTheta float64
	deltaPhi   float64
	scale      float64

	focus *focusAnim
}

// NewOrbitControls attaches controls to cam orbiting target.
func NewOrbitControls(cam *Camera, target Vec3) *OrbitControls {
	cam.LookAt(target)
	return &OrbitControls{
		camera:      cam,
		Target:      target,
		Damping:     0.05,
		MinDistance: 0,
		MaxDistance: math.Inf(1),
		MinPolar:    0,
		MaxPolar:    math.Pi,
		RotateSpeed: 1,
		ZoomSpeed:   1,
		scale:       1,
	}
}

// Camera returns the controlled camera.
func (o *OrbitControls) Camera() *Camera {
	return o.camera
}

// Rotate queues an orbit by dTheta (around Y) and dPhi (toward the pole).
func (o *OrbitControls) Rotate(dTheta, dPhi float64) {
	o.deltaTheta += dTheta
	o.deltaPhi += dPhi
}

// RotatePixels converts a pointer drag in pixels to an orbit, where a drag
// across the full surface height is one full turn.
func (o *OrbitControls) RotatePixels(dx, dy float64) {
	_, h := o.camera.Viewport()
	o.Rotate(-2*math.Pi*dx/float64(h)*o.RotateSpeed, -2*math.Pi*dy/float64(h)*o.RotateSpeed)
}

// Dolly zooms by wheel steps. Positive steps move toward the target.
func (o *OrbitControls) Dolly(steps float64) {
	o.scale *= math.Pow(0.95, steps*o.ZoomSpeed)
}

// FocusOn eases the orbit target to p over duration seconds, keeping the
// camera's offset from the target.
func (o *OrbitControls) FocusOn(p Vec3, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.OutCubic
	}
	a := &focusAnim{}
	for k := 0; k < 3; k++ {
		a.tweens[k] = gween.New(float32(o.Target[k]), float32(p[k]), duration, easeFn)
	}
	o.focus = a
}

// Focusing reports whether a focus tween is running.
func (o *OrbitControls) Focusing() bool {
	return o.focus != nil
}

// Spherical returns the camera offset from the target as radius, azimuth
// (theta, around Y from +Z) and polar angle (phi, from +Y).
func (o *OrbitControls) Spherical() (radius, theta, phi float64) {
	off := o.camera.Position.Sub(o.Target)
	radius = off.Len()
	if radius == 0 {
		return 0, 0, 0
	}
	theta = math.Atan2(off[0], off[2])
	phi = math.Acos(clamp(off[1]/radius, -1, 1))
	return radius, theta, phi
}

// Update advances focus easing and applies damped rotation and zoom.
// It reports whether the camera moved.
func (o *OrbitControls) Update(dt float32) bool {
	prev := o.camera.Position
	prevTarget := o.Target

	if o.focus != nil {
		var next Vec3
		allDone := true
		for k := 0; k < 3; k++ {
			if o.focus.done[k] {
				next[k] = o.Target[k]
				continue
			}
			v, done := o.focus.tweens[k].Update(dt)
			next[k] = float64(v)
			o.focus.done[k] = done
			allDone = allDone && done
		}
		o.camera.Position = o.camera.Position.Add(next.Sub(o.Target))
		o.Target = next
		if allDone {
			o.focus = nil
		}
	}

	radius, theta, phi := o.Spherical()
	theta += o.deltaTheta * o.Damping
	phi += o.deltaPhi * o.Damping
	phi = clamp(phi, o.MinPolar, o.MaxPolar)
	phi = clamp(phi, 1e-6, math.Pi-1e-6)
	radius = clamp(radius*o.scale, o.MinDistance, o.MaxDistance)

	sinPhi := math.Sin(phi)
	o.camera.Position = o.Target.Add(Vec3{
		radius * sinPhi * math.Sin(theta),
		radius * math.Cos(phi),
		radius * sinPhi * math.Cos(theta),
	})
	o.camera.LookAt(o.Target)

	o.deltaTheta *= 1 - o.Damping
	o.deltaPhi *= 1 - o.Damping
	o.scale = 1

	return !o.camera.Position.ApproxEqual(prev) || !o.Target.ApproxEqual(prevTarget)
}
