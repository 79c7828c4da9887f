package grove

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vec3
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box extent along each axis.
func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Geometry is an indexed triangle list in local space. It is immutable once
// built and may be shared between nodes; only the creator calls Dispose.
type Geometry struct {
	Positions []Vec3
	// UVs holds texture coordinates in image space (v grows downward).
	// Empty for untextured geometry.
	UVs     []mgl64.Vec2
	Indices []uint16

	bounds   AABB
	disposed bool
}

// NewGeometry builds a geometry from raw buffers and computes its bounds.
// Panics when an index is out of range.
func NewGeometry(positions []Vec3, uvs []mgl64.Vec2, indices []uint16) *Geometry {
	for _, i := range indices {
		if int(i) >= len(positions) {
			panic("grove: geometry index out of range")
		}
	}
	g := &Geometry{Positions: positions, UVs: uvs, Indices: indices}
	g.bounds = computeBounds(positions)
	return g
}

func computeBounds(positions []Vec3) AABB {
	if len(positions) == 0 {
		return AABB{}
	}
	b := AABB{Min: positions[0], Max: positions[0]}
	for _, p := range positions[1:] {
		for k := 0; k < 3; k++ {
			b.Min[k] = math.Min(b.Min[k], p[k])
			b.Max[k] = math.Max(b.Max[k], p[k])
		}
	}
	return b
}

// Bounds returns the local-space bounding box.
func (g *Geometry) Bounds() AABB {
	return g.bounds
}

// TriangleCount returns the number of triangles.
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// Triangle returns the corners of triangle i.
func (g *Geometry) Triangle(i int) (a, b, c Vec3) {
	return g.Positions[g.Indices[3*i]], g.Positions[g.Indices[3*i+1]], g.Positions[g.Indices[3*i+2]]
}

// Dispose releases the buffers. Disposed geometry renders and picks nothing.
func (g *Geometry) Dispose() {
	g.Positions = nil
	g.UVs = nil
	g.Indices = nil
	g.disposed = true
}

// IsDisposed reports whether Dispose has been called.
func (g *Geometry) IsDisposed() bool {
	return g.disposed
}

// --- Primitive builders ---

type geometryBuilder struct {
	pos []Vec3
	uv  []mgl64.Vec2
	idx []uint16
}

// quad appends a counter-clockwise quad a-b-c-d (seen from its front).
func (b *geometryBuilder) quad(a, bb, c, d Vec3) {
	base := uint16(len(b.pos))
	b.pos = append(b.pos, a, bb, c, d)
	b.uv = append(b.uv, mgl64.Vec2{0, 1}, mgl64.Vec2{1, 1}, mgl64.Vec2{1, 0}, mgl64.Vec2{0, 0})
	b.idx = append(b.idx, base, base+1, base+2, base, base+2, base+3)
}

func (b *geometryBuilder) build() *Geometry {
	return NewGeometry(b.pos, b.uv, b.idx)
}

// NewBox creates a box centered on the origin.
func NewBox(width, height, depth float64) *Geometry {
	hx, hy, hz := width/2, height/2, depth/2
	var b geometryBuilder
	b.quad(Vec3{-hx, -hy, hz}, Vec3{hx, -hy, hz}, Vec3{hx, hy, hz}, Vec3{-hx, hy, hz})     // +Z
	b.quad(Vec3{hx, -hy, -hz}, Vec3{-hx, -hy, -hz}, Vec3{-hx, hy, -hz}, Vec3{hx, hy, -hz}) // -Z
	b.quad(Vec3{hx, -hy, hz}, Vec3{hx, -hy, -hz}, Vec3{hx, hy, -hz}, Vec3{hx, hy, hz})     // +X
	b.quad(Vec3{-hx, -hy, -hz}, Vec3{-hx, -hy, hz}, Vec3{-hx, hy, hz}, Vec3{-hx, hy, -hz}) // -X
	b.quad(Vec3{-hx, hy, hz}, Vec3{hx, hy, hz}, Vec3{hx, hy, -hz}, Vec3{-hx, hy, -hz})     // +Y
	b.quad(Vec3{-hx, -hy, -hz}, Vec3{hx, -hy, -hz}, Vec3{hx, -hy, hz}, Vec3{-hx, -hy, hz}) // -Y
	return b.build()
}

// NewPlane creates a plane in the XY plane facing +Z, centered on the origin.
// Rotate by -π/2 about X to lay it flat facing up.
func NewPlane(width, height float64) *Geometry {
	hx, hy := width/2, height/2
	var b geometryBuilder
	b.quad(Vec3{-hx, -hy, 0}, Vec3{hx, -hy, 0}, Vec3{hx, hy, 0}, Vec3{-hx, hy, 0})
	return b.build()
}

// NewCylinder creates a capped cylinder (or frustum) along Y, centered on
// the origin. A zero radius omits that cap.
func NewCylinder(radiusTop, radiusBottom, height float64, segments int) *Geometry {
	if segments < 3 {
		segments = 3
	}
	hy := height / 2
	ring := func(r, y float64, i int) Vec3 {
		theta := float64(i) / float64(segments) * 2 * math.Pi
		return Vec3{r * math.Sin(theta), y, r * math.Cos(theta)}
	}

	var b geometryBuilder
	for i := 0; i < segments; i++ {
		b.quad(ring(radiusBottom, -hy, i), ring(radiusBottom, -hy, i+1),
			ring(radiusTop, hy, i+1), ring(radiusTop, hy, i))
	}
	if radiusTop > 0 {
		b.fan(Vec3{0, hy, 0}, func(i int) Vec3 { return ring(radiusTop, hy, i) }, segments, false)
	}
	if radiusBottom > 0 {
		b.fan(Vec3{0, -hy, 0}, func(i int) Vec3 { return ring(radiusBottom, -hy, i) }, segments, true)
	}
	return b.build()
}

// fan appends a triangle fan around center. flip reverses winding for caps
// facing -Y.
func (b *geometryBuilder) fan(center Vec3, at func(int) Vec3, segments int, flip bool) {
	c := uint16(len(b.pos))
	b.pos = append(b.pos, center)
	b.uv = append(b.uv, mgl64.Vec2{0.5, 0.5})
	for i := 0; i <= segments; i++ {
		theta := float64(i) / float64(segments) * 2 * math.Pi
		b.pos = append(b.pos, at(i))
		b.uv = append(b.uv, mgl64.Vec2{0.5 + 0.5*math.Sin(theta), 0.5 - 0.5*math.Cos(theta)})
	}
	for i := 0; i < segments; i++ {
		p0, p1 := c+1+uint16(i), c+2+uint16(i)
		if flip {
			b.idx = append(b.idx, c, p1, p0)
		} else {
			b.idx = append(b.idx, c, p0, p1)
		}
	}
}

// NewCone creates a cone along Y with its base at -height/2.
func NewCone(radius, height float64, segments int) *Geometry {
	return NewCylinder(0, radius, height, segments)
}

// NewSphere creates a UV sphere centered on the origin.
func NewSphere(radius float64, widthSegments, heightSegments int) *Geometry {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}
	var b geometryBuilder
	grid := make([][]uint16, heightSegments+1)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		theta := v * math.Pi
		grid[iy] = make([]uint16, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			phi := u * 2 * math.Pi
			grid[iy][ix] = uint16(len(b.pos))
			b.pos = append(b.pos, Vec3{
				-radius * math.Cos(phi) * math.Sin(theta),
				radius * math.Cos(theta),
				radius * math.Sin(phi) * math.Sin(theta),
			})
			b.uv = append(b.uv, mgl64.Vec2{u, v})
		}
	}
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			bb := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 {
				b.idx = append(b.idx, a, bb, d)
			}
			if iy != heightSegments-1 {
				b.idx = append(b.idx, bb, c, d)
			}
		}
	}
	return b.build()
}
