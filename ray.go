package grove

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

const rayEpsilon = 1e-9

// Ray is a half-line in world space. Direction is unit length.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Hit is one intersection of a ray with a mesh.
type Hit struct {
	Node     *Node
	Distance float64
	Point    Vec3
}

// Raycast intersects ray with every visible, pickable mesh under root and
// returns the hits sorted nearest first. A mesh contributes at most its
// nearest triangle. World transforms are refreshed first.
func Raycast(root *Node, ray Ray) []Hit {
	UpdateTransforms(root)
	var hits []Hit
	root.Traverse(func(n *Node) bool {
		if !n.Visible || !n.Pickable {
			return false
		}
		if n.Type != NodeTypeMesh || n.Geometry == nil || n.Geometry.IsDisposed() {
			return true
		}
		if h, ok := intersectMesh(n, ray); ok {
			hits = append(hits, h)
		}
		return true
	})
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

// intersectMesh tests the ray against one mesh in its local space.
func intersectMesh(n *Node, ray Ray) (Hit, bool) {
	inv := n.worldMatrix.Inv()
	if inv == (mgl64.Mat4{}) {
		return Hit{}, false
	}
	origin := mgl64.TransformCoordinate(ray.Origin, inv)
	dir := mgl64.TransformNormal(ray.Direction, inv)
	if dir.Len() < rayEpsilon {
		return Hit{}, false
	}

	geo := n.Geometry
	if _, ok := intersectAABB(origin, dir, geo.Bounds()); !ok {
		return Hit{}, false
	}

	side := SideFront
	if n.Material != nil {
		side = n.Material.Side
	}
	best := math.Inf(1)
	for i := 0; i < geo.TriangleCount(); i++ {
		a, b, c := geo.Triangle(i)
		if t, ok := intersectTriangle(origin, dir, a, b, c, side); ok && t < best {
			best = t
		}
	}
	if math.IsInf(best, 1) {
		return Hit{}, false
	}
	world := mgl64.TransformCoordinate(origin.Add(dir.Mul(best)), n.worldMatrix)
	return Hit{Node: n, Distance: world.Sub(ray.Origin).Len(), Point: world}, true
}

// intersectAABB is the slab test. It returns the entry distance (0 when
// the origin is inside) in units of dir.
func intersectAABB(origin, dir Vec3, box AABB) (float64, bool) {
	tmin, tmax := math.Inf(-1), math.Inf(1)
	for k := 0; k < 3; k++ {
		if math.Abs(dir[k]) < rayEpsilon {
			if origin[k] < box.Min[k] || origin[k] > box.Max[k] {
				return 0, false
			}
			continue
		}
		inv := 1 / dir[k]
		t1 := (box.Min[k] - origin[k]) * inv
		t2 := (box.Max[k] - origin[k]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	return math.Max(tmin, 0), true
}

// intersectTriangle is the Möller–Trumbore test. side filters by facing:
// counter-clockwise triangles face the ray when det > 0.
func intersectTriangle(origin, dir, a, b, c Vec3, side Side) (float64, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := dir.Cross(e2)
	det := e1.Dot(p)
	switch side {
	case SideFront:
		if det < rayEpsilon {
			return 0, false
		}
	case SideBack:
		if det > -rayEpsilon {
			return 0, false
		}
	default:
		if math.Abs(det) < rayEpsilon {
			return 0, false
		}
	}
	invDet := 1 / det
	s := origin.Sub(a)
	u := s.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := dir.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * invDet
	if t <= rayEpsilon {
		return 0, false
	}
	return t, true
}
