package grove

import (
	"image"
	"image/color"
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// maxBatchVertices keeps batches within uint16 indices.
const maxBatchVertices = 65535 - 6

var (
	whiteImage    *ebiten.Image
	whiteSubImage *ebiten.Image
)

// ensureWhiteImage lazily creates the 3×3 white image whose center pixel
// fills untextured triangles.
func ensureWhiteImage() *ebiten.Image {
	if whiteSubImage == nil {
		whiteImage = ebiten.NewImage(3, 3)
		whiteImage.Fill(color.White)
		whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}

// clipVertex is a vertex in clip space with its texture coordinate in
// source pixels.
type clipVertex struct {
	pos mgl64.Vec4
	src mgl64.Vec2
}

// drawTri is one projected, shaded triangle waiting to be sorted.
type drawTri struct {
	verts [3]ebiten.Vertex
	tex   *Texture // nil for untextured
	layer uint8
	depth float64
	order int
}

// Renderer draws generations with a software projection pipeline: mesh
// triangles are transformed and shaded on the CPU, painter-sorted by render
// layer then depth, and submitted with DrawTriangles in texture batches.
type Renderer struct {
	rig   lightRig
	tris  []drawTri
	verts []ebiten.Vertex
	inds  []uint16
	clip  []clipVertex

	debug  bool
	logger *zap.Logger
	stats  debugStats
}

// NewRenderer returns a renderer. When debug is set, per-frame statistics
// are logged at debug level.
func NewRenderer(logger *zap.Logger, debug bool) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{logger: logger.Named("render"), debug: debug}
}

// RenderFrame draws g onto target.
func (r *Renderer) RenderFrame(target *Surface, g *Generation) {
	img := target.Image()
	if img == nil {
		return
	}
	r.stats = debugStats{}
	t0 := time.Now()

	img.Clear()
	if g.Background != nil {
		drawBackdrop(img, g.Background)
	}

	r.rig.collect(g.Scene.Root)
	r.collect(g.Scene.Root, g.Camera)
	t1 := time.Now()
	r.stats.traverseTime = t1.Sub(t0)

	paintersSort(r.tris)
	t2 := time.Now()
	r.stats.sortTime = t2.Sub(t1)

	r.submit(img)
	r.stats.submitTime = time.Since(t2)
	r.stats.triangleCount = len(r.tris)
	if r.debug {
		r.stats.log(r.logger)
	}
}

// drawBackdrop stretches the background gradient over the whole target.
func drawBackdrop(dst *ebiten.Image, bg *Texture) {
	src := bg.Image()
	sw, sh := bg.Size()
	b := dst.Bounds()
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(b.Dx())/float64(sw), float64(b.Dy())/float64(sh))
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(src, &op)
}

// collect projects every visible mesh triangle under root into r.tris.
func (r *Renderer) collect(root *Node, cam *Camera) {
	r.tris = r.tris[:0]
	vp := cam.ViewProjection()
	w, h := cam.Viewport()
	order := 0

	root.Traverse(func(n *Node) bool {
		if !n.Visible {
			return false
		}
		if n.Type != NodeTypeMesh || n.Geometry == nil || n.Geometry.IsDisposed() || n.Material == nil {
			return true
		}
		geo, mat := n.Geometry, n.Material
		world := n.worldMatrix
		mvp := vp.Mul4(world)

		var tw, th float64
		if mat.Texture != nil {
			iw, ih := mat.Texture.Size()
			tw, th = float64(iw), float64(ih)
		}
		alpha := clamp01(mat.Opacity * mat.Color.A)
		if alpha == 0 {
			return true
		}

		for i := 0; i < geo.TriangleCount(); i++ {
			ia, ib, ic := geo.Indices[i*3], geo.Indices[i*3+1], geo.Indices[i*3+2]
			var tri [3]clipVertex
			for k, idx := range [3]uint16{ia, ib, ic} {
				tri[k].pos = mvp.Mul4x1(geo.Positions[idx].Vec4(1))
				if mat.Texture != nil && int(idx) < len(geo.UVs) {
					uv := geo.UVs[idx]
					tri[k].src = mgl64.Vec2{uv[0] * tw, uv[1] * th}
				}
			}
			if outsideFrustum(tri) {
				r.stats.culled++
				continue
			}

			// Lighting uses the flat world-space face normal.
			cr, cg, cb := mat.Color.R, mat.Color.G, mat.Color.B
			if !mat.Unlit {
				pa := mgl64.TransformCoordinate(geo.Positions[ia], world)
				pb := mgl64.TransformCoordinate(geo.Positions[ib], world)
				pc := mgl64.TransformCoordinate(geo.Positions[ic], world)
				normal := pb.Sub(pa).Cross(pc.Sub(pa))
				if normal.Len() == 0 {
					continue
				}
				normal = normal.Normalize()
				if mat.Side == SideBack {
					normal = normal.Mul(-1)
				}
				centroid := pa.Add(pb).Add(pc).Mul(1.0 / 3)
				lr, lg, lb := r.rig.shade(centroid, normal)
				cr, cg, cb = cr*lr, cg*lg, cb*lb
			}
			col := [4]float32{
				float32(clamp01(cr) * alpha),
				float32(clamp01(cg) * alpha),
				float32(clamp01(cb) * alpha),
				float32(alpha),
			}

			r.clip = clipNear(r.clip[:0], tri)
			for k := 1; k+1 < len(r.clip); k++ {
				poly := [3]clipVertex{r.clip[0], r.clip[k], r.clip[k+1]}
				if !facing(poly, mat.Side) {
					r.stats.culled++
					continue
				}
				order++
				r.tris = append(r.tris, r.toDrawTri(poly, col, mat.Texture, n.RenderLayer, order, w, h))
			}
		}
		return true
	})
}

// paintersSort orders triangles by render layer, then farthest first, then
// submission order.
func paintersSort(tris []drawTri) {
	sort.SliceStable(tris, func(i, j int) bool {
		a, b := &tris[i], &tris[j]
		if a.layer != b.layer {
			return a.layer < b.layer
		}
		if a.depth != b.depth {
			return a.depth > b.depth
		}
		return a.order < b.order
	})
}

// outsideFrustum reports whether all three vertices lie beyond the same
// clip plane.
func outsideFrustum(t [3]clipVertex) bool {
	for axis := 0; axis < 3; axis++ {
		allNeg, allPos := true, true
		for _, v := range t {
			if v.pos[axis] >= -v.pos[3] {
				allNeg = false
			}
			if v.pos[axis] <= v.pos[3] {
				allPos = false
			}
		}
		if allNeg || allPos {
			return true
		}
	}
	return false
}

// clipNear clips a triangle against the near plane (z >= -w) and appends
// the resulting convex polygon to dst.
func clipNear(dst []clipVertex, t [3]clipVertex) []clipVertex {
	for i := 0; i < 3; i++ {
		a, b := t[i], t[(i+1)%3]
		da := a.pos[2] + a.pos[3]
		db := b.pos[2] + b.pos[3]
		if da >= 0 {
			dst = append(dst, a)
		}
		if (da >= 0) != (db >= 0) {
			f := da / (da - db)
			dst = append(dst, clipVertex{
				pos: a.pos.Add(b.pos.Sub(a.pos).Mul(f)),
				src: a.src.Add(b.src.Sub(a.src).Mul(f)),
			})
		}
	}
	return dst
}

// facing applies the material's face culling in normalized device space.
func facing(t [3]clipVertex, side Side) bool {
	if side == SideDouble {
		return true
	}
	ax, ay := t[0].pos[0]/t[0].pos[3], t[0].pos[1]/t[0].pos[3]
	bx, by := t[1].pos[0]/t[1].pos[3], t[1].pos[1]/t[1].pos[3]
	cx, cy := t[2].pos[0]/t[2].pos[3], t[2].pos[1]/t[2].pos[3]
	front := (bx-ax)*(cy-ay)-(cx-ax)*(by-ay) > 0
	if side == SideBack {
		return !front
	}
	return front
}

func (r *Renderer) toDrawTri(t [3]clipVertex, col [4]float32, tex *Texture, layer uint8, order, w, h int) drawTri {
	d := drawTri{tex: tex, layer: layer, order: order}
	for k, v := range t {
		inv := 1 / v.pos[3]
		sx := (v.pos[0]*inv + 1) / 2 * float64(w)
		sy := (1 - v.pos[1]*inv) / 2 * float64(h)
		vx := ebiten.Vertex{
			DstX:   float32(sx),
			DstY:   float32(sy),
			ColorR: col[0],
			ColorG: col[1],
			ColorB: col[2],
			ColorA: col[3],
		}
		if tex != nil {
			vx.SrcX, vx.SrcY = float32(v.src[0]), float32(v.src[1])
		} else {
			vx.SrcX, vx.SrcY = 1.5, 1.5
		}
		d.verts[k] = vx
		d.depth += v.pos[3]
	}
	d.depth /= 3
	return d
}

// submit batches consecutive triangles that share a source image.
func (r *Renderer) submit(dst *ebiten.Image) {
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
	var cur *Texture
	started := false
	for i := range r.tris {
		t := &r.tris[i]
		if started && (t.tex != cur || len(r.verts) >= maxBatchVertices) {
			r.flush(dst, cur)
		}
		cur = t.tex
		started = true
		base := uint16(len(r.verts))
		r.verts = append(r.verts, t.verts[0], t.verts[1], t.verts[2])
		r.inds = append(r.inds, base, base+1, base+2)
	}
	if started {
		r.flush(dst, cur)
	}
}

func (r *Renderer) flush(dst *ebiten.Image, tex *Texture) {
	if len(r.verts) == 0 {
		return
	}
	src := ensureWhiteImage()
	if tex != nil {
		src = tex.Image()
	}
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	op.AntiAlias = true
	if tex != nil {
		op.Filter = ebiten.FilterLinear
	}
	dst.DrawTriangles(r.verts, r.inds, src, &op)
	r.stats.batchCount++
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
}

// Triangles returns how many triangles the last frame submitted.
func (r *Renderer) Triangles() int {
	return r.stats.triangleCount
}

// projectScene runs the projection and sort stages without drawing.
func (r *Renderer) projectScene(g *Generation) []drawTri {
	UpdateTransforms(g.Scene.Root)
	r.rig.collect(g.Scene.Root)
	r.collect(g.Scene.Root, g.Camera)
	paintersSort(r.tris)
	return r.tris
}

var _ FrameRenderer = (*Renderer)(nil)
