package grove

import (
	"image"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// triangle is one projected, shaded triangle ready for submission.
type triangle struct {
	verts [3]ebiten.Vertex
	image *ebiten.Image
	layer uint8
	depth float32 // mean clip-space w; larger is farther from the eye
	order int32   // emission order, breaks depth ties
}

// defaultMaterial shades geometry that has no material resource.
var defaultMaterial = Material{Color: ColorWhite, Ambient: 0.3}

// Draw renders the scene from cam onto screen. With effects, the frame is
// drawn to the offscreen texture and displayed through them instead. Draw
// only reads node state, so it must follow Update within a frame.
func (s *Scene) Draw(screen *ebiten.Image, cam *Camera, effects ...Effect) {
	if len(effects) == 0 {
		screen.Fill(s.ClearColor.toRGBA())
		s.drawWithCamera(screen, cam)
	} else {
		s.DrawToTexture(cam)
		s.DisplayTexture(screen, effects...)
	}
	if s.hud != nil {
		s.hud.draw(screen, s)
	}
	s.flushScreenshots(screen)
}

// drawWithCamera projects every visible node, sorts the triangles back to
// front within render layers, and submits them.
func (s *Scene) drawWithCamera(target *ebiten.Image, cam *Camera) {
	s.tris = s.tris[:0]

	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	vp := cam.ViewProjection()
	view := viewport{bounds: target.Bounds(), near: cam.Near, projY: cam.ProjectionMatrix().At(1, 1)}

	for _, n := range s.nodes {
		if !n.Visible {
			continue
		}
		switch {
		case n.Kind == NodeKindEmitter:
			s.emitParticles(n, vp, view)
		case n.Geometry != nil && n.Geometry.Mesh != nil:
			s.emitMesh(n, vp, view)
		}
	}

	if s.debug {
		stats.traverseTime = time.Since(t0)
		t0 = time.Now()
	}

	s.mergeSort()

	if s.debug {
		stats.sortTime = time.Since(t0)
		stats.triangleCount = len(s.tris)
		t0 = time.Now()
	}

	stats.batchCount = s.submitBatches(target)

	if s.debug {
		stats.submitTime = time.Since(t0)
		s.debugLog(stats)
	}
}

// viewport carries the per-draw projection parameters.
type viewport struct {
	bounds image.Rectangle
	near   float32
	projY  float32 // projection matrix [1][1], for sizing particles
}

func (v viewport) toScreen(clip mgl32.Vec4) (float32, float32) {
	w, h := float32(v.bounds.Dx()), float32(v.bounds.Dy())
	x, y := ndcToScreen(clip.X()/clip.W(), clip.Y()/clip.W(), w, h)
	return x + float32(v.bounds.Min.X), y + float32(v.bounds.Min.Y)
}

// outsideFrustum reports whether all three vertices lie beyond the same clip
// plane.
func outsideFrustum(a, b, c mgl32.Vec4) bool {
	for axis := 0; axis < 3; axis++ {
		if a[axis] > a.W() && b[axis] > b.W() && c[axis] > c.W() {
			return true
		}
		if a[axis] < -a.W() && b[axis] < -b.W() && c[axis] < -c.W() {
			return true
		}
	}
	return false
}

// textureOf returns the image to sample and its source rectangle.
func textureOf(tex *Resource) (*ebiten.Image, image.Rectangle) {
	if tex == nil || tex.Image == nil {
		return WhitePixel, image.Rectangle{}
	}
	return tex.Image, tex.Image.Bounds()
}

// emitMesh projects and shades one node's geometry.
func (s *Scene) emitMesh(n *Node, vp mgl32.Mat4, view viewport) {
	mesh := n.Geometry.Mesh
	model := drawTransform(n)
	mvp := vp.Mul4(model)
	normalMat := model.Mat3()

	mat := defaultMaterial
	if n.Material != nil && n.Material.Material != nil {
		mat = *n.Material.Material
	}
	if mat.Color == (Color{}) {
		mat.Color = ColorWhite
	}
	light := s.light.tint()
	if mat.Unlit {
		light = ColorWhite
	}
	base := Color{
		R: mat.Color.R * n.Color.R * light.R,
		G: mat.Color.G * n.Color.G * light.G,
		B: mat.Color.B * n.Color.B * light.B,
		A: mat.Color.A * n.Color.A,
	}
	img, src := textureOf(n.Texture)
	sw, sh := float32(src.Dx()), float32(src.Dy())

	if cap(s.clip) < len(mesh.Vertices) {
		s.clip = make([]mgl32.Vec4, len(mesh.Vertices))
	}
	s.clip = s.clip[:len(mesh.Vertices)]
	for i := range mesh.Vertices {
		s.clip[i] = mvp.Mul4x1(mesh.Vertices[i].Pos.Vec4(1))
	}

	for t := 0; t+2 < len(mesh.Indices); t += 3 {
		i0, i1, i2 := mesh.Indices[t], mesh.Indices[t+1], mesh.Indices[t+2]
		c0, c1, c2 := s.clip[i0], s.clip[i1], s.clip[i2]
		if c0.W() < view.near && c1.W() < view.near && c2.W() < view.near {
			continue
		}

		v0, v1, v2 := &mesh.Vertices[i0], &mesh.Vertices[i1], &mesh.Vertices[i2]
		f := float32(1)
		if !mat.Unlit {
			normal := normalMat.Mul3x1(v0.Normal.Add(v1.Normal).Add(v2.Normal))
			if normal.Len() > 1e-6 {
				normal = normal.Normalize()
			}
			center := v0.Pos.Add(v1.Pos).Add(v2.Pos).Mul(1.0 / 3)
			f = s.light.shade(model.Mul4x1(center.Vec4(1)).Vec3(), normal, mat.Ambient)
		}
		col := [4]float32{base.R * f * base.A, base.G * f * base.A, base.B * f * base.A, base.A}

		in := [3]clipVert{
			{pos: c0, u: v0.U, v: v0.V},
			{pos: c1, u: v1.U, v: v1.V},
			{pos: c2, u: v2.U, v: v2.V},
		}
		var poly [4]clipVert
		count := clipNear(in, view.near, &poly)
		for k := 1; k+1 < count; k++ {
			a, b, c := poly[0], poly[k], poly[k+1]
			if outsideFrustum(a.pos, b.pos, c.pos) {
				continue
			}
			tri := triangle{
				image: img,
				layer: n.RenderLayer,
				depth: (c0.W() + c1.W() + c2.W()) / 3,
				order: int32(len(s.tris)),
			}
			for j, cv := range [3]clipVert{a, b, c} {
				x, y := view.toScreen(cv.pos)
				sx, sy := float32(0.5), float32(0.5)
				if sw > 0 {
					sx = float32(src.Min.X) + cv.u*sw
					sy = float32(src.Min.Y) + cv.v*sh
				}
				tri.verts[j] = ebiten.Vertex{
					DstX: x, DstY: y,
					SrcX: sx, SrcY: sy,
					ColorR: col[0], ColorG: col[1], ColorB: col[2], ColorA: col[3],
				}
			}
			s.tris = append(s.tris, tri)
		}
	}
}

// clipVert is a clip-space vertex with its texture coordinates.
type clipVert struct {
	pos  mgl32.Vec4
	u, v float32
}

// clipNear clips a triangle against the plane w = near and writes the
// resulting convex polygon (0, 3 or 4 vertices) to out.
func clipNear(in [3]clipVert, near float32, out *[4]clipVert) int {
	count := 0
	for i := range in {
		a, b := in[i], in[(i+1)%3]
		aIn, bIn := a.pos.W() >= near, b.pos.W() >= near
		if aIn {
			out[count] = a
			count++
		}
		if aIn != bIn {
			t := (near - a.pos.W()) / (b.pos.W() - a.pos.W())
			out[count] = clipVert{
				pos: a.pos.Add(b.pos.Sub(a.pos).Mul(t)),
				u:   lerp32(a.u, b.u, t),
				v:   lerp32(a.v, b.v, t),
			}
			count++
		}
	}
	return count
}

// emitParticles draws each alive particle as a camera-facing square.
func (s *Scene) emitParticles(n *Node, vp mgl32.Mat4, view viewport) {
	e := n.Emitter
	if e == nil || e.alive == 0 {
		return
	}
	size := e.config.Size
	if size <= 0 {
		size = 1
	}
	img, src := textureOf(e.config.Texture)
	model := n.world
	h := float32(view.bounds.Dy())

	for i := 0; i < e.alive; i++ {
		p := &e.particles[i]
		pos := p.pos
		if !e.config.WorldSpace {
			pos = model.Mul4x1(pos.Vec4(1)).Vec3()
		}
		c := vp.Mul4x1(pos.Vec4(1))
		if c.W() < view.near {
			continue
		}
		cx, cy := view.toScreen(c)
		half := size * p.scale * view.projY * h / (4 * c.W())
		if half <= 0 {
			continue
		}

		a := p.alpha * p.color.A * n.Color.A
		r, g, b := p.color.R*n.Color.R*a, p.color.G*n.Color.G*a, p.color.B*n.Color.B*a

		corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
		uv := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
		var quad [4]ebiten.Vertex
		for k := range corners {
			sx, sy := float32(0.5), float32(0.5)
			if src.Dx() > 0 {
				sx = float32(src.Min.X) + uv[k][0]*float32(src.Dx())
				sy = float32(src.Min.Y) + uv[k][1]*float32(src.Dy())
			}
			quad[k] = ebiten.Vertex{
				DstX: cx + corners[k][0]*half, DstY: cy - corners[k][1]*half,
				SrcX: sx, SrcY: sy,
				ColorR: r, ColorG: g, ColorB: b, ColorA: a,
			}
		}
		for _, idx := range [2][3]int{{0, 1, 2}, {0, 2, 3}} {
			s.tris = append(s.tris, triangle{
				verts: [3]ebiten.Vertex{quad[idx[0]], quad[idx[1]], quad[idx[2]]},
				image: img,
				layer: n.RenderLayer,
				depth: c.W(),
				order: int32(len(s.tris)),
			})
		}
	}
}

// --- Sorting ---

// triangleLessOrEqual orders by layer, then far to near, then emission order.
func triangleLessOrEqual(a, b *triangle) bool {
	if a.layer != b.layer {
		return a.layer < b.layer
	}
	if a.depth != b.depth {
		return a.depth > b.depth
	}
	return a.order <= b.order
}

// mergeSort sorts s.tris in place with a stable bottom-up merge sort reusing
// s.sortBuf, so steady-state frames do not allocate.
func (s *Scene) mergeSort() {
	n := len(s.tris)
	if n <= 1 {
		return
	}
	if cap(s.sortBuf) < n {
		s.sortBuf = make([]triangle, n)
	}
	s.sortBuf = s.sortBuf[:n]

	a := s.tris
	b := s.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(s.tris, s.sortBuf)
	}
}

func mergeRun(src, dst []triangle, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if triangleLessOrEqual(&src[i], &src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}

// --- Draw to texture ---

// SetupDrawToTexture allocates the offscreen target used by DrawToTexture.
func (s *Scene) SetupDrawToTexture(width, height int) {
	if s.offscreen == nil {
		s.offscreen = NewRenderTexture(width, height)
		return
	}
	s.offscreen.Resize(width, height)
}

// DrawToTexture renders the scene from cam into the offscreen target,
// sizing it to the camera's viewport when it does not match.
func (s *Scene) DrawToTexture(cam *Camera) {
	if s.offscreen == nil || !s.offscreen.fits(cam) {
		s.SetupDrawToTexture(max(cam.Width, 1), max(cam.Height, 1))
	}
	s.drawWithCamera(s.offscreen.begin(s.ClearColor), cam)
}

// DisplayTexture runs the offscreen frame through effects and draws the
// result over screen.
func (s *Scene) DisplayTexture(screen *ebiten.Image, effects ...Effect) {
	if s.offscreen == nil {
		return
	}
	out, owned := applyEffects(effects, s.offscreen.Image(), &s.rtPool)
	var op ebiten.DrawImageOptions
	sb := screen.Bounds()
	ob := out.Bounds()
	if ob.Dx() > 0 && ob.Dy() > 0 {
		op.GeoM.Scale(float64(sb.Dx())/float64(ob.Dx()), float64(sb.Dy())/float64(ob.Dy()))
	}
	screen.DrawImage(out, &op)
	for _, img := range owned {
		s.rtPool.Release(img)
	}
}

// Texture returns the offscreen target, or nil before the first
// DrawToTexture.
func (s *Scene) Texture() *RenderTexture {
	return s.offscreen
}
