package grove

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is a mesh vertex in model space. U and V are texture coordinates in
// [0, 1]; the renderer scales them to the bound texture's size.
type Vertex struct {
	Pos    mgl32.Vec3
	Normal mgl32.Vec3
	U, V   float32
}

// Mesh is indexed triangle geometry.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint16

	radius      float32 // cached bounding-sphere radius around the origin
	radiusDirty bool
}

// NewMesh wraps vertices and indices into a mesh.
func NewMesh(vertices []Vertex, indices []uint16) *Mesh {
	return &Mesh{Vertices: vertices, Indices: indices, radiusDirty: true}
}

// Radius returns the radius of a sphere around the model origin that
// contains every vertex.
func (m *Mesh) Radius() float32 {
	if m.radiusDirty {
		m.radius = computeMeshRadius(m.Vertices)
		m.radiusDirty = false
	}
	return m.radius
}

// InvalidateBounds marks the cached radius as stale. Call after editing Vertices.
func (m *Mesh) InvalidateBounds() {
	m.radiusDirty = true
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

func computeMeshRadius(verts []Vertex) float32 {
	var r float32
	for i := range verts {
		if l := verts[i].Pos.Len(); l > r {
			r = l
		}
	}
	return r
}

// NewQuad creates a two-sided unit quad spanning [-1, 1] in X and Y, facing +Z.
// Used for floors, walls, covers, and sky planes.
func NewQuad() *Mesh {
	n := mgl32.Vec3{0, 0, 1}
	verts := []Vertex{
		{Pos: mgl32.Vec3{-1, -1, 0}, Normal: n, U: 0, V: 1},
		{Pos: mgl32.Vec3{1, -1, 0}, Normal: n, U: 1, V: 1},
		{Pos: mgl32.Vec3{1, 1, 0}, Normal: n, U: 1, V: 0},
		{Pos: mgl32.Vec3{-1, 1, 0}, Normal: n, U: 0, V: 0},
	}
	return NewMesh(verts, []uint16{0, 1, 2, 0, 2, 3})
}

// NewCylinder creates a capped cylinder along Y, centered on the origin.
// numLength is the number of rings along the body, numCircle the number of
// samples around it.
func NewCylinder(length, radius float32, numLength, numCircle int) *Mesh {
	if numLength < 2 {
		numLength = 2
	}
	if numCircle < 3 {
		numCircle = 3
	}
	verts := make([]Vertex, 0, numLength*numCircle+2)
	inds := make([]uint16, 0, (numLength-1)*numCircle*6+numCircle*6)

	for i := 0; i < numLength; i++ {
		t := float32(i) / float32(numLength-1)
		y := -length/2 + t*length
		for j := 0; j < numCircle; j++ {
			theta := 2 * math.Pi * float64(j) / float64(numCircle)
			sin, cos := math.Sincos(theta)
			normal := mgl32.Vec3{float32(cos), 0, float32(sin)}
			verts = append(verts, Vertex{
				Pos:    normal.Mul(radius).Add(mgl32.Vec3{0, y, 0}),
				Normal: normal,
				U:      float32(j) / float32(numCircle),
				V:      t,
			})
		}
	}
	for i := 0; i < numLength-1; i++ {
		for j := 0; j < numCircle; j++ {
			a := uint16(i*numCircle + j)
			b := uint16(i*numCircle + (j+1)%numCircle)
			c := uint16((i+1)*numCircle + j)
			d := uint16((i+1)*numCircle + (j+1)%numCircle)
			inds = append(inds, a, c, b, b, c, d)
		}
	}

	// Caps.
	top := uint16(len(verts))
	verts = append(verts, Vertex{Pos: mgl32.Vec3{0, length / 2, 0}, Normal: mgl32.Vec3{0, 1, 0}, U: 0.5, V: 0.5})
	bottom := uint16(len(verts))
	verts = append(verts, Vertex{Pos: mgl32.Vec3{0, -length / 2, 0}, Normal: mgl32.Vec3{0, -1, 0}, U: 0.5, V: 0.5})
	topRing := uint16((numLength - 1) * numCircle)
	for j := 0; j < numCircle; j++ {
		next := uint16((j + 1) % numCircle)
		inds = append(inds, top, topRing+next, topRing+uint16(j))
		inds = append(inds, bottom, uint16(j), next)
	}
	return NewMesh(verts, inds)
}

// NewTorus creates a torus in the XZ plane. loopRadius is the distance from
// the center to the tube center, circleRadius the tube radius.
func NewTorus(loopRadius, circleRadius float32, numLoop, numCircle int) *Mesh {
	verts := make([]Vertex, 0, numLoop*numCircle)
	inds := make([]uint16, 0, numLoop*numCircle*6)
	for i := 0; i < numLoop; i++ {
		theta := 2 * math.Pi * float64(i) / float64(numLoop)
		st, ct := math.Sincos(theta)
		center := mgl32.Vec3{float32(ct), 0, float32(st)}.Mul(loopRadius)
		for j := 0; j < numCircle; j++ {
			phi := 2 * math.Pi * float64(j) / float64(numCircle)
			sp, cp := math.Sincos(phi)
			normal := mgl32.Vec3{float32(cp * ct), float32(sp), float32(cp * st)}
			verts = append(verts, Vertex{
				Pos:    center.Add(normal.Mul(circleRadius)),
				Normal: normal,
				U:      float32(i) / float32(numLoop),
				V:      float32(j) / float32(numCircle),
			})
		}
	}
	for i := 0; i < numLoop; i++ {
		for j := 0; j < numCircle; j++ {
			a := uint16(i*numCircle + j)
			b := uint16(i*numCircle + (j+1)%numCircle)
			c := uint16(((i+1)%numLoop)*numCircle + j)
			d := uint16(((i+1)%numLoop)*numCircle + (j+1)%numCircle)
			inds = append(inds, a, b, c, b, d, c)
		}
	}
	return NewMesh(verts, inds)
}

// NewSphere creates a UV sphere centered on the origin.
func NewSphere(radius float32, numStacks, numSlices int) *Mesh {
	verts := make([]Vertex, 0, (numStacks+1)*(numSlices+1))
	inds := make([]uint16, 0, numStacks*numSlices*6)
	for i := 0; i <= numStacks; i++ {
		phi := math.Pi * float64(i) / float64(numStacks)
		sp, cp := math.Sincos(phi)
		for j := 0; j <= numSlices; j++ {
			theta := 2 * math.Pi * float64(j) / float64(numSlices)
			st, ct := math.Sincos(theta)
			normal := mgl32.Vec3{float32(sp * ct), float32(cp), float32(sp * st)}
			verts = append(verts, Vertex{
				Pos:    normal.Mul(radius),
				Normal: normal,
				U:      float32(j) / float32(numSlices),
				V:      float32(i) / float32(numStacks),
			})
		}
	}
	row := numSlices + 1
	for i := 0; i < numStacks; i++ {
		for j := 0; j < numSlices; j++ {
			a := uint16(i*row + j)
			b := uint16(i*row + j + 1)
			c := uint16((i+1)*row + j)
			d := uint16((i+1)*row + j + 1)
			inds = append(inds, a, b, c, b, d, c)
		}
	}
	return NewMesh(verts, inds)
}

// NewCuboid creates an axis-aligned box centered on the origin with the given
// half extents. Each face has its own vertices so normals stay flat.
func NewCuboid(hx, hy, hz float32) *Mesh {
	faces := [6]struct {
		normal, u, v mgl32.Vec3
	}{
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	}
	half := mgl32.Vec3{hx, hy, hz}
	scale := func(v mgl32.Vec3) mgl32.Vec3 {
		return mgl32.Vec3{v[0] * half[0], v[1] * half[1], v[2] * half[2]}
	}
	verts := make([]Vertex, 0, 24)
	inds := make([]uint16, 0, 36)
	for _, f := range faces {
		base := uint16(len(verts))
		for _, c := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			p := f.normal.Add(f.u.Mul(c[0])).Add(f.v.Mul(c[1]))
			verts = append(verts, Vertex{
				Pos:    scale(p),
				Normal: f.normal,
				U:      (c[0] + 1) / 2,
				V:      (1 - c[1]) / 2,
			})
		}
		inds = append(inds, base, base+1, base+2, base, base+2, base+3)
	}
	return NewMesh(verts, inds)
}
