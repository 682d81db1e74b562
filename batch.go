package grove

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// submitBatches walks the sorted triangles and coalesces consecutive runs
// that sample the same image into one DrawTriangles32 call. Returns the
// number of draw calls issued.
func (s *Scene) submitBatches(target *ebiten.Image) int {
	if len(s.tris) == 0 {
		return 0
	}

	s.batchVerts = s.batchVerts[:0]
	s.batchInds = s.batchInds[:0]

	calls := 0
	current := s.tris[0].image
	for i := range s.tris {
		tri := &s.tris[i]
		if tri.image != current {
			calls += s.flushTriangleBatch(target, current)
			current = tri.image
		}
		s.appendTriangle(tri)
	}
	calls += s.flushTriangleBatch(target, current)
	return calls
}

// appendTriangle appends 3 vertices and 3 indices.
func (s *Scene) appendTriangle(tri *triangle) {
	base := uint32(len(s.batchVerts))
	s.batchVerts = append(s.batchVerts, tri.verts[0], tri.verts[1], tri.verts[2])
	s.batchInds = append(s.batchInds, base, base+1, base+2)
}

// flushTriangleBatch submits accumulated vertices as a single DrawTriangles32 call.
func (s *Scene) flushTriangleBatch(target *ebiten.Image, img *ebiten.Image) int {
	if len(s.batchVerts) == 0 {
		return 0
	}
	if img == nil {
		img = WhitePixel
	}

	var triOp ebiten.DrawTrianglesOptions
	triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	triOp.Filter = ebiten.FilterLinear
	target.DrawTriangles32(s.batchVerts, s.batchInds, img, &triOp)

	s.batchVerts = s.batchVerts[:0]
	s.batchInds = s.batchInds[:0]
	return 1
}
