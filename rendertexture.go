package grove

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RenderTexture is the offscreen frame a scene draws into for
// DrawToTexture. It keeps its image across frames and only reallocates when
// the camera viewport changes size.
type RenderTexture struct {
	image *ebiten.Image
	w, h  int
}

// NewRenderTexture allocates a w x h frame.
func NewRenderTexture(w, h int) *RenderTexture {
	rt := &RenderTexture{}
	rt.Resize(w, h)
	return rt
}

// Image returns the frame's backing image.
func (rt *RenderTexture) Image() *ebiten.Image {
	return rt.image
}

func (rt *RenderTexture) Width() int  { return rt.w }
func (rt *RenderTexture) Height() int { return rt.h }

// fits reports whether the frame already matches cam's viewport.
func (rt *RenderTexture) fits(cam *Camera) bool {
	return rt.image != nil && rt.w == max(cam.Width, 1) && rt.h == max(cam.Height, 1)
}

// begin clears the frame to c and returns the image to draw on.
func (rt *RenderTexture) begin(c Color) *ebiten.Image {
	rt.image.Fill(c.toRGBA())
	return rt.image
}

// Resize reallocates the frame. Same-size calls keep the current image.
func (rt *RenderTexture) Resize(width, height int) {
	if rt.image != nil {
		if rt.w == width && rt.h == height {
			return
		}
		rt.image.Deallocate()
	}
	rt.image = ebiten.NewImage(width, height)
	rt.w, rt.h = width, height
}

// Dispose frees the image. The frame must not be drawn to afterwards.
func (rt *RenderTexture) Dispose() {
	if rt.image == nil {
		return
	}
	rt.image.Deallocate()
	rt.image = nil
}
