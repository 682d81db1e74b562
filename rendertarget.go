package grove

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Render texture pool ---

// renderTexturePool manages reusable offscreen ebiten.Images keyed by
// power-of-two dimensions. After warmup, Acquire/Release are zero-alloc.
type renderTexturePool struct {
	buckets map[uint64][]*ebiten.Image
}

// poolKey packs power-of-two width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire returns a cleared offscreen image with at least (w, h) pixels.
// Dimensions are rounded up to the next power of two.
func (p *renderTexturePool) Acquire(w, h int) *ebiten.Image {
	pw := nextPowerOfTwo(w)
	ph := nextPowerOfTwo(h)
	key := poolKey(pw, ph)

	if p.buckets != nil {
		if stack := p.buckets[key]; len(stack) > 0 {
			img := stack[len(stack)-1]
			p.buckets[key] = stack[:len(stack)-1]
			img.Clear()
			return img
		}
	}

	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, pw, ph),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
}

// Release returns an image to the pool for reuse. The image is cleared on
// next Acquire, not here.
func (p *renderTexturePool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	key := poolKey(b.Dx(), b.Dy())

	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	p.buckets[key] = append(p.buckets[key], img)
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}

// applyEffects runs an effect chain on src, ping-ponging between pooled
// scratch images cropped to src's size. Returns the image holding the final
// result and the pooled images the caller must release once it has been
// drawn.
func applyEffects(effects []Effect, src *ebiten.Image, pool *renderTexturePool) (*ebiten.Image, []*ebiten.Image) {
	if len(effects) == 0 {
		return src, nil
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	rect := image.Rect(0, 0, w, h)

	var owned []*ebiten.Image
	current := src
	var scratch *ebiten.Image
	var spare *ebiten.Image

	for _, f := range effects {
		if spare == nil {
			full := pool.Acquire(w, h)
			owned = append(owned, full)
			scratch = full.SubImage(rect).(*ebiten.Image)
		} else {
			scratch = spare
			scratch.Clear()
		}
		f.Apply(current, scratch)
		if current != src {
			spare = current
		}
		current = scratch
	}

	return current, owned
}
