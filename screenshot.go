package grove

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Screenshot asks for the next drawn frame to be saved as a PNG under
// ScreenshotDir. Files are named by frame number, the player's interaction
// tag and label, e.g. "000120_boxtop1_open.png", so a scripted run can be
// checked by listing the directory.
func (s *Scene) Screenshot(label string) {
	s.screenshotQueue = append(s.screenshotQueue, label)
}

// SaveTexture writes the last DrawToTexture frame to path as a PNG.
func (s *Scene) SaveTexture(path string) error {
	if s.offscreen == nil {
		return errors.New("save texture: nothing drawn to texture")
	}
	return writePNG(path, readFrame(s.offscreen.Image()))
}

// screenshotName builds the file name for one queued label.
func (s *Scene) screenshotName(label string) string {
	return fmt.Sprintf("%06d_%s_%s.png", s.frame, sanitizeLabel(s.Interaction()), sanitizeLabel(label))
}

// flushScreenshots writes every queued label from screen. It runs at the end
// of Scene.Draw and failures only log; a missed screenshot never stops the
// frame.
func (s *Scene) flushScreenshots(screen *ebiten.Image) {
	if len(s.screenshotQueue) == 0 {
		return
	}
	defer func() { s.screenshotQueue = s.screenshotQueue[:0] }()

	if err := os.MkdirAll(s.ScreenshotDir, 0o755); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "[grove] screenshot: %v\n", err)
		return
	}
	frame := readFrame(screen)
	for _, label := range s.screenshotQueue {
		if err := writePNG(filepath.Join(s.ScreenshotDir, s.screenshotName(label)), frame); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "[grove] screenshot: %v\n", err)
		}
	}
}

// readFrame copies a rendered image back from the GPU as straight alpha.
func readFrame(src *ebiten.Image) *image.NRGBA {
	b := src.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	src.ReadPixels(img.Pix)
	for i := 0; i < len(img.Pix); i += 4 {
		unpremultiply(img.Pix[i : i+4 : i+4])
	}
	return img
}

// unpremultiply converts one premultiplied RGBA pixel in place.
func unpremultiply(px []byte) {
	a := int(px[3])
	if a == 0 || a == 255 {
		return
	}
	for c := 0; c < 3; c++ {
		px[c] = uint8(min(int(px[c])*255/a, 255))
	}
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel keeps letters, digits, '-' and '.'; anything else becomes
// '_'. Blank labels become "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
