package grove

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Font wraps Ebitengine's text/v2 for baking TrueType text into textures.
type Font struct {
	face *text.GoTextFace
	lh   float64 // cached line height
}

// LoadFont loads a TrueType font from raw TTF/OTF data at the given size.
func LoadFont(ttfData []byte, size float64) (*Font, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("grove: failed to parse TTF data: %w", err)
	}
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()
	return &Font{face: face, lh: m.HAscent + m.HDescent + m.HLineGap}, nil
}

// MeasureString returns the width and height of the rendered text.
func (f *Font) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// LineHeight returns the vertical distance between baselines.
func (f *Font) LineHeight() float64 {
	return f.lh
}

// TextTexture renders msg centered on a w x h image filled with bg. Lines are
// split on '\n'. The result is meant to be registered with
// ResourceTable.AddTexture, e.g. for a title card on a quad.
func TextTexture(f *Font, msg string, w, h int, fg, bg Color) *ebiten.Image {
	img := ebiten.NewImage(w, h)
	img.Fill(bg.toRGBA())

	op := &text.DrawOptions{}
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	op.LineSpacing = f.lh
	op.GeoM.Translate(float64(w)/2, float64(h)/2)
	op.ColorScale.Scale(fg.R*fg.A, fg.G*fg.A, fg.B*fg.A, fg.A)
	text.Draw(img, msg, f.face, op)
	return img
}
