package grove

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestLoadFont(t *testing.T) {
	f, err := LoadFont(goregular.TTF, 24)
	if err != nil {
		t.Fatal(err)
	}
	if f.LineHeight() <= 0 {
		t.Errorf("LineHeight = %v", f.LineHeight())
	}
	w1, h1 := f.MeasureString("Press K")
	w2, h2 := f.MeasureString("Press K to start\nsecond line")
	if w1 <= 0 || w2 <= w1 {
		t.Errorf("widths = %v, %v", w1, w2)
	}
	if h2 <= h1 {
		t.Errorf("two lines should be taller: %v vs %v", h2, h1)
	}
}

func TestLoadFontInvalid(t *testing.T) {
	if _, err := LoadFont([]byte("not a font"), 12); err == nil {
		t.Error("expected error for invalid font data")
	}
}

func TestTextTextureSize(t *testing.T) {
	f, err := LoadFont(goregular.TTF, 16)
	if err != nil {
		t.Fatal(err)
	}
	img := TextTexture(f, "grove", 128, 64, ColorWhite, Color{0, 0, 0, 1})
	if b := img.Bounds(); b.Dx() != 128 || b.Dy() != 64 {
		t.Errorf("bounds = %v", b)
	}
}
