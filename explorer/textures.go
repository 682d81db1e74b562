package explorer

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/phanxgames/grove"
)

const (
	textureSize = 64
	skySize     = 128
	coverWidth  = 512
	coverHeight = 384
)

// newTexture fills a size x size image pixel by pixel.
func newTexture(w, h int, fn func(x, y int) color.RGBA) *ebiten.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, fn(x, y))
		}
	}
	return ebiten.NewImageFromImage(img)
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), mix(a.A, b.A)}
}

// woodTexture draws wavy grain stripes.
func woodTexture() *ebiten.Image {
	light := color.RGBA{150, 100, 55, 255}
	dark := color.RGBA{95, 60, 30, 255}
	rng := rand.New(rand.NewPCG(1, 2))
	jitter := make([]float64, textureSize)
	for i := range jitter {
		jitter[i] = rng.Float64() * 0.15
	}
	return newTexture(textureSize, textureSize, func(x, y int) color.RGBA {
		grain := math.Sin(float64(x)*0.6+math.Sin(float64(y)*0.15)*2) * 0.5
		return lerpRGBA(light, dark, 0.5+grain+jitter[x])
	})
}

// stoneTexture draws offset brick courses.
func stoneTexture() *ebiten.Image {
	mortar := color.RGBA{70, 70, 70, 255}
	stone := color.RGBA{140, 135, 125, 255}
	const brickW, brickH = 16, 8
	return newTexture(textureSize, textureSize, func(x, y int) color.RGBA {
		row := y / brickH
		if row%2 == 1 {
			x += brickW / 2
		}
		if y%brickH == 0 || x%brickW == 0 {
			return mortar
		}
		shade := float64((x/brickW*7+row*3)%5) * 0.05
		return lerpRGBA(stone, mortar, shade)
	})
}

// flameTexture is a soft radial blob, white-hot in the middle.
func flameTexture() *ebiten.Image {
	const size = 32
	core := color.RGBA{255, 240, 180, 255}
	edge := color.RGBA{255, 90, 0, 0}
	return newTexture(size, size, func(x, y int) color.RGBA {
		dx := (float64(x) + 0.5 - size/2) / (size / 2)
		dy := (float64(y) + 0.5 - size/2) / (size / 2)
		c := lerpRGBA(core, edge, math.Sqrt(dx*dx+dy*dy))
		// Premultiply for ebiten.
		a := float64(c.A) / 255
		return color.RGBA{uint8(float64(c.R) * a), uint8(float64(c.G) * a), uint8(float64(c.B) * a), c.A}
	})
}

// skyPalette colors one sky state.
type skyPalette struct {
	zenith, horizon, ground color.RGBA
	// skyline draws the horizon silhouette on the side faces. It reports
	// whether (x, y) in [0,1)^2 is covered.
	skyline func(x, y float64) bool
	silhouette color.RGBA
}

var villagePalette = skyPalette{
	zenith:     color.RGBA{60, 110, 200, 255},
	horizon:    color.RGBA{180, 210, 240, 255},
	ground:     color.RGBA{70, 110, 50, 255},
	silhouette: color.RGBA{50, 90, 45, 255},
	skyline: func(x, y float64) bool {
		// Rolling hills.
		return y > 0.62-0.06*math.Sin(x*math.Pi*3)-0.03*math.Sin(x*math.Pi*11)
	},
}

var castlePalette = skyPalette{
	zenith:     color.RGBA{40, 20, 70, 255},
	horizon:    color.RGBA{230, 120, 70, 255},
	ground:     color.RGBA{50, 45, 50, 255},
	silhouette: color.RGBA{35, 30, 40, 255},
	skyline: func(x, y float64) bool {
		// Battlements with two towers.
		top := 0.58
		if int(x*24)%2 == 0 {
			top = 0.55
		}
		if (x > 0.2 && x < 0.3) || (x > 0.7 && x < 0.8) {
			top = 0.4
		}
		return y > top
	},
}

// skyFace draws one face of a sky state.
func skyFace(p skyPalette, f grove.SkyFace) *ebiten.Image {
	return newTexture(skySize, skySize, func(x, y int) color.RGBA {
		u := float64(x) / skySize
		v := float64(y) / skySize
		switch f {
		case grove.SkyTop:
			return p.zenith
		case grove.SkyBottom:
			return p.ground
		}
		if p.skyline(u, v) {
			return p.silhouette
		}
		return lerpRGBA(p.zenith, p.horizon, v/0.6)
	})
}

// skyTextures returns the six faces of a state in grove.SkyFaces order.
func skyTextures(p skyPalette) [6]*ebiten.Image {
	var out [6]*ebiten.Image
	for i, f := range grove.SkyFaces {
		out[i] = skyFace(p, f)
	}
	return out
}

// coverTexture renders the title card shown until the game starts.
func coverTexture(msg string) (*ebiten.Image, error) {
	font, err := grove.LoadFont(goregular.TTF, 36)
	if err != nil {
		return nil, err
	}
	return grove.TextTexture(font, msg, coverWidth, coverHeight, grove.ColorWhite, grove.Color{A: 1}), nil
}
