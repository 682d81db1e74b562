package grove

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// hud is a small overlay showing FPS, TPS, and the player's interaction tag.
// Its image is redrawn every ~0.5 seconds.
type hud struct {
	img        *ebiten.Image
	lastUpdate float64
	op         ebiten.DrawImageOptions
}

// ShowHUD enables or disables the FPS and interaction overlay.
func (s *Scene) ShowHUD(enabled bool) {
	if !enabled {
		s.hud = nil
		return
	}
	if s.hud == nil {
		// 160x48 is enough for three lines of DebugPrint text.
		s.hud = &hud{img: ebiten.NewImage(160, 48), lastUpdate: 1}
	}
}

func (h *hud) draw(screen *ebiten.Image, s *Scene) {
	h.lastUpdate += 1.0 / float64(ebiten.TPS())
	if h.lastUpdate >= 0.5 {
		h.lastUpdate = 0
		h.img.Clear()
		// Semi-transparent background for readability
		h.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(h.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\n%s",
			ebiten.ActualFPS(), ebiten.ActualTPS(), s.Interaction()))
	}
	screen.DrawImage(h.img, &h.op)
}
