package grove

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// ShowFPS shows the FPS and interaction overlay.
	ShowFPS bool
	// Effects, when non-empty, routes every frame through DrawToTexture and
	// DisplayTexture with these effects.
	Effects []Effect
}

// game adapts a Scene and camera to ebiten.Game.
type game struct {
	scene *Scene
	cam   *Camera
	cfg   RunConfig
}

func (g *game) Update() error {
	return g.scene.Update()
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen, g.cam, g.cfg.Effects...)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.cam.Width || outsideHeight != g.cam.Height {
		g.cam.SetProjection(g.cam.FOV, g.cam.Near, g.cam.Far, outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Run opens a window and runs scene until the update func returns an error
// or the window closes. ebiten.Termination from the update func ends the
// loop without an error.
func Run(scene *Scene, cam *Camera, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 800, 600
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	scene.ShowHUD(cfg.ShowFPS)

	err := ebiten.RunGame(&game{scene: scene, cam: cam, cfg: cfg})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
