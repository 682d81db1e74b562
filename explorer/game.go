package explorer

import (
	"errors"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"

	"github.com/phanxgames/grove"
	"github.com/phanxgames/grove/ecs"
)

var (
	dimFlame    = grove.Color{R: 0.8, G: 0.8, B: 0.8, A: 0.8}
	brightFlame = grove.ColorWhite
)

const (
	coverDrop     = 0.2 // per frame
	coverDropTime = 1.5 // seconds until the cover is hidden
	torusSpin     = math.Pi / 180
	lightRadius   = 2
	flareTime     = 0.25
)

// Game drives a World: the start gate, movement, jumping, and the toggles
// bound to keys. It implements ebiten.Game.
type Game struct {
	world *World
	log   *slog.Logger
	ecs   donburi.World

	started bool
	elapsed float32

	coverSlide *grove.TweenGroup
	flares     []*flare

	jumping   bool
	jumpAccel float32

	wave    *grove.WaveEffect
	tint    *grove.ColorMatrixEffect
	waveOn  bool
	tintOn  bool
	effects []grove.Effect

	// target is the interaction tag as last reported on the event bus.
	target string
}

// NewGame wires the game logic into w's scene.
func NewGame(w *World, logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Game{
		world:     w,
		log:       logger,
		ecs:       donburi.NewWorld(),
		jumpAccel: w.Config.Player.JumpAccel,
		wave:      grove.NewWaveEffect(4, 0.05, 3),
		tint:      grove.NewColorMatrixEffect(),
		target:    grove.InteractionNone,
	}
	g.tint.SetSaturation(0.4)
	g.tint.SetTint(grove.Color{R: 1, G: 0.85, B: 0.7, A: 1})

	w.Scene.SetEntityStore(ecs.NewDonburiStore(g.ecs))
	ecs.InteractionEventType.Subscribe(g.ecs, g.onInteraction)
	w.Scene.SetUpdateFunc(g.step)
	return g
}

// Started reports whether the start key has been pressed.
func (g *Game) Started() bool {
	return g.started
}

// Target returns the player's interaction tag as seen through the event bus.
func (g *Game) Target() string {
	return g.target
}

// Effects returns the screen effects that are switched on.
func (g *Game) Effects() []grove.Effect {
	return g.effects
}

// Jumping reports whether the player is rising.
func (g *Game) Jumping() bool {
	return g.jumping
}

func (g *Game) Update() error {
	if err := g.world.Scene.Update(); err != nil {
		return err
	}
	ecs.InteractionEventType.ProcessEvents(g.ecs)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.world.Scene.Draw(screen, g.world.Camera, g.effects...)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	cam := g.world.Camera
	if outsideWidth != cam.Width || outsideHeight != cam.Height {
		cam.SetProjection(cam.FOV, cam.Near, cam.Far, outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// step is the scene's update func. It runs after input is read and before
// the transform pass.
func (g *Game) step() error {
	in := g.world.Scene.Input()
	dt := float32(1.0 / float64(ebiten.TPS()))
	g.elapsed += dt

	if in.JustPressed(grove.ActionQuit) {
		g.log.Info("quit requested", "frame", g.world.Scene.Frame())
		return ebiten.Termination
	}

	g.animate(dt)
	if !g.started {
		if in.JustPressed(grove.ActionStart) {
			g.start()
		}
		return nil
	}

	g.look(in)
	g.move(in)
	if in.JustPressed(grove.ActionJump) {
		g.jump()
	}
	g.switches(in)
	if in.JustPressed(grove.ActionInteract) {
		g.interact()
	}
	g.fall()
	return nil
}

// animate runs the ambient animations: light orbit, torus spin, cover
// slide, flame flares, and the wave effect clock.
func (g *Game) animate(dt float32) {
	t := float64(g.elapsed)
	g.world.Scene.Light().Position = mgl32.Vec3{
		float32(math.Cos(t) * lightRadius), 0, float32(math.Sin(t) * lightRadius),
	}
	g.world.Torus.Rotate(mgl32.QuatRotate(torusSpin, mgl32.Vec3{0, 1, 0}))
	g.wave.Advance(dt)

	if g.coverSlide != nil {
		g.coverSlide.Update(dt)
		if g.coverSlide.Done {
			g.world.Cover.Visible = false
			g.coverSlide = nil
		}
	}
	live := g.flares[:0]
	for _, f := range g.flares {
		if f.update(dt) {
			live = append(live, f)
		}
	}
	g.flares = live
}

func (g *Game) start() {
	g.started = true
	frames := coverDropTime * float32(ebiten.TPS())
	to := g.world.Cover.Position.Sub(mgl32.Vec3{0, coverDrop * frames, 0})
	g.coverSlide = grove.TweenPosition(g.world.Cover, to, coverDropTime, ease.InQuad)
	g.log.Info("game started", "frame", g.world.Scene.Frame())
}

func (g *Game) look(in *grove.InputState) {
	cam := g.world.Camera
	step := mgl32.DegToRad(g.world.Config.Camera.LookStep)
	if in.Held(grove.ActionLookUp) {
		cam.Pitch(step)
	}
	if in.Held(grove.ActionLookDown) {
		cam.Pitch(-step)
	}
	if in.Held(grove.ActionLookLeft) {
		cam.Yaw(step)
	}
	if in.Held(grove.ActionLookRight) {
		cam.Yaw(-step)
	}
}

// planar flattens v onto the XZ plane and normalizes it.
func planar(v mgl32.Vec3) mgl32.Vec3 {
	v = mgl32.Vec3{v.X(), 0, v.Z()}
	if v.Len() < 1e-6 {
		return mgl32.Vec3{}
	}
	return v.Normalize()
}

// move walks the player relative to the camera heading. A step that would
// put the player inside a wall is not taken.
func (g *Game) move(in *grove.InputState) {
	cam := g.world.Camera
	forward, side := planar(cam.Forward()), planar(cam.Side())
	var delta mgl32.Vec3
	if in.Held(grove.ActionForward) {
		delta = delta.Add(forward)
	}
	if in.Held(grove.ActionBack) {
		delta = delta.Sub(forward)
	}
	if in.Held(grove.ActionRight) {
		delta = delta.Add(side)
	}
	if in.Held(grove.ActionLeft) {
		delta = delta.Sub(side)
	}
	if delta == (mgl32.Vec3{}) {
		return
	}
	delta = delta.Mul(g.world.Config.Player.Speed)

	p := g.world.Player
	next := p.Position.Add(delta)
	for _, wall := range g.world.Walls {
		if wall.Blocks(next, g.world.Config.Player.Radius) {
			g.log.Debug("blocked", "wall", wall.Name, "x", next.X(), "z", next.Z())
			return
		}
	}
	p.Translate(delta)
}

// jump starts a jump from rest.
func (g *Game) jump() {
	pc := g.world.Config.Player
	if g.jumping || g.jumpAccel < pc.JumpAccel {
		return
	}
	g.world.Player.Translate(mgl32.Vec3{0, pc.JumpImpulse, 0})
	g.jumping = true
}

// fall applies the jump arc: the rise slows by JumpStep each frame until it
// stops, then the fall speeds up by JumpStep to at most JumpAccel. Landing
// clamps to the ground and readies the next jump.
func (g *Game) fall() {
	pc := g.world.Config.Player
	p := g.world.Player
	if p.Position.Y() <= 0 {
		p.Position[1] = 0
		g.jumping = false
		g.jumpAccel = pc.JumpAccel
		return
	}
	if g.jumping {
		p.Translate(mgl32.Vec3{0, g.jumpAccel, 0})
		g.jumpAccel -= pc.JumpStep
		if g.jumpAccel <= 0 {
			g.jumpAccel = 0
			g.jumping = false
		}
		return
	}
	p.Translate(mgl32.Vec3{0, -g.jumpAccel, 0})
	g.jumpAccel = min(g.jumpAccel+pc.JumpStep, pc.JumpAccel)
}

// switches handles the sky state and effect toggles.
func (g *Game) switches(in *grove.InputState) {
	if in.JustPressed(grove.ActionVillage) {
		g.setSky(SkyVillage)
	}
	if in.JustPressed(grove.ActionCastle) {
		g.setSky(SkyCastle)
	}
	if in.JustPressed(grove.ActionEffect) {
		g.waveOn = !g.waveOn
		g.rebuildEffects()
		g.log.Info("wave effect", "on", g.waveOn)
	}
	if in.JustPressed(grove.ActionEffectAlt) {
		g.tintOn = !g.tintOn
		g.rebuildEffects()
		g.log.Info("tint effect", "on", g.tintOn)
	}
}

func (g *Game) setSky(state string) {
	if g.world.Skybox.State() == state {
		return
	}
	if g.world.Skybox.SetState(state) {
		g.log.Info("sky changed", "state", state)
	}
}

func (g *Game) rebuildEffects() {
	g.effects = g.effects[:0]
	if g.waveOn {
		g.effects = append(g.effects, g.wave)
	}
	if g.tintOn {
		g.effects = append(g.effects, g.tint)
	}
}

// interact acts on the node holding the player's interaction tag: box lids
// open, bonfires flare.
func (g *Game) interact() {
	s := g.world.Scene
	tag := s.Interaction()
	n, ok := s.Node(tag)
	if !ok {
		return
	}
	switch n.Kind {
	case grove.NodeKindBox:
		if !n.IsOpen() {
			n.SetOpen(true)
			g.log.Info("box opened", "box", n.Name, "frame", s.Frame())
		}
	case grove.NodeKindTrigger:
		if flames, ok := s.Node(n.Name + flamesName); ok {
			g.flare(flames)
		} else {
			g.log.Info("trigger used", "trigger", n.Name)
		}
	case grove.NodeKindTree:
		g.log.Info("tree touched", "tree", n.Name, "phase", n.Phase())
	}
}

// flare brightens a flame emitter, then fades it back.
type flare struct {
	node   *grove.Node
	tween  *grove.TweenGroup
	fading bool
}

// flare starts a flare on n unless one is already running.
func (g *Game) flare(n *grove.Node) {
	for _, f := range g.flares {
		if f.node == n {
			return
		}
	}
	g.flares = append(g.flares, &flare{
		node:  n,
		tween: grove.TweenColor(n, brightFlame, flareTime, ease.OutQuad),
	})
	g.log.Info("bonfire flared", "bonfire", n.Name)
}

// update advances the flare and reports whether it is still running.
func (f *flare) update(dt float32) bool {
	f.tween.Update(dt)
	if !f.tween.Done {
		return true
	}
	if f.fading {
		return false
	}
	f.fading = true
	f.tween = grove.TweenColor(f.node, dimFlame, flareTime*4, ease.InQuad)
	return true
}

func (g *Game) onInteraction(_ donburi.World, ev grove.InteractionEvent) {
	g.target = ev.To
	g.log.Debug("interaction changed", "from", ev.From, "to", ev.To, "frame", ev.Frame)
}

// Run opens the window and plays the world until quit or window close.
func Run(w *World, logger *slog.Logger) error {
	g := NewGame(w, logger)
	c := w.Config.Window
	ebiten.SetWindowTitle(c.Title)
	ebiten.SetWindowSize(c.Width, c.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	w.Scene.ShowHUD(c.ShowFPS)

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
