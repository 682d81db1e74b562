package explorer

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/grove"
)

// Resource names.
const (
	meshTorus    = "TorusMesh"
	meshLog      = "SimpleCylinder"
	meshTrunk    = "TreeCylinder"
	meshQuad     = "wall"
	meshSelf     = "self"
	meshBoxBase  = "BoxBase"
	meshBoxLid   = "BoxLid"
	matShinyBlue = "ShinyBlueMaterial"
	matTexture   = "TextureMaterial"
	matNormal    = "Normal"
	matSelf      = "Self"
	matSky       = "SkyMaterial"
	matScreen    = "ScreenSpaceMaterial"
	texWood      = "Wood"
	texStone     = "Stone"
	texFlame     = "Flame"
	texCover     = "Cover"
)

// Fixed props of the demo world.
var (
	torusPosition = mgl32.Vec3{0, 1, -8}
	floorPosition = mgl32.Vec3{0, -2, 0}
	coverAhead    = mgl32.Vec3{0, 0, -4}
)

const (
	floorScale  = 1000.5
	playerName  = "Player"
	torusName   = "TorusInstance1"
	coverName   = "cover"
	floorName   = "floor"
	skyPrefix   = "sky."
	coverText   = "Press K to start"
	flamesName  = ".flames"
	boxBaseName = ".base"
)

// World is a built explorer scene and the nodes the game drives directly.
type World struct {
	Config    Config
	Scene     *grove.Scene
	Camera    *grove.Camera
	Resources *grove.ResourceTable
	Skybox    *grove.Skybox

	Player *grove.Node
	Cover  *grove.Node
	Torus  *grove.Node
	Walls  []*grove.Node
	Trees  []*grove.Node
	Lids   []*grove.Node
	Flames []*grove.Node
}

// Build creates every resource and node described by cfg. It stops at the
// first error.
func Build(cfg Config, logger *slog.Logger) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("explorer: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	bindings, err := cfg.Bindings()
	if err != nil {
		return nil, fmt.Errorf("explorer: %w", err)
	}

	w := &World{
		Config:    cfg,
		Scene:     grove.NewScene(),
		Resources: grove.NewResourceTable(),
	}
	w.Scene.ClearColor = grove.Color{A: 1}
	w.Scene.SetBindings(bindings)
	w.Scene.SetDebugMode(cfg.Debug)

	steps := []struct {
		name string
		fn   func() error
	}{
		{"resources", w.loadResources},
		{"camera", w.setupCamera},
		{"floor", w.addFloor},
		{"player", w.addPlayer},
		{"walls", w.addWalls},
		{"sky", w.addSky},
		{"bonfires", w.addBonfires},
		{"trees", w.addTrees},
		{"boxes", w.addBoxes},
		{"triggers", w.addTriggers},
		{"torus", w.addTorus},
		{"cover", w.addCover},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return nil, fmt.Errorf("explorer: setup %s: %w", step.name, err)
		}
	}

	logger.Info("world built",
		"nodes", w.Scene.Len(),
		"resources", w.Resources.Len(),
		"trees", len(w.Trees),
		"boxes", len(w.Lids),
		"sky", w.Skybox.State())
	return w, nil
}

func (w *World) loadResources() error {
	rt := w.Resources
	meshes := []struct {
		name string
		mesh *grove.Mesh
	}{
		{meshTorus, grove.NewTorus(0.6, 0.2, 24, 12)},
		{meshLog, grove.NewCylinder(1.0, 0.1, 2, 10)},
		{meshTrunk, grove.NewCylinder(15, 1, 2, 8)},
		{meshQuad, grove.NewQuad()},
		{meshSelf, grove.NewCylinder(3, 1, 2, 16)},
		{meshBoxBase, grove.NewCuboid(1, 0.5, 1)},
		{meshBoxLid, grove.NewCuboid(1, 0.1, 1)},
	}
	for _, m := range meshes {
		if _, err := rt.AddMesh(m.name, m.mesh); err != nil {
			return err
		}
	}

	materials := []struct {
		name string
		mat  grove.Material
	}{
		{matShinyBlue, grove.Material{Color: grove.Color{R: 0.2, G: 0.4, B: 1, A: 1}, Ambient: 0.25}},
		{matTexture, grove.Material{Color: grove.ColorWhite, Ambient: 0.45}},
		{matNormal, grove.Material{Color: grove.ColorWhite, Ambient: 0.3}},
		{matSelf, grove.Material{Color: grove.Color{R: 0.9, G: 0.8, B: 0.6, A: 1}, Ambient: 0.5}},
		{matSky, grove.Material{Color: grove.ColorWhite, Unlit: true}},
		{matScreen, grove.Material{Color: grove.ColorWhite, Unlit: true}},
	}
	for _, m := range materials {
		if _, err := rt.AddMaterial(m.name, m.mat); err != nil {
			return err
		}
	}

	cover, err := coverTexture(coverText)
	if err != nil {
		return err
	}
	textures := []struct {
		name string
		img  *ebiten.Image
	}{
		{texWood, woodTexture()},
		{texStone, stoneTexture()},
		{texFlame, flameTexture()},
		{texCover, cover},
	}
	for _, t := range textures {
		if _, err := rt.AddTexture(t.name, t.img); err != nil {
			return err
		}
	}
	for state, p := range map[string]skyPalette{SkyVillage: villagePalette, SkyCastle: castlePalette} {
		for i, img := range skyTextures(p) {
			if _, err := rt.AddTexture(skyTextureName(state, grove.SkyFaces[i]), img); err != nil {
				return err
			}
		}
	}
	return nil
}

func skyTextureName(state string, f grove.SkyFace) string {
	return state + "." + f.String()
}

// eye returns the camera position for a player position.
func (w *World) eye(player mgl32.Vec3) mgl32.Vec3 {
	return player.Add(w.Config.Camera.Offset)
}

func (w *World) setupCamera() error {
	c := w.Config
	cam := w.Scene.NewCamera(c.Window.Width, c.Window.Height)
	cam.SetProjection(c.Camera.FOV, c.Camera.Near, c.Camera.Far, c.Window.Width, c.Window.Height)
	eye := w.eye(c.Player.Position)
	cam.SetView(eye, c.Camera.LookAt, mgl32.Vec3{0, 1, 0})
	w.Camera = cam
	w.Scene.SetLight(grove.NewLight(mgl32.Vec3{2, 0, 0}))
	return nil
}

func (w *World) add(n *grove.Node, err error) (*grove.Node, error) {
	if err != nil {
		return nil, err
	}
	if err := w.Scene.AddNode(n); err != nil {
		return nil, err
	}
	return n, nil
}

func (w *World) addFloor() error {
	n, err := w.add(w.Resources.Instance(grove.NewNode, floorName, meshQuad, matTexture, texWood))
	if err != nil {
		return err
	}
	n.SetOrientation(mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{1, 0, 0}))
	n.Position = floorPosition
	n.Scale = mgl32.Vec3{floorScale, floorScale, floorScale}
	return nil
}

func (w *World) addPlayer() error {
	n, err := w.add(w.Resources.Instance(grove.NewNode, playerName, meshSelf, matSelf, ""))
	if err != nil {
		return err
	}
	n.Position = w.Config.Player.Position
	w.Scene.SetPlayer(n)
	w.Camera.Follow(n, w.Config.Camera.Offset, 1)
	w.Player = n
	return nil
}

func (w *World) addWalls() error {
	for _, wc := range w.Config.Walls {
		n, err := w.add(w.Resources.Instance(grove.NewWall, wc.Name, meshQuad, matTexture, texStone))
		if err != nil {
			return err
		}
		n.Angle = wc.Angle
		n.SetOrientation(mgl32.QuatRotate(wc.Angle, mgl32.Vec3{0, 1, 0}))
		n.Position = wc.Position
		n.Scale = mgl32.Vec3{wc.Length, wc.Length, wc.Length}
		w.Walls = append(w.Walls, n)
	}
	return nil
}

func (w *World) addSky() error {
	geometry, err := w.Resources.LookupKind(meshQuad, grove.ResourceGeometry)
	if err != nil {
		return err
	}
	material, err := w.Resources.LookupKind(matSky, grove.ResourceMaterial)
	if err != nil {
		return err
	}
	faces := func(state string) ([6]*grove.Resource, error) {
		var out [6]*grove.Resource
		for i, f := range grove.SkyFaces {
			r, err := w.Resources.LookupKind(skyTextureName(state, f), grove.ResourceTexture)
			if err != nil {
				return out, err
			}
			out[i] = r
		}
		return out, nil
	}
	village, err := faces(SkyVillage)
	if err != nil {
		return err
	}
	castle, err := faces(SkyCastle)
	if err != nil {
		return err
	}
	sb, err := grove.NewSkybox(w.Scene, skyPrefix, geometry, material, SkyVillage, village)
	if err != nil {
		return err
	}
	sb.AddState(SkyCastle, castle)
	sb.SetState(w.Config.Sky.State)
	w.Scene.AnchorSkyTo(w.Camera)
	w.Skybox = sb
	return nil
}

// logLayout is one of the six crossed logs of a bonfire.
type logLayout struct {
	offset mgl32.Vec3
	axis   mgl32.Vec3
	angle  float32
}

var bonfireLogs = [6]logLayout{
	{mgl32.Vec3{0.1, 0, 0}, mgl32.Vec3{0, 0, 1}, math.Pi / 4},
	{mgl32.Vec3{-0.1, 0, 0}, mgl32.Vec3{0, 0, 1}, -math.Pi / 4},
	{mgl32.Vec3{-0.1, 0, 0}, mgl32.Vec3{1, 0, 1}, -math.Pi / 4},
	{mgl32.Vec3{}, mgl32.Vec3{1, 0, -1}, -math.Pi / 4},
	{mgl32.Vec3{0, 0, -0.1}, mgl32.Vec3{-1, 0, 0}, -math.Pi / 4},
	{mgl32.Vec3{0, 0, 0.1}, mgl32.Vec3{1, 0, 0}, -math.Pi / 4},
}

func (w *World) addBonfires() error {
	flame, err := w.Resources.LookupKind(texFlame, grove.ResourceTexture)
	if err != nil {
		return err
	}
	for _, bc := range w.Config.Bonfires {
		for i, l := range bonfireLogs {
			name := fmt.Sprintf("%s.c%d", bc.Name, i+1)
			n, err := w.add(w.Resources.Instance(grove.NewNode, name, meshLog, matNormal, texWood))
			if err != nil {
				return err
			}
			n.Position = bc.Position.Add(l.offset)
			n.SetOrientation(mgl32.QuatRotate(l.angle, l.axis.Normalize()))
		}

		em := grove.NewParticleEmitter(bc.Name+flamesName, grove.EmitterConfig{
			MaxParticles: 96,
			EmitRate:     40,
			Lifetime:     grove.Range{Min: 0.4, Max: 0.9},
			Speed:        grove.Range{Min: 0.4, Max: 0.9},
			Direction:    mgl32.Vec3{0, 1, 0},
			Spread:       0.35,
			StartScale:   grove.Range{Min: 0.8, Max: 1.1},
			EndScale:     grove.Range{Min: 0.1, Max: 0.3},
			StartAlpha:   grove.Range{Min: 0.9, Max: 1},
			EndAlpha:     grove.Range{Min: 0, Max: 0.1},
			StartColor:   grove.Color{R: 1, G: 0.9, B: 0.5, A: 1},
			EndColor:     grove.Color{R: 1, G: 0.3, B: 0, A: 1},
			Size:         0.3,
			Texture:      flame,
			WorldSpace:   true,
		})
		em.Position = bc.Position.Add(mgl32.Vec3{0, 0.3, 0})
		em.Color = dimFlame
		if err := w.Scene.AddNode(em); err != nil {
			return err
		}
		em.Emitter.Start()
		w.Flames = append(w.Flames, em)

		trigger := grove.NewTrigger(bc.Name, bc.Reach)
		trigger.Position = bc.Position
		if err := w.Scene.AddNode(trigger); err != nil {
			return err
		}
	}
	return nil
}

func (w *World) addTrees() error {
	res, err := w.treeResources()
	if err != nil {
		return err
	}
	for _, tc := range w.Config.Trees {
		root, err := grove.GrowTree(w.Scene, tc.Name, tc.Position, tc.Depth, res)
		if err != nil {
			return err
		}
		w.Scene.SetWind(root, tc.Wind)
		w.Trees = append(w.Trees, root)
	}
	return nil
}

func (w *World) treeResources() (grove.TreeResources, error) {
	var res grove.TreeResources
	var err error
	if res.Geometry, err = w.Resources.LookupKind(meshTrunk, grove.ResourceGeometry); err != nil {
		return res, err
	}
	if res.Material, err = w.Resources.LookupKind(matNormal, grove.ResourceMaterial); err != nil {
		return res, err
	}
	if res.Texture, err = w.Resources.LookupKind(texWood, grove.ResourceTexture); err != nil {
		return res, err
	}
	return res, nil
}

func (w *World) addBoxes() error {
	for _, bc := range w.Config.Boxes {
		yaw := mgl32.QuatRotate(bc.Yaw, mgl32.Vec3{0, 1, 0})
		base, err := w.add(w.Resources.Instance(grove.NewNode, bc.Name+boxBaseName, meshBoxBase, matTexture, texWood))
		if err != nil {
			return err
		}
		base.Position = bc.Position
		base.SetOrientation(yaw)

		lid, err := w.add(w.Resources.Instance(grove.NewBox, bc.Name, meshBoxLid, matTexture, texWood))
		if err != nil {
			return err
		}
		lid.Position = bc.Position.Add(mgl32.Vec3{0, 0.6, 0})
		lid.SetOrientation(yaw)
		w.Lids = append(w.Lids, lid)
	}
	return nil
}

func (w *World) addTriggers() error {
	for _, tc := range w.Config.Triggers {
		n := grove.NewTrigger(tc.Name, tc.Reach)
		n.Position = tc.Position
		if err := w.Scene.AddNode(n); err != nil {
			return err
		}
	}
	return nil
}

func (w *World) addTorus() error {
	n, err := w.add(w.Resources.Instance(grove.NewNode, torusName, meshTorus, matShinyBlue, ""))
	if err != nil {
		return err
	}
	n.Position = torusPosition
	n.Scale = mgl32.Vec3{1.5, 1.5, 1.5}
	w.Torus = n
	return nil
}

func (w *World) addCover() error {
	n, err := w.add(w.Resources.Instance(grove.NewNode, coverName, meshQuad, matScreen, texCover))
	if err != nil {
		return err
	}
	n.Position = w.eye(w.Config.Player.Position).Add(coverAhead)
	n.RenderLayer = 3
	w.Cover = n
	return nil
}
