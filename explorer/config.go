package explorer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/phanxgames/grove"
)

// Sky states.
const (
	SkyVillage = "village"
	SkyCastle  = "castle"
)

// maxTreeDepth bounds GrowTree; depth d creates (4^(d+1)-1)/3 nodes.
const maxTreeDepth = 5

// Config describes the explorer world. Zero values are replaced by the
// defaults from Default when a file is loaded, and omitted lists keep the
// default props.
type Config struct {
	Window   WindowConfig        `toml:"window"`
	Camera   CameraConfig        `toml:"camera"`
	Player   PlayerConfig        `toml:"player"`
	Sky      SkyConfig           `toml:"sky"`
	Trees    []TreeConfig        `toml:"trees"`
	Boxes    []BoxConfig         `toml:"boxes"`
	Bonfires []BonfireConfig     `toml:"bonfires"`
	Triggers []TriggerConfig     `toml:"triggers"`
	Walls    []WallConfig        `toml:"walls"`
	Keys     map[string][]string `toml:"keys"`
	Debug    bool                `toml:"debug"`
}

type WindowConfig struct {
	Title   string `toml:"title"`
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	ShowFPS bool   `toml:"show_fps"`
}

type CameraConfig struct {
	// Offset is the eye position relative to the player.
	Offset mgl32.Vec3 `toml:"offset"`
	LookAt mgl32.Vec3 `toml:"look_at"`
	FOV    float32    `toml:"fov"`
	Near   float32    `toml:"near"`
	Far    float32    `toml:"far"`
	// LookStep is the pitch and yaw per frame in degrees.
	LookStep float32 `toml:"look_step"`
}

type PlayerConfig struct {
	Position mgl32.Vec3 `toml:"position"`
	Radius   float32    `toml:"radius"`
	// Speed is the distance moved per frame.
	Speed float32 `toml:"speed"`
	// JumpImpulse is the instant lift when a jump starts.
	JumpImpulse float32 `toml:"jump_impulse"`
	// JumpAccel is the per-frame rise at the start of a jump and the
	// terminal fall speed.
	JumpAccel float32 `toml:"jump_accel"`
	// JumpStep is how much the rise slows, or the fall speeds up, per frame.
	JumpStep float32 `toml:"jump_step"`
}

type SkyConfig struct {
	State string `toml:"state"`
}

type TreeConfig struct {
	Name     string     `toml:"name"`
	Position mgl32.Vec3 `toml:"position"`
	Depth    int        `toml:"depth"`
	Wind     mgl32.Vec3 `toml:"wind"`
}

// BoxConfig places a box. Name is the lid; the base is named Name + ".base".
type BoxConfig struct {
	Name     string     `toml:"name"`
	Position mgl32.Vec3 `toml:"position"`
	Yaw      float32    `toml:"yaw"`
}

// BonfireConfig places six logs, a flame emitter, and a trigger named Name.
type BonfireConfig struct {
	Name     string     `toml:"name"`
	Position mgl32.Vec3 `toml:"position"`
	Reach    float32    `toml:"reach"`
}

type TriggerConfig struct {
	Name     string     `toml:"name"`
	Position mgl32.Vec3 `toml:"position"`
	Reach    float32    `toml:"reach"`
}

type WallConfig struct {
	Name     string     `toml:"name"`
	Position mgl32.Vec3 `toml:"position"`
	Angle    float32    `toml:"angle"`
	// Length is the half-length of the wall; the quad is scaled by it.
	Length float32 `toml:"length"`
}

// Default returns the demo world.
func Default() Config {
	return Config{
		Window: WindowConfig{Title: "Demo", Width: 1600, Height: 1200},
		Camera: CameraConfig{
			Offset:   mgl32.Vec3{0.5, 0.5, 10},
			FOV:      20,
			Near:     0.01,
			Far:      1000,
			LookStep: 2,
		},
		Player: PlayerConfig{
			Radius:      1,
			Speed:       1,
			JumpImpulse: 5,
			JumpAccel:   5,
			JumpStep:    0.2,
		},
		Sky: SkyConfig{State: SkyVillage},
		Trees: []TreeConfig{
			{Name: "root", Position: mgl32.Vec3{0, 0, -100}, Depth: 4, Wind: mgl32.Vec3{1, 0, 1}},
			{Name: "root2", Position: mgl32.Vec3{-60, 0, -70}, Depth: 3, Wind: mgl32.Vec3{1, 0, 1}},
			{Name: "root3", Position: mgl32.Vec3{60, 0, -80}, Depth: 3, Wind: mgl32.Vec3{0, 0, 1}},
		},
		Boxes: []BoxConfig{
			{Name: "boxtop1", Position: mgl32.Vec3{-15, -1, -20}},
			{Name: "boxtop2", Position: mgl32.Vec3{20, -1, -35}, Yaw: 0.5},
		},
		Bonfires: []BonfireConfig{
			{Name: "bonfire", Position: mgl32.Vec3{0, -1, 4}, Reach: 4},
		},
		Triggers: []TriggerConfig{
			{Name: "door", Position: mgl32.Vec3{96, 0, 0}, Reach: 6},
		},
		Walls: []WallConfig{
			{Name: "Wall", Position: mgl32.Vec3{100, 0, 0}, Angle: mgl32.DegToRad(90), Length: 10},
		},
		Keys: DefaultKeys(),
	}
}

// DefaultKeys returns the key names of grove.DefaultBindings by action.
func DefaultKeys() map[string][]string {
	keys := make(map[string][]string)
	for key, action := range grove.DefaultBindings() {
		keys[action.String()] = append(keys[action.String()], key.String())
	}
	return keys
}

// Load reads a TOML config file. Unknown fields are errors.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("explorer: open config: %w", err)
	}
	defer f.Close()
	cfg, err := Read(f)
	if err != nil {
		return Config{}, fmt.Errorf("explorer: %s: %w", path, err)
	}
	return cfg, nil
}

// Read decodes a TOML config, fills defaults and validates the result.
func Read(r io.Reader) (Config, error) {
	var cfg Config
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("decode config: %s", strict.String())
		}
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.Window.Title == "" {
		c.Window.Title = def.Window.Title
	}
	if c.Window.Width == 0 {
		c.Window.Width = def.Window.Width
	}
	if c.Window.Height == 0 {
		c.Window.Height = def.Window.Height
	}
	if c.Camera.Offset == (mgl32.Vec3{}) {
		c.Camera.Offset = def.Camera.Offset
	}
	fillFloat(&c.Camera.FOV, def.Camera.FOV)
	fillFloat(&c.Camera.Near, def.Camera.Near)
	fillFloat(&c.Camera.Far, def.Camera.Far)
	fillFloat(&c.Camera.LookStep, def.Camera.LookStep)
	fillFloat(&c.Player.Radius, def.Player.Radius)
	fillFloat(&c.Player.Speed, def.Player.Speed)
	fillFloat(&c.Player.JumpImpulse, def.Player.JumpImpulse)
	fillFloat(&c.Player.JumpAccel, def.Player.JumpAccel)
	fillFloat(&c.Player.JumpStep, def.Player.JumpStep)
	if c.Sky.State == "" {
		c.Sky.State = def.Sky.State
	}
	if c.Trees == nil {
		c.Trees = def.Trees
	}
	if c.Boxes == nil {
		c.Boxes = def.Boxes
	}
	if c.Bonfires == nil {
		c.Bonfires = def.Bonfires
	}
	if c.Triggers == nil {
		c.Triggers = def.Triggers
	}
	if c.Walls == nil {
		c.Walls = def.Walls
	}
	for i := range c.Bonfires {
		fillFloat(&c.Bonfires[i].Reach, 4)
	}
	for i := range c.Walls {
		fillFloat(&c.Walls[i].Length, 10)
	}
}

func fillFloat(v *float32, def float32) {
	if *v == 0 {
		*v = def
	}
}

// Validate checks the config for values the world cannot be built from.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("invalid clip planes near=%v far=%v", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("invalid fov %v", c.Camera.FOV)
	}
	if c.Player.Radius <= 0 {
		return fmt.Errorf("invalid player radius %v", c.Player.Radius)
	}
	if c.Sky.State != SkyVillage && c.Sky.State != SkyCastle {
		return fmt.Errorf("unknown sky state %q", c.Sky.State)
	}

	names := make(map[string]bool)
	claim := func(kind, name string) error {
		if name == "" {
			return fmt.Errorf("%s: %w", kind, grove.ErrEmptyName)
		}
		if names[name] {
			return fmt.Errorf("%s %q: %w", kind, name, grove.ErrDuplicateNode)
		}
		names[name] = true
		return nil
	}
	for _, t := range c.Trees {
		if err := claim("tree", t.Name); err != nil {
			return err
		}
		if t.Depth < 0 || t.Depth > maxTreeDepth {
			return fmt.Errorf("tree %q: depth %d out of range [0, %d]", t.Name, t.Depth, maxTreeDepth)
		}
	}
	for _, b := range c.Boxes {
		if err := claim("box", b.Name); err != nil {
			return err
		}
	}
	for _, b := range c.Bonfires {
		if err := claim("bonfire", b.Name); err != nil {
			return err
		}
	}
	for _, t := range c.Triggers {
		if err := claim("trigger", t.Name); err != nil {
			return err
		}
		if t.Reach <= 0 {
			return fmt.Errorf("trigger %q: reach must be positive", t.Name)
		}
	}
	for _, w := range c.Walls {
		if err := claim("wall", w.Name); err != nil {
			return err
		}
	}
	if _, err := c.Bindings(); err != nil {
		return err
	}
	return nil
}

// Bindings builds the key bindings. Actions listed in Keys replace their
// default keys; other actions keep theirs.
func (c *Config) Bindings() (grove.Bindings, error) {
	b := grove.DefaultBindings()
	for name, keys := range c.Keys {
		action, err := grove.ParseAction(strings.ToLower(name))
		if err != nil {
			return nil, fmt.Errorf("keys: %w", err)
		}
		for k, a := range b {
			if a == action {
				delete(b, k)
			}
		}
		for _, keyName := range keys {
			key, err := ParseKey(keyName)
			if err != nil {
				return nil, fmt.Errorf("keys.%s: %w", name, err)
			}
			b[key] = action
		}
	}
	return b, nil
}

// ParseKey returns the ebiten key with the given name, such as "W",
// "Space" or "ArrowUp".
func ParseKey(name string) (ebiten.Key, error) {
	var k ebiten.Key
	if err := k.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("unknown key %q", name)
	}
	return k, nil
}
