package explorer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/grove"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Window.Title != "Demo" || cfg.Window.Width != 1600 || cfg.Window.Height != 1200 {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.Camera.FOV != 20 || cfg.Camera.Offset != (mgl32.Vec3{0.5, 0.5, 10}) {
		t.Errorf("camera = %+v", cfg.Camera)
	}
	if cfg.Trees[0].Name != "root" || cfg.Trees[0].Depth != 4 {
		t.Errorf("first tree = %+v", cfg.Trees[0])
	}
}

func TestReadFillsDefaults(t *testing.T) {
	cfg, err := Read(strings.NewReader(`
[window]
title = "Woods"

[player]
speed = 0.5

[[trees]]
name = "root_oak"
position = [10.0, 0.0, -40.0]
depth = 2
wind = [0.0, 0.0, 1.0]
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Window.Title != "Woods" || cfg.Window.Width != 1600 {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.Player.Speed != 0.5 || cfg.Player.Radius != 1 || cfg.Player.JumpAccel != 5 {
		t.Errorf("player = %+v", cfg.Player)
	}
	if len(cfg.Trees) != 1 || cfg.Trees[0].Position != (mgl32.Vec3{10, 0, -40}) {
		t.Errorf("trees = %+v", cfg.Trees)
	}
	// Lists that were not given keep the default props.
	if len(cfg.Boxes) != len(Default().Boxes) {
		t.Errorf("boxes = %d, want defaults", len(cfg.Boxes))
	}
	if cfg.Sky.State != SkyVillage {
		t.Errorf("sky = %q", cfg.Sky.State)
	}
}

func TestReadRejectsUnknownFields(t *testing.T) {
	_, err := Read(strings.NewReader(`
[player]
sped = 2
`))
	if err == nil {
		t.Fatal("expected an error for an unknown field")
	}
	if !strings.Contains(err.Error(), "sped") {
		t.Errorf("error does not name the field: %v", err)
	}
}

func TestReadRejectsBadTOML(t *testing.T) {
	if _, err := Read(strings.NewReader("[window\n")); err == nil {
		t.Error("expected a syntax error")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.toml")
	data := "[sky]\nstate = \"castle\"\n\n[keys]\njump = [\"J\"]\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Sky.State != SkyCastle {
		t.Errorf("sky = %q", cfg.Sky.State)
	}
	b, err := cfg.Bindings()
	if err != nil {
		t.Fatal(err)
	}
	if b[ebiten.KeyJ] != grove.ActionJump {
		t.Error("J not bound to jump")
	}
	if _, ok := b[ebiten.KeySpace]; ok {
		t.Error("space should no longer be bound")
	}
	if b[ebiten.KeyW] != grove.ActionForward {
		t.Error("untouched actions lost their keys")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not exist", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"window", func(c *Config) { c.Window.Width = -1 }, "window"},
		{"clip", func(c *Config) { c.Camera.Far = c.Camera.Near }, "clip"},
		{"fov", func(c *Config) { c.Camera.FOV = 180 }, "fov"},
		{"radius", func(c *Config) { c.Player.Radius = 0 }, "radius"},
		{"sky", func(c *Config) { c.Sky.State = "desert" }, "sky"},
		{"depth", func(c *Config) { c.Trees[0].Depth = maxTreeDepth + 1 }, "depth"},
		{"duplicate", func(c *Config) { c.Boxes[0].Name = c.Trees[0].Name }, "duplicate"},
		{"empty", func(c *Config) { c.Walls[0].Name = "" }, "empty"},
		{"reach", func(c *Config) { c.Triggers[0].Reach = 0 }, "reach"},
		{"action", func(c *Config) { c.Keys = map[string][]string{"dance": {"X"}} }, "unknown action"},
		{"key", func(c *Config) { c.Keys = map[string][]string{"jump": {"NotAKey"}} }, "unknown key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateDuplicateWrapsSentinel(t *testing.T) {
	cfg := Default()
	cfg.Triggers[0].Name = cfg.Bonfires[0].Name
	if err := cfg.Validate(); !errors.Is(err, grove.ErrDuplicateNode) {
		t.Errorf("err = %v, want ErrDuplicateNode", err)
	}
}

func TestParseKey(t *testing.T) {
	tests := map[string]ebiten.Key{
		"W":       ebiten.KeyW,
		"Space":   ebiten.KeySpace,
		"ArrowUp": ebiten.KeyArrowUp,
	}
	for name, want := range tests {
		got, err := ParseKey(name)
		if err != nil {
			t.Errorf("ParseKey(%q): %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("ParseKey(%q) = %v, want %v", name, got, want)
		}
	}
	if _, err := ParseKey("Banana"); err == nil {
		t.Error("expected an error for an unknown key")
	}
}

func TestDefaultKeysMatchBindings(t *testing.T) {
	cfg := Default()
	b, err := cfg.Bindings()
	if err != nil {
		t.Fatal(err)
	}
	def := grove.DefaultBindings()
	if len(b) != len(def) {
		t.Fatalf("bindings = %d, want %d", len(b), len(def))
	}
	for k, a := range def {
		if b[k] != a {
			t.Errorf("%v bound to %v, want %v", k, b[k], a)
		}
	}
}
