// Package config loads the viewer settings from a TOML file.
package config

import (
	"GopherToon/internal/logger"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Window struct {
	Width  int32  `toml:"width"`
	Height int32  `toml:"height"`
	X      int    `toml:"x"`
	Y      int    `toml:"y"`
	Title  string `toml:"title"`
}

type Camera struct {
	Fov      float32    `toml:"fov"`
	Distance float32    `toml:"distance"`
	Target   [3]float32 `toml:"target"`
}

type Light struct {
	Mode      string     `toml:"mode"` // "directional" or "point"
	Direction [3]float32 `toml:"direction"`
	Position  [3]float32 `toml:"position"`
	Color     [3]float32 `toml:"color"`
	Intensity float32    `toml:"intensity"`
}

type Scene struct {
	Model              string     `toml:"model"` // empty draws a sphere
	RecalculateNormals bool       `toml:"recalculate_normals"`
	DiffuseColor       [3]float32 `toml:"diffuse_color"`
	SpecularColor      [3]float32 `toml:"specular_color"`
	Exposure           float32    `toml:"exposure"`
	Texture            string     `toml:"texture"` // overrides the model's map_Kd
	ShowRamp           bool       `toml:"show_ramp"`
	Behaviours         []string   `toml:"behaviours"`
}

type Render struct {
	Wireframe   bool `toml:"wireframe"`
	FaceCulling bool `toml:"face_culling"`
}

type Ramp struct {
	Preset string `toml:"preset"` // empty uses the built-in stops
	Watch  bool   `toml:"watch"`
}

type Log struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

type Config struct {
	Window Window `toml:"window"`
	Camera Camera `toml:"camera"`
	Light  Light  `toml:"light"`
	Scene  Scene  `toml:"scene"`
	Render Render `toml:"render"`
	Ramp   Ramp   `toml:"ramp"`
	Log    Log    `toml:"log"`
}

func Default() Config {
	return Config{
		Window: Window{Width: 1024, Height: 768, X: 100, Y: 100, Title: "GopherToon"},
		Camera: Camera{Fov: 39.6, Distance: 6},
		Light: Light{
			Mode:      "directional",
			Direction: [3]float32{-0.4, -1, -0.3},
			Position:  [3]float32{5, 10, 5},
			Color:     [3]float32{1, 1, 1},
			Intensity: 1,
		},
		Scene: Scene{
			DiffuseColor:  [3]float32{1, 1, 1},
			SpecularColor: [3]float32{0.5, 0.5, 0.5},
			Exposure:      1,
			ShowRamp:      true,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file is not an error. The
// result is not validated so callers can apply overrides first.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Log.Info("No config file, using defaults", zap.String("path", path))
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	// relative asset paths are relative to the config file
	dir := filepath.Dir(path)
	cfg.Scene.Model = resolve(dir, cfg.Scene.Model)
	cfg.Ramp.Preset = resolve(dir, cfg.Ramp.Preset)
	cfg.Scene.Texture = resolve(dir, cfg.Scene.Texture)
	return cfg, nil
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func (c Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		errs = append(errs, fmt.Errorf("camera fov must be in (0, 180), got %v", c.Camera.Fov))
	}
	if c.Scene.Exposure <= 0 {
		errs = append(errs, fmt.Errorf("exposure must be positive, got %v", c.Scene.Exposure))
	}
	if c.Light.Mode != "directional" && c.Light.Mode != "point" {
		errs = append(errs, fmt.Errorf("unknown light mode %q", c.Light.Mode))
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
	}
	return errors.Join(errs...)
}
