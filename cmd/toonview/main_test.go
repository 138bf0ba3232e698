package main

import (
	"GopherToon/internal/behaviour"
	"GopherToon/internal/config"
	"GopherToon/internal/ramp"
	"GopherToon/internal/renderer"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportRampDefaultStops(t *testing.T) {
	out := filepath.Join(t.TempDir(), "ramp.bmp")
	require.NoError(t, exportRamp("", out))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	got, err := ramp.DecodeBMP(f)
	require.NoError(t, err)
	want, err := ramp.Sample(ramp.DefaultStops())
	require.NoError(t, err)
	assert.Equal(t, *want, *got)
}

func TestExportRampMissingPreset(t *testing.T) {
	dir := t.TempDir()
	err := exportRamp(filepath.Join(dir, "nope.toml"), filepath.Join(dir, "ramp.bmp"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteStarter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeStarter(dir, false))

	cfg, err := config.Load(filepath.Join(dir, "toonview.toml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ramp.toml"), cfg.Ramp.Preset)
	assert.Equal(t, []string{"turntable"}, cfg.Scene.Behaviours)

	stops, err := ramp.LoadPreset(cfg.Ramp.Preset)
	require.NoError(t, err)
	assert.Len(t, stops, len(ramp.DefaultStops()))

	assert.ErrorIs(t, writeStarter(dir, false), errExists)
	assert.NoError(t, writeStarter(dir, true))
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "toonview.toml")
	require.NoError(t, config.Default().Save(cfgPath))

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", cfgPath, "--preset", "moss.toml", "--watch", "--log-level", "warn"}))

	opts := &options{}
	opts.configPath, _ = cmd.Flags().GetString("config")
	opts.preset, _ = cmd.Flags().GetString("preset")
	opts.watch, _ = cmd.Flags().GetBool("watch")
	opts.logLevel, _ = cmd.Flags().GetString("log-level")

	cfg, err := loadConfig(cmd, opts)
	require.NoError(t, err)
	assert.Equal(t, "moss.toml", cfg.Ramp.Preset)
	assert.True(t, cfg.Ramp.Watch)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Empty(t, cfg.Scene.Model, "unset flags keep config values")
}

func TestTurntableRotatesModel(t *testing.T) {
	model := renderer.CreateModel([]mgl32.Vec3{{1, 0, 0}}, []int32{0})
	model.IsDirty = false

	b := behaviour.Create("turntable", model)
	require.NotNil(t, b)
	b.Update()
	assert.Equal(t, mgl32.QuatIdent(), model.Rotation, "only fixed updates spin")

	b.UpdateFixed()
	assert.True(t, model.IsDirty)
	assert.NotEqual(t, mgl32.QuatIdent(), model.Rotation)
}

func TestLoadSceneModelDefaultsToSphere(t *testing.T) {
	scene := config.Default().Scene
	scene.DiffuseColor = [3]float32{0.5, 0.7, 0.4}

	model, err := loadSceneModel(scene)
	require.NoError(t, err)
	assert.Equal(t, "sphere", model.Name)
	assert.Equal(t, renderer.ShadingStandard, model.Material.Shading)
	assert.Equal(t, [3]float32{0.5, 0.7, 0.4}, model.Material.DiffuseColor)
}

func TestLoadSceneModelAppliesMaterial(t *testing.T) {
	scene := config.Default().Scene
	scene.SpecularColor = [3]float32{0.1, 0.2, 0.3}
	scene.Exposure = 1.8
	scene.Texture = "/textures/moss.png"

	model, err := loadSceneModel(scene)
	require.NoError(t, err)
	assert.Equal(t, [3]float32{0.1, 0.2, 0.3}, model.Material.SpecularColor)
	assert.Equal(t, float32(1.8), model.Material.Exposure)
	assert.Equal(t, "/textures/moss.png", model.Material.TexturePath)
}

func TestLoadConfigFlagFixesInvalidFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "toonview.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[log]\nlevel = \"loud\"\n"), 0o644))

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--log-level", "debug"}))
	opts := &options{configPath: cfgPath, logLevel: "debug"}

	cfg, err := loadConfig(cmd, opts)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)

	_, err = loadConfig(newRootCmd(), &options{configPath: cfgPath})
	assert.ErrorContains(t, err, "loud")
}

func TestNewLight(t *testing.T) {
	cfg := config.Default().Light
	assert.Equal(t, "directional", newLight(cfg).Mode)

	cfg.Mode = "point"
	light := newLight(cfg)
	assert.Equal(t, "point", light.Mode)
	assert.Equal(t, mgl32.Vec3(cfg.Position), light.Position)
}
