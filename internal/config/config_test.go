package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "toonview.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toonview.toml")
	doc := `
[window]
width = 640

[scene]
model = "models/rock.obj"
behaviours = ["turntable"]

[ramp]
preset = "/presets/moss.toml"
watch = true
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int32(640), cfg.Window.Width)
	assert.Equal(t, int32(768), cfg.Window.Height, "unset keys keep defaults")
	assert.Equal(t, filepath.Join(dir, "models", "rock.obj"), cfg.Scene.Model)
	assert.Equal(t, "/presets/moss.toml", cfg.Ramp.Preset)
	assert.True(t, cfg.Ramp.Watch)
	assert.Equal(t, []string{"turntable"}, cfg.Scene.Behaviours)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toonview.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"loud\"\n[window]\nwidth = -1\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err, "Load leaves validation to the caller")
	assert.Equal(t, "loud", cfg.Log.Level)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loud")
	assert.Contains(t, err.Error(), "window size")
}

func TestLoadResolvesTexture(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toonview.toml")
	require.NoError(t, os.WriteFile(path, []byte("[scene]\ntexture = \"tex/moss.png\"\nexposure = 1.5\n[render]\nface_culling = true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tex", "moss.png"), cfg.Scene.Texture)
	assert.Equal(t, float32(1.5), cfg.Scene.Exposure)
	assert.True(t, cfg.Render.FaceCulling)
	assert.NoError(t, cfg.Validate())
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toonview.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toonview.toml")
	cfg := Default()
	cfg.Light.Mode = "point"
	cfg.Scene.Behaviours = []string{"turntable"}

	require.NoError(t, cfg.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
