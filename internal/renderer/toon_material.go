package renderer

import (
	"GopherToon/internal/logger"
	"GopherToon/internal/ramp"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	ErrUnsupportedShading = errors.New("toon material needs a standard lit base material")
	ErrMaterialDisposed   = errors.New("toon material already disposed")
)

// RampTexture is the GPU handle of a sampled ramp.
type RampTexture struct {
	ID         uint32
	Width      int
	Height     int
	Texels     ramp.Texels
	Generation uint64
}

// ToonMaterial shades like its base material, then replaces the lit colour
// with a ramp lookup keyed on its luma. It owns the ramp texture.
//
// A ToonMaterial is not safe for concurrent use. SetRamp must be called from
// the render thread between frames.
type ToonMaterial struct {
	base       *Material
	shader     *Shader
	textures   *TextureManager
	ramp       *RampTexture
	generation uint64
	dirty      bool
	disposed   bool
}

// NewToonMaterial wraps base and uploads the default ramp.
func NewToonMaterial(base *Material, textures *TextureManager) (*ToonMaterial, error) {
	if base == nil || textures == nil {
		return nil, errors.New("toon material needs a base material and a texture manager")
	}
	if base.Shading != ShadingStandard {
		return nil, fmt.Errorf("%w: %s is %s", ErrUnsupportedShading, base.Name, base.Shading)
	}

	shader, err := InitToonShader()
	if err != nil {
		return nil, err
	}

	m := &ToonMaterial{
		base:     base,
		shader:   shader,
		textures: textures,
	}
	if err := m.SetRamp(ramp.DefaultStops()); err != nil {
		return nil, err
	}
	return m, nil
}

// SetRamp samples stops and swaps in a freshly uploaded ramp texture. On any
// error the previous texture stays bound.
func (m *ToonMaterial) SetRamp(stops ramp.StopSet) error {
	if m.disposed {
		return ErrMaterialDisposed
	}

	texels, err := ramp.Sample(stops)
	if err != nil {
		return err
	}

	id, err := m.textures.CreateDataTexture("toon-ramp", texels[:], ramp.Resolution, 1, FilterLinear)
	if err != nil {
		return fmt.Errorf("toon material: %w", err)
	}

	m.generation++
	next := &RampTexture{
		ID:         id,
		Width:      ramp.Resolution,
		Height:     1,
		Texels:     *texels,
		Generation: m.generation,
	}
	prev := m.ramp
	m.ramp = next
	m.dirty = true
	if prev != nil {
		m.textures.ReleaseTexture(prev.ID)
	}

	logger.Log.Debug("Toon ramp updated",
		zap.Int("stops", len(stops)),
		zap.Uint32("textureID", id),
		zap.Uint64("generation", m.generation))
	return nil
}

// Ramp returns the bound ramp texture. Callers needing the stops must keep
// them themselves.
func (m *ToonMaterial) Ramp() *RampTexture {
	return m.ramp
}

func (m *ToonMaterial) Base() *Material {
	return m.base
}

func (m *ToonMaterial) Shader() *Shader {
	return m.shader
}

// Dirty reports whether the ramp texture was replaced since the renderer
// last drew with it. The renderer clears it on draw.
func (m *ToonMaterial) Dirty() bool {
	return m.dirty
}

func (m *ToonMaterial) ClearDirty() {
	m.dirty = false
}

func (m *ToonMaterial) Disposed() bool {
	return m.disposed
}

// Dispose frees the ramp texture and the shader program. Only the first call
// does anything.
func (m *ToonMaterial) Dispose() error {
	if m.disposed {
		return ErrMaterialDisposed
	}
	m.disposed = true

	if m.ramp != nil {
		m.textures.ReleaseTexture(m.ramp.ID)
		m.ramp = nil
	}
	m.shader.Delete()

	logger.Log.Debug("Toon material disposed", zap.String("base", m.base.Name))
	return nil
}
