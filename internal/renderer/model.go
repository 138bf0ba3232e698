package renderer

import (
	"GopherToon/internal/logger"
	"fmt"
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// ShadingModel selects the lighting a material is drawn with.
type ShadingModel int

const (
	ShadingStandard ShadingModel = iota // lit by the scene light
	ShadingUnlit                        // texture colour only
)

func (s ShadingModel) String() string {
	switch s {
	case ShadingStandard:
		return "standard"
	case ShadingUnlit:
		return "unlit"
	}
	return fmt.Sprintf("ShadingModel(%d)", int(s))
}

// DefaultMaterial provides a basic material to fall back on
var DefaultMaterial = &Material{
	Name:          "default",
	Shading:       ShadingStandard,
	DiffuseColor:  [3]float32{1.0, 1.0, 1.0},
	SpecularColor: [3]float32{0.5, 0.5, 0.5},
	Shininess:     32.0,
	Exposure:      1.0,
	Alpha:         1.0,
}

type Model struct {
	// HOT DATA - Accessed every frame in render loop
	ModelMatrix mgl32.Mat4
	Position    mgl32.Vec3
	Scale       mgl32.Vec3
	Rotation    mgl32.Quat
	Material    *Material
	Toon        *ToonMaterial // overrides Material's shading when set
	RampPreview *ToonMaterial // draw this material's ramp texture unlit
	VAO         uint32
	VBO         uint32
	EBO         uint32
	IsDirty     bool

	// COLD DATA - Initialization only or rarely accessed
	Id              int
	Name            string
	SourcePath      string
	Vertices        []float32
	Normals         []float32
	Faces           []int32
	TextureCoords   []float32
	InterleavedData []float32 // x,y,z,u,v,nx,ny,nz per vertex
}

type Material struct {
	// HOT DATA - Accessed every render call for shading calculations
	DiffuseColor  [3]float32
	SpecularColor [3]float32
	Shininess     float32
	Exposure      float32
	Alpha         float32
	TextureID     uint32
	Shading       ShadingModel

	// COLD DATA
	Name        string
	TexturePath string // loaded lazily once GL is ready
}

// NewMaterial returns a standard material with the defaults of DefaultMaterial.
func NewMaterial(name string) *Material {
	m := *DefaultMaterial
	m.Name = name
	return &m
}

func (m *Model) Rotate(angleX, angleY, angleZ float32) {
	if m.Rotation == (mgl32.Quat{}) {
		m.Rotation = mgl32.QuatIdent()
	}
	rotationX := mgl32.QuatRotate(mgl32.DegToRad(angleX), mgl32.Vec3{1, 0, 0})
	rotationY := mgl32.QuatRotate(mgl32.DegToRad(angleY), mgl32.Vec3{0, 1, 0})
	rotationZ := mgl32.QuatRotate(mgl32.DegToRad(angleZ), mgl32.Vec3{0, 0, 1})
	m.Rotation = m.Rotation.Mul(rotationX).Mul(rotationY).Mul(rotationZ)
	m.IsDirty = true
}

func (m *Model) SetPosition(x, y, z float32) {
	m.Position = mgl32.Vec3{x, y, z}
	m.IsDirty = true
}

func (m *Model) SetScale(x, y, z float32) {
	m.Scale = mgl32.Vec3{x, y, z}
	m.IsDirty = true
}

// calculateModelMatrix builds ModelMatrix as translation * rotation * scale
func (m *Model) calculateModelMatrix() {
	rotation := m.Rotation
	if rotation == (mgl32.Quat{}) {
		rotation = mgl32.QuatIdent()
	}
	scaleMatrix := mgl32.Scale3D(m.Scale.X(), m.Scale.Y(), m.Scale.Z())
	translationMatrix := mgl32.Translate3D(m.Position.X(), m.Position.Y(), m.Position.Z())
	m.ModelMatrix = translationMatrix.Mul4(rotation.Mat4()).Mul4(scaleMatrix)
}

// ensureMaterial gives the model its own material instead of the shared default
func (m *Model) ensureMaterial() {
	if m.Material == nil || m.Material == DefaultMaterial {
		m.Material = NewMaterial(m.Name)
	}
}

func (m *Model) SetDiffuseColor(r, g, b float32) {
	m.ensureMaterial()
	m.Material.DiffuseColor = [3]float32{r, g, b}
}

func (m *Model) SetSpecularColor(r, g, b float32) {
	m.ensureMaterial()
	m.Material.SpecularColor = [3]float32{r, g, b}
}

func (m *Model) SetExposure(exposure float32) {
	m.ensureMaterial()
	m.Material.Exposure = exposure
}

// SetToonMaterial shades the model with toon. The toon material's base
// replaces the model's own material.
func (m *Model) SetToonMaterial(toon *ToonMaterial) {
	m.Toon = toon
	if toon != nil {
		m.Material = toon.Base()
	}
}

func (m *Model) SetTexture(texturePath string) {
	m.ensureMaterial()
	m.Material.TexturePath = texturePath
	logger.Log.Debug("Texture path set for model",
		zap.String("path", texturePath),
		zap.String("material", m.Material.Name))
}

// SetDefaultTexture uploads a 1x1 white texture used by untextured materials.
func SetDefaultTexture(textures *TextureManager) error {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{255, 255, 255, 255})

	textureID, err := textures.CreateTextureFromImage(img, "default")
	if err != nil {
		return err
	}
	DefaultMaterial.TextureID = textureID
	return nil
}

func CreateModel(vertices []mgl32.Vec3, indices []int32) *Model {
	interleavedData := make([]float32, 0, len(vertices)*8)

	for _, v := range vertices {
		interleavedData = append(interleavedData, v.X(), v.Y(), v.Z())
		interleavedData = append(interleavedData, 0.0, 0.0)
		interleavedData = append(interleavedData, 0.0, 1.0, 0.0)
	}

	return &Model{
		Position:        mgl32.Vec3{0, 0, 0},
		Rotation:        mgl32.QuatIdent(),
		Scale:           mgl32.Vec3{1.0, 1.0, 1.0},
		Vertices:        flattenVertices(vertices),
		Faces:           indices,
		InterleavedData: interleavedData,
		Material:        NewMaterial("default"),
		IsDirty:         true,
	}
}

// CreateModelInterleaved builds a model from x,y,z,u,v,nx,ny,nz vertex data.
func CreateModelInterleaved(interleaved []float32, indices []int32) *Model {
	vertices := make([]float32, 0, len(interleaved)/8*3)
	for i := 0; i+7 < len(interleaved); i += 8 {
		vertices = append(vertices, interleaved[i], interleaved[i+1], interleaved[i+2])
	}
	return &Model{
		Rotation:        mgl32.QuatIdent(),
		Scale:           mgl32.Vec3{1, 1, 1},
		Vertices:        vertices,
		Faces:           indices,
		InterleavedData: interleaved,
		Material:        NewMaterial("default"),
		IsDirty:         true,
	}
}

// Helper to flatten Vec3 array
func flattenVertices(vertices []mgl32.Vec3) []float32 {
	flat := make([]float32, 0, len(vertices)*3)
	for _, v := range vertices {
		flat = append(flat, v.X(), v.Y(), v.Z())
	}
	return flat
}
