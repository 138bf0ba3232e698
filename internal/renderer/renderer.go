package renderer

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

var FaceCullingEnabled bool = false
var Debug bool = false
var DepthTestEnabled bool = true
var ClearColorR float32 = 0.05 // Background clear color red
var ClearColorG float32 = 0.05 // Background clear color green
var ClearColorB float32 = 0.08 // Background clear color blue

type Light struct {
	Position        mgl32.Vec3
	Direction       mgl32.Vec3
	Color           mgl32.Vec3
	Intensity       float32
	AmbientStrength float32
	Mode            string // "directional", "point"
}

type Render interface {
	Init(width, height int32) error
	Render(camera Camera, light *Light)
	AddModel(model *Model)
	RemoveModel(model *Model)
	LoadTexture(path string) (uint32, error)
	CreateTextureFromImage(img image.Image) (uint32, error)
	UpdateViewport(width, height int32)
	Cleanup()
}

// CreateDirectionalLight creates a directional light (like the sun)
func CreateDirectionalLight(direction mgl32.Vec3, color mgl32.Vec3, intensity float32) *Light {
	return &Light{
		Position:        direction.Mul(-1000),
		Direction:       direction.Normalize(),
		Color:           color,
		Intensity:       intensity,
		AmbientStrength: 0.15,
		Mode:            "directional",
	}
}

// CreatePointLight creates a point light at position
func CreatePointLight(position mgl32.Vec3, color mgl32.Vec3, intensity float32) *Light {
	return &Light{
		Position:        position,
		Direction:       mgl32.Vec3{0, -1, 0},
		Color:           color,
		Intensity:       intensity,
		AmbientStrength: 0.1,
		Mode:            "point",
	}
}
