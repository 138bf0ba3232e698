// camera.go
package renderer

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera orbits a target point. Yaw and pitch are in degrees.
type Camera struct {
	// HOT DATA - Accessed every frame for view/projection calculations
	Position   mgl32.Vec3
	Target     mgl32.Vec3
	Up         mgl32.Vec3
	Projection mgl32.Mat4
	Pitch      float32
	Yaw        float32
	Distance   float32

	// COLD DATA - Configuration and input handling
	WorldUp     mgl32.Vec3
	Speed       float32 // zoom speed in units per second
	Sensitivity float32 // degrees per pixel of mouse travel
	Fov         float32
	Near        float32
	Far         float32
	AspectRatio float32
	MinDistance float32
	MaxDistance float32
	InvertMouse bool
}

func NewDefaultCamera(width int32, height int32) *Camera {
	camera := Camera{
		Target:      mgl32.Vec3{0, 0, 0},
		WorldUp:     mgl32.Vec3{0, 1, 0},
		Up:          mgl32.Vec3{0, 1, 0},
		Pitch:       35.0,
		Yaw:         11.3,
		Distance:    72.0,
		Speed:       40,
		Sensitivity: 0.3,
		Fov:         39.6,
		Near:        0.1,
		Far:         1000.0,
		MinDistance: 1.0,
		MaxDistance: 500.0,
		AspectRatio: float32(width) / float32(height),
	}
	camera.updateCameraVectors()
	camera.UpdateProjection()
	return &camera
}

func (c *Camera) UpdateProjection() {
	c.Projection = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.AspectRatio, c.Near, c.Far)
}

func (c *Camera) SetAspectRatio(aspectRatio float32) {
	c.AspectRatio = aspectRatio
	c.UpdateProjection()
}

func (c *Camera) SetFov(fov float32) {
	c.Fov = fov
	c.UpdateProjection()
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return c.Projection
}

func (c *Camera) GetViewProjection() mgl32.Mat4 {
	return c.Projection.Mul4(c.GetViewMatrix())
}

// ProcessKeyboard zooms with W/S, faster while shift is held.
func (c *Camera) ProcessKeyboard(window *glfw.Window, deltaTime float32) {
	velocity := c.Speed * deltaTime
	if window.GetKey(glfw.KeyLeftShift) == glfw.Press || window.GetKey(glfw.KeyRightShift) == glfw.Press {
		velocity *= 2.5
	}

	if window.GetKey(glfw.KeyW) == glfw.Press {
		c.Zoom(-velocity)
	}
	if window.GetKey(glfw.KeyS) == glfw.Press {
		c.Zoom(velocity)
	}
}

// ProcessMouseMovement orbits around Target by the given pixel offsets.
func (c *Camera) ProcessMouseMovement(xoffset, yoffset float32, constrainPitch bool) {
	c.Yaw += xoffset * c.Sensitivity

	if c.InvertMouse {
		c.Pitch -= yoffset * c.Sensitivity
	} else {
		c.Pitch += yoffset * c.Sensitivity
	}
	if constrainPitch {
		c.Pitch = mgl32.Clamp(c.Pitch, -89.0, 89.0)
	}
	c.updateCameraVectors()
}

// Zoom moves the camera toward (negative) or away from the target.
func (c *Camera) Zoom(delta float32) {
	c.Distance = mgl32.Clamp(c.Distance+delta, c.MinDistance, c.MaxDistance)
	c.updateCameraVectors()
}

// LookAt orbits target from the current position.
func (c *Camera) LookAt(target mgl32.Vec3) {
	offset := c.Position.Sub(target)
	c.Target = target
	c.Distance = offset.Len()
	if c.Distance == 0 {
		c.Distance = c.MinDistance
		offset = mgl32.Vec3{0, 0, c.Distance}
	}
	c.Yaw = mgl32.RadToDeg(float32(math.Atan2(float64(offset.X()), float64(offset.Z()))))
	c.Pitch = mgl32.RadToDeg(float32(math.Asin(float64(offset.Y() / c.Distance))))
	c.updateCameraVectors()
}

func (c *Camera) updateCameraVectors() {
	yawRad := float64(mgl32.DegToRad(c.Yaw))
	pitchRad := float64(mgl32.DegToRad(c.Pitch))

	offset := mgl32.Vec3{
		float32(math.Sin(yawRad) * math.Cos(pitchRad)),
		float32(math.Sin(pitchRad)),
		float32(math.Cos(yawRad) * math.Cos(pitchRad)),
	}.Mul(c.Distance)

	c.Position = c.Target.Add(offset)
	front := c.Target.Sub(c.Position).Normalize()
	right := front.Cross(c.WorldUp).Normalize()
	c.Up = right.Cross(front).Normalize()
}
