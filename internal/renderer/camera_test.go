package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewDefaultCamera(t *testing.T) {
	cam := NewDefaultCamera(800, 600)

	if cam == nil {
		t.Fatal("NewDefaultCamera returned nil")
	}

	if cam.Position == (mgl32.Vec3{0, 0, 0}) {
		t.Error("Camera position should not be at origin")
	}

	if cam.Speed <= 0 {
		t.Error("Camera speed should be positive")
	}

	if cam.Sensitivity <= 0 {
		t.Error("Camera sensitivity should be positive")
	}

	if math.Abs(float64(cam.AspectRatio)-800.0/600.0) > 1e-5 {
		t.Errorf("Expected aspect ratio 4/3, got %f", cam.AspectRatio)
	}
}

func TestCameraOrbitKeepsDistance(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	cam.ProcessMouseMovement(120, 40, true)

	dist := cam.Position.Sub(cam.Target).Len()
	if math.Abs(float64(dist-cam.Distance)) > 1e-3 {
		t.Errorf("Orbit should keep distance %f, got %f", cam.Distance, dist)
	}
}

func TestCameraPitchConstrained(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	cam.ProcessMouseMovement(0, 10000, true)

	if cam.Pitch > 89.0 || cam.Pitch < -89.0 {
		t.Errorf("Pitch should be clamped, got %f", cam.Pitch)
	}
}

func TestCameraZoomClamped(t *testing.T) {
	cam := NewDefaultCamera(800, 600)

	cam.Zoom(-1e6)
	if cam.Distance != cam.MinDistance {
		t.Errorf("Expected min distance %f, got %f", cam.MinDistance, cam.Distance)
	}

	cam.Zoom(1e6)
	if cam.Distance != cam.MaxDistance {
		t.Errorf("Expected max distance %f, got %f", cam.MaxDistance, cam.Distance)
	}
}

func TestCameraLookAt(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	cam.Position = mgl32.Vec3{0, 0, 10}
	cam.LookAt(mgl32.Vec3{0, 0, 0})

	if !cam.Position.ApproxEqualThreshold(mgl32.Vec3{0, 0, 10}, 1e-4) {
		t.Errorf("LookAt should keep the camera in place, got %v", cam.Position)
	}
	if math.Abs(float64(cam.Distance)-10) > 1e-4 {
		t.Errorf("Expected distance 10, got %f", cam.Distance)
	}
}

func TestCameraGetViewProjection(t *testing.T) {
	cam := NewDefaultCamera(800, 600)

	vp := cam.GetViewProjection()

	zero := mgl32.Mat4{}
	if vp == zero {
		t.Error("ViewProjection should not be zero matrix")
	}
}

func TestCameraGetProjectionMatrix(t *testing.T) {
	cam := NewDefaultCamera(800, 600)

	proj := cam.GetProjectionMatrix()

	if proj.At(3, 3) != 0.0 {
		t.Error("Perspective projection should have w=0 at (3,3)")
	}
}
