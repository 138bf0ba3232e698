package engine

import (
	"GopherToon/internal/behaviour"
	"GopherToon/internal/logger"
	"GopherToon/internal/renderer"
	"errors"
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

// Initialize to the center of the window
var lastX, lastY float64
var firstMouse bool = true

const fixedUpdateEvery = 2 // frames

type Gopher struct {
	Width             int32
	Height            int32
	Title             string
	Light             *renderer.Light
	Camera            *renderer.Camera
	Behaviours        *behaviour.BehaviourManager
	RampEditor        *RampEditor // flushed once per frame before drawing
	EnableCameraInput bool

	rendererAPI  *renderer.OpenGLRenderer
	window       *glfw.Window
	pending      []*renderer.Model
	initialized  bool
	frameTrackId int
	onInit       func(g *Gopher) error
}

func NewGopher(width, height int32) *Gopher {
	logger.Log.Info("GopherToon initializing...")
	return &Gopher{
		Width:             width,
		Height:            height,
		Title:             "GopherToon",
		Camera:            renderer.NewDefaultCamera(width, height),
		Behaviours:        behaviour.GlobalBehaviourManager,
		EnableCameraInput: true,
		rendererAPI:       renderer.NewOpenGLRenderer(),
	}
}

// OnInit registers fn to run once the GL context and renderer exist. GPU
// resources such as toon materials must be created there.
func (gopher *Gopher) OnInit(fn func(g *Gopher) error) {
	gopher.onInit = fn
}

// Render opens the window and blocks until it is closed. It must be called
// from the main goroutine.
func (gopher *Gopher) Render(x, y int) error {
	lastX, lastY = float64(gopher.Width/2), float64(gopher.Height/2)
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("could not initialize glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 32)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(gopher.Width), int(gopher.Height), gopher.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("could not create glfw window: %w", err)
	}
	gopher.window = window
	window.MakeContextCurrent()
	window.SetPos(x, y)

	if err := gopher.rendererAPI.Init(gopher.Width, gopher.Height); err != nil {
		return err
	}
	gopher.initialized = true
	for _, model := range gopher.pending {
		gopher.rendererAPI.AddModel(model)
	}
	gopher.pending = nil

	if gopher.onInit != nil {
		if err := gopher.onInit(gopher); err != nil {
			gopher.rendererAPI.Cleanup()
			return err
		}
	}

	window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	window.SetCursorPosCallback(gopher.mouseCallback)
	window.SetScrollCallback(gopher.scrollCallback)

	gopher.RenderLoop()
	return nil
}

func (gopher *Gopher) RenderLoop() {
	var lastTime = glfw.GetTime()
	var lastWidth, lastHeight int32 = gopher.Width, gopher.Height

	for !gopher.window.ShouldClose() {
		currentTime := glfw.GetTime()
		deltaTime := currentTime - lastTime
		lastTime = currentTime

		actualWidth, actualHeight := gopher.window.GetFramebufferSize()
		gopher.Width, gopher.Height = int32(actualWidth), int32(actualHeight)
		if gopher.Width != lastWidth || gopher.Height != lastHeight {
			gopher.rendererAPI.UpdateViewport(gopher.Width, gopher.Height)
			if gopher.Height > 0 {
				gopher.Camera.SetAspectRatio(float32(gopher.Width) / float32(gopher.Height))
			}
			lastWidth, lastHeight = gopher.Width, gopher.Height
		}

		if gopher.EnableCameraInput {
			gopher.Camera.ProcessKeyboard(gopher.window, float32(deltaTime))
		}

		gopher.frameTrackId++
		if gopher.frameTrackId >= fixedUpdateEvery {
			gopher.Behaviours.UpdateAllFixed()
			gopher.frameTrackId = 0
		}
		gopher.Behaviours.UpdateAll()

		// edits land between frames, never while a draw is in flight
		if gopher.RampEditor != nil {
			if _, err := gopher.RampEditor.Flush(); err != nil && !errors.Is(err, renderer.ErrMaterialDisposed) {
				logger.Log.Debug("Keeping previous ramp", zap.Error(err))
			}
		}

		gopher.rendererAPI.Render(*gopher.Camera, gopher.Light)

		gopher.window.SwapBuffers()
		glfw.PollEvents()
	}
	gopher.rendererAPI.Cleanup()
}

// SetDebugMode draws wireframes.
func (gopher *Gopher) SetDebugMode(debug bool) {
	renderer.Debug = debug
}

func (gopher *Gopher) SetFaceCulling(enabled bool) {
	renderer.FaceCullingEnabled = enabled
}

// AddModel uploads model, or queues it until the renderer is initialized.
func (gopher *Gopher) AddModel(model *renderer.Model) {
	if !gopher.initialized {
		gopher.pending = append(gopher.pending, model)
		return
	}
	gopher.rendererAPI.AddModel(model)
}

func (gopher *Gopher) RemoveModel(model *renderer.Model) {
	if !gopher.initialized {
		for i, m := range gopher.pending {
			if m == model {
				gopher.pending = append(gopher.pending[:i], gopher.pending[i+1:]...)
				return
			}
		}
		return
	}
	gopher.rendererAPI.RemoveModel(model)
}

// GetRenderer returns the renderer, e.g. for its texture manager.
func (gopher *Gopher) GetRenderer() *renderer.OpenGLRenderer {
	return gopher.rendererAPI
}

// Mouse callback function
func (gopher *Gopher) mouseCallback(w *glfw.Window, xpos, ypos float64) {
	// orbit only while the right mouse button is held
	if gopher.EnableCameraInput && w.GetAttrib(glfw.Focused) == glfw.True && w.GetMouseButton(glfw.MouseButtonRight) == glfw.Press {
		if firstMouse {
			lastX = xpos
			lastY = ypos
			firstMouse = false
			return
		}

		xoffset := xpos - lastX
		yoffset := lastY - ypos // Reversed since y-coordinates go from bottom to top
		lastX = xpos
		lastY = ypos

		gopher.Camera.ProcessMouseMovement(float32(xoffset), float32(yoffset), true)
	} else {
		firstMouse = true
	}
}

func (gopher *Gopher) scrollCallback(w *glfw.Window, xoff, yoff float64) {
	if gopher.EnableCameraInput {
		gopher.Camera.Zoom(float32(yoff))
	}
}
