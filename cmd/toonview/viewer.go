package main

import (
	"GopherToon/internal/behaviour"
	"GopherToon/internal/config"
	"GopherToon/internal/engine"
	"GopherToon/internal/loader"
	"GopherToon/internal/logger"
	"GopherToon/internal/ramp"
	"GopherToon/internal/renderer"
	"fmt"

	mgl "github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

func runViewer(cfg config.Config) error {
	stops := ramp.DefaultStops()
	if cfg.Ramp.Preset != "" {
		loaded, err := ramp.LoadPreset(cfg.Ramp.Preset)
		if err != nil {
			return err
		}
		stops = loaded
	}

	model, err := loadSceneModel(cfg.Scene)
	if err != nil {
		return err
	}

	gopher := engine.NewGopher(cfg.Window.Width, cfg.Window.Height)
	gopher.Title = cfg.Window.Title
	gopher.Light = newLight(cfg.Light)
	configureCamera(gopher.Camera, cfg.Camera)
	gopher.SetDebugMode(cfg.Render.Wireframe)
	gopher.SetFaceCulling(cfg.Render.FaceCulling)

	var watcher *ramp.Watcher
	if cfg.Ramp.Watch && cfg.Ramp.Preset != "" {
		watcher, err = ramp.NewWatcher(cfg.Ramp.Preset)
		if err != nil {
			return err
		}
		defer watcher.Close()
	}

	gopher.OnInit(func(g *engine.Gopher) error {
		toon, err := renderer.NewToonMaterial(model.Material, g.GetRenderer().Textures)
		if err != nil {
			return err
		}
		if err := toon.SetRamp(stops); err != nil {
			return fmt.Errorf("initial ramp: %w", err)
		}
		model.SetToonMaterial(toon)
		g.AddModel(model)

		g.RampEditor = engine.NewRampEditor(toon)
		if watcher != nil {
			g.Behaviours.Add(&engine.RampFeed{
				Updates: watcher.Updates(),
				Errors:  watcher.Errors(),
				Editor:  g.RampEditor,
			})
			logger.Log.Info("Watching ramp preset", zap.String("path", cfg.Ramp.Preset))
		}

		if cfg.Scene.ShowRamp {
			preview, err := loader.LoadQuad(4, 0.4)
			if err != nil {
				return err
			}
			preview.Name = "ramp-preview"
			preview.RampPreview = toon
			preview.SetPosition(0, -2.5, 0)
			g.AddModel(preview)
		}
		return nil
	})

	for _, name := range cfg.Scene.Behaviours {
		b := behaviour.Create(name, model)
		if b == nil {
			return fmt.Errorf("unknown behaviour %q (have %v)", name, behaviour.Available())
		}
		gopher.Behaviours.Add(b)
	}

	return gopher.Render(cfg.Window.X, cfg.Window.Y)
}

func loadSceneModel(scene config.Scene) (*renderer.Model, error) {
	var (
		model *renderer.Model
		err   error
	)
	if scene.Model == "" {
		model, err = loader.LoadSphere(1.5, 48, 96)
	} else {
		model, err = loader.LoadModel(scene.Model, scene.RecalculateNormals)
	}
	if err != nil {
		return nil, err
	}

	c := scene.DiffuseColor
	model.SetDiffuseColor(c[0], c[1], c[2])
	s := scene.SpecularColor
	model.SetSpecularColor(s[0], s[1], s[2])
	model.SetExposure(scene.Exposure)
	if scene.Texture != "" {
		model.SetTexture(scene.Texture)
	}
	// the toon ramp needs a lit base
	model.Material.Shading = renderer.ShadingStandard
	return model, nil
}

func newLight(cfg config.Light) *renderer.Light {
	if cfg.Mode == "point" {
		return renderer.CreatePointLight(mgl.Vec3(cfg.Position), mgl.Vec3(cfg.Color), cfg.Intensity)
	}
	return renderer.CreateDirectionalLight(mgl.Vec3(cfg.Direction), mgl.Vec3(cfg.Color), cfg.Intensity)
}

func configureCamera(camera *renderer.Camera, cfg config.Camera) {
	camera.SetFov(cfg.Fov)
	camera.Target = mgl.Vec3(cfg.Target)
	camera.Distance = cfg.Distance
	camera.Zoom(0)
}
