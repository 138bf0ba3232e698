package renderer

import (
	"GopherToon/internal/logger"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const (
	baseTextureUnit = 0
	rampTextureUnit = 1
)

var _ Render = (*OpenGLRenderer)(nil)

type OpenGLRenderer struct {
	defaultShader        *Shader
	unlitShader          *Shader
	Models               []*Model
	Textures             *TextureManager
	currentShaderProgram uint32 // avoid redundant program switches
}

func NewOpenGLRenderer() *OpenGLRenderer {
	return &OpenGLRenderer{
		Textures: NewTextureManager(GLTextureBackend{}),
	}
}

// Init must run with the window's GL context current.
func (rend *OpenGLRenderer) Init(width, height int32) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("OpenGL initialization failed: %w", err)
	}
	if rend.Textures == nil {
		rend.Textures = NewTextureManager(GLTextureBackend{})
	}

	if Debug {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}
	if err := SetDefaultTexture(rend.Textures); err != nil {
		return fmt.Errorf("default texture: %w", err)
	}
	gl.Viewport(0, 0, width, height)

	rend.defaultShader = InitShader()
	rend.unlitShader = InitUnlitShader()
	for _, shader := range []*Shader{rend.defaultShader, rend.unlitShader} {
		if err := shader.Compile(); err != nil {
			return err
		}
	}

	logger.Log.Info("OpenGL render initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))
	return nil
}

func (rend *OpenGLRenderer) AddModel(model *Model) {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(model.InterleavedData)*4, gl.Ptr(model.InterleavedData), gl.STATIC_DRAW)

	var ebo uint32
	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(model.Faces)*4, gl.Ptr(model.Faces), gl.STATIC_DRAW)

	stride := int32(8 * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)

	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)

	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, gl.PtrOffset(5*4))
	gl.EnableVertexAttribArray(2)
	gl.BindVertexArray(0)

	model.VAO = vao
	model.VBO = vbo
	model.EBO = ebo

	if model.Material != nil && model.Material.TexturePath != "" && model.Material.TextureID == 0 {
		textureID, err := rend.Textures.LoadTexture(model.Material.TexturePath)
		if err != nil {
			logger.Log.Warn("Could not load model texture",
				zap.String("model", model.Name),
				zap.String("path", model.Material.TexturePath),
				zap.Error(err))
		} else {
			model.Material.TextureID = textureID
		}
	}

	model.calculateModelMatrix()
	model.IsDirty = false

	rend.Models = append(rend.Models, model)
}

func (rend *OpenGLRenderer) RemoveModel(model *Model) {
	for i, m := range rend.Models {
		if m == model {
			rend.Models = append(rend.Models[:i], rend.Models[i+1:]...)
			gl.DeleteVertexArrays(1, &model.VAO)
			gl.DeleteBuffers(1, &model.VBO)
			gl.DeleteBuffers(1, &model.EBO)
			break
		}
	}
}

// shaderFor picks the program a model is drawn with.
func (rend *OpenGLRenderer) shaderFor(model *Model) *Shader {
	switch {
	case model.RampPreview != nil:
		return rend.unlitShader
	case model.Toon != nil:
		return model.Toon.Shader()
	case model.Material != nil && model.Material.Shading == ShadingUnlit:
		return rend.unlitShader
	}
	return rend.defaultShader
}

func (rend *OpenGLRenderer) Render(camera Camera, light *Light) {
	gl.ClearColor(ClearColorR, ClearColorG, ClearColorB, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if DepthTestEnabled {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthMask(true)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	if FaceCullingEnabled {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
		gl.FrontFace(gl.CCW)
	}

	viewProjection := camera.GetViewProjection()

	for _, model := range rend.Models {
		if model.Toon != nil && model.Toon.Disposed() {
			continue
		}
		if model.RampPreview != nil && model.RampPreview.Ramp() == nil {
			continue
		}

		if model.IsDirty {
			model.calculateModelMatrix()
			model.IsDirty = false
		}

		shader := rend.shaderFor(model)
		if !shader.IsCompiled() {
			if err := shader.Compile(); err != nil {
				if !errors.Is(err, errShaderFailed) {
					logger.Log.Error("Shader compilation failed", zap.String("model", model.Name), zap.Error(err))
				}
				continue
			}
		}

		if rend.currentShaderProgram != shader.program {
			shader.Use()
			rend.currentShaderProgram = shader.program
		}

		rend.setCommonUniforms(shader, viewProjection, model, light, camera)
		rend.setMaterialUniforms(shader, model)
		rend.bindTextures(shader, model)

		gl.BindVertexArray(model.VAO)
		gl.DrawElements(gl.TRIANGLES, int32(len(model.Faces)), gl.UNSIGNED_INT, nil)
		gl.BindVertexArray(0)
	}
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
}

// setCommonUniforms sets uniforms that are common to most shaders
func (rend *OpenGLRenderer) setCommonUniforms(shader *Shader, viewProjection mgl32.Mat4, model *Model, light *Light, camera Camera) {
	shader.SetMat4("viewProjection", viewProjection)
	shader.SetMat4("model", model.ModelMatrix)
	shader.SetVec3("viewPos", camera.Position)

	if light == nil {
		return
	}
	shader.SetVec3("light.position", light.Position)
	shader.SetVec3("light.direction", light.Direction)
	shader.SetVec3("light.color", light.Color)
	shader.SetFloat("light.intensity", light.Intensity)
	shader.SetFloat("light.ambientStrength", light.AmbientStrength)
	shader.SetBool("light.isDirectional", light.Mode == "directional")
}

// setMaterialUniforms sets material-specific uniforms
func (rend *OpenGLRenderer) setMaterialUniforms(shader *Shader, model *Model) {
	material := model.Material
	if material == nil {
		material = DefaultMaterial
	}
	shader.SetVec3("diffuseColor", mgl32.Vec3(material.DiffuseColor))
	shader.SetVec3("specularColor", mgl32.Vec3(material.SpecularColor))
	shader.SetFloat("shininess", material.Shininess)
	shader.SetFloat("exposure", material.Exposure)
	shader.SetFloat("alpha", material.Alpha)
}

func (rend *OpenGLRenderer) bindTextures(shader *Shader, model *Model) {
	baseTexture := DefaultMaterial.TextureID
	if model.Material != nil && model.Material.TextureID != 0 {
		baseTexture = model.Material.TextureID
	}
	if model.RampPreview != nil {
		baseTexture = model.RampPreview.Ramp().ID
	}

	gl.ActiveTexture(gl.TEXTURE0 + baseTextureUnit)
	gl.BindTexture(gl.TEXTURE_2D, baseTexture)
	shader.SetInt("textureSampler", baseTextureUnit)

	if model.Toon != nil {
		// unit 1 is shared by every toon model, so the ramp is bound per draw
		rampID, changed := takeRamp(model.Toon)
		if changed {
			logger.Log.Debug("Drawing new toon ramp",
				zap.String("model", model.Name),
				zap.Uint32("textureID", rampID),
				zap.Uint64("generation", model.Toon.Ramp().Generation))
		}
		gl.ActiveTexture(gl.TEXTURE0 + rampTextureUnit)
		gl.BindTexture(gl.TEXTURE_2D, rampID)
		shader.SetInt("uRamp", rampTextureUnit)
		gl.ActiveTexture(gl.TEXTURE0 + baseTextureUnit)
	}
}

// takeRamp returns the texture to draw toon with and whether it replaced the
// one drawn last time. It consumes the material's dirty flag.
func takeRamp(toon *ToonMaterial) (uint32, bool) {
	changed := toon.Dirty()
	toon.ClearDirty()
	return toon.Ramp().ID, changed
}

// disposeToonMaterials disposes every toon material the models reference,
// releasing their ramps and programs before the texture cache is cleared.
func (rend *OpenGLRenderer) disposeToonMaterials() {
	seen := make(map[*ToonMaterial]bool)
	for _, model := range rend.Models {
		for _, toon := range []*ToonMaterial{model.Toon, model.RampPreview} {
			if toon == nil || seen[toon] {
				continue
			}
			seen[toon] = true
			if err := toon.Dispose(); err != nil && !errors.Is(err, ErrMaterialDisposed) {
				logger.Log.Warn("Toon material dispose failed", zap.String("model", model.Name), zap.Error(err))
			}
		}
	}
}

func (rend *OpenGLRenderer) Cleanup() {
	rend.disposeToonMaterials()
	for _, model := range rend.Models {
		gl.DeleteVertexArrays(1, &model.VAO)
		gl.DeleteBuffers(1, &model.VBO)
		gl.DeleteBuffers(1, &model.EBO)
	}
	rend.Models = nil
	if rend.defaultShader != nil {
		rend.defaultShader.Delete()
	}
	if rend.unlitShader != nil {
		rend.unlitShader.Delete()
	}
	rend.Textures.LogStats()
	rend.Textures.Clear()
}

func (rend *OpenGLRenderer) LoadTexture(filePath string) (uint32, error) {
	return rend.Textures.LoadTexture(filePath)
}

func (rend *OpenGLRenderer) CreateTextureFromImage(img image.Image) (uint32, error) {
	return rend.Textures.CreateTextureFromImage(img, fmt.Sprintf("image-%p", img))
}

// UpdateViewport updates the OpenGL viewport to match the current window size
func (rend *OpenGLRenderer) UpdateViewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}

func GenShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	cSources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("failed to compile shader type 0x%x: %s", shaderType, strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

// GenShaderProgram links the program and, on success, frees both shaders.
func GenShaderProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("failed to link program: %s", strings.TrimRight(log, "\x00"))
	}
	gl.DetachShader(program, vertexShader)
	gl.DeleteShader(vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(fragmentShader)
	return program, nil
}
