package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// =============================================================
//
//	Shaders
//
// =============================================================
type Shader struct {
	Name           string
	vertexSource   string
	fragmentSource string
	program        uint32
	isCompiled     bool
	failed         bool
	uniforms       *UniformCache
}

var errShaderFailed = errors.New("shader previously failed to compile")

func NewShader(name, vertexSource, fragmentSource string) *Shader {
	return &Shader{
		Name:           name,
		vertexSource:   vertexSource,
		fragmentSource: fragmentSource,
	}
}

func (shader *Shader) VertexSource() string {
	return shader.vertexSource
}

func (shader *Shader) FragmentSource() string {
	return shader.fragmentSource
}

func (shader *Shader) IsCompiled() bool {
	return shader.isCompiled
}

// Compile builds the GL program. It must run on the thread owning the GL
// context. A failed shader is not retried.
func (shader *Shader) Compile() error {
	if shader.isCompiled {
		return nil
	}
	if shader.failed {
		return fmt.Errorf("%s: %w", shader.Name, errShaderFailed)
	}

	var cleanup Unwind
	defer cleanup.Unwind()

	vs, err := GenShader(shader.vertexSource+"\x00", gl.VERTEX_SHADER)
	if err != nil {
		shader.failed = true
		return fmt.Errorf("%s: %w", shader.Name, err)
	}
	cleanup.Add(func() { gl.DeleteShader(vs) })

	fs, err := GenShader(shader.fragmentSource+"\x00", gl.FRAGMENT_SHADER)
	if err != nil {
		shader.failed = true
		return fmt.Errorf("%s: %w", shader.Name, err)
	}
	cleanup.Add(func() { gl.DeleteShader(fs) })

	program, err := GenShaderProgram(vs, fs)
	if err != nil {
		shader.failed = true
		return fmt.Errorf("%s: %w", shader.Name, err)
	}
	cleanup.Discard()

	shader.program = program
	shader.uniforms = NewUniformCache(program)
	shader.isCompiled = true
	return nil
}

func (shader *Shader) Use() {
	gl.UseProgram(shader.program)
}

// Delete releases the GL program. Shaders that never compiled hold nothing.
func (shader *Shader) Delete() {
	if !shader.isCompiled {
		return
	}
	gl.DeleteProgram(shader.program)
	shader.program = 0
	shader.isCompiled = false
	shader.uniforms = nil
}

func (shader *Shader) SetVec3(name string, value mgl32.Vec3) {
	shader.uniforms.SetVec3(name, value.X(), value.Y(), value.Z())
}

func (shader *Shader) SetFloat(name string, value float32) {
	shader.uniforms.SetFloat(name, value)
}

func (shader *Shader) SetInt(name string, value int32) {
	shader.uniforms.SetInt(name, value)
}

func (shader *Shader) SetBool(name string, value bool) {
	var v int32
	if value {
		v = 1
	}
	shader.uniforms.SetInt(name, v)
}

func (shader *Shader) SetMat4(name string, value mgl32.Mat4) {
	shader.uniforms.SetMat4(name, value)
}

var vertexShaderSource = `#version 330 core

layout(location = 0) in vec3 inPosition; // Vertex position
layout(location = 1) in vec2 inTexCoord; // Texture Coordinate
layout(location = 2) in vec3 inNormal;   // Vertex normal

uniform mat4 model;
uniform mat4 viewProjection;

out vec2 fragTexCoord;
out vec3 Normal;
out vec3 FragPos;

void main() {
    FragPos = vec3(model * vec4(inPosition, 1.0));
    Normal = mat3(transpose(inverse(model))) * inNormal;
    fragTexCoord = inTexCoord;
    gl_Position = viewProjection * vec4(FragPos, 1.0);
}
`

// standardFragmentShaderSource is the lit shader every patch is composed
// onto. At the output extension point outgoingLight (vec3) and diffuseAlpha
// (float) hold the resolved lighting and FragColor is already written.
var standardFragmentShaderSource = `#version 330 core
in vec2 fragTexCoord;
in vec3 Normal;
in vec3 FragPos;

uniform sampler2D textureSampler;
uniform struct Light {
    vec3 position;
    vec3 direction;
    vec3 color;
    float intensity;
    float ambientStrength;
    int isDirectional;
} light;
uniform vec3 viewPos;
uniform vec3 diffuseColor;
uniform vec3 specularColor;
uniform float shininess;
uniform float exposure;
uniform float alpha;

out vec4 FragColor;

` + ExtensionDeclarations + `

void main() {
    vec4 texColor = texture(textureSampler, fragTexCoord);
    vec3 albedo = diffuseColor * texColor.rgb;

    vec3 ambient = light.ambientStrength * light.color * albedo;

    vec3 norm = normalize(Normal);
    vec3 lightDir = light.isDirectional == 1
        ? normalize(-light.direction)
        : normalize(light.position - FragPos);
    float diff = max(dot(norm, lightDir), 0.0);
    vec3 diffuse = diff * light.color * albedo;

    vec3 viewDir = normalize(viewPos - FragPos);
    vec3 halfDir = normalize(lightDir + viewDir);
    float spec = pow(max(dot(norm, halfDir), 0.0), max(shininess, 1.0));
    vec3 specular = spec * light.color * specularColor;

    vec3 outgoingLight = (ambient + (diffuse + specular) * light.intensity) * exposure;
    float diffuseAlpha = alpha * texColor.a;
    FragColor = vec4(outgoingLight, diffuseAlpha);

    ` + ExtensionOutput + `
}
`

var unlitFragmentShaderSource = `#version 330 core
in vec2 fragTexCoord;

uniform sampler2D textureSampler;

out vec4 FragColor;

void main() {
    FragColor = vec4(texture(textureSampler, fragTexCoord).rgb, 1.0);
}
`

// InitShader returns the standard lit shader with no patch applied.
func InitShader() *Shader {
	return NewShader("standard", vertexShaderSource, standardFragmentShaderSource)
}

// InitUnlitShader returns the shader used to display a texture as-is.
func InitUnlitShader() *Shader {
	return NewShader("unlit", vertexShaderSource, unlitFragmentShaderSource)
}
