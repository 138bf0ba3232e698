package renderer

import (
	"errors"
	"fmt"
	"strings"
)

// Extension points in the standard fragment shader. A patch may add
// declarations at the first and statements at the second; see
// standardFragmentShaderSource for what is in scope there.
const (
	ExtensionDeclarations = "//#extension gopher:declarations"
	ExtensionOutput       = "//#extension gopher:output"
)

// ShaderPatchVersion is the extension point contract ComposeFragment implements.
const ShaderPatchVersion = 1

var (
	ErrMissingExtensionPoint   = errors.New("shader has no usable extension point")
	ErrUnsupportedPatchVersion = errors.New("unsupported shader patch version")
)

// ShaderPatch is an opaque GLSL fragment composed after the base lighting.
type ShaderPatch struct {
	Name         string
	Version      int
	Declarations string
	Output       string
}

// ComposeFragment inserts patch into a fragment source carrying both
// extension points exactly once. The markers are kept so the result can be
// patched again.
func ComposeFragment(base string, patch ShaderPatch) (string, error) {
	if patch.Version != ShaderPatchVersion {
		return "", fmt.Errorf("%s: %w: %d", patch.Name, ErrUnsupportedPatchVersion, patch.Version)
	}
	for _, marker := range []string{ExtensionDeclarations, ExtensionOutput} {
		if n := strings.Count(base, marker); n != 1 {
			return "", fmt.Errorf("%w: %q found %d times", ErrMissingExtensionPoint, marker, n)
		}
	}

	src := strings.Replace(base, ExtensionDeclarations,
		ExtensionDeclarations+"\n// patch: "+patch.Name+"\n"+patch.Declarations, 1)
	src = strings.Replace(src, ExtensionOutput,
		ExtensionOutput+"\n    "+patch.Output, 1)
	return src, nil
}

// ToonPatch replaces the lit colour with a lookup into the 1D ramp bound to
// uRamp, keyed on the lit colour's luma.
var ToonPatch = ShaderPatch{
	Name:    "toon",
	Version: ShaderPatchVersion,
	Declarations: `uniform sampler2D uRamp;

float luma(vec3 color) {
    return dot(color, vec3(0.299, 0.587, 0.114));
}

vec3 colorRamp(float t, sampler2D ramp) {
    return texture(ramp, vec2(t, 0.5)).rgb;
}

vec3 getToonColor(vec3 lit) {
    float factor = clamp(luma(lit), 0.0, 1.0);
    return colorRamp(factor, uRamp);
}
`,
	Output: `FragColor = vec4(getToonColor(outgoingLight), diffuseAlpha);`,
}

// InitToonShader composes the standard shader with ToonPatch.
func InitToonShader() (*Shader, error) {
	frag, err := ComposeFragment(standardFragmentShaderSource, ToonPatch)
	if err != nil {
		return nil, err
	}
	return NewShader("toon", vertexShaderSource, frag), nil
}
