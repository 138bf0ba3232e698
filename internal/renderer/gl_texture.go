package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// GLTextureBackend uploads 2D RGBA8 textures to the current GL context.
type GLTextureBackend struct{}

func (GLTextureBackend) Upload(name string, pix []uint8, width, height int, filter TextureFilter) (uint32, error) {
	if len(pix) == 0 || width <= 0 || height <= 0 {
		return 0, fmt.Errorf("texture %s: empty image", name)
	}
	// drain stale errors so the check below only sees this upload
	for gl.GetError() != gl.NO_ERROR {
	}

	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_2D, textureID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))

	// GL_NEAREST results in blocked patterns, GL_LINEAR blends neighbouring texels.
	glFilter := int32(gl.LINEAR)
	if filter == FilterNearest {
		glFilter = gl.NEAREST
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &textureID)
		return 0, fmt.Errorf("texture %s: gl error 0x%x", name, code)
	}
	return textureID, nil
}

func (GLTextureBackend) Delete(textureID uint32) {
	gl.DeleteTextures(1, &textureID)
}
