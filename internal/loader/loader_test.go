package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cubeFace = `# one face of a cube
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestParseOBJQuadFace(t *testing.T) {
	model, err := ParseOBJ(strings.NewReader(cubeFace), "", false)
	require.NoError(t, err)

	assert.Equal(t, []int32{0, 1, 2, 0, 2, 3}, model.Faces)
	require.Len(t, model.InterleavedData, 4*8)
	// second vertex: position, uv, normal
	assert.Equal(t, []float32{1, 0, 0, 1, 0, 0, 0, 1}, model.InterleavedData[8:16])
	assert.Len(t, model.Vertices, 12)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, model.Scale)
}

func TestParseOBJPositionsOnly(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	model, err := ParseOBJ(strings.NewReader(src), "", true)
	require.NoError(t, err)

	require.Len(t, model.Normals, 9)
	for i := 0; i < 3; i++ {
		n := model.Normals[i*3 : i*3+3]
		assert.InDelta(t, 1, n[2], 1e-6, "vertex %d normal should face +z", i)
	}
}

func TestParseOBJSharesVertices(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3\nf 1 3 4\n"
	model, err := ParseOBJ(strings.NewReader(src), "", false)
	require.NoError(t, err)

	assert.Len(t, model.InterleavedData, 4*8)
	assert.Equal(t, []int32{0, 1, 2, 0, 2, 3}, model.Faces)
}

func TestParseOBJErrors(t *testing.T) {
	cases := map[string]string{
		"bad vertex": "v 0 x 0\n",
		"short face": "v 0 0 0\nf 1 1\n",
		"bad index":  "v 0 0 0\nf a b c\n",
		"no faces":   "v 0 0 0\nv 1 0 0\n",
	}
	for name, src := range cases {
		_, err := ParseOBJ(strings.NewReader(src), "", false)
		assert.Error(t, err, name)
	}

	_, err := ParseOBJ(strings.NewReader("v 0 0 0\n"), "", false)
	assert.ErrorIs(t, err, ErrEmptyMesh)
}

func TestLoadModelWithMaterial(t *testing.T) {
	dir := t.TempDir()
	mtl := "newmtl moss\nKd 0.2 0.6 0.3\nNs 12\nmap_Kd tex/moss.png\n"
	obj := "mtllib moss.mtl\nusemtl moss\n" + cubeFace
	require.NoError(t, os.WriteFile(filepath.Join(dir, "moss.mtl"), []byte(mtl), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rock.obj"), []byte(obj), 0o644))

	model, err := LoadModel(filepath.Join(dir, "rock.obj"), false)
	require.NoError(t, err)

	assert.Equal(t, "rock", model.Name)
	assert.Equal(t, "moss", model.Material.Name)
	assert.Equal(t, [3]float32{0.2, 0.6, 0.3}, model.Material.DiffuseColor)
	assert.Equal(t, float32(12), model.Material.Shininess)
	assert.Equal(t, float32(1), model.Material.Alpha)
	assert.Equal(t, filepath.Join(dir, "tex", "moss.png"), model.Material.TexturePath)
}

func TestLoadModelMissingMaterialFile(t *testing.T) {
	dir := t.TempDir()
	obj := "mtllib gone.mtl\nusemtl gone\n" + cubeFace
	path := filepath.Join(dir, "rock.obj")
	require.NoError(t, os.WriteFile(path, []byte(obj), 0o644))

	model, err := LoadModel(path, false)
	require.NoError(t, err)
	assert.Equal(t, "rock", model.Material.Name)
}

func TestLoadModelMissingFile(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "none.obj"), false)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRecalculateNormalsSkipsBadIndices(t *testing.T) {
	vertices := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	normals := RecalculateNormals(vertices, []int32{0, 1, 2, 0, 1, 9})

	require.Len(t, normals, 9)
	assert.InDelta(t, 1, normals[2], 1e-6)
	assert.Nil(t, RecalculateNormals(nil, nil))
}

func TestLoadQuad(t *testing.T) {
	model, err := LoadQuad(2, 0.5)
	require.NoError(t, err)

	assert.Equal(t, []int32{0, 1, 2, 0, 2, 3}, model.Faces)
	assert.Equal(t, []float32{1, 0.25, 0}, model.Vertices[6:9])

	_, err = LoadQuad(0, 1)
	assert.Error(t, err)
}

func TestLoadSphere(t *testing.T) {
	model, err := LoadSphere(2, 8, 16)
	require.NoError(t, err)

	assert.Len(t, model.InterleavedData, 9*17*8)
	assert.Len(t, model.Faces, 8*16*6)
	for i := 0; i+7 < len(model.InterleavedData); i += 8 {
		p := mgl32.Vec3{model.InterleavedData[i], model.InterleavedData[i+1], model.InterleavedData[i+2]}
		assert.InDelta(t, 2, p.Len(), 1e-4)
	}

	_, err = LoadSphere(1, 1, 16)
	assert.Error(t, err)
}
