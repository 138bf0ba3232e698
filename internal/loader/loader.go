package loader

import (
	"GopherToon/internal/logger"
	"GopherToon/internal/renderer"
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var ErrEmptyMesh = errors.New("mesh has no faces")

// LoadModel reads a Wavefront OBJ file. Materials referenced through mtllib
// are resolved relative to the file.
func LoadModel(filename string, recalculateNormals bool) (*renderer.Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	model, err := ParseOBJ(file, filepath.Dir(filename), recalculateNormals)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	model.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	model.SourcePath = filename
	if model.Material.Name == "default" {
		model.Material.Name = model.Name
	}
	return model, nil
}

// ParseOBJ builds a model from OBJ data. dir resolves mtllib references;
// an empty dir skips material loading.
func ParseOBJ(r io.Reader, dir string, recalculateNormals bool) (*renderer.Model, error) {
	var (
		vertices      []float32
		textureCoords []float32
		normals       []float32
		faceVertices  []FaceVertex
		materials     map[string]*renderer.Material
	)

	model := &renderer.Model{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
		Material: renderer.NewMaterial("default"),
		IsDirty:  true,
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 || strings.HasPrefix(parts[0], "#") {
			continue
		}
		switch parts[0] {
		case "v":
			vertex, err := parseVertex(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			vertices = append(vertices, vertex...)
		case "vn":
			normal, err := parseVertex(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			normals = append(normals, normal...)
		case "vt":
			texCoord, err := parseTextureCoordinate(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			textureCoords = append(textureCoords, texCoord...)
		case "f":
			face, err := parseFace(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			faceVertices = append(faceVertices, face...)
		case "mtllib":
			if dir == "" || len(parts) < 2 {
				continue
			}
			materials = LoadMaterials(filepath.Join(dir, parts[1]))
		case "usemtl":
			// one material per model; the last usemtl wins
			if len(parts) < 2 {
				continue
			}
			if material, ok := materials[parts[1]]; ok {
				model.Material = material
			} else {
				logger.Log.Warn("Material not found", zap.String("material", parts[1]))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(faceVertices) == 0 {
		return nil, ErrEmptyMesh
	}

	interleaved, faces := unifyVertices(vertices, textureCoords, normals, faceVertices)
	if recalculateNormals {
		positions := make([]float32, 0, len(interleaved)/8*3)
		for i := 0; i+7 < len(interleaved); i += 8 {
			positions = append(positions, interleaved[i:i+3]...)
		}
		recalculated := RecalculateNormals(positions, faces)
		for v := 0; v*3+2 < len(recalculated); v++ {
			copy(interleaved[v*8+5:v*8+8], recalculated[v*3:v*3+3])
		}
	}

	model.InterleavedData = interleaved
	model.Faces = faces
	for i := 0; i+7 < len(interleaved); i += 8 {
		model.Vertices = append(model.Vertices, interleaved[i:i+3]...)
		model.TextureCoords = append(model.TextureCoords, interleaved[i+3:i+5]...)
		model.Normals = append(model.Normals, interleaved[i+5:i+8]...)
	}

	logger.Log.Debug("OBJ parsed",
		zap.Int("positions", len(vertices)/3),
		zap.Int("vertices", len(interleaved)/8),
		zap.Int("triangles", len(faces)/3))
	return model, nil
}

// unifyVertices turns OBJ's separate position/uv/normal indices into one
// interleaved buffer with a single index per vertex.
func unifyVertices(vertices, textureCoords, normals []float32, faceVertices []FaceVertex) ([]float32, []int32) {
	vertexMap := make(map[FaceVertex]int32)
	interleaved := make([]float32, 0, len(faceVertices)*8)
	faces := make([]int32, 0, len(faceVertices))

	for _, fv := range faceVertices {
		if idx, ok := vertexMap[fv]; ok {
			faces = append(faces, idx)
			continue
		}
		idx := int32(len(interleaved) / 8)
		vertexMap[fv] = idx

		if fv.VertexIdx >= 0 && int(fv.VertexIdx)*3+2 < len(vertices) {
			interleaved = append(interleaved, vertices[fv.VertexIdx*3:fv.VertexIdx*3+3]...)
		} else {
			logger.Log.Warn("Vertex index out of bounds",
				zap.Int32("vertexIdx", fv.VertexIdx),
				zap.Int("vertices", len(vertices)/3))
			interleaved = append(interleaved, 0, 0, 0)
		}

		if fv.TexCoordIdx >= 0 && int(fv.TexCoordIdx)*2+1 < len(textureCoords) {
			interleaved = append(interleaved, textureCoords[fv.TexCoordIdx*2:fv.TexCoordIdx*2+2]...)
		} else {
			interleaved = append(interleaved, 0, 0)
		}

		if fv.NormalIdx >= 0 && int(fv.NormalIdx)*3+2 < len(normals) {
			interleaved = append(interleaved, normals[fv.NormalIdx*3:fv.NormalIdx*3+3]...)
		} else {
			interleaved = append(interleaved, 0, 1, 0)
		}

		faces = append(faces, idx)
	}
	return interleaved, faces
}

// LoadMaterials loads material properties from a .mtl file. A missing or
// unreadable file yields no materials.
func LoadMaterials(filename string) map[string]*renderer.Material {
	file, err := os.Open(filename)
	if err != nil {
		logger.Log.Warn("Could not open material file", zap.String("path", filename), zap.Error(err))
		return nil
	}
	defer file.Close()

	materials, err := parseMaterials(file, filepath.Dir(filename))
	if err != nil {
		logger.Log.Warn("Could not read material file", zap.String("path", filename), zap.Error(err))
	}
	return materials
}

func parseMaterials(r io.Reader, dir string) (map[string]*renderer.Material, error) {
	var currentMaterial *renderer.Material
	materials := make(map[string]*renderer.Material)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] != "newmtl" && currentMaterial == nil {
			continue
		}

		switch fields[0] {
		case "newmtl":
			if len(fields) < 2 {
				logger.Log.Warn("Malformed material line", zap.String("line", line))
				continue
			}
			currentMaterial = renderer.NewMaterial(fields[1])
			materials[fields[1]] = currentMaterial
		case "Kd": // Diffuse color
			if len(fields) == 4 {
				currentMaterial.DiffuseColor = parseColor(fields[1:])
			}
		case "Ks": // Specular color
			if len(fields) == 4 {
				currentMaterial.SpecularColor = parseColor(fields[1:])
			}
		case "Ns": // Shininess
			if len(fields) == 2 {
				currentMaterial.Shininess = parseFloat(fields[1])
			}
		case "d": // Dissolve
			if len(fields) == 2 {
				currentMaterial.Alpha = parseFloat(fields[1])
			}
		case "map_Kd":
			if len(fields) >= 2 {
				// options may precede the path
				texturePath := fields[len(fields)-1]
				if !filepath.IsAbs(texturePath) {
					texturePath = filepath.Join(dir, texturePath)
				}
				currentMaterial.TexturePath = texturePath
			}
		}
	}
	return materials, scanner.Err()
}

func parseColor(fields []string) [3]float32 {
	var color [3]float32
	for i, field := range fields {
		color[i] = parseFloat(field)
	}
	return color
}

func parseFloat(s string) float32 {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		logger.Log.Warn("Invalid material value", zap.String("value", s))
		return 0
	}
	return float32(f)
}

func parseVertex(parts []string) ([]float32, error) {
	if len(parts) < 3 {
		return nil, fmt.Errorf("vertex needs 3 components, got %d", len(parts))
	}
	vertex := make([]float32, 0, 3)
	// a fourth w component is ignored
	for _, part := range parts[:3] {
		val, err := strconv.ParseFloat(part, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vertex value %q: %w", part, err)
		}
		vertex = append(vertex, float32(val))
	}
	return vertex, nil
}

type FaceVertex struct {
	VertexIdx   int32
	TexCoordIdx int32
	NormalIdx   int32
}

func parseFace(parts []string) ([]FaceVertex, error) {
	if len(parts) < 3 {
		return nil, fmt.Errorf("face needs at least 3 vertices, got %d", len(parts))
	}

	face := make([]FaceVertex, 0, len(parts))
	for _, part := range parts {
		vals := strings.Split(part, "/")

		vertexIdx, err := strconv.ParseInt(vals[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vertex index %q: %w", vals[0], err)
		}

		var texCoordIdx int32 = -1
		if len(vals) > 1 && vals[1] != "" {
			texIdx, err := strconv.ParseInt(vals[1], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid texture coordinate index %q: %w", vals[1], err)
			}
			texCoordIdx = int32(texIdx - 1) // .obj indices start at 1, not 0
		}

		var normalIdx int32 = -1
		if len(vals) > 2 && vals[2] != "" {
			normIdx, err := strconv.ParseInt(vals[2], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid normal index %q: %w", vals[2], err)
			}
			normalIdx = int32(normIdx - 1)
		}

		face = append(face, FaceVertex{
			VertexIdx:   int32(vertexIdx - 1),
			TexCoordIdx: texCoordIdx,
			NormalIdx:   normalIdx,
		})
	}

	if len(face) == 3 {
		return face, nil
	}
	// fan triangulation keeps the counter-clockwise winding
	triangulated := make([]FaceVertex, 0, (len(face)-2)*3)
	for i := 1; i < len(face)-1; i++ {
		triangulated = append(triangulated, face[0], face[i], face[i+1])
	}
	return triangulated, nil
}

func parseTextureCoordinate(parts []string) ([]float32, error) {
	if len(parts) < 2 {
		return nil, fmt.Errorf("texture coordinate needs 2 components, got %d", len(parts))
	}
	texCoord := make([]float32, 0, 2)
	for _, part := range parts[:2] {
		val, err := strconv.ParseFloat(part, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid texture coordinate value %q: %w", part, err)
		}
		texCoord = append(texCoord, float32(val))
	}
	return texCoord, nil
}

// RecalculateNormals averages face normals per vertex. Degenerate faces and
// out of range indices are skipped.
func RecalculateNormals(vertices []float32, faces []int32) []float32 {
	if len(vertices) == 0 || len(faces) == 0 {
		return nil
	}

	normals := make([]float32, len(vertices))
	for i := 0; i+2 < len(faces); i += 3 {
		idx0 := int(faces[i]) * 3
		idx1 := int(faces[i+1]) * 3
		idx2 := int(faces[i+2]) * 3

		if idx0 < 0 || idx1 < 0 || idx2 < 0 ||
			idx0+2 >= len(vertices) || idx1+2 >= len(vertices) || idx2+2 >= len(vertices) {
			logger.Log.Warn("Face index out of bounds", zap.Int("face", i/3))
			continue
		}

		v0 := mgl32.Vec3{vertices[idx0], vertices[idx0+1], vertices[idx0+2]}
		v1 := mgl32.Vec3{vertices[idx1], vertices[idx1+1], vertices[idx1+2]}
		v2 := mgl32.Vec3{vertices[idx2], vertices[idx2+1], vertices[idx2+2]}

		normal := v1.Sub(v0).Cross(v2.Sub(v0))
		if normal.Len() == 0 {
			continue
		}
		normal = normal.Normalize()

		for j := 0; j < 3; j++ {
			normals[idx0+j] += normal[j]
			normals[idx1+j] += normal[j]
			normals[idx2+j] += normal[j]
		}
	}

	for i := 0; i+2 < len(normals); i += 3 {
		n := mgl32.Vec3{normals[i], normals[i+1], normals[i+2]}
		if n.Len() == 0 {
			continue
		}
		n = n.Normalize()
		normals[i], normals[i+1], normals[i+2] = n[0], n[1], n[2]
	}
	return normals
}

// LoadQuad returns a camera-facing quad in the XY plane centred on the
// origin, with UVs spanning the full texture.
func LoadQuad(width, height float32) (*renderer.Model, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("quad size must be positive, got %vx%v", width, height)
	}
	w, h := width/2, height/2
	interleaved := []float32{
		-w, -h, 0, 0, 0, 0, 0, 1,
		w, -h, 0, 1, 0, 0, 0, 1,
		w, h, 0, 1, 1, 0, 0, 1,
		-w, h, 0, 0, 1, 0, 0, 1,
	}
	model := renderer.CreateModelInterleaved(interleaved, []int32{0, 1, 2, 0, 2, 3})
	model.Name = "quad"
	return model, nil
}

// LoadSphere builds a UV sphere with the given number of rings (latitude)
// and sectors (longitude).
func LoadSphere(radius float32, rings, sectors int) (*renderer.Model, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("sphere radius must be positive, got %v", radius)
	}
	if rings < 2 || sectors < 3 {
		return nil, errors.New("sphere needs at least 2 rings and 3 sectors")
	}

	interleaved := make([]float32, 0, (rings+1)*(sectors+1)*8)
	for r := 0; r <= rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		for s := 0; s <= sectors; s++ {
			theta := 2 * math.Pi * float64(s) / float64(sectors)
			nx := float32(math.Sin(phi) * math.Cos(theta))
			ny := float32(math.Cos(phi))
			nz := float32(math.Sin(phi) * math.Sin(theta))
			u := float32(s) / float32(sectors)
			v := float32(r) / float32(rings)
			interleaved = append(interleaved, nx*radius, ny*radius, nz*radius, u, v, nx, ny, nz)
		}
	}

	indices := make([]int32, 0, rings*sectors*6)
	for r := 0; r < rings; r++ {
		for s := 0; s < sectors; s++ {
			topLeft := int32(r*(sectors+1) + s)
			bottomLeft := topLeft + int32(sectors+1)
			// counter-clockwise seen from outside
			indices = append(indices, topLeft, topLeft+1, bottomLeft, bottomLeft, topLeft+1, bottomLeft+1)
		}
	}

	model := renderer.CreateModelInterleaved(interleaved, indices)
	model.Name = "sphere"
	return model, nil
}
