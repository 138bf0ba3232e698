package renderer

import (
	"GopherToon/internal/logger"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"go.uber.org/zap"
)

// TextureFilter selects the sampler filtering of an uploaded texture.
type TextureFilter int

const (
	FilterLinear TextureFilter = iota
	FilterNearest
)

// TextureBackend performs the actual GPU allocation. GLTextureBackend is the
// production implementation.
type TextureBackend interface {
	Upload(name string, pix []uint8, width, height int, filter TextureFilter) (uint32, error)
	Delete(textureID uint32)
}

// TextureStats provides debugging and profiling information
type TextureStats struct {
	TotalTextures  int
	CacheHits      int
	CacheMisses    int
	ActiveTextures int
	ActiveBytes    int
}

// TextureManager manages texture loading, caching, and lifecycle
type TextureManager struct {
	backend         TextureBackend
	textureCache    map[string]uint32 // path -> texture ID
	textureRefCount map[uint32]int    // texture ID -> reference count
	texturePaths    map[uint32]string // texture ID -> path or name (for debugging)
	textureBytes    map[uint32]int    // texture ID -> uploaded size
	mu              sync.RWMutex
	stats           TextureStats
}

// NewTextureManager creates a texture manager uploading through backend
func NewTextureManager(backend TextureBackend) *TextureManager {
	return &TextureManager{
		backend:         backend,
		textureCache:    make(map[string]uint32),
		textureRefCount: make(map[uint32]int),
		texturePaths:    make(map[uint32]string),
		textureBytes:    make(map[uint32]int),
	}
}

// LoadTexture loads a texture from file or returns cached texture ID
// Automatically increments reference count
func (tm *TextureManager) LoadTexture(filePath string) (uint32, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if textureID, exists := tm.textureCache[filePath]; exists {
		tm.textureRefCount[textureID]++
		tm.stats.CacheHits++

		logger.Log.Debug("Texture cache hit",
			zap.String("path", filePath),
			zap.Uint32("textureID", textureID),
			zap.Int("refCount", tm.textureRefCount[textureID]))

		return textureID, nil
	}

	tm.stats.CacheMisses++

	imgFile, err := os.Open(filePath)
	if err != nil {
		return 0, err
	}
	defer imgFile.Close()

	img, _, err := image.Decode(imgFile)
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", filePath, err)
	}

	textureID, err := tm.uploadImage(filePath, img)
	if err != nil {
		return 0, err
	}
	tm.textureCache[filePath] = textureID
	return textureID, nil
}

// CreateTextureFromImage creates a texture from an image.Image cached under name
func (tm *TextureManager) CreateTextureFromImage(img image.Image, name string) (uint32, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if textureID, exists := tm.textureCache[name]; exists {
		tm.textureRefCount[textureID]++
		tm.stats.CacheHits++
		return textureID, nil
	}

	textureID, err := tm.uploadImage(name, img)
	if err != nil {
		return 0, err
	}
	tm.textureCache[name] = textureID
	return textureID, nil
}

// CreateDataTexture uploads raw RGBA bytes as a new texture. Data textures
// are never shared through the cache: every call allocates, and name only
// labels the texture in logs and stats.
func (tm *TextureManager) CreateDataTexture(name string, pix []uint8, width, height int, filter TextureFilter) (uint32, error) {
	if len(pix) != width*height*4 {
		return 0, fmt.Errorf("texture %s: have %d bytes, want %d", name, len(pix), width*height*4)
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	return tm.upload(name, pix, width, height, filter)
}

func (tm *TextureManager) uploadImage(name string, img image.Image) (uint32, error) {
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != rgba.Rect.Dx()*4 {
		b := img.Bounds()
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	return tm.upload(name, rgba.Pix, rgba.Rect.Dx(), rgba.Rect.Dy(), FilterLinear)
}

func (tm *TextureManager) upload(name string, pix []uint8, width, height int, filter TextureFilter) (uint32, error) {
	textureID, err := tm.backend.Upload(name, pix, width, height, filter)
	if err != nil {
		logger.Log.Error("Texture upload failed",
			zap.String("name", name),
			zap.Int("width", width),
			zap.Int("height", height),
			zap.Error(err))
		return 0, fmt.Errorf("upload texture %s: %w", name, err)
	}

	tm.textureRefCount[textureID] = 1
	tm.texturePaths[textureID] = name
	tm.textureBytes[textureID] = len(pix)
	tm.stats.TotalTextures++

	logger.Log.Debug("Texture uploaded",
		zap.String("name", name),
		zap.Uint32("textureID", textureID),
		zap.Int("width", width),
		zap.Int("height", height))

	return textureID, nil
}

// AddReference increments the reference count for a texture
func (tm *TextureManager) AddReference(textureID uint32) {
	if textureID == 0 {
		return
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	if _, exists := tm.textureRefCount[textureID]; !exists {
		logger.Log.Warn("Attempted to reference unknown texture", zap.Uint32("textureID", textureID))
		return
	}
	tm.textureRefCount[textureID]++
}

// ReleaseTexture decrements reference count and frees texture if count reaches 0
func (tm *TextureManager) ReleaseTexture(textureID uint32) {
	if textureID == 0 {
		return
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	refCount, exists := tm.textureRefCount[textureID]
	if !exists {
		logger.Log.Warn("Attempted to release unknown texture",
			zap.Uint32("textureID", textureID))
		return
	}

	refCount--
	tm.textureRefCount[textureID] = refCount

	if refCount > 0 {
		return
	}

	tm.backend.Delete(textureID)

	path := tm.texturePaths[textureID]
	if cached, ok := tm.textureCache[path]; ok && cached == textureID {
		delete(tm.textureCache, path)
	}
	delete(tm.textureRefCount, textureID)
	delete(tm.texturePaths, textureID)
	delete(tm.textureBytes, textureID)

	logger.Log.Debug("Texture freed",
		zap.Uint32("textureID", textureID),
		zap.String("name", path))
}

// GetStats returns current texture manager statistics
func (tm *TextureManager) GetStats() TextureStats {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	stats := tm.stats
	stats.ActiveTextures = len(tm.textureRefCount)
	for _, n := range tm.textureBytes {
		stats.ActiveBytes += n
	}
	return stats
}

// LogStats logs current texture statistics
func (tm *TextureManager) LogStats() {
	stats := tm.GetStats()
	logger.Log.Info("Texture Manager Stats",
		zap.Int("totalTextures", stats.TotalTextures),
		zap.Int("activeTextures", stats.ActiveTextures),
		zap.Int("activeBytes", stats.ActiveBytes),
		zap.Int("cacheHits", stats.CacheHits),
		zap.Int("cacheMisses", stats.CacheMisses))
}

// Clear releases all textures
func (tm *TextureManager) Clear() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for textureID := range tm.textureRefCount {
		tm.backend.Delete(textureID)
	}

	tm.textureCache = make(map[string]uint32)
	tm.textureRefCount = make(map[uint32]int)
	tm.texturePaths = make(map[uint32]string)
	tm.textureBytes = make(map[uint32]int)

	logger.Log.Info("Texture manager cleared")
}
