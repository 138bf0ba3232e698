package renderer

import "errors"

var errUploadFailed = errors.New("out of video memory")

// fakeBackend records uploads in memory instead of talking to GL.
type fakeBackend struct {
	nextID  uint32
	live    map[uint32][]uint8
	deleted []uint32
	filters map[uint32]TextureFilter
	fail    bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		live:    make(map[uint32][]uint8),
		filters: make(map[uint32]TextureFilter),
	}
}

func (b *fakeBackend) Upload(name string, pix []uint8, width, height int, filter TextureFilter) (uint32, error) {
	if b.fail {
		return 0, errUploadFailed
	}
	b.nextID++
	b.live[b.nextID] = append([]uint8(nil), pix...)
	b.filters[b.nextID] = filter
	return b.nextID, nil
}

func (b *fakeBackend) Delete(textureID uint32) {
	delete(b.live, textureID)
	b.deleted = append(b.deleted, textureID)
}
