package ui2d

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/facepaint/internal/face"
)

// FaceTextures mirrors the six face surfaces into GL textures for the panel.
// A face is re-uploaded only when its revision changes.
type FaceTextures struct {
	textures [face.Count]uint32
	synced   [face.Count]uint64
	sizes    [face.Count]int
	valid    [face.Count]bool
}

// NewFaceTextures creates the panel textures.
func NewFaceTextures() *FaceTextures {
	t := &FaceTextures{}
	gl.GenTextures(face.Count, &t.textures[0])
	for _, tex := range t.textures {
		gl.BindTexture(gl.TEXTURE_2D, tex)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t
}

// Texture returns the GL texture of a face.
func (t *FaceTextures) Texture(id face.ID) uint32 {
	if !id.Valid() {
		return 0
	}
	return t.textures[id]
}

// stale reports whether a face needs uploading.
func (t *FaceTextures) stale(id face.ID, revision uint64, size int) bool {
	return !t.valid[id] || t.synced[id] != revision || t.sizes[id] != size
}

func (t *FaceTextures) mark(id face.ID, revision uint64, size int) {
	t.valid[id] = true
	t.synced[id] = revision
	t.sizes[id] = size
}

// Sync uploads every face whose surface changed since the last call and
// returns the number uploaded.
func (t *FaceTextures) Sync(b *face.Board) int {
	n := 0
	for _, id := range face.IDs() {
		f := b.Face(id)
		rev, size := f.Revision(), f.Size()
		if !t.stale(id, rev, size) {
			continue
		}
		pix := f.Pixels()
		gl.BindTexture(gl.TEXTURE_2D, t.textures[id])
		gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(size), int32(size), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pix[0]))
		t.mark(id, rev, size)
		n++
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return n
}

// Close releases the textures.
func (t *FaceTextures) Close() {
	if t.textures[0] != 0 {
		gl.DeleteTextures(face.Count, &t.textures[0])
		t.textures = [face.Count]uint32{}
	}
}
