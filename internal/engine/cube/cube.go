// Package cube draws the textured, lit cube whose six faces show the face drawings.
package cube

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/facepaint/internal/engine/cube/shaders"
	"github.com/Faultbox/facepaint/internal/engine/lighting"
	"github.com/Faultbox/facepaint/internal/engine/shader"
	"github.com/Faultbox/facepaint/internal/face"
	"github.com/Faultbox/facepaint/pkg/math"
)

// Frame is everything needed to draw one frame of the cube.
type Frame struct {
	Projection math.Mat4
	ModelView  math.Mat4
	Normal     math.Mat4
	Viewport   image.Rectangle // In window pixels, origin bottom-left
}

// Options configures the renderer.
type Options struct {
	Light      lighting.Directional
	ClearColor [3]float32
}

// Renderer owns the cube program, buffers and the six face textures.
// All methods must run on the GL thread.
type Renderer struct {
	opts Options
	log  *zap.Logger

	program  uint32
	uniforms map[string]int32

	vao uint32
	vbo [3]uint32 // positions, normals, texture coordinates
	ebo uint32

	textures [face.Count]uint32
	sizes    [face.Count]image.Point
}

var uniformNames = []string{
	"uProjection", "uModelView", "uNormalMatrix",
	"uAmbient", "uLightColor", "uLightDir", "uSampler",
}

// New compiles the cube program and creates its buffers and textures.
// Each texture starts as a 1x1 opaque white placeholder.
func New(opts Options, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Renderer{opts: opts, log: log}

	var err error
	r.program, err = shader.CompileProgram(shaders.CubeVertexShader, shaders.CubeFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("cube program: %w", err)
	}
	r.uniforms, err = shader.Uniforms(r.program, uniformNames...)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("cube program: %w", err)
	}

	r.createBuffers()
	r.createTextures()

	log.Debug("cube renderer ready", zap.Uint32("program", r.program))
	return r, nil
}

func (r *Renderer) createBuffers() {
	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	attribs := []struct {
		data []float32
		size int32
	}{
		{positions[:], 3},
		{normals(), 3},
		{texCoords[:], 2},
	}
	gl.GenBuffers(int32(len(r.vbo)), &r.vbo[0])
	for i, a := range attribs {
		gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo[i])
		gl.BufferData(gl.ARRAY_BUFFER, len(a.data)*4, gl.Ptr(a.data), gl.STATIC_DRAW)
		gl.VertexAttribPointerWithOffset(uint32(i), a.size, gl.FLOAT, false, 0, 0)
		gl.EnableVertexAttribArray(uint32(i))
	}

	idx := indices()
	gl.GenBuffers(1, &r.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(idx)*2, gl.Ptr(idx), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
}

func (r *Renderer) createTextures() {
	white := []uint8{255, 255, 255, 255}
	gl.GenTextures(face.Count, &r.textures[0])
	for i, tex := range r.textures {
		gl.BindTexture(gl.TEXTURE_2D, tex)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(white))
		r.sizes[i] = image.Point{X: 1, Y: 1}
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Upload replaces the texture of face id. It satisfies texsync.Uploader.
func (r *Renderer) Upload(id face.ID, img *image.RGBA) {
	if !id.Valid() || img == nil {
		return
	}
	size := img.Rect.Size()
	if size.X == 0 || size.Y == 0 {
		return
	}

	gl.BindTexture(gl.TEXTURE_2D, r.textures[id])
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(size.X), int32(size.Y), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	r.sizes[id] = size
	r.log.Debug("face texture uploaded", zap.Stringer("face", id),
		zap.Int("width", size.X), zap.Int("height", size.Y))
}

// TextureSize returns the size of the image last uploaded to face id.
func (r *Renderer) TextureSize(id face.ID) image.Point {
	if !id.Valid() {
		return image.Point{}
	}
	return r.sizes[id]
}

// Draw clears the viewport and draws the six faces, each with its own texture.
func (r *Renderer) Draw(f Frame) {
	vp := f.Viewport
	gl.Viewport(int32(vp.Min.X), int32(vp.Min.Y), int32(vp.Dx()), int32(vp.Dy()))
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(int32(vp.Min.X), int32(vp.Min.Y), int32(vp.Dx()), int32(vp.Dy()))
	c := r.opts.ClearColor
	gl.ClearColor(c[0], c[1], c[2], 1)
	gl.ClearDepth(1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Disable(gl.SCISSOR_TEST)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.uniforms["uProjection"], 1, false, f.Projection.Ptr())
	gl.UniformMatrix4fv(r.uniforms["uModelView"], 1, false, f.ModelView.Ptr())
	gl.UniformMatrix4fv(r.uniforms["uNormalMatrix"], 1, false, f.Normal.Ptr())

	l := r.opts.Light
	gl.Uniform3f(r.uniforms["uAmbient"], l.Ambient.X, l.Ambient.Y, l.Ambient.Z)
	gl.Uniform3f(r.uniforms["uLightColor"], l.Color.X, l.Color.Y, l.Color.Z)
	gl.Uniform3f(r.uniforms["uLightDir"], l.Direction.X, l.Direction.Y, l.Direction.Z)

	for i, tex := range r.textures {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(i))
		gl.BindTexture(gl.TEXTURE_2D, tex)
	}

	gl.BindVertexArray(r.vao)
	for i := 0; i < face.Count; i++ {
		gl.Uniform1i(r.uniforms["uSampler"], int32(i))
		gl.DrawElementsWithOffset(gl.TRIANGLES, indicesPerFace, gl.UNSIGNED_SHORT, uintptr(i*indicesPerFace*2))
	}
	gl.BindVertexArray(0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.Disable(gl.DEPTH_TEST)
}

// Close releases GL objects.
func (r *Renderer) Close() {
	if r.textures[0] != 0 {
		gl.DeleteTextures(face.Count, &r.textures[0])
		r.textures = [face.Count]uint32{}
	}
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
		r.ebo = 0
	}
	if r.vbo[0] != 0 {
		gl.DeleteBuffers(int32(len(r.vbo)), &r.vbo[0])
		r.vbo = [3]uint32{}
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}
