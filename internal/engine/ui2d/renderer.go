// Package ui2d provides the 2D face panel drawn with OpenGL next to the cube.
package ui2d

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/facepaint/internal/engine/shader"
)

// Vertex format: pos(2) + uv(2) + color(4).
const floatsPerVertex = 8

// batch is a run of quads drawn with one texture; tex 0 means solid color.
type batch struct {
	tex   uint32
	first int32
	count int32
}

// Renderer batches solid and textured quads and draws them in submission
// order with an orthographic projection in window points.
type Renderer struct {
	screenWidth  int
	screenHeight int

	program  uint32
	uniforms map[string]int32

	vao uint32
	vbo uint32

	vertices []float32
	batches  []batch
}

const vertexSource = `
#version 410 core

layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aTexCoord;
layout (location = 2) in vec4 aColor;

uniform mat4 uProjection;

out vec2 vTexCoord;
out vec4 vColor;

void main() {
	gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
	vTexCoord = aTexCoord;
	vColor = aColor;
}
`

const fragmentSource = `
#version 410 core

uniform sampler2D uTexture;
uniform bool uTextured;

in vec2 vTexCoord;
in vec4 vColor;
out vec4 FragColor;

void main() {
	if (uTextured) {
		FragColor = texture(uTexture, vTexCoord) * vColor;
	} else {
		FragColor = vColor;
	}
}
`

// New creates a new 2D renderer.
func New(width, height int) (*Renderer, error) {
	r := &Renderer{
		screenWidth:  width,
		screenHeight: height,
		vertices:     make([]float32, 0, 4096),
	}

	var err error
	r.program, err = shader.CompileProgram(vertexSource, fragmentSource)
	if err != nil {
		return nil, fmt.Errorf("ui2d program: %w", err)
	}
	r.uniforms, err = shader.Uniforms(r.program, "uProjection", "uTexture", "uTextured")
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("ui2d program: %w", err)
	}

	r.createBuffers()
	return r, nil
}

// Resize updates the screen dimensions in window points.
func (r *Renderer) Resize(width, height int) {
	r.screenWidth = width
	r.screenHeight = height
}

// GetScreenSize returns the current screen dimensions.
func (r *Renderer) GetScreenSize() (int, int) {
	return r.screenWidth, r.screenHeight
}

// Begin starts a new UI frame.
func (r *Renderer) Begin() {
	r.vertices = r.vertices[:0]
	r.batches = r.batches[:0]
}

// End renders everything queued since Begin.
func (r *Renderer) End() {
	if len(r.vertices) == 0 {
		return
	}

	var prevBlend, prevDepth, prevCull int32
	gl.GetIntegerv(gl.BLEND, &prevBlend)
	gl.GetIntegerv(gl.DEPTH_TEST, &prevDepth)
	gl.GetIntegerv(gl.CULL_FACE, &prevCull)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	proj := orthoMatrix(0, float32(r.screenWidth), float32(r.screenHeight), 0, -1, 1)

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.uniforms["uProjection"], 1, false, &proj[0])
	gl.Uniform1i(r.uniforms["uTexture"], 0)
	gl.ActiveTexture(gl.TEXTURE0)

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(r.vertices)*4, unsafe.Pointer(&r.vertices[0]), gl.STREAM_DRAW)

	for _, b := range r.batches {
		if b.tex != 0 {
			gl.Uniform1i(r.uniforms["uTextured"], 1)
			gl.BindTexture(gl.TEXTURE_2D, b.tex)
		} else {
			gl.Uniform1i(r.uniforms["uTextured"], 0)
		}
		gl.DrawArrays(gl.TRIANGLES, b.first, b.count)
	}

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)

	if prevBlend == gl.FALSE {
		gl.Disable(gl.BLEND)
	}
	if prevDepth == gl.TRUE {
		gl.Enable(gl.DEPTH_TEST)
	}
	if prevCull == gl.TRUE {
		gl.Enable(gl.CULL_FACE)
	}
}

// Close releases renderer resources.
func (r *Renderer) Close() {
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}

// DrawRect draws a filled rectangle.
func (r *Renderer) DrawRect(rect Rect, color Color) {
	r.addQuad(0, rect, 0, 0, 1, 1, color)
}

// DrawRectOutline draws a rectangle outline inside rect.
func (r *Renderer) DrawRectOutline(rect Rect, thickness float32, color Color) {
	x, y, w, h := rect.X, rect.Y, rect.W, rect.H
	r.DrawRect(Rect{x, y, w, thickness}, color)
	r.DrawRect(Rect{x, y + h - thickness, w, thickness}, color)
	r.DrawRect(Rect{x, y + thickness, thickness, h - thickness*2}, color)
	r.DrawRect(Rect{x + w - thickness, y + thickness, thickness, h - thickness*2}, color)
}

// DrawPanel draws a panel with border.
func (r *Renderer) DrawPanel(rect Rect, bg, border Color) {
	r.DrawRect(rect, bg)
	r.DrawRectOutline(rect, 1, border)
}

// DrawTexture draws a texture stretched over rect. Texture row 0 is the top
// of the image.
func (r *Renderer) DrawTexture(rect Rect, tex uint32) {
	if tex == 0 {
		return
	}
	r.addQuad(tex, rect, 0, 0, 1, 1, ColorWhite)
}

// addQuad appends two triangles, extending the last batch when it uses the
// same texture.
func (r *Renderer) addQuad(tex uint32, rc Rect, u0, v0, u1, v1 float32, c Color) {
	first := int32(len(r.vertices) / floatsPerVertex)
	x, y, w, h := rc.X, rc.Y, rc.W, rc.H

	r.vertices = append(r.vertices,
		x, y, u0, v0, c.R, c.G, c.B, c.A,
		x+w, y, u1, v0, c.R, c.G, c.B, c.A,
		x+w, y+h, u1, v1, c.R, c.G, c.B, c.A,

		x, y, u0, v0, c.R, c.G, c.B, c.A,
		x+w, y+h, u1, v1, c.R, c.G, c.B, c.A,
		x, y+h, u0, v1, c.R, c.G, c.B, c.A,
	)

	if n := len(r.batches); n > 0 && r.batches[n-1].tex == tex {
		r.batches[n-1].count += 6
		return
	}
	r.batches = append(r.batches, batch{tex: tex, first: first, count: 6})
}

// orthoMatrix creates an orthographic projection matrix.
func orthoMatrix(left, right, bottom, top, near, far float32) [16]float32 {
	return [16]float32{
		2 / (right - left), 0, 0, 0,
		0, 2 / (top - bottom), 0, 0,
		0, 0, -2 / (far - near), 0,
		-(right + left) / (right - left), -(top + bottom) / (top - bottom), -(far + near) / (far - near), 1,
	}
}

func (r *Renderer) createBuffers() {
	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	stride := int32(floatsPerVertex * 4)

	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)

	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 2*4)
	gl.EnableVertexAttribArray(1)

	gl.VertexAttribPointerWithOffset(2, 4, gl.FLOAT, false, stride, 4*4)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}
