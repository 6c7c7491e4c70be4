// Package renderer loads the OpenGL entry points and manages per-frame state
// shared by the cube and the face panel.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// Info describes the active OpenGL implementation.
type Info struct {
	Version  string
	Renderer string
	Vendor   string
	GLSL     string
}

// Renderer frames the window: it clears it and restores the full viewport.
type Renderer struct {
	info   Info
	width  int
	height int
	log    *zap.Logger
}

// New loads OpenGL. It must be called after the GL context is current, and a
// failure means rendering is impossible.
func New(width, height int, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initialize OpenGL: %w", err)
	}

	r := &Renderer{
		info: Info{
			Version:  gl.GoStr(gl.GetString(gl.VERSION)),
			Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
			Vendor:   gl.GoStr(gl.GetString(gl.VENDOR)),
			GLSL:     gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
		},
		log: log,
	}
	log.Info("OpenGL initialized",
		zap.String("version", r.info.Version),
		zap.String("renderer", r.info.Renderer),
		zap.String("glsl", r.info.GLSL),
	)

	r.Resize(width, height)
	return r, nil
}

// Info returns the GL implementation strings.
func (r *Renderer) Info() Info {
	return r.info
}

// Resize records the drawable size.
func (r *Renderer) Resize(width, height int) {
	if width == r.width && height == r.height {
		return
	}
	r.width, r.height = width, height
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Size returns the drawable size.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Begin clears the whole drawable.
func (r *Renderer) Begin(clear [3]float32) {
	gl.Viewport(0, 0, int32(r.width), int32(r.height))
	gl.ClearColor(clear[0], clear[1], clear[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End restores the full viewport for overlays drawn after the scene.
func (r *Renderer) End() {
	gl.Viewport(0, 0, int32(r.width), int32(r.height))
}
