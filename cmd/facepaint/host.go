package main

import (
	"image"
	"os"

	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/facepaint/internal/app"
	"github.com/Faultbox/facepaint/internal/config"
	"github.com/Faultbox/facepaint/internal/engine/debug"
	"github.com/Faultbox/facepaint/internal/engine/input"
	"github.com/Faultbox/facepaint/internal/engine/renderer"
	"github.com/Faultbox/facepaint/internal/engine/ui2d"
	"github.com/Faultbox/facepaint/internal/engine/window"
	"github.com/Faultbox/facepaint/internal/face"
	"github.com/Faultbox/facepaint/internal/transform"
)

const (
	rotateStep = 5    // Degrees per arrow key press
	zoomStep   = 0.25 // Units per page key press
	widthStep  = 1
	widthShift = 5 // Width step with shift held
)

// openResult is the outcome of a file dialog, delivered to the main loop.
type openResult struct {
	face face.ID
	path string
	err  error
}

// host owns the window-side objects and routes input to the App.
type host struct {
	cfg   *config.Config
	app   *app.App
	win   *window.Window
	rnd   *renderer.Renderer
	panel *ui2d.Panel
	in    *input.Input
	snaps *debug.SnapshotWriter
	log   *zap.Logger

	faceSize   int
	running    bool
	screenshot bool
	dialogOpen bool
	opened     chan openResult
}

func (h *host) handle(ev input.Event) {
	mods := app.Modifiers{Shift: ev.Shift, Ctrl: ev.Ctrl}

	switch ev.Type {
	case input.EventWindowResize:
		ww, wh := h.win.GetSize()
		h.panel.Resize(ww, wh, h.cfg.Window.PanelWidth)

	case input.EventMouseDown:
		x, y := float32(ev.X), float32(ev.Y)
		switch ev.Button {
		case sdl.BUTTON_LEFT:
			if h.clickPanel(x, y) {
				return
			}
			h.app.PointerDown(h.hit(x, y), x, y, mods)
		case sdl.BUTTON_RIGHT:
			// Right drag on the cube pans.
			if hit := h.hit(x, y); hit.Region == app.RegionCube {
				mods.Shift = true
				h.app.PointerDown(hit, x, y, mods)
			}
		}

	case input.EventMouseMove:
		x, y := float32(ev.X), float32(ev.Y)
		h.app.PointerMove(h.hit(x, y), x, y, mods)

	case input.EventMouseUp:
		x, y := float32(ev.X), float32(ev.Y)
		h.app.PointerUp(h.hit(x, y), x, y, mods)

	case input.EventMouseWheel:
		h.app.Wheel(float32(ev.WheelY))

	case input.EventPointerLeave:
		h.app.PointerLeave()

	case input.EventDropFile:
		id := h.app.Board().Selected()
		if id == face.None {
			h.log.Warn("dropped file ignored, select a face first", zap.String("path", ev.Path))
			return
		}
		h.uploadFile(id, ev.Path)

	case input.EventKeyDown:
		h.key(ev)
	}
}

// clickPanel handles presses on the palette and the width bar.
func (h *host) clickPanel(x, y float32) bool {
	l := h.panel.Layout()
	if i := l.SwatchAt(x, y); i >= 0 {
		_ = h.app.SelectSwatch(i)
		return true
	}
	if bar := l.WidthBar; bar.Contains(x, y) {
		frac := float64((x - bar.X) / bar.W)
		h.app.SetStrokeWidth(face.MinStrokeWidth + frac*(face.MaxStrokeWidth-face.MinStrokeWidth))
		return true
	}
	return false
}

// hit locates a window point.
func (h *host) hit(x, y float32) app.Hit {
	l := h.panel.Layout()
	if id := l.FaceAt(x, y); id != face.None {
		return app.Hit{Region: app.RegionFace, Face: id, Point: l.ToFace(id, x, y, h.faceSize)}
	}
	if l.InCube(x, y) {
		return app.Hit{Region: app.RegionCube, Face: face.None}
	}
	return app.Hit{Region: app.RegionNone, Face: face.None}
}

func (h *host) key(ev input.Event) {
	a := h.app
	switch ev.Key {
	case sdl.K_ESCAPE:
		a.DeselectAll()
	case sdl.K_q:
		if ev.Ctrl {
			h.running = false
		}
	case sdl.K_z:
		if ev.Ctrl {
			a.UndoSelected()
		}
	case sdl.K_RETURN, sdl.K_KP_ENTER, sdl.K_u:
		if id := a.Board().Selected(); ev.Shift && id != face.None {
			if err := a.ExportFace(id); err != nil {
				h.log.Warn("export failed", zap.Error(err))
			}
			return
		}
		if err := a.RequestExport(); err != nil {
			h.log.Warn("export failed", zap.Error(err))
		}
	case sdl.K_r:
		a.Reset()
	case sdl.K_1, sdl.K_2, sdl.K_3, sdl.K_4, sdl.K_5, sdl.K_6, sdl.K_7, sdl.K_8:
		if err := a.SelectSwatch(int(ev.Key - sdl.K_1)); err != nil {
			h.log.Debug("no swatch", zap.Error(err))
		}
	case sdl.K_LEFTBRACKET, sdl.K_RIGHTBRACKET:
		step := float64(widthStep)
		if ev.Shift {
			step = widthShift
		}
		if ev.Key == sdl.K_LEFTBRACKET {
			step = -step
		}
		a.SetStrokeWidth(a.Board().Style().Width + step)
	case sdl.K_b:
		a.ApplyStrokeAsBackground()
	case sdl.K_o:
		h.openDialog()
	case sdl.K_HOME:
		a.ResetView()
	case sdl.K_LEFT, sdl.K_RIGHT, sdl.K_UP, sdl.K_DOWN:
		h.nudge(ev.Key)
	case sdl.K_PAGEUP, sdl.K_PAGEDOWN:
		z := a.Transform().Position()[2]
		if ev.Key == sdl.K_PAGEUP {
			z += zoomStep
		} else {
			z -= zoomStep
		}
		a.SetPosition(transform.Z, z)
	case sdl.K_F10:
		h.win.ToggleFullscreen()
	case sdl.K_F11:
		h.saveFaces()
	case sdl.K_F12:
		h.screenshot = true
	}
}

func (h *host) nudge(key sdl.Keycode) {
	deg := h.app.Transform().Degrees()
	switch key {
	case sdl.K_LEFT:
		h.app.SetRotation(transform.Y, deg[1]-rotateStep)
	case sdl.K_RIGHT:
		h.app.SetRotation(transform.Y, deg[1]+rotateStep)
	case sdl.K_UP:
		h.app.SetRotation(transform.X, deg[0]-rotateStep)
	case sdl.K_DOWN:
		h.app.SetRotation(transform.X, deg[0]+rotateStep)
	}
}

// openDialog asks for an image for the selected face. The native dialog runs
// on its own goroutine; the result is handed back through h.opened.
func (h *host) openDialog() {
	id := h.app.Board().Selected()
	if id == face.None {
		h.log.Warn("select a face before opening an image")
		return
	}
	if h.dialogOpen {
		return
	}
	h.dialogOpen = true

	go func() {
		filename, err := dialog.File().
			Filter("Images", "png", "jpg", "jpeg", "gif", "bmp", "webp", "tga").
			Filter("All Files", "*").
			Title("Open image for " + id.String() + " face").
			Load()
		h.opened <- openResult{face: id, path: filename, err: err}
	}()
}

func (h *host) pollDialog() {
	select {
	case res := <-h.opened:
		h.dialogOpen = false
		if res.err != nil {
			if res.err != dialog.ErrCancelled {
				h.log.Warn("file dialog failed", zap.Error(res.err))
			}
			return
		}
		h.uploadFile(res.face, res.path)
	default:
	}
}

func (h *host) uploadFile(id face.ID, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		h.log.Warn("cannot read image", zap.String("path", path), zap.Error(err))
		return
	}
	if err := h.app.UploadImage(id, data); err != nil {
		h.log.Warn("image upload rejected", zap.Stringer("face", id), zap.Error(err))
	}
}

func (h *host) saveScreenshot(vp image.Rectangle) {
	pixels := debug.ReadPixels(vp)
	if pixels == nil {
		return
	}
	if _, err := h.snaps.WritePixels("cube", pixels, vp.Dx(), vp.Dy()); err != nil {
		h.log.Warn("screenshot failed", zap.Error(err))
	}
}

func (h *host) saveFaces() {
	bitmaps, err := h.app.Board().Bitmaps()
	if err != nil {
		h.log.Warn("encode faces failed", zap.Error(err))
		return
	}
	if _, err := h.snaps.WriteFaces(bitmaps); err != nil {
		h.log.Warn("saving faces failed", zap.Error(err))
	}
}
