// Package app ties the face board, the texture pipeline and the cube
// transform together and exposes the operations the host loop dispatches
// user input to. All state lives in App; nothing here touches OpenGL
// directly, the GPU side is reached through Scene.
package app

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gg"
	"go.uber.org/zap"

	"github.com/Faultbox/facepaint/internal/curve"
	"github.com/Faultbox/facepaint/internal/engine/cube"
	"github.com/Faultbox/facepaint/internal/engine/texture"
	"github.com/Faultbox/facepaint/internal/face"
	"github.com/Faultbox/facepaint/internal/texsync"
	"github.com/Faultbox/facepaint/internal/transform"
)

// ErrClosed is returned by Frame after Close.
var ErrClosed = errors.New("app closed")

// ErrNoSwatch is returned when a palette index is out of range.
var ErrNoSwatch = errors.New("no such palette entry")

// Scene is the GPU side of the cube: it receives decoded face textures and
// draws frames.
type Scene interface {
	texsync.Uploader
	Draw(f cube.Frame)
}

// Region is the part of the window a pointer event landed in.
type Region int

const (
	RegionNone Region = iota
	RegionFace
	RegionCube
)

func (r Region) String() string {
	switch r {
	case RegionFace:
		return "face"
	case RegionCube:
		return "cube"
	default:
		return "none"
	}
}

// Hit locates a pointer event. Point is in surface pixels of Face and only
// meaningful for RegionFace.
type Hit struct {
	Region Region
	Face   face.ID
	Point  curve.Point
}

// Modifiers are the keyboard modifiers held during a pointer event.
type Modifiers struct {
	Shift bool
	Ctrl  bool
}

// Options configures an App.
type Options struct {
	Board           face.Options
	Transform       transform.Settings
	Palette         []gg.RGBA
	ExportOnStartup bool
	Decoder         texture.DecoderOptions
}

// FrameStats describes one call to Frame.
type FrameStats struct {
	Frame    uint64
	Uploaded int // Cube texture slots refreshed
	Applied  int // Uploaded images drawn onto faces
	Pending  bool
	FPS      float64 // Frames per second over the last full second
}

type dragState struct {
	active bool
	pan    bool
	lastX  float32
	lastY  float32
}

type closer interface {
	Close()
}

// App is the application state. It is driven from a single goroutine.
type App struct {
	opts     Options
	board    *face.Board
	xf       *transform.Transform
	pipeline *texsync.Pipeline
	exports  texsync.Decoder
	uploads  texsync.Decoder
	scene    Scene
	log      *zap.Logger

	drag    dragState
	capture face.ID // Face receiving the current stroke

	frame     uint64
	fpsStart  time.Duration
	fpsFrames int
	fps       float64
	closed    bool
}

// New creates an App drawing into scene. Two background decoders are started,
// one for cube exports and one for image uploads.
func New(opts Options, scene Scene, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	exports := texture.NewDecoder(opts.Decoder, log.Named("export"))
	uploads := texture.NewDecoder(opts.Decoder, log.Named("upload"))
	return newApp(opts, scene, exports, uploads, log)
}

func newApp(opts Options, scene Scene, exports, uploads texsync.Decoder, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{
		opts:     opts,
		board:    face.NewBoard(opts.Board, log.Named("board")),
		xf:       transform.New(opts.Transform),
		pipeline: texsync.New(exports, log.Named("texsync")),
		exports:  exports,
		uploads:  uploads,
		scene:    scene,
		log:      log,
		capture:  face.None,
	}
	if opts.ExportOnStartup {
		if err := a.RequestExport(); err != nil {
			log.Warn("startup export failed", zap.Error(err))
		}
	}
	return a
}

// Board returns the face board.
func (a *App) Board() *face.Board { return a.board }

// Transform returns the cube transform.
func (a *App) Transform() *transform.Transform { return a.xf }

// Pipeline returns the texture pipeline.
func (a *App) Pipeline() *texsync.Pipeline { return a.pipeline }

// Palette returns the configured swatches.
func (a *App) Palette() []gg.RGBA { return a.opts.Palette }

// SelectFace selects face id.
func (a *App) SelectFace(id face.ID) error {
	return a.board.Select(id)
}

// DeselectAll clears the selection, committing any stroke in progress.
func (a *App) DeselectAll() {
	a.capture = face.None
	a.board.Deselect()
}

// PointerDown handles a press at window point (x, y). A press on a face goes
// to the board; a press on the cube deselects and starts a rotation drag, or
// a pan drag with shift held; anywhere else deselects.
func (a *App) PointerDown(hit Hit, x, y float32, mods Modifiers) face.Outcome {
	switch hit.Region {
	case RegionFace:
		out := a.board.PointerDown(hit.Face, hit.Point)
		if out == face.StrokeStarted {
			a.capture = hit.Face
		}
		return out
	case RegionCube:
		a.DeselectAll()
		a.drag = dragState{active: true, pan: mods.Shift, lastX: x, lastY: y}
	default:
		a.DeselectAll()
	}
	return face.Rejected
}

// PointerMove handles motion to window point (x, y). Leaving the face that
// is capturing a stroke commits it.
func (a *App) PointerMove(hit Hit, x, y float32, mods Modifiers) {
	if a.drag.active {
		dx, dy := x-a.drag.lastX, y-a.drag.lastY
		a.drag.lastX, a.drag.lastY = x, y
		if a.drag.pan || mods.Shift {
			a.xf.Pan(dx, dy)
		} else {
			a.xf.Drag(dx, dy)
		}
		return
	}

	if a.capture == face.None {
		return
	}
	if hit.Region == RegionFace && hit.Face == a.capture {
		a.board.PointerMove(a.capture, hit.Point)
		return
	}
	a.board.PointerLeave(a.capture)
	a.capture = face.None
}

// PointerUp ends a drag or commits the stroke in progress.
func (a *App) PointerUp(hit Hit, x, y float32, mods Modifiers) {
	a.drag = dragState{}
	if a.capture != face.None {
		a.board.PointerUp(a.capture)
		a.capture = face.None
	}
}

// PointerLeave handles the pointer leaving the window.
func (a *App) PointerLeave() {
	a.drag = dragState{}
	if a.capture != face.None {
		a.board.PointerLeave(a.capture)
		a.capture = face.None
	}
}

// Wheel zooms the cube by delta notches.
func (a *App) Wheel(delta float32) {
	a.xf.Zoom(delta)
}

// SetStrokeColor parses s and makes it the colour of the next curve.
func (a *App) SetStrokeColor(s string) error {
	c, err := face.ParseColor(s)
	if err != nil {
		return err
	}
	a.board.SetStrokeColor(c)
	return nil
}

// SelectSwatch makes palette entry i the stroke colour.
func (a *App) SelectSwatch(i int) error {
	if i < 0 || i >= len(a.opts.Palette) {
		return fmt.Errorf("%w: %d", ErrNoSwatch, i)
	}
	a.board.SetStrokeColor(a.opts.Palette[i])
	return nil
}

// SetStrokeWidth sets the width of the next curve.
func (a *App) SetStrokeWidth(px float64) {
	a.board.SetStrokeWidth(px)
}

// SetBackgroundColor changes the background of the selected face, or of every
// face without an image when nothing is selected.
func (a *App) SetBackgroundColor(s string) error {
	c, err := face.ParseColor(s)
	if err != nil {
		return err
	}
	a.setBackground(c)
	return nil
}

// ApplyStrokeAsBackground uses the current stroke colour as background, with
// the same targeting as SetBackgroundColor.
func (a *App) ApplyStrokeAsBackground() {
	a.setBackground(a.board.Style().Color)
}

func (a *App) setBackground(c gg.RGBA) {
	if id := a.board.Selected(); id != face.None {
		_ = a.board.SetBackground(id, c)
		return
	}
	a.board.SetBackgroundAll(c)
}

// SetFaceBackground changes the background of face id.
func (a *App) SetFaceBackground(id face.ID, s string) error {
	c, err := face.ParseColor(s)
	if err != nil {
		return err
	}
	return a.board.SetBackground(id, c)
}

// UploadImage replaces the content of face id with an encoded image. The face
// is selected and cleared at once; the picture appears on a later Frame once
// decoded, unless the face was reset or given another image meanwhile.
func (a *App) UploadImage(id face.ID, data []byte) error {
	if len(data) == 0 {
		return texture.ErrEmptyBitmap
	}
	if err := a.board.Select(id); err != nil {
		return err
	}
	if a.capture == id {
		a.capture = face.None
	}
	token, err := a.board.LockImage(id)
	if err != nil {
		return err
	}
	if err := a.uploads.Submit(texture.Request{Key: int(id), Gen: token, Data: data}); err != nil {
		return fmt.Errorf("upload %s: %w", id, err)
	}
	a.log.Info("image upload started", zap.Stringer("face", id), zap.Int("bytes", len(data)))
	return nil
}

// Undo undoes on face id, which must be selected.
func (a *App) Undo(id face.ID) bool {
	if a.capture == id {
		a.capture = face.None
	}
	return a.board.Undo(id)
}

// UndoSelected undoes on the selected face.
func (a *App) UndoSelected() bool {
	return a.Undo(a.board.Selected())
}

// ResetFace restores face id to its initial state.
func (a *App) ResetFace(id face.ID) error {
	if a.capture == id {
		a.capture = face.None
	}
	if err := a.board.Reset(id); err != nil {
		return err
	}
	a.log.Info("face reset", zap.Stringer("face", id))
	return nil
}

// ResetAll resets every face, the brush and the transform, then pushes the
// blank faces to the cube.
func (a *App) ResetAll() {
	a.capture = face.None
	a.drag = dragState{}
	a.board.ResetAll()
	a.xf.Reset()
	a.pipeline.Forget()
	a.log.Info("all faces reset")
	if err := a.RequestExport(); err != nil {
		a.log.Warn("export after reset failed", zap.Error(err))
	}
}

// Reset resets the selected face, or everything when nothing is selected.
func (a *App) Reset() {
	if id := a.board.Selected(); id != face.None {
		_ = a.ResetFace(id)
		return
	}
	a.ResetAll()
}

// RequestExport encodes the six faces and queues them for the cube. Only
// faces that changed since their last export are decoded again.
func (a *App) RequestExport() error {
	bitmaps, err := a.board.Bitmaps()
	if err != nil {
		return fmt.Errorf("export faces: %w", err)
	}
	a.pipeline.RequestExport(bitmaps)
	a.log.Debug("export requested")
	return nil
}

// ExportFace queues a single face for the cube.
func (a *App) ExportFace(id face.ID) error {
	data, err := a.board.Bitmap(id)
	if err != nil {
		return fmt.Errorf("export %s: %w", id, err)
	}
	a.pipeline.RequestSlot(id, data)
	a.log.Debug("face export requested", zap.Stringer("face", id))
	return nil
}

// ResetView restores the default cube position and rotation.
func (a *App) ResetView() {
	a.drag = dragState{}
	a.xf.Reset()
}

// SetRotation sets one rotation angle in degrees.
func (a *App) SetRotation(axis transform.Axis, degrees float32) {
	a.xf.SetRotation(axis, degrees)
}

// SetPosition sets one position component.
func (a *App) SetPosition(axis transform.Axis, v float32) {
	a.xf.SetPosition(axis, v)
}

// Frame applies finished image decodes, advances the texture pipeline and
// draws the cube into viewport, given in drawable pixels. now is the time
// since start and only feeds the frame rate.
func (a *App) Frame(now time.Duration, viewport image.Rectangle) (FrameStats, error) {
	if a.closed {
		return FrameStats{}, ErrClosed
	}
	a.frame++

	stats := FrameStats{Frame: a.frame}
	stats.Applied = a.applyUploads()
	stats.Uploaded = a.pipeline.Service(a.scene)
	stats.Pending = a.pipeline.Pending()

	if !viewport.Empty() {
		aspect := float32(viewport.Dx()) / float32(viewport.Dy())
		a.scene.Draw(cube.Frame{
			Projection: a.xf.Projection(aspect),
			ModelView:  a.xf.ModelView(),
			Normal:     a.xf.NormalMatrix(),
			Viewport:   viewport,
		})
	}

	a.tick(now)
	stats.FPS = a.fps
	return stats, nil
}

func (a *App) applyUploads() int {
	applied := 0
	for _, r := range a.uploads.Drain() {
		id := face.ID(r.Key)
		if r.Err != nil {
			a.log.Warn("image decode failed", zap.Stringer("face", id), zap.Error(r.Err))
			continue
		}
		if !a.board.ApplyImage(id, r.Gen, r.Image) {
			a.log.Debug("stale image dropped", zap.Stringer("face", id), zap.Uint64("token", r.Gen))
			continue
		}
		applied++
		a.log.Info("image applied", zap.Stringer("face", id),
			zap.Int("width", r.Image.Rect.Dx()), zap.Int("height", r.Image.Rect.Dy()))
	}
	return applied
}

func (a *App) tick(now time.Duration) {
	a.fpsFrames++
	if elapsed := now - a.fpsStart; elapsed >= time.Second {
		a.fps = float64(a.fpsFrames) / elapsed.Seconds()
		a.fpsFrames = 0
		a.fpsStart = now
	}
}

// Close stops the decoders. Pending decodes are finished and discarded.
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true
	a.capture = face.None
	a.board.Deselect()
	for _, d := range []texsync.Decoder{a.exports, a.uploads} {
		if c, ok := d.(closer); ok {
			c.Close()
		}
	}
	a.log.Debug("app closed", zap.Uint64("frames", a.frame))
}
