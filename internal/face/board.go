package face

import (
	"image"
	"math"

	"github.com/gogpu/gg"
	"go.uber.org/zap"

	"github.com/Faultbox/facepaint/internal/curve"
)

// Stroke width limits in pixels.
const (
	MinStrokeWidth = 1
	MaxStrokeWidth = 100
)

// Style is the brush applied to the next curve created.
type Style struct {
	Color gg.RGBA
	Width float64
}

// Outcome reports what a pointer-down did.
type Outcome int

const (
	// Rejected means the press was ignored: unknown face or image-locked face.
	Rejected Outcome = iota
	// Selected means the press only selected the face.
	Selected
	// StrokeStarted means a new curve began at the press position.
	StrokeStarted
)

func (o Outcome) String() string {
	switch o {
	case Selected:
		return "selected"
	case StrokeStarted:
		return "stroke-started"
	default:
		return "rejected"
	}
}

// Options configures a Board.
type Options struct {
	Size       int
	Background gg.RGBA
	Style      Style
}

// DefaultOptions matches the defaults of a fresh drawing: white 256px faces
// and a black 5px brush.
func DefaultOptions() Options {
	return Options{
		Size:       256,
		Background: gg.White,
		Style:      Style{Color: gg.Black, Width: 5},
	}
}

// Board owns the six faces, the selection and the current brush.
// It is not safe for concurrent use.
type Board struct {
	faces    [Count]*Face
	selected ID
	style    Style
	opts     Options
	log      *zap.Logger
}

// NewBoard creates six faces cleared to the default background.
func NewBoard(opts Options, log *zap.Logger) *Board {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Size <= 0 {
		opts.Size = DefaultOptions().Size
	}
	opts.Style.Width = clampWidth(opts.Style.Width)

	b := &Board{selected: None, style: opts.Style, opts: opts, log: log}
	for _, id := range IDs() {
		b.faces[id] = newFace(id, opts.Size, opts.Background)
	}
	return b
}

// Face returns the face for id, or nil for an unknown id.
func (b *Board) Face(id ID) *Face {
	if !id.Valid() {
		return nil
	}
	return b.faces[id]
}

// Selected returns the selected face or None.
func (b *Board) Selected() ID { return b.selected }

// Style returns the brush for the next curve.
func (b *Board) Style() Style { return b.style }

// Select makes id the selected face. The previously selected face is
// deselected first, committing any stroke it was capturing.
func (b *Board) Select(id ID) error {
	if err := checkID(id); err != nil {
		return err
	}
	if b.selected == id {
		return nil
	}
	b.Deselect()
	b.selected = id
	b.faces[id].selected = true
	b.log.Debug("face selected", zap.Stringer("face", id))
	return nil
}

// Deselect clears the selection. A stroke in progress is committed.
func (b *Board) Deselect() {
	if b.selected == None {
		return
	}
	f := b.faces[b.selected]
	f.commit()
	f.selected = false
	b.log.Debug("face deselected", zap.Stringer("face", b.selected))
	b.selected = None
}

// PointerDown handles a press at p on face id. The first press on a face
// only selects it; a press on the selected face starts a stroke unless the
// face shows an uploaded image.
func (b *Board) PointerDown(id ID, p curve.Point) Outcome {
	if !id.Valid() {
		b.log.Warn("pointer down on unknown face", zap.Int("face", int(id)))
		return Rejected
	}
	if b.selected != id {
		_ = b.Select(id)
		return Selected
	}

	f := b.faces[id]
	if f.hasImage {
		b.log.Debug("stroke rejected on image face", zap.Stringer("face", id))
		return Rejected
	}
	f.commit()
	f.beginCapture(b.style, p)
	return StrokeStarted
}

// PointerMove extends the stroke being captured on face id.
func (b *Board) PointerMove(id ID, p curve.Point) {
	if id != b.selected || !id.Valid() {
		return
	}
	b.faces[id].extend(p)
}

// PointerUp commits the stroke being captured on face id.
func (b *Board) PointerUp(id ID) {
	b.finish(id)
}

// PointerLeave commits the stroke being captured on face id, as if released.
func (b *Board) PointerLeave(id ID) {
	b.finish(id)
}

func (b *Board) finish(id ID) {
	if !id.Valid() {
		return
	}
	f := b.faces[id]
	if f.commit() {
		b.log.Debug("stroke committed",
			zap.Stringer("face", id),
			zap.Int("points", f.curves[len(f.curves)-1].Len()),
			zap.Int("curves", len(f.curves)))
	}
}

// Undo cancels the stroke being captured on the selected face, or removes
// its newest committed curve. It returns false when id is not selected or
// there is nothing to undo.
func (b *Board) Undo(id ID) bool {
	if !id.Valid() || id != b.selected {
		return false
	}
	return b.faces[id].undo()
}

// LockImage switches face id to image mode: its curves are discarded and the
// surface is cleared until ApplyImage supplies the decoded picture. The token
// must be passed to ApplyImage.
func (b *Board) LockImage(id ID) (uint64, error) {
	if err := checkID(id); err != nil {
		return 0, err
	}
	token := b.faces[id].lockImage()
	b.log.Debug("face locked to image", zap.Stringer("face", id), zap.Uint64("token", token))
	return token, nil
}

// ApplyImage draws img stretched over face id. It is ignored unless the face
// is still locked with the same token, so a reset or a newer upload wins.
func (b *Board) ApplyImage(id ID, token uint64, img image.Image) bool {
	if !id.Valid() {
		return false
	}
	return b.faces[id].applyImage(token, img)
}

// SetBackground changes the background of face id. Image faces are unaffected.
func (b *Board) SetBackground(id ID, c gg.RGBA) error {
	if err := checkID(id); err != nil {
		return err
	}
	b.faces[id].setBackground(c)
	return nil
}

// SetBackgroundAll changes the background of every face without an image.
func (b *Board) SetBackgroundAll(c gg.RGBA) {
	for _, f := range b.faces {
		f.setBackground(c)
	}
}

// Reset restores face id to its initial state and deselects it.
func (b *Board) Reset(id ID) error {
	if err := checkID(id); err != nil {
		return err
	}
	if b.selected == id {
		b.selected = None
	}
	b.faces[id].reset()
	return nil
}

// ResetAll resets every face, clears the selection and restores the brush.
func (b *Board) ResetAll() {
	b.selected = None
	for _, f := range b.faces {
		f.reset()
	}
	b.style = b.opts.Style
}

// SetStrokeColor sets the colour of the next curve.
func (b *Board) SetStrokeColor(c gg.RGBA) {
	b.style.Color = c
}

// SetStrokeWidth sets the width of the next curve, clamped to
// [MinStrokeWidth, MaxStrokeWidth].
func (b *Board) SetStrokeWidth(px float64) {
	b.style.Width = clampWidth(px)
}

func clampWidth(px float64) float64 {
	if math.IsNaN(px) {
		return MinStrokeWidth
	}
	return math.Max(MinStrokeWidth, math.Min(MaxStrokeWidth, px))
}

// Bitmap returns face id encoded as PNG.
func (b *Board) Bitmap(id ID) ([]byte, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return b.faces[id].Bitmap()
}

// Bitmaps returns all six faces encoded as PNG, in slot order.
func (b *Board) Bitmaps() ([Count][]byte, error) {
	var out [Count][]byte
	for _, f := range b.faces {
		data, err := f.Bitmap()
		if err != nil {
			return out, err
		}
		out[f.id] = data
	}
	return out, nil
}
