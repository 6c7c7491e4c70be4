package face

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/gogpu/gg"

	"github.com/Faultbox/facepaint/internal/curve"
)

// State is the editing state of one face.
type State int

const (
	Idle State = iota
	SelectedIdle
	Capturing
	ImageLocked
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case SelectedIdle:
		return "selected"
	case Capturing:
		return "capturing"
	case ImageLocked:
		return "image-locked"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Face is one square drawing surface and its stroke history.
//
// The surface always shows either the background with every committed curve
// replayed in order, or the uploaded image stretched over the whole surface.
// While a stroke is being captured, the active curve is drawn on top.
type Face struct {
	id   ID
	size int

	pm *gg.Pixmap
	dc *gg.Context

	curves []*curve.Curve
	active *curve.Curve
	// Surface pixels at the moment the active curve started; each move restores
	// them and draws the active curve once.
	base []byte

	background        gg.RGBA
	defaultBackground gg.RGBA

	hasImage bool
	image    image.Image
	token    uint64

	selected bool
	revision uint64
	bitmap   []byte
}

func newFace(id ID, size int, background gg.RGBA) *Face {
	pm := gg.NewPixmap(size, size)
	f := &Face{
		id:                id,
		size:              size,
		pm:                pm,
		dc:                gg.NewContext(size, size, gg.WithPixmap(pm)),
		background:        background,
		defaultBackground: background,
	}
	f.redraw()
	return f
}

// ID returns the face identity.
func (f *Face) ID() ID { return f.id }

// Size returns the surface edge length in pixels.
func (f *Face) Size() int { return f.size }

// State returns the current editing state.
func (f *Face) State() State {
	switch {
	case f.hasImage:
		return ImageLocked
	case f.active != nil:
		return Capturing
	case f.selected:
		return SelectedIdle
	default:
		return Idle
	}
}

// Selected reports whether this face is the board's selection.
func (f *Face) Selected() bool { return f.selected }

// HasImage reports whether an uploaded image replaces freehand content.
func (f *Face) HasImage() bool { return f.hasImage }

// Background returns the current background colour.
func (f *Face) Background() gg.RGBA { return f.background }

// CurveCount returns the number of committed curves.
func (f *Face) CurveCount() int { return len(f.curves) }

// Curves returns the committed curves, oldest first.
func (f *Face) Curves() []*curve.Curve {
	out := make([]*curve.Curve, len(f.curves))
	copy(out, f.curves)
	return out
}

// Active returns the curve being captured, or nil.
func (f *Face) Active() *curve.Curve { return f.active }

// Revision increases every time the surface pixels change.
func (f *Face) Revision() uint64 { return f.revision }

// Pixels returns the surface as straight RGBA bytes, row-major from the top.
// The slice aliases the surface and is only valid until the next mutation.
func (f *Face) Pixels() []byte { return f.pm.Data() }

// Image returns a copy of the surface. The rasterizer stores straight alpha,
// so the copy is NRGBA.
func (f *Face) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.size, f.size))
	copy(img.Pix, f.pm.Data())
	return img
}

// Bitmap returns the surface encoded as PNG. The encoding is cached until the
// surface changes.
func (f *Face) Bitmap() ([]byte, error) {
	if f.bitmap != nil {
		return f.bitmap, nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, f.Image()); err != nil {
		return nil, fmt.Errorf("encode %s bitmap: %w", f.id, err)
	}
	f.bitmap = buf.Bytes()
	return f.bitmap, nil
}

func (f *Face) touch() {
	f.revision++
	f.bitmap = nil
}

// redraw rebuilds the surface from the face's state.
func (f *Face) redraw() {
	if f.hasImage {
		f.dc.ClearWithColor(gg.White)
		if f.image != nil {
			b := f.image.Bounds()
			if b.Dx() > 0 && b.Dy() > 0 {
				f.dc.DrawImageEx(gg.ImageBufFromImage(f.image), gg.DrawImageOptions{
					DstWidth:      float64(f.size),
					DstHeight:     float64(f.size),
					Interpolation: gg.InterpBilinear,
					Opacity:       1,
					BlendMode:     gg.BlendNormal,
				})
			}
		}
	} else {
		f.dc.ClearWithColor(f.background)
		for _, c := range f.curves {
			c.Render(f.dc)
		}
	}

	if f.active != nil {
		f.base = append(f.base[:0], f.pm.Data()...)
		f.active.Render(f.dc)
	}
	f.touch()
}

func (f *Face) beginCapture(style Style, p curve.Point) {
	f.active = curve.New(style.Color, style.Width)
	f.active.AddPoint(p)
	f.base = append(f.base[:0], f.pm.Data()...)
	f.active.Render(f.dc)
	f.touch()
}

// extend appends p to the active curve and repaints it over the snapshot.
// A sample equal to the last point is dropped.
func (f *Face) extend(p curve.Point) bool {
	if f.active == nil {
		return false
	}
	if last, ok := f.active.Last(); ok && last == p {
		return false
	}
	f.active.AddPoint(p)
	copy(f.pm.Data(), f.base)
	f.active.Render(f.dc)
	f.touch()
	return true
}

// commit moves the active curve into the committed list and replays everything.
func (f *Face) commit() bool {
	if f.active == nil {
		return false
	}
	f.curves = append(f.curves, f.active)
	f.active = nil
	f.base = f.base[:0]
	f.redraw()
	return true
}

func (f *Face) undo() bool {
	switch {
	case f.active != nil:
		f.active = nil
		f.base = f.base[:0]
	case len(f.curves) > 0:
		f.curves[len(f.curves)-1] = nil
		f.curves = f.curves[:len(f.curves)-1]
	default:
		return false
	}
	f.redraw()
	return true
}

func (f *Face) lockImage() uint64 {
	f.hasImage = true
	f.image = nil
	f.curves = nil
	f.active = nil
	f.base = f.base[:0]
	f.token++
	f.redraw()
	return f.token
}

func (f *Face) applyImage(token uint64, img image.Image) bool {
	if !f.hasImage || token != f.token {
		return false
	}
	f.image = img
	f.redraw()
	return true
}

func (f *Face) setBackground(c gg.RGBA) bool {
	if f.hasImage {
		return false
	}
	f.background = c
	f.redraw()
	return true
}

func (f *Face) reset() {
	f.curves = nil
	f.active = nil
	f.base = f.base[:0]
	f.hasImage = false
	f.image = nil
	f.token++
	f.background = f.defaultBackground
	f.selected = false
	f.redraw()
}
