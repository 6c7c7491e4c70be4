package ui2d

import (
	"github.com/gogpu/gg"

	"github.com/Faultbox/facepaint/internal/face"
)

// Panel draws the six face surfaces, the selection and the brush state.
type Panel struct {
	renderer *Renderer
	textures *FaceTextures
	palette  []Color
	layout   Layout
}

// NewPanel creates the panel renderer and its face textures.
func NewPanel(width, height, panelWidth int, palette []gg.RGBA) (*Panel, error) {
	r, err := New(width, height)
	if err != nil {
		return nil, err
	}
	p := &Panel{
		renderer: r,
		textures: NewFaceTextures(),
		palette:  make([]Color, len(palette)),
	}
	for i, c := range palette {
		p.palette[i] = FromGG(c)
	}
	p.layout = NewLayout(width, height, panelWidth, len(palette))
	return p, nil
}

// Layout returns the current geometry.
func (p *Panel) Layout() Layout {
	return p.layout
}

// Resize recomputes the layout for a new window size in points.
func (p *Panel) Resize(width, height, panelWidth int) {
	p.renderer.Resize(width, height)
	p.layout = NewLayout(width, height, panelWidth, len(p.palette))
}

// Draw syncs changed faces to the GPU and draws the panel over the current
// framebuffer. It returns the number of face textures refreshed.
func (p *Panel) Draw(b *face.Board) int {
	synced := p.textures.Sync(b)
	l := p.layout

	r := p.renderer
	r.Begin()
	r.DrawPanel(l.Panel, ColorPanelBg, ColorPanelBorder)

	for _, id := range face.IDs() {
		rect := l.Faces[id]
		r.DrawTexture(rect, p.textures.Texture(id))
		f := b.Face(id)
		switch {
		case f.Selected():
			r.DrawRectOutline(grow(rect, 3), 3, ColorHighlight)
		case f.HasImage():
			r.DrawRectOutline(grow(rect, 1), 1, ColorLocked)
		default:
			r.DrawRectOutline(grow(rect, 1), 1, ColorFaceBorder)
		}
	}

	style := b.Style()
	current := FromGG(style.Color)
	r.DrawRect(l.Current, current)
	r.DrawRectOutline(l.Current, 1, ColorWhite)
	for i, rect := range l.Swatches {
		r.DrawRect(rect, p.palette[i])
		if p.palette[i] == current {
			r.DrawRectOutline(grow(rect, 2), 2, ColorHighlight)
		}
	}

	bar := l.WidthBar
	r.DrawRect(bar, ColorTrack)
	frac := float32((style.Width - face.MinStrokeWidth) / (face.MaxStrokeWidth - face.MinStrokeWidth))
	r.DrawRect(Rect{bar.X, bar.Y, bar.W * frac, bar.H}, ColorHighlight)

	r.End()
	return synced
}

// Close releases GL resources.
func (p *Panel) Close() {
	p.textures.Close()
	p.renderer.Close()
}

func grow(r Rect, d float32) Rect {
	return Rect{r.X - d, r.Y - d, r.W + 2*d, r.H + 2*d}
}
