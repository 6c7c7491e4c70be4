package ui2d

import (
	"image"
	"math"

	"github.com/Faultbox/facepaint/internal/curve"
	"github.com/Faultbox/facepaint/internal/face"
)

// Rect is an axis-aligned rectangle in window points, origin top-left.
type Rect struct {
	X, Y, W, H float32
}

// Contains checks if a point is inside the rectangle.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

const (
	panelMargin   = 12
	faceGap       = 10
	swatchSize    = 24
	swatchGap     = 6
	widthBarH     = 8
	gridColumns   = 3
	gridRows      = 2
	minCellPoints = 16
)

// gridOrder places the faces in the panel, row by row.
var gridOrder = [face.Count]face.ID{
	face.Front, face.Back, face.Top,
	face.Bottom, face.Right, face.Left,
}

// Layout splits the window into the face panel on the left and the cube
// viewport on the right. Coordinates are window points.
type Layout struct {
	Width, Height float32
	Panel         Rect
	Cube          Rect
	Faces         [face.Count]Rect
	Swatches      []Rect
	Current       Rect // Current stroke color
	WidthBar      Rect // Current stroke width
}

// NewLayout computes the panel geometry for a window size.
func NewLayout(width, height, panelWidth, swatches int) Layout {
	w, h := float32(width), float32(height)
	pw := float32(panelWidth)
	if pw > w {
		pw = w
	}

	l := Layout{
		Width:  w,
		Height: h,
		Panel:  Rect{0, 0, pw, h},
		Cube:   Rect{pw, 0, w - pw, h},
	}

	// Square cells sized to fit three across and two down, leaving room for
	// the palette row below.
	cellW := (pw - 2*panelMargin - (gridColumns-1)*faceGap) / gridColumns
	cellH := (h - 3*panelMargin - swatchSize - widthBarH - 2*faceGap - (gridRows-1)*faceGap) / gridRows
	cell := float32(math.Floor(float64(min(cellW, cellH))))
	if cell < minCellPoints {
		cell = minCellPoints
	}

	for i, id := range gridOrder {
		col := i % gridColumns
		row := i / gridColumns
		l.Faces[id] = Rect{
			X: panelMargin + float32(col)*(cell+faceGap),
			Y: panelMargin + float32(row)*(cell+faceGap),
			W: cell,
			H: cell,
		}
	}

	y := panelMargin + gridRows*cell + (gridRows-1)*faceGap + faceGap
	l.Current = Rect{panelMargin, y, swatchSize, swatchSize}
	x := float32(panelMargin + swatchSize + 2*swatchGap)
	l.Swatches = make([]Rect, swatches)
	for i := range l.Swatches {
		l.Swatches[i] = Rect{x + float32(i)*(swatchSize+swatchGap), y, swatchSize, swatchSize}
	}
	l.WidthBar = Rect{panelMargin, y + swatchSize + faceGap, pw - 2*panelMargin, widthBarH}

	return l
}

// FaceAt returns the face under a point, or face.None.
func (l Layout) FaceAt(x, y float32) face.ID {
	for _, id := range face.IDs() {
		if l.Faces[id].Contains(x, y) {
			return id
		}
	}
	return face.None
}

// SwatchAt returns the palette index under a point, or -1.
func (l Layout) SwatchAt(x, y float32) int {
	for i, r := range l.Swatches {
		if r.Contains(x, y) {
			return i
		}
	}
	return -1
}

// InCube reports whether a point lies in the cube viewport.
func (l Layout) InCube(x, y float32) bool {
	return l.Cube.Contains(x, y)
}

// ToFace maps a window point into surface pixels of a face that is size
// pixels square. Points outside the face map outside [0, size).
func (l Layout) ToFace(id face.ID, x, y float32, size int) curve.Point {
	r := l.Faces[id]
	if r.Empty() {
		return curve.Point{}
	}
	s := float64(size)
	return curve.Point{
		X: float64(x-r.X) / float64(r.W) * s,
		Y: float64(y-r.Y) / float64(r.H) * s,
	}
}

// Viewport converts the cube region into drawable pixels with a bottom-left
// origin, as glViewport expects.
func (l Layout) Viewport(scale float64, drawableHeight int) image.Rectangle {
	c := l.Cube
	x0 := int(math.Round(float64(c.X) * scale))
	x1 := int(math.Round(float64(c.X+c.W) * scale))
	h := int(math.Round(float64(c.H) * scale))
	y0 := drawableHeight - int(math.Round(float64(c.Y)*scale)) - h
	return image.Rect(x0, y0, x1, y0+h)
}

// Aspect returns the cube viewport aspect ratio.
func (l Layout) Aspect() float32 {
	if l.Cube.Empty() {
		return 1
	}
	return l.Cube.W / l.Cube.H
}
