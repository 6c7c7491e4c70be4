// Package curve implements freehand strokes: an ordered list of points plus the
// stroke style captured when the stroke began.
package curve

import (
	"github.com/gogpu/gg"
	"go.uber.org/zap"

	"github.com/Faultbox/facepaint/internal/logger"
)

// Point is a position in surface pixel space.
type Point struct {
	X, Y float64
}

// Curve is a polyline with a fixed colour and width.
// Points are append-only; the style never changes after New.
type Curve struct {
	points []Point
	color  gg.RGBA
	width  float64
}

// New creates an empty curve with the given stroke style.
func New(color gg.RGBA, width float64) *Curve {
	return &Curve{color: color, width: width}
}

// AddPoint appends p to the curve.
func (c *Curve) AddPoint(p Point) {
	c.points = append(c.points, p)
}

// Len returns the number of points.
func (c *Curve) Len() int {
	return len(c.points)
}

// Points returns a copy of the points in insertion order.
func (c *Curve) Points() []Point {
	out := make([]Point, len(c.points))
	copy(out, c.points)
	return out
}

// Last returns the most recently added point.
func (c *Curve) Last() (Point, bool) {
	if len(c.points) == 0 {
		return Point{}, false
	}
	return c.points[len(c.points)-1], true
}

// Color returns the stroke colour.
func (c *Curve) Color() gg.RGBA {
	return c.color
}

// Width returns the stroke width in pixels.
func (c *Curve) Width() float64 {
	return c.width
}

// Render draws the curve on top of whatever dc already holds.
//
// An empty curve draws nothing. A single point draws a filled disc whose
// diameter is the stroke width. Two or more points draw one polyline through
// every point with round caps and joins.
func (c *Curve) Render(dc *gg.Context) {
	if len(c.points) == 0 {
		return
	}

	dc.SetColor(c.color)
	dc.SetLineWidth(c.width)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	var err error
	if len(c.points) == 1 {
		p := c.points[0]
		dc.DrawCircle(p.X, p.Y, c.width/2)
		err = dc.Fill()
	} else {
		dc.MoveTo(c.points[0].X, c.points[0].Y)
		for _, p := range c.points[1:] {
			dc.LineTo(p.X, p.Y)
		}
		err = dc.Stroke()
	}
	if err != nil {
		logger.Debug("curve render failed", zap.Int("points", len(c.points)), zap.Error(err))
	}
}
