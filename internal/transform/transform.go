// Package transform holds the cube's position and rotation and the clamps
// applied to every change.
package transform

import (
	gomath "math"

	"github.com/Faultbox/facepaint/pkg/math"
)

// Axis selects a component of the position or rotation.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	default:
		return "?"
	}
}

// Limits bound the transform.
type Limits struct {
	Pitch   float32 // Max |pitch| in radians
	Pan     float32 // Max |x| and |y|
	ZoomMin float32 // Lowest z (farthest)
	ZoomMax float32 // Highest z (nearest)
}

// Settings are the defaults and sensitivities of a Transform.
type Settings struct {
	Position [3]float32
	Rotation [3]float32 // Radians: pitch, yaw, roll

	RotateSpeed float32 // Radians per pixel of drag
	PanSpeed    float32 // Units per pixel of drag
	ZoomStep    float32 // Units per wheel notch

	FOV  float32 // Vertical field of view in radians
	Near float32
	Far  float32

	Limits Limits
}

// DefaultSettings returns the initial view: the cube five units away, tilted
// 30 degrees and turned 45 degrees.
func DefaultSettings() Settings {
	return Settings{
		Position:    [3]float32{0, 0, -5},
		Rotation:    [3]float32{gomath.Pi / 6, gomath.Pi / 4, 0},
		RotateSpeed: 0.01,
		PanSpeed:    0.01,
		ZoomStep:    0.12,
		FOV:         45 * gomath.Pi / 180,
		Near:        0.1,
		Far:         100,
		Limits: Limits{
			Pitch:   gomath.Pi / 2,
			Pan:     2,
			ZoomMin: -7,
			ZoomMax: -2,
		},
	}
}

// Transform is the cube's model transform. Rotation is applied about X, then
// Y, then Z, after translating to Position.
type Transform struct {
	position [3]float32
	rotation [3]float32
	s        Settings
}

// New creates a transform at the settings' default pose.
func New(s Settings) *Transform {
	t := &Transform{s: s}
	t.Reset()
	return t
}

// Reset restores the default pose.
func (t *Transform) Reset() {
	t.position = t.s.Position
	t.rotation = t.s.Rotation
	t.clamp()
}

// Position returns the translation.
func (t *Transform) Position() [3]float32 { return t.position }

// Rotation returns pitch, yaw and roll in radians.
func (t *Transform) Rotation() [3]float32 { return t.rotation }

// Settings returns the settings the transform was created with.
func (t *Transform) Settings() Settings { return t.s }

// Drag rotates by a pointer delta in pixels: horizontal turns yaw, vertical
// turns pitch.
func (t *Transform) Drag(dx, dy float32) {
	t.rotation[0] += dy * t.s.RotateSpeed
	t.rotation[1] += dx * t.s.RotateSpeed
	t.clamp()
}

// Pan moves the cube by a pointer delta in pixels. Screen y grows downward.
func (t *Transform) Pan(dx, dy float32) {
	t.position[0] += dx * t.s.PanSpeed
	t.position[1] -= dy * t.s.PanSpeed
	t.clamp()
}

// Zoom moves the cube toward the viewer for positive wheel notches.
func (t *Transform) Zoom(wheel float32) {
	t.position[2] += wheel * t.s.ZoomStep
	t.clamp()
}

// SetRotation sets one rotation angle in degrees.
func (t *Transform) SetRotation(axis Axis, degrees float32) {
	if axis < X || axis > Z {
		return
	}
	t.rotation[axis] = degrees * gomath.Pi / 180
	t.clamp()
}

// SetPosition sets one position component.
func (t *Transform) SetPosition(axis Axis, v float32) {
	if axis < X || axis > Z {
		return
	}
	t.position[axis] = v
	t.clamp()
}

func (t *Transform) clamp() {
	l := t.s.Limits
	t.rotation[0] = clamp(t.rotation[0], -l.Pitch, l.Pitch)
	t.rotation[1] = wrap(t.rotation[1], 2*gomath.Pi)
	t.rotation[2] = wrap(t.rotation[2], 2*gomath.Pi)
	t.position[0] = clamp(t.position[0], -l.Pan, l.Pan)
	t.position[1] = clamp(t.position[1], -l.Pan, l.Pan)
	t.position[2] = clamp(t.position[2], l.ZoomMin, l.ZoomMax)
}

// Degrees returns pitch in [-90, 90] and yaw and roll in [0, 360).
func (t *Transform) Degrees() [3]float32 {
	const toDeg = 180 / gomath.Pi
	return [3]float32{
		clamp(t.rotation[0]*toDeg, -90, 90),
		wrap(t.rotation[1]*toDeg, 360),
		wrap(t.rotation[2]*toDeg, 360),
	}
}

// ModelView returns Translate * RotX * RotY * RotZ.
func (t *Transform) ModelView() math.Mat4 {
	p, r := t.position, t.rotation
	return math.Translate(p[0], p[1], p[2]).
		Mul(math.RotateX(r[0])).
		Mul(math.RotateY(r[1])).
		Mul(math.RotateZ(r[2]))
}

// NormalMatrix returns the inverse-transpose of the model-view matrix.
func (t *Transform) NormalMatrix() math.Mat4 {
	return t.ModelView().NormalMatrix()
}

// Projection returns the perspective projection for a viewport aspect ratio.
func (t *Transform) Projection(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return math.Perspective(t.s.FOV, aspect, t.s.Near, t.s.Far)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// wrap maps v into [0, period).
func wrap(v, period float32) float32 {
	r := float32(gomath.Mod(float64(v), float64(period)))
	if r < 0 {
		r += period
	}
	if r >= period {
		r = 0
	}
	return r
}
