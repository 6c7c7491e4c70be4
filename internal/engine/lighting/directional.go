// Package lighting describes the fixed light used to shade the cube.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/facepaint/pkg/math"
)

// Directional is a single directional light plus an ambient term.
type Directional struct {
	Ambient   math.Vec3
	Color     math.Vec3
	Direction math.Vec3 // Toward the light, normalized
}

// Default returns a soft white light from the upper right front.
func Default() Directional {
	return New(
		[3]float32{0.3, 0.3, 0.3},
		[3]float32{1, 1, 1},
		[3]float32{0.85, 0.8, 0.75},
	)
}

// New builds a light from plain arrays, normalizing the direction. A zero
// direction falls back to straight at the viewer.
func New(ambient, color, direction [3]float32) Directional {
	dir := vec(direction).Normalize()
	if dir == (math.Vec3{}) {
		dir = math.Vec3{Z: 1}
	}
	return Directional{Ambient: vec(ambient), Color: vec(color), Direction: dir}
}

func vec(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

// FromAngles converts a longitude around Y and a latitude above the horizon,
// both in degrees, into a unit direction.
func FromAngles(longitude, latitude float32) math.Vec3 {
	lon := float64(longitude) * gomath.Pi / 180
	lat := float64(latitude) * gomath.Pi / 180

	return math.Vec3{
		X: float32(gomath.Cos(lat) * gomath.Sin(lon)),
		Y: float32(gomath.Sin(lat)),
		Z: float32(gomath.Cos(lat) * gomath.Cos(lon)),
	}
}

// Intensity returns the light reaching a surface with the given unit normal,
// the same term the vertex shader computes.
func (d Directional) Intensity(normal math.Vec3) math.Vec3 {
	diffuse := float32(gomath.Max(float64(normal.Dot(d.Direction)), 0))
	return d.Ambient.Add(d.Color.Scale(diffuse))
}
