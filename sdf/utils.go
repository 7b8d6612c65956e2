package sdf

import (
	"math"

	"github.com/signpost3d/signpost/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

const pi = math.Pi

// DtoR converts degrees to radians
func DtoR(degrees float64) float64 {
	return (pi / 180) * degrees
}

// Clamp x between a and b, assume a <= b
func Clamp(x, a, b float64) float64 {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}

// Sign returns the sign of x
func Sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}

// CompassRotation returns the rotation about z that turns the +Y axis
// (north) to face the compass bearing in degrees. Bearings grow clockwise
// when viewed from above.
func CompassRotation(bearing float64) d3.Transform {
	return d3.RotationZ(-DtoR(bearing))
}

// CompassDir returns the unit vector in the xy plane for a compass bearing.
func CompassDir(bearing float64) r3.Vec {
	s, c := math.Sincos(DtoR(bearing))
	return r3.Vec{X: s, Y: c}
}
