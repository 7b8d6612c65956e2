package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Rigid transform constructors. Angles are in radians and rotations
// follow the right hand rule about the named axis.

// Translation returns the Transform that translates by v.
func Translation(v r3.Vec) Transform {
	return Transform{}.Translate(v)
}

// RotationX returns a rotation of theta about the x axis.
func RotationX(theta float64) Transform {
	s, c := math.Sincos(theta)
	return NewTransform([]float64{
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	})
}

// RotationY returns a rotation of theta about the y axis.
func RotationY(theta float64) Transform {
	s, c := math.Sincos(theta)
	return NewTransform([]float64{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	})
}

// RotationZ returns a rotation of theta about the z axis.
func RotationZ(theta float64) Transform {
	s, c := math.Sincos(theta)
	return NewTransform([]float64{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}

// MirrorX returns the reflection across the yz plane (x -> -x).
// It preserves distances but flips handedness.
func MirrorX() Transform {
	return NewTransform([]float64{
		-1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}

// TransformBox returns the axis aligned box enclosing the transformed
// vertices of b.
func (t Transform) TransformBox(b Box) Box {
	v := b.Vertices()
	for i := range v {
		v[i] = t.Transform(v[i])
	}
	return Box{Min: v.Min(), Max: v.Max()}
}
