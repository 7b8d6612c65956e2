package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Box is a 2d bounding box.
type Box r2.Box

// Equals test the equality of 2d boxes.
func (a Box) Equals(b Box, tol float64) bool {
	return EqualWithin(a.Min, b.Min, tol) && EqualWithin(a.Max, b.Max, tol)
}

// Extend returns a box enclosing two 2d boxes.
func (a Box) Extend(b Box) Box {
	return Box{Min: MinElem(a.Min, b.Min), Max: MaxElem(a.Max, b.Max)}
}

// Include enlarges a 2d box to include a point.
func (a Box) Include(v r2.Vec) Box {
	return Box{MinElem(a.Min, v), MaxElem(a.Max, v)}
}

// Translate translates a 2d box.
func (a Box) Translate(v r2.Vec) Box {
	return Box{r2.Add(a.Min, v), r2.Add(a.Max, v)}
}

// Size returns the size of a 2d box.
func (a Box) Size() r2.Vec {
	return r2.Sub(a.Max, a.Min)
}

// Center returns the center of a 2d box.
func (a Box) Center() r2.Vec {
	return r2.Add(a.Min, r2.Scale(0.5, a.Size()))
}

// Distance returns the signed distance from p to the box boundary,
// negative inside the box.
func (a Box) Distance(p r2.Vec) float64 {
	h := r2.Scale(0.5, a.Size())
	q := r2.Sub(AbsElem(r2.Sub(p, a.Center())), h)
	return r2.Norm(MaxElem(q, r2.Vec{})) + math.Min(Max(q), 0)
}

// Empty reports whether the box has no area or has NaN limits.
func (a Box) Empty() bool {
	sz := a.Size()
	return !(sz.X > 0 && sz.Y > 0)
}
