package sdf

import (
	"math"
	"strconv"

	"github.com/signpost3d/signpost/internal/d2"
	"github.com/signpost3d/signpost/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// 3D signed distance utility functions.

// SDF3 is the interface to a 3d signed distance function object.
type SDF3 interface {
	// Evaluate takes a point in 3D space as input and returns
	// the minimum distance of the SDF3 to the point. The distance
	// is negative if the point is contained within the SDF3.
	Evaluate(p r3.Vec) float64
	// Bounds returns the bounding box that completely contains
	// the SDF3.
	Bounds() r3.Box
}

// revolution3 solid of revolution, SDF2 to SDF3.
type revolution3 struct {
	sdf SDF2
	bb  r3.Box
}

// Revolve3D returns an SDF3 for a full solid of revolution of sdf about
// the z axis. The SDF2 x coordinate is the radius and y maps to z.
// The profile should be symmetric about x=0 so that the axis is not
// part of the profile boundary.
func Revolve3D(sdf SDF2) SDF3 {
	if sdf == nil {
		panic("nil SDF2 argument")
	}
	bb := sdf.Bounds()
	l := math.Max(math.Abs(bb.Min.X), math.Abs(bb.Max.X))
	return &revolution3{
		sdf: sdf,
		bb:  r3.Box{Min: r3.Vec{X: -l, Y: -l, Z: bb.Min.Y}, Max: r3.Vec{X: l, Y: l, Z: bb.Max.Y}},
	}
}

// Evaluate returns the minimum distance to a solid of revolution.
func (s *revolution3) Evaluate(p r3.Vec) float64 {
	x := math.Hypot(p.X, p.Y)
	return s.sdf.Evaluate(r2.Vec{X: x, Y: p.Z})
}

// Bounds returns the bounding box for a solid of revolution.
func (s *revolution3) Bounds() r3.Box {
	return s.bb
}

// extrude3 extrudes an SDF2 to an SDF3.
type extrude3 struct {
	sdf    SDF2
	height float64
	bb     r3.Box
}

// Extrude3D does a linear extrude on an SDF2. The result is centered
// on z=0 and spans [-height/2, height/2].
func Extrude3D(sdf SDF2, height float64) SDF3 {
	if sdf == nil {
		panic("nil SDF2 argument")
	}
	if height <= 0 {
		panic("height <= 0")
	}
	s := extrude3{}
	s.sdf = sdf
	s.height = height / 2
	// work out the bounding box
	bb := sdf.Bounds()
	s.bb = r3.Box{Min: r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: -s.height}, Max: r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: s.height}}
	return &s
}

// Evaluate returns the minimum distance to an extrusion.
func (s *extrude3) Evaluate(p r3.Vec) float64 {
	// sdf for the projected 2d surface
	a := s.sdf.Evaluate(r2.Vec{X: p.X, Y: p.Y})
	// sdf for the extrusion region: z = [-height, height]
	b := math.Abs(p.Z) - s.height
	// exact outside the corner region
	if a > 0 && b > 0 {
		return math.Hypot(a, b)
	}
	return math.Max(a, b)
}

// Bounds returns the bounding box for an extrusion.
func (s *extrude3) Bounds() r3.Box {
	return s.bb
}

// transform3 is an SDF3 transformed with a 4x4 transformation matrix.
type transform3 struct {
	sdf     SDF3
	matrix  d3.Transform
	inverse d3.Transform
	bb      r3.Box
}

// Transform3D applies a transformation matrix to an SDF3.
// Only rigid transforms and reflections preserve the distance field.
func Transform3D(sdf SDF3, matrix d3.Transform) SDF3 {
	if sdf == nil {
		panic("nil SDF3 argument")
	}
	if inner, ok := sdf.(*transform3); ok {
		// collapse nested transforms into one matrix
		return Transform3D(inner.sdf, matrix.Mul(inner.matrix))
	}
	s := transform3{}
	s.sdf = sdf
	s.matrix = matrix
	s.inverse = matrix.Inv()
	s.bb = r3.Box(matrix.TransformBox(d3.Box(sdf.Bounds())))
	return &s
}

// Evaluate returns the minimum distance to a transformed SDF3.
// Distance is *not* preserved with scaling.
func (s *transform3) Evaluate(p r3.Vec) float64 {
	return s.sdf.Evaluate(s.inverse.Transform(p))
}

// Bounds returns the bounding box of a transformed SDF3.
func (s *transform3) Bounds() r3.Box {
	return s.bb
}

// Translate3D returns sdf translated by v.
func Translate3D(sdf SDF3, v r3.Vec) SDF3 {
	return Transform3D(sdf, d3.Translation(v))
}

// RotateZ3D returns sdf rotated by theta radians about the z axis.
func RotateZ3D(sdf SDF3, theta float64) SDF3 {
	return Transform3D(sdf, d3.RotationZ(theta))
}

// union3 is a union of SDF3s.
type union3 struct {
	sdf []SDF3
	bbs []d3.Box
	bb  r3.Box
}

// Union3D returns the union of multiple SDF3 objects.
// Union3D will panic if arguments list is empty or if
// an argument SDF3 is nil.
//
// Each operand is clipped to its own bounding box. The operand shapes
// are unchanged by this and it lets Evaluate skip operands whose box
// is farther away than the nearest surface found so far.
func Union3D(sdf ...SDF3) SDF3 {
	if len(sdf) == 0 {
		panic("union requires at least 1 sdf")
	}
	s := union3{
		sdf: sdf,
		bbs: make([]d3.Box, len(sdf)),
	}
	for i, x := range s.sdf {
		if x == nil {
			panic("nil sdf argument (" + strconv.Itoa(i) + ") to Union3D")
		}
		s.bbs[i] = d3.Box(x.Bounds())
	}
	// work out the bounding box
	bb := s.bbs[0]
	for _, x := range s.bbs[1:] {
		bb = bb.Extend(x)
	}
	s.bb = r3.Box(bb)
	return &s
}

// Evaluate returns the minimum distance to an SDF3 union.
func (s *union3) Evaluate(p r3.Vec) float64 {
	d := math.MaxFloat64
	for i, x := range s.sdf {
		bd := s.bbs[i].Distance(p)
		if bd >= d {
			continue
		}
		d = math.Min(d, math.Max(bd, x.Evaluate(p)))
	}
	return d
}

// Bounds returns the bounding box of an SDF3 union.
func (s *union3) Bounds() r3.Box {
	return s.bb
}

// diff3 is the difference of two SDF3s, s0 - s1.
type diff3 struct {
	s0  SDF3
	s1  SDF3
	bb1 d3.Box
	bb  r3.Box
}

// Difference3D returns the difference of two SDF3s, s0 - s1.
// Difference3D will panic if one any of the arguments is nil.
func Difference3D(s0, s1 SDF3) SDF3 {
	if s1 == nil || s0 == nil {
		panic("nil argument to Difference3D")
	}
	s := diff3{}
	s.s0 = s0
	s.s1 = s1
	s.bb1 = d3.Box(s1.Bounds())
	s.bb = s0.Bounds()
	return &s
}

// Evaluate returns the minimum distance to the SDF3 difference.
func (s *diff3) Evaluate(p r3.Vec) float64 {
	a := s.s0.Evaluate(p)
	// s1 clipped to its box, skipped when it cannot matter.
	bd := s.bb1.Distance(p)
	if bd >= -a {
		return a
	}
	return math.Max(a, -math.Max(bd, s.s1.Evaluate(p)))
}

// Bounds returns the bounding box of the SDF3 difference.
func (s *diff3) Bounds() r3.Box {
	return s.bb
}

// Multi3D creates a union of an SDF3 at translated positions.
func Multi3D(s SDF3, positions d3.Set) SDF3 {
	if s == nil {
		panic("nil sdf argument")
	}
	if len(positions) == 0 {
		return empty3From(s)
	}
	objects := make([]SDF3, len(positions))
	for i, p := range positions {
		objects[i] = Translate3D(s, p)
	}
	return Union3D(objects...)
}

func empty3From(s SDF3) empty3 {
	return empty3{
		center: d3.Box(s.Bounds()).Center(),
	}
}

type empty3 struct {
	center r3.Vec
}

var _ SDF3 = empty3{}

func (e empty3) Evaluate(r3.Vec) float64 {
	return math.MaxFloat64
}

func (e empty3) Bounds() r3.Box {
	return r3.Box{
		Min: e.center,
		Max: e.center,
	}
}

// boxes2 returns the bounding boxes of a set of SDF2s.
func boxes2(sdf []SDF2) []d2.Box {
	bbs := make([]d2.Box, len(sdf))
	for i := range sdf {
		bbs[i] = d2.Box(sdf[i].Bounds())
	}
	return bbs
}
