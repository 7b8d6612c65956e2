package sdf

import (
	"math"

	"github.com/signpost3d/signpost/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// 2D signed distance function utility functions.

// SDF2 is the interface to a 2d signed distance function object.
type SDF2 interface {
	// Evaluate takes a point in 2D space as input and returns
	// the minimum distance of the SDF2 to the point. The distance
	// is negative if the point is contained within the SDF2.
	Evaluate(p r2.Vec) float64

	// Bounds returns the bounding box that completely contains the SDF2.
	Bounds() r2.Box
}

// translate2 is an SDF2 moved by a fixed offset.
type translate2 struct {
	sdf SDF2
	v   r2.Vec
	bb  r2.Box
}

// Translate2D returns sdf translated by v.
func Translate2D(sdf SDF2, v r2.Vec) SDF2 {
	if sdf == nil {
		panic("nil SDF2 argument")
	}
	if t, ok := sdf.(*translate2); ok {
		return Translate2D(t.sdf, r2.Add(t.v, v))
	}
	return &translate2{
		sdf: sdf,
		v:   v,
		bb:  r2.Box(d2.Box(sdf.Bounds()).Translate(v)),
	}
}

// Evaluate returns the minimum distance to a translated SDF2.
func (s *translate2) Evaluate(p r2.Vec) float64 {
	return s.sdf.Evaluate(r2.Sub(p, s.v))
}

// Bounds returns the bounding box of a translated SDF2.
func (s *translate2) Bounds() r2.Box {
	return s.bb
}

// union2 is a union of multiple SDF2 objects.
type union2 struct {
	sdf []SDF2
	bbs []d2.Box
	bb  r2.Box
}

// Union2D returns the union of multiple SDF2 objects.
// Operands are clipped to their bounding boxes, see Union3D.
func Union2D(sdf ...SDF2) SDF2 {
	if len(sdf) == 0 {
		panic("union requires at least 1 sdf")
	}
	for _, x := range sdf {
		if x == nil {
			panic("nil argument found")
		}
	}
	s := union2{sdf: sdf, bbs: boxes2(sdf)}
	// work out the bounding box
	bb := s.bbs[0]
	for _, x := range s.bbs[1:] {
		bb = bb.Extend(x)
	}
	s.bb = r2.Box(bb)
	return &s
}

// Evaluate returns the minimum distance to the SDF2 union.
func (s *union2) Evaluate(p r2.Vec) float64 {
	d := math.MaxFloat64
	for i := range s.sdf {
		bd := s.bbs[i].Distance(p)
		if bd >= d {
			continue
		}
		d = math.Min(d, math.Max(bd, s.sdf[i].Evaluate(p)))
	}
	return d
}

// Bounds returns the bounding box of an SDF2 union.
func (s *union2) Bounds() r2.Box {
	return s.bb
}

// diff2 is the difference of two SDF2s.
type diff2 struct {
	s0 SDF2
	s1 SDF2
	bb r2.Box
}

// Difference2D returns the difference of two SDF2 objects, s0 - s1.
func Difference2D(s0, s1 SDF2) SDF2 {
	if s0 == nil || s1 == nil {
		panic("nil sdf argument")
	}
	return &diff2{s0: s0, s1: s1, bb: s0.Bounds()}
}

// Evaluate returns the minimum distance to the difference of two SDF2s.
func (s *diff2) Evaluate(p r2.Vec) float64 {
	return math.Max(s.s0.Evaluate(p), -s.s1.Evaluate(p))
}

// Bounds returns the bounding box of the difference of two SDF2s.
func (s *diff2) Bounds() r2.Box {
	return s.bb
}
