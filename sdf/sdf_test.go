package sdf_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/signpost3d/signpost/form2"
	"github.com/signpost3d/signpost/form3"
	"github.com/signpost3d/signpost/internal/d3"
	"github.com/signpost3d/signpost/sdf"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestUnionDifference(t *testing.T) {
	a, _ := form3.Box(r3.Vec{X: 2, Y: 2, Z: 2}, 0)
	b, _ := form3.Cylinder(1, 0.5, 0)
	b = sdf.Translate3D(b, r3.Vec{X: 3})
	u := sdf.Union3D(a, b)
	for _, test := range []struct {
		p    r3.Vec
		want float64
	}{
		{r3.Vec{}, -1},
		{r3.Vec{X: 3}, -0.5},
		{r3.Vec{X: 1.5}, 0.5},
		{r3.Vec{X: 2}, 0.5},
	} {
		if got := u.Evaluate(test.p); math.Abs(got-test.want) > 1e-9 {
			t.Errorf("union(%v) = %g, want %g", test.p, got, test.want)
		}
	}
	hole, _ := form3.Cylinder(4, 0.5, 0)
	d := sdf.Difference3D(a, hole)
	if got := d.Evaluate(r3.Vec{}); got <= 0 {
		t.Errorf("center of drilled box should be outside, got %g", got)
	}
	if got := d.Evaluate(r3.Vec{X: 0.75}); got >= 0 {
		t.Errorf("wall of drilled box should be inside, got %g", got)
	}
	// a cutter far from the point does not change the distance
	far := sdf.Translate3D(hole, r3.Vec{X: 20})
	d = sdf.Difference3D(a, far)
	if got := d.Evaluate(r3.Vec{X: 0.5}); math.Abs(got+0.5) > 1e-9 {
		t.Errorf("got %g, want -0.5", got)
	}
}

func TestTransformBounds(t *testing.T) {
	b, _ := form3.Box(r3.Vec{X: 4, Y: 2, Z: 2}, 0)
	s := sdf.RotateZ3D(b, math.Pi/2)
	bb := d3.Box(s.Bounds())
	want := d3.Box{Min: r3.Vec{X: -1, Y: -2, Z: -1}, Max: r3.Vec{X: 1, Y: 2, Z: 1}}
	if !bb.Equals(want, 1e-9) {
		t.Errorf("rotated bounds %v, want %v", bb, want)
	}
	s = sdf.Translate3D(sdf.Translate3D(b, r3.Vec{X: 1}), r3.Vec{Z: 2})
	if got := s.Evaluate(r3.Vec{X: 1, Z: 2}); math.Abs(got+1) > 1e-9 {
		t.Errorf("nested translate: got %g, want -1", got)
	}
}

func TestCompassRotation(t *testing.T) {
	north := r3.Vec{Y: 1}
	for _, test := range []struct {
		bearing float64
		want    r3.Vec
	}{
		{0, r3.Vec{Y: 1}},
		{90, r3.Vec{X: 1}},
		{180, r3.Vec{Y: -1}},
		{270, r3.Vec{X: -1}},
	} {
		got := sdf.CompassRotation(test.bearing).Transform(north)
		if r3.Norm(r3.Sub(got, test.want)) > 1e-9 {
			t.Errorf("bearing %g: got %v, want %v", test.bearing, got, test.want)
		}
		if dir := sdf.CompassDir(test.bearing); r3.Norm(r3.Sub(dir, test.want)) > 1e-9 {
			t.Errorf("CompassDir(%g) = %v, want %v", test.bearing, dir, test.want)
		}
	}
}

func TestExtrudeRevolve(t *testing.T) {
	c, _ := form2.Circle(1)
	e := sdf.Extrude3D(c, 4)
	if got := e.Evaluate(r3.Vec{Z: 3}); math.Abs(got-1) > 1e-9 {
		t.Errorf("above extrusion: %g", got)
	}
	if got := e.Evaluate(r3.Vec{X: 2, Z: 3}); math.Abs(got-math.Sqrt2) > 1e-9 {
		t.Errorf("extrusion corner: %g", got)
	}
	sq, _ := form2.Box(r2.Vec{X: 4, Y: 2}, 0)
	r := sdf.Revolve3D(sq)
	if got := r.Evaluate(r3.Vec{X: 1, Y: 1}); got >= 0 {
		t.Errorf("revolved point within radius 2 should be inside, got %g", got)
	}
	if got := r.Evaluate(r3.Vec{X: 3}); math.Abs(got-1) > 1e-9 {
		t.Errorf("revolved: got %g, want 1", got)
	}
}

// Octree pruning relies on composed shapes being 1-Lipschitz.
func TestComposedLipschitz(t *testing.T) {
	box, _ := form3.Box(r3.Vec{X: 10, Y: 10, Z: 4}, 0)
	pin, _ := form3.Cylinder(3, 1, 0)
	hole, _ := form3.Cylinder(6, 2, 0)
	s := sdf.Difference3D(
		sdf.Union3D(box, sdf.Translate3D(pin, r3.Vec{X: 3, Z: 3})),
		sdf.Transform3D(hole, d3.RotationX(math.Pi/2)),
	)
	s = sdf.RotateZ3D(s, 0.4)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		p := r3.Vec{X: 16*rng.Float64() - 8, Y: 16*rng.Float64() - 8, Z: 12*rng.Float64() - 6}
		q := r3.Add(p, r3.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()})
		dp, dq := s.Evaluate(p), s.Evaluate(q)
		if math.Abs(dp-dq) > r3.Norm(r3.Sub(p, q))+1e-9 {
			t.Fatalf("not 1-Lipschitz between %v (%g) and %v (%g)", p, dp, q, dq)
		}
	}
}

func TestMultiEmpty(t *testing.T) {
	pin, _ := form3.Cylinder(1, 1, 0)
	if !d3.Box(sdf.Multi3D(pin, nil).Bounds()).Empty() {
		t.Error("Multi3D with no positions should be empty")
	}
	m := sdf.Multi3D(pin, d3.Set{{X: -2}, {X: 2}})
	if m.Evaluate(r3.Vec{X: 2}) >= 0 || m.Evaluate(r3.Vec{}) <= 0 {
		t.Error("Multi3D misplaced copies")
	}
}
