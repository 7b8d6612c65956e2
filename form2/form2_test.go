package form2

import (
	"errors"
	"math"
	"testing"

	"github.com/signpost3d/signpost/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestPolygonSquare(t *testing.T) {
	sq, err := Polygon([]r2.Vec{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}})
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		p    r2.Vec
		want float64
	}{
		{r2.Vec{}, -1},
		{r2.Vec{X: 2}, 1},
		{r2.Vec{X: 0.5, Y: 0.9}, -0.1},
		{r2.Vec{X: 2, Y: 2}, math.Sqrt2},
	} {
		got := sq.Evaluate(test.p)
		if math.Abs(got-test.want) > 1e-9 {
			t.Errorf("Evaluate(%v) = %g, want %g", test.p, got, test.want)
		}
	}
}

func TestOutlineHole(t *testing.T) {
	outer := []r2.Vec{{X: -2, Y: -2}, {X: 2, Y: -2}, {X: 2, Y: 2}, {X: -2, Y: 2}}
	// hole wound against the outer loop
	inner := []r2.Vec{{X: -1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: -1}}
	ring, err := Outline([][]r2.Vec{outer, inner})
	if err != nil {
		t.Fatal(err)
	}
	if d := ring.Evaluate(r2.Vec{}); d <= 0 {
		t.Errorf("center of hole should be outside, got %g", d)
	}
	if d := ring.Evaluate(r2.Vec{X: 1.5}); d >= 0 {
		t.Errorf("ring body should be inside, got %g", d)
	}
}

func TestBadShapesRecover(t *testing.T) {
	if _, err := Circle(-1); err == nil {
		t.Error("expected error for negative radius")
	}
	if _, err := Polygon([]r2.Vec{{}, {X: 1}}); err == nil {
		t.Error("expected error for two vertex polygon")
	}
	if _, err := Box(r2.Vec{X: 1, Y: 1}, 2); err == nil {
		t.Error("expected error for oversized rounding")
	}
}

func TestLookupFont(t *testing.T) {
	f, ok, err := LookupFont("Go Bold")
	if err != nil || !ok || f.Name() != "gobold" {
		t.Fatalf("Go Bold lookup: %v %v %v", f, ok, err)
	}
	f, ok, err = LookupFont("Arial")
	if err != nil {
		t.Fatal(err)
	}
	if ok || f.Name() != DefaultFont {
		t.Errorf("Arial should fall back to %s, got %s (ok=%v)", DefaultFont, f.Name(), ok)
	}
	if len(FontNames()) < 5 {
		t.Error("expected the go font family to be registered")
	}
}

func TestTextCenteredOnInk(t *testing.T) {
	f, _, err := LookupFont(DefaultFont)
	if err != nil {
		t.Fatal(err)
	}
	s, err := Text(f, "ALBANY", 10)
	if err != nil {
		t.Fatal(err)
	}
	c := d2.Box(s.Bounds()).Center()
	if r2.Norm(c) > 1e-9 {
		t.Errorf("text not centered, center=%v", c)
	}
	size := d2.Box(s.Bounds()).Size()
	// cap height of the go fonts is about 0.7 em
	if size.Y < 5 || size.Y > 10 {
		t.Errorf("unexpected ink height %g for size 10", size.Y)
	}
	// the counter of the A is a hole
	inkInside := 0
	for x := -size.X / 2; x < size.X/2; x += 0.1 {
		if s.Evaluate(r2.Vec{X: x}) < 0 {
			inkInside++
		}
	}
	if inkInside == 0 {
		t.Error("no ink found on the center line")
	}
}

func TestTextWidthGrows(t *testing.T) {
	f, _, _ := LookupFont(DefaultFont)
	w1, err := TextWidth(f, "NY", 10)
	if err != nil {
		t.Fatal(err)
	}
	w2, err := TextWidth(f, "NEW YORK", 10)
	if err != nil {
		t.Fatal(err)
	}
	w3, _ := TextWidth(f, "NEW YORK", 20)
	if !(w2 > w1) {
		t.Errorf("longer text should be wider: %g <= %g", w2, w1)
	}
	if math.Abs(w3-2*w2) > 1e-6*w3 {
		t.Errorf("width should scale with size: %g vs 2*%g", w3, w2)
	}
}

func TestTextBlank(t *testing.T) {
	f, _, _ := LookupFont(DefaultFont)
	for _, text := range []string{"", "   "} {
		_, err := Text(f, text, 5)
		if !errors.Is(err, ErrBlankText) {
			t.Errorf("Text(%q) error = %v, want ErrBlankText", text, err)
		}
	}
}

func TestPolygonBuilderSmooth(t *testing.T) {
	p := NewPolygon()
	p.Add(-5, -5).Smooth(1, 4)
	p.Add(5, -5)
	p.Add(5, 5).Chamfer(1)
	p.Add(-5, 5)
	p.Close()
	v := p.Vertices()
	// 5 arc points, 2 chamfer points, 2 sharp corners
	if len(v) != 9 {
		t.Fatalf("got %d vertices, want 9", len(v))
	}
	for _, want := range []r2.Vec{{X: -5, Y: -4}, {X: -4, Y: -5}, {X: 4, Y: 5}, {X: 5, Y: 4}} {
		found := false
		for _, got := range v {
			found = found || d2.EqualWithin(got, want, 1e-9)
		}
		if !found {
			t.Errorf("tangent point %v missing from %v", want, v)
		}
	}
	c := r2.Vec{X: -4, Y: -4}
	for _, got := range v[:5] {
		if d := r2.Norm(r2.Sub(got, c)); math.Abs(d-1) > 1e-9 {
			t.Errorf("arc point %v is %g from the center", got, d)
		}
	}
}
