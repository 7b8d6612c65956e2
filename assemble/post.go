package assemble

import (
	"fmt"
	"math"

	"github.com/signpost3d/signpost/internal/d3"
	"github.com/signpost3d/signpost/plan"
	"github.com/signpost3d/signpost/primitive"
	"github.com/signpost3d/signpost/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// Author is engraved under every base.
const Author = "Mark W Savoca"

// slot cuts the flat for the sign bearing bearing, centered at height zc,
// and adds the id pins the sign hangs on.
func (r *run) slot(s *solid, name string, bearing, zc float64, p plan.Pattern) {
	d := r.d
	depth := 3 * d.FlatDepth
	flat, err := r.b.Box(2*d.PostRadius, depth, d.FlatHeight)
	on := flatTransform(bearing, zc)
	s.cut(name, flat, on.Mul(at(0, d.FlatOffset()+depth/2, -d.FlatHeight/2)), err)

	rad, l := r.pinSize(p)
	pin, err := r.b.Pin(rad, l)
	// pins are built along +z; a quarter turn about x points them out of
	// the flat
	out := d3.RotationX(-math.Pi / 2)
	for i, off := range r.signOffsets(p) {
		t := on.Mul(at(0, d.FlatOffset(), off)).Mul(out)
		s.add(fmt.Sprintf("%s-pin-%d:%s", name, i, p), pin, t, err)
	}
}

// signOffsets returns the vertical offsets from the flat center of the
// pins marking p. Sign holes use the same offsets along the plate height.
func (r *run) signOffsets(p plan.Pattern) []float64 {
	if p.Center {
		return []float64{0}
	}
	var offs []float64
	for _, bit := range p.Pins() {
		offs = append(offs, (float64(bit)-1.5)*r.d.IDPinSpacing)
	}
	return offs
}

// base starts a part with the plinth and its decorations. post is the
// column standing on the plinth.
func (r *run) base(label string, post float64) *solid {
	d := r.d
	plinth, err := r.b.ChamferedCylinder(d.BaseRadius, d.BaseHeight, d.BaseChamfer)
	if err != nil {
		return newSolid(label, nil, err)
	}
	col, err := r.b.Cylinder(d.PostRadius, post+d.Overlap)
	if err != nil {
		return newSolid(label, nil, err)
	}
	col = sdf.Translate3D(col, r3.Vec{Z: d.BaseHeight - d.Overlap})
	s := newSolid(label, sdf.Union3D(plinth, col), nil)

	eng, err := r.engraving()
	// the half turn about y leaves it reading correctly from below
	s.cut("engraving", eng, flipped(0, 0, 0), err)
	r.compass(s)
	if r.opts.Coords {
		r.coords(s)
	}
	return s
}

// engraving is the two line maker's mark, built to be cut into a top face.
func (r *run) engraving() (sdf.SDF3, error) {
	d := r.d
	font := r.cfg.Home.Font
	size := d.EngravingFontSize
	lines := []string{Author, fmt.Sprintf("© %d", r.opts.Year())}
	step := 1.3 * size / 2
	var parts []sdf.SDF3
	for i, line := range lines {
		t, err := r.b.TextSolid(line, font, size, d.EngravingDepth, primitive.Deboss)
		if err != nil {
			return nil, err
		}
		y := step
		if i == 1 {
			y = -step
		}
		parts = append(parts, sdf.Translate3D(t, r3.Vec{Y: y}))
	}
	return sdf.Union3D(parts...), nil
}

// compass adds the raised letters, ring and degree ticks on the plinth.
func (r *run) compass(s *solid) {
	d := r.d
	R := d.BaseRadius
	z := d.BaseHeight
	font := r.cfg.Home.Font

	north := math.Min(15*0.9, 0.3*R)
	for _, l := range []struct {
		text    string
		bearing float64
		size    float64
	}{
		{"N", 0, north},
		{"E", 90, 0.85 * north},
		{"S", 180, 0.85 * north},
		{"W", 270, 0.85 * north},
	} {
		t, err := r.b.TextSolid(l.text, font, l.size, d.TextHeight, primitive.Emboss)
		p := sdf.CompassDir(l.bearing)
		s.add("letter-"+l.text, t, at(0.7*R*p.X, 0.7*R*p.Y, z), err)
	}

	ring, err := r.b.Ring(0.85*R, 0.9*R, 0.6)
	s.add("ring", ring, at(0, 0, z), err)

	ticks, err := r.ticks(0.92*R, 0.6)
	s.add("ticks", ticks, at(0, 0, z), err)
}

// ticks are the degree marks every 10°, longer at the cardinal and
// intercardinal points, reaching out to radius outer.
func (r *run) ticks(outer, h float64) (sdf.SDF3, error) {
	var marks []sdf.SDF3
	for deg := 0; deg < 360; deg += 10 {
		l := 2.0
		switch {
		case deg%90 == 0:
			l = 4
		case deg%45 == 0:
			l = 3
		}
		tick, err := r.b.Box(0.8, l, h+r.d.Overlap)
		if err != nil {
			return nil, err
		}
		t := sdf.CompassRotation(float64(deg)).Mul(at(0, outer-l/2, -r.d.Overlap))
		marks = append(marks, sdf.Transform3D(tick, t))
	}
	return sdf.Union3D(marks...), nil
}

// coords adds the home latitude and longitude south of the post.
func (r *run) coords(s *solid) {
	d := r.d
	font := r.cfg.Home.Font
	y := d.PostRadius + 7
	for i, v := range []float64{r.cfg.Home.Latitude, r.cfg.Home.Longitude} {
		t, err := r.b.TextSolid(fmt.Sprintf("%.4f", v), font, d.BaseFontSize, d.BaseTextHeight, primitive.Emboss)
		s.add(fmt.Sprintf("coords-%d", i), t, at(0, -(y+float64(i)*1.35*d.BaseFontSize), d.BaseHeight), err)
	}
}

// baseSegment is the four-part base: the plinth and a stub carrying the
// home flat, topped by the keyed peg.
func (r *run) baseSegment(label string) *solid {
	d := r.d
	s := r.base(label, d.SegmentHeight)
	r.slot(s, "flat", plan.HomeBearing, d.BaseHeight+d.SegmentHeight/2, plan.Pattern{Center: true})
	r.top(s, face{peg: true}, d.BaseHeight+d.SegmentHeight, d.SegmentHeight/2)
	return s
}

// segment is a destination segment, or a spacer when segs[i] has no
// destination.
func (r *run) segment(label string, i int) *solid {
	d := r.d
	h := d.SegmentHeight
	body, err := r.b.Cylinder(d.PostRadius, h)
	s := newSolid(label, body, err)
	r.bottom(s, topFace(r.segs, i-1), h/2)
	if seg := r.segs[i]; seg.Kind == plan.Destination {
		r.slot(s, "flat", seg.FlatBearing(), h/2, seg.Pattern())
	}
	r.top(s, topFace(r.segs, i), h, h/2)
	return s
}

// topper is the chamfered cap closing the stack.
func (r *run) topper(label string, i int) *solid {
	d := r.d
	body, err := r.b.ChamferedCylinder(d.PostRadius, d.TopperHeight, d.TopperChamfer)
	s := newSolid(label, body, err)
	r.bottom(s, topFace(r.segs, i-1), d.TopperHeight)
	return s
}
