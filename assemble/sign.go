package assemble

import (
	"fmt"
	"math"

	"github.com/signpost3d/signpost"
	"github.com/signpost3d/signpost/form2"
	"github.com/signpost3d/signpost/geo"
	"github.com/signpost3d/signpost/internal/d3"
	"github.com/signpost3d/signpost/plan"
	"github.com/signpost3d/signpost/primitive"
	"github.com/signpost3d/signpost/sdf"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	attachPad     = 10.0 // square end to name
	attachPadLeft = 14.0 // room for the post when the tip is on the left
	tipPad        = 3.0  // distance block to tip
	fontStep      = 0.5
	cornerRadius  = 2.0
	cornerFacets  = 4
)

// signLayout is where everything goes on a sign plate. X positions are
// ink centers measured from the square end of a right pointing plate.
type signLayout struct {
	loc     signpost.Location
	field   string
	home    bool
	left    bool
	pattern plan.Pattern

	length, height, point float64

	nameSize, nameX float64

	lines              [2]string
	valueSize, unitSize float64
	distX              float64
}

// nameGap is the room left between the name and the distance block; long
// names get less of it.
func nameGap(name string) float64 {
	n := len([]rune(name))
	return math.Max(10, 16-math.Max(0, float64(n-6))*1.2)
}

// layoutSign fits the text of loc on a plate. Fonts shrink in half
// millimetre steps, the name first, until the plate is short enough. A
// sign that still does not fit is a ConfigError on field.
func (r *run) layoutSign(loc signpost.Location, field string, seg *plan.Segment) (signLayout, error) {
	d := r.d
	h := d.SignHeight()
	l := signLayout{loc: loc, field: field, height: h, pattern: plan.Pattern{Center: true}}
	width := func(text string) (float64, error) {
		// ink width scales linearly with the size
		w, err := r.b.TextWidth(text, loc.Font, 1)
		if err != nil {
			return 0, &signpost.ConfigError{Field: field, Err: err}
		}
		return w, nil
	}
	name, err := width(loc.Name)
	if err != nil {
		return l, err
	}
	l.nameSize = math.Min(d.MaxFontSize, 0.8*h)

	attach, gap := attachPad, 0.0
	var value, unit float64
	if seg == nil {
		l.home = true
	} else {
		l.left = seg.PointsLeft()
		l.pattern = seg.Pattern()
		l.point = h / 2
		l.lines = geo.DistanceLines(*seg.Distance, r.cfg.Units)
		if value, err = width(l.lines[0]); err != nil {
			return l, err
		}
		if unit, err = width(l.lines[1]); err != nil {
			return l, err
		}
		l.valueSize = math.Max(d.MinDistanceFontSize, math.Min(math.Min(d.MaxFontSize/2, 0.38*h), 0.65*l.nameSize))
		l.unitSize = math.Max(d.MinDistanceFontSize, 0.85*l.valueSize)
		gap = nameGap(loc.Name)
		if l.left {
			attach = attachPadLeft
		}
	}

	block := func() float64 { return math.Max(value*l.valueSize, unit*l.unitSize) }
	need := func() float64 { return attach + name*l.nameSize + gap + block() + tipPad }
	room := d.MaxSignLength - l.point
	for need() > room && l.nameSize-fontStep >= d.MinFontSize {
		l.nameSize -= fontStep
	}
	for !l.home && need() > room && l.valueSize-fontStep >= d.MinDistanceFontSize {
		l.valueSize -= fontStep
		l.unitSize = math.Max(d.MinDistanceFontSize, 0.85*l.valueSize)
	}
	if need() > room {
		return l, tooLong(field, loc.Name, need()+l.point, d.MaxSignLength)
	}
	l.length = math.Max(d.MinSignLength, need()+l.point)
	if l.home {
		// the home sign is square both ends
		l.nameX = l.length / 2
		return l, nil
	}
	body := l.length - l.point
	l.nameX = attach + name*l.nameSize/2
	l.distX = body - tipPad - block()/2
	return l, nil
}

func tooLong(field, name string, need, max float64) error {
	return &signpost.ConfigError{
		Field: field,
		Err:   fmt.Errorf("%q needs a %.1f mm sign at the smallest fonts, longer than %.0f mm", name, need, max),
	}
}

// x maps a layout position to plate coordinates: centered on the plate
// and mirrored when the tip is on the left.
func (l signLayout) x(v float64) float64 {
	x := v - l.length/2
	if l.left {
		return -x
	}
	return x
}

// outline is the plate seen from the front, counter clockwise.
func (l signLayout) outline() []r2.Vec {
	L, h, p := l.length, l.height, l.point
	pts := []r2.Vec{{X: -L / 2, Y: -h / 2}, {X: L/2 - p, Y: -h / 2}}
	if p > 0 {
		pts = append(pts, r2.Vec{X: L / 2, Y: 0})
	}
	pts = append(pts, r2.Vec{X: L/2 - p, Y: h / 2}, r2.Vec{X: -L / 2, Y: h / 2})
	if l.left {
		// mirrored about x, reversed to keep the winding
		for i, j := 0, len(pts)-1; i <= j; i, j = i+1, j-1 {
			pts[i], pts[j] = r2.Vec{X: -pts[j].X, Y: pts[j].Y}, r2.Vec{X: -pts[i].X, Y: pts[i].Y}
		}
	}
	poly := form2.NewPolygon()
	for _, v := range pts {
		vx := poly.AddV2(v)
		// square corners only, the tip stays sharp
		if math.Abs(v.X) == L/2 && v.Y != 0 {
			vx.Smooth(cornerRadius, cornerFacets)
		}
	}
	poly.Close()
	return poly.Vertices()
}

// sign builds the plate for l. The plate lies face up with its back on
// z=0 and its center over the origin, where the id holes are.
func (r *run) sign(label string, l signLayout) *solid {
	d := r.d
	t := d.SignThickness
	L, h, p := l.length, l.height, l.point

	plate, err := r.b.Prism(l.outline(), t)
	s := newSolid(label, plate, err)

	rad, pl := r.pinSize(l.pattern)
	var holes sdf.SDF3
	hole, err := r.b.Hole(rad, math.Min(pl, t-d.PinClearance))
	if err == nil {
		var pos d3.Set
		for _, off := range r.signOffsets(l.pattern) {
			pos = append(pos, r3.Vec{Y: off})
		}
		holes = sdf.Multi3D(hole, pos)
	}
	s.cut("id-holes:"+l.pattern.String(), holes, flipped(0, 0, 0), err)

	name, err := r.b.TextSolid(l.loc.Name, l.loc.Font, l.nameSize, d.TextHeight, primitive.Emboss)
	s.add("name", name, at(l.x(l.nameX), 0, t), err)
	if l.home {
		return s
	}

	block, err := r.distanceBlock(l)
	s.add("distance", block, at(l.x(l.distX), 0, t), err)

	// the arrow sits inside the pointed end, clear of its edges
	arrow, err := r.b.Arrow(0.7*p, 0.35*p, h/3, h/9, d.TextHeight)
	tip := at(l.x(L-0.95*p), 0, t)
	if l.left {
		tip = tip.Mul(d3.MirrorX())
	}
	s.add("arrow", arrow, tip, err)
	return s
}

// distanceBlock stacks the value over the unit, centered on the origin.
func (r *run) distanceBlock(l signLayout) (sdf.SDF3, error) {
	d := r.d
	value, err := r.b.TextSolid(l.lines[0], l.loc.Font, l.valueSize, d.TextHeight, primitive.Emboss)
	if err != nil {
		return nil, err
	}
	unit, err := r.b.TextSolid(l.lines[1], l.loc.Font, l.unitSize, d.TextHeight, primitive.Emboss)
	if err != nil {
		return nil, err
	}
	gap := 0.2 * l.valueSize
	hv := value.Bounds().Max.Y - value.Bounds().Min.Y
	hu := unit.Bounds().Max.Y - unit.Bounds().Min.Y
	return sdf.Union3D(
		sdf.Translate3D(value, r3.Vec{Y: (gap + hv) / 2}),
		sdf.Translate3D(unit, r3.Vec{Y: -(gap + hu) / 2}),
	), nil
}

// signFeatures lists what the exporter is told about a sign.
func signFeatures(l signLayout) []string {
	f := []string{"name"}
	if !l.home {
		f = append(f, "distance", "arrow")
	}
	return append(f, "id-holes:"+l.pattern.String())
}
