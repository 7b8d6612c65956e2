package assemble

import (
	"fmt"
	"math"

	"github.com/signpost3d/signpost/internal/d3"
	"github.com/signpost3d/signpost/plan"
	"github.com/signpost3d/signpost/sdf"
	"gonum.org/v1/gonum/spatial/r2"
)

// Stacking faces carry the id pins on a ring around the central magnet.
// The bit positions are spaced unevenly so that no pattern, the full one
// included, maps onto itself under a rotation: every pattern keys the
// turn of the segment above as well as its order.
var ringBearings = [4]float64{20, 110, 215, 300}

// indexBearing is where the single pin of an id past plan.MaxPatternID
// sits on the ring; the face center holds the magnet.
const indexBearing = 160.0

// face is what the top of a stacked part presents to the part above.
type face struct {
	peg     bool
	pattern plan.Pattern
}

func (f face) String() string {
	if f.peg {
		return "peg"
	}
	return f.pattern.String()
}

// topFace returns the face on top of segs[i]. Spacers repeat the face of
// the part they stand on.
func topFace(segs []plan.Segment, i int) face {
	for ; i > 0 && segs[i].Kind == plan.Spacer; i-- {
	}
	if segs[i].Kind == plan.Base {
		return face{peg: true}
	}
	return face{pattern: segs[i].Pattern()}
}

func (r *run) ringRadius() float64 { return 0.65 * r.d.PostRadius }

// ringPositions returns the positions of the pins of p on a stacking face.
func (r *run) ringPositions(p plan.Pattern) []r2.Vec {
	dir := func(b float64) r2.Vec {
		v := sdf.CompassDir(b)
		return r2.Scale(r.ringRadius(), r2.Vec{X: v.X, Y: v.Y})
	}
	if p.Center {
		return []r2.Vec{dir(indexBearing)}
	}
	var pos []r2.Vec
	for _, bit := range p.Pins() {
		pos = append(pos, dir(ringBearings[bit]))
	}
	return pos
}

// pinSize returns the radius and length of the pins marking p.
func (r *run) pinSize(p plan.Pattern) (radius, length float64) {
	if p.Center {
		return r.d.IndexPinRadius, r.d.IndexPinLength
	}
	return r.d.IDPinRadius, r.d.IDPinLength
}

// top adds the mating features of f to the top face of s at height z.
// hostDepth is the material below the face.
func (r *run) top(s *solid, f face, z, hostDepth float64) {
	if f.peg {
		s.sub("peg", r.peg(s.label+"/peg"), r.eng, at(0, 0, z))
		return
	}
	mag, err := r.b.MagnetPocket(hostDepth)
	s.cut("magnet-top", mag, at(0, 0, z), err)
	rad, l := r.pinSize(f.pattern)
	pin, err := r.b.Pin(rad, l)
	for i, p := range r.ringPositions(f.pattern) {
		s.add(fmt.Sprintf("stack-pin-%d:%s", i, f), pin, at(p.X, p.Y, z), err)
	}
}

// bottom cuts the complement of f into the bottom face of s at z=0.
// hostDepth is the material above the face.
func (r *run) bottom(s *solid, f face, hostDepth float64) {
	if f.peg {
		sock, err := r.b.Socket()
		s.cut("socket", sock, flipped(0, 0, 0), err)
		ceiling := r.d.PegHeight + r.d.PegClearance
		mag, err := r.b.MagnetPocket(hostDepth - ceiling)
		s.cut("magnet-bottom", mag, flipped(0, 0, ceiling), err)
		return
	}
	mag, err := r.b.MagnetPocket(hostDepth)
	s.cut("magnet-bottom", mag, flipped(0, 0, 0), err)
	rad, l := r.pinSize(f.pattern)
	hole, err := r.b.Hole(rad, l)
	for i, p := range r.ringPositions(f.pattern) {
		s.cut(fmt.Sprintf("stack-hole-%d:%s", i, f), hole, flipped(p.X, p.Y, 0), err)
	}
}

// peg is the keyed peg with its magnet pocket, composed on its own.
func (r *run) peg(label string) *solid {
	body, err := r.b.Peg()
	p := newSolid(label, body, err)
	mag, err := r.b.MagnetPocket(r.d.PegHeight)
	p.cut("magnet", mag, at(0, 0, r.d.PegHeight), err)
	return p
}

// flatTransform places a feature built in the frame of a flat facing
// north, centered at height zc, onto the flat whose sign bears bearing.
// A flat faces a quarter turn clockwise of its sign.
func flatTransform(bearing, zc float64) d3.Transform {
	return sdf.CompassRotation(math.Mod(bearing+90, 360)).Mul(at(0, 0, zc))
}
