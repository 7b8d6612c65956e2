package primitive

import (
	"errors"
	"fmt"
	"math"

	"github.com/signpost3d/signpost/form2"
	"github.com/signpost3d/signpost/form3"
	"github.com/signpost3d/signpost/helpers/matter"
	"github.com/signpost3d/signpost/sdf"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Builder makes primitives from a set of dimensions.
type Builder struct {
	Dims
	// Material, when set, widens holes to compensate for shrinkage.
	Material *matter.ViscousMaterial
}

// New returns a Builder for d.
func New(d Dims, m *matter.ViscousMaterial) Builder {
	return Builder{Dims: d, Material: m}
}

// up returns s, centered on the z axis, moved so its bottom sits at z0.
func up(s sdf.SDF3, z0 float64) sdf.SDF3 {
	bb := s.Bounds()
	return sdf.Translate3D(s, r3.Vec{Z: z0 - bb.Min.Z})
}

// Cylinder is a z axis cylinder standing on z=0.
func (b Builder) Cylinder(r, h float64) (sdf.SDF3, error) {
	c, err := form3.Cylinder(h, r, 0)
	if err != nil {
		return nil, fmt.Errorf("cylinder r=%g h=%g: %w", r, h, err)
	}
	return up(c, 0), nil
}

// Box is a w×d×h block standing on z=0, w along x and d along y.
func (b Builder) Box(w, d, h float64) (sdf.SDF3, error) {
	s, err := form3.Box(r3.Vec{X: w, Y: d, Z: h}, 0)
	if err != nil {
		return nil, fmt.Errorf("box %gx%gx%g: %w", w, d, h, err)
	}
	return up(s, 0), nil
}

// ChamferedCylinder is a cylinder standing on z=0 with a 45° chamfer
// around its top edge.
func (b Builder) ChamferedCylinder(r, h, chamfer float64) (sdf.SDF3, error) {
	s, err := form3.ChamferedCylinder(h, r, 0, chamfer)
	if err != nil {
		return nil, fmt.Errorf("chamfered cylinder r=%g h=%g: %w", r, h, err)
	}
	return up(s, 0), nil
}

// Prism extrudes the closed polygon vertices to height h above z=0.
func (b Builder) Prism(vertices []r2.Vec, h float64) (sdf.SDF3, error) {
	p, err := form2.Polygon(vertices)
	if err != nil {
		return nil, fmt.Errorf("prism outline: %w", err)
	}
	if h <= 0 {
		return nil, fmt.Errorf("prism height %g <= 0", h)
	}
	return up(sdf.Extrude3D(p, h), 0), nil
}

// Pin is a cylinder of radius r protruding l from its face.
func (b Builder) Pin(r, l float64) (sdf.SDF3, error) {
	c, err := form3.Cylinder(l+b.Overlap, r, 0)
	if err != nil {
		return nil, fmt.Errorf("pin r=%g l=%g: %w", r, l, err)
	}
	return up(c, -b.Overlap), nil
}

// Hole is the cavity that receives a Pin(r, depth). Radius and depth grow
// by the pin clearance; the diameter is further compensated for material
// shrinkage when a material is set.
func (b Builder) Hole(r, depth float64) (sdf.SDF3, error) {
	r += b.PinClearance
	if b.Material != nil && r > 0 {
		r = b.Material.InternalDimScale(2*r) / 2
	}
	return b.cavity(r, depth+b.PinClearance)
}

// cavity is a plain cylindrical cavity of radius r reaching depth below
// its face.
func (b Builder) cavity(r, depth float64) (sdf.SDF3, error) {
	c, err := form3.Cylinder(depth+b.Overlap, r, 0)
	if err != nil {
		return nil, fmt.Errorf("cavity r=%g depth=%g: %w", r, depth, err)
	}
	return up(c, -depth), nil
}

// ErrNoHost is returned for a cavity whose host has no material to cut.
var ErrNoHost = errors.New("cavity host has no depth")

// MagnetPocket is the cavity for one disc magnet. Its depth is clipped to
// hostDepth, the material available below the face.
func (b Builder) MagnetPocket(hostDepth float64) (sdf.SDF3, error) {
	if !(hostDepth > 0) {
		return nil, fmt.Errorf("magnet pocket: %w", ErrNoHost)
	}
	depth := math.Min(b.MagnetThickness+b.MagnetClearance, hostDepth)
	return b.cavity(b.MagnetDiameter/2+b.MagnetClearance, depth)
}

// Peg is the keyed alignment peg on top of the base stub. The key sits on
// the -Y side so the part above mates in one rotation only.
func (b Builder) Peg() (sdf.SDF3, error) {
	body, err := b.Pin(b.PegRadius, b.PegHeight)
	if err != nil {
		return nil, fmt.Errorf("peg: %w", err)
	}
	key, err := form3.Box(r3.Vec{X: b.PegKeyWidth, Y: 2 * b.PegKeyDepth, Z: b.PegHeight + b.Overlap}, 0)
	if err != nil {
		return nil, fmt.Errorf("peg key: %w", err)
	}
	key = up(key, -b.Overlap)
	key = sdf.Translate3D(key, r3.Vec{Y: -(b.PegRadius + b.PegKeyDepth - b.Overlap)})
	return sdf.Union3D(body, key), nil
}

// Socket is the cavity that receives the Peg, key slot included. Its
// mouth is chamfered by PegLeadIn.
func (b Builder) Socket() (sdf.SDF3, error) {
	depth := b.PegHeight + b.PegClearance
	r := b.PegRadius + b.PegClearance
	body, err := b.cavity(r, depth)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}
	if b.PegLeadIn > 0 {
		c := b.PegLeadIn + b.Overlap
		lead, err := form3.Cone(c, r, r+c)
		if err != nil {
			return nil, fmt.Errorf("socket lead-in: %w", err)
		}
		body = sdf.Union3D(body, up(lead, -b.PegLeadIn))
	}
	slot, err := form3.Box(r3.Vec{
		X: b.PegKeyWidth + b.PegClearance,
		Y: 2 * (b.PegKeyDepth + b.PegClearance),
		Z: depth + b.Overlap,
	}, 0)
	if err != nil {
		return nil, fmt.Errorf("socket key slot: %w", err)
	}
	slot = up(slot, -depth)
	slot = sdf.Translate3D(slot, r3.Vec{Y: -(b.PegRadius + b.PegKeyDepth)})
	return sdf.Union3D(body, slot), nil
}

// Arrow is a raised arrow of the given length pointing along +X from the
// origin, centered on the x axis.
func (b Builder) Arrow(length, headLength, headWidth, shaftWidth, height float64) (sdf.SDF3, error) {
	if headLength >= length || shaftWidth >= headWidth {
		return nil, fmt.Errorf("arrow: head %gx%g does not fit length %g shaft %g", headLength, headWidth, length, shaftWidth)
	}
	neck := length - headLength
	p := form2.NewPolygon()
	p.Add(0, -shaftWidth/2)
	p.Add(neck, -shaftWidth/2)
	p.Add(neck, -headWidth/2)
	p.Add(length, 0)
	p.Add(neck, headWidth/2)
	p.Add(neck, shaftWidth/2)
	p.Add(0, shaftWidth/2)
	p.Close()
	s, err := b.Prism(p.Vertices(), height+b.Overlap)
	if err != nil {
		return nil, fmt.Errorf("arrow: %w", err)
	}
	return sdf.Translate3D(s, r3.Vec{Z: -b.Overlap}), nil
}

// Ring is a raised annulus between radii inner and outer, h high.
func (b Builder) Ring(inner, outer, h float64) (sdf.SDF3, error) {
	if !(inner > 0 && inner < outer) {
		return nil, fmt.Errorf("ring radii %g..%g", inner, outer)
	}
	o, err := form2.Circle(outer)
	if err != nil {
		return nil, fmt.Errorf("ring: %w", err)
	}
	i, err := form2.Circle(inner)
	if err != nil {
		return nil, fmt.Errorf("ring: %w", err)
	}
	return up(sdf.Extrude3D(sdf.Difference2D(o, i), h+b.Overlap), -b.Overlap), nil
}
