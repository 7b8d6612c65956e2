package must2

import (
	"math"

	"github.com/signpost3d/signpost/internal/d2"
	"github.com/signpost3d/signpost/sdf"
	"gonum.org/v1/gonum/spatial/r2"
)

// outline is an SDF2 made from one or more closed sets of line segments.
// Insideness follows the nonzero winding rule over all loops, so holes
// are loops wound against their parent.
type outline struct {
	loops  [][]r2.Vec  // closed vertex loops, last vertex repeats the first
	vector [][]r2.Vec  // unit line vectors
	length [][]float64 // line lengths
	bb     r2.Box      // bounding box
}

// Polygon returns an SDF2 made from a closed set of line segments.
func Polygon(vertex []r2.Vec) sdf.SDF2 {
	return Outline([][]r2.Vec{vertex})
}

// Outline returns an SDF2 from a set of closed loops using the
// nonzero winding rule. Loops with fewer than 3 vertices panic.
func Outline(loops [][]r2.Vec) sdf.SDF2 {
	if len(loops) == 0 {
		panic("no loops")
	}
	s := outline{}
	vmin := r2.Vec{X: math.Inf(1), Y: math.Inf(1)}
	vmax := r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, vertex := range loops {
		n := len(vertex)
		if n < 3 {
			panic("number of vertices < 3")
		}
		// Close the loop (if necessary)
		loop := append([]r2.Vec(nil), vertex...)
		if !d2.EqualWithin(vertex[0], vertex[n-1], tolerance) {
			loop = append(loop, vertex[0])
		}
		// allocate pre-calculated line segment info
		nsegs := len(loop) - 1
		vector := make([]r2.Vec, nsegs)
		length := make([]float64, nsegs)
		for i := 0; i < nsegs; i++ {
			l := r2.Sub(loop[i+1], loop[i])
			length[i] = r2.Norm(l)
			if length[i] > 0 {
				vector[i] = r2.Scale(1/length[i], l)
			}
			vmin = d2.MinElem(vmin, loop[i])
			vmax = d2.MaxElem(vmax, loop[i])
		}
		s.loops = append(s.loops, loop)
		s.vector = append(s.vector, vector)
		s.length = append(s.length, length)
	}
	s.bb = r2.Box{Min: vmin, Max: vmax}
	return &s
}

// Evaluate returns the minimum distance for a 2d outline.
func (s *outline) Evaluate(p r2.Vec) float64 {
	dd := math.MaxFloat64 // d^2 to outline (>0)
	wn := 0               // winding number (inside/outside)
	for k, loop := range s.loops {
		vector := s.vector[k]
		length := s.length[k]
		pb := r2.Sub(p, loop[0])
		for i := range vector {
			a := loop[i]
			b := loop[i+1]

			pa := pb
			pb = r2.Sub(p, b)

			t := r2.Dot(pa, vector[i])                                // t-parameter of projection onto line
			dn := r2.Dot(pa, r2.Vec{X: vector[i].Y, Y: -vector[i].X}) // normal distance from p to line

			// Distance to line segment
			if t < 0 {
				dd = math.Min(dd, r2.Norm2(pa)) // distance to vertex[0] of line
			} else if t > length[i] {
				dd = math.Min(dd, r2.Norm2(pb)) // distance to vertex[1] of line
			} else {
				dd = math.Min(dd, dn*dn) // normal distance to line
			}

			// Is the point in the polygon?
			// See: http://geomalgorithms.com/a03-_inclusion.html
			if a.Y <= p.Y {
				if b.Y > p.Y && dn < 0 { // upward crossing, p left of edge
					wn++
				}
			} else if b.Y <= p.Y && dn > 0 { // downward crossing, p right of edge
				wn--
			}
		}
	}
	// normalise d*d to d
	d := math.Sqrt(dd)
	if wn != 0 {
		// p is inside the outline
		return -d
	}
	return d
}

// Bounds returns the bounding box of a 2d outline.
func (s *outline) Bounds() r2.Box {
	return s.bb
}

// SignedArea returns the shoelace area of a closed loop. It is positive
// for counter clockwise loops.
func SignedArea(loop []r2.Vec) float64 {
	a := 0.0
	for i := range loop {
		j := (i + 1) % len(loop)
		a += loop[i].X*loop[j].Y - loop[j].X*loop[i].Y
	}
	return a / 2
}

// Polygon building code.

// PolygonBuilder stores a set of 2d polygon vertices.
type PolygonBuilder struct {
	closed bool            // is the polygon closed or open?
	vlist  []polygonVertex // list of polygon vertices
}

// polygonVertex is a polygon vertex.
type polygonVertex struct {
	smooth bool    // smooth the vertex
	vertex r2.Vec  // vertex coordinates
	facets int     // number of polygon facets to create when smoothing
	radius float64 // radius of smoothing (0 == none)
}

// Smooth marks the polygon vertex for smoothing.
func (v *polygonVertex) Smooth(radius float64, facets int) *polygonVertex {
	if radius != 0 && facets != 0 {
		v.radius = radius
		v.facets = facets
		v.smooth = true
	}
	return v
}

// Chamfer marks the polygon vertex for chamfering.
func (v *polygonVertex) Chamfer(size float64) *polygonVertex {
	// A one facet smoothing. size is the leg length at 90 degree corners.
	if size != 0 {
		v.radius = size
		v.facets = 1
		v.smooth = true
	}
	return v
}

// nextVertex returns the next vertex in the polygon.
func (p *PolygonBuilder) nextVertex(i int) *polygonVertex {
	if i == len(p.vlist)-1 {
		if p.closed {
			return &p.vlist[0]
		}
		return nil
	}
	return &p.vlist[i+1]
}

// prevVertex returns the previous vertex in the polygon.
func (p *PolygonBuilder) prevVertex(i int) *polygonVertex {
	if i == 0 {
		if p.closed {
			return &p.vlist[len(p.vlist)-1]
		}
		return nil
	}
	return &p.vlist[i-1]
}

// Smooth the i-th vertex, return true if we smoothed it.
func (p *PolygonBuilder) smoothVertex(i int) bool {
	// check the vertex
	v := p.vlist[i]
	if !v.smooth {
		// fixed point
		return false
	}
	// get the next and previous points
	vn := p.nextVertex(i)
	vp := p.prevVertex(i)
	if vp == nil || vn == nil {
		// can't smooth the endpoints of an open polygon
		return false
	}
	// work out the angle
	v0 := r2.Unit(r2.Sub(vp.vertex, v.vertex))
	v1 := r2.Unit(r2.Sub(vn.vertex, v.vertex))
	theta := math.Acos(sdf.Clamp(r2.Dot(v0, v1), -1, 1))
	// distance from vertex to circle tangent
	d1 := v.radius / math.Tan(theta/2.0)
	if d1 > r2.Norm(r2.Sub(vp.vertex, v.vertex)) || d1 > r2.Norm(r2.Sub(vn.vertex, v.vertex)) {
		// unable to smooth - radius is too large
		p.vlist[i].smooth = false
		return false
	}
	// tangent points
	p0 := r2.Add(v.vertex, r2.Scale(d1, v0))
	// distance from vertex to circle center
	d2 := v.radius / math.Sin(theta/2.0)
	// center of circle
	vc := r2.Unit(r2.Add(v0, v1))
	c := r2.Add(v.vertex, r2.Scale(d2, vc))
	// rotation angle
	dtheta := sdf.Sign(r2.Cross(v1, v0)) * (math.Pi - theta) / float64(v.facets)
	// radius vector
	rv := r2.Sub(p0, c)
	// work out the new points
	points := make([]polygonVertex, v.facets+1)
	for j := range points {
		points[j] = polygonVertex{vertex: r2.Add(c, rv)}
		rv = rotate(rv, dtheta)
	}
	// replace the old point with the new points
	p.vlist = append(p.vlist[:i], append(points, p.vlist[i+1:]...)...)
	return true
}

// smoothVertices smoothes the vertices of a polygon.
func (p *PolygonBuilder) smoothVertices() {
	done := false
	for !done {
		done = true
		for i := range p.vlist {
			if p.smoothVertex(i) {
				done = false
				break
			}
		}
	}
}

// Public API for polygons

// Close closes the polygon.
func (p *PolygonBuilder) Close() {
	p.closed = true
}

// NewPolygon returns an empty polygon.
func NewPolygon() *PolygonBuilder {
	return &PolygonBuilder{}
}

// AddV2 adds a V2 vertex to a polygon.
func (p *PolygonBuilder) AddV2(x r2.Vec) *polygonVertex {
	p.vlist = append(p.vlist, polygonVertex{vertex: x})
	return &p.vlist[len(p.vlist)-1]
}

// Add an x,y vertex to a polygon.
func (p *PolygonBuilder) Add(x, y float64) *polygonVertex {
	return p.AddV2(r2.Vec{X: x, Y: y})
}

// Vertices returns the vertices of the polygon.
func (p *PolygonBuilder) Vertices() []r2.Vec {
	if p.vlist == nil {
		panic("nil vertex list. was PolygonBuilder initialized?")
	}
	p.smoothVertices()
	v := make([]r2.Vec, len(p.vlist))
	for i, pv := range p.vlist {
		v[i] = pv.vertex
	}
	return v
}

func rotate(v r2.Vec, theta float64) r2.Vec {
	s, c := math.Sincos(theta)
	return r2.Vec{X: c*v.X - s*v.Y, Y: s*v.X + c*v.Y}
}
