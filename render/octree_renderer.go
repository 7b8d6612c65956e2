package render

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/signpost3d/signpost/internal/d3"
	"github.com/signpost3d/signpost/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// octree meshes an SDF3 with marching tetrahedra over octree sampled cubes.
type octree struct {
	dc   dc3
	root cube
}

type cube struct {
	sdf.V3i      // origin of cube as integers
	n       uint // level of cube, size = 1 << n
}

// NewOctreeMesher returns a marching tetrahedra Mesher using octree cube
// sampling. Leaf cubes have side cell and the sampled region is the SDF3
// bounding box padded by two cells on every side.
//
// Octree cubes are discarded when the distance at their center exceeds
// their half diagonal. This needs s to be 1-Lipschitz, which holds for
// every shape composed with the sdf package.
func NewOctreeMesher(s sdf.SDF3, cell float64) (*octree, error) {
	if s == nil {
		return nil, errors.New("nil SDF3")
	}
	if !(cell > 0) || math.IsInf(cell, 1) {
		return nil, fmt.Errorf("bad cell size %g", cell)
	}
	bb := d3.Box(s.Bounds())
	if bb.Empty() {
		return nil, fmt.Errorf("empty bounds %v", bb)
	}
	pad := d3.Elem(2 * cell)
	bb = d3.Box{Min: r3.Sub(bb.Min, pad), Max: r3.Add(bb.Max, pad)}
	// Octree cubes are indexed on a half cell grid so that leaf cube
	// centers fall on grid points and share the distance cache.
	resolution := cell / 2
	longAxis := d3.Max(bb.Size())
	levels := uint(math.Ceil(math.Log2(longAxis/resolution))) + 1
	if levels < 2 {
		levels = 2
	}
	return &octree{
		dc:   *newDc3(s, bb.Min, resolution, levels),
		root: cube{sdf.V3i{0, 0, 0}, levels - 1},
	}, nil
}

// Mesh extracts the surface. Cubes are visited breadth first in a fixed
// order so the output is deterministic for a given SDF3 and cell size.
func (oc *octree) Mesh(ctx context.Context) (Mesh, error) {
	var (
		m     Mesh
		verts = make(map[edgeKey]int)
		todo  = []cube{oc.root}
	)
	for i := 0; i < len(todo); i++ {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return Mesh{}, err
			}
		}
		c := todo[i]
		if c.n == 1 {
			// this cube is at the required resolution
			oc.marchCube(&m, verts, c)
			continue
		}
		// process the sub cubes
		n := c.n - 1
		s := 1 << n
		subCubes := [8]cube{
			{c.Add(sdf.V3i{0, 0, 0}), n},
			{c.Add(sdf.V3i{s, 0, 0}), n},
			{c.Add(sdf.V3i{s, s, 0}), n},
			{c.Add(sdf.V3i{0, s, 0}), n},
			{c.Add(sdf.V3i{0, 0, s}), n},
			{c.Add(sdf.V3i{s, 0, s}), n},
			{c.Add(sdf.V3i{s, s, s}), n},
			{c.Add(sdf.V3i{0, s, s}), n},
		}
		// Eliminate empty cubes.
		for _, candidate := range subCubes {
			if !oc.dc.IsEmpty(&candidate) {
				todo = append(todo, candidate)
			}
		}
	}
	return m, nil
}

// edgeKey identifies a grid edge by its lower end and its direction as a
// bit mask of unit axis steps.
type edgeKey struct {
	lo  sdf.V3i
	dir uint8
}

// kuhn lists the axis orders of the six tetrahedra sharing the main
// diagonal of a cube. The split is the same in every cube so faces of
// neighbouring cubes are triangulated identically.
var kuhn = [6][3]uint8{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}

// marchCube emits the triangles of a leaf cube.
func (oc *octree) marchCube(m *Mesh, verts map[edgeKey]int, c cube) {
	var (
		p      [8]r3.Vec
		d      [8]float64
		inside int
	)
	for mask := 0; mask < 8; mask++ {
		p[mask], d[mask] = oc.dc.Evaluate(c.Add(cornerOffset(uint8(mask))))
		if d[mask] < 0 {
			inside++
		}
	}
	if inside == 0 || inside == 8 {
		return
	}
	for _, order := range kuhn {
		var masks [4]uint8
		masks[1] = 1 << order[0]
		masks[2] = masks[1] | 1<<order[1]
		masks[3] = 7
		oc.marchTet(m, verts, c.V3i, masks, &p, &d)
	}
}

// marchTet emits the triangles of one tetrahedron given by corner masks.
func (oc *octree) marchTet(m *Mesh, verts map[edgeKey]int, base sdf.V3i, masks [4]uint8, p *[8]r3.Vec, d *[8]float64) {
	var buf [8]uint8
	in, out := buf[:0:4], buf[4:4:8]
	for _, mk := range masks {
		if d[mk] < 0 {
			in = append(in, mk)
		} else {
			out = append(out, mk)
		}
	}
	edge := func(a, b uint8) int { return oc.edgeVertex(m, verts, base, a, b, p, d) }
	switch len(in) {
	case 1:
		i := in[0]
		m.addOriented(edge(i, out[0]), edge(i, out[1]), edge(i, out[2]), p[out[0]], p[i])
	case 3:
		o := out[0]
		m.addOriented(edge(in[0], o), edge(in[1], o), edge(in[2], o), p[o], p[in[0]])
	case 2:
		a, b := in[0], in[1]
		c, dd := out[0], out[1]
		ac, ad, bd, bc := edge(a, c), edge(a, dd), edge(b, dd), edge(b, c)
		m.addOriented(ac, ad, bd, p[c], p[a])
		m.addOriented(ac, bd, bc, p[c], p[a])
	}
}

// edgeVertex returns the mesh vertex on the edge between cube corners a
// and b, creating it on first use.
func (oc *octree) edgeVertex(m *Mesh, verts map[edgeKey]int, base sdf.V3i, a, b uint8, p *[8]r3.Vec, d *[8]float64) int {
	// corners of a Kuhn tetrahedron are nested masks
	if a > b {
		a, b = b, a
	}
	key := edgeKey{lo: base.Add(cornerOffset(a)), dir: a ^ b}
	if idx, ok := verts[key]; ok {
		return idx
	}
	const eps = 1e-3
	t := sdf.Clamp(d[a]/(d[a]-d[b]), eps, 1-eps)
	v := r3.Add(p[a], r3.Scale(t, r3.Sub(p[b], p[a])))
	idx := len(m.Vertices)
	m.Vertices = append(m.Vertices, v)
	verts[key] = idx
	return idx
}

// addOriented appends face (i, j, k) wound so its normal points from the
// inside point towards the outside point.
func (m *Mesh) addOriented(i, j, k int, outside, inside r3.Vec) {
	a, b, c := m.Vertices[i], m.Vertices[j], m.Vertices[k]
	n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	if r3.Dot(n, r3.Sub(outside, inside)) < 0 {
		j, k = k, j
	}
	m.Faces = append(m.Faces, [3]int{i, j, k})
}

// cornerOffset returns the half cell grid offset of a leaf cube corner.
func cornerOffset(mask uint8) sdf.V3i {
	return sdf.V3i{2 * int(mask&1), 2 * int(mask>>1&1), 2 * int(mask>>2&1)}
}

// dc3 implements a 3 dimensional distance cache. evaluates the SDF3 via a distance cache to avoid repeated evaluations.
// Neighbouring cubes share corners so most lookups hit.
type dc3 struct {
	cache      map[sdf.V3i]float64 // cache of distances
	origin     r3.Vec              // origin of the overall bounding cube
	resolution float64             // size of smallest octree cube
	hdiag      []float64           // lookup table of cube half diagonals
	s          sdf.SDF3            // the SDF3 to be rendered
}

// Evaluate returns the position of grid point vi and the distance there.
func (dc *dc3) Evaluate(vi sdf.V3i) (r3.Vec, float64) {
	v := r3.Add(dc.origin, r3.Scale(dc.resolution, vi.ToV3()))
	// do we have it in the cache?
	if dist, found := dc.cache[vi]; found {
		return v, dist
	}
	// evaluate the SDF3
	dist := dc.s.Evaluate(v)
	dc.cache[vi] = dist
	return v, dist
}

// IsEmpty returns true if the cube contains no SDF surface
func (dc *dc3) IsEmpty(c *cube) bool {
	// evaluate the SDF3 at the center of the cube
	s := 1 << (c.n - 1) // half side
	_, d := dc.Evaluate(c.AddScalar(s))
	// compare to the center/corner distance
	return math.Abs(d) > dc.hdiag[c.n]
}

func newDc3(s sdf.SDF3, origin r3.Vec, resolution float64, n uint) *dc3 {
	if n >= 64 {
		panic("size of n must be less than size of word for hdiag generation")
	}
	dc := dc3{
		origin:     origin,
		resolution: resolution,
		hdiag:      make([]float64, n),
		s:          s,
		cache:      make(map[sdf.V3i]float64),
	}
	// build a lut for cube half diagonal lengths
	for i := range dc.hdiag {
		si := 1 << uint(i)
		s := float64(si) * dc.resolution
		dc.hdiag[i] = 0.5 * math.Sqrt(3.0*s*s)
	}
	return &dc
}
