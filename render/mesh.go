package render

import (
	"errors"
	"fmt"

	"github.com/signpost3d/signpost/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNotManifold is returned by CheckManifold for meshes with open or
// over-shared edges.
var ErrNotManifold = errors.New("mesh is not manifold")

// Mesh is an indexed triangle mesh. Faces index into Vertices and are
// wound counter clockwise when viewed from outside.
type Mesh struct {
	Vertices []r3.Vec
	Faces    [][3]int
}

// Empty reports whether the mesh has no faces.
func (m Mesh) Empty() bool { return len(m.Faces) == 0 }

// Triangles returns the faces of the mesh as triangles.
func (m Mesh) Triangles() []Triangle3 {
	t := make([]Triangle3, len(m.Faces))
	for i, f := range m.Faces {
		t[i] = Triangle3{V: [3]r3.Vec{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}}
	}
	return t
}

// Bounds returns the bounding box of the vertices referenced by faces.
func (m Mesh) Bounds() r3.Box {
	if m.Empty() {
		return r3.Box{}
	}
	v := m.Vertices[m.Faces[0][0]]
	bb := d3.Box{Min: v, Max: v}
	for _, f := range m.Faces {
		for _, i := range f {
			bb = bb.Include(m.Vertices[i])
		}
	}
	return r3.Box(bb)
}

// Volume returns the signed volume enclosed by the mesh. It is positive
// for closed meshes with outward facing normals.
func (m Mesh) Volume() float64 {
	var v float64
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		v += r3.Dot(a, r3.Cross(b, c))
	}
	return v / 6
}

// CheckManifold returns an error wrapping ErrNotManifold unless every
// directed edge appears exactly once and its reverse also appears.
// Such a mesh is closed and consistently wound.
func (m Mesh) CheckManifold() error {
	if m.Empty() {
		return errors.New("empty mesh")
	}
	edges := make(map[[2]int]int, 3*len(m.Faces))
	for _, f := range m.Faces {
		for j := 0; j < 3; j++ {
			edges[[2]int{f[j], f[(j+1)%3]}]++
		}
	}
	var open, shared int
	for e, n := range edges {
		if n > 1 {
			shared++
		}
		if edges[[2]int{e[1], e[0]}] == 0 {
			open++
		}
	}
	if open > 0 || shared > 0 {
		return fmt.Errorf("%w: %d open and %d over-shared edges", ErrNotManifold, open, shared)
	}
	return nil
}

// Normalize returns a copy of the mesh with index degenerate faces
// removed. Duplicate faces with the same winding are kept once and pairs
// of faces with opposite winding cancel out. No other repair is done.
func (m Mesh) Normalize() Mesh {
	type faceKey [3]int
	canon := func(f [3]int) (faceKey, bool) {
		// rotate the smallest index first, keeping the winding
		for f[0] > f[1] || f[0] > f[2] {
			f = [3]int{f[1], f[2], f[0]}
		}
		if f[1] < f[2] {
			return faceKey(f), true
		}
		return faceKey{f[0], f[2], f[1]}, false
	}
	type tally struct {
		first     int // index of first occurrence
		fwd, back int
	}
	seen := make(map[faceKey]*tally, len(m.Faces))
	var order []faceKey
	for i, f := range m.Faces {
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			continue
		}
		k, fwd := canon(f)
		t, ok := seen[k]
		if !ok {
			t = &tally{first: i}
			seen[k] = t
			order = append(order, k)
		}
		if fwd {
			t.fwd++
		} else {
			t.back++
		}
	}
	out := Mesh{Vertices: m.Vertices, Faces: make([][3]int, 0, len(order))}
	for _, k := range order {
		t := seen[k]
		if t.fwd > 0 && t.back > 0 {
			// opposite faces enclose nothing
			continue
		}
		out.Faces = append(out.Faces, m.Faces[t.first])
	}
	return out
}

// Components returns the number of connected components, where faces
// sharing a vertex are connected.
func (m Mesh) Components() int {
	parent := make([]int, len(m.Vertices))
	for i := range parent {
		parent[i] = i
	}
	find := func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}
	for _, f := range m.Faces {
		union(f[0], f[1])
		union(f[1], f[2])
	}
	roots := make(map[int]struct{})
	for _, f := range m.Faces {
		roots[find(f[0])] = struct{}{}
	}
	return len(roots)
}
