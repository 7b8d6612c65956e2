package render

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/signpost3d/signpost/form3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSTLWriteReadback(t *testing.T) {
	const tol = 1e-5
	box, _ := form3.Box(r3.Vec{X: 3, Y: 2, Z: 1}, 0.2)
	input := meshOf(t, box, 0.25).Triangles()
	var b bytes.Buffer
	if err := WriteSTL(&b, input); err != nil {
		t.Fatal(err)
	}
	if b.Len() != 84+50*len(input) {
		t.Fatalf("binary STL has %d bytes for %d triangles", b.Len(), len(input))
	}
	data := b.Bytes()
	output, err := readBinarySTL(bytes.NewReader(data))
	if err != nil && !errors.Is(err, errCalculatedNormalMismatch) {
		t.Fatal(err)
	}
	if len(output) != len(input) {
		t.Fatalf("read %d triangles, wrote %d", len(output), len(input))
	}
	for i := range input {
		for j := 0; j < 3; j++ {
			if r3.Norm(r3.Sub(input[i].V[j], output[i].V[j])) > tol {
				t.Fatalf("triangle %d vertex %d: %v != %v", i, j, input[i].V[j], output[i].V[j])
			}
		}
	}
	// an independent parser reads the same triangles
	parsed, err := ReadSTL(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed) != len(input) {
		t.Errorf("ReadSTL got %d triangles, want %d", len(parsed), len(input))
	}
}

func TestASCIISTL(t *testing.T) {
	cyl, _ := form3.Cylinder(2, 1, 0)
	input := meshOf(t, cyl, 0.25).Triangles()
	var b bytes.Buffer
	if err := WriteASCIISTL(&b, "unit cylinder", input); err != nil {
		t.Fatal(err)
	}
	text := b.String()
	if !strings.HasPrefix(text, "solid unit_cylinder\n") || !strings.HasSuffix(text, "endsolid unit_cylinder\n") {
		t.Errorf("bad ASCII STL framing")
	}
	if n := strings.Count(text, "facet normal"); n != len(input) {
		t.Errorf("got %d facets, want %d", n, len(input))
	}
	parsed, err := ReadSTL(bytes.NewReader(b.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed) != len(input) {
		t.Fatalf("ReadSTL got %d triangles, want %d", len(parsed), len(input))
	}
	for i := range input {
		if r3.Norm(r3.Sub(input[i].V[0], parsed[i].V[0])) > 1e-5 {
			t.Fatalf("triangle %d: %v != %v", i, input[i].V[0], parsed[i].V[0])
		}
	}
}

func TestCreateSTL(t *testing.T) {
	cyl, _ := form3.Cylinder(2, 1, 0)
	m := meshOf(t, cyl, 0.25)
	path := filepath.Join(t.TempDir(), "cyl.stl")
	if err := CreateSTL(path, m); err != nil {
		t.Fatal(err)
	}
	fp, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()
	got, err := ReadSTL(fp)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(m.Faces) {
		t.Errorf("got %d triangles, want %d", len(got), len(m.Faces))
	}
	var sum float64
	for _, tri := range got {
		sum += r3.Dot(tri.V[0], r3.Cross(tri.V[1], tri.V[2]))
	}
	if vol := sum / 6; math.Abs(vol-2*math.Pi) > 0.1*2*math.Pi {
		t.Errorf("volume read back %g", vol)
	}
}

func TestWriteSTLEmpty(t *testing.T) {
	var b bytes.Buffer
	if err := WriteSTL(&b, nil); err == nil {
		t.Error("expected error for empty model")
	}
	if err := WriteASCIISTL(&b, "x", nil); err == nil {
		t.Error("expected error for empty model")
	}
}
