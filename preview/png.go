// Package preview draws pictures of a run: a shaded PNG of each part and
// an SVG map of where the signs point.
package preview

import (
	"fmt"
	"image"
	"strings"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/signpost3d/signpost/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// View places the camera. The mesh is first scaled into the bi-unit cube
// centered on the origin.
type View struct {
	// what position (point) to look at
	LookAt r3.Vec
	// which way is up (direction)
	Up r3.Vec
	// where the camera/eye located at (point)
	Eye       r3.Vec
	Near, Far float64
}

// DefaultView looks down on a part from the south east.
var DefaultView = View{
	Up:   r3.Vec{Z: 1},
	Eye:  r3.Vec{X: 2, Y: -2.5, Z: 2},
	Near: 1,
	Far:  10,
}

// Options size and color the picture.
type Options struct {
	Width, Height int
	// Scale supersamples before downsampling for antialiasing.
	Scale int
	View  View
	// Color is a hex color or one of the sign colors such as "green".
	Color string
}

// DefaultOptions renders a 960x720 picture at 2x supersampling.
func DefaultOptions() Options {
	return Options{Width: 960, Height: 720, Scale: 2, View: DefaultView}
}

var named = map[string]string{
	"":       "#468966",
	"blue":   "#1f4e9c",
	"green":  "#1b6b3a",
	"red":    "#b3262b",
	"brown":  "#6b4423",
	"white":  "#f2f2f2",
	"black":  "#222222",
	"yellow": "#e8c31c",
	"orange": "#e3701c",
	"gold":   "#c9a227",
}

func color(c string) fauxgl.Color {
	c = strings.ToLower(strings.TrimSpace(c))
	if hex, ok := named[c]; ok {
		return fauxgl.HexColor(hex)
	}
	return fauxgl.HexColor(c)
}

// Mesh converts a part mesh for drawing.
func Mesh(m render.Mesh) *fauxgl.Mesh {
	tris := make([]*fauxgl.Triangle, 0, len(m.Faces))
	v := func(p r3.Vec) fauxgl.Vector { return fauxgl.V(p.X, p.Y, p.Z) }
	for _, t := range m.Triangles() {
		tris = append(tris, fauxgl.NewTriangleForPoints(v(t.V[0]), v(t.V[1]), v(t.V[2])))
	}
	return fauxgl.NewTriangleMesh(tris)
}

// Render draws m shaded from the view in opts.
func Render(m render.Mesh, opts Options) (image.Image, error) {
	if m.Empty() {
		return nil, fmt.Errorf("preview: empty mesh")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("preview: bad size %dx%d", opts.Width, opts.Height)
	}
	if opts.Scale < 1 {
		opts.Scale = 1
	}
	const fovy = 30 // vertical field of view in degrees
	var (
		view   = opts.View
		eye    = fauxgl.V(view.Eye.X, view.Eye.Y, view.Eye.Z)
		center = fauxgl.V(view.LookAt.X, view.LookAt.Y, view.LookAt.Z)
		up     = fauxgl.V(view.Up.X, view.Up.Y, view.Up.Z)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
	)

	mesh := Mesh(m)
	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()
	context := fauxgl.NewContext(opts.Width*opts.Scale, opts.Height*opts.Scale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(opts.Width) / float64(opts.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = color(opts.Color)
	context.Shader = shader
	context.DrawMesh(mesh)
	// downsample image for antialiasing
	return resize.Resize(uint(opts.Width), uint(opts.Height), context.Image(), resize.Bilinear), nil
}

// WritePNG renders m into a PNG file at path.
func WritePNG(path string, m render.Mesh, opts Options) error {
	img, err := Render(m, opts)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}
