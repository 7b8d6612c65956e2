package primitive

import (
	"fmt"

	"github.com/signpost3d/signpost/form2"
	"github.com/signpost3d/signpost/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mode selects whether text stands proud of its face or is cut into it.
type Mode int

const (
	Emboss Mode = iota
	Deboss
)

func (m Mode) String() string {
	if m == Deboss {
		return "deboss"
	}
	return "emboss"
}

// FontName returns the name of the font text is actually set in when
// font is requested. Unknown fonts resolve to the default bold face.
func FontName(font string) string {
	f, _, err := form2.LookupFont(font)
	if err != nil {
		return form2.DefaultFont
	}
	return f.Name()
}

// TextSolid returns a single line of text at size (the em size in mm)
// extruded depth along z. The ink box is centered on the z axis.
func (b Builder) TextSolid(text, font string, size, depth float64, mode Mode) (sdf.SDF3, error) {
	if !(depth > 0) {
		return nil, fmt.Errorf("text %q: depth %g <= 0", text, depth)
	}
	f, _, err := form2.LookupFont(font)
	if err != nil {
		return nil, fmt.Errorf("font %q: %w", font, err)
	}
	t, err := form2.Text(f, text, size)
	if err != nil {
		return nil, fmt.Errorf("text %q: %w", text, err)
	}
	s := sdf.Extrude3D(t, depth+b.Overlap)
	// Extrude3D is centered on z=0
	z := depth/2 - b.Overlap/2
	if mode == Deboss {
		z = -z
	}
	return sdf.Translate3D(s, r3.Vec{Z: z}), nil
}

// TextWidth returns the ink width of text set at size.
func (b Builder) TextWidth(text, font string, size float64) (float64, error) {
	f, _, err := form2.LookupFont(font)
	if err != nil {
		return 0, fmt.Errorf("font %q: %w", font, err)
	}
	w, err := form2.TextWidth(f, text, size)
	if err != nil {
		return 0, fmt.Errorf("text %q: %w", text, err)
	}
	return w, nil
}
