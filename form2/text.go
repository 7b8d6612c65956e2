package form2

import (
	"errors"
	"fmt"
	"strings"

	"github.com/signpost3d/signpost/form2/must2"
	"github.com/signpost3d/signpost/internal/d2"
	"github.com/signpost3d/signpost/sdf"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/spatial/r2"
)

// Number of line segments used to flatten curved glyph segments.
const (
	quadSteps  = 6
	cubicSteps = 10
)

// ErrBlankText is returned when asked to render text with no visible glyphs.
var ErrBlankText = errors.New("blank text")

// Text returns the SDF2 of a single line of text. size is the em size in
// the output units. The result is centered on the ink bounding box.
func Text(f *Font, text string, size float64) (sdf.SDF2, error) {
	if size <= 0 {
		return nil, fmt.Errorf("text size %g <= 0", size)
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrBlankText
	}
	glyphs, err := layout(f, text, size)
	if err != nil {
		return nil, err
	}
	if len(glyphs) == 0 {
		return nil, ErrBlankText
	}
	s := sdf.Union2D(glyphs...)
	c := d2.Box(s.Bounds()).Center()
	return sdf.Translate2D(s, r2.Scale(-1, c)), nil
}

// TextWidth returns the ink width of text at size.
func TextWidth(f *Font, text string, size float64) (float64, error) {
	s, err := Text(f, text, size)
	if err != nil {
		return 0, err
	}
	return d2.Box(s.Bounds()).Size().X, nil
}

// layout places the glyph outlines of text along the baseline starting at
// the origin.
func layout(f *Font, text string, size float64) ([]sdf.SDF2, error) {
	var buf sfnt.Buffer
	upem := f.f.UnitsPerEm()
	ppem := fixed.I(int(upem))
	k := size / float64(upem) // font units to output units

	var (
		glyphs []sdf.SDF2
		pen    float64
		prev   sfnt.GlyphIndex
	)
	for i, r := range text {
		idx, err := f.f.GlyphIndex(&buf, r)
		if err != nil {
			return nil, err
		}
		if idx == 0 {
			return nil, fmt.Errorf("font %s has no glyph for %q", f.name, r)
		}
		if i > 0 {
			kern, err := f.f.Kern(&buf, prev, idx, ppem, font.HintingNone)
			if err == nil {
				pen += k * fix(kern)
			} else if !errors.Is(err, sfnt.ErrNotFound) {
				return nil, err
			}
		}
		segs, err := f.f.LoadGlyph(&buf, idx, ppem, nil)
		if err != nil {
			return nil, err
		}
		loops := flatten(segs, k, pen)
		if len(loops) > 0 {
			g, err := Outline(loops)
			if err != nil {
				return nil, fmt.Errorf("glyph %q: %w", r, err)
			}
			glyphs = append(glyphs, g)
		}
		adv, err := f.f.GlyphAdvance(&buf, idx, ppem, font.HintingNone)
		if err != nil {
			return nil, err
		}
		pen += k * fix(adv)
		prev = idx
	}
	return glyphs, nil
}

// flatten converts glyph segments into closed polylines scaled by k and
// shifted right by dx. Glyph space has y pointing down so y is negated.
// Degenerate loops are dropped.
func flatten(segs sfnt.Segments, k, dx float64) [][]r2.Vec {
	var (
		loops [][]r2.Vec
		cur   []r2.Vec
	)
	pt := func(p fixed.Point26_6) r2.Vec {
		return r2.Vec{X: k*fix(p.X) + dx, Y: -k * fix(p.Y)}
	}
	closeLoop := func() {
		if len(cur) > 1 && d2.EqualWithin(cur[0], cur[len(cur)-1], 1e-9) {
			cur = cur[:len(cur)-1]
		}
		if len(cur) >= 3 && must2.SignedArea(cur) != 0 {
			loops = append(loops, cur)
		}
		cur = nil
	}
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			closeLoop()
			cur = append(cur, pt(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			cur = append(cur, pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			p0 := cur[len(cur)-1]
			p1, p2 := pt(seg.Args[0]), pt(seg.Args[1])
			for i := 1; i <= quadSteps; i++ {
				t := float64(i) / quadSteps
				u := 1 - t
				cur = append(cur, r2.Add(r2.Add(r2.Scale(u*u, p0), r2.Scale(2*u*t, p1)), r2.Scale(t*t, p2)))
			}
		case sfnt.SegmentOpCubeTo:
			p0 := cur[len(cur)-1]
			p1, p2, p3 := pt(seg.Args[0]), pt(seg.Args[1]), pt(seg.Args[2])
			for i := 1; i <= cubicSteps; i++ {
				t := float64(i) / cubicSteps
				u := 1 - t
				a := r2.Add(r2.Scale(u*u*u, p0), r2.Scale(3*u*u*t, p1))
				b := r2.Add(r2.Scale(3*u*t*t, p2), r2.Scale(t*t*t, p3))
				cur = append(cur, r2.Add(a, b))
			}
		}
	}
	closeLoop()
	return loops
}

func fix(x fixed.Int26_6) float64 { return float64(x) / 64 }
