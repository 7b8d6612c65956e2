package assemble

import (
	"strings"
	"testing"

	"github.com/signpost3d/signpost"
	"github.com/signpost3d/signpost/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestLayoutSign(t *testing.T) {
	r := newTestRun(t, scenario(), options())
	d := r.d
	dest := plan.Destinations(r.segs)[0]

	home, err := r.layoutSign(r.cfg.Home, "home.name", nil)
	require.NoError(t, err)
	assert.True(t, home.home)
	assert.Zero(t, home.point)
	assert.Equal(t, d.SignHeight(), home.height)
	assert.Equal(t, home.length/2, home.nameX)
	assert.Equal(t, plan.Pattern{Center: true}, home.pattern)
	assert.GreaterOrEqual(t, home.length, d.MinSignLength)

	l, err := r.layoutSign(r.cfg.Destinations[0], "locations[0].name", &dest)
	require.NoError(t, err)
	assert.False(t, l.home)
	assert.False(t, l.left)
	assert.Equal(t, d.SignHeight()/2, l.point)
	assert.Equal(t, [2]string{"214", "MI"}, l.lines)
	assert.Equal(t, d.MaxFontSize, l.nameSize, "a short name keeps the largest font")
	assert.LessOrEqual(t, l.length, d.MaxSignLength)
	assert.Less(t, l.nameX, l.distX)
	assert.Less(t, l.distX, l.length-l.point)
	assert.GreaterOrEqual(t, l.unitSize, d.MinDistanceFontSize)
	assert.Less(t, l.unitSize, l.valueSize)
}

func TestLayoutSignShrinks(t *testing.T) {
	cfg := scenario()
	cfg.Destinations[0].Name = "Saratoga Springs"
	r := newTestRun(t, cfg, options())
	dest := plan.Destinations(r.segs)[0]
	l, err := r.layoutSign(cfg.Destinations[0], "locations[0].name", &dest)
	require.NoError(t, err)
	assert.Less(t, l.nameSize, r.d.MaxFontSize)
	assert.GreaterOrEqual(t, l.nameSize, r.d.MinFontSize)
	assert.LessOrEqual(t, l.length, r.d.MaxSignLength)
}

func TestLayoutSignTooLong(t *testing.T) {
	r := newTestRun(t, scenario(), options())
	loc := r.cfg.Home
	loc.Name = strings.Repeat("M", 30)
	_, err := r.layoutSign(loc, "home.name", nil)
	var ce *signpost.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "home.name", ce.Field)
	assert.Contains(t, err.Error(), "MMMM")
}

func TestLayoutSignPointsLeft(t *testing.T) {
	cfg := scenario()
	// south west of home
	cfg.Destinations[0] = signpost.Location{Name: "Dover", Latitude: 39.1582, Longitude: -75.5244}
	r := newTestRun(t, cfg, options())
	dest := plan.Destinations(r.segs)[0]
	require.True(t, dest.PointsLeft())

	l, err := r.layoutSign(cfg.Destinations[0], "locations[0].name", &dest)
	require.NoError(t, err)
	assert.True(t, l.left)
	// positions mirror about the plate center
	assert.InDelta(t, l.length/2, l.x(0), 1e-9)
	assert.InDelta(t, -l.length/2, l.x(l.length), 1e-9)

	o := l.outline()
	require.Len(t, o, 3+2*(cornerFacets+1))
	var tip float64
	for _, v := range o {
		if v.Y == 0 {
			tip = v.X
		}
	}
	assert.Equal(t, -l.length/2, tip)
}

func TestSignFeatures(t *testing.T) {
	assert.Equal(t, []string{"name", "id-holes:center"}, signFeatures(signLayout{home: true, pattern: plan.Pattern{Center: true}}))
	assert.Equal(t, []string{"name", "distance", "arrow", "id-holes:0101"}, signFeatures(signLayout{pattern: plan.EncodeID(5)}))
}

func TestNameGap(t *testing.T) {
	assert.Equal(t, 16.0, nameGap("Albany"))
	assert.InDelta(t, 12.4, nameGap("Glassboro"), 1e-9)
	assert.Equal(t, 10.0, nameGap(strings.Repeat("x", 40)))
}

func TestSignSolid(t *testing.T) {
	r := newTestRun(t, scenario(), options())
	dest := plan.Destinations(r.segs)[0]
	l, err := r.layoutSign(r.cfg.Destinations[0], "locations[0].name", &dest)
	require.NoError(t, err)
	s := r.sign("sign", l)
	require.NoError(t, s.err)
	assert.Equal(t, []string{"id-holes:0001", "name", "distance", "arrow"}, s.features())

	solid, err := s.compose(r.eng)
	require.NoError(t, err)
	bb := solid.Bounds()
	assert.InDelta(t, l.length, bb.Max.X-bb.Min.X, 1e-6)
	assert.InDelta(t, 0, bb.Min.Z, 1e-9)
	assert.InDelta(t, r.d.SignThickness+r.d.TextHeight, bb.Max.Z, 1e-6)
}

func TestSignIDHoles(t *testing.T) {
	r := newTestRun(t, scenario(), options())
	dest := plan.Destinations(r.segs)[0]
	l, err := r.layoutSign(r.cfg.Destinations[0], "locations[0].name", &dest)
	require.NoError(t, err)
	l.pattern = plan.EncodeID(5)

	s := r.sign("sign", l)
	require.NoError(t, s.err)
	assert.Equal(t, 1, countOf(s.features(), "id-holes:0101"), "one cut for every hole")
	solid, err := s.compose(r.eng)
	require.NoError(t, err)

	offs := r.signOffsets(l.pattern)
	require.Len(t, offs, 2)
	for _, y := range offs {
		assert.Greater(t, solid.Evaluate(r3.Vec{Y: y, Z: 0.5}), 0.0, "hole at y=%g", y)
	}
	// bits 1 and 3 are clear
	for _, bit := range []float64{1, 3} {
		y := (bit - 1.5) * r.d.IDPinSpacing
		assert.Less(t, solid.Evaluate(r3.Vec{Y: y, Z: 0.5}), 0.0, "material at y=%g", y)
	}
}

func countOf(names []string, name string) int {
	n := 0
	for _, s := range names {
		if s == name {
			n++
		}
	}
	return n
}
