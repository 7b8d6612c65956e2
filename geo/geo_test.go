package geo

import (
	"math"
	"math/rand"
	"testing"

	"github.com/signpost3d/signpost"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	glassboro = Point{Lat: 39.7306, Lon: -75.1681}
	albany    = Point{Lat: 42.6977, Lon: -73.9664}
)

func TestScenario(t *testing.T) {
	km, err := Distance(glassboro, albany, Kilometre)
	require.NoError(t, err)
	assert.InDelta(t, 344.888, km, 0.01)

	mi, err := Distance(glassboro, albany, Mile)
	require.NoError(t, err)
	assert.InDelta(t, 214.303, mi, 0.01)

	b, err := Bearing(glassboro, albany)
	require.NoError(t, err)
	assert.InDelta(t, 16.55, b, 0.01)

	back, err := Bearing(albany, glassboro)
	require.NoError(t, err)
	assert.InDelta(t, 197.34, back, 0.01)

	assert.Equal(t, "214 mi", FormatDistance(km, signpost.Miles))
	assert.Equal(t, "345 km", FormatDistance(km, signpost.Kilometres))
	assert.Equal(t, "345 km (214 mi)", FormatDistance(km, signpost.Both))
	assert.Equal(t, [2]string{"214", "MI"}, DistanceLines(km, signpost.Miles))
	assert.Equal(t, [2]string{"345 KM", "214 MI"}, DistanceLines(km, signpost.Both))
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		km    float64
		units signpost.Units
		want  string
	}{
		{7.4 / MilesPerKm, signpost.Miles, "7.4 mi"},
		{6981, signpost.Miles, "4,338 mi"},
		{9.94, signpost.Kilometres, "9.9 km"},
		{12345.4, signpost.Kilometres, "12,345 km"},
		{0, signpost.Miles, "0.0 mi"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDistance(tt.km, tt.units))
	}
	assert.Equal(t, [2]string{"7.4", "MI"}, DistanceLines(7.4/MilesPerKm, signpost.Miles))
}

func TestDistanceProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		a := Point{Lat: 180*rng.Float64() - 90, Lon: 360*rng.Float64() - 180}
		b := Point{Lat: 180*rng.Float64() - 90, Lon: 360*rng.Float64() - 180}
		ab, err := Distance(a, b, Kilometre)
		require.NoError(t, err)
		ba, err := Distance(b, a, Kilometre)
		require.NoError(t, err)
		assert.InDelta(t, ab, ba, 1e-6)
		assert.LessOrEqual(t, ab, EarthRadiusKm*math.Pi+1e-6)

		aa, err := Distance(a, a, Kilometre)
		require.NoError(t, err)
		assert.Zero(t, aa)

		brg, err := Bearing(a, b)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, brg, 0.0)
		assert.Less(t, brg, 360.0)
	}
}

func TestEdgeCases(t *testing.T) {
	// antipodes on the equator
	d, err := Distance(Point{}, Point{Lon: 180}, Kilometre)
	require.NoError(t, err)
	assert.InDelta(t, EarthRadiusKm*math.Pi, d, 1e-6)

	b, err := Bearing(Point{}, Point{Lat: 90})
	require.NoError(t, err)
	assert.InDelta(t, 0, b, 1e-9)

	b, err = Bearing(Point{Lat: 10, Lon: 179}, Point{Lat: 10, Lon: -179})
	require.NoError(t, err)
	assert.InDelta(t, 89.83, b, 0.01)

	b, err = Bearing(Point{}, Point{Lon: -90})
	require.NoError(t, err)
	assert.InDelta(t, 270, b, 1e-9)

	// from the pole every direction is south
	b, err = Bearing(Point{Lat: 90}, glassboro)
	require.NoError(t, err)
	assert.True(t, b >= 0 && b < 360)
}

func TestDomainErrors(t *testing.T) {
	_, err := Bearing(albany, albany)
	var de *signpost.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "bearing", de.Op)
	assert.ErrorIs(t, err, ErrCoincident)

	for _, pair := range [][2]Point{
		{{Lat: 90, Lon: 0}, {Lat: 90, Lon: 45}},
		{{Lat: -90, Lon: 10}, {Lat: -90, Lon: -170}},
		{{Lat: 0, Lon: 180}, {Lat: 0, Lon: -180}},
	} {
		d, err := Distance(pair[0], pair[1], Kilometre)
		require.NoError(t, err)
		assert.Zero(t, d, "%v %v", pair[0], pair[1])
		_, err = Bearing(pair[0], pair[1])
		require.ErrorAs(t, err, &de, "%v %v", pair[0], pair[1])
		assert.ErrorIs(t, err, ErrCoincident)
	}

	for _, p := range []Point{{Lat: 90.1}, {Lon: -181}, {Lat: math.NaN()}} {
		_, err := Distance(p, albany, Mile)
		require.ErrorAs(t, err, &de)
		assert.ErrorIs(t, err, ErrInvalidCoordinates)
		_, err = Bearing(albany, p)
		assert.ErrorIs(t, err, ErrInvalidCoordinates)
	}
}

func TestWebMercator(t *testing.T) {
	x, y := WebMercator(Point{})
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)
	x, _ = WebMercator(Point{Lon: 180})
	assert.InDelta(t, 20037508.34, x, 1)
	_, y1 := WebMercator(glassboro)
	_, y2 := WebMercator(albany)
	assert.Greater(t, y2, y1)
}
