// Package geo computes great circle distances and initial bearings on a
// spherical earth and formats distances for printing on signs.
package geo

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/signpost3d/signpost"
	"github.com/wroge/wgs84"
)

const (
	// EarthRadiusKm is the mean radius of the sphere used for all distances.
	EarthRadiusKm = 6371.0
	// MilesPerKm converts kilometres to statute miles.
	MilesPerKm = 0.621371
)

var (
	// ErrInvalidCoordinates is returned when a latitude or longitude is out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates provided")
	// ErrCoincident is returned for the bearing between two points at zero distance.
	ErrCoincident = errors.New("points coincide, bearing is undefined")
)

// Point is a position in decimal degrees.
type Point struct {
	Lat, Lon float64
}

// PointOf returns the position of a location.
func PointOf(l signpost.Location) Point {
	return Point{Lat: l.Latitude, Lon: l.Longitude}
}

func (p Point) String() string { return fmt.Sprintf("(%.4f, %.4f)", p.Lat, p.Lon) }

func (p Point) check(op string) error {
	if !(p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180) {
		return &signpost.DomainError{Op: op, Err: fmt.Errorf("%w: %v", ErrInvalidCoordinates, p)}
	}
	return nil
}

// Unit is a length unit for Distance.
type Unit int

const (
	Kilometre Unit = iota
	Mile
)

// coincidentAngle is the central angle, in radians, below which two points
// are the same place. Pole longitudes and the two sides of the antimeridian
// leave rounding residue around 1e-16.
const coincidentAngle = 1e-12

// centralAngle returns the haversine angle between a and b in radians.
func centralAngle(a, b Point) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dlat := radians(b.Lat - a.Lat)
	dlon := radians(b.Lon - a.Lon)
	sl, so := math.Sin(dlat/2), math.Sin(dlon/2)
	h := sl*sl + math.Cos(lat1)*math.Cos(lat2)*so*so
	// rounding may push h a hair past 1 for antipodal points
	c := 2 * math.Asin(math.Sqrt(clamp(h, 0, 1)))
	if c < coincidentAngle {
		return 0
	}
	return c
}

// Distance returns the great circle distance between a and b.
func Distance(a, b Point, u Unit) (float64, error) {
	if err := a.check("distance"); err != nil {
		return 0, err
	}
	if err := b.check("distance"); err != nil {
		return 0, err
	}
	km := EarthRadiusKm * centralAngle(a, b)
	if u == Mile {
		return km * MilesPerKm, nil
	}
	return km, nil
}

// Bearing returns the initial bearing from a to b in degrees clockwise from
// true north, in [0, 360). It fails when the points are at zero distance.
func Bearing(a, b Point) (float64, error) {
	if err := a.check("bearing"); err != nil {
		return 0, err
	}
	if err := b.check("bearing"); err != nil {
		return 0, err
	}
	if centralAngle(a, b) == 0 {
		return 0, &signpost.DomainError{Op: "bearing", Err: fmt.Errorf("%w: %v", ErrCoincident, a)}
	}
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dlon := radians(b.Lon - a.Lon)
	x := math.Sin(dlon) * math.Cos(lat2)
	y := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dlon)
	deg := math.Mod(degrees(math.Atan2(x, y))+360, 360)
	if deg >= 360 {
		// -tiny + 360 rounds to 360
		deg = 0
	}
	return deg, nil
}

// FormatDistance formats a distance in kilometres for display: one decimal
// below 10 units, thousands grouped integers otherwise.
func FormatDistance(km float64, units signpost.Units) string {
	mi := km * MilesPerKm
	switch units {
	case signpost.Kilometres:
		return formatValue(km) + " km"
	case signpost.Both:
		return humanize.Comma(round(km)) + " km (" + humanize.Comma(round(mi)) + " mi)"
	default:
		return formatValue(mi) + " mi"
	}
}

// DistanceLines returns the two rows of the distance block printed near
// the tip of a sign.
func DistanceLines(km float64, units signpost.Units) [2]string {
	if units == signpost.Both {
		return [2]string{
			humanize.Comma(round(km)) + " KM",
			humanize.Comma(round(km*MilesPerKm)) + " MI",
		}
	}
	s := FormatDistance(km, units)
	i := strings.LastIndexByte(s, ' ')
	return [2]string{s[:i], strings.ToUpper(s[i+1:])}
}

// WebMercator projects p to EPSG:3857 metres.
func WebMercator(p Point) (x, y float64) {
	f := wgs84.EPSG().Transform(4326, 3857)
	x, y, _ = f(p.Lon, p.Lat, 0)
	return x, y
}

func formatValue(v float64) string {
	if v < 10 {
		return fmt.Sprintf("%.1f", v)
	}
	return humanize.Comma(round(v))
}

func round(v float64) int64 { return int64(math.Round(v)) }

func radians(d float64) float64 { return d * math.Pi / 180 }

func degrees(r float64) float64 { return r * 180 / math.Pi }

func clamp(x, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, x)) }
