package plan

import (
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/signpost3d/signpost"
)

// FeatureCollection returns the plan as GeoJSON: the home point, a point
// per destination and a line from home to each destination carrying the
// segment id, bearing and distance. Coordinates are longitude, latitude.
func FeatureCollection(cfg signpost.Config, segs []Segment) (geom.GeoJSONFeatureCollection, error) {
	home, err := lonLat(cfg.Home)
	if err != nil {
		return nil, err
	}
	fc := geom.GeoJSONFeatureCollection{{
		Geometry: home.AsGeometry(),
		ID:       "home",
		Properties: map[string]interface{}{
			"role":  "home",
			"name":  cfg.Home.Name,
			"label": cfg.Home.Label(),
		},
	}}
	for _, s := range Destinations(segs) {
		if s.Destination < 0 || s.Destination >= len(cfg.Destinations) {
			return nil, fmt.Errorf("segment %d references destination %d of %d", s.SequenceIndex, s.Destination, len(cfg.Destinations))
		}
		d := cfg.Destinations[s.Destination]
		p, err := lonLat(d)
		if err != nil {
			return nil, err
		}
		fc = append(fc, geom.GeoJSONFeature{
			Geometry: p.AsGeometry(),
			ID:       fmt.Sprintf("destination-%d", s.IDValue),
			Properties: map[string]interface{}{
				"role":  "destination",
				"name":  d.Name,
				"label": d.Label(),
			},
		})
		seq := geom.NewSequence([]float64{
			cfg.Home.Longitude, cfg.Home.Latitude,
			d.Longitude, d.Latitude,
		}, geom.DimXY)
		line, err := geom.NewLineString(seq)
		if err != nil {
			return nil, fmt.Errorf("segment %d line: %w", s.SequenceIndex, err)
		}
		fc = append(fc, geom.GeoJSONFeature{
			Geometry: line.AsGeometry(),
			ID:       fmt.Sprintf("segment-%d", s.SequenceIndex),
			Properties: map[string]interface{}{
				"id":          s.IDValue,
				"pattern":     s.Pattern().String(),
				"bearing":     *s.Bearing,
				"distance_km": *s.Distance,
				"label":       d.Label(),
			},
		})
	}
	return fc, nil
}

func lonLat(l signpost.Location) (geom.Point, error) {
	p, err := geom.NewPoint(geom.Coordinates{XY: geom.XY{X: l.Longitude, Y: l.Latitude}, Type: geom.DimXY})
	if err != nil {
		return geom.Point{}, fmt.Errorf("location %q: %w", l.Name, err)
	}
	return p, nil
}
