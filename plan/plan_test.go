package plan

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/signpost3d/signpost"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenario() signpost.Config {
	return signpost.Config{
		Name:         "post",
		Units:        signpost.Miles,
		Home:         signpost.Location{Name: "Glassboro", Latitude: 39.7306, Longitude: -75.1681},
		Destinations: []signpost.Location{{Name: "Albany", Latitude: 42.6977, Longitude: -73.9664}},
	}
}

func kinds(segs []Segment) []Kind {
	k := make([]Kind, len(segs))
	for i, s := range segs {
		k[i] = s.Kind
	}
	return k
}

func TestPlanScenario(t *testing.T) {
	segs, err := Plan(scenario(), signpost.Options{})
	require.NoError(t, err)
	require.Len(t, segs, 3)
	assert.Equal(t, []Kind{Base, Destination, Topper}, kinds(segs))
	for i, s := range segs {
		assert.Equal(t, i+1, s.SequenceIndex)
	}
	d := segs[1]
	assert.Equal(t, 1, d.IDValue)
	assert.Equal(t, 0, d.Destination)
	require.NotNil(t, d.Bearing)
	require.NotNil(t, d.Distance)
	assert.InDelta(t, 16.55, *d.Bearing, 0.01)
	assert.InDelta(t, 344.89, *d.Distance, 0.01)
	assert.False(t, d.PointsLeft())
	assert.Nil(t, segs[0].Bearing)
	assert.Nil(t, segs[2].Distance)
	assert.Equal(t, -1, segs[0].Destination)
}

func TestSpacerInterleave(t *testing.T) {
	cfg := scenario()
	cfg.Destinations = append(cfg.Destinations,
		signpost.Location{Name: "Paris", Latitude: 48.8566, Longitude: 2.3522},
		signpost.Location{Name: "Tokyo", Latitude: 35.6762, Longitude: 139.6503},
	)
	segs, err := Plan(cfg, signpost.Options{Spacers: 4})
	require.NoError(t, err)
	assert.Equal(t, []Kind{
		Base,
		Destination, Spacer, Spacer, // spacers 0 and 3
		Destination, Spacer,
		Destination, Spacer,
		Topper,
	}, kinds(segs))

	again, err := Plan(cfg, signpost.Options{Spacers: 4})
	require.NoError(t, err)
	assert.Equal(t, segs, again)

	cfg.Destinations = nil
	segs, err = Plan(cfg, signpost.Options{Spacers: 2})
	require.NoError(t, err)
	assert.Equal(t, []Kind{Base, Spacer, Spacer, Topper}, kinds(segs))
}

func TestPlanErrors(t *testing.T) {
	_, err := Plan(scenario(), signpost.Options{Spacers: -1})
	var ce *signpost.ConfigError
	require.ErrorAs(t, err, &ce)

	cfg := scenario()
	cfg.Destinations = append(cfg.Destinations, signpost.Location{Name: "Here", Latitude: cfg.Home.Latitude, Longitude: cfg.Home.Longitude})
	_, err = Plan(cfg, signpost.Options{})
	var de *signpost.DomainError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, err.Error(), `destination 1 "Here"`)
}

func TestFoldedBearing(t *testing.T) {
	b := 250.0
	s := Segment{Kind: Destination, Bearing: &b}
	assert.Equal(t, 70.0, s.FlatBearing())
	assert.True(t, s.PointsLeft())
	b = 180
	assert.Equal(t, 180.0, s.FlatBearing())
	assert.False(t, s.PointsLeft())
	assert.Equal(t, HomeBearing, Segment{Kind: Base}.FlatBearing())
}

func TestEncodeID(t *testing.T) {
	for id := 1; id <= MaxPatternID; id++ {
		p := EncodeID(id)
		assert.False(t, p.Center)
		assert.Equal(t, id, p.Decode())
		sum := 0
		for _, pin := range p.Pins() {
			sum += 1 << pin
		}
		assert.Equal(t, id, sum, "pins of %d", id)
	}
	for _, id := range []int{16, 17, 100} {
		p := EncodeID(id)
		assert.True(t, p.Center)
		assert.Empty(t, p.Pins())
		assert.Equal(t, "center", p.String())
	}
	assert.Equal(t, "0101", EncodeID(5).String())
}

func TestOverflowFallsBackToCenter(t *testing.T) {
	cfg := scenario()
	cfg.Destinations = nil
	for i := 0; i < 17; i++ {
		cfg.Destinations = append(cfg.Destinations, signpost.Location{
			Name:      fmt.Sprintf("D%d", i+1),
			Latitude:  40 + float64(i)/10,
			Longitude: -70,
		})
	}
	segs, err := Plan(cfg, signpost.Options{})
	require.NoError(t, err)
	dests := Destinations(segs)
	require.Len(t, dests, 17)
	for _, s := range dests[:15] {
		assert.False(t, s.Pattern().Center)
		assert.Equal(t, s.IDValue, s.Pattern().Decode())
	}
	for _, s := range dests[15:] {
		assert.True(t, s.Pattern().Center)
	}
}

func TestSlots(t *testing.T) {
	cfg := scenario()
	for i := 0; i < 5; i++ {
		cfg.Destinations = append(cfg.Destinations, signpost.Location{Name: fmt.Sprintf("X%d", i), Latitude: 30, Longitude: float64(-80 + 10*i)})
	}
	segs, err := Plan(cfg, signpost.Options{Spacers: 1})
	require.NoError(t, err)
	lower, upper, err := Slots(segs, signpost.TwoPartSlots)
	require.NoError(t, err)
	require.Len(t, lower, 5)
	require.Len(t, upper, 2)
	assert.True(t, lower[0].Home)
	assert.Equal(t, HomeBearing, lower[0].Bearing)
	assert.True(t, lower[0].Pattern.Center)
	assert.Equal(t, 1, lower[1].Segment.IDValue)
	assert.Equal(t, 6, upper[1].Segment.IDValue)

	lower, upper, err = Slots(segs[:1], signpost.TwoPartSlots)
	require.NoError(t, err)
	assert.Len(t, lower, 1)
	assert.Empty(t, upper)

	_, _, err = Slots(segs, 3)
	assert.Error(t, err)
}

func TestFeatureCollection(t *testing.T) {
	cfg := scenario()
	segs, err := Plan(cfg, signpost.Options{})
	require.NoError(t, err)
	fc, err := FeatureCollection(cfg, segs)
	require.NoError(t, err)
	require.Len(t, fc, 3)
	assert.Equal(t, 1, fc[2].Properties["id"])
	assert.Equal(t, "Albany", fc[2].Properties["label"])

	b, err := json.Marshal(fc)
	require.NoError(t, err)
	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string          `json:"type"`
				Coordinates json.RawMessage `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 3)
	assert.Equal(t, "Point", doc.Features[0].Geometry.Type)
	assert.Equal(t, "LineString", doc.Features[2].Geometry.Type)
	assert.JSONEq(t, `[[-75.1681,39.7306],[-73.9664,42.6977]]`, string(doc.Features[2].Geometry.Coordinates))
}

func TestFeatureCollectionInvalidGeometry(t *testing.T) {
	cfg := scenario()
	segs, err := Plan(cfg, signpost.Options{})
	require.NoError(t, err)

	bad := scenario()
	bad.Home.Longitude = math.NaN()
	_, err = FeatureCollection(bad, segs)
	assert.ErrorContains(t, err, "Glassboro")

	same := scenario()
	same.Destinations[0].Latitude = same.Home.Latitude
	same.Destinations[0].Longitude = same.Home.Longitude
	_, err = FeatureCollection(same, segs)
	assert.ErrorContains(t, err, "line")
}
