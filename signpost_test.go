package signpost

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Name:  "post",
		Units: Miles,
		Home:  Location{Name: "Glassboro", Latitude: 39.7306, Longitude: -75.1681},
		Destinations: []Location{
			{Name: "Albany", Latitude: 42.6977, Longitude: -73.9664},
			{Name: "Paris", Latitude: 48.8566, Longitude: 2.3522},
		},
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"empty name", func(c *Config) { c.Name = " " }, "name"},
		{"bad units", func(c *Config) { c.Units = "furlongs" }, "units"},
		{"home latitude", func(c *Config) { c.Home.Latitude = 91 }, "home.latitude"},
		{"home longitude NaN", func(c *Config) { c.Home.Longitude = math.NaN() }, "home.longitude"},
		{"destination longitude", func(c *Config) { c.Destinations[1].Longitude = -180.5 }, "locations[1].longitude"},
		{"destination name", func(c *Config) { c.Destinations[0].Name = "" }, "locations[0].name"},
		{"duplicate", func(c *Config) { c.Destinations[1].Name = " albany" }, "locations[1].name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.edit(&cfg)
			err := cfg.Validate()
			var ce *ConfigError
			require.True(t, errors.As(err, &ce), "got %v", err)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestOptionsValidate(t *testing.T) {
	cfg := validConfig()
	opts := Options{}.WithDefaults()
	assert.Equal(t, FourPart{}, opts.Layout)
	assert.Equal(t, DefaultResolution, opts.Resolution)
	assert.Equal(t, 1, opts.Parallelism)
	require.NoError(t, opts.Validate(cfg))

	opts.Spacers = -1
	var ce *ConfigError
	require.ErrorAs(t, opts.Validate(cfg), &ce)
	assert.Equal(t, "spacers", ce.Field)

	opts = Options{Layout: TwoPart{}}.WithDefaults()
	require.NoError(t, opts.Validate(cfg))
	for i := 0; i < 8; i++ {
		cfg.Destinations = append(cfg.Destinations, Location{Name: string(rune('A' + i))})
	}
	// home + 10 destinations
	require.ErrorAs(t, opts.Validate(cfg), &ce)
	assert.Equal(t, "layout", ce.Field)
}

func TestParseLayout(t *testing.T) {
	l, err := ParseLayout("Two")
	require.NoError(t, err)
	assert.Equal(t, TwoPart{}, l)
	l, err = ParseLayout("")
	require.NoError(t, err)
	assert.Equal(t, "four", l.String())
	_, err = ParseLayout("three")
	assert.Error(t, err)
}

func TestErrorsUnwrap(t *testing.T) {
	base := errors.New("boom")
	for _, err := range []error{
		&ConfigError{Field: "f", Err: base},
		&DomainError{Op: "bearing", Err: base},
		&GeometryError{Part: "post_topper", Err: base},
	} {
		assert.ErrorIs(t, err, base)
	}
	assert.Equal(t, "part post_segment_1 (segment 2): boom",
		(&GeometryError{Part: "post_segment_1", Segment: 2, Err: base}).Error())
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Albany", Location{Name: "Albany"}.Label())
	assert.Equal(t, "Albany, NY", Location{Name: "Albany", Location: "Albany, NY"}.Label())
}
