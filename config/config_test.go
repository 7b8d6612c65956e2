package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/signpost3d/signpost"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "signs.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	path := write(t, `{
		"name": "glassboro",
		"units": "KM",
		"home": {"name": "Glassboro", "location": "Glassboro, NJ", "latitude": 39.7306, "longitude": -75.1681, "font": "Go Medium"},
		"locations": [
			{"name": "Albany", "latitude": "42.6977", "longitude": -73.9664, "sign_color": "green"},
			{"name": "Paris", "latitude": 48.8566, "longitude": 2.3522, "text_color": "gold"}
		]
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "glassboro", cfg.Name)
	assert.Equal(t, signpost.Kilometres, cfg.Units)
	assert.Equal(t, "Glassboro, NJ", cfg.Home.Location)
	assert.Equal(t, "Go Medium", cfg.Home.Font)
	require.Len(t, cfg.Destinations, 2)
	albany := cfg.Destinations[0]
	assert.Equal(t, 42.6977, albany.Latitude)
	assert.Equal(t, "Albany", albany.Location)
	assert.Equal(t, "green", albany.SignColor)
	assert.Equal(t, DefaultTextColor, albany.TextColor)
	assert.Equal(t, DefaultFont, albany.Font)
	assert.Equal(t, "gold", cfg.Destinations[1].TextColor)
	assert.Equal(t, "Paris", cfg.Destinations[1].Name)
}

func TestLoad_DefaultValues(t *testing.T) {
	path := write(t, `{"home": {"name": "Home", "latitude": 1, "longitude": 2}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultName, cfg.Name)
	assert.Equal(t, DefaultUnits, cfg.Units)
	assert.Equal(t, DefaultFont, cfg.Home.Font)
	assert.Equal(t, DefaultSignColor, cfg.Home.SignColor)
	assert.Equal(t, DefaultTextColor, cfg.Home.TextColor)
	assert.Empty(t, cfg.Destinations)
}

func TestLoad_FileDefaults(t *testing.T) {
	path := write(t, `{
		"defaults": {"font": "Go Regular", "sign_color": "brown"},
		"home": {"name": "Home", "latitude": 1, "longitude": 2},
		"locations": [{"name": "There", "latitude": 3, "longitude": 4, "font": "Go Mono"}]
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Go Regular", cfg.Home.Font)
	assert.Equal(t, "brown", cfg.Home.SignColor)
	assert.Equal(t, DefaultTextColor, cfg.Home.TextColor)
	assert.Equal(t, "Go Mono", cfg.Destinations[0].Font)
}

func TestLoad_MissingCoordinates(t *testing.T) {
	for _, tc := range []struct {
		body  string
		field string
	}{
		{`{"home": {"name": "Home", "longitude": 2}}`, "home.latitude"},
		{`{"home": {"name": "Home", "latitude": 1, "longitude": 2}, "locations": [{"name": "A", "latitude": 3}]}`, "locations[0].longitude"},
	} {
		_, err := Load(write(t, tc.body))
		var ce *signpost.ConfigError
		require.ErrorAs(t, err, &ce, tc.body)
		assert.Equal(t, tc.field, ce.Field)
		assert.ErrorIs(t, err, errMissing)
	}
}

func TestLoad_Invalid(t *testing.T) {
	for _, tc := range []struct {
		body  string
		field string
	}{
		{`{"units": "furlongs", "home": {"name": "Home", "latitude": 1, "longitude": 2}}`, "units"},
		{`{"home": {"name": "Home", "latitude": 91, "longitude": 2}}`, "home.latitude"},
		{`{"home": {"name": "", "latitude": 1, "longitude": 2}}`, "home.name"},
		{`{"home": {"name": "H", "latitude": 1, "longitude": 2}, "locations": [
			{"name": "A", "latitude": 3, "longitude": 4},
			{"name": " a ", "latitude": 5, "longitude": 6}]}`, "locations[1].name"},
		{`{"home": {"name": "H", "latitude": "north", "longitude": 2}}`, "file"},
	} {
		_, err := Load(write(t, tc.body))
		var ce *signpost.ConfigError
		require.ErrorAs(t, err, &ce, tc.body)
		assert.Equal(t, tc.field, ce.Field, tc.body)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/signs.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}
