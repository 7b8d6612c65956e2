// Package config reads the JSON location file of a signpost.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/signpost3d/signpost"
	"github.com/spf13/viper"
)

// Defaults applied to locations that leave a field out.
const (
	DefaultName      = "post"
	DefaultUnits     = signpost.Miles
	DefaultFont      = "Arial"
	DefaultSignColor = "blue"
	DefaultTextColor = "white"
)

var errMissing = errors.New("missing; geocoding is not supported, give coordinates")

type location struct {
	Name      string   `mapstructure:"name"`
	Location  string   `mapstructure:"location"`
	Latitude  *float64 `mapstructure:"latitude"`
	Longitude *float64 `mapstructure:"longitude"`
	Font      string   `mapstructure:"font"`
	SignColor string   `mapstructure:"sign_color"`
	TextColor string   `mapstructure:"text_color"`
}

type file struct {
	Name      string     `mapstructure:"name"`
	Units     string     `mapstructure:"units"`
	Home      location   `mapstructure:"home"`
	Locations []location `mapstructure:"locations"`
	Defaults  struct {
		Font      string `mapstructure:"font"`
		SignColor string `mapstructure:"sign_color"`
		TextColor string `mapstructure:"text_color"`
	} `mapstructure:"defaults"`
}

// Load reads the location file at path and returns the validated
// configuration. Fields the file leaves out take the package defaults,
// which the file may itself override under "defaults".
func Load(path string) (signpost.Config, error) {
	v := viper.New()
	v.SetDefault("name", DefaultName)
	v.SetDefault("units", string(DefaultUnits))
	v.SetDefault("defaults.font", DefaultFont)
	v.SetDefault("defaults.sign_color", DefaultSignColor)
	v.SetDefault("defaults.text_color", DefaultTextColor)

	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return signpost.Config{}, fmt.Errorf("error reading config file: %w", err)
	}

	var f file
	err := v.Unmarshal(&f, func(dc *mapstructure.DecoderConfig) {
		// coordinates are often pasted as strings
		dc.WeaklyTypedInput = true
	})
	if err != nil {
		return signpost.Config{}, &signpost.ConfigError{Field: "file", Err: err}
	}

	cfg := signpost.Config{
		Name:  f.Name,
		Units: signpost.Units(strings.ToLower(strings.TrimSpace(f.Units))),
	}
	if cfg.Home, err = f.location(f.Home, "home"); err != nil {
		return signpost.Config{}, err
	}
	for i, l := range f.Locations {
		loc, err := f.location(l, fmt.Sprintf("locations[%d]", i))
		if err != nil {
			return signpost.Config{}, err
		}
		cfg.Destinations = append(cfg.Destinations, loc)
	}
	if err := cfg.Validate(); err != nil {
		return signpost.Config{}, err
	}
	return cfg, nil
}

func (f *file) location(l location, field string) (signpost.Location, error) {
	if l.Latitude == nil {
		return signpost.Location{}, &signpost.ConfigError{Field: field + ".latitude", Err: errMissing}
	}
	if l.Longitude == nil {
		return signpost.Location{}, &signpost.ConfigError{Field: field + ".longitude", Err: errMissing}
	}
	return signpost.Location{
		Name:      l.Name,
		Location:  or(l.Location, l.Name),
		Latitude:  *l.Latitude,
		Longitude: *l.Longitude,
		Font:      or(l.Font, f.Defaults.Font),
		SignColor: or(l.SignColor, f.Defaults.SignColor),
		TextColor: or(l.TextColor, f.Defaults.TextColor),
	}, nil
}

func or(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
