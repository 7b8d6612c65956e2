// Package signpost holds the shared domain types of the direction sign
// generator: the locations read from configuration, the run options and
// the error taxonomy reported by every stage of the pipeline.
//
// Geometry is built by package assemble from a Config and Options. The
// geo and plan packages derive bearings, distances and the segment stack.
package signpost

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/signpost3d/signpost/helpers/matter"
)

// Units selects how distances are printed on signs.
type Units string

const (
	Miles      Units = "mi"
	Kilometres Units = "km"
	// Both prints kilometres with miles in parentheses.
	Both Units = "both"
)

// Valid reports whether u is a known unit.
func (u Units) Valid() bool {
	switch u {
	case Miles, Kilometres, Both:
		return true
	}
	return false
}

// Location is a named point on the globe. The home location carries no
// bearing or distance; every other location is a destination.
type Location struct {
	Name      string  `json:"name" mapstructure:"name"`
	Location  string  `json:"location,omitempty" mapstructure:"location"`
	Latitude  float64 `json:"latitude" mapstructure:"latitude"`
	Longitude float64 `json:"longitude" mapstructure:"longitude"`
	Font      string  `json:"font,omitempty" mapstructure:"font"`
	SignColor string  `json:"sign_color,omitempty" mapstructure:"sign_color"`
	TextColor string  `json:"text_color,omitempty" mapstructure:"text_color"`
}

// Label returns the descriptive label, falling back to the name.
func (l Location) Label() string {
	if l.Location != "" {
		return l.Location
	}
	return l.Name
}

// Config is the validated input of a run. Destination order is the order
// of segments on the post.
type Config struct {
	Name         string     `json:"name" mapstructure:"name"`
	Units        Units      `json:"units" mapstructure:"units"`
	Home         Location   `json:"home" mapstructure:"home"`
	Destinations []Location `json:"locations" mapstructure:"locations"`
}

// Layout selects the physical arrangement of the post. It is one of
// FourPart or TwoPart.
type Layout interface {
	layout()
	String() string
}

// FourPart builds a base, one segment per destination, optional spacers
// and a topper as separate parts.
type FourPart struct{}

// TwoPart fuses the post into a lower half carrying the base and an upper
// half carrying the topper.
type TwoPart struct{}

func (FourPart) layout()        {}
func (TwoPart) layout()         {}
func (FourPart) String() string { return "four" }
func (TwoPart) String() string  { return "two" }

// ParseLayout returns the layout named s ("four" or "two").
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "four", "four-part", "segmented":
		return FourPart{}, nil
	case "two", "two-part":
		return TwoPart{}, nil
	}
	return nil, &ConfigError{Field: "layout", Err: fmt.Errorf("unknown layout %q", s)}
}

// Two-part posts hold up to TwoPartSlots signs per half.
const TwoPartSlots = 5

// Options are the per-run knobs that do not belong to the location file.
type Options struct {
	Spacers int
	Coords  bool
	Layout  Layout
	// Year returns the year engraved under the base.
	Year func() int
	// Resolution is the mesh cell size in millimetres.
	Resolution float64
	// Material, when set, compensates hole sizes for shrinkage.
	Material *matter.ViscousMaterial
	// Parallelism is the number of parts assembled at once.
	Parallelism int
}

// DefaultResolution is the mesh cell size used when Options.Resolution is zero.
const DefaultResolution = 0.25

// WithDefaults returns a copy of o with zero fields set to their defaults.
func (o Options) WithDefaults() Options {
	if o.Layout == nil {
		o.Layout = FourPart{}
	}
	if o.Year == nil {
		o.Year = func() int { return time.Now().Year() }
	}
	if o.Resolution == 0 {
		o.Resolution = DefaultResolution
	}
	if o.Parallelism < 1 {
		o.Parallelism = 1
	}
	return o
}

// Validate checks the options against the configuration they will be
// used with.
func (o Options) Validate(cfg Config) error {
	if o.Spacers < 0 {
		return &ConfigError{Field: "spacers", Err: fmt.Errorf("negative spacer count %d", o.Spacers)}
	}
	if !(o.Resolution > 0) || math.IsInf(o.Resolution, 0) {
		return &ConfigError{Field: "resolution", Err: fmt.Errorf("bad mesh resolution %g", o.Resolution)}
	}
	if _, ok := o.Layout.(TwoPart); ok {
		// home plus destinations, spread over two halves
		if n := len(cfg.Destinations) + 1; n > 2*TwoPartSlots {
			return &ConfigError{Field: "layout", Err: fmt.Errorf("%d signs do not fit a two-part post of %d slots", n, 2*TwoPartSlots)}
		}
	}
	return nil
}

// Validate reports the first problem found in c as a ConfigError.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &ConfigError{Field: "name", Err: errEmpty}
	}
	if !c.Units.Valid() {
		return &ConfigError{Field: "units", Err: fmt.Errorf("unknown units %q", c.Units)}
	}
	if err := c.Home.validate("home"); err != nil {
		return err
	}
	seen := make(map[string]int, len(c.Destinations))
	for i, d := range c.Destinations {
		field := fmt.Sprintf("locations[%d]", i)
		if err := d.validate(field); err != nil {
			return err
		}
		key := strings.ToLower(strings.TrimSpace(d.Name))
		if j, ok := seen[key]; ok {
			return &ConfigError{Field: field + ".name", Err: fmt.Errorf("duplicate of locations[%d] %q", j, d.Name)}
		}
		seen[key] = i
	}
	return nil
}

var errEmpty = errors.New("must not be empty")

func (l Location) validate(field string) error {
	if strings.TrimSpace(l.Name) == "" {
		return &ConfigError{Field: field + ".name", Err: errEmpty}
	}
	if !inRange(l.Latitude, 90) {
		return &ConfigError{Field: field + ".latitude", Err: fmt.Errorf("%g out of range [-90,90]", l.Latitude)}
	}
	if !inRange(l.Longitude, 180) {
		return &ConfigError{Field: field + ".longitude", Err: fmt.Errorf("%g out of range [-180,180]", l.Longitude)}
	}
	return nil
}

// inRange also rejects NaN.
func inRange(v, limit float64) bool {
	return v >= -limit && v <= limit
}
