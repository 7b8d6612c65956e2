// Package plan orders the physical segments of a post and assigns the
// identification pin patterns that make segments stack in one order only.
package plan

import (
	"fmt"

	"github.com/signpost3d/signpost"
	"github.com/signpost3d/signpost/geo"
)

// Kind is the role of a segment in the stack.
type Kind int

const (
	Base Kind = iota + 1
	Destination
	Spacer
	Topper
)

func (k Kind) String() string {
	switch k {
	case Base:
		return "base"
	case Destination:
		return "destination"
	case Spacer:
		return "spacer"
	case Topper:
		return "topper"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// HomeBearing is the compass bearing of the home sign flat on the base stub.
const HomeBearing = 180.0

// Segment is one entry of the stack, bottom first.
type Segment struct {
	// SequenceIndex is the 1-based position in the stack.
	SequenceIndex int
	Kind          Kind
	// Bearing and Distance (km) are set for destinations only.
	Bearing  *float64
	Distance *float64
	// IDValue is the destination id starting at 1, or 0.
	IDValue int
	// Destination indexes Config.Destinations, or is -1.
	Destination int
}

// FlatBearing returns the bearing of the flat milled for the sign. A sign
// can point either way off its flat so bearings past 180 are folded back;
// such signs point left.
func (s Segment) FlatBearing() float64 {
	if s.Bearing == nil {
		return HomeBearing
	}
	if b := *s.Bearing; b > 180 {
		return b - 180
	}
	return *s.Bearing
}

// PointsLeft reports whether the sign on this segment has its tip on the
// left when viewed facing the flat.
func (s Segment) PointsLeft() bool {
	return s.Bearing != nil && *s.Bearing > 180
}

// Pattern returns the identification pattern of the segment.
func (s Segment) Pattern() Pattern {
	if s.Kind == Destination {
		return EncodeID(s.IDValue)
	}
	return Pattern{Center: true}
}

// Plan computes the ordered segment stack for cfg. The stack is the base,
// one segment per destination in configuration order, the spacers and a
// topper. Spacer k (0-based) follows destination segment (k mod D)+1, so
// spacers are spread round robin over the destinations. Without
// destinations every spacer follows the base.
func Plan(cfg signpost.Config, opts signpost.Options) ([]Segment, error) {
	if opts.Spacers < 0 {
		return nil, &signpost.ConfigError{Field: "spacers", Err: fmt.Errorf("negative spacer count %d", opts.Spacers)}
	}
	home := geo.PointOf(cfg.Home)
	D := len(cfg.Destinations)
	after := make([]int, D+1) // spacers following destination i, 0 is the base
	for k := 0; k < opts.Spacers; k++ {
		if D == 0 {
			after[0]++
		} else {
			after[k%D+1]++
		}
	}
	segs := make([]Segment, 0, D+opts.Spacers+2)
	push := func(s Segment) {
		s.SequenceIndex = len(segs) + 1
		segs = append(segs, s)
	}
	spacers := func(n int) {
		for ; n > 0; n-- {
			push(Segment{Kind: Spacer, Destination: -1})
		}
	}
	push(Segment{Kind: Base, Destination: -1})
	spacers(after[0])
	for i, d := range cfg.Destinations {
		p := geo.PointOf(d)
		km, err := geo.Distance(home, p, geo.Kilometre)
		if err != nil {
			return nil, fmt.Errorf("destination %d %q: %w", i, d.Name, err)
		}
		b, err := geo.Bearing(home, p)
		if err != nil {
			return nil, fmt.Errorf("destination %d %q: %w", i, d.Name, err)
		}
		push(Segment{
			Kind:        Destination,
			Bearing:     &b,
			Distance:    &km,
			IDValue:     i + 1,
			Destination: i,
		})
		spacers(after[i+1])
	}
	push(Segment{Kind: Topper, Destination: -1})
	return segs, nil
}

// Destinations returns the destination segments of segs in id order.
func Destinations(segs []Segment) []Segment {
	var out []Segment
	for _, s := range segs {
		if s.Kind == Destination {
			out = append(out, s)
		}
	}
	return out
}

// Below returns the segment under segs[i], or false for the base.
func Below(segs []Segment, i int) (Segment, bool) {
	if i <= 0 || i >= len(segs) {
		return Segment{}, false
	}
	return segs[i-1], true
}
