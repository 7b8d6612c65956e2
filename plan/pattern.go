package plan

import (
	"fmt"
	"strings"
)

// MaxPatternID is the largest id the four binary pins can encode.
const MaxPatternID = 15

// Pattern is the physical id marking of a segment: up to four binary pins,
// or a single center pin when the id does not fit.
type Pattern struct {
	Bits   uint8
	Center bool
}

// EncodeID returns the pattern for id. Ids past MaxPatternID degrade to a
// center pin.
func EncodeID(id int) Pattern {
	if id >= 1 && id <= MaxPatternID {
		return Pattern{Bits: uint8(id)}
	}
	return Pattern{Center: true}
}

// Decode returns the id encoded by the pins, or 0 for a center pin.
func (p Pattern) Decode() int {
	if p.Center {
		return 0
	}
	return int(p.Bits & 0xf)
}

// Pins returns the positions 0..3 of the pins present, lowest bit first.
func (p Pattern) Pins() []int {
	if p.Center {
		return nil
	}
	var pins []int
	for i := 0; i < 4; i++ {
		if p.Bits&(1<<i) != 0 {
			pins = append(pins, i)
		}
	}
	return pins
}

// String returns the pins as binary digits, most significant first, or
// "center".
func (p Pattern) String() string {
	if p.Center {
		return "center"
	}
	var sb strings.Builder
	for i := 3; i >= 0; i-- {
		sb.WriteByte('0' + p.Bits>>i&1)
	}
	return sb.String()
}

// Slot is a sign position on a two-part post.
type Slot struct {
	Segment Segment
	Bearing float64
	Pattern Pattern
	Home    bool
}

// Slots splits the signs of a two-part post between its halves. The home
// slot, facing HomeBearing with a center pin, comes first, followed by
// the destinations in id order. The lower half is filled from the bottom,
// then the upper half. Spacers have no place on a fused post and are
// skipped.
func Slots(segs []Segment, perHalf int) (lower, upper []Slot, err error) {
	all := []Slot{{Bearing: HomeBearing, Pattern: Pattern{Center: true}, Home: true, Segment: Segment{Kind: Base, Destination: -1}}}
	for _, s := range Destinations(segs) {
		all = append(all, Slot{Segment: s, Bearing: s.FlatBearing(), Pattern: s.Pattern()})
	}
	if len(all) > 2*perHalf {
		return nil, nil, fmt.Errorf("%d signs exceed the %d slots of a two-part post", len(all), 2*perHalf)
	}
	if len(all) <= perHalf {
		return all, nil, nil
	}
	return all[:perHalf], all[perHalf:], nil
}
