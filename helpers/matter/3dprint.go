// Package matter compensates printed dimensions for the shrinkage of
// common filament plastics.
package matter

import (
	"fmt"
	"sort"
	"strings"
)

var (
	// PLA (polylactic acid) is the most widely used plastic filament material in 3D printing.
	PLA = ViscousMaterial{name: "pla", shrink: 0.2e-2, pullShrink: .45} // 0.2% shrinkage
	// PETG shrinks a little more than PLA and strings into holes.
	PETG = ViscousMaterial{name: "petg", shrink: 0.4e-2, pullShrink: .5}
	// ABS shrinks the most of the three.
	ABS = ViscousMaterial{name: "abs", shrink: 0.7e-2, pullShrink: .4}
)

var materials = map[string]ViscousMaterial{
	PLA.name:  PLA,
	PETG.name: PETG,
	ABS.name:  ABS,
}

type ViscousMaterial struct {
	name string
	// shrink is the thermal contraction shrinkage of a material once the material
	// cools to room temperature after the heated bed is turned off.
	shrink float64
	// pullShrink takes into account viscoelastic shrinkage.
	pullShrink float64
}

// Lookup returns the material with the given name, ignoring case.
func Lookup(name string) (ViscousMaterial, error) {
	m, ok := materials[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return ViscousMaterial{}, fmt.Errorf("unknown material %q (have %s)", name, strings.Join(Names(), ", "))
	}
	return m, nil
}

// Names returns the known material names in sorted order.
func Names() []string {
	names := make([]string, 0, len(materials))
	for name := range materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m ViscousMaterial) String() string { return m.name }

// InternalDimScale returns the size to model an internal dimension, such
// as a hole diameter, so that it prints at the real size.
func (m ViscousMaterial) InternalDimScale(real float64) float64 {
	if real <= 0 {
		panic("InternalDimScale only works for non-zero dimensions")
	}
	return real*(m.shrink+1) + m.pullShrink
}
