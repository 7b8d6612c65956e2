// Package boolean is the narrow solid composition interface used by the
// part assembler. Every operation is fallible so that a failing
// composition surfaces as an error naming the part rather than a corrupt
// mesh.
package boolean

import (
	"errors"
	"fmt"
	"math"

	"github.com/signpost3d/signpost/internal/d3"
	"github.com/signpost3d/signpost/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// Engine composes solids.
type Engine interface {
	// Union returns the solid occupied by a or b.
	Union(a, b sdf.SDF3) (sdf.SDF3, error)
	// Subtract returns a with b removed.
	Subtract(a, b sdf.SDF3) (sdf.SDF3, error)
}

var (
	ErrNilOperand   = errors.New("nil operand")
	ErrEmptyOperand = errors.New("operand has empty bounds")
)

// SDF composes signed distance functions. The zero value is ready to use.
type SDF struct{}

var _ Engine = SDF{}

func (SDF) Union(a, b sdf.SDF3) (sdf.SDF3, error) {
	if err := check("union", a, b); err != nil {
		return nil, err
	}
	return sdf.Union3D(a, b), nil
}

func (SDF) Subtract(a, b sdf.SDF3) (sdf.SDF3, error) {
	if err := check("subtract", a, b); err != nil {
		return nil, err
	}
	return sdf.Difference3D(a, b), nil
}

func check(op string, operands ...sdf.SDF3) error {
	for i, s := range operands {
		if s == nil {
			return fmt.Errorf("%s operand %d: %w", op, i, ErrNilOperand)
		}
		bb := d3.Box(s.Bounds())
		// Empty is also true for NaN limits
		if bb.Empty() {
			return fmt.Errorf("%s operand %d: %w", op, i, ErrEmptyOperand)
		}
		if infinite(bb.Min) || infinite(bb.Max) {
			return fmt.Errorf("%s operand %d: bounds %v are not finite", op, i, bb)
		}
	}
	return nil
}

func infinite(v r3.Vec) bool {
	return math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) || math.IsInf(v.Z, 0)
}
