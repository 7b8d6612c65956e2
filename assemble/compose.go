package assemble

import (
	"fmt"
	"math"

	"github.com/signpost3d/signpost/boolean"
	"github.com/signpost3d/signpost/internal/d3"
	"github.com/signpost3d/signpost/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

type feature struct {
	name string
	s    sdf.SDF3
}

// solid collects the body, cavities and additive features of one part (or
// of one composite feature) and composes them in a fixed order: every
// cavity is cut from the body before any feature is added. The first error
// met while collecting sticks and is returned by compose.
type solid struct {
	label string
	body  sdf.SDF3
	cuts  []feature
	adds  []feature
	err   error
}

func newSolid(label string, body sdf.SDF3, err error) *solid {
	if err != nil {
		err = fmt.Errorf("body: %w", err)
	}
	return &solid{label: label, body: body, err: err}
}

func (s *solid) fail(name string, err error) bool {
	if err == nil {
		return false
	}
	if s.err == nil {
		s.err = fmt.Errorf("%s: %w", name, err)
	}
	return true
}

// cut registers a cavity moved by t.
func (s *solid) cut(name string, c sdf.SDF3, t d3.Transform, err error) {
	if s.fail(name, err) {
		return
	}
	s.cuts = append(s.cuts, feature{name, sdf.Transform3D(c, t)})
}

// add registers an additive feature moved by t.
func (s *solid) add(name string, a sdf.SDF3, t d3.Transform, err error) {
	if s.fail(name, err) {
		return
	}
	s.adds = append(s.adds, feature{name, sdf.Transform3D(a, t)})
}

// sub adds a composite feature that was composed on its own.
func (s *solid) sub(name string, c *solid, eng boolean.Engine, t d3.Transform) {
	f, err := c.compose(eng)
	s.add(name, f, t, err)
}

// features lists the registered feature names, cavities first.
func (s *solid) features() []string {
	names := make([]string, 0, len(s.cuts)+len(s.adds))
	for _, f := range s.cuts {
		names = append(names, f.name)
	}
	for _, f := range s.adds {
		names = append(names, f.name)
	}
	return names
}

func (s *solid) compose(eng boolean.Engine) (sdf.SDF3, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := s.body
	var err error
	for _, f := range s.cuts {
		out, err = eng.Subtract(boolean.Label(out, s.label), boolean.Label(f.s, s.label+"/"+f.name))
		if err != nil {
			return nil, fmt.Errorf("subtract %s: %w", f.name, err)
		}
	}
	for _, f := range s.adds {
		out, err = eng.Union(boolean.Label(out, s.label), boolean.Label(f.s, s.label+"/"+f.name))
		if err != nil {
			return nil, fmt.Errorf("union %s: %w", f.name, err)
		}
	}
	return out, nil
}

// onBed moves s so it rests on z=0, the orientation every part is
// exported in. The post axis stays on the z axis.
func onBed(s sdf.SDF3) sdf.SDF3 {
	return sdf.Transform3D(s, d3.Translation(r3.Vec{Z: -s.Bounds().Min.Z}))
}

func at(x, y, z float64) d3.Transform {
	return d3.Translation(r3.Vec{X: x, Y: y, Z: z})
}

// flipped turns a feature built on a top face so it works on a bottom
// face at (x, y, z). The half turn is about y so positions keep their y.
func flipped(x, y, z float64) d3.Transform {
	return at(x, y, z).Mul(d3.RotationY(math.Pi))
}
