package assemble

import (
	"fmt"

	"github.com/signpost3d/signpost/plan"
	"gonum.org/v1/gonum/spatial/r2"
)

// joinOffsets are the positions of the two join pins. They are placed off
// any symmetry of the post so the halves join one way only.
func (r *run) joinOffsets() [2]r2.Vec {
	R := r.d.PostRadius
	return [2]r2.Vec{{X: 0.45 * R}, {X: -0.28 * R, Y: -0.27 * R}}
}

// slotCenter is the height of the center of slot j above the foot of a
// fused post.
func (r *run) slotCenter(j int) float64 {
	return (float64(j) + 0.5) * r.d.SegmentHeight
}

// postLower is the base fused with the lower half of the post. Its slots
// are filled from the bottom.
func (r *run) postLower(label string, slots []plan.Slot) *solid {
	d := r.d
	s := r.base(label, d.TwoPartPostHeight)
	for j, sl := range slots {
		r.slot(s, fmt.Sprintf("flat-%d", j+1), sl.Bearing, d.BaseHeight+r.slotCenter(j), sl.Pattern)
	}
	top := d.BaseHeight + d.TwoPartPostHeight
	for k, p := range r.joinOffsets() {
		pin, err := r.b.Pin(d.JoinPinRadii[k], d.JoinPinLength)
		s.add(fmt.Sprintf("join-pin-%d", k+1), pin, at(p.X, p.Y, top), err)
	}
	return s
}

// postUpper is the upper half of the post with the remaining slots and a
// chamfered top.
func (r *run) postUpper(label string, slots []plan.Slot) *solid {
	d := r.d
	body, err := r.b.ChamferedCylinder(d.PostRadius, d.TwoPartPostHeight, d.TopperChamfer)
	s := newSolid(label, body, err)
	for k, p := range r.joinOffsets() {
		hole, err := r.b.Hole(d.JoinPinRadii[k], d.JoinPinLength)
		s.cut(fmt.Sprintf("join-hole-%d", k+1), hole, flipped(p.X, p.Y, 0), err)
	}
	for j, sl := range slots {
		r.slot(s, fmt.Sprintf("flat-%d", j+1), sl.Bearing, r.slotCenter(j), sl.Pattern)
	}
	return s
}
