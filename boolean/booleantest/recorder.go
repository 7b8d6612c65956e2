// Package booleantest provides a recording boolean.Engine for tests.
package booleantest

import (
	"fmt"
	"sync"

	"github.com/signpost3d/signpost/boolean"
	"github.com/signpost3d/signpost/sdf"
)

// Op is one recorded composition. Part is the label of the left operand
// and Feature the label of the right one.
type Op struct {
	Kind    string // "union" or "subtract"
	Part    string
	Feature string
}

func (o Op) String() string { return fmt.Sprintf("%s %s %s", o.Part, o.Kind, o.Feature) }

// Recorder wraps an Engine and records every call. Results keep the label
// of their left operand so the ops of one part stay grouped. It is safe
// for concurrent use.
type Recorder struct {
	// Engine does the work. A nil Engine uses boolean.SDF.
	Engine boolean.Engine
	// Fail, when set, is consulted before each op. A non-nil error is
	// returned in place of the result.
	Fail func(Op) error

	mu  sync.Mutex
	ops []Op
}

var _ boolean.Engine = (*Recorder)(nil)

func (r *Recorder) Union(a, b sdf.SDF3) (sdf.SDF3, error) {
	return r.do("union", a, b, r.engine().Union)
}

func (r *Recorder) Subtract(a, b sdf.SDF3) (sdf.SDF3, error) {
	return r.do("subtract", a, b, r.engine().Subtract)
}

func (r *Recorder) do(kind string, a, b sdf.SDF3, f func(a, b sdf.SDF3) (sdf.SDF3, error)) (sdf.SDF3, error) {
	op := Op{Kind: kind, Part: boolean.LabelOf(a), Feature: boolean.LabelOf(b)}
	r.mu.Lock()
	r.ops = append(r.ops, op)
	r.mu.Unlock()
	if r.Fail != nil {
		if err := r.Fail(op); err != nil {
			return nil, err
		}
	}
	s, err := f(a, b)
	if err != nil {
		return nil, err
	}
	return boolean.Label(s, op.Part), nil
}

func (r *Recorder) engine() boolean.Engine {
	if r.Engine == nil {
		return boolean.SDF{}
	}
	return r.Engine
}

// Ops returns a copy of the recorded ops in call order.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Op(nil), r.ops...)
}

// Part returns the recorded ops whose left operand is labelled part.
func (r *Recorder) Part(part string) []Op {
	var ops []Op
	for _, op := range r.Ops() {
		if op.Part == part {
			ops = append(ops, op)
		}
	}
	return ops
}

// Parts returns the distinct part labels in order of first use.
func (r *Recorder) Parts() []string {
	seen := make(map[string]bool)
	var parts []string
	for _, op := range r.Ops() {
		if !seen[op.Part] {
			seen[op.Part] = true
			parts = append(parts, op.Part)
		}
	}
	return parts
}

// Reset forgets the recorded ops.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.ops = nil
	r.mu.Unlock()
}
