package boolean

import "github.com/signpost3d/signpost/sdf"

type labelled struct {
	sdf.SDF3
	name string
}

// Label attaches a name to s for recording and tracing. Evaluation is
// unchanged.
func Label(s sdf.SDF3, name string) sdf.SDF3 {
	if s == nil {
		return nil
	}
	if l, ok := s.(labelled); ok {
		s = l.SDF3
	}
	return labelled{SDF3: s, name: name}
}

// LabelOf returns the name attached by Label, or "".
func LabelOf(s sdf.SDF3) string {
	if l, ok := s.(labelled); ok {
		return l.name
	}
	return ""
}
