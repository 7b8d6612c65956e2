package signpost

import "fmt"

// ConfigError reports malformed or out of range input. It is returned
// before any geometry is built.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// DomainError reports geographic input that has no defined answer, such
// as the bearing between two identical points.
type DomainError struct {
	Op  string
	Err error
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// GeometryError reports a part that could not be composed into a single
// closed manifold mesh. Segment is the plan sequence index, or 0 when the
// part has no segment.
type GeometryError struct {
	Part    string
	Segment int
	Err     error
}

func (e *GeometryError) Error() string {
	if e.Segment > 0 {
		return fmt.Sprintf("part %s (segment %d): %v", e.Part, e.Segment, e.Err)
	}
	return fmt.Sprintf("part %s: %v", e.Part, e.Err)
}

func (e *GeometryError) Unwrap() error { return e.Err }
