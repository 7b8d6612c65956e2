package form2

import (
	"github.com/signpost3d/signpost/form2/must2"
)

// NewPolygon returns an empty polygon builder. Build the vertex list with
// Add and pass Vertices to Polygon.
func NewPolygon() *must2.PolygonBuilder {
	return must2.NewPolygon()
}
