package preview

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/signpost3d/signpost"
	"github.com/signpost3d/signpost/geo"
	"github.com/signpost3d/signpost/plan"
)

const (
	mapSize   = 600
	margin    = 60
	stackW    = 220
	rowHeight = 22
)

// PlanSVG draws the plan of cfg: a web mercator map of home and the
// destinations on the left and the segment stack, top first, on the
// right.
func PlanSVG(w io.Writer, cfg signpost.Config, segs []plan.Segment) error {
	home := geo.PointOf(cfg.Home)
	hx, hy := geo.WebMercator(home)
	xs, ys := []float64{hx}, []float64{hy}
	for _, d := range cfg.Destinations {
		x, y := geo.WebMercator(geo.PointOf(d))
		xs = append(xs, x)
		ys = append(ys, y)
	}
	minX, maxX := extent(xs)
	minY, maxY := extent(ys)
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	scale := (mapSize - 2*margin) / span
	// north up: mercator y grows northwards, svg y downwards
	px := func(x float64) int { return margin + int(math.Round((x-minX)*scale)) }
	py := func(y float64) int { return mapSize - margin - int(math.Round((y-minY)*scale)) }

	height := mapSize
	if h := (len(segs)+2)*rowHeight + margin; h > height {
		height = h
	}
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(mapSize+stackW, height)
	canvas.Title(cfg.Name)
	canvas.Rect(0, 0, mapSize+stackW, height, "fill:#FFF8E3")

	canvas.Gid("map")
	for _, s := range plan.Destinations(segs) {
		d := cfg.Destinations[s.Destination]
		x, y := geo.WebMercator(geo.PointOf(d))
		canvas.Line(px(hx), py(hy), px(x), py(y), "stroke:#468966;stroke-width:2")
		canvas.Circle(px(x), py(y), 5, "fill:#1f4e9c")
		label := fmt.Sprintf("%d %s, %s, %.0f°", s.IDValue, d.Name, geo.FormatDistance(*s.Distance, cfg.Units), *s.Bearing)
		canvas.Text(px(x)+8, py(y)-8, label, "font-family:sans-serif;font-size:12px")
	}
	canvas.Circle(px(hx), py(hy), 7, "fill:#b3262b")
	canvas.Text(px(hx)+10, py(hy)+16, cfg.Home.Name, "font-family:sans-serif;font-size:14px;font-weight:bold")
	canvas.Text(margin/2, margin/2, "N ↑", "font-family:sans-serif;font-size:14px")
	canvas.Gend()

	canvas.Gid("stack")
	x0 := mapSize + 10
	canvas.Text(x0, margin/2, "stack, top first", "font-family:sans-serif;font-size:14px")
	for i := len(segs) - 1; i >= 0; i-- {
		s := segs[i]
		y := margin/2 + (len(segs)-i)*rowHeight
		canvas.Rect(x0, y-rowHeight+6, stackW-20, rowHeight-4, "fill:none;stroke:#222222")
		canvas.Text(x0+6, y, stackLabel(cfg, s), "font-family:monospace;font-size:12px")
	}
	canvas.Gend()
	canvas.End()
	return ew.err
}

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func stackLabel(cfg signpost.Config, s plan.Segment) string {
	switch s.Kind {
	case plan.Destination:
		arrow := "→"
		if s.PointsLeft() {
			arrow = "←"
		}
		return fmt.Sprintf("%2d %s %s %s %.0f°", s.SequenceIndex, s.Pattern(), cfg.Destinations[s.Destination].Name, arrow, s.FlatBearing())
	case plan.Base:
		return fmt.Sprintf("%2d base, %s %.0f°", s.SequenceIndex, cfg.Home.Name, plan.HomeBearing)
	}
	return fmt.Sprintf("%2d %s", s.SequenceIndex, s.Kind)
}

func extent(v []float64) (lo, hi float64) {
	lo, hi = v[0], v[0]
	for _, x := range v[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}
