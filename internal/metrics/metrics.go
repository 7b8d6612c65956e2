// Package metrics holds the Prometheus collectors of a generation run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector bundles the run metrics. A nil *Collector records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	PartsGenerated *prometheus.CounterVec
	BooleanOps     *prometheus.CounterVec
	GeometryErrors prometheus.Counter
	MeshSeconds    prometheus.Histogram
	MeshTriangles  *prometheus.GaugeVec
}

// New registers the collectors against reg, defaulting to the global
// registry when nil. Registering twice against the same registry returns
// the collectors already there.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	parts, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "signpost_parts_generated_total",
		Help: "Parts meshed and validated, labeled by kind.",
	}, []string{"kind"}), "signpost_parts_generated_total")
	if err != nil {
		return nil, err
	}
	ops, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "signpost_boolean_ops_total",
		Help: "Solid compositions, labeled by op (union or subtract).",
	}, []string{"op"}), "signpost_boolean_ops_total")
	if err != nil {
		return nil, err
	}
	geomErrs, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "signpost_geometry_errors_total",
		Help: "Parts that failed composition or mesh validation.",
	}), "signpost_geometry_errors_total")
	if err != nil {
		return nil, err
	}
	seconds, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "signpost_mesh_seconds",
		Help:    "Time spent meshing one part.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}), "signpost_mesh_seconds")
	if err != nil {
		return nil, err
	}
	tris, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "signpost_mesh_triangles",
		Help: "Triangle count of the last mesh of each part.",
	}, []string{"part"}), "signpost_mesh_triangles")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:       gatherer,
		PartsGenerated: parts,
		BooleanOps:     ops,
		GeometryErrors: geomErrs,
		MeshSeconds:    seconds,
		MeshTriangles:  tris,
	}, nil
}

// Gatherer returns the gatherer the collectors were registered with.
func (c *Collector) Gatherer() prometheus.Gatherer {
	if c == nil || c.gatherer == nil {
		return prometheus.DefaultGatherer
	}
	return c.gatherer
}

// BooleanOp counts one composition.
func (c *Collector) BooleanOp(op string) {
	if c == nil {
		return
	}
	c.BooleanOps.WithLabelValues(op).Inc()
}

// PartMeshed records a validated part.
func (c *Collector) PartMeshed(part, kind string, triangles int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.PartsGenerated.WithLabelValues(kind).Inc()
	c.MeshSeconds.Observe(elapsed.Seconds())
	c.MeshTriangles.WithLabelValues(part).Set(float64(triangles))
}

// GeometryError counts a failed part.
func (c *Collector) GeometryError() {
	if c == nil {
		return
	}
	c.GeometryErrors.Inc()
}

// WriteFile writes the gathered metrics in the text exposition format.
func (c *Collector) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, c.Gatherer())
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return c, nil
}
