// Package assemble turns a configuration and its segment plan into
// printable parts. Every part is composed from the primitive solids in a
// fixed order, meshed and checked to be one closed manifold before it is
// handed out.
package assemble

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/signpost3d/signpost"
	"github.com/signpost3d/signpost/boolean"
	"github.com/signpost3d/signpost/internal/logging"
	"github.com/signpost3d/signpost/internal/metrics"
	"github.com/signpost3d/signpost/internal/tracing"
	"github.com/signpost3d/signpost/plan"
	"github.com/signpost3d/signpost/primitive"
	"github.com/signpost3d/signpost/render"
	"github.com/signpost3d/signpost/sdf"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	ErrEmptyMesh          = errors.New("mesh is empty")
	ErrMultipleComponents = errors.New("mesh has more than one connected component")
)

// Kind is the role of a generated part.
type Kind string

const (
	KindBase      Kind = "base"
	KindSegment   Kind = "segment"
	KindSpacer    Kind = "spacer"
	KindTopper    Kind = "topper"
	KindSign      Kind = "sign"
	KindPostLower Kind = "post_lower"
	KindPostUpper Kind = "post_upper"
)

// Metadata is what the exporter is told about a part besides its mesh.
type Metadata struct {
	Kind Kind `json:"kind"`
	// Segment is the plan sequence index, 0 for signs and fused halves.
	Segment       int      `json:"segment,omitempty"`
	Location      string   `json:"location,omitempty"`
	Bearing       *float64 `json:"bearing,omitempty"`
	DistanceKm    *float64 `json:"distance_km,omitempty"`
	ID            int      `json:"id,omitempty"`
	Pattern       string   `json:"pattern,omitempty"`
	SignColor     string   `json:"sign_color,omitempty"`
	TextColor     string   `json:"text_color,omitempty"`
	Font          string   `json:"font,omitempty"`
	Features      []string `json:"features"`
	DistanceLines []string `json:"distance_lines,omitempty"`
	Engraving     []string `json:"engraving,omitempty"`
	PointsLeft    bool     `json:"points_left,omitempty"`
	LengthMM      float64  `json:"length_mm,omitempty"`
	Components    int      `json:"components"`
	Triangles     int      `json:"triangles"`
}

// Outline is the flat profile of a sign plate, for cutting files.
type Outline struct {
	Plate      []r2.Vec
	Holes      []r2.Vec
	HoleRadius float64
}

// Part is one printable object.
type Part struct {
	Name string
	Mesh render.Mesh
	Meta Metadata
	// Outline is set for signs only.
	Outline *Outline
}

// Assembler builds parts. The zero value is not ready; use New.
type Assembler struct {
	Engine  boolean.Engine
	Dims    primitive.Dims
	Log     zerolog.Logger
	Metrics *metrics.Collector
	Tracer  trace.Tracer
}

// New returns an Assembler composing with eng, or with the SDF engine
// when eng is nil. It logs and traces nothing until told otherwise.
func New(eng boolean.Engine) *Assembler {
	if eng == nil {
		eng = boolean.SDF{}
	}
	return &Assembler{
		Engine: eng,
		Dims:   primitive.DefaultDims(),
		Log:    logging.Nop(),
		Tracer: tracing.Nop(),
	}
}

// run is the state shared by the parts of one Generate call. It is read
// only once the jobs start.
type run struct {
	b    primitive.Builder
	d    primitive.Dims
	eng  boolean.Engine
	cfg  signpost.Config
	opts signpost.Options
	segs []plan.Segment
}

// job is one part waiting to be built.
type job struct {
	name  string
	build func() *solid
	meta  Metadata
	sign  *signLayout
}

// Generate builds every part of cfg. Configuration problems, signs that
// cannot fit included, are reported as a ConfigError before any geometry
// is built. A part that cannot be made into a single closed mesh is a
// GeometryError; with several failures the one reported is that of the
// earliest part in the order base, stack, topper, signs.
func (a *Assembler) Generate(ctx context.Context, cfg signpost.Config, opts signpost.Options) (map[string]Part, error) {
	r, err := a.newRun(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}
	jobs, err := r.jobs()
	if err != nil {
		return nil, err
	}
	a.Log.Info().Str("name", cfg.Name).Str("layout", r.opts.Layout.String()).
		Int("parts", len(jobs)).Int("parallel", r.opts.Parallelism).Msg("generating parts")

	parts, err := a.runJobs(ctx, r, jobs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Part, len(parts))
	for _, p := range parts {
		out[p.Name] = p
	}
	return out, nil
}

// newRun validates the input and plans the stack.
func (a *Assembler) newRun(ctx context.Context, cfg signpost.Config, opts signpost.Options) (*run, error) {
	opts = opts.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(cfg); err != nil {
		return nil, err
	}
	_, span := a.Tracer.Start(ctx, "plan")
	segs, err := plan.Plan(cfg, opts)
	span.SetAttributes(attribute.Int("segments", len(segs)))
	span.End()
	if err != nil {
		return nil, err
	}
	return &run{
		b:    primitive.New(a.Dims, opts.Material),
		d:    a.Dims,
		eng:  metered{Engine: a.Engine, m: a.Metrics},
		cfg:  cfg,
		opts: opts,
		segs: segs,
	}, nil
}

// jobs lists the parts in canonical order. Sign layouts are fitted here
// so an oversized name fails before anything is meshed.
func (r *run) jobs() ([]job, error) {
	var jobs []job
	name := fileName(r.cfg.Name)
	engraving := []string{Author, fmt.Sprintf("© %d", r.opts.Year())}

	switch r.opts.Layout.(type) {
	case signpost.TwoPart:
		lower, upper, err := plan.Slots(r.segs, signpost.TwoPartSlots)
		if err != nil {
			return nil, &signpost.ConfigError{Field: "layout", Err: err}
		}
		jobs = append(jobs,
			job{
				name:  name + "_post_lower",
				build: func() *solid { return r.postLower(name+"_post_lower", lower) },
				meta:  Metadata{Kind: KindPostLower, Location: r.cfg.Home.Label(), Engraving: engraving},
			},
			job{
				name:  name + "_post_upper",
				build: func() *solid { return r.postUpper(name+"_post_upper", upper) },
				meta:  Metadata{Kind: KindPostUpper},
			})
	default:
		spacer := 0
		for i, seg := range r.segs {
			i := i // per-iteration copy; module targets go 1.21 loop semantics
			j := job{meta: Metadata{Segment: seg.SequenceIndex, Pattern: topFace(r.segs, i).String()}}
			switch seg.Kind {
			case plan.Base:
				j.name = name + "_base_segment"
				j.meta.Kind = KindBase
				j.meta.Location = r.cfg.Home.Label()
				j.meta.Engraving = engraving
				j.build = func() *solid { return r.baseSegment(j.name) }
			case plan.Destination:
				j.name = fmt.Sprintf("%s_segment_%d", name, seg.IDValue)
				j.meta.Kind = KindSegment
				j.meta.Location = r.cfg.Destinations[seg.Destination].Label()
				j.meta.ID = seg.IDValue
				j.meta.Bearing = seg.Bearing
				j.meta.DistanceKm = seg.Distance
				j.meta.Pattern = seg.Pattern().String()
				j.build = func() *solid { return r.segment(j.name, i) }
			case plan.Spacer:
				spacer++
				j.name = fmt.Sprintf("%s_spacer_%d", name, spacer)
				j.meta.Kind = KindSpacer
				j.build = func() *solid { return r.segment(j.name, i) }
			case plan.Topper:
				j.name = name + "_topper"
				j.meta.Kind = KindTopper
				j.meta.Pattern = ""
				j.build = func() *solid { return r.topper(j.name, i) }
			}
			jobs = append(jobs, j)
		}
	}

	home, err := r.layoutSign(r.cfg.Home, "home.name", nil)
	if err != nil {
		return nil, err
	}
	jobs = append(jobs, r.signJob(name, 1, home, nil))
	for _, seg := range plan.Destinations(r.segs) {
		seg := seg // per-iteration copy; module targets go 1.21 loop semantics
		loc := r.cfg.Destinations[seg.Destination]
		l, err := r.layoutSign(loc, fmt.Sprintf("locations[%d].name", seg.Destination), &seg)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, r.signJob(name, seg.IDValue+1, l, &seg))
	}
	return jobs, nil
}

func (r *run) signJob(name string, n int, l signLayout, seg *plan.Segment) job {
	j := job{
		name: fmt.Sprintf("%s_sign_%d_%s", name, n, fileName(l.loc.Name)),
		meta: Metadata{
			Kind:       KindSign,
			Location:   l.loc.Label(),
			Pattern:    l.pattern.String(),
			SignColor:  l.loc.SignColor,
			TextColor:  l.loc.TextColor,
			Font:       primitive.FontName(l.loc.Font),
			PointsLeft: l.left,
			LengthMM:   l.length,
		},
		sign: &l,
	}
	if seg != nil {
		j.meta.ID = seg.IDValue
		j.meta.Bearing = seg.Bearing
		j.meta.DistanceKm = seg.Distance
		j.meta.DistanceLines = l.lines[:]
	}
	j.build = func() *solid { return r.sign(j.name, l) }
	return j
}

// fileName makes s safe as part of a file name.
func fileName(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
	return strings.ReplaceAll(s, ",", "")
}

// runJobs builds the parts, at most opts.Parallelism at a time. Jobs are
// started in canonical order. When one fails every later job is
// cancelled, so the error kept is that of the earliest failing part
// whatever the timing.
func (a *Assembler) runJobs(ctx context.Context, r *run, jobs []job) ([]Part, error) {
	n := len(jobs)
	parts := make([]Part, n)
	errs := make([]error, n)
	ctxs := make([]context.Context, n)
	cancels := make([]context.CancelFunc, n)
	for i := range jobs {
		ctxs[i], cancels[i] = context.WithCancel(ctx)
	}
	defer func() {
		for _, cancel := range cancels {
			cancel()
		}
	}()

	var (
		mu     sync.Mutex
		failed = n
		g      errgroup.Group
	)
	g.SetLimit(r.opts.Parallelism)
	for i := range jobs {
		i := i // per-iteration copy; module targets go 1.21 loop semantics
		g.Go(func() error {
			mu.Lock()
			skip := i > failed
			mu.Unlock()
			if skip {
				return nil
			}
			p, err := a.part(ctxs[i], r, jobs[i])
			if err == nil {
				parts[i] = p
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			errs[i] = err
			if i < failed {
				failed = i
				for _, cancel := range cancels[i+1:] {
					cancel()
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return parts, nil
}

// part composes, meshes and validates one job.
func (a *Assembler) part(ctx context.Context, r *run, j job) (p Part, err error) {
	ctx, span := a.Tracer.Start(ctx, "part", trace.WithAttributes(
		attribute.String("part", j.name),
		attribute.String("kind", string(j.meta.Kind)),
		attribute.Int("segment", j.meta.Segment),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	log := a.Log.With().Str("part", j.name).Int("segment", j.meta.Segment).Logger()
	log.Debug().Msg("assembling part")
	start := time.Now()

	fail := func(err error) (Part, error) {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return Part{}, err
		}
		a.Metrics.GeometryError()
		return Part{}, &signpost.GeometryError{Part: j.name, Segment: j.meta.Segment, Err: err}
	}

	s := j.build()
	solid, err := s.compose(r.eng)
	if err != nil {
		return fail(err)
	}
	mesher, err := render.NewOctreeMesher(onBed(solid), r.opts.Resolution)
	if err != nil {
		return fail(err)
	}
	m, err := mesher.Mesh(ctx)
	if err != nil {
		return fail(err)
	}
	// one pass only; a mesh that needs more repair than this is rejected
	m = m.Normalize()
	if m.Empty() {
		return fail(ErrEmptyMesh)
	}
	if err := m.CheckManifold(); err != nil {
		return fail(err)
	}
	comps := m.Components()
	if comps != 1 {
		log.Warn().Int("components", comps).Msg("part is not one piece")
		return fail(fmt.Errorf("%w: %d", ErrMultipleComponents, comps))
	}

	elapsed := time.Since(start)
	a.Metrics.PartMeshed(j.name, string(j.meta.Kind), len(m.Faces), elapsed)
	log.Debug().Int("triangles", len(m.Faces)).Int("components", comps).
		Dur("elapsed", elapsed).Msg("part done")

	p = Part{Name: j.name, Mesh: m, Meta: j.meta}
	p.Meta.Features = s.features()
	p.Meta.Components = comps
	p.Meta.Triangles = len(m.Faces)
	if j.sign != nil {
		p.Meta.Features = signFeatures(*j.sign)
		p.Outline = r.outline(*j.sign)
	}
	return p, nil
}

// outline is the cutting profile of the sign laid out by l.
func (r *run) outline(l signLayout) *Outline {
	rad, _ := r.pinSize(l.pattern)
	o := &Outline{Plate: l.outline(), HoleRadius: rad + r.d.PinClearance}
	for _, off := range r.signOffsets(l.pattern) {
		o.Holes = append(o.Holes, r2.Vec{Y: off})
	}
	return o
}

// metered counts the compositions it passes on.
type metered struct {
	boolean.Engine
	m *metrics.Collector
}

func (e metered) Union(a, b sdf.SDF3) (sdf.SDF3, error) {
	e.m.BooleanOp("union")
	return e.Engine.Union(a, b)
}

func (e metered) Subtract(a, b sdf.SDF3) (sdf.SDF3, error) {
	e.m.BooleanOp("subtract")
	return e.Engine.Subtract(a, b)
}
