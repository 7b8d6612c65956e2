// Command signpost turns a location file into printable direction sign
// parts.
//
//	signpost [flags] locations.json
//
// Every flag can also be set through the environment as SIGNPOST_<FLAG>,
// e.g. SIGNPOST_RESOLUTION=0.5.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/signpost3d/signpost"
	"github.com/signpost3d/signpost/assemble"
	"github.com/signpost3d/signpost/config"
	"github.com/signpost3d/signpost/export"
	"github.com/signpost3d/signpost/helpers/matter"
	"github.com/signpost3d/signpost/internal/logging"
	"github.com/signpost3d/signpost/internal/metrics"
	"github.com/signpost3d/signpost/internal/tracing"
	"github.com/signpost3d/signpost/plan"
	"github.com/signpost3d/signpost/preview"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	exitFailure = 1
	exitConfig  = 2
)

var errUsage = errors.New("expected exactly one location file")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "signpost:", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var cerr *signpost.ConfigError
	if errors.As(err, &cerr) || errors.Is(err, errUsage) {
		return exitConfig
	}
	return exitFailure
}

func flags(stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("signpost", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Int("spacers", 0, "blank segments added between the base and the topper")
	fs.Bool("coords", false, "engrave the home coordinates on the base")
	fs.String("layout", "four", "post layout: four (stacked segments) or two (halves)")
	fs.StringP("out", "o", ".", "output directory")
	fs.Float64("resolution", signpost.DefaultResolution, "mesh cell size in millimetres")
	fs.Bool("ascii", false, "write ASCII STL instead of binary")
	fs.Bool("dxf", false, "also write DXF outlines of the sign plates")
	fs.String("material", "", "compensate holes for shrinkage of this material ("+strings.Join(matter.Names(), ", ")+")")
	fs.Int("parallel", 1, "parts assembled at once")
	fs.Bool("preview", false, "render a PNG next to every part")
	fs.String("plan-geojson", "", "write the plan as GeoJSON to this file")
	fs.String("plan-svg", "", "write the plan as an SVG diagram to this file")
	fs.String("log-level", "info", "trace, debug, info, warn or error")
	fs.String("log-format", "console", "console or json")
	fs.String("metrics-file", "", "write Prometheus metrics in text format to this file")
	fs.Bool("trace", false, "print OpenTelemetry spans to stdout")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: signpost [flags] locations.json")
		fs.PrintDefaults()
	}
	return fs
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flags(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	v := viper.New()
	v.SetEnvPrefix("SIGNPOST")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}

	log, err := logging.New(logging.Config{
		Level:  v.GetString("log-level"),
		Format: v.GetString("log-format"),
	}, stderr)
	if err != nil {
		return &signpost.ConfigError{Field: "log", Err: err}
	}

	cfg, err := config.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	opts, err := options(v)
	if err != nil {
		return err
	}

	coll, err := metrics.New(prometheus.NewRegistry())
	if err != nil {
		return err
	}
	tracer, shutdown, err := tracing.Init(tracing.Config{Enabled: v.GetBool("trace"), Writer: stdout})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Warn().Err(err).Msg("flushing traces")
		}
	}()

	a := assemble.New(nil)
	a.Log = log
	a.Metrics = coll
	a.Tracer = tracer

	start := time.Now()
	parts, genErr := a.Generate(ctx, cfg, opts)
	if path := v.GetString("metrics-file"); path != "" {
		// written on failure too, the error counter is the interesting part
		if err := coll.WriteFile(path); err != nil {
			log.Error().Err(err).Str("file", path).Msg("writing metrics")
		}
	}
	if genErr != nil {
		return genErr
	}

	out := v.GetString("out")
	m, err := export.Write(out, cfg, parts, export.Options{
		ASCII: v.GetBool("ascii"),
		DXF:   v.GetBool("dxf"),
		Log:   log,
	})
	if err != nil {
		return err
	}
	if v.GetBool("preview") {
		if err := previews(out, parts, log); err != nil {
			return err
		}
	}
	if err := plans(v, cfg, opts); err != nil {
		return err
	}
	log.Info().Str("post", cfg.Name).Int("parts", len(m.Parts)).Str("out", out).
		Dur("elapsed", time.Since(start)).Msg("done")
	return nil
}

func options(v *viper.Viper) (signpost.Options, error) {
	layout, err := signpost.ParseLayout(v.GetString("layout"))
	if err != nil {
		return signpost.Options{}, err
	}
	opts := signpost.Options{
		Spacers:     v.GetInt("spacers"),
		Coords:      v.GetBool("coords"),
		Layout:      layout,
		Resolution:  v.GetFloat64("resolution"),
		Parallelism: v.GetInt("parallel"),
	}
	if name := v.GetString("material"); name != "" {
		mat, err := matter.Lookup(name)
		if err != nil {
			return signpost.Options{}, &signpost.ConfigError{Field: "material", Err: err}
		}
		opts.Material = &mat
	}
	return opts, nil
}

func previews(dir string, parts map[string]assemble.Part, log zerolog.Logger) error {
	for name, p := range parts {
		o := preview.DefaultOptions()
		o.Color = p.Meta.SignColor
		path := filepath.Join(dir, name+".png")
		if err := preview.WritePNG(path, p.Mesh, o); err != nil {
			return fmt.Errorf("preview %s: %w", name, err)
		}
		log.Debug().Str("part", name).Str("file", path).Msg("wrote preview")
	}
	return nil
}

func plans(v *viper.Viper, cfg signpost.Config, opts signpost.Options) error {
	geojson, svgPath := v.GetString("plan-geojson"), v.GetString("plan-svg")
	if geojson == "" && svgPath == "" {
		return nil
	}
	segs, err := plan.Plan(cfg, opts)
	if err != nil {
		return err
	}
	if geojson != "" {
		if err := export.WritePlanGeoJSON(geojson, cfg, segs); err != nil {
			return err
		}
	}
	if svgPath != "" {
		f, err := os.Create(svgPath)
		if err != nil {
			return err
		}
		if err := preview.PlanSVG(f, cfg, segs); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return nil
}
