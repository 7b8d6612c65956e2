// Package tracing sets up OpenTelemetry spans for a generation run.
package tracing

import (
	"context"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// InstrumentationName names the tracer handed to the assembler.
const InstrumentationName = "github.com/signpost3d/signpost"

// Config governs how tracing is initialised.
type Config struct {
	Enabled bool
	// Writer receives the exported spans. Defaults to stdout.
	Writer io.Writer
	// Pretty indents the exported JSON.
	Pretty bool
}

// Init installs the global tracer provider: a stdout exporter when cfg is
// enabled, a noop provider otherwise. The returned function flushes and
// stops the exporter.
func Init(cfg Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.Enabled {
		tp := noop.NewTracerProvider()
		otel.SetTracerProvider(tp)
		return tp.Tracer(InstrumentationName), func(context.Context) error { return nil }, nil
	}
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	opts := []stdouttrace.Option{stdouttrace.WithWriter(w)}
	if cfg.Pretty {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exp, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exp),
	)
	otel.SetTracerProvider(tp)
	return tp.Tracer(InstrumentationName), tp.Shutdown, nil
}

// Nop returns a tracer that records nothing.
func Nop() trace.Tracer {
	return noop.NewTracerProvider().Tracer(InstrumentationName)
}
