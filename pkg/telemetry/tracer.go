package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/petrijr/caseflow/pkg/api"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/credentials/insecure"
)

// NewTracerProvider builds a tracer provider for the configured exporter.
// With tracing disabled the provider records nothing.
func NewTracerProvider(ctx context.Context, cfg *Config) (*sdktrace.TracerProvider, error) {
	if !cfg.Tracing.Enabled {
		return sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.NeverSample())), nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace resource: %w", err)
	}

	var exporter sdktrace.SpanExporter
	switch cfg.Tracing.Exporter {
	case "otlp":
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Tracing.Endpoint)}
		if cfg.Tracing.Insecure {
			opts = append(opts, otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()))
		}
		exporter, err = otlptracegrpc.New(ctx, opts...)
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "none":
		// traces are generated but not exported
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.Tracing.Exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.Tracing.SamplingRate))),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter, sdktrace.WithExportTimeout(cfg.Tracing.ExportTimeout)))
	}
	return sdktrace.NewTracerProvider(opts...), nil
}

// TracingObserver opens one span per case call and a child span per
// resolved step.
type TracingObserver struct {
	tracer trace.Tracer

	mu    sync.Mutex
	cases map[string]trace.Span
	steps map[stepKey]trace.Span
}

type stepKey struct {
	execution string
	step      string
	idx       int
}

var _ api.Observer = (*TracingObserver)(nil)

// NewTracingObserver creates an Observer that records spans with tp.
func NewTracingObserver(tp trace.TracerProvider) *TracingObserver {
	return &TracingObserver{
		tracer: tp.Tracer("github.com/petrijr/caseflow"),
		cases:  make(map[string]trace.Span),
		steps:  make(map[stepKey]trace.Span),
	}
}

func (o *TracingObserver) OnCaseStart(ctx context.Context, exec *api.Execution) {
	_, span := o.tracer.Start(ctx, "case "+exec.Case,
		trace.WithTimestamp(exec.StartedAt),
		trace.WithAttributes(
			attribute.String("case.name", exec.Case),
			attribute.String("case.execution_id", exec.ID),
		),
	)
	o.mu.Lock()
	o.cases[exec.ID] = span
	o.mu.Unlock()
}

func (o *TracingObserver) OnCaseSucceeded(ctx context.Context, exec *api.Execution) {
	span := o.takeCase(exec.ID)
	if span == nil {
		return
	}
	span.SetAttributes(attribute.String("case.outcome", string(exec.Outcome())))
	span.SetStatus(codes.Ok, "")
	span.End()
}

func (o *TracingObserver) OnCaseFailed(ctx context.Context, exec *api.Execution, failure any) {
	span := o.takeCase(exec.ID)
	if span == nil {
		return
	}
	outcome := exec.Outcome()
	span.SetAttributes(attribute.String("case.outcome", string(outcome)))
	if err, ok := failure.(error); ok {
		span.RecordError(err)
	}
	if outcome == api.OutcomeFault {
		span.SetStatus(codes.Error, fmt.Sprint(failure))
	}
	span.End()
}

func (o *TracingObserver) OnStepStart(ctx context.Context, exec *api.Execution, step string, idx int) {
	o.mu.Lock()
	parent := o.cases[exec.ID]
	o.mu.Unlock()
	if parent != nil {
		ctx = trace.ContextWithSpan(ctx, parent)
	}

	_, span := o.tracer.Start(ctx, "step "+step,
		trace.WithAttributes(
			attribute.String("step.name", step),
			attribute.Int("step.index", idx),
		),
	)
	o.mu.Lock()
	o.steps[stepKey{exec.ID, step, idx}] = span
	o.mu.Unlock()
}

func (o *TracingObserver) OnStepCompleted(ctx context.Context, exec *api.Execution, step string, idx int, err error, d time.Duration) {
	key := stepKey{exec.ID, step, idx}
	o.mu.Lock()
	span := o.steps[key]
	delete(o.steps, key)
	o.mu.Unlock()
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (o *TracingObserver) takeCase(id string) trace.Span {
	o.mu.Lock()
	defer o.mu.Unlock()
	span := o.cases[id]
	delete(o.cases, id)
	return span
}
