package oteltrace

import (
	"context"

	"github.com/Gustavonobregab/fastcv-payments/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type tracer struct{ t trace.Tracer }

// New wraps the globally configured OTel tracer. The SDK provider and exporter
// are expected to be installed by the deployment entrypoint.
func New(name string) observability.TraceCtx {
	if name == "" {
		name = "fastcv-payments"
	}
	return &tracer{t: otel.Tracer(name)}
}

func (t *tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.t.Start(ctx, name, trace.WithAttributes(attrs...))
}
