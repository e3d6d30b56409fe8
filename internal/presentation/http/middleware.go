package httppresentation

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/Gustavonobregab/fastcv-payments/internal/observability"
	"github.com/Gustavonobregab/fastcv-payments/internal/observability/logctx"
)

type routeKey struct{}

func contextWithRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, routeKey{}, route)
}

// routeFromContext returns the low-cardinality route template, never the raw path.
func routeFromContext(ctx context.Context) string {
	route, _ := ctx.Value(routeKey{}).(string)
	if route == "" {
		return "unmatched"
	}
	return route
}

// withTrace extracts incoming W3C trace context so downstream spans join the
// caller's trace.
func (h *Handler) withTrace(next http.Handler) http.Handler {
	prop := otel.GetTextMapPropagator()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := prop.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withRequestScope generates (or echoes) X-Request-ID and stores a
// request-scoped logger on the context carrying only dynamic fields.
func (h *Handler) withRequestScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		rid := r.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", rid)

		fields := []observability.Field{observability.F("request_id", rid)}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		ctx = logctx.With(ctx, h.log.With(fields...))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withInstrumentation records the access log plus request counter and latency
// histogram, labelled by method, route template, and final status.
func (h *Handler) withInstrumentation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		route := routeFromContext(r.Context())
		statusLabel := strconv.Itoa(recorder.status)
		elapsed := time.Since(start)

		labels := []observability.Label{
			observability.L("method", r.Method),
			observability.L("route", route),
			observability.L("status", statusLabel),
		}
		h.tel.Counter(observability.MHTTPRequests).Add(1, labels...)
		h.tel.Histogram(observability.MHTTPRequestDuration).Observe(elapsed.Seconds(), labels...)

		logctx.FromOr(r.Context(), h.log).Info("http request",
			observability.F("method", r.Method),
			observability.F("route", route),
			observability.F("status", recorder.status),
			observability.F("duration_ms", elapsed.Milliseconds()),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
