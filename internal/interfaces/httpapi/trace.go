package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("contest-wheel/internal/interfaces/httpapi")
var noopSpan = trace.SpanFromContext(context.Background())

// spanPathValues maps route wildcards to the span attributes shared with
// the usecase layer.
var spanPathValues = []struct {
	wildcard string
	key      attribute.Key
}{
	{wildcard: "competitionID", key: "competition.id"},
	{wildcard: "participantID", key: "participant.id"},
	{wildcard: "submissionID", key: "submission.id"},
	{wildcard: "runID", key: "wheel_run.id"},
}

// startSpan opens handler and admin-auth spans under the otelhttp server
// span. Every other helper reuses the parent.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, noopSpan
	}
	if !shouldCreateHTTPAPISpan(name) {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.") || name == "httpapi.RequireAdminToken"
}

// requestAttributes returns the contest identifiers bound by the matched
// route.
func requestAttributes(r *http.Request) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(spanPathValues))
	for _, pv := range spanPathValues {
		if value := strings.TrimSpace(r.PathValue(pv.wildcard)); value != "" {
			attrs = append(attrs, pv.key.String(value))
		}
	}
	return attrs
}
