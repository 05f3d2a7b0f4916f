package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerAddsTraceFields(t *testing.T) {
	core, logs := observer.New(LevelDebug)
	logger := FromZap(zap.New(core))

	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1, 2, 3},
		SpanID:     trace.SpanID{4, 5, 6},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

	logger.InfoContext(ctx, "wheel locked", "competition_id", "c1", "total_tickets", int64(10))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["competition_id"] != "c1" {
		t.Fatalf("missing competition_id: %+v", fields)
	}
	if fields["total_tickets"] != int64(10) {
		t.Fatalf("unexpected total_tickets: %+v", fields)
	}
	if fields["trace_id"] != spanCtx.TraceID().String() || fields["span_id"] != spanCtx.SpanID().String() {
		t.Fatalf("missing trace fields: %+v", fields)
	}
}

func TestLoggerFieldEdgeCases(t *testing.T) {
	core, logs := observer.New(LevelDebug)
	logger := FromZap(zap.New(core)).With("component", "test")

	logger.Warn("odd args", 42, "value", "dangling")
	logger.Error("failed", "error", errors.New("boom"))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected two entries, got %d", len(entries))
	}
	first := entries[0].ContextMap()
	if first["component"] != "test" || first["arg"] != "value" {
		t.Fatalf("unexpected fields: %+v", first)
	}
	if _, ok := first["dangling"]; !ok {
		t.Fatalf("expected dangling key to be kept: %+v", first)
	}
	if entries[1].ContextMap()["error"] != "boom" {
		t.Fatalf("expected error field, got %+v", entries[1].ContextMap())
	}
}

func TestNewWritesJSONWithServiceFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelInfo, Service: "contest-wheel", Environment: "dev", Output: &buf})

	logger.DebugContext(context.Background(), "hidden")
	logger.Info("visible")
	_ = logger.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry must be filtered at info level: %s", out)
	}
	if !strings.Contains(out, `"msg":"visible"`) || !strings.Contains(out, `"service":"contest-wheel"`) || !strings.Contains(out, `"env":"dev"`) {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for raw, want := range tests {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", raw, got, want)
		}
	}
}
