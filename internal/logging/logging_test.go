package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewWithWriter_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, Config{Level: "debug", Format: "json"})

	log.With(String("scenario", "NOAA Weather Satellite")).Info(context.Background(), "evaluated",
		Float64("link_margin_db", 1.71),
		Bool("valid", true),
		Int("stages", 10),
		Err(errors.New("boom")),
	)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if rec["msg"] != "evaluated" || rec["scenario"] != "NOAA Weather Satellite" {
		t.Errorf("record = %v", rec)
	}
	if rec["link_margin_db"] != 1.71 || rec["valid"] != true || rec["error"] != "boom" {
		t.Errorf("record = %v", rec)
	}
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, Config{Level: "warn"})

	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("level filter output = %q", buf.String())
	}
}

func TestErrNil(t *testing.T) {
	if f := Err(nil); f.Key != "error" || f.Value != "" {
		t.Fatalf("Err(nil) = %+v", f)
	}
}

func TestWithRequestLogger_ReusesID(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx, _ = WithRequestLogger(ctx, nil)
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Fatalf("request id = %q", got)
	}

	fresh, _ := EnsureRequestID(context.Background())
	if id := RequestIDFromContext(fresh); len(id) != 32 {
		t.Fatalf("generated id %q, want 32 hex chars", id)
	}
	if LoggerFromContext(ContextWithLogger(ctx, nil)) == nil {
		t.Fatalf("ContextWithLogger(nil) should store a noop logger")
	}
}
