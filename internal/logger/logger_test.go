package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithFieldsSkipsEmptyStrings(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	WithFields(log,
		zap.String(FieldJobTitle, "Backend Engineer"),
		zap.String(FieldFilename, "  "),
		zap.Int("count", 2),
	).Info("scored")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldJobTitle] != "Backend Engineer" {
		t.Fatalf("expected job title field, got %v", ctx[FieldJobTitle])
	}
	if _, ok := ctx[FieldFilename]; ok {
		t.Fatalf("expected empty filename field to be dropped")
	}
	if ctx["count"] != int64(2) {
		t.Fatalf("expected count 2, got %v", ctx["count"])
	}
}

func TestWithFieldsNilLogger(t *testing.T) {
	if WithFields(nil) == nil {
		t.Fatal("expected no-op logger for nil input")
	}
}

func TestTruncateForLog(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{name: "short", in: "  hello  ", limit: 10, want: "hello"},
		{name: "truncated", in: "abcdefgh", limit: 3, want: "abc..."},
		{name: "zero limit", in: "abc", limit: 0, want: ""},
		{name: "multibyte", in: "héllo wörld", limit: 5, want: "héllo..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateForLog(tt.in, tt.limit); got != tt.want {
				t.Errorf("TruncateForLog(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	log, err := New(true, true)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !log.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("expected debug level to be enabled")
	}
}
