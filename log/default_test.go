package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func withDefault(t *testing.T, opts ...Option) *bytes.Buffer {
	t.Helper()

	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	var buf bytes.Buffer

	SetDefault(Make(&buf, append([]Option{WithTimeLayout("none"), WithPretty(false)}, opts...)...))

	return &buf
}

func TestPackage_LogFunctions_UseDefaultLogger(t *testing.T) {
	buf := withDefault(t, WithLevel(LevelTrace))

	ctx := context.Background()

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Trace", Trace, "TRACE"},
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
		{"TraceContext", func(m string, a ...slog.Attr) { TraceContext(ctx, m, a...) }, "TRACE"},
		{"DebugContext", func(m string, a ...slog.Attr) { DebugContext(ctx, m, a...) }, "DEBUG"},
		{"InfoContext", func(m string, a ...slog.Attr) { InfoContext(ctx, m, a...) }, "INFO"},
		{"WarnContext", func(m string, a ...slog.Attr) { WarnContext(ctx, m, a...) }, "WARN"},
		{"ErrorContext", func(m string, a ...slog.Attr) { ErrorContext(ctx, m, a...) }, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("message", slog.String("key", "value"))

			want := "level=" + tt.level + " msg=message key=value\n"
			if got := buf.String(); got != want {
				t.Errorf("got %q, want %q", got, want)
			}
		})
	}
}

func TestPackage_Config_Reconfigures(t *testing.T) {
	buf := withDefault(t)

	Info("hidden")

	Config(WithLevel(LevelInfo), WithFormat(FormatJSON))
	Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info logged below default level: %q", out)
	}

	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("Config not applied: %q", out)
	}
}

func TestPackage_With(t *testing.T) {
	buf := withDefault(t)

	With(slog.String("file", "a.do")).Warn("w")

	if !strings.Contains(buf.String(), "file=a.do") {
		t.Errorf("got %q", buf.String())
	}
}

func TestPackage_Caller_IsCallSite(t *testing.T) {
	buf := withDefault(t, WithCaller(true))

	Warn("here")

	if !strings.Contains(buf.String(), "default_test.go:") {
		t.Errorf("caller is not the call site: %q", buf.String())
	}
}
