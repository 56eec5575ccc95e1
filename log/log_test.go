package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func plain(buf *bytes.Buffer, opts ...Option) Logger {
	return Make(buf, append([]Option{WithTimeLayout("none"), WithPretty(false)}, opts...)...)
}

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	logger := Make(&bytes.Buffer{})

	if logger.Level() != DefaultLevel {
		t.Errorf("expected default level %v, got %v", DefaultLevel, logger.Level())
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("expected default format %v, got %v", DefaultFormat, logger.Format())
	}

	if logger.caller != DefaultCaller || logger.pretty != DefaultPretty {
		t.Errorf("unexpected defaults: caller=%v pretty=%v", logger.caller, logger.pretty)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(Logger, string, ...slog.Attr)
		min     Level
		logged  bool
	}{
		{"trace at trace", Logger.Trace, LevelTrace, true},
		{"trace at debug", Logger.Trace, LevelDebug, false},
		{"debug at debug", Logger.Debug, LevelDebug, true},
		{"debug at info", Logger.Debug, LevelInfo, false},
		{"info at info", Logger.Info, LevelInfo, true},
		{"info at warn", Logger.Info, LevelWarn, false},
		{"warn at warn", Logger.Warn, LevelWarn, true},
		{"error at warn", Logger.Error, LevelWarn, true},
		{"warn at error", Logger.Warn, LevelError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.logFunc(plain(&buf, WithLevel(tt.min)), "message")

			if got := buf.Len() > 0; got != tt.logged {
				t.Errorf("logged = %v, want %v: %q", got, tt.logged, buf.String())
			}
		})
	}
}

func TestLogger_LevelLabels(t *testing.T) {
	var buf bytes.Buffer

	logger := plain(&buf, WithLevel(LevelTrace))
	logger.Trace("t")
	logger.Error("e")

	out := buf.String()
	if !strings.Contains(out, "level=TRACE msg=t") {
		t.Errorf("missing TRACE label: %q", out)
	}

	if !strings.Contains(out, "level=ERROR msg=e") {
		t.Errorf("missing ERROR label: %q", out)
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := plain(&buf, WithFormat(FormatJSON))
	logger.Warn("test message", slog.String("key", "value"), slog.Int("n", 3))

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON output: %v\n%s", err, buf.String())
	}

	want := map[string]any{"level": "WARN", "msg": "test message", "key": "value", "n": float64(3)}
	for k, v := range want {
		if result[k] != v {
			t.Errorf("%s: got %v, want %v", k, result[k], v)
		}
	}

	if _, ok := result["time"]; ok {
		t.Error("time present with layout none")
	}
}

func TestLogger_TimeLayout(t *testing.T) {
	tests := []struct {
		layout   string
		contains string
	}{
		{"RFC3339", "T"},
		{"rfc-3339-nano", "T"},
		{"StampMilli", "."},
		{"kitchen", "M"},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			var buf bytes.Buffer

			logger := Make(&buf, WithTimeLayout(tt.layout), WithPretty(false), WithFormat(FormatJSON))
			logger.Error("x")

			var result map[string]any
			if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
				t.Fatal(err)
			}

			ts, _ := result["time"].(string)
			if !strings.Contains(ts, tt.contains) {
				t.Errorf("time %q does not contain %q", ts, tt.contains)
			}
		})
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	plain(&buf, WithCaller(true)).Error("here")

	if !strings.Contains(buf.String(), "log_test.go:") {
		t.Errorf("expected call site in output: %q", buf.String())
	}

	buf.Reset()
	plain(&buf).Error("here")

	if strings.Contains(buf.String(), "source=") {
		t.Errorf("unexpected source in output: %q", buf.String())
	}
}

func TestLogger_Wrap_DoesNotModifyOriginal(t *testing.T) {
	var buf bytes.Buffer

	base := plain(&buf, WithLevel(LevelError))
	wrapped := base.Wrap(WithLevel(LevelDebug))

	if base.Level() != LevelError || wrapped.Level() != LevelDebug {
		t.Errorf("levels: base=%v wrapped=%v", base.Level(), wrapped.Level())
	}

	base.Debug("hidden")
	wrapped.Debug("shown")

	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer

	logger := plain(&buf).With(slog.String("component", "parser"))
	logger.Warn("hello")

	if !strings.Contains(buf.String(), "component=parser") {
		t.Errorf("missing attribute: %q", buf.String())
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	l.Trace("test")
	l.Debug("test")
	l.Info("test")
	l.Warn("test")
	l.Error("test")

	if l.With(slog.String("key", "value")).Logger != nil {
		t.Error("expected nil logger from zero value With")
	}

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Error("zero value should report defaults")
	}

	var buf bytes.Buffer

	l.Wrap(WithOutput(&buf), WithTimeLayout("none"), WithPretty(false)).Error("wrapped")

	if !strings.Contains(buf.String(), "msg=wrapped") {
		t.Errorf("Wrap on zero value should produce a working logger: %q", buf.String())
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var (
		buf syncBuffer
		wg  sync.WaitGroup
	)

	logger := Make(&buf, WithTimeLayout("none"), WithPretty(false))

	for i := range 8 {
		wg.Go(func() {
			l := logger.Wrap(WithLevel(LevelDebug)).With(slog.Int("worker", i))
			for range 50 {
				l.Debug("tick")
			}
		})
	}

	wg.Wait()

	if n := strings.Count(buf.String(), "\n"); n != 400 {
		t.Errorf("got %d lines, want 400", n)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}
