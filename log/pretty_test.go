package log

import (
	"bytes"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"testing"
)

var ansi = regexp.MustCompile("\033\\[[0-9;]*m")

func stripANSI(s string) string { return ansi.ReplaceAllString(s, "") }

func TestPretty_Text(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithTimeLayout("none"), WithLevel(LevelTrace))
	logger.Trace("call", slog.String("fn", "fib"), slog.Int("depth", 3), slog.Bool("ok", true))

	if !strings.Contains(buf.String(), colorMagenta+"TRACE") {
		t.Errorf("level not colorized: %q", buf.String())
	}

	want := "level=TRACE msg=call fn=fib depth=3 ok=true\n"
	if got := stripANSI(buf.String()); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPretty_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithTimeLayout("none"), WithFormat(FormatJSON))
	logger.Error("failed", slog.Any("error", errors.New("boom")))

	want := "{\n  level: ERROR,\n  msg: failed,\n  error: boom\n}\n"
	if got := stripANSI(buf.String()); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPretty_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithTimeLayout("none"))
	logger = logger.With(slog.String("file", "a.do"))
	logger.Logger = logger.WithGroup("pos")
	logger.Warn("w", slog.Int("line", 2))

	want := "level=WARN msg=w file=a.do pos.line=2\n"
	if got := stripANSI(buf.String()); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

type position struct{ line, col int }

func (p position) LogValue() slog.Value {
	return slog.GroupValue(slog.Int("line", p.line), slog.Int("column", p.col))
}

func TestPretty_LogValuer(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithTimeLayout("none")).Warn("at", slog.Any("pos", position{1, 4}))

	want := "level=WARN msg=at pos={line=1 column=4}\n"
	if got := stripANSI(buf.String()); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
