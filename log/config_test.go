package log

import (
	"log/slog"
	"slices"
	"testing"
	"time"
)

func TestOptions_SetFields(t *testing.T) {
	tests := []struct {
		name  string
		opt   Option
		check func(config) bool
	}{
		{"level", WithLevel(LevelTrace), func(c config) bool { return c.level == LevelTrace }},
		{"format", WithFormat(FormatJSON), func(c config) bool { return c.format == FormatJSON }},
		{"caller", WithCaller(true), func(c config) bool { return c.caller }},
		{"pretty", WithPretty(false), func(c config) bool { return !c.pretty }},
		{"output nil", WithOutput(nil), func(c config) bool { return c.output != nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.opt(config{})
			if !tt.check(c) {
				t.Errorf("option not applied: %+v", c)
			}

			if c.mutex == nil {
				t.Error("option did not initialize mutex")
			}
		})
	}
}

func TestConfig_Clone_IsIndependent(t *testing.T) {
	orig := makeConfig(nil, WithLevel(LevelError))
	clone := orig.clone(WithLevel(LevelDebug))

	if orig.level != LevelError || clone.level != LevelDebug {
		t.Errorf("levels: orig=%v clone=%v", orig.level, clone.level)
	}

	if orig.mutex == clone.mutex {
		t.Error("clone shares mutex with original")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{" debug ", LevelDebug},
		{"Info", LevelInfo},
		{"warn", LevelWarn},
		{"ERROR", LevelError},
		{"info+2", Level(2)},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{" text ", FormatText},
		{"xml", DefaultFormat},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelsAndFormats(t *testing.T) {
	if got := slices.Collect(Levels()); !slices.Equal(got, []string{"trace", "debug", "info", "warn", "error"}) {
		t.Errorf("Levels() = %v", got)
	}

	if got := slices.Collect(Formats()); !slices.Equal(got, []string{"text", "json"}) {
		t.Errorf("Formats() = %v", got)
	}

	for name := range Levels() {
		if ParseLevel(name).String() != name {
			t.Errorf("level %q does not round trip", name)
		}
	}
}

func TestLevel_Label(t *testing.T) {
	if got := LevelTrace.label(); got != "TRACE" {
		t.Errorf("got %q", got)
	}

	if got := Level(2).label(); got != "INFO+2" {
		t.Errorf("got %q", got)
	}
}

func TestMakeFormatTimeFunc(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-05T14:07:09Z"},
		{"kitchen", "2:07PM"},
		{"DateTime", "2024-03-05 14:07:09"},
		{"2006/01/02", "2024/03/05"},
		{"none", ""},
		{"   ", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			if got := makeFormatTimeFunc(tt.layout)(ts); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfig_Handler_Discard(t *testing.T) {
	c := makeConfig(nil, WithFormat(Format(99)), WithPretty(false))

	if h := c.handler(); h != slog.DiscardHandler {
		t.Errorf("expected discard handler, got %T", h)
	}
}
