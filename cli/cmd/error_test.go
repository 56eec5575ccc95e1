package cmd

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/dolang/lang"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"empty", &Error{}, ""},
		{"msg", ErrOpenSource, "open source"},
		{"cause", &Error{err: errors.New("boom")}, "boom"},
		{"both", ErrOpenSource.Wrap(errors.New("boom")), "open source: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Is(t *testing.T) {
	cause := errors.New("boom")
	err := ErrReadConfig.With(slog.String("file", "x")).Wrap(cause)

	assert.ErrorIs(t, err, ErrReadConfig)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrWriteConfig)
	assert.NotErrorIs(t, &Error{}, &Error{}, "errors without a message never match")
	assert.Empty(t, ErrReadConfig.attrs, "With does not modify the sentinel")
}

func TestError_LogValue(t *testing.T) {
	err := ErrOpenSource.
		With(slog.Int("n", 1)).
		Wrap(errors.New("boom")).
		In("main.do", "")

	got := map[string]string{}
	for _, a := range err.LogValue().Group() {
		got[a.Key] = a.Value.String()
	}

	assert.Equal(t, map[string]string{
		"error": "open source",
		"cause": "boom",
		"path":  "main.do",
		"n":     "1",
	}, got)
}

func TestError_Report(t *testing.T) {
	src := "x = 1\ny = x / 0\n"
	cause := lang.ErrDivisionByZero.At(lang.Position{Line: 2, Column: 7})

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			"snippet",
			(&Error{err: cause}).In("main.do", src),
			"main.do: runtime error at 2:7: division by zero\n" +
				"  2 | y = x / 0\n" +
				"            ^\n",
		},
		{
			"no source",
			(&Error{err: cause}).In("main.do", ""),
			"main.do: runtime error at 2:7: division by zero\n",
		},
		{
			"no position",
			(&Error{err: lang.ErrDivisionByZero}).In("main.do", src),
			"main.do: runtime error: division by zero\n",
		},
		{
			"no path",
			ErrNoContext,
			"command context unavailable\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.err.Report())
		})
	}
}
