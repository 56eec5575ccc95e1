package cmd

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/ardnew/dolang/lang"
)

// Error represents a CLI command error with structured logging support.
//
// An Error returned for a script carries the script's path and text, so
// [Error.Report] can point at the offending line.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr

	path   string
	source string
}

func NewError(msg string) *Error {
	return &Error{msg: msg}
}

func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.path != "" {
		attrs = append(attrs, slog.String("path", e.path))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return &c
}

// In records the script the error occurred in.
func (e *Error) In(path, source string) *Error {
	c := *e
	c.path = path
	c.source = source

	return &c
}

// Path returns the script path recorded by [Error.In].
func (e *Error) Path() string { return e.path }

// Report returns the message printed for e by the top-level handler. If e
// wraps a positioned [lang.Error] and knows its script, the report includes
// the offending source line.
func (e *Error) Report() string {
	var le *lang.Error
	if e.source != "" && errors.As(e.err, &le) {
		if _, ok := le.Position(); ok {
			report := le.Snippet(e.source)
			if e.path != "" {
				report = e.path + ": " + report
			}

			return report
		}
	}

	if e.path != "" {
		return e.path + ": " + e.Error() + "\n"
	}

	return e.Error() + "\n"
}

var (
	ErrOpenSource  = NewError("open source")
	ErrReadConfig  = NewError("read configuration file")
	ErrYAMLMarshal = NewError("marshal YAML")
	ErrWriteConfig = NewError("write configuration file")
	ErrFileExists  = NewError("file exists (use --force to overwrite)")
	ErrNoContext   = NewError("command context unavailable")
)
