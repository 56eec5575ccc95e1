package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Class identifies the stage of the pipeline that produced an [Error].
type Class int

const (
	ClassNone    Class = iota // error
	ClassLexical              // lexical error
	ClassSyntax               // syntax error
	ClassRuntime              // runtime error
)

// String returns the human-readable prefix used in error messages.
func (c Class) String() string {
	switch c {
	case ClassLexical:
		return "lexical error"

	case ClassSyntax:
		return "syntax error"

	case ClassRuntime:
		return "runtime error"

	default:
		return "error"
	}
}

// Predefined errors (sentinel values).
//
// Errors returned by the lexer, parser and evaluator are derived from these
// with [Error.At], [Error.Detailf], [Error.Wrap] and [Error.With], and still
// match them with [errors.Is].
var (
	ErrReadInput   = NewError(ClassNone, "failed to read input")
	ErrWriteOutput = NewError(ClassNone, "failed to write output")

	ErrUnterminatedString = NewError(ClassLexical, "unterminated string")
	ErrUnexpectedChar     = NewError(ClassLexical, "unexpected character")

	ErrUnexpectedToken   = NewError(ClassSyntax, "unexpected token")
	ErrUnexpectedEOF     = NewError(ClassSyntax, "unexpected end of input")
	ErrExpectedNewline   = NewError(ClassSyntax, "expected newline")
	ErrExpectedTerm      = NewError(ClassSyntax, "expected expression")
	ErrMissingValue      = NewError(ClassSyntax, "return requires a value")
	ErrInvalidParameter  = NewError(ClassSyntax, "invalid parameter list")
	ErrDuplicateFunction = NewError(ClassSyntax, "function already defined in this scope")
	ErrIntegerOverflow   = NewError(ClassSyntax, "integer literal out of range")
	ErrNestingTooDeep    = NewError(ClassSyntax, "maximum nesting depth exceeded")

	ErrUndefinedVariable     = NewError(ClassRuntime, "undefined variable")
	ErrUndefinedFunction     = NewError(ClassRuntime, "undefined function")
	ErrNotCallable           = NewError(ClassRuntime, "value is not callable")
	ErrTypeMismatch          = NewError(ClassRuntime, "type mismatch")
	ErrDivisionByZero        = NewError(ClassRuntime, "division by zero")
	ErrArithmeticOverflow    = NewError(ClassRuntime, "integer overflow")
	ErrIndexOutOfRange       = NewError(ClassRuntime, "index out of range")
	ErrArityMismatch         = NewError(ClassRuntime, "wrong number of arguments")
	ErrMissingReturn         = NewError(ClassRuntime, "function returned without value")
	ErrReturnOutsideFunction = NewError(ClassRuntime, "return is only valid inside functions")
	ErrRedefinition          = NewError(ClassRuntime, "function already defined in this scope")
	ErrMaxDepthExceeded      = NewError(ClassRuntime, "maximum call depth exceeded")
	ErrInterrupted           = NewError(ClassRuntime, "evaluation interrupted")
)

// Error represents a lexical, syntax or runtime error with an optional source
// position and structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	class  Class
	msg    string
	detail string
	pos    Position
	hasPos bool
	err    error       // Wrapped error (for errors.Unwrap)
	attrs  []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error of the given class with a message.
func NewError(class Class, msg string) *Error {
	return &Error{class: class, msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The message has the form "<class> at <line>:<col>: <msg>: <detail>: <err>"
// where each part is omitted if unset.
func (e *Error) Error() string {
	var head strings.Builder

	head.WriteString(e.class.String())

	if e.hasPos {
		head.WriteString(" at ")
		head.WriteString(e.pos.String())
	}

	part := make([]string, 0, 4)
	part = append(part, head.String())

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.detail != "" {
		part = append(part, e.detail)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is a sentinel with the same class and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.class == e.class && t.msg == e.msg && t.msg != ""
}

// Class returns the pipeline stage that produced the error.
func (e *Error) Class() Class { return e.class }

// Message returns the error message without position or class prefix.
func (e *Error) Message() string {
	if e.detail == "" {
		return e.msg
	}

	return e.msg + ": " + e.detail
}

// Position returns the source position of the error, if known.
func (e *Error) Position() (Position, bool) { return e.pos, e.hasPos }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+5)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.class != ClassNone {
		attrs = append(attrs, slog.String("class", e.class.String()))
	}

	if e.detail != "" {
		attrs = append(attrs, slog.String("detail", e.detail))
	}

	if e.hasPos {
		attrs = append(attrs,
			slog.Int("line", e.pos.Line),
			slog.Int("column", e.pos.Column),
		)
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// clone returns a shallow copy of e with an independent attrs slice.
func (e *Error) clone() *Error {
	c := *e
	c.attrs = append([]slog.Attr(nil), e.attrs...)

	return &c
}

// At returns a copy of the error located at pos.
func (e *Error) At(pos Position) *Error {
	c := e.clone()
	c.pos, c.hasPos = pos, true

	return c
}

// Detailf returns a copy of the error with a formatted detail message.
func (e *Error) Detailf(format string, args ...any) *Error {
	c := e.clone()
	c.detail = fmt.Sprintf(format, args...)

	return c
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = append(c.attrs, attrs...)

	return c
}

// Snippet renders the error followed by the offending source line and a caret
// under the error column. If the error has no position, or the position lies
// outside source, only the error message is returned.
func (e *Error) Snippet(source string) string {
	var buf strings.Builder

	buf.WriteString(e.Error())
	buf.WriteRune('\n')

	if !e.hasPos {
		return buf.String()
	}

	lines := strings.Split(source, "\n")
	if e.pos.Line < 1 || e.pos.Line > len(lines) {
		return buf.String()
	}

	line := strings.TrimRight(lines[e.pos.Line-1], "\r")
	num := strconv.Itoa(e.pos.Line)

	buf.WriteString("  ")
	buf.WriteString(num)
	buf.WriteString(" | ")
	buf.WriteString(line)
	buf.WriteRune('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", len(num)+5)
	if e.pos.Column > 1 {
		padding += strings.Repeat(" ", e.pos.Column-1)
	}

	buf.WriteString(padding)
	buf.WriteString("^\n")

	return buf.String()
}
