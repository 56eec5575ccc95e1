package repl

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ardnew/dolang/lang"
	"github.com/ardnew/dolang/log"
)

// Session is an interpreter whose global scope persists across inputs, with
// program output captured so it can be printed above the prompt.
type Session struct {
	interp *lang.Interpreter
	out    *bytes.Buffer
	opts   []lang.Option
	logger log.Logger
}

// NewSession returns a session with a fresh global scope. Any
// [lang.WithStdout] in opts is overridden.
func NewSession(logger log.Logger, opts ...lang.Option) *Session {
	out := new(bytes.Buffer)
	opts = append(append([]lang.Option{lang.WithLogger(logger)}, opts...), lang.WithStdout(out))

	return &Session{
		interp: lang.New(opts...),
		out:    out,
		opts:   opts,
		logger: logger,
	}
}

// Global returns the session's global scope.
func (s *Session) Global() *lang.Env { return s.interp.Global() }

// Reset discards every binding.
func (s *Session) Reset() { s.interp.Reset() }

// Parse parses src with the session's options.
func (s *Session) Parse(ctx context.Context, src string) (*lang.Program, error) {
	return lang.Parse(ctx, src, s.opts...)
}

// Run runs prog in the session's global scope and returns the output it
// produced, including output written before an error.
func (s *Session) Run(ctx context.Context, prog *lang.Program) (string, error) {
	defer s.out.Reset()

	err := s.interp.Run(ctx, prog)

	s.logger.TraceContext(ctx, "repl run",
		slog.Int("statements", len(prog.Stmts)),
		slog.Int("output", s.out.Len()),
		slog.Bool("failed", err != nil),
	)

	return s.out.String(), err
}

// Exec parses and runs src.
func (s *Session) Exec(ctx context.Context, src string) (string, error) {
	prog, err := s.Parse(ctx, src)
	if err != nil {
		return "", err
	}

	return s.Run(ctx, prog)
}

// Bindings returns the user-defined global bindings in name order, each
// rendered as "name = value" or "fn name(params)".
func (s *Session) Bindings() []string {
	var out []string

	for name, v := range s.Global().All() {
		switch v := v.(type) {
		case *lang.Builtin:
			continue
		case *lang.Function:
			out = append(out, "fn "+name+"("+strings.Join(v.Params, ", ")+")")
		case lang.String:
			out = append(out, name+" = \""+string(v)+"\"")
		default:
			out = append(out, name+" = "+v.String())
		}
	}

	return out
}

// signature returns the parameter names of the function bound to name.
func (s *Session) signature(name string) ([]string, bool) {
	v, ok := s.Global().Get(name)
	if !ok {
		return nil, false
	}

	switch fn := v.(type) {
	case *lang.Function:
		return fn.Params, true
	case *lang.Builtin:
		return fn.Params, true
	}

	return nil, false
}

// isFunction reports whether name is bound to a callable value.
func (s *Session) isFunction(name string) bool {
	_, ok := s.signature(name)

	return ok
}

// incomplete reports whether err means the input ended before a statement
// or string literal was closed, so more lines may complete it.
func incomplete(err error) bool {
	return errors.Is(err, lang.ErrUnexpectedEOF) ||
		errors.Is(err, lang.ErrUnterminatedString)
}
