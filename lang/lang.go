package lang

import (
	"io"
	"os"

	"github.com/ardnew/dolang/log"
)

// DefaultMaxDepth is the default limit on both syntactic nesting depth and
// function call depth. Users may modify this before parsing or creating an
// interpreter to change the default.
var DefaultMaxDepth = 10000

// options holds configuration shared by the parser and the interpreter.
type options struct {
	logger   log.Logger // structured logger, zero value is a no-op
	stdout   io.Writer  // destination of print and auto-print output
	maxDepth int
}

// Option configures parsing or evaluation behavior.
type Option func(*options)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStdout sets the writer that receives program output (the print builtin
// and auto-printed top-level expression values). The default is os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(o *options) {
		if w == nil {
			w = io.Discard
		}

		o.stdout = w
	}
}

// WithMaxDepth sets the maximum syntactic nesting depth accepted by the parser
// and the maximum function call depth allowed by the interpreter.
// Values less than 1 select [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// makeOptions returns the defaults overridden by opts.
func makeOptions(opts ...Option) options {
	o := options{
		stdout:   os.Stdout,
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(&o)
	}

	if o.maxDepth < 1 {
		o.maxDepth = DefaultMaxDepth
	}

	return o
}
