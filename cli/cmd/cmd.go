package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/dolang/lang"
	"github.com/ardnew/dolang/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable named id, or "" if ctx carries no kong
// context or the variable is undefined.
func kongVar(ctx context.Context, id string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	return ktx.Model.Vars()[id]
}

// Standard streams used by the commands. Tests replace them.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// stdinName is the path reported for scripts read from stdin.
const stdinName = "<stdin>"

// source is a script's display path and full text.
type source struct {
	path string
	text string
}

// readSource reads the script named by name: a file path, or "-" (or "")
// for standard input.
func readSource(ctx context.Context, name string) (source, error) {
	if name == "" || name == stdinSource {
		text, err := lang.ReadSource(stdin)
		if err != nil {
			return source{path: stdinName}, err
		}

		log.DebugContext(ctx, "read source",
			slog.String("path", stdinName),
			slog.Int("bytes", len(text)),
		)

		return source{path: stdinName, text: text}, nil
	}

	file, err := os.Open(name)
	if err != nil {
		return source{path: name}, ErrOpenSource.
			With(slog.String("path", name)).
			Wrap(err)
	}
	defer file.Close()

	text, err := lang.ReadSource(file)
	if err != nil {
		return source{path: name}, ErrOpenSource.
			With(slog.String("path", name)).
			Wrap(err)
	}

	log.DebugContext(ctx, "read source",
		slog.String("path", name),
		slog.Int("bytes", len(text)),
	)

	return source{path: name, text: text}, nil
}

// fail attaches the script to err for reporting.
func (s source) fail(err error) *Error {
	return (&Error{err: err}).In(s.path, s.text)
}

// parse parses the script with the parse cache shared by all commands.
func (s source) parse(ctx context.Context, opts ...lang.Option) (*lang.Program, error) {
	prog, err := lang.ParseCached(ctx, s.text, opts...)
	if err != nil {
		return nil, s.fail(err)
	}

	return prog, nil
}
