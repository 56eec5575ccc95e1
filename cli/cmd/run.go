package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/dolang/lang"
	"github.com/ardnew/dolang/log"
)

// Run parses and evaluates a script.
type Run struct {
	MaxDepth int `default:"${maxDepth}" help:"Maximum nesting and call depth."`

	Source string `arg:"" default:"-" help:"Script file or '-' for stdin." name:"source" optional:""`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readSource(ctx, r.Source)
	if err != nil {
		return err
	}

	opts := []lang.Option{
		lang.WithLogger(log.Default()),
		lang.WithStdout(stdout),
		lang.WithMaxDepth(r.MaxDepth),
	}

	prog, err := src.parse(ctx, opts...)
	if err != nil {
		return err
	}

	if err := lang.New(opts...).Run(ctx, prog); err != nil {
		return src.fail(err)
	}

	log.DebugContext(ctx, "script finished",
		slog.String("path", src.path),
		slog.Int("statements", len(prog.Stmts)),
	)

	return nil
}
