package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/dolang/cli/cmd/repl"
	"github.com/ardnew/dolang/lang"
	"github.com/ardnew/dolang/log"
)

// Repl starts an interactive session.
type Repl struct {
	MaxDepth  int  `default:"${maxDepth}" help:"Maximum nesting and call depth."`
	NoHistory bool `help:"Do not read or write the history file."`

	Source string `arg:"" help:"Script to run before the first prompt." name:"source" optional:"" type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	session := repl.NewSession(log.Default(), lang.WithMaxDepth(r.MaxDepth))

	if r.Source != "" {
		src, err := readSource(ctx, r.Source)
		if err != nil {
			return err
		}

		prog, err := src.parse(ctx, lang.WithMaxDepth(r.MaxDepth))
		if err != nil {
			return err
		}

		out, err := session.Run(ctx, prog)
		fmt.Fprint(stdout, out)

		if err != nil {
			return src.fail(err)
		}
	}

	cacheDir := kongVar(ctx, CacheIdentifier)
	if r.NoHistory {
		cacheDir = ""
	}

	return repl.Run(ctx, session, cacheDir)
}
