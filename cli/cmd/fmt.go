package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/dolang/lang"
	"github.com/ardnew/dolang/log"
)

// Fmt parses a script and writes it back in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical dolang source (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as abstract syntax tree."`
}

// parseFormat reads and parses name for the formatter called format.
func parseFormat(ctx context.Context, name, format string) (*lang.Program, error) {
	src, err := readSource(ctx, name)
	if err != nil {
		return nil, err
	}

	prog, err := src.parse(ctx, lang.WithLogger(log.Default()))
	if err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "format",
		slog.String("path", src.path),
		slog.String("format", format),
	)

	return prog, nil
}

// Native formats input as canonical dolang source.
type Native struct {
	Indent int `default:"2" help:"Indent width; 0 indents with tabs." short:"i"`

	Source string `arg:"" default:"-" help:"Script file or '-' for stdin." name:"source" optional:""`
}

// Run executes the native formatter.
func (f *Native) Run(ctx context.Context) error {
	prog, err := parseFormat(ctx, f.Source, "native")
	if err != nil {
		return err
	}

	return prog.Format(stdout, f.Indent)
}

// JSON formats the syntax tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output; 0 is compact." short:"i"`

	Source string `arg:"" default:"-" help:"Script file or '-' for stdin." name:"source" optional:""`
}

// Run executes the json formatter.
func (j *JSON) Run(ctx context.Context) error {
	prog, err := parseFormat(ctx, j.Source, "json")
	if err != nil {
		return err
	}

	return prog.FormatJSON(stdout, j.Indent)
}

// YAML formats the syntax tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output." short:"i"`

	Source string `arg:"" default:"-" help:"Script file or '-' for stdin." name:"source" optional:""`
}

// Run executes the yaml formatter.
func (y *YAML) Run(ctx context.Context) error {
	prog, err := parseFormat(ctx, y.Source, "yaml")
	if err != nil {
		return err
	}

	return prog.FormatYAML(ctx, stdout, y.Indent)
}

// AST prints an indented dump of the syntax tree.
type AST struct {
	Source string `arg:"" default:"-" help:"Script file or '-' for stdin." name:"source" optional:""`
}

// Run executes the ast formatter.
func (a *AST) Run(ctx context.Context) error {
	prog, err := parseFormat(ctx, a.Source, "ast")
	if err != nil {
		return err
	}

	return prog.Print(stdout)
}
