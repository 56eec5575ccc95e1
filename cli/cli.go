package cli

import (
	"context"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/dolang/cli/cmd"
	"github.com/ardnew/dolang/lang"
	"github.com/ardnew/dolang/pkg"
)

// CLI is the top-level command-line interface for dolang.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Run  cmd.Run  `cmd:"" default:"withargs" help:"Run a script (default)"`
	Fmt  cmd.Fmt  `cmd:""                    help:"Format a script"`
	Repl cmd.Repl `cmd:""                    help:"Start an interactive session"`
	Init cmd.Init `cmd:""                    help:"Initialize configuration file"`
}

var helpOptions = kong.HelpOptions{
	Compact:             true,
	Summary:             true,
	Tree:                true,
	NoExpandSubcommands: true,
}

// newParser returns the kong parser for cli. Configuration is read from
// confBase with the JSON and then the YAML extension; values from the later
// file win.
func newParser(
	ctx context.Context,
	cli *CLI,
	exit func(code int),
	confBase string,
) (*kong.Kong, error) {
	vars := kong.Vars{
		"version":              pkg.Version,
		cmd.ConfigIdentifier:   confBase + extYAML,
		cmd.CacheIdentifier:    cacheDir(),
		cmd.MaxDepthIdentifier: strconv.Itoa(lang.DefaultMaxDepth),
	}

	return kong.New(cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ConfigureHelp(helpOptions),
		kong.ExplicitGroups([]kong.Group{cli.Log.group(), cli.Pprof.group()}),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
		configuration(ctx, confBase),
		vars.CloneWith(cli.Log.vars()).CloneWith(cli.Pprof.vars()),
	)
}

// configuration loads confBase with the JSON and then the YAML extension.
// goccy/go-yaml decodes JSON as YAML flow syntax, so both files go through
// [resolveYAML] and accept the same keys.
func configuration(ctx context.Context, confBase string) kong.Option {
	return kong.OptionFunc(func(k *kong.Kong) error {
		for _, ext := range []string{extJSON, extYAML} {
			if err := kong.Configuration(resolveYAML(ctx), confBase+ext).Apply(k); err != nil {
				return err
			}
		}

		return nil
	})
}

// Run parses args, then runs the selected command. The exit function is
// called by kong for --help, --version and usage errors.
func Run(ctx context.Context, exit func(code int), args ...string) error {
	if err := mkdirAllRequired(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var cli CLI

	// Logger flags take effect before parsing so that parse errors are
	// already reported with the requested level and format.
	cli.Log.scan(args)

	parser, err := newParser(ctx, &cli, exit, configPath(baseConfig))
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	defer cli.Log.start(ctx)()
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
