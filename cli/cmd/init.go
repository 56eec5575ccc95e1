package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/dolang/log"
	"github.com/ardnew/dolang/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// configFileMode is the permission mode of a written configuration file.
const configFileMode fs.FileMode = 0o600

// ignoreFlags names flags never written to the configuration file.
var ignoreFlags = []string{"help", "version", "force"}

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrWriteConfig.Wrap(ErrNoContext)
	}

	confPath := ktx.Model.Vars()[ConfigIdentifier]
	if confPath == "" {
		return ErrWriteConfig.Wrap(ErrNoContext)
	}

	data, err := yaml.MarshalContext(ctx,
		configDoc(ktx, ktx.Model.Node),
		yaml.Indent(defaultConfigIndent),
	)
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if i.Force {
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	file, err := os.OpenFile(confPath, flag, configFileMode)
	if errors.Is(err, fs.ErrExist) {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	_, err = file.Write(data)
	if cerr := file.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.InfoContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// configDoc returns the flag values declared on node and its subcommands,
// nested by command name the way the YAML configuration resolver reads
// them. Commands without configurable flags are omitted.
func configDoc(ktx *kong.Context, node *kong.Node) map[string]any {
	doc := map[string]any{}

	for _, flag := range node.Flags {
		if flag.Hidden || slices.Contains(ignoreFlags, flag.Name) ||
			strings.HasPrefix(flag.Name, profile.Tag) {
			continue
		}

		if v, ok := configValue(ktx.FlagValue(flag)); ok {
			doc[flag.Name] = v
		}
	}

	for _, child := range node.Children {
		if child.Type != kong.CommandNode || child.Hidden {
			continue
		}

		if sub := configDoc(ktx, child); len(sub) > 0 {
			doc[child.Name] = sub
		}
	}

	return doc
}

// configValue converts a flag value to a YAML scalar or sequence. Empty
// strings and empty slices report false.
func configValue(v any) (any, bool) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Invalid:
		return nil, false

	case reflect.Bool:
		return rv.Bool(), true

	case reflect.String:
		return rv.String(), rv.Len() > 0

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), true

	case reflect.Float32, reflect.Float64:
		return rv.Float(), true

	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return nil, false
		}

		out := make([]any, 0, rv.Len())
		for i := range rv.Len() {
			if e, ok := configValue(rv.Index(i).Interface()); ok {
				out = append(out, e)
			}
		}

		return out, len(out) > 0

	default:
		return fmt.Sprint(v), true
	}
}
